package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sicko7947/petstore"
	"github.com/sicko7947/petstore/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore implements petstore.PetStore with overridable operations
type stubStore struct {
	petstore.PetStore
	getErr    error
	listErr   error
	putErr    error
	updateErr error
	deleteErr error
	puts      int
	updates   []map[string]any
}

func newStubStore() *stubStore {
	return &stubStore{PetStore: store.NewMemoryStore()}
}

func (s *stubStore) GetPet(ctx context.Context, id string) (petstore.Pet, bool, error) {
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	return s.PetStore.GetPet(ctx, id)
}

func (s *stubStore) ListPets(ctx context.Context) ([]petstore.Pet, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.PetStore.ListPets(ctx)
}

func (s *stubStore) PutPet(ctx context.Context, pet petstore.Pet) error {
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	return s.PetStore.PutPet(ctx, pet)
}

func (s *stubStore) UpdatePet(ctx context.Context, id string, fields map[string]any) error {
	s.updates = append(s.updates, fields)
	if s.updateErr != nil {
		return s.updateErr
	}
	return s.PetStore.UpdatePet(ctx, id, fields)
}

func (s *stubStore) DeletePet(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.PetStore.DeletePet(ctx, id)
}

func newTestHandler(s petstore.PetStore, opts ...Option) *Handler {
	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	return NewHandler(s, opts...)
}

func invoke(t *testing.T, h *Handler, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	t.Helper()
	resp, err := h.Handle(context.Background(), req)
	require.NoError(t, err, "Handle must never return an error")
	return resp
}

func withID(id string) map[string]string {
	return map[string]string{petstore.PathParamPetID: id}
}

func decodeObject(t *testing.T, body string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var out map[string]any
	require.NoError(t, dec.Decode(&out), "body: %s", body)
	return out
}

func decodeArray(t *testing.T, body string) []map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var out []map[string]any
	require.NoError(t, dec.Decode(&out), "body: %s", body)
	return out
}

func TestHandler_CreateThenRead(t *testing.T) {
	h := newTestHandler(store.NewMemoryStore())

	created := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/pets",
		Body:       `{"name": "Lola", "price": 99.99}`,
	})
	require.Equal(t, http.StatusCreated, created.StatusCode)

	pet := decodeObject(t, created.Body)
	id, ok := pet["id"].(string)
	require.True(t, ok, "created pet must carry a generated id")
	assert.NotEmpty(t, id)
	assert.Equal(t, json.Number("99.99"), pet["price"])

	read := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod:     http.MethodGet,
		Path:           "/pets/" + id,
		PathParameters: withID(id),
	})
	require.Equal(t, http.StatusOK, read.StatusCode)
	assert.Contains(t, read.Body, `"price":99.99`)

	got := decodeObject(t, read.Body)
	assert.Equal(t, id, got["id"])
	assert.Equal(t, "Lola", got["name"])
	assert.Equal(t, json.Number("99.99"), got["price"])
}

func TestHandler_WholeNumberRendering(t *testing.T) {
	h := newTestHandler(store.NewMemoryStore())

	for _, price := range []string{`10`, `10.0`, `"10.00"`} {
		t.Run(price, func(t *testing.T) {
			resp := invoke(t, h, events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       fmt.Sprintf(`{"price": %s}`, price),
			})
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			assert.Contains(t, resp.Body, `"price":10`)
			assert.NotContains(t, resp.Body, `"price":10.`)
		})
	}
}

func TestHandler_DeleteNonexistent(t *testing.T) {
	h := newTestHandler(store.NewMemoryStore())

	resp := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod:     http.MethodDelete,
		PathParameters: withID("does-not-exist"),
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Pet does-not-exist deleted", decodeObject(t, resp.Body)["message"])
}

func TestHandler_DeleteExisting(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.PutPet(context.Background(), petstore.Pet{"id": "pet-1"}))
	h := newTestHandler(s)

	resp := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod:     http.MethodDelete,
		PathParameters: withID("pet-1"),
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, found, err := s.GetPet(context.Background(), "pet-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHandler_UpdateRejectsEmptyPayload(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		isBase64 bool
	}{
		{name: "no body", body: ""},
		{name: "empty object", body: "{}"},
		{name: "unparsable", body: "{not json"},
		{name: "json array", body: `["name"]`},
		{name: "bad base64", body: "%%%", isBase64: true},
		{name: "only id", body: `{"id": "other"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStubStore()
			h := newTestHandler(s)

			resp := invoke(t, h, events.APIGatewayProxyRequest{
				HTTPMethod:      http.MethodPut,
				PathParameters:  withID("pet-1"),
				Body:            tt.body,
				IsBase64Encoded: tt.isBase64,
			})

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, petstore.MsgNoFieldsToUpdate, decodeObject(t, resp.Body)["error"])
			assert.Empty(t, s.updates, "storage must not be called")
		})
	}
}

func TestHandler_UpdatePartialCoercion(t *testing.T) {
	s := newStubStore()
	require.NoError(t, s.PetStore.PutPet(context.Background(), petstore.Pet{"id": "pet-1", "name": "Rex"}))
	h := newTestHandler(s)

	resp := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod:     http.MethodPut,
		PathParameters: withID("pet-1"),
		Body:           `{"name": "Lola", "age": "3", "vaccinated": true}`,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Pet pet-1 updated", decodeObject(t, resp.Body)["message"])

	require.Len(t, s.updates, 1)
	fields := s.updates[0]
	assert.Equal(t, "Lola", fields["name"])
	assert.Equal(t, true, fields["vaccinated"])
	age, ok := fields["age"].(decimal.Decimal)
	require.True(t, ok, "age should be coerced to a decimal")
	assert.True(t, age.Equal(decimal.NewFromInt(3)))

	read := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod:     http.MethodGet,
		PathParameters: withID("pet-1"),
	})
	got := decodeObject(t, read.Body)
	assert.Equal(t, json.Number("3"), got["age"])
	assert.Equal(t, "Lola", got["name"])
}

func TestHandler_UpdateIgnoresID(t *testing.T) {
	s := newStubStore()
	h := newTestHandler(s)

	resp := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod:     http.MethodPut,
		PathParameters: withID("pet-1"),
		Body:           `{"id": "hijack", "name": "Lola"}`,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, s.updates, 1)
	assert.NotContains(t, s.updates[0], petstore.FieldID)
}

func TestHandler_UpdateRequiresPetID(t *testing.T) {
	h := newTestHandler(store.NewMemoryStore())

	resp := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPut,
		Body:       `{"name": "Lola"}`,
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, petstore.MsgPetIDRequired, decodeObject(t, resp.Body)["error"])
}

func TestHandler_UpdateStorageFailure(t *testing.T) {
	s := newStubStore()
	s.updateErr = errors.New("ConditionalCheckFailed")
	h := newTestHandler(s)

	resp := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod:     http.MethodPut,
		PathParameters: withID("pet-1"),
		Body:           `{"name": "Lola"}`,
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeObject(t, resp.Body)
	assert.Equal(t, petstore.MsgUpdateFailed, body["error"])
	assert.Contains(t, body["detail"], "ConditionalCheckFailed")
}

func TestHandler_DeleteRequiresPetID(t *testing.T) {
	h := newTestHandler(store.NewMemoryStore())

	resp := invoke(t, h, events.APIGatewayProxyRequest{HTTPMethod: http.MethodDelete})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, petstore.MsgPetIDRequired, decodeObject(t, resp.Body)["error"])
}

func TestHandler_UnsupportedMethod(t *testing.T) {
	h := newTestHandler(store.NewMemoryStore())

	for _, method := range []string{http.MethodPatch, "get", http.MethodHead, ""} {
		t.Run(method, func(t *testing.T) {
			resp := invoke(t, h, events.APIGatewayProxyRequest{HTTPMethod: method})

			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
			assert.Equal(t, fmt.Sprintf("Method %s not allowed", method), decodeObject(t, resp.Body)["error"])
		})
	}
}

func TestHandler_CreateRejectsInvalidPrice(t *testing.T) {
	for _, price := range []string{`"not-a-number"`, `true`, `null`, `{"amount": 1}`, `"NaN"`} {
		t.Run(price, func(t *testing.T) {
			s := newStubStore()
			h := newTestHandler(s)

			resp := invoke(t, h, events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       fmt.Sprintf(`{"name": "Lola", "price": %s}`, price),
			})

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, petstore.MsgInvalidPrice, decodeObject(t, resp.Body)["error"])
			assert.Zero(t, s.puts, "nothing may be persisted")

			pets, err := s.ListPets(context.Background())
			require.NoError(t, err)
			assert.Empty(t, pets)
		})
	}
}

func TestHandler_CreateRejectsOversizedPrice(t *testing.T) {
	for _, price := range []string{`"1e50000000"`, `1e50000000`, `-1e999999999`, `1e-50000000`} {
		t.Run(price, func(t *testing.T) {
			s := newStubStore()
			h := newTestHandler(s)

			resp := invoke(t, h, events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       fmt.Sprintf(`{"price": %s}`, price),
			})

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, petstore.MsgInvalidPrice, decodeObject(t, resp.Body)["error"])
			assert.Less(t, len(resp.Body), 100)
			assert.Zero(t, s.puts)
		})
	}
}

func TestHandler_CreateKeepsOversizedNumberLiteral(t *testing.T) {
	h := newTestHandler(newStubStore())

	resp := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       `{"name": "Lola", "weight": 1e50000000}`,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Less(t, len(resp.Body), 200)
	assert.Equal(t, json.Number("1e50000000"), decodeObject(t, resp.Body)["weight"])
}

func TestHandler_UpdateLeavesOversizedNumbersUncoerced(t *testing.T) {
	s := newStubStore()
	h := newTestHandler(s)

	resp := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod:     http.MethodPut,
		PathParameters: withID("pet-1"),
		Body:           `{"age": "1e50000000", "weight": 1e999999999, "legs": "4"}`,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, s.updates, 1)
	fields := s.updates[0]
	assert.Equal(t, "1e50000000", fields["age"])
	assert.Equal(t, json.Number("1e999999999"), fields["weight"])
	legs, ok := fields["legs"].(decimal.Decimal)
	require.True(t, ok)
	assert.True(t, legs.Equal(decimal.NewFromInt(4)))

	read := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod:     http.MethodGet,
		PathParameters: withID("pet-1"),
	})
	assert.Less(t, len(read.Body), 200)
}

func TestHandler_CreateDiscardsCallerID(t *testing.T) {
	h := newTestHandler(store.NewMemoryStore(), WithIDGenerator(func() string { return "generated-1" }))

	resp := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       `{"id": "caller-id", "name": "Lola"}`,
	})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "generated-1", decodeObject(t, resp.Body)["id"])
}

func TestHandler_CreateBase64Body(t *testing.T) {
	h := newTestHandler(store.NewMemoryStore())

	resp := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"name": "Lola", "age": 2}`)),
		IsBase64Encoded: true,
	})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	pet := decodeObject(t, resp.Body)
	assert.Equal(t, "Lola", pet["name"])
	assert.Equal(t, json.Number("2"), pet["age"])
}

func TestHandler_CreateWithUnparsableBody(t *testing.T) {
	h := newTestHandler(store.NewMemoryStore())

	resp := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       "{broken",
	})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	pet := decodeObject(t, resp.Body)
	assert.Len(t, pet, 1)
	assert.NotEmpty(t, pet["id"])
}

func TestHandler_CreateStorageFailure(t *testing.T) {
	s := newStubStore()
	s.putErr = errors.New("throttled")
	h := newTestHandler(s)

	resp := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       `{"name": "Lola"}`,
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeObject(t, resp.Body)
	assert.Equal(t, petstore.MsgCreateFailed, body["error"])
	assert.NotContains(t, body, "detail")
}

func TestHandler_ReadMissingReturnsEmptyObject(t *testing.T) {
	h := newTestHandler(store.NewMemoryStore())

	resp := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod:     http.MethodGet,
		PathParameters: withID("missing"),
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "{}", resp.Body)
}

func TestHandler_ReadStorageFailure(t *testing.T) {
	s := newStubStore()
	s.getErr = errors.New("timeout")
	s.listErr = errors.New("timeout")
	h := newTestHandler(s)

	one := invoke(t, h, events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, PathParameters: withID("pet-1")})
	assert.Equal(t, http.StatusInternalServerError, one.StatusCode)
	assert.Equal(t, petstore.MsgFetchFailed, decodeObject(t, one.Body)["error"])

	all := invoke(t, h, events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet})
	assert.Equal(t, http.StatusInternalServerError, all.StatusCode)
	assert.Equal(t, petstore.MsgListFailed, decodeObject(t, all.Body)["error"])
}

func TestHandler_DeleteStorageFailure(t *testing.T) {
	s := newStubStore()
	s.deleteErr = errors.New("timeout")
	h := newTestHandler(s)

	resp := invoke(t, h, events.APIGatewayProxyRequest{HTTPMethod: http.MethodDelete, PathParameters: withID("pet-1")})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHandler_ListAll(t *testing.T) {
	h := newTestHandler(store.NewMemoryStore())

	empty := invoke(t, h, events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/pets"})
	require.Equal(t, http.StatusOK, empty.StatusCode)
	assert.Equal(t, "[]", empty.Body)

	const n = 5
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		resp := invoke(t, h, events.APIGatewayProxyRequest{
			HTTPMethod: http.MethodPost,
			Body:       fmt.Sprintf(`{"name": "pet-%d", "price": %d.5}`, i, i),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		ids = append(ids, decodeObject(t, resp.Body)["id"].(string))
	}

	resp := invoke(t, h, events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/pets"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	pets := decodeArray(t, resp.Body)
	assert.GreaterOrEqual(t, len(pets), n)

	listed := make([]string, 0, len(pets))
	for _, pet := range pets {
		listed = append(listed, pet["id"].(string))
	}
	for _, id := range ids {
		assert.Contains(t, listed, id)
	}
}

func TestHandler_ResponseHeaders(t *testing.T) {
	h := newTestHandler(store.NewMemoryStore())

	for _, req := range []events.APIGatewayProxyRequest{
		{HTTPMethod: http.MethodGet},
		{HTTPMethod: http.MethodPatch},
		{HTTPMethod: http.MethodDelete},
	} {
		resp := invoke(t, h, req)
		assert.Equal(t, "*", resp.Headers[HeaderAllowOrigin])
		assert.Equal(t, "application/json", resp.Headers[HeaderContentType])
	}
}
