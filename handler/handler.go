package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sicko7947/petstore"
)

// Handler dispatches normalized HTTP events to pet store operations.
// It keeps no state between invocations beyond its injected dependencies.
type Handler struct {
	store  petstore.PetStore
	logger zerolog.Logger
	newID  func() string
}

// Option configures the handler
type Option func(*Handler)

// WithLogger sets a custom logger for the handler
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithIDGenerator replaces the UUID generator used for new pets
func WithIDGenerator(newID func() string) Option {
	return func(h *Handler) {
		h.newID = newID
	}
}

// NewHandler creates a new request dispatcher backed by store.
// If no logger is provided, a default stdout logger with Info level is used.
func NewHandler(store petstore.PetStore, opts ...Option) *Handler {
	defaultLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger().
		Level(zerolog.InfoLevel)

	h := &Handler{
		store:  store,
		logger: defaultLogger,
		newID:  uuid.NewString,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Handle serves one event. The returned error is always nil: every failure is
// reported as a structured response so nothing escapes to the transport.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	petID := req.PathParameters[petstore.PathParamPetID]
	logger := petstore.RequestLogger(h.logger, req.HTTPMethod, req.Path, petID)

	petstore.LogRequestReceived(logger, req.HTTPMethod, req.Path, req.PathParameters, req.IsBase64Encoded)

	body := h.readBody(logger, req)

	var (
		status  int
		payload any
		err     error
	)

	switch req.HTTPMethod {
	case http.MethodGet:
		status, payload, err = h.getPets(ctx, logger, petID)
	case http.MethodPost:
		status, payload, err = h.createPet(ctx, logger, body)
	case http.MethodPut:
		status, payload, err = h.updatePet(ctx, logger, petID, body)
	case http.MethodDelete:
		status, payload, err = h.deletePet(ctx, logger, petID)
	default:
		err = petstore.MethodNotAllowed(req.HTTPMethod)
	}

	if err != nil {
		apiErr := petstore.AsAPIError(err, "Internal server error")
		if !petstore.IsAPIError(apiErr, http.StatusInternalServerError) {
			petstore.LogRequestRejected(logger, apiErr.Status, apiErr.Message)
		}
		return respondError(apiErr), nil
	}

	return respond(status, payload), nil
}

func (h *Handler) readBody(logger zerolog.Logger, req events.APIGatewayProxyRequest) map[string]any {
	if req.Body == "" {
		petstore.LogBodyMissing(logger, req.HTTPMethod, req.Path)
		return map[string]any{}
	}

	body, err := decodeBody(req.Body, req.IsBase64Encoded)
	if err != nil {
		petstore.LogBodyDecodeFailed(logger, req.HTTPMethod, req.Path, err)
		return body
	}

	petstore.LogBodyDecoded(logger, req.HTTPMethod, req.Path, body)
	return body
}

// GET /pets or /pets/{petId}
func (h *Handler) getPets(ctx context.Context, logger zerolog.Logger, petID string) (int, any, error) {
	if petID == "" {
		pets, err := h.store.ListPets(ctx)
		if err != nil {
			petstore.LogStorageError(logger, "", "list", err)
			return 0, nil, petstore.InternalError(petstore.MsgListFailed)
		}
		return http.StatusOK, pets, nil
	}

	pet, found, err := h.store.GetPet(ctx, petID)
	if err != nil {
		petstore.LogStorageError(logger, petID, "get", err)
		return 0, nil, petstore.InternalError(petstore.MsgFetchFailed)
	}
	if !found {
		return http.StatusOK, map[string]any{}, nil
	}

	return http.StatusOK, pet, nil
}

// POST /pets
func (h *Handler) createPet(ctx context.Context, logger zerolog.Logger, body map[string]any) (int, any, error) {
	pet := make(petstore.Pet, len(body)+1)
	for name, value := range body {
		// The generated id always wins over a caller supplied one
		if name == petstore.FieldID {
			continue
		}
		pet[name] = petstore.NormalizeNumbers(value)
	}

	if raw, ok := body[petstore.FieldPrice]; ok {
		price, err := coercePrice(raw)
		if err != nil {
			logger.Warn().Err(err).Msg("Price conversion error")
			return 0, nil, err
		}
		pet[petstore.FieldPrice] = price
	}

	pet[petstore.FieldID] = h.newID()

	if err := h.store.PutPet(ctx, pet); err != nil {
		petstore.LogStorageError(logger, pet.ID(), "put", err)
		return 0, nil, petstore.InternalError(petstore.MsgCreateFailed)
	}

	petstore.LogPetCreated(logger, pet.ID(), len(pet))
	return http.StatusCreated, pet, nil
}

// PUT /pets/{petId}
func (h *Handler) updatePet(ctx context.Context, logger zerolog.Logger, petID string, body map[string]any) (int, any, error) {
	if petID == "" {
		return 0, nil, petstore.BadRequest(petstore.MsgPetIDRequired)
	}

	logger.Debug().Interface("updates", body).Msg("Received updates")

	fields := make(map[string]any, len(body))
	for name, value := range body {
		// The partition key is immutable
		if name == petstore.FieldID {
			continue
		}
		fields[name] = coerceField(value)
	}

	if len(fields) == 0 {
		return 0, nil, petstore.BadRequest(petstore.MsgNoFieldsToUpdate)
	}

	if err := h.store.UpdatePet(ctx, petID, fields); err != nil {
		petstore.LogStorageError(logger, petID, "update", err)
		return 0, nil, petstore.InternalError(petstore.MsgUpdateFailed).WithDetail(err)
	}

	petstore.LogPetUpdated(logger, petID, fieldNames(fields))
	return http.StatusOK, map[string]any{"message": fmt.Sprintf("Pet %s updated", petID)}, nil
}

// DELETE /pets/{petId}
func (h *Handler) deletePet(ctx context.Context, logger zerolog.Logger, petID string) (int, any, error) {
	if petID == "" {
		return 0, nil, petstore.BadRequest(petstore.MsgPetIDRequired)
	}

	if err := h.store.DeletePet(ctx, petID); err != nil {
		petstore.LogStorageError(logger, petID, "delete", err)
		return 0, nil, petstore.InternalError(petstore.MsgDeleteFailed)
	}

	petstore.LogPetDeleted(logger, petID)
	return http.StatusOK, map[string]any{"message": fmt.Sprintf("Pet %s deleted", petID)}, nil
}

func fieldNames(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
