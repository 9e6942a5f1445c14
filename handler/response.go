package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/shopspring/decimal"
	"github.com/sicko7947/petstore"
)

// Response headers
const (
	HeaderAllowOrigin = "Access-Control-Allow-Origin"
	HeaderContentType = "Content-Type"
)

const encodeFailureBody = `{"error":"Failed to encode response"}`

func defaultHeaders() map[string]string {
	return map[string]string{
		HeaderAllowOrigin: "*",
		HeaderContentType: "application/json",
	}
}

// respond builds a proxy response with a JSON body
func respond(status int, body any) events.APIGatewayProxyResponse {
	payload, err := encodeJSON(body)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    defaultHeaders(),
			Body:       encodeFailureBody,
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    defaultHeaders(),
		Body:       payload,
	}
}

// respondError builds the {"error": ..., "detail": ...} response for err
func respondError(err *petstore.APIError) events.APIGatewayProxyResponse {
	return respond(err.Status, err.Body())
}

func encodeJSON(body any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(renderValue(body)); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// renderValue replaces every decimal.Decimal in v, at any depth, with a JSON number
func renderValue(v any) any {
	switch val := v.(type) {
	case decimal.Decimal:
		return renderDecimal(val)
	case petstore.Pet:
		return renderMap(val)
	case map[string]any:
		return renderMap(val)
	case []petstore.Pet:
		out := make([]any, len(val))
		for i, pet := range val {
			out[i] = renderMap(pet)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = renderValue(item)
		}
		return out
	default:
		return v
	}
}

func renderMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, item := range m {
		out[k] = renderValue(item)
	}
	return out
}

// renderDecimal renders whole values as integer literals (10, not 10.0) and
// everything else rounded to two decimal places (99.99). Rounding is half away
// from zero on the exact value, so 1.005 renders as 1.01, not the 1.0 a binary
// float round would give.
func renderDecimal(d decimal.Decimal) json.Number {
	whole := d.Truncate(0)
	if d.Equal(whole) {
		return json.Number(whole.String())
	}
	return json.Number(d.Round(2).String())
}
