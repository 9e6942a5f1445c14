package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errBodyNotObject = errors.New("request body is not a JSON object")

// decodeBody turns the raw event body into a field map. It never fails the
// request: a missing, undecodable or non-object body yields an empty map, and
// the cause (if any) is returned for logging only.
func decodeBody(raw string, base64Encoded bool) (map[string]any, error) {
	empty := map[string]any{}
	if raw == "" {
		return empty, nil
	}

	text := raw
	if base64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return empty, fmt.Errorf("failed to decode base64 body: %w", err)
		}
		text = string(decoded)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return empty, fmt.Errorf("failed to parse body: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return empty, fmt.Errorf("failed to parse body: unexpected data after JSON value")
	}

	switch v := value.(type) {
	case nil:
		return empty, nil
	case map[string]any:
		return v, nil
	default:
		return empty, errBodyNotObject
	}
}
