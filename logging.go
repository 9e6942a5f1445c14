package petstore

import (
	"github.com/rs/zerolog"
)

// Log event names
const (
	// Request-level events
	EventRequestReceived  = "request_received"
	EventBodyDecoded      = "body_decoded"
	EventBodyMissing      = "body_missing"
	EventBodyDecodeFailed = "body_decode_failed"
	EventRequestRejected  = "request_rejected"

	// Record-level events
	EventPetCreated = "pet_created"
	EventPetUpdated = "pet_updated"
	EventPetDeleted = "pet_deleted"

	// Persistence events
	EventStorageError = "storage_error"
)

// LogRequestReceived logs the incoming event
func LogRequestReceived(logger zerolog.Logger, method, path string, pathParams map[string]string, base64Encoded bool) {
	logger.Debug().
		Str("event", EventRequestReceived).
		Str("method", method).
		Str("path", path).
		Interface("path_parameters", pathParams).
		Bool("is_base64_encoded", base64Encoded).
		Msg("Request received")
}

// LogBodyDecoded logs a successfully decoded request body
func LogBodyDecoded(logger zerolog.Logger, method, path string, body map[string]any) {
	logger.Debug().
		Str("event", EventBodyDecoded).
		Str("method", method).
		Str("path", path).
		Interface("body", body).
		Msg("Decoded request body")
}

// LogBodyMissing logs a request without a body
func LogBodyMissing(logger zerolog.Logger, method, path string) {
	logger.Debug().
		Str("event", EventBodyMissing).
		Str("method", method).
		Str("path", path).
		Msg("No body found")
}

// LogBodyDecodeFailed logs a body that could not be decoded
func LogBodyDecodeFailed(logger zerolog.Logger, method, path string, err error) {
	logger.Warn().
		Str("event", EventBodyDecodeFailed).
		Str("method", method).
		Str("path", path).
		Err(err).
		Msg("Failed to parse body")
}

// LogRequestRejected logs a request answered with a client error
func LogRequestRejected(logger zerolog.Logger, status int, reason string) {
	logger.Info().
		Str("event", EventRequestRejected).
		Int("status", status).
		Str("reason", reason).
		Msg("Request rejected")
}

// LogPetCreated logs a newly stored pet
func LogPetCreated(logger zerolog.Logger, petID string, fields int) {
	logger.Info().
		Str("event", EventPetCreated).
		Str("pet_id", petID).
		Int("fields", fields).
		Msg("Inserted item")
}

// LogPetUpdated logs a partial update
func LogPetUpdated(logger zerolog.Logger, petID string, fields []string) {
	logger.Info().
		Str("event", EventPetUpdated).
		Str("pet_id", petID).
		Strs("fields", fields).
		Msg("Pet updated")
}

// LogPetDeleted logs a delete request
func LogPetDeleted(logger zerolog.Logger, petID string) {
	logger.Info().
		Str("event", EventPetDeleted).
		Str("pet_id", petID).
		Msg("Pet deleted")
}

// LogStorageError logs errors during storage operations
func LogStorageError(logger zerolog.Logger, petID, operation string, err error) {
	logger.Error().
		Str("event", EventStorageError).
		Str("pet_id", petID).
		Str("operation", operation).
		Err(err).
		Msg("Storage error")
}

// RequestLogger creates a logger enriched with request context
func RequestLogger(baseLogger zerolog.Logger, method, path, petID string) zerolog.Logger {
	ctx := baseLogger.With().
		Str("method", method).
		Str("path", path)
	if petID != "" {
		ctx = ctx.Str("pet_id", petID)
	}
	return ctx.Logger()
}
