package petstore

import (
	"errors"
	"fmt"
	"net/http"
)

// Error messages returned to callers
const (
	MsgInvalidPrice     = "Invalid price value"
	MsgPetIDRequired    = "petId is required in path"
	MsgNoFieldsToUpdate = "No fields to update"
	MsgUpdateFailed     = "Update failed"
	MsgFetchFailed      = "Failed to fetch pet"
	MsgListFailed       = "Failed to list pets"
	MsgCreateFailed     = "Failed to create pet"
	MsgDeleteFailed     = "Failed to delete pet"
)

// ErrInvalidPrice is returned when a price cannot be read as a decimal number
var ErrInvalidPrice = errors.New("invalid price value")

// APIError is a failure that is reported to the caller as an HTTP response
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Detail  string `json:"detail,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%d] %s", e.Status, e.Message)
}

// Body returns the JSON payload for the error
func (e *APIError) Body() map[string]any {
	body := map[string]any{"error": e.Message}
	if e.Detail != "" {
		body["detail"] = e.Detail
	}
	return body
}

// NewAPIError creates a new API error
func NewAPIError(status int, message string) *APIError {
	return &APIError{
		Status:  status,
		Message: message,
	}
}

// WithDetail attaches the underlying failure text to the error
func (e *APIError) WithDetail(err error) *APIError {
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

// BadRequest creates a 400 error
func BadRequest(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, message)
}

// InternalError creates a 500 error
func InternalError(message string) *APIError {
	return NewAPIError(http.StatusInternalServerError, message)
}

// MethodNotAllowed creates a 405 error naming the rejected method
func MethodNotAllowed(method string) *APIError {
	return NewAPIError(http.StatusMethodNotAllowed, fmt.Sprintf("Method %s not allowed", method))
}

// AsAPIError converts any error into an APIError. Errors that are not
// already API errors become a 500 with the given message.
func AsAPIError(err error, message string) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, ErrInvalidPrice) {
		return BadRequest(MsgInvalidPrice)
	}

	return InternalError(message)
}

// IsAPIError checks if an error is an APIError with the given status
func IsAPIError(err error, status int) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == status
}
