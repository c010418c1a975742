package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Failure reasons callers branch on with errors.Is
var (
	ErrNetwork      = errors.New("could not connect to the server")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
	ErrDecode       = errors.New("failed to decode response")
)

// APIError is a non-2xx response from the API
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("request failed (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("request failed (status %d): %s", e.StatusCode, e.Detail)
}

// Is lets errors.Is match an APIError against the failure reasons by status code
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrServer:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// parseAPIError builds an APIError from a response body. The API answers
// {"detail": "..."}; anything else is kept verbatim.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil {
			apiErr.Detail = detail
		} else {
			apiErr.Detail = string(payload.Detail)
		}
		return apiErr
	}

	apiErr.Detail = strings.TrimSpace(string(body))
	return apiErr
}
