package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Detail     string // from a JSON {"detail": ...} body
	Body       string // raw response text
}

// Error implements error with the status code and the user-facing message.
func (e *APIError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.StatusCode, e.Message())
}

// Message is the user-facing text: the detail field when present, else the
// raw body, else the HTTP status text.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Body != "" {
		return e.Body
	}
	return http.StatusText(e.StatusCode)
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: strings.TrimSpace(string(body))}

	var payload struct {
		Detail jsoniter.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return e
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		e.Detail = detail
		return e
	}

	// validation errors arrive as [{"msg": "...", ...}]
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil && len(items) > 0 {
		e.Detail = items[0].Msg
	}
	return e
}

// Message extracts the user-facing text of any client error.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}

// IsUnauthorized reports whether err is a 401 or 403 backend response.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}
