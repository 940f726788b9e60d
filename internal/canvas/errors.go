package canvas

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ErrAuth is returned when credentials are missing or malformed.
var ErrAuth = errors.New("invalid canvas credentials")

// APIError is a non-2xx response from Canvas.
type APIError struct {
	StatusCode int
	Method     string
	URL        string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// newAPIError extracts the message Canvas puts in error bodies, which is either
// {"errors":[{"message":...}]}, {"errors":{"field":...}} or {"message":...}.
func newAPIError(method, url string, status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Method: method, URL: url}

	var payload struct {
		Message string          `json:"message"`
		Errors  json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	if payload.Message != "" {
		apiErr.Message = payload.Message
		return apiErr
	}

	var list []struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Errors, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, e := range list {
			if e.Message != "" {
				msgs = append(msgs, e.Message)
			}
		}
		apiErr.Message = strings.Join(msgs, "; ")
		return apiErr
	}
	if len(payload.Errors) > 0 && string(payload.Errors) != "null" {
		apiErr.Message = string(payload.Errors)
	}
	return apiErr
}

// IsRetryable reports whether err is worth another attempt: rate limiting,
// server errors and transport timeouts. Other client errors are final.
// Cancellation of the caller's context is handled by RetryPolicy.Do.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
