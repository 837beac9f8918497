package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.StatusCode, e.Message)
}

// TransportError means no response was received.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend unavailable: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

const maxErrorBody = 64 << 10

func newAPIError(resp *http.Response) *APIError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	body := string(data)
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    messageFromBody(body, resp.StatusCode),
		Body:       body,
	}
}

// messageFromBody prefers the backend's "message" field, then "error".
func messageFromBody(body string, status int) string {
	if gjson.Valid(body) {
		for _, field := range []string{"message", "error"} {
			if v := gjson.Get(body, field); v.Type == gjson.String && strings.TrimSpace(v.String()) != "" {
				return v.String()
			}
		}
	}
	return http.StatusText(status)
}

// BackendMessage extracts the backend-supplied message from err, if any.
func BackendMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" && apiErr.Message != http.StatusText(apiErr.StatusCode) {
		return apiErr.Message, true
	}
	return "", false
}

func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsUnauthorized(err error) bool { return StatusCode(err) == http.StatusUnauthorized }
func IsForbidden(err error) bool    { return StatusCode(err) == http.StatusForbidden }
func IsNotFound(err error) bool     { return StatusCode(err) == http.StatusNotFound }

// IsValidation covers the remaining 4xx answers, which carry a rule violation message.
func IsValidation(err error) bool {
	code := StatusCode(err)
	return code >= 400 && code < 500 &&
		code != http.StatusUnauthorized && code != http.StatusForbidden && code != http.StatusNotFound
}

func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}
