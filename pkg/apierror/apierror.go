// Package apierror carries an HTTP status and a client-safe message along
// with an optional cause.
package apierror

import (
	"fmt"
	"net/http"
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
	// Cause is kept for errors.Is/As and logs; it is never serialized.
	Cause error `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Code + ": " + e.Message
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Wrap returns a copy of e with cause attached.
func (e *APIError) Wrap(cause error) *APIError {
	wrapped := *e
	wrapped.Cause = cause
	return &wrapped
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

func BadRequest(message string, details string) *APIError {
	return New("BAD_REQUEST", message, details, http.StatusBadRequest)
}
