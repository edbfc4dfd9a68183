// Package httputil writes JSON responses and error bodies for HTTP handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Code is the machine-readable error identifier returned to clients.
type Code string

const (
	CodeBadRequest  Code = "bad_request"
	CodeNotFound    Code = "not_found"
	CodeUnavailable Code = "upstream_unavailable"
	CodeInternal    Code = "internal_error"
)

var statusByCode = map[Code]int{
	CodeBadRequest:  http.StatusBadRequest,
	CodeNotFound:    http.StatusNotFound,
	CodeUnavailable: http.StatusBadGateway,
	CodeInternal:    http.StatusInternalServerError,
}

// Error is an error that knows how it is presented to clients.
type Error struct {
	Code        Code
	Description string
}

func NewError(code Code, description string) *Error {
	return &Error{Code: code, Description: description}
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Description
}

// Status maps the code to an HTTP status, 500 for unknown codes.
func (e *Error) Status() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Error       Code   `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteError renders err as {"error", "error_description"}. Errors that are
// not an *Error, and internal errors, never expose their description.
func WriteError(w http.ResponseWriter, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = NewError(CodeInternal, "")
	}
	body := errorBody{Error: e.Code}
	if e.Code != CodeInternal {
		body.Description = e.Description
	}
	WriteJSON(w, e.Status(), body)
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
