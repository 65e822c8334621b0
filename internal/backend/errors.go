package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is returned when the backend answers with a non-2xx status.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: %d: %s", e.Status, e.Detail)
}

// newError extracts a human readable message from an error body. FastAPI
// puts it in "detail", either a string or a list of {"msg": ...} for
// validation failures.
func newError(status int, body []byte) *Error {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return &Error{Status: status, Detail: fmt.Sprintf("Server error: %d %s", status, http.StatusText(status))}
	}

	if len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil && s != "" {
			return &Error{Status: status, Detail: s}
		}
		var list []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(payload.Detail, &list) == nil {
			msgs := make([]string, 0, len(list))
			for _, item := range list {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				return &Error{Status: status, Detail: strings.Join(msgs, "; ")}
			}
		}
	}
	if payload.Message != "" {
		return &Error{Status: status, Detail: payload.Message}
	}
	return &Error{Status: status}
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var be *Error
	if errors.As(err, &be) {
		return be.Status
	}
	return 0
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// Message returns the backend's detail for err, or fallback when err is
// not a backend error or carried no detail.
func Message(err error, fallback string) string {
	var be *Error
	if errors.As(err, &be) && be.Detail != "" {
		return be.Detail
	}
	return fallback
}
