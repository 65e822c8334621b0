// Package service holds the page logic that sits between the handlers and
// the backend repositories: schema building, intake routing, concurrent
// page fetches and exports.
package service

import (
	"errors"
	"fmt"

	"github.com/lexflow/lexflow-web/internal/backend"
)

// ErrNotFound is returned when the backend answers 404 for a resource.
var ErrNotFound = errors.New("not found")

func notFound(err error, what string) error {
	if backend.IsNotFound(err) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

var userMessages = []struct {
	err     error
	msg     string
	invalid bool
}{
	{ErrCredentialsRequired, "Email and password are required", true},
	{ErrFormNameRequired, "Form name is required", true},
	{ErrNoFields, "Add at least one field", true},
	{ErrEmptyFieldName, "Every field needs a name", true},
	{ErrDuplicateField, "Field names must be unique", true},
	{ErrInvalidStatus, "Unknown status", true},
	{ErrSignatureName, "Please enter your full name", true},
	{ErrNotAgreed, "Please agree to the terms", true},
	{ErrSignatureFailed, "Failed to submit signature", false},
	{ErrPaymentFailed, "Failed to process payment", false},
}

// UserMessage returns the banner text for err: a fixed sentence for the
// service's own errors, the backend's detail otherwise, else fallback.
func UserMessage(err error, fallback string) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return backend.Message(err, fallback)
}

// Invalid reports whether err was raised by input checks before any
// backend call.
func Invalid(err error) bool {
	for _, m := range userMessages {
		if m.invalid && errors.Is(err, m.err) {
			return true
		}
	}
	return false
}
