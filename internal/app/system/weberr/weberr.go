// Package weberr defines the error kinds the API hands back to clients
// and helpers for classifying them at the handler boundary.
//
// The one deliberate oddity is NotFoundOrForbidden: failing the
// campaign-level access gate reports the same thing as a missing
// document, so callers cannot probe for the existence of campaigns they
// were not invited to.
package weberr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	// Internal is the zero kind: anything unclassified is a 500.
	Internal Kind = iota
	// Unauthorized means no (or an invalid) signed-in user.
	Unauthorized
	// Validation means a missing or malformed request field.
	Validation
	// NotFound means the id did not resolve to a document.
	NotFound
	// NotFoundOrForbidden is the campaign gate failure. Deliberately
	// indistinguishable from NotFound on the wire.
	NotFoundOrForbidden
	// Forbidden means the document exists and the caller may know it
	// exists, but the operation is not allowed.
	Forbidden
)

// Error is a classified error with a client-safe message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a classified error with a client-visible message.
func E(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap attaches a kind and client-visible message to an underlying
// error. The underlying error is logged server-side, never sent to the
// client.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or Internal for unclassified errors.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return Internal
}

// Message returns the client-safe message for err. Unclassified errors
// get a generic message so internals never leak into response bodies.
func Message(err error) string {
	var we *Error
	if errors.As(err, &we) {
		return we.Msg
	}
	return "internal error"
}
