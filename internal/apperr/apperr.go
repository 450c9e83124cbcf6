// Package apperr carries the error taxonomy shared by the service layer and
// the HTTP handlers. Handlers map kinds to status codes; services never
// swallow an error, they tag it and pass it up.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// Unknown is the zero kind for errors that did not originate here.
	Unknown Kind = iota
	// NotFound: quiz, question, category or user absent.
	NotFound
	// InvalidReference: malformed or unparseable id.
	InvalidReference
	// InvalidState: operation not allowed in the entity's current state,
	// e.g. answering a paused quiz or re-answering a question.
	InvalidState
	// InsufficientContent: not enough questions to sample a quiz.
	InsufficientContent
	// Unauthorized: credential or token failure.
	Unauthorized
	// Upstream: store or provider failure, wrapped with context.
	Upstream
)

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

// New builds a tagged error with a client-facing message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds a tagged error with a formatted client-facing message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error, keeping it reachable through errors.Is/As.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind of err, or Unknown for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err is tagged with kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
