package task

import (
	"errors"
	"fmt"
)

// Kind classifies a command failure.
type Kind int

const (
	KindUsage Kind = iota + 1
	KindMissingStore
	KindEmpty
	KindNotFound
	KindMalformedID
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindMissingStore:
		return "missing-store"
	case KindEmpty:
		return "empty"
	case KindNotFound:
		return "not-found"
	case KindMalformedID:
		return "malformed-id"
	case KindIO:
		return "io"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a user-facing command failure. Error() is the exact line printed
// to the user.
type Error struct {
	Kind Kind
	ID   int
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingStore, KindEmpty:
		return "No existing task(s)."
	case KindNotFound:
		return fmt.Sprintf("No task found with ID: %d", e.ID)
	case KindMalformedID:
		return "Task-ID has to be a number."
	case KindIO:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "task store error"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}
