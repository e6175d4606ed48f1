package models

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInputMissing
	KindBackendUnavailable
	KindParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindInputMissing:
		return "input-missing"
	case KindBackendUnavailable:
		return "backend-unavailable"
	case KindParse:
		return "parse-error"
	default:
		return "unknown"
	}
}

var (
	ErrInputMissing       = errors.New("input missing")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrParse              = errors.New("parse error")
)

// Error carries the failure kind of an operation so callers can decide
// between aborting and showing a message.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInputMissing:
		return e.Kind == KindInputMissing
	case ErrBackendUnavailable:
		return e.Kind == KindBackendUnavailable
	case ErrParse:
		return e.Kind == KindParse
	}
	return false
}

func NewError(kind ErrorKind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
