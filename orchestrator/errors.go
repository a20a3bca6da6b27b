package orchestrator

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Failure kinds. Every *Error wraps exactly one of these.
var (
	ErrValidation = errors.New("invalid input")
	ErrRequest    = errors.New("request failed")
	ErrDevice     = errors.New("device unavailable")
)

// Error is a user-facing failure. Msg is what the user is shown.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalid(msg string) *Error { return &Error{Kind: ErrValidation, Msg: msg} }

func requestFailed(msg string, err error) *Error {
	return &Error{Kind: ErrRequest, Msg: msg, Err: err}
}

func deviceFailed(msg string, err error) *Error {
	return &Error{Kind: ErrDevice, Msg: msg, Err: err}
}

// Alerter shows a blocking, user-facing error message.
type Alerter interface {
	Alert(msg string)
}

type AlertFunc func(msg string)

func (f AlertFunc) Alert(msg string) { f(msg) }

// WriterAlert prints alerts as "Error: <msg>" lines.
func WriterAlert(w io.Writer) Alerter {
	if w == nil {
		w = os.Stderr
	}
	return AlertFunc(func(msg string) { fmt.Fprintf(w, "Error: %s\n", msg) })
}
