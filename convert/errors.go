package convert

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by Convert is an *Error whose Kind is
// one of these, so errors.Is(err, ErrNotFound) and friends work on it.
var (
	ErrNotFound        = errors.New("cannot access input file")
	ErrEmptyInput      = errors.New("empty input file")
	ErrOutOfMemory     = errors.New("insufficient memory")
	ErrIncompleteRead  = errors.New("cannot read input file")
	ErrAlreadyExists   = errors.New("already existing output file")
	ErrCreateFailed    = errors.New("cannot create output file")
	ErrWriteIncomplete = errors.New("cannot write output file")
	ErrEncodingFailed  = errors.New("cannot compress input file")
)

// Error describes a failed conversion: what went wrong, in which stage and
// on which file.
type Error struct {
	Kind  error
	Stage Stage
	Path  string
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Kind.Error()
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg = fmt.Sprintf("%s (%s)", msg, e.Stage)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Kind }

// Cause returns the underlying error, if any.
func (e *Error) Cause() error { return e.Err }

func fail(kind error, stage Stage, path string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Path: path, Err: err}
}
