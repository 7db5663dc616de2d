package model

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the client. Callers match them with errors.Is.
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrMediaNotFound     = errors.New("media not found")
	ErrMediaRead         = errors.New("media read failure")
	ErrVideoOpen         = errors.New("video open failure")
	ErrRemoteCall        = errors.New("remote call failure")
)

// OpError records the operation and media reference that failed.
// Both Kind and Err are reachable through errors.Is and errors.As.
type OpError struct {
	Op   string // Operation name, e.g. "process_local_image"
	Ref  string // Media reference or path involved, may be empty
	Kind error  // One of the Err* kinds above
	Err  error  // Underlying cause, may be nil
}

// NewOpError creates an OpError.
func NewOpError(op, ref string, kind, err error) *OpError {
	return &OpError{Op: op, Ref: ref, Kind: kind, Err: err}
}

func (e *OpError) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Ref != "" {
		msg += fmt.Sprintf(" (%s)", e.Ref)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
