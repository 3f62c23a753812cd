package apperror

import (
	"errors"
	"maps"
)

// Error is a failure carrying the operation that produced it, a client-facing
// message and optional structured context for the logs.
type Error struct {
	Op      string
	Message string
	Context map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil && e.Cause.Error() != e.Message {
		if e.Message == "" {
			return e.Cause.Error()
		}
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func New(op, message string) *Error {
	return &Error{
		Op:      op,
		Message: message,
	}
}

// Wrap returns nil for a nil err.
func Wrap(op string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Op:      op,
		Message: err.Error(),
		Cause:   err,
	}
}

// WithContext returns a copy of e with key set; e itself is left untouched.
func (e *Error) WithContext(key string, value any) *Error {
	cp := *e
	cp.Context = make(map[string]any, len(e.Context)+1)
	maps.Copy(cp.Context, e.Context)
	cp.Context[key] = value
	return &cp
}

// MessageOf returns the message a client may see for err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr != nil && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}

// OpOf returns the operation of the outermost *Error in the chain.
func OpOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr != nil {
		return appErr.Op
	}
	return ""
}

// ContextOf merges the context of every *Error in the chain. Outer values win.
func ContextOf(err error) map[string]any {
	merged := map[string]any{}
	var chain []*Error
	for err != nil {
		if appErr, ok := err.(*Error); ok && appErr != nil {
			chain = append(chain, appErr)
		}
		err = errors.Unwrap(err)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		maps.Copy(merged, chain[i].Context)
	}
	return merged
}
