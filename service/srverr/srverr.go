// Package srverr classifies service errors so handlers can map them to
// HTTP status codes.
package srverr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindOther Kind = iota
	KindInvalid
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid operation"
	case KindNotFound:
		return "item does not exist"
	case KindUnauthorized:
		return "unauthorized"
	}
	return "other error"
}

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func ErrorKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

func ErrInvalid(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalid, Err: fmt.Errorf(format, args...)}
}

func ErrNotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Err: fmt.Errorf(format, args...)}
}

func ErrUnauthorized(format string, args ...interface{}) error {
	return &Error{Kind: KindUnauthorized, Err: fmt.Errorf(format, args...)}
}
