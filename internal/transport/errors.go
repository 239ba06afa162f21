package transport

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAddress = errors.New("transport: invalid address")
	ErrNotMulticast   = errors.New("transport: not a multicast address")
	ErrUnsupported    = errors.New("transport: unsupported address family")
	ErrPartialSend    = errors.New("transport: partial send")
	ErrBind           = errors.New("transport: bind failed")
	ErrJoin           = errors.New("transport: multicast join failed")
	ErrSocket         = errors.New("transport: socket error")
)

// Error carries the operation, address and kind of a transport failure.
// It matches both Kind and the underlying cause under errors.Is.
type Error struct {
	Op   string
	Addr string
	Kind error
	Err  error
	Sent int
	Want int
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%v: op=%s addr=%s", e.Kind, e.Op, e.Addr)
	if errors.Is(e.Kind, ErrPartialSend) {
		msg += fmt.Sprintf(" sent=%d want=%d", e.Sent, e.Want)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
