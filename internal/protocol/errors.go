package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrTooShort   = errors.New("protocol: frame too short")
	ErrTooLong    = errors.New("protocol: frame too long")
	ErrUnknownTag = errors.New("protocol: unknown message tag")
)

// FormatError reports a frame whose length does not match the fixed frame size.
type FormatError struct {
	Kind     error
	Message  string
	Expected int
	Actual   int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: %s expected=%d actual=%d", e.Kind, e.Message, e.Expected, e.Actual)
}

func (e *FormatError) Unwrap() error {
	return e.Kind
}

// Is reports an oversized frame as ErrTooShort as well, so callers that only
// check for a short frame still treat any wrong length as malformed.
func (e *FormatError) Is(target error) bool {
	return target == ErrTooShort && e.Kind == ErrTooLong
}

// UnknownTagError reports a well-sized frame carrying an unrecognized tag.
// Frame holds a copy of the received bytes for diagnostics.
type UnknownTagError struct {
	Tag   uint8
	Frame []byte
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("protocol: unknown message tag %d: %v", e.Tag, e.Frame)
}

func (e *UnknownTagError) Unwrap() error {
	return ErrUnknownTag
}

func checkLength(b []byte, message string) error {
	switch {
	case len(b) < FrameSize:
		return &FormatError{Kind: ErrTooShort, Message: message, Expected: FrameSize, Actual: len(b)}
	case len(b) > FrameSize:
		return &FormatError{Kind: ErrTooLong, Message: message, Expected: FrameSize, Actual: len(b)}
	}
	return nil
}
