package client

import "errors"

var (
	ErrExpiryOverflow   = errors.New("client: expiry timestamp overflow")
	ErrClockBeforeEpoch = errors.New("client: system clock before unix epoch")
	ErrInvalidSide      = errors.New("client: invalid side")
	ErrInvalidPriceKind = errors.New("client: invalid price kind")
	ErrInvalidPrice     = errors.New("client: invalid price")
)
