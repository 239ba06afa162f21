package client

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"
	"strings"

	"github.com/danmuck/mcorder/internal/protocol"
	"github.com/shopspring/decimal"
)

const nanosPerSecond = 1_000_000_000

var maxPrice = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

func ParseSide(s string) (protocol.Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return protocol.SideBuy, nil
	case "sell":
		return protocol.SideSell, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be buy or sell)", ErrInvalidSide, s)
	}
}

func ParsePriceKind(s string) (protocol.PriceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "limit":
		return protocol.PriceLimit, nil
	case "market":
		return protocol.PriceMarket, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be limit or market)", ErrInvalidPriceKind, s)
	}
}

// ParsePrice converts a decimal price into integer ticks by shifting it
// left by decimals places. The result must be a whole, non-negative number
// that fits 64 bits.
func ParsePrice(s string, decimals int32) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidPrice, s, err)
	}
	ticks := d.Shift(decimals)
	if !ticks.IsInteger() {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidPrice, s, decimals)
	}
	if ticks.Sign() < 0 || ticks.GreaterThan(maxPrice) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidPrice, s)
	}
	return ticks.BigInt().Uint64(), nil
}

// ExpiryNanos returns submitNanos + seconds*1e9, or zero (good-till-cancelled)
// when seconds is zero. Overflow of either step is an error.
func ExpiryNanos(submitNanos, seconds uint64) (uint64, error) {
	if seconds == 0 {
		return 0, nil
	}
	hi, offset := bits.Mul64(seconds, nanosPerSecond)
	if hi != 0 {
		return 0, fmt.Errorf("%w: duration %ds", ErrExpiryOverflow, seconds)
	}
	expire, carry := bits.Add64(submitNanos, offset, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: submit=%d duration=%ds", ErrExpiryOverflow, submitNanos, seconds)
	}
	return expire, nil
}
