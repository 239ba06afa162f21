package protocol

import (
	"encoding/hex"
	"fmt"
)

const (
	FrameSize      = 50
	ChecksumOffset = 0
	TagOffset      = 1
	PayloadOffset  = 2
	PayloadSize    = FrameSize - PayloadOffset
)

// MessageType is the tag byte at offset 1 of every frame.
type MessageType uint8

const (
	MsgOrderSubmit     MessageType = 1
	MsgOrderCancel     MessageType = 2
	MsgTradeBroadcast  MessageType = 10
	MsgStatusBroadcast MessageType = 11
)

func (t MessageType) String() string {
	switch t {
	case MsgOrderSubmit:
		return "order_submit"
	case MsgOrderCancel:
		return "order_cancel"
	case MsgTradeBroadcast:
		return "trade_broadcast"
	case MsgStatusBroadcast:
		return "status_broadcast"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Side is the order side byte.
type Side uint8

const (
	SideBuy  Side = 1
	SideSell Side = 2
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

// PriceKind is the order price type byte.
type PriceKind uint8

const (
	PriceLimit  PriceKind = 1
	PriceMarket PriceKind = 2
)

func (k PriceKind) String() string {
	switch k {
	case PriceLimit:
		return "limit"
	case PriceMarket:
		return "market"
	default:
		return fmt.Sprintf("price_kind(%d)", uint8(k))
	}
}

// InstanceTag identifies the engine instance that produced a broadcast.
// It is copied verbatim and never read as a number.
type InstanceTag [8]byte

func (t InstanceTag) String() string {
	return hex.EncodeToString(t[:])
}

// Frame is one complete wire message.
type Frame [FrameSize]byte

// Bytes returns a copy of the frame contents.
func (f Frame) Bytes() []byte {
	out := make([]byte, FrameSize)
	copy(out, f[:])
	return out
}

// Type returns the tag byte.
func (f Frame) Type() MessageType {
	return MessageType(f[TagOffset])
}

// Order is the OrderSubmit payload. ExpireTimeNanos of zero means good-till-cancelled.
type Order struct {
	ProductID       uint16
	OrderID         uint64
	Price           uint64
	Quantity        uint32
	Side            Side
	PriceKind       PriceKind
	SubmitTimeNanos uint64
	ExpireTimeNanos uint64
}

// GTC reports whether the order never expires.
func (o Order) GTC() bool {
	return o.ExpireTimeNanos == 0
}

// Cancel is the OrderCancel payload.
type Cancel struct {
	OrderID uint64
}

// TradeBroadcast is a fill published by the engine.
type TradeBroadcast struct {
	InstanceTag              InstanceTag
	ProductID                uint16
	BuyOrderID               uint64
	SellOrderID              uint64
	Price                    uint64
	Quantity                 uint32
	TradeNetworkTimeNanos32  uint32
	InternalMatchTimeNanos32 uint32
}

// StatusBroadcast is the periodic book/engine status published by the engine.
type StatusBroadcast struct {
	InstanceTag             InstanceTag
	ProductID               uint16
	BidsDepth               uint32
	AsksDepth               uint32
	MatchedOrderCount       uint32
	TotalReceivedOrderCount uint32
	StartTimeNanos          uint64
}
