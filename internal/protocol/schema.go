package protocol

import (
	"encoding/binary"
	"fmt"
)

// FieldKind selects how a field's bytes are interpreted.
type FieldKind uint8

const (
	FieldUint FieldKind = iota // big-endian unsigned integer
	FieldRaw                   // opaque bytes copied verbatim
)

// FieldSpec declares one field of a payload. Offset is relative to the
// payload start (frame byte 2).
type FieldSpec struct {
	Name   string
	Offset int
	Width  int
	Kind   FieldKind
}

// Layout declares the payload schema for one message type.
type Layout struct {
	Type   MessageType
	Fields []FieldSpec
}

// Used returns the number of payload bytes covered by declared fields.
func (l Layout) Used() int {
	used := 0
	for _, f := range l.Fields {
		if end := f.Offset + f.Width; end > used {
			used = end
		}
	}
	return used
}

// Field indexes into the layouts below. Order matches the Fields slices.
const (
	orderProductID = iota
	orderOrderID
	orderPrice
	orderQuantity
	orderSide
	orderPriceKind
	orderSubmitTime
	orderExpireTime
)

const (
	cancelOrderID = iota
)

const (
	tradeInstanceTag = iota
	tradeProductID
	tradeBuyOrderID
	tradeSellOrderID
	tradePrice
	tradeQuantity
	tradeNetworkTime
	tradeInternalMatchTime
)

const (
	statusInstanceTag = iota
	statusProductID
	statusBidsDepth
	statusAsksDepth
	statusMatchedOrders
	statusReceivedOrders
	statusStartTime
)

var (
	OrderSubmitLayout = Layout{
		Type: MsgOrderSubmit,
		Fields: []FieldSpec{
			{Name: "product_id", Offset: 0, Width: 2},
			{Name: "order_id", Offset: 2, Width: 8},
			{Name: "price", Offset: 10, Width: 8},
			{Name: "quantity", Offset: 18, Width: 4},
			{Name: "side", Offset: 22, Width: 1},
			{Name: "price_kind", Offset: 23, Width: 1},
			{Name: "submit_time_nanos", Offset: 24, Width: 8},
			{Name: "expire_time_nanos", Offset: 32, Width: 8},
		},
	}

	OrderCancelLayout = Layout{
		Type: MsgOrderCancel,
		Fields: []FieldSpec{
			{Name: "order_id", Offset: 0, Width: 8},
		},
	}

	// The pairing of the two 32-bit time fields has no authoritative encoder
	// on the client side; offsets follow the engine's decoder contract.
	TradeBroadcastLayout = Layout{
		Type: MsgTradeBroadcast,
		Fields: []FieldSpec{
			{Name: "instance_tag", Offset: 0, Width: 8, Kind: FieldRaw},
			{Name: "product_id", Offset: 8, Width: 2},
			{Name: "buy_order_id", Offset: 10, Width: 8},
			{Name: "sell_order_id", Offset: 18, Width: 8},
			{Name: "price", Offset: 26, Width: 8},
			{Name: "quantity", Offset: 34, Width: 4},
			{Name: "trade_network_time_nanos32", Offset: 38, Width: 4},
			{Name: "internal_match_time_nanos32", Offset: 42, Width: 4},
		},
	}

	StatusBroadcastLayout = Layout{
		Type: MsgStatusBroadcast,
		Fields: []FieldSpec{
			{Name: "instance_tag", Offset: 0, Width: 8, Kind: FieldRaw},
			{Name: "product_id", Offset: 8, Width: 2},
			{Name: "bids_depth", Offset: 10, Width: 4},
			{Name: "asks_depth", Offset: 14, Width: 4},
			{Name: "matched_order_count", Offset: 18, Width: 4},
			{Name: "total_received_order_count", Offset: 22, Width: 4},
			{Name: "start_time_nanos", Offset: 26, Width: 8},
		},
	}
)

var layouts = map[MessageType]Layout{
	MsgOrderSubmit:     OrderSubmitLayout,
	MsgOrderCancel:     OrderCancelLayout,
	MsgTradeBroadcast:  TradeBroadcastLayout,
	MsgStatusBroadcast: StatusBroadcastLayout,
}

// LayoutFor returns the payload schema registered for t.
func LayoutFor(t MessageType) (Layout, bool) {
	l, ok := layouts[t]
	return l, ok
}

func (l Layout) span(i int) (int, int) {
	f := l.Fields[i]
	start := PayloadOffset + f.Offset
	return start, start + f.Width
}

// newFrame returns a zeroed frame with the tag set.
func (l Layout) newFrame() Frame {
	var f Frame
	f[TagOffset] = byte(l.Type)
	return f
}

// Widths are fixed by the tables above; anything else is a table defect.
func (l Layout) putUint(f *Frame, i int, v uint64) {
	start, end := l.span(i)
	b := f[start:end]
	switch len(b) {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.BigEndian.PutUint16(b, uint16(v))
	case 4:
		binary.BigEndian.PutUint32(b, uint32(v))
	case 8:
		binary.BigEndian.PutUint64(b, v)
	default:
		panic(fmt.Sprintf("protocol: %s field %q has unsupported width %d", l.Type, l.Fields[i].Name, len(b)))
	}
}

func (l Layout) putRaw(f *Frame, i int, v []byte) {
	start, end := l.span(i)
	copy(f[start:end], v)
}

// readUint and readRaw assume b has already passed checkLength.
func (l Layout) readUint(b []byte, i int) uint64 {
	start, end := l.span(i)
	v := b[start:end]
	switch len(v) {
	case 1:
		return uint64(v[0])
	case 2:
		return uint64(binary.BigEndian.Uint16(v))
	case 4:
		return uint64(binary.BigEndian.Uint32(v))
	case 8:
		return binary.BigEndian.Uint64(v)
	default:
		panic(fmt.Sprintf("protocol: %s field %q has unsupported width %d", l.Type, l.Fields[i].Name, len(v)))
	}
}

func (l Layout) readRaw(b []byte, i int) []byte {
	start, end := l.span(i)
	return b[start:end]
}
