package client

import (
	"net"
	"time"

	"github.com/danmuck/mcorder/internal/observability"
	"github.com/danmuck/mcorder/internal/protocol"
	"github.com/rs/zerolog/log"
)

// FrameSender is satisfied by *transport.Sender.
type FrameSender interface {
	Send(dest *net.UDPAddr, frame []byte) error
}

// SubmitRequest carries the caller-supplied order fields. ExpireAfter is in
// whole seconds; zero means good-till-cancelled.
type SubmitRequest struct {
	ProductID   uint16
	Price       uint64
	Quantity    uint32
	Side        protocol.Side
	PriceKind   protocol.PriceKind
	ExpireAfter uint64
}

// Sent describes a frame that was handed to the transport.
type Sent struct {
	Dest  *net.UDPAddr
	Type  protocol.MessageType
	Frame protocol.Frame
	// Order is set for submits, Cancel for cancels.
	Order  protocol.Order
	Cancel protocol.Cancel
}

type Requester struct {
	sender FrameSender
	dest   *net.UDPAddr
	now    func() time.Time
}

func NewRequester(sender FrameSender, dest *net.UDPAddr) *Requester {
	return &Requester{sender: sender, dest: dest, now: time.Now}
}

// WithClock replaces the time source used for submit timestamps.
func (r *Requester) WithClock(now func() time.Time) *Requester {
	r.now = now
	return r
}

// Submit stamps, encodes and sends an order. The order id is the submit
// time in nanoseconds since the epoch.
func (r *Requester) Submit(req SubmitRequest) (Sent, error) {
	now := r.now().UnixNano()
	if now < 0 {
		return Sent{}, ErrClockBeforeEpoch
	}
	submit := uint64(now)
	expire, err := ExpiryNanos(submit, req.ExpireAfter)
	if err != nil {
		return Sent{}, err
	}

	order := protocol.Order{
		ProductID:       req.ProductID,
		OrderID:         submit,
		Price:           req.Price,
		Quantity:        req.Quantity,
		Side:            req.Side,
		PriceKind:       req.PriceKind,
		SubmitTimeNanos: submit,
		ExpireTimeNanos: expire,
	}
	sent, err := r.send(protocol.EncodeOrderSubmit(order))
	if err != nil {
		return Sent{}, err
	}
	sent.Order = order
	log.Info().
		Uint64("order_id", order.OrderID).
		Uint16("product_id", order.ProductID).
		Uint64("price", order.Price).
		Uint32("quantity", order.Quantity).
		Stringer("side", order.Side).
		Stringer("price_kind", order.PriceKind).
		Bool("gtc", order.GTC()).
		Msg("order submitted")
	return sent, nil
}

func (r *Requester) Cancel(orderID uint64) (Sent, error) {
	sent, err := r.send(protocol.EncodeOrderCancel(orderID))
	if err != nil {
		return Sent{}, err
	}
	sent.Cancel = protocol.Cancel{OrderID: orderID}
	log.Info().Uint64("order_id", orderID).Msg("cancel submitted")
	return sent, nil
}

func (r *Requester) send(f protocol.Frame) (Sent, error) {
	typ := f.Type()
	if err := r.sender.Send(r.dest, f[:]); err != nil {
		observability.RecordSendError(typ.String())
		return Sent{}, err
	}
	observability.RecordFrameSent(typ.String())
	return Sent{Dest: r.dest, Type: typ, Frame: f}, nil
}
