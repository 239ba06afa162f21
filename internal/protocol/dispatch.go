package protocol

import "fmt"

// Rendered is a decoded broadcast. Exactly one of Trade or Status is set.
type Rendered struct {
	Type   MessageType
	Trade  *TradeBroadcast
	Status *StatusBroadcast
}

func (r Rendered) String() string {
	switch {
	case r.Trade != nil:
		t := r.Trade
		return fmt.Sprintf("TRADE: Product=%d | Price=%d | Qty=%d | BuyID=%d | SellID=%d | Net=%dns | Match=%dns",
			t.ProductID, t.Price, t.Quantity, t.BuyOrderID, t.SellOrderID,
			t.TradeNetworkTimeNanos32, t.InternalMatchTimeNanos32)
	case r.Status != nil:
		s := r.Status
		return fmt.Sprintf("STATUS: Product=%d | Bids=%d | Asks=%d | Matched=%d | Received=%d",
			s.ProductID, s.BidsDepth, s.AsksDepth, s.MatchedOrderCount, s.TotalReceivedOrderCount)
	default:
		return fmt.Sprintf("EMPTY: type=%s", r.Type)
	}
}

// Dispatch routes a received frame by its tag byte. Only broadcast tags are
// accepted; anything else yields *UnknownTagError carrying the full frame.
func Dispatch(b []byte) (Rendered, error) {
	if err := checkLength(b, "broadcast"); err != nil {
		return Rendered{}, err
	}
	switch tag := MessageType(b[TagOffset]); tag {
	case MsgTradeBroadcast:
		t, err := DecodeTradeBroadcast(b)
		if err != nil {
			return Rendered{}, err
		}
		return Rendered{Type: tag, Trade: &t}, nil
	case MsgStatusBroadcast:
		s, err := DecodeStatusBroadcast(b)
		if err != nil {
			return Rendered{}, err
		}
		return Rendered{Type: tag, Status: &s}, nil
	default:
		frame := make([]byte, len(b))
		copy(frame, b)
		return Rendered{}, &UnknownTagError{Tag: uint8(tag), Frame: frame}
	}
}
