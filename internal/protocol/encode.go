package protocol

// EncodeOrderSubmit serializes o. Values are not range-checked beyond
// their declared widths.
func EncodeOrderSubmit(o Order) Frame {
	l := OrderSubmitLayout
	f := l.newFrame()
	l.putUint(&f, orderProductID, uint64(o.ProductID))
	l.putUint(&f, orderOrderID, o.OrderID)
	l.putUint(&f, orderPrice, o.Price)
	l.putUint(&f, orderQuantity, uint64(o.Quantity))
	l.putUint(&f, orderSide, uint64(o.Side))
	l.putUint(&f, orderPriceKind, uint64(o.PriceKind))
	l.putUint(&f, orderSubmitTime, o.SubmitTimeNanos)
	l.putUint(&f, orderExpireTime, o.ExpireTimeNanos)
	f.seal()
	return f
}

// EncodeOrderCancel serializes a cancellation for orderID.
func EncodeOrderCancel(orderID uint64) Frame {
	l := OrderCancelLayout
	f := l.newFrame()
	l.putUint(&f, cancelOrderID, orderID)
	f.seal()
	return f
}

// EncodeTradeBroadcast mirrors DecodeTradeBroadcast's layout. It exists to
// build fixtures; each time field is written from its own member.
func EncodeTradeBroadcast(t TradeBroadcast) Frame {
	l := TradeBroadcastLayout
	f := l.newFrame()
	l.putRaw(&f, tradeInstanceTag, t.InstanceTag[:])
	l.putUint(&f, tradeProductID, uint64(t.ProductID))
	l.putUint(&f, tradeBuyOrderID, t.BuyOrderID)
	l.putUint(&f, tradeSellOrderID, t.SellOrderID)
	l.putUint(&f, tradePrice, t.Price)
	l.putUint(&f, tradeQuantity, uint64(t.Quantity))
	l.putUint(&f, tradeNetworkTime, uint64(t.TradeNetworkTimeNanos32))
	l.putUint(&f, tradeInternalMatchTime, uint64(t.InternalMatchTimeNanos32))
	f.seal()
	return f
}

// EncodeStatusBroadcast mirrors DecodeStatusBroadcast's layout for fixtures.
func EncodeStatusBroadcast(s StatusBroadcast) Frame {
	l := StatusBroadcastLayout
	f := l.newFrame()
	l.putRaw(&f, statusInstanceTag, s.InstanceTag[:])
	l.putUint(&f, statusProductID, uint64(s.ProductID))
	l.putUint(&f, statusBidsDepth, uint64(s.BidsDepth))
	l.putUint(&f, statusAsksDepth, uint64(s.AsksDepth))
	l.putUint(&f, statusMatchedOrders, uint64(s.MatchedOrderCount))
	l.putUint(&f, statusReceivedOrders, uint64(s.TotalReceivedOrderCount))
	l.putUint(&f, statusStartTime, s.StartTimeNanos)
	f.seal()
	return f
}
