package protocol

// Decoders check only the frame length. They neither read the tag nor
// verify the checksum; callers run VerifyChecksum before trusting contents.

func DecodeOrderSubmit(b []byte) (Order, error) {
	if err := checkLength(b, "order submit"); err != nil {
		return Order{}, err
	}
	l := OrderSubmitLayout
	return Order{
		ProductID:       uint16(l.readUint(b, orderProductID)),
		OrderID:         l.readUint(b, orderOrderID),
		Price:           l.readUint(b, orderPrice),
		Quantity:        uint32(l.readUint(b, orderQuantity)),
		Side:            Side(l.readUint(b, orderSide)),
		PriceKind:       PriceKind(l.readUint(b, orderPriceKind)),
		SubmitTimeNanos: l.readUint(b, orderSubmitTime),
		ExpireTimeNanos: l.readUint(b, orderExpireTime),
	}, nil
}

func DecodeOrderCancel(b []byte) (Cancel, error) {
	if err := checkLength(b, "order cancel"); err != nil {
		return Cancel{}, err
	}
	return Cancel{OrderID: OrderCancelLayout.readUint(b, cancelOrderID)}, nil
}

func DecodeTradeBroadcast(b []byte) (TradeBroadcast, error) {
	if err := checkLength(b, "trade broadcast"); err != nil {
		return TradeBroadcast{}, err
	}
	l := TradeBroadcastLayout
	t := TradeBroadcast{
		ProductID:                uint16(l.readUint(b, tradeProductID)),
		BuyOrderID:               l.readUint(b, tradeBuyOrderID),
		SellOrderID:              l.readUint(b, tradeSellOrderID),
		Price:                    l.readUint(b, tradePrice),
		Quantity:                 uint32(l.readUint(b, tradeQuantity)),
		TradeNetworkTimeNanos32:  uint32(l.readUint(b, tradeNetworkTime)),
		InternalMatchTimeNanos32: uint32(l.readUint(b, tradeInternalMatchTime)),
	}
	copy(t.InstanceTag[:], l.readRaw(b, tradeInstanceTag))
	return t, nil
}

func DecodeStatusBroadcast(b []byte) (StatusBroadcast, error) {
	if err := checkLength(b, "status broadcast"); err != nil {
		return StatusBroadcast{}, err
	}
	l := StatusBroadcastLayout
	s := StatusBroadcast{
		ProductID:               uint16(l.readUint(b, statusProductID)),
		BidsDepth:               uint32(l.readUint(b, statusBidsDepth)),
		AsksDepth:               uint32(l.readUint(b, statusAsksDepth)),
		MatchedOrderCount:       uint32(l.readUint(b, statusMatchedOrders)),
		TotalReceivedOrderCount: uint32(l.readUint(b, statusReceivedOrders)),
		StartTimeNanos:          l.readUint(b, statusStartTime),
	}
	copy(s.InstanceTag[:], l.readRaw(b, statusInstanceTag))
	return s, nil
}
