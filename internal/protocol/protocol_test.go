package protocol

import (
	"encoding/binary"
	"errors"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/danmuck/mcorder/internal/testutil/testlog"
)

func TestEncodeOrderSubmitLayout(t *testing.T) {
	testlog.Start(t)
	f := EncodeOrderSubmit(Order{
		ProductID:       7,
		OrderID:         1000,
		Price:           50000,
		Quantity:        3,
		Side:            SideBuy,
		PriceKind:       PriceLimit,
		SubmitTimeNanos: 1000000000,
		ExpireTimeNanos: 0,
	})
	if f[1] != 1 {
		t.Fatalf("unexpected tag: %d", f[1])
	}
	if got := binary.BigEndian.Uint16(f[2:4]); got != 7 {
		t.Fatalf("unexpected product id: %d", got)
	}
	if got := binary.BigEndian.Uint64(f[4:12]); got != 1000 {
		t.Fatalf("unexpected order id: %d", got)
	}
	if got := binary.BigEndian.Uint64(f[12:20]); got != 50000 {
		t.Fatalf("unexpected price: %d", got)
	}
	if got := binary.BigEndian.Uint32(f[20:24]); got != 3 {
		t.Fatalf("unexpected quantity: %d", got)
	}
	if f[24] != 1 || f[25] != 1 {
		t.Fatalf("unexpected side/price kind: %d/%d", f[24], f[25])
	}
	if got := binary.BigEndian.Uint64(f[26:34]); got != 1000000000 {
		t.Fatalf("unexpected submit time: %d", got)
	}
	for i := 34; i < FrameSize; i++ {
		if f[i] != 0 {
			t.Fatalf("expected zero at byte %d, got %d", i, f[i])
		}
	}
	var want byte
	for _, b := range f[2:50] {
		want ^= b
	}
	if f[0] != want {
		t.Fatalf("checksum mismatch: got=%d want=%d", f[0], want)
	}
	if !VerifyChecksum(f[:]) {
		t.Fatalf("expected checksum to verify")
	}
}

func TestEncodeOrderCancelLayout(t *testing.T) {
	testlog.Start(t)
	f := EncodeOrderCancel(42)
	if f[1] != 2 {
		t.Fatalf("unexpected tag: %d", f[1])
	}
	if got := binary.BigEndian.Uint64(f[2:10]); got != 42 {
		t.Fatalf("unexpected order id: %d", got)
	}
	for i := 10; i < FrameSize; i++ {
		if f[i] != 0 {
			t.Fatalf("expected zero at byte %d, got %d", i, f[i])
		}
	}
	if f[0] != Checksum(f[:]) {
		t.Fatalf("checksum mismatch: got=%d want=%d", f[0], Checksum(f[:]))
	}
	got, err := DecodeOrderCancel(f[:])
	if err != nil {
		t.Fatalf("decode cancel: %v", err)
	}
	if got.OrderID != 42 {
		t.Fatalf("unexpected decoded id: %d", got.OrderID)
	}
}

func TestOrderSubmitRoundTrip(t *testing.T) {
	testlog.Start(t)
	orders := []Order{
		{},
		{ProductID: 1, OrderID: 2, Price: 3, Quantity: 4, Side: SideSell, PriceKind: PriceMarket, SubmitTimeNanos: 5, ExpireTimeNanos: 6},
		{
			ProductID:       math.MaxUint16,
			OrderID:         math.MaxUint64,
			Price:           math.MaxUint64,
			Quantity:        math.MaxUint32,
			Side:            Side(math.MaxUint8),
			PriceKind:       PriceKind(math.MaxUint8),
			SubmitTimeNanos: math.MaxUint64,
			ExpireTimeNanos: math.MaxUint64,
		},
		{ProductID: 0x0102, OrderID: 0x0102030405060708, Price: 0x1112131415161718, Quantity: 0x21222324, Side: SideBuy, PriceKind: PriceLimit, SubmitTimeNanos: 1700000000000000000, ExpireTimeNanos: 1700000060000000000},
	}
	for _, in := range orders {
		f := EncodeOrderSubmit(in)
		if !VerifyChecksum(f[:]) {
			t.Fatalf("checksum failed for %+v", in)
		}
		out, err := DecodeOrderSubmit(f[:])
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if out != in {
			t.Fatalf("round trip mismatch: got=%+v want=%+v", out, in)
		}
	}
}

func TestChecksumDetectsSinglePayloadBitFlip(t *testing.T) {
	testlog.Start(t)
	f := EncodeOrderSubmit(Order{ProductID: 7, OrderID: 1000, Price: 50000, Quantity: 3, Side: SideBuy, PriceKind: PriceLimit, SubmitTimeNanos: 1000000000})
	for i := PayloadOffset; i < FrameSize; i++ {
		for bit := 0; bit < 8; bit++ {
			mut := f
			mut[i] ^= 1 << bit
			if VerifyChecksum(mut[:]) {
				t.Fatalf("bit flip at byte=%d bit=%d not detected", i, bit)
			}
		}
	}
}

func TestChecksumIgnoresHeaderBytes(t *testing.T) {
	testlog.Start(t)
	f := EncodeOrderCancel(99)
	want := Checksum(f[:])
	for i := 0; i < PayloadOffset; i++ {
		for bit := 0; bit < 8; bit++ {
			mut := f
			mut[i] ^= 1 << bit
			if got := Checksum(mut[:]); got != want {
				t.Fatalf("header flip at byte=%d bit=%d changed checksum: got=%d want=%d", i, bit, got, want)
			}
		}
	}

	tagFlip := f
	tagFlip[TagOffset] ^= 0xFF
	if !VerifyChecksum(tagFlip[:]) {
		t.Fatalf("tag byte must not participate in the checksum")
	}
}

func TestVerifyChecksumRejectsWrongLength(t *testing.T) {
	testlog.Start(t)
	f := EncodeOrderCancel(1)
	if VerifyChecksum(f[:FrameSize-1]) {
		t.Fatalf("short frame must not verify")
	}
	if VerifyChecksum(append(f.Bytes(), 0)) {
		t.Fatalf("long frame must not verify")
	}
}

func TestDecodersRejectShortFrames(t *testing.T) {
	testlog.Start(t)
	decoders := map[string]func([]byte) error{
		"trade": func(b []byte) error {
			v, err := DecodeTradeBroadcast(b)
			if v != (TradeBroadcast{}) {
				t.Fatalf("trade decoder returned partial value: %+v", v)
			}
			return err
		},
		"status": func(b []byte) error {
			v, err := DecodeStatusBroadcast(b)
			if v != (StatusBroadcast{}) {
				t.Fatalf("status decoder returned partial value: %+v", v)
			}
			return err
		},
		"dispatch": func(b []byte) error {
			_, err := Dispatch(b)
			return err
		},
	}
	full := EncodeTradeBroadcast(TradeBroadcast{ProductID: 1, Price: 2, Quantity: 3})
	for name, decode := range decoders {
		for n := 0; n < FrameSize; n++ {
			err := decode(full[:n])
			if !errors.Is(err, ErrTooShort) {
				t.Fatalf("%s len=%d: expected ErrTooShort, got %v", name, n, err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("%s len=%d: expected *FormatError, got %T", name, n, err)
			}
			if fe.Expected != FrameSize || fe.Actual != n {
				t.Fatalf("%s len=%d: unexpected lengths %+v", name, n, fe)
			}
		}
	}
}

func TestDecodeRejectsLongFrame(t *testing.T) {
	testlog.Start(t)
	b := append(EncodeStatusBroadcast(StatusBroadcast{}).Bytes(), 0)
	if _, err := DecodeStatusBroadcast(b); !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
	_, err := DecodeTradeBroadcast(append(EncodeTradeBroadcast(TradeBroadcast{}).Bytes(), 0))
	if !errors.Is(err, ErrTooShort) {
		t.Fatalf("oversized frame must also match ErrTooShort, got %v", err)
	}
	if _, err := DecodeOrderCancel(make([]byte, 10)); errors.Is(err, ErrTooLong) {
		t.Fatalf("short frame must not match ErrTooLong: %v", err)
	}
}

func TestTradeBroadcastDecode(t *testing.T) {
	testlog.Start(t)
	in := TradeBroadcast{
		InstanceTag:              InstanceTag{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01, 0x02, 0x03},
		ProductID:                12,
		BuyOrderID:               1001,
		SellOrderID:              1002,
		Price:                    50000,
		Quantity:                 7,
		TradeNetworkTimeNanos32:  123456,
		InternalMatchTimeNanos32: 789,
	}
	f := EncodeTradeBroadcast(in)
	if f.Type() != MsgTradeBroadcast {
		t.Fatalf("unexpected tag: %s", f.Type())
	}
	if got := f[2:10]; string(got) != string(in.InstanceTag[:]) {
		t.Fatalf("instance tag not copied verbatim: %v", got)
	}
	if got := binary.BigEndian.Uint32(f[40:44]); got != 123456 {
		t.Fatalf("unexpected network time at payload offset 38: %d", got)
	}
	if got := binary.BigEndian.Uint32(f[44:48]); got != 789 {
		t.Fatalf("unexpected match time at payload offset 42: %d", got)
	}
	out, err := DecodeTradeBroadcast(f[:])
	if err != nil {
		t.Fatalf("decode trade: %v", err)
	}
	if out != in {
		t.Fatalf("trade mismatch: got=%+v want=%+v", out, in)
	}
	if out.InstanceTag.String() != "deadbeef00010203" {
		t.Fatalf("unexpected instance tag string: %s", out.InstanceTag)
	}
}

func TestStatusBroadcastDecode(t *testing.T) {
	testlog.Start(t)
	in := StatusBroadcast{
		InstanceTag:             InstanceTag{1, 2, 3, 4, 5, 6, 7, 8},
		ProductID:               3,
		BidsDepth:               10,
		AsksDepth:               11,
		MatchedOrderCount:       12,
		TotalReceivedOrderCount: 40,
		StartTimeNanos:          1700000000000000000,
	}
	f := EncodeStatusBroadcast(in)
	for i := PayloadOffset + 34; i < FrameSize; i++ {
		if f[i] != 0 {
			t.Fatalf("expected zero padding at byte %d", i)
		}
	}
	out, err := DecodeStatusBroadcast(f[:])
	if err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if out != in {
		t.Fatalf("status mismatch: got=%+v want=%+v", out, in)
	}
}

func TestDecodeDoesNotVerifyChecksum(t *testing.T) {
	testlog.Start(t)
	f := EncodeStatusBroadcast(StatusBroadcast{ProductID: 9})
	f[ChecksumOffset] ^= 0xFF
	if VerifyChecksum(f[:]) {
		t.Fatalf("expected corrupted checksum")
	}
	out, err := DecodeStatusBroadcast(f[:])
	if err != nil {
		t.Fatalf("decode should succeed structurally: %v", err)
	}
	if out.ProductID != 9 {
		t.Fatalf("unexpected product id: %d", out.ProductID)
	}
}

func TestDispatchRoutesByTag(t *testing.T) {
	testlog.Start(t)
	trade := EncodeTradeBroadcast(TradeBroadcast{ProductID: 5, Price: 100, Quantity: 2, BuyOrderID: 11, SellOrderID: 12, TradeNetworkTimeNanos32: 30, InternalMatchTimeNanos32: 40})
	r, err := Dispatch(trade[:])
	if err != nil {
		t.Fatalf("dispatch trade: %v", err)
	}
	if r.Type != MsgTradeBroadcast || r.Trade == nil || r.Status != nil {
		t.Fatalf("trade routed incorrectly: %+v", r)
	}
	want := "TRADE: Product=5 | Price=100 | Qty=2 | BuyID=11 | SellID=12 | Net=30ns | Match=40ns"
	if r.String() != want {
		t.Fatalf("unexpected trade render:\n got=%s\nwant=%s", r.String(), want)
	}

	status := EncodeStatusBroadcast(StatusBroadcast{ProductID: 5, BidsDepth: 1, AsksDepth: 2, MatchedOrderCount: 3, TotalReceivedOrderCount: 4})
	r, err = Dispatch(status[:])
	if err != nil {
		t.Fatalf("dispatch status: %v", err)
	}
	if r.Type != MsgStatusBroadcast || r.Status == nil || r.Trade != nil {
		t.Fatalf("status routed incorrectly: %+v", r)
	}
	want = "STATUS: Product=5 | Bids=1 | Asks=2 | Matched=3 | Received=4"
	if r.String() != want {
		t.Fatalf("unexpected status render:\n got=%s\nwant=%s", r.String(), want)
	}
}

func TestDispatchUnknownTag(t *testing.T) {
	testlog.Start(t)
	for _, tag := range []uint8{0, 1, 2, 3, 99, 255} {
		var f Frame
		f[TagOffset] = tag
		f[PayloadOffset] = 0x7F
		f.seal()
		_, err := Dispatch(f[:])
		if !errors.Is(err, ErrUnknownTag) {
			t.Fatalf("tag=%d: expected ErrUnknownTag, got %v", tag, err)
		}
		var ute *UnknownTagError
		if !errors.As(err, &ute) {
			t.Fatalf("tag=%d: expected *UnknownTagError, got %T", tag, err)
		}
		if ute.Tag != tag {
			t.Fatalf("unexpected tag in error: %d", ute.Tag)
		}
		if len(ute.Frame) != FrameSize || ute.Frame[PayloadOffset] != 0x7F {
			t.Fatalf("error must carry full frame: %v", ute.Frame)
		}
		if !strings.Contains(err.Error(), "unknown message tag") {
			t.Fatalf("unexpected error text: %v", err)
		}
	}
}

func TestLayoutsFitPayload(t *testing.T) {
	testlog.Start(t)
	wantUsed := map[MessageType]int{
		MsgOrderSubmit:     40,
		MsgOrderCancel:     8,
		MsgTradeBroadcast:  46,
		MsgStatusBroadcast: 34,
	}
	for typ, used := range wantUsed {
		l, ok := LayoutFor(typ)
		if !ok {
			t.Fatalf("missing layout for %s", typ)
		}
		if l.Type != typ {
			t.Fatalf("layout registered under wrong type: %s vs %s", l.Type, typ)
		}
		if got := l.Used(); got != used {
			t.Fatalf("%s used=%d want=%d", typ, got, used)
		}
		fields := append([]FieldSpec(nil), l.Fields...)
		sort.Slice(fields, func(i, j int) bool { return fields[i].Offset < fields[j].Offset })
		next := 0
		for _, f := range fields {
			if f.Offset != next {
				t.Fatalf("%s field %q at offset %d, expected %d", typ, f.Name, f.Offset, next)
			}
			if f.Kind == FieldUint && f.Width != 1 && f.Width != 2 && f.Width != 4 && f.Width != 8 {
				t.Fatalf("%s field %q has unsupported width %d", typ, f.Name, f.Width)
			}
			next = f.Offset + f.Width
		}
		if next > PayloadSize {
			t.Fatalf("%s overflows payload: %d", typ, next)
		}
	}
	if _, ok := LayoutFor(MessageType(99)); ok {
		t.Fatalf("unexpected layout for tag 99")
	}
}

func TestMessageTypeStrings(t *testing.T) {
	testlog.Start(t)
	if MsgTradeBroadcast.String() != "trade_broadcast" {
		t.Fatalf("unexpected name: %s", MsgTradeBroadcast)
	}
	if MessageType(99).String() != "unknown(99)" {
		t.Fatalf("unexpected name: %s", MessageType(99))
	}
	if SideSell.String() != "sell" || PriceMarket.String() != "market" {
		t.Fatalf("unexpected enum names: %s %s", SideSell, PriceMarket)
	}
}
