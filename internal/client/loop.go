package client

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/danmuck/mcorder/internal/observability"
	"github.com/danmuck/mcorder/internal/protocol"
	"github.com/danmuck/mcorder/internal/transport"
	"github.com/rs/zerolog/log"
)

// FrameReader is satisfied by *transport.Listener.
type FrameReader interface {
	Receive(buf []byte) (int, *net.UDPAddr, error)
}

// Handler receives every successfully dispatched broadcast.
type Handler func(src *net.UDPAddr, msg protocol.Rendered)

type LoopOptions struct {
	// StrictChecksum drops frames whose checksum does not verify. When
	// false the mismatch is logged and the frame is still dispatched.
	StrictChecksum bool
	Handler        Handler
}

// ReceiveLoop blocks on r until a non-interrupt socket error occurs or ctx
// is cancelled. Malformed or unknown datagrams are logged and skipped.
// Cancellation only takes effect once the pending Receive returns, so the
// caller closes the reader when ctx is done.
func ReceiveLoop(ctx context.Context, r FrameReader, opts LoopOptions) error {
	buf := make([]byte, protocol.FrameSize)
	for {
		n, src, err := r.Receive(buf)
		if err != nil {
			if transport.IsInterrupted(err) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("receive loop: %w", err)
		}
		handleDatagram(buf[:n], src, opts)
	}
}

func handleDatagram(b []byte, src *net.UDPAddr, opts LoopOptions) {
	logger := log.With().Str("src", src.String()).Int("len", len(b)).Logger()

	if len(b) != protocol.FrameSize {
		observability.RecordFrameReceived("invalid")
		observability.RecordDecodeError("length")
		logger.Warn().Int("expected", protocol.FrameSize).Msg("datagram length mismatch")
		return
	}

	tag := protocol.MessageType(b[protocol.TagOffset])
	observability.RecordFrameReceived(tag.String())

	if !protocol.VerifyChecksum(b) {
		observability.RecordChecksumFailure()
		logger.Warn().
			Uint8("checksum", b[protocol.ChecksumOffset]).
			Uint8("computed", protocol.Checksum(b)).
			Bool("dropped", opts.StrictChecksum).
			Msg("checksum mismatch")
		if opts.StrictChecksum {
			return
		}
	}

	msg, err := protocol.Dispatch(b)
	if err != nil {
		var unknown *protocol.UnknownTagError
		if errors.As(err, &unknown) {
			observability.RecordDecodeError("unknown_tag")
			logger.Warn().Uint8("tag", unknown.Tag).Ints("frame", bytesToInts(unknown.Frame)).Msg("unknown message tag")
			return
		}
		observability.RecordDecodeError("format")
		logger.Warn().Err(err).Msg("decode failed")
		return
	}

	if opts.Handler != nil {
		opts.Handler(src, msg)
		return
	}
	logger.Info().Stringer("type", msg.Type).Msg(msg.String())
}

func bytesToInts(b []byte) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}
