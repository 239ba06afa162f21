package transport

import (
	"net"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/ipv4"
)

type packetWriter interface {
	WriteToUDP(b []byte, addr *net.UDPAddr) (int, error)
}

// Sender owns the outbound socket. It never joins a group; sending to a
// multicast destination does not require membership.
type Sender struct {
	conn   *net.UDPConn
	writer packetWriter
}

// OpenSender binds an ephemeral port on all IPv4 interfaces.
func OpenSender() (*Sender, error) {
	laddr := &net.UDPAddr{IP: net.IPv4zero, Port: 0}
	conn, err := net.ListenUDP("udp4", laddr)
	if err != nil {
		return nil, &Error{Op: "bind", Addr: laddr.String(), Kind: ErrBind, Err: err}
	}
	log.Debug().Str("local", conn.LocalAddr().String()).Msg("sender socket bound")
	return &Sender{conn: conn, writer: conn}, nil
}

func (s *Sender) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// ConfigureTTL sets the outbound multicast TTL when dest is a multicast
// address. Failures are logged and reported as false; sending still works
// with the OS default TTL on the local segment.
func (s *Sender) ConfigureTTL(dest string, ttl int) bool {
	addr, err := ResolveUDP4(dest)
	if err != nil {
		log.Warn().Err(err).Str("addr", dest).Msg("skip multicast ttl: unresolved destination")
		return false
	}
	if !addr.IP.IsMulticast() {
		log.Debug().Str("addr", dest).Msg("skip multicast ttl: unicast destination")
		return false
	}
	if err := ipv4.NewPacketConn(s.conn).SetMulticastTTL(ttl); err != nil {
		log.Warn().Err(err).Str("addr", dest).Int("ttl", ttl).Msg("failed to set multicast ttl, using OS default")
		return false
	}
	log.Debug().Str("addr", dest).Int("ttl", ttl).Msg("multicast ttl set")
	return true
}

// Send writes frame as one datagram. A short write is reported as
// ErrPartialSend and never retried.
func (s *Sender) Send(dest *net.UDPAddr, frame []byte) error {
	n, err := s.writer.WriteToUDP(frame, dest)
	if err != nil {
		return &Error{Op: "send", Addr: dest.String(), Kind: ErrSocket, Err: err}
	}
	if n != len(frame) {
		return &Error{Op: "send", Addr: dest.String(), Kind: ErrPartialSend, Sent: n, Want: len(frame)}
	}
	return nil
}

func (s *Sender) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
