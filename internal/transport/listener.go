package transport

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/ipv4"
)

// Listener owns the inbound socket joined to one IPv4 multicast group.
type Listener struct {
	conn  *net.UDPConn
	pc    *ipv4.PacketConn
	group *net.UDPAddr
}

// OpenMulticastListener binds groupAddr with SO_REUSEADDR and joins the
// group on the unspecified interface. Non-multicast and IPv6 addresses are
// rejected before any socket is created.
func OpenMulticastListener(ctx context.Context, groupAddr string) (*Listener, error) {
	group, err := ResolveUDP(groupAddr)
	if err != nil {
		return nil, err
	}
	if !group.IP.IsMulticast() {
		return nil, &Error{Op: "listen", Addr: groupAddr, Kind: ErrNotMulticast}
	}
	if group.IP.To4() == nil {
		return nil, &Error{Op: "listen", Addr: groupAddr, Kind: ErrUnsupported}
	}

	lc := net.ListenConfig{Control: reuseAddr}
	pconn, err := lc.ListenPacket(ctx, "udp4", group.String())
	if err != nil {
		return nil, &Error{Op: "bind", Addr: groupAddr, Kind: ErrBind, Err: err}
	}
	conn := pconn.(*net.UDPConn)

	pc := ipv4.NewPacketConn(conn)
	if err := pc.JoinGroup(nil, &net.UDPAddr{IP: group.IP}); err != nil {
		_ = conn.Close()
		return nil, &Error{Op: "join", Addr: groupAddr, Kind: ErrJoin, Err: err}
	}
	log.Info().Str("group", group.String()).Str("local", conn.LocalAddr().String()).Msg("joined multicast group")
	return &Listener{conn: conn, pc: pc, group: group}, nil
}

func (l *Listener) Group() *net.UDPAddr {
	return l.group
}

func (l *Listener) LocalAddr() net.Addr {
	return l.conn.LocalAddr()
}

func (l *Listener) SetReadDeadline(t time.Time) error {
	return l.conn.SetReadDeadline(t)
}

// Receive blocks for one datagram. buf is expected to be exactly one frame
// long; larger datagrams are truncated by the OS.
func (l *Listener) Receive(buf []byte) (int, *net.UDPAddr, error) {
	n, src, err := l.conn.ReadFromUDP(buf)
	if err != nil {
		return 0, nil, &Error{Op: "receive", Addr: l.group.String(), Kind: ErrSocket, Err: err}
	}
	return n, src, nil
}

func (l *Listener) Close() error {
	if err := l.pc.LeaveGroup(nil, &net.UDPAddr{IP: l.group.IP}); err != nil {
		log.Debug().Err(err).Str("group", l.group.String()).Msg("leave group")
	}
	return l.conn.Close()
}
