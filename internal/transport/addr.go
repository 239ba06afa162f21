package transport

import "net"

// ResolveUDP parses addr as host:port.
func ResolveUDP(addr string) (*net.UDPAddr, error) {
	return resolve("udp", addr)
}

// ResolveUDP4 is ResolveUDP restricted to IPv4, matching the sender socket.
func ResolveUDP4(addr string) (*net.UDPAddr, error) {
	return resolve("udp4", addr)
}

func resolve(network, addr string) (*net.UDPAddr, error) {
	ua, err := net.ResolveUDPAddr(network, addr)
	if err != nil {
		return nil, &Error{Op: "resolve", Addr: addr, Kind: ErrInvalidAddress, Err: err}
	}
	if ua.IP == nil {
		return nil, &Error{Op: "resolve", Addr: addr, Kind: ErrInvalidAddress}
	}
	return ua, nil
}
