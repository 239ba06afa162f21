// Package transport owns the two UDP sockets of the client.
//
// Ownership boundary:
// - outbound socket sending frames to multicast (or unicast) destinations
// - inbound socket joined to a multicast group and bound to its port
// - typed transport errors
package transport
