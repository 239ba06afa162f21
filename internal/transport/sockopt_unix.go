//go:build unix

package transport

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// reuseAddr lets sibling processes on one host bind the same group and port.
func reuseAddr(network, address string, c syscall.RawConn) error {
	var sockErr error
	if err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	}); err != nil {
		return err
	}
	return sockErr
}

// IsInterrupted reports whether err is a benign EINTR that the caller should retry.
func IsInterrupted(err error) bool {
	return errors.Is(err, unix.EINTR)
}
