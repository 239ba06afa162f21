//go:build !unix

package transport

import (
	"errors"
	"syscall"
)

func reuseAddr(network, address string, c syscall.RawConn) error {
	return nil
}

func IsInterrupted(err error) bool {
	return errors.Is(err, syscall.EINTR)
}
