package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Listen binds a TCP listener on addr with SO_REUSEADDR set, so a restart
// does not trip over sockets left in TIME_WAIT.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var serr error
			if err := c.Control(func(fd uintptr) {
				serr = setReuseAddr(fd)
			}); err != nil {
				return err
			}
			return serr
		},
	}
	ln, err := lc.Listen(ctx, Network(addr), addr)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", addr, err)
	}
	return ln, nil
}

// DescribeBindError returns a short operator-facing reason for a failed
// bind, or the error text when the cause is not recognised.
func DescribeBindError(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, errAddrInUse):
		return "address already in use"
	case errors.Is(err, errAccess):
		return "permission denied (privileged port?)"
	}
	return err.Error()
}
