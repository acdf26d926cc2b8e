//go:build unix

package utils

import "golang.org/x/sys/unix"

var (
	errAddrInUse error = unix.EADDRINUSE
	errAccess    error = unix.EACCES
)

func setReuseAddr(fd uintptr) error {
	return unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
}
