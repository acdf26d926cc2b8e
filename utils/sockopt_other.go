//go:build !unix

package utils

import "syscall"

var (
	errAddrInUse error = syscall.EADDRINUSE
	errAccess    error = syscall.EACCES
)

func setReuseAddr(fd uintptr) error {
	return nil
}
