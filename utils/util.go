package utils

import (
	"log"
	"net"
	"strconv"
	"strings"
)

// MustPort returns the numeric port of addr, which may be ":8000" or
// "0.0.0.0:8000". It exits the process on a malformed address.
func MustPort(addr string) int {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		if strings.HasPrefix(addr, ":") {
			v, _ := strconv.Atoi(addr[1:])
			return v
		}
		log.Fatalf("invalid addr %q: %v", addr, err)
	}
	v, err := strconv.Atoi(p)
	if err != nil {
		log.Fatalf("invalid port in %q: %v", addr, err)
	}
	return v
}

// Network picks "tcp4" when addr names an IPv4 literal (including
// 0.0.0.0) so the listener reports an IPv4 address, and "tcp" otherwise.
func Network(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil || host == "" {
		return "tcp"
	}
	if ip := net.ParseIP(host); ip != nil && ip.To4() != nil {
		return "tcp4"
	}
	return "tcp"
}
