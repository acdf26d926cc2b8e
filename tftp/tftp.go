package tftp

import (
	"errors"
	"io"
	"log"
	"net"
	"path"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	tftp "github.com/pin/tftp/v3"
)

// cleanName maps a TFTP filename onto the served tree. Clients send
// either "boot/file" or "/boot/file"; both resolve under the root.
func cleanName(filename string) (string, bool) {
	name := strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/")
	name = path.Clean("/" + name)
	if name == "/" {
		return "", false
	}
	return name, true
}

func serveFile(root billy.Filesystem, name string, rf io.ReaderFrom) error {
	fi, err := root.Stat(name)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return errors.New("is a directory")
	}
	f, err := root.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if ot, ok := rf.(tftp.OutgoingTransfer); ok {
		ot.SetSize(fi.Size())
	}
	_, err = rf.ReadFrom(f)
	return err
}

// StartTFTPServer mirrors root read-only over TFTP. The UDP socket is bound
// before returning so the caller sees bind errors; write requests are
// refused by the library since no write handler is installed.
func StartTFTPServer(addr string, root billy.Filesystem, logger *log.Logger) (*tftp.Server, net.Addr, error) {
	if addr == "" {
		addr = ":69"
	}
	if root == nil {
		return nil, nil, errors.New("tftp: no root filesystem")
	}
	readHandler := func(filename string, rf io.ReaderFrom) error {
		name, ok := cleanName(filename)
		if !ok {
			return errors.New("no file name")
		}
		err := serveFile(root, name, rf)
		if logger != nil {
			if err != nil {
				logger.Printf("RRQ %q -> %v", filename, err)
			} else {
				logger.Printf("RRQ %q -> %s", filename, name)
			}
		}
		return err
	}

	srv := tftp.NewServer(readHandler, nil)
	srv.SetTimeout(5 * time.Second)

	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, nil, err
	}
	go func() {
		if logger != nil {
			logger.Printf("TFTP server listening on %s, serving %q", conn.LocalAddr(), root.Root())
		}
		if err := srv.Serve(conn); err != nil {
			if logger != nil {
				logger.Printf("TFTP server error: %v", err)
			}
		}
	}()
	return srv, conn.LocalAddr(), nil
}
