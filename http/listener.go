package httpx

import (
	"crypto/tls"
	"log"
	"net"
	"sync"
)

// SerialListener admits one connection at a time: Accept blocks until the
// previously returned connection has been closed. Pending clients wait in
// the kernel backlog, unanswered.
func SerialListener(l net.Listener) net.Listener {
	sl := &serialListener{
		Listener: l,
		slot:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	sl.slot <- struct{}{}
	return sl
}

type serialListener struct {
	net.Listener
	slot      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func (l *serialListener) Accept() (net.Conn, error) {
	select {
	case <-l.slot:
	case <-l.done:
		return nil, net.ErrClosed
	}
	c, err := l.Listener.Accept()
	if err != nil {
		l.slot <- struct{}{}
		return nil, err
	}
	return &slotConn{Conn: c, slot: l.slot}, nil
}

func (l *serialListener) Close() error {
	l.closeOnce.Do(func() { close(l.done) })
	return l.Listener.Close()
}

type slotConn struct {
	net.Conn
	slot     chan struct{}
	released sync.Once
}

func (c *slotConn) Close() error {
	err := c.Conn.Close()
	c.released.Do(func() { c.slot <- struct{}{} })
	return err
}

// HandshakeListener terminates TLS inside Accept. A failed handshake is
// logged and the connection dropped; Accept then moves on to the next
// client, so the listening loop never sees per-connection errors.
func HandshakeListener(l net.Listener, cfg *tls.Config, logger *log.Logger) net.Listener {
	return &handshakeListener{Listener: l, config: cfg, logger: logger}
}

type handshakeListener struct {
	net.Listener
	config *tls.Config
	logger *log.Logger
}

func (l *handshakeListener) Accept() (net.Conn, error) {
	for {
		c, err := l.Listener.Accept()
		if err != nil {
			return nil, err
		}
		tc := tls.Server(c, l.config)
		if err := tc.Handshake(); err != nil {
			if l.logger != nil {
				l.logger.Printf("tls handshake with %s failed: %v", c.RemoteAddr(), err)
			}
			c.Close()
			continue
		}
		return tc, nil
	}
}
