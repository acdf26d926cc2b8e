package httpx

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log"
	"net"
	"net/http"

	"github.com/go-git/go-billy/v5"
	"github.com/gorilla/handlers"

	"cors-https-server/utils"
)

// Config describes one HTTPS listener.
type Config struct {
	Addr     string
	CertFile string
	KeyFile  string

	// Root is the tree served for GET and HEAD.
	Root billy.Filesystem

	// Serial accepts, handshakes and serves one connection at a time.
	Serial bool

	// AccessLog receives one Apache common log line per request; nil
	// disables access logging.
	AccessLog io.Writer
}

// StartHTTPSServer binds cfg.Addr, loads the TLS credentials and serves
// cfg.Root in a goroutine. Bind and credential failures are returned before
// any connection is accepted. The returned listener is the one being
// served; closing it stops the accept loop.
func StartHTTPSServer(cfg Config, logger *log.Logger) (net.Listener, error) {
	if cfg.Addr == "" {
		cfg.Addr = "0.0.0.0:8000"
	}
	if cfg.Root == nil {
		return nil, errors.New("https: no root filesystem")
	}

	ln, err := utils.Listen(context.Background(), cfg.Addr)
	if err != nil {
		return nil, err
	}
	tlsConfig, err := LoadTLSConfig(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		ln.Close()
		return nil, err
	}

	var handler http.Handler = NewHandler(cfg.Root)
	if cfg.AccessLog != nil {
		handler = handlers.LoggingHandler(cfg.AccessLog, writeOnly(handler))
	}
	srv := &http.Server{
		Handler: handler,
		// "OPTIONS *" goes to the handler too, so it carries the CORS headers.
		DisableGeneralOptionsHandler: true,
		// An empty, non-nil map keeps net/http from wiring in HTTP/2.
		TLSNextProto: map[string]func(*http.Server, *tls.Conn, http.Handler){},
	}
	if logger != nil {
		srv.ErrorLog = logger
	}

	var served net.Listener
	if cfg.Serial {
		srv.SetKeepAlivesEnabled(false)
		served = HandshakeListener(SerialListener(ln), tlsConfig, logger)
	} else {
		served = tls.NewListener(ln, tlsConfig)
	}

	if logger != nil {
		logger.Printf("%s", describeCertificate(tlsConfig))
		logger.Printf("Serving HTTPS on %s...", ln.Addr())
	}
	go func() {
		if err := srv.Serve(served); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
			if logger != nil {
				logger.Printf("https serve error: %v", err)
			}
		}
	}()
	return served, nil
}

// plainWriter hides io.ReaderFrom so file bodies copied by the static
// handler pass through Write, where the access logger counts them.
type plainWriter struct {
	http.ResponseWriter
}

func writeOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(plainWriter{w}, r)
	})
}
