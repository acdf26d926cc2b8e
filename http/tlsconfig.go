package httpx

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
)

// ErrCredentials marks failures to load the certificate chain or key.
var ErrCredentials = errors.New("tls credentials")

// LoadTLSConfig reads the PEM certificate chain and private key once and
// builds the server-side TLS config. HTTP/2 is never offered.
func LoadTLSConfig(certFile, keyFile string) (*tls.Config, error) {
	cer, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s/%s: %v", ErrCredentials, certFile, keyFile, err)
	}
	if cer.Leaf == nil {
		leaf, err := x509.ParseCertificate(cer.Certificate[0])
		if err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrCredentials, certFile, err)
		}
		cer.Leaf = leaf
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cer},
		MinVersion:   tls.VersionTLS12,
		NextProtos:   []string{"http/1.1"},
	}, nil
}

// describeCertificate summarises the serving certificate for the startup log.
func describeCertificate(cfg *tls.Config) string {
	if cfg == nil || len(cfg.Certificates) == 0 || cfg.Certificates[0].Leaf == nil {
		return "no certificate"
	}
	leaf := cfg.Certificates[0].Leaf
	name := leaf.Subject.CommonName
	if name == "" && len(leaf.DNSNames) > 0 {
		name = leaf.DNSNames[0]
	}
	return fmt.Sprintf("certificate %q expires %s (%s)", name,
		humanize.Time(leaf.NotAfter), leaf.NotAfter.UTC().Format("2006-01-02"))
}
