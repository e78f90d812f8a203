// Package rmatls builds crypto/tls configuration from unmarshaled settings,
// shared by the HTTP client facade and the front end server.
package rmatls

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrTLSCertificateRequired indicates that only one of certificateFile and keyFile was set.
	ErrTLSCertificateRequired = errors.New("both a certificateFile and keyFile are required")

	// ErrUnableToAddCACertificate indicates that a root CA file held no usable PEM certificates.
	ErrUnableToAddCACertificate = errors.New("unable to add CA certificate")

	// strongCipherSuites are the tls.CipherSuite values that are safe for TLS versions less than 1.3
	strongCipherSuites = []uint16{
		tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	}
)

// Config represents the unmarshaled tls options for either a client or a server.
type Config struct {
	// CertificateFile and KeyFile locate the PEM-encoded certificate presented to peers.
	// Servers require them.  Clients set them only for mutual TLS.
	CertificateFile string
	KeyFile         string

	// RootCAFiles are PEM files added to the pool used to verify peers.  If unset,
	// the system pool is used.
	RootCAFiles []string

	// ServerName is used by a client to validate the server's hostname.
	ServerName string

	// InsecureSkipVerify disables verification of the peer's certificate chain
	InsecureSkipVerify bool

	// MinVersion is the minimum TLS version.  Defaults to TLS 1.3.
	MinVersion uint16

	// MaxVersion is the maximum TLS version.  Raised to MinVersion if lower.
	MaxVersion uint16
}

// New constructs a *tls.Config from this Config.  A nil Config produces a nil
// *tls.Config and no error, which means plain HTTP.
func (c *Config) New() (*tls.Config, error) {
	if c == nil {
		return nil, nil
	}

	tc := &tls.Config{
		MinVersion:         c.MinVersion,
		MaxVersion:         c.MaxVersion,
		NextProtos:         []string{"http/1.1"},
		ServerName:         c.ServerName,
		InsecureSkipVerify: c.InsecureSkipVerify, //nolint:gosec // the caller set this explicitly
		CipherSuites:       strongCipherSuites,
	}

	if tc.MinVersion == 0 {
		tc.MinVersion = tls.VersionTLS13
	}

	if tc.MaxVersion != 0 && tc.MaxVersion < tc.MinVersion {
		tc.MaxVersion = tc.MinVersion
	}

	if err := c.certificates(tc); err != nil {
		return nil, err
	}

	return tc, nil
}

func (c *Config) certificates(tc *tls.Config) error {
	switch {
	case len(c.CertificateFile) > 0 && len(c.KeyFile) > 0:
		cert, err := tls.LoadX509KeyPair(c.CertificateFile, c.KeyFile)
		if err != nil {
			return fmt.Errorf("load key pair: %w", err)
		}

		tc.Certificates = []tls.Certificate{cert}

	case len(c.CertificateFile) > 0 || len(c.KeyFile) > 0:
		return ErrTLSCertificateRequired
	}

	if len(c.RootCAFiles) > 0 {
		pool := x509.NewCertPool()
		for _, name := range c.RootCAFiles {
			data, err := os.ReadFile(name)
			if err != nil {
				return fmt.Errorf("read root CA: %w", err)
			}

			if !pool.AppendCertsFromPEM(data) {
				return fmt.Errorf("%s: %w", name, ErrUnableToAddCACertificate)
			}
		}

		tc.RootCAs = pool
	}

	return nil
}
