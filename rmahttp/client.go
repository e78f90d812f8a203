package rmahttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iccolo/rmagui"
	"github.com/iccolo/rmagui/rmatls"
)

const (
	// DefaultTimeout is the request timeout used when none is configured.
	DefaultTimeout = 10 * time.Second

	// DefaultResponseEncoding is the response encoding used when none is configured.
	DefaultResponseEncoding = EncodingJSON
)

// TransportConfig holds the unmarshaled fields of an http.Transport.
type TransportConfig struct {
	TLSHandshakeTimeout   time.Duration
	DisableKeepAlives     bool
	DisableCompression    bool
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	MaxConnsPerHost       int
	IdleConnTimeout       time.Duration
	ResponseHeaderTimeout time.Duration
	ExpectContinueTimeout time.Duration
	ForceAttemptHTTP2     bool
}

// NewTransport creates an http.Transport from this configuration, using the
// optional TLS configuration for HTTPS connections.
func (tc TransportConfig) NewTransport(c *rmatls.Config) (*http.Transport, error) {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   tc.TLSHandshakeTimeout,
		DisableKeepAlives:     tc.DisableKeepAlives,
		DisableCompression:    tc.DisableCompression,
		MaxIdleConns:          tc.MaxIdleConns,
		MaxIdleConnsPerHost:   tc.MaxIdleConnsPerHost,
		MaxConnsPerHost:       tc.MaxConnsPerHost,
		IdleConnTimeout:       tc.IdleConnTimeout,
		ResponseHeaderTimeout: tc.ResponseHeaderTimeout,
		ExpectContinueTimeout: tc.ExpectContinueTimeout,
		ForceAttemptHTTP2:     tc.ForceAttemptHTTP2,
	}

	var err error
	transport.TLSClientConfig, err = c.New()
	return transport, err
}

// ClientConfig is the unmarshaled configuration of the HTTP client facade.
// Use DefaultClientConfig as the prototype so that absent fields keep their defaults.
type ClientConfig struct {
	// Timeout bounds each request, including reading the response body.
	// In-flight requests past this duration are aborted.
	Timeout time.Duration

	// ResponseEncoding is how response bodies are decoded.
	ResponseEncoding ResponseEncoding

	// BaseAddress is prepended to relative request paths.  It may be empty,
	// in which case only absolute URLs can be requested.
	BaseAddress string

	// Header holds headers added to every request.
	Header http.Header

	// Transport configures the underlying http.Transport.
	Transport TransportConfig

	// TLS is the optional TLS configuration for HTTPS base addresses.
	TLS *rmatls.Config
}

// DefaultClientConfig returns the built-in client configuration:  a 10 second
// timeout, JSON responses, and no base address.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:          DefaultTimeout,
		ResponseEncoding: DefaultResponseEncoding,
		BaseAddress:      "",
	}
}

func (cc ClientConfig) validate() error {
	if cc.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if err := cc.ResponseEncoding.Validate(); err != nil {
		return err
	}

	if len(cc.BaseAddress) > 0 {
		u, err := url.Parse(cc.BaseAddress)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidBaseAddress, err)
		}

		if !u.IsAbs() || len(u.Host) == 0 {
			return fmt.Errorf("%w: %q", ErrInvalidBaseAddress, cc.BaseAddress)
		}
	}

	return nil
}

// NewClient creates the client facade described by this configuration.  No
// network I/O happens here.  Options are applied to the underlying *http.Client
// after it has been created from this configuration.
//
// Invalid configuration, including unusable TLS files, produces an error that
// reports rmagui.ConfigurationExitCode.
func (cc ClientConfig) NewClient(opts ...ClientOption) (*Client, error) {
	if err := cc.validate(); err != nil {
		return nil, rmagui.UseExitCode(err, rmagui.ConfigurationExitCode)
	}

	transport, err := cc.Transport.NewTransport(cc.TLS)
	if err != nil {
		return nil, rmagui.UseExitCode(err, rmagui.ConfigurationExitCode)
	}

	header := NewHeader(cc.Header)
	hc := &http.Client{
		Timeout:   cc.Timeout,
		Transport: header.AddRequest(transport),
	}

	if err := ClientOptions(opts).Apply(hc); err != nil {
		return nil, err
	}

	c := &Client{
		config: cc,
		http:   hc,
	}

	// header keys from configuration sources such as viper arrive lowercased
	c.config.Header = header.h.Clone()
	if len(cc.BaseAddress) > 0 {
		c.base, _ = url.Parse(strings.TrimSuffix(cc.BaseAddress, "/") + "/")
	}

	return c, nil
}

// Client is the HTTP client facade.  It is immutable once created and is safe
// for concurrent use.
type Client struct {
	config ClientConfig
	base   *url.URL
	http   *http.Client
}

// Config returns a copy of the configuration this client was built from.
func (c *Client) Config() ClientConfig {
	cc := c.config
	cc.Header = c.config.Header.Clone()
	return cc
}

// HTTPClient returns the underlying *http.Client.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// ResolveURL turns a request path into an absolute URL.  Absolute URLs are
// returned unchanged.  Relative paths are joined to the base address, so that
// "/api/x" and "api/x" both land under the base address's path.  Network-path
// references such as "//host/x" are rejected with ErrHostRelativeURL.
func (c *Client) ResolveURL(path string) (string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", err
	}

	if u.IsAbs() {
		return u.String(), nil
	}

	if len(u.Host) > 0 {
		return "", fmt.Errorf("%w: %q", ErrHostRelativeURL, path)
	}

	if c.base == nil {
		return "", fmt.Errorf("%w: %q", ErrRelativeURL, path)
	}

	u.Path = strings.TrimPrefix(u.Path, "/")
	return c.base.ResolveReference(u).String(), nil
}

// NewRequest creates a request for the given path.  A non-nil body is encoded
// as JSON.  The Accept header reflects the configured response encoding.
func (c *Client) NewRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	target, err := c.ResolveURL(path)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}

		reader = bytes.NewReader(b)
	}

	request, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}

	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	request.Header.Set("Accept", c.config.ResponseEncoding.Accept())
	return request, nil
}

// Do sends the request and decodes a 2xx response body into out using the
// configured response encoding.  Any other status produces a *StatusError.
func (c *Client) Do(request *http.Request, out any) error {
	response, err := c.http.Do(request)
	if err != nil {
		return err
	}

	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		return &StatusError{
			Method:     request.Method,
			URL:        request.URL.String(),
			StatusCode: response.StatusCode,
			Body:       strings.TrimSpace(string(b)),
		}
	}

	if err := c.config.ResponseEncoding.Decode(response.Body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.config.ResponseEncoding, err)
	}

	return nil
}

// Get issues a GET for path and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	request, err := c.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	return c.Do(request, out)
}

// Post issues a POST for path with in encoded as JSON, and decodes the
// response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	request, err := c.NewRequest(ctx, http.MethodPost, path, in)
	if err != nil {
		return err
	}

	return c.Do(request, out)
}
