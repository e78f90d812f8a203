// Package rmaapi is a typed client for the RMA analyzer backend.  Every
// operation is a JSON POST issued through the shared rmahttp client facade.
package rmaapi

import (
	"context"
	"fmt"

	"github.com/iccolo/rmagui/rmahttp"
	"go.uber.org/zap"
)

// Backend paths, relative to the client's base address
const (
	InstanceListPath = "/api/rma/get_instance_list"
	StartAnalyzePath = "/api/rma/start_analyze"
	KeyTypePath      = "/api/rma/get_key_type"
	ExpandPath       = "/api/rma/expand"
	KeyInfoPath      = "/api/rma/get_key_info"
)

// DefaultNumLimit is the layer size used by Expand when the request sets none.
const DefaultNumLimit = 100

// API is the set of backend operations used by the views.
type API interface {
	// InstanceList returns every instance the backend has analyzed or is analyzing.
	InstanceList(context.Context) ([]InstanceStatus, error)

	// StartAnalyze begins an asynchronous scan of an instance.
	StartAnalyze(context.Context, AnalyzeRequest) error

	// KeyTypes returns the key types found on an analyzed host.
	KeyTypes(ctx context.Context, host string) ([]string, error)

	// Expand returns one layer of the key tree, largest first.
	Expand(context.Context, ExpandRequest) ([]NodeInfo, error)

	// KeyInfo returns a sample of one key's value.
	KeyInfo(ctx context.Context, host, key string) (*KeyInfo, error)
}

// Client is the API implementation backed by an *rmahttp.Client.
type Client struct {
	client *rmahttp.Client
	logger *zap.Logger
}

var _ API = (*Client)(nil)

// New creates a Client.  A nil logger disables logging.
func New(c *rmahttp.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		client: c,
		logger: logger,
	}
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	if err := c.client.Post(ctx, path, in, out); err != nil {
		c.logger.Warn("backend call failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}

// InstanceList implements API.  A backend with no instances yields an empty slice.
func (c *Client) InstanceList(ctx context.Context) ([]InstanceStatus, error) {
	var list []InstanceStatus
	err := c.post(ctx, InstanceListPath, struct{}{}, &list)
	return list, err
}

// StartAnalyze implements API.  The request is rejected locally if it names
// no host or no separators.
func (c *Client) StartAnalyze(ctx context.Context, request AnalyzeRequest) error {
	switch {
	case len(request.Host) == 0:
		return ErrMissingHost

	case len(request.Separators) == 0:
		return ErrMissingSeparators
	}

	c.logger.Info("starting analysis", zap.String("host", request.Host), zap.Uint("port", request.Port))
	return c.post(ctx, StartAnalyzePath, request, nil)
}

// KeyTypes implements API.
func (c *Client) KeyTypes(ctx context.Context, host string) ([]string, error) {
	if len(host) == 0 {
		return nil, ErrMissingHost
	}

	var keyTypes []string
	err := c.post(ctx, KeyTypePath, struct {
		Host string `json:"host"`
	}{Host: host}, &keyTypes)

	return keyTypes, err
}

// Expand implements API.  A non-positive NumLimit becomes DefaultNumLimit, and
// a zero SortVar becomes DefaultSortVar.
func (c *Client) Expand(ctx context.Context, request ExpandRequest) ([]NodeInfo, error) {
	if len(request.Host) == 0 {
		return nil, ErrMissingHost
	}

	if request.NumLimit <= 0 {
		request.NumLimit = DefaultNumLimit
	}

	if request.SortVar == 0 {
		request.SortVar = DefaultSortVar
	}

	var nodes []NodeInfo
	err := c.post(ctx, ExpandPath, request, &nodes)
	return nodes, err
}

// KeyInfo implements API.
func (c *Client) KeyInfo(ctx context.Context, host, key string) (*KeyInfo, error) {
	if len(host) == 0 {
		return nil, ErrMissingHost
	}

	var ki KeyInfo
	err := c.post(ctx, KeyInfoPath, struct {
		Host string `json:"host"`
		Key  string `json:"key"`
	}{Host: host, Key: key}, &ki)

	if err != nil {
		return nil, err
	}

	return &ki, nil
}
