// Package crates provides a client for the crates.io package registry,
// used by the audit command to check that resolved dependencies exist and
// to surface newer published versions.
package crates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/cargoplan/pkg/httputil"
	"github.com/matzehuels/cargoplan/pkg/registry"
)

// CrateInfo holds metadata for a crate from crates.io.
//
// The Version field contains the max_version (latest stable or highest
// version). Zero values: all string fields are empty, Downloads is 0.
// A Downloads value of 0 is valid for newly published crates.
type CrateInfo struct {
	Name        string // Crate name (e.g., "serde", never empty in valid info)
	Version     string // Latest version (e.g., "1.0.193", never empty in valid info)
	Description string // Crate description (may be empty)
	License     string // License identifier(s) (may be "MIT OR Apache-2.0")
	Repository  string // Repository URL (may be empty)
	Downloads   int    // Total download count across all versions
}

// Client provides access to the crates.io package registry API.
// It handles HTTP requests with caching and automatic retries.
//
// Note: crates.io requires a User-Agent header; this client sets one
// automatically. All methods are safe for sequential use; share the
// underlying cache directory rather than the Client across goroutines.
type Client struct {
	*registry.Client
	baseURL string
}

// NewClient creates a crates.io client whose responses are cached for ttl.
// The cache lives in the default cache directory (~/.cache/cargoplan/).
func NewClient(ttl time.Duration) (*Client, error) {
	cache, err := httputil.NewCache("", ttl)
	if err != nil {
		return nil, err
	}
	return NewClientWithCache(cache), nil
}

// NewClientWithCache creates a crates.io client using the given cache.
func NewClientWithCache(cache *httputil.Cache) *Client {
	headers := map[string]string{
		"User-Agent": "cargoplan/1.0 (https://github.com/matzehuels/cargoplan)",
	}
	return &Client{
		Client:  registry.NewClient(cache.Namespace("crates:"), headers),
		baseURL: "https://crates.io/api/v1",
	}
}

// FetchCrate retrieves metadata for a crate from crates.io.
//
// The crate parameter is case-sensitive and must match the published crate
// name exactly. If refresh is true, the cache is bypassed and a fresh API
// call is made.
//
// Returns:
//   - CrateInfo populated with metadata on success
//   - [registry.ErrNotFound] if the crate doesn't exist
//   - [registry.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
//   - Other errors for JSON decoding failures
func (c *Client) FetchCrate(ctx context.Context, crate string, refresh bool) (*CrateInfo, error) {
	var info CrateInfo
	err := c.Cached(ctx, crate, refresh, &info, func() error {
		return c.fetch(ctx, crate, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, crate string, info *CrateInfo) error {
	var data crateResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/crates/%s", c.baseURL, crate), &data); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return fmt.Errorf("%w: crate %s", err, crate)
		}
		return err
	}

	*info = CrateInfo{
		Name:        data.Crate.Name,
		Version:     data.Crate.MaxVersion,
		Description: data.Crate.Description,
		License:     data.Crate.License,
		Repository:  data.Crate.Repository,
		Downloads:   data.Crate.Downloads,
	}
	return nil
}

type crateResponse struct {
	Crate struct {
		Name        string `json:"name"`
		MaxVersion  string `json:"max_version"`
		Description string `json:"description"`
		License     string `json:"license"`
		Repository  string `json:"repository"`
		Downloads   int    `json:"downloads"`
	} `json:"crate"`
}
