package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/raphi011/vsort/internal/imagecache"
	"github.com/raphi011/vsort/internal/log"
)

// MaxSourceBytes caps a single download.
const MaxSourceBytes = 64 << 20

// Client loads images for the engine. Safe for concurrent use.
type Client struct {
	http *http.Client
	disk *DiskCache
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for remote locators.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithDiskCache enables the on-disk tier for remote locators. A nil cache disables it.
func WithDiskCache(d *DiskCache) Option {
	return func(c *Client) { c.disk = d }
}

// NewClient creates a client. Without options it uses http.DefaultClient and no disk tier.
func NewClient(opts ...Option) *Client {
	c := &Client{http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch loads key.Locator and scales it to fit key's size. Timeouts come from ctx.
func (c *Client) Fetch(ctx context.Context, key imagecache.Key) (*imagecache.Image, error) {
	data, err := c.source(ctx, key)
	if err != nil {
		return nil, err
	}

	img, err := Decode(data, key.Width, key.Height)
	if err != nil {
		// Do not keep serving bytes that cannot be decoded.
		_ = c.invalidate(key.Locator)
		return nil, imagecache.NewFetchError(imagecache.ErrDecode, key, err)
	}
	return img, nil
}

func (c *Client) source(ctx context.Context, key imagecache.Key) ([]byte, error) {
	l := log.FromContext(ctx)
	loc := key.Locator

	if loc == "" {
		return nil, imagecache.NewFetchError(imagecache.ErrSourceMissing, key, nil)
	}

	if !IsRemote(loc) {
		data, err := readLocal(loc)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, imagecache.NewFetchError(imagecache.ErrSourceMissing, key, err)
			}
			return nil, imagecache.NewFetchError(imagecache.ErrNetwork, key, err)
		}
		return data, nil
	}

	if c.disk != nil {
		if data, ok := c.disk.Get(loc); ok {
			l.Debug("disk cache hit", "locator", loc, "bytes", len(data))
			return data, nil
		}
	}

	data, err := c.download(ctx, key)
	if err != nil {
		return nil, err
	}

	if c.disk != nil {
		if err := c.disk.Put(loc, data); err != nil {
			l.Warn("disk cache write failed", "locator", loc, "err", err)
		}
	}
	return data, nil
}

func (c *Client) download(ctx context.Context, key imagecache.Key) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key.Locator, nil)
	if err != nil {
		return nil, imagecache.NewFetchError(imagecache.ErrSourceMissing, key, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, imagecache.NewFetchError(imagecache.ErrNetwork, key, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, imagecache.NewFetchError(imagecache.ErrSourceMissing, key, fmt.Errorf("HTTP %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, imagecache.NewFetchError(imagecache.ErrNetwork, key, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSourceBytes+1))
	if err != nil {
		return nil, imagecache.NewFetchError(imagecache.ErrNetwork, key, err)
	}
	if len(data) > MaxSourceBytes {
		return nil, imagecache.NewFetchError(imagecache.ErrDecode, key, fmt.Errorf("source larger than %d bytes", MaxSourceBytes))
	}
	return data, nil
}

func (c *Client) invalidate(locator string) error {
	if c.disk == nil {
		return nil
	}
	return c.disk.Invalidate(locator)
}

// IsRemote reports whether locator is an http or https URL.
func IsRemote(locator string) bool {
	u, err := url.Parse(locator)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// readLocal reads a plain path or a file:// URL.
func readLocal(locator string) ([]byte, error) {
	path := locator
	if strings.HasPrefix(locator, "file://") {
		u, err := url.Parse(locator)
		if err != nil {
			return nil, err
		}
		path = u.Path
	}
	return os.ReadFile(path)
}
