// Package osuapi looks up beatmaps, players and scores through the osu! v1 API
// and downloads the images the thumbnail is composed from.
package osuapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrNotFound is returned when the API answers but has no matching record.
	ErrNotFound = errors.New("not found")
	// ErrRequest is returned when a request fails or the response cannot be read.
	ErrRequest = errors.New("request failed")
)

// Default endpoints
const (
	DefaultBaseURL   = "https://osu.ppy.sh/api"
	DefaultAssetsURL = "https://assets.ppy.sh"
	DefaultAvatarURL = "https://a.ppy.sh"
	DefaultTimeout   = 12 * time.Second
)

// Client talks to the osu! API. The zero value is not usable; call New.
type Client struct {
	APIKey    string
	BaseURL   string
	AssetsURL string
	AvatarURL string
	HTTP      *http.Client

	cache *diskCache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points API calls at another host, mostly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.BaseURL = u }
}

// WithAssetsURL sets the host beatmap covers are downloaded from.
func WithAssetsURL(u string) Option {
	return func(c *Client) { c.AssetsURL = u }
}

// WithAvatarURL sets the host player avatars are downloaded from.
func WithAvatarURL(u string) Option {
	return func(c *Client) { c.AvatarURL = u }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.HTTP = h }
}

// WithCacheDir enables the on-disk image cache. An empty dir disables it.
func WithCacheDir(dir string) Option {
	return func(c *Client) { c.cache = newDiskCache(dir) }
}

// New creates a client for the given API key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		APIKey:    apiKey,
		BaseURL:   DefaultBaseURL,
		AssetsURL: DefaultAssetsURL,
		AvatarURL: DefaultAvatarURL,
		HTTP:      &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON calls an API endpoint and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, v any) error {
	params.Set("k", c.APIKey)
	u := c.BaseURL + "/" + endpoint + "?" + params.Encode()

	body, err := c.get(ctx, u)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %s: decode response: %v", ErrRequest, endpoint, err)
	}
	return nil
}

// get fetches u and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, redact(req.URL))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %s: %s", ErrRequest, redact(req.URL), resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrRequest, err)
	}
	return body, nil
}

// getImage fetches an image, consulting the disk cache first.
func (c *Client) getImage(ctx context.Context, u string) ([]byte, error) {
	if data, ok := c.cache.get(u); ok {
		return data, nil
	}
	data, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image at %s", ErrNotFound, u)
	}
	c.cache.put(u, data)
	return data, nil
}

// redact strips the API key from a URL before it ends up in an error.
func redact(u *url.URL) string {
	q := u.Query()
	if q.Has("k") {
		q.Set("k", "REDACTED")
	}
	r := *u
	r.RawQuery = q.Encode()
	return r.String()
}
