// Package upstream contains the third-party API clients: geocoding, weather,
// movie search and nearby events. Each client maps the provider payload into
// the records of package models.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/cityexplorer/internal/metrics"
)

// ErrNoResults is returned when a provider answers successfully but has
// nothing for the query.
var ErrNoResults = errors.New("upstream: no results")

// StatusError is a non-2xx answer from a provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Client holds what every provider client needs.
type Client struct {
	http     *http.Client
	baseURL  *url.URL
	apiKey   string
	provider string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if raw == "" {
			return
		}
		if u, err := url.Parse(raw); err == nil {
			c.baseURL = u
		}
	}
}

func newClient(provider, defaultBaseURL, apiKey string, opts []Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: api key required", provider)
	}
	u, err := url.Parse(defaultBaseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		http:     http.DefaultClient,
		baseURL:  u,
		apiKey:   apiKey,
		provider: provider,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) newReq(ctx context.Context, p string, q url.Values) (*http.Request, error) {
	u := *c.baseURL
	u.Path = path.Join(u.Path, p)
	if strings.HasSuffix(p, "/") {
		u.Path += "/"
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// getJSON performs a GET and decodes a 2xx body into out.
func (c *Client) getJSON(ctx context.Context, p string, q url.Values, out any) error {
	req, err := c.newReq(ctx, p, q)
	if err != nil {
		return err
	}

	start := time.Now()
	err = c.do(req, out)
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordUpstream(c.provider, outcome, elapsed)
	zerolog.Ctx(ctx).Debug().
		Str("provider", c.provider).
		Dur("elapsed", elapsed).
		Err(err).
		Msg("upstream request")

	return err
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		// the request URL carries the credential; never let it into errors
		var ue *url.Error
		if errors.As(err, &ue) {
			return fmt.Errorf("%s: %s request: %w", c.provider, strings.ToLower(ue.Op), ue.Err)
		}
		return fmt.Errorf("%s: request failed", c.provider)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Provider: c.provider, StatusCode: resp.StatusCode, Body: string(b)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.provider, err)
	}
	return nil
}
