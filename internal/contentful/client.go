// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package contentful

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

const (
	// DefaultHost is the Content Delivery API host.
	DefaultHost = "cdn.contentful.com"

	// DefaultEnvironment is used when no environment is configured.
	DefaultEnvironment = "master"

	// DefaultTimeout bounds a single API request.
	DefaultTimeout = 10 * time.Second

	// maxPageSize is the largest page the API accepts.
	maxPageSize = 1000

	// maxErrorBody caps how much of an unparsable error body is kept.
	maxErrorBody = 512
)

// ErrMissingCredentials is returned by New when the space id or access
// token is empty.
var ErrMissingCredentials = errors.New("contentful: space id and access token are required")

// APIError is a non-2xx reply from the Content Delivery API.
type APIError struct {
	StatusCode int
	ID         string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("contentful: %s (status %d): %s", e.ID, e.StatusCode, e.Message)
}

// Config configures a Client.
type Config struct {
	SpaceID     string
	AccessToken string
	Environment string
	// Host is a bare host name or a full base URL (scheme included).
	Host       string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Observer receives the outcome of every Entries call.
type Observer func(contentType string, dur time.Duration, err error)

// Client reads entries from one space environment. It is safe for
// concurrent use and holds no per-request state.
type Client struct {
	http        *http.Client
	baseURL     string
	accessToken string
	observe     Observer
}

// New creates a Client from cfg, applying defaults for the environment,
// host and timeout.
func New(cfg Config) (*Client, error) {
	if cfg.SpaceID == "" || cfg.AccessToken == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	base := strings.TrimRight(cfg.Host, "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		http: httpClient,
		baseURL: base + "/spaces/" + url.PathEscape(cfg.SpaceID) +
			"/environments/" + url.PathEscape(cfg.Environment),
		accessToken: cfg.AccessToken,
	}, nil
}

// SetObserver installs a hook called after every Entries call.
func (c *Client) SetObserver(o Observer) {
	c.observe = o
}

// Supports reports the query features the Delivery API offers; it
// supports all of them.
func (c *Client) Supports(Capability) bool {
	return true
}

// Entries fetches every entry matching q, following pagination until the
// collection is complete. Includes from all pages are merged.
func (c *Client) Entries(ctx context.Context, q Query) (*Collection, error) {
	start := time.Now()
	coll, err := c.entries(ctx, q)
	if c.observe != nil {
		c.observe(q.ContentType, time.Since(start), err)
	}
	return coll, err
}

func (c *Client) entries(ctx context.Context, q Query) (*Collection, error) {
	if q.Limit <= 0 || q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}

	var out *Collection
	seenEntries := map[string]bool{}
	seenAssets := map[string]bool{}

	for {
		page, err := c.page(ctx, q)
		if err != nil {
			return nil, err
		}

		if out == nil && len(page.Items) < page.Total && !totallyOrdered(q.Order) {
			// skip paging is only consistent under a total order; start over
			// with sys.id breaking ties.
			q.Order = append(slices.Clone(q.Order), tiebreakOrder)
			continue
		}

		if out == nil {
			out = &Collection{Sys: page.Sys, Total: page.Total, Skip: page.Skip, Limit: page.Limit}
		}
		out.Items = append(out.Items, page.Items...)
		out.Errors = append(out.Errors, page.Errors...)
		for _, e := range page.Includes.Entry {
			if !seenEntries[e.Sys.ID] {
				seenEntries[e.Sys.ID] = true
				out.Includes.Entry = append(out.Includes.Entry, e)
			}
		}
		for _, a := range page.Includes.Asset {
			if !seenAssets[a.Sys.ID] {
				seenAssets[a.Sys.ID] = true
				out.Includes.Asset = append(out.Includes.Asset, a)
			}
		}

		q.Skip += len(page.Items)
		if len(page.Items) == 0 || q.Skip >= page.Total {
			break
		}
	}

	if out.Items == nil {
		out.Items = []Entry{}
	}
	return out, nil
}

// tiebreakOrder makes any order total, sys.id being unique per entry.
const tiebreakOrder = "sys.id"

func totallyOrdered(order []string) bool {
	return slices.Contains(order, tiebreakOrder) || slices.Contains(order, "-"+tiebreakOrder)
}

// page performs a single GET /entries request.
func (c *Client) page(ctx context.Context, q Query) (*Collection, error) {
	reqURL := c.baseURL + "/entries?" + q.Values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("contentful request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contentful http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("contentful read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp, body)
	}

	var coll Collection
	if err := json.Unmarshal(body, &coll); err != nil {
		return nil, fmt.Errorf("contentful decode entries: %w", err)
	}
	return &coll, nil
}

// decodeAPIError turns an error envelope into an APIError. Bodies that are
// not an envelope are kept, truncated, as the message.
func decodeAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		ID:         http.StatusText(resp.StatusCode),
		RequestID:  resp.Header.Get("X-Contentful-Request-Id"),
	}

	var envelope struct {
		Sys       Sys    `json:"sys"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Sys.Type == "Error" {
		apiErr.ID = envelope.Sys.ID
		apiErr.Message = envelope.Message
		if envelope.RequestID != "" {
			apiErr.RequestID = envelope.RequestID
		}
		return apiErr
	}

	msg := string(body)
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	apiErr.Message = msg
	return apiErr
}
