// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package contentful

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient starts a CDA stand-in and returns a client pointed at it.
func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		SpaceID:     "space1",
		AccessToken: "token1",
		Host:        srv.URL,
	})
	require.NoError(t, err)
	return c
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{SpaceID: "s"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = New(Config{AccessToken: "t"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestNewDefaults(t *testing.T) {
	c, err := New(Config{SpaceID: "abc", AccessToken: "t"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.contentful.com/spaces/abc/environments/master", c.baseURL)

	c, err = New(Config{SpaceID: "abc", AccessToken: "t", Host: "preview.contentful.com/", Environment: "staging"})
	require.NoError(t, err)
	assert.Equal(t, "https://preview.contentful.com/spaces/abc/environments/staging", c.baseURL)
}

func TestEntriesRequest(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string][]string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/vnd.contentful.delivery.v1+json")
		fmt.Fprint(w, `{"sys":{"type":"Array"},"total":0,"skip":0,"limit":1000,"items":[]}`)
	})

	coll, err := c.Entries(context.Background(), Query{
		ContentType: "product",
		Include:     2,
		Equals:      map[string]string{"fields.category.sys.id": "c1"},
		Order:       []string{"fields.order", "sys.createdAt"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/spaces/space1/environments/master/entries", gotPath)
	assert.Equal(t, "Bearer token1", gotAuth)
	assert.Equal(t, []string{"product"}, gotQuery["content_type"])
	assert.Equal(t, []string{"2"}, gotQuery["include"])
	assert.Equal(t, []string{"c1"}, gotQuery["fields.category.sys.id"])
	assert.Equal(t, []string{"fields.order,sys.createdAt"}, gotQuery["order"])
	assert.Equal(t, []string{"1000"}, gotQuery["limit"])
	assert.NotNil(t, coll.Items)
	assert.Empty(t, coll.Items)
}

// pagedServer serves total synthetic entries in skip/limit pages and
// records the order parameter of every request.
func pagedServer(t *testing.T, total int) (*Client, func() []string) {
	t.Helper()
	var (
		mu     sync.Mutex
		orders []string
	)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		orders = append(orders, r.URL.Query().Get("order"))
		mu.Unlock()

		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		resp := map[string]any{
			"sys":   map[string]any{"type": "Array"},
			"total": total,
			"skip":  skip,
			"limit": limit,
		}
		var items []map[string]any
		for i := skip; i < skip+limit && i < total; i++ {
			items = append(items, map[string]any{
				"sys":    map[string]any{"id": "e" + strconv.Itoa(i), "type": "Entry"},
				"fields": map[string]any{},
			})
		}
		resp["items"] = items
		// The same asset is included on every page.
		resp["includes"] = map[string]any{
			"Asset": []any{map[string]any{"sys": map[string]any{"id": "a1", "type": "Asset"}, "fields": map[string]any{}}},
		}
		json.NewEncoder(w).Encode(resp)
	})

	return c, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return slices.Clone(orders)
	}
}

func TestEntriesPaging(t *testing.T) {
	const total = 2500

	t.Run("already totally ordered", func(t *testing.T) {
		c, orders := pagedServer(t, total)

		coll, err := c.Entries(context.Background(), Query{ContentType: "product", Order: []string{"sys.id"}})
		require.NoError(t, err)

		assert.Equal(t, []string{"sys.id", "sys.id", "sys.id"}, orders())
		assert.Len(t, coll.Items, total)
		assert.Equal(t, "e0", coll.Items[0].Sys.ID)
		assert.Equal(t, "e2499", coll.Items[total-1].Sys.ID)
		assert.Len(t, coll.Includes.Asset, 1, "includes are merged by id")
	})

	t.Run("tie-break added before paging", func(t *testing.T) {
		c, orders := pagedServer(t, total)
		q := Query{ContentType: "category", Order: []string{"fields.order"}}

		coll, err := c.Entries(context.Background(), q)
		require.NoError(t, err)

		// The first page is discarded and every page is re-read under a total order.
		assert.Equal(t, []string{
			"fields.order",
			"fields.order,sys.id", "fields.order,sys.id", "fields.order,sys.id",
		}, orders())
		assert.Len(t, coll.Items, total)
		assert.Equal(t, []string{"fields.order"}, q.Order, "caller's query is not modified")
	})

	t.Run("unordered", func(t *testing.T) {
		c, orders := pagedServer(t, total)

		coll, err := c.Entries(context.Background(), Query{ContentType: "product"})
		require.NoError(t, err)

		assert.Equal(t, []string{"", "sys.id", "sys.id", "sys.id"}, orders())
		assert.Len(t, coll.Items, total)
	})

	t.Run("single page keeps store order", func(t *testing.T) {
		c, orders := pagedServer(t, 10)

		coll, err := c.Entries(context.Background(), Query{ContentType: "product"})
		require.NoError(t, err)

		assert.Equal(t, []string{""}, orders())
		assert.Len(t, coll.Items, 10)
	})
}

func TestEntriesAPIError(t *testing.T) {
	t.Run("error envelope", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"sys":{"type":"Error","id":"AccessTokenInvalid"},"message":"The access token you sent could not be found or is invalid.","requestId":"req-1"}`)
		})

		_, err := c.Entries(context.Background(), Query{ContentType: "category"})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "AccessTokenInvalid", apiErr.ID)
		assert.Equal(t, "req-1", apiErr.RequestID)
		assert.Contains(t, apiErr.Error(), "status 401")
	})

	t.Run("non-envelope body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, "upstream exploded")
		})

		_, err := c.Entries(context.Background(), Query{ContentType: "category"})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Bad Gateway", apiErr.ID)
		assert.Equal(t, "upstream exploded", apiErr.Message)
	})

	t.Run("malformed success body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"items": "nope"`)
		})

		_, err := c.Entries(context.Background(), Query{ContentType: "category"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode entries")
	})
}

func TestEntriesObserver(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total":0,"items":[]}`)
	})

	var gotType string
	var gotErr error
	called := false
	c.SetObserver(func(contentType string, dur time.Duration, err error) {
		called = true
		gotType = contentType
		gotErr = err
	})

	_, err := c.Entries(context.Background(), Query{ContentType: "category"})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "category", gotType)
	assert.NoError(t, gotErr)
}

func TestEntriesContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total":0,"items":[]}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Entries(ctx, Query{ContentType: "category"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientSupportsEverything(t *testing.T) {
	c, err := New(Config{SpaceID: "s", AccessToken: "t"})
	require.NoError(t, err)
	assert.True(t, c.Supports(CapabilityOrder))
	assert.True(t, c.Supports(CapabilityLinkFilter))
}
