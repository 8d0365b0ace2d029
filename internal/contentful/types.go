// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package contentful talks to the Contentful Content Delivery API and models
// its raw entry, asset and link representation. Callers decode entry fields
// into their own structs; nothing here knows about catalog entities.
package contentful

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// Sys holds the system metadata attached to every entry, asset and link.
type Sys struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	LinkType    string `json:"linkType,omitempty"`
	ContentType *Link  `json:"contentType,omitempty"`
	Locale      string `json:"locale,omitempty"`
	Revision    int    `json:"revision,omitempty"`
}

// Link references another entry or asset by id.
type Link struct {
	Sys Sys `json:"sys"`
}

// ID returns the id of the linked entry or asset.
func (l Link) ID() string {
	return l.Sys.ID
}

// IsAsset reports whether the link points at an asset.
func (l Link) IsAsset() bool {
	return l.Sys.LinkType == "Asset"
}

// Entry is a content item. Fields stay undecoded until the caller knows
// which content type it is dealing with.
type Entry struct {
	Sys    Sys             `json:"sys"`
	Fields json.RawMessage `json:"fields"`
}

// ContentTypeID returns the content type the entry belongs to.
func (e Entry) ContentTypeID() string {
	if e.Sys.ContentType == nil {
		return ""
	}
	return e.Sys.ContentType.ID()
}

// DecodeFields unmarshals the entry's fields into v.
func (e Entry) DecodeFields(v any) error {
	if len(e.Fields) == 0 {
		return json.Unmarshal([]byte("{}"), v)
	}
	return json.Unmarshal(e.Fields, v)
}

// Asset is a binary resource such as an image.
type Asset struct {
	Sys    Sys             `json:"sys"`
	Fields json.RawMessage `json:"fields"`
}

// FileURL returns the asset's file URL. ok is false when the asset has no
// file, the file has no url, or the url is not a string.
func (a Asset) FileURL() (u string, ok bool) {
	var fields struct {
		File *struct {
			URL json.RawMessage `json:"url"`
		} `json:"file"`
	}
	if len(a.Fields) == 0 || json.Unmarshal(a.Fields, &fields) != nil {
		return "", false
	}
	if fields.File == nil {
		return "", false
	}
	var v any
	if json.Unmarshal(fields.File.URL, &v) != nil {
		return "", false
	}
	u, ok = v.(string)
	return u, ok
}

// Includes carries entries and assets linked from a collection's items.
type Includes struct {
	Entry []Entry `json:"Entry,omitempty"`
	Asset []Asset `json:"Asset,omitempty"`
}

// Collection is a list of entries together with their resolved links.
type Collection struct {
	Sys      Sys               `json:"sys"`
	Total    int               `json:"total"`
	Skip     int               `json:"skip"`
	Limit    int               `json:"limit"`
	Items    []Entry           `json:"items"`
	Includes Includes          `json:"includes"`
	Errors   []json.RawMessage `json:"errors,omitempty"`

	once    sync.Once
	entries map[string]*Entry
	assets  map[string]*Asset
}

func (c *Collection) index() {
	c.once.Do(func() {
		c.entries = make(map[string]*Entry, len(c.Items)+len(c.Includes.Entry))
		c.assets = make(map[string]*Asset, len(c.Includes.Asset))
		for i := range c.Includes.Entry {
			c.entries[c.Includes.Entry[i].Sys.ID] = &c.Includes.Entry[i]
		}
		// Linked entries that are also items appear only in Items.
		for i := range c.Items {
			c.entries[c.Items[i].Sys.ID] = &c.Items[i]
		}
		for i := range c.Includes.Asset {
			c.assets[c.Includes.Asset[i].Sys.ID] = &c.Includes.Asset[i]
		}
	})
}

// Entry resolves a linked entry by id.
func (c *Collection) Entry(id string) (*Entry, bool) {
	c.index()
	e, ok := c.entries[id]
	return e, ok
}

// Asset resolves a linked asset by id.
func (c *Collection) Asset(id string) (*Asset, bool) {
	c.index()
	a, ok := c.assets[id]
	return a, ok
}

// Capability is an optional query feature a content source may offer.
type Capability int

const (
	// CapabilityOrder means Query.Order is honoured by the source.
	CapabilityOrder Capability = iota + 1
	// CapabilityLinkFilter means Query.Equals filters on link targets
	// (e.g. fields.category.sys.id) are honoured by the source.
	CapabilityLinkFilter
)

// Query selects entries of a single content type.
type Query struct {
	ContentType string
	// Order lists field paths to sort by, ascending unless prefixed by "-".
	Order []string
	// Include is the link resolution depth. Zero leaves the API default.
	Include int
	// Equals maps field paths to required values.
	Equals map[string]string
	// Limit is the page size used while fetching. Zero means maxPageSize.
	Limit int
	Skip  int
}

// Values encodes the query as CDA URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.ContentType != "" {
		v.Set("content_type", q.ContentType)
	}
	if len(q.Order) > 0 {
		v.Set("order", strings.Join(q.Order, ","))
	}
	if q.Include > 0 {
		v.Set("include", strconv.Itoa(q.Include))
	}
	for field, value := range q.Equals {
		v.Set(field, value)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Skip > 0 {
		v.Set("skip", strconv.Itoa(q.Skip))
	}
	return v
}
