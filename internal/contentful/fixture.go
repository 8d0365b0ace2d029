// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package contentful

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Fixture serves entries from a CDA-shaped JSON document held in memory.
// It filters by content type only: Order, Equals and paging are ignored,
// and Supports reports false for every capability.
type Fixture struct {
	items  []Entry
	assets []Asset
	extra  []Entry
}

// LoadFixture reads a fixture from a JSON file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	return NewFixture(data)
}

// NewFixture parses a fixture. The document has the shape of an entries
// response: {"items": [...], "includes": {"Entry": [...], "Asset": [...]}}.
// Items may mix content types.
func NewFixture(data []byte) (*Fixture, error) {
	var doc struct {
		Items    []Entry  `json:"items"`
		Includes Includes `json:"includes"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &Fixture{items: doc.Items, assets: doc.Includes.Asset, extra: doc.Includes.Entry}, nil
}

// Supports always reports false.
func (f *Fixture) Supports(Capability) bool {
	return false
}

// Entries returns the fixture items of q.ContentType. Every other entry and
// every asset is returned as an include so links resolve.
func (f *Fixture) Entries(ctx context.Context, q Query) (*Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	coll := &Collection{
		Sys:   Sys{Type: "Array"},
		Items: []Entry{},
	}
	for _, e := range f.items {
		if q.ContentType == "" || e.ContentTypeID() == q.ContentType {
			coll.Items = append(coll.Items, e)
		} else {
			coll.Includes.Entry = append(coll.Includes.Entry, e)
		}
	}
	coll.Includes.Entry = append(coll.Includes.Entry, f.extra...)
	coll.Includes.Asset = append(coll.Includes.Asset, f.assets...)
	coll.Total = len(coll.Items)
	coll.Limit = len(coll.Items)
	return coll, nil
}
