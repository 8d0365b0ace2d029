// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store maps content store entries into catalog models. It is the
// only package that reads the store's raw entry and asset shapes.
package store

import (
	"context"
	"errors"

	"productcatalog/internal/contentful"
)

// Content type ids as configured in the content model.
const (
	ContentTypeCategory = "category"
	ContentTypeProduct  = "product"
)

// linkDepth resolves a product's category entry and image asset inline.
const linkDepth = 2

var (
	// ErrFetchFailure is matched by every error caused by the content store.
	ErrFetchFailure = errors.New("content fetch failed")

	// ErrEmptyCategoryID is returned when a category filter has no id.
	ErrEmptyCategoryID = errors.New("category id is empty")
)

// FetchError wraps a content store failure. Err is kept for logging and
// must not be shown to API clients.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return e.Op + ": " + ErrFetchFailure.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both ErrFetchFailure and the underlying cause.
func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailure, e.Err}
}

// Source is a content store the catalog can read entries from.
type Source interface {
	Entries(ctx context.Context, q contentful.Query) (*contentful.Collection, error)
	Supports(c contentful.Capability) bool
}

// Catalog lists categories and products from a Source. It holds no state
// besides the source and is safe for concurrent use.
type Catalog struct {
	src Source
}

// NewCatalog returns a Catalog reading from src.
func NewCatalog(src Source) *Catalog {
	return &Catalog{src: src}
}

// fetch runs q against the source and wraps any failure as a FetchError.
func (c *Catalog) fetch(ctx context.Context, op string, q contentful.Query) (*contentful.Collection, error) {
	coll, err := c.src.Entries(ctx, q)
	if err != nil {
		return nil, &FetchError{Op: op, Err: err}
	}
	return coll, nil
}
