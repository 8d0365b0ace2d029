// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"productcatalog/internal/contentful"
	"productcatalog/internal/models"
	"productcatalog/internal/richtext"
)

// rawCategory is the field set of a category entry.
type rawCategory struct {
	Name        *string         `json:"name"`
	Description json.RawMessage `json:"description"`
	Order       *int            `json:"order"`
}

// ListCategories returns every category in ascending Order. Categories with
// equal Order keep the order the store returned them in.
func (c *Catalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	q := contentful.Query{ContentType: ContentTypeCategory}
	ordered := c.src.Supports(contentful.CapabilityOrder)
	if ordered {
		q.Order = []string{"fields.order"}
	}

	coll, err := c.fetch(ctx, "list categories", q)
	if err != nil {
		return nil, err
	}

	items := make([]models.Category, 0, len(coll.Items))
	for _, e := range coll.Items {
		cat, err := toCategory(e)
		if err != nil {
			slog.Warn("skipping malformed category", "id", e.Sys.ID, "error", err)
			continue
		}
		items = append(items, cat)
	}

	if !slices.IsSortedFunc(items, byOrder) {
		if ordered {
			slog.Warn("content store returned categories out of order")
		}
		slices.SortStableFunc(items, byOrder)
	}
	return items, nil
}

func byOrder(a, b models.Category) int {
	return cmp.Compare(a.Order, b.Order)
}

// toCategory converts a category entry into a models.Category.
func toCategory(e contentful.Entry) (models.Category, error) {
	var raw rawCategory
	if err := e.DecodeFields(&raw); err != nil {
		return models.Category{}, fmt.Errorf("decode fields: %w", err)
	}
	if raw.Name == nil {
		return models.Category{}, errors.New("missing name")
	}
	if raw.Order == nil {
		return models.Category{}, errors.New("missing order")
	}
	if *raw.Order < 0 {
		return models.Category{}, fmt.Errorf("negative order %d", *raw.Order)
	}

	cat := models.Category{
		ID:    e.Sys.ID,
		Name:  *raw.Name,
		Order: *raw.Order,
	}
	if present(raw.Description) {
		doc, err := richtext.Parse(raw.Description)
		if err != nil {
			return models.Category{}, fmt.Errorf("description: %w", err)
		}
		cat.Description = &doc
	}
	return cat, nil
}

// present reports whether a raw field holds a non-null value.
func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}
