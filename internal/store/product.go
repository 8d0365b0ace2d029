// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"productcatalog/internal/catalog"
	"productcatalog/internal/contentful"
	"productcatalog/internal/models"
	"productcatalog/internal/richtext"
)

// rawProduct is the field set of a product entry.
type rawProduct struct {
	Name        *string          `json:"name"`
	Description json.RawMessage  `json:"description"`
	Category    *contentful.Link `json:"category"`
	Image       *contentful.Link `json:"image"`
}

// ListProducts returns every product in the order the store returns them.
func (c *Catalog) ListProducts(ctx context.Context) ([]models.Product, error) {
	return c.listProducts(ctx, "list products", nil)
}

// ListProductsByCategory returns the products of one category. An id that
// matches no category yields an empty slice.
func (c *Catalog) ListProductsByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	if categoryID == "" {
		return nil, ErrEmptyCategoryID
	}

	var equals map[string]string
	if c.src.Supports(contentful.CapabilityLinkFilter) {
		equals = map[string]string{"fields.category.sys.id": categoryID}
	}
	items, err := c.listProducts(ctx, "list products by category", equals)
	if err != nil {
		return nil, err
	}
	// Applied on both paths so pushed-down and local filtering agree.
	return catalog.Filter(items, categoryID), nil
}

func (c *Catalog) listProducts(ctx context.Context, op string, equals map[string]string) ([]models.Product, error) {
	coll, err := c.fetch(ctx, op, contentful.Query{
		ContentType: ContentTypeProduct,
		Include:     linkDepth,
		Equals:      equals,
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.Product, 0, len(coll.Items))
	for _, e := range coll.Items {
		p, err := toProduct(coll, e)
		if err != nil {
			slog.Warn("skipping malformed product", "id", e.Sys.ID, "error", err)
			continue
		}
		items = append(items, p)
	}
	return items, nil
}

// toProduct converts a product entry into a models.Product, resolving its
// links against coll.
func toProduct(coll *contentful.Collection, e contentful.Entry) (models.Product, error) {
	var raw rawProduct
	if err := e.DecodeFields(&raw); err != nil {
		return models.Product{}, fmt.Errorf("decode fields: %w", err)
	}
	if raw.Name == nil {
		return models.Product{}, errors.New("missing name")
	}
	if raw.Category == nil || raw.Category.ID() == "" {
		return models.Product{}, errors.New("missing category")
	}
	doc, err := richtext.Parse(raw.Description)
	if err != nil {
		return models.Product{}, fmt.Errorf("description: %w", err)
	}

	categoryID := raw.Category.ID()
	if _, ok := coll.Entry(categoryID); !ok {
		// Kept as is; the category may be unpublished or deleted.
		slog.Warn("product references unknown category", "id", e.Sys.ID, "category_id", categoryID)
	}

	return models.Product{
		ID:          e.Sys.ID,
		Name:        *raw.Name,
		Description: doc,
		CategoryID:  categoryID,
		Image:       imageURL(coll, e.Sys.ID, raw.Image),
	}, nil
}

// imageURL returns the file URL of the linked asset, or "" when the link,
// the asset or its file URL is missing, or the link is not to an asset.
func imageURL(coll *contentful.Collection, productID string, link *contentful.Link) string {
	if link == nil {
		return ""
	}
	if !link.IsAsset() {
		slog.Debug("product image link is not an asset", "id", productID, "link_type", link.Sys.LinkType)
		return ""
	}
	asset, ok := coll.Asset(link.ID())
	if !ok {
		slog.Debug("product image asset not resolved", "id", productID, "asset_id", link.ID())
		return ""
	}
	u, ok := asset.FileURL()
	if !ok {
		slog.Debug("product image has no file url", "id", productID, "asset_id", link.ID())
		return ""
	}
	return u
}
