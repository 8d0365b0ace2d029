// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"productcatalog/internal/catalog"
	"productcatalog/internal/engine"
	"productcatalog/internal/middleware"
	"productcatalog/internal/models"
)

// Public serves the server-rendered catalog page.
type Public struct {
	engine   *engine.Engine
	catalog  ProductCatalog
	siteName string
	now      func() time.Time
}

// NewPublic creates the public page handlers. An empty siteName uses
// engine.DefaultSiteName.
func NewPublic(eng *engine.Engine, c ProductCatalog, siteName string) *Public {
	return &Public{engine: eng, catalog: c, siteName: siteName, now: time.Now}
}

// Catalog renders every non-empty category with its products. The optional
// ?category= parameter narrows the page to one category.
func (p *Public) Catalog(w http.ResponseWriter, r *http.Request) {
	var (
		categories []models.Category
		products   []models.Product
	)

	// Neither fetch depends on the other.
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		categories, err = p.catalog.ListCategories(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = p.catalog.ListProducts(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.Error("catalog page fetch failed",
			"error", err,
			"request_id", middleware.RequestIDFromContext(r.Context()),
		)
		p.renderError(w, http.StatusBadGateway, unavailableMessage)
		return
	}

	groups := catalog.GroupProducts(categories, products)
	if orphans := catalog.Orphans(categories, products); len(orphans) > 0 {
		slog.Warn("products hidden without a known category", "count", len(orphans))
	}

	index := make([]models.Category, 0, len(groups))
	for _, grp := range groups {
		index = append(index, grp.Category)
	}

	selected := r.URL.Query().Get("category")
	rendered, err := p.engine.RenderCatalog(engine.CatalogPage{
		SiteName: p.siteName,
		Index:    index,
		Selected: selected,
		Groups:   catalog.Select(groups, selected),
		Year:     p.now().Year(),
	})
	if err != nil {
		slog.Error("render catalog failed", "error", err)
		p.renderError(w, http.StatusInternalServerError, "Something went wrong while rendering the catalog.")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(rendered)
}

// renderError writes the HTML error page, falling back to plain text when
// the template itself fails.
func (p *Public) renderError(w http.ResponseWriter, status int, message string) {
	page, err := p.engine.RenderError(engine.ErrorPage{
		SiteName: p.siteName,
		Status:   status,
		Message:  message,
		Year:     p.now().Year(),
	})
	if err != nil {
		slog.Error("render error page failed", "error", err)
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(page)
}
