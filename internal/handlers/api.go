// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"productcatalog/internal/middleware"
	"productcatalog/internal/models"
	"productcatalog/internal/store"
)

// ProductCatalog is the read side of the catalog the handlers serve.
// *store.Catalog implements it.
type ProductCatalog interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID string) ([]models.Product, error)
}

// Error codes returned in the "error" field of JSON error bodies.
const (
	errFetchCategories = "Failed to fetch categories"
	errFetchProducts   = "Failed to fetch products"
	errNotFound        = "Not found"
	errMethod          = "Method not allowed"
)

// unavailableMessage is shown to clients instead of the store's own error.
const unavailableMessage = "The catalog is temporarily unavailable. Please try again later."

// API serves the JSON catalog endpoints.
type API struct {
	catalog ProductCatalog
	now     func() time.Time
}

// NewAPI creates the JSON API handlers over c.
func NewAPI(c ProductCatalog) *API {
	return &API{catalog: c, now: time.Now}
}

// Categories returns every category in display order.
func (a *API) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.catalog.ListCategories(r.Context())
	if err != nil {
		a.fetchFailed(w, r, errFetchCategories, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// Products returns all products, or only those of ?categoryId= when it is
// set. An unknown category yields an empty array.
func (a *API) Products(w http.ResponseWriter, r *http.Request) {
	var (
		products []models.Product
		err      error
	)
	if id := r.URL.Query().Get("categoryId"); id != "" {
		products, err = a.catalog.ListProductsByCategory(r.Context(), id)
	} else {
		products, err = a.catalog.ListProducts(r.Context())
	}
	if err != nil {
		a.fetchFailed(w, r, errFetchProducts, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Health reports that the process is serving requests. It does not reach
// the content store.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"message":   "API is running",
		"timestamp": a.now().UTC().Format(time.RFC3339),
	})
}

// fetchFailed logs the underlying cause and answers with an opaque 500.
func (a *API) fetchFailed(w http.ResponseWriter, r *http.Request, code string, err error) {
	attrs := []any{
		"error", err,
		"path", r.URL.Path,
		"request_id", middleware.RequestIDFromContext(r.Context()),
	}
	switch {
	case errors.Is(err, context.Canceled):
		// The client went away; nobody reads the response.
		slog.Info("request cancelled during catalog fetch", attrs...)
	case errors.Is(err, store.ErrFetchFailure):
		slog.Error("catalog fetch failed", attrs...)
	default:
		slog.Error("catalog request failed", attrs...)
	}
	writeError(w, http.StatusInternalServerError, code, unavailableMessage)
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": errNotFound})
}

// MethodNotAllowed answers known routes hit with an unsupported method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, errMethod, r.Method+" is not supported on "+r.URL.Path)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes the API's {"error","message"} body.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}
