// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the store-agnostic catalog entities served by the
// API and rendered by the catalog page. Nothing in here knows about the
// content store's entry, asset or link shapes.
package models

import "productcatalog/internal/richtext"

// Category groups products for display. Categories are listed in ascending
// Order.
type Category struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description *richtext.Document `json:"description,omitempty"`
	Order       int                `json:"order"`
}

// Product is a single catalog item. CategoryID references the Category it
// belongs to. Image is a protocol-relative or absolute URL, or empty when
// the product has no usable image.
type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description richtext.Document `json:"description"`
	CategoryID  string            `json:"categoryId"`
	Image       string            `json:"image"`
}
