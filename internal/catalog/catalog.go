// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog composes normalized categories and products for
// presentation. Every function is pure: inputs are never modified and
// results preserve input order.
package catalog

import "productcatalog/internal/models"

// Group is a category together with the products that belong to it.
// Products is never empty for groups returned by GroupProducts.
type Group struct {
	Category models.Category
	Products []models.Product
}

// Single reports whether the group holds exactly one product, which the
// catalog page shows flat instead of as a collapsible list.
func (g Group) Single() bool {
	return len(g.Products) == 1
}

// Filter returns the products whose CategoryID equals categoryID. The
// result is never nil.
func Filter(products []models.Product, categoryID string) []models.Product {
	out := []models.Product{}
	for _, p := range products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

// GroupProducts pairs each category with its products, keeping category
// order, and drops categories without products. Products referencing a
// category that is not in categories are not part of any group. A repeated
// category id is grouped once, at its first position.
func GroupProducts(categories []models.Category, products []models.Product) []Group {
	byCategory := make(map[string][]models.Product, len(categories))
	for _, p := range products {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}

	groups := []Group{}
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		ps := byCategory[c.ID]
		if len(ps) == 0 || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		groups = append(groups, Group{Category: c, Products: ps})
	}
	return groups
}

// Orphans returns the products whose category is not among categories.
func Orphans(categories []models.Category, products []models.Product) []models.Product {
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}
	var out []models.Product
	for _, p := range products {
		if !known[p.CategoryID] {
			out = append(out, p)
		}
	}
	return out
}

// Select narrows groups to the one for categoryID. An empty categoryID
// keeps every group; an unknown one yields none.
func Select(groups []Group, categoryID string) []Group {
	if categoryID == "" {
		return groups
	}
	for _, g := range groups {
		if g.Category.ID == categoryID {
			return []Group{g}
		}
	}
	return []Group{}
}
