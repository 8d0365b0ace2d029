// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine renders the public catalog pages. Templates are embedded
// in the binary and compiled once when the engine is created.
package engine

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"productcatalog/internal/catalog"
	"productcatalog/internal/models"
	"productcatalog/internal/richtext"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultSiteName is shown in the page title and header.
const DefaultSiteName = "Product Catalog"

// CatalogPage holds everything the catalog template needs.
type CatalogPage struct {
	SiteName string
	// Index lists the categories offered in the category picker.
	Index []models.Category
	// Selected is the id of the chosen category, or empty for all.
	Selected string
	// Groups are the category sections to display, in order.
	Groups []catalog.Group
	Year   int
}

// ErrorPage is rendered when the catalog cannot be shown.
type ErrorPage struct {
	SiteName string
	Status   int
	Message  string
	Year     int
}

// Engine renders catalog and error pages.
type Engine struct {
	templates *template.Template
}

// New compiles the embedded templates.
func New() (*Engine, error) {
	tmpl, err := template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("compile templates: %w", err)
	}
	return &Engine{templates: tmpl}, nil
}

// RenderCatalog renders the catalog page.
func (e *Engine) RenderCatalog(page CatalogPage) ([]byte, error) {
	if page.SiteName == "" {
		page.SiteName = DefaultSiteName
	}
	if page.Year == 0 {
		page.Year = time.Now().Year()
	}
	return e.render("catalog", page)
}

// RenderError renders a generic error page. message is shown verbatim and
// must not contain internal details.
func (e *Engine) RenderError(page ErrorPage) ([]byte, error) {
	if page.SiteName == "" {
		page.SiteName = DefaultSiteName
	}
	if page.Year == 0 {
		page.Year = time.Now().Year()
	}
	return e.render("error", page)
}

func (e *Engine) render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

var funcs = template.FuncMap{
	"richText": richtext.HTML,
	"summary":  summary,
	"imageSrc": ImageSrc,
}

// summary returns the plain-text preview of an optional description.
func summary(doc *richtext.Document) string {
	if doc == nil {
		return ""
	}
	return richtext.PlainText(*doc)
}

// ImageSrc turns a protocol-relative asset URL into an https URL. Other
// values are returned unchanged.
func ImageSrc(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
