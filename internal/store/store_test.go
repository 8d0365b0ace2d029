// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"productcatalog/internal/contentful"
)

const fixturePath = "../contentful/testdata/catalog.json"

const emptyDoc = `{"nodeType":"document","data":{},"content":[]}`

// testSource wraps a fixture and optionally honours ordering and link
// filters, recording every query it receives.
type testSource struct {
	*contentful.Fixture
	caps    map[contentful.Capability]bool
	err     error
	queries []contentful.Query
}

func (s *testSource) Supports(c contentful.Capability) bool {
	return s.caps[c]
}

func (s *testSource) Entries(ctx context.Context, q contentful.Query) (*contentful.Collection, error) {
	s.queries = append(s.queries, q)
	if s.err != nil {
		return nil, s.err
	}
	coll, err := s.Fixture.Entries(ctx, q)
	if err != nil {
		return nil, err
	}
	if id, ok := q.Equals["fields.category.sys.id"]; ok && s.caps[contentful.CapabilityLinkFilter] {
		kept := []contentful.Entry{}
		for _, e := range coll.Items {
			var f struct {
				Category *contentful.Link `json:"category"`
			}
			if e.DecodeFields(&f) == nil && f.Category != nil && f.Category.ID() == id {
				kept = append(kept, e)
			}
		}
		coll.Items = kept
		coll.Total = len(kept)
	}
	return coll, nil
}

// pushdown returns a source that supports every capability.
func pushdown(f *contentful.Fixture) *testSource {
	return &testSource{Fixture: f, caps: map[contentful.Capability]bool{
		contentful.CapabilityOrder:      true,
		contentful.CapabilityLinkFilter: true,
	}}
}

func loadFixture(t *testing.T) *contentful.Fixture {
	t.Helper()
	f, err := contentful.LoadFixture(fixturePath)
	require.NoError(t, err)
	return f
}

// newFixture builds a fixture from entry and asset JSON snippets.
func newFixture(t *testing.T, entries []string, assets ...string) *contentful.Fixture {
	t.Helper()
	doc := fmt.Sprintf(`{"items":[%s],"includes":{"Asset":[%s]}}`,
		strings.Join(entries, ","), strings.Join(assets, ","))
	f, err := contentful.NewFixture([]byte(doc))
	require.NoError(t, err)
	return f
}

func categoryEntry(id, fields string) string {
	return fmt.Sprintf(`{"sys":{"id":%q,"type":"Entry","contentType":{"sys":{"id":"category","type":"Link","linkType":"ContentType"}}},"fields":%s}`, id, fields)
}

func productEntry(id, fields string) string {
	return fmt.Sprintf(`{"sys":{"id":%q,"type":"Entry","contentType":{"sys":{"id":"product","type":"Link","linkType":"ContentType"}}},"fields":%s}`, id, fields)
}

// productFields renders product fields linking categoryID and, when
// assetID is not empty, an image asset.
func productFields(name, categoryID, assetID string) string {
	image := ""
	if assetID != "" {
		image = fmt.Sprintf(`,"image":{"sys":{"type":"Link","linkType":"Asset","id":%q}}`, assetID)
	}
	return fmt.Sprintf(`{"name":%q,"description":%s,"category":{"sys":{"type":"Link","linkType":"Entry","id":%q}}%s}`,
		name, emptyDoc, categoryID, image)
}

func assetJSON(id, url string) string {
	return fmt.Sprintf(`{"sys":{"id":%q,"type":"Asset"},"fields":{"file":{"url":%q}}}`, id, url)
}
