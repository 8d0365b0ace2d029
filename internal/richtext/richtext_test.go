// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package richtext

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "nodeType": "document",
  "data": {},
  "content": [
    {
      "nodeType": "paragraph",
      "data": {},
      "content": [
        {"nodeType": "text", "value": "Save ", "marks": [], "data": {}},
        {"nodeType": "text", "value": "tax-free", "marks": [{"type": "bold"}], "data": {}},
        {"nodeType": "text", "value": " every year.", "marks": [], "data": {}}
      ]
    },
    {
      "nodeType": "unordered-list",
      "data": {},
      "content": [
        {
          "nodeType": "list-item",
          "data": {},
          "content": [
            {"nodeType": "paragraph", "data": {}, "content": [
              {"nodeType": "text", "value": "Up to £20,000", "marks": [], "data": {}}
            ]}
          ]
        }
      ]
    },
    {"nodeType": "paragraph", "data": {}, "content": []}
  ]
}`

func TestParse(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		doc, err := Parse([]byte(sampleDoc))
		require.NoError(t, err)
		require.Len(t, doc.Content, 3)
		assert.Equal(t, NodeParagraph, doc.Content[0].NodeType)
		assert.Equal(t, "tax-free", doc.Content[0].Content[1].Value)
		assert.Equal(t, []Mark{{Type: MarkBold}}, doc.Content[0].Content[1].Marks)
	})

	t.Run("null and empty input", func(t *testing.T) {
		for _, in := range []string{"", "  ", "null"} {
			_, err := Parse([]byte(in))
			assert.ErrorIs(t, err, ErrNotDocument, "input %q", in)
		}
	})

	t.Run("non-document root", func(t *testing.T) {
		_, err := Parse([]byte(`{"nodeType":"paragraph","data":{},"content":[]}`))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotDocument))
	})

	t.Run("node without type", func(t *testing.T) {
		_, err := Parse([]byte(`{"nodeType":"document","data":{},"content":[{"data":{}}]}`))
		assert.Error(t, err)
	})

	t.Run("plain string is rejected", func(t *testing.T) {
		_, err := Parse([]byte(`"just text"`))
		assert.Error(t, err)
	})
}

func TestDocumentJSONShape(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	out, err := json.Marshal(doc)
	require.NoError(t, err)

	// The encoded form must match the store's shape, including the empty
	// paragraph's content array and the empty marks arrays.
	assert.JSONEq(t, sampleDoc, string(out))
}

func TestZeroDocumentMarshal(t *testing.T) {
	out, err := json.Marshal(Document{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodeType":"document","data":{},"content":[]}`, string(out))
}

func TestHTML(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	got := string(HTML(doc))
	want := `<p>Save <b>tax-free</b> every year.</p>` +
		`<ul><li><p>Up to £20,000</p></li></ul>` +
		`<p></p>`
	assert.Equal(t, want, got)
}

func TestHTMLEscaping(t *testing.T) {
	doc := Document{Content: []Node{
		{NodeType: NodeParagraph, Content: []Node{
			{NodeType: NodeText, Value: `<script>alert("x")</script>`},
		}},
	}}
	got := string(HTML(doc))
	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "&lt;script&gt;")
}

func TestHTMLHyperlinks(t *testing.T) {
	link := func(uri string) Document {
		return Document{Content: []Node{
			{NodeType: NodeParagraph, Content: []Node{
				{NodeType: NodeHyperlink, Data: map[string]any{"uri": uri}, Content: []Node{
					{NodeType: NodeText, Value: "terms"},
				}},
			}},
		}}
	}

	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"https", "https://example.com/terms?a=1&b=2", `<p><a href="https://example.com/terms?a=1&amp;b=2">terms</a></p>`},
		{"relative", "/terms", `<p><a href="/terms">terms</a></p>`},
		{"mailto", "mailto:help@example.com", `<p><a href="mailto:help@example.com">terms</a></p>`},
		{"javascript dropped", "javascript:alert(1)", `<p>terms</p>`},
		{"empty dropped", "", `<p>terms</p>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(HTML(link(tt.uri))))
		})
	}
}

func TestHTMLMarksAndBlocks(t *testing.T) {
	doc := Document{Content: []Node{
		{NodeType: NodeHeading2, Content: []Node{{NodeType: NodeText, Value: "ISA"}}},
		{NodeType: NodeHR},
		{NodeType: NodeQuote, Content: []Node{
			{NodeType: NodeParagraph, Content: []Node{
				{NodeType: NodeText, Value: "x", Marks: []Mark{{Type: MarkBold}, {Type: MarkItalic}, {Type: "unknown"}}},
			}},
		}},
		{NodeType: NodeEmbeddedAsset, Data: map[string]any{"target": map[string]any{}}},
		{NodeType: NodeTable, Content: []Node{
			{NodeType: NodeTableRow, Content: []Node{
				{NodeType: NodeTableHeader, Content: []Node{{NodeType: NodeText, Value: "Rate"}}},
			}},
		}},
	}}

	want := `<h2>ISA</h2><hr/><blockquote><p><b><i>x</i></b></p></blockquote>` +
		`<table><tbody><tr><th>Rate</th></tr></tbody></table>`
	assert.Equal(t, want, string(HTML(doc)))
}

func TestPlainText(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "Save tax-free every year. Up to £20,000 ", PlainText(doc))
	assert.Equal(t, "", PlainText(Document{}))
}
