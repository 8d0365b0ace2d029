// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package richtext

import (
	"html"
	"html/template"
	"net/url"
	"strings"
)

// blockTags maps block node types to the HTML element they render as.
var blockTags = map[string]string{
	NodeParagraph:     "p",
	NodeHeading1:      "h1",
	NodeHeading2:      "h2",
	NodeHeading3:      "h3",
	NodeHeading4:      "h4",
	NodeHeading5:      "h5",
	NodeHeading6:      "h6",
	NodeOrderedList:   "ol",
	NodeUnorderedList: "ul",
	NodeListItem:      "li",
	NodeQuote:         "blockquote",
	NodeTableRow:      "tr",
	NodeTableCell:     "td",
	NodeTableHeader:   "th",
}

// markTags maps text marks to their wrapping element, innermost first in
// the order marks are listed on the node.
var markTags = map[string]string{
	MarkBold:          "b",
	MarkItalic:        "i",
	MarkUnderline:     "u",
	MarkCode:          "code",
	MarkSuperscript:   "sup",
	MarkSubscript:     "sub",
	MarkStrikethrough: "s",
}

// HTML renders a document as HTML. All text and attribute values are
// escaped; embedded entries and assets produce no output.
func HTML(doc Document) template.HTML {
	var b strings.Builder
	for _, n := range doc.Content {
		writeNode(&b, n)
	}
	return template.HTML(b.String())
}

func writeNode(b *strings.Builder, n Node) {
	switch n.NodeType {
	case NodeText:
		writeText(b, n)
	case NodeHR:
		b.WriteString("<hr/>")
	case NodeTable:
		b.WriteString("<table><tbody>")
		writeChildren(b, n)
		b.WriteString("</tbody></table>")
	case NodeHyperlink:
		uri, _ := n.Data["uri"].(string)
		if !safeURI(uri) {
			writeChildren(b, n)
			return
		}
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(uri))
		b.WriteString(`">`)
		writeChildren(b, n)
		b.WriteString("</a>")
	case NodeEmbeddedEntry, NodeEmbeddedAsset, NodeEmbeddedInline:
		// Linked content is not resolved inside descriptions.
	default:
		tag, ok := blockTags[n.NodeType]
		if !ok {
			writeChildren(b, n)
			return
		}
		b.WriteString("<" + tag + ">")
		writeChildren(b, n)
		b.WriteString("</" + tag + ">")
	}
}

func writeChildren(b *strings.Builder, n Node) {
	for _, c := range n.Content {
		writeNode(b, c)
	}
}

func writeText(b *strings.Builder, n Node) {
	var closing []string
	for _, m := range n.Marks {
		tag, ok := markTags[m.Type]
		if !ok {
			continue
		}
		b.WriteString("<" + tag + ">")
		closing = append(closing, "</"+tag+">")
	}
	b.WriteString(html.EscapeString(n.Value))
	for i := len(closing) - 1; i >= 0; i-- {
		b.WriteString(closing[i])
	}
}

// safeURI allows http(s), mailto, tel and relative links.
func safeURI(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto", "tel":
		return true
	}
	return false
}

// isBlock reports whether a node type starts a new block of text.
func isBlock(nodeType string) bool {
	switch nodeType {
	case NodeText, NodeHyperlink, NodeEntryHyperlink, NodeAssetHyperlink, NodeEmbeddedInline:
		return false
	}
	return true
}

// PlainText flattens a document to its text content. Adjacent blocks are
// separated by a single space.
func PlainText(doc Document) string {
	return plainChildren(doc.Content)
}

func plainChildren(nodes []Node) string {
	var b strings.Builder
	for i, n := range nodes {
		if n.NodeType == NodeText {
			b.WriteString(n.Value)
		} else {
			b.WriteString(plainChildren(n.Content))
		}
		if isBlock(n.NodeType) && i < len(nodes)-1 {
			b.WriteString(" ")
		}
	}
	return b.String()
}
