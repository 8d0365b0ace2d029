// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package richtext models the structured rich-text documents stored in the
// content store. A document is a tree of block, inline and text nodes. The
// package decodes and re-encodes that tree in the exact JSON shape the store
// produces, and renders it as escaped HTML or plain text.
package richtext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Node types understood by the renderers. Unknown types are kept when
// decoding and re-encoding; the HTML renderer falls back to their children.
const (
	NodeDocument       = "document"
	NodeParagraph      = "paragraph"
	NodeHeading1       = "heading-1"
	NodeHeading2       = "heading-2"
	NodeHeading3       = "heading-3"
	NodeHeading4       = "heading-4"
	NodeHeading5       = "heading-5"
	NodeHeading6       = "heading-6"
	NodeOrderedList    = "ordered-list"
	NodeUnorderedList  = "unordered-list"
	NodeListItem       = "list-item"
	NodeHR             = "hr"
	NodeQuote          = "blockquote"
	NodeTable          = "table"
	NodeTableRow       = "table-row"
	NodeTableCell      = "table-cell"
	NodeTableHeader    = "table-header-cell"
	NodeHyperlink      = "hyperlink"
	NodeEntryHyperlink = "entry-hyperlink"
	NodeAssetHyperlink = "asset-hyperlink"
	NodeEmbeddedEntry  = "embedded-entry-block"
	NodeEmbeddedAsset  = "embedded-asset-block"
	NodeEmbeddedInline = "embedded-entry-inline"
	NodeText           = "text"
)

// Mark types applied to text nodes.
const (
	MarkBold          = "bold"
	MarkItalic        = "italic"
	MarkUnderline     = "underline"
	MarkCode          = "code"
	MarkSuperscript   = "superscript"
	MarkSubscript     = "subscript"
	MarkStrikethrough = "strikethrough"
)

// ErrNotDocument is returned by Parse when the payload is absent or its root
// node is not a document.
var ErrNotDocument = errors.New("richtext: root node is not a document")

// Mark is a formatting mark on a text node.
type Mark struct {
	Type string `json:"type"`
}

// Node is a single element of a rich-text tree. Text nodes carry Value and
// Marks; every other node carries Content.
type Node struct {
	NodeType string
	Data     map[string]any
	Content  []Node
	Value    string
	Marks    []Mark
}

// Document is the root of a rich-text tree.
type Document struct {
	Data    map[string]any
	Content []Node
}

// Parse decodes raw JSON into a Document. Empty input and JSON null are
// reported as ErrNotDocument.
func Parse(raw []byte) (Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Document{}, ErrNotDocument
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// nodeJSON is the superset of fields a node may carry on the wire.
type nodeJSON struct {
	NodeType string         `json:"nodeType"`
	Data     map[string]any `json:"data"`
	Content  []Node         `json:"content"`
	Value    string         `json:"value"`
	Marks    []Mark         `json:"marks"`
}

// UnmarshalJSON decodes a node of any type.
func (n *Node) UnmarshalJSON(b []byte) error {
	var aux nodeJSON
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.NodeType == "" {
		return errors.New("richtext: node without nodeType")
	}
	*n = Node(aux)
	return nil
}

// MarshalJSON writes text nodes as {nodeType, value, marks, data} and all
// other nodes as {nodeType, data, content}. Empty collections are written
// as [] and {} rather than omitted.
func (n Node) MarshalJSON() ([]byte, error) {
	data := n.Data
	if data == nil {
		data = map[string]any{}
	}
	if n.NodeType == NodeText {
		marks := n.Marks
		if marks == nil {
			marks = []Mark{}
		}
		return json.Marshal(struct {
			NodeType string         `json:"nodeType"`
			Value    string         `json:"value"`
			Marks    []Mark         `json:"marks"`
			Data     map[string]any `json:"data"`
		}{n.NodeType, n.Value, marks, data})
	}
	content := n.Content
	if content == nil {
		content = []Node{}
	}
	return json.Marshal(struct {
		NodeType string         `json:"nodeType"`
		Data     map[string]any `json:"data"`
		Content  []Node         `json:"content"`
	}{n.NodeType, data, content})
}

// UnmarshalJSON decodes a document root. JSON null is a no-op.
func (d *Document) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var root Node
	if err := json.Unmarshal(b, &root); err != nil {
		return err
	}
	if root.NodeType != NodeDocument {
		return fmt.Errorf("%w (got %q)", ErrNotDocument, root.NodeType)
	}
	d.Data = root.Data
	d.Content = root.Content
	return nil
}

// MarshalJSON writes the document in the store's wire shape.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.root())
}

func (d Document) root() Node {
	return Node{NodeType: NodeDocument, Data: d.Data, Content: d.Content}
}
