package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The record form is the persisted JSON shape of a tree: one object per node
// with type/content/attributes/position fields. It is used to cache parsed
// trees between pipeline stages and must round-trip exactly.

type record struct {
	Type       string          `json:"type"`
	Content    json.RawMessage `json:"content,omitempty"`
	Attributes map[string]any  `json:"attributes,omitempty"`
	Position   *Span           `json:"position,omitempty"`
}

// MarshalJSON encodes the node as its record form.
func (n *Node) MarshalJSON() ([]byte, error) {
	rec := record{
		Type:       string(n.Kind),
		Attributes: n.Attrs,
		Position:   n.Pos,
	}
	switch {
	case len(n.Children) > 0:
		raw, err := json.Marshal(n.Children)
		if err != nil {
			return nil, err
		}
		rec.Content = raw
	case n.Text != "":
		raw, err := json.Marshal(n.Text)
		if err != nil {
			return nil, err
		}
		rec.Content = raw
	}
	return json.Marshal(rec)
}

// UnmarshalJSON decodes a record back into a node. Numeric attributes decode
// as int when integral so a decoded tree compares equal to the original.
func (n *Node) UnmarshalJSON(data []byte) error {
	var rec record
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil {
		return err
	}
	if rec.Type == "" {
		return fmt.Errorf("node record missing type")
	}
	n.Kind = Kind(rec.Type)
	n.Attrs = normalizeAttrs(rec.Attributes)
	n.Pos = rec.Position
	n.Text = ""
	n.Children = nil

	if len(rec.Content) == 0 {
		return nil
	}
	switch rec.Content[0] {
	case '"':
		return json.Unmarshal(rec.Content, &n.Text)
	case '[':
		return json.Unmarshal(rec.Content, &n.Children)
	default:
		return fmt.Errorf("node record %q: content must be a string or a node list", rec.Type)
	}
}

func normalizeAttrs(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch num := v.(type) {
	case json.Number:
		if i, err := num.Int64(); err == nil {
			return int(i)
		}
		if f, err := num.Float64(); err == nil {
			return f
		}
		return num.String()
	case float64:
		if num == float64(int(num)) {
			return int(num)
		}
		return num
	}
	return v
}

// documentRecord wraps a root record with its front matter.
type documentRecord struct {
	Metadata map[string]any `json:"metadata,omitempty"`
	Root     *Node          `json:"root"`
}

// MarshalDocument encodes a document (tree plus front matter) as JSON.
func MarshalDocument(doc *Document) ([]byte, error) {
	return json.MarshalIndent(documentRecord{Metadata: doc.Meta, Root: doc.Root}, "", "  ")
}

// UnmarshalDocument decodes the output of MarshalDocument.
func UnmarshalDocument(data []byte) (*Document, error) {
	var rec documentRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode document record: %w", err)
	}
	if rec.Root == nil {
		return nil, fmt.Errorf("document record missing root")
	}
	meta := normalizeAttrs(rec.Metadata)
	if meta == nil {
		meta = map[string]any{}
	}
	return &Document{Root: rec.Root, Meta: meta}, nil
}
