// Package ast defines the document tree produced by the MarkdownTeX parser
// and consumed by the TEI serializer. Trees are built once and never mutated.
package ast

// Kind identifies the construct a Node represents. The set is closed: the
// parser only emits these values and the serializer only maps these values.
type Kind string

const (
	KindDocument      Kind = "document"
	KindHeading       Kind = "heading"
	KindParagraph     Kind = "paragraph"
	KindText          Kind = "text"
	KindLink          Kind = "link"
	KindImage         Kind = "image"
	KindCodeBlock     Kind = "code_block"
	KindInlineCode    Kind = "inline_code"
	KindMathBlock     Kind = "math_block"
	KindInlineMath    Kind = "inline_math"
	KindList          Kind = "list"
	KindListItem      Kind = "list_item"
	KindTable         Kind = "table"
	KindTableRow      Kind = "table_row"
	KindTableCell     Kind = "table_cell"
	KindQuote         Kind = "quote"
	KindThematicBreak Kind = "thematic_break"
	KindEmphasis      Kind = "emphasis"
	KindStrong        Kind = "strong"
	KindMetadata      Kind = "metadata"
)

// Span is best-effort source position metadata (1-indexed lines).
type Span struct {
	StartLine int `json:"start_line,omitempty"`
	EndLine   int `json:"end_line,omitempty"`
}

// Node is one unit of the document tree. Whether Text or Children carries the
// payload is fixed by Kind: text, code_block, inline_code, math_block and
// inline_math hold Text; container kinds hold Children; image and
// thematic_break hold neither.
type Node struct {
	Kind     Kind
	Text     string
	Children []*Node
	Attrs    map[string]any
	Pos      *Span
}

// Document is the root of a parsed tree plus its front-matter metadata.
type Document struct {
	Root *Node
	Meta map[string]any
}

func NewDocument(children []*Node) *Document {
	return &Document{
		Root: &Node{Kind: KindDocument, Children: children},
		Meta: map[string]any{},
	}
}

func NewText(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

func NewHeading(level int, children []*Node) *Node {
	return &Node{Kind: KindHeading, Children: children, Attrs: map[string]any{"level": level}}
}

func NewParagraph(children []*Node) *Node {
	return &Node{Kind: KindParagraph, Children: children}
}

func NewLink(href string, children []*Node) *Node {
	return &Node{Kind: KindLink, Children: children, Attrs: map[string]any{"href": href}}
}

func NewImage(src, alt string) *Node {
	return &Node{Kind: KindImage, Attrs: map[string]any{"src": src, "alt": alt}}
}

func NewCodeBlock(lang, code string) *Node {
	return &Node{Kind: KindCodeBlock, Text: code, Attrs: map[string]any{"language": lang}}
}

func NewInlineCode(code string) *Node {
	return &Node{Kind: KindInlineCode, Text: code}
}

// NewMathBlock records a display math block. env names the TeX environment
// (equation, align, ...) when the block came from one; it is empty for $$
// delimited blocks.
func NewMathBlock(content, env string) *Node {
	attrs := map[string]any{"format": "latex"}
	if env != "" {
		attrs["environment"] = env
	}
	return &Node{Kind: KindMathBlock, Text: content, Attrs: attrs}
}

func NewInlineMath(content string) *Node {
	return &Node{Kind: KindInlineMath, Text: content, Attrs: map[string]any{"format": "latex"}}
}

func NewList(ordered bool, items []*Node) *Node {
	return &Node{Kind: KindList, Children: items, Attrs: map[string]any{"ordered": ordered}}
}

func NewListItem(children []*Node) *Node {
	return &Node{Kind: KindListItem, Children: children}
}

func NewTable(rows []*Node) *Node {
	return &Node{Kind: KindTable, Children: rows}
}

func NewTableRow(cells []*Node) *Node {
	return &Node{Kind: KindTableRow, Children: cells}
}

func NewTableCell(children []*Node) *Node {
	return &Node{Kind: KindTableCell, Children: children}
}

func NewQuote(children []*Node) *Node {
	return &Node{Kind: KindQuote, Children: children}
}

func NewThematicBreak() *Node {
	return &Node{Kind: KindThematicBreak}
}

func NewEmphasis(children []*Node) *Node {
	return &Node{Kind: KindEmphasis, Children: children}
}

func NewStrong(children []*Node) *Node {
	return &Node{Kind: KindStrong, Children: children}
}

// AttrString returns a string attribute, or "" if absent or not a string.
func (n *Node) AttrString(key string) string {
	if n.Attrs == nil {
		return ""
	}
	s, _ := n.Attrs[key].(string)
	return s
}

// AttrInt returns an integer attribute, or def if absent.
func (n *Node) AttrInt(key string, def int) int {
	if n.Attrs == nil {
		return def
	}
	switch v := n.Attrs[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// AttrBool returns a boolean attribute, or false if absent.
func (n *Node) AttrBool(key string) bool {
	if n.Attrs == nil {
		return false
	}
	b, _ := n.Attrs[key].(bool)
	return b
}

// Walk visits n and every descendant in document order. The visitor returns
// false to skip a node's children.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, visit)
	}
}

// PlainText flattens a node to its visible text content.
func (n *Node) PlainText() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindText {
		return n.Text
	}
	var out string
	for _, c := range n.Children {
		out += c.PlainText()
	}
	return out
}

// Link is an outbound reference found in a tree.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Links collects every link and image target under n, in document order.
func Links(n *Node) []Link {
	var links []Link
	Walk(n, func(node *Node) bool {
		switch node.Kind {
		case KindLink:
			links = append(links, Link{Text: node.PlainText(), Href: node.AttrString("href")})
		case KindImage:
			links = append(links, Link{Text: node.AttrString("alt"), Href: node.AttrString("src")})
		}
		return true
	})
	return links
}
