package ast

import (
	"testing"
)

func TestPlainText_FlattensNestedInlines(t *testing.T) {
	n := NewParagraph([]*Node{
		NewText("see "),
		NewLink("https://example.org", []*Node{
			NewText("the "),
			NewEmphasis([]*Node{NewText("proof")}),
		}),
		NewText("."),
	})
	if got := n.PlainText(); got != "see the proof." {
		t.Errorf("expected %q, got %q", "see the proof.", got)
	}
}

func TestLinks_CollectsLinksAndImagesInOrder(t *testing.T) {
	root := &Node{Kind: KindDocument, Children: []*Node{
		NewParagraph([]*Node{
			NewLink("/first", []*Node{NewText("one")}),
			NewImage("/img.png", "figure"),
		}),
		NewParagraph([]*Node{
			NewLink("/second", []*Node{NewText("two")}),
		}),
	}}

	links := Links(root)
	want := []Link{
		{Text: "one", Href: "/first"},
		{Text: "figure", Href: "/img.png"},
		{Text: "two", Href: "/second"},
	}
	if len(links) != len(want) {
		t.Fatalf("expected %d links, got %d: %v", len(want), len(links), links)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("link %d: expected %+v, got %+v", i, want[i], links[i])
		}
	}
}

func TestWalk_VisitorCanSkipChildren(t *testing.T) {
	root := &Node{Kind: KindDocument, Children: []*Node{
		NewQuote([]*Node{NewText("inside quote")}),
		NewParagraph([]*Node{NewText("inside paragraph")}),
	}}

	var visited []Kind
	Walk(root, func(n *Node) bool {
		visited = append(visited, n.Kind)
		return n.Kind != KindQuote
	})

	want := []Kind{KindDocument, KindQuote, KindParagraph, KindText}
	if len(visited) != len(want) {
		t.Fatalf("expected visits %v, got %v", want, visited)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visit %d: expected %s, got %s", i, want[i], visited[i])
		}
	}
}

func TestAttrInt_NumericWidths(t *testing.T) {
	n := &Node{Kind: KindHeading, Attrs: map[string]any{
		"a": 3,
		"b": int64(4),
		"c": float64(5),
	}}
	for key, want := range map[string]int{"a": 3, "b": 4, "c": 5} {
		if got := n.AttrInt(key, 0); got != want {
			t.Errorf("attr %s: expected %d, got %d", key, want, got)
		}
	}
	if got := n.AttrInt("missing", 9); got != 9 {
		t.Errorf("expected default 9 for missing attr, got %d", got)
	}
}
