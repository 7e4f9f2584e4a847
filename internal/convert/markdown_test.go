package convert

import (
	"context"
	"strings"
	"testing"
)

func TestMarkdownHTML_RendersBasicMarkdown(t *testing.T) {
	m := NewMarkdownHTML()
	out, err := m.Transform(context.Background(), []byte("# Title\n\nSome *text*.\n"), FormatMarkdown, FormatHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "Title") {
		t.Errorf("expected rendered heading, got %q", html)
	}
	if !strings.Contains(html, "<em>text</em>") {
		t.Errorf("expected rendered emphasis, got %q", html)
	}
}

func TestMarkdownHTML_RejectsOtherPairs(t *testing.T) {
	m := NewMarkdownHTML()
	if _, err := m.Transform(context.Background(), []byte("<p>x</p>"), FormatHTML, FormatTEI); err == nil {
		t.Fatalf("expected error for unsupported conversion")
	}
}

func TestMarkdownHTML_HonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMarkdownHTML()
	if _, err := m.Transform(ctx, []byte("# x"), FormatMarkdown, FormatHTML); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestNewPandocRunner_Defaults(t *testing.T) {
	r := NewPandocRunner("", 0, nil)
	if r.Binary != "pandoc" {
		t.Errorf("expected default binary pandoc, got %q", r.Binary)
	}
	if r.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultTimeout, r.Timeout)
	}
}

func TestPandocRunner_UnavailableBinary(t *testing.T) {
	r := NewPandocRunner("definitely-not-a-real-binary-xyz", 0, nil)
	if r.Available() {
		t.Fatalf("expected nonexistent binary to be unavailable")
	}
	if _, err := r.Transform(context.Background(), []byte("x"), FormatMarkdown, FormatHTML); err == nil {
		t.Fatalf("expected transform through missing binary to fail")
	}
}
