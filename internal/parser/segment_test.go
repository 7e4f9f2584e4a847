package parser

import (
	"strings"
	"testing"
)

func TestSegment_BlankLineSplitsParagraphs(t *testing.T) {
	segs := Segment("First paragraph.\n\nSecond paragraph.\n")
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %v", len(segs), segs)
	}
	if segs[0] != "First paragraph." {
		t.Errorf("expected first segment %q, got %q", "First paragraph.", segs[0])
	}
	if segs[1] != "Second paragraph." {
		t.Errorf("expected second segment %q, got %q", "Second paragraph.", segs[1])
	}
}

func TestSegment_FenceAccumulatesAcrossBlankLines(t *testing.T) {
	input := "```go\nfunc main() {\n\n}\n```\n\nafter"
	segs := Segment(input)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %v", len(segs), segs)
	}
	if !strings.Contains(segs[0], "func main()") || !strings.Contains(segs[0], "}") {
		t.Errorf("expected fence body intact, got %q", segs[0])
	}
	if segs[1] != "after" {
		t.Errorf("expected trailing paragraph %q, got %q", "after", segs[1])
	}
}

func TestSegment_MathAccumulatesAcrossBlankLines(t *testing.T) {
	input := "$$\nE = mc^2\n\n\\int_0^1 f(x)\\,dx\n$$"
	segs := Segment(input)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d: %v", len(segs), segs)
	}
	if !strings.Contains(segs[0], "E = mc^2") {
		t.Errorf("expected math body in segment, got %q", segs[0])
	}
}

func TestSegment_UnterminatedFenceRunsToEOF(t *testing.T) {
	input := "```python\nprint(1)\n\nprint(2)"
	segs := Segment(input)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment for unterminated fence, got %d: %v", len(segs), segs)
	}
	if !strings.Contains(segs[0], "print(2)") {
		t.Errorf("expected everything up to EOF in segment, got %q", segs[0])
	}
}

func TestSegment_UnterminatedMathRunsToEOF(t *testing.T) {
	input := "$$\n\\alpha + \\beta\n\nstill math"
	segs := Segment(input)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment for unterminated math, got %d: %v", len(segs), segs)
	}
	if !strings.Contains(segs[0], "still math") {
		t.Errorf("expected trailing lines absorbed into math, got %q", segs[0])
	}
}

func TestSegment_FenceFlushesOpenParagraph(t *testing.T) {
	input := "text before\n```\ncode\n```"
	segs := Segment(input)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %v", len(segs), segs)
	}
	if segs[0] != "text before" {
		t.Errorf("expected paragraph flushed before fence, got %q", segs[0])
	}
}

func TestSegment_EmptyInput(t *testing.T) {
	if segs := Segment(""); len(segs) != 0 {
		t.Errorf("expected 0 segments for empty input, got %d", len(segs))
	}
	if segs := Segment("\n\n\n"); len(segs) != 0 {
		t.Errorf("expected 0 segments for blank input, got %d", len(segs))
	}
}
