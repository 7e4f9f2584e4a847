package parser

import (
	"regexp"

	"github.com/teipress/teipress/internal/ast"
)

// Inline candidates in priority order. Specific spans (code, math) come
// before formatting so their delimiters cannot be reinterpreted as emphasis
// when two candidates start at the same offset.
var inlineCandidates = []struct {
	name string
	re   *regexp.Regexp
}{
	{"image", regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)},
	{"link", regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)},
	{"inline_code", regexp.MustCompile("`([^`]+)`")},
	{"inline_math", regexp.MustCompile(`\$([^$]+)\$`)},
	{"strong", regexp.MustCompile(`\*\*([^*]+)\*\*`)},
	{"emphasis", regexp.MustCompile(`\*([^*]+)\*`)},
}

// ScanInline converts a span of raw text into inline nodes. At each position
// the earliest-starting candidate match wins; ties go to the higher-priority
// candidate. Link labels, strong and emphasis are scanned recursively.
func ScanInline(text string) []*ast.Node {
	var nodes []*ast.Node
	remaining := text

	for remaining != "" {
		bestIdx := -1
		var bestLoc []int
		for i, cand := range inlineCandidates {
			loc := cand.re.FindStringSubmatchIndex(remaining)
			if loc == nil {
				continue
			}
			if bestLoc == nil || loc[0] < bestLoc[0] {
				bestIdx = i
				bestLoc = loc
			}
		}
		if bestLoc == nil {
			nodes = append(nodes, ast.NewText(remaining))
			break
		}

		if bestLoc[0] > 0 {
			nodes = append(nodes, ast.NewText(remaining[:bestLoc[0]]))
		}

		group := func(i int) string { return remaining[bestLoc[2*i]:bestLoc[2*i+1]] }
		switch inlineCandidates[bestIdx].name {
		case "image":
			nodes = append(nodes, ast.NewImage(group(2), group(1)))
		case "link":
			nodes = append(nodes, ast.NewLink(group(2), ScanInline(group(1))))
		case "inline_code":
			nodes = append(nodes, ast.NewInlineCode(group(1)))
		case "inline_math":
			nodes = append(nodes, ast.NewInlineMath(group(1)))
		case "strong":
			nodes = append(nodes, ast.NewStrong(ScanInline(group(1))))
		case "emphasis":
			nodes = append(nodes, ast.NewEmphasis(ScanInline(group(1))))
		}

		remaining = remaining[bestLoc[1]:]
	}

	return nodes
}
