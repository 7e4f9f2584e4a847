// Package parser converts MarkdownTeX text (CommonMark-style markup with
// embedded TeX math) into a document tree. Parsing is permissive: malformed
// front matter and unterminated blocks degrade instead of failing the parse.
package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	"github.com/teipress/teipress/internal/ast"
	"gopkg.in/yaml.v3"
)

var (
	headingRe       = regexp.MustCompile(`^(#{1,6})\s+(.+)`)
	listItemRe      = regexp.MustCompile(`^\s*[-*+]\s+(.+)$`)
	orderedItemRe   = regexp.MustCompile(`^\s*\d+\.\s+(.+)$`)
	frontMatterRe   = regexp.MustCompile(`(?s)\A---\s*\n.*?\n---\s*\n`)
	yamlFrontMatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)
)

// Named TeX environments recognized as display math blocks, checked in order.
var texEnvs = []struct {
	name string
	re   *regexp.Regexp
}{
	{"equation", regexp.MustCompile(`(?s)^\\begin\{equation\}.*?\\end\{equation\}`)},
	{"align", regexp.MustCompile(`(?s)^\\begin\{align\*?\}.*?\\end\{align\*?\}`)},
	{"gather", regexp.MustCompile(`(?s)^\\begin\{gather\}.*?\\end\{gather\}`)},
	{"theorem", regexp.MustCompile(`(?s)^\\begin\{theorem\}.*?\\end\{theorem\}`)},
	{"proof", regexp.MustCompile(`(?s)^\\begin\{proof\}.*?\\end\{proof\}`)},
}

// Parse builds a document tree from raw MarkdownTeX text. The only fatal
// input error is undecodable text; everything else parses to some tree.
func Parse(text string) (*ast.Document, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("input is not valid UTF-8")
	}

	meta, body := extractFrontMatter(text)

	var children []*ast.Node
	for _, seg := range Segment(body) {
		if node := parseBlock(seg); node != nil {
			children = append(children, node)
		}
	}

	doc := ast.NewDocument(children)
	doc.Meta = meta
	return doc, nil
}

// extractFrontMatter pulls a leading ----delimited YAML block off the text.
// A block that fails to parse is still stripped, with an empty mapping
// returned: bad metadata never aborts or pollutes the document body.
func extractFrontMatter(text string) (map[string]any, string) {
	meta := map[string]any{}
	if !strings.HasPrefix(text, "---") {
		return meta, text
	}
	rest, err := frontmatter.Parse(strings.NewReader(text), &meta, yamlFrontMatter)
	if err != nil {
		if loc := frontMatterRe.FindStringIndex(text); loc != nil {
			return map[string]any{}, text[loc[1]:]
		}
		return map[string]any{}, text
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, string(rest)
}

// parseBlock classifies one segment, first match wins. The priority order is
// load-bearing: math and code must shadow everything, and paragraph is the
// catch-all.
func parseBlock(seg string) *ast.Node {
	trimmed := strings.TrimSpace(seg)
	if trimmed == "" {
		return nil
	}

	if strings.Contains(seg, mathMarker) {
		return ast.NewMathBlock(strings.Trim(seg, "$\n"), "")
	}

	if strings.HasPrefix(trimmed, fenceMarker) {
		return parseCodeBlock(trimmed)
	}

	for _, env := range texEnvs {
		if env.re.MatchString(trimmed) {
			return ast.NewMathBlock(trimmed, env.name)
		}
	}

	if m := headingRe.FindStringSubmatch(trimmed); m != nil {
		return ast.NewHeading(len(m[1]), ScanInline(m[2]))
	}

	if listItemRe.MatchString(firstLine(trimmed)) || orderedItemRe.MatchString(firstLine(trimmed)) {
		return parseList(trimmed)
	}

	if strings.Contains(trimmed, "|") && strings.HasPrefix(trimmed, "|") {
		return parseTable(trimmed)
	}

	if strings.HasPrefix(trimmed, ">") {
		return parseQuote(trimmed)
	}

	if strings.TrimSpace(strings.ReplaceAll(trimmed, "-", "")) == "" {
		return ast.NewThematicBreak()
	}

	return ast.NewParagraph(ScanInline(trimmed))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func parseCodeBlock(seg string) *ast.Node {
	lines := strings.Split(seg, "\n")
	lang := strings.TrimSpace(strings.TrimPrefix(lines[0], fenceMarker))

	body := lines[1:]
	// Drop the closing fence when present; an unterminated block keeps
	// everything up to end of input.
	if len(body) > 0 && strings.HasPrefix(strings.TrimSpace(body[len(body)-1]), fenceMarker) {
		body = body[:len(body)-1]
	}
	return ast.NewCodeBlock(lang, strings.Join(body, "\n"))
}

func parseList(seg string) *ast.Node {
	var items []*ast.Node
	ordered := false

	for _, line := range strings.Split(seg, "\n") {
		if m := orderedItemRe.FindStringSubmatch(line); m != nil {
			// One numbered line makes the whole segment an ordered list.
			ordered = true
			items = append(items, ast.NewListItem(ScanInline(m[1])))
			continue
		}
		if m := listItemRe.FindStringSubmatch(line); m != nil {
			items = append(items, ast.NewListItem(ScanInline(m[1])))
		}
	}

	return ast.NewList(ordered, items)
}

func parseTable(seg string) *ast.Node {
	var rows []*ast.Node
	for _, line := range strings.Split(seg, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "|") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			continue
		}
		var cells []*ast.Node
		for _, cell := range parts[1 : len(parts)-1] {
			cells = append(cells, ast.NewTableCell(ScanInline(strings.TrimSpace(cell))))
		}
		rows = append(rows, ast.NewTableRow(cells))
	}
	return ast.NewTable(rows)
}

func parseQuote(seg string) *ast.Node {
	var quoted []string
	for _, line := range strings.Split(seg, "\n") {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, ">") {
			quoted = append(quoted, strings.TrimSpace(strings.TrimPrefix(t, ">")))
		}
	}
	return ast.NewQuote(ScanInline(strings.Join(quoted, "\n")))
}
