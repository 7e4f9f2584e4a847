package convert

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
)

// MarkdownHTML renders markup sources to HTML in-process with goldmark. It
// covers the markdown→html leg when no external converter is installed; every
// other pairing still requires one.
type MarkdownHTML struct {
	md goldmark.Markdown
}

func NewMarkdownHTML() *MarkdownHTML {
	return &MarkdownHTML{md: goldmark.New()}
}

func (m *MarkdownHTML) Transform(ctx context.Context, input []byte, from, to Format) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if from != FormatMarkdown || to != FormatHTML {
		return nil, fmt.Errorf("markdown renderer: unsupported conversion %s->%s", from, to)
	}
	var buf bytes.Buffer
	if err := m.md.Convert(input, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}
