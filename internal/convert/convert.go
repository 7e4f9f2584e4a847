// Package convert wraps the external tools that move documents between
// representations. The rest of the system only depends on the Transformer
// contract, so validators can be driven by fakes in tests.
package convert

import "context"

// Format tags a document representation for a transform invocation.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatTEI      Format = "tei"
	FormatLaTeX    Format = "latex"
	FormatDocx     Format = "docx"
	FormatPDF      Format = "pdf"
)

// Transformer converts document bytes from one format to another. A non-nil
// error means the step failed outright; partial output is never returned as
// success.
type Transformer interface {
	Transform(ctx context.Context, input []byte, from, to Format) ([]byte, error)
}

// TransformerFunc adapts a function to the Transformer interface.
type TransformerFunc func(ctx context.Context, input []byte, from, to Format) ([]byte, error)

func (f TransformerFunc) Transform(ctx context.Context, input []byte, from, to Format) ([]byte, error) {
	return f(ctx, input, from, to)
}
