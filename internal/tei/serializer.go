// Package tei serializes document trees into the canonical TEI XML archival
// form. Output is deterministic for a given tree and metadata: element and
// attribute order are fixed per node kind, never derived from map iteration.
package tei

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/beevik/etree"
	"github.com/teipress/teipress/internal/ast"
)

const (
	teiNS   = "http://www.tei-c.org/ns/1.0"
	doctype = `DOCTYPE TEI PUBLIC "-//TEI P5//DTD//EN" "http://www.tei-c.org/release/xml/tei/custom/schema/dtd/tei.dtd"`

	defaultPublisher = "teipress publishing system"
)

// SourceMeta identifies the origin of a document. Empty fields fall back to
// the document's front matter, then to generic defaults.
type SourceMeta struct {
	Title     string
	Author    string
	Publisher string
	Date      string
	Source    string
	Language  string
}

// Serializer emits canonical TEI XML. Now is injectable so output can be
// byte-stable under test; it defaults to time.Now.
type Serializer struct {
	Now func() time.Time
	Log *slog.Logger
}

func NewSerializer(log *slog.Logger) *Serializer {
	if log == nil {
		log = slog.Default()
	}
	return &Serializer{Now: time.Now, Log: log}
}

// Serialize renders the document as a complete TEI XML byte stream: header
// from metadata, revision stamp, then the body mapped kind by kind.
func (s *Serializer) Serialize(doc *ast.Document, meta SourceMeta) ([]byte, error) {
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("serialize: nil document")
	}
	meta = s.resolveMeta(doc, meta)

	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	x.CreateDirective(doctype)

	tei := x.CreateElement("TEI")
	tei.CreateAttr("xmlns", teiNS)
	tei.CreateAttr("xml:lang", meta.Language)

	s.buildHeader(tei, meta)

	text := tei.CreateElement("text")
	body := text.CreateElement("body")

	docDiv := body.CreateElement("div")
	docDiv.CreateAttr("type", "document")
	if meta.Source != "" {
		docDiv.CreateAttr("xml:id", SanitizeID(meta.Source))
	}
	for _, child := range doc.Root.Children {
		s.appendNode(docDiv, child)
	}

	x.Indent(2)
	return x.WriteToBytes()
}

func (s *Serializer) resolveMeta(doc *ast.Document, meta SourceMeta) SourceMeta {
	fm := func(key string) string {
		v, _ := doc.Meta[key].(string)
		return v
	}
	if meta.Title == "" {
		meta.Title = fm("title")
	}
	if meta.Title == "" {
		meta.Title = "Untitled Document"
	}
	if meta.Author == "" {
		meta.Author = fm("author")
	}
	if meta.Author == "" {
		meta.Author = "Unknown Author"
	}
	if meta.Publisher == "" {
		meta.Publisher = fm("publisher")
	}
	if meta.Publisher == "" {
		meta.Publisher = defaultPublisher
	}
	if meta.Date == "" {
		meta.Date = fm("date")
	}
	if meta.Date == "" {
		meta.Date = s.Now().Format("2006-01-02")
	}
	if meta.Source == "" {
		meta.Source = fm("source")
	}
	if meta.Language == "" {
		meta.Language = fm("language")
	}
	if meta.Language == "" {
		meta.Language = "en"
	}
	return meta
}

func (s *Serializer) buildHeader(tei *etree.Element, meta SourceMeta) {
	header := tei.CreateElement("teiHeader")

	fileDesc := header.CreateElement("fileDesc")

	titleStmt := fileDesc.CreateElement("titleStmt")
	title := titleStmt.CreateElement("title")
	title.CreateAttr("type", "main")
	title.SetText(meta.Title)
	author := titleStmt.CreateElement("author")
	author.CreateElement("name").SetText(meta.Author)

	pubStmt := fileDesc.CreateElement("publicationStmt")
	pubStmt.CreateElement("publisher").SetText(meta.Publisher)
	date := pubStmt.CreateElement("date")
	date.CreateAttr("when", meta.Date)
	date.CreateAttr("type", "creation")
	date.SetText(meta.Date)

	sourceDesc := fileDesc.CreateElement("sourceDesc")
	bibl := sourceDesc.CreateElement("bibl")
	src := meta.Source
	if src == "" {
		src = "Unknown Source"
	}
	bibl.CreateElement("title").SetText(src)

	profileDesc := header.CreateElement("profileDesc")
	langUsage := profileDesc.CreateElement("langUsage")
	lang := langUsage.CreateElement("language")
	lang.CreateAttr("ident", meta.Language)
	lang.SetText(meta.Language)

	revisionDesc := header.CreateElement("revisionDesc")
	change := revisionDesc.CreateElement("change")
	change.CreateAttr("when", s.Now().Format("2006-01-02"))
	change.CreateAttr("who", "#teipress")
	change.SetText("Canonical TEI generation from parsed source")
}

// appendNode maps one tree node to its canonical element under parent.
// Kinds outside the mapping table are skipped, not fatal: classification is a
// closed set, so an unmapped kind here means a table-family or break node
// that the canonical form deliberately omits.
func (s *Serializer) appendNode(parent *etree.Element, n *ast.Node) {
	switch n.Kind {
	case ast.KindHeading:
		head := parent.CreateElement("head")
		head.CreateAttr("type", fmt.Sprintf("heading-%d", n.AttrInt("level", 1)))
		head.SetText(n.PlainText())

	case ast.KindParagraph:
		p := parent.CreateElement("p")
		for _, c := range n.Children {
			s.appendNode(p, c)
		}

	case ast.KindLink:
		ref := parent.CreateElement("ref")
		ref.CreateAttr("target", n.AttrString("href"))
		ref.SetText(n.PlainText())

	case ast.KindImage:
		figure := parent.CreateElement("figure")
		graphic := figure.CreateElement("graphic")
		graphic.CreateAttr("url", n.AttrString("src"))
		if alt := n.AttrString("alt"); alt != "" {
			graphic.CreateAttr("alt", alt)
			figure.CreateElement("figDesc").SetText(alt)
		}

	case ast.KindCodeBlock:
		quote := parent.CreateElement("quote")
		quote.CreateAttr("type", "code")
		quote.CreateAttr("lang", n.AttrString("language"))
		quote.SetText(n.Text)

	case ast.KindInlineCode:
		hi := parent.CreateElement("hi")
		hi.CreateAttr("rend", "t")
		hi.SetText(n.Text)

	case ast.KindMathBlock:
		formula := parent.CreateElement("formula")
		formula.CreateAttr("notation", n.AttrString("format"))
		formula.SetText(n.Text)

	case ast.KindInlineMath:
		hi := parent.CreateElement("hi")
		hi.CreateAttr("rend", "it")
		formula := hi.CreateElement("formula")
		formula.CreateAttr("notation", n.AttrString("format"))
		formula.SetText(n.Text)

	case ast.KindList:
		list := parent.CreateElement("list")
		if n.AttrBool("ordered") {
			list.CreateAttr("type", "ordered")
		} else {
			list.CreateAttr("type", "bulleted")
		}
		for _, c := range n.Children {
			s.appendNode(list, c)
		}

	case ast.KindListItem:
		item := parent.CreateElement("item")
		for _, c := range n.Children {
			s.appendNode(item, c)
		}

	case ast.KindQuote:
		quote := parent.CreateElement("quote")
		for _, c := range n.Children {
			s.appendNode(quote, c)
		}

	case ast.KindStrong:
		hi := parent.CreateElement("hi")
		hi.CreateAttr("rend", "bold")
		hi.SetText(n.PlainText())

	case ast.KindEmphasis:
		hi := parent.CreateElement("hi")
		hi.CreateAttr("rend", "it")
		hi.SetText(n.PlainText())

	case ast.KindText:
		parent.CreateElement("span").SetText(n.Text)

	default:
		s.Log.Debug("skipping node without canonical mapping", "kind", string(n.Kind))
	}
}
