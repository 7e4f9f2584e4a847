// Package isomorph certifies that document structure survives a round trip
// through the canonical form. It drives two opaque transformations (HTML to
// TEI, TEI back to HTML) and compares structural signatures of the original
// and derived HTML. The check is structural, not byte-exact: content
// checksums are recorded for diagnostics but never decide the verdict.
package isomorph

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/teipress/teipress/internal/convert"
)

const (
	StepHTMLToTEI = "html_to_tei"
	StepTEIToHTML = "tei_to_html"

	StepSuccess = "success"
	StepFailed  = "failed"
)

// Comparison holds the per-signature equality checks between the original
// and derived HTML forms.
type Comparison struct {
	SectionsMatch    bool     `json:"sections_match"`
	OriginalSections int      `json:"original_sections"`
	DerivedSections  int      `json:"derived_sections"`
	HeadingsMatch    bool     `json:"headings_match"`
	OriginalHeadings []string `json:"original_headings"`
	DerivedHeadings  []string `json:"derived_headings"`
	LinksMatch       bool     `json:"links_match"`
	OriginalLinks    int      `json:"original_link_count"`
	DerivedLinks     int      `json:"derived_link_count"`
}

// Checksums carries SHA-256 digests of both forms. Informational only.
type Checksums struct {
	Original string `json:"original"`
	Derived  string `json:"derived"`
}

// Report is the terminal artifact of one round-trip check.
type Report struct {
	Input      string            `json:"input"`
	Steps      map[string]string `json:"steps"`
	Comparison *Comparison       `json:"comparisons,omitempty"`
	Checksums  *Checksums        `json:"checksums,omitempty"`
	Isomorphic bool              `json:"isomorphic"`
	Diff       string            `json:"diff,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Checker runs round-trip fidelity checks through injected transformers.
// Forward renders HTML to the canonical form, Backward renders it back.
// Cleanup, when set, normalizes both HTML forms before comparison.
type Checker struct {
	Forward  convert.Transformer
	Backward convert.Transformer
	Cleanup  func(ctx context.Context, input []byte) ([]byte, error)
	WorkDir  string
	Log      *slog.Logger
}

func NewChecker(forward, backward convert.Transformer, log *slog.Logger) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{Forward: forward, Backward: backward, Log: log}
}

// Check runs original HTML through both transformations and compares the
// structural signatures. A failed transformation short-circuits: the step is
// recorded, no comparison is attempted, and the verdict stays false.
func (c *Checker) Check(ctx context.Context, name string, original []byte) *Report {
	report := &Report{Input: name, Steps: map[string]string{}}

	canonical, err := c.Forward.Transform(ctx, original, convert.FormatHTML, convert.FormatTEI)
	if err != nil {
		report.Steps[StepHTMLToTEI] = StepFailed
		report.Error = err.Error()
		c.Log.Warn("forward transform failed", "input", name, "error", err)
		return report
	}
	report.Steps[StepHTMLToTEI] = StepSuccess

	derived, err := c.Backward.Transform(ctx, canonical, convert.FormatTEI, convert.FormatHTML)
	if err != nil {
		report.Steps[StepTEIToHTML] = StepFailed
		report.Error = err.Error()
		c.Log.Warn("backward transform failed", "input", name, "error", err)
		return report
	}
	report.Steps[StepTEIToHTML] = StepSuccess

	c.persistArtifacts(name, original, canonical, derived)

	report.Checksums = &Checksums{
		Original: checksumHex(original),
		Derived:  checksumHex(derived),
	}

	origCmp := c.normalize(ctx, name, original)
	derivedCmp := c.normalize(ctx, name, derived)

	origStruct, err := ExtractStructure(origCmp)
	if err != nil {
		report.Error = fmt.Sprintf("original form: %v", err)
		return report
	}
	derivedStruct, err := ExtractStructure(derivedCmp)
	if err != nil {
		report.Error = fmt.Sprintf("derived form: %v", err)
		return report
	}

	cmp := &Comparison{
		SectionsMatch:    origStruct.Sections == derivedStruct.Sections,
		OriginalSections: origStruct.Sections,
		DerivedSections:  derivedStruct.Sections,
		HeadingsMatch:    equalStrings(origStruct.Headings, derivedStruct.Headings),
		OriginalHeadings: origStruct.Headings,
		DerivedHeadings:  derivedStruct.Headings,
		LinksMatch:       equalStrings(origStruct.Links, derivedStruct.Links),
		OriginalLinks:    len(origStruct.Links),
		DerivedLinks:     len(derivedStruct.Links),
	}
	report.Comparison = cmp
	report.Isomorphic = cmp.SectionsMatch && cmp.HeadingsMatch && cmp.LinksMatch

	if !report.Isomorphic {
		report.Diff = unifiedDiff(original, derived)
	}

	return report
}

// normalize applies the optional cleanup step. Cleanup failure degrades to
// the raw bytes rather than failing the check.
func (c *Checker) normalize(ctx context.Context, name string, data []byte) []byte {
	if c.Cleanup == nil {
		return data
	}
	out, err := c.Cleanup(ctx, data)
	if err != nil {
		c.Log.Warn("html cleanup failed, comparing raw form", "input", name, "error", err)
		return data
	}
	return out
}

// persistArtifacts writes the three forms into the scratch dir for triage.
// Best effort only.
func (c *Checker) persistArtifacts(name string, original, canonical, derived []byte) {
	if c.WorkDir == "" {
		return
	}
	base := filepath.Join(c.WorkDir, sanitizeFilename(name))
	if err := os.MkdirAll(base, 0o755); err != nil {
		c.Log.Warn("cannot create scratch dir", "dir", base, "error", err)
		return
	}
	for file, data := range map[string][]byte{
		"original.html": original,
		"canonical.xml": canonical,
		"derived.html":  derived,
	} {
		if err := os.WriteFile(filepath.Join(base, file), data, 0o644); err != nil {
			c.Log.Warn("cannot write artifact", "file", file, "error", err)
		}
	}
}

func sanitizeFilename(name string) string {
	out := []rune(filepath.Base(name))
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

func checksumHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

func unifiedDiff(original, derived []byte) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(derived)),
		FromFile: "original",
		ToFile:   "derived",
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}
