package isomorph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/teipress/teipress/internal/convert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// identity passes input through unchanged; the round trip is trivially
// structure preserving.
var identity = convert.TransformerFunc(
	func(ctx context.Context, input []byte, from, to convert.Format) ([]byte, error) {
		return input, nil
	})

// fixedOutput ignores its input and always produces out.
func fixedOutput(out []byte) convert.Transformer {
	return convert.TransformerFunc(
		func(ctx context.Context, input []byte, from, to convert.Format) ([]byte, error) {
			return out, nil
		})
}

func failing(msg string) convert.Transformer {
	return convert.TransformerFunc(
		func(ctx context.Context, input []byte, from, to convert.Format) ([]byte, error) {
			return nil, fmt.Errorf("%s", msg)
		})
}

const sampleHTML = `<html><body>
<section><h1>Intro</h1><a href="/a">a</a></section>
<section><h2>Body</h2><a href="/b">b</a></section>
</body></html>`

func TestCheck_IdentityRoundTripIsIsomorphic(t *testing.T) {
	c := NewChecker(identity, identity, discardLogger())
	report := c.Check(context.Background(), "doc.html", []byte(sampleHTML))

	if report.Steps[StepHTMLToTEI] != StepSuccess || report.Steps[StepTEIToHTML] != StepSuccess {
		t.Fatalf("expected both steps successful, got %v", report.Steps)
	}
	if !report.Isomorphic {
		t.Fatalf("expected isomorphic verdict, got report %+v", report)
	}
	if report.Comparison == nil {
		t.Fatal("expected comparison to be recorded")
	}
	if !report.Comparison.SectionsMatch || !report.Comparison.HeadingsMatch || !report.Comparison.LinksMatch {
		t.Errorf("expected all comparisons to match, got %+v", report.Comparison)
	}
	if report.Checksums == nil || report.Checksums.Original != report.Checksums.Derived {
		t.Errorf("expected identical checksums for identity round trip, got %+v", report.Checksums)
	}
	if report.Diff != "" {
		t.Errorf("expected no diff for isomorphic result, got %q", report.Diff)
	}
}

func TestCheck_LinkOrderDoesNotMatter(t *testing.T) {
	reordered := `<html><body>
<section><h1>Intro</h1><a href="/b">b</a></section>
<section><h2>Body</h2><a href="/a">a</a></section>
</body></html>`

	c := NewChecker(identity, fixedOutput([]byte(reordered)), discardLogger())
	report := c.Check(context.Background(), "doc.html", []byte(sampleHTML))

	if !report.Comparison.LinksMatch {
		t.Errorf("expected link sets to compare order-independently, got %+v", report.Comparison)
	}
	if !report.Isomorphic {
		t.Errorf("expected isomorphic verdict for reordered links")
	}
}

func TestCheck_DroppedHeadingFailsWithDiff(t *testing.T) {
	degraded := `<html><body>
<section><h1>Intro</h1><a href="/a">a</a></section>
<section><a href="/b">b</a></section>
</body></html>`

	c := NewChecker(identity, fixedOutput([]byte(degraded)), discardLogger())
	report := c.Check(context.Background(), "doc.html", []byte(sampleHTML))

	if report.Isomorphic {
		t.Fatalf("expected non-isomorphic verdict for dropped heading")
	}
	if report.Comparison.HeadingsMatch {
		t.Errorf("expected headings mismatch, got %+v", report.Comparison)
	}
	if !report.Comparison.SectionsMatch || !report.Comparison.LinksMatch {
		t.Errorf("expected sections and links to still match, got %+v", report.Comparison)
	}
	if report.Diff == "" {
		t.Errorf("expected unified diff attached to failing report")
	}
}

func TestCheck_ForwardFailureShortCircuits(t *testing.T) {
	c := NewChecker(failing("pandoc exploded"), identity, discardLogger())
	report := c.Check(context.Background(), "doc.html", []byte(sampleHTML))

	if report.Steps[StepHTMLToTEI] != StepFailed {
		t.Errorf("expected forward step failed, got %v", report.Steps)
	}
	if _, ran := report.Steps[StepTEIToHTML]; ran {
		t.Errorf("expected backward step not attempted, got %v", report.Steps)
	}
	if report.Comparison != nil {
		t.Errorf("expected no comparison after failed conversion")
	}
	if report.Isomorphic {
		t.Errorf("expected verdict false after failed conversion")
	}
	if report.Error == "" {
		t.Errorf("expected step error recorded on report")
	}
}

func TestCheck_BackwardFailureShortCircuits(t *testing.T) {
	c := NewChecker(identity, failing("no way back"), discardLogger())
	report := c.Check(context.Background(), "doc.html", []byte(sampleHTML))

	if report.Steps[StepHTMLToTEI] != StepSuccess || report.Steps[StepTEIToHTML] != StepFailed {
		t.Errorf("expected forward success and backward failure, got %v", report.Steps)
	}
	if report.Isomorphic {
		t.Errorf("expected verdict false after failed back conversion")
	}
}

func TestCheck_CleanupFailureDegradesToRawComparison(t *testing.T) {
	c := NewChecker(identity, identity, discardLogger())
	c.Cleanup = func(ctx context.Context, input []byte) ([]byte, error) {
		return nil, fmt.Errorf("tidy missing")
	}
	report := c.Check(context.Background(), "doc.html", []byte(sampleHTML))

	if !report.Isomorphic {
		t.Errorf("expected cleanup failure to degrade, not fail the check: %+v", report)
	}
}

func TestCheck_PersistsArtifacts(t *testing.T) {
	dir := t.TempDir()
	c := NewChecker(identity, identity, discardLogger())
	c.WorkDir = dir

	c.Check(context.Background(), "../weird name.html", []byte(sampleHTML))

	base := filepath.Join(dir, "weird_name.html")
	for _, file := range []string{"original.html", "canonical.xml", "derived.html"} {
		if _, err := os.Stat(filepath.Join(base, file)); err != nil {
			t.Errorf("expected artifact %s: %v", file, err)
		}
	}
}
