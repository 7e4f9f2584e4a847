package tei

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	idUnsafeRe    = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	idFirstCharRe = regexp.MustCompile(`^[a-zA-Z_]`)
)

const maxIDLen = 50

// SanitizeID derives an XML-safe identifier from a source URL or key.
// Disallowed characters become underscores, an invalid leading character is
// prefixed, and the result is capped at 50 characters. An input that
// sanitizes to nothing falls back to a random page id.
func SanitizeID(raw string) string {
	id := idUnsafeRe.ReplaceAllString(raw, "_")
	if id != "" && !idFirstCharRe.MatchString(id) {
		id = "_" + id
	}
	if len(id) > maxIDLen {
		id = id[:maxIDLen]
	}
	if id == "" {
		return "page_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	return id
}
