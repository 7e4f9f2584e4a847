package isomorph

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Structure is the structural signature of an HTML document: the section
// count, the ordered top-level heading texts, and the sorted set of outbound
// reference targets. Two renderings with equal signatures are considered
// isomorphic.
type Structure struct {
	Sections int
	Headings []string
	Links    []string
}

// ExtractStructure parses HTML and collects its structural signature.
func ExtractStructure(data []byte) (*Structure, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	st := &Structure{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "section":
				st.Sections++
			case "h1", "h2", "h3":
				if t := textContent(n); t != "" {
					st.Headings = append(st.Headings, t)
				}
			case "a":
				for _, attr := range n.Attr {
					if attr.Key == "href" && attr.Val != "" {
						st.Links = append(st.Links, attr.Val)
						break
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	// Sorted so the link comparison is order-independent.
	sort.Strings(st.Links)
	return st, nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
