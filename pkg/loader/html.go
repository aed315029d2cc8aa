package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// block-level elements treated as paragraph boundaries
var htmlBlockTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "li": true, "div": true, "td": true,
	"blockquote": true,
}

// htmlPolicy keeps only structural markup; scripts, styles and
// attributes are dropped before parsing
var htmlPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("html", "head", "title", "body", "p", "h1", "h2", "h3", "h4", "h5", "h6",
		"li", "ul", "ol", "div", "span", "td", "tr", "table", "blockquote", "br", "b", "i", "em", "strong", "a")
	return p
}()

// parseHTML extracts paragraph text from a saved HTML article export.
// The document is sanitized first, then each innermost block element
// becomes one paragraph.
func parseHTML(data []byte) ([]string, error) {
	clean := htmlPolicy.SanitizeBytes(data)

	doc, err := html.Parse(bytes.NewReader(clean))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var paragraphs []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && htmlBlockTags[n.Data] && !hasBlockChild(n) {
			if p := strings.Join(strings.Fields(nodeText(n)), " "); p != "" {
				paragraphs = append(paragraphs, p)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return paragraphs, nil
}

// hasBlockChild reports whether any descendant is a block element
func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && htmlBlockTags[c.Data] {
			return true
		}
		if hasBlockChild(c) {
			return true
		}
	}
	return false
}

// nodeText concatenates all text nodes under n
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
