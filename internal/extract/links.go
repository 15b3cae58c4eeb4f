package extract

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Anchor is a link discovered on a page, resolved to an absolute URL
// with its fragment removed.
type Anchor struct {
	URL        string
	AnchorText string
}

// Links parses the anchor elements of an HTML document and resolves each
// href against pageURL. Fragments are stripped, duplicate targets are
// collapsed preserving document order, and malformed or non-navigational
// hrefs (javascript:, mailto:, tel:, bare fragments) are skipped
// silently.
func Links(htmlContent, pageURL string) []Anchor {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var anchors []Anchor

	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if a, ok := parseAnchor(n, base); ok {
				if _, dup := seen[a.URL]; !dup {
					seen[a.URL] = struct{}{}
					anchors = append(anchors, a)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	return anchors
}

// parseAnchor resolves a single anchor node against the base URL.
func parseAnchor(n *html.Node, base *url.URL) (Anchor, bool) {
	var href string
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			href = strings.TrimSpace(attr.Val)
			break
		}
	}

	if href == "" || strings.HasPrefix(href, "#") {
		return Anchor{}, false
	}
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(strings.ToLower(href), scheme) {
			return Anchor{}, false
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return Anchor{}, false
	}

	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	return Anchor{
		URL:        resolved.String(),
		AnchorText: anchorText(n),
	}, true
}

// anchorText recursively collects the text content of an anchor node.
func anchorText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text := anchorText(c); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " ")
}
