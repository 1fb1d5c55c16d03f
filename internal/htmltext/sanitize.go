package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// Sanitize re-renders an HTML fragment without active content: script-like elements,
// event handler attributes and javascript: URLs are dropped. Formatting markup is kept.
func Sanitize(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return html.EscapeString(fragment)
	}
	var b strings.Builder
	for _, n := range nodes {
		if !clean(n) {
			continue
		}
		if err := html.Render(&b, n); err != nil {
			return html.EscapeString(fragment)
		}
	}
	return b.String()
}

// clean strips n in place and reports whether it should be kept at all.
func clean(n *html.Node) bool {
	if n.Type == html.ElementNode && skip(n.DataAtom) {
		return false
	}
	if n.Type == html.CommentNode {
		return false
	}
	if n.Type == html.ElementNode {
		attrs := n.Attr[:0]
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if strings.HasPrefix(key, "on") {
				continue
			}
			if (key == "href" || key == "src") && unsafeURL(a.Val) {
				continue
			}
			attrs = append(attrs, a)
		}
		n.Attr = attrs
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if !clean(c) {
			n.RemoveChild(c)
		}
		c = next
	}
	return true
}

func unsafeURL(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.HasPrefix(v, "javascript:") || strings.HasPrefix(v, "vbscript:")
}
