package importers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"docstudio/internal/element"
)

// lineHeight approximates one rendered line of imported text, in page units.
const lineHeight = 24

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// MarkdownText converts Markdown to a text element at (x, y). The element is sized to fit
// roughly one line per rendered block line. Raw HTML in the source is not passed through.
func MarkdownText(source string, x, y float64) (*element.Element, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmpty
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}
	lines := countLines([]byte(source))
	h := max(float64(lines*lineHeight), element.DefaultTextHeight)
	return element.NewText(x, y, 2*element.DefaultTextWidth, h, strings.TrimSpace(buf.String())), nil
}

// MarkdownTitle returns the text of the first heading, or "" when there is none.
func MarkdownTitle(source string) string {
	src := []byte(source)
	doc := markdown.Parser().Parse(text.NewReader(src))
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			return strings.TrimSpace(string(headingText(h, src)))
		}
	}
	return ""
}

func headingText(n ast.Node, src []byte) []byte {
	var b bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return b.Bytes()
}

// countLines approximates the rendered lines of the block structure: one per source line
// of each leaf block.
func countLines(src []byte) int {
	doc := markdown.Parser().Parse(text.NewReader(src))
	n := 0
	_ = ast.Walk(doc, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || c.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		switch c.Kind() {
		case ast.KindDocument, ast.KindList, ast.KindListItem:
			return ast.WalkContinue, nil
		}
		n += max(c.Lines().Len(), 1)
		return ast.WalkSkipChildren, nil
	})
	return n
}
