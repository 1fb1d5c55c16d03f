package canvas

import (
	"strconv"
	"strings"

	"docstudio/internal/document"
)

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

// Roman returns the lower-case roman numeral of n, or decimal digits when n < 1.
func Roman(n int) string {
	if n < 1 {
		return strconv.Itoa(n)
	}
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

// Alpha returns the lower-case letter for n, wrapping after z: 1 is "a", 27 is "a" again.
func Alpha(n int) string {
	if n < 1 {
		return strconv.Itoa(n)
	}
	return string(rune('a' + (n-1)%26))
}

// FormatNumber renders n in one of the page number formats. Unknown formats are decimal.
func FormatNumber(n int, format string) string {
	switch format {
	case document.FormatRoman:
		return Roman(n)
	case document.FormatRomanUpper:
		return strings.ToUpper(Roman(n))
	case document.FormatAlpha:
		return Alpha(n)
	case document.FormatAlphaUpper:
		return strings.ToUpper(Alpha(n))
	}
	return strconv.Itoa(n)
}

// PageNumberText returns the page number label of the page at index in a document of
// total pages, and false when no number is shown on that page.
func PageNumberText(n document.PageNumbering, index, total int) (string, bool) {
	if n.Style == "" || n.Style == document.NumberingNone {
		return "", false
	}
	if index == 0 && !n.ShowOnFirstPage {
		return "", false
	}
	start := max(n.StartFrom, 1)
	num := FormatNumber(index+start, n.Format)

	var body string
	switch n.Style {
	case document.NumberingDecorated:
		body = "- " + num + " -"
	case document.NumberingPageOf:
		body = "Page " + num + " of " + FormatNumber(total-1+start, n.Format)
	default:
		body = num
	}
	return n.Prefix + body + n.Suffix, true
}
