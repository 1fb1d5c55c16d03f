package document

import "docstudio/internal/element"

// Reader is the read-only surface importers and exporters depend on.
type Reader interface {
	Pages() []*Page
	PageCount() int
	PageSettings() PageSettings
	GetElement(pageIndex int, id string) (*element.Element, bool)
}

// Mutator is the insertion surface importers depend on. Elements built outside the
// document go through AddElement or ReplacePages so they receive document identity.
type Mutator interface {
	AddPage(after int) *Page
	AddElement(pageIndex int, el *element.Element) *element.Element
	ReplacePages(pages []*Page)
}

var (
	_ Reader  = (*Document)(nil)
	_ Mutator = (*Document)(nil)
)
