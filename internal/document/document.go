// Package document is the in-memory model of a paged document: pages, elements, selection,
// groups and the undo history. It is the single source of truth the canvas projects from.
//
// A Document is not safe for concurrent use; callers serialize access.
package document

import (
	"cmp"
	"slices"

	"go.uber.org/zap"

	"docstudio/internal/element"
)

// AnyPage makes UpdateElement search every page for the element.
const AnyPage = -1

// DefaultDuplicateOffset is the distance a duplicate is shifted on both axes.
const DefaultDuplicateOffset = 20

// Options configures a Document. Zero fields take defaults.
type Options struct {
	HistoryLimit    int
	DuplicateOffset float64
	Logger          *zap.Logger
}

// Page is an ordered container of elements.
type Page struct {
	ID              string             `json:"id"`
	Elements        []*element.Element `json:"elements"`
	BackgroundColor string             `json:"backgroundColor,omitempty"`
}

// Clone deep-copies the page and its elements.
func (p *Page) Clone() *Page {
	c := &Page{ID: p.ID, BackgroundColor: p.BackgroundColor, Elements: make([]*element.Element, len(p.Elements))}
	for i, el := range p.Elements {
		c.Elements[i] = el.Clone()
	}
	return c
}

func (p *Page) index(id string) int {
	return slices.IndexFunc(p.Elements, func(e *element.Element) bool { return e.ID == id })
}

func (p *Page) find(id string) *element.Element {
	if i := p.index(id); i >= 0 {
		return p.Elements[i]
	}
	return nil
}

// Document owns the pages of one open document.
type Document struct {
	pages     []*Page
	active    int
	selection []string
	groups    map[string][]string
	settings  PageSettings

	hist       *history
	batchDepth int
	batchDirty bool

	elementIDs *element.Sequence
	pageIDs    *element.Sequence
	groupSeq   *element.Sequence

	offset float64
	log    *zap.Logger
}

// New returns a document with one empty page and a baseline history snapshot.
func New(opts Options) *Document {
	d := &Document{
		groups:     make(map[string][]string),
		settings:   DefaultPageSettings(),
		hist:       newHistory(opts.HistoryLimit),
		elementIDs: element.NewSequence("el"),
		pageIDs:    element.NewSequence("page"),
		groupSeq:   element.NewSequence("group"),
		offset:     opts.DuplicateOffset,
		log:        opts.Logger,
	}
	if d.offset == 0 {
		d.offset = DefaultDuplicateOffset
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	d.pages = []*Page{d.CreatePage()}
	d.Commit()
	return d
}

// ---------------------------------------------------------------------------
// Pages
// ---------------------------------------------------------------------------

// CreatePage returns a new empty page without inserting it.
func (d *Document) CreatePage() *Page {
	return &Page{ID: d.pageIDs.Next(), Elements: []*element.Element{}, BackgroundColor: d.settings.BackgroundColor}
}

// AddPage inserts a page after index after (appending when after is negative or past the
// end), makes it active and commits.
func (d *Document) AddPage(after int) *Page {
	p := d.CreatePage()
	at := len(d.pages)
	if after >= 0 && after < len(d.pages) {
		at = after + 1
	}
	d.pages = slices.Insert(d.pages, at, p)
	d.setActive(at)
	d.Commit()
	return p.Clone()
}

// DeletePage removes the page at index. The last remaining page cannot be deleted.
func (d *Document) DeletePage(index int) error {
	if len(d.pages) <= 1 {
		return ErrLastPage
	}
	if index < 0 || index >= len(d.pages) {
		return ErrPageIndex
	}
	removed := d.pages[index]
	d.pages = slices.Delete(d.pages, index, index+1)
	for _, el := range removed.Elements {
		d.dropFromGroups(el.ID)
	}
	if d.active > index || d.active >= len(d.pages) {
		d.active = max(d.active-1, 0)
	}
	d.filterSelection()
	d.Commit()
	return nil
}

// MovePage swaps the page at index with its neighbour in direction (+1 or -1). The moved
// page becomes active.
func (d *Document) MovePage(index, direction int) error {
	if index < 0 || index >= len(d.pages) {
		return ErrPageIndex
	}
	to := index + direction
	if (direction != 1 && direction != -1) || to < 0 || to >= len(d.pages) {
		return ErrPageBoundary
	}
	p := d.pages[index]
	d.pages = slices.Delete(d.pages, index, index+1)
	d.pages = slices.Insert(d.pages, to, p)
	d.setActive(to)
	d.Commit()
	return nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.pages) }

// Page returns a copy of the page at index.
func (d *Document) Page(index int) (*Page, bool) {
	if index < 0 || index >= len(d.pages) {
		return nil, false
	}
	return d.pages[index].Clone(), true
}

// Pages returns deep copies of every page.
func (d *Document) Pages() []*Page { return clonePages(d.pages) }

// ActivePageIndex returns the index of the page receiving edits.
func (d *Document) ActivePageIndex() int { return d.active }

// SetActivePage switches the active page. Selection is filtered to the new page.
func (d *Document) SetActivePage(index int) bool {
	if index < 0 || index >= len(d.pages) {
		return false
	}
	d.setActive(index)
	return true
}

func (d *Document) setActive(index int) {
	if d.active == index {
		return
	}
	d.active = index
	d.filterSelection()
}

// page resolves pageIndex, falling back to the active page when it is out of range.
func (d *Document) page(pageIndex int) *Page {
	if pageIndex >= 0 && pageIndex < len(d.pages) {
		return d.pages[pageIndex]
	}
	return d.pages[d.active]
}

// findAny locates an element on any page.
func (d *Document) findAny(id string) (int, *element.Element) {
	for i, p := range d.pages {
		if el := p.find(id); el != nil {
			return i, el
		}
	}
	return -1, nil
}

// ---------------------------------------------------------------------------
// Elements
// ---------------------------------------------------------------------------

// AddElement inserts el on the page, assigning an id when empty or already taken and a
// z-index equal to the element count when el.ZIndex is element.AutoZ, then commits. The
// document takes ownership of el; the returned value is a copy.
func (d *Document) AddElement(pageIndex int, el *element.Element) *element.Element {
	p := d.page(pageIndex)
	d.prepare(p, el)
	p.Elements = append(p.Elements, el)
	d.Commit()
	return el.Clone()
}

// prepare fills the identity and defaults AddElement is responsible for.
func (d *Document) prepare(p *Page, el *element.Element) {
	if el.ID != "" {
		d.elementIDs.Observe(el.ID)
	}
	if _, taken := d.findAny(el.ID); el.ID == "" || taken != nil {
		el.ID = d.elementIDs.Next()
		for _, taken := d.findAny(el.ID); taken != nil; _, taken = d.findAny(el.ID) {
			el.ID = d.elementIDs.Next()
		}
	}
	if el.ZIndex == element.AutoZ {
		el.ZIndex = len(p.Elements)
	}
	el.Opacity = element.ClampOpacity(el.Opacity)
}

// RemoveElement deletes one element, purging it from groups and selection, and commits.
func (d *Document) RemoveElement(pageIndex int, id string) {
	d.RemoveElements(pageIndex, []string{id})
}

// RemoveElements deletes several elements as one undo step.
func (d *Document) RemoveElements(pageIndex int, ids []string) {
	p := d.page(pageIndex)
	var removed []string
	p.Elements = slices.DeleteFunc(p.Elements, func(e *element.Element) bool {
		if slices.Contains(ids, e.ID) {
			removed = append(removed, e.ID)
			return true
		}
		return false
	})
	if len(removed) == 0 {
		return
	}
	for _, id := range removed {
		d.dropFromGroups(id)
	}
	d.filterSelection()
	d.Commit()
}

// GetElement returns a copy of the element, or false when it is not on the page.
func (d *Document) GetElement(pageIndex int, id string) (*element.Element, bool) {
	el := d.page(pageIndex).find(id)
	if el == nil {
		return nil, false
	}
	return el.Clone(), true
}

// FindElement returns the page index and a copy of the element, searching every page.
func (d *Document) FindElement(id string) (int, *element.Element, bool) {
	i, el := d.findAny(id)
	if el == nil {
		return -1, nil, false
	}
	return i, el.Clone(), true
}

// Elements returns copies of the elements of a page in stored order.
func (d *Document) Elements(pageIndex int) []*element.Element {
	if pageIndex < 0 || pageIndex >= len(d.pages) {
		return nil
	}
	return d.pages[pageIndex].Clone().Elements
}

// UpdateElement merges patch onto the element and returns a copy of the result. With
// AnyPage every page is searched. UpdateElement never commits: continuous edits (drag,
// resize, typing) commit once when the gesture ends, discrete edits call Commit or use the
// committing helpers such as SetElementProps.
func (d *Document) UpdateElement(pageIndex int, id string, patch element.Patch) (*element.Element, bool) {
	var el *element.Element
	if pageIndex == AnyPage {
		_, el = d.findAny(id)
	} else {
		el = d.page(pageIndex).find(id)
	}
	if el == nil {
		return nil, false
	}
	patch.Apply(el)
	return el.Clone(), true
}

// SetElementProps applies patch to each listed element and commits once.
func (d *Document) SetElementProps(pageIndex int, ids []string, patch element.Patch) int {
	n := 0
	for _, id := range ids {
		if _, ok := d.UpdateElement(pageIndex, id, patch); ok {
			n++
		}
	}
	if n > 0 {
		d.Commit()
	}
	return n
}

// SetLocked locks or unlocks the listed elements as one undo step.
func (d *Document) SetLocked(pageIndex int, ids []string, locked bool) int {
	return d.SetElementProps(pageIndex, ids, element.SetLocked(locked))
}

// ReorderElement assigns z to the element, sorts the page by z and renumbers the page to
// the dense sequence 0..n-1. Ties keep their previous relative order.
func (d *Document) ReorderElement(pageIndex int, id string, z int) bool {
	p := d.page(pageIndex)
	el := p.find(id)
	if el == nil {
		return false
	}
	el.ZIndex = z
	canonicalize(p)
	d.Commit()
	return true
}

func canonicalize(p *Page) {
	slices.SortStableFunc(p.Elements, func(a, b *element.Element) int { return cmp.Compare(a.ZIndex, b.ZIndex) })
	for i, e := range p.Elements {
		e.ZIndex = i
	}
}

// BringToFront paints the element above every other element of its page.
func (d *Document) BringToFront(pageIndex int, id string) bool {
	p := d.page(pageIndex)
	top := 0
	for _, e := range p.Elements {
		top = max(top, e.ZIndex)
	}
	return d.ReorderElement(pageIndex, id, top+1)
}

// SendToBack paints the element below every other element of its page.
func (d *Document) SendToBack(pageIndex int, id string) bool {
	p := d.page(pageIndex)
	bottom := 0
	for _, e := range p.Elements {
		bottom = min(bottom, e.ZIndex)
	}
	return d.ReorderElement(pageIndex, id, bottom-1)
}

// DuplicateElement inserts a deep copy of the element shifted by the duplicate offset on
// both axes, with a fresh id, no group and the topmost z-index.
func (d *Document) DuplicateElement(pageIndex int, id string) (*element.Element, bool) {
	src := d.page(pageIndex).find(id)
	if src == nil {
		return nil, false
	}
	c := src.Clone()
	c.ID = ""
	c.GroupID = ""
	c.ZIndex = element.AutoZ
	c.X += d.offset
	c.Y += d.offset
	return d.AddElement(pageIndex, c), true
}

// ReplacePages swaps in a whole page list, as produced by an importer. Missing or repeated
// element ids and missing page ids are assigned, groups are cleared, and the result is
// committed.
func (d *Document) ReplacePages(pages []*Page) {
	if len(pages) == 0 {
		pages = []*Page{d.CreatePage()}
	}
	d.pages = pages
	incoming := make([][]*element.Element, len(pages))
	for i, p := range d.pages {
		incoming[i] = p.Elements
		p.Elements = make([]*element.Element, 0, len(incoming[i]))
	}
	for i, p := range d.pages {
		if p.ID == "" {
			p.ID = d.pageIDs.Next()
		} else {
			d.pageIDs.Observe(p.ID)
		}
		for _, el := range incoming[i] {
			if el == nil {
				continue
			}
			el.GroupID = ""
			d.prepare(p, el)
			p.Elements = append(p.Elements, el)
		}
	}
	d.groups = make(map[string][]string)
	d.active = 0
	d.selection = nil
	d.Commit()
}
