package document

import "slices"

// Selection returns the selected element ids in selection order.
func (d *Document) Selection() []string { return slices.Clone(d.selection) }

// IsSelected reports whether id is selected.
func (d *Document) IsSelected(id string) bool { return slices.Contains(d.selection, id) }

// SetSelection replaces the selection. Ids not on the active page are dropped.
func (d *Document) SetSelection(ids []string) {
	d.selection = nil
	d.AddToSelection(ids...)
}

// AddToSelection adds ids of the active page that are not yet selected.
func (d *Document) AddToSelection(ids ...string) {
	p := d.pages[d.active]
	for _, id := range ids {
		if p.find(id) != nil && !slices.Contains(d.selection, id) {
			d.selection = append(d.selection, id)
		}
	}
}

// ToggleSelection flips the selection state of id.
func (d *Document) ToggleSelection(id string) {
	if i := slices.Index(d.selection, id); i >= 0 {
		d.selection = slices.Delete(d.selection, i, i+1)
		return
	}
	d.AddToSelection(id)
}

// ClearSelection empties the selection.
func (d *Document) ClearSelection() { d.selection = nil }

// filterSelection drops ids that are no longer on the active page.
func (d *Document) filterSelection() {
	if len(d.pages) == 0 {
		d.selection = nil
		return
	}
	p := d.pages[d.active]
	d.selection = slices.DeleteFunc(d.selection, func(id string) bool { return p.find(id) == nil })
}
