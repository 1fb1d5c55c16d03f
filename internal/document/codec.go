package document

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"docstudio/internal/element"
)

// FormatVersion is written to every serialized document.
const FormatVersion = "1.1.0"

// serialized is the on-disk JSON shape of a document.
type serialized struct {
	Pages    *[]*Page            `json:"pages"`
	Settings PageSettings        `json:"pageSettings"`
	Groups   map[string][]string `json:"groups"`
	Version  string              `json:"version"`
}

// Serialize encodes pages, settings and groups as JSON.
func (d *Document) Serialize() (string, error) {
	pages := d.pages
	groups := d.groups
	if groups == nil {
		groups = map[string][]string{}
	}
	b, err := json.Marshal(serialized{Pages: &pages, Settings: d.settings, Groups: groups, Version: FormatVersion})
	if err != nil {
		return "", fmt.Errorf("serialize document: %w", err)
	}
	return string(b), nil
}

// Deserialize replaces the document with the decoded JSON. On any error the live state is
// left untouched. On success the first page becomes active, selection and history are reset
// and a fresh baseline is committed.
func (d *Document) Deserialize(data string) error {
	pages, settings, groups, err := decode(data)
	if err != nil {
		d.log.Warn("deserialize rejected", zap.Error(err))
		return err
	}

	d.pages = pages
	d.settings = settings
	d.active = 0
	d.selection = nil
	for _, p := range d.pages {
		d.pageIDs.Observe(p.ID)
		for _, el := range p.Elements {
			d.elementIDs.Observe(el.ID)
			if el.ZIndex == element.AutoZ {
				el.ZIndex = len(p.Elements)
			}
		}
	}
	for _, p := range d.pages {
		if p.ID == "" {
			p.ID = d.pageIDs.Next()
		}
	}
	if len(d.pages) == 0 {
		d.pages = []*Page{d.CreatePage()}
	}
	d.reconcileGroups(groups)
	d.hist.reset()
	d.Commit()
	d.log.Debug("document loaded", zap.Int("pages", len(d.pages)), zap.Int("groups", len(d.groups)))
	return nil
}

// decode parses and validates a serialized document without touching d.
func decode(data string) ([]*Page, PageSettings, map[string][]string, error) {
	raw := serialized{Settings: DefaultPageSettings()}
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, PageSettings{}, nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if raw.Pages == nil {
		return nil, PageSettings{}, nil, fmt.Errorf("%w: missing pages", ErrMalformed)
	}

	pages := *raw.Pages
	pageIDs := make(map[string]bool)
	elementIDs := make(map[string]bool)
	for i, p := range pages {
		if p == nil {
			return nil, PageSettings{}, nil, fmt.Errorf("%w: page %d is null", ErrMalformed, i)
		}
		if p.ID != "" {
			if pageIDs[p.ID] {
				return nil, PageSettings{}, nil, fmt.Errorf("%w: duplicate page id %q", ErrMalformed, p.ID)
			}
			pageIDs[p.ID] = true
		}
		if p.Elements == nil {
			p.Elements = []*element.Element{}
		}
		for j, el := range p.Elements {
			switch {
			case el == nil:
				return nil, PageSettings{}, nil, fmt.Errorf("%w: page %d element %d is null", ErrMalformed, i, j)
			case el.ID == "":
				return nil, PageSettings{}, nil, fmt.Errorf("%w: page %d element %d has no id", ErrMalformed, i, j)
			case elementIDs[el.ID]:
				return nil, PageSettings{}, nil, fmt.Errorf("%w: duplicate element id %q", ErrMalformed, el.ID)
			}
			elementIDs[el.ID] = true
			el.Opacity = element.ClampOpacity(el.Opacity)
		}
	}
	raw.Settings.clampGeometry()
	return pages, raw.Settings, raw.Groups, nil
}
