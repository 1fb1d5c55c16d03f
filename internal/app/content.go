package app

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"docstudio/internal/export"
	"docstudio/internal/importers"
)

// ImportCSV inserts a table built from CSV content on the active page.
func (a *App) ImportCSV(csvContent string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.doc.PageSettings()
	el, err := importers.ParseCSVTable(csvContent, s.MarginLeft, s.MarginTop)
	if err != nil {
		return "", fmt.Errorf("import csv: %w", err)
	}
	return a.insert(el).ID, nil
}

// ImportMarkdown inserts a text box rendered from Markdown on the active page. An untitled
// document takes the first heading as its title.
func (a *App) ImportMarkdown(markdown string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.doc.PageSettings()
	el, err := importers.MarkdownText(markdown, s.MarginLeft, s.MarginTop)
	if err != nil {
		return "", fmt.Errorf("import markdown: %w", err)
	}
	if title := importers.MarkdownTitle(markdown); title != "" && a.title == "Untitled document" {
		a.title = title
	}
	return a.insert(el).ID, nil
}

// ExportText returns the plain text of the document, pages separated by form feeds.
func (a *App) ExportText() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return export.PlainText(a.doc)
}

// ExportHTML returns a standalone HTML page of the document.
func (a *App) ExportHTML() (string, error) {
	a.mu.Lock()
	scene := a.ctrl.Render()
	title := a.title
	a.mu.Unlock()

	var buf bytes.Buffer
	if err := export.HTML(&buf, scene, title); err != nil {
		return "", fmt.Errorf("export html: %w", err)
	}
	return buf.String(), nil
}

// PageThumbnail returns a base64 PNG preview of one page, width pixels wide.
func (a *App) PageThumbnail(pageIndex, width int) (string, error) {
	png, err := a.thumbnail(pageIndex, width)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

func (a *App) thumbnail(pageIndex, width int) ([]byte, error) {
	a.mu.Lock()
	img, err := export.Thumbnail(a.doc, pageIndex, width)
	a.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("thumbnail: %w", err)
	}
	var buf bytes.Buffer
	if err := export.EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
