package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

var errNothingToExport = errors.New("nothing to export")

func defaultExportName(now time.Time, ext string) string {
	return fmt.Sprintf("thumbgen-%d%s", now.UnixMilli(), ext)
}

func backgroundExtension(p *Payload) string {
	if p == nil {
		return ".png"
	}
	switch p.MIME {
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	}
	return ".png"
}

// exportPNG writes the flattened composite, without selection chrome, at the
// configured export width.
func (m *model) exportPNG(filename string) error {
	doc := m.doc
	if doc.Background == nil && doc.Layers.Len() == 0 {
		return errNothingToExport
	}
	if doc.Viewport.Width <= 0 || doc.Viewport.Height <= 0 {
		return fmt.Errorf("%w: canvas has no size yet", errNothingToExport)
	}
	scale := float64(m.config.ExportWidth) / doc.Viewport.Width
	img := m.composer.Render(doc, RenderOptions{Scale: scale})
	p, err := EncodePNG(img)
	if err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return os.WriteFile(filename, p.Data, 0o644)
}

// exportBackground writes the background bytes as they were generated or
// imported.
func (m *model) exportBackground(filename string) error {
	if m.doc.Background == nil {
		return errNothingToExport
	}
	return os.WriteFile(filename, m.doc.Background.Data, 0o644)
}

// exportVisualTXT writes the canvas as it looks in the preview, one
// character per cell.
func (m *model) exportVisualTXT(filename string) error {
	l := m.layout()
	if l.cols < 1 || l.rows < 1 {
		l.cols, l.rows = 80, 22
	}
	doc := m.doc
	if doc.Background == nil && doc.Layers.Len() == 0 {
		return errNothingToExport
	}
	if doc.Viewport.Width <= 0 {
		return fmt.Errorf("%w: canvas has no size yet", errNothingToExport)
	}
	img := m.composer.Render(doc, RenderOptions{Scale: 1})
	lines := plainPreview(img, l.cols, l.rows)

	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteByte('\n')
	}
	return os.WriteFile(filename, []byte(sb.String()), 0o644)
}
