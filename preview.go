package main

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"
)

// previewLines turns a rendered canvas into cols×rows terminal cells. Each
// cell is an upper half block carrying two vertical samples: foreground for
// the top half, background for the bottom half.
func previewLines(img image.Image, cols, rows int) []string {
	if cols < 1 || rows < 1 {
		return nil
	}
	small := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	xdraw.ApproxBiLinear.Scale(small, small.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	lines := make([]string, rows)
	var sb strings.Builder
	for row := 0; row < rows; row++ {
		sb.Reset()
		for col := 0; col < cols; col++ {
			top := small.RGBAAt(col, row*2)
			bottom := small.RGBAAt(col, row*2+1)
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(color.NRGBA{top.R, top.G, top.B, 255}))).
				Background(lipgloss.Color(hexColor(color.NRGBA{bottom.R, bottom.G, bottom.B, 255})))
			sb.WriteString(style.Render("▀"))
		}
		lines[row] = sb.String()
	}
	return lines
}

// plainPreview is the text-only rendition used by the visual TXT export:
// one character per cell, chosen by brightness.
func plainPreview(img image.Image, cols, rows int) []string {
	if cols < 1 || rows < 1 {
		return nil
	}
	const ramp = " .:-=+*#%@"
	small := image.NewRGBA(image.Rect(0, 0, cols, rows))
	xdraw.ApproxBiLinear.Scale(small, small.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	lines := make([]string, rows)
	for row := 0; row < rows; row++ {
		var sb strings.Builder
		for col := 0; col < cols; col++ {
			c := small.RGBAAt(col, row)
			lum := (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
			sb.WriteByte(ramp[lum*(len(ramp)-1)/255])
		}
		lines[row] = sb.String()
	}
	return lines
}
