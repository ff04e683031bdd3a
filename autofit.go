package main

import (
	"math"
	"strings"
)

const (
	autoFitReferenceSize = 100.0
	autoFitCoverage      = 0.9
)

// Measurer reports the rendered width of text in a given font.
type Measurer interface {
	MeasureWidth(text, family, weight string, size float64) (float64, error)
}

// FitResult is the font size and left edge a text layer renders with.
type FitResult struct {
	FontSize float64
	X        float64
	Fitted   bool
}

// AutoFit sizes an auto-fit text layer so it spans 90% of the viewport
// width, centered horizontally. Layers without auto-fit, an unmeasured
// viewport or a failed measurement keep their manual size and x. The stored
// layer is never modified.
func AutoFit(t TextLayer, viewportWidth float64, m Measurer) FitResult {
	manual := FitResult{FontSize: t.FontSize, X: t.X}
	if !t.AutoFit || m == nil || !(viewportWidth > 0) {
		return manual
	}
	measured, err := m.MeasureWidth(fitLine(t.Content), t.FontFamily, t.FontWeight, autoFitReferenceSize)
	if err != nil || !(measured > 0) || math.IsInf(measured, 0) {
		return manual
	}
	target := viewportWidth * autoFitCoverage
	scale := target / measured
	return FitResult{
		FontSize: autoFitReferenceSize * scale,
		X:        (viewportWidth - target) / 2,
		Fitted:   true,
	}
}

// fitLine is the single line an auto-fit layer renders: newlines fold into
// spaces.
func fitLine(content string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(content, "\n", " ")), " ")
}
