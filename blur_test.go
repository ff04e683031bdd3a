package main

import (
	"image"
	"image/color"
	"testing"
)

func TestBoxBlurSpreadsInsideRect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	img.SetRGBA(20, 20, color.RGBA{255, 255, 255, 255})
	img.SetRGBA(2, 2, color.RGBA{255, 255, 255, 255})

	boxBlur(img, image.Rect(10, 10, 30, 30), 6)

	if c := img.RGBAAt(20, 20); c.A == 255 || c.A == 0 {
		t.Errorf("center alpha = %d, want spread", c.A)
	}
	if c := img.RGBAAt(21, 20); c.A == 0 {
		t.Error("neighbour untouched by blur")
	}
	if c := img.RGBAAt(2, 2); c.A != 255 {
		t.Errorf("pixel outside the rect changed: %v", c)
	}
}

func TestBoxBlurNoop(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(1, 1, color.RGBA{9, 9, 9, 9})
	boxBlur(img, img.Bounds(), 0)
	boxBlur(img, image.Rect(10, 10, 20, 20), 5)
	if c := img.RGBAAt(1, 1); c.A != 9 {
		t.Errorf("pixel = %v, want unchanged", c)
	}
}

func TestVisualOrder(t *testing.T) {
	if got := visualOrder("HELLO"); got != "HELLO" {
		t.Errorf("visualOrder(latin) = %q, want unchanged", got)
	}
	in := "سلام"
	got := visualOrder(in)
	if len([]rune(got)) != len([]rune(in)) {
		t.Errorf("visualOrder(%q) = %q, rune count changed", in, got)
	}
	if !hasRTL(in) || hasRTL("abc") {
		t.Error("hasRTL() misclassified input")
	}
}
