package main

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

const strokeSamples = 16

func (c *Composer) paintText(dc *gg.Context, t TextLayer, pl Placement, s float64) {
	size := pl.FontSize * s
	face, err := c.fonts.Face(t.FontFamily, t.FontWeight, size)
	if err != nil {
		Logger().Debug("text layer skipped", "id", t.ID, "err", err)
		return
	}
	b := pl.Bounds
	x, y, w, h := b.X*s, b.Y*s, b.W*s, b.H*s
	center := b.center()
	angle := gg.Radians(t.Rotation)

	lines := make([]textLine, 0, len(pl.Lines))
	dc.SetFontFace(face)
	m := face.Metrics()
	ascent, descent := float64(m.Ascent)/64, float64(m.Descent)/64
	lineH := textLineHeight * size
	for i, raw := range pl.Lines {
		line := visualOrder(raw)
		lw, _ := dc.MeasureString(line)
		lx := x + textPadX*size
		if hasRTL(raw) {
			lx = x + w - textPadX*size - lw
		}
		mid := y + textPadY*size + float64(i)*lineH + lineH/2
		lines = append(lines, textLine{line, lx, mid + (ascent-descent)/2})
	}

	dc.Push()
	dc.RotateAbout(angle, center.X*s, center.Y*s)
	if !isTransparent(t.BackgroundColor) {
		dc.SetColor(paint(t.BackgroundColor, color.NRGBA{}))
		dc.DrawRoundedRectangle(x, y, w, h, 2*s)
		dc.Fill()
	}
	dc.Pop()

	if shadow := paint(t.ShadowColor, color.NRGBA{}); shadow.A > 0 {
		c.paintTextShadow(dc, face, lines, shadow, t, s, angle, center)
	}

	dc.Push()
	defer dc.Pop()
	dc.RotateAbout(angle, center.X*s, center.Y*s)
	dc.SetFontFace(face)
	if t.StrokeWidth > 0 {
		dc.SetColor(paint(t.StrokeColor, color.NRGBA{A: 255}))
		radius := math.Max(0.5, t.StrokeWidth*s/2)
		for i := 0; i < strokeSamples; i++ {
			a := 2 * math.Pi * float64(i) / strokeSamples
			dx, dy := radius*math.Cos(a), radius*math.Sin(a)
			for _, l := range lines {
				dc.DrawString(l.text, l.x+dx, l.baseline+dy)
			}
		}
	}
	dc.SetColor(paint(t.Color, color.NRGBA{255, 255, 255, 255}))
	for _, l := range lines {
		dc.DrawString(l.text, l.x, l.baseline)
	}
}

type textLine struct {
	text     string
	x        float64
	baseline float64
}

// paintTextShadow draws the glyphs offset and blurred on a scratch layer,
// then composites the layer under the text.
func (c *Composer) paintTextShadow(dc *gg.Context, face font.Face, lines []textLine, shadow color.NRGBA, t TextLayer, s, angle float64, center point) {
	w, h := dc.Width(), dc.Height()
	layer := gg.NewContext(w, h)
	layer.RotateAbout(angle, center.X*s, center.Y*s)
	layer.SetFontFace(face)
	layer.SetColor(shadow)
	ox, oy := t.ShadowOffsetX*s, t.ShadowOffsetY*s
	for _, l := range lines {
		layer.DrawString(l.text, l.x+ox, l.baseline+oy)
	}
	rgba, ok := layer.Image().(*image.RGBA)
	if !ok {
		return
	}
	if t.ShadowBlur > 0 {
		boxBlur(rgba, shadowBounds(lines, face, angle, center, s, ox, oy, t.ShadowBlur*s), t.ShadowBlur*s)
	}
	dc.DrawImage(rgba, 0, 0)
}

// shadowBounds is the pixel area a blurred shadow can reach: the rotated
// text extent grown by the blur.
func shadowBounds(lines []textLine, face font.Face, angle float64, center point, s, ox, oy, blur float64) image.Rectangle {
	m := face.Metrics()
	lineH := float64(m.Height) / 64
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	cx, cy := center.X*s, center.Y*s
	for _, l := range lines {
		adv := float64(font.MeasureString(face, l.text)) / 64
		for _, p := range []point{
			{l.x + ox, l.baseline - lineH + oy}, {l.x + adv + ox, l.baseline - lineH + oy},
			{l.x + ox, l.baseline + lineH/2 + oy}, {l.x + adv + ox, l.baseline + lineH/2 + oy},
		} {
			dx, dy := p.X-cx, p.Y-cy
			rx := dx*math.Cos(angle) - dy*math.Sin(angle) + cx
			ry := dx*math.Sin(angle) + dy*math.Cos(angle) + cy
			minX, minY = math.Min(minX, rx), math.Min(minY, ry)
			maxX, maxY = math.Max(maxX, rx), math.Max(maxY, ry)
		}
	}
	if math.IsInf(minX, 0) {
		return image.Rectangle{}
	}
	pad := 2 * blur
	return image.Rect(int(minX-pad), int(minY-pad), int(maxX+pad)+1, int(maxY+pad)+1)
}
