package main

import (
	"image"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

// Stacking bands. Images sit under text; the selected layer of each kind is
// lifted above every unselected layer.
const (
	zImage         = 5
	zText          = 10
	zSelectedImage = 20
	zSelectedText  = 21
)

const (
	textPadX       = 0.3
	textPadY       = 0.1
	textLineHeight = 1.2
)

var (
	colorCanvasEmpty = color.NRGBA{0x1a, 0x1a, 0x1a, 0xff}
	colorSelection   = color.NRGBA{0x3b, 0x82, 0xf6, 0xff}
	colorSpinner     = color.NRGBA{0xef, 0x44, 0x44, 0xff}
	colorHint        = color.NRGBA{0x6b, 0x72, 0x80, 0xff}
)

type rect struct {
	X, Y, W, H float64
}

func (r rect) center() point {
	return point{r.X + r.W/2, r.Y + r.H/2}
}

// Placement is where one layer ends up on the canvas for the current
// render pass.
type Placement struct {
	Ref      LayerRef
	Bounds   rect
	Rotation float64
	Z        int

	FontSize float64
	Lines    []string
	Fitted   bool
}

// contains tests p against the bounds rotated about their center.
func (p Placement) contains(pt point) bool {
	c := p.Bounds.center()
	theta := -p.Rotation * math.Pi / 180
	dx, dy := pt.X-c.X, pt.Y-c.Y
	lx := dx*math.Cos(theta) - dy*math.Sin(theta) + c.X
	ly := dx*math.Sin(theta) + dy*math.Cos(theta) + c.Y
	b := p.Bounds
	return lx >= b.X && lx <= b.X+b.W && ly >= b.Y && ly <= b.Y+b.H
}

type RenderOptions struct {
	// Scale maps canvas pixels to output pixels.
	Scale         float64
	ShowSelection bool
}

// Composer lays out and paints a Document.
type Composer struct {
	fonts   *FontRegistry
	measure Measurer

	decoded map[*Payload]image.Image
	scaled  map[scaledKey]*image.RGBA
	failed  map[*Payload]bool
	used    map[*Payload]bool
	sized   map[scaledKey]bool
}

type scaledKey struct {
	src   *Payload
	w, h  int
	cover bool
}

func NewComposer(fonts *FontRegistry) *Composer {
	return &Composer{
		fonts:   fonts,
		measure: fonts,
		decoded: make(map[*Payload]image.Image),
		scaled:  make(map[scaledKey]*image.RGBA),
		failed:  make(map[*Payload]bool),
		used:    make(map[*Payload]bool),
		sized:   make(map[scaledKey]bool),
	}
}

// Layout places every layer in paint order.
func (c *Composer) Layout(doc *Document) []Placement {
	var out []Placement
	for _, img := range doc.Layers.Images() {
		ref := ImageRef(img.ID)
		z := zImage
		if doc.Drag.IsSelected(ref) {
			z = zSelectedImage
		}
		out = append(out, Placement{
			Ref:      ref,
			Bounds:   rect{img.X, img.Y, img.Width, img.Height},
			Rotation: img.Rotation,
			Z:        z,
		})
	}
	for _, t := range doc.Layers.Texts() {
		ref := TextRef(t.ID)
		z := zText
		if doc.Drag.IsSelected(ref) {
			z = zSelectedText
		}
		out = append(out, c.layoutText(t, doc.Viewport.Width, ref, z))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}

func (c *Composer) layoutText(t TextLayer, viewportWidth float64, ref LayerRef, z int) Placement {
	fit := AutoFit(t, viewportWidth, c.measure)
	var lines []string
	if t.AutoFit {
		lines = []string{fitLine(t.Content)}
	} else {
		lines = strings.Split(t.Content, "\n")
	}
	size := fit.FontSize
	if !(size > 0) {
		size = minFontSize
	}
	var widest float64
	for _, line := range lines {
		w, err := c.measure.MeasureWidth(line, t.FontFamily, t.FontWeight, size)
		if err == nil && w > widest {
			widest = w
		}
	}
	return Placement{
		Ref: ref,
		Bounds: rect{
			X: fit.X,
			Y: t.Y,
			W: widest + 2*textPadX*size,
			H: float64(len(lines))*textLineHeight*size + 2*textPadY*size,
		},
		Rotation: t.Rotation,
		Z:        z,
		FontSize: size,
		Lines:    lines,
		Fitted:   fit.Fitted,
	}
}

// HitTest returns the topmost layer under p, or nil for the background.
func (c *Composer) HitTest(doc *Document, p point) LayerRef {
	placements := c.Layout(doc)
	for i := len(placements) - 1; i >= 0; i-- {
		if placements[i].contains(p) {
			return placements[i].Ref
		}
	}
	return nil
}

// Render paints the document at viewport size times opts.Scale.
func (c *Composer) Render(doc *Document, opts RenderOptions) *image.RGBA {
	if !(opts.Scale > 0) {
		opts.Scale = 1
	}
	w := int(math.Round(doc.Viewport.Width * opts.Scale))
	h := int(math.Round(doc.Viewport.Height * opts.Scale))
	if w < 1 || h < 1 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	dc := gg.NewContext(w, h)
	c.used = make(map[*Payload]bool)
	c.sized = make(map[scaledKey]bool)

	c.paintBackground(dc, doc, w, h)
	for _, pl := range c.Layout(doc) {
		switch r := pl.Ref.(type) {
		case ImageRef:
			if img, ok := doc.Layers.Image(string(r)); ok {
				c.paintImage(dc, img, pl, opts.Scale)
			}
		case TextRef:
			if t, ok := doc.Layers.Text(string(r)); ok {
				c.paintText(dc, t, pl, opts.Scale)
			}
		}
		if opts.ShowSelection && doc.Drag.IsSelected(pl.Ref) {
			paintSelection(dc, pl, opts.Scale)
		}
	}
	if doc.BackgroundState() == BackgroundLoading {
		c.paintSpinner(dc, w, h)
	}
	c.prune()

	if rgba, ok := dc.Image().(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, xdraw.Src)
	return out
}

func (c *Composer) paintBackground(dc *gg.Context, doc *Document, w, h int) {
	dc.SetColor(colorCanvasEmpty)
	dc.Clear()

	if doc.Background == nil {
		if doc.Generating {
			return
		}
		if face, err := c.fonts.Face(familyGo, "500", math.Max(8, float64(h)/24)); err == nil {
			dc.SetFontFace(face)
			dc.SetColor(colorHint)
			dc.DrawStringAnchored("Generate or Upload Background", float64(w)/2, float64(h)/2, 0.5, 0.5)
		}
		return
	}

	cover := c.cover(doc.Background, w, h)
	if cover == nil {
		return
	}
	if !doc.Generating {
		dc.DrawImage(cover, 0, 0)
		return
	}
	dimmed := fade(cover, 0.5)
	boxBlur(dimmed, dimmed.Bounds(), 8)
	dc.DrawImage(dimmed, 0, 0)
}

func (c *Composer) paintSpinner(dc *gg.Context, w, h int) {
	cx, cy := float64(w)/2, float64(h)/2
	r := math.Max(6, float64(h)/16)
	dc.SetLineWidth(math.Max(2, r/3))
	dc.SetColor(colorSpinner)
	dc.DrawArc(cx, cy-r, r, 0, 1.5*math.Pi)
	dc.Stroke()
	if face, err := c.fonts.Face(familyGo, "700", math.Max(8, float64(h)/24)); err == nil {
		dc.SetFontFace(face)
		dc.SetColor(color.White)
		dc.DrawStringAnchored("CREATING MAGIC...", cx, cy+r, 0.5, 1)
	}
}

func paintSelection(dc *gg.Context, pl Placement, s float64) {
	b := pl.Bounds
	x, y, w, h := b.X*s, b.Y*s, b.W*s, b.H*s
	c := b.center()
	dc.Push()
	dc.RotateAbout(gg.Radians(pl.Rotation), c.X*s, c.Y*s)
	dc.SetColor(colorSelection)
	dc.SetLineWidth(math.Max(1, 2*s))
	dc.DrawRectangle(x, y, w, h)
	dc.Stroke()
	handle := math.Max(2, 4*s)
	for _, p := range []point{{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h}} {
		dc.DrawCircle(p.X, p.Y, handle)
		dc.Fill()
	}
	dc.DrawLine(x+w/2, y, x+w/2, y-24*s)
	dc.Stroke()
	dc.SetColor(color.White)
	dc.DrawCircle(x+w/2, y-24*s, handle)
	dc.Fill()
	dc.Pop()
}

// source returns the decoded image for a payload, decoding it once.
func (c *Composer) source(p *Payload) image.Image {
	if p == nil {
		return nil
	}
	c.used[p] = true
	if img, ok := c.decoded[p]; ok {
		return img
	}
	if c.failed[p] {
		return nil
	}
	img, err := p.Decode()
	if err != nil {
		Logger().Warn("layer image not drawable", "err", err)
		c.failed[p] = true
		return nil
	}
	c.decoded[p] = img
	return img
}

// cover scales the payload to fill w×h, cropping the overflow.
func (c *Composer) cover(p *Payload, w, h int) *image.RGBA {
	key := scaledKey{p, w, h, true}
	c.sized[key] = true
	if img, ok := c.scaled[key]; ok {
		c.used[p] = true
		return img
	}
	src := c.source(p)
	if src == nil {
		return nil
	}
	sb := src.Bounds()
	scale := math.Max(float64(w)/float64(sb.Dx()), float64(h)/float64(sb.Dy()))
	cw, ch := float64(w)/scale, float64(h)/scale
	crop := image.Rect(
		sb.Min.X+int((float64(sb.Dx())-cw)/2),
		sb.Min.Y+int((float64(sb.Dy())-ch)/2),
		sb.Min.X+int((float64(sb.Dx())+cw)/2),
		sb.Min.Y+int((float64(sb.Dy())+ch)/2),
	)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, xdraw.Src, nil)
	c.scaled[key] = dst
	return dst
}

// contain scales the payload to fit inside w×h, keeping its aspect ratio.
func (c *Composer) contain(p *Payload, w, h int) *image.RGBA {
	key := scaledKey{p, w, h, false}
	c.sized[key] = true
	if img, ok := c.scaled[key]; ok {
		c.used[p] = true
		return img
	}
	src := c.source(p)
	if src == nil {
		return nil
	}
	sb := src.Bounds()
	scale := math.Min(float64(w)/float64(sb.Dx()), float64(h)/float64(sb.Dy()))
	fw, fh := int(math.Round(float64(sb.Dx())*scale)), int(math.Round(float64(sb.Dy())*scale))
	off := image.Pt((w-fw)/2, (h-fh)/2)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, image.Rectangle{off, off.Add(image.Pt(fw, fh))}, src, sb, xdraw.Over, nil)
	c.scaled[key] = dst
	return dst
}

// prune drops cached images that were not drawn this pass.
func (c *Composer) prune() {
	for p := range c.decoded {
		if !c.used[p] {
			delete(c.decoded, p)
		}
	}
	for k := range c.scaled {
		if !c.sized[k] {
			delete(c.scaled, k)
		}
	}
	for p := range c.failed {
		if !c.used[p] {
			delete(c.failed, p)
		}
	}
}

// fade returns a copy of img with its alpha multiplied by opacity.
func fade(img *image.RGBA, opacity float64) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	a := clampByte(opacity * 255)
	xdraw.DrawMask(out, out.Bounds(), img, img.Bounds().Min, image.NewUniform(color.Alpha{A: a}), image.Point{}, xdraw.Over)
	return out
}

func (c *Composer) paintImage(dc *gg.Context, img ImageLayer, pl Placement, s float64) {
	w := int(math.Round(img.Width * s))
	h := int(math.Round(img.Height * s))
	if w < 1 || h < 1 || img.Opacity <= 0 {
		return
	}
	scaled := c.contain(img.Src, w, h)
	center := pl.Bounds.center()
	dc.Push()
	defer dc.Pop()
	dc.RotateAbout(gg.Radians(img.Rotation), center.X*s, center.Y*s)
	if scaled == nil {
		dc.SetColor(colorHint)
		dc.DrawRectangle(img.X*s, img.Y*s, float64(w), float64(h))
		dc.Stroke()
		dc.DrawLine(img.X*s, img.Y*s, img.X*s+float64(w), img.Y*s+float64(h))
		dc.Stroke()
		return
	}
	if img.Opacity < 1 {
		scaled = fade(scaled, img.Opacity)
	}
	dc.DrawImage(scaled, int(math.Round(img.X*s)), int(math.Round(img.Y*s)))
}
