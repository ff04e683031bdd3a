package main

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
)

var errNoImageData = errors.New("no image data in response")

type GenerateRequest struct {
	Prompt          string
	Style           ThumbnailStyle
	IncludeTextInAI bool
	AIText          string
	Reference       *Payload
}

// BackgroundProvider produces a background raster for a prompt.
type BackgroundProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (*Payload, error)
}

// PromptEnhancer rewrites a rough idea into a visual description.
type PromptEnhancer interface {
	Enhance(ctx context.Context, prompt string) (string, error)
}

// BackgroundRemover cuts the subject of an image out onto transparency.
type BackgroundRemover interface {
	RemoveBackground(ctx context.Context, src *Payload) (*Payload, error)
}

type Studio interface {
	BackgroundProvider
	PromptEnhancer
	BackgroundRemover
}

// buildPrompt is the instruction sent to an image model for req.
func buildPrompt(req GenerateRequest) string {
	keywords := stylePrompts[req.Style]
	var prompt string
	if req.Reference != nil {
		subject := req.Prompt
		if strings.TrimSpace(subject) == "" {
			subject = "Maintain the subject but change the style."
		}
		prompt = fmt.Sprintf("Transform this image into a YouTube thumbnail.\nStyle to apply: %s.\nVisual modifiers: %s.\nContext: %s.\nEnsure the result is high quality 16:9.", req.Style, keywords, subject)
	} else {
		prompt = fmt.Sprintf("Create a YouTube thumbnail image. Aspect ratio 16:9.\nStyle: %s.\nVisual modifiers: %s.\nSubject: %s.", req.Style, keywords, req.Prompt)
	}
	if req.IncludeTextInAI && req.AIText != "" {
		prompt += fmt.Sprintf(" The image MUST clearly feature the text: %q in a large, readable font.", req.AIText)
	}
	return prompt
}

func enhancePromptInstruction(raw string) string {
	return fmt.Sprintf("You are an expert YouTube strategist. Rewrite the following video idea into a detailed visual description for a high-CTR thumbnail. Keep it concise but descriptive of visual elements.\n\nVideo Idea: %q\n\nOutput ONLY the visual description string in English, regardless of the input language.", raw)
}

const removeBackgroundInstruction = "Extract the main subject from this image and place it on a transparent background. Return the image as a PNG."

// localStudio works offline: palette backgrounds drawn with gg, keyword
// prompt enhancement and border-keyed background removal.
type localStudio struct {
	fonts  *FontRegistry
	width  int
	height int
}

func newLocalStudio(fonts *FontRegistry) *localStudio {
	return &localStudio{fonts: fonts, width: 1280, height: 720}
}

var stylePalettes = map[ThumbnailStyle][3]string{
	StyleRealistic:  {"#1f2937", "#6b7280", "#f59e0b"},
	StyleAnimated:   {"#38bdf8", "#a78bfa", "#f472b6"},
	StyleMinimalist: {"#f5f5f4", "#d6d3d1", "#78716c"},
	StyleGaming:     {"#0f172a", "#7c3aed", "#22d3ee"},
	StyleClickbait:  {"#dc2626", "#facc15", "#111827"},
	StyleRetro:      {"#1e1b4b", "#c026d3", "#38bdf8"},
	StyleComic:      {"#fde047", "#ef4444", "#1d4ed8"},
}

func (s *localStudio) Generate(ctx context.Context, req GenerateRequest) (*Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	palette, ok := stylePalettes[req.Style]
	if !ok {
		palette = stylePalettes[StyleClickbait]
	}
	c0, c1, c2 := paint(palette[0], color.NRGBA{A: 255}), paint(palette[1], color.NRGBA{A: 255}), paint(palette[2], color.NRGBA{A: 255})
	w, h := float64(s.width), float64(s.height)
	seed := promptSeed(req.Prompt)

	dc := gg.NewContext(s.width, s.height)
	angle := float64(seed%360) * math.Pi / 180
	grad := gg.NewLinearGradient(w/2-math.Cos(angle)*w/2, h/2-math.Sin(angle)*h/2, w/2+math.Cos(angle)*w/2, h/2+math.Sin(angle)*h/2)
	grad.AddColorStop(0, c0)
	grad.AddColorStop(1, c1)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	if req.Reference != nil {
		if ref, err := req.Reference.Decode(); err == nil {
			dc.Push()
			b := ref.Bounds()
			scale := math.Max(w/float64(b.Dx()), h/float64(b.Dy()))
			dc.Scale(scale, scale)
			dc.DrawImageAnchored(ref, int(w/2/scale), int(h/2/scale), 0.5, 0.5)
			dc.Pop()
			tint := c0
			tint.A = 110
			dc.SetColor(tint)
			dc.DrawRectangle(0, 0, w, h)
			dc.Fill()
		}
	}

	decorate(dc, req.Style, seed, c2)

	if req.IncludeTextInAI && strings.TrimSpace(req.AIText) != "" {
		if face, err := s.fonts.Face(familyGo, "700", h/6); err == nil {
			dc.SetFontFace(face)
			text := visualOrder(req.AIText)
			dc.SetColor(color.Black)
			dc.DrawStringAnchored(text, w/2+6, h/2+6, 0.5, 0.5)
			dc.SetColor(color.White)
			dc.DrawStringAnchored(text, w/2, h/2, 0.5, 0.5)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return EncodePNG(dc.Image())
}

func decorate(dc *gg.Context, style ThumbnailStyle, seed uint32, accent color.NRGBA) {
	w, h := float64(dc.Width()), float64(dc.Height())
	switch style {
	case StyleRetro:
		dc.SetColor(withAlpha(accent, 160))
		dc.SetLineWidth(2)
		horizon := h * 0.55
		for i := 0; i <= 12; i++ {
			y := horizon + (h-horizon)*math.Pow(float64(i)/12, 2)
			dc.DrawLine(0, y, w, y)
		}
		for i := -10; i <= 10; i++ {
			dc.DrawLine(w/2+float64(i)*w/20, horizon, w/2+float64(i)*w/4, h)
		}
		dc.Stroke()
	case StyleComic:
		dc.SetColor(withAlpha(accent, 90))
		for y := 0.0; y < h; y += 24 {
			for x := 0.0; x < w; x += 24 {
				r := 3 + 6*x/w
				dc.DrawCircle(x+12, y+12, r)
			}
		}
		dc.Fill()
	case StyleGaming, StyleAnimated:
		for i := 0; i < 6; i++ {
			n := seed>>(i*4) ^ uint32(i*2654435761)
			x := float64(n%1000) / 1000 * w
			y := float64((n/1000)%1000) / 1000 * h
			grad := gg.NewRadialGradient(x, y, 0, x, y, h/3)
			grad.AddColorStop(0, withAlpha(accent, 160))
			grad.AddColorStop(1, withAlpha(accent, 0))
			dc.SetFillStyle(grad)
			dc.DrawCircle(x, y, h/3)
			dc.Fill()
		}
	case StyleClickbait:
		dc.SetColor(withAlpha(accent, 70))
		cx, cy := w*0.3, h*0.5
		for i := 0; i < 24; i += 2 {
			a0 := float64(i) * math.Pi / 12
			a1 := float64(i+1) * math.Pi / 12
			dc.MoveTo(cx, cy)
			dc.LineTo(cx+math.Cos(a0)*w, cy+math.Sin(a0)*w)
			dc.LineTo(cx+math.Cos(a1)*w, cy+math.Sin(a1)*w)
			dc.ClosePath()
		}
		dc.Fill()
	case StyleRealistic:
		grad := gg.NewRadialGradient(w/2, h/2, h/3, w/2, h/2, w*0.7)
		grad.AddColorStop(0, color.NRGBA{})
		grad.AddColorStop(1, color.NRGBA{A: 200})
		dc.SetFillStyle(grad)
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()
	case StyleMinimalist:
		dc.SetColor(withAlpha(accent, 60))
		dc.DrawCircle(w*0.72, h*0.5, h*0.3)
		dc.Fill()
	}
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

func promptSeed(prompt string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(prompt))))
	return h.Sum32()
}

func (s *localStudio) Enhance(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return prompt, err
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return prompt, nil
	}
	return prompt + ", dramatic close-up, bold focal subject, rim lighting, saturated colors, clean space for a headline", nil
}

// removeTolerance is the squared RGB distance under which a pixel counts as
// background.
const removeTolerance = 48 * 48 * 3

// RemoveBackground flood-fills from the image border, clearing pixels close
// to the average border colour.
func (s *localStudio) RemoveBackground(ctx context.Context, src *Payload) (*Payload, error) {
	img, err := src.Decode()
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	key := borderColor(out)
	w, h := b.Dx(), b.Dy()
	seen := make([]bool, w*h)
	queue := make([]image.Point, 0, 2*(w+h))
	push := func(x, y int) {
		if x < 0 || y < 0 || x >= w || y >= h || seen[y*w+x] {
			return
		}
		seen[y*w+x] = true
		if colorDistance(out.NRGBAAt(x, y), key) <= removeTolerance {
			queue = append(queue, image.Pt(x, y))
		}
	}
	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}
	for len(queue) > 0 {
		if len(queue)%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		p := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		out.SetNRGBA(p.X, p.Y, color.NRGBA{})
		push(p.X+1, p.Y)
		push(p.X-1, p.Y)
		push(p.X, p.Y+1)
		push(p.X, p.Y-1)
	}
	return EncodePNG(out)
}

func borderColor(img *image.NRGBA) color.NRGBA {
	b := img.Bounds()
	var r, g, bl, n int
	add := func(x, y int) {
		c := img.NRGBAAt(x, y)
		r += int(c.R)
		g += int(c.G)
		bl += int(c.B)
		n++
	}
	for x := b.Min.X; x < b.Max.X; x++ {
		add(x, b.Min.Y)
		add(x, b.Max.Y-1)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		add(b.Min.X, y)
		add(b.Max.X-1, y)
	}
	if n == 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{uint8(r / n), uint8(g / n), uint8(bl / n), 255}
}

func colorDistance(a, b color.NRGBA) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}
