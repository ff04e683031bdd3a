package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// control is one editable field of a layer. Step and Set return a patch
// touching only that field (the image size control also writes height).
type control[L, P any] struct {
	label    string
	value    func(L) string
	step     func(L, int) P
	set      func(L, string) (P, error)
	disabled func(L) bool
}

type textControl = control[TextLayer, TextPatch]
type imageControl = control[ImageLayer, ImagePatch]

func (c control[L, P]) Disabled(l L) bool {
	return c.disabled != nil && c.disabled(l)
}

// Step nudges the value by delta increments. ok is false when the control
// is disabled or cannot be stepped.
func (c control[L, P]) Step(l L, delta int) (p P, ok bool) {
	if c.step == nil || c.Disabled(l) {
		return p, false
	}
	return c.step(l, delta), true
}

func (c control[L, P]) Set(l L, input string) (p P, err error) {
	if c.Disabled(l) {
		return p, fmt.Errorf("%s is disabled", strings.ToLower(c.label))
	}
	if c.set == nil {
		return p, fmt.Errorf("%s cannot be typed", strings.ToLower(c.label))
	}
	return c.set(l, strings.TrimSpace(input))
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func parseNumber(input string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(input, "%"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", input)
	}
	return v, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// numeric builds a ranged number control. Use ±Inf for an open bound.
func numeric[L, P any](label string, get func(L) float64, put func(L, float64) P, lo, hi, inc float64) control[L, P] {
	return control[L, P]{
		label: label,
		value: func(l L) string { return formatNumber(get(l)) },
		step: func(l L, delta int) P {
			return put(l, clampFloat(get(l)+float64(delta)*inc, lo, hi))
		},
		set: func(l L, input string) (P, error) {
			v, err := parseNumber(input)
			if err != nil {
				var zero P
				return zero, err
			}
			return put(l, clampFloat(v, lo, hi)), nil
		},
	}
}

// cycle returns the option delta places from current, wrapping around. An
// unknown current value starts from the first (or last) option.
func cycle(options []string, current string, delta int) string {
	if len(options) == 0 {
		return current
	}
	idx := -1
	for i, o := range options {
		if strings.EqualFold(o, current) {
			idx = i
			break
		}
	}
	if idx < 0 {
		if delta < 0 {
			return options[len(options)-1]
		}
		return options[0]
	}
	n := len(options)
	return options[((idx+delta)%n+n)%n]
}

func colorControl[L, P any](label string, options []string, get func(L) string, put func(string) P) control[L, P] {
	return control[L, P]{
		label: label,
		value: get,
		step:  func(l L, delta int) P { return put(cycle(options, get(l), delta)) },
		set: func(_ L, input string) (P, error) {
			if _, err := parseColor(input); err != nil {
				var zero P
				return zero, err
			}
			if isTransparent(input) {
				input = transparentName
			}
			return put(input), nil
		},
	}
}

var (
	backgroundOptions = append([]string{transparentName}, swatches...)
	shadowOptions     = append([]string{defaultShadowColor, transparentName}, swatches...)
)

func parseToggle(input string) (bool, error) {
	switch strings.ToLower(input) {
	case "on", "yes", "y", "1", "true":
		return true, nil
	case "off", "no", "n", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("%q is not on or off", input)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// displayContent shows newlines as a visible marker in single-line fields.
func displayContent(s string) string {
	return strings.ReplaceAll(s, "\n", "⏎")
}

func newTextControls(fonts *FontRegistry) []textControl {
	return []textControl{
		{
			label: "Content",
			value: func(t TextLayer) string { return displayContent(t.Content) },
			set: func(_ TextLayer, input string) (TextPatch, error) {
				content := strings.ReplaceAll(input, `\n`, "\n")
				return TextPatch{Content: &content}, nil
			},
		},
		{
			label: "Font",
			value: func(t TextLayer) string { return t.FontFamily },
			step: func(t TextLayer, delta int) TextPatch {
				return TextPatch{FontFamily: ptr(cycle(fonts.Families(), t.FontFamily, delta))}
			},
			set: func(_ TextLayer, input string) (TextPatch, error) {
				for _, f := range fonts.Families() {
					if strings.EqualFold(f, input) {
						return TextPatch{FontFamily: ptr(f)}, nil
					}
				}
				return TextPatch{}, fmt.Errorf("%w: %q", errUnknownFont, input)
			},
		},
		{
			label: "Weight",
			value: func(t TextLayer) string { return t.FontWeight },
			step: func(t TextLayer, delta int) TextPatch {
				return TextPatch{FontWeight: ptr(cycle(fontWeights, t.FontWeight, delta))}
			},
			set: func(_ TextLayer, input string) (TextPatch, error) {
				for _, w := range fontWeights {
					if w == input {
						return TextPatch{FontWeight: ptr(w)}, nil
					}
				}
				return TextPatch{}, fmt.Errorf("weight must be one of %s", strings.Join(fontWeights, ", "))
			},
		},
		{
			label: "Auto-fit",
			value: func(t TextLayer) string { return onOff(t.AutoFit) },
			step:  func(t TextLayer, _ int) TextPatch { return TextPatch{AutoFit: ptr(!t.AutoFit)} },
			set: func(_ TextLayer, input string) (TextPatch, error) {
				on, err := parseToggle(input)
				if err != nil {
					return TextPatch{}, err
				}
				return TextPatch{AutoFit: &on}, nil
			},
		},
		withDisabled(numeric("Size",
			func(t TextLayer) float64 { return t.FontSize },
			func(_ TextLayer, v float64) TextPatch { return TextPatch{FontSize: &v} },
			minFontSize, maxFontSize, 2,
		), func(t TextLayer) bool { return t.AutoFit }),
		numeric("Rotation",
			func(t TextLayer) float64 { return t.Rotation },
			func(_ TextLayer, v float64) TextPatch { return TextPatch{Rotation: &v} },
			-rotationLimit, rotationLimit, 5,
		),
		colorControl("Color", swatches,
			func(t TextLayer) string { return t.Color },
			func(s string) TextPatch { return TextPatch{Color: &s} },
		),
		colorControl("Background", backgroundOptions,
			func(t TextLayer) string { return t.BackgroundColor },
			func(s string) TextPatch { return TextPatch{BackgroundColor: &s} },
		),
		colorControl("Outline", swatches,
			func(t TextLayer) string { return t.StrokeColor },
			func(s string) TextPatch { return TextPatch{StrokeColor: &s} },
		),
		numeric("Outline width",
			func(t TextLayer) float64 { return t.StrokeWidth },
			func(_ TextLayer, v float64) TextPatch { return TextPatch{StrokeWidth: &v} },
			0, maxStrokeWidth, 1,
		),
		colorControl("Shadow", shadowOptions,
			func(t TextLayer) string { return t.ShadowColor },
			func(s string) TextPatch { return TextPatch{ShadowColor: &s} },
		),
		numeric("Shadow blur",
			func(t TextLayer) float64 { return t.ShadowBlur },
			func(_ TextLayer, v float64) TextPatch { return TextPatch{ShadowBlur: &v} },
			0, maxShadowBlur, 1,
		),
		numeric("Shadow X",
			func(t TextLayer) float64 { return t.ShadowOffsetX },
			func(_ TextLayer, v float64) TextPatch { return TextPatch{ShadowOffsetX: &v} },
			math.Inf(-1), math.Inf(1), 1,
		),
		numeric("Shadow Y",
			func(t TextLayer) float64 { return t.ShadowOffsetY },
			func(_ TextLayer, v float64) TextPatch { return TextPatch{ShadowOffsetY: &v} },
			math.Inf(-1), math.Inf(1), 1,
		),
		numeric("X",
			func(t TextLayer) float64 { return t.X },
			func(_ TextLayer, v float64) TextPatch { return TextPatch{X: &v} },
			math.Inf(-1), math.Inf(1), 10,
		),
		numeric("Y",
			func(t TextLayer) float64 { return t.Y },
			func(_ TextLayer, v float64) TextPatch { return TextPatch{Y: &v} },
			math.Inf(-1), math.Inf(1), 10,
		),
	}
}

func withDisabled[L, P any](c control[L, P], disabled func(L) bool) control[L, P] {
	c.disabled = disabled
	return c
}

// resizeKeepingAspect sets width to w and scales height by the current
// ratio. A layer without a usable width becomes square.
func resizeKeepingAspect(img ImageLayer, w float64) ImagePatch {
	h := w
	if img.Width > 0 && img.Height > 0 {
		h = w * (img.Height / img.Width)
	}
	return ImagePatch{Width: &w, Height: &h}
}

func newImageControls() []imageControl {
	return []imageControl{
		numeric("Size",
			func(img ImageLayer) float64 { return img.Width },
			resizeKeepingAspect,
			minImageSize, maxImageSize, 10,
		),
		numeric("Rotation",
			func(img ImageLayer) float64 { return img.Rotation },
			func(_ ImageLayer, v float64) ImagePatch { return ImagePatch{Rotation: &v} },
			-rotationLimit, rotationLimit, 5,
		),
		{
			label: "Opacity",
			value: func(img ImageLayer) string { return fmt.Sprintf("%.0f%%", img.Opacity*100) },
			step: func(img ImageLayer, delta int) ImagePatch {
				return ImagePatch{Opacity: ptr(clampFloat(math.Round((img.Opacity+float64(delta)*0.05)*100)/100, 0, 1))}
			},
			// Typed opacity is a fraction in [0, 1], or a percentage with a
			// trailing %.
			set: func(_ ImageLayer, input string) (ImagePatch, error) {
				v, err := parseNumber(input)
				if err != nil {
					return ImagePatch{}, err
				}
				if strings.HasSuffix(input, "%") {
					v /= 100
				} else if v < 0 || v > 1 {
					return ImagePatch{}, fmt.Errorf("opacity %q must be 0-1 or a percentage like 50%%", input)
				}
				return ImagePatch{Opacity: ptr(clampFloat(v, 0, 1))}, nil
			},
		},
		// Width and Height write one field each and do not keep the aspect
		// ratio. Use Size for that.
		numeric("Width",
			func(img ImageLayer) float64 { return img.Width },
			func(_ ImageLayer, v float64) ImagePatch { return ImagePatch{Width: &v} },
			1, math.Inf(1), 10,
		),
		numeric("Height",
			func(img ImageLayer) float64 { return img.Height },
			func(_ ImageLayer, v float64) ImagePatch { return ImagePatch{Height: &v} },
			1, math.Inf(1), 10,
		),
		numeric("X",
			func(img ImageLayer) float64 { return img.X },
			func(_ ImageLayer, v float64) ImagePatch { return ImagePatch{X: &v} },
			math.Inf(-1), math.Inf(1), 10,
		),
		numeric("Y",
			func(img ImageLayer) float64 { return img.Y },
			func(_ ImageLayer, v float64) ImagePatch { return ImagePatch{Y: &v} },
			math.Inf(-1), math.Inf(1), 10,
		),
	}
}
