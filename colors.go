package main

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// isTransparent reports whether a paint value is the "no colour" sentinel.
func isTransparent(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "transparent", "none":
		return true
	}
	return false
}

// parseColor accepts #rgb, #rrggbb, #rrggbbaa, rgb(r,g,b), rgba(r,g,b,a) and
// the transparent sentinels.
func parseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if isTransparent(s) {
		return color.NRGBA{}, nil
	}
	switch {
	case strings.HasPrefix(s, "#"):
		alpha := uint8(255)
		hex := s
		if len(s) == 9 {
			a, err := strconv.ParseUint(s[7:], 16, 8)
			if err != nil {
				return color.NRGBA{}, fmt.Errorf("bad alpha in %q", s)
			}
			alpha = uint8(a)
			hex = s[:7]
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("bad colour %q: %w", s, err)
		}
		r, g, b := c.Clamped().RGB255()
		return color.NRGBA{r, g, b, alpha}, nil
	case strings.HasPrefix(s, "rgb"):
		open := strings.IndexByte(s, '(')
		end := strings.LastIndexByte(s, ')')
		if open < 0 || end < open {
			return color.NRGBA{}, fmt.Errorf("bad colour %q", s)
		}
		parts := strings.Split(s[open+1:end], ",")
		if len(parts) != 3 && len(parts) != 4 {
			return color.NRGBA{}, fmt.Errorf("bad colour %q", s)
		}
		var ch [4]float64
		ch[3] = 1
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return color.NRGBA{}, fmt.Errorf("bad colour %q: %w", s, err)
			}
			ch[i] = v
		}
		return color.NRGBA{
			R: clampByte(ch[0]),
			G: clampByte(ch[1]),
			B: clampByte(ch[2]),
			A: clampByte(ch[3] * 255),
		}, nil
	}
	return color.NRGBA{}, fmt.Errorf("unsupported colour %q", s)
}

// paint resolves a colour string, using fallback when it does not parse.
func paint(s string, fallback color.NRGBA) color.NRGBA {
	c, err := parseColor(s)
	if err != nil {
		return fallback
	}
	return c
}

func clampByte(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

func hexColor(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// swatches is the palette the editor colour controls cycle through.
var swatches = []string{
	"#ffffff", "#000000", "#cc0000", "#ffdd00", "#00c853",
	"#2979ff", "#aa00ff", "#ff6d00", "#ff4081", "#00e5ff",
}
