package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
)

var errUnknownFont = errors.New("unknown font family")

const (
	familyGo        = "Go"
	familyGoMono    = "Go Mono"
	familyGoSmall   = "Go Smallcaps"
	familyArabic    = "Cairo"
	defaultWeight   = "700"
	maxCachedFaces  = 64
	faceSizeQuantum = 0.25
)

var fontWeights = []string{"400", "500", "700", "900"}

// FontRegistry maps family and weight to parsed TrueType fonts and keeps a
// small cache of sized faces.
type FontRegistry struct {
	mu       sync.Mutex
	families map[string]map[int]*truetype.Font
	faces    map[faceKey]font.Face
	fallback string
}

type faceKey struct {
	family string
	weight int
	size   float64
}

func NewFontRegistry() *FontRegistry {
	r := &FontRegistry{
		families: make(map[string]map[int]*truetype.Font),
		faces:    make(map[faceKey]font.Face),
		fallback: familyGo,
	}
	builtin := []struct {
		family string
		weight int
		ttf    []byte
	}{
		{familyGo, 400, goregular.TTF},
		{familyGo, 500, gomedium.TTF},
		{familyGo, 700, gobold.TTF},
		{familyGoMono, 400, gomono.TTF},
		{familyGoMono, 700, gomonobold.TTF},
		{familyGoSmall, 400, gosmallcaps.TTF},
	}
	for _, b := range builtin {
		if err := r.Register(b.family, b.weight, b.ttf); err != nil {
			Logger().Warn("builtin font rejected", "family", b.family, "err", err)
		}
	}
	return r
}

func (r *FontRegistry) Register(family string, weight int, ttf []byte) error {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("parse %s %d: %w", family, weight, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.families[family] == nil {
		r.families[family] = make(map[int]*truetype.Font)
	}
	r.families[family][weight] = f
	return nil
}

// LoadDirectory registers every .ttf file in dir. The family comes from the
// file name before the first dash, the weight from the suffix
// (Cairo-Bold.ttf is family Cairo, weight 700).
func (r *FontRegistry) LoadDirectory(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	loaded := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".ttf") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return loaded, err
		}
		family, weight := familyFromFilename(name)
		if err := r.Register(family, weight, data); err != nil {
			Logger().Warn("font skipped", "file", name, "err", err)
			continue
		}
		loaded++
	}
	return loaded, nil
}

func familyFromFilename(name string) (string, int) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	family, style, _ := strings.Cut(base, "-")
	weight := 400
	switch strings.ToLower(style) {
	case "thin":
		weight = 100
	case "light":
		weight = 300
	case "medium":
		weight = 500
	case "semibold":
		weight = 600
	case "bold":
		weight = 700
	case "extrabold":
		weight = 800
	case "black", "heavy":
		weight = 900
	}
	return family, weight
}

// Families lists registered family names, builtin Go families first.
func (r *FontRegistry) Families() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, f := range []string{familyGo, familyGoMono, familyGoSmall} {
		if _, ok := r.families[f]; ok {
			out = append(out, f)
		}
	}
	var extra []string
	for f := range r.families {
		if f != familyGo && f != familyGoMono && f != familyGoSmall {
			extra = append(extra, f)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func (r *FontRegistry) HasFamily(family string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.families[family]
	return ok
}

func parseWeight(weight string) int {
	switch strings.ToLower(strings.TrimSpace(weight)) {
	case "normal":
		return 400
	case "bold":
		return 700
	}
	w, err := strconv.Atoi(strings.TrimSpace(weight))
	if err != nil || w <= 0 {
		return 400
	}
	return w
}

// lookup returns the font closest to the requested weight. Unknown families
// resolve to the fallback family.
func (r *FontRegistry) lookup(family string, weight int) (*truetype.Font, int, error) {
	weights, ok := r.families[family]
	if !ok {
		weights, ok = r.families[r.fallback]
		if !ok {
			return nil, 0, fmt.Errorf("%w: %q", errUnknownFont, family)
		}
	}
	best, bestWeight := (*truetype.Font)(nil), 0
	for w, f := range weights {
		if best == nil || absInt(w-weight) < absInt(bestWeight-weight) ||
			(absInt(w-weight) == absInt(bestWeight-weight) && w > bestWeight) {
			best, bestWeight = f, w
		}
	}
	return best, bestWeight, nil
}

// Face returns a cached face for the family, weight and pixel size.
func (r *FontRegistry) Face(family, weight string, size float64) (font.Face, error) {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("invalid font size %v", size)
	}
	size = math.Round(size/faceSizeQuantum) * faceSizeQuantum
	r.mu.Lock()
	defer r.mu.Unlock()
	f, w, err := r.lookup(family, parseWeight(weight))
	if err != nil {
		return nil, err
	}
	key := faceKey{family, w, size}
	if face, ok := r.faces[key]; ok {
		return face, nil
	}
	if len(r.faces) >= maxCachedFaces {
		r.faces = make(map[faceKey]font.Face)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	r.faces[key] = face
	return face, nil
}

// MeasureWidth implements Measurer.
func (r *FontRegistry) MeasureWidth(text, family, weight string, size float64) (float64, error) {
	face, err := r.Face(family, weight, size)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return float64(font.MeasureString(face, visualOrder(text))) / 64, nil
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func containsArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}

// defaultFamilyFor picks the family for new text, preferring the Arabic
// family for Arabic content when it is installed.
func defaultFamilyFor(content, configured string, fonts *FontRegistry) string {
	if containsArabic(content) && fonts != nil && fonts.HasFamily(familyArabic) {
		return familyArabic
	}
	if configured != "" {
		return configured
	}
	return familyGo
}
