package main

import "strconv"

type TextLayer struct {
	ID       string
	X        float64
	Y        float64
	Rotation float64

	Content    string
	FontFamily string
	FontWeight string
	FontSize   float64
	AutoFit    bool

	Color           string
	BackgroundColor string
	StrokeColor     string
	StrokeWidth     float64
	ShadowColor     string
	ShadowBlur      float64
	ShadowOffsetX   float64
	ShadowOffsetY   float64
}

type ImageLayer struct {
	ID       string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64
	Opacity  float64
	Src      *Payload
}

// TextPatch holds the fields to merge into a TextLayer. Nil fields keep
// their current value.
type TextPatch struct {
	X               *float64
	Y               *float64
	Rotation        *float64
	Content         *string
	FontFamily      *string
	FontWeight      *string
	FontSize        *float64
	AutoFit         *bool
	Color           *string
	BackgroundColor *string
	StrokeColor     *string
	StrokeWidth     *float64
	ShadowColor     *string
	ShadowBlur      *float64
	ShadowOffsetX   *float64
	ShadowOffsetY   *float64
}

func (p TextPatch) apply(t *TextLayer) {
	set(&t.X, p.X)
	set(&t.Y, p.Y)
	set(&t.Rotation, p.Rotation)
	set(&t.Content, p.Content)
	set(&t.FontFamily, p.FontFamily)
	set(&t.FontWeight, p.FontWeight)
	set(&t.FontSize, p.FontSize)
	set(&t.AutoFit, p.AutoFit)
	set(&t.Color, p.Color)
	set(&t.BackgroundColor, p.BackgroundColor)
	set(&t.StrokeColor, p.StrokeColor)
	set(&t.StrokeWidth, p.StrokeWidth)
	set(&t.ShadowColor, p.ShadowColor)
	set(&t.ShadowBlur, p.ShadowBlur)
	set(&t.ShadowOffsetX, p.ShadowOffsetX)
	set(&t.ShadowOffsetY, p.ShadowOffsetY)
}

type ImagePatch struct {
	X        *float64
	Y        *float64
	Width    *float64
	Height   *float64
	Rotation *float64
	Opacity  *float64
	Src      *Payload
}

func (p ImagePatch) apply(img *ImageLayer) {
	set(&img.X, p.X)
	set(&img.Y, p.Y)
	set(&img.Width, p.Width)
	set(&img.Height, p.Height)
	set(&img.Rotation, p.Rotation)
	set(&img.Opacity, p.Opacity)
	if p.Src != nil {
		img.Src = p.Src
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func ptr[T any](v T) *T {
	return &v
}

// LayerStore keeps the two layer collections. Slice order is z-order within
// a kind. Ids are only unique within their own collection.
type LayerStore struct {
	texts  []TextLayer
	images []ImageLayer
}

func NewLayerStore() *LayerStore {
	return &LayerStore{
		texts:  make([]TextLayer, 0),
		images: make([]ImageLayer, 0),
	}
}

func (s *LayerStore) AddText(t TextLayer) {
	s.texts = append(s.texts, t)
}

func (s *LayerStore) AddImage(img ImageLayer) {
	s.images = append(s.images, img)
}

// UpdateText merges p into the text layer with the given id. A missing id is
// a no-op and reports false.
func (s *LayerStore) UpdateText(id string, p TextPatch) bool {
	for i := range s.texts {
		if s.texts[i].ID == id {
			p.apply(&s.texts[i])
			return true
		}
	}
	Logger().Debug("text layer update ignored", "id", id)
	return false
}

func (s *LayerStore) UpdateImage(id string, p ImagePatch) bool {
	for i := range s.images {
		if s.images[i].ID == id {
			p.apply(&s.images[i])
			return true
		}
	}
	Logger().Debug("image layer update ignored", "id", id)
	return false
}

func (s *LayerStore) RemoveText(id string) bool {
	for i := range s.texts {
		if s.texts[i].ID == id {
			s.texts = append(s.texts[:i], s.texts[i+1:]...)
			return true
		}
	}
	return false
}

func (s *LayerStore) RemoveImage(id string) bool {
	for i := range s.images {
		if s.images[i].ID == id {
			s.images = append(s.images[:i], s.images[i+1:]...)
			return true
		}
	}
	return false
}

func (s *LayerStore) Text(id string) (TextLayer, bool) {
	for _, t := range s.texts {
		if t.ID == id {
			return t, true
		}
	}
	return TextLayer{}, false
}

func (s *LayerStore) Image(id string) (ImageLayer, bool) {
	for _, img := range s.images {
		if img.ID == id {
			return img, true
		}
	}
	return ImageLayer{}, false
}

// Texts returns a copy of the text layers in z-order.
func (s *LayerStore) Texts() []TextLayer {
	return append([]TextLayer(nil), s.texts...)
}

// Images returns a copy of the image layers in z-order.
func (s *LayerStore) Images() []ImageLayer {
	return append([]ImageLayer(nil), s.images...)
}

func (s *LayerStore) Len() int {
	return len(s.texts) + len(s.images)
}

func (s *LayerStore) Clear() {
	s.texts = s.texts[:0]
	s.images = s.images[:0]
}

// Position returns the top-left of the referenced layer.
func (s *LayerStore) Position(ref LayerRef) (point, bool) {
	switch r := ref.(type) {
	case TextRef:
		if t, ok := s.Text(string(r)); ok {
			return point{t.X, t.Y}, true
		}
	case ImageRef:
		if img, ok := s.Image(string(r)); ok {
			return point{img.X, img.Y}, true
		}
	}
	return point{}, false
}

// Move sets the top-left of the referenced layer.
func (s *LayerStore) Move(ref LayerRef, p point) bool {
	switch r := ref.(type) {
	case TextRef:
		return s.UpdateText(string(r), TextPatch{X: ptr(p.X), Y: ptr(p.Y)})
	case ImageRef:
		return s.UpdateImage(string(r), ImagePatch{X: ptr(p.X), Y: ptr(p.Y)})
	}
	return false
}

// Remove deletes the referenced layer from its collection.
func (s *LayerStore) Remove(ref LayerRef) bool {
	switch r := ref.(type) {
	case TextRef:
		return s.RemoveText(string(r))
	case ImageRef:
		return s.RemoveImage(string(r))
	}
	return false
}

// Contains reports whether the referenced layer still exists.
func (s *LayerStore) Contains(ref LayerRef) bool {
	_, ok := s.Position(ref)
	return ok
}

// idSource hands out creation-time ids. Ids are millisecond timestamps,
// bumped when two layers are created within the same millisecond.
type idSource struct {
	now  func() int64
	last int64
}

func (g *idSource) next() string {
	n := g.now()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return strconv.FormatInt(n, 10)
}
