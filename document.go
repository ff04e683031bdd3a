package main

import (
	"time"
)

type BackgroundState int

const (
	BackgroundEmpty BackgroundState = iota
	BackgroundLoading
	BackgroundPopulated
)

// Viewport is the rendered size of the composition surface in canvas pixels.
type Viewport struct {
	Width  float64
	Height float64
}

type HistoryEntry struct {
	ID         string
	Background *Payload
	Prompt     string
	Style      ThumbnailStyle
	Timestamp  time.Time
}

// Document is one editing session: background, layers, selection, viewport
// and the generation settings that go with them.
type Document struct {
	Layers   *LayerStore
	Drag     *DragController
	Viewport Viewport

	Background *Payload
	Generating bool
	History    []HistoryEntry

	Prompt          string
	Style           ThumbnailStyle
	IncludeTextInAI bool
	AIText          string
	UseReference    bool

	fonts       *FontRegistry
	defaultFont string
	clock       func() time.Time
	textIDs     idSource
	imageIDs    idSource
	historyIDs  idSource
}

func NewDocument(fonts *FontRegistry, defaultFont string, style ThumbnailStyle) *Document {
	store := NewLayerStore()
	d := &Document{
		Layers:      store,
		Drag:        NewDragController(store),
		Prompt:      defaultPrompt,
		Style:       style,
		fonts:       fonts,
		defaultFont: defaultFont,
		clock:       time.Now,
	}
	now := func() int64 { return d.clock().UnixMilli() }
	d.textIDs.now = now
	d.imageIDs.now = now
	d.historyIDs.now = now
	return d
}

// Observe records a new viewport size. It is the only writer of Viewport.
func (d *Document) Observe(width, height float64) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	d.Viewport = Viewport{Width: width, Height: height}
}

func (d *Document) BackgroundState() BackgroundState {
	switch {
	case d.Generating:
		return BackgroundLoading
	case d.Background != nil:
		return BackgroundPopulated
	}
	return BackgroundEmpty
}

func (d *Document) newTextLayer(content string) TextLayer {
	return TextLayer{
		ID:              d.textIDs.next(),
		Content:         content,
		X:               defaultTextX,
		Y:               defaultTextY,
		Rotation:        defaultTextRotation,
		FontSize:        defaultFontSize,
		FontFamily:      defaultFamilyFor(content, d.defaultFont, d.fonts),
		FontWeight:      defaultWeight,
		Color:           defaultTextColor,
		BackgroundColor: defaultTextBg,
		StrokeColor:     defaultStrokeColor,
		ShadowColor:     defaultShadowColor,
		ShadowBlur:      defaultShadowBlur,
		ShadowOffsetX:   defaultShadowOffset,
		ShadowOffsetY:   defaultShadowOffset,
	}
}

// AddText creates a text layer with default styling and selects it.
func (d *Document) AddText(content string) string {
	t := d.newTextLayer(content)
	d.Layers.AddText(t)
	d.Drag.Select(TextRef(t.ID))
	return t.ID
}

// AddImage inserts an image layer with a placeholder height and selects it.
// ResolveImageSize corrects the height once the natural size is known.
func (d *Document) AddImage(src *Payload) string {
	img := ImageLayer{
		ID:      d.imageIDs.next(),
		Src:     src,
		X:       defaultImageX,
		Y:       defaultImageY,
		Width:   defaultImageWidth,
		Height:  defaultImageWidth,
		Opacity: 1,
	}
	d.Layers.AddImage(img)
	d.Drag.Select(ImageRef(img.ID))
	return img.ID
}

// ResolveImageSize applies the decoded aspect ratio to the layer height.
// Only Height is written so moves made while decoding survive.
func (d *Document) ResolveImageSize(id string, naturalWidth, naturalHeight int) bool {
	img, ok := d.Layers.Image(id)
	if !ok || naturalWidth <= 0 || naturalHeight <= 0 {
		return false
	}
	ratio := float64(naturalHeight) / float64(naturalWidth)
	return d.Layers.UpdateImage(id, ImagePatch{Height: ptr(img.Width * ratio)})
}

// ReplaceImageSource swaps the pixels of an image layer, leaving geometry
// alone.
func (d *Document) ReplaceImageSource(id string, src *Payload) bool {
	if src == nil {
		return false
	}
	return d.Layers.UpdateImage(id, ImagePatch{Src: src})
}

// Remove deletes a layer and clears the selection if it pointed at it.
func (d *Document) Remove(ref LayerRef) bool {
	if ref == nil {
		return false
	}
	d.Drag.Forget(ref)
	return d.Layers.Remove(ref)
}

func (d *Document) DeleteSelected() bool {
	return d.Drag.Delete()
}

func (d *Document) SelectedText() (TextLayer, bool) {
	if r, ok := d.Drag.Selection().(TextRef); ok {
		return d.Layers.Text(string(r))
	}
	return TextLayer{}, false
}

func (d *Document) SelectedImage() (ImageLayer, bool) {
	if r, ok := d.Drag.Selection().(ImageRef); ok {
		return d.Layers.Image(string(r))
	}
	return ImageLayer{}, false
}

// SetBackground sets an uploaded background and turns on reference mode so
// the next generation restyles it.
func (d *Document) SetBackground(p *Payload) {
	d.Background = p
	d.UseReference = true
}

// GenerateRequest captures the current generation settings.
func (d *Document) GenerateRequest() GenerateRequest {
	req := GenerateRequest{
		Prompt:          d.Prompt,
		Style:           d.Style,
		IncludeTextInAI: d.IncludeTextInAI,
		AIText:          d.AIText,
	}
	if d.UseReference && d.Background != nil {
		req.Reference = d.Background
	}
	return req
}

// FinishGeneration stores a generated background and prepends it to the
// session history.
func (d *Document) FinishGeneration(p *Payload, req GenerateRequest) {
	d.Background = p
	d.History = append([]HistoryEntry{{
		ID:         d.historyIDs.next(),
		Background: p,
		Prompt:     req.Prompt,
		Style:      req.Style,
		Timestamp:  d.clock(),
	}}, d.History...)
}

// RestoreHistory loads a previous background. Loading a background starts a
// fresh composition, so layers and selection are cleared.
func (d *Document) RestoreHistory(index int) bool {
	if index < 0 || index >= len(d.History) {
		return false
	}
	entry := d.History[index]
	d.Background = entry.Background
	d.Prompt = entry.Prompt
	d.Style = entry.Style
	d.Layers.Clear()
	d.Drag.Clear()
	return true
}
