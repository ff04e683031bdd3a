package main

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) model {
	t.Helper()
	fonts := NewFontRegistry()
	config := defaultConfig()
	config.SaveDirectory = t.TempDir()
	m := initialModel(config, fonts, newLocalStudio(NewFontRegistry()))
	return step(t, m, tea.WindowSizeMsg{Width: panelWidth + 160, Height: 60})
}

func step(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(model)
	if !ok {
		t.Fatalf("Update() returned %T, want model", next)
	}
	return got
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_LayoutFillsSixteenByNine(t *testing.T) {
	m := newTestModel(t)
	l := m.layout()
	if l.cols != 160 || l.rows != 45 {
		t.Errorf("layout() = %dx%d cells, want 160x45", l.cols, l.rows)
	}
	if m.doc.Viewport.Width != 1280 || m.doc.Viewport.Height != 720 {
		t.Errorf("Viewport = %+v, want 1280x720", m.doc.Viewport)
	}

	m = step(t, m, tea.WindowSizeMsg{Width: panelWidth + 160, Height: 21})
	l = m.layout()
	if l.rows != 20 || l.cols > 160 {
		t.Errorf("height-limited layout() = %dx%d", l.cols, l.rows)
	}
	if got := m.doc.Viewport.Width * 9 / 16; !approx(got, m.doc.Viewport.Height) {
		t.Errorf("Viewport %+v is not 16:9", m.doc.Viewport)
	}
}

func TestModel_AddTextAndDrag(t *testing.T) {
	m := newTestModel(t)
	m = step(t, m, runes("t"))

	ref := m.doc.Drag.Selection()
	if ref == nil {
		t.Fatal("t did not select a new text layer")
	}
	m.doc.Layers.UpdateText(ref.layerID(), TextPatch{Rotation: ptr(0.0)})

	// cell (10, 5) is canvas (84, 88) at 8x16 pixels per cell
	m = step(t, m, tea.MouseMsg{X: 10, Y: 5, Type: tea.MouseLeft})
	if got := m.doc.Drag.State(); got != DragDragging {
		t.Fatalf("State() after press = %v, want dragging", got)
	}
	m = step(t, m, tea.MouseMsg{X: 20, Y: 10, Type: tea.MouseMotion})
	m = step(t, m, tea.MouseMsg{X: 20, Y: 10, Type: tea.MouseRelease})

	layer, _ := m.doc.Layers.Text(ref.layerID())
	if layer.X != 130 || layer.Y != 130 {
		t.Errorf("text at (%v, %v), want (130, 130)", layer.X, layer.Y)
	}
	if got := m.doc.Drag.State(); got != DragSelectedIdle {
		t.Errorf("State() after release = %v, want selected", got)
	}

	m = step(t, m, tea.MouseMsg{X: 100, Y: 40, Type: tea.MouseLeft})
	if m.doc.Drag.Selection() != nil {
		t.Errorf("click on background left %v selected", m.doc.Drag.Selection())
	}
}

func TestModel_AlertDuringDragEndsDrag(t *testing.T) {
	m := newTestModel(t)
	m = step(t, m, runes("t"))
	id := m.doc.Drag.Selection().layerID()
	m.doc.Layers.UpdateText(id, TextPatch{Rotation: ptr(0.0)})

	m = step(t, m, tea.MouseMsg{X: 10, Y: 5, Type: tea.MouseLeft})
	m = step(t, m, generatedMsg{req: m.doc.GenerateRequest(), err: errors.New("quota")})
	if m.mode != ModeAlert {
		t.Fatalf("mode = %v, want alert", m.mode)
	}
	if got := m.doc.Drag.State(); got == DragDragging {
		t.Errorf("State() with alert open = %v, want drag ended", got)
	}
	m = step(t, m, tea.MouseMsg{X: 20, Y: 10, Type: tea.MouseRelease})
	m = step(t, m, runes(" "))

	m = step(t, m, tea.MouseMsg{X: 100, Y: 40, Type: tea.MouseLeft})
	if m.doc.Drag.Selection() != nil {
		t.Errorf("background click left %v selected", m.doc.Drag.Selection())
	}
	if layer, _ := m.doc.Layers.Text(id); layer.X != 50 || layer.Y != 50 {
		t.Errorf("text at (%v, %v), want (50, 50)", layer.X, layer.Y)
	}
}

func TestModel_ReleaseOutsideNormalMode(t *testing.T) {
	m := newTestModel(t)
	m = step(t, m, runes("t"))
	m.doc.Layers.UpdateText(m.doc.Drag.Selection().layerID(), TextPatch{Rotation: ptr(0.0)})

	m = step(t, m, tea.MouseMsg{X: 10, Y: 5, Type: tea.MouseLeft})
	m.mode = ModePrompt
	m = step(t, m, tea.MouseMsg{X: 10, Y: 5, Type: tea.MouseRelease})
	if got := m.doc.Drag.State(); got != DragSelectedIdle {
		t.Errorf("State() after release in prompt mode = %v, want selected", got)
	}

	m.mode = ModeNormal
	m = step(t, m, tea.MouseMsg{X: 10, Y: 5, Type: tea.MouseLeft})
	m = step(t, m, runes("?"))
	if got := m.doc.Drag.State(); got != DragSelectedIdle {
		t.Errorf("State() with help open = %v, want selected", got)
	}
}

func TestModel_NudgeSelected(t *testing.T) {
	m := newTestModel(t)
	m = step(t, m, runes("t"))
	id := m.doc.Drag.Selection().layerID()

	m = step(t, m, runes("l"))
	m = step(t, m, runes("J"))

	layer, _ := m.doc.Layers.Text(id)
	if layer.X != 50+charWidth || layer.Y != 50+4*charHeight {
		t.Errorf("text at (%v, %v), want (%v, %v)", layer.X, layer.Y, 50+charWidth, 50+4*charHeight)
	}
}

func TestModel_FieldInputEditsContent(t *testing.T) {
	m := newTestModel(t)
	m = step(t, m, runes("t"))
	id := m.doc.Drag.Selection().layerID()

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != ModeFieldInput || m.input != "NEW VIDEO" {
		t.Fatalf("mode %v input %q, want field input with content", m.mode, m.input)
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	m = step(t, m, runes("HELLO"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = step(t, m, runes("THERE"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != ModeNormal {
		t.Errorf("mode = %v, want normal", m.mode)
	}
	if layer, _ := m.doc.Layers.Text(id); layer.Content != "HELLO THERE" {
		t.Errorf("Content = %q, want HELLO THERE", layer.Content)
	}
}

func TestModel_FieldInputErrorStaysOpen(t *testing.T) {
	m := newTestModel(t)
	m = step(t, m, runes("t"))
	for i := 0; i < 4; i++ {
		m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	if label, _, _ := m.panel.Focused(m.doc); label != "Size" {
		t.Fatalf("focused %q, want Size", label)
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	m = step(t, m, runes("big"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != ModeFieldInput || m.errorMessage == "" {
		t.Errorf("mode %v error %q, want field input with an error", m.mode, m.errorMessage)
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != ModeNormal {
		t.Errorf("mode after esc = %v, want normal", m.mode)
	}
}

func TestModel_DeleteWithConfirmation(t *testing.T) {
	m := newTestModel(t)
	m = step(t, m, runes("t"))

	m = step(t, m, runes("x"))
	if m.mode != ModeConfirm || m.confirmAction != ConfirmDeleteLayer {
		t.Fatalf("mode %v action %v, want delete confirmation", m.mode, m.confirmAction)
	}
	m = step(t, m, runes("n"))
	if m.doc.Layers.Len() != 1 {
		t.Fatalf("n deleted the layer")
	}

	m = step(t, m, runes("x"))
	m = step(t, m, runes("y"))
	if m.doc.Layers.Len() != 0 || m.doc.Drag.Selection() != nil {
		t.Errorf("after y: %d layers, selection %v", m.doc.Layers.Len(), m.doc.Drag.Selection())
	}
}

func TestModel_GenerateRoundTrip(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(runes("g"))
	m = next.(model)
	if !m.doc.Generating || cmd == nil {
		t.Fatalf("g: Generating=%v cmd=%v, want generation started", m.doc.Generating, cmd != nil)
	}
	if got := m.doc.BackgroundState(); got != BackgroundLoading {
		t.Errorf("BackgroundState() = %v, want loading", got)
	}

	// a second g while in flight is ignored
	if _, again := m.Update(runes("g")); again != nil {
		t.Error("second g started another generation")
	}

	m = step(t, m, cmd())
	if m.doc.Generating {
		t.Error("Generating still set after completion")
	}
	if m.doc.Background == nil || len(m.doc.History) != 1 {
		t.Errorf("background %v, history %d, want one generation", m.doc.Background, len(m.doc.History))
	}
}

func TestModel_GenerateFailureAlerts(t *testing.T) {
	m := newTestModel(t)
	m.doc.Generating = true
	m = step(t, m, generatedMsg{req: m.doc.GenerateRequest(), err: errors.New("quota")})

	if m.doc.Generating {
		t.Error("Generating still set after failure")
	}
	if m.mode != ModeAlert || m.alert == "" {
		t.Fatalf("mode %v alert %q, want alert", m.mode, m.alert)
	}
	if m.doc.Background != nil {
		t.Error("failure set a background")
	}
	m = step(t, m, runes("z"))
	if m.mode != ModeNormal {
		t.Errorf("mode after dismiss = %v, want normal", m.mode)
	}
}

func TestModel_ImageSizeMessages(t *testing.T) {
	m := newTestModel(t)
	id := m.doc.AddImage(&Payload{Data: []byte{1}})

	m = step(t, m, imageSizeMsg{id: id, width: 400, height: 100})
	if img, _ := m.doc.Layers.Image(id); img.Height != 50 {
		t.Errorf("Height = %v, want 50", img.Height)
	}

	bad := m.doc.AddImage(&Payload{Data: []byte{1}})
	m = step(t, m, imageSizeMsg{id: bad, err: errors.New("bad image")})
	if m.doc.Layers.Contains(ImageRef(bad)) {
		t.Error("undecodable image layer kept")
	}
	if m.mode != ModeAlert {
		t.Errorf("mode = %v, want alert", m.mode)
	}
}

func TestModel_EnhanceFailureKeepsPrompt(t *testing.T) {
	m := newTestModel(t)
	m.enhancing = true
	m.doc.Prompt = "something else"
	m = step(t, m, enhancedMsg{raw: "raw idea", prompt: "raw idea", err: errors.New("offline")})

	if m.enhancing {
		t.Error("enhancing still set")
	}
	if m.doc.Prompt != "raw idea" {
		t.Errorf("Prompt = %q, want the raw prompt", m.doc.Prompt)
	}
}

func TestModel_RemoveBackgroundReplacesSource(t *testing.T) {
	m := newTestModel(t)
	id := m.doc.AddImage(&Payload{Data: []byte{1}})
	m.doc.Layers.UpdateImage(id, ImagePatch{X: ptr(12.0)})
	cutout := &Payload{MIME: "image/png", Data: []byte{2}}
	m.removingBackground = true

	m = step(t, m, backgroundRemovedMsg{id: id, payload: cutout})
	img, _ := m.doc.Layers.Image(id)
	if img.Src != cutout || img.X != 12 {
		t.Errorf("image = %+v, want new source at the same position", img)
	}
	if m.removingBackground {
		t.Error("removingBackground still set")
	}
}

func TestModel_InputEditing(t *testing.T) {
	m := newTestModel(t)
	m.beginInput(ModePrompt, "Prompt", "héllo")

	m.editInput(tea.KeyMsg{Type: tea.KeyLeft})
	m.editInput(tea.KeyMsg{Type: tea.KeyBackspace})
	m.editInput(runes("L"))
	if m.input != "hélLo" || m.inputCursorPos != 4 {
		t.Errorf("input %q cursor %d, want hélLo at 4", m.input, m.inputCursorPos)
	}
	m.editInput(tea.KeyMsg{Type: tea.KeyHome})
	m.editInput(tea.KeyMsg{Type: tea.KeyDelete})
	if m.input != "élLo" || m.inputCursorPos != 0 {
		t.Errorf("input %q cursor %d, want élLo at 0", m.input, m.inputCursorPos)
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.doc.Prompt != "élLo" || m.mode != ModeNormal {
		t.Errorf("Prompt %q mode %v after enter", m.doc.Prompt, m.mode)
	}
}

func TestModel_NewTextWithNewline(t *testing.T) {
	m := newTestModel(t)
	m = step(t, m, runes("n"))
	m = step(t, m, runes("TOP"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	m = step(t, m, runes("BOTTOM"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	got, ok := m.doc.SelectedText()
	if !ok || got.Content != "TOP\nBOTTOM" {
		t.Errorf("SelectedText() = %q, %v, want two lines", got.Content, ok)
	}
}

func TestModel_AITextToggle(t *testing.T) {
	m := newTestModel(t)
	m = step(t, m, runes("a"))
	m = step(t, m, runes("WOW"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.doc.AIText != "WOW" || !m.doc.IncludeTextInAI {
		t.Errorf("AIText %q include %v", m.doc.AIText, m.doc.IncludeTextInAI)
	}
	m = step(t, m, runes("A"))
	if m.doc.IncludeTextInAI {
		t.Error("A did not toggle IncludeTextInAI")
	}
}

func TestModel_StyleCycling(t *testing.T) {
	m := newTestModel(t)
	start := m.doc.Style
	m = step(t, m, runes("y"))
	if m.doc.Style == start {
		t.Error("y did not change the style")
	}
	m = step(t, m, runes("Y"))
	if m.doc.Style != start {
		t.Errorf("Style = %q, want %q", m.doc.Style, start)
	}
}

func TestModel_ReferenceNeedsBackground(t *testing.T) {
	m := newTestModel(t)
	m = step(t, m, runes("r"))
	if m.doc.UseReference || m.errorMessage == "" {
		t.Errorf("UseReference %v error %q, want refusal", m.doc.UseReference, m.errorMessage)
	}
}

func TestModel_HistoryRestore(t *testing.T) {
	m := newTestModel(t)
	m.config.Confirmations = false
	old := &Payload{MIME: "image/png", Data: []byte{1}}
	m.doc.FinishGeneration(old, GenerateRequest{Prompt: "old", Style: StyleRetro})
	m.doc.FinishGeneration(&Payload{Data: []byte{2}}, GenerateRequest{Prompt: "new"})
	m.doc.AddText("layer")

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = step(t, m, runes("v"))
	if m.mode != ModeHistory {
		t.Fatalf("mode = %v, want history", m.mode)
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.doc.Background != old || m.doc.Prompt != "old" || m.doc.Layers.Len() != 0 {
		t.Errorf("restore: background %v prompt %q layers %d", m.doc.Background, m.doc.Prompt, m.doc.Layers.Len())
	}
}

func TestModel_ViewRenders(t *testing.T) {
	m := newTestModel(t)
	m = step(t, m, runes("t"))
	if got := m.View(); got == "" {
		t.Error("View() is empty")
	}
	m = step(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	if got := m.View(); got == "" {
		t.Error("View() in a small terminal is empty")
	}
	m = step(t, m, runes("?"))
	if !m.help {
		t.Error("? did not open help")
	}
}
