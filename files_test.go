package main

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestListImageFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.PNG", "a.jpg", "notes.txt", "c.webp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "d.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got := listImageFiles(dir)
	want := []string{"a.jpg", "b.PNG", "c.webp"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("listImageFiles() = %v, want %v", got, want)
	}
	if got := listImageFiles(filepath.Join(dir, "missing")); got != nil {
		t.Errorf("listImageFiles(missing) = %v, want nil", got)
	}
}

func TestReadImageFile(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.png")
	os.WriteFile(empty, nil, 0o644)

	if _, err := readImageFile(empty); !errors.Is(err, errEmptyPayload) {
		t.Errorf("readImageFile(empty) error = %v, want errEmptyPayload", err)
	}
	if _, err := readImageFile(filepath.Join(dir, "nope.png")); err == nil {
		t.Error("readImageFile(missing) error = nil")
	}
}

func TestResolveImportPath(t *testing.T) {
	m := newTestModel(t)
	dir := m.config.SaveDirectory
	if got := m.resolveImportPath("cat.png"); got != filepath.Join(dir, "cat.png") {
		t.Errorf("resolveImportPath(cat.png) = %q", got)
	}
	abs := filepath.Join(t.TempDir(), "x.png")
	if got := m.resolveImportPath(abs); got != abs {
		t.Errorf("resolveImportPath(%q) = %q", abs, got)
	}
}

func TestImportLayerFlow(t *testing.T) {
	m := newTestModel(t)
	logo := solidPNG(t, 40, 20, color.NRGBA{255, 255, 255, 255})
	if err := os.WriteFile(filepath.Join(m.config.SaveDirectory, "logo.png"), logo.Data, 0o644); err != nil {
		t.Fatal(err)
	}

	m = step(t, m, runes("i"))
	if m.mode != ModeFileInput || m.filename != "logo.png" {
		t.Fatalf("mode %v filename %q, want picker on logo.png", m.mode, m.filename)
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	if cmd == nil {
		t.Fatal("enter returned no read command")
	}

	next, cmd = m.Update(cmd())
	m = next.(model)
	img, ok := m.doc.SelectedImage()
	if !ok {
		t.Fatal("imported image is not selected")
	}
	if cmd == nil {
		t.Fatal("no size command after import")
	}
	m = step(t, m, cmd())
	img, _ = m.doc.Layers.Image(img.ID)
	if img.Width != 200 || img.Height != 100 {
		t.Errorf("imported layer = %vx%v, want 200x100", img.Width, img.Height)
	}
}

func TestOpenBackgroundFlow(t *testing.T) {
	m := newTestModel(t)
	bg := solidPNG(t, 32, 18, color.NRGBA{255, 255, 255, 255})
	path := filepath.Join(m.config.SaveDirectory, "bg.png")
	os.WriteFile(path, bg.Data, 0o644)

	m = step(t, m, fileReadMsg{op: FileOpOpenBackground, path: path, payload: NewPayload(bg.Data)})
	if m.doc.Background == nil || !m.doc.UseReference {
		t.Errorf("background %v reference %v, want uploaded reference", m.doc.Background, m.doc.UseReference)
	}

	m = step(t, m, fileReadMsg{op: FileOpOpenBackground, path: path, payload: &Payload{Data: []byte("junk")}})
	if m.mode != ModeAlert {
		t.Errorf("mode = %v, want alert for an unreadable background", m.mode)
	}
}
