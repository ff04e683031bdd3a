package main

import "testing"

func TestDragController_KeepsPointerOffset(t *testing.T) {
	s := NewLayerStore()
	a := newTestText("a")
	a.X, a.Y = 50, 50
	b := newTestText("b")
	b.X, b.Y = 300, 300
	s.AddText(a)
	s.AddText(b)
	d := NewDragController(s)

	d.PointerDown(TextRef("a"), point{60, 70})
	if got := d.State(); got != DragDragging {
		t.Fatalf("State() = %v, want dragging", got)
	}
	d.PointerMove(point{160, 170})
	d.PointerUp()

	got, _ := s.Text("a")
	if got.X != 150 || got.Y != 150 {
		t.Errorf("a at (%v, %v), want (150, 150)", got.X, got.Y)
	}
	if other, _ := s.Text("b"); other.X != 300 || other.Y != 300 {
		t.Errorf("b at (%v, %v), want (300, 300)", other.X, other.Y)
	}
	if st := d.State(); st != DragSelectedIdle {
		t.Errorf("State() after PointerUp = %v, want selected", st)
	}
	if !d.IsSelected(TextRef("a")) {
		t.Error("selection lost after PointerUp")
	}
}

func TestDragController_MoveWithoutDragIsIgnored(t *testing.T) {
	s := NewLayerStore()
	s.AddImage(ImageLayer{ID: "1", X: 10, Y: 10, Width: 50, Height: 50})
	d := NewDragController(s)

	d.Select(ImageRef("1"))
	if d.PointerMove(point{500, 500}) {
		t.Error("PointerMove() without drag = true, want false")
	}
	if got, _ := s.Image("1"); got.X != 10 || got.Y != 10 {
		t.Errorf("image at (%v, %v), want (10, 10)", got.X, got.Y)
	}
}

func TestDragController_BackgroundDownClears(t *testing.T) {
	s := NewLayerStore()
	s.AddText(newTestText("1"))
	d := NewDragController(s)
	d.PointerDown(TextRef("1"), point{55, 55})

	d.BackgroundDown()

	if d.Selection() != nil {
		t.Errorf("Selection() = %v, want nil", d.Selection())
	}
	if got := d.State(); got != DragIdle {
		t.Errorf("State() = %v, want idle", got)
	}
}

func TestDragController_PointerDownOnMissingLayer(t *testing.T) {
	d := NewDragController(NewLayerStore())
	d.PointerDown(TextRef("ghost"), point{1, 1})
	if d.Selection() != nil || d.State() != DragIdle {
		t.Errorf("PointerDown(missing) selected %v in state %v", d.Selection(), d.State())
	}
}

func TestDragController_Delete(t *testing.T) {
	s := NewLayerStore()
	s.AddText(newTestText("1"))
	s.AddImage(ImageLayer{ID: "1"})
	d := NewDragController(s)

	if d.Delete() {
		t.Error("Delete() with no selection = true, want false")
	}
	d.Select(ImageRef("1"))
	if !d.Delete() {
		t.Error("Delete() = false, want true")
	}
	if s.Contains(ImageRef("1")) {
		t.Error("image 1 still present")
	}
	if !s.Contains(TextRef("1")) {
		t.Error("text 1 removed along with image 1")
	}
	if d.Selection() != nil {
		t.Errorf("Selection() = %v, want nil", d.Selection())
	}
}

func TestSameRef(t *testing.T) {
	tests := []struct {
		a, b LayerRef
		want bool
	}{
		{nil, nil, true},
		{TextRef("1"), nil, false},
		{TextRef("1"), TextRef("1"), true},
		{TextRef("1"), ImageRef("1"), false},
		{ImageRef("1"), ImageRef("2"), false},
	}
	for _, tt := range tests {
		if got := sameRef(tt.a, tt.b); got != tt.want {
			t.Errorf("sameRef(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
