package main

type DragState int

const (
	DragIdle DragState = iota
	DragSelectedIdle
	DragDragging
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragSelectedIdle:
		return "selected"
	case DragDragging:
		return "dragging"
	}
	return "unknown"
}

type point struct {
	X, Y float64
}

// DragController tracks the selected layer and translates it while the
// pointer is held. It writes positions through the LayerStore only.
type DragController struct {
	store    *LayerStore
	selected LayerRef
	dragging bool
	offset   point
}

func NewDragController(store *LayerStore) *DragController {
	return &DragController{store: store}
}

func (d *DragController) State() DragState {
	switch {
	case d.dragging:
		return DragDragging
	case d.selected != nil:
		return DragSelectedIdle
	}
	return DragIdle
}

func (d *DragController) Selection() LayerRef {
	return d.selected
}

func (d *DragController) IsSelected(ref LayerRef) bool {
	return d.selected != nil && sameRef(d.selected, ref)
}

// PointerDown selects ref and starts dragging it. The offset between the
// pointer and the layer origin is kept so the layer does not jump to the
// pointer.
func (d *DragController) PointerDown(ref LayerRef, pointer point) {
	pos, ok := d.store.Position(ref)
	if !ok {
		return
	}
	d.selected = ref
	d.dragging = true
	d.offset = point{pointer.X - pos.X, pointer.Y - pos.Y}
}

// BackgroundDown clears the selection.
func (d *DragController) BackgroundDown() {
	d.selected = nil
	d.dragging = false
}

// PointerMove moves the dragged layer to pointer minus the stored offset.
// It reports whether a layer was moved.
func (d *DragController) PointerMove(pointer point) bool {
	if !d.dragging || d.selected == nil {
		return false
	}
	return d.store.Move(d.selected, point{pointer.X - d.offset.X, pointer.Y - d.offset.Y})
}

// PointerUp ends a drag; the selection stays.
func (d *DragController) PointerUp() {
	d.dragging = false
}

func (d *DragController) Select(ref LayerRef) {
	d.selected = ref
	d.dragging = false
}

func (d *DragController) Clear() {
	d.selected = nil
	d.dragging = false
}

// Delete removes the selected layer and clears the selection.
func (d *DragController) Delete() bool {
	if d.selected == nil {
		return false
	}
	removed := d.store.Remove(d.selected)
	d.Clear()
	return removed
}

// Forget clears the selection if it points at ref.
func (d *DragController) Forget(ref LayerRef) {
	if d.IsSelected(ref) {
		d.Clear()
	}
}
