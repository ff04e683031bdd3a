package main

import tea "github.com/charmbracelet/bubbletea"

// handleNavigation nudges the selected layer by whole terminal cells.
func (m *model) handleNavigation(key string, speed int) (tea.Model, tea.Cmd) {
	ref := m.doc.Drag.Selection()
	if ref == nil {
		return *m, nil
	}
	pos, ok := m.doc.Layers.Position(ref)
	if !ok {
		return *m, nil
	}
	step := float64(speed)
	switch key {
	case "h", "H":
		pos.X -= step * charWidth
	case "l", "L":
		pos.X += step * charWidth
	case "k", "K":
		pos.Y -= step * charHeight
	case "j", "J":
		pos.Y += step * charHeight
	default:
		return *m, nil
	}
	m.doc.Layers.Move(ref, pos)
	return *m, nil
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J":
		return 4
	default:
		return 1
	}
}
