package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Panel is the editor column next to the preview. It shows the controls of
// the selected layer, or the generation settings when nothing is selected.
type Panel struct {
	text  []textControl
	image []imageControl
	focus int
}

func NewPanel(fonts *FontRegistry) *Panel {
	return &Panel{
		text:  newTextControls(fonts),
		image: newImageControls(),
	}
}

// Len is the number of controls for the current selection.
func (p *Panel) Len(doc *Document) int {
	switch doc.Drag.Selection().(type) {
	case TextRef:
		return len(p.text)
	case ImageRef:
		return len(p.image)
	}
	return 0
}

func (p *Panel) Focus() int { return p.focus }

func (p *Panel) ResetFocus() { p.focus = 0 }

func (p *Panel) MoveFocus(doc *Document, delta int) {
	n := p.Len(doc)
	if n == 0 {
		p.focus = 0
		return
	}
	p.focus = ((p.focus+delta)%n + n) % n
}

func (p *Panel) clampFocus(doc *Document) {
	if n := p.Len(doc); p.focus >= n {
		p.focus = 0
	}
}

// Step adjusts the focused control of the selected layer.
func (p *Panel) Step(doc *Document, delta int) bool {
	p.clampFocus(doc)
	if t, ok := doc.SelectedText(); ok {
		patch, ok := p.text[p.focus].Step(t, delta)
		return ok && doc.Layers.UpdateText(t.ID, patch)
	}
	if img, ok := doc.SelectedImage(); ok {
		patch, ok := p.image[p.focus].Step(img, delta)
		return ok && doc.Layers.UpdateImage(img.ID, patch)
	}
	return false
}

// Set applies typed input to the focused control.
func (p *Panel) Set(doc *Document, input string) error {
	p.clampFocus(doc)
	if t, ok := doc.SelectedText(); ok {
		patch, err := p.text[p.focus].Set(t, input)
		if err != nil {
			return err
		}
		doc.Layers.UpdateText(t.ID, patch)
		return nil
	}
	if img, ok := doc.SelectedImage(); ok {
		patch, err := p.image[p.focus].Set(img, input)
		if err != nil {
			return err
		}
		doc.Layers.UpdateImage(img.ID, patch)
		return nil
	}
	return fmt.Errorf("nothing selected")
}

// Focused returns the label and raw value of the focused control, for use
// as the initial contents of the field input.
func (p *Panel) Focused(doc *Document) (label, value string, editable bool) {
	p.clampFocus(doc)
	if t, ok := doc.SelectedText(); ok {
		c := p.text[p.focus]
		value = c.value(t)
		if c.label == "Content" {
			value = strings.ReplaceAll(t.Content, "\n", `\n`)
		}
		return c.label, value, c.set != nil && !c.Disabled(t)
	}
	if img, ok := doc.SelectedImage(); ok {
		c := p.image[p.focus]
		return c.label, c.value(img), c.set != nil && !c.Disabled(img)
	}
	return "", "", false
}

type panelRow struct {
	label    string
	value    string
	disabled bool
}

var (
	panelAccent = lipgloss.Color("62")
	panelMuted  = lipgloss.Color("241")
	panelDim    = lipgloss.Color("239")
)

// View renders the panel into a width×height block.
func (p *Panel) View(doc *Document, width, height int, busy string) string {
	if width < 4 || height < 3 {
		return ""
	}
	inner := width - 4

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	labelStyle := lipgloss.NewStyle().Foreground(panelMuted)
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	disabledStyle := lipgloss.NewStyle().Foreground(panelDim)
	helpStyle := lipgloss.NewStyle().Foreground(panelMuted)

	p.clampFocus(doc)
	var title string
	var rows []panelRow
	var help []string
	switch ref := doc.Drag.Selection().(type) {
	case TextRef:
		title = "EDIT TEXT"
		t, _ := doc.Layers.Text(string(ref))
		for _, c := range p.text {
			rows = append(rows, panelRow{c.label, c.value(t), c.Disabled(t)})
		}
		help = []string{"tab/⇧tab focus", "←/→ adjust", "enter type", "x delete", "esc close"}
	case ImageRef:
		title = "EDIT IMAGE"
		img, _ := doc.Layers.Image(string(ref))
		for _, c := range p.image {
			rows = append(rows, panelRow{c.label, c.value(img), c.Disabled(img)})
		}
		help = []string{"tab/⇧tab focus", "←/→ adjust", "enter type", "R remove bg", "x delete", "esc close"}
	default:
		title = "THUMBNAIL"
		rows = p.settingsRows(doc)
		help = []string{"p prompt", "E enhance", "y style", "g generate", "a ai text", "r reference", "t text", "i image", "o background", "v history", "S export", "? help"}
	}

	lines := []string{titleStyle.Render(title), ""}
	labelWidth := 14
	for i, row := range rows {
		value := runewidth.Truncate(row.value, max(1, inner-labelWidth-2), "…")
		label := runewidth.FillRight(row.label, labelWidth)
		switch {
		case doc.Drag.Selection() != nil && i == p.focus:
			lines = append(lines, focusStyle.Render("› "+label+value))
		case row.disabled:
			lines = append(lines, disabledStyle.Render("  "+label+value))
		default:
			lines = append(lines, "  "+labelStyle.Render(label)+value)
		}
	}
	if busy != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(colorSpinnerTerm).Bold(true).Render(busy))
	}
	lines = append(lines, "")
	lines = append(lines, wrapHelp(help, inner, helpStyle)...)

	if len(lines) > height-2 {
		lines = lines[:height-2]
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(panelAccent).
		Padding(0, 1).
		Width(width - 2).
		Height(height - 2).
		Render(strings.Join(lines, "\n"))
}

var colorSpinnerTerm = lipgloss.Color("203")

func (p *Panel) settingsRows(doc *Document) []panelRow {
	state := "empty"
	switch doc.BackgroundState() {
	case BackgroundLoading:
		state = "generating"
	case BackgroundPopulated:
		state = "ready"
	}
	aiText := doc.AIText
	if aiText == "" {
		aiText = "-"
	}
	return []panelRow{
		{"Prompt", doc.Prompt, false},
		{"Style", string(doc.Style), false},
		{"Text in AI", onOff(doc.IncludeTextInAI), false},
		{"AI text", aiText, !doc.IncludeTextInAI},
		{"Reference", onOff(doc.UseReference && doc.Background != nil), doc.Background == nil},
		{"Background", state, false},
		{"Layers", fmt.Sprintf("%d text, %d image", len(doc.Layers.Texts()), len(doc.Layers.Images())), false},
		{"History", fmt.Sprintf("%d", len(doc.History)), false},
	}
}

// wrapHelp packs key hints into lines no wider than width.
func wrapHelp(items []string, width int, style lipgloss.Style) []string {
	var lines []string
	var cur string
	for _, item := range items {
		switch {
		case cur == "":
			cur = item
		case runewidth.StringWidth(cur)+3+runewidth.StringWidth(item) <= width:
			cur += " • " + item
		default:
			lines = append(lines, style.Render(cur))
			cur = item
		}
	}
	if cur != "" {
		lines = append(lines, style.Render(cur))
	}
	return lines
}
