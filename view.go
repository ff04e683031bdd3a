package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var helpLines = []string{
	"ThumbGen Help",
	"=============",
	"",
	"Canvas:",
	"-------",
	"  click            Select the layer under the pointer (click background to deselect)",
	"  drag             Move the selected layer",
	"  h/j/k/l          Nudge the selected layer one cell",
	"  H/J/K/L          Nudge the selected layer four cells",
	"",
	"Layers:",
	"-------",
	"  t                Add a \"NEW VIDEO\" text layer",
	"  n                Add a text layer with typed content (Alt+Enter = newline)",
	"  P/Ctrl+V         Add a text layer from the clipboard",
	"  i                Import an image layer",
	"  x/Del            Delete the selected layer",
	"  R                Remove the background of the selected image",
	"  Esc              Close the editor (clear selection)",
	"",
	"Editor panel:",
	"-------------",
	"  Tab/↓            Next control",
	"  Shift+Tab/↑      Previous control",
	"  ←/→              Adjust the focused control (Shift = 5x)",
	"  Enter            Type a value for the focused control",
	"",
	"Background:",
	"-----------",
	"  p                Edit the prompt",
	"  E                Enhance the prompt",
	"  y/Y              Next/previous style",
	"  a                Text the image should contain",
	"  A                Toggle text in the generated image",
	"  o                Open a background image (turns reference mode on)",
	"  r                Toggle using the background as reference",
	"  g                Generate a background",
	"  v                Browse generated backgrounds",
	"",
	"Export:",
	"-------",
	"  S                Export the thumbnail as PNG",
	"  B                Export the background only",
	"  T                Export the preview as text",
	"",
	"General:",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	alertStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(1, 2)
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}
	if m.width < 1 || m.height < 1 {
		return "loading..."
	}
	l := m.layout()
	if l.cols < 8 || l.rows < 3 {
		return fmt.Sprintf("Terminal too small (%dx%d). Widen it to at least %d columns.", m.width, m.height, panelWidth+16)
	}
	bodyHeight := m.height - 1
	leftWidth := m.width - panelWidth

	var left string
	switch {
	case m.mode == ModeFileInput && m.isOpenOp():
		left = m.fileListView(leftWidth, bodyHeight)
	case m.mode == ModeHistory:
		left = m.historyView(leftWidth, bodyHeight)
	default:
		img := m.composer.Render(m.doc, RenderOptions{Scale: 1, ShowSelection: true})
		left = strings.Join(previewLines(img, l.cols, l.rows), "\n")
	}
	left = lipgloss.NewStyle().Width(leftWidth).Height(bodyHeight).MaxHeight(bodyHeight).Render(left)
	panel := m.panel.View(m.doc, panelWidth, bodyHeight, m.busy())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, panel)

	if m.mode == ModeAlert {
		box := alertStyle.Width(min(60, m.width-4)).Render(m.alert + "\n\n" + lipgloss.NewStyle().Foreground(panelMuted).Render("press any key"))
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, box)
	}
	return body + "\n" + statusStyle.Width(m.width).MaxWidth(m.width).Render(m.statusLine())
}

func (m model) busy() string {
	switch {
	case m.doc.Generating:
		return "CREATING MAGIC..."
	case m.enhancing:
		return "Enhancing prompt..."
	case m.removingBackground:
		return "Removing background..."
	}
	return ""
}

func inputWithCursor(text string, pos int) string {
	runes := []rune(strings.ReplaceAll(text, "\n", "⏎"))
	pos = min(max(pos, 0), len(runes))
	if pos >= len(runes) {
		return string(runes) + "█"
	}
	runes[pos] = '█'
	return string(runes)
}

func (m model) statusLine() string {
	switch m.mode {
	case ModeTextInput, ModePrompt, ModeAIText, ModeFieldInput:
		hint := "Enter=save, Esc=cancel"
		if m.mode == ModeTextInput {
			hint = "Alt+Enter=newline, Enter=add, Esc=cancel"
		}
		status := fmt.Sprintf("Mode: %s | %s: %s | %s", m.modeString(), m.inputLabel, inputWithCursor(m.input, m.inputCursorPos), hint)
		if m.errorMessage != "" {
			status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
		}
		return status
	case ModeFileInput:
		var opStr string
		switch m.fileOp {
		case FileOpExportPNG:
			opStr = "Export PNG"
		case FileOpExportBackground:
			opStr = "Export background"
		case FileOpSaveVisualTXT:
			opStr = "Export TXT"
		case FileOpOpenBackground:
			opStr = "Open background"
		case FileOpOpenLayer:
			opStr = "Import image"
		}
		hint := "Enter=confirm, Esc=cancel"
		if m.isOpenOp() {
			hint = "↑/↓=navigate list, Type=enter name, Enter=confirm, Esc=cancel"
		}
		if m.errorMessage != "" {
			return fmt.Sprintf("Mode: FILE | ERROR: %s | %s filename: %s | %s", m.errorMessage, opStr, m.filename, hint)
		}
		return fmt.Sprintf("Mode: FILE | %s filename: %s█ | %s", opStr, m.filename, hint)
	case ModeHistory:
		return "Mode: HISTORY | ↑/↓=select, Enter=restore, Esc=back"
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmDeleteLayer:
			message = fmt.Sprintf("Delete this %s layer? (y/n)", refKind(m.doc.Drag.Selection()))
		case ConfirmQuit:
			message = "Quit ThumbGen? Unsaved work will be lost. (y/n)"
		case ConfirmRestoreHistory:
			message = "Restore this background? Current layers will be cleared. (y/n)"
		case ConfirmOverwriteFile:
			message = fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.pendingPath)
		}
		return fmt.Sprintf("Mode: CONFIRM | %s", message)
	case ModeAlert:
		return "Mode: ALERT | press any key"
	}

	status := fmt.Sprintf("Mode: %s | %s | %s", m.modeString(), m.doc.Style, m.doc.Drag.State())
	if ref := m.doc.Drag.Selection(); ref != nil {
		status += fmt.Sprintf(" | Selected: %s", refKind(ref))
	}
	if m.successMessage != "" {
		status += " | " + m.successMessage
	}
	if m.errorMessage != "" {
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	} else if m.successMessage == "" {
		status += " | ? for help | q to quit"
	}
	return status
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeTextInput:
		return "TEXT"
	case ModePrompt:
		return "PROMPT"
	case ModeAIText:
		return "AI TEXT"
	case ModeFieldInput:
		return "EDIT"
	case ModeFileInput:
		return "FILE"
	case ModeHistory:
		return "HISTORY"
	case ModeConfirm:
		return "CONFIRM"
	case ModeAlert:
		return "ALERT"
	default:
		return "UNKNOWN"
	}
}

func (m model) fileListView(width, height int) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("Select an image in %s:\n", m.importDirectory()))
	result.WriteString(strings.Repeat("─", width))
	result.WriteString("\n")
	if len(m.fileList) == 0 {
		result.WriteString("(No image files found)\n")
		return result.String()
	}
	maxFiles := max(1, height-3)
	startIdx := 0
	if m.selectedFileIndex >= maxFiles {
		startIdx = m.selectedFileIndex - maxFiles + 1
	}
	endIdx := min(len(m.fileList), startIdx+maxFiles)
	for i := startIdx; i < endIdx; i++ {
		if i == m.selectedFileIndex {
			result.WriteString("> " + m.fileList[i] + " <")
		} else {
			result.WriteString("  " + m.fileList[i])
		}
		result.WriteString("\n")
	}
	return result.String()
}

func (m model) historyView(width, height int) string {
	var result strings.Builder
	result.WriteString("Generated backgrounds (newest first):\n")
	result.WriteString(strings.Repeat("─", width))
	result.WriteString("\n")
	maxItems := max(1, height-3)
	startIdx := 0
	if m.historyIndex >= maxItems {
		startIdx = m.historyIndex - maxItems + 1
	}
	for i := startIdx; i < min(len(m.doc.History), startIdx+maxItems); i++ {
		entry := m.doc.History[i]
		line := fmt.Sprintf("%s  %-22s %s", entry.Timestamp.Format("15:04:05"), entry.Style, entry.Prompt)
		if i == m.historyIndex {
			line = "> " + line
		} else {
			line = "  " + line
		}
		result.WriteString(lipgloss.NewStyle().MaxWidth(width).Render(line))
		result.WriteString("\n")
	}
	return result.String()
}

func (m model) helpView() string {
	visibleHeight := max(1, m.height-1)
	startLine := m.helpScroll
	if startLine >= len(helpLines) {
		startLine = max(0, len(helpLines)-visibleHeight)
	}
	endLine := min(len(helpLines), startLine+visibleHeight)

	result := strings.Join(helpLines[startLine:endLine], "\n")
	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result + "\n" + statusLine
}
