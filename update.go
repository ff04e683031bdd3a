package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// layout fits the largest 16:9 canvas into the space left of the panel.
func (m model) layout() canvasLayout {
	availCols := m.width - panelWidth
	availRows := m.height - 1
	if availCols < 1 || availRows < 1 {
		return canvasLayout{}
	}
	cols := availCols
	rows := int(math.Round(float64(cols) * charWidth * aspectRatioH / aspectRatioW / charHeight))
	if rows > availRows {
		rows = availRows
		cols = min(availCols, int(float64(rows)*charHeight*aspectRatioW/aspectRatioH/charWidth))
	}
	rows = max(rows, 1)
	w := float64(cols) * charWidth
	return canvasLayout{
		cols:     cols,
		rows:     rows,
		viewport: Viewport{Width: w, Height: w * aspectRatioH / aspectRatioW},
	}
}

// cellToCanvas maps a terminal cell to the canvas pixel at its center.
func (l canvasLayout) cellToCanvas(x, y int) point {
	if l.cols == 0 || l.rows == 0 {
		return point{}
	}
	return point{
		X: (float64(x) + 0.5) * l.viewport.Width / float64(l.cols),
		Y: (float64(y) + 0.5) * l.viewport.Height / float64(l.rows),
	}
}

func (l canvasLayout) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.cols && y < l.rows
}

func (m *model) observeViewport() {
	l := m.layout()
	m.doc.Observe(l.viewport.Width, l.viewport.Height)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	// A drag never outlives normal mode.
	if nm, ok := next.(model); ok && (nm.mode != ModeNormal || nm.help) {
		nm.doc.Drag.PointerUp()
	}
	return next, cmd
}

func (m model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.observeViewport()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case fileReadMsg:
		return m.handleFileRead(msg)

	case imageSizeMsg:
		if msg.err != nil {
			Logger().Warn("image layer not decodable", "id", msg.id, "err", msg.err)
			m.doc.Remove(ImageRef(msg.id))
			m.showAlert(fmt.Sprintf("Could not read that image: %v", msg.err))
			return m, nil
		}
		m.doc.ResolveImageSize(msg.id, msg.width, msg.height)
		return m, nil

	case generatedMsg:
		m.doc.Generating = false
		if msg.err != nil {
			Logger().Error("thumbnail generation failed", "style", msg.req.Style, "err", msg.err)
			m.showAlert("Failed to generate image. Please try again or check API key.\n\n" + msg.err.Error())
			return m, nil
		}
		m.doc.FinishGeneration(msg.payload, msg.req)
		Logger().Info("thumbnail generated", "style", msg.req.Style, "bytes", len(msg.payload.Data))
		m.successMessage = "Background generated"
		m.errorMessage = ""
		return m, nil

	case enhancedMsg:
		m.enhancing = false
		if msg.err != nil {
			Logger().Warn("prompt enhancement failed, keeping prompt", "err", msg.err)
			m.doc.Prompt = msg.raw
			m.errorMessage = "Could not enhance prompt"
			return m, nil
		}
		m.doc.Prompt = msg.prompt
		m.successMessage = "Prompt enhanced"
		return m, nil

	case backgroundRemovedMsg:
		m.removingBackground = false
		if msg.err != nil {
			Logger().Error("background removal failed", "id", msg.id, "err", msg.err)
			m.showAlert("Failed to remove background. Try again.\n\n" + msg.err.Error())
			return m, nil
		}
		if m.doc.ReplaceImageSource(msg.id, msg.payload) {
			m.successMessage = "Background removed"
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) showAlert(text string) {
	m.alert = text
	m.mode = ModeAlert
}

// handleMouse drives the drag controller. While a drag is active any press
// or motion report is a move, so drags continue over the panel.
func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.MouseRelease {
		m.doc.Drag.PointerUp()
		return m, nil
	}
	if m.mode != ModeNormal || m.help {
		return m, nil
	}
	l := m.layout()
	p := l.cellToCanvas(msg.X, msg.Y)
	drag := m.doc.Drag
	switch msg.Type {
	case tea.MouseLeft:
		if drag.State() == DragDragging {
			drag.PointerMove(p)
			return m, nil
		}
		if !l.inside(msg.X, msg.Y) {
			return m, nil
		}
		ref := m.composer.HitTest(m.doc, p)
		if ref == nil {
			drag.BackgroundDown()
			m.panel.ResetFocus()
			return m, nil
		}
		if !sameRef(ref, drag.Selection()) {
			m.panel.ResetFocus()
		}
		drag.PointerDown(ref, p)
	case tea.MouseMotion:
		drag.PointerMove(p)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.help {
		return m.handleHelpKey(msg)
	}
	switch m.mode {
	case ModeAlert:
		m.alert = ""
		m.mode = ModeNormal
		return m, nil
	case ModeTextInput, ModePrompt, ModeAIText, ModeFieldInput:
		return m.handleInputKey(msg)
	case ModeFileInput:
		return m.handleFileKey(msg)
	case ModeHistory:
		return m.handleHistoryKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	doc := m.doc
	key := msg.String()
	if key != "?" {
		m.successMessage = ""
	}

	switch key {
	case "ctrl+c", "q":
		if !m.config.Confirmations {
			return m, tea.Quit
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmQuit
		return m, nil
	case "?":
		m.help = true
		m.helpScroll = 0
		return m, nil
	case "esc":
		if doc.Drag.Selection() != nil {
			doc.Drag.Clear()
			m.panel.ResetFocus()
		}
		m.errorMessage = ""
		return m, nil

	case "t":
		doc.AddText(defaultOverlayText)
		m.panel.ResetFocus()
		return m, nil
	case "n":
		m.beginInput(ModeTextInput, "New text", "")
		return m, nil
	case "ctrl+v", "P":
		text, err := readClipboardText()
		if err != nil {
			m.errorMessage = fmt.Sprintf("Clipboard: %v", err)
			return m, nil
		}
		text = cleanClipboardText(text)
		if text == "" {
			m.errorMessage = "Clipboard is empty"
			return m, nil
		}
		doc.AddText(text)
		m.panel.ResetFocus()
		return m, nil
	case "i":
		m.beginFileInput(FileOpOpenLayer)
		return m, nil
	case "o":
		m.beginFileInput(FileOpOpenBackground)
		return m, nil

	case "p":
		m.beginInput(ModePrompt, "Prompt", doc.Prompt)
		return m, nil
	case "a":
		m.beginInput(ModeAIText, "Text in image", doc.AIText)
		return m, nil
	case "A":
		doc.IncludeTextInAI = !doc.IncludeTextInAI
		return m, nil
	case "y":
		doc.Style = nextStyle(doc.Style)
		return m, nil
	case "Y":
		doc.Style = prevStyle(doc.Style)
		return m, nil
	case "r":
		if doc.Background == nil {
			m.errorMessage = "No background to use as reference"
			return m, nil
		}
		doc.UseReference = !doc.UseReference
		return m, nil
	case "E":
		if m.enhancing || strings.TrimSpace(doc.Prompt) == "" {
			return m, nil
		}
		m.enhancing = true
		return m, enhanceCmd(m.studio, doc.Prompt, m.config.Timeout)
	case "g":
		if doc.Generating {
			return m, nil
		}
		req := doc.GenerateRequest()
		doc.Generating = true
		Logger().Info("generating thumbnail", "style", req.Style, "reference", req.Reference != nil)
		return m, generateCmd(m.studio, req, m.config.Timeout)
	case "v":
		if len(doc.History) == 0 {
			m.errorMessage = "No history yet"
			return m, nil
		}
		m.mode = ModeHistory
		m.historyIndex = 0
		return m, nil

	case "S":
		m.beginFileInput(FileOpExportPNG)
		return m, nil
	case "B":
		if doc.Background == nil {
			m.errorMessage = errNothingToExport.Error()
			return m, nil
		}
		m.beginFileInput(FileOpExportBackground)
		return m, nil
	case "T":
		m.beginFileInput(FileOpSaveVisualTXT)
		return m, nil
	}

	if doc.Drag.Selection() == nil {
		return m, nil
	}

	// Selected layer: panel and nudging.
	switch key {
	case "tab", "down":
		m.panel.MoveFocus(doc, 1)
	case "shift+tab", "up":
		m.panel.MoveFocus(doc, -1)
	case "left", "right", "shift+left", "shift+right", "-", "+", "=":
		delta := 1
		if key == "left" || key == "shift+left" || key == "-" {
			delta = -1
		}
		if strings.HasPrefix(key, "shift+") {
			delta *= 5
		}
		if !m.panel.Step(doc, delta) {
			if label, _, _ := m.panel.Focused(doc); label == "Size" {
				m.errorMessage = "Size is set by auto-fit"
			}
		}
	case "enter":
		label, value, editable := m.panel.Focused(doc)
		if !editable {
			m.errorMessage = fmt.Sprintf("%s cannot be typed", label)
			return m, nil
		}
		m.beginInput(ModeFieldInput, label, value)
	case "x", "delete", "backspace":
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteLayer
			return m, nil
		}
		doc.DeleteSelected()
		m.panel.ResetFocus()
	case "R":
		img, ok := doc.SelectedImage()
		if !ok || m.removingBackground {
			return m, nil
		}
		m.removingBackground = true
		return m, removeBackgroundCmd(m.studio, img.ID, img.Src, m.config.Timeout)
	default:
		return m.handleNavigation(key, m.getMoveSpeed(key))
	}
	return m, nil
}

func (m *model) beginInput(mode Mode, label, initial string) {
	m.mode = mode
	m.inputLabel = label
	m.input = initial
	m.inputCursorPos = len([]rune(initial))
	m.errorMessage = ""
}

// editInput applies a key to the line editor. It reports whether the key was
// consumed.
func (m *model) editInput(msg tea.KeyMsg) bool {
	runes := []rune(m.input)
	pos := min(max(m.inputCursorPos, 0), len(runes))
	switch msg.Type {
	case tea.KeyLeft:
		if pos > 0 {
			pos--
		}
	case tea.KeyRight:
		if pos < len(runes) {
			pos++
		}
	case tea.KeyHome, tea.KeyCtrlA:
		pos = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		pos = len(runes)
	case tea.KeyBackspace:
		if pos > 0 {
			runes = append(runes[:pos-1], runes[pos:]...)
			pos--
		}
	case tea.KeyDelete:
		if pos < len(runes) {
			runes = append(runes[:pos], runes[pos+1:]...)
		}
	case tea.KeyCtrlU:
		runes = runes[pos:]
		pos = 0
	case tea.KeySpace:
		runes = insertRunes(runes, pos, []rune{' '})
		pos++
	case tea.KeyRunes:
		runes = insertRunes(runes, pos, msg.Runes)
		pos += len(msg.Runes)
	case tea.KeyCtrlV:
		text, err := readClipboardText()
		if err != nil {
			return true
		}
		paste := []rune(cleanClipboardText(text))
		runes = insertRunes(runes, pos, paste)
		pos += len(paste)
	default:
		return false
	}
	m.input = string(runes)
	m.inputCursorPos = pos
	return true
}

func insertRunes(dst []rune, pos int, src []rune) []rune {
	out := make([]rune, 0, len(dst)+len(src))
	out = append(out, dst[:pos]...)
	out = append(out, src...)
	return append(out, dst[pos:]...)
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.mode = ModeNormal
		m.input = ""
		m.errorMessage = ""
		return m, nil
	case tea.KeyEnter:
		if m.mode == ModeTextInput && msg.Alt {
			m.editInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'\n'}})
			return m, nil
		}
		return m.submitInput()
	}
	m.editInput(msg)
	return m, nil
}

func (m model) submitInput() (tea.Model, tea.Cmd) {
	doc := m.doc
	input := m.input
	switch m.mode {
	case ModeTextInput:
		content := strings.ReplaceAll(input, `\n`, "\n")
		if strings.TrimSpace(content) != "" {
			doc.AddText(content)
			m.panel.ResetFocus()
		}
	case ModePrompt:
		doc.Prompt = strings.TrimSpace(input)
	case ModeAIText:
		doc.AIText = strings.TrimSpace(input)
		doc.IncludeTextInAI = doc.AIText != ""
	case ModeFieldInput:
		if err := m.panel.Set(doc, input); err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
	}
	m.mode = ModeNormal
	m.input = ""
	m.errorMessage = ""
	return m, nil
}

func (m *model) beginFileInput(op FileOperation) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.errorMessage = ""
	switch op {
	case FileOpOpenBackground, FileOpOpenLayer:
		m.scanImageFiles()
	case FileOpExportPNG, FileOpExportBackground:
		m.fileList = nil
		m.filename = defaultExportName(m.doc.clock(), ".png")
		if op == FileOpExportBackground {
			m.filename = defaultExportName(m.doc.clock(), backgroundExtension(m.doc.Background))
		}
	case FileOpSaveVisualTXT:
		m.fileList = nil
		m.filename = defaultExportName(m.doc.clock(), ".txt")
	}
}

func (m model) isOpenOp() bool {
	return m.fileOp == FileOpOpenBackground || m.fileOp == FileOpOpenLayer
}

func (m model) handleFileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.filename = ""
		m.errorMessage = ""
		return m, nil
	case tea.KeyUp, tea.KeyDown:
		if m.isOpenOp() && len(m.fileList) > 0 {
			delta := 1
			if msg.Type == tea.KeyUp {
				delta = -1
			}
			n := len(m.fileList)
			m.selectedFileIndex = ((m.selectedFileIndex+delta)%n + n) % n
			m.filename = m.fileList[m.selectedFileIndex]
		}
		return m, nil
	case tea.KeyBackspace:
		if r := []rune(m.filename); len(r) > 0 {
			m.filename = string(r[:len(r)-1])
			m.selectedFileIndex = -1
		}
		return m, nil
	case tea.KeyRunes, tea.KeySpace:
		if msg.Type == tea.KeySpace {
			m.filename += " "
		} else {
			m.filename += string(msg.Runes)
		}
		m.selectedFileIndex = -1
		return m, nil
	case tea.KeyEnter:
	default:
		return m, nil
	}

	name := strings.TrimSpace(m.filename)
	if name == "" {
		m.errorMessage = "Please enter a filename"
		return m, nil
	}
	if m.isOpenOp() {
		path := m.resolveImportPath(name)
		m.mode = ModeNormal
		m.filename = ""
		m.successMessage = "Loading " + filepath.Base(path)
		return m, readFileCmd(path, m.fileOp)
	}

	path := m.config.GetSavePath(withExtension(name, m.exportExtension()))
	if _, err := os.Stat(path); err == nil {
		m.pendingPath = path
		m.mode = ModeConfirm
		m.confirmAction = ConfirmOverwriteFile
		return m, nil
	}
	return m.runExport(path)
}

func (m model) exportExtension() string {
	switch m.fileOp {
	case FileOpSaveVisualTXT:
		return ".txt"
	case FileOpExportBackground:
		return backgroundExtension(m.doc.Background)
	}
	return ".png"
}

func withExtension(name, ext string) string {
	if strings.EqualFold(filepath.Ext(name), ext) {
		return name
	}
	if ext == ".jpg" && strings.EqualFold(filepath.Ext(name), ".jpeg") {
		return name
	}
	return name + ext
}

func (m model) runExport(path string) (tea.Model, tea.Cmd) {
	var err error
	switch m.fileOp {
	case FileOpExportPNG:
		err = m.exportPNG(path)
	case FileOpExportBackground:
		err = m.exportBackground(path)
	case FileOpSaveVisualTXT:
		err = m.exportVisualTXT(path)
	}
	if err != nil {
		m.errorMessage = fmt.Sprintf("Error exporting: %s", err.Error())
		m.mode = ModeFileInput
		if errors.Is(err, errNothingToExport) {
			m.mode = ModeNormal
		}
		return m, nil
	}
	absPath, _ := filepath.Abs(path)
	Logger().Info("exported", "path", absPath)
	m.successMessage = fmt.Sprintf("Exported to %s", absPath)
	m.errorMessage = ""
	m.mode = ModeNormal
	m.filename = ""
	m.pendingPath = ""
	return m, nil
}

func (m model) handleFileRead(msg fileReadMsg) (tea.Model, tea.Cmd) {
	m.successMessage = ""
	if msg.err != nil {
		Logger().Warn("import failed", "path", msg.path, "err", msg.err)
		m.showAlert(fmt.Sprintf("Could not open %s: %v", filepath.Base(msg.path), msg.err))
		return m, nil
	}
	switch msg.op {
	case FileOpOpenBackground:
		if _, _, err := msg.payload.NaturalSize(); err != nil {
			m.showAlert(fmt.Sprintf("Could not read %s: %v", filepath.Base(msg.path), err))
			return m, nil
		}
		m.doc.SetBackground(msg.payload)
		m.successMessage = "Background loaded, reference mode on"
	case FileOpOpenLayer:
		id := m.doc.AddImage(msg.payload)
		m.panel.ResetFocus()
		return m, decodeSizeCmd(id, msg.payload)
	}
	return m, nil
}

func (m model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.doc.History)
	switch msg.String() {
	case "esc", "q", "v":
		m.mode = ModeNormal
	case "up", "k":
		if n > 0 {
			m.historyIndex = (m.historyIndex - 1 + n) % n
		}
	case "down", "j":
		if n > 0 {
			m.historyIndex = (m.historyIndex + 1) % n
		}
	case "enter":
		if m.config.Confirmations && m.doc.Layers.Len() > 0 {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmRestoreHistory
			return m, nil
		}
		m.restoreHistory()
	}
	return m, nil
}

func (m *model) restoreHistory() {
	if m.doc.RestoreHistory(m.historyIndex) {
		m.panel.ResetFocus()
		m.successMessage = "Restored from history"
	}
	m.mode = ModeNormal
}

func (m model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		switch m.confirmAction {
		case ConfirmDeleteLayer:
			m.doc.DeleteSelected()
			m.panel.ResetFocus()
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmRestoreHistory:
			m.restoreHistory()
			return m, nil
		case ConfirmOverwriteFile:
			return m.runExport(m.pendingPath)
		}
		m.mode = ModeNormal
	case "n", "N", "esc":
		if m.confirmAction == ConfirmOverwriteFile {
			m.mode = ModeFileInput
			m.pendingPath = ""
			return m, nil
		}
		if m.confirmAction == ConfirmRestoreHistory {
			m.mode = ModeHistory
			return m, nil
		}
		m.mode = ModeNormal
	}
	return m, nil
}

func (m model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		maxScroll := len(helpLines) - max(1, m.height-1)
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m, nil
}
