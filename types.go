package main

type model struct {
	width      int
	height     int
	config     *Config
	fonts      *FontRegistry
	doc        *Document
	composer   *Composer
	panel      *Panel
	studio     Studio
	mode       Mode
	help       bool
	helpScroll int

	// single-line input shared by the text, prompt, field and file modes
	input          string
	inputCursorPos int
	inputLabel     string

	filename          string
	fileList          []string
	selectedFileIndex int
	fileOp            FileOperation
	pendingPath       string
	confirmAction     ConfirmAction
	historyIndex      int

	alert          string
	errorMessage   string
	successMessage string

	enhancing          bool
	removingBackground bool
}

// canvasLayout is where the preview sits on screen, in cells, and how big
// the canvas it shows is, in canvas pixels.
type canvasLayout struct {
	cols, rows int
	viewport   Viewport
}
