package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// fileReadMsg carries an imported file, read off the update loop.
type fileReadMsg struct {
	op      FileOperation
	path    string
	payload *Payload
	err     error
}

// imageSizeMsg reports the natural size of a freshly inserted image layer.
type imageSizeMsg struct {
	id            string
	width, height int
	err           error
}

type generatedMsg struct {
	req     GenerateRequest
	payload *Payload
	err     error
}

type enhancedMsg struct {
	raw    string
	prompt string
	err    error
}

type backgroundRemovedMsg struct {
	id      string
	payload *Payload
	err     error
}

func readFileCmd(path string, op FileOperation) tea.Cmd {
	return func() tea.Msg {
		p, err := readImageFile(path)
		return fileReadMsg{op: op, path: path, payload: p, err: err}
	}
}

func decodeSizeCmd(id string, p *Payload) tea.Cmd {
	return func() tea.Msg {
		w, h, err := p.NaturalSize()
		return imageSizeMsg{id: id, width: w, height: h, err: err}
	}
}

func withTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

func generateCmd(provider BackgroundProvider, req GenerateRequest, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		p, err := provider.Generate(ctx, req)
		return generatedMsg{req: req, payload: p, err: err}
	}
}

func enhanceCmd(enhancer PromptEnhancer, raw string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		prompt, err := enhancer.Enhance(ctx, raw)
		return enhancedMsg{raw: raw, prompt: prompt, err: err}
	}
}

func removeBackgroundCmd(remover BackgroundRemover, id string, src *Payload, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		p, err := remover.RemoveBackground(ctx, src)
		return backgroundRemovedMsg{id: id, payload: p, err: err}
	}
}
