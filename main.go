package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	config := loadConfig()
	if closer, err := openLogFile(config.LogFile, config.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "thumbgen: log file: %v\n", err)
	} else if closer != nil {
		defer closer.Close()
	}

	fonts := NewFontRegistry()
	if config.FontDirectory != "" {
		n, err := fonts.LoadDirectory(config.FontDirectory)
		if err != nil {
			Logger().Warn("font directory", "dir", config.FontDirectory, "err", err)
		}
		Logger().Info("fonts loaded", "dir", config.FontDirectory, "count", n)
	}

	p := tea.NewProgram(
		initialModel(config, fonts, newStudio(config)),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

func initialModel(config *Config, fonts *FontRegistry, studio Studio) model {
	return model{
		config:            config,
		fonts:             fonts,
		doc:               NewDocument(fonts, config.DefaultFont, config.DefaultStyle),
		composer:          NewComposer(fonts),
		panel:             NewPanel(fonts),
		studio:            studio,
		mode:              ModeNormal,
		selectedFileIndex: -1,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}
