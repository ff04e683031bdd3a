package main

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	SaveDirectory string
	FontDirectory string
	APIKey        string
	Model         string
	Provider      string
	DefaultStyle  ThumbnailStyle
	DefaultFont   string
	ExportWidth   int
	LogFile       string
	LogLevel      slog.Level
	Confirmations bool
	Timeout       time.Duration
}

func defaultConfig() *Config {
	return &Config{
		Model:         defaultGeminiModel,
		Provider:      providerAuto,
		DefaultStyle:  StyleClickbait,
		DefaultFont:   familyGo,
		ExportWidth:   1280,
		LogLevel:      slog.LevelInfo,
		Confirmations: true,
		Timeout:       90 * time.Second,
	}
}

func loadConfig() *Config {
	config := defaultConfig()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		if file, err := os.Open(filepath.Join(homeDir, ".thumbgenrc")); err == nil {
			parseConfig(config, file, homeDir)
			file.Close()
		}
	}

	if config.APIKey == "" {
		config.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if config.APIKey == "" {
		config.APIKey = os.Getenv("API_KEY")
	}
	return config
}

func parseConfig(config *Config, r io.Reader, homeDir string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			config.SaveDirectory = expandPath(value, homeDir)
		case "fontdirectory", "font_directory", "fontdir":
			config.FontDirectory = expandPath(value, homeDir)
		case "apikey", "api_key":
			config.APIKey = value
		case "model":
			if value != "" {
				config.Model = value
			}
		case "provider":
			switch p := strings.ToLower(value); p {
			case providerAuto, providerGemini, providerLocal:
				config.Provider = p
			}
		case "defaultstyle", "default_style", "style":
			if style, ok := parseStyle(value); ok {
				config.DefaultStyle = style
			}
		case "defaultfont", "default_font", "font":
			if value != "" {
				config.DefaultFont = value
			}
		case "exportwidth", "export_width":
			if w, err := strconv.Atoi(value); err == nil && w >= 16 {
				config.ExportWidth = w
			}
		case "logfile", "log_file", "log":
			config.LogFile = expandPath(value, homeDir)
		case "loglevel", "log_level":
			var level slog.Level
			if err := level.UnmarshalText([]byte(value)); err == nil {
				config.LogLevel = level
			}
		case "confirmations", "confirm":
			config.Confirmations = strings.ToLower(value) == "true"
		case "timeout":
			if d, err := time.ParseDuration(value); err == nil && d > 0 {
				config.Timeout = d
			}
		}
	}
}

const (
	providerAuto   = "auto"
	providerGemini = "gemini"
	providerLocal  = "local"
)

// newStudio picks the provider. Auto uses Gemini when an API key is set and
// the offline studio otherwise. The offline studio draws from a command
// goroutine and font faces are not safe for concurrent use, so it gets its
// own registry.
func newStudio(config *Config) Studio {
	switch {
	case config.Provider == providerLocal:
	case config.Provider == providerGemini, config.APIKey != "":
		return newGeminiClient(config.APIKey, config.Model)
	}
	return newLocalStudio(NewFontRegistry())
}

func expandPath(value, homeDir string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}
