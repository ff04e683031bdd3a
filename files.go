package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"}

func isImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range imageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// importDirectory is where the file picker looks: the save directory when
// one is configured, otherwise the working directory.
func (m *model) importDirectory() string {
	if m.config != nil && m.config.SaveDirectory != "" {
		return m.config.SaveDirectory
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}

func (m *model) scanImageFiles() {
	m.fileList = listImageFiles(m.importDirectory())
	if len(m.fileList) > 0 {
		m.selectedFileIndex = 0
		m.filename = m.fileList[0]
	} else {
		m.selectedFileIndex = -1
		m.filename = ""
	}
}

func listImageFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		Logger().Debug("scan image files", "dir", dir, "err", err)
		return nil
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && isImageFile(entry.Name()) {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files
}

// resolveImportPath turns picker input into a path. Bare names are looked up
// in the import directory.
func (m *model) resolveImportPath(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	home, _ := os.UserHomeDir()
	if strings.HasPrefix(name, "~") || filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return expandPath(name, home)
	}
	return filepath.Join(m.importDirectory(), name)
}

func readImageFile(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), errEmptyPayload)
	}
	return NewPayload(data), nil
}
