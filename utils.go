package main

import (
	"html"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"unicode"

	"github.com/atotto/clipboard"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// cleanClipboardText turns pasted RTF, HTML or plain text into layer
// content: control characters dropped, line endings normalised, outer
// whitespace trimmed.
func cleanClipboardText(text string) string {
	switch {
	case strings.HasPrefix(text, `{\rtf`):
		text = rtfText(text)
	case looksLikeHTML(text):
		text = htmlText(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			return r
		}
		return -1
	}, text)
	return strings.Trim(text, "\n\t ")
}

// rtfDestinations are groups whose contents are never document text.
var rtfDestinations = map[string]bool{
	"fonttbl": true, "colortbl": true, "stylesheet": true, "info": true,
	"pict": true, "header": true, "footer": true, "listtable": true,
}

// rtfText extracts the visible text of an RTF document. Unicode escapes
// (\uN) and raw UTF-8 pass through, so Arabic and other non-Latin pastes
// survive.
func rtfText(rtf string) string {
	var out strings.Builder
	src := []rune(rtf)
	// skip[depth] is set while inside a destination group.
	skip := []bool{false}
	fallback := 0
	skipping := func() bool { return skip[len(skip)-1] }
	visible := func(r rune) {
		if fallback > 0 {
			fallback--
			return
		}
		if !skipping() {
			out.WriteRune(r)
		}
	}

	for i := 0; i < len(src); i++ {
		switch r := src[i]; r {
		case '{':
			skip = append(skip, skipping())
		case '}':
			if len(skip) > 1 {
				skip = skip[:len(skip)-1]
			}
		case '\\':
			if i+1 >= len(src) {
				continue
			}
			next := src[i+1]
			switch {
			case next == '\\' || next == '{' || next == '}':
				visible(next)
				i++
			case next == '*':
				skip[len(skip)-1] = true
				i++
			case next == '~':
				visible(' ')
				i++
			case next == '\'' && i+3 < len(src):
				if v, err := strconv.ParseUint(string(src[i+2:i+4]), 16, 8); err == nil {
					visible(rune(v))
				}
				i += 3
			case next < unicode.MaxASCII && unicode.IsLetter(next):
				j := i + 1
				for j < len(src) && src[j] < unicode.MaxASCII && unicode.IsLetter(src[j]) {
					j++
				}
				word := string(src[i+1 : j])
				k := j
				if k < len(src) && src[k] == '-' {
					k++
				}
				for k < len(src) && src[k] >= '0' && src[k] <= '9' {
					k++
				}
				param, hasParam := 0, k > j
				if hasParam {
					param, _ = strconv.Atoi(string(src[j:k]))
				}
				if k < len(src) && src[k] == ' ' {
					k++
				}
				i = k - 1

				switch {
				case rtfDestinations[word]:
					skip[len(skip)-1] = true
				case word == "u" && hasParam:
					if param < 0 {
						param += 65536
					}
					visible(rune(param))
					// one ANSI fallback character follows each \u
					fallback = 1
				case word == "par" || word == "line":
					visible('\n')
				case word == "tab":
					visible('\t')
				}
			default:
				i++
			}
		case '\n', '\r':
			// raw line breaks inside RTF source are not text
		default:
			visible(r)
		}
	}
	return out.String()
}

func looksLikeHTML(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") ||
			strings.Contains(t, "<div") || strings.Contains(t, "<p") || strings.Contains(t, "<span"))
}

var (
	htmlBreak = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|h[1-6]|li)>`)
	htmlTag   = regexp.MustCompile(`<[^>]*>`)
)

func htmlText(s string) string {
	s = htmlBreak.ReplaceAllString(s, "\n")
	s = htmlTag.ReplaceAllString(s, "")
	return html.UnescapeString(strings.ReplaceAll(s, "&nbsp;", " "))
}
