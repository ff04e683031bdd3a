package main

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/bidi"
)

// visualOrder reorders a single line into display order so right-to-left
// runs come out the way a browser would lay them out. Lines without strong
// RTL characters are returned unchanged.
func visualOrder(line string) (out string) {
	if !hasRTL(line) {
		return line
	}
	defer func() {
		if r := recover(); r != nil {
			Logger().Warn("bidi reordering failed", "err", r)
			out = line
		}
	}()
	var p bidi.Paragraph
	if _, err := p.SetString(line); err != nil {
		return line
	}
	order, err := p.Order()
	if err != nil {
		return line
	}
	runs := make([]string, 0, order.NumRuns())
	for i := 0; i < order.NumRuns(); i++ {
		run := order.Run(i)
		s := run.String()
		if run.Direction() == bidi.RightToLeft {
			s = bidi.ReverseString(s)
		}
		runs = append(runs, s)
	}
	return strings.Join(runs, "")
}

func hasRTL(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Arabic, unicode.Hebrew, unicode.Syriac, unicode.Thaana, unicode.Nko) {
			return true
		}
	}
	return false
}
