package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/AustinGrey/bake-file/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func renderUnconvertible(reg *domain.Registry) string {
	if reg == nil {
		return ""
	}
	names := reg.Unconvertible()
	if len(names) == 0 {
		return ""
	}
	return "\n\nNo metric equivalent: " + strings.Join(names, ", ")
}
