// Package textwin extracts display windows around byte offsets in UTF-8
// classical Chinese text.
package textwin

import (
	"strings"
	"unicode/utf8"
)

// Extract returns a window of charRadius characters on either side of
// byteOffset, reduced to its first non-empty line.
func Extract(text string, byteOffset, charRadius int) string {
	runes := []rune(text)

	// Locate the rune index corresponding to byteOffset.
	charIdx := 0
	bytePos := 0
	for i, r := range runes {
		if bytePos >= byteOffset {
			charIdx = i
			break
		}
		bytePos += utf8.RuneLen(r)
	}

	start := charIdx - charRadius
	if start < 0 {
		start = 0
	}
	end := charIdx + charRadius
	if end > len(runes) {
		end = len(runes)
	}

	window := string(runes[start:end])
	for _, line := range strings.Split(window, "\n") {
		if line != "" {
			return line
		}
	}
	return window
}

// Snippet returns a window of charRadius characters on either side of
// byteOffset with line breaks preserved, snapped to rune boundaries. Used
// for the generous per-event text excerpts in person queries.
func Snippet(text string, byteOffset, charRadius int) string {
	if byteOffset > len(text) {
		byteOffset = len(text)
	}
	// Snap to a rune boundary.
	for byteOffset > 0 && byteOffset < len(text) && !utf8.RuneStart(text[byteOffset]) {
		byteOffset--
	}

	start := byteOffset
	for i := 0; i < charRadius && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	end := byteOffset
	for i := 0; i < charRadius && end < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}

	return strings.TrimSpace(text[start:end])
}
