package search

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

const snippetFallback = 80

// MakeSnippet trims line to the match plus padding whitespace-delimited words
// on each side, widened to word boundaries. Truncated ends get an ellipsis.
// Without a match the first 80 grapheme clusters are returned.
func MakeSnippet(line, query string, padding int) string {
	if query == "" {
		return firstGraphemes(line, snippetFallback)
	}
	chars := []rune(line)
	pos := indexFold(chars, []rune(query))
	if pos < 0 {
		return firstGraphemes(line, snippetFallback)
	}
	qLen := len([]rune(query))

	start, words := pos, 0
	for start > 0 && words < padding {
		start--
		if unicode.IsSpace(chars[start]) {
			for start > 0 && unicode.IsSpace(chars[start]) {
				start--
			}
			words++
		}
	}
	for start > 0 && !unicode.IsSpace(chars[start-1]) {
		start--
	}

	end, words := min(pos+qLen, len(chars)), 0
	for end < len(chars) && words < padding {
		if unicode.IsSpace(chars[end]) {
			for end < len(chars) && unicode.IsSpace(chars[end]) {
				end++
			}
			words++
		} else {
			end++
		}
	}
	for end < len(chars) && !unicode.IsSpace(chars[end]) {
		end++
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString("…")
	}
	b.WriteString(string(chars[start:end]))
	if end < len(chars) {
		b.WriteString("…")
	}
	return b.String()
}

// indexFold finds needle in hay comparing runes case-insensitively, returning
// a rune offset.
func indexFold(hay, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
outer:
	for i := 0; i+len(needle) <= len(hay); i++ {
		for j, r := range needle {
			if unicode.ToLower(hay[i+j]) != unicode.ToLower(r) {
				continue outer
			}
		}
		return i
	}
	return -1
}

func firstGraphemes(s string, n int) string {
	g := uniseg.NewGraphemes(s)
	end := 0
	for i := 0; i < n && g.Next(); i++ {
		_, end = g.Positions()
	}
	return s[:end]
}
