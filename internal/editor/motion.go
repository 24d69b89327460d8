package editor

import "unicode"

// MoveLeft moves the caret one rune left. With extend it grows the selection.
func (b *Buffer) MoveLeft(extend bool) { b.moveTo(b.cursor-1, extend) }

// MoveRight moves the caret one rune right.
func (b *Buffer) MoveRight(extend bool) { b.moveTo(b.cursor+1, extend) }

// MoveHome moves the caret to the start of the line.
func (b *Buffer) MoveHome(extend bool) { b.moveTo(0, extend) }

// MoveEnd moves the caret to the end of the line.
func (b *Buffer) MoveEnd(extend bool) { b.moveTo(len(b.text), extend) }

// MoveWordLeft jumps to the start of the previous word.
func (b *Buffer) MoveWordLeft(extend bool) { b.moveTo(b.wordLeft(b.cursor), extend) }

// MoveWordRight jumps past the end of the next word.
func (b *Buffer) MoveWordRight(extend bool) { b.moveTo(b.wordRight(b.cursor), extend) }

func (b *Buffer) moveTo(pos int, extend bool) {
	pos = b.clamp(pos)
	if extend {
		anchor := b.cursor
		if b.anchor != nil {
			anchor = *b.anchor
		}
		b.SetSelectionFromAnchor(anchor, pos)
		return
	}
	b.cursor = pos
	b.ClearSelection()
}

// wordLeft skips whitespace then the word class to the left of pos. A run of
// punctuation counts as a single step.
func (b *Buffer) wordLeft(pos int) int {
	i := pos
	for i > 0 && unicode.IsSpace(b.text[i-1]) {
		i--
	}
	if i > 0 && !IsWordRune(b.text[i-1]) {
		for i > 0 && !IsWordRune(b.text[i-1]) && !unicode.IsSpace(b.text[i-1]) {
			i--
		}
		return i
	}
	for i > 0 && IsWordRune(b.text[i-1]) {
		i--
	}
	return i
}

func (b *Buffer) wordRight(pos int) int {
	n := len(b.text)
	i := pos
	for i < n && unicode.IsSpace(b.text[i]) {
		i++
	}
	if i < n && !IsWordRune(b.text[i]) {
		for i < n && !IsWordRune(b.text[i]) && !unicode.IsSpace(b.text[i]) {
			i++
		}
		return i
	}
	for i < n && IsWordRune(b.text[i]) {
		i++
	}
	return i
}
