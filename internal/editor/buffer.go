// Package editor implements the line-editing model shared by every input
// field: text, a cursor and an optional selection. Offsets count Unicode
// scalar values (runes), never bytes.
package editor

import "unicode"

// Selection is an anchor/head pair. Anchor may be greater than Head when the
// selection was extended leftwards.
type Selection struct {
	Anchor, Head int
}

// Bounds returns the selection ordered as start <= end.
func (s Selection) Bounds() (start, end int) {
	if s.Anchor <= s.Head {
		return s.Anchor, s.Head
	}
	return s.Head, s.Anchor
}

// Empty reports whether the selection covers nothing.
func (s Selection) Empty() bool { return s.Anchor == s.Head }

// Buffer is an editable single line of text.
type Buffer struct {
	text      []rune
	cursor    int
	selection *Selection
	anchor    *int
}

// New returns a buffer holding text with the cursor at its end.
func New(text string) *Buffer {
	r := []rune(text)
	return &Buffer{text: r, cursor: len(r)}
}

// Text returns the current contents.
func (b *Buffer) Text() string { return string(b.text) }

// Len is the length of the text in runes.
func (b *Buffer) Len() int { return len(b.text) }

// Cursor is the caret offset in runes.
func (b *Buffer) Cursor() int { return b.cursor }

// Empty reports whether the buffer holds no text.
func (b *Buffer) Empty() bool { return len(b.text) == 0 }

// SetText replaces the contents, moves the cursor to the end and clears the selection.
func (b *Buffer) SetText(s string) {
	b.text = []rune(s)
	b.cursor = len(b.text)
	b.ClearSelection()
}

// SetCursor moves the caret, clamped to the text, and clears the selection.
func (b *Buffer) SetCursor(pos int) {
	b.cursor = b.clamp(pos)
	b.ClearSelection()
}

// Selection returns the raw (unnormalized) selection.
func (b *Buffer) Selection() (Selection, bool) {
	if b.selection == nil {
		return Selection{}, false
	}
	return *b.selection, true
}

// SelectionBounds returns the normalized selection when it is non-empty.
func (b *Buffer) SelectionBounds() (start, end int, ok bool) {
	if !b.HasSelection() {
		return 0, 0, false
	}
	start, end = b.selection.Bounds()
	return start, end, true
}

// HasSelection reports a non-empty selection.
func (b *Buffer) HasSelection() bool {
	return b.selection != nil && !b.selection.Empty()
}

// SelectedText returns the selected text, or "".
func (b *Buffer) SelectedText() string {
	start, end, ok := b.SelectionBounds()
	if !ok {
		return ""
	}
	return string(b.text[start:end])
}

// ClearSelection drops the selection and the shift-extend anchor.
func (b *Buffer) ClearSelection() {
	b.selection = nil
	b.anchor = nil
}

// SelectAll selects the whole text and moves the cursor to its end.
// It does nothing on an empty buffer.
func (b *Buffer) SelectAll() {
	if len(b.text) == 0 {
		return
	}
	b.SetSelectionFromAnchor(0, len(b.text))
}

// SetSelectionFromAnchor selects from anchor to cursor, preserving their
// order, and places the caret at cursor.
func (b *Buffer) SetSelectionFromAnchor(anchor, cursor int) {
	anchor, cursor = b.clamp(anchor), b.clamp(cursor)
	b.selection = &Selection{Anchor: anchor, Head: cursor}
	b.anchor = &anchor
	b.cursor = cursor
}

// DeleteSelection removes the selected text and reports whether anything was removed.
func (b *Buffer) DeleteSelection() bool {
	start, end, ok := b.SelectionBounds()
	if !ok {
		return false
	}
	b.text = append(b.text[:start:start], b.text[end:]...)
	b.cursor = start
	b.ClearSelection()
	return true
}

// InsertText replaces any selection with s and advances the cursor past it.
func (b *Buffer) InsertText(s string) {
	b.DeleteSelection()
	ins := []rune(s)
	out := make([]rune, 0, len(b.text)+len(ins))
	out = append(out, b.text[:b.cursor]...)
	out = append(out, ins...)
	out = append(out, b.text[b.cursor:]...)
	b.text = out
	b.cursor = b.clamp(b.cursor + len(ins))
	b.ClearSelection()
}

// DeleteBackward removes the selection, or else the rune before the cursor.
// It reports whether the text changed.
func (b *Buffer) DeleteBackward() bool {
	if b.DeleteSelection() {
		return true
	}
	b.ClearSelection()
	if b.cursor == 0 {
		return false
	}
	b.text = append(b.text[:b.cursor-1:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
	return true
}

// DeleteForward removes the selection, or else the rune under the cursor.
func (b *Buffer) DeleteForward() bool {
	if b.DeleteSelection() {
		return true
	}
	b.ClearSelection()
	if b.cursor >= len(b.text) {
		return false
	}
	b.text = append(b.text[:b.cursor:b.cursor], b.text[b.cursor+1:]...)
	return true
}

// DeleteWordBackward removes from the previous word boundary to the cursor.
func (b *Buffer) DeleteWordBackward() bool {
	if b.DeleteSelection() {
		return true
	}
	start := b.wordLeft(b.cursor)
	if start == b.cursor {
		return false
	}
	b.text = append(b.text[:start:start], b.text[b.cursor:]...)
	b.cursor = start
	b.ClearSelection()
	return true
}

// KillToStart removes everything before the cursor.
func (b *Buffer) KillToStart() bool {
	if b.cursor == 0 {
		return false
	}
	b.text = append([]rune(nil), b.text[b.cursor:]...)
	b.cursor = 0
	b.ClearSelection()
	return true
}

// TextBeforeCursor returns the text left of the caret.
func (b *Buffer) TextBeforeCursor() string { return string(b.text[:b.cursor]) }

// TextAfterCursor returns the text right of the caret.
func (b *Buffer) TextAfterCursor() string { return string(b.text[b.cursor:]) }

func (b *Buffer) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(b.text) {
		return len(b.text)
	}
	return pos
}

// IsWordRune reports whether r belongs to a word for word-wise navigation.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.'
}
