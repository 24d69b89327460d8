package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestInsertCountsRunesNotBytes(t *testing.T) {
	b := New("héllo")
	b.SetCursor(2)
	b.InsertText("ü")
	assert.Equal(t, "héüllo", b.Text())
	assert.Equal(t, 3, b.Cursor())
}

func TestInsertReplacesSelection(t *testing.T) {
	b := New("git status")
	b.SetSelectionFromAnchor(4, 10)
	b.InsertText("log")
	assert.Equal(t, "git log", b.Text())
	assert.Equal(t, 7, b.Cursor())
	assert.False(t, b.HasSelection())
}

func TestDeleteBackward(t *testing.T) {
	b := New("ab")
	require.True(t, b.DeleteBackward())
	assert.Equal(t, "a", b.Text())
	b.SetCursor(0)
	assert.False(t, b.DeleteBackward())
	assert.Equal(t, "a", b.Text())

	b = New("hello world")
	b.SetSelectionFromAnchor(11, 5)
	require.True(t, b.DeleteBackward())
	assert.Equal(t, "hello", b.Text())
	assert.Equal(t, 5, b.Cursor())
}

func TestSelectionKeepsOrder(t *testing.T) {
	b := New("abcdef")
	b.SetSelectionFromAnchor(4, 1)
	sel, ok := b.Selection()
	require.True(t, ok)
	assert.Equal(t, Selection{Anchor: 4, Head: 1}, sel)
	start, end, ok := b.SelectionBounds()
	require.True(t, ok)
	assert.Equal(t, 1, start)
	assert.Equal(t, 4, end)
	assert.Equal(t, "bcd", b.SelectedText())
	assert.Equal(t, 1, b.Cursor())

	b.SetSelectionFromAnchor(2, 2)
	assert.False(t, b.HasSelection())
	_, _, ok = b.SelectionBounds()
	assert.False(t, ok)
}

func TestSelectAllEmpty(t *testing.T) {
	b := New("")
	b.SelectAll()
	assert.False(t, b.HasSelection())
	assert.Equal(t, 0, b.Cursor())
}

func TestShiftExtendUsesAnchor(t *testing.T) {
	b := New("one two three")
	b.SetCursor(4)
	b.MoveRight(true)
	b.MoveRight(true)
	b.MoveRight(true)
	assert.Equal(t, "two", b.SelectedText())
	b.MoveHome(true)
	assert.Equal(t, "one ", b.SelectedText())
	sel, _ := b.Selection()
	assert.Equal(t, 4, sel.Anchor)
	b.MoveLeft(false)
	assert.False(t, b.HasSelection())
}

func TestWordMotion(t *testing.T) {
	b := New("cd ./src/main.go  next")
	var stops []int
	for b.Cursor() > 0 {
		b.MoveWordLeft(false)
		stops = append(stops, b.Cursor())
	}
	assert.Equal(t, []int{18, 9, 8, 5, 4, 3, 0}, stops)

	b.MoveWordRight(false)
	assert.Equal(t, 2, b.Cursor())
	b.MoveWordRight(false)
	assert.Equal(t, 4, b.Cursor(), "dot is a word rune, slash is not")
	b.MoveEnd(false)
	b.MoveWordRight(false)
	assert.Equal(t, b.Len(), b.Cursor())
}

func TestDeleteWordBackwardAndKill(t *testing.T) {
	b := New("git commit -m fix")
	require.True(t, b.DeleteWordBackward())
	assert.Equal(t, "git commit -m ", b.Text())
	require.True(t, b.DeleteWordBackward())
	assert.Equal(t, "git commit ", b.Text())

	b.SetCursor(4)
	require.True(t, b.KillToStart())
	assert.Equal(t, "commit ", b.Text())
	assert.Equal(t, 0, b.Cursor())
	assert.False(t, b.KillToStart())
}

func TestDeleteForward(t *testing.T) {
	b := New("abc")
	b.SetCursor(1)
	require.True(t, b.DeleteForward())
	assert.Equal(t, "ac", b.Text())
	b.MoveEnd(false)
	assert.False(t, b.DeleteForward())
}

func TestCursorStaysInBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := New(rapid.String().Draw(t, "initial"))
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 5).Draw(t, "op") {
			case 0:
				b.InsertText(rapid.String().Draw(t, "text"))
			case 1:
				b.DeleteBackward()
			case 2:
				b.SetCursor(rapid.IntRange(-5, b.Len()+5).Draw(t, "pos"))
			case 3:
				b.SetSelectionFromAnchor(
					rapid.IntRange(-5, b.Len()+5).Draw(t, "anchor"),
					rapid.IntRange(-5, b.Len()+5).Draw(t, "head"),
				)
			case 4:
				b.MoveWordLeft(rapid.Bool().Draw(t, "extend"))
			case 5:
				b.DeleteWordBackward()
			}
			if b.Cursor() < 0 || b.Cursor() > b.Len() {
				t.Fatalf("cursor %d outside [0,%d]", b.Cursor(), b.Len())
			}
			if sel, ok := b.Selection(); ok {
				if sel.Anchor < 0 || sel.Anchor > b.Len() || sel.Head < 0 || sel.Head > b.Len() {
					t.Fatalf("selection %+v outside [0,%d]", sel, b.Len())
				}
			}
		}
	})
}

func TestInsertThenDeleteRestores(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		b := New(text)
		b.SetCursor(rapid.IntRange(0, b.Len()).Draw(t, "pos"))
		before := b.Cursor()

		ins := rapid.String().Draw(t, "insert")
		b.InsertText(ins)
		for range []rune(ins) {
			b.DeleteBackward()
		}
		if b.Text() != text || b.Cursor() != before {
			t.Fatalf("got %q@%d, want %q@%d", b.Text(), b.Cursor(), text, before)
		}
	})
}

func TestSelectAllIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringN(1, 32, -1).Draw(t, "text")
		b := New(text)
		b.SetCursor(rapid.IntRange(0, b.Len()).Draw(t, "pos"))
		b.SelectAll()
		first, _ := b.Selection()
		b.SelectAll()
		second, ok := b.Selection()
		if !ok || first != second || second != (Selection{0, b.Len()}) || b.Cursor() != b.Len() {
			t.Fatalf("selectAll on %q gave %+v then %+v cursor %d", text, first, second, b.Cursor())
		}
	})
}
