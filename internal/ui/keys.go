package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"orbitshell/internal/editor"
)

type keyMap struct {
	Submit     key.Binding
	Accept     key.Binding
	CycleNext  key.Binding
	CyclePrev  key.Binding
	History    key.Binding
	NewTab     key.Binding
	CloseTab   key.Binding
	PrevTab    key.Binding
	NextTab    key.Binding
	Search     key.Binding
	Branches   key.Binding
	Recent     key.Binding
	Interrupt  key.Binding
	Clear      key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Sidebar    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	Accept:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "accept")),
	CycleNext:  key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("^n/^p", "cycle")),
	CyclePrev:  key.NewBinding(key.WithKeys("ctrl+p")),
	History:    key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "history")),
	NewTab:     key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("^t", "new tab")),
	CloseTab:   key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("^w", "close tab")),
	PrevTab:    key.NewBinding(key.WithKeys("ctrl+left"), key.WithHelp("^←/^→", "switch tab")),
	NextTab:    key.NewBinding(key.WithKeys("ctrl+right")),
	Search:     key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("^f", "search")),
	Branches:   key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("^b", "branches")),
	Recent:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("^o", "recent")),
	Interrupt:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("^c", "interrupt")),
	Clear:      key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("^l", "clear")),
	ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup/pgdn", "scroll")),
	ScrollDown: key.NewBinding(key.WithKeys("pgdown")),
	Sidebar:    key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("^g", "changes")),
	Help:       key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
	Quit:       key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("^q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Accept, k.History, k.NewTab, k.Search, k.Branches, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Accept, k.CycleNext, k.History, k.Interrupt, k.Clear},
		{k.NewTab, k.CloseTab, k.PrevTab, k.ScrollUp},
		{k.Search, k.Sidebar, k.Branches, k.Recent, k.Help, k.Quit},
	}
}

// keyToPTYBytes maps keys that go straight to the shell when the input line
// does not handle them.
func keyToPTYBytes(k tea.KeyMsg) []byte {
	switch k.String() {
	case "ctrl+c":
		return []byte{0x03}
	case "ctrl+d":
		return []byte{0x04}
	case "ctrl+z":
		return []byte{0x1a}
	case "ctrl+\\":
		return []byte{0x1c}
	case "up":
		return []byte("\x1b[A")
	case "down":
		return []byte("\x1b[B")
	case "right":
		return []byte("\x1b[C")
	case "left":
		return []byte("\x1b[D")
	case "tab":
		return []byte("\t")
	case "esc":
		return []byte{0x1b}
	}
	return nil
}

// editKey applies an editing key to b and reports whether it was consumed.
// Every text field in the UI routes keys through here.
func editKey(b *editor.Buffer, k tea.KeyMsg) bool {
	switch k.String() {
	case "left":
		b.MoveLeft(false)
	case "shift+left":
		b.MoveLeft(true)
	case "right":
		b.MoveRight(false)
	case "shift+right":
		b.MoveRight(true)
	case "home":
		b.MoveHome(false)
	case "shift+home":
		b.MoveHome(true)
	case "end", "ctrl+e":
		b.MoveEnd(false)
	case "shift+end":
		b.MoveEnd(true)
	case "alt+left", "alt+b":
		b.MoveWordLeft(false)
	case "alt+right", "alt+f":
		b.MoveWordRight(false)
	case "ctrl+shift+left", "alt+shift+left":
		b.MoveWordLeft(true)
	case "ctrl+shift+right", "alt+shift+right":
		b.MoveWordRight(true)
	case "backspace", "ctrl+h":
		b.DeleteBackward()
	case "delete":
		b.DeleteForward()
	case "alt+backspace", "ctrl+w":
		b.DeleteWordBackward()
	case "ctrl+u":
		b.KillToStart()
	case "ctrl+a":
		b.SelectAll()
	default:
		switch k.Type {
		case tea.KeySpace:
			b.InsertText(" ")
		case tea.KeyRunes:
			if k.Alt {
				return false
			}
			b.InsertText(string(k.Runes))
		default:
			return false
		}
	}
	return true
}
