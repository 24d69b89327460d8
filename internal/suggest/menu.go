package suggest

import "strings"

// MenuSize is the number of entries the history menu shows.
const MenuSize = 8

// Menu is the up/down history popup over the input line.
type Menu struct {
	open  bool
	items []Item
	index int
}

// IsOpen reports whether the menu is showing.
func (m *Menu) IsOpen() bool { return m.open }

// Items returns the visible entries, newest first.
func (m *Menu) Items() []Item { return m.items }

// Index is the highlighted entry.
func (m *Menu) Index() int { return m.index }

// Close hides the menu.
func (m *Menu) Close() {
	m.open = false
	m.items = nil
	m.index = 0
}

// Step opens the menu on first use; afterwards up moves to older entries and
// down moves to newer ones, closing the menu when stepping below the newest.
func (m *Menu) Step(up bool, history HistorySource, prefix string) {
	if !m.open {
		m.open = true
		m.index = 0
		m.Refresh(history, prefix)
		return
	}
	if len(m.items) == 0 {
		m.Close()
		return
	}
	switch {
	case up:
		m.index = min(m.index+1, len(m.items)-1)
	case m.index == 0:
		m.Close()
	default:
		m.index--
	}
}

// Refresh refilters an open menu against prefix.
func (m *Menu) Refresh(history HistorySource, prefix string) {
	if !m.open {
		return
	}
	m.items = m.items[:0]
	if history != nil {
		for _, cmd := range history.Entries() {
			if cmd == prefix || !strings.HasPrefix(cmd, prefix) {
				continue
			}
			m.items = append(m.items, Item{Display: cmd, InsertText: cmd, Source: SourceHistory})
			if len(m.items) == MenuSize {
				break
			}
		}
	}
	if len(m.items) == 0 {
		m.Close()
		return
	}
	m.index = min(m.index, len(m.items)-1)
}

// Selected returns the highlighted entry.
func (m *Menu) Selected() (Item, bool) {
	if !m.open || len(m.items) == 0 {
		return Item{}, false
	}
	return m.items[min(m.index, len(m.items)-1)], true
}
