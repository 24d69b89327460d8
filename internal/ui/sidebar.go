package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	zone "github.com/lrstanley/bubblezone"

	"orbitshell/internal/search"
)

// renderSidebar draws the search box and either the results for the current
// query or, with an empty query, the active tab's working-tree changes.
func (m *model) renderSidebar(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	inner := max(1, width-2)
	border := BorderStyle()
	if m.focus == focusSearch {
		border = AccentBold()
	}
	var rows []string
	box := renderInputLine(m.searchInput, "", inner-2, m.focus == focusSearch)
	if m.searchInput.Empty() && m.focus != focusSearch {
		box = mutedStyle.Render("search files")
	}
	rows = append(rows, zone.Mark("search.input", fitLine("⌕ "+box, inner)))

	body := height - 3
	if m.searchInput.Empty() {
		rows = append(rows, m.changeRows(inner, body)...)
	} else {
		rows = append(rows, m.resultRows(inner, body)...)
	}
	for len(rows) < height-2 {
		rows = append(rows, strings.Repeat(" ", inner))
	}
	if len(rows) > height-2 {
		rows = rows[:height-2]
	}

	var b strings.Builder
	b.WriteString(border.Render("╭"+strings.Repeat("─", inner)+"╮") + "\n")
	for _, r := range rows {
		b.WriteString(border.Render("│") + fitLine(r, inner) + border.Render("│") + "\n")
	}
	b.WriteString(border.Render("╰" + strings.Repeat("─", inner) + "╯"))
	return b.String()
}

func (m *model) resultRows(width, height int) []string {
	items := m.results.Items()
	head := fmt.Sprintf("%d results", len(items))
	if m.results.Pending() {
		head = m.spinner.View() + " " + head
	}
	rows := []string{mutedStyle.Render(head)}
	if height <= 1 {
		return rows
	}
	// results take two rows each: location and snippet
	visible := max(1, (height-1)/2)
	start := 0
	if m.resultIndex >= visible {
		start = m.resultIndex - visible + 1
	}
	for i := start; i < len(items) && i < start+visible; i++ {
		loc, snip := m.resultText(items[i])
		st := textStyle
		if i == m.resultIndex {
			st = activeRowStyle
		}
		entry := fitLine(st.Render(loc), width) + "\n" + fitLine(mutedStyle.Render("  "+snip), width)
		rows = append(rows, strings.Split(zone.Mark(fmt.Sprintf("search.result.%d", i), entry), "\n")...)
	}
	return rows
}

func (m *model) resultText(r search.Result) (loc, snippet string) {
	loc = m.relPath(r.Path)
	if r.IsFilename {
		return loc, "file name"
	}
	return fmt.Sprintf("%s:%d", loc, r.Line), r.Snippet
}

func (m *model) changeRows(width, height int) []string {
	t := m.activeTab()
	if t == nil || !t.inRepo {
		return []string{mutedStyle.Render("not a git repository")}
	}
	rows := []string{mutedStyle.Render(fmt.Sprintf("%d changed", len(t.changes)))}
	for i, c := range t.changes {
		if len(rows) >= height {
			break
		}
		stage := " "
		if c.Staged {
			stage = "●"
		}
		line := kindStyle(c.Kind).Render(c.Kind) + " " + mutedStyle.Render(stage) + " " + textStyle.Render(c.Path)
		rows = append(rows, zone.Mark(fmt.Sprintf("change.%d", i), fitLine(line, width)))
	}
	return rows
}

// relPath shows p relative to the active tab's directory when it is inside it.
func (m *model) relPath(p string) string {
	t := m.activeTab()
	if t == nil {
		return p
	}
	rel, err := filepath.Rel(t.proc.Cwd(), p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return rel
}
