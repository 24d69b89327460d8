package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"orbitshell/internal/suggest"
)

const pickerRows = 10

// renderPicker draws the picker overlay: a filter line and the matching rows
// with fuzzy-matched characters highlighted.
func renderPicker(width int, p *picker) string {
	inner := width - 2
	if inner < 20 {
		inner = 20
	}
	border := BorderStyle()
	prompt := AccentBold().Render("›")
	hl := lipgloss.NewStyle().Bold(true).Foreground(Vitesse.Primary)

	var b strings.Builder
	title := " " + p.title + " "
	b.WriteString(border.Render("╭─") + AccentBold().Render(title) +
		border.Render(strings.Repeat("─", max(0, inner-1-xansi.StringWidth(title)))+"╮") + "\n")
	in := fmt.Sprintf(" %s %s", prompt, renderInputLine(p.input, "", inner-3, true))
	b.WriteString(border.Render("│") + fitLine(in, inner) + border.Render("│") + "\n")

	if len(p.shown) == 0 {
		b.WriteString(border.Render("│") + fitLine(mutedStyle.Render("  no matches"), inner) + border.Render("│") + "\n")
	}
	// keep the selection inside the visible window
	start := 0
	if p.index >= pickerRows {
		start = p.index - pickerRows + 1
	}
	for i := start; i < len(p.shown) && i < start+pickerRows; i++ {
		row := p.shown[i]
		line := "  " + highlightMatches(row.value, row.matched, hl)
		if i == p.index {
			line = activeRowStyle.Render("› ") + highlightMatches(row.value, row.matched, activeRowStyle)
		}
		b.WriteString(border.Render("│") + zone.Mark(fmt.Sprintf("picker.item.%d", i), fitLine(line, inner)) + border.Render("│") + "\n")
	}
	b.WriteString(border.Render("╰"+strings.Repeat("─", inner)+"╯") + "\n")
	b.WriteString(mutedStyle.Render("  ↑/↓ select · enter open · esc close"))
	return b.String()
}

func highlightMatches(s string, matched []int, hl lipgloss.Style) string {
	if len(matched) == 0 {
		return textStyle.Render(s)
	}
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}
	var b strings.Builder
	// MatchedIndexes are byte offsets
	for i, r := range s {
		if set[i] {
			b.WriteString(hl.Render(string(r)))
		} else {
			b.WriteString(textStyle.Render(string(r)))
		}
	}
	return b.String()
}

// renderHistoryMenu lists history entries above the input, oldest at the top
// so the newest sits next to the input line.
func renderHistoryMenu(width int, items []suggest.Item, sel int) string {
	if len(items) == 0 {
		return ""
	}
	inner := width - 2
	if inner < 10 {
		inner = 10
	}
	border := BorderStyle()
	var b strings.Builder
	b.WriteString(border.Render("╭"+strings.Repeat("─", inner)+"╮") + "\n")
	for i := len(items) - 1; i >= 0; i-- {
		line := "  " + items[i].Display
		st := textStyle
		if i == sel {
			line = "› " + items[i].Display
			st = activeRowStyle
		}
		b.WriteString(border.Render("│") + zone.Mark(fmt.Sprintf("menu.item.%d", i), st.Render(fitLine(line, inner))) + border.Render("│") + "\n")
	}
	b.WriteString(border.Render("╰" + strings.Repeat("─", inner) + "╯"))
	return b.String()
}
