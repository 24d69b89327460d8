package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"orbitshell/internal/editor"
)

// renderStatusBarStyled draws a segmented status bar. The first left part is
// a highlighted key chip; the rest are colored nuggets. Parts are dropped from
// the end when the bar is too narrow.
func renderStatusBarStyled(width int, leftParts, rightParts []string) string {
	w := width
	if w <= 0 {
		w = 100
	}
	bar := StatusBarBase()
	keyStyle := ChipKeyStyle().Inherit(bar).MarginRight(1)
	nugget := lipgloss.NewStyle().Foreground(Vitesse.OnAccent).Padding(0, 1)
	colors := []lipgloss.Color{Vitesse.Primary, Vitesse.Blue, Vitesse.Yellow, Vitesse.Magenta}

	left := make([]string, 0, len(leftParts))
	for i, s := range leftParts {
		if i == 0 {
			left = append(left, keyStyle.Render(s))
			continue
		}
		left = append(left, lipgloss.NewStyle().Inherit(bar).Padding(0, 1).Render(s))
	}
	right := make([]string, 0, len(rightParts))
	for i, s := range rightParts {
		right = append(right, nugget.Background(colors[i%len(colors)]).Render(s))
	}

	join := func(parts []string) (string, int) {
		s := strings.Join(parts, "")
		return s, xansi.StringWidth(s)
	}
	leftStr, lw := join(left)
	rightStr, rw := join(right)
	for lw+rw > w && len(left) > 1 {
		left = left[:len(left)-1]
		leftStr, lw = join(left)
	}
	for lw+rw > w && len(right) > 0 {
		right = right[:len(right)-1]
		rightStr, rw = join(right)
	}
	center := lipgloss.NewStyle().Inherit(bar).Width(max(0, w-lw-rw)).Render("")
	return bar.Width(w).Render(leftStr + center + rightStr)
}

type inputCell struct {
	text  string
	width int
	style *lipgloss.Style
}

// renderInputLine renders b into at most width cells: selection highlighted,
// the caret shown when focused and ghost text inserted at the caret. The view
// scrolls horizontally to keep the caret visible.
func renderInputLine(b *editor.Buffer, ghost string, width int, focused bool) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(b.Text())
	cur := b.Cursor()
	selStart, selEnd, hasSel := b.SelectionBounds()

	var cells []inputCell
	add := func(r rune, st *lipgloss.Style) {
		cells = append(cells, inputCell{text: string(r), width: max(1, runewidth.RuneWidth(r)), style: st})
	}
	caret := 0
	for i, r := range runes {
		if i == cur {
			caret = len(cells)
			for _, g := range ghost {
				add(g, &ghostStyle)
			}
		}
		if hasSel && i >= selStart && i < selEnd {
			add(r, &selectionStyle)
		} else {
			add(r, &textStyle)
		}
	}
	if cur >= len(runes) {
		caret = len(cells)
		for _, g := range ghost {
			add(g, &ghostStyle)
		}
		if ghost == "" {
			add(' ', &textStyle)
		}
	}

	// horizontal scroll so the caret fits
	start := 0
	used := 0
	for i := 0; i <= caret && i < len(cells); i++ {
		used += cells[i].width
	}
	for used > width && start < caret {
		used -= cells[start].width
		start++
	}

	var sb strings.Builder
	total := 0
	for i := start; i < len(cells); i++ {
		c := cells[i]
		if total+c.width > width {
			break
		}
		total += c.width
		st := *c.style
		if focused && i == caret {
			st = st.Inherit(cursorStyle).Reverse(true)
		}
		sb.WriteString(st.Render(c.text))
	}
	return sb.String()
}

// renderInputUI draws the bordered input box at the given width.
func renderInputUI(width int, prompt, content string, focused bool) string {
	w := width
	if w <= 0 {
		w = 100
	}
	if w < 10 {
		w = 10
	}
	inner := w - 2
	border := BorderStyle()
	if focused {
		border = lipgloss.NewStyle().Foreground(Vitesse.Primary)
	}
	line := prompt + content
	if xansi.StringWidth(line) > inner {
		line = xansi.Truncate(line, inner, "")
	}
	pad := inner - xansi.StringWidth(line)

	var sb strings.Builder
	sb.WriteString(border.Render("╭"+strings.Repeat("─", inner)+"╮") + "\n")
	sb.WriteString(border.Render("│"))
	sb.WriteString(line)
	if pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	sb.WriteString(border.Render("│") + "\n")
	sb.WriteString(border.Render("╰" + strings.Repeat("─", inner) + "╯"))
	return sb.String()
}

// fitLine truncates or pads s to exactly width cells.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) > width {
		s = xansi.Truncate(s, width, "…")
	}
	if pad := width - xansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
