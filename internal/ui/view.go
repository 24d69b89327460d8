package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	appver "orbitshell/internal/version"
)

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	t := m.activeTab()
	mainW, mainH, sideW := m.layout()

	body := lipgloss.NewStyle().Width(mainW).Height(mainH).Render("")
	if t != nil {
		body = lipgloss.NewStyle().Width(mainW).Height(mainH).MaxHeight(mainH).Render(t.view.View())
	}
	// overlays take the bottom rows of the block area
	overlay := ""
	switch {
	case m.picker != nil:
		overlay = renderPicker(mainW, m.picker)
	case t != nil && t.menu.IsOpen():
		overlay = renderHistoryMenu(mainW, t.menu.Items(), t.menu.Index())
	}
	if overlay != "" {
		rows := strings.Split(body, "\n")
		drop := min(len(rows), lipgloss.Height(overlay))
		body = strings.Join(append(rows[drop:], overlay), "\n")
	} else {
		body = zone.Mark("blocks", body)
	}

	var main strings.Builder
	main.WriteString(m.renderTabBar(mainW))
	main.WriteString("\n")
	main.WriteString(body)
	main.WriteString("\n")
	main.WriteString(m.renderInput(t, mainW))

	out := main.String()
	if sideW > 0 {
		side := m.renderSidebar(sideW, lipgloss.Height(out))
		out = lipgloss.JoinHorizontal(lipgloss.Top, out, side)
	}
	out += "\n" + m.renderStatusBarLine()
	if m.help.ShowAll {
		out += "\n" + m.help.View(keys)
	}
	return zone.Scan(out)
}

func (m *model) renderInput(t *tab, width int) string {
	if t == nil {
		return renderInputUI(width, "", "", false)
	}
	prompt := AccentBold().Render("❯ ")
	if t.proc.Running() {
		prompt = m.spinner.View() + " "
	}
	focused := m.focus == focusInput && m.picker == nil
	ghost := ""
	if focused {
		ghost = t.sugg.Ghost(t.input)
	}
	line := renderInputLine(t.input, ghost, max(1, width-4), focused)
	return zone.Mark("input", renderInputUI(width, prompt, line, focused))
}

func (m *model) renderTabBar(width int) string {
	var parts []string
	for i, id := range m.order {
		t := m.tabs[id]
		label := fmt.Sprintf(" %d %s ", i+1, t.title())
		if t.exited {
			label = fmt.Sprintf(" %d %s ✕ ", i+1, t.title())
		}
		st := mutedStyle
		if id == m.active {
			st = ChipKeyStyle()
		}
		parts = append(parts, zone.Mark("tab."+id, st.Render(label)))
	}
	parts = append(parts, zone.Mark("tab.new", mutedStyle.Render(" + ")))
	return fitLine(strings.Join(parts, " "), width)
}

// renderStatusBarLine builds the status bar under the input: the mode or a
// transient notice on the left, repository state and version on the right.
func (m *model) renderStatusBarLine() string {
	left := []string{"shell"}
	if m.focus == focusSearch {
		left[0] = "search"
	}
	if m.picker != nil {
		left[0] = "pick"
	}
	if m.notice != "" {
		left = append(left, m.notice)
	} else {
		left = append(left, m.help.ShortHelpView(keys.ShortHelp()))
	}

	var right []string
	if t := m.activeTab(); t != nil && t.inRepo {
		if t.status.Branch != "" {
			right = append(right, "⎇ "+t.status.Branch)
		}
		if t.status.FilesChanged > 0 {
			right = append(right, fmt.Sprintf("+%d ~%d -%d", t.status.Added, t.status.Modified, t.status.Deleted))
		}
	}
	right = append(right, "v"+appver.AppVersion)
	return renderStatusBarStyled(m.width, left, right)
}
