package ui

import (
	"fmt"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"orbitshell/internal/blocks"
)

// renderLineBudget caps how many output lines are laid out per frame; older
// lines stay in the scrollback but are not rendered.
const renderLineBudget = 2000

// renderBlocks lays out the blocks of t, newest last. The trailing partial
// line is shown only while a command is running.
func renderBlocks(t *tab, width int) string {
	if width <= 0 {
		width = 80
	}
	var lines []string
	for _, b := range t.proc.Blocks() {
		lines = append(lines, blockHeader(b, width))
		for _, ln := range b.Lines() {
			lines = append(lines, styleLine(ln, b.HasError, width))
		}
		lines = append(lines, "")
	}
	if t.proc.Running() {
		if p := t.proc.Partial(); p != "" {
			if len(lines) > 0 && lines[len(lines)-1] == "" {
				lines = lines[:len(lines)-1]
			}
			lines = append(lines, styleLine(p, false, width))
		}
	}
	if t.exited {
		msg := "shell exited"
		if t.exitErr != nil {
			msg += ": " + t.exitErr.Error()
		}
		lines = append(lines, mutedStyle.Render(msg))
	}
	if len(lines) > renderLineBudget {
		lines = lines[len(lines)-renderLineBudget:]
	}
	return strings.Join(lines, "\n")
}

// blockHeader is marked with the block id; clicking it recalls the command.
func blockHeader(b *blocks.Block, width int) string {
	if b.Command == "" {
		return mutedStyle.Render(truncate("… "+contextLabel(b.Context), width))
	}
	head := AccentBold().Render("❯ ") + commandStyle.Render(b.Command)
	if b.HasExitCode && b.ExitCode != 0 {
		head += " " + errorStyle.Render(fmt.Sprintf("[%d]", b.ExitCode))
	}
	if ctx := contextLabel(b.Context); ctx != "" {
		head += "  " + mutedStyle.Render(ctx)
	}
	if !b.StartedAt.IsZero() {
		head += "  " + mutedStyle.Render(b.StartedAt.Format("15:04:05"))
	}
	return zone.Mark(blockZone(b), truncate(head, width))
}

func blockZone(b *blocks.Block) string { return "block." + b.ID }

// contextLabel is "cwd (branch)" for the captured context.
func contextLabel(ctx *blocks.Context) string {
	if ctx == nil {
		return ""
	}
	s := ctx.Cwd
	if ctx.Status != nil && ctx.Status.Branch != "" {
		s += " (" + ctx.Status.Branch + ")"
	}
	return s
}

func styleLine(line string, blockHasError bool, width int) string {
	line = truncate(line, width)
	switch blocks.Classify(line, blockHasError) {
	case blocks.LineError:
		return errorStyle.Render(line)
	case blocks.LineDirHeader:
		return headerStyle.Render(line)
	}
	return textStyle.Render(line)
}

func truncate(s string, width int) string {
	if width <= 0 || xansi.StringWidth(s) <= width {
		return s
	}
	return xansi.Truncate(s, width, "…")
}

// syncViewport re-renders t into its viewport, following the tail unless the
// user scrolled away.
func (m *model) syncViewport(t *tab) {
	if t == nil {
		return
	}
	t.view.SetContent(renderBlocks(t, t.view.Width))
	if t.follow {
		t.view.GotoBottom()
	}
}
