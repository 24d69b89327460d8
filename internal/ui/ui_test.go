package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orbitshell/internal/blocks"
	"orbitshell/internal/config"
	"orbitshell/internal/editor"
	"orbitshell/internal/history"
	"orbitshell/internal/search"
	"orbitshell/internal/store"
	"orbitshell/internal/suggest"
	"orbitshell/internal/system"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestEditKeyTyping(t *testing.T) {
	b := editor.New("")
	for _, k := range []tea.KeyMsg{runes("gi"), runes("t"), {Type: tea.KeySpace}, runes("st")} {
		require.True(t, editKey(b, k))
	}
	assert.Equal(t, "git st", b.Text())

	require.True(t, editKey(b, tea.KeyMsg{Type: tea.KeyBackspace}))
	assert.Equal(t, "git s", b.Text())

	require.True(t, editKey(b, tea.KeyMsg{Type: tea.KeyCtrlW}))
	assert.Equal(t, "git ", b.Text())

	require.True(t, editKey(b, tea.KeyMsg{Type: tea.KeyCtrlA}))
	assert.Equal(t, "git ", b.SelectedText())
	require.True(t, editKey(b, runes("x")))
	assert.Equal(t, "x", b.Text())

	assert.False(t, editKey(b, tea.KeyMsg{Type: tea.KeyF5}))
	assert.False(t, editKey(b, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q"), Alt: true}))
}

func TestEditKeyMotion(t *testing.T) {
	b := editor.New("cd src")
	require.True(t, editKey(b, tea.KeyMsg{Type: tea.KeyHome}))
	assert.Equal(t, 0, b.Cursor())
	require.True(t, editKey(b, tea.KeyMsg{Type: tea.KeyShiftRight}))
	require.True(t, editKey(b, tea.KeyMsg{Type: tea.KeyShiftRight}))
	assert.Equal(t, "cd", b.SelectedText())
	require.True(t, editKey(b, tea.KeyMsg{Type: tea.KeyEnd}))
	assert.False(t, b.HasSelection())
	require.True(t, editKey(b, tea.KeyMsg{Type: tea.KeyCtrlU}))
	assert.Equal(t, "", b.Text())
}

func TestKeyToPTYBytes(t *testing.T) {
	assert.Equal(t, []byte{0x03}, keyToPTYBytes(tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.Equal(t, []byte{0x04}, keyToPTYBytes(tea.KeyMsg{Type: tea.KeyCtrlD}))
	assert.Equal(t, []byte("\x1b[A"), keyToPTYBytes(tea.KeyMsg{Type: tea.KeyUp}))
	assert.Nil(t, keyToPTYBytes(runes("a")))
}

func TestPickerFilter(t *testing.T) {
	p := newPicker(pickBranch, "branches", "t1", []string{"main", "feature/login", "fix/logout"})
	require.Len(t, p.shown, 3)
	assert.Equal(t, "main", p.shown[0].value)

	p.input.SetText("log")
	p.filter()
	got := make([]string, 0, len(p.shown))
	for _, r := range p.shown {
		got = append(got, r.value)
		assert.NotEmpty(t, r.matched)
	}
	assert.ElementsMatch(t, []string{"feature/login", "fix/logout"}, got)

	p.move(-1)
	assert.Equal(t, len(p.shown)-1, p.index)
	p.move(1)
	assert.Equal(t, 0, p.index)

	p.input.SetText("zzz")
	p.filter()
	_, ok := p.selected()
	assert.False(t, ok)
}

func TestRenderInputLine(t *testing.T) {
	b := editor.New("git s")
	out := xansi.Strip(renderInputLine(b, "tatus", 40, true))
	assert.Equal(t, "git status", out)

	// the caret stays visible when the line is wider than the field
	b = editor.New(strings.Repeat("a", 30) + "END")
	out = xansi.Strip(renderInputLine(b, "", 10, true))
	assert.LessOrEqual(t, xansi.StringWidth(out), 10)
	assert.Contains(t, out, "END")

	b = editor.New("日本語")
	out = xansi.Strip(renderInputLine(b, "", 5, false))
	assert.LessOrEqual(t, xansi.StringWidth(out), 5)

	assert.Equal(t, "", renderInputLine(b, "", 0, true))
}

func newTestTab(cwd string) *tab {
	return &tab{
		id:    "t1",
		proc:  blocks.NewProcessor(cwd, blocks.DefaultOptions),
		input: editor.New(""),
		sugg:  suggest.NewEngine(nil, config.Environment{GOOS: "linux"}),
		view:  viewport.New(60, 10),
	}
}

// newTestModel holds one tab without a shell session; the sidebar starts
// open so no key path resizes the missing pty.
func newTestModel(t *testing.T) (*model, *tab) {
	t.Helper()
	tb := newTestTab("/work")
	m := &model{
		cfg:         Config{RecentPath: filepath.Join(t.TempDir(), "recent.json")},
		history:     history.New(""),
		tabs:        map[string]*tab{tb.id: tb},
		order:       []string{tb.id},
		active:      tb.id,
		searchInput: editor.New(""),
		search:      search.NewEngine(),
		help:        help.New(),
		sidebarOpen: true,
	}
	return m, tb
}

func TestRenderBlocks(t *testing.T) {
	tb := newTestTab("/work")
	tb.proc.Submit("make", blocks.Context{Cwd: "/work", Status: &system.GitStatus{Branch: "main"}})
	tb.proc.Feed([]byte("make\nbuilding\nerror: boom\n"))
	tb.proc.Feed([]byte("still going"))

	out := xansi.Strip(renderBlocks(tb, 60))
	assert.Contains(t, out, "❯ make")
	assert.Contains(t, out, tb.proc.Blocks()[0].StartedAt.Format("15:04:05"))
	assert.Contains(t, out, "/work (main)")
	assert.Contains(t, out, "building")
	assert.Contains(t, out, "error: boom")
	assert.Contains(t, out, "still going")
	assert.NotContains(t, out, "\nmake\n")

	for _, ln := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, xansi.StringWidth(ln), 60)
	}
}

func TestRenderBlocksExited(t *testing.T) {
	tb := newTestTab("/work")
	tb.exited = true
	assert.Contains(t, xansi.Strip(renderBlocks(tb, 40)), "shell exited")
}

func TestStatusBarFitsWidth(t *testing.T) {
	out := renderStatusBarStyled(30, []string{"shell", "a long notice that will not fit"}, []string{"main", "+1 ~2 -0", "v0.1.0"})
	assert.Equal(t, 30, xansi.StringWidth(out))
	assert.Contains(t, xansi.Strip(out), "shell")
}

func TestFitLine(t *testing.T) {
	assert.Equal(t, "ab  ", fitLine("ab", 4))
	assert.Equal(t, 4, xansi.StringWidth(fitLine("abcdefgh", 4)))
	assert.Equal(t, "", fitLine("abc", 0))
}

func TestSwitchTabWraps(t *testing.T) {
	m := &model{tabs: map[string]*tab{}}
	for _, id := range []string{"a", "b", "c"} {
		tb := newTestTab("/")
		tb.id = id
		m.tabs[id] = tb
		m.order = append(m.order, id)
	}
	m.active = "a"
	m.switchTab(-1)
	assert.Equal(t, "c", m.active)
	m.switchTab(1)
	assert.Equal(t, "a", m.active)
}

func TestOutputReportsCwdChange(t *testing.T) {
	m, tb := newTestModel(t)

	cmd := m.applyOutput(tb, []byte("\x1b]7;file://box/tmp/notes#1\x07"))
	require.NotNil(t, cmd)
	assert.Equal(t, CwdChangedMsg{Tab: "t1", Path: "/tmp/notes#1"}, cmd())

	cmd = m.applyOutput(tb, []byte(`PS C:\Users\me> `))
	require.NotNil(t, cmd)
	assert.Equal(t, CwdChangedMsg{Tab: "t1", Path: `C:\Users\me`}, cmd())
	assert.Equal(t, `C:\Users\me`, tb.proc.Cwd())

	// plain output changes nothing the model has to follow up on
	assert.Nil(t, m.applyOutput(tb, []byte("hello\r\n")))

	_, next := m.Update(CwdChangedMsg{Tab: "t1", Path: `C:\Users\me`})
	assert.NotNil(t, next)
	_, next = m.Update(CwdChangedMsg{Tab: "gone", Path: "/x"})
	assert.Nil(t, next)
}

func TestRecentPickerOpensRepository(t *testing.T) {
	m, tb := newTestModel(t)
	dir := t.TempDir()
	m.picker = newPicker(pickRecent, "recent", tb.id, []string{dir})

	cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, OpenRepositoryMsg{Path: dir}, cmd())
	assert.Nil(t, m.picker)
}

func TestRecentPickerDropsMissingDirectory(t *testing.T) {
	m, tb := newTestModel(t)
	gone := filepath.Join(t.TempDir(), "gone")
	_, err := store.AddRecent(m.cfg.RecentPath, gone, time.Unix(100, 0))
	require.NoError(t, err)
	m.picker = newPicker(pickRecent, "recent", tb.id, []string{gone})

	assert.Nil(t, m.handleKey(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Contains(t, m.notice, "no longer exists")
	items, err := store.LoadRecent(m.cfg.RecentPath)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTabWithoutSuggestion(t *testing.T) {
	m, tb := newTestModel(t)

	// an empty line passes Tab through to the shell
	assert.NotNil(t, m.handleKey(tea.KeyMsg{Type: tea.KeyTab}))

	tb.input.SetText("zzqx")
	assert.Nil(t, m.handleKey(tea.KeyMsg{Type: tea.KeyTab}))
	assert.Equal(t, "zzqx", tb.input.Text())
}

func TestSearchSeedsFromSelection(t *testing.T) {
	m, tb := newTestModel(t)
	tb.input.SetText("grep needle")
	require.True(t, editKey(tb.input, tea.KeyMsg{Type: tea.KeyEnd}))
	for range len("needle") {
		require.True(t, editKey(tb.input, tea.KeyMsg{Type: tea.KeyShiftLeft}))
	}
	require.Equal(t, "needle", tb.input.SelectedText())

	m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.Equal(t, focusSearch, m.focus)
	assert.Equal(t, "needle", m.searchInput.Text())
	assert.NotZero(t, m.results.Gen())
}
