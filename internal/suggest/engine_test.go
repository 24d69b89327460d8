package suggest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orbitshell/internal/config"
	"orbitshell/internal/editor"
	"orbitshell/internal/history"
	tu "orbitshell/internal/testutil"
)

func newHistory(newestFirst ...string) *history.Store {
	h := history.New("")
	for i := len(newestFirst) - 1; i >= 0; i-- {
		h.Push(newestFirst[i])
	}
	return h
}

func TestHistoryPrefixRanksFirst(t *testing.T) {
	h := newHistory("git status", "git commit -m x")
	e := NewEngine(h, config.Environment{GOOS: "linux"})
	b := editor.New("git s")
	e.Refresh(b)

	item, ok := e.Active()
	require.True(t, ok)
	assert.Equal(t, "git status", item.InsertText)
	assert.Equal(t, SourceHistory, item.Source)
	assert.Equal(t, "tatus", e.Ghost(b))
}

func TestEmptyPrefixHasNoSuggestions(t *testing.T) {
	e := NewEngine(newHistory("ls"), config.Environment{GOOS: "linux"})
	assert.Empty(t, e.Query("", 0))
	assert.Empty(t, e.Query("ls", 0))
}

func TestExactHistoryMatchExcluded(t *testing.T) {
	e := NewEngine(newHistory("ls", "ls -la"), config.Environment{GOOS: "linux"})
	items := e.Query("ls", 2)
	require.Len(t, items, 1)
	assert.Equal(t, "ls -la", items[0].InsertText)
}

func TestPathCompletionDirsFirst(t *testing.T) {
	root := t.TempDir()
	tu.WriteTree(t, root, map[string]string{
		"src/main.go":  "",
		"Scripts/a.sh": "",
		"setup.py":     "",
		"README.md":    "",
	})
	e := NewEngine(nil, config.Environment{GOOS: "linux"})
	e.SetCwd(root)

	items := e.Query("cat ./s", 7)
	var got []string
	for _, it := range items {
		assert.Equal(t, SourcePath, it.Source)
		got = append(got, it.InsertText)
	}
	assert.Equal(t, []string{"cat ./src/", "cat ./setup.py"}, got)

	items = e.Query("ls ./", 5)
	require.Len(t, items, 4)
	assert.Equal(t, "./Scripts/", items[0].Display)
	assert.Equal(t, "./src/", items[1].Display)
	assert.Equal(t, "./README.md", items[2].Display)
	assert.Equal(t, "./setup.py", items[3].Display)
}

func TestPathCompletionMidLine(t *testing.T) {
	root := t.TempDir()
	tu.WriteTree(t, root, map[string]string{"docs/guide.md": ""})
	e := NewEngine(nil, config.Environment{GOOS: "linux"})
	e.SetCwd(root)

	b := editor.New("cp ./do /tmp")
	b.SetCursor(7)
	e.Refresh(b)
	item, ok := e.Active()
	require.True(t, ok)
	assert.Equal(t, "cp ./docs/ /tmp", item.InsertText)
	assert.Equal(t, "cs/", e.Ghost(b))

	require.True(t, e.Accept(b))
	assert.Equal(t, "cp ./docs/ /tmp", b.Text())
	assert.Equal(t, 10, b.Cursor())
}

func TestTildeExpansion(t *testing.T) {
	home := t.TempDir()
	tu.WriteTree(t, home, map[string]string{"projects/x/.keep": ""})
	e := NewEngine(nil, config.Environment{Home: home, GOOS: "linux"})
	items := e.Query("cd ~/pro", 8)
	require.Len(t, items, 1)
	assert.Equal(t, "cd ~/projects/", items[0].InsertText)
}

func TestCommandCompletionFirstTokenOnly(t *testing.T) {
	bin := t.TempDir()
	tu.WriteTree(t, bin, map[string]string{"gofmt": "", "gopls": "", "git": ""})
	require.NoError(t, os.Mkdir(filepath.Join(bin, "gotools"), 0o755))

	e := NewEngine(nil, config.Environment{Path: bin, GOOS: "linux"})
	items := e.Query("go", 2)
	var got []string
	for _, it := range items {
		assert.Equal(t, SourceCommand, it.Source)
		got = append(got, it.InsertText)
	}
	assert.Equal(t, []string{"gofmt", "gopls"}, got)

	assert.Empty(t, e.Query("echo go", 7))
}

func TestCommandRescanHonoursTTLAndPathChange(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	tu.WriteTree(t, a, map[string]string{"alpha": ""})
	tu.WriteTree(t, b, map[string]string{"alpine": ""})

	now := time.Unix(1000, 0)
	e := NewEngine(nil, config.Environment{Path: a, GOOS: "linux"})
	e.now = func() time.Time { return now }

	require.Len(t, e.Query("al", 2), 1)

	e.env = config.Environment{Path: b, GOOS: "linux"}
	now = now.Add(30 * time.Second)
	assert.Equal(t, "alpha", e.Query("al", 2)[0].InsertText, "within TTL the old listing stays")

	now = now.Add(31 * time.Second)
	assert.Equal(t, "alpine", e.Query("al", 2)[0].InsertText)
}

func TestScanCommandsWindows(t *testing.T) {
	bin := t.TempDir()
	tu.WriteTree(t, bin, map[string]string{"git.EXE": "", "notes.txt": "", "build.cmd": ""})
	got := ScanCommands(config.Environment{Path: bin, GOOS: "windows"})
	assert.Equal(t, []string{"build", "git"}, got)
}

func TestDedupeKeepsFirstSource(t *testing.T) {
	bin := t.TempDir()
	tu.WriteTree(t, bin, map[string]string{"gitk": ""})
	e := NewEngine(newHistory("gitk"), config.Environment{Path: bin, GOOS: "linux"})
	items := e.Query("gi", 2)
	require.Len(t, items, 1)
	assert.Equal(t, SourceHistory, items[0].Source)
}

func TestCycleAndAcceptReplace(t *testing.T) {
	e := NewEngine(newHistory("make test", "make build"), config.Environment{GOOS: "linux"})
	b := editor.New("make")
	e.Refresh(b)
	require.Len(t, e.Items(), 2)
	e.Cycle(1)
	item, _ := e.Active()
	assert.Equal(t, "make build", item.InsertText)
	e.Cycle(-1)
	assert.Equal(t, 0, e.Index())
	e.Cycle(-1)
	assert.Equal(t, 1, e.Index())

	require.True(t, e.Accept(b))
	assert.Equal(t, "make build", b.Text())
}

func TestGhostHiddenWithSelection(t *testing.T) {
	e := NewEngine(newHistory("git status"), config.Environment{GOOS: "linux"})
	b := editor.New("git")
	e.Refresh(b)
	assert.Equal(t, " status", e.Ghost(b))
	b.SelectAll()
	assert.Equal(t, "", e.Ghost(b))
	assert.False(t, e.HasSuggestion(b))
}

func TestIsPathToken(t *testing.T) {
	for _, tok := range []string{"./a", "../a", "~", `.\a`, `..\a`, "a/b", `a\b`, `C:\x`, "c:/x", `\\server\share`} {
		assert.True(t, IsPathToken(tok), tok)
	}
	for _, tok := range []string{"", "git", "C:", "a.b"} {
		assert.False(t, IsPathToken(tok), tok)
	}
}
