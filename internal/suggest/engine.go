package suggest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/patrickmn/go-cache"

	"orbitshell/internal/config"
	"orbitshell/internal/editor"
)

const (
	// commandScanTTL is the minimum interval between PATH rescans.
	commandScanTTL = 60 * time.Second
	dirCacheTTL    = 3 * time.Second
)

// HistorySource supplies newest-first history entries.
type HistorySource interface {
	Entries() []string
}

type dirEntry struct {
	name  string
	isDir bool
}

// Engine computes and holds the current suggestion list for one input field.
type Engine struct {
	history HistorySource
	env     config.Environment
	cwd     string
	now     func() time.Time

	dirs *cache.Cache

	commands []string
	lastScan time.Time
	lastPath string
	scanned  bool

	items []Item
	index int
}

// NewEngine returns an engine completing against history and env.
func NewEngine(history HistorySource, env config.Environment) *Engine {
	return &Engine{
		history: history,
		env:     env,
		now:     time.Now,
		dirs:    cache.New(dirCacheTTL, 4*dirCacheTTL),
	}
}

// SetCwd sets the directory relative path tokens resolve against.
func (e *Engine) SetCwd(dir string) { e.cwd = dir }

// Query ranks candidates for text with the caret at cursor (in runes).
func (e *Engine) Query(text string, cursor int) []Item {
	r := []rune(text)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(r) {
		cursor = len(r)
	}
	left, right := string(r[:cursor]), string(r[cursor:])
	if left == "" {
		return nil
	}

	var hist []Item
	if e.history != nil {
		for _, cmd := range e.history.Entries() {
			if cmd != left && strings.HasPrefix(cmd, left) {
				hist = append(hist, Item{Display: cmd, InsertText: cmd, Source: SourceHistory})
			}
		}
	}

	token := currentToken(left)
	var paths, cmds []Item
	switch {
	case IsPathToken(token):
		paths = e.pathItems(left, right, token)
	case token != "" && strings.TrimLeftFunc(left, unicode.IsSpace) == token:
		cmds = e.commandItems(left, right, token)
	}
	return dedupe(hist, paths, cmds)
}

func (e *Engine) pathItems(left, right, token string) []Item {
	dir, partial, sep := splitPathToken(token)
	entries := e.listDir(resolveDir(dir, e.cwd, e.env.HomeDir()))
	before := strings.TrimSuffix(left, token)

	var out []Item
	for _, ent := range entries {
		if !strings.HasPrefix(ent.name, partial) {
			continue
		}
		completed := dir + ent.name
		if ent.isDir {
			completed += string(sep)
		}
		out = append(out, Item{
			Display:    completed,
			InsertText: before + completed + right,
			Source:     SourcePath,
		})
	}
	return out
}

// listDir returns dir's entries, directories first, then names
// case-insensitively. Unreadable directories yield nothing.
func (e *Engine) listDir(dir string) []dirEntry {
	if v, ok := e.dirs.Get(dir); ok {
		return v.([]dirEntry)
	}
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	out := make([]dirEntry, 0, len(des))
	for _, d := range des {
		isDir := d.IsDir()
		if d.Type()&os.ModeSymlink != 0 {
			if fi, err := os.Stat(filepath.Join(dir, d.Name())); err == nil {
				isDir = fi.IsDir()
			}
		}
		out = append(out, dirEntry{name: d.Name(), isDir: isDir})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].isDir != out[j].isDir {
			return out[i].isDir
		}
		return strings.ToLower(out[i].name) < strings.ToLower(out[j].name)
	})
	e.dirs.Set(dir, out, cache.DefaultExpiration)
	return out
}

func (e *Engine) commandItems(left, right, token string) []Item {
	e.refreshCommands()
	lead := left[:len(left)-len(strings.TrimLeftFunc(left, unicode.IsSpace))]
	var out []Item
	for _, cmd := range e.commands {
		if cmd == token || !strings.HasPrefix(cmd, token) {
			continue
		}
		out = append(out, Item{Display: cmd, InsertText: lead + cmd + right, Source: SourceCommand})
	}
	return out
}

// refreshCommands rescans PATH at most once per TTL, and only when PATH
// differs from the last scanned value.
func (e *Engine) refreshCommands() {
	now := e.now()
	if e.scanned && now.Sub(e.lastScan) < commandScanTTL {
		return
	}
	e.lastScan = now
	if e.scanned && e.env.Path == e.lastPath {
		return
	}
	e.scanned = true
	e.lastPath = e.env.Path
	e.commands = ScanCommands(e.env)
}

// ScanCommands lists executables reachable through PATH, sorted and unique.
// On Windows only PATHEXT extensions count and the extension is dropped.
func ScanCommands(env config.Environment) []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	exts := env.ExecutableExts()
	windows := env.IsWindows()
	for _, dir := range env.PathList() {
		des, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, d := range des {
			name := d.Name()
			if windows {
				ext := strings.ToLower(filepath.Ext(name))
				for _, x := range exts {
					if ext == x {
						add(strings.TrimSuffix(name, filepath.Ext(name)))
						break
					}
				}
				continue
			}
			fi, err := os.Stat(filepath.Join(dir, name))
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
			add(name)
		}
	}
	sort.Strings(out)
	return out
}

// Refresh recomputes suggestions for b and resets the active index.
func (e *Engine) Refresh(b *editor.Buffer) {
	e.items = e.Query(b.Text(), b.Cursor())
	e.index = 0
}

// Clear drops the current suggestions.
func (e *Engine) Clear() {
	e.items = nil
	e.index = 0
}

// Items returns the current candidates.
func (e *Engine) Items() []Item { return e.items }

// Index returns the active candidate index.
func (e *Engine) Index() int { return e.index }

// Active returns the active candidate.
func (e *Engine) Active() (Item, bool) {
	if len(e.items) == 0 {
		return Item{}, false
	}
	return e.items[min(e.index, len(e.items)-1)], true
}

// Cycle moves the active candidate by step, wrapping around.
func (e *Engine) Cycle(step int) {
	n := len(e.items)
	if n == 0 {
		return
	}
	e.index = ((e.index+step)%n + n) % n
}

// Ghost returns the part of the active candidate not yet typed: the text that
// would appear at the caret. It is empty while a selection exists or when the
// candidate does not wrap the text around the caret.
func (e *Engine) Ghost(b *editor.Buffer) string {
	if b.HasSelection() || b.Empty() {
		return ""
	}
	item, ok := e.Active()
	if !ok {
		return ""
	}
	return ghost(item.InsertText, b.TextBeforeCursor(), b.TextAfterCursor())
}

func ghost(candidate, left, right string) string {
	if !strings.HasPrefix(candidate, left) || !strings.HasSuffix(candidate, right) {
		return ""
	}
	start, end := len(left), len(candidate)-len(right)
	if end <= start {
		return ""
	}
	return candidate[start:end]
}

// HasSuggestion reports whether Accept would change b.
func (e *Engine) HasSuggestion(b *editor.Buffer) bool {
	if b.HasSelection() {
		return false
	}
	if e.Ghost(b) != "" {
		return true
	}
	item, ok := e.Active()
	return ok && item.InsertText != b.Text()
}

// Accept applies the active candidate to b and re-queries. It inserts the
// ghost text at the caret when there is one and otherwise replaces the line.
func (e *Engine) Accept(b *editor.Buffer) bool {
	if g := e.Ghost(b); g != "" {
		b.InsertText(g)
		e.Refresh(b)
		return true
	}
	item, ok := e.Active()
	if !ok || item.InsertText == b.Text() {
		return false
	}
	b.SetText(item.InsertText)
	e.Refresh(b)
	return true
}
