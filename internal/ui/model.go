package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"orbitshell/internal/config"
	"orbitshell/internal/editor"
	"orbitshell/internal/history"
	"orbitshell/internal/search"
	"orbitshell/internal/system"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusSearch
)

// Model for TUI
type model struct {
	cfg     Config
	rules   config.Rules
	history *history.Store

	// tabs by id; order is the tab bar order
	tabs   map[string]*tab
	order  []string
	active string

	width  int
	height int
	focus  focusArea

	// sidebar: search box and results, or git changes when the query is empty
	sidebarOpen bool
	searchInput *editor.Buffer
	search      *search.Engine
	results     search.Results
	resultIndex int
	spinner     spinner.Model

	picker *picker

	watcher *fsnotify.Watcher
	watchCh chan string

	help        help.Model
	notice      string
	noticeUntil time.Time
	lastGit     time.Time
	now         time.Time
	quitting    bool
}

// New opens the first tab in cfg.Cwd and returns the program model.
func New(cfg Config) (tea.Model, error) {
	if cfg.History == nil {
		cfg.History = history.New("")
	}
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(Vitesse.Primary)

	m := &model{
		cfg:         cfg,
		rules:       cfg.Rules,
		history:     cfg.History,
		tabs:        map[string]*tab{},
		searchInput: editor.New(""),
		search:      search.NewEngine(),
		spinner:     sp,
		help:        help.New(),
		now:         time.Now(),
	}
	t, err := openTab(cfg, m.history, tabSpec{dir: cfg.Cwd, cols: 80, rows: 20})
	if err != nil {
		return nil, err
	}
	m.addTab(t)
	return m, nil
}

func (m *model) Init() tea.Cmd {
	t := m.activeTab()
	return tea.Batch(
		readPTYCmd(t.id, t.session),
		gitStatusCmd(t.id, t.proc.Cwd()),
		searchSubscribeCmd(m.search),
		startWatchCmd(m.cfg.RulesPath),
		tickCmd(),
		m.spinner.Tick,
	)
}

// Shutdown closes every session held by a model returned from tea.Program.Run.
func Shutdown(tm tea.Model) {
	m, ok := tm.(*model)
	if !ok {
		return
	}
	for _, t := range m.tabs {
		t.close()
	}
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
}

func (m *model) activeTab() *tab { return m.tabs[m.active] }

func (m *model) addTab(t *tab) {
	m.tabs[t.id] = t
	m.order = append(m.order, t.id)
	m.active = t.id
	m.resizeTab(t)
}

// removeTab closes id and activates its neighbour. It reports false when no
// tab is left.
func (m *model) removeTab(id string) bool {
	t, ok := m.tabs[id]
	if !ok {
		return len(m.tabs) > 0
	}
	t.close()
	delete(m.tabs, id)
	idx := m.tabIndex(id)
	m.order = append(m.order[:idx], m.order[idx+1:]...)
	if len(m.order) == 0 {
		m.active = ""
		return false
	}
	if m.active == id {
		m.active = m.order[min(idx, len(m.order)-1)]
	}
	return true
}

func (m *model) tabIndex(id string) int {
	for i, v := range m.order {
		if v == id {
			return i
		}
	}
	return -1
}

// switchTab moves the active tab by step, wrapping.
func (m *model) switchTab(step int) {
	n := len(m.order)
	if n < 2 {
		return
	}
	i := m.tabIndex(m.active)
	m.active = m.order[((i+step)%n+n)%n]
	m.syncViewport(m.activeTab())
}

// layout returns the block area size.
func (m *model) layout() (mainW, mainH, sideW int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	if m.sidebarOpen {
		sideW = max(24, w/3)
		if sideW > w-20 {
			sideW = 0
		}
	}
	mainW = w - sideW
	// tab bar, input box (3), status bar
	rows := h - 1 - 3 - 1
	if m.help.ShowAll {
		rows -= lipgloss.Height(m.help.View(keys))
	}
	mainH = max(3, rows)
	return mainW, mainH, sideW
}

func (m *model) resizeTab(t *tab) {
	w, h, _ := m.layout()
	t.view.Width = w
	t.view.Height = h
	if err := t.session.Resize(w, h); err != nil {
		system.Logger.Debug("pty resize", "tab", t.id, "err", err)
	}
	m.syncViewport(t)
}

// noticeTTL is how long a notice replaces the key hints in the status bar.
const noticeTTL = 4 * time.Second

func (m *model) setNotice(s string) {
	m.notice = s
	m.noticeUntil = time.Now().Add(noticeTTL)
}

func (m *model) resizeAll() {
	for _, t := range m.tabs {
		m.resizeTab(t)
	}
}

func trimCommand(s string) string { return strings.TrimSpace(s) }
