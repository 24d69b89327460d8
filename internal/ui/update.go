package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"orbitshell/internal/config"
	"orbitshell/internal/search"
	"orbitshell/internal/store"
	"orbitshell/internal/system"
)

// gitPollInterval refreshes the active tab's status even without a trigger,
// catching changes made outside the session.
const gitPollInterval = 10 * time.Second

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resizeAll()
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case ptyChunkMsg:
		t, ok := m.tabs[msg.tab]
		if !ok {
			return m, nil
		}
		return m, tea.Batch(readPTYCmd(t.id, t.session), m.applyOutput(t, msg.data))
	case ptyClosedMsg:
		t, ok := m.tabs[msg.tab]
		if !ok {
			return m, nil
		}
		t.exited, t.exitErr = true, msg.err
		system.Logger.Info("shell exited", "tab", t.id, "err", msg.err)
		m.syncViewport(t)
		m.setNotice("shell exited; ctrl+w closes the tab")
		return m, nil
	case CwdChangedMsg:
		t, ok := m.tabs[msg.Tab]
		if !ok {
			return m, nil
		}
		t.sugg.SetCwd(msg.Path)
		t.sugg.Refresh(t.input)
		var cmd tea.Cmd
		if m.focus == focusSearch && msg.Tab == m.active && !m.searchInput.Empty() {
			cmd = m.startSearch()
		}
		return m, tea.Batch(m.refreshGit(t), cmd)
	case OpenRepositoryMsg:
		return m, tea.Batch(addRecentCmd(m.cfg.RecentPath, msg.Path), m.openTabCmd(msg.Path))
	case tabOpenedMsg:
		if msg.err != nil {
			system.Logger.Error("open tab", "err", msg.err)
			m.setNotice("could not open shell: " + msg.err.Error())
			return m, nil
		}
		m.addTab(msg.t)
		return m, tea.Batch(readPTYCmd(msg.t.id, msg.t.session), m.refreshGit(msg.t))

	case gitStatusMsg:
		t, ok := m.tabs[msg.tab]
		if !ok {
			return m, nil
		}
		t.status, t.inRepo = msg.status, msg.ok
		if !msg.ok {
			t.changes = nil
			t.headPath = ""
			return m, nil
		}
		if msg.head != "" && msg.head != t.headPath {
			t.headPath = filepath.Clean(msg.head)
			m.watch(t.headPath)
		}
		if m.sidebarOpen {
			return m, gitChangesCmd(t.id, t.proc.Cwd())
		}
		return m, nil
	case gitChangesMsg:
		if t, ok := m.tabs[msg.tab]; ok {
			t.changes = msg.changes
		}
		return m, nil
	case branchesMsg:
		if len(msg.branches) == 0 {
			m.setNotice("no branches")
			return m, nil
		}
		m.picker = newPicker(pickBranch, "branches", msg.tab, msg.branches)
		return m, nil
	case recentMsg:
		if msg.err != nil {
			system.Logger.Warn("recent entries unreadable", "path", m.cfg.RecentPath, "err", msg.err)
		}
		if len(msg.items) == 0 {
			m.setNotice("no recent directories")
			return m, nil
		}
		paths := make([]string, 0, len(msg.items))
		for _, it := range msg.items {
			paths = append(paths, it.Path)
		}
		m.picker = newPicker(pickRecent, "recent", m.active, paths)
		return m, nil

	case searchMsg:
		if m.results.Apply(search.Message(msg)) {
			if n := len(m.results.Items()); m.resultIndex >= n {
				m.resultIndex = max(0, n-1)
			}
		}
		return m, searchSubscribeCmd(m.search)

	case watchStartedMsg:
		m.watcher, m.watchCh = msg.w, msg.ch
		for _, t := range m.tabs {
			m.watch(t.headPath)
		}
		return m, watchSubscribeCmd(m.watchCh)
	case fileChangedMsg:
		return m, tea.Batch(m.fileChanged(msg.path), watchSubscribeCmd(m.watchCh))

	case noticeMsg:
		m.setNotice(string(msg))
		return m, nil
	case tickMsg:
		m.now = time.Time(msg)
		if m.notice != "" && m.now.After(m.noticeUntil) {
			m.notice = ""
		}
		cmds := []tea.Cmd{tickCmd()}
		if t := m.activeTab(); t != nil && m.now.Sub(m.lastGit) >= gitPollInterval {
			cmds = append(cmds, m.refreshGit(t))
		}
		return m, tea.Batch(cmds...)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applyOutput feeds shell output to t and returns the follow-up it calls for:
// a CwdChangedMsg when the shell reported a new directory, otherwise a status
// refresh when a command finished.
func (m *model) applyOutput(t *tab, data []byte) tea.Cmd {
	up := t.proc.Feed(data)
	m.syncViewport(t)
	switch {
	case up.CwdChanged:
		id, cwd := t.id, up.Cwd
		return func() tea.Msg { return CwdChangedMsg{Tab: id, Path: cwd} }
	case up.RefreshStatus:
		return m.refreshGit(t)
	}
	return nil
}

func (m *model) refreshGit(t *tab) tea.Cmd {
	m.lastGit = time.Now()
	cmds := []tea.Cmd{gitStatusCmd(t.id, t.proc.Cwd())}
	if m.sidebarOpen && t.id == m.active {
		cmds = append(cmds, gitChangesCmd(t.id, t.proc.Cwd()))
	}
	return tea.Batch(cmds...)
}

// watch adds the directory of path to the file watcher.
func (m *model) watch(path string) {
	if m.watcher == nil || path == "" {
		return
	}
	if err := m.watcher.Add(filepath.Dir(path)); err != nil {
		system.Logger.Debug("watch", "path", path, "err", err)
	}
}

// fileChanged reloads the rules file or refreshes the tabs whose HEAD moved.
func (m *model) fileChanged(path string) tea.Cmd {
	var cmds []tea.Cmd
	if m.cfg.RulesPath != "" && path == filepath.Clean(m.cfg.RulesPath) {
		rules, err := config.LoadRules(m.cfg.RulesPath)
		if err != nil {
			system.Logger.Warn("rules file invalid, using defaults", "path", path, "err", err)
			m.setNotice("rules file invalid, using defaults")
		} else {
			m.setNotice("rules reloaded")
		}
		m.rules = rules
		if m.focus == focusSearch && !m.searchInput.Empty() {
			cmds = append(cmds, m.startSearch())
		}
	}
	for _, t := range m.tabs {
		if t.headPath != "" && t.headPath == path {
			cmds = append(cmds, m.refreshGit(t))
		}
	}
	return tea.Batch(cmds...)
}

func (m *model) openTabCmd(dir string) tea.Cmd {
	cfg, hist := m.cfg, m.history
	w, h, _ := m.layout()
	return func() tea.Msg {
		t, err := openTab(cfg, hist, tabSpec{dir: dir, cols: w, rows: h})
		return tabOpenedMsg{t: t, err: err}
	}
}

func (m *model) closeTab(id string) tea.Cmd {
	if !m.removeTab(id) {
		m.quitting = true
		return tea.Quit
	}
	t := m.activeTab()
	m.syncViewport(t)
	return m.refreshGit(t)
}

func (m *model) handleKey(k tea.KeyMsg) tea.Cmd {
	if key.Matches(k, keys.Quit) {
		m.quitting = true
		return tea.Quit
	}
	if m.picker != nil {
		return m.pickerKey(k)
	}
	switch {
	case key.Matches(k, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizeAll()
		return nil
	case key.Matches(k, keys.Search):
		if m.focus == focusSearch {
			m.focus = focusInput
			return nil
		}
		m.focus = focusSearch
		t := m.activeTab()
		var cmds []tea.Cmd
		// a selection in the command line seeds the query
		if t != nil && t.input.HasSelection() {
			if sel := strings.TrimSpace(t.input.SelectedText()); sel != "" && !strings.Contains(sel, "\n") {
				m.searchInput.SetText(sel)
				cmds = append(cmds, m.startSearch())
			}
		}
		if !m.sidebarOpen {
			m.sidebarOpen = true
			m.resizeAll()
			if t != nil {
				cmds = append(cmds, m.refreshGit(t))
			}
		}
		return tea.Batch(cmds...)
	case key.Matches(k, keys.Sidebar):
		m.sidebarOpen = !m.sidebarOpen
		if !m.sidebarOpen {
			m.focus = focusInput
		}
		m.resizeAll()
		if t := m.activeTab(); t != nil && m.sidebarOpen {
			return m.refreshGit(t)
		}
		return nil
	}
	if m.focus == focusSearch {
		return m.searchKey(k)
	}
	return m.inputKey(k)
}

func (m *model) inputKey(k tea.KeyMsg) tea.Cmd {
	t := m.activeTab()
	if t == nil {
		return nil
	}
	switch {
	case key.Matches(k, keys.NewTab):
		return m.openTabCmd(t.proc.Cwd())
	case key.Matches(k, keys.CloseTab) && (t.input.Empty() || t.exited):
		return m.closeTab(t.id)
	case key.Matches(k, keys.PrevTab):
		m.switchTab(-1)
		return m.refreshGit(m.activeTab())
	case key.Matches(k, keys.NextTab):
		m.switchTab(1)
		return m.refreshGit(m.activeTab())
	case key.Matches(k, keys.Branches):
		if !t.inRepo {
			m.setNotice("not a git repository")
			return nil
		}
		return branchesCmd(t.id, t.proc.Cwd())
	case key.Matches(k, keys.Recent):
		return loadRecentCmd(m.cfg.RecentPath)
	case key.Matches(k, keys.Interrupt):
		if !t.input.Empty() {
			m.resetInput(t)
			return nil
		}
		return writePTYCmd(t.session, keyToPTYBytes(k))
	case key.Matches(k, keys.Clear):
		t.proc.Clear()
		m.syncViewport(t)
		return nil
	case key.Matches(k, keys.ScrollUp):
		t.view.ScrollUp(max(1, t.view.Height-1))
		t.follow = false
		return nil
	case key.Matches(k, keys.ScrollDown):
		t.view.ScrollDown(max(1, t.view.Height-1))
		t.follow = t.view.AtBottom()
		return nil
	case key.Matches(k, keys.History):
		t.menu.Step(k.String() == "up", m.history, t.input.Text())
		return nil
	case key.Matches(k, keys.Submit):
		if item, ok := t.menu.Selected(); ok {
			t.input.SetText(item.InsertText)
			t.menu.Close()
			t.sugg.Refresh(t.input)
			return nil
		}
		if t.exited {
			m.setNotice("shell exited; ctrl+w closes the tab")
			return nil
		}
		t.submit(t.input.Text(), m.history)
		m.syncViewport(t)
		return nil
	case key.Matches(k, keys.Accept):
		if !t.sugg.HasSuggestion(t.input) {
			// nothing to complete: an empty line hands Tab to the shell
			if t.input.Empty() && !t.exited {
				return writePTYCmd(t.session, []byte{'\t'})
			}
			return nil
		}
		if t.sugg.Accept(t.input) {
			t.menu.Refresh(m.history, t.input.Text())
		}
		return nil
	case key.Matches(k, keys.CycleNext):
		t.sugg.Cycle(1)
		return nil
	case key.Matches(k, keys.CyclePrev):
		t.sugg.Cycle(-1)
		return nil
	}

	switch k.String() {
	case "esc":
		switch {
		case t.menu.IsOpen():
			t.menu.Close()
		case t.input.HasSelection():
			t.input.ClearSelection()
		default:
			t.sugg.Clear()
		}
		return nil
	case "right":
		if t.input.Cursor() == t.input.Len() && !t.input.HasSelection() && t.sugg.Accept(t.input) {
			return nil
		}
	case "ctrl+d", "ctrl+z", "ctrl+\\":
		if t.input.Empty() {
			return writePTYCmd(t.session, keyToPTYBytes(k))
		}
	}

	before := t.input.Text()
	if !editKey(t.input, k) {
		return nil
	}
	if t.input.Text() != before {
		t.sugg.Refresh(t.input)
		t.menu.Refresh(m.history, t.input.Text())
	}
	return nil
}

func (m *model) resetInput(t *tab) {
	t.input.SetText("")
	t.sugg.Clear()
	t.menu.Close()
}

func (m *model) searchKey(k tea.KeyMsg) tea.Cmd {
	switch k.String() {
	case "esc":
		m.focus = focusInput
		return nil
	case "up":
		m.resultIndex = max(0, m.resultIndex-1)
		return nil
	case "down":
		m.resultIndex = min(max(0, len(m.results.Items())-1), m.resultIndex+1)
		return nil
	case "enter":
		m.insertResult(m.resultIndex)
		return nil
	}
	before := m.searchInput.Text()
	if editKey(m.searchInput, k) && m.searchInput.Text() != before {
		return m.startSearch()
	}
	return nil
}

// startSearch supersedes any running scan with one for the current query,
// rooted at the active tab's directory.
func (m *model) startSearch() tea.Cmd {
	m.resultIndex = 0
	q := strings.TrimSpace(m.searchInput.Text())
	t := m.activeTab()
	if q == "" || t == nil {
		m.search.Cancel()
		m.results.Begin(m.search.Current(), m.rules.SearchLimit)
		if t != nil {
			return m.refreshGit(t)
		}
		return nil
	}
	gen := m.search.Start(t.proc.Cwd(), q, m.rules)
	m.results.Begin(gen, m.rules.SearchLimit)
	return nil
}

// insertResult types the path of result i at the caret of the command input.
func (m *model) insertResult(i int) {
	items := m.results.Items()
	if m.searchInput.Empty() {
		m.insertChange(i)
		return
	}
	if i < 0 || i >= len(items) {
		return
	}
	m.insertPath(m.relPath(items[i].Path))
}

func (m *model) insertChange(i int) {
	t := m.activeTab()
	if t == nil || i < 0 || i >= len(t.changes) {
		return
	}
	m.insertPath(t.changes[i].Path)
}

func (m *model) insertPath(p string) {
	t := m.activeTab()
	if t == nil {
		return
	}
	if strings.ContainsAny(p, " \t'\"") {
		p = strconv.Quote(p)
	}
	if left := t.input.TextBeforeCursor(); left != "" && !strings.HasSuffix(left, " ") {
		p = " " + p
	}
	t.input.InsertText(p)
	t.sugg.Refresh(t.input)
	m.focus = focusInput
}

func (m *model) pickerKey(k tea.KeyMsg) tea.Cmd {
	p := m.picker
	switch k.String() {
	case "esc":
		m.picker = nil
		return nil
	case "up", "ctrl+p":
		p.move(-1)
		return nil
	case "down", "ctrl+n":
		p.move(1)
		return nil
	case "enter":
		return m.choose()
	}
	if editKey(p.input, k) {
		p.filter()
	}
	return nil
}

// choose applies the picker selection and closes the picker.
func (m *model) choose() tea.Cmd {
	p := m.picker
	m.picker = nil
	v, ok := p.selected()
	if !ok {
		return nil
	}
	switch p.kind {
	case pickBranch:
		t, ok := m.tabs[p.tab]
		if !ok || t.exited {
			return nil
		}
		t.submit(system.SwitchCommand(v), m.history)
		m.syncViewport(t)
	case pickRecent:
		if fi, err := os.Stat(v); err != nil || !fi.IsDir() {
			if _, rerr := store.RemoveRecent(m.cfg.RecentPath, v); rerr != nil {
				system.Logger.Warn("recent entries not saved", "path", m.cfg.RecentPath, "err", rerr)
			}
			m.setNotice("directory no longer exists: " + v)
			return nil
		}
		return func() tea.Msg { return OpenRepositoryMsg{Path: v} }
	}
	return nil
}

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	t := m.activeTab()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if t != nil && zone.Get("blocks").InBounds(msg) {
			t.view.ScrollUp(3)
			t.follow = false
		}
		return nil
	case tea.MouseButtonWheelDown:
		if t != nil && zone.Get("blocks").InBounds(msg) {
			t.view.ScrollDown(3)
			t.follow = t.view.AtBottom()
		}
		return nil
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	if p := m.picker; p != nil {
		for i := range p.shown {
			if zone.Get(fmt.Sprintf("picker.item.%d", i)).InBounds(msg) {
				p.index = i
				return m.choose()
			}
		}
		return nil
	}
	if t != nil && t.menu.IsOpen() {
		for i, it := range t.menu.Items() {
			if zone.Get(fmt.Sprintf("menu.item.%d", i)).InBounds(msg) {
				t.input.SetText(it.InsertText)
				t.menu.Close()
				t.sugg.Refresh(t.input)
				return nil
			}
		}
	}
	if zone.Get("tab.new").InBounds(msg) && t != nil {
		return m.openTabCmd(t.proc.Cwd())
	}
	for _, id := range m.order {
		if zone.Get("tab." + id).InBounds(msg) {
			if id != m.active {
				m.active = id
				m.syncViewport(m.activeTab())
				return m.refreshGit(m.activeTab())
			}
			return nil
		}
	}
	if t != nil && zone.Get("blocks").InBounds(msg) {
		for _, b := range t.proc.Blocks() {
			if b.Command != "" && zone.Get(blockZone(b)).InBounds(msg) {
				t.input.SetText(b.Command)
				t.sugg.Refresh(t.input)
				t.menu.Close()
				m.focus = focusInput
				return nil
			}
		}
	}
	if zone.Get("input").InBounds(msg) {
		m.focus = focusInput
		return nil
	}
	if zone.Get("search.input").InBounds(msg) {
		m.focus = focusSearch
		return nil
	}
	if m.sidebarOpen {
		for i := range m.results.Items() {
			if zone.Get(fmt.Sprintf("search.result.%d", i)).InBounds(msg) {
				m.resultIndex = i
				m.insertResult(i)
				return nil
			}
		}
		if t != nil {
			for i := range t.changes {
				if zone.Get(fmt.Sprintf("change.%d", i)).InBounds(msg) {
					m.insertChange(i)
					return nil
				}
			}
		}
	}
	return nil
}
