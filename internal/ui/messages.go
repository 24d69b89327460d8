package ui

import (
	"time"

	"github.com/fsnotify/fsnotify"

	"orbitshell/internal/search"
	"orbitshell/internal/store"
	"orbitshell/internal/system"
)

// CwdChangedMsg is raised when a tab's shell reports a new working directory.
type CwdChangedMsg struct {
	Tab  string
	Path string
}

// OpenRepositoryMsg asks the owner to open Path as a new session root.
type OpenRepositoryMsg struct {
	Path string
}

// pty output for one tab; chunks read back-to-back are joined
type ptyChunkMsg struct {
	tab  string
	data []byte
}

type ptyClosedMsg struct {
	tab string
	err error
}

type tabOpenedMsg struct {
	t   *tab
	err error
}

type gitStatusMsg struct {
	tab    string
	status system.GitStatus
	ok     bool
	head   string
}

type gitChangesMsg struct {
	tab     string
	changes []system.GitChange
}

type branchesMsg struct {
	tab      string
	branches []string
}

type recentMsg struct {
	items []store.RecentEntry
	err   error
}

type searchMsg search.Message

type watchStartedMsg struct {
	w  *fsnotify.Watcher
	ch chan string
}

type fileChangedMsg struct{ path string }

type noticeMsg string

type tickMsg time.Time
