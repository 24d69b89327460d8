package ui

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"orbitshell/internal/search"
	"orbitshell/internal/store"
	"orbitshell/internal/system"
	"orbitshell/internal/terminal"
)

const maxChunkBatch = 64 * 1024

// readPTYCmd waits for the next output of s and drains whatever else is
// already queued so bursts render once.
func readPTYCmd(id string, s *terminal.Session) tea.Cmd {
	return func() tea.Msg {
		data, ok := <-s.Output()
		if !ok {
			<-s.Done()
			return ptyClosedMsg{tab: id, err: s.ExitErr()}
		}
	drain:
		for len(data) < maxChunkBatch {
			select {
			case more, ok := <-s.Output():
				if !ok {
					break drain
				}
				data = append(data, more...)
			default:
				break drain
			}
		}
		return ptyChunkMsg{tab: id, data: data}
	}
}

// writePTYCmd sends raw bytes to a tab's shell.
func writePTYCmd(s *terminal.Session, data []byte) tea.Cmd {
	return func() tea.Msg {
		s.Write(data)
		return nil
	}
}

func gitStatusCmd(id, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		st, ok := system.Status(ctx, dir)
		msg := gitStatusMsg{tab: id, status: st, ok: ok}
		if ok {
			msg.head, _ = system.HeadPath(ctx, dir)
		}
		return msg
	}
}

func gitChangesCmd(id, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return gitChangesMsg{tab: id, changes: system.Changes(ctx, dir)}
	}
}

func branchesCmd(id, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return branchesMsg{tab: id, branches: system.Branches(ctx, dir)}
	}
}

func loadRecentCmd(path string) tea.Cmd {
	return func() tea.Msg {
		items, err := store.LoadRecent(path)
		return recentMsg{items: items, err: err}
	}
}

// addRecentCmd records the project containing dir in the recent list.
func addRecentCmd(path, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := store.AddRecent(path, system.ProjectRoot(ctx, dir), time.Now()); err != nil {
			system.Logger.Warn("recent entries not saved", "path", path, "err", err)
		}
		return nil
	}
}

// searchSubscribeCmd waits for the next message from any search worker.
func searchSubscribeCmd(e *search.Engine) tea.Cmd {
	return func() tea.Msg { return searchMsg(<-e.Messages()) }
}

// startWatchCmd watches the parent directories of paths; git and editors
// replace files by rename, which a watch on the file itself would lose.
func startWatchCmd(paths ...string) tea.Cmd {
	return func() tea.Msg {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			system.Logger.Debug("fsnotify unavailable", "err", err)
			return nil
		}
		for _, p := range paths {
			if p != "" {
				_ = w.Add(filepath.Dir(p))
			}
		}
		ch := make(chan string, 8)
		go func() {
			for {
				select {
				case ev, ok := <-w.Events:
					if !ok {
						return
					}
					if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
						continue
					}
					select {
					case ch <- filepath.Clean(ev.Name):
					default:
					}
				case _, ok := <-w.Errors:
					if !ok {
						return
					}
				}
			}
		}()
		return watchStartedMsg{w: w, ch: ch}
	}
}

func watchSubscribeCmd(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		if ch == nil {
			return nil
		}
		p := <-ch
		time.Sleep(120 * time.Millisecond)
		return fileChangedMsg{path: p}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}
