package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"orbitshell/internal/config"
	"orbitshell/internal/history"
	"orbitshell/internal/store"
	"orbitshell/internal/system"
	"orbitshell/internal/ui"
)

// Options are the command-line settings for a session.
type Options struct {
	Cwd           string
	Shell         string
	Args          []string
	RulesPath     string
	LogFile       string
	Debug         bool
	NoIntegration bool
}

// Workspace is what every entry point resolves before doing work.
type Workspace struct {
	Env         config.Environment
	Cwd         string
	Rules       config.Rules
	RulesPath   string
	HistoryPath string
	RecentPath  string
}

// Load resolves the environment, working directory, rules and data paths.
// A malformed rules file is logged and replaced by the defaults.
func Load(opts Options) (*Workspace, error) {
	env, err := config.LoadEnvironment()
	if err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	system.SetDebug(opts.Debug)

	cwd := opts.Cwd
	if cwd == "" {
		if cwd, err = os.Getwd(); err != nil {
			return nil, err
		}
	}
	if cwd, err = filepath.Abs(cwd); err != nil {
		return nil, err
	}
	if fi, err := os.Stat(cwd); err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", cwd)
	}

	ws := &Workspace{Env: env, Cwd: cwd}
	ws.RulesPath = config.ResolveRulesPath(opts.RulesPath, cwd)
	ws.Rules, err = config.LoadRules(ws.RulesPath)
	if err != nil {
		system.Logger.Warn("rules file invalid, using defaults", "path", ws.RulesPath, "err", err)
	}
	// without a data directory history and recent entries stay in memory
	if ws.HistoryPath, err = config.HistoryPath(env); err != nil {
		system.Logger.Warn("no data directory", "err", err)
	}
	ws.RecentPath, _ = config.RecentPath(env)
	return ws, nil
}

// History loads the merged command history, newest first.
func (w *Workspace) History() *history.Store {
	h := history.New(w.HistoryPath)
	h.Load(history.DefaultSources(w.Env, w.HistoryPath)...)
	system.Logger.Debug("history loaded", "entries", h.Len())
	return h
}

// Start runs the TUI program and returns any error.
func Start(opts Options) error {
	ws, err := Load(opts)
	if err != nil {
		return err
	}
	logFile := opts.LogFile
	if logFile == "" {
		if logFile, err = config.LogPath(ws.Env); err != nil {
			logFile = filepath.Join(os.TempDir(), "orbitshell.log")
		}
	}
	// the TUI owns the terminal; logs go to a file until it exits
	closeLog, err := system.SetLogFile(logFile)
	if err != nil {
		return fmt.Errorf("open log %s: %w", logFile, err)
	}
	defer func() { _ = closeLog() }()
	system.Logger.Info("starting", "cwd", ws.Cwd, "rules", ws.RulesPath)

	if ws.RecentPath != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		root := system.ProjectRoot(ctx, ws.Cwd)
		cancel()
		if _, err := store.AddRecent(ws.RecentPath, root, time.Now()); err != nil {
			system.Logger.Warn("recent entries not saved", "path", ws.RecentPath, "err", err)
		}
	}

	zone.NewGlobal()
	m, err := ui.New(ui.Config{
		Env:           ws.Env,
		Rules:         ws.Rules,
		RulesPath:     ws.RulesPath,
		History:       ws.History(),
		RecentPath:    ws.RecentPath,
		Cwd:           ws.Cwd,
		Shell:         opts.Shell,
		ShellArgs:     opts.Args,
		NoIntegration: opts.NoIntegration,
	})
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if final != nil {
		ui.Shutdown(final)
	} else {
		ui.Shutdown(m)
	}
	return err
}
