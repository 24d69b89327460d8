package ui

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/google/uuid"

	"orbitshell/internal/blocks"
	"orbitshell/internal/config"
	"orbitshell/internal/editor"
	"orbitshell/internal/history"
	"orbitshell/internal/suggest"
	"orbitshell/internal/system"
	"orbitshell/internal/terminal"
)

// tab is one shell session with its blocks and input line. Tabs never
// reference the model; the model routes messages to them by id.
type tab struct {
	id      string
	session *terminal.Session
	proc    *blocks.Processor
	input   *editor.Buffer
	sugg    *suggest.Engine
	menu    suggest.Menu
	view    viewport.Model
	follow  bool

	status   system.GitStatus
	inRepo   bool
	headPath string
	changes  []system.GitChange

	exited  bool
	exitErr error
}

type tabSpec struct {
	dir        string
	cols, rows int
}

func openTab(cfg Config, hist *history.Store, ts tabSpec) (*tab, error) {
	s, err := terminal.Open(terminal.Options{
		Cols:        ts.cols,
		Rows:        ts.rows,
		Dir:         ts.dir,
		Shell:       cfg.Shell,
		Args:        cfg.ShellArgs,
		Env:         cfg.Env,
		Integration: !cfg.NoIntegration,
	})
	if err != nil {
		return nil, err
	}
	opts := blocks.DefaultOptions
	opts.Enter = blocks.EnterFor(cfg.Env.IsWindows())
	t := &tab{
		id:      uuid.NewString(),
		session: s,
		proc:    blocks.NewProcessor(ts.dir, opts),
		input:   editor.New(""),
		sugg:    suggest.NewEngine(hist, cfg.Env),
		view:    viewport.New(ts.cols, ts.rows),
		follow:  true,
	}
	t.sugg.SetCwd(ts.dir)
	return t, nil
}

// title is the last element of the working directory.
func (t *tab) title() string {
	cwd := t.proc.Cwd()
	if cwd == "" {
		return "shell"
	}
	base := filepath.Base(cwd)
	if base == "." || base == string(filepath.Separator) {
		return cwd
	}
	return base
}

// snapshot captures the context stored with a newly issued command.
func (t *tab) snapshot() blocks.Context {
	ctx := blocks.Context{Cwd: t.proc.Cwd()}
	if t.inRepo {
		st := t.status
		ctx.Status = &st
	}
	return ctx
}

// submit issues cmd to the shell and resets the input line.
func (t *tab) submit(cmd string, hist *history.Store) {
	if c := trimCommand(cmd); c != "" && hist != nil {
		hist.Push(c)
	}
	t.session.Write(t.proc.Submit(cmd, t.snapshot()))
	t.input.SetText("")
	t.sugg.Clear()
	t.menu.Close()
	t.follow = true
}

func (t *tab) close() {
	if err := t.session.Close(); err != nil {
		system.Logger.Debug("close session", "tab", t.id, "err", err)
	}
}

// Config is what the UI needs from the application.
type Config struct {
	Env           config.Environment
	Rules         config.Rules
	RulesPath     string
	History       *history.Store
	RecentPath    string
	Cwd           string
	Shell         string
	ShellArgs     []string
	NoIntegration bool
}
