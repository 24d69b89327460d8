package terminal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/charmbracelet/x/xpty"

	"orbitshell/internal/config"
	"orbitshell/internal/system"
)

// readBufSize is the size of a single pty read.
const readBufSize = 4096

// SpawnError reports a failure to allocate the pty or start the shell.
type SpawnError struct {
	Op  string
	Err error
}

func (e *SpawnError) Error() string { return fmt.Sprintf("spawn shell: %s: %v", e.Op, e.Err) }

func (e *SpawnError) Unwrap() error { return e.Err }

// Options configures Open.
type Options struct {
	Cols, Rows int
	Dir        string

	// Shell and Args override the platform default shell.
	Shell string
	Args  []string

	Env config.Environment
	// BaseEnv is the child environment before orbitshell's additions;
	// nil inherits the current process environment.
	BaseEnv []string
	// Integration injects OSC 133/OSC 7 prompt reporting where supported.
	Integration bool
}

// Session owns a shell process attached to a pseudo-terminal.
type Session struct {
	pty  xpty.Pty
	cmd  *exec.Cmd
	in   chan []byte
	out  chan []byte
	quit chan struct{}
	done chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	exitErr   error
}

// Open allocates a pty of the given size and starts the shell in opts.Dir.
// The returned session streams output on Output until the shell exits.
func Open(opts Options) (*Session, error) {
	cols, rows := opts.Cols, opts.Rows
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}
	shell, args := opts.Shell, opts.Args
	if shell == "" {
		shell, args = DefaultShell(opts.Env)
	}

	p, err := xpty.NewPty(cols, rows)
	if err != nil {
		return nil, &SpawnError{Op: "open pty", Err: err}
	}

	cmd := exec.Command(shell, args...)
	cmd.Dir = opts.Dir
	base := opts.BaseEnv
	if base == nil {
		base = os.Environ()
	}
	cmd.Env = childEnv(base, shell, opts.Integration)
	setupCommand(cmd)

	if err := p.Start(cmd); err != nil {
		_ = p.Close()
		return nil, &SpawnError{Op: "start " + shell, Err: err}
	}
	// The parent drops its copy of the slave so reads hit EOF when the shell exits.
	if u, ok := p.(*xpty.UnixPty); ok {
		_ = u.Slave().Close()
	}
	// Some platforms only apply the size once the child is attached.
	_ = p.Resize(cols, rows)

	s := &Session{
		pty:  p,
		cmd:  cmd,
		in:   make(chan []byte),
		out:  make(chan []byte),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	system.Logger.Debug("pty opened", "shell", shell, "dir", opts.Dir, "cols", cols, "rows", rows)
	go s.readLoop()
	go forward(s.in, s.out, s.quit)
	go s.wait()
	return s, nil
}

func (s *Session) readLoop() {
	defer close(s.in)
	buf := make([]byte, readBufSize)
	for {
		n, err := s.pty.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.in <- chunk:
			case <-s.quit:
				return
			}
		}
		if err != nil {
			system.Logger.Debug("pty read ended", "err", err)
			return
		}
	}
}

// forward moves chunks from in to out through an unbounded queue, so the
// pty reader never waits on a slow consumer. It closes out once in is closed
// and drained, or as soon as quit is closed.
func forward(in <-chan []byte, out chan<- []byte, quit <-chan struct{}) {
	defer close(out)
	var queue [][]byte
	for in != nil || len(queue) > 0 {
		var send chan<- []byte
		var next []byte
		if len(queue) > 0 {
			send, next = out, queue[0]
		}
		select {
		case chunk, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			queue = append(queue, chunk)
		case send <- next:
			queue[0] = nil
			queue = queue[1:]
		case <-quit:
			return
		}
	}
}

func (s *Session) wait() {
	err := xpty.WaitProcess(context.Background(), s.cmd)
	s.mu.Lock()
	s.exitErr = err
	s.mu.Unlock()
	close(s.done)
	// ConPTY reads do not observe the child exiting.
	if runtime.GOOS == "windows" {
		_ = s.pty.Close()
	}
}

// Output yields raw chunks from the pty. It is closed at end of stream or
// once the session is closed.
func (s *Session) Output() <-chan []byte { return s.out }

// Done is closed once the shell process has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// ExitErr returns the process exit error after Done is closed.
func (s *Session) ExitErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitErr
}

// Write sends raw bytes to the shell. Failures mean the shell has gone away;
// they are logged and otherwise ignored.
func (s *Session) Write(b []byte) {
	if len(b) == 0 {
		return
	}
	if _, err := s.pty.Write(b); err != nil {
		system.Logger.Debug("pty write dropped", "err", err)
	}
}

// Resize updates the pty geometry.
func (s *Session) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	return s.pty.Resize(cols, rows)
}

// Close kills the shell if it is still running and releases the pty.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.quit)
		select {
		case <-s.done:
		default:
			if s.cmd.Process != nil {
				if kerr := s.cmd.Process.Kill(); kerr != nil && !errors.Is(kerr, os.ErrProcessDone) {
					err = kerr
				}
			}
		}
		if cerr := s.pty.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) && err == nil {
			err = cerr
		}
	})
	return err
}
