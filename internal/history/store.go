// Package history keeps the command history shown in suggestions and the
// history menu. Entries are newest-first; the application log is append-only.
package history

import (
	"os"
	"path/filepath"

	"orbitshell/internal/system"
)

// DefaultCapacity bounds the in-memory history.
const DefaultCapacity = 2000

// Store is a bounded, newest-first list of commands.
type Store struct {
	entries  []string
	capacity int
	logPath  string
}

// New returns an empty store that appends pushed commands to logPath.
// An empty logPath disables persistence.
func New(logPath string) *Store {
	return NewWithCapacity(logPath, DefaultCapacity)
}

// NewWithCapacity is New with an explicit bound.
func NewWithCapacity(logPath string, capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity, logPath: logPath}
}

// Load merges sources in order. Each source yields newest-first entries;
// the first occurrence of a command wins, so earlier sources take precedence.
// A failing source is logged and skipped.
func (s *Store) Load(sources ...Source) {
	seen := make(map[string]struct{}, len(s.entries))
	for _, e := range s.entries {
		seen[e] = struct{}{}
	}
	for _, src := range sources {
		items, err := src.Read()
		if err != nil {
			if !os.IsNotExist(err) {
				system.Logger.Debug("history source skipped", "source", src.Name, "err", err)
			}
			continue
		}
		for _, cmd := range items {
			if len(s.entries) >= s.capacity {
				return
			}
			if _, dup := seen[cmd]; dup {
				continue
			}
			seen[cmd] = struct{}{}
			s.entries = append(s.entries, cmd)
		}
	}
}

// Push records cmd as the newest entry. Repeating the current front entry is
// a no-op; non-adjacent duplicates are kept.
func (s *Store) Push(cmd string) {
	if cmd == "" {
		return
	}
	if len(s.entries) > 0 && s.entries[0] == cmd {
		return
	}
	s.entries = append(s.entries, "")
	copy(s.entries[1:], s.entries)
	s.entries[0] = cmd
	if len(s.entries) > s.capacity {
		s.entries = s.entries[:s.capacity]
	}
	if err := s.appendLog(cmd); err != nil {
		system.Logger.Warn("history append failed", "path", s.logPath, "err", err)
	}
}

func (s *Store) appendLog(cmd string) error {
	if s.logPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.logPath), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(s.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(cmd + "\n"); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Entries returns the history newest-first. Callers must not modify it.
func (s *Store) Entries() []string { return s.entries }

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// LogPath is the file pushed commands are appended to.
func (s *Store) LogPath() string { return s.logPath }

// WithPrefix returns up to limit entries starting with prefix, excluding
// entries equal to it. limit <= 0 means no limit.
func (s *Store) WithPrefix(prefix string, limit int) []string {
	var out []string
	for _, e := range s.entries {
		if e == prefix || len(e) < len(prefix) || e[:len(prefix)] != prefix {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
