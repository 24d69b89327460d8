package history

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"orbitshell/internal/config"
)

// ParseFunc extracts commands from a history file in file order (oldest first).
type ParseFunc func(r io.Reader) ([]string, error)

// Source is one place commands are imported from at startup.
type Source struct {
	Name string
	// Read returns commands newest-first.
	Read func() ([]string, error)
}

// FileSource reads path with parse and reverses the result to newest-first.
func FileSource(name, path string, parse ParseFunc) Source {
	return Source{
		Name: name,
		Read: func() ([]string, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			cmds, err := parse(f)
			if err != nil {
				return nil, err
			}
			reverse(cmds)
			return cmds, nil
		},
	}
}

const doskeyTimeout = 2 * time.Second

// DoskeySource lists cmd.exe history through `doskey /history`.
func DoskeySource(comSpec string) Source {
	if comSpec == "" {
		comSpec = "cmd"
	}
	return Source{
		Name: "doskey",
		Read: func() ([]string, error) {
			ctx, cancel := context.WithTimeout(context.Background(), doskeyTimeout)
			defer cancel()
			out, err := exec.CommandContext(ctx, comSpec, "/c", "doskey", "/history").Output()
			if err != nil {
				return nil, err
			}
			cmds, err := ParsePlain(strings.NewReader(string(out)))
			if err != nil {
				return nil, err
			}
			reverse(cmds)
			return cmds, nil
		},
	}
}

// DefaultSources returns the application log followed by the platform's
// shell histories. The application log always comes first so its entries win
// dedup precedence.
func DefaultSources(env config.Environment, appLog string) []Source {
	var out []Source
	if appLog != "" {
		out = append(out, FileSource("orbitshell", appLog, ParsePlain))
	}
	if env.IsWindows() {
		if env.AppData != "" {
			out = append(out,
				FileSource("powershell", filepath.Join(env.AppData, "Microsoft", "Windows", "PowerShell", "PSReadLine", "ConsoleHost_history.txt"), ParsePlain),
				FileSource("pwsh", filepath.Join(env.AppData, "Microsoft", "PowerShell", "PSReadLine", "ConsoleHost_history.txt"), ParsePlain),
			)
		}
		return append(out, DoskeySource(env.ComSpec))
	}
	home := env.HomeDir()
	if home == "" {
		return out
	}
	return append(out,
		FileSource("bash", filepath.Join(home, ".bash_history"), ParsePlain),
		FileSource("zsh", filepath.Join(home, ".zsh_history"), ParseZsh),
		FileSource("fish", filepath.Join(home, ".config", "fish", "fish_history"), ParseFish),
	)
}

// ParsePlain reads one command per line, skipping blank lines.
func ParsePlain(r io.Reader) ([]string, error) {
	return scanLines(r, func(line string) (string, bool) {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			return "", false
		}
		return line, true
	})
}

// ParseZsh reads zsh history, dropping the ": <time>:<elapsed>;" prefix of
// extended-history lines.
func ParseZsh(r io.Reader) ([]string, error) {
	return scanLines(r, func(line string) (string, bool) {
		line = strings.TrimSpace(line)
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[i+1:]
		}
		line = strings.TrimSpace(line)
		return line, line != ""
	})
}

// ParseFish reads the "- cmd:" entries of fish's YAML-like history.
func ParseFish(r io.Reader) ([]string, error) {
	return scanLines(r, func(line string) (string, bool) {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, "- cmd:")
		if !ok {
			rest, ok = strings.CutPrefix(line, "cmd:")
		}
		if !ok {
			return "", false
		}
		rest = strings.TrimSpace(rest)
		return rest, rest != ""
	})
}

func scanLines(r io.Reader, keep func(string) (string, bool)) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	var out []string
	for sc.Scan() {
		if cmd, ok := keep(sc.Text()); ok {
			out = append(out, cmd)
		}
	}
	return out, sc.Err()
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
