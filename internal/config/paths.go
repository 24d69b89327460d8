package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const appName = "orbitshell"

// ErrNoHome is returned when neither a config nor a data directory can be derived.
var ErrNoHome = errors.New("cannot determine home directory")

// Dir returns the orbitshell config directory under the user config base.
// On Linux, this typically resolves to $XDG_CONFIG_HOME/orbitshell; on macOS
// to ~/Library/Application Support/orbitshell; and on Windows to %AppData%/orbitshell.
// Falls back to HOME when UserConfigDir is unavailable.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil || strings.TrimSpace(base) == "" {
		if home, herr := os.UserHomeDir(); herr == nil {
			base = home
		} else {
			return "", ErrNoHome
		}
	}
	return filepath.Join(base, appName), nil
}

// DataDir returns the directory holding history, recent entries and logs.
// Order: APPDATA, XDG_DATA_HOME, then HOME/.local/share.
func DataDir(env Environment) (string, error) {
	switch {
	case strings.TrimSpace(env.AppData) != "":
		return filepath.Join(env.AppData, appName), nil
	case strings.TrimSpace(env.XDGDataHome) != "":
		return filepath.Join(env.XDGDataHome, appName), nil
	}
	home := env.HomeDir()
	if home == "" {
		return "", ErrNoHome
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// HistoryPath is the application's append-only command log.
func HistoryPath(env Environment) (string, error) {
	dir, err := DataDir(env)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.txt"), nil
}

// RecentPath is the recent-entries JSON file.
func RecentPath(env Environment) (string, error) {
	dir, err := DataDir(env)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "recent.json"), nil
}

// LogPath is where the TUI writes its log while it owns the terminal.
func LogPath(env Environment) (string, error) {
	dir, err := DataDir(env)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".log"), nil
}
