package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Environment carries the process environment the shell front-end depends on.
// It is read once at startup and handed to constructors explicitly so the
// core packages never consult os.Getenv themselves.
type Environment struct {
	Shell       string `envconfig:"SHELL"`
	Home        string `envconfig:"HOME"`
	UserProfile string `envconfig:"USERPROFILE"`
	Path        string `envconfig:"PATH"`
	PathExt     string `envconfig:"PATHEXT"`
	AppData     string `envconfig:"APPDATA"`
	XDGDataHome string `envconfig:"XDG_DATA_HOME"`
	ComSpec     string `envconfig:"COMSPEC"`

	// GOOS defaults to runtime.GOOS; tests override it.
	GOOS string `ignored:"true"`
}

// LoadEnvironment reads the Environment from the current process.
func LoadEnvironment() (Environment, error) {
	var env Environment
	if err := envconfig.Process("", &env); err != nil {
		return Environment{}, fmt.Errorf("read environment: %w", err)
	}
	env.GOOS = runtime.GOOS
	return env, nil
}

// IsWindows reports whether the environment describes a Windows host.
func (e Environment) IsWindows() bool {
	if e.GOOS == "" {
		return runtime.GOOS == "windows"
	}
	return e.GOOS == "windows"
}

// HomeDir returns the user's home directory, preferring USERPROFILE on
// Windows and HOME elsewhere.
func (e Environment) HomeDir() string {
	first, second := e.Home, e.UserProfile
	if e.IsWindows() {
		first, second = e.UserProfile, e.Home
	}
	if strings.TrimSpace(first) != "" {
		return first
	}
	return strings.TrimSpace(second)
}

// PathList splits the PATH value using the host list separator.
func (e Environment) PathList() []string {
	sep := ":"
	if e.IsWindows() {
		sep = ";"
	}
	var out []string
	for _, p := range strings.Split(e.Path, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ExecutableExts returns the lower-cased PATHEXT list on Windows.
func (e Environment) ExecutableExts() []string {
	raw := e.PathExt
	if raw == "" {
		raw = ".COM;.EXE;.BAT;.CMD"
	}
	var out []string
	for _, ext := range strings.Split(raw, ";") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}
