package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"
)

// RulesFileName is looked up in the session root and the config directory.
const RulesFileName = "orbitshell_rules.json"

// Rules controls what the file search skips and how much it returns.
type Rules struct {
	SkipDirs    []string `mapstructure:"skip_dirs" json:"skip_dirs" jsonschema:"description=Directory names (or globs) never descended into. Case-insensitive."`
	SkipFiles   []string `mapstructure:"skip_files" json:"skip_files" jsonschema:"description=File names (or globs) never searched. Case-insensitive."`
	MaxFileKB   int      `mapstructure:"max_file_kb" json:"max_file_kb" jsonschema:"description=Files larger than this many KiB are skipped,minimum=1"`
	SearchLimit int      `mapstructure:"search_limit" json:"search_limit" jsonschema:"description=Maximum number of results kept per search,minimum=1"`
}

// DefaultRules returns the built-in rules used when no file is present or it is malformed.
func DefaultRules() Rules {
	return Rules{
		SkipDirs:    []string{".git", "node_modules", "target", "dist", ".next"},
		SkipFiles:   []string{},
		MaxFileKB:   512,
		SearchLimit: 200,
	}
}

// LoadRules reads a rules file. A missing file yields the defaults and a nil
// error; a malformed file yields the defaults together with the parse error so
// the caller can log it.
func LoadRules(path string) (Rules, error) {
	def := DefaultRules()
	if strings.TrimSpace(path) == "" {
		return def, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return def, nil
		}
		return def, err
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault("skip_dirs", def.SkipDirs)
	v.SetDefault("skip_files", def.SkipFiles)
	v.SetDefault("max_file_kb", def.MaxFileKB)
	v.SetDefault("search_limit", def.SearchLimit)
	if err := v.ReadInConfig(); err != nil {
		return def, fmt.Errorf("read rules %s: %w", path, err)
	}
	var r Rules
	if err := v.Unmarshal(&r); err != nil {
		return def, fmt.Errorf("decode rules %s: %w", path, err)
	}
	return r.normalized(), nil
}

// ResolveRulesPath picks the rules file for a session: an explicit path wins,
// then a file in root, then the config directory.
func ResolveRulesPath(explicit, root string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	if root != "" {
		p := filepath.Join(root, RulesFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if dir, err := Dir(); err == nil {
		return filepath.Join(dir, RulesFileName)
	}
	return ""
}

func (r Rules) normalized() Rules {
	def := DefaultRules()
	out := Rules{
		SkipDirs:    lowerAll(r.SkipDirs),
		SkipFiles:   lowerAll(r.SkipFiles),
		MaxFileKB:   r.MaxFileKB,
		SearchLimit: r.SearchLimit,
	}
	if out.MaxFileKB <= 0 {
		out.MaxFileKB = def.MaxFileKB
	}
	if out.SearchLimit <= 0 {
		out.SearchLimit = def.SearchLimit
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// MaxFileBytes is the size cap in bytes.
func (r Rules) MaxFileBytes() int64 { return int64(r.MaxFileKB) * 1024 }

// SkipDir reports whether a directory with this base name is excluded.
func (r Rules) SkipDir(name string) bool { return matchName(r.SkipDirs, name) }

// SkipFile reports whether a file with this base name is excluded.
func (r Rules) SkipFile(name string) bool { return matchName(r.SkipFiles, name) }

func matchName(patterns []string, name string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if p == lower {
			return true
		}
		if strings.ContainsAny(p, "*?[{") {
			if ok, err := doublestar.Match(p, lower); err == nil && ok {
				return true
			}
		}
	}
	return false
}
