package suggest

import (
	"path/filepath"
	"strings"
	"unicode"
)

// currentToken returns the last whitespace-delimited word of prefix.
func currentToken(prefix string) string {
	fields := strings.FieldsFunc(prefix, unicode.IsSpace)
	if len(fields) == 0 || strings.TrimRightFunc(prefix, unicode.IsSpace) != prefix {
		return ""
	}
	return fields[len(fields)-1]
}

// IsPathToken reports whether token should complete against the filesystem.
func IsPathToken(token string) bool {
	if token == "" {
		return false
	}
	for _, p := range []string{"./", "../", "~", `.\`, `..\`, `\\`} {
		if strings.HasPrefix(token, p) {
			return true
		}
	}
	if strings.ContainsAny(token, `/\`) {
		return true
	}
	return len(token) >= 3 && token[1] == ':' && (token[2] == '\\' || token[2] == '/')
}

// splitPathToken splits token after its last separator. dir keeps the
// trailing separator so dir+name rebuilds the token.
func splitPathToken(token string) (dir, partial string, sep byte) {
	sep = '/'
	if strings.ContainsRune(token, '\\') {
		sep = '\\'
	}
	if i := strings.LastIndexByte(token, sep); i >= 0 {
		return token[:i+1], token[i+1:], sep
	}
	return "", token, sep
}

// resolveDir turns the directory portion of a token into a path to list.
func resolveDir(dir, cwd, home string) string {
	if dir == "" {
		if cwd == "" {
			return "."
		}
		return cwd
	}
	if rest, ok := strings.CutPrefix(dir, "~"); ok && home != "" {
		rest = strings.TrimLeft(rest, `/\`)
		if rest == "" {
			return home
		}
		return filepath.Join(home, filepath.FromSlash(rest))
	}
	if filepath.IsAbs(dir) || isDriveOrUNC(dir) || cwd == "" {
		return dir
	}
	return filepath.Join(cwd, dir)
}

func isDriveOrUNC(p string) bool {
	if strings.HasPrefix(p, `\\`) {
		return true
	}
	return len(p) >= 2 && p[1] == ':' && unicode.IsLetter(rune(p[0]))
}
