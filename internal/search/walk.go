package search

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"orbitshell/internal/config"
)

const (
	binaryPeek     = 512
	snippetPadding = 2
)

// Walk visits root depth-first with an explicit stack. alive is consulted
// before every directory read, entry and line; emit returns false to stop.
// Unreadable directories and files are skipped, as is anything that is not
// a regular file once symlinks are followed (FIFOs, sockets, devices).
func Walk(root, query string, rules config.Rules, alive func() bool, emit func(Result) bool) {
	q := strings.ToLower(query)
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !alive() {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, ent := range entries {
			if !alive() {
				return
			}
			name := ent.Name()
			path := filepath.Join(dir, name)
			if ent.IsDir() {
				if !rules.SkipDir(name) {
					stack = append(stack, path)
				}
				continue
			}
			if rules.SkipFile(name) {
				continue
			}
			fi, err := os.Stat(path)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
			if strings.Contains(strings.ToLower(name), q) {
				if !emit(Result{Path: path, Line: 0, Snippet: name, IsFilename: true}) {
					return
				}
			}
			if limit := rules.MaxFileBytes(); limit > 0 && fi.Size() > limit {
				continue
			}
			if !scanFile(path, query, q, rules.MaxFileBytes(), alive, emit) {
				return
			}
		}
	}
}

// scanFile reports false when the walk must stop.
func scanFile(path, query, lowerQuery string, maxBytes int64, alive func() bool, emit func(Result) bool) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()
	if !alive() {
		return false
	}
	fi, err := f.Stat()
	if err != nil || !fi.Mode().IsRegular() || (maxBytes > 0 && fi.Size() > maxBytes) {
		return true
	}
	peek := make([]byte, binaryPeek)
	n, _ := io.ReadFull(f, peek)
	if bytes.IndexByte(peek[:n], 0) >= 0 {
		return true
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return true
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), int(max(maxBytes, 64*1024))+1)
	line := 0
	for sc.Scan() {
		line++
		if !alive() {
			return false
		}
		text := strings.TrimRight(sc.Text(), "\r")
		if !strings.Contains(strings.ToLower(text), lowerQuery) {
			continue
		}
		if !emit(Result{Path: path, Line: line, Snippet: MakeSnippet(text, query, snippetPadding)}) {
			return false
		}
	}
	return true
}
