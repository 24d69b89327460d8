package terminal

import (
	"net/url"
	"strconv"
	"strings"
)

// MarkerKind identifies an OSC 133 shell-integration boundary.
type MarkerKind int

const (
	MarkerPromptStart MarkerKind = iota + 1
	MarkerCommandStart
	MarkerOutputStart
	MarkerCommandFinished
)

func (k MarkerKind) String() string {
	switch k {
	case MarkerPromptStart:
		return "prompt-start"
	case MarkerCommandStart:
		return "command-start"
	case MarkerOutputStart:
		return "output-start"
	case MarkerCommandFinished:
		return "command-finished"
	}
	return "unknown"
}

// Marker is a decoded OSC 133 payload. ExitCode is only meaningful for
// MarkerCommandFinished when HasExitCode is set.
type Marker struct {
	Kind        MarkerKind
	ExitCode    int
	HasExitCode bool
}

// ParseMarker decodes payloads such as "133;A" or "133;D;1".
func ParseMarker(payload string) (Marker, bool) {
	rest, ok := strings.CutPrefix(payload, "133;")
	if !ok || rest == "" {
		return Marker{}, false
	}
	fields := strings.Split(rest, ";")
	var m Marker
	switch fields[0] {
	case "A":
		m.Kind = MarkerPromptStart
	case "B":
		m.Kind = MarkerCommandStart
	case "C":
		m.Kind = MarkerOutputStart
	case "D":
		m.Kind = MarkerCommandFinished
		if len(fields) > 1 {
			if code, err := strconv.Atoi(strings.TrimSpace(fields[1])); err == nil {
				m.ExitCode, m.HasExitCode = code, true
			}
		}
	default:
		return Marker{}, false
	}
	return m, true
}

// ParseCwd decodes an OSC 7 payload ("7;file://host/path") into a local path.
func ParseCwd(payload string) (string, bool) {
	rest, ok := strings.CutPrefix(payload, "7;")
	if !ok {
		return "", false
	}
	rest, ok = cutPrefixFold(rest, "file://")
	if !ok {
		return "", false
	}
	// the authority runs to the first slash; '#' and '?' are path bytes here
	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return "", false
	}
	p := rest[slash:]
	// emitters that encode use %XX; a path that does not decode is taken raw
	if dec, err := url.PathUnescape(p); err == nil {
		p = dec
	}
	// file://host/C:/Users -> C:/Users
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return p, true
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
