package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textOf(events []Event) string {
	var s string
	for _, e := range events {
		if e.Kind == EventText {
			s += e.Text
		}
	}
	return s
}

func TestSanitizerClassifiesCommandStart(t *testing.T) {
	s := NewSanitizer()
	ev := s.Feed([]byte("\x1b]133;B\x07"))
	require.Len(t, ev, 1)
	assert.Equal(t, EventMarker, ev[0].Kind)
	assert.Equal(t, MarkerCommandStart, ev[0].Marker.Kind)
}

func TestSanitizerOrdersTextAndMarkers(t *testing.T) {
	s := NewSanitizer()
	ev := s.Feed([]byte("out\r\n\x1b]133;D;2\x07\x1b]7;file://host/home/u\x07\x1b]133;A\x07PS> "))
	require.Len(t, ev, 5)
	assert.Equal(t, Event{Kind: EventText, Text: "out\n"}, ev[0])
	assert.Equal(t, Marker{Kind: MarkerCommandFinished, ExitCode: 2, HasExitCode: true}, ev[1].Marker)
	assert.Equal(t, Event{Kind: EventCwd, Path: "/home/u"}, ev[2])
	assert.Equal(t, MarkerPromptStart, ev[3].Marker.Kind)
	assert.Equal(t, "PS> ", ev[4].Text)
}

func TestSanitizerNormalizesNewlines(t *testing.T) {
	s := NewSanitizer()
	assert.Equal(t, "a\nb\nc\n", textOf(s.Feed([]byte("a\r\nb\rc\n"))))
}

func TestSanitizerCRLFAcrossChunks(t *testing.T) {
	s := NewSanitizer()
	assert.Equal(t, "a\n", textOf(s.Feed([]byte("a\r"))))
	assert.Equal(t, "b", textOf(s.Feed([]byte("\nb"))))
}

func TestSanitizerCarriesSplitRune(t *testing.T) {
	s := NewSanitizer()
	euro := []byte("€") // 3 bytes
	assert.Equal(t, "x", textOf(s.Feed(append([]byte("x"), euro[:2]...))))
	assert.Equal(t, "€y", textOf(s.Feed(append(euro[2:], 'y'))))
}

func TestSanitizerReplacesInvalidUTF8(t *testing.T) {
	s := NewSanitizer()
	assert.Equal(t, "a\uFFFDb", textOf(s.Feed([]byte{'a', 0xff, 'b'})))
}

func TestParseMarker(t *testing.T) {
	m, ok := ParseMarker("133;C")
	require.True(t, ok)
	assert.Equal(t, MarkerOutputStart, m.Kind)
	m, ok = ParseMarker("133;D")
	require.True(t, ok)
	assert.False(t, m.HasExitCode)
	_, ok = ParseMarker("133;Z")
	assert.False(t, ok)
	_, ok = ParseMarker("0;title")
	assert.False(t, ok)
}

func TestParseCwd(t *testing.T) {
	p, ok := ParseCwd("7;file://box/home/me/my%20dir")
	require.True(t, ok)
	assert.Equal(t, "/home/me/my dir", p)
	p, ok = ParseCwd("7;file://box/C:/Users/me")
	require.True(t, ok)
	assert.Equal(t, "C:/Users/me", p)
	_, ok = ParseCwd("7;http://x/y")
	assert.False(t, ok)
	_, ok = ParseCwd("7;file://hostonly")
	assert.False(t, ok)
}

func TestParseCwdUnencodedPath(t *testing.T) {
	for payload, want := range map[string]string{
		"7;file://box/tmp/notes#1": "/tmp/notes#1",
		"7;file://box/tmp/what?":   "/tmp/what?",
		"7;file://box/tmp/50%off":  "/tmp/50%off",
		"7;file:///tmp/50%25off":   "/tmp/50%off",
		"7;file://box/tmp/a%2520b": "/tmp/a%20b",
		"7;FILE://box/srv/data":    "/srv/data",
		"7;file://box/home/me/日本語": "/home/me/日本語",
	} {
		got, ok := ParseCwd(payload)
		require.True(t, ok, payload)
		assert.Equal(t, want, got, payload)
	}
}

func TestScrollbackEvictsOldest(t *testing.T) {
	sb := NewScrollback(3)
	for _, l := range []string{"a", "b", "c", "d"} {
		sb.Push(l)
	}
	assert.Equal(t, []string{"b", "c", "d"}, sb.Lines())
}
