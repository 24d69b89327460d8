package terminal

import (
	"strings"
	"unicode/utf8"
)

// EventKind tags the variants of Event.
type EventKind int

const (
	EventText EventKind = iota
	EventMarker
	EventCwd
)

// Event is one element of the sanitized stream: plain text with newlines
// normalized to "\n", a shell-integration marker, or a reported cwd.
type Event struct {
	Kind   EventKind
	Text   string
	Marker Marker
	Path   string
}

// Sanitizer turns raw pty output into an ordered Event stream. It keeps
// state between chunks: unterminated escape sequences, an incomplete trailing
// UTF-8 sequence and a trailing carriage return are all carried forward.
type Sanitizer struct {
	parser Parser
	text   []byte
	events []Event
	lastCR bool
}

// NewSanitizer returns a Sanitizer ready for Feed.
func NewSanitizer() *Sanitizer { return &Sanitizer{} }

// Feed consumes one chunk and returns the events it completed.
func (s *Sanitizer) Feed(chunk []byte) []Event {
	s.events = nil
	s.parser.Parse(chunk, s)
	s.flushText(true)
	return s.events
}

// Text implements Sink.
func (s *Sanitizer) Text(b []byte) {
	s.lastCR = false
	s.text = append(s.text, b...)
}

// Control implements Sink; "\r\n" and lone "\r" become "\n".
func (s *Sanitizer) Control(c byte) {
	switch c {
	case '\r':
		s.text = append(s.text, '\n')
		s.lastCR = true
		return
	case '\n':
		if s.lastCR {
			s.lastCR = false
			return
		}
	}
	s.lastCR = false
	s.text = append(s.text, c)
}

// Escape implements Sink. Escape sequences carry no text.
func (s *Sanitizer) Escape([]byte) {}

// OSC implements Sink, classifying OSC 133 markers and OSC 7 cwd reports.
func (s *Sanitizer) OSC(payload []byte) {
	p := string(payload)
	if m, ok := ParseMarker(p); ok {
		s.flushText(false)
		s.events = append(s.events, Event{Kind: EventMarker, Marker: m})
		return
	}
	if dir, ok := ParseCwd(p); ok {
		s.flushText(false)
		s.events = append(s.events, Event{Kind: EventCwd, Path: dir})
	}
}

// flushText emits buffered text. At a chunk end an incomplete UTF-8 tail is
// held back for the next chunk.
func (s *Sanitizer) flushText(chunkEnd bool) {
	cut := len(s.text)
	if chunkEnd {
		cut = completeUTF8(s.text)
	}
	if cut == 0 {
		return
	}
	out := strings.ToValidUTF8(string(s.text[:cut]), "\uFFFD")
	s.text = append(s.text[:0], s.text[cut:]...)
	if n := len(s.events); n > 0 && s.events[n-1].Kind == EventText {
		s.events[n-1].Text += out
		return
	}
	s.events = append(s.events, Event{Kind: EventText, Text: out})
}

// completeUTF8 returns the length of the prefix of b that does not end in a
// truncated multi-byte sequence.
func completeUTF8(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax+1; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return i
			}
			break
		}
	}
	return len(b)
}
