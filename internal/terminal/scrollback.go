package terminal

// Scrollback is a line buffer that retains at most Max lines, evicting the
// oldest first. A non-positive max means unbounded.
type Scrollback struct {
	lines []string
	max   int
}

// NewScrollback returns an empty buffer capped at max lines.
func NewScrollback(max int) *Scrollback {
	return &Scrollback{max: max}
}

// Push appends a line, evicting from the front past the cap.
func (s *Scrollback) Push(line string) {
	s.lines = append(s.lines, line)
	if s.max > 0 && len(s.lines) > s.max {
		drop := len(s.lines) - s.max
		copy(s.lines, s.lines[drop:])
		s.lines = s.lines[:s.max]
	}
}

// Lines returns the retained lines, oldest first. The slice must not be modified.
func (s *Scrollback) Lines() []string { return s.lines }
