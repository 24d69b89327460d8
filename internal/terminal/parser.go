package terminal

// Sink receives the pieces a Parser splits a byte stream into.
// Text runs never contain ESC or C0 control bytes.
type Sink interface {
	Text(b []byte)
	Control(c byte)
	// Escape receives a complete non-OSC escape sequence including the leading ESC.
	Escape(seq []byte)
	// OSC receives the payload between ESC ] and its BEL or ESC \ terminator.
	OSC(payload []byte)
}

type parseState uint8

const (
	stateGround parseState = iota
	stateEscape
	stateCSI
	stateOSC
	stateOSCEscape
)

const (
	esc = 0x1b
	bel = 0x07

	// maxSeqLen caps how much of a single sequence is buffered; longer
	// sequences are still consumed to their terminator but truncated.
	maxSeqLen = 4096
)

// Parser is a minimal escape-sequence scanner. It recognizes CSI, OSC and
// two-byte escapes and keeps its state between calls, so a sequence split
// across reads is still removed. It does not emulate a terminal.
type Parser struct {
	state parseState
	seq   []byte
}

// Parse scans b and reports its pieces to sink in order.
func (p *Parser) Parse(b []byte, sink Sink) {
	start := 0
	flush := func(end int) {
		if end > start {
			sink.Text(b[start:end])
		}
	}
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch p.state {
		case stateGround:
			switch {
			case c == esc:
				flush(i)
				p.state = stateEscape
				p.seq = append(p.seq[:0], c)
			case c < 0x20 || c == 0x7f:
				flush(i)
				sink.Control(c)
			default:
				continue
			}
			start = i + 1
		case stateEscape:
			switch c {
			case '[':
				p.state = stateCSI
				p.seq = append(p.seq, c)
			case ']':
				p.state = stateOSC
				p.seq = p.seq[:0]
			default:
				p.seq = append(p.seq, c)
				sink.Escape(p.seq)
				p.reset()
			}
			start = i + 1
		case stateCSI:
			p.push(c)
			if c >= '@' && c <= '~' {
				sink.Escape(p.seq)
				p.reset()
			}
			start = i + 1
		case stateOSC:
			switch c {
			case bel:
				sink.OSC(p.seq)
				p.reset()
			case esc:
				p.state = stateOSCEscape
			default:
				p.push(c)
			}
			start = i + 1
		case stateOSCEscape:
			switch c {
			case '\\':
				sink.OSC(p.seq)
				p.reset()
			case esc:
				p.push(esc)
			default:
				p.push(esc)
				p.push(c)
				p.state = stateOSC
			}
			start = i + 1
		}
	}
	if p.state == stateGround {
		flush(len(b))
	}
}

func (p *Parser) push(c byte) {
	if len(p.seq) < maxSeqLen {
		p.seq = append(p.seq, c)
	}
}

func (p *Parser) reset() {
	p.state = stateGround
	p.seq = p.seq[:0]
}

// stripSink keeps text and control bytes and drops every escape sequence.
type stripSink struct{ out []byte }

func (s *stripSink) Text(b []byte)  { s.out = append(s.out, b...) }
func (s *stripSink) Control(c byte) { s.out = append(s.out, c) }
func (s *stripSink) Escape([]byte)  {}
func (s *stripSink) OSC([]byte)     {}

// Strip removes ANSI CSI, OSC and two-byte escape sequences from s.
// All other bytes, control characters included, pass through unchanged.
func Strip(s string) string {
	var p Parser
	sink := &stripSink{out: make([]byte, 0, len(s))}
	p.Parse([]byte(s), sink)
	return string(sink.out)
}
