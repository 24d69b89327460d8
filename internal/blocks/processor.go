package blocks

import (
	"strings"

	"orbitshell/internal/terminal"
)

// State is the processor's position in the current command turn.
type State int

const (
	// Closed: the last command finished (a prompt was seen) or none was issued.
	Closed State = iota
	// AwaitingEcho: a command was written; its echo has not been seen yet.
	AwaitingEcho
	// Accumulating: output lines are appended to the current block.
	Accumulating
)

func (s State) String() string {
	switch s {
	case AwaitingEcho:
		return "awaiting-echo"
	case Accumulating:
		return "accumulating"
	}
	return "closed"
}

// Options bound the memory held by a Processor.
type Options struct {
	MaxLinesPerBlock int
	MaxBlocks        int
	// Enter terminates a submitted line: "\r" on a Unix pty, "\r\n" for
	// ConPTY. A Unix line discipline maps each of CR and LF to a newline, so
	// CRLF there would submit an extra empty line.
	Enter string
}

// DefaultOptions are used by NewProcessor for zero fields.
var DefaultOptions = Options{MaxLinesPerBlock: 5000, MaxBlocks: 500, Enter: "\r"}

// EnterFor returns the Enter sequence for a local shell.
func EnterFor(windows bool) string {
	if windows {
		return "\r\n"
	}
	return "\r"
}

// Update reports what a Feed changed that the owner has to act on.
type Update struct {
	// Cwd is set when CwdChanged is true.
	Cwd        string
	CwdChanged bool
	// RefreshStatus asks the owner to re-query version-control status.
	RefreshStatus bool
}

// Processor turns a shell's raw output into command blocks.
type Processor struct {
	opts   Options
	san    *terminal.Sanitizer
	blocks []*Block
	state  State
	cwd    string

	partial     string
	pendingEcho string
	promptText  string
	branchWatch bool

	// shell-integration progress: between 133;A and 133;B (or end of line),
	// and between 133;B and end of line
	inPrompt bool
	inInput  bool
}

// NewProcessor returns a Processor whose initial working directory is cwd.
func NewProcessor(cwd string, opts Options) *Processor {
	if opts.MaxLinesPerBlock <= 0 {
		opts.MaxLinesPerBlock = DefaultOptions.MaxLinesPerBlock
	}
	if opts.MaxBlocks <= 0 {
		opts.MaxBlocks = DefaultOptions.MaxBlocks
	}
	if opts.Enter == "" {
		opts.Enter = DefaultOptions.Enter
	}
	return &Processor{opts: opts, san: terminal.NewSanitizer(), cwd: cwd}
}

// Blocks returns the blocks oldest first.
func (p *Processor) Blocks() []*Block { return p.blocks }

// State returns the current turn state.
func (p *Processor) State() State { return p.state }

// Cwd is the last working directory reported by the shell.
func (p *Processor) Cwd() string { return p.cwd }

// Partial is the incomplete trailing line not yet assigned to a block.
func (p *Processor) Partial() string { return p.partial }

// Running reports whether a submitted command has not reached a prompt yet.
func (p *Processor) Running() bool { return p.state != Closed }

// Clear drops every block.
func (p *Processor) Clear() { p.blocks = nil }

// Submit records a command and returns the bytes to write to the shell.
// Blank input only sends Enter.
func (p *Processor) Submit(command string, ctx Context) []byte {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return []byte(p.opts.Enter)
	}
	p.branchWatch = IsBranchSwitch(cmd)
	p.pendingEcho = cmd
	p.promptText = p.partial
	c := ctx
	p.pushBlock(newBlock(cmd, &c, p.opts.MaxLinesPerBlock))
	p.state = AwaitingEcho
	return []byte(cmd + p.opts.Enter)
}

// Feed consumes a raw output chunk.
func (p *Processor) Feed(chunk []byte) Update {
	var up Update
	for _, ev := range p.san.Feed(chunk) {
		switch ev.Kind {
		case terminal.EventText:
			p.consume(ev.Text, &up)
		case terminal.EventMarker:
			p.marker(ev.Marker, &up)
		case terminal.EventCwd:
			p.setCwd(ev.Path, &up)
		}
	}
	// Prompts are written without a trailing newline.
	if !p.inPrompt && !p.inInput {
		if cwd, ok := PromptCwd(p.partial); ok {
			p.partial = ""
			p.prompt(cwd, &up)
		} else if IsContinuation(p.partial) {
			p.partial = ""
		}
	}
	return up
}

func (p *Processor) consume(text string, up *Update) {
	segs := strings.Split(text, "\n")
	for i, seg := range segs {
		if i == len(segs)-1 {
			p.partial += seg
			return
		}
		line := p.partial + seg
		p.partial = ""
		p.handleLine(line, up)
	}
}

func (p *Processor) handleLine(line string, up *Update) {
	prefix := p.promptText
	p.promptText = ""
	trimmed := strings.TrimSpace(line)

	if p.inInput {
		p.inInput = false
		p.echoSeen()
		return
	}
	if p.inPrompt {
		p.inPrompt = false
		if p.pendingEcho != "" && strings.HasSuffix(trimmed, p.pendingEcho) {
			p.echoSeen()
		}
		return
	}
	if cwd, ok := PromptCwd(trimmed); ok {
		p.prompt(cwd, up)
		return
	}
	if IsContinuation(trimmed) {
		return
	}
	if p.pendingEcho != "" {
		rest := trimmed
		if prefix != "" && strings.HasPrefix(line, prefix) {
			rest = strings.TrimSpace(line[len(prefix):])
		}
		if rest == p.pendingEcho {
			p.echoSeen()
			return
		}
	}
	if p.branchWatch && IsBranchChange(trimmed) {
		p.branchWatch = false
		up.RefreshStatus = true
	}
	p.appendLine(line)
}

func (p *Processor) echoSeen() {
	p.pendingEcho = ""
	if p.state == AwaitingEcho {
		p.state = Accumulating
	}
}

func (p *Processor) appendLine(line string) {
	b := p.ensureBlock()
	b.Output.Push(line)
	if IsErrorLine(line) {
		b.HasError = true
	}
}

func (p *Processor) ensureBlock() *Block {
	if len(p.blocks) == 0 {
		p.pushBlock(newBlock("", &Context{Cwd: p.cwd}, p.opts.MaxLinesPerBlock))
	}
	return p.blocks[len(p.blocks)-1]
}

func (p *Processor) pushBlock(b *Block) {
	p.blocks = append(p.blocks, b)
	if over := len(p.blocks) - p.opts.MaxBlocks; over > 0 {
		p.blocks = append(p.blocks[:0], p.blocks[over:]...)
	}
}

func (p *Processor) marker(m terminal.Marker, up *Update) {
	switch m.Kind {
	case terminal.MarkerPromptStart:
		p.flushPartial(up)
		p.close(up)
		p.inPrompt = true
	case terminal.MarkerCommandStart:
		// Whatever preceded B on this line was the prompt itself.
		p.partial = ""
		p.inPrompt = false
		p.inInput = true
	case terminal.MarkerOutputStart:
		p.partial = ""
		p.inPrompt, p.inInput = false, false
		p.echoSeen()
	case terminal.MarkerCommandFinished:
		p.flushPartial(up)
		if p.state != Closed && len(p.blocks) > 0 && m.HasExitCode {
			b := p.blocks[len(p.blocks)-1]
			b.ExitCode, b.HasExitCode = m.ExitCode, true
			if m.ExitCode != 0 {
				b.HasError = true
			}
		}
		p.close(up)
	}
}

func (p *Processor) flushPartial(up *Update) {
	if p.partial == "" {
		return
	}
	line := p.partial
	p.partial = ""
	p.handleLine(line, up)
}

func (p *Processor) prompt(cwd string, up *Update) {
	p.close(up)
	p.setCwd(cwd, up)
}

func (p *Processor) close(up *Update) {
	p.state = Closed
	p.pendingEcho = ""
	p.branchWatch = false
	up.RefreshStatus = true
}

func (p *Processor) setCwd(cwd string, up *Update) {
	if cwd == "" || cwd == p.cwd {
		return
	}
	p.cwd = cwd
	up.Cwd = cwd
	up.CwdChanged = true
	up.RefreshStatus = true
}
