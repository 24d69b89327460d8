package blocks

import (
	"time"

	"github.com/google/uuid"

	"orbitshell/internal/system"
	"orbitshell/internal/terminal"
)

// Context is the environment captured when a command is issued. It is not
// updated afterwards.
type Context struct {
	Cwd string
	// Status is nil when Cwd is not under version control.
	Status *system.GitStatus
}

// Block groups one issued command with its output.
type Block struct {
	ID        string
	Command   string
	Context   *Context
	StartedAt time.Time

	Output   *terminal.Scrollback
	HasError bool

	// ExitCode is set from shell integration when available.
	ExitCode    int
	HasExitCode bool
}

func newBlock(command string, ctx *Context, maxLines int) *Block {
	return &Block{
		ID:        uuid.NewString(),
		Command:   command,
		Context:   ctx,
		StartedAt: time.Now(),
		Output:    terminal.NewScrollback(maxLines),
	}
}

// Lines returns the block's output lines.
func (b *Block) Lines() []string { return b.Output.Lines() }
