package blocks

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orbitshell/internal/terminal"
)

// pump feeds shell output into p until cond holds.
func pump(t *testing.T, s *terminal.Session, p *Processor, cond func() bool) {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for !cond() {
		select {
		case chunk, ok := <-s.Output():
			if !ok {
				t.Fatalf("shell output ended; state %s, blocks %d", p.State(), len(p.Blocks()))
			}
			p.Feed(chunk)
		case <-timeout:
			t.Fatalf("timed out; state %s, blocks %d, cwd %q", p.State(), len(p.Blocks()), p.Cwd())
		}
	}
}

func TestBashIntegrationTurn(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("bash pty required")
	}
	bash, err := exec.LookPath("bash")
	if err != nil {
		t.Skip("bash not installed")
	}
	dir := filepath.Join(t.TempDir(), "notes#1 50%off")
	require.NoError(t, os.Mkdir(dir, 0o755))

	s, err := terminal.Open(terminal.Options{
		Cols: 120, Rows: 30, Dir: dir,
		Shell: bash, Args: []string{"--norc", "--noprofile"},
		Integration: true,
	})
	require.NoError(t, err)
	defer s.Close()

	p := NewProcessor("", Options{Enter: EnterFor(false)})
	pump(t, s, p, func() bool { return p.Cwd() != "" && p.inPrompt })
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(p.Cwd())
	require.NoError(t, err, p.Cwd())
	assert.Equal(t, want, got)

	// a command reading the terminal only sees what is typed after Enter
	cmd := `read -r x; echo "got:[$x]"`
	s.Write(p.Submit(cmd, Context{Cwd: p.Cwd()}))
	pump(t, s, p, func() bool { return p.State() == Accumulating })
	time.Sleep(100 * time.Millisecond)
	s.Write([]byte("typed\r"))

	last := func() *Block { return p.Blocks()[len(p.Blocks())-1] }
	pump(t, s, p, func() bool { return p.State() == Closed && last().HasExitCode })

	b := last()
	assert.Equal(t, cmd, b.Command)
	assert.Equal(t, 0, b.ExitCode)
	assert.Contains(t, b.Lines(), "got:[typed]")
	assert.NotContains(t, b.Lines(), "got:[]")
	assert.NotContains(t, b.Lines(), cmd)
}
