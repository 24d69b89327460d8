//go:build !windows

package terminal

import (
	"os/exec"
	"syscall"
)

// setupCommand makes the pty the controlling terminal of a new session.
func setupCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true}
}
