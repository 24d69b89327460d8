package terminal

import (
	"path/filepath"
	"strings"

	"orbitshell/internal/config"
)

// DefaultShell returns the shell to launch when none is configured:
// PowerShell on Windows, otherwise $SHELL falling back to /bin/bash.
func DefaultShell(env config.Environment) (string, []string) {
	if env.IsWindows() {
		return "powershell.exe", []string{"-NoLogo", "-NoProfile"}
	}
	if s := strings.TrimSpace(env.Shell); s != "" {
		return s, nil
	}
	return "/bin/bash", nil
}

// bashPromptCommand reports exit status, cwd and prompt start before every
// prompt. Only '%' is escaped in the path; ParseCwd reads the rest raw.
const bashPromptCommand = `printf '\033]133;D;%s\007\033]7;file://%s%s\007\033]133;A\007' "$?" "$HOSTNAME" "${PWD//%/%25}"`

// childEnv builds the environment for the shell process.
func childEnv(base []string, shell string, integration bool) []string {
	env := make([]string, 0, len(base)+3)
	for _, kv := range base {
		if strings.HasPrefix(kv, "TERM=") {
			continue
		}
		if integration && strings.HasPrefix(kv, "PROMPT_COMMAND=") && isBash(shell) {
			continue
		}
		env = append(env, kv)
	}
	env = append(env, "TERM=xterm-256color", "ORBITSHELL=1")
	if integration && isBash(shell) {
		env = append(env, "PROMPT_COMMAND="+bashPromptCommand)
	}
	return env
}

func isBash(shell string) bool {
	name := strings.TrimSuffix(strings.ToLower(filepath.Base(shell)), ".exe")
	return name == "bash"
}
