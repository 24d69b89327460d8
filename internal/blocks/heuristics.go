package blocks

import "strings"

// Line recognition here is heuristic string matching, not a protocol: a
// program that prints something shaped like a prompt will be treated as one.

// PromptCwd reports whether line is a PowerShell-style prompt ("PS <path>>")
// and returns the path it shows.
func PromptCwd(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(trimmed, "PS ")
	if !ok {
		return "", false
	}
	path, ok := strings.CutSuffix(rest, ">")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(path), true
}

// IsContinuation reports a PowerShell continuation prompt.
func IsContinuation(line string) bool { return strings.TrimSpace(line) == ">>" }

var errorMarkers = []string{
	"not recognized as",
	"is not recognized",
	"cannot find path",
	"categoryinfo",
	"fullyqualifiederrorid",
	"exception",
	"at line:",
}

// IsErrorLine reports whether line looks like shell or runtime error output.
func IsErrorLine(line string) bool {
	s := strings.ToLower(strings.TrimSpace(line))
	if strings.HasPrefix(s, "error:") {
		return true
	}
	for _, m := range errorMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

var branchSwitchCommands = []string{"git checkout", "git switch"}

// IsBranchSwitch reports whether a submitted command may change the current branch.
func IsBranchSwitch(command string) bool {
	s := strings.ToLower(strings.TrimSpace(command))
	for _, c := range branchSwitchCommands {
		if strings.HasPrefix(s, c) {
			return true
		}
	}
	return false
}

var branchChangePhrases = []string{
	"switched to branch",
	"switched to a new branch",
	"already on",
	"head is now at",
	"your branch is up to date",
}

// IsBranchChange reports git's confirmation that the checked-out branch changed.
func IsBranchChange(line string) bool {
	s := strings.ToLower(strings.TrimSpace(line))
	for _, p := range branchChangePhrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// LineKind is the display class of an output line.
type LineKind int

const (
	LinePlain LineKind = iota
	LineError
	LineDirHeader
)

// Classify picks the display class of a line. Error styling applies only
// inside blocks already flagged as failed.
func Classify(line string, blockHasError bool) LineKind {
	if blockHasError && IsErrorLine(line) {
		return LineError
	}
	if isDirHeader(line) {
		return LineDirHeader
	}
	return LinePlain
}

func isDirHeader(line string) bool {
	t := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(t, "Directory:"), strings.HasPrefix(t, "Mode"), strings.HasPrefix(t, "----"):
		return true
	}
	return strings.Contains(t, "LastWriteTime") && strings.Contains(t, "Length") && strings.Contains(t, "Name")
}
