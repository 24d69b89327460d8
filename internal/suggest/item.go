// Package suggest ranks inline completions for the command input: history
// prefix matches first, then directory entries for path-like tokens, then
// executables on PATH for the first word.
package suggest

// Source identifies where a suggestion came from.
type Source int

const (
	SourceHistory Source = iota
	SourcePath
	SourceCommand
)

func (s Source) String() string {
	switch s {
	case SourceHistory:
		return "history"
	case SourcePath:
		return "path"
	case SourceCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Item is one completion candidate. InsertText is the full input line that
// results from accepting it.
type Item struct {
	Display    string
	InsertText string
	Source     Source
}

func dedupe(groups ...[]Item) []Item {
	seen := map[string]struct{}{}
	var out []Item
	for _, g := range groups {
		for _, it := range g {
			if _, ok := seen[it.InsertText]; ok {
				continue
			}
			seen[it.InsertText] = struct{}{}
			out = append(out, it)
		}
	}
	return out
}
