package system

import (
    "bytes"
    "context"
    "os/exec"
    "path/filepath"
    "sort"
    "strings"
    "time"
)

// GitStatus summarizes the working tree of the repository containing a path.
type GitStatus struct {
    Branch       string
    FilesChanged int
    Added        int
    Deleted      int
    Modified     int
}

// GitChange is one entry of the working-tree change list.
// Kind is "A", "D", "M" or "?".
type GitChange struct {
    Path     string
    Staged   bool
    Unstaged bool
    Kind     string
}

// gitTimeout bounds every git invocation so a slow repository cannot stall the UI.
const gitTimeout = 800 * time.Millisecond

func runGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
    cctx, cancel := context.WithTimeout(ctx, gitTimeout)
    defer cancel()
    full := append([]string{"-C", dir}, args...)
    return exec.CommandContext(cctx, "git", full...).Output()
}

func hasGit() bool {
    _, err := exec.LookPath("git")
    return err == nil
}

// Status inspects the repository at dir. ok is false when dir is not inside
// a work tree or git is unavailable.
func Status(ctx context.Context, dir string) (st GitStatus, ok bool) {
    if !hasGit() {
        return st, false
    }
    out, err := runGit(ctx, dir, "rev-parse", "--is-inside-work-tree")
    if err != nil || strings.TrimSpace(string(out)) != "true" {
        return st, false
    }

    // Branch name (short)
    if out, err := runGit(ctx, dir, "symbolic-ref", "--quiet", "--short", "HEAD"); err == nil {
        st.Branch = strings.TrimSpace(string(out))
    } else if out, err := runGit(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
        // Detached head
        st.Branch = strings.TrimSpace(string(out))
    } else {
        return st, false
    }

    out, err = runGit(ctx, dir, "status", "--porcelain=v1", "-z", "--untracked-files=all")
    if err != nil {
        return st, false
    }
    for _, e := range parsePorcelainZ(out) {
        st.FilesChanged++
        if e.isNew() {
            st.Added++
        }
        if e.isDeleted() {
            st.Deleted++
        }
        if e.isModified() {
            st.Modified++
        }
    }
    return st, true
}

// Branches lists local branch names, sorted.
func Branches(ctx context.Context, dir string) []string {
    if !hasGit() {
        return nil
    }
    out, err := runGit(ctx, dir, "for-each-ref", "--format=%(refname:short)", "refs/heads")
    if err != nil {
        return nil
    }
    var names []string
    for _, ln := range strings.Split(string(out), "\n") {
        if ln = strings.TrimSpace(ln); ln != "" {
            names = append(names, ln)
        }
    }
    sort.Strings(names)
    return names
}

// Changes lists changed and untracked files.
func Changes(ctx context.Context, dir string) []GitChange {
    if !hasGit() {
        return nil
    }
    out, err := runGit(ctx, dir, "status", "--porcelain=v1", "-z", "--untracked-files=all")
    if err != nil {
        return nil
    }
    entries := parsePorcelainZ(out)
    items := make([]GitChange, 0, len(entries))
    for _, e := range entries {
        if e.path == "" {
            continue
        }
        items = append(items, GitChange{
            Path:     e.path,
            Staged:   e.staged(),
            Unstaged: e.unstaged(),
            Kind:     e.kind(),
        })
    }
    return items
}

// SwitchCommand is the shell line that checks out branch. It is typed into
// the session rather than run here so it shows up as a block and in history.
func SwitchCommand(branch string) string {
    if strings.ContainsAny(branch, " \t'\"$`") {
        return "git switch '" + strings.ReplaceAll(branch, "'", `'\''`) + "'"
    }
    return "git switch " + branch
}

// GitRoot returns the repository top-level directory for dir, if in a Git repo.
func GitRoot(ctx context.Context, dir string) (string, error) {
    if _, err := exec.LookPath("git"); err != nil {
        return "", err
    }
    out, err := runGit(ctx, dir, "rev-parse", "--show-toplevel")
    if err != nil {
        return "", err
    }
    return strings.TrimSpace(string(out)), nil
}

// ProjectRoot is the top level of the repository containing dir, or dir
// itself outside one.
func ProjectRoot(ctx context.Context, dir string) string {
    root, err := GitRoot(ctx, dir)
    if err != nil || root == "" {
        return dir
    }
    return filepath.FromSlash(root)
}

// HeadPath returns the absolute path of the HEAD file for the repository
// containing dir; used to watch for branch changes made outside the session.
func HeadPath(ctx context.Context, dir string) (string, error) {
    out, err := runGit(ctx, dir, "rev-parse", "--git-dir")
    if err != nil {
        return "", err
    }
    gd := strings.TrimSpace(string(out))
    if !filepath.IsAbs(gd) {
        gd = filepath.Join(dir, gd)
    }
    return filepath.Join(gd, "HEAD"), nil
}

// porcelainEntry is one record of `git status --porcelain=v1 -z`.
type porcelainEntry struct {
    x, y byte
    path string
}

func (e porcelainEntry) untracked() bool { return e.x == '?' && e.y == '?' }

func (e porcelainEntry) isNew() bool { return e.x == 'A' || e.untracked() }

func (e porcelainEntry) isDeleted() bool { return e.x == 'D' || e.y == 'D' }

func (e porcelainEntry) isModified() bool {
    return strings.IndexByte("MRT", e.x) >= 0 || strings.IndexByte("MRT", e.y) >= 0
}

func (e porcelainEntry) staged() bool { return strings.IndexByte("AMDRT", e.x) >= 0 }

func (e porcelainEntry) unstaged() bool {
    return e.untracked() || strings.IndexByte("MDRT", e.y) >= 0
}

func (e porcelainEntry) kind() string {
    switch {
    case e.isNew():
        return "A"
    case e.isDeleted():
        return "D"
    case e.isModified():
        return "M"
    }
    return "?"
}

// parsePorcelainZ parses `git status --porcelain=v1 -z` output into entries.
// Renames and copies carry a second NUL-terminated (original) path which is skipped.
func parsePorcelainZ(b []byte) []porcelainEntry {
    items := make([]porcelainEntry, 0, 16)
    for len(b) >= 3 {
        x, y := b[0], b[1]
        b = b[3:]
        end := bytes.IndexByte(b, 0)
        if end < 0 {
            end = len(b)
        }
        items = append(items, porcelainEntry{x: x, y: y, path: string(b[:end])})
        if end < len(b) {
            b = b[end+1:]
        } else {
            b = nil
        }
        if x == 'R' || x == 'C' {
            if next := bytes.IndexByte(b, 0); next >= 0 {
                b = b[next+1:]
            } else {
                b = nil
            }
        }
    }
    return items
}
