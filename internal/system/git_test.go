package system

import (
    "context"
    "os"
    "os/exec"
    "path/filepath"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestParsePorcelainZ(t *testing.T) {
    raw := []byte("M  staged.go\x00 M wt.go\x00?? new.txt\x00R  to.go\x00from.go\x00 D gone.go\x00A  added.go\x00")
    got := parsePorcelainZ(raw)
    require.Len(t, got, 6)
    assert.Equal(t, "staged.go", got[0].path)
    assert.Equal(t, "to.go", got[3].path)
    assert.Equal(t, "gone.go", got[4].path)

    kinds := make([]string, len(got))
    for i, e := range got {
        kinds[i] = e.kind()
    }
    assert.Equal(t, []string{"M", "M", "A", "M", "D", "A"}, kinds)
    assert.True(t, got[0].staged())
    assert.False(t, got[0].unstaged())
    assert.True(t, got[1].unstaged())
    assert.True(t, got[2].unstaged())
    assert.False(t, got[2].staged())
}

func gitOrSkip(t *testing.T) {
    t.Helper()
    if _, err := exec.LookPath("git"); err != nil {
        t.Skip("git not installed")
    }
}

func initRepo(t *testing.T) string {
    t.Helper()
    dir := t.TempDir()
    run := func(args ...string) {
        cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
        cmd.Env = append(os.Environ(),
            "GIT_AUTHOR_NAME=t", "GIT_AUTHOR_EMAIL=t@example.com",
            "GIT_COMMITTER_NAME=t", "GIT_COMMITTER_EMAIL=t@example.com",
        )
        out, err := cmd.CombinedOutput()
        require.NoError(t, err, string(out))
    }
    run("init", "-q", "-b", "main")
    require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a\n"), 0o644))
    require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b\n"), 0o644))
    run("add", ".")
    run("commit", "-q", "-m", "init")
    run("branch", "feature")
    return dir
}

func TestStatusBranchesChanges(t *testing.T) {
    gitOrSkip(t)
    dir := initRepo(t)
    ctx := context.Background()

    st, ok := Status(ctx, dir)
    require.True(t, ok)
    assert.Equal(t, "main", st.Branch)
    assert.Equal(t, 0, st.FilesChanged)

    require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("changed\n"), 0o644))
    require.NoError(t, os.Remove(filepath.Join(dir, "b.txt")))
    require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), []byte("c\n"), 0o644))

    st, ok = Status(ctx, dir)
    require.True(t, ok)
    assert.Equal(t, 3, st.FilesChanged)
    assert.Equal(t, 1, st.Added)
    assert.Equal(t, 1, st.Deleted)
    assert.Equal(t, 1, st.Modified)

    assert.Equal(t, []string{"feature", "main"}, Branches(ctx, dir))

    kinds := map[string]string{}
    for _, c := range Changes(ctx, dir) {
        kinds[c.Path] = c.Kind
        assert.True(t, c.Unstaged)
    }
    assert.Equal(t, map[string]string{"a.txt": "M", "b.txt": "D", "c.txt": "A"}, kinds)

    head, err := HeadPath(ctx, dir)
    require.NoError(t, err)
    assert.FileExists(t, head)
}

func TestProjectRoot(t *testing.T) {
    gitOrSkip(t)
    dir := initRepo(t)
    sub := filepath.Join(dir, "pkg", "inner")
    require.NoError(t, os.MkdirAll(sub, 0o755))
    ctx := context.Background()

    want, err := filepath.EvalSymlinks(dir)
    require.NoError(t, err)
    got, err := filepath.EvalSymlinks(ProjectRoot(ctx, sub))
    require.NoError(t, err)
    assert.Equal(t, want, got)

    outside := t.TempDir()
    assert.Equal(t, outside, ProjectRoot(ctx, outside))
}

func TestStatusOutsideRepo(t *testing.T) {
    gitOrSkip(t)
    dir := t.TempDir()
    _, ok := Status(context.Background(), dir)
    assert.False(t, ok)
    assert.Empty(t, Branches(context.Background(), dir))
    assert.Empty(t, Changes(context.Background(), dir))
}

func TestSwitchCommand(t *testing.T) {
    assert.Equal(t, "git switch feature/x", SwitchCommand("feature/x"))
    assert.Equal(t, `git switch 'it'\''s'`, SwitchCommand("it's"))
}
