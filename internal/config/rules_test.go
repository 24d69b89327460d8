package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), RulesFileName)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadRulesMissingFileUsesDefaults(t *testing.T) {
	r, err := LoadRules(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), r)
}

func TestLoadRulesMalformedFallsBack(t *testing.T) {
	p := writeRules(t, `{"skip_dirs": [".git", `)
	r, err := LoadRules(p)
	assert.Error(t, err)
	assert.Equal(t, DefaultRules(), r)
}

func TestLoadRulesLowercasesNames(t *testing.T) {
	p := writeRules(t, `{"skip_dirs": ["Vendor", " BUILD "], "skip_files": ["README.MD"], "max_file_kb": 64, "search_limit": 10}`)
	r, err := LoadRules(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor", "build"}, r.SkipDirs)
	assert.Equal(t, []string{"readme.md"}, r.SkipFiles)
	assert.Equal(t, 64, r.MaxFileKB)
	assert.Equal(t, 10, r.SearchLimit)
	assert.Equal(t, int64(64*1024), r.MaxFileBytes())
}

func TestLoadRulesPartialFileKeepsDefaults(t *testing.T) {
	p := writeRules(t, `{"search_limit": 5}`)
	r, err := LoadRules(p)
	require.NoError(t, err)
	assert.Equal(t, 5, r.SearchLimit)
	assert.Equal(t, 512, r.MaxFileKB)
	assert.Contains(t, r.SkipDirs, "node_modules")
}

func TestLoadRulesNonPositiveNumbersFallBack(t *testing.T) {
	p := writeRules(t, `{"max_file_kb": 0, "search_limit": -3}`)
	r, err := LoadRules(p)
	require.NoError(t, err)
	assert.Equal(t, 512, r.MaxFileKB)
	assert.Equal(t, 200, r.SearchLimit)
}

func TestSkipMatching(t *testing.T) {
	r := Rules{SkipDirs: []string{".git", "build-*"}, SkipFiles: []string{"*.min.js", "package-lock.json"}}
	assert.True(t, r.SkipDir(".GIT"))
	assert.True(t, r.SkipDir("build-release"))
	assert.False(t, r.SkipDir("src"))
	assert.True(t, r.SkipFile("App.MIN.js"))
	assert.True(t, r.SkipFile("package-lock.json"))
	assert.False(t, r.SkipFile("main.go"))
}

func TestResolveRulesPathPrefersRoot(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, "/explicit.json", ResolveRulesPath("/explicit.json", root))
	p := filepath.Join(root, RulesFileName)
	require.NoError(t, os.WriteFile(p, []byte(`{}`), 0o644))
	assert.Equal(t, p, ResolveRulesPath("", root))
}

func TestRulesSchemaHasFields(t *testing.T) {
	b, err := MarshalSchema(RulesSchema())
	require.NoError(t, err)
	for _, key := range []string{"skip_dirs", "skip_files", "max_file_kb", "search_limit"} {
		assert.Contains(t, string(b), key)
	}
}
