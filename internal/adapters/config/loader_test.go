package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bale/internal/adapters/config"
	"go.trai.ch/bale/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
version: "1"
entries:
  - src/index.html
  - src/main.js
target: node
cacheDir: .cache
outDir: build
scopeHoist: true
env:
  NODE_ENV: production
`)

	opts, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/index.html", "src/main.js"}, opts.Entries)
	assert.Equal(t, domain.EnvNode, opts.Target)
	assert.Equal(t, ".cache", opts.CacheDir)
	assert.Equal(t, "build", opts.OutDir)
	assert.True(t, opts.ScopeHoist)
	assert.Equal(t, "production", opts.Env["NODE_ENV"])

	// Unset for a server target.
	assert.False(t, opts.IgnoreFSCalls)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
entries:
  - src/main.js
`)

	opts, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, domain.EnvBrowser, opts.Target)
	assert.Equal(t, ".bale-cache", opts.CacheDir)
	assert.Equal(t, "dist", opts.OutDir)
	assert.False(t, opts.ScopeHoist)

	// Browser targets rewrite file reads unless explicitly disabled.
	assert.True(t, opts.IgnoreFSCalls)
}

func TestLoad_ExplicitIgnoreFSCallsWins(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
entries: [src/main.js]
target: browser
ignoreFSCalls: false
`)

	opts, err := config.Load(path)
	require.NoError(t, err)
	assert.False(t, opts.IgnoreFSCalls)
}

func TestLoad_FileEnvOverridesProcessEnv(t *testing.T) {
	t.Setenv("BALE_TEST_FROM_PROCESS", "process")
	t.Setenv("BALE_TEST_OVERRIDDEN", "process")

	path := writeConfig(t, `
entries: [src/main.js]
env:
  BALE_TEST_OVERRIDDEN: file
`)

	opts, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "process", opts.Env["BALE_TEST_FROM_PROCESS"])
	assert.Equal(t, "file", opts.Env["BALE_TEST_OVERRIDDEN"])
}

func TestLoad_UnknownTarget(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
entries: [src/main.js]
target: toaster
`)

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "entries: [unclosed")
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestFileConfigLoader(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "entries: [src/main.js]")

	var l config.FileConfigLoader
	opts, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.js"}, opts.Entries)
}
