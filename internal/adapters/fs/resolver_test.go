package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bale/internal/adapters/fs"
)

// writeTree creates the given files (with placeholder content) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func TestResolver_RelativeSpecifiers(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/main.js":      "",
		"src/util.js":      "",
		"src/lib/index.js": "",
		"src/styles.css":   "",
		"src/page.html":    "",
	})

	r := fs.NewResolver(root)
	from := filepath.Join(root, "src", "main.js")

	t.Run("exact path", func(t *testing.T) {
		t.Parallel()
		got, err := r.Resolve("./util.js", from)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "src", "util.js"), got)
	})

	t.Run("extension added", func(t *testing.T) {
		t.Parallel()
		got, err := r.Resolve("./util", from)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "src", "util.js"), got)
	})

	t.Run("markup and style extensions", func(t *testing.T) {
		t.Parallel()
		got, err := r.Resolve("./page", from)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "src", "page.html"), got)

		got, err = r.Resolve("./styles", from)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "src", "styles.css"), got)
	})

	t.Run("directory index", func(t *testing.T) {
		t.Parallel()
		got, err := r.Resolve("./lib", from)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "src", "lib", "index.js"), got)
	})

	t.Run("root-absolute", func(t *testing.T) {
		t.Parallel()
		got, err := r.Resolve("/src/util.js", from)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "src", "util.js"), got)
	})

	t.Run("unresolvable", func(t *testing.T) {
		t.Parallel()
		_, err := r.Resolve("./missing", from)
		require.Error(t, err)
	})
}

func TestResolver_BareSpecifiers(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"node_modules/leftpad/package.json": `{"name":"leftpad","main":"lib/main.js"}`,
		"node_modules/leftpad/lib/main.js":  "",
		"node_modules/plain/index.js":       "",
		"src/deep/nested/main.js":           "",
	})

	r := fs.NewResolver(root)
	from := filepath.Join(root, "src", "deep", "nested", "main.js")

	t.Run("package main field", func(t *testing.T) {
		t.Parallel()
		got, err := r.Resolve("leftpad", from)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "node_modules", "leftpad", "lib", "main.js"), got)
	})

	t.Run("package index fallback", func(t *testing.T) {
		t.Parallel()
		got, err := r.Resolve("plain", from)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "node_modules", "plain", "index.js"), got)
	})

	t.Run("unknown package", func(t *testing.T) {
		t.Parallel()
		_, err := r.Resolve("does-not-exist", from)
		require.Error(t, err)
	})
}

func TestPackageFinder_Nearest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json":         `{"name":"app","version":"1.0.0"}`,
		"vendor/package.json":  `{"name":"vendored","allowFSReads":true}`,
		"vendor/lib/reader.js": "",
		"src/main.js":          "",
	})

	f := fs.NewPackageFinder(root)

	t.Run("walks up to nearest descriptor", func(t *testing.T) {
		t.Parallel()
		pkg, err := f.Nearest(filepath.Join(root, "vendor", "lib", "reader.js"))
		require.NoError(t, err)
		require.NotNil(t, pkg)
		assert.Equal(t, "vendored", pkg.Name)
		assert.True(t, pkg.AllowFSReads)
		assert.Equal(t, filepath.Join(root, "vendor"), pkg.Dir)
	})

	t.Run("root descriptor", func(t *testing.T) {
		t.Parallel()
		pkg, err := f.Nearest(filepath.Join(root, "src", "main.js"))
		require.NoError(t, err)
		require.NotNil(t, pkg)
		assert.Equal(t, "app", pkg.Name)
		assert.False(t, pkg.AllowFSReads)
	})

	t.Run("malformed descriptor", func(t *testing.T) {
		t.Parallel()
		bad := t.TempDir()
		writeTree(t, bad, map[string]string{"package.json": "{not json"})

		finder := fs.NewPackageFinder(bad)
		_, err := finder.Nearest(filepath.Join(bad, "main.js"))
		require.Error(t, err)
	})
}

func TestPackageFinder_NoneFound(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"src/main.js": ""})

	f := fs.NewPackageFinder(root)
	pkg, err := f.Nearest(filepath.Join(root, "src", "main.js"))
	require.NoError(t, err)
	assert.Nil(t, pkg)
}
