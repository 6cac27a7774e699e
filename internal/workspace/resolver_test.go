package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoot(t *testing.T) (string, *Resolver) {
	t.Helper()
	root, err := CanonicaliseRoot(t.TempDir())
	require.NoError(t, err)
	return root, NewResolver(root)
}

func TestCanonicaliseRoot(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := CanonicaliseRoot(filepath.Join(t.TempDir(), "missing"))
		assert.Error(t, err)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "f")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		_, err := CanonicaliseRoot(file)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotADirectory)
	})

	t.Run("resolves root symlink", func(t *testing.T) {
		dir := t.TempDir()
		real := filepath.Join(dir, "real")
		require.NoError(t, os.Mkdir(real, 0o755))
		link := filepath.Join(dir, "link")
		require.NoError(t, os.Symlink(real, link))

		root, err := CanonicaliseRoot(link)
		require.NoError(t, err)
		resolved, err := filepath.EvalSymlinks(real)
		require.NoError(t, err)
		assert.Equal(t, resolved, root)
	})
}

func TestResolveContainment(t *testing.T) {
	root, resolver := newTestRoot(t)

	tests := []struct {
		name  string
		input string
		want  string
		deny  bool
	}{
		{name: "relative path", input: "src/main.go", want: filepath.Join(root, "src", "main.go")},
		{name: "root itself", input: ".", want: root},
		{name: "dots staying inside", input: "src/../other.txt", want: filepath.Join(root, "other.txt")},
		{name: "escape via parent dots", input: "../../etc/passwd", deny: true},
		{name: "absolute outside", input: "/etc/passwd", deny: true},
		{name: "sibling prefix match", input: root + "extra/file", deny: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(tt.input)
			if tt.deny {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrOutsideRoot)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSymlinkEscape(t *testing.T) {
	root, resolver := newTestRoot(t)

	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("top secret"), 0o644))

	// A link inside the root pointing outside must be denied even though
	// the path string looks contained.
	link := filepath.Join(root, "innocent.txt")
	require.NoError(t, os.Symlink(secret, link))

	_, err := resolver.Resolve("innocent.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutsideRoot)

	dirLink := filepath.Join(root, "sub")
	require.NoError(t, os.Symlink(outside, dirLink))

	_, err = resolver.Resolve("sub/secret.txt")
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestResolveNonexistentTarget(t *testing.T) {
	root, resolver := newTestRoot(t)

	// Write targets don't exist yet; resolution walks up to the deepest
	// existing ancestor.
	got, err := resolver.Resolve("new/deep/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "new", "deep", "file.txt"), got)

	// A nonexistent path under an escaping symlink is still denied.
	outside := t.TempDir()
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "esc")))
	_, err = resolver.Resolve("esc/new.txt")
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestResolveEmptyRoot(t *testing.T) {
	resolver := NewResolver("")
	_, err := resolver.Resolve("anything")
	assert.True(t, errors.Is(err, ErrRootNotSet))
}

func TestRel(t *testing.T) {
	root, resolver := newTestRoot(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))

	rel, err := resolver.Rel("a/b")
	require.NoError(t, err)
	assert.Equal(t, "a/b", rel)

	rel, err = resolver.Rel(".")
	require.NoError(t, err)
	assert.Equal(t, "", rel)
}
