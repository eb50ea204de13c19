package realpath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealpath_normalizes(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/a/b/c", 0755))

	cases := map[string]struct {
		wd       string
		path     string
		expected string
	}{
		"absolute":        {"/", "/a/b", "/a/b"},
		"relative":        {"/a", "b/c", "/a/b/c"},
		"empty":           {"/a/b", "", "/a/b"},
		"dot":             {"/a", ".", "/a"},
		"dot-dot":         {"/a/b/c", "../..", "/a"},
		"dot-dot-mid":     {"/", "/a/../a/b", "/a/b"},
		"above-root":      {"/", "../../a", "/a"},
		"root-dot":        {"/", "/.", "/"},
		"double-slash":    {"/", "//a//b/", "/a/b"},
		"trailing-dot":    {"/", "/a/b/.", "/a/b"},
		"trailing-dotdot": {"/", "/a/b/..", "/a"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			actual, err := Realpath(fs, tc.wd, tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestRealpath_missing(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Realpath(fs, "/", "/does/not/exist")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRealpath_relativeWd(t *testing.T) {
	_, err := Realpath(afero.NewMemMapFs(), "relative", "x")
	assert.Error(t, err)
}

func TestRealpath_symlinks(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "real", "sub"), 0755))
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "abs-link")))
	require.NoError(t, os.Symlink("real/sub", filepath.Join(root, "rel-link")))
	require.NoError(t, os.Symlink("loop-b", filepath.Join(root, "loop-a")))
	require.NoError(t, os.Symlink("loop-a", filepath.Join(root, "loop-b")))

	fs := afero.NewOsFs()

	actual, err := Realpath(fs, root, "abs-link/sub")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "real", "sub"), actual)

	actual, err = Realpath(fs, root, "rel-link/..")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "real"), actual)

	_, err = Realpath(fs, root, "loop-a")
	assert.Equal(t, errTooManyLinks, err)
}
