package walker_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/homer/pkg/errors"
	"github.com/arthur-debert/homer/pkg/filesystem"
	"github.com/arthur-debert/homer/pkg/testutil"
	"github.com/arthur-debert/homer/pkg/types"
	"github.com/arthur-debert/homer/pkg/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, root string, skip map[string]bool) []types.Entry {
	t.Helper()
	var entries []types.Entry
	err := walker.Walk(filesystem.NewOS(), root, func(e types.Entry) error {
		entries = append(entries, e)
		if skip[e.RelPath] {
			return walker.SkipDir
		}
		return nil
	})
	require.NoError(t, err)
	return entries
}

func TestWalk_ParentsFirstLexicalOrder(t *testing.T) {
	root := t.TempDir()
	testutil.CreateFileTree(t, root, testutil.FileTree{
		"file": "content",
		"dir": testutil.FileTree{
			"b": "b",
			"a": "a",
			"sub": testutil.FileTree{
				"deep": "deep",
			},
		},
	})

	entries := collect(t, root, nil)

	assert.Equal(t, []types.Entry{
		{RelPath: "dir", Kind: types.KindDirectory},
		{RelPath: filepath.Join("dir", "a"), Kind: types.KindFile},
		{RelPath: filepath.Join("dir", "b"), Kind: types.KindFile},
		{RelPath: filepath.Join("dir", "sub"), Kind: types.KindDirectory},
		{RelPath: filepath.Join("dir", "sub", "deep"), Kind: types.KindFile},
		{RelPath: "file", Kind: types.KindFile},
	}, entries)
}

func TestWalk_SymlinksNotFollowed(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	testutil.CreateFileTree(t, outside, testutil.FileTree{"inner": "x"})
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "linked-dir")))

	entries := collect(t, root, nil)

	assert.Equal(t, []types.Entry{
		{RelPath: "linked-dir", Kind: types.KindSymlink},
	}, entries)
}

func TestWalk_SkipDirPrunes(t *testing.T) {
	root := t.TempDir()
	testutil.CreateFileTree(t, root, testutil.FileTree{
		"dir":  testutil.FileTree{"a": "a"},
		"file": "f",
	})

	entries := collect(t, root, map[string]bool{"dir": true})

	assert.Equal(t, []types.Entry{
		{RelPath: "dir", Kind: types.KindDirectory},
		{RelPath: "file", Kind: types.KindFile},
	}, entries)
}

func TestWalk_RootErrors(t *testing.T) {
	t.Run("missing_root", func(t *testing.T) {
		err := walker.Walk(filesystem.NewOS(), filepath.Join(t.TempDir(), "nope"), func(types.Entry) error { return nil })
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	})

	t.Run("root_is_file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0644))

		err := walker.Walk(filesystem.NewOS(), file, func(types.Entry) error { return nil })
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	})
}

func TestWalk_CallbackErrorStops(t *testing.T) {
	root := t.TempDir()
	testutil.CreateFileTree(t, root, testutil.FileTree{"a": "a", "b": "b"})

	stop := errors.New(errors.ErrInternal, "stop")
	var seen []string
	err := walker.Walk(filesystem.NewOS(), root, func(e types.Entry) error {
		seen = append(seen, e.RelPath)
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"a"}, seen)
}
