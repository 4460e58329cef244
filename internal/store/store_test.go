package store_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenegen/internal/store"
)

func TestStore(t *testing.T) {
	fsys := afero.NewMemMapFs()
	st := store.New(fsys)
	require.NoError(t, afero.WriteFile(fsys, "scenes/b.scene", []byte("b"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "scenes/a.scene", []byte("a"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "scenes/a.yaml", []byte("x: 1"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "scenes/nested/c.scene", []byte("c"), 0644))

	t.Run("lists matching files only, sorted", func(t *testing.T) {
		got, err := st.List("scenes", ".scene")
		require.NoError(t, err)
		assert.Equal(t, []string{"a.scene", "b.scene"}, got)
	})
	t.Run("listing a missing dir fails", func(t *testing.T) {
		_, err := st.List("missing", ".scene")
		assert.True(t, store.IsNotExist(err), "got %v", err)
	})
	t.Run("can read a file", func(t *testing.T) {
		got, err := st.Read("scenes/a.scene")
		require.NoError(t, err)
		assert.Equal(t, "a", string(got))
	})
	t.Run("reading a missing file fails with the path", func(t *testing.T) {
		_, err := st.Read("scenes/zzz.scene")
		require.Error(t, err)
		assert.True(t, store.IsNotExist(err))
		assert.Contains(t, err.Error(), "scenes/zzz.scene")
	})
	t.Run("write creates parent dirs and replaces content", func(t *testing.T) {
		require.NoError(t, st.Write("out/deep/a.json", []byte("1")))
		require.NoError(t, st.Write("out/deep/a.json", []byte("2")))
		got, err := afero.ReadFile(fsys, "out/deep/a.json")
		require.NoError(t, err)
		assert.Equal(t, "2", string(got))
	})
	t.Run("exists", func(t *testing.T) {
		ok, err := st.Exists("scenes/a.yaml")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = st.Exists("scenes/b.yaml")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
