package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/cookbook/internal/kv"
)

func TestProviderGetSet(t *testing.T) {
	p, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("missing key is not found", func(t *testing.T) {
		v, found, err := p.Get(ctx, kv.KeyMyRecipes)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, p.Set(ctx, kv.KeyMyRecipes, `[{"id":"1"}]`))

		v, found, err := p.Get(ctx, kv.KeyMyRecipes)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[{"id":"1"}]`, v)
	})

	t.Run("overwrite leaves no temp files", func(t *testing.T) {
		require.NoError(t, p.Set(ctx, kv.KeyMyRecipes, `[]`))

		entries, err := os.ReadDir(p.dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.Equal(t, kv.KeyMyRecipes+".json", entries[0].Name())
	})
}

func TestProviderRejectsPathKeys(t *testing.T) {
	p, err := New(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "a/b", `a\b`} {
		_, _, err := p.Get(context.Background(), key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestProviderUpdate(t *testing.T) {
	p, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	err = p.Update(ctx, "counter", func(cur string, found bool) (string, error) {
		assert.False(t, found)
		return "1", nil
	})
	require.NoError(t, err)

	sentinel := errors.New("abort")
	err = p.Update(ctx, "counter", func(cur string, found bool) (string, error) {
		assert.True(t, found)
		assert.Equal(t, "1", cur)
		return "", sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, kv.ErrUnavailable)

	v, _, err := p.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, "1", v, "aborted update must not write")
}

func TestProviderUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	p, err := New(dir)
	require.NoError(t, err)

	// A directory where the value file should be makes ReadFile fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, kv.KeyMyRecipes+".json"), 0o755))

	_, _, err = p.Get(context.Background(), kv.KeyMyRecipes)
	assert.ErrorIs(t, err, kv.ErrUnavailable)
}
