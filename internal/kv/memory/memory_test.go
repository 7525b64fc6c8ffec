package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/cookbook/internal/kv"
)

func TestProvider(t *testing.T) {
	p := New()
	ctx := context.Background()

	_, found, err := p.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, p.Set(ctx, "k", "v"))
	v, found, err := p.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)

	require.NoError(t, p.Update(ctx, "k", func(cur string, found bool) (string, error) {
		return cur + "2", nil
	}))
	v, _, _ = p.Get(ctx, "k")
	assert.Equal(t, "v2", v)
}

func TestProviderFail(t *testing.T) {
	p := New()
	p.Fail(errors.New("disk full"))

	_, _, err := p.Get(context.Background(), "k")
	assert.ErrorIs(t, err, kv.ErrUnavailable)
	assert.ErrorIs(t, p.Set(context.Background(), "k", "v"), kv.ErrUnavailable)

	p.Fail(nil)
	assert.NoError(t, p.Set(context.Background(), "k", "v"))
}
