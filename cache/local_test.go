package cache

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalCache(t *testing.T) {
	c, err := NewLocalCache(2, prometheus.NewRegistry())
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "a", []byte("1")))
	v, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	// The oldest entry falls out once the size bound is hit.
	require.NoError(t, c.Put(ctx, "b", []byte("2")))
	require.NoError(t, c.Put(ctx, "c", []byte("3")))
	_, ok, err = c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewByKind(t *testing.T) {
	c, err := New(Config{Kind: KindNone}, nil)
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = New(Config{Kind: KindLocal, LocalSize: 8}, prometheus.NewRegistry())
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestKindFlag(t *testing.T) {
	var k Kind
	require.NoError(t, k.Set("local"))
	assert.Equal(t, KindLocal, k)
	require.Error(t, k.Set("bogus"))
}
