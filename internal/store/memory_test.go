package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryKV_RoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, KeyToken, []byte("tok")))

	got, err := kv.Get(ctx, KeyToken)
	require.NoError(t, err)
	require.Equal(t, []byte("tok"), got)
}

func TestMemoryKV_GetReturnsCopy(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, KeyToken, []byte("tok")))

	got, _ := kv.Get(ctx, KeyToken)
	got[0] = 'X'

	again, _ := kv.Get(ctx, KeyToken)
	require.Equal(t, []byte("tok"), again)
}

func TestMemoryKV_ClearAndDeleteAreIdempotent(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Delete(ctx, "missing"))
	require.NoError(t, kv.Clear(ctx))

	require.NoError(t, kv.Set(ctx, KeyTheme, []byte("dark")))
	require.NoError(t, kv.Clear(ctx))
	require.NoError(t, kv.Clear(ctx))

	got, err := kv.Get(ctx, KeyTheme)
	require.NoError(t, err)
	require.Nil(t, got)
}
