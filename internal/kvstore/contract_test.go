package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the behaviour every backend must share
func runStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "contract:missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "contract:k", `{"count":1}`))
		got, err := store.Get(ctx, "contract:k")
		require.NoError(t, err)
		assert.Equal(t, `{"count":1}`, got)
	})

	t.Run("last write wins", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "contract:lww", "first"))
		require.NoError(t, store.Set(ctx, "contract:lww", "second"))
		got, err := store.Get(ctx, "contract:lww")
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "contract:del", "v"))
		require.NoError(t, store.Delete(ctx, "contract:del"))
		require.NoError(t, store.Delete(ctx, "contract:del"))
		_, err := store.Get(ctx, "contract:del")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty value is stored", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "contract:empty", ""))
		got, err := store.Get(ctx, "contract:empty")
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}
