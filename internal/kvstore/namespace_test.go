package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespace_Contract(t *testing.T) {
	runStoreContract(t, Namespace(NewMemoryStore(), "ns:"))
}

func TestNamespace_Isolation(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()
	a := ClientNamespace(base, "a")
	b := ClientNamespace(base, "b")

	require.NoError(t, a.Set(ctx, "currentSession", "session_a"))

	_, err := b.Get(ctx, "currentSession")
	assert.ErrorIs(t, err, ErrNotFound)

	raw, err := base.Get(ctx, "client:a:currentSession")
	require.NoError(t, err)
	assert.Equal(t, "session_a", raw)

	require.NoError(t, b.Delete(ctx, "currentSession"))
	got, err := a.Get(ctx, "currentSession")
	require.NoError(t, err)
	assert.Equal(t, "session_a", got)
}

func TestNamespace_EmptyPrefixReturnsStore(t *testing.T) {
	base := NewMemoryStore()
	assert.Same(t, base, Namespace(base, "").(*MemoryStore))
}

func TestScoped(t *testing.T) {
	base := NewMemoryStore()
	ctx := context.Background()

	assert.Same(t, base, Scoped(ctx, base).(*MemoryStore))

	clientCtx := WithClient(ctx, "abc")
	require.NoError(t, Scoped(clientCtx, base).Set(clientCtx, "csrf_token", "t"))

	got, err := base.Get(ctx, "client:abc:csrf_token")
	require.NoError(t, err)
	assert.Equal(t, "t", got)

	id, ok := ClientFromContext(clientCtx)
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = ClientFromContext(WithClient(ctx, ""))
	assert.False(t, ok)
}
