package sprint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dylangamachefl/foundation-sprint/internal/types"
)

func TestMemoryStore_PutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := NewSprint(ProductIdea{Name: "X", Description: "does X"})
	require.NoError(t, store.Put(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), types.NewID())
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.SPRINT_NOT_FOUND))
}

func TestMemoryStore_PutWithoutID(t *testing.T) {
	store := NewMemoryStore()

	err := store.Put(context.Background(), &Sprint{})
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.SPRINT_STORE_FAILED))
}
