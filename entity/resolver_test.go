package entity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaazhan/kingmem/entity"
	"github.com/yaazhan/kingmem/testutil/mocks"
	"github.com/yaazhan/kingmem/types"
)

func TestResolveCanonicalName(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockEntityStore().WithEntity(&types.Entity{
		ID:            "ent-1",
		CanonicalName: "alice",
		Aliases:       []string{"alice", "alice@example.com"},
		Type:          types.EntityHuman,
	})
	resolver := entity.NewResolver(store, nil)

	ent, err := resolver.Resolve(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "ent-1", ent.ID)
	assert.True(t, ent.Authoritative())
	assert.Zero(t, store.InsertCalls())
}

func TestResolveByAlias(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockEntityStore().WithEntity(&types.Entity{
		ID:            "ent-1",
		CanonicalName: "alice",
		Aliases:       []string{"alice", "alice@example.com", "al"},
		Type:          types.EntityHuman,
	})
	resolver := entity.NewResolver(store, nil)

	ent, err := resolver.Resolve(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ent-1", ent.ID)
}

func TestResolveTrimsWhitespace(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockEntityStore().WithEntity(&types.Entity{
		ID:            "ent-1",
		CanonicalName: "alice",
		Aliases:       []string{"alice"},
	})
	resolver := entity.NewResolver(store, nil)

	ent, err := resolver.Resolve(context.Background(), "  alice  ")
	require.NoError(t, err)
	assert.Equal(t, "ent-1", ent.ID)
}

func TestResolveEmptyHandle(t *testing.T) {
	t.Parallel()

	resolver := entity.NewResolver(mocks.NewMockEntityStore(), nil)
	_, err := resolver.Resolve(context.Background(), "   ")
	assert.True(t, types.IsErrorCode(err, types.ErrResolverUnavailable))
}

func TestResolveCreatesUnknownHandle(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockEntityStore()
	resolver := entity.NewResolver(store, nil)

	ent, err := resolver.Resolve(context.Background(), "new-user")
	require.NoError(t, err)
	assert.Equal(t, "new-user", ent.CanonicalName)
	assert.Equal(t, []string{"new-user"}, ent.Aliases)
	assert.Equal(t, types.EntityUnresolved, ent.Type)
	assert.NotEmpty(t, ent.ID)
	assert.True(t, ent.Authoritative(), "persisted entity must be authoritative")
	assert.Equal(t, 1, store.Count())

	// Second resolution of the same handle hits the canonical lookup.
	again, err := resolver.Resolve(context.Background(), "new-user")
	require.NoError(t, err)
	assert.Equal(t, ent.ID, again.ID)
	assert.Equal(t, 1, store.InsertCalls())
}

func TestResolveCreationRaceConverges(t *testing.T) {
	t.Parallel()

	winner := &types.Entity{
		ID:            "ent-winner",
		CanonicalName: "bob",
		Aliases:       []string{"bob"},
		Type:          types.EntityUnresolved,
	}
	store := mocks.NewMockEntityStore().WithInsertConflict(winner)
	resolver := entity.NewResolver(store, nil)

	// The loser's insert conflicts; the retry fetch returns the
	// winner's record and both callers converge on one id.
	ent, err := resolver.Resolve(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "ent-winner", ent.ID)
	assert.Equal(t, 1, store.Count())
}

func TestResolveSyntheticFallback(t *testing.T) {
	t.Parallel()

	// Lookups answer not-found but the insert fails for a non-conflict
	// reason: the caller still gets a usable, non-authoritative entity.
	store := mocks.NewMockEntityStore().WithInsertError(errors.New("disk full"))
	resolver := entity.NewResolver(store, nil)

	ent, err := resolver.Resolve(context.Background(), "carol")
	require.NoError(t, err)
	assert.Equal(t, "carol", ent.CanonicalName)
	assert.Equal(t, types.EntityUnresolved, ent.Type)
	assert.False(t, ent.Authoritative())
	assert.Zero(t, store.Count())
}

func TestResolveStoreUnreachable(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockEntityStore().
		WithFindError(errors.New("connection refused")).
		WithInsertError(errors.New("connection refused"))
	resolver := entity.NewResolver(store, nil)

	_, err := resolver.Resolve(context.Background(), "dave")
	assert.True(t, types.IsErrorCode(err, types.ErrResolverUnavailable))
}

func TestGetByID(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockEntityStore().WithEntity(&types.Entity{
		ID:            "ent-1",
		CanonicalName: "alice",
	})
	resolver := entity.NewResolver(store, nil)

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		ent, err := resolver.GetByID(context.Background(), "ent-1")
		require.NoError(t, err)
		assert.Equal(t, "alice", ent.CanonicalName)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		_, err := resolver.GetByID(context.Background(), "missing")
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})
}
