package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaazhan/kingmem/types"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.Addr = mr.Addr()
	cfg.SessionTTL = time.Hour

	store, err := NewSessionStore(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func workingMemory(id, content string) types.Memory {
	return types.Memory{
		ID:         id,
		Content:    content,
		Tier:       types.TierWorking,
		Importance: 1.0,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestSessionStoreAppendAndLoad(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", workingMemory("m1", "first")))
	require.NoError(t, store.Append(ctx, "sess-1", workingMemory("m2", "second")))

	memories, err := store.LoadWorking(ctx, "sess-1", 10)
	require.NoError(t, err)
	require.Len(t, memories, 2)
	assert.Equal(t, "first", memories[0].Content)
	assert.Equal(t, "second", memories[1].Content)
	assert.Equal(t, types.TierWorking, memories[0].Tier)
}

func TestSessionStoreLoadLimitKeepsMostRecent(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"m1", "m2", "m3", "m4"} {
		require.NoError(t, store.Append(ctx, "sess-1", workingMemory(id, id)))
	}

	memories, err := store.LoadWorking(ctx, "sess-1", 2)
	require.NoError(t, err)
	require.Len(t, memories, 2)
	assert.Equal(t, "m3", memories[0].ID)
	assert.Equal(t, "m4", memories[1].ID)
}

func TestSessionStoreSessionIsolation(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-a", workingMemory("a1", "for a")))
	require.NoError(t, store.Append(ctx, "sess-b", workingMemory("b1", "for b")))

	memories, err := store.LoadWorking(ctx, "sess-a", 10)
	require.NoError(t, err)
	require.Len(t, memories, 1)
	assert.Equal(t, "a1", memories[0].ID)
}

func TestSessionStoreMalformedEntriesSkipped(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", workingMemory("m1", "good")))
	_, err := mr.Push("working:sess-1", "{not json")
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, "sess-1", workingMemory("m2", "also good")))

	memories, err := store.LoadWorking(ctx, "sess-1", 10)
	require.NoError(t, err)
	require.Len(t, memories, 2)
	assert.Equal(t, "m1", memories[0].ID)
	assert.Equal(t, "m2", memories[1].ID)
}

func TestSessionStoreTTLRefreshOnAppend(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", workingMemory("m1", "x")))
	assert.Equal(t, time.Hour, mr.TTL("working:sess-1"))

	mr.FastForward(30 * time.Minute)
	require.NoError(t, store.Append(ctx, "sess-1", workingMemory("m2", "y")))
	assert.Equal(t, time.Hour, mr.TTL("working:sess-1"))
}

func TestSessionStoreExpiry(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", workingMemory("m1", "x")))
	mr.FastForward(2 * time.Hour)

	memories, err := store.LoadWorking(ctx, "sess-1", 10)
	require.NoError(t, err)
	assert.Empty(t, memories)
}

func TestSessionStoreClear(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", workingMemory("m1", "x")))
	require.NoError(t, store.Clear(ctx, "sess-1"))

	memories, err := store.LoadWorking(ctx, "sess-1", 10)
	require.NoError(t, err)
	assert.Empty(t, memories)
}

func TestSessionStoreEmptySessionID(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.Append(ctx, "", workingMemory("m1", "x")))

	memories, err := store.LoadWorking(ctx, "", 10)
	require.NoError(t, err)
	assert.Nil(t, memories)
}

func TestSessionStoreConnectFailure(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:1"

	_, err := NewSessionStore(cfg, nil)
	assert.Error(t, err)
}
