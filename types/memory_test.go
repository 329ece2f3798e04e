package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemory_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		memory  Memory
		wantErr bool
	}{
		{
			name:   "valid episodic memory",
			memory: Memory{Content: "user prefers dark mode", Tier: TierEpisodic, Importance: 0.7},
		},
		{
			name:   "importance at bounds",
			memory: Memory{Content: "boundary", Tier: TierSemantic, Importance: 1.0},
		},
		{
			name:    "importance above one",
			memory:  Memory{Content: "too important", Tier: TierEpisodic, Importance: 1.2},
			wantErr: true,
		},
		{
			name:    "negative importance",
			memory:  Memory{Content: "negative", Tier: TierEpisodic, Importance: -0.1},
			wantErr: true,
		},
		{
			name:    "empty content",
			memory:  Memory{Content: "   ", Tier: TierWorking, Importance: 0.5},
			wantErr: true,
		},
		{
			name:    "unknown tier",
			memory:  Memory{Content: "hello", Tier: Tier("procedural"), Importance: 0.5},
			wantErr: true,
		},
		{
			name: "timestamp far in the future",
			memory: Memory{
				Content:    "from tomorrow",
				Tier:       TierEpisodic,
				Importance: 0.5,
				CreatedAt:  time.Now().Add(time.Hour),
			},
			wantErr: true,
		},
		{
			name: "timestamp within clock skew",
			memory: Memory{
				Content:    "slightly ahead",
				Tier:       TierEpisodic,
				Importance: 0.5,
				CreatedAt:  time.Now().Add(time.Minute),
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := NewMemory(tt.memory)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, ErrInvalidMemory, GetErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, m.ID)
			assert.False(t, m.CreatedAt.IsZero())
		})
	}
}

func TestNewMemory_PreservesExplicitFields(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	m, err := NewMemory(Memory{
		ID:         "mem_1",
		Content:    "explicit",
		Tier:       TierSemantic,
		Importance: 0.8,
		CreatedAt:  created,
		UserID:     "u1",
		StoreID:    "store_9",
	})
	require.NoError(t, err)
	assert.Equal(t, "mem_1", m.ID)
	assert.Equal(t, created, m.CreatedAt)
	assert.Equal(t, "store_9", m.StoreID)
}

func TestMemory_AgeDays(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	m := Memory{CreatedAt: now.AddDate(0, 0, -10)}
	assert.InDelta(t, 10.0, m.AgeDays(now), 1e-9)

	ahead := Memory{CreatedAt: now.Add(time.Minute)}
	assert.Negative(t, ahead.AgeDays(now))
}

func TestMemorySearchResult_Flat(t *testing.T) {
	t.Parallel()

	r := NewMemorySearchResult()
	r.Memories[TierCollective] = []Memory{{ID: "c1"}}
	r.Memories[TierWorking] = []Memory{{ID: "w1"}, {ID: "w2"}}
	r.Memories[TierEpisodic] = []Memory{{ID: "e1"}}
	r.TotalCount = 4

	flat := r.Flat()
	require.Len(t, flat, 4)
	// Flat view follows ResolutionOrder, not insertion order.
	assert.Equal(t, []string{"w1", "w2", "e1", "c1"},
		[]string{flat[0].ID, flat[1].ID, flat[2].ID, flat[3].ID})
}

func TestMemorySearchResult_TopK(t *testing.T) {
	t.Parallel()

	r := NewMemorySearchResult()
	r.Memories[TierWorking] = []Memory{{ID: "w1", Importance: 0.4}}
	r.Memories[TierCollective] = []Memory{{ID: "c1", Importance: 1.0}, {ID: "c2", Importance: 0.4}}
	r.TotalCount = 3

	top := r.TopK(2)
	require.Len(t, top, 2)
	assert.Equal(t, "c1", top[0].ID)
	// Tie at 0.4 resolves by resolution order: working before collective.
	assert.Equal(t, "w1", top[1].ID)

	assert.Len(t, r.TopK(10), 3)
}
