package types

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ClockSkewTolerance is how far into the future a memory's creation
// timestamp may sit before construction rejects it. Distributed writers
// drift by seconds, not minutes.
const ClockSkewTolerance = 5 * time.Minute

// Memory is a single memory entry. The tier is immutable after
// construction; promotion between tiers creates a new Memory.
type Memory struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	Tier       Tier           `json:"tier"`
	Importance float64        `json:"importance"`
	CreatedAt  time.Time      `json:"created_at"`
	UserID     string         `json:"user_id,omitempty"`
	AgentID    string         `json:"agent_id,omitempty"`
	SessionID  string         `json:"session_id,omitempty"`
	StoreID    string         `json:"store_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NewMemory validates and completes a memory record. Importance outside
// [0,1], an unknown tier, empty content, or a creation timestamp beyond
// the clock-skew tolerance all fail fast with INVALID_MEMORY; scores are
// never silently clamped.
func NewMemory(m Memory) (*Memory, error) {
	if strings.TrimSpace(m.Content) == "" {
		return nil, NewError(ErrInvalidMemory, "memory content is empty")
	}
	if !m.Tier.Valid() {
		return nil, NewError(ErrInvalidMemory, "unknown memory tier: "+string(m.Tier))
	}
	if m.Importance < 0 || m.Importance > 1 {
		return nil, NewError(ErrInvalidMemory, "importance must be within [0,1]")
	}

	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	} else if m.CreatedAt.After(now.Add(ClockSkewTolerance)) {
		return nil, NewError(ErrInvalidMemory, "created_at is beyond clock-skew tolerance")
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return &m, nil
}

// AgeDays returns the memory's age in fractional days at the given time.
// Negative ages (writer clock ahead within tolerance) are reported as-is;
// the decay engine treats them as zero age.
func (m *Memory) AgeDays(now time.Time) float64 {
	return now.Sub(m.CreatedAt).Hours() / 24
}

// MemorySearchResult groups resolved memories by tier. It is built
// incrementally during traversal and immutable once returned.
type MemorySearchResult struct {
	Memories   map[Tier][]Memory `json:"memories"`
	TotalCount int               `json:"total_count"`
	SearchTime time.Duration     `json:"search_time"`
}

// NewMemorySearchResult returns an empty result ready for accumulation.
func NewMemorySearchResult() *MemorySearchResult {
	return &MemorySearchResult{Memories: make(map[Tier][]Memory)}
}

// Flat returns all memories in a single slice, ordered by ResolutionOrder
// and preserving per-tier ranking.
func (r *MemorySearchResult) Flat() []Memory {
	out := make([]Memory, 0, r.TotalCount)
	for _, tier := range ResolutionOrder {
		out = append(out, r.Memories[tier]...)
	}
	return out
}

// TopK returns the k highest-importance memories across all tiers,
// stable on ties by resolution order.
func (r *MemorySearchResult) TopK(k int) []Memory {
	all := r.Flat()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Importance > all[j].Importance
	})
	if k > len(all) {
		k = len(all)
	}
	return all[:k]
}
