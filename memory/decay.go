package memory

import (
	"math"
	"sort"
	"time"

	"github.com/yaazhan/kingmem/types"
)

// Decay constants. Episodic memories follow the Ebbinghaus forgetting
// curve; working memories expire on a hard cliff.
const (
	// EpisodicHalfLifeDays is the stability of the episodic forgetting
	// curve, in days.
	EpisodicHalfLifeDays = 30.0

	// WorkingMemoryTTL is the cliff after which working memories score 0.
	WorkingMemoryTTL = 24 * time.Hour

	// MinRetention floors the episodic decay factor. Memories are never
	// fully forgotten by decay alone, minimum 1%.
	MinRetention = 0.01

	// DefaultMinImportance is the expiry threshold for FilterExpired.
	DefaultMinImportance = 0.1
)

// DecayConfig tunes the decay engine. Zero values fall back to the
// package defaults above.
type DecayConfig struct {
	HalfLifeDays  float64       `json:"half_life_days" yaml:"half_life_days"`
	WorkingTTL    time.Duration `json:"working_ttl" yaml:"working_ttl"`
	MinRetention  float64       `json:"min_retention" yaml:"min_retention"`
	MinImportance float64       `json:"min_importance" yaml:"min_importance"`
}

// DefaultDecayConfig returns the production defaults.
func DefaultDecayConfig() DecayConfig {
	return DecayConfig{
		HalfLifeDays:  EpisodicHalfLifeDays,
		WorkingTTL:    WorkingMemoryTTL,
		MinRetention:  MinRetention,
		MinImportance: DefaultMinImportance,
	}
}

func (c DecayConfig) withDefaults() DecayConfig {
	if c.HalfLifeDays <= 0 {
		c.HalfLifeDays = EpisodicHalfLifeDays
	}
	if c.WorkingTTL <= 0 {
		c.WorkingTTL = WorkingMemoryTTL
	}
	if c.MinRetention <= 0 {
		c.MinRetention = MinRetention
	}
	if c.MinImportance <= 0 {
		c.MinImportance = DefaultMinImportance
	}
	return c
}

// DecayEngine computes effective importance from age and tier config.
// It is stateless and safe for concurrent use.
type DecayEngine struct {
	cfg DecayConfig
}

// NewDecayEngine creates a decay engine with the given config.
func NewDecayEngine(cfg DecayConfig) *DecayEngine {
	return &DecayEngine{cfg: cfg.withDefaults()}
}

// DecayFactor computes the Ebbinghaus retention e^(-age/stability),
// floored at minRetention. Non-positive ages (clock skew within
// tolerance) return exactly 1.0 with no division performed.
func DecayFactor(ageDays, halfLifeDays, minRetention float64) float64 {
	if ageDays <= 0 {
		return 1.0
	}
	decay := math.Exp(-ageDays / halfLifeDays)
	return math.Max(minRetention, decay)
}

// EffectiveImportance returns the memory's importance adjusted for age at
// the given time. Non-decaying tiers pass through unchanged; WORKING
// memories past the TTL score exactly 0; EPISODIC memories fade on the
// forgetting curve.
func (e *DecayEngine) EffectiveImportance(m types.Memory, now time.Time) float64 {
	cfg, ok := m.Tier.Config()
	if !ok || !cfg.Decays {
		return m.Importance
	}

	switch m.Tier {
	case types.TierWorking:
		if now.Sub(m.CreatedAt) > e.cfg.WorkingTTL {
			return 0.0
		}
		return m.Importance
	case types.TierEpisodic:
		return m.Importance * DecayFactor(m.AgeDays(now), e.cfg.HalfLifeDays, e.cfg.MinRetention)
	}
	return m.Importance
}

// ApplyDecay replaces each memory's importance with its effective value
// and returns a new slice sorted by effective importance descending,
// stable on ties by original order. The input slice is not modified.
func (e *DecayEngine) ApplyDecay(memories []types.Memory, now time.Time) []types.Memory {
	scored := make([]types.Memory, len(memories))
	for i, m := range memories {
		m.Importance = e.EffectiveImportance(m, now)
		scored[i] = m
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Importance > scored[j].Importance
	})
	return scored
}

// FilterExpired drops memories whose (already decayed) importance is
// below min, preserving survivor order. A non-positive min uses the
// engine's configured threshold.
func (e *DecayEngine) FilterExpired(memories []types.Memory, min float64) []types.Memory {
	if min <= 0 {
		min = e.cfg.MinImportance
	}
	out := make([]types.Memory, 0, len(memories))
	for _, m := range memories {
		if m.Importance >= min {
			out = append(out, m)
		}
	}
	return out
}
