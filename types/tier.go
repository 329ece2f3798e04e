package types

// Tier identifies one of the five memory scopes.
type Tier string

const (
	// TierWorking is short-lived session context. Expires via a hard TTL cliff.
	TierWorking Tier = "working"

	// TierEpisodic holds per-user interaction history. Fades on the
	// Ebbinghaus forgetting curve.
	TierEpisodic Tier = "episodic"

	// TierSemantic holds learned facts promoted out of episodic memory.
	TierSemantic Tier = "semantic"

	// TierLineage holds per-agent-type expertise seeded at startup.
	TierLineage Tier = "lineage"

	// TierCollective holds system-wide identity shared by all agents and users.
	TierCollective Tier = "collective"
)

// ScopeKind names the ownership scope of a tier.
type ScopeKind string

const (
	ScopeKingdom     ScopeKind = "kingdom"
	ScopeAgentType   ScopeKind = "agent_type"
	ScopeUserSession ScopeKind = "user_session"
	ScopeUser        ScopeKind = "user"
	ScopeSession     ScopeKind = "session"
)

// TierConfig is the immutable per-tier configuration record.
type TierConfig struct {
	Decays            bool      `json:"decays"`
	DefaultImportance float64   `json:"default_importance"`
	GraphEnabled      bool      `json:"graph_enabled"`
	Scope             ScopeKind `json:"scope"`
}

// ResolutionOrder is the fixed tier traversal order: most specific and
// ephemeral first, most durable last. Callers may stop early but must
// never reorder.
var ResolutionOrder = []Tier{
	TierWorking,
	TierEpisodic,
	TierSemantic,
	TierLineage,
	TierCollective,
}

var tierConfigs = map[Tier]TierConfig{
	TierCollective: {Decays: false, DefaultImportance: 1.0, GraphEnabled: true, Scope: ScopeKingdom},
	TierLineage:    {Decays: false, DefaultImportance: 0.9, GraphEnabled: false, Scope: ScopeAgentType},
	TierEpisodic:   {Decays: true, DefaultImportance: 0.7, GraphEnabled: false, Scope: ScopeUserSession},
	TierSemantic:   {Decays: false, DefaultImportance: 0.8, GraphEnabled: false, Scope: ScopeUser},
	TierWorking:    {Decays: true, DefaultImportance: 1.0, GraphEnabled: false, Scope: ScopeSession},
}

// Config returns the static configuration for the tier.
// The second return value is false for unknown tiers.
func (t Tier) Config() (TierConfig, bool) {
	cfg, ok := tierConfigs[t]
	return cfg, ok
}

// Valid reports whether the tier is one of the five known tiers.
func (t Tier) Valid() bool {
	_, ok := tierConfigs[t]
	return ok
}

// ParseTier converts an externally supplied tier name into a Tier.
// Unknown names return false; callers drop them with a warning rather
// than failing the whole plan.
func ParseTier(name string) (Tier, bool) {
	t := Tier(name)
	if t.Valid() {
		return t, true
	}
	return "", false
}
