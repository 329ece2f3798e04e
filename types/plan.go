package types

// PlanFilters narrows a memory search. UserID is always overwritten with
// the authenticated caller's id before the plan is used, regardless of
// what the curator proposed.
type PlanFilters struct {
	UserID        string   `json:"user_id"`
	AgentID       string   `json:"agent_id,omitempty"`
	TimeRangeDays int      `json:"time_range_days,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
}

// SearchPlan is the externally proposed strategy for one resolution call.
// Tier names arrive as raw strings because the producer is an AI curator;
// the resolver parses them, drops unknown names, and reorders the rest to
// match ResolutionOrder before traversal.
type SearchPlan struct {
	Tiers        []string    `json:"tiers"`
	Filters      PlanFilters `json:"filters"`
	LimitPerTier int         `json:"limit_per_tier"`
	EarlyStop    bool        `json:"early_stop"`
	Reasoning    string      `json:"reasoning,omitempty"`
}
