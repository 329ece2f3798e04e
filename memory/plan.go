package memory

import (
	"context"

	"go.uber.org/zap"

	"github.com/yaazhan/kingmem/types"
)

// DefaultLimitPerTier is the per-tier result cap of the fallback plan.
const DefaultLimitPerTier = 5

// PlanRequest carries the context the curator plans from.
type PlanRequest struct {
	Query          string         `json:"query"`
	UserID         string         `json:"user_id"`
	AgentID        string         `json:"agent_id"`
	SessionContext map[string]any `json:"session_context,omitempty"`
}

// Planner is the port to the external AI curator that proposes a search
// strategy for one query. Implementations make network calls; the
// resolver bounds each call with a single attempt under a timeout and
// falls back to FallbackPlan on any error. Resolution correctness never
// depends on the curator returning well-formed output.
type Planner interface {
	PlanSearch(ctx context.Context, req PlanRequest) (*types.SearchPlan, error)
}

// FallbackPlan is the deterministic plan used whenever the curator is
// unavailable or returns garbage: all five tiers in resolution order,
// default limit, no early stop, scoped to the authenticated caller.
func FallbackPlan(userID string) *types.SearchPlan {
	tiers := make([]string, 0, len(types.ResolutionOrder))
	for _, t := range types.ResolutionOrder {
		tiers = append(tiers, string(t))
	}
	return &types.SearchPlan{
		Tiers:        tiers,
		Filters:      types.PlanFilters{UserID: userID},
		LimitPerTier: DefaultLimitPerTier,
		EarlyStop:    false,
		Reasoning:    "fallback - curator unavailable",
	}
}

// sanitizePlan normalizes an externally produced plan before use.
//
// Security invariant: filters.user_id is unconditionally overwritten with
// the authenticated caller's id. Unknown tier names are dropped with a
// warning; the surviving tiers are reordered to ResolutionOrder because
// plan-supplied order is advisory, never authoritative. A plan with no
// usable tiers or a non-positive limit degrades to the fallback plan.
//
// Returns the sanitized plan and the ordered tiers to traverse.
func sanitizePlan(plan *types.SearchPlan, userID string, logger *zap.Logger) (*types.SearchPlan, []types.Tier) {
	if plan == nil || plan.LimitPerTier <= 0 || len(plan.Tiers) == 0 {
		logger.Warn("search plan malformed, using fallback",
			zap.Bool("nil_plan", plan == nil))
		plan = FallbackPlan(userID)
	}

	requested := make(map[types.Tier]bool, len(plan.Tiers))
	for _, name := range plan.Tiers {
		tier, ok := types.ParseTier(name)
		if !ok {
			logger.Warn("dropping unknown tier from search plan", zap.String("tier", name))
			continue
		}
		requested[tier] = true
	}

	ordered := make([]types.Tier, 0, len(requested))
	for _, tier := range types.ResolutionOrder {
		if requested[tier] {
			ordered = append(ordered, tier)
		}
	}
	if len(ordered) == 0 {
		logger.Warn("search plan had no known tiers, using fallback")
		plan = FallbackPlan(userID)
		ordered = append(ordered, types.ResolutionOrder...)
	}

	sanitized := *plan
	sanitized.Tiers = make([]string, 0, len(ordered))
	for _, tier := range ordered {
		sanitized.Tiers = append(sanitized.Tiers, string(tier))
	}
	sanitized.Filters.UserID = userID

	return &sanitized, ordered
}
