package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yaazhan/kingmem/internal/metrics"
	"github.com/yaazhan/kingmem/types"
)

// Resolver timeouts. Every external call carries its own deadline so a
// slow dependency degrades the result instead of blocking it.
const (
	DefaultPlanTimeout    = 3 * time.Second
	DefaultTierTimeout    = 5 * time.Second
	DefaultResolveTimeout = 15 * time.Second
)

// EntityResolver canonicalizes free-text handles to stable entities.
// Implemented by the entity package; declared here so the resolver never
// depends on the store technology behind it.
type EntityResolver interface {
	Resolve(ctx context.Context, rawHandle string) (*types.Entity, error)
}

// WorkingStore loads a session's working memories when the caller did not
// pass them in. Optional.
type WorkingStore interface {
	LoadWorking(ctx context.Context, sessionID string, limit int) ([]types.Memory, error)
}

// ResolverConfig tunes one resolver instance. Zero values use the
// package defaults.
type ResolverConfig struct {
	Decay          DecayConfig   `json:"decay" yaml:"decay"`
	PlanTimeout    time.Duration `json:"plan_timeout" yaml:"plan_timeout"`
	TierTimeout    time.Duration `json:"tier_timeout" yaml:"tier_timeout"`
	ResolveTimeout time.Duration `json:"resolve_timeout" yaml:"resolve_timeout"`

	// Now overrides the clock, for tests.
	Now func() time.Time `json:"-" yaml:"-"`
}

func (c ResolverConfig) withDefaults() ResolverConfig {
	if c.PlanTimeout <= 0 {
		c.PlanTimeout = DefaultPlanTimeout
	}
	if c.TierTimeout <= 0 {
		c.TierTimeout = DefaultTierTimeout
	}
	if c.ResolveTimeout <= 0 {
		c.ResolveTimeout = DefaultResolveTimeout
	}
	if c.Now == nil {
		c.Now = func() time.Time { return time.Now().UTC() }
	}
	return c
}

// ResolveRequest is one memory resolution call.
type ResolveRequest struct {
	Query     string
	UserID    string
	AgentID   string
	SessionID string

	// WorkingMemories are the caller's pre-loaded session memories. When
	// nil and a working store is configured, WORKING is loaded from it.
	WorkingMemories []types.Memory

	// ResolveEntity canonicalizes UserID through the entity resolver
	// before any store call.
	ResolveEntity bool
}

// Resolver orchestrates multi-tier memory resolution: it obtains and
// sanitizes a search plan, fetches each tier in ResolutionOrder, applies
// decay and expiry filtering, and assembles the ranked result. Each call
// is stateless; the only shared state lives in the injected seed store
// caches.
type Resolver struct {
	store    Store
	planner  Planner
	seeds    *SeedStore
	entities EntityResolver
	working  WorkingStore
	decay    *DecayEngine
	metrics  *metrics.Collector
	cfg      ResolverConfig
	logger   *zap.Logger
}

// NewResolver creates a memory resolver. store may be nil when no durable
// backend is configured; the dynamic tiers then resolve to zero memories.
func NewResolver(store Store, planner Planner, seeds *SeedStore, cfg ResolverConfig, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if seeds == nil {
		seeds = NewSeedStore(logger)
	}
	cfg = cfg.withDefaults()
	return &Resolver{
		store:   store,
		planner: planner,
		seeds:   seeds,
		decay:   NewDecayEngine(cfg.Decay),
		cfg:     cfg,
		logger:  logger.With(zap.String("component", "memory_resolver")),
	}
}

// WithEntityResolver enables entity canonicalization of user handles.
func (r *Resolver) WithEntityResolver(er EntityResolver) *Resolver {
	r.entities = er
	return r
}

// WithWorkingStore sets the fallback source for WORKING memories.
func (r *Resolver) WithWorkingStore(ws WorkingStore) *Resolver {
	r.working = ws
	return r
}

// WithMetrics enables prometheus instrumentation.
func (r *Resolver) WithMetrics(c *metrics.Collector) *Resolver {
	r.metrics = c
	return r
}

// Resolve searches all planned tiers and returns memories ranked by
// effective importance. A single tier source failing is logged and
// counted as zero memories for that tier; partial context beats none.
func (r *Resolver) Resolve(ctx context.Context, req ResolveRequest) (*types.MemorySearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := r.cfg.Now()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ResolveTimeout)
	defer cancel()

	userID := r.canonicalUserID(ctx, req)
	plan, tiers := r.planFor(ctx, req, userID)

	searchQuery := req.Query
	if len(plan.Filters.Keywords) > 0 {
		searchQuery = searchQuery + " " + strings.Join(plan.Filters.Keywords, " ")
	}

	prefetched := r.prefetchDynamic(ctx, searchQuery, userID, req.AgentID, tiers, plan.LimitPerTier)

	result := types.NewMemorySearchResult()
	for _, tier := range tiers {
		memories, err := r.tierMemories(ctx, tier, req, plan.LimitPerTier, prefetched)
		if err != nil {
			r.logger.Error("tier source failed, skipping tier",
				zap.String("tier", string(tier)),
				zap.Error(types.WrapError(types.ErrTierSourceFailure, "tier fetch failed", err)))
			r.metrics.RecordTierFailure(string(tier))
			continue
		}
		if len(memories) == 0 {
			continue
		}

		decayed := r.decay.ApplyDecay(memories, r.cfg.Now())
		survivors := r.decay.FilterExpired(decayed, 0)
		if len(survivors) > plan.LimitPerTier {
			survivors = survivors[:plan.LimitPerTier]
		}
		if len(survivors) == 0 {
			continue
		}

		result.Memories[tier] = survivors
		result.TotalCount += len(survivors)
		r.metrics.RecordTierResult(string(tier), len(survivors))

		if plan.EarlyStop && result.TotalCount >= 2*plan.LimitPerTier {
			r.logger.Debug("early stop",
				zap.String("tier", string(tier)),
				zap.Int("total", result.TotalCount))
			break
		}
	}

	result.SearchTime = r.cfg.Now().Sub(start)
	r.metrics.ObserveResolution(result.SearchTime)
	r.logger.Info("memory resolution complete",
		zap.String("user_id", userID),
		zap.String("agent_id", req.AgentID),
		zap.Int("total", result.TotalCount),
		zap.Duration("search_time", result.SearchTime))

	return result, nil
}

// canonicalUserID maps the raw user handle through the entity resolver
// when requested. Any failure, and any non-authoritative synthetic
// entity, degrades to identity mapping of the raw handle.
func (r *Resolver) canonicalUserID(ctx context.Context, req ResolveRequest) string {
	if !req.ResolveEntity || r.entities == nil || req.UserID == "" {
		return req.UserID
	}

	ent, err := r.entities.Resolve(ctx, req.UserID)
	if err != nil {
		r.logger.Warn("entity resolution failed, using raw handle",
			zap.String("handle", req.UserID),
			zap.Error(err))
		r.metrics.RecordEntityFallback()
		return req.UserID
	}
	if !ent.Authoritative() {
		r.logger.Warn("entity unresolved, using raw handle",
			zap.String("handle", req.UserID))
		r.metrics.RecordEntityFallback()
		return req.UserID
	}
	return ent.ID
}

// planFor obtains the curator's plan with a single bounded attempt and
// sanitizes it. Curator failure is logged at warning and degrades to the
// deterministic fallback plan.
func (r *Resolver) planFor(ctx context.Context, req ResolveRequest, userID string) (*types.SearchPlan, []types.Tier) {
	var plan *types.SearchPlan

	if r.planner != nil {
		pctx, cancel := context.WithTimeout(ctx, r.cfg.PlanTimeout)
		defer cancel()

		p, err := r.planner.PlanSearch(pctx, PlanRequest{
			Query:   req.Query,
			UserID:  userID,
			AgentID: req.AgentID,
		})
		if err != nil {
			r.logger.Warn("curator unavailable, using fallback plan",
				zap.Error(types.WrapError(types.ErrPlanUnavailable, "plan search failed", err)))
			r.metrics.RecordPlanFallback()
		} else {
			plan = p
		}
	}
	if plan == nil {
		plan = FallbackPlan(userID)
	}

	return sanitizePlan(plan, userID, r.logger)
}

// tierFetch holds one prefetched dynamic tier.
type tierFetch struct {
	memories []types.Memory
	err      error
}

// prefetchDynamic issues the durable-store searches for EPISODIC and
// SEMANTIC concurrently and joins them, so independent lookups never
// serialize. Over-fetches 2x the tier limit to leave room for decay
// pruning. Errors are captured per tier, never propagated.
func (r *Resolver) prefetchDynamic(ctx context.Context, query, userID, agentID string, tiers []types.Tier, limit int) map[types.Tier]tierFetch {
	fetched := make(map[types.Tier]tierFetch, 2)
	if r.store == nil || userID == "" {
		return fetched
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, tier := range tiers {
		tier := tier
		if tier != types.TierEpisodic && tier != types.TierSemantic {
			continue
		}
		g.Go(func() error {
			tctx, cancel := context.WithTimeout(gctx, r.cfg.TierTimeout)
			defer cancel()

			scope := Scope{UserID: userID, AgentID: agentID}
			results, err := r.store.Search(tctx, query, scope, limit*2)

			mu.Lock()
			if err != nil {
				fetched[tier] = tierFetch{err: err}
			} else {
				fetched[tier] = tierFetch{memories: r.toMemories(tier, userID, agentID, results)}
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return fetched
}

// toMemories converts raw store hits into validated memories. A hit that
// fails validation (score outside [0,1], empty content) is dropped with a
// warning rather than poisoning the tier.
func (r *Resolver) toMemories(tier types.Tier, userID, agentID string, results []StoreResult) []types.Memory {
	tierCfg, _ := tier.Config()
	out := make([]types.Memory, 0, len(results))
	for _, res := range results {
		importance := res.Score
		if importance == 0 {
			importance = tierCfg.DefaultImportance
		}
		m, err := types.NewMemory(types.Memory{
			Content:    res.Content,
			Tier:       tier,
			Importance: importance,
			CreatedAt:  storeCreatedAt(res.Metadata),
			UserID:     userID,
			AgentID:    agentID,
			StoreID:    res.ID,
			Metadata:   res.Metadata,
		})
		if err != nil {
			r.logger.Warn("dropping malformed store result",
				zap.String("tier", string(tier)),
				zap.String("store_id", res.ID),
				zap.Error(err))
			continue
		}
		out = append(out, *m)
	}
	return out
}

// storeCreatedAt recovers the creation timestamp a store recorded in hit
// metadata. Missing or unparseable values return zero, which NewMemory
// fills with now, so an untimestamped hit is simply not decayed.
func storeCreatedAt(metadata map[string]any) time.Time {
	raw, ok := metadata["created_at"]
	if !ok {
		return time.Time{}
	}
	switch v := raw.(type) {
	case time.Time:
		return v
	case string:
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// tierMemories fetches the raw (pre-decay) memories for one tier.
func (r *Resolver) tierMemories(ctx context.Context, tier types.Tier, req ResolveRequest, limit int, prefetched map[types.Tier]tierFetch) ([]types.Memory, error) {
	switch tier {
	case types.TierWorking:
		if req.WorkingMemories != nil {
			return req.WorkingMemories, nil
		}
		if r.working != nil && req.SessionID != "" {
			wctx, cancel := context.WithTimeout(ctx, r.cfg.TierTimeout)
			defer cancel()
			return r.working.LoadWorking(wctx, req.SessionID, limit*2)
		}
		return nil, nil

	case types.TierCollective:
		r.metrics.RecordSeedCacheHit(string(tier))
		return r.seeds.Collective(), nil

	case types.TierLineage:
		if req.AgentID == "" {
			return nil, nil
		}
		r.metrics.RecordSeedCacheHit(string(tier))
		return r.seeds.Lineage(req.AgentID), nil

	case types.TierEpisodic, types.TierSemantic:
		fetch, ok := prefetched[tier]
		if !ok {
			return nil, nil
		}
		return fetch.memories, fetch.err
	}
	return nil, nil
}
