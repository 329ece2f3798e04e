package memory

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yaazhan/kingmem/types"
)

// Seed importances. Collective memories outrank everything; lineage
// expertise sits just below. Neither decays.
const (
	collectiveImportance = 1.0
	lineageImportance    = 0.9
)

// seedDef is one static seed entry.
type seedDef struct {
	Content  string
	Category string
}

// collectiveSeeds is the kingdom DNA shared by all agents and all users.
// Append-only configuration: deployments must ship identical content so
// every resolver instance reproduces the same agent behavior.
var collectiveSeeds = []seedDef{
	{"I am KING - Kingdom Intelligence Nexus Gateway, an AI orchestration system", "identity"},
	{"I was created by Yaazhan as part of the ai-ecosystem project", "identity"},
	{"I coordinate specialist agents to solve complex tasks", "identity"},
	{"My core agents are: code_writer, code_reviewer, video_planner, script_writer, memory_selector", "agents"},
	{"code_writer depends_on code_reviewer for quality assurance", "agent_relations"},
	{"video_planner collaborates_with script_writer for content creation", "agent_relations"},
	{"I always output valid JSON, never raw prose unless explicitly asked", "rules"},
	{"My agents follow DNA rules that define their behavior and constraints", "rules"},
	{"I never execute code without sandbox isolation for unverified agents", "security"},
}

// lineageSeeds holds per-agent-type expertise.
var lineageSeeds = map[string][]seedDef{
	"code_writer": {
		{"Python follows PEP8, uses snake_case for functions and variables", "style"},
		{"Always include error handling, never assume happy path", "practice"},
		{"Include type hints for all function parameters and return values", "style"},
		{"Write docstrings for all public functions and classes", "practice"},
		{"Prefer composition over inheritance", "design"},
	},
	"code_reviewer": {
		{"Check for SQL injection, XSS, and hardcoded secrets in every review", "security"},
		{"Verify error handling exists for all external calls", "practice"},
		{"Never approve code with critical security issues", "rules"},
		{"Look for missing input validation on user-facing endpoints", "security"},
		{"Ensure tests exist for new functionality", "practice"},
	},
	"video_planner": {
		{"Instagram Reels perform best at 15-30 seconds", "platform"},
		{"Hook must come in first 3 seconds to retain viewers", "engagement"},
		{"Always gather: topic, audience, tone, duration before planning", "process"},
		{"Vertical 9:16 aspect ratio for TikTok and Reels", "format"},
		{"Include call-to-action in final 5 seconds", "engagement"},
	},
	"script_writer": {
		{"Open with a pattern interrupt or provocative question", "hook"},
		{"One idea per sentence for spoken content", "style"},
		{"Use conversational tone, avoid jargon unless audience expects it", "style"},
		{"Structure: Hook -> Problem -> Solution -> CTA", "format"},
		{"Read scripts aloud to check natural flow", "practice"},
	},
	"memory_selector": {
		{"Reject memories with relevance score below 0.6", "threshold"},
		{"Prefer user preferences and constraints over general facts", "priority"},
		{"Deduplicate similar memories, keep highest importance", "rules"},
		{"Limit injected memories to 5-7 to avoid context pollution", "rules"},
	},
}

// seedEpoch is the fixed creation timestamp of all seed memories. Seeds
// never decay, so the value only matters for reproducibility.
var seedEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// SeedStore serves the static collective and lineage memories. Both
// caches are populated lazily and retained for the process lifetime;
// population is idempotent, so only read/write safety is needed on the
// hot path, not a global lock.
type SeedStore struct {
	mu         sync.RWMutex
	collective []types.Memory
	lineage    map[string][]types.Memory
	logger     *zap.Logger
}

// NewSeedStore creates a seed store.
func NewSeedStore(logger *zap.Logger) *SeedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedStore{
		lineage: make(map[string][]types.Memory),
		logger:  logger.With(zap.String("component", "seed_store")),
	}
}

// Collective returns the kingdom DNA memories. The slice is a copy;
// callers may not mutate the cache through it.
func (s *SeedStore) Collective() []types.Memory {
	s.mu.RLock()
	cached := s.collective
	s.mu.RUnlock()

	if cached == nil {
		built := buildCollective()
		s.mu.Lock()
		if s.collective == nil {
			s.collective = built
			s.logger.Debug("collective seed cache populated", zap.Int("count", len(built)))
		}
		cached = s.collective
		s.mu.Unlock()
	}

	out := make([]types.Memory, len(cached))
	copy(out, cached)
	return out
}

// Lineage returns the expertise memories seeded for the agent type.
// Unknown agent ids yield an empty slice, never entries of another agent.
func (s *SeedStore) Lineage(agentID string) []types.Memory {
	s.mu.RLock()
	cached, ok := s.lineage[agentID]
	s.mu.RUnlock()

	if !ok {
		built := buildLineage(agentID)
		s.mu.Lock()
		if existing, raced := s.lineage[agentID]; raced {
			cached = existing
		} else {
			s.lineage[agentID] = built
			cached = built
			s.logger.Debug("lineage seed cache populated",
				zap.String("agent_id", agentID),
				zap.Int("count", len(built)))
		}
		s.mu.Unlock()
	}

	out := make([]types.Memory, len(cached))
	copy(out, cached)
	return out
}

// AllLineage returns every seeded agent's lineage memories keyed by agent id.
func (s *SeedStore) AllLineage() map[string][]types.Memory {
	out := make(map[string][]types.Memory, len(lineageSeeds))
	for agentID := range lineageSeeds {
		out[agentID] = s.Lineage(agentID)
	}
	return out
}

func buildCollective() []types.Memory {
	out := make([]types.Memory, 0, len(collectiveSeeds))
	for i, def := range collectiveSeeds {
		out = append(out, types.Memory{
			ID:         fmt.Sprintf("seed_collective_%02d", i),
			Content:    def.Content,
			Tier:       types.TierCollective,
			Importance: collectiveImportance,
			CreatedAt:  seedEpoch,
			Metadata: map[string]any{
				"category": def.Category,
				"scope":    string(types.ScopeKingdom),
			},
		})
	}
	return out
}

func buildLineage(agentID string) []types.Memory {
	defs := lineageSeeds[agentID]
	out := make([]types.Memory, 0, len(defs))
	for i, def := range defs {
		out = append(out, types.Memory{
			ID:         fmt.Sprintf("seed_lineage_%s_%02d", agentID, i),
			Content:    def.Content,
			Tier:       types.TierLineage,
			Importance: lineageImportance,
			CreatedAt:  seedEpoch,
			AgentID:    agentID,
			Metadata: map[string]any{
				"category": def.Category,
				"scope":    string(types.ScopeAgentType),
			},
		})
	}
	return out
}
