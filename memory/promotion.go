package memory

import (
	"context"

	"go.uber.org/zap"

	"github.com/yaazhan/kingmem/types"
)

// Promotion thresholds: a pattern seen PromotionCount times at or above
// SimilarityThreshold stops being an episode and becomes a fact.
const (
	SimilarityThreshold = 0.85
	PromotionCount      = 3

	promotedImportance = 0.8
	promotionSearchCap = 5
)

// Promoter merges repeated episodic memories into a single semantic
// record. Promotion is a one-way transformation: the episodic originals
// are deleted from the durable store and one semantic record replaces
// them. Similarity scoring itself stays inside the store.
type Promoter struct {
	store  Store
	logger *zap.Logger
}

// NewPromoter creates a promotion service over the durable store.
func NewPromoter(store Store, logger *zap.Logger) *Promoter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Promoter{
		store:  store,
		logger: logger.With(zap.String("component", "promoter")),
	}
}

// CheckAndPromote runs before new episodic content is stored. It searches
// the scope for near-duplicates; finding PromotionCount or more above the
// similarity threshold promotes the content to the semantic tier and
// reports true, telling the caller to skip storing the duplicate.
//
// Failures degrade to "store as episodic": the method reports false with
// the error, and callers continue normally.
func (p *Promoter) CheckAndPromote(ctx context.Context, content string, scope Scope) (bool, error) {
	if p.store == nil {
		return false, nil
	}

	similar, err := p.store.Search(ctx, content, scope, promotionSearchCap)
	if err != nil {
		return false, types.WrapError(types.ErrStoreUnavailable, "promotion similarity search failed", err)
	}

	matches := make([]StoreResult, 0, len(similar))
	for _, res := range similar {
		if res.Score > SimilarityThreshold {
			matches = append(matches, res)
		}
	}
	if len(matches) < PromotionCount {
		return false, nil
	}

	p.promoteToSemantic(ctx, content, matches, scope)
	return true, nil
}

// promoteToSemantic deletes the episodic duplicates and stores one
// semantic record in their place. Individual delete failures are logged
// and skipped; a failed insert is logged but the promotion decision
// stands, since the duplicates are already gone.
func (p *Promoter) promoteToSemantic(ctx context.Context, content string, duplicates []StoreResult, scope Scope) {
	for _, dup := range duplicates {
		if err := p.store.Delete(ctx, dup.ID); err != nil {
			p.logger.Warn("failed to delete episodic duplicate",
				zap.String("store_id", dup.ID),
				zap.Error(err))
		}
	}

	metadata := map[string]any{
		"tier":                string(types.TierSemantic),
		"importance":          promotedImportance,
		"source":              "promotion",
		"promoted_from_count": len(duplicates),
	}
	if _, err := p.store.Add(ctx, content, scope, metadata, false); err != nil {
		p.logger.Error("failed to store promoted semantic memory", zap.Error(err))
		return
	}

	p.logger.Info("episodic pattern promoted to semantic",
		zap.String("user_id", scope.UserID),
		zap.Int("duplicates", len(duplicates)))
}
