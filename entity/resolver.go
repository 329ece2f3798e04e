package entity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yaazhan/kingmem/types"
)

// Sentinel errors returned by Store implementations.
var (
	// ErrNotFound means no entity matched the lookup.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict means a concurrent writer inserted an entity with the
	// same canonical name first.
	ErrConflict = errors.New("entity already exists")
)

// Store is the entity persistence port.
type Store interface {
	FindByCanonicalName(ctx context.Context, name string) (*types.Entity, error)
	FindByAliasContains(ctx context.Context, alias string) (*types.Entity, error)
	Insert(ctx context.Context, e *types.Entity) error
	GetByID(ctx context.Context, id string) (*types.Entity, error)
}

// Resolver resolves raw handles to canonical entities, creating them
// optimistically on first sight. Creation races are resolved by
// re-fetch, never by erroring.
type Resolver struct {
	store  Store
	logger *zap.Logger
}

// NewResolver creates an entity resolver over the given store.
func NewResolver(store Store, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		store:  store,
		logger: logger.With(zap.String("component", "entity_resolver")),
	}
}

// Resolve maps a raw handle to an entity.
//
// Lookup order: exact canonical name, then alias containment, then an
// optimistic insert typed Unresolved. On insert conflict the canonical
// lookup is re-run once; if the winner still cannot be fetched, a
// non-persisted synthetic entity is returned so callers never crash.
// Only a fully unreachable store yields RESOLVER_UNAVAILABLE.
func (r *Resolver) Resolve(ctx context.Context, rawHandle string) (*types.Entity, error) {
	handle := strings.TrimSpace(rawHandle)
	if handle == "" {
		return nil, types.NewError(types.ErrResolverUnavailable, "empty entity handle")
	}

	lookupErrs := 0

	ent, err := r.store.FindByCanonicalName(ctx, handle)
	if err == nil {
		return ent, nil
	}
	if !errors.Is(err, ErrNotFound) {
		lookupErrs++
		r.logger.Error("canonical name lookup failed",
			zap.String("handle", handle), zap.Error(err))
	}

	ent, err = r.store.FindByAliasContains(ctx, handle)
	if err == nil {
		return ent, nil
	}
	if !errors.Is(err, ErrNotFound) {
		lookupErrs++
		r.logger.Error("alias lookup failed",
			zap.String("handle", handle), zap.Error(err))
	}

	candidate := &types.Entity{
		ID:            uuid.NewString(),
		CanonicalName: handle,
		Aliases:       []string{handle},
		Type:          types.EntityUnresolved,
	}

	err = r.store.Insert(ctx, candidate)
	if err == nil {
		r.logger.Info("created new entity", zap.String("canonical_name", handle))
		return candidate, nil
	}

	if errors.Is(err, ErrConflict) {
		// Lost the creation race; the winner's record must exist now.
		r.logger.Warn("entity insert conflict, retrying fetch",
			zap.String("handle", handle))
		if ent, ferr := r.store.FindByCanonicalName(ctx, handle); ferr == nil {
			return ent, nil
		} else if !errors.Is(ferr, ErrNotFound) {
			r.logger.Error("retry fetch failed", zap.String("handle", handle), zap.Error(ferr))
		}
	} else {
		r.logger.Error("entity insert failed",
			zap.String("handle", handle), zap.Error(err))
		if lookupErrs == 2 {
			return nil, types.WrapError(types.ErrResolverUnavailable, "entity store unreachable", err)
		}
	}

	// Temporary synthetic entity so the caller does not crash. Never
	// persisted; callers must treat it as non-authoritative.
	return &types.Entity{
		ID:            uuid.NewString(),
		CanonicalName: handle,
		Aliases:       []string{handle},
		Type:          types.EntityUnresolved,
	}, nil
}

// GetByID retrieves an entity by its id.
func (r *Resolver) GetByID(ctx context.Context, id string) (*types.Entity, error) {
	ent, err := r.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, types.WrapError(types.ErrResolverUnavailable, "entity lookup failed", err)
	}
	return ent, nil
}
