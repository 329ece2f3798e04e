// Package kingmem provides a top-level convenience entry point for the
// KING memory subsystem.
//
// Usage:
//
//	import "github.com/yaazhan/kingmem"
//
//	sys, err := kingmem.New(cfg, store, planner, logger)
//	result, err := sys.Resolver.Resolve(ctx, memory.ResolveRequest{...})
//
// The durable store and the curator are ports: callers supply their own
// implementations (or nil to run with seeds and working memory only).
package kingmem

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yaazhan/kingmem/config"
	"github.com/yaazhan/kingmem/entity"
	"github.com/yaazhan/kingmem/internal/cache"
	"github.com/yaazhan/kingmem/internal/database"
	"github.com/yaazhan/kingmem/internal/metrics"
	"github.com/yaazhan/kingmem/memory"
)

// Version is the kingmem release version.
const Version = "1.3.0"

// System bundles the wired memory subsystem components.
type System struct {
	Resolver *memory.Resolver
	Promoter *memory.Promoter
	Entities *entity.Resolver
	Seeds    *memory.SeedStore

	db      *gorm.DB
	session *cache.SessionStore
	logger  *zap.Logger
}

// New wires a complete memory subsystem from configuration. store and
// planner may be nil: without a store the dynamic tiers resolve empty,
// without a planner every resolution uses the fallback plan.
func New(cfg config.Config, store memory.Store, planner memory.Planner, logger *zap.Logger) (*System, error) {
	var err error
	if logger == nil {
		logger, err = cfg.Log.BuildLogger()
		if err != nil {
			return nil, err
		}
	}

	db, err := database.Open(database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	entityStore, err := entity.NewGormStore(db, logger)
	if err != nil {
		return nil, err
	}
	entities := entity.NewResolver(entityStore, logger)

	seeds := memory.NewSeedStore(logger)

	resolver := memory.NewResolver(store, planner, seeds, memory.ResolverConfig{
		Decay: memory.DecayConfig{
			HalfLifeDays:  cfg.Decay.HalfLifeDays,
			WorkingTTL:    cfg.Decay.WorkingTTL,
			MinRetention:  cfg.Decay.MinRetention,
			MinImportance: cfg.Decay.MinImportance,
		},
		PlanTimeout:    cfg.Resolver.PlanTimeout,
		TierTimeout:    cfg.Resolver.TierTimeout,
		ResolveTimeout: cfg.Resolver.ResolveTimeout,
	}, logger).WithEntityResolver(entities)

	sys := &System{
		Resolver: resolver,
		Promoter: memory.NewPromoter(store, logger),
		Entities: entities,
		Seeds:    seeds,
		db:       db,
		logger:   logger,
	}

	if cfg.Redis.Enabled {
		session, err := cache.NewSessionStore(cache.Config{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			SessionTTL: cfg.Decay.WorkingTTL,
		}, logger)
		if err != nil {
			return nil, err
		}
		sys.session = session
		resolver.WithWorkingStore(session)
	}

	if cfg.Metrics.Enabled {
		resolver.WithMetrics(metrics.NewCollector(cfg.Metrics.Namespace, nil, logger))
	}

	return sys, nil
}

// Close releases the session store connection. The gorm pool is left to
// process shutdown, matching its shared-handle semantics.
func (s *System) Close() error {
	if s.session != nil {
		return s.session.Close()
	}
	return nil
}
