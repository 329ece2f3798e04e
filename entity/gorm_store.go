package entity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yaazhan/kingmem/types"
)

// entityRecord is the gorm row shape. Aliases are stored as a JSON array
// in a text column so the schema works on both sqlite and postgres.
type entityRecord struct {
	ID            string `gorm:"primaryKey;size:36"`
	CanonicalName string `gorm:"uniqueIndex;size:255;not null"`
	Aliases       string `gorm:"type:text"`
	Type          string `gorm:"size:32"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName implements the gorm table naming convention.
func (entityRecord) TableName() string { return "entities" }

// GormStore is the gorm-backed entity store.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormStore creates the store and migrates the entities table.
func NewGormStore(db *gorm.DB, logger *zap.Logger) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.AutoMigrate(&entityRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate entities table: %w", err)
	}
	return &GormStore{
		db:     db,
		logger: logger.With(zap.String("component", "entity_store")),
	}, nil
}

// FindByCanonicalName looks up an entity by exact canonical name.
func (s *GormStore) FindByCanonicalName(ctx context.Context, name string) (*types.Entity, error) {
	var rec entityRecord
	err := s.db.WithContext(ctx).Where("canonical_name = ?", name).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("canonical name lookup failed: %w", err)
	}
	return recordToEntity(&rec)
}

// FindByAliasContains looks up an entity whose alias set contains the
// given alias. Matches the quoted JSON element so "bob" never matches
// "bobby".
func (s *GormStore) FindByAliasContains(ctx context.Context, alias string) (*types.Entity, error) {
	quoted, err := json.Marshal(alias)
	if err != nil {
		return nil, fmt.Errorf("failed to encode alias: %w", err)
	}

	var rec entityRecord
	err = s.db.WithContext(ctx).
		Where("aliases LIKE ?", "%"+string(quoted)+"%").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("alias lookup failed: %w", err)
	}
	return recordToEntity(&rec)
}

// Insert persists a new entity. A unique violation on canonical_name is
// reported as ErrConflict so the resolver can re-fetch the winner.
func (s *GormStore) Insert(ctx context.Context, e *types.Entity) error {
	aliases, err := json.Marshal(e.Aliases)
	if err != nil {
		return fmt.Errorf("failed to encode aliases: %w", err)
	}

	now := time.Now().UTC()
	rec := entityRecord{
		ID:            e.ID,
		CanonicalName: e.CanonicalName,
		Aliases:       string(aliases),
		Type:          string(e.Type),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrConflict
		}
		return fmt.Errorf("entity insert failed: %w", err)
	}

	e.CreatedAt = rec.CreatedAt
	e.UpdatedAt = rec.UpdatedAt
	return nil
}

// GetByID retrieves an entity by primary key.
func (s *GormStore) GetByID(ctx context.Context, id string) (*types.Entity, error) {
	var rec entityRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("entity lookup failed: %w", err)
	}
	return recordToEntity(&rec)
}

func recordToEntity(rec *entityRecord) (*types.Entity, error) {
	var aliases []string
	if rec.Aliases != "" {
		if err := json.Unmarshal([]byte(rec.Aliases), &aliases); err != nil {
			return nil, fmt.Errorf("failed to decode aliases for %s: %w", rec.ID, err)
		}
	}
	return &types.Entity{
		ID:            rec.ID,
		CanonicalName: rec.CanonicalName,
		Aliases:       aliases,
		Type:          types.EntityType(rec.Type),
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}, nil
}

// isDuplicateErr detects unique violations across the supported drivers.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
