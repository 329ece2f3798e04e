package memory

import "context"

// Scope identifies whose memories a durable-store call may touch.
// UserID is the isolation boundary; AgentID and SessionID narrow within it.
type Scope struct {
	UserID    string
	AgentID   string
	SessionID string
}

// StoreResult is one raw hit from the durable store. Score seeds the
// memory's importance.
type StoreResult struct {
	ID       string
	Content  string
	Score    float64
	Metadata map[string]any
}

// Store is the durable memory store port. Implementations perform the
// actual text/vector search and persistence; this package never embeds
// or compares vectors itself.
//
// All methods are network calls and must honor the context deadline.
type Store interface {
	// Add persists content under the scope and returns the store's
	// opaque reference for it.
	Add(ctx context.Context, content string, scope Scope, metadata map[string]any, enableGraph bool) (string, error)

	// Search returns up to limit results ranked by relevance to query.
	Search(ctx context.Context, query string, scope Scope, limit int) ([]StoreResult, error)

	// GetAll lists up to limit entries in the scope without ranking.
	GetAll(ctx context.Context, scope Scope, limit int) ([]StoreResult, error)

	// Delete removes a single entry by its store reference. Used by the
	// promotion flow when episodic originals are merged into a semantic
	// record.
	Delete(ctx context.Context, storeID string) error
}
