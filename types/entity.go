package types

import "time"

// EntityType classifies a canonical entity.
type EntityType string

const (
	EntityHuman        EntityType = "Human"
	EntityAI           EntityType = "AI"
	EntityOrganization EntityType = "Organization"
	EntitySystem       EntityType = "System"

	// EntityUnresolved marks entities created optimistically from a
	// handle that has not been classified yet. Synthetic fallback
	// entities carry it too and are never persisted.
	EntityUnresolved EntityType = "Unresolved"
)

// Entity is a canonical, deduplicated representation of a name referenced
// across interactions. Aliases accumulate as alternate handles are seen.
type Entity struct {
	ID            string     `json:"id"`
	CanonicalName string     `json:"canonical_name"`
	Aliases       []string   `json:"aliases"`
	Type          EntityType `json:"type"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Authoritative reports whether the entity was persisted and safely
// re-resolvable. Synthetic fallback records have no creation timestamp
// and must never be used as a stable id.
func (e *Entity) Authoritative() bool {
	return e != nil && !e.CreatedAt.IsZero()
}
