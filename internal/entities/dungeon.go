package entities

import (
	"time"

	"github.com/questforge/questmap/internal/engine/geometry"
)

// Dungeon represents a point of interest placed within a zone. Position is
// mutated only by the placement pipeline (clamp + separation) during authoring
// or edits, never during normal play.
type Dungeon struct {
	ID           string         `json:"id"`
	ZoneID       string         `json:"zone_id"`
	Name         string         `json:"name,omitempty"`
	Category     string         `json:"category"` // Sprite cache key, e.g. "cave", "tower", "ruin"
	Position     geometry.Point `json:"position"`
	Requirements Requirements   `json:"requirements"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Requirements is the entry-eligibility predicate data for a dungeon. Absent
// fields impose no constraint; the geometry engine treats the data as opaque
// beyond evaluation.
type Requirements struct {
	MinTrustScore  *float64 `json:"min_trust_score,omitempty"`
	MinLevel       *int32   `json:"min_level,omitempty"`
	RequiredBadges []string `json:"required_badges,omitempty"`
}

// ActorStats is the per-frame snapshot of the acting player supplied by the
// player-state collaborator.
type ActorStats struct {
	TrustScore float64  `json:"trust_score"`
	Level      int32    `json:"level"`
	Badges     []string `json:"badges,omitempty"`
}

// HasBadge reports whether the actor holds the named badge.
func (s ActorStats) HasBadge(badge string) bool {
	for _, b := range s.Badges {
		if b == badge {
			return true
		}
	}
	return false
}
