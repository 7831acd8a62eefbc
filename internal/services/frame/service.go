// Package frame defines the interface for per-frame runtime evaluation:
// culling, proximity/eligibility state, and sprite key lookups.
package frame

//go:generate mockgen -destination=mock/mock_service.go -package=framemock github.com/questforge/questmap/internal/services/frame Service

import (
	"context"

	"github.com/questforge/questmap/internal/engine/geometry"
	"github.com/questforge/questmap/internal/engine/proximity"
	"github.com/questforge/questmap/internal/engine/sprites"
	"github.com/questforge/questmap/internal/entities"
)

// Service defines the interface for per-frame evaluation. EvaluateFrame is
// synchronous and bounded; it must complete within a frame tick.
type Service interface {
	// Reload refreshes the in-memory dungeon snapshot from storage.
	// Called at startup and after authoring edits, never per frame.
	Reload(ctx context.Context, input *ReloadInput) (*ReloadOutput, error)

	// EvaluateFrame computes proximity state for every dungeon within the
	// cull distance of the actor.
	EvaluateFrame(ctx context.Context, input *EvaluateFrameInput) (*EvaluateFrameOutput, error)

	// ResetSpriteCache clears all cached sprite keys; subsequent frames
	// regenerate them.
	ResetSpriteCache(ctx context.Context, input *ResetSpriteCacheInput) (*ResetSpriteCacheOutput, error)

	// CacheMetrics exposes sprite cache occupancy for diagnostics.
	CacheMetrics(ctx context.Context, input *CacheMetricsInput) (*CacheMetricsOutput, error)
}

// ReloadInput contains snapshot reload parameters
type ReloadInput struct{}

// ReloadOutput reports the snapshot size after the reload
type ReloadOutput struct {
	DungeonCount int `json:"dungeon_count"`
}

// EvaluateFrameInput contains one frame's actor inputs. RenderPositions
// optionally reports where the client is currently drawing each dungeon,
// keyed by dungeon ID; positions that drifted from the authoritative ones
// are flagged so the client snaps them back.
type EvaluateFrameInput struct {
	ActorPos        geometry.Point            `json:"actor_pos"`
	ActorStats      entities.ActorStats       `json:"actor_stats"`
	RenderPositions map[string]geometry.Point `json:"render_positions,omitempty"`
}

// EvaluateFrameOutput contains the frame states for dungeons that survived
// culling. CulledCount reports how many dungeons were skipped by the
// pre-filter without full evaluation.
type EvaluateFrameOutput struct {
	States      []DungeonState `json:"states"`
	CulledCount int            `json:"culled_count"`
}

// DungeonState pairs one dungeon's identity and sprite key with its computed
// proximity state for this frame. Position is always the authoritative
// position; DriftCorrected reports that the client's rendered position had
// drifted beyond tolerance and must snap back to Position.
type DungeonState struct {
	DungeonID      string           `json:"dungeon_id"`
	ZoneID         string           `json:"zone_id"`
	Category       string           `json:"category"`
	SpriteKey      sprites.Key      `json:"sprite_key"`
	Position       geometry.Point   `json:"position"`
	State          *proximity.State `json:"state"`
	DriftCorrected bool             `json:"drift_corrected,omitempty"`
}

// ResetSpriteCacheInput contains cache reset parameters
type ResetSpriteCacheInput struct{}

// ResetSpriteCacheOutput confirms the reset
type ResetSpriteCacheOutput struct{}

// CacheMetricsInput contains cache metrics parameters
type CacheMetricsInput struct{}

// CacheMetricsOutput contains sprite cache occupancy
type CacheMetricsOutput struct {
	Metrics sprites.Metrics `json:"metrics"`
}
