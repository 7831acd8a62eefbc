// Package world defines the interface for world-authoring operations: zone
// management and validated dungeon placement.
package world

//go:generate mockgen -destination=mock/mock_service.go -package=worldmock github.com/questforge/questmap/internal/services/world Service

import (
	"context"

	"github.com/questforge/questmap/internal/engine/geometry"
	"github.com/questforge/questmap/internal/engine/placement"
	"github.com/questforge/questmap/internal/entities"
)

// Service defines the interface for world-authoring operations. Placement
// operations run the clamp/separation pipeline; they are load/edit-time
// operations, never per-frame.
type Service interface {
	// Zone lifecycle
	CreateZone(ctx context.Context, input *CreateZoneInput) (*CreateZoneOutput, error)
	GetZone(ctx context.Context, input *GetZoneInput) (*GetZoneOutput, error)
	ListZones(ctx context.Context, input *ListZonesInput) (*ListZonesOutput, error)
	DeleteZone(ctx context.Context, input *DeleteZoneInput) (*DeleteZoneOutput, error)

	// Dungeon placement and editing
	PlaceDungeon(ctx context.Context, input *PlaceDungeonInput) (*PlaceDungeonOutput, error)
	MoveDungeon(ctx context.Context, input *MoveDungeonInput) (*MoveDungeonOutput, error)
	GetDungeon(ctx context.Context, input *GetDungeonInput) (*GetDungeonOutput, error)
	ListDungeons(ctx context.Context, input *ListDungeonsInput) (*ListDungeonsOutput, error)
	DeleteDungeon(ctx context.Context, input *DeleteDungeonInput) (*DeleteDungeonOutput, error)

	// Zone repair
	ResolveZone(ctx context.Context, input *ResolveZoneInput) (*ResolveZoneOutput, error)

	// World bounds for camera clamping
	GetWorldBounds(ctx context.Context, input *GetWorldBoundsInput) (*GetWorldBoundsOutput, error)
}

// CreateZoneInput contains zone creation parameters
type CreateZoneInput struct {
	Name   string        `json:"name"`
	Bounds geometry.Rect `json:"bounds"`
}

// CreateZoneOutput contains the created zone
type CreateZoneOutput struct {
	Zone *entities.Zone `json:"zone"`
}

// GetZoneInput contains zone retrieval parameters
type GetZoneInput struct {
	ZoneID string `json:"zone_id"`
}

// GetZoneOutput contains the retrieved zone
type GetZoneOutput struct {
	Zone *entities.Zone `json:"zone"`
}

// ListZonesInput contains zone listing parameters
type ListZonesInput struct{}

// ListZonesOutput contains all zones
type ListZonesOutput struct {
	Zones []*entities.Zone `json:"zones"`
}

// DeleteZoneInput contains zone deletion parameters
type DeleteZoneInput struct {
	ZoneID string `json:"zone_id"`
}

// DeleteZoneOutput confirms zone deletion
type DeleteZoneOutput struct{}

// PlaceDungeonInput contains dungeon placement parameters. Position is the
// requested location; the service clamps it into the zone bounds at the
// configured margin.
type PlaceDungeonInput struct {
	ZoneID       string                `json:"zone_id"`
	Name         string                `json:"name,omitempty"`
	Category     string                `json:"category"`
	Position     geometry.Point        `json:"position"`
	Requirements entities.Requirements `json:"requirements"`
}

// PlaceDungeonOutput contains the placed dungeon. Clamped reports whether the
// requested position had to be adjusted.
type PlaceDungeonOutput struct {
	Dungeon *entities.Dungeon `json:"dungeon"`
	Clamped bool              `json:"clamped"`
}

// MoveDungeonInput contains dungeon move parameters
type MoveDungeonInput struct {
	DungeonID string         `json:"dungeon_id"`
	Position  geometry.Point `json:"position"`
}

// MoveDungeonOutput contains the moved dungeon
type MoveDungeonOutput struct {
	Dungeon *entities.Dungeon `json:"dungeon"`
	Clamped bool              `json:"clamped"`
}

// GetDungeonInput contains dungeon retrieval parameters
type GetDungeonInput struct {
	DungeonID string `json:"dungeon_id"`
}

// GetDungeonOutput contains the retrieved dungeon
type GetDungeonOutput struct {
	Dungeon *entities.Dungeon `json:"dungeon"`
}

// ListDungeonsInput contains dungeon listing parameters
type ListDungeonsInput struct {
	ZoneID string `json:"zone_id"`
}

// ListDungeonsOutput contains a zone's dungeons
type ListDungeonsOutput struct {
	Dungeons []*entities.Dungeon `json:"dungeons"`
}

// DeleteDungeonInput contains dungeon deletion parameters
type DeleteDungeonInput struct {
	DungeonID string `json:"dungeon_id"`
}

// DeleteDungeonOutput confirms dungeon deletion
type DeleteDungeonOutput struct{}

// ResolveZoneInput names the zone to run the separation pass over
type ResolveZoneInput struct {
	ZoneID string `json:"zone_id"`
}

// ResolveZoneOutput reports moved dungeons and unresolved conflicts. A
// non-empty Conflicts means the zone is overcrowded at those spots; the
// affected dungeons keep their previous positions.
type ResolveZoneOutput struct {
	MovedIDs  []string             `json:"moved_ids,omitempty"`
	Conflicts []placement.Conflict `json:"conflicts,omitempty"`
}

// GetWorldBoundsInput contains world bounds parameters
type GetWorldBoundsInput struct {
	Padding float64 `json:"padding"`
}

// GetWorldBoundsOutput contains the padded aggregate world rectangle
type GetWorldBoundsOutput struct {
	Bounds geometry.Rect `json:"bounds"`
}
