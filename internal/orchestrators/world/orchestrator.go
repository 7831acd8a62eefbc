// Package world implements the world-authoring orchestrator: zone lifecycle
// and the validated dungeon placement pipeline (clamp, then separation).
package world

import (
	"context"
	"log/slog"

	"github.com/questforge/questmap/internal/engine/placement"
	"github.com/questforge/questmap/internal/entities"
	"github.com/questforge/questmap/internal/errors"
	"github.com/questforge/questmap/internal/pkg/clock"
	"github.com/questforge/questmap/internal/pkg/idgen"
	"github.com/questforge/questmap/internal/repositories/dungeons"
	"github.com/questforge/questmap/internal/repositories/zones"
	worldsvc "github.com/questforge/questmap/internal/services/world"
)

// Config holds the dependencies for the world orchestrator
type Config struct {
	ZoneRepo    zones.Repository
	DungeonRepo dungeons.Repository
	IDGenerator idgen.Generator
	Clock       clock.Clock

	// Margin and MinDistance fall back to the placement package defaults
	// when zero.
	Margin      float64
	MinDistance float64
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.ZoneRepo == nil {
		vb.RequiredField("ZoneRepo")
	}
	if c.DungeonRepo == nil {
		vb.RequiredField("DungeonRepo")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	zoneRepo    zones.Repository
	dungeonRepo dungeons.Repository
	idGen       idgen.Generator
	clock       clock.Clock
	margin      float64
	minDistance float64
}

// NewOrchestrator creates a new world orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (worldsvc.Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	margin := cfg.Margin
	if margin <= 0 {
		margin = placement.DefaultMargin
	}
	minDistance := cfg.MinDistance
	if minDistance <= 0 {
		minDistance = placement.DefaultMinDistance
	}

	return &orchestrator{
		zoneRepo:    cfg.ZoneRepo,
		dungeonRepo: cfg.DungeonRepo,
		idGen:       cfg.IDGenerator,
		clock:       cfg.Clock,
		margin:      margin,
		minDistance: minDistance,
	}, nil
}

func (o *orchestrator) CreateZone(ctx context.Context, input *worldsvc.CreateZoneInput) (*worldsvc.CreateZoneOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", input.Name, vb)
	if !input.Bounds.IsValid() {
		vb.InvalidField("bounds", "min must be strictly less than max on both axes")
	} else if input.Bounds.Width() < 2*o.margin || input.Bounds.Height() < 2*o.margin {
		vb.Fieldf("bounds", "must be at least %vx%v to admit placement at margin %v",
			2*o.margin, 2*o.margin, o.margin)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	now := o.clock.Now()
	zone := &entities.Zone{
		ID:        o.idGen.Generate(),
		Name:      input.Name,
		Bounds:    input.Bounds,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := o.zoneRepo.Create(ctx, zones.CreateInput{Zone: zone}); err != nil {
		return nil, errors.Wrap(err, "failed to create zone")
	}

	slog.Info("Zone created",
		"zone_id", zone.ID,
		"name", zone.Name,
		"width", zone.Bounds.Width(),
		"height", zone.Bounds.Height(),
	)

	return &worldsvc.CreateZoneOutput{Zone: zone}, nil
}

func (o *orchestrator) GetZone(ctx context.Context, input *worldsvc.GetZoneInput) (*worldsvc.GetZoneOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ZoneID == "" {
		return nil, errors.InvalidArgument("zone ID is required")
	}

	getOutput, err := o.zoneRepo.Get(ctx, zones.GetInput{ID: input.ZoneID})
	if err != nil {
		return nil, err
	}

	return &worldsvc.GetZoneOutput{Zone: getOutput.Zone}, nil
}

func (o *orchestrator) ListZones(ctx context.Context, input *worldsvc.ListZonesInput) (*worldsvc.ListZonesOutput, error) {
	listOutput, err := o.zoneRepo.List(ctx, zones.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list zones")
	}

	return &worldsvc.ListZonesOutput{Zones: listOutput.Zones}, nil
}

func (o *orchestrator) DeleteZone(ctx context.Context, input *worldsvc.DeleteZoneInput) (*worldsvc.DeleteZoneOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ZoneID == "" {
		return nil, errors.InvalidArgument("zone ID is required")
	}

	// A zone with placed dungeons cannot be deleted out from under them.
	listOutput, err := o.dungeonRepo.ListByZone(ctx, dungeons.ListByZoneInput{ZoneID: input.ZoneID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to check zone dungeons")
	}
	if len(listOutput.Dungeons) > 0 {
		return nil, errors.FailedPreconditionf(
			"zone %s still contains %d dungeons", input.ZoneID, len(listOutput.Dungeons))
	}

	if _, err := o.zoneRepo.Delete(ctx, zones.DeleteInput{ID: input.ZoneID}); err != nil {
		return nil, err
	}

	slog.Info("Zone deleted", "zone_id", input.ZoneID)

	return &worldsvc.DeleteZoneOutput{}, nil
}

func (o *orchestrator) PlaceDungeon(ctx context.Context, input *worldsvc.PlaceDungeonInput) (*worldsvc.PlaceDungeonOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("zone_id", input.ZoneID, vb)
	errors.ValidateRequired("category", input.Category, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	zoneOutput, err := o.zoneRepo.Get(ctx, zones.GetInput{ID: input.ZoneID})
	if err != nil {
		return nil, err
	}

	clamped, err := placement.ClampToRect(input.Position, zoneOutput.Zone.Bounds, o.margin)
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	dungeon := &entities.Dungeon{
		ID:           o.idGen.Generate(),
		ZoneID:       input.ZoneID,
		Name:         input.Name,
		Category:     input.Category,
		Position:     clamped,
		Requirements: input.Requirements,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := o.dungeonRepo.Create(ctx, dungeons.CreateInput{Dungeon: dungeon}); err != nil {
		return nil, errors.Wrap(err, "failed to create dungeon")
	}

	wasClamped := clamped != input.Position
	if wasClamped {
		slog.Info("Dungeon position clamped into zone bounds",
			"dungeon_id", dungeon.ID,
			"zone_id", input.ZoneID,
			"requested", input.Position,
			"placed", clamped,
		)
	}

	return &worldsvc.PlaceDungeonOutput{Dungeon: dungeon, Clamped: wasClamped}, nil
}

func (o *orchestrator) MoveDungeon(ctx context.Context, input *worldsvc.MoveDungeonInput) (*worldsvc.MoveDungeonOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.DungeonID == "" {
		return nil, errors.InvalidArgument("dungeon ID is required")
	}

	getOutput, err := o.dungeonRepo.Get(ctx, dungeons.GetInput{ID: input.DungeonID})
	if err != nil {
		return nil, err
	}
	dungeon := getOutput.Dungeon

	zoneOutput, err := o.zoneRepo.Get(ctx, zones.GetInput{ID: dungeon.ZoneID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get zone for move")
	}

	clamped, err := placement.ClampToRect(input.Position, zoneOutput.Zone.Bounds, o.margin)
	if err != nil {
		return nil, err
	}

	dungeon.Position = clamped
	dungeon.UpdatedAt = o.clock.Now()

	if _, err := o.dungeonRepo.Update(ctx, dungeons.UpdateInput{Dungeon: dungeon}); err != nil {
		return nil, errors.Wrap(err, "failed to update dungeon")
	}

	return &worldsvc.MoveDungeonOutput{
		Dungeon: dungeon,
		Clamped: clamped != input.Position,
	}, nil
}

func (o *orchestrator) GetDungeon(ctx context.Context, input *worldsvc.GetDungeonInput) (*worldsvc.GetDungeonOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.DungeonID == "" {
		return nil, errors.InvalidArgument("dungeon ID is required")
	}

	getOutput, err := o.dungeonRepo.Get(ctx, dungeons.GetInput{ID: input.DungeonID})
	if err != nil {
		return nil, err
	}

	return &worldsvc.GetDungeonOutput{Dungeon: getOutput.Dungeon}, nil
}

func (o *orchestrator) ListDungeons(ctx context.Context, input *worldsvc.ListDungeonsInput) (*worldsvc.ListDungeonsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ZoneID == "" {
		return nil, errors.InvalidArgument("zone ID is required")
	}

	listOutput, err := o.dungeonRepo.ListByZone(ctx, dungeons.ListByZoneInput{ZoneID: input.ZoneID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list dungeons")
	}

	return &worldsvc.ListDungeonsOutput{Dungeons: listOutput.Dungeons}, nil
}

func (o *orchestrator) DeleteDungeon(ctx context.Context, input *worldsvc.DeleteDungeonInput) (*worldsvc.DeleteDungeonOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.DungeonID == "" {
		return nil, errors.InvalidArgument("dungeon ID is required")
	}

	if _, err := o.dungeonRepo.Delete(ctx, dungeons.DeleteInput{ID: input.DungeonID}); err != nil {
		return nil, err
	}

	slog.Info("Dungeon deleted", "dungeon_id", input.DungeonID)

	return &worldsvc.DeleteDungeonOutput{}, nil
}

func (o *orchestrator) ResolveZone(ctx context.Context, input *worldsvc.ResolveZoneInput) (*worldsvc.ResolveZoneOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ZoneID == "" {
		return nil, errors.InvalidArgument("zone ID is required")
	}

	zoneOutput, err := o.zoneRepo.Get(ctx, zones.GetInput{ID: input.ZoneID})
	if err != nil {
		return nil, err
	}

	listOutput, err := o.dungeonRepo.ListByZone(ctx, dungeons.ListByZoneInput{ZoneID: input.ZoneID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list zone dungeons")
	}

	resolveOutput, err := placement.ResolveSeparation(&placement.ResolveSeparationInput{
		Dungeons:    listOutput.Dungeons,
		Bounds:      zoneOutput.Zone.Bounds,
		Margin:      o.margin,
		MinDistance: o.minDistance,
	})
	if err != nil {
		return nil, errors.Wrap(err, "separation pass failed")
	}

	// Persist only the dungeons the resolver actually moved.
	movedSet := make(map[string]bool, len(resolveOutput.MovedIDs))
	for _, id := range resolveOutput.MovedIDs {
		movedSet[id] = true
	}
	now := o.clock.Now()
	for _, dungeon := range listOutput.Dungeons {
		if !movedSet[dungeon.ID] {
			continue
		}
		dungeon.UpdatedAt = now
		if _, err := o.dungeonRepo.Update(ctx, dungeons.UpdateInput{Dungeon: dungeon}); err != nil {
			return nil, errors.Wrapf(err, "failed to persist moved dungeon %s", dungeon.ID)
		}
	}

	if len(resolveOutput.Conflicts) > 0 {
		slog.Warn("Zone separation left unresolved conflicts",
			"zone_id", input.ZoneID,
			"conflicts", len(resolveOutput.Conflicts),
		)
	}
	slog.Info("Zone separation pass complete",
		"zone_id", input.ZoneID,
		"dungeons", len(listOutput.Dungeons),
		"moved", len(resolveOutput.MovedIDs),
	)

	return &worldsvc.ResolveZoneOutput{
		MovedIDs:  resolveOutput.MovedIDs,
		Conflicts: resolveOutput.Conflicts,
	}, nil
}

func (o *orchestrator) GetWorldBounds(ctx context.Context, input *worldsvc.GetWorldBoundsInput) (*worldsvc.GetWorldBoundsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	listOutput, err := o.zoneRepo.List(ctx, zones.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list zones")
	}

	zoneValues := make([]entities.Zone, 0, len(listOutput.Zones))
	for _, z := range listOutput.Zones {
		zoneValues = append(zoneValues, *z)
	}

	bounds, err := placement.ComputeWorldBounds(zoneValues, input.Padding)
	if err != nil {
		return nil, err
	}

	return &worldsvc.GetWorldBoundsOutput{Bounds: bounds}, nil
}
