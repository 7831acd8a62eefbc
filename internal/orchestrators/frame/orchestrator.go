// Package frame implements the per-frame orchestrator: it holds an in-memory
// snapshot of dungeons, owns the sprite cache, and runs cull/evaluate passes
// without touching storage on the frame path.
package frame

import (
	"context"
	"log/slog"
	"sync"

	"github.com/questforge/questmap/internal/engine/geometry"
	"github.com/questforge/questmap/internal/engine/proximity"
	"github.com/questforge/questmap/internal/engine/sprites"
	"github.com/questforge/questmap/internal/entities"
	"github.com/questforge/questmap/internal/errors"
	"github.com/questforge/questmap/internal/repositories/dungeons"
	framesvc "github.com/questforge/questmap/internal/services/frame"
)

// Config holds the dependencies for the frame orchestrator
type Config struct {
	DungeonRepo dungeons.Repository

	// SpriteCache may be nil, in which case an owned cache with the default
	// generator is created.
	SpriteCache *sprites.Cache

	// InteractionRange, CullDistance and DriftTolerance fall back to the
	// engine defaults when zero.
	InteractionRange float64
	CullDistance     float64
	DriftTolerance   float64
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.DungeonRepo == nil {
		vb.RequiredField("DungeonRepo")
	}

	return vb.Build()
}

type orchestrator struct {
	dungeonRepo      dungeons.Repository
	spriteCache      *sprites.Cache
	interactionRange float64
	cullDistance     float64
	driftTolerance   float64

	mu       sync.RWMutex
	snapshot []*entities.Dungeon
	// skipped tracks dungeon IDs already reported as unevaluable so the
	// frame path logs each one once, not sixty times a second.
	skipped map[string]bool
}

// NewOrchestrator creates a new frame orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (framesvc.Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	cache := cfg.SpriteCache
	if cache == nil {
		cache = sprites.NewCache(nil)
	}
	interactionRange := cfg.InteractionRange
	if interactionRange <= 0 {
		interactionRange = proximity.DefaultInteractionRange
	}
	cullDistance := cfg.CullDistance
	if cullDistance <= 0 {
		cullDistance = sprites.DefaultCullDistance
	}
	driftTolerance := cfg.DriftTolerance
	if driftTolerance <= 0 {
		driftTolerance = sprites.DefaultDriftTolerance
	}

	return &orchestrator{
		dungeonRepo:      cfg.DungeonRepo,
		spriteCache:      cache,
		interactionRange: interactionRange,
		cullDistance:     cullDistance,
		driftTolerance:   driftTolerance,
		skipped:          make(map[string]bool),
	}, nil
}

func (o *orchestrator) Reload(ctx context.Context, input *framesvc.ReloadInput) (*framesvc.ReloadOutput, error) {
	listOutput, err := o.dungeonRepo.List(ctx, dungeons.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dungeons")
	}

	// Copy so frame evaluation never aliases repository-owned values.
	snapshot := make([]*entities.Dungeon, 0, len(listOutput.Dungeons))
	for _, d := range listOutput.Dungeons {
		copied := *d
		snapshot = append(snapshot, &copied)
	}

	o.mu.Lock()
	o.snapshot = snapshot
	o.skipped = make(map[string]bool)
	o.mu.Unlock()

	// Warm the sprite cache so the first frame after a reload does not pay
	// generation cost for every visible category.
	for _, d := range snapshot {
		if d.Category == "" {
			continue
		}
		if err := o.spriteCache.Enqueue(d.Category); err != nil {
			return nil, errors.Wrap(err, "failed to enqueue sprite generation")
		}
	}
	o.spriteCache.ProcessQueue()

	slog.Info("Frame snapshot reloaded", "dungeons", len(snapshot))

	return &framesvc.ReloadOutput{DungeonCount: len(snapshot)}, nil
}

func (o *orchestrator) EvaluateFrame(ctx context.Context, input *framesvc.EvaluateFrameInput) (*framesvc.EvaluateFrameOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if !geometry.IsFinite(input.ActorPos) {
		return nil, errors.InvalidArgument("actor position must be finite")
	}

	o.mu.RLock()
	snapshot := o.snapshot
	o.mu.RUnlock()

	output := &framesvc.EvaluateFrameOutput{}
	for _, dungeon := range snapshot {
		if !geometry.IsFinite(dungeon.Position) {
			o.reportSkipOnce(dungeon.ID, "non-finite position")
			continue
		}
		if !sprites.IsCullCandidate(input.ActorPos, dungeon.Position, o.cullDistance) {
			output.CulledCount++
			continue
		}

		state, err := proximity.Evaluate(&proximity.EvaluateInput{
			ActorPos:         input.ActorPos,
			ActorStats:       input.ActorStats,
			Dungeon:          dungeon,
			InteractionRange: o.interactionRange,
		})
		if err != nil {
			o.reportSkipOnce(dungeon.ID, err.Error())
			continue
		}

		spriteKey, err := o.spriteCache.GetOrCreateKey(dungeon.Category)
		if err != nil {
			o.reportSkipOnce(dungeon.ID, err.Error())
			continue
		}

		drifted := false
		if rendered, ok := input.RenderPositions[dungeon.ID]; ok {
			drifted = sprites.HasDrifted(dungeon.Position, rendered, o.driftTolerance)
		}

		output.States = append(output.States, framesvc.DungeonState{
			DungeonID:      dungeon.ID,
			ZoneID:         dungeon.ZoneID,
			Category:       dungeon.Category,
			SpriteKey:      spriteKey,
			Position:       dungeon.Position,
			State:          state,
			DriftCorrected: drifted,
		})
	}

	return output, nil
}

func (o *orchestrator) reportSkipOnce(dungeonID, reason string) {
	o.mu.Lock()
	seen := o.skipped[dungeonID]
	o.skipped[dungeonID] = true
	o.mu.Unlock()

	if !seen {
		slog.Warn("Dungeon skipped during frame evaluation",
			"dungeon_id", dungeonID,
			"reason", reason,
		)
	}
}

func (o *orchestrator) ResetSpriteCache(ctx context.Context, input *framesvc.ResetSpriteCacheInput) (*framesvc.ResetSpriteCacheOutput, error) {
	o.spriteCache.Clear()
	slog.Info("Sprite cache cleared")
	return &framesvc.ResetSpriteCacheOutput{}, nil
}

func (o *orchestrator) CacheMetrics(ctx context.Context, input *framesvc.CacheMetricsInput) (*framesvc.CacheMetricsOutput, error) {
	return &framesvc.CacheMetricsOutput{Metrics: o.spriteCache.Metrics()}, nil
}
