// Package proximity computes the per-frame interaction state between the
// actor and a dungeon: distance, range flag, proximity tier, eligibility, and
// the visual-effect directives rendering consumes. Evaluate is a pure function
// over read-only inputs and is safe to call concurrently across dungeons.
package proximity

import (
	"github.com/questforge/questmap/internal/engine/geometry"
	"github.com/questforge/questmap/internal/entities"
	"github.com/questforge/questmap/internal/errors"
)

// DefaultInteractionRange is the maximum actor-to-dungeon distance for
// in-range interaction.
const DefaultInteractionRange = 100.0

// Tier fractions of the interaction range.
const (
	closeTierFraction = 0.4
	nearTierFraction  = 0.8
)

// Tier is the discrete classification of actor-to-dungeon distance. A tier is
// always assigned, independent of range or eligibility, so UI can show states
// like "far but eligible" or "close but locked".
type Tier string

// Proximity tiers ordered by distance.
const (
	TierClose Tier = "close"
	TierNear  Tier = "near"
	TierFar   Tier = "far"
)

// EffectKind identifies a visual-effect directive.
type EffectKind string

// Effect kinds rendering understands.
const (
	EffectGlow      EffectKind = "glow"
	EffectScale     EffectKind = "scale"
	EffectParticles EffectKind = "particles"
)

// Effect is an advisory rendering directive with no identity or lifecycle
// beyond the frame that produced it.
type Effect struct {
	Kind      EffectKind `json:"kind"`
	Intensity float64    `json:"intensity"`
}

// State is the derived interaction state for one dungeon, recomputed every
// frame and never persisted.
type State struct {
	Distance      float64  `json:"distance"`
	IsInRange     bool     `json:"is_in_range"`
	Tier          Tier     `json:"tier"`
	IsEligible    bool     `json:"is_eligible"`
	IsLocked      bool     `json:"is_locked"`
	VisualEffects []Effect `json:"visual_effects,omitempty"`
}

// EvaluateInput contains the per-frame inputs for one dungeon.
type EvaluateInput struct {
	ActorPos         geometry.Point
	ActorStats       entities.ActorStats
	Dungeon          *entities.Dungeon
	InteractionRange float64
}

// Evaluate computes the interaction state for one dungeon. A non-finite actor
// or dungeon position yields an InvalidArgument error rather than a
// misleading zero distance; callers skip the dungeon for the frame. Evaluate
// never mutates its inputs.
func Evaluate(input *EvaluateInput) (*State, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Dungeon == nil {
		return nil, errors.InvalidArgument("dungeon is required")
	}
	if !geometry.IsFinite(input.ActorPos) {
		return nil, errors.InvalidArgument("actor position has non-finite components")
	}
	if !geometry.IsFinite(input.Dungeon.Position) {
		return nil, errors.InvalidArgumentf(
			"dungeon %s has a non-finite position", input.Dungeon.ID)
	}

	interactionRange := input.InteractionRange
	if interactionRange <= 0 {
		interactionRange = DefaultInteractionRange
	}

	d := geometry.Distance(input.ActorPos, input.Dungeon.Position)
	eligible := isEligible(input.ActorStats, input.Dungeon.Requirements)

	state := &State{
		Distance:   d,
		IsInRange:  d <= interactionRange,
		Tier:       tierFor(d, interactionRange),
		IsEligible: eligible,
		// Distance is irrelevant to lock state; the actor may be
		// standing on an inaccessible dungeon.
		IsLocked: !eligible,
	}

	if state.IsEligible && state.IsInRange {
		state.VisualEffects = append(state.VisualEffects, Effect{Kind: EffectGlow, Intensity: 1.0})
		if state.Tier == TierClose {
			state.VisualEffects = append(state.VisualEffects, Effect{Kind: EffectParticles, Intensity: 0.8})
		}
	}

	return state, nil
}

func tierFor(d, interactionRange float64) Tier {
	switch {
	case d <= closeTierFraction*interactionRange:
		return TierClose
	case d <= nearTierFraction*interactionRange:
		return TierNear
	default:
		return TierFar
	}
}

func isEligible(stats entities.ActorStats, req entities.Requirements) bool {
	if req.MinTrustScore != nil && stats.TrustScore < *req.MinTrustScore {
		return false
	}
	if req.MinLevel != nil && stats.Level < *req.MinLevel {
		return false
	}
	for _, badge := range req.RequiredBadges {
		if !stats.HasBadge(badge) {
			return false
		}
	}
	return true
}
