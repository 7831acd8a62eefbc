package sprites

import (
	"math"

	"github.com/questforge/questmap/internal/engine/geometry"
)

const (
	// DefaultCullDistance is the coarse pre-filter radius. Deliberately
	// larger than the interaction range so full proximity evaluation only
	// runs for dungeons plausibly visible.
	DefaultCullDistance = 800.0

	// DefaultDriftTolerance is the per-axis slack allowed between an
	// expected and an observed position before correction.
	DefaultDriftTolerance = 0.1
)

// IsCullCandidate reports whether the dungeon at pos is within cullDistance of
// the actor and should receive full proximity evaluation this frame. A
// dungeon rejected here must not have its frame state recomputed. No side
// effects; callers run this before evaluation for large dungeon sets.
func IsCullCandidate(actorPos, pos geometry.Point, cullDistance float64) bool {
	if !geometry.IsFinite(actorPos) || !geometry.IsFinite(pos) {
		return false
	}
	if cullDistance <= 0 {
		cullDistance = DefaultCullDistance
	}
	return geometry.Distance(actorPos, pos) <= cullDistance
}

// HasDrifted reports whether actual differs from expected by more than
// tolerance on either axis. The correction policy is always to snap back to
// expected; the authoritative position wins, never an interpolated partial
// correction.
func HasDrifted(expected, actual geometry.Point, tolerance float64) bool {
	if tolerance <= 0 {
		tolerance = DefaultDriftTolerance
	}
	return math.Abs(expected.X-actual.X) > tolerance ||
		math.Abs(expected.Y-actual.Y) > tolerance
}
