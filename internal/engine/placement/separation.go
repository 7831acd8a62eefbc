package placement

import (
	"math"

	"github.com/questforge/questmap/internal/engine/geometry"
	"github.com/questforge/questmap/internal/entities"
	"github.com/questforge/questmap/internal/errors"
)

// separationTolerance is the floating-point slack allowed on the separated
// distance before a pair counts as still conflicting.
const separationTolerance = 0.1

// Conflict describes a dungeon pair the resolver could not separate because
// re-clamping pulled the pushed dungeon back inside the minimum distance.
type Conflict struct {
	FirstID  string  `json:"first_id"`
	SecondID string  `json:"second_id"`
	Distance float64 `json:"distance"`
}

// ResolveSeparationInput contains the dungeons to separate and the zone
// geometry they must stay inside.
type ResolveSeparationInput struct {
	Dungeons    []*entities.Dungeon
	Bounds      geometry.Rect
	Margin      float64
	MinDistance float64
}

// ResolveSeparationOutput reports which dungeons moved and which pairs remain
// in conflict.
type ResolveSeparationOutput struct {
	MovedIDs  []string
	Conflicts []Conflict
}

// ResolveSeparation pushes apart dungeons closer than MinDistance. For each
// ordered pair the second dungeon is moved along the angle joining them so the
// pairwise distance becomes exactly MinDistance, then re-clamped into bounds.
// A single separation pass runs per pair; if clamping pulls the pair back into
// conflict the second dungeon keeps its pre-resolution position and the pair
// is reported as unresolved, never looped on.
//
// Cost is O(n²) over the dungeons, acceptable because this runs at authoring
// time over per-zone counts.
func ResolveSeparation(input *ResolveSeparationInput) (*ResolveSeparationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.MinDistance <= 0 {
		return nil, errors.InvalidArgument("min distance must be positive")
	}
	if !input.Bounds.IsValid() {
		return nil, errors.InvalidArgument("bounds is not a valid rectangle").
			WithMeta(reasonKey, reasonDegenerateRect)
	}
	for _, d := range input.Dungeons {
		if !geometry.IsFinite(d.Position) {
			return nil, errors.InvalidArgumentf(
				"dungeon %s has a non-finite position", d.ID).
				WithMeta(reasonKey, reasonInvalidCoordinate)
		}
	}

	output := &ResolveSeparationOutput{}
	moved := make(map[string]bool)

	for i := 0; i < len(input.Dungeons); i++ {
		for j := i + 1; j < len(input.Dungeons); j++ {
			a, b := input.Dungeons[i], input.Dungeons[j]

			d := geometry.Distance(a.Position, b.Position)
			if d >= input.MinDistance {
				continue
			}

			// Coincident points have no defined angle; fall back to 0
			// so the push direction stays deterministic.
			angle := 0.0
			if d > 0 {
				angle = math.Atan2(b.Position.Y-a.Position.Y, b.Position.X-a.Position.X)
			}

			pushed := geometry.Point{
				X: a.Position.X + input.MinDistance*math.Cos(angle),
				Y: a.Position.Y + input.MinDistance*math.Sin(angle),
			}

			clamped, err := ClampToRect(pushed, input.Bounds, input.Margin)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to re-clamp dungeon %s", b.ID)
			}

			if geometry.Distance(a.Position, clamped) < input.MinDistance-separationTolerance {
				// Zone is overcrowded at this spot; leave b where it
				// was and let the authoring layer decide.
				output.Conflicts = append(output.Conflicts, Conflict{
					FirstID:  a.ID,
					SecondID: b.ID,
					Distance: d,
				})
				continue
			}

			b.Position = clamped
			if !moved[b.ID] {
				moved[b.ID] = true
				output.MovedIDs = append(output.MovedIDs, b.ID)
			}
		}
	}

	return output, nil
}
