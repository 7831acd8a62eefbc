// Package placement implements the authoring-time spatial validation pipeline:
// clamping dungeons into zone bounds at a margin, aggregating zone rectangles
// into padded world bounds, and separating dungeons that sit too close
// together. These operations run at load or edit time, never per frame.
package placement

import (
	"github.com/questforge/questmap/internal/engine/geometry"
	"github.com/questforge/questmap/internal/entities"
	"github.com/questforge/questmap/internal/errors"
)

const (
	// DefaultMargin is the minimum inset from a zone edge at which a
	// dungeon may be placed.
	DefaultMargin = 50.0

	// DefaultMinDistance is the minimum allowed distance between two
	// dungeons in the same zone.
	DefaultMinDistance = 80.0
)

// Error reasons attached as metadata so callers can distinguish placement
// failures that share an error code.
const (
	reasonKey              = "placement_reason"
	reasonDegenerateRect   = "degenerate_rect"
	reasonInvalidCoordinate = "invalid_coordinate"
	reasonEmptyZoneSet     = "empty_zone_set"
)

// ClampToRect returns p limited to the interior of r inset by margin on every
// side. A rectangle too small to hold any valid interior point under the
// margin is a configuration error, not a runtime clamp.
func ClampToRect(p geometry.Point, r geometry.Rect, margin float64) (geometry.Point, error) {
	if !geometry.IsFinite(p) {
		return geometry.Point{}, errors.InvalidArgumentf(
			"position (%v, %v) has non-finite components", p.X, p.Y).
			WithMeta(reasonKey, reasonInvalidCoordinate)
	}
	if !r.IsValid() {
		return geometry.Point{}, errors.InvalidArgumentf(
			"rect (%v, %v)-(%v, %v) is not a valid rectangle", r.MinX, r.MinY, r.MaxX, r.MaxY).
			WithMeta(reasonKey, reasonDegenerateRect)
	}
	if r.Width() < 2*margin || r.Height() < 2*margin {
		return geometry.Point{}, errors.FailedPreconditionf(
			"rect %vx%v cannot hold any point at margin %v", r.Width(), r.Height(), margin).
			WithMeta(reasonKey, reasonDegenerateRect)
	}

	return geometry.Point{
		X: geometry.Clamp(p.X, r.MinX+margin, r.MaxX-margin),
		Y: geometry.Clamp(p.Y, r.MinY+margin, r.MaxY-margin),
	}, nil
}

// ComputeWorldBounds aggregates the zones' rectangles into their tightest
// bounding rectangle expanded outward by padding on every side. Every input
// zone's rectangle is fully contained in the result. The engine holds no
// default world bounds, so an empty zone set is an error.
func ComputeWorldBounds(zones []entities.Zone, padding float64) (geometry.Rect, error) {
	if len(zones) == 0 {
		return geometry.Rect{}, errors.InvalidArgument("at least one zone is required").
			WithMeta(reasonKey, reasonEmptyZoneSet)
	}

	agg := zones[0].Bounds
	for _, z := range zones {
		if !z.Bounds.IsValid() {
			return geometry.Rect{}, errors.InvalidArgumentf(
				"zone %s has an invalid bounds rectangle", z.ID).
				WithMeta(reasonKey, reasonDegenerateRect)
		}
		if z.Bounds.MinX < agg.MinX {
			agg.MinX = z.Bounds.MinX
		}
		if z.Bounds.MinY < agg.MinY {
			agg.MinY = z.Bounds.MinY
		}
		if z.Bounds.MaxX > agg.MaxX {
			agg.MaxX = z.Bounds.MaxX
		}
		if z.Bounds.MaxY > agg.MaxY {
			agg.MaxY = z.Bounds.MaxY
		}
	}

	return agg.Expand(padding), nil
}

// IsDegenerateRect reports whether err is a placement failure caused by a
// rectangle too small (or malformed) to admit a margin-clamped point.
func IsDegenerateRect(err error) bool {
	return placementReason(err) == reasonDegenerateRect
}

// IsInvalidCoordinate reports whether err is a placement failure caused by a
// non-finite coordinate.
func IsInvalidCoordinate(err error) bool {
	return placementReason(err) == reasonInvalidCoordinate
}

// IsEmptyZoneSet reports whether err came from a world-bounds computation over
// no zones.
func IsEmptyZoneSet(err error) bool {
	return placementReason(err) == reasonEmptyZoneSet
}

func placementReason(err error) string {
	meta := errors.GetMeta(err)
	if meta == nil {
		return ""
	}
	reason, _ := meta[reasonKey].(string)
	return reason
}
