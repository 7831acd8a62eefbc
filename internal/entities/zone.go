// Package entities provides core data structures for questmap.
package entities

import (
	"time"

	"github.com/questforge/questmap/internal/engine/geometry"
)

// Zone represents a named rectangular region of the world. Zones are created
// at world-authoring time and read-only at runtime; Bounds is immutable after
// creation.
type Zone struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Bounds    geometry.Rect `json:"bounds"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
