// Package zones defines the interface for zone persistence
package zones

//go:generate mockgen -destination=mock/mock_repository.go -package=zonesmock github.com/questforge/questmap/internal/repositories/zones Repository

import (
	"context"

	"github.com/questforge/questmap/internal/entities"
)

// Repository defines the interface for zone persistence. Zone bounds are
// immutable after creation, so no update operation is offered.
type Repository interface {
	// Create stores a new zone
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if the zone ID is taken
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a zone by ID
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the zone doesn't exist
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// List retrieves all zones
	// Returns errors.Internal for storage failures
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Delete removes a zone by ID
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the zone doesn't exist
	// Returns errors.Internal for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// CreateInput defines the input for creating a zone
type CreateInput struct {
	Zone *entities.Zone
}

// CreateOutput defines the output for creating a zone
type CreateOutput struct {
	Zone *entities.Zone
}

// GetInput defines the input for getting a zone
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a zone
type GetOutput struct {
	Zone *entities.Zone
}

// ListInput defines the input for listing zones
type ListInput struct{}

// ListOutput defines the output for listing zones
type ListOutput struct {
	Zones []*entities.Zone
}

// DeleteInput defines the input for deleting a zone
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a zone
type DeleteOutput struct{}
