// Package dungeons defines the interface for dungeon persistence
package dungeons

//go:generate mockgen -destination=mock/mock_repository.go -package=dungeonsmock github.com/questforge/questmap/internal/repositories/dungeons Repository

import (
	"context"

	"github.com/questforge/questmap/internal/entities"
)

// Repository defines the interface for dungeon persistence.
type Repository interface {
	// Create stores a new dungeon
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if the dungeon ID is taken
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a dungeon by ID
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the dungeon doesn't exist
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update overwrites an existing dungeon (used by placement repairs
	// and authoring moves)
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.NotFound if the dungeon doesn't exist
	// Returns errors.Internal for storage failures
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// ListByZone retrieves all dungeons placed in one zone
	// Returns errors.InvalidArgument for empty zone IDs
	// Returns errors.Internal for storage failures
	ListByZone(ctx context.Context, input ListByZoneInput) (*ListByZoneOutput, error)

	// List retrieves all dungeons in the world
	// Returns errors.Internal for storage failures
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Delete removes a dungeon by ID
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the dungeon doesn't exist
	// Returns errors.Internal for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// CreateInput defines the input for creating a dungeon
type CreateInput struct {
	Dungeon *entities.Dungeon
}

// CreateOutput defines the output for creating a dungeon
type CreateOutput struct {
	Dungeon *entities.Dungeon
}

// GetInput defines the input for getting a dungeon
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a dungeon
type GetOutput struct {
	Dungeon *entities.Dungeon
}

// UpdateInput defines the input for updating a dungeon
type UpdateInput struct {
	Dungeon *entities.Dungeon
}

// UpdateOutput defines the output for updating a dungeon
type UpdateOutput struct {
	Dungeon *entities.Dungeon
}

// ListByZoneInput defines the input for listing a zone's dungeons
type ListByZoneInput struct {
	ZoneID string
}

// ListByZoneOutput defines the output for listing a zone's dungeons
type ListByZoneOutput struct {
	Dungeons []*entities.Dungeon
}

// ListInput defines the input for listing all dungeons
type ListInput struct{}

// ListOutput defines the output for listing all dungeons
type ListOutput struct {
	Dungeons []*entities.Dungeon
}

// DeleteInput defines the input for deleting a dungeon
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a dungeon
type DeleteOutput struct{}
