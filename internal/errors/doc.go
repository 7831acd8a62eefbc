// Package errors provides the structured error handling used across questmap.
//
// It provides:
//   - Structured errors with codes, messages, and metadata
//   - HTTP status mapping for the API layer
//   - Error context preservation through wrapping
//   - Validation error helpers
//   - Type-safe error checking
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFound("zone not found")
//	err := errors.InvalidArgumentf("invalid margin: %v", margin)
//
// Adding metadata:
//
//	err := errors.NotFound("dungeon not found").
//	    WithMeta("dungeon_id", dungeonID).
//	    WithMeta("zone_id", zoneID)
//
// Wrapping errors:
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to get zone")
//	}
//
// # Error Checking
//
// Type checking:
//
//	if errors.IsNotFound(err) {
//	    // Handle not found case
//	}
//
// Extracting information:
//
//	code := errors.GetCode(err)
//	message := errors.GetMessage(err)
//	meta := errors.GetMeta(err)
//
// # Validation Errors
//
// Using the validation builder:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("name", input.Name, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # HTTP Integration
//
// Handlers convert errors to responses with WriteHTTP:
//
//	output, err := h.worldService.GetZone(ctx, input)
//	if err != nil {
//	    errors.WriteHTTP(w, err)
//	    return
//	}
//
// # Layer-Specific Guidelines
//
// Repository layer:
//   - Return domain-specific errors (NotFound, AlreadyExists)
//   - Include relevant IDs in metadata
//   - Wrap storage errors with context
//
// Orchestrator layer:
//   - Validate inputs and return InvalidArgument errors
//   - Check preconditions and return FailedPrecondition errors
//   - Wrap repository errors with business context
//
// Handler layer:
//   - Convert errors to HTTP responses
//   - Extract user-friendly messages
//   - Log internal errors for debugging
package errors
