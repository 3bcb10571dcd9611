package models

import "errors"

// Error taxonomy shared by every component. Lower layers wrap these with
// fmt.Errorf("...: %w", ...) and the HTTP boundary maps them to status codes
// with errors.Is.
var (
	// ErrValidation covers bad or missing request fields and nonexistent
	// upload paths. Maps to 400.
	ErrValidation = errors.New("validation error")

	// ErrNotFound signals an unknown test question id. Maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrExtraction signals a corrupt or unreadable document.
	ErrExtraction = errors.New("extraction error")

	// ErrIndexNotFound signals that no index has been built or persisted yet.
	ErrIndexNotFound = errors.New("index not found")

	// ErrEmbeddingService signals a failed call to the embedding service.
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrGenerationService signals a failed call to the generative service.
	ErrGenerationService = errors.New("generation service error")

	// ErrMalformedGeneration signals generative output that violates a
	// stage's textual contract (missing '?', unparseable confidence score).
	ErrMalformedGeneration = errors.New("malformed generation output")

	// ErrDuplicateID signals an insert for an id the ledger already holds.
	// Ids are minted fresh per query, so hitting this is a logic error.
	ErrDuplicateID = errors.New("duplicate test question id")
)
