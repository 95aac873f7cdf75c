package notestore

import (
	"context"

	"notehub/internal/clients/notehub"
)

// ListFilter selects a window of notes, newest first.
type ListFilter struct {
	Search string
	Offset int
	Limit  int
}

// Repository defines the interface for notes repository operations
type Repository interface {
	Create(ctx context.Context, n *notehub.Note) error
	// List returns the window and the number of notes matching Search.
	List(ctx context.Context, filter ListFilter) ([]notehub.Note, int, error)
	Delete(ctx context.Context, id string) (*notehub.Note, error)
}
