// Package memstore keeps dev server notes in memory.
package memstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"notehub/internal/clients/notehub"
	"notehub/internal/services/notestore"
)

// NotesRepo implements the notestore.Repository interface in memory.
// Notes are kept in insertion order; List walks them newest first.
type NotesRepo struct {
	mu    sync.RWMutex
	notes []notehub.Note
	index map[string]int
}

var _ notestore.Repository = (*NotesRepo)(nil)

// NewNotesRepo creates an empty repository
func NewNotesRepo() *NotesRepo {
	return &NotesRepo{index: make(map[string]int)}
}

// Create stores a copy of n.
func (r *NotesRepo) Create(ctx context.Context, n *notehub.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[n.ID]; ok {
		return fmt.Errorf("%w: %s", notestore.ErrDuplicate, n.ID)
	}
	r.index[n.ID] = len(r.notes)
	r.notes = append(r.notes, *n)
	return nil
}

// List returns the notes whose title or content contains filter.Search,
// ignoring case.
func (r *NotesRepo) List(ctx context.Context, filter notestore.ListFilter) ([]notehub.Note, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(filter.Search)
	out := make([]notehub.Note, 0, filter.Limit)
	total := 0
	for i := len(r.notes) - 1; i >= 0; i-- {
		n := r.notes[i]
		if needle != "" && !matches(n, needle) {
			continue
		}
		if total >= filter.Offset && len(out) < filter.Limit {
			out = append(out, n)
		}
		total++
	}
	return out, total, nil
}

// Delete removes the note with id and returns it.
func (r *NotesRepo) Delete(ctx context.Context, id string) (*notehub.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return nil, notestore.ErrNoteNotFound
	}
	deleted := r.notes[i]

	r.notes = append(r.notes[:i], r.notes[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.notes); j++ {
		r.index[r.notes[j].ID] = j
	}
	return &deleted, nil
}

// Len returns the number of stored notes.
func (r *NotesRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notes)
}

func matches(n notehub.Note, needle string) bool {
	return strings.Contains(strings.ToLower(n.Title), needle) ||
		strings.Contains(strings.ToLower(n.Content), needle)
}
