// Package notestore is the note service behind the dev API server.
package notestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"notehub/internal/clients/notehub"
	"notehub/internal/services/hub"
	"notehub/internal/utils/sanitize"

	"github.com/oklog/ulid/v2"
)

const (
	DefaultPerPage = 12
	MaxPerPage     = 100

	changeBuffer = 64
)

// ListNotesRequest represents a list notes request
type ListNotesRequest struct {
	Page    int    `query:"page"    json:"page"    validate:"omitempty,min=1" example:"1"`
	PerPage int    `query:"perPage" json:"perPage" validate:"omitempty,min=1" example:"12"`
	Search  string `query:"search"  json:"search"  validate:"omitempty,max=256" example:"meeting"`
}

// Service handles notes business logic. Every successful create and
// delete is broadcast to change subscribers.
type Service struct {
	repo    Repository
	log     *slog.Logger
	now     func() time.Time
	changes *hub.Hub[notehub.ChangeEvent]
}

// ServiceOption customizes a Service
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	changeBuffer int
}

// WithChangeBuffer sets how many change events each subscriber may lag
// behind before events are dropped for it.
func WithChangeBuffer(n int) ServiceOption {
	return func(o *serviceOptions) { o.changeBuffer = n }
}

// NewService creates a new notes service
func NewService(repo Repository, log *slog.Logger, opts ...ServiceOption) *Service {
	o := serviceOptions{changeBuffer: changeBuffer}
	for _, opt := range opts {
		opt(&o)
	}
	return &Service{
		repo:    repo,
		log:     log,
		now:     time.Now,
		changes: hub.New[notehub.ChangeEvent](o.changeBuffer, log),
	}
}

// Subscribe registers for change events. The cancel func is idempotent.
func (s *Service) Subscribe() (*hub.Subscriber[notehub.ChangeEvent], func()) {
	return s.changes.Subscribe()
}

// Watchers returns the number of live change subscriptions.
func (s *Service) Watchers() int {
	n, _ := s.changes.Stats()
	return n
}

// Close ends every change subscription.
func (s *Service) Close() {
	s.changes.Close()
}

// Create stores a note built from req. Text is sanitized first.
func (s *Service) Create(ctx context.Context, req notehub.CreateNoteRequest) (*notehub.Note, error) {
	now := s.now().UTC()
	note := &notehub.Note{
		ID:        ulid.Make().String(),
		Title:     sanitize.Title(req.Title),
		Content:   sanitize.Content(req.Content),
		Tag:       req.Tag,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		s.log.Error(ErrCreateNote.Error(), "error", err)
		return nil, ErrCreateNote
	}
	s.changes.Broadcast(notehub.ChangeEvent{Type: notehub.ChangeCreated, Note: *note})
	return note, nil
}

// List returns one page of notes, newest first.
func (s *Service) List(ctx context.Context, req ListNotesRequest) (*notehub.ListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PerPage == 0 {
		req.PerPage = DefaultPerPage
	}
	if req.Page < 1 || req.PerPage < 1 {
		return nil, ErrBadRequest
	}
	if req.PerPage > MaxPerPage {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, ErrInvalidPerPage)
	}
	// the offset must fit in an int
	if req.Page > math.MaxInt/req.PerPage {
		return nil, ErrBadRequest
	}

	page, total, err := s.repo.List(ctx, ListFilter{
		Search: strings.TrimSpace(req.Search),
		Offset: (req.Page - 1) * req.PerPage,
		Limit:  req.PerPage,
	})
	if err != nil {
		s.log.Error(ErrListNotes.Error(), "error", err)
		return nil, ErrListNotes
	}
	if page == nil {
		page = []notehub.Note{}
	}

	return &notehub.ListResponse{
		Notes:      page,
		TotalPages: TotalPages(total, req.PerPage),
	}, nil
}

// Delete removes a note and returns it.
func (s *Service) Delete(ctx context.Context, id string) (*notehub.Note, error) {
	note, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			s.log.Info("note not found for delete", "note_id", id)
			return nil, ErrNoteNotFound
		}
		s.log.Error(ErrDeleteNote.Error(), "error", err, "note_id", id)
		return nil, ErrDeleteNote
	}
	s.changes.Broadcast(notehub.ChangeEvent{Type: notehub.ChangeDeleted, Note: *note})
	return note, nil
}

// TotalPages is ceil(total/perPage).
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
