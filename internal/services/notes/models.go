package notes

import (
	"context"
	"fmt"
	"strings"

	"notehub/internal/clients/notehub"
	"notehub/internal/services/hub"
)

// Family names the group of query keys that Invalidate marks stale.
const Family = "notes"

// Lister is the part of the REST client the coordinator needs
type Lister interface {
	List(ctx context.Context, p notehub.ListParams) (*notehub.ListResponse, error)
}

// QueryKey identifies one cached page. Two keys are equal iff all fields
// are equal, so it is used directly as a map key.
type QueryKey struct {
	Page    int
	Search  string
	PerPage int
}

// NewQueryKey builds a normalized key: the search term is trimmed and
// pages below 1 are clamped to 1.
func NewQueryKey(page int, search string, perPage int) QueryKey {
	if page < 1 {
		page = 1
	}
	return QueryKey{Page: page, Search: strings.TrimSpace(search), PerPage: perPage}
}

func (k QueryKey) String() string {
	return fmt.Sprintf("%s|page=%d|perPage=%d|search=%q", Family, k.Page, k.PerPage, k.Search)
}

// Params converts the key into REST list parameters
func (k QueryKey) Params() notehub.ListParams {
	return notehub.ListParams{Page: k.Page, PerPage: k.PerPage, Search: k.Search}
}

// Status is the fetch state of a key
type Status int

const (
	StatusEmpty Status = iota
	StatusFetching
	StatusFresh
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusFetching:
		return "fetching"
	case StatusFresh:
		return "fresh"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is one fetched page
type Result struct {
	Notes      []notehub.Note
	TotalPages int
}

// Snapshot is what the view renders for a key.
type Snapshot struct {
	Key    QueryKey
	Status Status
	Result Result
	// HasData is false only when there is nothing at all to show.
	HasData bool
	// Placeholder marks Result as the previously displayed page, shown
	// while the fetch for Key is outstanding.
	Placeholder bool
	// Stale means the data would be refetched on the next access.
	Stale bool
	Err   error
}

// Pending reports whether the view has nothing to show yet.
func (s Snapshot) Pending() bool {
	return s.Status == StatusFetching && !s.HasData
}

// Fetching reports whether a fetch for the key is outstanding.
func (s Snapshot) Fetching() bool {
	return s.Status == StatusFetching
}

// EventType names a coordinator state change
type EventType string

const (
	EventFetching    EventType = "fetching"
	EventFetched     EventType = "fetched"
	EventFailed      EventType = "failed"
	EventInvalidated EventType = "invalidated"
)

// Event is broadcast to subscribers on every state change of a key
type Event struct {
	Type EventType
	Key  QueryKey
}

// Subscriber receives coordinator events
type Subscriber = hub.Subscriber[Event]
