package notehub

import "time"

// Tag is the category a note is filed under.
type Tag string

const (
	TagTodo     Tag = "Todo"
	TagWork     Tag = "Work"
	TagPersonal Tag = "Personal"
	TagMeeting  Tag = "Meeting"
	TagShopping Tag = "Shopping"
)

// Tags lists every tag the API accepts, in display order.
var Tags = []Tag{TagTodo, TagWork, TagPersonal, TagMeeting, TagShopping}

// Valid reports whether t is one of Tags.
func (t Tag) Valid() bool {
	for _, known := range Tags {
		if t == known {
			return true
		}
	}
	return false
}

// Next returns the tag after t in Tags, wrapping around.
func (t Tag) Next() Tag {
	for i, known := range Tags {
		if t == known {
			return Tags[(i+1)%len(Tags)]
		}
	}
	return Tags[0]
}

// Note is a note as returned by the API
type Note struct {
	ID        string    `json:"id" example:"65ca67e7ae7f10c88b598384"`
	Title     string    `json:"title" example:"Meeting Notes"`
	Content   string    `json:"content" example:"Remember to discuss the quarterly targets"`
	Tag       Tag       `json:"tag" example:"Meeting"`
	CreatedAt time.Time `json:"createdAt" example:"2025-06-01T23:00:26.005Z"`
	UpdatedAt time.Time `json:"updatedAt" example:"2025-06-01T23:00:26.005Z"`
}

// ListParams selects one page of notes
type ListParams struct {
	Page    int
	PerPage int
	Search  string
}

// ListResponse is the body of GET /notes
type ListResponse struct {
	Notes      []Note `json:"notes"`
	TotalPages int    `json:"totalPages" example:"4"`
}

// CreateNoteRequest is the body of POST /notes
type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required,min=3,max=50" example:"Meeting Notes"`
	Content string `json:"content" validate:"max=500" example:"Remember to discuss the quarterly targets"`
	Tag     Tag    `json:"tag" validate:"required,notetag" example:"Meeting"`
}

// ChangeType names a change pushed on the notes stream
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent is one message of GET /notes/stream. Deleted events carry
// only the note id.
type ChangeEvent struct {
	Type ChangeType `json:"type"`
	Note Note       `json:"note"`
}
