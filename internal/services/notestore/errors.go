package notestore

import "errors"

// ErrNoteNotFound - note not found in the store
var ErrNoteNotFound = errors.New("note not found")

// ErrDuplicate is returned by a repository for an id it already holds.
var ErrDuplicate = errors.New("note already exists")

// ErrCreateNote is returned when note creation fails.
var ErrCreateNote = errors.New("failed to create note")

// ErrDeleteNote is returned when note deletion fails.
var ErrDeleteNote = errors.New("failed to delete note")

// ErrListNotes is returned when notes listing fails.
var ErrListNotes = errors.New("failed to list notes")

// ErrBadRequest is returned when request parameters are invalid.
var ErrBadRequest = errors.New("bad request")

// ErrInvalidPerPage is returned when perPage is above MaxPerPage.
var ErrInvalidPerPage = errors.New("invalid perPage")
