package form

import (
	"errors"
	"sort"
	"strings"
)

// ErrSubmitInProgress is returned by Submit while a submission is running.
var ErrSubmitInProgress = errors.New("submission already in progress")

// ErrUnknownField is returned by SetField for names other than title,
// content and tag.
var ErrUnknownField = errors.New("unknown form field")

// ValidationError lists the failed fields. It is returned before any
// network call is made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid note: " + strings.Join(parts, "; ")
}
