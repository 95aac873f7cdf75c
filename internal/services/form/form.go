// Package form validates and submits the create-note form.
package form

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"notehub/internal/clients/notehub"
	util "notehub/internal/utils"

	"github.com/go-playground/validator/v10"
)

// Field names accepted by SetField and used as keys of field errors.
const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldTag     = "tag"
)

// State is the submission state
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Values are the raw field values as typed.
type Values struct {
	Title   string
	Content string
	Tag     notehub.Tag
}

// DefaultValues is an empty form filed under Todo.
func DefaultValues() Values {
	return Values{Tag: notehub.TagTodo}
}

// Request trims the values into an API request. The text is otherwise
// sent as typed; markup is cleaned by the server.
func (v Values) Request() notehub.CreateNoteRequest {
	return notehub.CreateNoteRequest{
		Title:   strings.TrimSpace(v.Title),
		Content: strings.TrimSpace(v.Content),
		Tag:     v.Tag,
	}
}

// Creator creates notes, usually *notehub.Client.
type Creator interface {
	Create(ctx context.Context, req notehub.CreateNoteRequest) (*notehub.Note, error)
}

// Invalidator marks the note list stale, usually *notes.Coordinator.
type Invalidator interface {
	Invalidate()
}

// Form is one instance of the create-note form. It is safe for concurrent
// use; at most one submission runs at a time.
type Form struct {
	creator   Creator
	inv       Invalidator
	v         *validator.Validate
	log       *slog.Logger
	onSuccess func(*notehub.Note)

	mu      sync.Mutex
	values  Values
	errs    map[string]string
	state   State
	lastErr error
}

// Option customizes a Form
type Option func(*Form)

// WithValidator shares an already configured validator. It must know the
// notetag rule.
func WithValidator(v *validator.Validate) Option {
	return func(f *Form) { f.v = v }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(f *Form) { f.log = log }
}

// WithOnSuccess is called after a note was created and the list
// invalidated. The view closes the form from it.
func WithOnSuccess(fn func(*notehub.Note)) Option {
	return func(f *Form) { f.onSuccess = fn }
}

// New returns a form holding DefaultValues.
func New(creator Creator, inv Invalidator, opts ...Option) (*Form, error) {
	f := &Form{
		creator: creator,
		inv:     inv,
		values:  DefaultValues(),
		errs:    map[string]string{},
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.v == nil {
		v, err := util.NewValidator()
		if err != nil {
			return nil, err
		}
		f.v = v
	}
	if f.log == nil {
		f.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return f, nil
}

// SetField updates one field and re-validates it, returning its message
// ("" when valid).
func (f *Form) SetField(name, value string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case FieldTitle:
		f.values.Title = value
	case FieldContent:
		f.values.Content = value
	case FieldTag:
		f.values.Tag = notehub.Tag(value)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f.validateFieldLocked(name), nil
}

// ValidateField re-validates one field without changing it.
func (f *Form) ValidateField(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateFieldLocked(name)
}

// Validate checks every field and returns the messages of the failed ones.
func (f *Form) Validate() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.errs = f.validate(f.values.Request())
	return copyErrs(f.errs)
}

// Submit validates and creates the note. On success the list is
// invalidated before OnSuccess runs, and the form is reset.
func (f *Form) Submit(ctx context.Context) (*notehub.Note, error) {
	f.mu.Lock()
	if f.state != StateIdle {
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	f.state = StateValidating

	req := f.values.Request()
	f.errs = f.validate(req)
	if len(f.errs) > 0 {
		f.state = StateIdle
		verr := &ValidationError{Fields: copyErrs(f.errs)}
		f.mu.Unlock()
		return nil, verr
	}

	f.state = StateSubmitting
	f.lastErr = nil
	f.mu.Unlock()

	note, err := f.creator.Create(ctx, req)
	if err != nil {
		f.log.Warn("failed to create note", "error", err)
		f.mu.Lock()
		f.lastErr = err
		f.state = StateIdle
		f.mu.Unlock()
		return nil, fmt.Errorf("create note: %w", err)
	}

	if f.inv != nil {
		f.inv.Invalidate()
	}
	if f.onSuccess != nil {
		f.onSuccess(note)
	}

	f.mu.Lock()
	f.values = DefaultValues()
	f.errs = map[string]string{}
	f.state = StateIdle
	f.mu.Unlock()

	f.log.Info("note created", "id", note.ID, "tag", note.Tag)
	return note, nil
}

// Values returns the current values.
func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Errors returns the field messages from the last validation.
func (f *Form) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyErrs(f.errs)
}

// State returns the submission state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submitting reports whether the submit control should be disabled.
func (f *Form) Submitting() bool {
	return f.State() == StateSubmitting
}

// LastError is the error of the last failed submission, nil after a
// successful one.
func (f *Form) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func (f *Form) validateFieldLocked(name string) string {
	msgs := f.validate(f.values.Request())
	if msg, ok := msgs[name]; ok {
		f.errs[name] = msg
		return msg
	}
	delete(f.errs, name)
	return ""
}

func (f *Form) validate(req notehub.CreateNoteRequest) map[string]string {
	err := f.v.Struct(req)
	if err == nil {
		return map[string]string{}
	}
	msgs := util.Messages(err)
	if msgs == nil {
		// not a field error, e.g. a validator misconfiguration
		f.log.Error("note validation failed", "error", err)
		return map[string]string{FieldTitle: err.Error()}
	}
	return msgs
}

func copyErrs(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
