package form

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"notehub/internal/clients/notehub"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// MockCreator is a mock implementation of Creator
type MockCreator struct {
	mock.Mock
}

func (m *MockCreator) Create(ctx context.Context, req notehub.CreateNoteRequest) (*notehub.Note, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notehub.Note), args.Error(1)
}

// MockInvalidator is a mock implementation of Invalidator
type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate() {
	m.Called()
}

func newTestForm(t *testing.T, opts ...Option) (*Form, *MockCreator, *MockInvalidator) {
	t.Helper()
	creator := &MockCreator{}
	inv := &MockInvalidator{}
	f, err := New(creator, inv, opts...)
	require.NoError(t, err)
	return f, creator, inv
}

func fill(t *testing.T, f *Form, title, content string, tag notehub.Tag) {
	t.Helper()
	_, err := f.SetField(FieldTitle, title)
	require.NoError(t, err)
	_, err = f.SetField(FieldContent, content)
	require.NoError(t, err)
	_, err = f.SetField(FieldTag, string(tag))
	require.NoError(t, err)
}

func TestNew_Defaults(t *testing.T) {
	f, _, _ := newTestForm(t)
	assert.Equal(t, Values{Tag: notehub.TagTodo}, f.Values())
	assert.Equal(t, StateIdle, f.State())
	assert.Empty(t, f.Errors())
	assert.NoError(t, f.LastError())
}

func TestSetField_LiveValidation(t *testing.T) {
	f, _, _ := newTestForm(t)

	tests := []struct {
		field string
		value string
		want  string
	}{
		{FieldTitle, "", "Title is required"},
		{FieldTitle, "ab", "Title must be at least 3 characters"},
		{FieldTitle, strings.Repeat("a", 51), "Title must be at most 50 characters"},
		{FieldTitle, "abc", ""},
		{FieldContent, strings.Repeat("a", 501), "Max 500 characters"},
		{FieldContent, "", ""},
		{FieldTag, "", "Tag is required"},
		{FieldTag, "Urgent", "Invalid tag"},
		{FieldTag, "Meeting", ""},
	}

	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			msg, err := f.SetField(tt.field, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg)
			assert.Equal(t, tt.want, f.ValidateField(tt.field))
			if tt.want == "" {
				assert.NotContains(t, f.Errors(), tt.field)
			} else {
				assert.Equal(t, tt.want, f.Errors()[tt.field])
			}
		})
	}
}

func TestSetField_Unknown(t *testing.T) {
	f, _, _ := newTestForm(t)
	_, err := f.SetField("color", "#fff")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSubmit_InvalidMakesNoRequest(t *testing.T) {
	f, creator, inv := newTestForm(t)
	fill(t, f, "ab", strings.Repeat("x", 501), "Urgent")

	note, err := f.Submit(context.Background())
	assert.Nil(t, note)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"title":   "Title must be at least 3 characters",
		"content": "Max 500 characters",
		"tag":     "Invalid tag",
	}, verr.Fields)
	assert.Contains(t, err.Error(), "title: Title must be at least 3 characters")

	assert.Equal(t, StateIdle, f.State())
	assert.Equal(t, verr.Fields, f.Errors())
	creator.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	inv.AssertNotCalled(t, "Invalidate")
}

func TestSubmit_SuccessInvalidatesBeforeClosing(t *testing.T) {
	var order []string
	closed := make(chan *notehub.Note, 1)
	f, creator, inv := newTestForm(t, WithOnSuccess(func(n *notehub.Note) {
		order = append(order, "close")
		closed <- n
	}))
	fill(t, f, "Groceries", "milk, eggs", notehub.TagShopping)

	created := &notehub.Note{ID: "n1", Title: "Groceries", Content: "milk, eggs", Tag: notehub.TagShopping}
	want := notehub.CreateNoteRequest{Title: "Groceries", Content: "milk, eggs", Tag: notehub.TagShopping}
	creator.On("Create", mock.Anything, want).Return(created, nil).Once()
	inv.On("Invalidate").Run(func(mock.Arguments) { order = append(order, "invalidate") }).Once()

	note, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, created, note)
	assert.Equal(t, created, <-closed)
	assert.Equal(t, []string{"invalidate", "close"}, order)

	assert.Equal(t, DefaultValues(), f.Values(), "form resets after success")
	assert.Equal(t, StateIdle, f.State())
	assert.NoError(t, f.LastError())
	creator.AssertExpectations(t)
	inv.AssertExpectations(t)
}

func TestSubmit_SendsTextAsTyped(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		want    notehub.CreateNoteRequest
	}{
		{
			name:    "angle brackets in prose",
			title:   "Use <div> tags",
			content: "if a<b and c>d then swap",
			want:    notehub.CreateNoteRequest{Title: "Use <div> tags", Content: "if a<b and c>d then swap", Tag: notehub.TagPersonal},
		},
		{
			name:    "only surrounding space is trimmed",
			title:   "  <b>Plan</b>   trip ",
			content: "\n<script>alert(1)</script>Book   hotel\t",
			want:    notehub.CreateNoteRequest{Title: "<b>Plan</b>   trip", Content: "<script>alert(1)</script>Book   hotel", Tag: notehub.TagPersonal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, creator, inv := newTestForm(t)
			fill(t, f, tt.title, tt.content, notehub.TagPersonal)

			creator.On("Create", mock.Anything, tt.want).Return(&notehub.Note{ID: "n2"}, nil).Once()
			inv.On("Invalidate").Once()

			_, err := f.Submit(context.Background())
			require.NoError(t, err)
			creator.AssertExpectations(t)
		})
	}
}

func TestSubmit_MarkupOnlyTitleIsAccepted(t *testing.T) {
	f, creator, inv := newTestForm(t)
	fill(t, f, "<b></b>", "", notehub.TagTodo)

	want := notehub.CreateNoteRequest{Title: "<b></b>", Tag: notehub.TagTodo}
	creator.On("Create", mock.Anything, want).Return(&notehub.Note{ID: "n4"}, nil).Once()
	inv.On("Invalidate").Once()

	_, err := f.Submit(context.Background())
	require.NoError(t, err)
	creator.AssertExpectations(t)
}

func TestSubmit_BlankTitleIsRequired(t *testing.T) {
	f, creator, _ := newTestForm(t)
	fill(t, f, "   ", "", notehub.TagTodo)

	_, err := f.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Title is required", verr.Fields["title"])
	creator.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_FailureKeepsValues(t *testing.T) {
	f, creator, inv := newTestForm(t)
	fill(t, f, "Standup", "daily", notehub.TagMeeting)

	apiErr := &notehub.APIError{Status: 500, Body: "boom"}
	creator.On("Create", mock.Anything, mock.Anything).Return(nil, apiErr).Once()

	note, err := f.Submit(context.Background())
	assert.Nil(t, note)

	var got *notehub.APIError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 500, got.Status)
	assert.Equal(t, apiErr, f.LastError())
	assert.Equal(t, Values{Title: "Standup", Content: "daily", Tag: notehub.TagMeeting}, f.Values())
	assert.Equal(t, StateIdle, f.State())
	inv.AssertNotCalled(t, "Invalidate")

	// the user can try again
	creator.On("Create", mock.Anything, mock.Anything).Return(&notehub.Note{ID: "n3"}, nil).Once()
	inv.On("Invalidate").Once()
	_, err = f.Submit(context.Background())
	require.NoError(t, err)
	assert.NoError(t, f.LastError())
}

func TestSubmit_SecondSubmitWhileInFlight(t *testing.T) {
	f, creator, inv := newTestForm(t)
	fill(t, f, "Only once", "", notehub.TagWork)

	started := make(chan struct{})
	release := make(chan struct{})
	creator.On("Create", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&notehub.Note{ID: "n4"}, nil).Once()
	inv.On("Invalidate").Once()

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = f.Submit(context.Background())
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("first submission did not start")
	}
	assert.True(t, f.Submitting())

	for i := 0; i < 3; i++ {
		_, err := f.Submit(context.Background())
		assert.ErrorIs(t, err, ErrSubmitInProgress)
	}

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.False(t, f.Submitting())
	creator.AssertNumberOfCalls(t, "Create", 1)
}

func TestSubmit_NilInvalidator(t *testing.T) {
	creator := &MockCreator{}
	f, err := New(creator, nil)
	require.NoError(t, err)
	fill(t, f, "No cache", "", notehub.TagTodo)

	creator.On("Create", mock.Anything, mock.Anything).Return(&notehub.Note{ID: "n5"}, nil)
	_, err = f.Submit(context.Background())
	assert.NoError(t, err)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"tag": "Invalid tag", "content": "Max 500 characters"}}
	assert.Equal(t, "invalid note: content: Max 500 characters; tag: Invalid tag", err.Error())
	assert.False(t, errors.Is(err, ErrSubmitInProgress))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "validating", StateValidating.String())
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "state(7)", State(7).String())
}

// TestTitleLengthRule checks that a title is accepted exactly when its
// length is within 3..50 characters.
func TestTitleLengthRule(t *testing.T) {
	f, _, _ := newTestForm(t)

	rapid.Check(t, func(t *rapid.T) {
		title := rapid.StringMatching(`[a-zA-Z0-9жé]{0,60}`).Draw(t, "title")
		n := len([]rune(title))

		msg, err := f.SetField(FieldTitle, title)
		if err != nil {
			t.Fatal(err)
		}
		valid := n >= 3 && n <= 50
		if valid != (msg == "") {
			t.Fatalf("title of %d chars: message %q", n, msg)
		}
	})
}

// TestContentLengthRule checks the 500 character cap on content.
func TestContentLengthRule(t *testing.T) {
	f, _, _ := newTestForm(t)

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 600).Draw(t, "len")
		msg, err := f.SetField(FieldContent, strings.Repeat("a", n))
		if err != nil {
			t.Fatal(err)
		}
		if (n <= 500) != (msg == "") {
			t.Fatalf("content of %d chars: message %q", n, msg)
		}
	})
}
