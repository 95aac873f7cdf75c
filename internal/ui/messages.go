package ui

import (
	"context"
	"sync"

	"notehub/internal/clients/notehub"
	"notehub/internal/services/notes"
	"notehub/internal/services/search"

	tea "github.com/charmbracelet/bubbletea"
)

// CommitFeed carries committed search states to the model. It keeps only
// the newest state, so Publish never blocks even when called from inside
// Update.
type CommitFeed struct {
	mu sync.Mutex
	ch chan search.State
}

// NewCommitFeed returns an empty feed.
func NewCommitFeed() *CommitFeed {
	return &CommitFeed{ch: make(chan search.State, 1)}
}

// Publish replaces any undelivered state with st.
func (f *CommitFeed) Publish(st search.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case <-f.ch:
	default:
	}
	f.ch <- st
}

type (
	eventMsg      notes.Event
	hubClosedMsg  struct{}
	commitMsg     search.State
	submitDoneMsg struct {
		note *notehub.Note
		err  error
	}
	deleteDoneMsg struct {
		note *notehub.Note
		err  error
	}
)

func waitForEvent(sub *notes.Subscriber) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev, ok := <-sub.Ch:
			if !ok {
				return hubClosedMsg{}
			}
			return eventMsg(ev)
		case <-sub.Done:
			return hubClosedMsg{}
		}
	}
}

func waitForCommit(ctx context.Context, feed *CommitFeed) tea.Cmd {
	return func() tea.Msg {
		select {
		case st := <-feed.ch:
			return commitMsg(st)
		case <-ctx.Done():
			return nil
		}
	}
}
