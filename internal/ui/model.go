// Package ui is the terminal view of the note list and the create form.
//
// The model owns no data. It renders coordinator snapshots, forwards
// keystrokes to the search controller and the form, and turns hub events
// and search commits into tea messages.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"notehub/internal/clients/notehub"
	"notehub/internal/services/form"
	"notehub/internal/services/notes"
	"notehub/internal/services/search"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const genericError = "There was an error, please try again..."

// NoteList is the part of the coordinator the view uses
type NoteList interface {
	Query(key notes.QueryKey) notes.Snapshot
	Snapshot() notes.Snapshot
	Retry() (notes.Snapshot, error)
	Invalidate()
	Subscribe() (*notes.Subscriber, func())
}

// Searcher is the part of the search controller the view uses
type Searcher interface {
	Input(text string)
	SetPage(n int) error
	Snapshot() search.State
	Flush() bool
}

// Deleter removes a note
type Deleter interface {
	Delete(ctx context.Context, id string) (*notehub.Note, error)
}

// Deps wires the model to the services.
type Deps struct {
	Notes   NoteList
	Search  Searcher
	Commits *CommitFeed
	Deleter Deleter
	// NewForm returns a fresh form each time the modal opens. The model
	// passes the options that close the modal on success.
	NewForm func(opts ...form.Option) (*form.Form, error)
	PerPage int
	Log     *slog.Logger
}

// Model is the bubbletea model of the whole screen
type Model struct {
	ctx  context.Context
	deps Deps
	log  *slog.Logger

	sub         *notes.Subscriber
	unsubscribe func()

	keys      listKeyMap
	help      help.Model
	search    textinput.Model
	spinner   spinner.Model
	paginator paginator.Model

	snap   notes.Snapshot
	cursor int
	modal  *modal
	status string
	width  int
	height int
}

// New builds the model and subscribes to coordinator events. ctx bounds
// the background waits started by the model.
func New(ctx context.Context, deps Deps) Model {
	log := deps.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	si := textinput.New()
	si.Placeholder = "Search notes"
	si.Prompt = "🔍 "
	si.CharLimit = 100
	si.Width = 40
	si.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(statusStyle))

	pg := paginator.New()
	pg.Type = paginator.Arabic
	pg.PerPage = 1

	sub, unsubscribe := deps.Notes.Subscribe()

	return Model{
		ctx:         ctx,
		deps:        deps,
		log:         log,
		sub:         sub,
		unsubscribe: unsubscribe,
		keys:        newListKeyMap(),
		help:        help.New(),
		search:      si,
		spinner:     sp,
		paginator:   pg,
	}
}

// Init queries the first page and starts the background waits.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.queryCmd(m.deps.Search.Snapshot()),
		m.spinner.Tick,
		textinput.Blink,
		waitForEvent(m.sub),
		waitForCommit(m.ctx, m.deps.Commits),
	)
}

func (m Model) queryCmd(st search.State) tea.Cmd {
	key := notes.NewQueryKey(st.Page, st.Term, m.deps.PerPage)
	return func() tea.Msg {
		m.deps.Notes.Query(key)
		return eventMsg(notes.Event{Type: notes.EventFetching, Key: key})
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.search.Width = max(msg.Width-10, 20)
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		m.refresh()
		return m, waitForEvent(m.sub)

	case hubClosedMsg:
		return m, nil

	case commitMsg:
		st := search.State(msg)
		m.snap = m.deps.Notes.Query(notes.NewQueryKey(st.Page, st.Term, m.deps.PerPage))
		m.syncPage()
		return m, waitForCommit(m.ctx, m.deps.Commits)

	case submitDoneMsg:
		return m.submitDone(msg)

	case deleteDoneMsg:
		if msg.err != nil {
			m.log.Warn("failed to delete note", "error", msg.err)
			m.status = errorStyle.Render("Could not delete the note.")
			return m, nil
		}
		m.status = statusStyle.Render(fmt.Sprintf("Deleted %q", msg.note.Title))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.modal != nil {
			return m.updateModal(msg)
		}
		return m.updateList(msg)
	}

	if m.modal != nil {
		md, _, cmd := m.modal.update(msg)
		m.modal = &md
		return m, cmd
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) refresh() {
	m.snap = m.deps.Notes.Snapshot()
	if n := len(m.snap.Result.Notes); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.syncPage()
}

func (m *Model) syncPage() {
	m.paginator.TotalPages = max(m.snap.Result.TotalPages, 1)
	m.paginator.Page = min(max(m.snap.Key.Page-1, 0), m.paginator.TotalPages-1)
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.unsubscribe()
		return m, tea.Quit

	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.snap.Result.Notes)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.next):
		return m.turnPage(1)

	case key.Matches(msg, m.keys.prev):
		return m.turnPage(-1)

	case key.Matches(msg, m.keys.retry):
		if _, err := m.deps.Notes.Retry(); err != nil {
			m.log.Debug("retry skipped", "error", err)
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.search):
		// the commit arrives through the feed like a timed one
		m.deps.Search.Flush()
		return m, nil

	case key.Matches(msg, m.keys.create):
		return m.openModal()

	case key.Matches(msg, m.keys.delete):
		return m.deleteSelected()
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.deps.Search.Input(v)
	}
	return m, cmd
}

func (m Model) turnPage(delta int) (tea.Model, tea.Cmd) {
	st := m.deps.Search.Snapshot()
	page := st.Page + delta
	if page < 1 {
		return m, nil
	}
	// a placeholder carries the page count of another key
	if delta > 0 && (m.snap.Placeholder || page > m.snap.Result.TotalPages) {
		return m, nil
	}
	if err := m.deps.Search.SetPage(page); err != nil {
		m.log.Debug("page change rejected", "page", page, "error", err)
		return m, nil
	}
	m.cursor = 0
	m.snap = m.deps.Notes.Query(notes.NewQueryKey(page, st.Term, m.deps.PerPage))
	m.syncPage()
	return m, nil
}

func (m Model) openModal() (tea.Model, tea.Cmd) {
	created := make(chan *notehub.Note, 1)
	f, err := m.deps.NewForm(form.WithOnSuccess(func(n *notehub.Note) { created <- n }))
	if err != nil {
		m.log.Error("failed to open form", "error", err)
		m.status = errorStyle.Render(genericError)
		return m, nil
	}
	md := newModal(f, m.width)
	md.created = created
	m.modal = &md
	m.status = ""
	m.search.Blur()
	return m, textinput.Blink
}

func (m Model) closeModal() Model {
	m.modal = nil
	m.search.Focus()
	return m
}

func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.unsubscribe()
		return m, tea.Quit
	}

	md, action, cmd := m.modal.update(msg)
	m.modal = &md

	switch action {
	case actionCancel:
		return m.closeModal(), nil
	case actionSubmit:
		m.modal.busy = true
		f, created, ctx := m.modal.form, m.modal.created, m.ctx
		return m, func() tea.Msg {
			_, err := f.Submit(ctx)
			msg := submitDoneMsg{err: err}
			// OnSuccess runs inside Submit
			select {
			case msg.note = <-created:
			default:
			}
			return msg
		}
	}
	return m, cmd
}

func (m Model) submitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	if m.modal == nil {
		return m, nil
	}
	m.modal.busy = false

	if msg.note == nil {
		var verr *form.ValidationError
		if errors.As(msg.err, &verr) {
			m.modal.showErrors(verr.Fields)
		}
		return m, nil
	}

	// The form already invalidated the list before OnSuccess.
	m = m.closeModal()
	m.status = statusStyle.Render(fmt.Sprintf("Created %q", msg.note.Title))
	return m, nil
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	list := m.snap.Result.Notes
	if m.deps.Deleter == nil || len(list) == 0 || m.cursor >= len(list) {
		return m, nil
	}
	target := list[m.cursor]
	m.status = mutedStyle.Render(fmt.Sprintf("Deleting %q...", target.Title))

	d, inv, ctx := m.deps.Deleter, m.deps.Notes, m.ctx
	return m, func() tea.Msg {
		note, err := d.Delete(ctx, target.ID)
		if err == nil {
			inv.Invalidate()
		}
		return deleteDoneMsg{note: note, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.modal != nil {
		return appStyle.Render(m.modal.view() + "\n\n" + m.help.View(m.modal.keys))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("NoteHub"))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render("ctrl+n: Create note +"))
	b.WriteString("\n\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")
	b.WriteString(m.body())

	if m.snap.Result.TotalPages > 1 {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Page ") + m.paginator.View())
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return appStyle.Render(b.String())
}

func (m Model) body() string {
	switch {
	case m.snap.Pending():
		return m.spinner.View() + " Loading notes..."
	case m.snap.Status == notes.StatusFailed:
		if notehub.IsAuthError(m.snap.Err) {
			return errorStyle.Render("NOTEHUB_TOKEN is missing or was rejected.")
		}
		return errorStyle.Render(genericError) + "\n" + mutedStyle.Render("ctrl+r to retry")
	case !m.snap.HasData:
		return ""
	case len(m.snap.Result.Notes) == 0:
		return mutedStyle.Render("No notes found.")
	}

	var b strings.Builder
	for i, n := range m.snap.Result.Notes {
		line := noteTitleStyle.Render(n.Title) + " " + tagStyle.Render(string(n.Tag))
		if n.Content != "" {
			line += "\n" + noteContentStyle.Render(oneLine(n.Content, max(m.width-12, 30)))
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(unselectedStyle.Render(line))
		}
		b.WriteString("\n")
	}
	if m.snap.Fetching() {
		b.WriteString(m.spinner.View() + mutedStyle.Render(" updating"))
	}
	return b.String()
}

func oneLine(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
