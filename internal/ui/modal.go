package ui

import (
	"fmt"
	"strings"

	"notehub/internal/clients/notehub"
	"notehub/internal/services/form"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type focus int

const (
	focusTitle focus = iota
	focusContent
	focusTag
	focusCancel
	focusSubmit
	focusCount
)

// modalAction is what a key press in the modal asks the model to do
type modalAction int

const (
	actionNone modalAction = iota
	actionCancel
	actionSubmit
)

// modal renders a form.Form. All values and rules live in the form; the
// widgets only mirror them.
type modal struct {
	form    *form.Form
	keys    formKeyMap
	title   textinput.Model
	content textarea.Model
	focus   focus
	errs    map[string]string
	// busy is set from the submit key press until the result arrives.
	busy bool
	// created receives the note from the form's OnSuccess.
	created <-chan *notehub.Note
}

func newModal(f *form.Form, width int) modal {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 80
	ti.Width = max(width-10, 20)

	ta := textarea.New()
	ta.Placeholder = "Content"
	ta.CharLimit = 600
	ta.ShowLineNumbers = false
	ta.SetWidth(max(width-10, 20))
	ta.SetHeight(5)

	values := f.Values()
	ti.SetValue(values.Title)
	ta.SetValue(values.Content)

	m := modal{
		form:    f,
		keys:    newFormKeyMap(),
		title:   ti,
		content: ta,
		errs:    map[string]string{},
	}
	m.setFocus(focusTitle)
	return m
}

func (m *modal) setFocus(f focus) {
	m.focus = f
	m.title.Blur()
	m.content.Blur()
	switch f {
	case focusTitle:
		m.title.Focus()
	case focusContent:
		m.content.Focus()
	}
}

func (m *modal) setField(name, value string) {
	msg, err := m.form.SetField(name, value)
	if err != nil {
		return
	}
	if msg == "" {
		delete(m.errs, name)
	} else {
		m.errs[name] = msg
	}
}

// update handles one message while the modal is open.
func (m modal) update(msg tea.Msg) (modal, modalAction, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.forward(msg)
	}

	// Nothing is editable while the note is being created.
	if m.submitting() {
		return m, actionNone, nil
	}

	switch {
	case key.Matches(km, m.keys.cancel):
		return m, actionCancel, nil
	case key.Matches(km, m.keys.submit):
		return m, actionSubmit, nil
	case key.Matches(km, m.keys.next):
		m.setFocus((m.focus + 1) % focusCount)
		return m, actionNone, nil
	case key.Matches(km, m.keys.prev):
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, actionNone, nil
	}

	switch m.focus {
	case focusTag:
		if key.Matches(km, m.keys.cycle) {
			m.setField(form.FieldTag, string(m.form.Values().Tag.Next()))
		}
		return m, actionNone, nil
	case focusCancel:
		if key.Matches(km, m.keys.confirm) {
			return m, actionCancel, nil
		}
		return m, actionNone, nil
	case focusSubmit:
		if key.Matches(km, m.keys.confirm) {
			return m, actionSubmit, nil
		}
		return m, actionNone, nil
	}
	return m.forward(msg)
}

func (m modal) forward(msg tea.Msg) (modal, modalAction, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		before := m.title.Value()
		m.title, cmd = m.title.Update(msg)
		if v := m.title.Value(); v != before {
			m.setField(form.FieldTitle, v)
		}
	case focusContent:
		before := m.content.Value()
		m.content, cmd = m.content.Update(msg)
		if v := m.content.Value(); v != before {
			m.setField(form.FieldContent, v)
		}
	}
	return m, actionNone, cmd
}

func (m modal) submitting() bool {
	return m.busy || m.form.Submitting()
}

// showErrors replaces the field messages, used after a rejected submit.
func (m *modal) showErrors(fields map[string]string) {
	m.errs = map[string]string{}
	for k, v := range fields {
		m.errs[k] = v
	}
}

func (m modal) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New note"))
	b.WriteString("\n\n")

	b.WriteString(m.label("Title", focusTitle) + "\n")
	b.WriteString(m.title.View() + "\n")
	b.WriteString(m.fieldError(form.FieldTitle))

	b.WriteString(m.label("Content", focusContent) + "\n")
	b.WriteString(m.content.View() + "\n")
	b.WriteString(m.fieldError(form.FieldContent))

	b.WriteString(m.label("Tag", focusTag) + "\n")
	b.WriteString(m.tags() + "\n")
	b.WriteString(m.fieldError(form.FieldTag))
	b.WriteString("\n")

	b.WriteString(m.buttons())

	if err := m.form.LastError(); err != nil {
		b.WriteString("\n" + errorStyle.Render(submitErrorText(err)))
	}
	return modalStyle.Render(b.String())
}

func (m modal) label(text string, f focus) string {
	if m.focus == f {
		return focusedLabelStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (m modal) fieldError(field string) string {
	if msg := m.errs[field]; msg != "" {
		return errorStyle.Render(msg) + "\n"
	}
	return ""
}

func (m modal) tags() string {
	current := m.form.Values().Tag
	parts := make([]string, 0, len(notehub.Tags))
	for _, t := range notehub.Tags {
		if t == current {
			parts = append(parts, tagStyle.Render(string(t)))
		} else {
			parts = append(parts, mutedStyle.Render(string(t)))
		}
	}
	return strings.Join(parts, " ")
}

func (m modal) buttons() string {
	cancel := buttonStyle.Render("Cancel")
	if m.focus == focusCancel {
		cancel = activeButtonStyle.Render("Cancel")
	}

	var submit string
	switch {
	case m.submitting():
		submit = disabledStyle.Render("Creating...")
	case m.focus == focusSubmit:
		submit = activeButtonStyle.Render("Create note")
	default:
		submit = buttonStyle.Render("Create note")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cancel, " ", submit)
}

func submitErrorText(err error) string {
	if notehub.IsAuthError(err) {
		return "Could not create the note: check NOTEHUB_TOKEN."
	}
	return fmt.Sprintf("Could not create the note, please try again. (%s)", shortErr(err))
}

func shortErr(err error) string {
	s := err.Error()
	if len(s) > 80 {
		return s[:77] + "..."
	}
	return s
}
