package ui

import "github.com/charmbracelet/bubbles/key"

type listKeyMap struct {
	up     key.Binding
	down   key.Binding
	next   key.Binding
	prev   key.Binding
	create key.Binding
	delete key.Binding
	retry  key.Binding
	search key.Binding
	quit   key.Binding
}

func newListKeyMap() listKeyMap {
	return listKeyMap{
		up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		next:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next page")),
		prev:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "prev page")),
		create: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "create note +")),
		delete: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		retry:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "retry")),
		search: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search now")),
		quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.create, k.delete, k.next, k.prev, k.quit}
}

func (k listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.up, k.down, k.next, k.prev, k.search}, {k.create, k.delete, k.retry, k.quit}}
}

type formKeyMap struct {
	next    key.Binding
	prev    key.Binding
	cycle   key.Binding
	submit  key.Binding
	cancel  key.Binding
	confirm key.Binding
}

func newFormKeyMap() formKeyMap {
	return formKeyMap{
		next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		cycle:   key.NewBinding(key.WithKeys("left", "right", " "), key.WithHelp("←/→", "change tag")),
		submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "create note")),
		cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		confirm: key.NewBinding(key.WithKeys("enter")),
	}
}

func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.cycle, k.submit, k.cancel}
}

func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
