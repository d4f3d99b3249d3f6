// Package tui is the interactive todo list. Every change is written to the
// store as it happens, so quitting never loses work.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tododb/internal/model"
	"github.com/idilsaglam/tododb/internal/store"
	"github.com/idilsaglam/tododb/internal/ui"
)

// Store is what the list needs to persist edits.
type Store interface {
	Put(ctx context.Context, t model.Todo) error
	Update(ctx context.Context, id string, ch store.Changes) error
	Delete(ctx context.Context, id string) error
}

// listItem adapts model.Todo to bubbles/list.Item
type listItem struct {
	model.Todo
}

func (i listItem) Title() string       { return i.Text }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Text }

// savedMsg reports the outcome of a store write.
type savedMsg struct {
	action string
	err    error
}

// write is one queued store change. Writes run one at a time, in the order
// the keys were pressed.
type write struct {
	action string
	fn     func(ctx context.Context) error
}

type Model struct {
	ctx   context.Context
	store Store
	newID func() string

	list   list.Model
	width  int
	height int

	// Inline add/edit share one text input
	adding    bool
	editing   bool
	editID    string
	ti        textinput.Model
	inputErr  string
	statusMsg string
	lastErr   error

	// Undo support (single-level)
	undoItem  *model.Todo
	undoIndex int

	// pending[0] is in flight; quitting waits for the queue to drain
	pending  []write
	quitting bool
}

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	t := ui.Current()

	box := t.Muted.Render(t.BoxUnchecked)
	text := it.Text
	if it.Completed {
		box = t.Success.Render(t.BoxChecked)
		text = t.DoneText.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

var (
	addBind  = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	delBind  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	undoBind = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	doneBind = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
)

// New builds the list model over todos.
func New(ctx context.Context, st Store, todos []model.Todo) Model {
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, listItem{t})
	}

	t := ui.Current()
	l := list.New(items, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Muted
	l.Styles.PaginationStyle = t.Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")

	extra := func() []key.Binding { return []key.Binding{doneBind, addBind, editBind, delBind, undoBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{
		ctx:   ctx,
		store: st,
		newID: model.NewID,
		list:  l,
		ti:    ti,
	}
	m.refreshTitle()
	m.resize()
	return m
}

// Run shows the list until the user quits or ctx is done.
func Run(ctx context.Context, st Store, todos []model.Todo) error {
	p := tea.NewProgram(New(ctx, st, todos), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.lastErr != nil {
		return fm.lastErr
	}
	return nil
}

// Todos returns the todos as currently shown, unfiltered.
func (m Model) Todos() []model.Todo {
	out := make([]model.Todo, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if li, ok := it.(listItem); ok {
			out = append(out, li.Todo)
		}
	}
	return out
}

func (m *Model) refreshTitle() {
	t := ui.Current()
	dn, pn := model.Stats(m.Todos())
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		"Todos",
		t.SymDone, dn,
		t.SymPending, pn,
		"Total", dn+pn,
	)
}

// save queues fn behind any write still in flight. The returned command
// starts it when nothing else is running, and is nil otherwise.
func (m *Model) save(action string, fn func(ctx context.Context) error) tea.Cmd {
	m.pending = append(m.pending, write{action: action, fn: fn})
	if len(m.pending) > 1 {
		return nil
	}
	return m.nextWrite()
}

// nextWrite runs the head of the queue off the update loop.
func (m Model) nextWrite() tea.Cmd {
	w, ctx := m.pending[0], m.ctx
	return func() tea.Msg {
		return savedMsg{action: w.action, err: w.fn(ctx)}
	}
}

// selected returns the highlighted todo and its position in the unfiltered items.
func (m Model) selected() (model.Todo, int, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Todo{}, -1, false
	}
	return li.Todo, m.list.GlobalIndex(), true
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case savedMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			m.statusMsg = msg.action + " failed: " + msg.err.Error()
		} else {
			m.statusMsg = msg.action
		}
		if len(m.pending) > 0 {
			m.pending = m.pending[1:]
		}
		if len(m.pending) > 0 {
			return m, m.nextWrite()
		}
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.quitting {
		return m, nil
	}

	if m.adding || m.editing {
		return m.updateInput(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch km.String() {
		case "q", "esc":
			if m.list.FilterState() == list.FilterApplied && km.String() == "esc" {
				break
			}
			if len(m.pending) > 0 {
				m.quitting = true
				m.statusMsg = "saving..."
				return m, nil
			}
			return m, tea.Quit
		case " ":
			return m.toggle()
		case "d":
			return m.remove()
		case "u":
			return m.undo()
		case "a":
			m.adding = true
			m.inputErr = ""
			m.ti.SetValue("")
			m.ti.Placeholder = "New item text..."
			m.resize()
			cmd := m.ti.Focus()
			return m, cmd
		case "e":
			it, _, ok := m.selected()
			if !ok {
				return m, nil
			}
			m.editing = true
			m.editID = it.ID
			m.inputErr = ""
			m.ti.SetValue(it.Text)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Edit item text..."
			m.resize()
			cmd := m.ti.Focus()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			text := strings.TrimSpace(m.ti.Value())
			if text == "" {
				m.inputErr = "Text cannot be empty"
				return m, nil
			}
			var cmd tea.Cmd
			if m.adding {
				cmd = m.add(text)
			} else {
				cmd = m.edit(text)
			}
			m.closeInput()
			return m, cmd
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.adding = false
	m.editing = false
	m.editID = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m *Model) add(text string) tea.Cmd {
	t := model.Todo{ID: m.newID(), Text: text}
	// new ids sort last, which is where the store will list them
	insert := m.list.InsertItem(len(m.list.Items()), listItem{t})
	m.refreshTitle()
	st := m.store
	return tea.Batch(insert, m.save("added", func(ctx context.Context) error {
		return st.Put(ctx, t)
	}))
}

func (m *Model) edit(text string) tea.Cmd {
	id := m.editID
	for i, it := range m.list.Items() {
		li, ok := it.(listItem)
		if !ok || li.ID != id {
			continue
		}
		li.Text = text
		set := m.list.SetItem(i, li)
		st := m.store
		return tea.Batch(set, m.save("edited", func(ctx context.Context) error {
			return st.Update(ctx, id, store.Changes{Text: &text})
		}))
	}
	return nil
}

func (m Model) toggle() (tea.Model, tea.Cmd) {
	it, i, ok := m.selected()
	if !ok {
		return m, nil
	}
	it.Completed = !it.Completed
	set := m.list.SetItem(i, listItem{it})
	m.refreshTitle()
	completed, st := it.Completed, m.store
	save := m.save("toggled", func(ctx context.Context) error {
		return st.Update(ctx, it.ID, store.Changes{Completed: &completed})
	})
	return m, tea.Batch(set, save)
}

func (m Model) remove() (tea.Model, tea.Cmd) {
	it, i, ok := m.selected()
	if !ok {
		return m, nil
	}
	tmp := it
	m.undoItem = &tmp
	m.undoIndex = i
	m.list.RemoveItem(i)
	m.refreshTitle()
	st := m.store
	save := m.save("deleted", func(ctx context.Context) error {
		return st.Delete(ctx, it.ID)
	})
	return m, save
}

func (m Model) undo() (tea.Model, tea.Cmd) {
	if m.undoItem == nil {
		return m, nil
	}
	it := *m.undoItem
	idx := m.undoIndex
	if idx < 0 {
		idx = 0
	}
	if idx > len(m.list.Items()) {
		idx = len(m.list.Items())
	}
	insert := m.list.InsertItem(idx, listItem{it})
	m.undoItem = nil
	m.refreshTitle()
	st := m.store
	save := m.save("restored", func(ctx context.Context) error {
		return st.Put(ctx, it)
	})
	return m, tea.Batch(insert, save)
}

func (m *Model) resize() {
	w, h := m.width, m.height
	if w == 0 || h == 0 {
		w, h = 80, 24
	}
	listHeight := h - 5
	if m.adding || m.editing {
		listHeight -= 3
	}
	if listHeight < 1 {
		listHeight = 1
	}
	m.list.SetSize(w-4, listHeight)
}

func (m Model) View() string {
	t := ui.Current()
	content := m.list.View()
	if m.adding || m.editing {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		title := "Add new item"
		if m.editing {
			title = "Edit item"
		}
		if m.inputErr != "" {
			title += ": " + t.Error.Render(m.inputErr)
		}
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	if m.statusMsg != "" {
		style := t.Muted
		if m.lastErr != nil {
			style = t.Error
		}
		content += "\n" + style.Render(m.statusMsg)
	}
	return t.Frame.Render(content)
}
