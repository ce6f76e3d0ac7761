// Package tui renders the shopping list screen in the terminal.
//
// The Model owns a screen.Screen and is driven entirely from bubbletea's
// Update, so every intent is applied on the program's event loop.
package tui

import (
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/shoppinglist/internal/model"
	"github.com/vyrodovalexey/shoppinglist/internal/screen"
)

type field int

const (
	fieldName field = iota
	fieldQuantity
)

const noSelection = -1

// Model is the bubbletea model of the shopping list screen.
type Model struct {
	screen *screen.Screen
	logger *zap.Logger
	state  screen.State

	// selectedID follows an item by identity, so edits and deletes never
	// move the cursor onto a different item.
	selectedID int

	nameInput     textinput.Model
	quantityInput textinput.Model
	focus         field

	listKeys   listKeyMap
	dialogKeys dialogKeyMap
	help       help.Model
	width      int
}

// New creates a Model over s.
func New(s *screen.Screen, logger *zap.Logger) Model {
	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = "Enter item name"
	name.Width = inputWidth

	quantity := textinput.New()
	quantity.Prompt = ""
	quantity.Placeholder = "Enter item quantity"
	quantity.Width = inputWidth

	m := Model{
		screen:        s,
		logger:        logger,
		state:         s.State(),
		selectedID:    noSelection,
		nameInput:     name,
		quantityInput: quantity,
		listKeys:      newListKeyMap(),
		dialogKeys:    newDialogKeyMap(),
		help:          help.New(),
	}
	m.syncSelection(0)

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.state.Dialog.IsOpen() {
			return m.updateDialog(msg)
		}
		return m.updateList(msg)
	}

	if m.state.Dialog.IsOpen() {
		return m.updateFocusedInput(msg)
	}
	return m, nil
}

// State returns the state last rendered by the model.
func (m Model) State() screen.State {
	return m.state
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.listKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.listKeys.Up):
		m.moveSelection(-1)

	case key.Matches(msg, m.listKeys.Down):
		m.moveSelection(1)

	case key.Matches(msg, m.listKeys.Add):
		return m.dispatch(screen.OpenCreate())

	case key.Matches(msg, m.listKeys.Edit):
		if m.selectedID != noSelection {
			return m.dispatch(screen.OpenEdit(m.selectedID))
		}

	case key.Matches(msg, m.listKeys.Delete):
		if m.selectedID != noSelection {
			return m.dispatch(screen.DeleteItem(m.selectedID))
		}
	}

	return m, nil
}

func (m Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.dialogKeys.ForceQuit):
		return m, tea.Quit

	case key.Matches(msg, m.dialogKeys.Cancel):
		return m.dispatch(screen.Dismiss())

	case key.Matches(msg, m.dialogKeys.Confirm):
		next, cmd := m.dispatch(screen.Confirm(m.nameInput.Value(), m.quantityInput.Value()))
		if nm := next.(Model); nm.state.Dialog.IsOpen() {
			// Rejected: put the cursor back on the missing name.
			return nm.focusField(fieldName)
		}
		return next, cmd

	case key.Matches(msg, m.dialogKeys.NextField), key.Matches(msg, m.dialogKeys.PrevField):
		if m.focus == fieldName {
			return m.focusField(fieldQuantity)
		}
		return m.focusField(fieldName)
	}

	return m.updateFocusedInput(msg)
}

func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == fieldName {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.quantityInput, cmd = m.quantityInput.Update(msg)
	}

	name, quantity := m.nameInput.Value(), m.quantityInput.Value()
	if name == m.state.Dialog.DraftName && quantity == m.state.Dialog.DraftQuantity {
		return m, cmd
	}

	next, draftCmd := m.dispatch(screen.EditDraft(name, quantity))
	return next, tea.Batch(cmd, draftCmd)
}

// dispatch applies in to the screen and reconciles the inputs and selection
// with the resulting state.
func (m Model) dispatch(in screen.Intent) (tea.Model, tea.Cmd) {
	wasOpen := m.state.Dialog.IsOpen()
	prevIndex := m.selectedIndex()

	state, err := m.screen.Apply(in)
	if err != nil {
		m.logger.Warn("intent rejected", zap.String("intent", string(in.Type)), zap.Error(err))
	}
	m.state = state
	m.syncSelection(prevIndex)

	isOpen := state.Dialog.IsOpen()
	switch {
	case !wasOpen && isOpen:
		m.nameInput.SetValue(state.Dialog.DraftName)
		m.quantityInput.SetValue(state.Dialog.DraftQuantity)
		m.nameInput.CursorEnd()
		m.quantityInput.CursorEnd()
		return m.focusField(fieldName)

	case wasOpen && !isOpen:
		m.nameInput.Blur()
		m.quantityInput.Blur()
		m.nameInput.Reset()
		m.quantityInput.Reset()
	}

	return m, nil
}

func (m Model) focusField(f field) (Model, tea.Cmd) {
	m.focus = f
	if f == fieldName {
		m.quantityInput.Blur()
		return m, m.nameInput.Focus()
	}
	m.nameInput.Blur()
	return m, m.quantityInput.Focus()
}

func (m *Model) moveSelection(delta int) {
	if len(m.state.Items) == 0 {
		return
	}

	idx := m.selectedIndex() + delta
	idx = max(0, min(idx, len(m.state.Items)-1))
	m.selectedID = m.state.Items[idx].ID
}

func (m Model) selectedIndex() int {
	return slices.IndexFunc(m.state.Items, func(item model.ShoppingItem) bool {
		return item.ID == m.selectedID
	})
}

// syncSelection keeps the selected ID when the item still exists. Otherwise
// it selects whatever now sits at prevIndex, clamped to the list.
func (m *Model) syncSelection(prevIndex int) {
	if m.selectedIndex() >= 0 {
		return
	}

	if len(m.state.Items) == 0 {
		m.selectedID = noSelection
		return
	}

	idx := max(0, min(prevIndex, len(m.state.Items)-1))
	m.selectedID = m.state.Items[idx].ID
}
