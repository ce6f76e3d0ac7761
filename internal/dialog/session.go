// Package dialog implements the add/edit item dialog as a small state machine.
//
// A Session is a plain value. Every transition takes the current Session and
// returns the next one, so the dialog can be driven and tested without a UI.
// Transitions never touch the item store: a successful Confirm returns a
// Commit describing the mutation and the caller applies it.
package dialog

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/vyrodovalexey/shoppinglist/internal/model"
)

// Transition errors. Both describe a gesture that cannot happen on a
// well-behaved screen; callers treat them as no-ops.
var (
	ErrSessionOpen   = errors.New("dialog is already open")
	ErrSessionClosed = errors.New("dialog is not open")
)

// State is the dialog's lifecycle state.
type State int

// Dialog states.
const (
	Closed State = iota
	OpenForCreate
	OpenForEdit
)

var stateNames = map[State]string{
	Closed:        "closed",
	OpenForCreate: "create",
	OpenForEdit:   "edit",
}

// String returns the wire name of the state.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	name, ok := stateNames[s]
	if !ok {
		return nil, fmt.Errorf("marshal dialog state: unknown state %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unmarshal dialog state: unknown state %q", text)
}

// Session is the transient edit-session state of the dialog.
// TargetID is only meaningful in OpenForEdit.
type Session struct {
	State         State  `json:"state"`
	TargetID      int    `json:"target_id"`
	DraftName     string `json:"draft_name"`
	DraftQuantity string `json:"draft_quantity"`
}

// IsOpen reports whether the dialog is showing.
func (s Session) IsOpen() bool {
	return s.State != Closed
}

// Target returns the ID of the item being edited. ok is false when the
// session is creating a new item or is closed.
func (s Session) Target() (id int, ok bool) {
	if s.State != OpenForEdit {
		return 0, false
	}
	return s.TargetID, true
}

// CommitKind names the store mutation produced by a confirmed session.
type CommitKind string

// Commit kinds.
const (
	CommitCreate CommitKind = "create"
	CommitUpdate CommitKind = "update"
)

// Commit is the store mutation a confirmed session asks for.
// ID is only set for CommitUpdate.
type Commit struct {
	Kind     CommitKind
	ID       int
	Name     string
	Quantity int
}

// OpenCreate opens an empty dialog for a new item.
func OpenCreate(s Session) (Session, error) {
	if s.IsOpen() {
		return s, ErrSessionOpen
	}
	return Session{State: OpenForCreate}, nil
}

// OpenEdit opens the dialog pre-populated from item.
func OpenEdit(s Session, item model.ShoppingItem) (Session, error) {
	if s.IsOpen() {
		return s, ErrSessionOpen
	}
	return Session{
		State:         OpenForEdit,
		TargetID:      item.ID,
		DraftName:     item.Name,
		DraftQuantity: strconv.Itoa(item.Quantity),
	}, nil
}

// EditDraft replaces the working text of an open dialog.
func EditDraft(s Session, name, quantityText string) (Session, error) {
	if !s.IsOpen() {
		return s, ErrSessionClosed
	}
	s.DraftName = name
	s.DraftQuantity = quantityText
	return s, nil
}

// Confirm submits the dialog. An empty name is ignored: the dialog stays
// open holding the submitted text and no Commit is returned. Otherwise the
// session closes and the returned Commit carries the parsed quantity.
func Confirm(s Session, name, quantityText string) (Session, *Commit, error) {
	if !s.IsOpen() {
		return s, nil, ErrSessionClosed
	}

	if name == "" {
		s.DraftName = name
		s.DraftQuantity = quantityText
		return s, nil, nil
	}

	commit := &Commit{
		Kind:     CommitCreate,
		Name:     name,
		Quantity: ParseQuantity(quantityText),
	}
	if id, ok := s.Target(); ok {
		commit.Kind = CommitUpdate
		commit.ID = id
	}

	return Session{}, commit, nil
}

// Dismiss closes the dialog and discards the draft.
func Dismiss(Session) Session {
	return Session{}
}

// ParseQuantity reads a quantity field leniently. Anything that is not a
// non-negative base-10 integer, including empty text and surrounding
// whitespace, yields 0.
func ParseQuantity(text string) int {
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
