package screen

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/shoppinglist/internal/dialog"
	"github.com/vyrodovalexey/shoppinglist/internal/model"
	"github.com/vyrodovalexey/shoppinglist/internal/store"
)

// ErrUnknownIntent is returned by Apply for an intent type it does not handle.
var ErrUnknownIntent = errors.New("unknown intent")

// Screen holds the item store and the dialog session of one shopping list
// screen and applies intents to them.
//
// A Screen is not safe for concurrent use. Use Loop when intents arrive from
// more than one goroutine.
type Screen struct {
	store   store.Store
	session dialog.Session
	version uint64
	logger  *zap.Logger
}

// New creates a Screen over itemStore with a closed dialog.
func New(itemStore store.Store, logger *zap.Logger) *Screen {
	return &Screen{
		store:  itemStore,
		logger: logger,
	}
}

// State returns a snapshot of the screen.
func (s *Screen) State() State {
	return State{
		Items:   s.store.List(),
		Dialog:  s.session,
		Version: s.version,
	}
}

// Apply applies in and returns the resulting state.
//
// Gestures that cannot take effect (a confirm with an empty name, an edit or
// delete of a missing item, a dismiss with no dialog) leave the state as it
// is and are only logged. The sole error is ErrUnknownIntent.
func (s *Screen) Apply(in Intent) (State, error) {
	changed, err := s.apply(in)
	if errors.Is(err, ErrUnknownIntent) {
		recordIntent("unknown", false, s.store.Len())
		return s.State(), fmt.Errorf("apply %q: %w", in.Type, err)
	}

	if err != nil {
		s.logger.Debug("intent ignored",
			zap.String("intent", string(in.Type)),
			zap.Int("id", in.ID),
			zap.Error(err),
		)
	}

	if changed {
		s.version++
	}
	recordIntent(in.Type, err == nil, s.store.Len())

	return s.State(), nil
}

// apply reports whether the store or session changed. A non-nil error means
// the intent was ignored, although a rejected confirm may still have updated
// the draft text.
func (s *Screen) apply(in Intent) (bool, error) {
	switch in.Type {
	case IntentOpenCreate:
		return s.setSession(dialog.OpenCreate(s.session))

	case IntentOpenEdit:
		item, err := s.store.Get(in.ID)
		if err != nil {
			return false, fmt.Errorf("open edit %d: %w", in.ID, err)
		}
		return s.setSession(dialog.OpenEdit(s.session, item))

	case IntentEditDraft:
		return s.setSession(dialog.EditDraft(s.session, in.Name, in.Quantity))

	case IntentConfirm:
		return s.confirm(in.Name, in.Quantity)

	case IntentDeleteItem:
		if _, err := s.store.Get(in.ID); err != nil {
			return false, fmt.Errorf("delete %d: %w", in.ID, err)
		}
		s.store.Delete(in.ID)
		return true, nil

	case IntentDismiss:
		if !s.session.IsOpen() {
			return false, dialog.ErrSessionClosed
		}
		s.session = dialog.Dismiss(s.session)
		return true, nil

	default:
		return false, ErrUnknownIntent
	}
}

func (s *Screen) setSession(next dialog.Session, err error) (bool, error) {
	if err != nil {
		return false, err
	}

	changed := next != s.session
	s.session = next
	return changed, nil
}

func (s *Screen) confirm(name, quantity string) (bool, error) {
	next, commit, err := dialog.Confirm(s.session, name, quantity)
	if err != nil {
		return false, err
	}

	if commit == nil {
		changed := next != s.session
		s.session = next
		return changed, fmt.Errorf("confirm: %w", model.ErrEmptyName)
	}

	switch commit.Kind {
	case dialog.CommitCreate:
		if _, err := s.store.Create(commit.Name, commit.Quantity); err != nil {
			return false, fmt.Errorf("confirm create: %w", err)
		}

	case dialog.CommitUpdate:
		if _, err := s.store.Update(commit.ID, commit.Name, commit.Quantity); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return false, fmt.Errorf("confirm update %d: %w", commit.ID, err)
			}
			// The target was deleted while the dialog was open. Close the
			// dialog; there is nothing left to edit.
			s.session = next
			return true, fmt.Errorf("confirm update %d: %w", commit.ID, err)
		}
	}

	s.session = next
	return true, nil
}
