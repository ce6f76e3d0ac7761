package dialog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/shoppinglist/internal/model"
)

func TestOpenCreate(t *testing.T) {
	s, err := OpenCreate(Session{})
	require.NoError(t, err)

	assert.Equal(t, OpenForCreate, s.State)
	assert.True(t, s.IsOpen())
	assert.Empty(t, s.DraftName)
	assert.Empty(t, s.DraftQuantity)

	_, ok := s.Target()
	assert.False(t, ok)
}

func TestOpenCreate_AlreadyOpen(t *testing.T) {
	open := Session{State: OpenForEdit, TargetID: 3, DraftName: "Milk", DraftQuantity: "2"}

	s, err := OpenCreate(open)

	require.ErrorIs(t, err, ErrSessionOpen)
	assert.Equal(t, open, s)
}

func TestOpenEdit(t *testing.T) {
	item := model.ShoppingItem{ID: 0, Name: "Milk", Quantity: 2}

	s, err := OpenEdit(Session{}, item)
	require.NoError(t, err)

	assert.Equal(t, OpenForEdit, s.State)
	assert.Equal(t, "Milk", s.DraftName)
	assert.Equal(t, "2", s.DraftQuantity)

	id, ok := s.Target()
	assert.True(t, ok)
	assert.Equal(t, 0, id)
}

func TestOpenEdit_AlreadyOpen(t *testing.T) {
	open := Session{State: OpenForCreate, DraftName: "Br"}

	s, err := OpenEdit(open, model.ShoppingItem{ID: 1, Name: "Milk"})

	require.ErrorIs(t, err, ErrSessionOpen)
	assert.Equal(t, open, s)
}

func TestEditDraft(t *testing.T) {
	t.Run("open session takes the text", func(t *testing.T) {
		s, err := EditDraft(Session{State: OpenForCreate}, "Bre", "1")
		require.NoError(t, err)
		assert.Equal(t, "Bre", s.DraftName)
		assert.Equal(t, "1", s.DraftQuantity)
		assert.Equal(t, OpenForCreate, s.State)
	})

	t.Run("closed session is left alone", func(t *testing.T) {
		s, err := EditDraft(Session{}, "Bre", "1")
		require.ErrorIs(t, err, ErrSessionClosed)
		assert.Equal(t, Session{}, s)
	})
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name         string
		session      Session
		draftName    string
		quantityText string
		wantSession  Session
		wantCommit   *Commit
	}{
		{
			name:         "create",
			session:      Session{State: OpenForCreate},
			draftName:    "Milk",
			quantityText: "2",
			wantSession:  Session{},
			wantCommit:   &Commit{Kind: CommitCreate, Name: "Milk", Quantity: 2},
		},
		{
			name:         "update",
			session:      Session{State: OpenForEdit, TargetID: 0, DraftName: "Milk", DraftQuantity: "2"},
			draftName:    "Milk",
			quantityText: "5",
			wantSession:  Session{},
			wantCommit:   &Commit{Kind: CommitUpdate, ID: 0, Name: "Milk", Quantity: 5},
		},
		{
			name:         "non-numeric quantity becomes zero",
			session:      Session{State: OpenForCreate},
			draftName:    "Eggs",
			quantityText: "abc",
			wantSession:  Session{},
			wantCommit:   &Commit{Kind: CommitCreate, Name: "Eggs", Quantity: 0},
		},
		{
			name:         "empty quantity becomes zero",
			session:      Session{State: OpenForEdit, TargetID: 7},
			draftName:    "Eggs",
			quantityText: "",
			wantSession:  Session{},
			wantCommit:   &Commit{Kind: CommitUpdate, ID: 7, Name: "Eggs", Quantity: 0},
		},
		{
			name:         "empty name keeps dialog open",
			session:      Session{State: OpenForCreate},
			draftName:    "",
			quantityText: "3",
			wantSession:  Session{State: OpenForCreate, DraftName: "", DraftQuantity: "3"},
			wantCommit:   nil,
		},
		{
			name:         "empty name while editing keeps target",
			session:      Session{State: OpenForEdit, TargetID: 4, DraftName: "Milk", DraftQuantity: "2"},
			draftName:    "",
			quantityText: "2",
			wantSession:  Session{State: OpenForEdit, TargetID: 4, DraftName: "", DraftQuantity: "2"},
			wantCommit:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, commit, err := Confirm(tt.session, tt.draftName, tt.quantityText)

			require.NoError(t, err)
			assert.Equal(t, tt.wantSession, s)
			assert.Equal(t, tt.wantCommit, commit)
		})
	}
}

func TestConfirm_Closed(t *testing.T) {
	s, commit, err := Confirm(Session{}, "Milk", "1")

	require.ErrorIs(t, err, ErrSessionClosed)
	assert.Nil(t, commit)
	assert.False(t, s.IsOpen())
}

func TestDismiss(t *testing.T) {
	for _, s := range []Session{
		{},
		{State: OpenForCreate, DraftName: "Mi"},
		{State: OpenForEdit, TargetID: 2, DraftName: "Milk", DraftQuantity: "9"},
	} {
		assert.Equal(t, Session{}, Dismiss(s))
	}
}

func TestParseQuantity(t *testing.T) {
	tests := map[string]int{
		"0":                    0,
		"5":                    5,
		"+5":                   5,
		"42":                   42,
		"":                     0,
		"abc":                  0,
		"3.5":                  0,
		" 5":                   0,
		"-3":                   0,
		"99999999999999999999": 0,
	}

	for text, want := range tests {
		assert.Equal(t, want, ParseQuantity(text), "ParseQuantity(%q)", text)
	}
}

func TestSession_JSON(t *testing.T) {
	s := Session{State: OpenForEdit, TargetID: 0, DraftName: "Milk", DraftQuantity: "2"}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"edit","target_id":0,"draft_name":"Milk","draft_quantity":"2"}`, string(data))

	var decoded Session
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s, decoded)
}

func TestState_UnmarshalUnknown(t *testing.T) {
	var s State
	require.Error(t, s.UnmarshalText([]byte("open")))
	assert.Equal(t, "State(9)", State(9).String())
}

func TestScenario_CreateThenEdit(t *testing.T) {
	item := model.ShoppingItem{ID: 0, Name: "Milk", Quantity: 2}

	s, err := OpenEdit(Session{}, item)
	require.NoError(t, err)
	assert.Equal(t, "Milk", s.DraftName)
	assert.Equal(t, "2", s.DraftQuantity)

	s, commit, err := Confirm(s, "Milk", "5")
	require.NoError(t, err)
	assert.False(t, s.IsOpen())
	assert.Equal(t, &Commit{Kind: CommitUpdate, ID: 0, Name: "Milk", Quantity: 5}, commit)
}
