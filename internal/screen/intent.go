// Package screen applies user intents to the shopping list and its dialog.
package screen

import (
	"github.com/vyrodovalexey/shoppinglist/internal/dialog"
	"github.com/vyrodovalexey/shoppinglist/internal/model"
)

// IntentType names a user gesture.
type IntentType string

// Intent types.
const (
	IntentOpenCreate IntentType = "open_create"
	IntentOpenEdit   IntentType = "open_edit"
	IntentEditDraft  IntentType = "edit_draft"
	IntentConfirm    IntentType = "confirm"
	IntentDeleteItem IntentType = "delete_item"
	IntentDismiss    IntentType = "dismiss"
)

// Intent is a user gesture raised by a view. ID is used by open_edit and
// delete_item; Name and Quantity by edit_draft and confirm.
type Intent struct {
	Type     IntentType `json:"type"`
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Quantity string     `json:"quantity"`
}

// OpenCreate returns an open_create intent.
func OpenCreate() Intent {
	return Intent{Type: IntentOpenCreate}
}

// OpenEdit returns an open_edit intent for the item with id.
func OpenEdit(id int) Intent {
	return Intent{Type: IntentOpenEdit, ID: id}
}

// EditDraft returns an edit_draft intent carrying the current field text.
func EditDraft(name, quantity string) Intent {
	return Intent{Type: IntentEditDraft, Name: name, Quantity: quantity}
}

// Confirm returns a confirm intent carrying the submitted field text.
func Confirm(name, quantity string) Intent {
	return Intent{Type: IntentConfirm, Name: name, Quantity: quantity}
}

// DeleteItem returns a delete_item intent for the item with id.
func DeleteItem(id int) Intent {
	return Intent{Type: IntentDeleteItem, ID: id}
}

// Dismiss returns a dismiss intent.
func Dismiss() Intent {
	return Intent{Type: IntentDismiss}
}

// State is everything a view needs to render the screen.
type State struct {
	Items   []model.ShoppingItem `json:"items"`
	Dialog  dialog.Session       `json:"dialog"`
	Version uint64               `json:"version"`
}
