// Package store provides the shopping list item store.
package store

import (
	"errors"

	"github.com/vyrodovalexey/shoppinglist/internal/model"
)

// Store errors.
var (
	ErrNotFound   = errors.New("item not found")
	ErrValidation = errors.New("invalid item")
)

// Store defines the interface for shopping item storage operations.
//
// Implementations are owned by a single goroutine and are not required to be
// safe for concurrent use.
type Store interface {
	// List returns a snapshot of all items in insertion order.
	List() []model.ShoppingItem
	// Get retrieves an item by its ID.
	Get(id int) (model.ShoppingItem, error)
	// Create appends a new item and returns it with its assigned ID.
	Create(name string, quantity int) (model.ShoppingItem, error)
	// Update replaces the name and quantity of an existing item in place.
	Update(id int, name string, quantity int) (model.ShoppingItem, error)
	// Delete removes an item by its ID. Deleting a missing item is not an error.
	Delete(id int)
	// Len returns the number of items.
	Len() int
}
