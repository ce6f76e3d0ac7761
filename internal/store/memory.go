package store

import (
	"fmt"
	"slices"

	"github.com/vyrodovalexey/shoppinglist/internal/model"
)

// MemoryStore implements Store with an ordered in-memory slice.
// IDs come from a counter that only moves forward, so a deleted ID is never
// handed out again.
type MemoryStore struct {
	items  []model.ShoppingItem
	nextID int
}

// NewMemoryStore creates a new, empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make([]model.ShoppingItem, 0),
	}
}

// List returns a copy of all items in insertion order.
func (s *MemoryStore) List() []model.ShoppingItem {
	items := make([]model.ShoppingItem, len(s.items))
	copy(items, s.items)
	return items
}

// Get retrieves an item by its ID.
func (s *MemoryStore) Get(id int) (model.ShoppingItem, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return model.ShoppingItem{}, ErrNotFound
	}

	return s.items[idx], nil
}

// Create appends a new item and returns it with its assigned ID.
func (s *MemoryStore) Create(name string, quantity int) (model.ShoppingItem, error) {
	item := model.ShoppingItem{
		ID:       s.nextID,
		Name:     name,
		Quantity: quantity,
	}

	if err := item.Validate(); err != nil {
		return model.ShoppingItem{}, fmt.Errorf("create item: %w: %w", ErrValidation, err)
	}

	s.nextID++
	s.items = append(s.items, item)

	return item, nil
}

// Update replaces the name and quantity of an existing item, keeping its ID
// and position.
func (s *MemoryStore) Update(id int, name string, quantity int) (model.ShoppingItem, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return model.ShoppingItem{}, ErrNotFound
	}

	updated := model.ShoppingItem{
		ID:       id,
		Name:     name,
		Quantity: quantity,
	}

	if err := updated.Validate(); err != nil {
		return model.ShoppingItem{}, fmt.Errorf("update item: %w: %w", ErrValidation, err)
	}

	s.items[idx] = updated

	return updated, nil
}

// Delete removes an item by its ID. Survivors keep their relative order.
func (s *MemoryStore) Delete(id int) {
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}

	s.items = slices.Delete(s.items, idx, idx+1)
}

// Len returns the number of items in the store.
func (s *MemoryStore) Len() int {
	return len(s.items)
}

func (s *MemoryStore) indexOf(id int) int {
	return slices.IndexFunc(s.items, func(item model.ShoppingItem) bool {
		return item.ID == id
	})
}
