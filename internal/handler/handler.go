// Package handler serves the shopping list screen over REST and WebSocket.
//
// Handlers never touch the store or dialog directly. Every request becomes
// an intent sent to the screen loop, and every response is the snapshot the
// loop returns.
package handler

import (
	"context"
	"errors"

	"github.com/vyrodovalexey/shoppinglist/internal/screen"
)

// Version is the application version reported by /health.
const Version = "1.0.0"

// Dispatcher applies intents to the screen. *screen.Loop implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, in screen.Intent) (screen.State, error)
	Snapshot(ctx context.Context) (screen.State, error)
}

// Broadcaster is a Dispatcher that also publishes state changes.
type Broadcaster interface {
	Dispatcher
	Subscribe() (<-chan screen.State, func())
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// errMissingItemID rejects open_edit and delete_item intents without an id.
var errMissingItemID = errors.New("intent requires an item id")

// intentRequest is an intent as it arrives on the wire. ID is a pointer so
// that a missing id is not mistaken for item 0.
type intentRequest struct {
	Type     screen.IntentType `json:"type"`
	ID       *int              `json:"id"`
	Name     string            `json:"name"`
	Quantity string            `json:"quantity"`
}

func (r intentRequest) intent() (screen.Intent, error) {
	in := screen.Intent{Type: r.Type, Name: r.Name, Quantity: r.Quantity}

	switch r.Type {
	case screen.IntentOpenEdit, screen.IntentDeleteItem:
		if r.ID == nil {
			return screen.Intent{}, errMissingItemID
		}
		in.ID = *r.ID
	}

	return in, nil
}
