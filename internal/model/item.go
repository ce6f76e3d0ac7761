// Package model defines data structures used throughout the application.
package model

import (
	"errors"
	"time"
)

// Validation errors for ShoppingItem.
var (
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
)

// ShoppingItem is a single line on the shopping list.
type ShoppingItem struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Validate checks if the ShoppingItem has valid field values.
func (i *ShoppingItem) Validate() error {
	if i.Name == "" {
		return ErrEmptyName
	}

	if i.Quantity < 0 {
		return ErrNegativeQuantity
	}

	return nil
}

// APIResponse is a generic wrapper for API responses.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewSuccessResponse creates a successful API response.
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Success: true,
		Data:    data,
	}
}

// ErrorResponse represents an error response structure.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// WebSocketMessage represents a message sent over WebSocket connection.
// Payload carries a screen snapshot for state messages and is empty otherwise.
type WebSocketMessage struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// WebSocket message types.
const (
	WSMessageTypeState  = "state"
	WSMessageTypeIntent = "intent"
	WSMessageTypePing   = "ping"
	WSMessageTypePong   = "pong"
	WSMessageTypeError  = "error"
)

// NewStateMessage creates a WebSocket message carrying a screen snapshot.
func NewStateMessage(state any) WebSocketMessage {
	return WebSocketMessage{
		Type:      WSMessageTypeState,
		Payload:   state,
		Timestamp: time.Now().UTC(),
	}
}

// NewErrorMessage creates a WebSocket error message.
func NewErrorMessage(errMsg string) WebSocketMessage {
	return WebSocketMessage{
		Type:      WSMessageTypeError,
		Error:     errMsg,
		Timestamp: time.Now().UTC(),
	}
}
