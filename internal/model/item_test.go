// Package model defines data structures used throughout the application.
package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestShoppingItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    ShoppingItem
		wantErr error
	}{
		{
			name:    "valid item",
			item:    ShoppingItem{ID: 0, Name: "Milk", Quantity: 2},
			wantErr: nil,
		},
		{
			name:    "valid item - zero quantity",
			item:    ShoppingItem{ID: 1, Name: "Bread", Quantity: 0},
			wantErr: nil,
		},
		{
			name:    "valid item - whitespace name",
			item:    ShoppingItem{ID: 2, Name: " ", Quantity: 1},
			wantErr: nil,
		},
		{
			name:    "invalid - empty name",
			item:    ShoppingItem{ID: 3, Name: "", Quantity: 1},
			wantErr: ErrEmptyName,
		},
		{
			name:    "invalid - negative quantity",
			item:    ShoppingItem{ID: 4, Name: "Eggs", Quantity: -1},
			wantErr: ErrNegativeQuantity,
		},
		{
			name:    "invalid - empty name wins over negative quantity",
			item:    ShoppingItem{ID: 5, Name: "", Quantity: -1},
			wantErr: ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			err := tt.item.Validate()

			// Assert
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else if err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestShoppingItem_JSONMarshal(t *testing.T) {
	// Arrange
	item := ShoppingItem{ID: 0, Name: "Milk", Quantity: 2}

	// Act
	data, err := json.Marshal(item)

	// Assert
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error: %v", err)
	}

	want := `{"id":0,"name":"Milk","quantity":2}`
	if string(data) != want {
		t.Errorf("json.Marshal() = %s, want %s", data, want)
	}
}

func TestAPIResponse_Success(t *testing.T) {
	// Arrange
	items := []ShoppingItem{{ID: 0, Name: "Milk", Quantity: 2}}

	// Act
	resp := NewSuccessResponse(items)

	// Assert
	if !resp.Success {
		t.Error("Success should be true")
	}
	if len(resp.Data) != 1 {
		t.Errorf("Data length = %d, want 1", len(resp.Data))
	}
	if resp.Error != "" {
		t.Errorf("Error = %s, want empty", resp.Error)
	}
}

func TestErrorResponse_JSONOmitEmpty(t *testing.T) {
	// Arrange
	resp := ErrorResponse{Code: 400, Message: "invalid request body"}

	// Act
	data, err := json.Marshal(resp)

	// Assert
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error: %v", err)
	}
	if strings.Contains(string(data), "details") {
		t.Errorf("details should be omitted when empty, got %s", data)
	}
}

func TestNewStateMessage(t *testing.T) {
	// Arrange
	before := time.Now().UTC()
	payload := map[string]int{"version": 3}

	// Act
	msg := NewStateMessage(payload)

	// Assert
	if msg.Type != WSMessageTypeState {
		t.Errorf("Type = %s, want %s", msg.Type, WSMessageTypeState)
	}
	if msg.Payload == nil {
		t.Error("Payload should be set")
	}
	if msg.Timestamp.Before(before) {
		t.Errorf("Timestamp = %v, should not be before %v", msg.Timestamp, before)
	}
}

func TestNewErrorMessage(t *testing.T) {
	// Act
	msg := NewErrorMessage("unknown intent")

	// Assert
	if msg.Type != WSMessageTypeError {
		t.Errorf("Type = %s, want %s", msg.Type, WSMessageTypeError)
	}
	if msg.Error != "unknown intent" {
		t.Errorf("Error = %s, want %s", msg.Error, "unknown intent")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error: %v", err)
	}
	if strings.Contains(string(data), "payload") {
		t.Errorf("payload should be omitted for error messages, got %s", data)
	}
}
