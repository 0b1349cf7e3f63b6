package utils

import (
	"context"       // Context for store operations
	"encoding/json" // JSON encoding/decoding
	"fmt"           // Error wrapping

	"expense_tracker/internal/store" // Key-value store adapter
)

// GetRecord retrieves a value from the store and unmarshals it into dest
func GetRecord(ctx context.Context, s store.Store, key string, dest any) (bool, error) {
	val, ok, err := s.Get(ctx, key) // Get value from the store
	if err != nil {
		return false, err // Store error
	}
	if !ok {
		return false, nil // Key does not exist
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err) // Corrupt record
	}
	return true, nil
}

// EncodeRecord marshals value into its stored textual form
func EncodeRecord(value any) (string, error) {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return "", err // Return error if marshaling fails
	}
	return string(b), nil
}

// SetRecord marshals value and writes it under key
func SetRecord(ctx context.Context, s store.Store, key string, value any) error {
	encoded, err := EncodeRecord(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return s.Set(ctx, key, encoded) // Write value to the store
}

// DeleteRecord deletes a key from the store
func DeleteRecord(ctx context.Context, s store.Store, key string) error {
	return s.Remove(ctx, key) // Delete key from the store
}

// DecodeRecord unmarshals a stored textual value into dest
func DecodeRecord(raw string, dest any) error {
	return json.Unmarshal([]byte(raw), dest) // Unmarshal JSON into dest
}
