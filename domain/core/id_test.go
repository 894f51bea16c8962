package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 1000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

// TestNewRunID tests that run IDs carry a fresh ID
func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == "" || a == b {
		t.Errorf("NewRunID() gave %q and %q", a, b)
	}
	if a.String() != string(a) {
		t.Errorf("RunID.String() = %q, want %q", a.String(), string(a))
	}
}

// TestErrorClassification tests the sentinel helpers
func TestErrorClassification(t *testing.T) {
	if !IsNotFoundError(NewFieldNotFoundError("PDM01HI")) {
		t.Error("Expected field-not-found to be a not-found error")
	}
	if !IsValidationError(NewSubChannelError(65, 64)) {
		t.Error("Expected sub-channel error to be a validation error")
	}
	if IsValidationError(ErrNoData) {
		t.Error("No-data must not be classified as a validation error")
	}
	if !IsNoDataError(ErrNoData) {
		t.Error("Expected ErrNoData to be detected")
	}
	if !IsValidationError(NewValidationError("maxevt", "must be >= 0")) {
		t.Error("Expected bad input to be a validation error")
	}
	if !IsFormatError(NewMalformedError("TIME_S", "time field must be scalar")) {
		t.Error("Expected malformed table to be a format error")
	}
	if IsValidationError(NewMalformedError("TIME_S", "short")) {
		t.Error("Malformed table must not be classified as a validation error")
	}
}
