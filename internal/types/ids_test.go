package types

import (
	"encoding/json"
	"testing"
)

func TestNewID_Unique(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if err := id.Validate(); err != nil {
			t.Fatalf("NewID produced invalid ID: %v", err)
		}
		if seen[id] {
			t.Fatalf("NewID produced duplicate: %s", id)
		}
		seen[id] = true
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid UUID", "550e8400-e29b-41d4-a716-446655440000", false},
		{"empty string", "", true},
		{"not a UUID", "sprint-123", true},
		{"truncated UUID", "550e8400-e29b-41d4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseID(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseID(%q) expected error, got %s", tt.input, id)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseID(%q) unexpected error: %v", tt.input, err)
			}
			if id.String() != tt.input {
				t.Errorf("ParseID(%q) = %s", tt.input, id)
			}
		})
	}
}

func TestID_JSONRoundTrip(t *testing.T) {
	id := NewID()

	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded ID
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded != id {
		t.Errorf("round trip mismatch: got %s, want %s", decoded, id)
	}
}

func TestID_MarshalZero(t *testing.T) {
	var id ID
	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("zero ID should marshal to null, got %s", data)
	}
}

func TestID_UnmarshalInvalid(t *testing.T) {
	var id ID
	if err := json.Unmarshal([]byte(`"not-a-uuid"`), &id); err == nil {
		t.Errorf("expected error unmarshaling invalid UUID")
	}
}
