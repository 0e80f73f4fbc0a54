package crypto

import (
	"strings"
	"testing"
)

func TestNewRecordID(t *testing.T) {
	id, err := NewRecordID()
	if err != nil {
		t.Fatalf("NewRecordID() error = %v", err)
	}
	if len(id) != idSize {
		t.Errorf("id length = %d, want %d", len(id), idSize)
	}
	for _, c := range id {
		if !strings.ContainsRune(idAlphabet, c) {
			t.Errorf("id contains character outside alphabet: %q", c)
		}
	}
}

func TestNewRecordID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := NewRecordID()
		if err != nil {
			t.Fatalf("iteration %d: NewRecordID() error = %v", i, err)
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %q", id)
		}
		seen[id] = true
	}
}

func TestGenerateID_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := generateID(size); err == nil {
			t.Errorf("generateID(%d) expected error", size)
		}
	}
}
