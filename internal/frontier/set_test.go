package frontier_test

import (
	"testing"

	"linkscout/internal/frontier"
)

func TestSet_AddAndContains(t *testing.T) {
	s := frontier.NewSet[string]()

	s.Add("a")

	if !s.Contains("a") {
		t.Error("expected set to contain added element")
	}
	if s.Contains("b") {
		t.Error("expected set to not contain absent element")
	}
}

func TestSet_AddIsIdempotent(t *testing.T) {
	s := frontier.NewSet[string]()

	s.Add("a")
	s.Add("a")

	if s.Size() != 1 {
		t.Errorf("expected size 1 after duplicate add, got %d", s.Size())
	}
}

func TestSet_Remove(t *testing.T) {
	s := frontier.NewSet[int]()

	s.Add(7)
	s.Remove(7)

	if s.Contains(7) {
		t.Error("expected element to be gone after removal")
	}
	if s.Size() != 0 {
		t.Errorf("expected size 0, got %d", s.Size())
	}
}
