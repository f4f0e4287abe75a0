package neat

import "testing"

func TestInnovationRegistryNextConnIDIsIdempotentPerPair(t *testing.T) {
	r := NewInnovationRegistry()

	a := r.NextConnID(1, 2)
	b := r.NextConnID(1, 2)
	if a != b {
		t.Fatalf("expected same innovation id for repeated pair, got %d and %d", a, b)
	}

	c := r.NextConnID(2, 1)
	if c == a {
		t.Fatalf("expected a distinct innovation id for the reversed pair, got %d for both", a)
	}
}

func TestInnovationRegistryNextNodeNeverDeduplicates(t *testing.T) {
	r := NewInnovationRegistry()

	first := r.NextNode()
	second := r.NextNode()
	if first == second {
		t.Fatalf("expected distinct node ids, got %d twice", first)
	}
}

func TestInnovationRegistrySequentialAllocation(t *testing.T) {
	r := NewInnovationRegistry()

	ids := make([]int, 5)
	for i := range ids {
		ids[i] = r.NextConnID(i, i+100)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("expected strictly increasing innovation ids, got %v", ids)
		}
	}
}
