package core

import (
	"slices"
	"testing"
)

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	for i := 0; i < 32; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("draw %d differs between identically seeded generators", i)
		}
	}
	seed := int64(7)
	if !slices.Equal(NewRNGFrom(&seed).Sample(50, 10), NewRNG(7).Sample(50, 10)) {
		t.Fatal("NewRNGFrom with explicit seed must match NewRNG")
	}
}

func TestSampleDistinct(t *testing.T) {
	r := NewRNG(3)
	got := r.Sample(20, 8)
	if len(got) != 8 {
		t.Fatalf("expected 8 samples, got %d", len(got))
	}
	seen := map[int]bool{}
	for _, v := range got {
		if v < 0 || v >= 20 {
			t.Fatalf("sample %d out of range", v)
		}
		if seen[v] {
			t.Fatalf("sample %d repeated", v)
		}
		seen[v] = true
	}
	if len(r.Sample(3, 10)) != 3 {
		t.Fatal("sample size must be capped by n")
	}
	if r.Sample(5, 0) != nil {
		t.Fatal("zero-size sample should be nil")
	}
}

func TestRangeBounds(t *testing.T) {
	r := NewRNG(11)
	for i := 0; i < 200; i++ {
		v := r.Range(2, 0.5)
		if v < 0.5 || v >= 2 {
			t.Fatalf("Range produced %f outside [0.5, 2)", v)
		}
		s := r.Signed()
		if s < -1 || s >= 1 {
			t.Fatalf("Signed produced %f", s)
		}
	}
}
