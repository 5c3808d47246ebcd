// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package scene

import "testing"

// TestGammaRoundTrip is invariant 10 / S3: SetGamma then Gamma
// returns within 1e-6, and InvertedGamma is its reciprocal.
func TestGammaRoundTrip(t *testing.T) {
	st, err := NewState(2, 2, 1, 1, 1, false, 1e-4)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	if err := st.SetGamma(2.2); err != nil {
		t.Fatalf("SetGamma: %v", err)
	}
	if d := st.Gamma() - 2.2; d > 1e-6 || d < -1e-6 {
		t.Fatalf("Gamma\nhave %v\nwant 2.2", st.Gamma())
	}
	want := float32(1 / 2.2)
	if d := st.InvertedGamma() - want; d > 1e-4 || d < -1e-4 {
		t.Fatalf("InvertedGamma\nhave %v\nwant %v", st.InvertedGamma(), want)
	}
}

// TestDirtyRestart is invariant 12: mutating a State setter sets
// dirty, and ResetIterations (what the dispatch controller calls
// when dirty is observed) brings CurrentIteration back to 0.
func TestDirtyRestart(t *testing.T) {
	st, err := NewState(2, 2, 1, 4, 1, false, 1e-4)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	st.ClearDirty()
	st.NextIteration()
	st.NextIteration()
	if st.CurrentIteration() != 2 {
		t.Fatalf("CurrentIteration\nhave %d\nwant 2", st.CurrentIteration())
	}
	if err := st.SetDepth(2); err != nil {
		t.Fatalf("SetDepth: %v", err)
	}
	if !st.Dirty() {
		t.Fatal("SetDepth must set dirty")
	}
	if st.Dirty() {
		st.ResetIterations()
	}
	if st.CurrentIteration() != 0 {
		t.Fatalf("CurrentIteration after restart\nhave %d\nwant 0", st.CurrentIteration())
	}
	st.NextIteration()
	if st.CurrentIteration() != 1 {
		t.Fatalf("CurrentIteration after restart+NextIteration\nhave %d\nwant 1", st.CurrentIteration())
	}
}

func TestNewStateValidation(t *testing.T) {
	if _, err := NewState(0, 1, 1, 1, 1, false, 0); err == nil {
		t.Fatal("NewState: want error for zero width")
	}
	if _, err := NewState(1, 1, -1, 1, 1, false, 0); err == nil {
		t.Fatal("NewState: want error for negative depth")
	}
	if _, err := NewState(1, 1, 1, 1, 0, false, 0); err == nil {
		t.Fatal("NewState: want error for non-positive gamma")
	}
}
