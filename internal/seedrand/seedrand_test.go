// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package seedrand

import "testing"

func TestReferenceValue(t *testing.T) {
	// Published reference output of the JavaScript generator for this seed.
	st := New("hello.")
	for i, want := range []float64{0.9282578795792454, 0.3752569768646784} {
		if got := st.Float64(); got != want {
			t.Errorf("draw %d = %.17g, want %.17g", i, got, want)
		}
	}
}

func TestDeterministic(t *testing.T) {
	a := New("defaultseed_100_0_100")
	b := New("defaultseed_100_0_100")
	for i := range 1000 {
		x, y := a.Float64(), b.Float64()
		if x != y {
			t.Fatalf("draw %d diverged: %v != %v", i, x, y)
		}
	}
}

func TestSeedsDiffer(t *testing.T) {
	a := New("alpha")
	b := New("beta")
	same := 0
	for range 64 {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	if same == 64 {
		t.Error("different seeds produced identical streams")
	}
}

func TestUnitInterval(t *testing.T) {
	tests := []string{"", "x", "fixed-seed", "ünïcödé", string(make([]byte, 300))}
	for _, seed := range tests {
		st := New(seed)
		for range 5000 {
			v := st.Float64()
			if v < 0 || v >= 1 {
				t.Fatalf("seed %q: value %v outside [0,1)", seed, v)
			}
		}
	}
}

func TestRange(t *testing.T) {
	st := New("range")
	for range 1000 {
		v := st.Range(1, 3)
		if v < 1 || v >= 3 {
			t.Fatalf("Range(1,3) = %v", v)
		}
	}
}

func TestMeanNearHalf(t *testing.T) {
	st := New("mean")
	const n = 20000
	var sum float64
	for range n {
		sum += st.Float64()
	}
	if mean := sum / n; mean < 0.48 || mean > 0.52 {
		t.Errorf("mean = %v, want ~0.5", mean)
	}
}

func TestMixKeyLength(t *testing.T) {
	if got := len(mixKey("")); got != 0 {
		t.Errorf("len(mixKey(\"\")) = %d, want 0", got)
	}
	if got := len(mixKey("abc")); got != 3 {
		t.Errorf("len(mixKey(\"abc\")) = %d, want 3", got)
	}
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	if got := len(mixKey(string(long))); got != width {
		t.Errorf("len(mixKey(600 chars)) = %d, want %d", got, width)
	}
}
