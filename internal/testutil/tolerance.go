// Package testutil provides assertion and signal helpers shared by the
// package tests.
package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-viz/channeled"
)

// RequireNear fails t if got and want differ by more than eps.
func RequireNear(t *testing.T, got, want, eps float64) {
	t.Helper()
	if diff := math.Abs(got - want); diff > eps {
		t.Fatalf("got %v, want %v (diff %v > eps %v)", got, want, diff, eps)
	}
}

// RequireSliceNear fails t if got and want differ in length or if any
// element pair exceeds eps (absolute tolerance).
func RequireSliceNear(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MonoSlice wraps each element of data in a mono channeled value.
func MonoSlice(data []float64) []channeled.Value[float64] {
	out := make([]channeled.Value[float64], len(data))
	for i, v := range data {
		out[i] = channeled.Mono(v)
	}
	return out
}

// StereoSlice zips left and right into stereo channeled values. The slices
// must have equal length.
func StereoSlice(left, right []float64) []channeled.Value[float64] {
	out := make([]channeled.Value[float64], len(left))
	for i := range left {
		out[i] = channeled.Stereo(left[i], right[i])
	}
	return out
}

// LeftChannel extracts the left channel of a channeled frame.
func LeftChannel(frame []channeled.Value[float64]) []float64 {
	out := make([]float64, len(frame))
	for i, v := range frame {
		out[i] = v.Left()
	}
	return out
}
