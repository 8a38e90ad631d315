package testutil

import (
	"testing"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/signal"
)

// Sine generates a deterministic sine wave.
func Sine(t *testing.T, freqHz float64, sampleRate int, amplitude float64, length int) []float64 {
	t.Helper()
	gen := signal.NewGenerator(core.WithSampleRate(float64(sampleRate)))
	out, err := gen.Sine(freqHz, amplitude, length)
	if err != nil {
		t.Fatalf("sine: %v", err)
	}
	return out
}

// Ramp generates the linear signal 0, slope, 2*slope, ...
func Ramp(slope float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = slope * float64(i)
	}
	return out
}
