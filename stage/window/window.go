// Package window applies a Blackman-Nuttall taper to each frame before
// spectral analysis.
package window

import (
	dspwindow "github.com/cwbudde/algo-dsp/dsp/window"

	"github.com/cwbudde/algo-viz/channeled"
)

// Mapper multiplies every sample of a frame by a precomputed taper
// coefficient. Coefficients are generated once at construction; each tick
// mutates the frame in place.
type Mapper struct {
	coeffs []float64
}

// New returns a windowing stage for frames of the given size.
func New(size int) *Mapper {
	return &Mapper{
		coeffs: dspwindow.Generate(dspwindow.TypeBlackmanNuttall, size),
	}
}

// Coefficients returns the taper table. The slice must not be modified.
func (m *Mapper) Coefficients() []float64 {
	return m.coeffs
}

// Map multiplies in by the taper in place.
func (m *Mapper) Map(in []channeled.Value[float64]) ([]channeled.Value[float64], error) {
	n := min(len(in), len(m.coeffs))
	for i := 0; i < n; i++ {
		c := m.coeffs[i]
		in[i].Transform(func(v float64) float64 { return v * c })
	}
	return in, nil
}

// OutSize declares the unchanged frame size.
func (m *Mapper) OutSize(inSize int) int {
	return inSize
}
