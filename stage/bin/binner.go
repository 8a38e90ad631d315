// Package bin folds magnitude spectra into a small number of perceptually
// spaced bins via a power-law frequency mapping.
package bin

import (
	"fmt"
	"math"
)

// maxGrowth bounds the boundary-search retries before giving up.
const maxGrowth = 256

// Config describes the binning stage.
type Config struct {
	// Bins is the minimum number of output bins; the boundary search may
	// settle on slightly more.
	Bins int `yaml:"bins"`
	// InputSize is the spectrum length the stage accepts.
	InputSize int `yaml:"-"`
	// SampleRate of the audio the spectrum was computed from.
	SampleRate int `yaml:"-"`
	// FMin and FMax bound the analyzed band in Hz.
	FMin float64 `yaml:"f_min"`
	FMax float64 `yaml:"f_max"`
	// Gamma shapes the frequency mapping; values > 1 widen the low end.
	Gamma float64 `yaml:"gamma"`
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.Bins < 1 {
		return fmt.Errorf("bin: bin count must be >= 1: %d", c.Bins)
	}
	if c.InputSize < 1 {
		return fmt.Errorf("bin: input size must be >= 1: %d", c.InputSize)
	}
	if c.SampleRate < 1 {
		return fmt.Errorf("bin: sample rate must be >= 1: %d", c.SampleRate)
	}
	if c.FMin < 0 || c.FMax <= c.FMin {
		return fmt.Errorf("bin: need 0 <= f_min < f_max, got [%g, %g]", c.FMin, c.FMax)
	}
	if c.Gamma <= 0 {
		return fmt.Errorf("bin: gamma must be > 0: %g", c.Gamma)
	}
	return nil
}

// hz converts a spectrum index to a frequency.
func (c Config) hz(i int) float64 {
	nyquist := float64(c.SampleRate) / 2
	return float64(i) * nyquist / float64(c.InputSize)
}

// attempt distributes the spectrum indices above FMin over n virtual bins
// and records the smallest index landing in each, starting from the first
// target actually reachable at this spectrum resolution. It fails when a
// later target stays empty, which means n does not divide this band
// cleanly.
func (c Config) attempt(n int) ([]int, bool) {
	span := c.FMax - c.FMin
	inv := 1 / c.Gamma

	bounds := make([]int, 0, n+1)
	next := -1
	for i := 0; i < c.InputSize; i++ {
		f := c.hz(i)
		if f < c.FMin {
			continue
		}

		t := int(math.Round(math.Pow((f-c.FMin)/span, inv) * float64(n)))
		last := t >= n
		if last {
			t = n
		}
		if next == -1 {
			// Targets below the first reachable one have no spectrum
			// index at this resolution; scanning starts here.
			next = t
		}
		if t < next {
			continue
		}
		if t > next {
			return bounds, false
		}

		bounds = append(bounds, i)
		next++
		if last {
			break
		}
	}
	return bounds, true
}

// Boundaries computes the output bin boundaries. The virtual bin count
// grows from Bins until at least Bins+1 consecutive boundaries are
// discovered; search exhaustion is a configuration error, never an
// unbounded retry.
func (c Config) Boundaries() ([]int, error) {
	for n := c.Bins; n <= c.Bins+maxGrowth; n++ {
		bounds, ok := c.attempt(n)
		if ok && len(bounds) >= c.Bins+1 {
			return bounds, nil
		}
	}
	return nil, fmt.Errorf(
		"bin: cannot place %d bins between %g Hz and %g Hz with %d spectrum points up to nyquist %g Hz",
		c.Bins, c.FMin, c.FMax, c.InputSize, float64(c.SampleRate)/2)
}

// Mapper folds spectra into bins.
type Mapper struct {
	cfg    Config
	bounds []int
	nBins  int
	out    []float64
}

// NewMapper validates c, resolves the bin boundaries, and returns the
// stage.
func NewMapper(c Config) (*Mapper, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	bounds, err := c.Boundaries()
	if err != nil {
		return nil, err
	}
	nBins := len(bounds) - 1
	return &Mapper{
		cfg:    c,
		bounds: bounds,
		nBins:  nBins,
		out:    make([]float64, nBins),
	}, nil
}

// NumBins returns the resolved output bin count, at least the configured
// minimum.
func (m *Mapper) NumBins() int {
	return m.nBins
}

// Bounds returns the resolved spectrum-index boundaries. The slice must
// not be modified.
func (m *Mapper) Bounds() []int {
	return m.bounds
}

// Map folds in into the resolved bins. Frames of any other length than
// the configured input size produce no output.
func (m *Mapper) Map(in []float64) ([]float64, error) {
	if len(in) != m.cfg.InputSize {
		return nil, nil
	}

	for i := range m.out {
		m.out[i] = 0
	}

	b := 0
	for i := m.bounds[0]; i < len(in); i++ {
		for b+1 < len(m.bounds) && i >= m.bounds[b+1] {
			b++
		}
		if b >= m.nBins {
			break
		}
		v := in[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		m.out[b] += v
	}

	scale := 1 / float64(m.cfg.InputSize)
	for i := range m.out {
		m.out[i] *= scale
	}
	return m.out, nil
}

// OutSize declares the resolved bin count.
func (m *Mapper) OutSize(int) int {
	return m.nBins
}
