// Package savgol implements Savitzky-Golay smoothing: least-squares
// polynomial fits over a sliding window, expressed as precomputed
// convolution weights derived from Gram polynomials.
package savgol

import (
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"
)

// Config describes one Savitzky-Golay filter.
type Config struct {
	// WindowSize is the number of points per fit. Must be odd and >= 3.
	WindowSize int `yaml:"window_size"`
	// Degree of the fitted polynomial.
	Degree int `yaml:"degree"`
	// Order of the derivative to evaluate; 0 smooths.
	Order int `yaml:"order"`
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.WindowSize < 3 || c.WindowSize%2 == 0 {
		return fmt.Errorf("savgol: window size must be odd and >= 3: %d", c.WindowSize)
	}
	if c.Degree < 0 {
		return fmt.Errorf("savgol: degree must be >= 0: %d", c.Degree)
	}
	if c.Order < 0 {
		return fmt.Errorf("savgol: derivative order must be >= 0: %d", c.Order)
	}
	return nil
}

// Coefficients returns one weight row per target point p = -m..m, each of
// length WindowSize. Row m is the centered filter; the rows before and
// after it handle points too close to a frame edge for a centered window.
// Rows are synthesized exactly and rounded once; smoothing rows are
// normalized to unit sum.
func (c Config) Coefficients() ([][]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	m := c.WindowSize / 2
	rows := make([][]float64, c.WindowSize)

	var g errgroup.Group
	for p := -m; p <= m; p++ {
		g.Go(func() error {
			t := newGramTable(m)
			sum := new(big.Rat)
			exact := make([]*big.Rat, c.WindowSize)
			for i := -m; i <= m; i++ {
				w := t.weight(i, p, c.Degree, c.Order)
				exact[i+m] = w
				sum.Add(sum, w)
			}

			row := make([]float64, c.WindowSize)
			for i, w := range exact {
				// Derivative rows sum to zero exactly; those are left
				// unnormalized.
				if sum.Sign() != 0 {
					w = new(big.Rat).Quo(w, sum)
				}
				row[i], _ = w.Float64()
			}
			rows[p+m] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// Mapper applies a Savitzky-Golay filter to each frame. Interior points
// use the centered weight row; points within half a window of a frame edge
// use the off-center row fitted for that distance, so every output is a
// fit over WindowSize real samples.
type Mapper struct {
	window int
	rows   [][]float64
	out    []float64
}

// NewMapper builds the filter described by c.
func NewMapper(c Config) (*Mapper, error) {
	rows, err := c.Coefficients()
	if err != nil {
		return nil, err
	}
	return &Mapper{window: c.WindowSize, rows: rows}, nil
}

// Map filters in and returns the result. The frame must be at least one
// window long.
func (m *Mapper) Map(in []float64) ([]float64, error) {
	n := len(in)
	if n < m.window {
		return nil, fmt.Errorf("savgol: frame of %d values shorter than window %d", n, m.window)
	}

	if cap(m.out) < n {
		m.out = make([]float64, n)
	}
	m.out = m.out[:n]

	half := m.window / 2
	tail := n - half - 1
	for p := 0; p < n; p++ {
		var start, r int
		switch {
		case p <= half:
			start, r = 0, p
		case p > tail:
			start, r = n-m.window, half+(p-tail)
		default:
			start, r = p-half, half
		}

		row := m.rows[r]
		var acc float64
		for i, w := range row {
			acc += w * in[start+i]
		}
		m.out[p] = acc
	}
	return m.out, nil
}

// OutSize declares the unchanged frame size.
func (m *Mapper) OutSize(inSize int) int {
	return inSize
}
