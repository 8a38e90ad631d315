// Package spectral computes the real-input discrete Fourier magnitude
// spectrum of each frame, channel-aware.
package spectral

import (
	"errors"
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-viz/channeled"
)

// ErrTransform reports a failure of the underlying spectral transform. It
// is fatal for the tick that observes it and propagates to the driver.
var ErrTransform = errors.New("spectral: transform failed")

// forwardPlan is the forward real-to-complex transform of an algo-fft real
// plan.
type forwardPlan interface {
	Forward(dst []complex128, src []float64) error
}

type channelBufs struct {
	input []float64
	spec  []complex128
	mag   []float64
}

func newChannelBufs(size int) *channelBufs {
	return &channelBufs{
		input: make([]float64, size),
		spec:  make([]complex128, size/2+1),
		mag:   make([]float64, size/2),
	}
}

// Analyzer transforms frames of time-domain values into magnitude spectra.
//
// Per-channel buffers are allocated lazily on the first frame; that frame's
// variant fixes mono/stereo for the analyzer's lifetime, and any later
// mismatch fails with [channeled.ErrChannelMismatch]. Inputs shorter than
// the configured size are zero-padded. The zero-frequency coefficient is
// dropped, so the output size is floor(size/2).
type Analyzer struct {
	plan forwardPlan
	size int
	nOut int

	left   *channelBufs
	right  *channelBufs
	stereo bool

	re, im []float64
	out    []channeled.Value[float64]
}

// New returns an analyzer for frames of the given size.
func New(size int) (*Analyzer, error) {
	if size < 2 {
		return nil, fmt.Errorf("spectral: frame size must be >= 2: %d", size)
	}
	plan, err := algofft.NewPlanReal64(size)
	if err != nil {
		return nil, fmt.Errorf("spectral: plan for size %d: %w", size, err)
	}
	return &Analyzer{plan: plan, size: size, nOut: size / 2}, nil
}

// OutSize declares the magnitude bin count, floor(size/2).
func (a *Analyzer) OutSize(int) int {
	return a.nOut
}

// Map transforms in and returns the per-channel magnitude spectrum.
func (a *Analyzer) Map(in []channeled.Value[float64]) ([]channeled.Value[float64], error) {
	if len(in) == 0 {
		return a.out[:0], nil
	}

	if a.left == nil {
		a.stereo = in[0].IsStereo()
		a.left = newChannelBufs(a.size)
		if a.stereo {
			a.right = newChannelBufs(a.size)
		}
		a.re = make([]float64, a.nOut)
		a.im = make([]float64, a.nOut)
		a.out = make([]channeled.Value[float64], 0, a.nOut)
	}

	for i, v := range in {
		if v.IsStereo() != a.stereo {
			return nil, channeled.ErrChannelMismatch
		}
		if i >= a.size {
			break
		}
		a.left.input[i] = v.Left()
		if a.stereo {
			a.right.input[i] = v.Right()
		}
	}
	zeroTail(a.left.input, len(in))
	if a.stereo {
		zeroTail(a.right.input, len(in))
	}

	if err := a.transform(a.left); err != nil {
		return nil, err
	}
	if a.stereo {
		if err := a.transform(a.right); err != nil {
			return nil, err
		}
	}

	a.out = a.out[:0]
	for i := 0; i < a.nOut; i++ {
		if a.stereo {
			a.out = append(a.out, channeled.Stereo(a.left.mag[i], a.right.mag[i]))
		} else {
			a.out = append(a.out, channeled.Mono(a.left.mag[i]))
		}
	}
	return a.out, nil
}

func (a *Analyzer) transform(b *channelBufs) error {
	if err := a.plan.Forward(b.spec, b.input); err != nil {
		return fmt.Errorf("%w: %v", ErrTransform, err)
	}
	// Drop the DC coefficient; bins 1..N/2 remain.
	for i, c := range b.spec[1:] {
		a.re[i] = real(c)
		a.im[i] = imag(c)
	}
	vecmath.Magnitude(b.mag, a.re, a.im)
	return nil
}

func zeroTail(buf []float64, from int) {
	for i := from; i < len(buf); i++ {
		buf[i] = 0
	}
}
