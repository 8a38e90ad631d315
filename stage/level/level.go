// Package level provides the scalar shaping stages at the end of the
// pipeline: decibel conversion, range normalization, clamping, and
// quantization to display levels.
package level

import (
	"math"

	"github.com/cwbudde/algo-viz/channeled"
	"github.com/cwbudde/algo-viz/pipeline"
)

type value = channeled.Value[float64]

// scalarStage applies a per-channel function to every value of a frame,
// in place.
type scalarStage struct {
	f func(float64) float64
}

func (s scalarStage) Map(in []value) ([]value, error) {
	for i := range in {
		in[i].Transform(s.f)
	}
	return in, nil
}

func (s scalarStage) OutSize(inSize int) int {
	return inSize
}

// DB converts linear magnitudes to decibels, 20*log10(v). Zero input maps
// to -Inf; the normalization stages downstream absorb non-finite values.
func DB() pipeline.FrameMapper[value, value] {
	return scalarStage{f: func(v float64) float64 {
		return 20 * math.Log10(v)
	}}
}

// NormalizeBetween maps [lo, hi] linearly onto [0, 1]. Values outside the
// range map outside [0, 1]; combine with [ClampUnit] to bound them.
func NormalizeBetween(lo, hi float64) pipeline.FrameMapper[value, value] {
	span := hi - lo
	return scalarStage{f: func(v float64) float64 {
		return (v - lo) / span
	}}
}

// NormalizeNonFinite replaces NaN and infinities with finite stand-ins:
// -Inf and NaN become 0, +Inf becomes 1.
func NormalizeNonFinite() pipeline.FrameMapper[value, value] {
	return scalarStage{f: func(v float64) float64 {
		switch {
		case math.IsInf(v, 1):
			return 1
		case math.IsInf(v, -1) || math.IsNaN(v):
			return 0
		default:
			return v
		}
	}}
}

// ClampUnit limits values to [0, 1].
func ClampUnit() pipeline.FrameMapper[value, value] {
	return scalarStage{f: func(v float64) float64 {
		return math.Min(1, math.Max(0, v))
	}}
}

// floatStage applies a function to every element of a flat frame, in
// place.
type floatStage struct {
	f func(float64) float64
}

func (s floatStage) Map(in []float64) ([]float64, error) {
	for i := range in {
		in[i] = s.f(in[i])
	}
	return in, nil
}

func (s floatStage) OutSize(inSize int) int {
	return inSize
}

// Quantize maps [0, 1] to the integers 0..levels, rounding to nearest. It
// runs after [Flatten], on flat frames; the result stays float64 so the
// stage composes with the rest of the pipeline.
func Quantize(levels int) pipeline.FrameMapper[float64, float64] {
	n := float64(levels)
	return floatStage{f: func(v float64) float64 {
		return math.Round(v * n)
	}}
}

// flattenStage folds stereo frames to mono by averaging the channels.
type flattenStage struct {
	buf []float64
}

func (f *flattenStage) Map(in []value) ([]float64, error) {
	f.buf = f.buf[:0]
	for _, v := range in {
		if v.IsStereo() {
			f.buf = append(f.buf, (v.Left()+v.Right())/2)
		} else {
			f.buf = append(f.buf, v.Left())
		}
	}
	return f.buf, nil
}

func (f *flattenStage) OutSize(inSize int) int {
	return inSize
}

// Flatten folds stereo values to mono by averaging the channels; mono
// values pass through.
func Flatten() pipeline.FrameMapper[value, float64] {
	return &flattenStage{}
}
