// Package viz assembles the full analysis chain from a sample source and a
// [Config]: framing, windowing, spectral transform, smoothing, binning, and
// leveling, ending in quantized bar values.
package viz

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-viz/channeled"
	"github.com/cwbudde/algo-viz/pipeline"
	"github.com/cwbudde/algo-viz/stage/bin"
	"github.com/cwbudde/algo-viz/stage/level"
	"github.com/cwbudde/algo-viz/stage/savgol"
	"github.com/cwbudde/algo-viz/stage/smooth"
	"github.com/cwbudde/algo-viz/stage/spectral"
	"github.com/cwbudde/algo-viz/stage/window"
)

type value = channeled.Value[float64]

// seekBackLimit is the backward seek depth the assembled pipeline
// supports; the stateful smoothing stages retain exactly this much
// history.
const seekBackLimit = 1

// timedEvery is the sampling interval of the tick-latency decorator.
const timedEvery = 256

// FrameSize returns the analysis frame length for a window duration in
// milliseconds at the given sample rate, rounded to nearest.
func FrameSize(sampleRate, windowMillis int) int {
	return (sampleRate*windowMillis + 500) / 1000
}

// Stride returns the framer advance per tick for the given frame rate,
// rounded to nearest.
func Stride(sampleRate, fps int) int {
	return (sampleRate + fps/2) / fps
}

// Build validates cfg and assembles the analysis chain over source. The
// returned stream yields one frame of quantized bar values per tick; each
// value is an integer in 0..cfg.Levels stored as float64. A nil logger
// falls back to the logrus standard logger.
func Build(source pipeline.Samples[value], cfg Config, log *logrus.Logger) (pipeline.Framed[float64], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rate := source.SampleRate()
	frameSize := FrameSize(rate, cfg.WindowMillis)
	stride := Stride(rate, cfg.FPS)

	framed := pipeline.NewSlidingFramer[value](source, frameSize, stride)

	windowed := pipeline.Lift[value, value](framed,
		func(size int) pipeline.FrameMapper[value, value] {
			return window.New(size)
		})

	spectra, err := pipeline.TryLift[value, value](windowed,
		func(size int) (pipeline.FrameMapper[value, value], error) {
			return spectral.New(size)
		})
	if err != nil {
		return nil, err
	}

	smoothed := smooth.NewExponential(spectra, seekBackLimit, cfg.Alpha0)

	if size := smoothed.FullFrameSize(); size < cfg.Savgol0.WindowSize {
		return nil, fmt.Errorf("viz: spectrum length %d below savgol0 window %d", size, cfg.Savgol0.WindowSize)
	}

	preBinned, err := channelwise(smoothed, func() (pipeline.FrameMapper[float64, float64], error) {
		return savgol.NewMapper(cfg.Savgol0)
	})
	if err != nil {
		return nil, err
	}

	binner, err := bin.NewMapper(bin.Config{
		Bins:       cfg.Binning.Bins,
		InputSize:  preBinned.FullFrameSize(),
		SampleRate: rate,
		FMin:       cfg.Binning.FMin,
		FMax:       cfg.Binning.FMax,
		Gamma:      cfg.Binning.Gamma,
	})
	if err != nil {
		return nil, fmt.Errorf("viz: %w", err)
	}
	if binner.NumBins() < cfg.Savgol1.WindowSize {
		return nil, fmt.Errorf("viz: %d bins below savgol1 window %d", binner.NumBins(), cfg.Savgol1.WindowSize)
	}
	binned := pipeline.Apply[value, value](preBinned,
		pipeline.NewChannelwise(binner, preBinned.FullFrameSize()))

	leveled := pipeline.Apply(binned, level.DB())
	leveled = pipeline.Apply(leveled, level.NormalizeBetween(cfg.MinDB, cfg.MaxDB))
	leveled = pipeline.Apply(leveled, level.NormalizeNonFinite())

	polished, err := channelwise(leveled, func() (pipeline.FrameMapper[float64, float64], error) {
		return savgol.NewMapper(cfg.Savgol1)
	})
	if err != nil {
		return nil, err
	}

	clamped := pipeline.Apply(polished, level.ClampUnit())
	settled := smooth.NewExponential(clamped, seekBackLimit, cfg.Alpha1)

	bars := pipeline.Apply(settled, level.Flatten())
	bars = pipeline.Apply(bars, level.Quantize(cfg.Levels))

	return pipeline.NewTimed(bars, timedEvery, log), nil
}

// channelwise wraps a scalar stage constructor so it runs once per channel
// over src's frames.
func channelwise(src pipeline.Framed[value], factory func() (pipeline.FrameMapper[float64, float64], error)) (pipeline.Framed[value], error) {
	mapper, err := factory()
	if err != nil {
		return nil, fmt.Errorf("viz: %w", err)
	}
	return pipeline.Apply[value, value](src, pipeline.NewChannelwise(mapper, src.FullFrameSize())), nil
}
