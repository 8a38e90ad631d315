package viz

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-viz/channeled"
	"github.com/cwbudde/algo-viz/internal/testutil"
	"github.com/cwbudde/algo-viz/pipeline"
	"github.com/cwbudde/algo-viz/stage/bin"
	"github.com/cwbudde/algo-viz/stage/spectral"
	"github.com/cwbudde/algo-viz/stage/window"
)

func TestFrameSizeAndStride(t *testing.T) {
	if got := FrameSize(44100, 40); got != 1764 {
		t.Fatalf("FrameSize=%d, want 1764", got)
	}
	if got := Stride(44100, 60); got != 735 {
		t.Fatalf("Stride=%d, want 735", got)
	}
	// Rounds to nearest, not down.
	if got := Stride(44100, 59); got != 748 {
		t.Fatalf("Stride=%d, want 748", got)
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FPS = 0
	src := pipeline.NewSliceSource([]channeled.Value[float64]{}, 44100)
	if _, err := Build(src, cfg, nil); err == nil {
		t.Fatal("Build succeeded, want error")
	}
}

func TestBuildRejectsBinCountBelowSmoothingWindow(t *testing.T) {
	cfg := DefaultConfig()
	// Passes Validate on its own, but resolves to fewer bins than the
	// second smoothing stage's window can cover.
	cfg.Binning.Bins = 3

	src := pipeline.NewSliceSource([]channeled.Value[float64]{}, 44100)
	if _, err := Build(src, cfg, nil); err == nil {
		t.Fatal("Build succeeded, want error")
	}
}

func TestBuildEndToEnd(t *testing.T) {
	const rate = 44100
	cfg := DefaultConfig()

	sine := testutil.Sine(t, 440, rate, 0.8, 4*FrameSize(rate, cfg.WindowMillis))
	src := pipeline.NewSliceSource(testutil.MonoSlice(sine), rate)

	bars, err := Build(src, cfg, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	nBins := bars.FullFrameSize()
	if nBins < cfg.Binning.Bins {
		t.Fatalf("FullFrameSize()=%d, want >= %d", nBins, cfg.Binning.Bins)
	}

	frames := 0
	for {
		frame, err := bars.NextFrame()
		if err != nil {
			t.Fatalf("NextFrame: %v", err)
		}
		if frame == nil {
			break
		}
		if len(frame) == 0 {
			continue // stage warm-up tick
		}
		frames++
		if len(frame) != nBins {
			t.Fatalf("frame len=%d, want %d", len(frame), nBins)
		}
		for i, v := range frame {
			if v != math.Trunc(v) {
				t.Fatalf("bar %d=%v, want integral level", i, v)
			}
			if v < 0 || v > float64(cfg.Levels) {
				t.Fatalf("bar %d=%v outside 0..%d", i, v, cfg.Levels)
			}
		}
	}
	if frames == 0 {
		t.Fatal("pipeline produced no frames")
	}
}

func TestBuildBackwardSeekReplaysTick(t *testing.T) {
	const rate = 44100
	cfg := DefaultConfig()

	sine := testutil.Sine(t, 440, rate, 0.8, 4*FrameSize(rate, cfg.WindowMillis))
	src := pipeline.NewSliceSource(testutil.MonoSlice(sine), rate)

	bars, err := Build(src, cfg, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tick := func() []float64 {
		t.Helper()
		frame, err := bars.NextFrame()
		if err != nil {
			t.Fatalf("NextFrame: %v", err)
		}
		if len(frame) == 0 {
			t.Fatal("expected a full bar frame")
		}
		return append([]float64(nil), frame...)
	}

	tick()
	second := tick()

	if err := bars.SeekFrame(-1); err != nil {
		t.Fatalf("SeekFrame(-1): %v", err)
	}
	replay := tick()

	if len(replay) != len(second) {
		t.Fatalf("replay len=%d, want %d", len(replay), len(second))
	}
	for i := range second {
		if replay[i] != second[i] {
			t.Fatalf("bar %d: replay=%v, want %v", i, replay[i], second[i])
		}
	}
}

// TestSinePeaksInItsBin drives the front half of the chain (framing,
// windowing, spectral transform, binning) and checks the bin containing
// the sine frequency dominates.
func TestSinePeaksInItsBin(t *testing.T) {
	const (
		rate      = 44100
		frameSize = 1024
		freq      = 1000.0
	)

	binCfg := bin.Config{
		Bins:       10,
		InputSize:  frameSize / 2,
		SampleRate: rate,
		FMin:       42,
		FMax:       14000,
		Gamma:      2.3,
	}
	binner, err := bin.NewMapper(binCfg)
	if err != nil {
		t.Fatalf("bin.NewMapper: %v", err)
	}

	sine := testutil.Sine(t, freq, rate, 0.8, 3*frameSize)
	src := pipeline.NewSliceSource(testutil.MonoSlice(sine), rate)
	framed := pipeline.NewSlidingFramer[channeled.Value[float64]](src, frameSize, frameSize/2)

	windowed := pipeline.Lift[channeled.Value[float64], channeled.Value[float64]](framed,
		func(size int) pipeline.FrameMapper[channeled.Value[float64], channeled.Value[float64]] {
			return window.New(size)
		})
	spectra, err := pipeline.TryLift[channeled.Value[float64], channeled.Value[float64]](windowed,
		func(size int) (pipeline.FrameMapper[channeled.Value[float64], channeled.Value[float64]], error) {
			return spectral.New(size)
		})
	if err != nil {
		t.Fatalf("spectral: %v", err)
	}
	binned := pipeline.Apply[channeled.Value[float64], channeled.Value[float64]](
		spectra, pipeline.NewChannelwise(binner, frameSize/2))

	nBins := binner.NumBins()
	frame, err := binned.NextFrame()
	if err != nil {
		t.Fatalf("NextFrame: %v", err)
	}
	if frame == nil || len(frame) != nBins {
		t.Fatalf("frame=%v, want %d bins", frame, nBins)
	}

	// Locate the bin covering the sine frequency: spectrum index i covers
	// (i+1)*nyquist/inputSize Hz.
	hzPerIndex := float64(rate) / 2 / float64(binCfg.InputSize)
	peakIdx := int(math.Round(freq/hzPerIndex)) - 1
	bounds := binner.Bounds()
	peakBin := -1
	for b := 0; b < nBins; b++ {
		if peakIdx >= bounds[b] && peakIdx < bounds[b+1] {
			peakBin = b
			break
		}
	}
	if peakBin < 0 {
		t.Fatalf("peak index %d outside boundaries %v", peakIdx, bounds)
	}

	for b := 0; b < nBins; b++ {
		if b == peakBin {
			continue
		}
		if frame[b].Left() >= frame[peakBin].Left() {
			t.Fatalf("bin %d=%v >= peak bin %d=%v",
				b, frame[b].Left(), peakBin, frame[peakBin].Left())
		}
	}
}
