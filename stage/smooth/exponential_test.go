package smooth

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-viz/channeled"
	"github.com/cwbudde/algo-viz/internal/testutil"
	"github.com/cwbudde/algo-viz/pipeline"
)

// framedStub serves predefined mono frames and counts its position.
type framedStub struct {
	frames [][]float64
	at     int
	buf    []value
}

func (f *framedStub) NextFrame() ([]value, error) {
	if f.at >= len(f.frames) {
		return nil, nil
	}
	f.buf = f.buf[:0]
	for _, v := range f.frames[f.at] {
		f.buf = append(f.buf, channeled.Mono(v))
	}
	f.at++
	return f.buf, nil
}

func (f *framedStub) SeekFrame(n int) error {
	target := f.at + n
	if target < 0 || target > len(f.frames) {
		return pipeline.ErrSeekOutOfRange
	}
	f.at = target
	return nil
}

func (f *framedStub) SampleRate() int      { return 48000 }
func (f *framedStub) FullFrameSize() int   { return len(f.frames[0]) }
func (f *framedStub) NumFrames() int       { return len(f.frames) }
func (f *framedStub) NumFramesRemain() int { return len(f.frames) - f.at }
func (f *framedStub) NumFullFrames() int   { return len(f.frames) }

func left(frame []value) []float64 {
	out := make([]float64, len(frame))
	for i, v := range frame {
		out[i] = v.Left()
	}
	return out
}

func TestFirstTickPassesRawInput(t *testing.T) {
	stub := &framedStub{frames: [][]float64{{1, 2, 3}}}
	e := NewExponential(stub, 1, 0.5)

	frame, err := e.NextFrame()
	if err != nil {
		t.Fatalf("NextFrame: %v", err)
	}
	testutil.RequireSliceNear(t, left(frame), []float64{1, 2, 3}, 0)
}

func TestRecursiveBlend(t *testing.T) {
	stub := &framedStub{frames: [][]float64{{1, 1}, {3, 5}, {3, 5}}}
	e := NewExponential(stub, 1, 0.5)

	if _, err := e.NextFrame(); err != nil {
		t.Fatalf("tick 1: %v", err)
	}

	// tick 2: 0.5*1 + 0.5*3 = 2; 0.5*1 + 0.5*5 = 3
	frame, err := e.NextFrame()
	if err != nil {
		t.Fatalf("tick 2: %v", err)
	}
	testutil.RequireSliceNear(t, left(frame), []float64{2, 3}, 1e-15)

	// tick 3 blends against tick 2's output, not its raw input:
	// 0.5*2 + 0.5*3 = 2.5; 0.5*3 + 0.5*5 = 4
	frame, err = e.NextFrame()
	if err != nil {
		t.Fatalf("tick 3: %v", err)
	}
	testutil.RequireSliceNear(t, left(frame), []float64{2.5, 4}, 1e-15)
}

func TestSeekBackOneRestoresPriorOutput(t *testing.T) {
	stub := &framedStub{frames: [][]float64{{1, 1}, {3, 5}, {3, 5}}}
	e := NewExponential(stub, 1, 0.5)

	if _, err := e.NextFrame(); err != nil {
		t.Fatalf("tick 1: %v", err)
	}

	f2, err := e.NextFrame()
	if err != nil {
		t.Fatalf("tick 2: %v", err)
	}
	tick2 := append([]float64(nil), left(f2)...)

	if err := e.SeekFrame(-1); err != nil {
		t.Fatalf("SeekFrame(-1): %v", err)
	}

	// The restored state is tick 1's output; replaying the next tick must
	// reproduce tick 2 exactly.
	replay, err := e.NextFrame()
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	testutil.RequireSliceNear(t, left(replay), tick2, 0)
}

func TestSeekBeyondHistoryFails(t *testing.T) {
	stub := &framedStub{frames: [][]float64{{1}, {2}, {3}}}
	e := NewExponential(stub, 1, 0.5)

	if _, err := e.NextFrame(); err != nil {
		t.Fatalf("tick 1: %v", err)
	}
	if _, err := e.NextFrame(); err != nil {
		t.Fatalf("tick 2: %v", err)
	}

	if err := e.SeekFrame(-2); !errors.Is(err, pipeline.ErrSeekOutOfRange) {
		t.Fatalf("err=%v, want ErrSeekOutOfRange", err)
	}
}

func TestSeekBeforeAnyTickFails(t *testing.T) {
	stub := &framedStub{frames: [][]float64{{1}}}
	e := NewExponential(stub, 1, 0.5)

	if err := e.SeekFrame(-1); !errors.Is(err, pipeline.ErrSeekOutOfRange) {
		t.Fatalf("err=%v, want ErrSeekOutOfRange", err)
	}
}

func TestForwardSeekReplays(t *testing.T) {
	stub := &framedStub{frames: [][]float64{{1}, {3}, {5}}}
	e := NewExponential(stub, 1, 0.5)

	if err := e.SeekFrame(2); err != nil {
		t.Fatalf("SeekFrame(2): %v", err)
	}
	// tick 1 = 1, tick 2 = 0.5*1+0.5*3 = 2, tick 3 = 0.5*2+0.5*5 = 3.5
	frame, err := e.NextFrame()
	if err != nil {
		t.Fatalf("NextFrame: %v", err)
	}
	testutil.RequireSliceNear(t, left(frame), []float64{3.5}, 1e-15)
}

func TestStereoBlendsBothChannels(t *testing.T) {
	e := NewExponential(&stereoStub{}, 1, 0.25)

	if _, err := e.NextFrame(); err != nil {
		t.Fatalf("tick 1: %v", err)
	}
	frame, err := e.NextFrame()
	if err != nil {
		t.Fatalf("tick 2: %v", err)
	}
	// left: 0.25*0 + 0.75*4 = 3; right: 0.25*8 + 0.75*0 = 2
	if !frame[0].IsStereo() {
		t.Fatal("output lost stereo variant")
	}
	testutil.RequireNear(t, frame[0].Left(), 3, 1e-15)
	testutil.RequireNear(t, frame[0].Right(), 2, 1e-15)
}

// stereoStub serves two fixed stereo frames.
type stereoStub struct {
	at int
}

func (s *stereoStub) NextFrame() ([]value, error) {
	frames := [][]value{
		{channeled.Stereo(0.0, 8.0)},
		{channeled.Stereo(4.0, 0.0)},
	}
	if s.at >= len(frames) {
		return nil, nil
	}
	f := frames[s.at]
	s.at++
	return f, nil
}

func (s *stereoStub) SeekFrame(int) error  { return nil }
func (s *stereoStub) SampleRate() int      { return 48000 }
func (s *stereoStub) FullFrameSize() int   { return 1 }
func (s *stereoStub) NumFrames() int       { return 2 }
func (s *stereoStub) NumFramesRemain() int { return 2 - s.at }
func (s *stereoStub) NumFullFrames() int   { return 2 }
