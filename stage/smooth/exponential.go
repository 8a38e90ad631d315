// Package smooth provides recursive exponential (single-pole) smoothing of
// frames across time.
package smooth

import (
	"github.com/cwbudde/algo-viz/channeled"
	"github.com/cwbudde/algo-viz/pipeline"
)

type value = channeled.Value[float64]

// Exponential smooths each bin recursively across ticks:
//
//	out = alpha*previous + (1-alpha)*current
//
// where previous is last tick's output, not its raw input. The first tick
// has no history and passes the input through unchanged. A bounded history
// of previously emitted frames supports backward seeks up to its depth.
type Exponential struct {
	source pipeline.Framed[value]
	alpha  float64
	depth  int

	cur     []value
	history [][]value // newest first
	at      int
}

// NewExponential wraps source with smoothing factor alpha, retaining depth
// frames of seek-back history.
func NewExponential(source pipeline.Framed[value], depth int, alpha float64) *Exponential {
	size := source.FullFrameSize()
	return &Exponential{
		source:  source,
		alpha:   alpha,
		depth:   depth,
		cur:     make([]value, 0, size),
		history: make([][]value, 0, depth),
	}
}

// NextFrame produces the next smoothed frame.
func (e *Exponential) NextFrame() ([]value, error) {
	next, err := e.source.NextFrame()
	if err != nil || next == nil {
		return nil, err
	}

	if e.at > 0 {
		e.pushHistory()
	}

	e.cur = append(e.cur[:0], next...)

	if e.at > 0 {
		prev := e.history[0]
		n := min(len(prev), len(e.cur))
		for i := 0; i < n; i++ {
			blended, err := channeled.ZipWith(prev[i], e.cur[i], e.blend)
			if err != nil {
				return nil, err
			}
			e.cur[i] = blended
		}
	}

	e.at++
	return e.cur, nil
}

func (e *Exponential) blend(prev, cur float64) float64 {
	return e.alpha*prev + (1-e.alpha)*cur
}

// pushHistory moves the current frame to the front of the history,
// evicting and reusing the oldest slot once the depth is reached.
func (e *Exponential) pushHistory() {
	var slot []value
	if len(e.history) < e.depth {
		slot = make([]value, 0, cap(e.cur))
		e.history = append(e.history, nil)
	} else {
		slot = e.history[len(e.history)-1][:0]
	}
	copy(e.history[1:], e.history)
	e.history[0] = append(slot, e.cur...)
}

// SeekFrame moves the position by n. Backward seeks restore previously
// emitted frames from history; seeking further back than the retained
// history fails with [pipeline.ErrSeekOutOfRange].
func (e *Exponential) SeekFrame(n int) error {
	if n == 0 {
		return nil
	}

	if n > 0 {
		for i := 0; i < n; i++ {
			frame, err := e.NextFrame()
			if err != nil {
				return err
			}
			if frame == nil {
				return pipeline.ErrSeekOutOfRange
			}
		}
		return nil
	}

	k := -n
	if k > len(e.history) || k > e.at {
		return pipeline.ErrSeekOutOfRange
	}

	e.cur = e.history[k-1]
	kept := copy(e.history, e.history[k:])
	e.history = e.history[:kept]

	if err := e.source.SeekFrame(n); err != nil {
		return err
	}
	e.at -= k
	return nil
}

// SampleRate delegates to the source.
func (e *Exponential) SampleRate() int {
	return e.source.SampleRate()
}

// FullFrameSize delegates to the source.
func (e *Exponential) FullFrameSize() int {
	return e.source.FullFrameSize()
}

// NumFrames delegates to the source.
func (e *Exponential) NumFrames() int {
	return e.source.NumFrames()
}

// NumFramesRemain returns the frames not yet produced at this stage.
func (e *Exponential) NumFramesRemain() int {
	return e.NumFrames() - e.at
}

// NumFullFrames delegates to the source.
func (e *Exponential) NumFullFrames() int {
	return e.source.NumFullFrames()
}
