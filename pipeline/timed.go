package pipeline

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Timed decorates a Framed stream with tick-latency logging. Every Nth
// frame is timed and reported at debug level.
type Timed[E any] struct {
	source Framed[E]
	every  int
	count  int
	log    *logrus.Logger
}

// NewTimed wraps source, timing every Nth NextFrame call. A nil logger
// falls back to the logrus standard logger.
func NewTimed[E any](source Framed[E], every int, log *logrus.Logger) *Timed[E] {
	if every < 1 {
		every = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Timed[E]{source: source, every: every, log: log}
}

// NextFrame delegates to the source, logging the tick duration on sampled
// frames.
func (t *Timed[E]) NextFrame() ([]E, error) {
	sampled := t.count%t.every == 0
	t.count++

	if !sampled {
		return t.source.NextFrame()
	}

	start := time.Now()
	frame, err := t.source.NextFrame()
	if err == nil && frame != nil {
		t.log.WithFields(logrus.Fields{
			"frame":    t.count - 1,
			"duration": time.Since(start),
		}).Debug("frame computed")
	}
	return frame, err
}

// SeekFrame delegates to the source.
func (t *Timed[E]) SeekFrame(n int) error {
	return t.source.SeekFrame(n)
}

// SampleRate delegates to the source.
func (t *Timed[E]) SampleRate() int {
	return t.source.SampleRate()
}

// FullFrameSize delegates to the source.
func (t *Timed[E]) FullFrameSize() int {
	return t.source.FullFrameSize()
}

// NumFrames delegates to the source.
func (t *Timed[E]) NumFrames() int {
	return t.source.NumFrames()
}

// NumFramesRemain delegates to the source.
func (t *Timed[E]) NumFramesRemain() int {
	return t.source.NumFramesRemain()
}

// NumFullFrames delegates to the source.
func (t *Timed[E]) NumFullFrames() int {
	return t.source.NumFullFrames()
}
