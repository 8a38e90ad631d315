// Package pipeline provides the pull-driven frame-processing contracts and
// the combinators that compose stages into an analysis chain.
//
// A [Samples] source produces one sample per call; a [Framed] source
// produces one frame per tick. Stages are [FrameMapper] values attached to
// a Framed source through [Apply], [Lift], or [TryLift]. Every stage owns
// its scratch buffers, sized once at construction, so steady-state ticks do
// not allocate.
//
// End of stream is a nil frame with a nil error, never an error value. A
// stage that has no output for a tick yields a zero-length (non-nil) frame.
package pipeline

// Samples is a pull-based sample producer.
type Samples[T any] interface {
	// SampleRate returns the source sample rate in Hz.
	SampleRate() int

	// NumSamples returns the total number of samples in the stream.
	NumSamples() int

	// NumSamplesRemain returns the number of samples not yet produced.
	NumSamplesRemain() int

	// SeekSamples moves the cursor by n samples (negative is backward).
	// Seeking outside the stream fails with ErrSeekOutOfRange.
	SeekSamples(n int) error

	// NextSample returns the next sample. ok is false at end of stream.
	NextSample() (v T, ok bool, err error)
}

// Framed produces one frame of elements per tick.
type Framed[E any] interface {
	// SampleRate returns the sample rate of the underlying source in Hz.
	SampleRate() int

	// FullFrameSize returns the declared size of a full output frame.
	FullFrameSize() int

	// NumFrames returns the total number of frames the stream can produce.
	NumFrames() int

	// NumFramesRemain returns the number of frames not yet produced.
	NumFramesRemain() int

	// NumFullFrames returns the number of full-size frames the stream can
	// produce.
	NumFullFrames() int

	// SeekFrame moves the frame position by n (negative is backward).
	// Positive n replays NextFrame n times; negative n requires retained
	// history and fails with ErrSeekOutOfRange beyond it.
	SeekFrame(n int) error

	// NextFrame produces the next frame. A nil frame with a nil error
	// signals end of stream. The returned slice is owned by the stage and
	// only valid until the next tick.
	NextFrame() ([]E, error)
}

// FrameMapper transforms one frame per tick.
type FrameMapper[T, R any] interface {
	// Map transforms in. Returning (nil, nil) means no output this tick.
	// The result is owned by the mapper and only valid until the next call.
	Map(in []T) ([]R, error)

	// OutSize declares the output frame size for a given input frame size.
	OutSize(inSize int) int
}

// Apply attaches mapper to src, producing a new Framed stream.
func Apply[T, R any](src Framed[T], mapper FrameMapper[T, R]) Framed[R] {
	return &mappedFramed[T, R]{source: src, mapper: mapper}
}

// Lift constructs a mapper from the source's full frame size and attaches it.
func Lift[T, R any](src Framed[T], factory func(size int) FrameMapper[T, R]) Framed[R] {
	return Apply(src, factory(src.FullFrameSize()))
}

// TryLift is Lift for fallible mapper constructors.
func TryLift[T, R any](src Framed[T], factory func(size int) (FrameMapper[T, R], error)) (Framed[R], error) {
	mapper, err := factory(src.FullFrameSize())
	if err != nil {
		return nil, err
	}
	return Apply(src, mapper), nil
}

// Map attaches a per-element conversion stage to src.
func Map[T, R any](src Framed[T], f func(T) R) Framed[R] {
	return Apply[T, R](src, &mapFunc[T, R]{
		f:   f,
		buf: make([]R, 0, src.FullFrameSize()),
	})
}

// Transform attaches a per-element in-place mutation stage to src.
func Transform[E any](src Framed[E], f func(*E)) Framed[E] {
	return Apply[E, E](src, transformFunc[E]{f: f})
}

type mappedFramed[T, R any] struct {
	source Framed[T]
	mapper FrameMapper[T, R]
	empty  []R
}

func (m *mappedFramed[T, R]) NextFrame() ([]R, error) {
	frame, err := m.source.NextFrame()
	if err != nil || frame == nil {
		return nil, err
	}

	out, err := m.mapper.Map(frame)
	if err != nil {
		return nil, err
	}
	if out == nil {
		// No output this tick: an empty frame, not end of stream.
		if m.empty == nil {
			m.empty = make([]R, 0)
		}
		return m.empty, nil
	}
	return out, nil
}

func (m *mappedFramed[T, R]) SeekFrame(n int) error {
	return m.source.SeekFrame(n)
}

func (m *mappedFramed[T, R]) SampleRate() int {
	return m.source.SampleRate()
}

func (m *mappedFramed[T, R]) FullFrameSize() int {
	return m.mapper.OutSize(m.source.FullFrameSize())
}

func (m *mappedFramed[T, R]) NumFrames() int {
	return m.source.NumFrames()
}

func (m *mappedFramed[T, R]) NumFramesRemain() int {
	return m.source.NumFramesRemain()
}

func (m *mappedFramed[T, R]) NumFullFrames() int {
	return m.source.NumFullFrames()
}

type mapFunc[T, R any] struct {
	f   func(T) R
	buf []R
}

func (m *mapFunc[T, R]) Map(in []T) ([]R, error) {
	m.buf = m.buf[:0]
	for _, v := range in {
		m.buf = append(m.buf, m.f(v))
	}
	return m.buf, nil
}

func (m *mapFunc[T, R]) OutSize(inSize int) int {
	return inSize
}

type transformFunc[E any] struct {
	f func(*E)
}

func (t transformFunc[E]) Map(in []E) ([]E, error) {
	for i := range in {
		t.f(&in[i])
	}
	return in, nil
}

func (t transformFunc[E]) OutSize(inSize int) int {
	return inSize
}
