package pipeline

// SlidingFramer turns a sample stream into overlapping fixed-size frames
// advanced by a fixed stride. Only full-size frames are emitted; a trailing
// partial frame signals end of stream.
type SlidingFramer[T any] struct {
	source Samples[T]
	buf    []T
	size   int
	stride int
}

// NewSlidingFramer returns a framer producing frames of the given size,
// advancing by stride samples per tick. A stride below 1 is raised to 1.
func NewSlidingFramer[T any](source Samples[T], size, stride int) *SlidingFramer[T] {
	if stride < 1 {
		stride = 1
	}
	return &SlidingFramer[T]{
		source: source,
		buf:    make([]T, 0, size),
		size:   size,
		stride: stride,
	}
}

// NextFrame evicts the oldest stride samples, refills from the source, and
// returns the buffer. The returned slice is reused on the next tick.
func (s *SlidingFramer[T]) NextFrame() ([]T, error) {
	if len(s.buf) > 0 {
		if len(s.buf) < s.stride {
			s.buf = s.buf[:0]
			return nil, nil
		}
		n := copy(s.buf, s.buf[s.stride:])
		s.buf = s.buf[:n]
	}

	for len(s.buf) < s.size {
		v, ok, err := s.source.NextSample()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		s.buf = append(s.buf, v)
	}

	if len(s.buf) < s.size {
		s.buf = s.buf[:0]
		return nil, nil
	}
	return s.buf, nil
}

// SeekFrame moves the frame position by n. Forward seeks replay NextFrame n
// times; backward seeks drop the buffer and rewind the source to the start
// of the target frame, so the next tick refills a contiguous frame.
func (s *SlidingFramer[T]) SeekFrame(n int) error {
	if n == 0 {
		return nil
	}

	if n > 0 {
		for i := 0; i < n; i++ {
			frame, err := s.NextFrame()
			if err != nil {
				return err
			}
			if frame == nil {
				return ErrSeekOutOfRange
			}
		}
		return nil
	}

	// The source cursor sits len(buf) samples past the start of the last
	// emitted frame; seeking back n frames lands stride samples earlier
	// per frame beyond the first.
	back := len(s.buf) + (-n-1)*s.stride
	s.buf = s.buf[:0]
	if back == 0 {
		return nil
	}
	return s.source.SeekSamples(-back)
}

// SampleRate returns the source sample rate.
func (s *SlidingFramer[T]) SampleRate() int {
	return s.source.SampleRate()
}

// FullFrameSize returns the configured frame size.
func (s *SlidingFramer[T]) FullFrameSize() int {
	return s.size
}

// NumFrames returns the total number of frames the stream can produce.
func (s *SlidingFramer[T]) NumFrames() int {
	return s.source.NumSamples() / s.stride
}

// NumFramesRemain returns the number of frames not yet produced.
func (s *SlidingFramer[T]) NumFramesRemain() int {
	return s.source.NumSamplesRemain() / s.stride
}

// NumFullFrames returns the number of full-size frames the stream can
// produce.
func (s *SlidingFramer[T]) NumFullFrames() int {
	samples := s.source.NumSamples()
	if samples < s.size {
		return 0
	}
	return (samples-s.size)/s.stride + 1
}
