package pipeline

// SliceSource serves samples from an in-memory slice. It backs tests and
// synthetic demos; file-backed sources satisfy [Samples] the same way.
type SliceSource[T any] struct {
	data []T
	rate int
	at   int
}

// NewSliceSource returns a source over data at the given sample rate.
func NewSliceSource[T any](data []T, sampleRate int) *SliceSource[T] {
	return &SliceSource[T]{data: data, rate: sampleRate}
}

// SampleRate returns the configured sample rate.
func (s *SliceSource[T]) SampleRate() int {
	return s.rate
}

// NumSamples returns the total sample count.
func (s *SliceSource[T]) NumSamples() int {
	return len(s.data)
}

// NumSamplesRemain returns the number of samples not yet produced.
func (s *SliceSource[T]) NumSamplesRemain() int {
	return len(s.data) - s.at
}

// SeekSamples moves the cursor by n samples.
func (s *SliceSource[T]) SeekSamples(n int) error {
	target := s.at + n
	if target < 0 || target > len(s.data) {
		return ErrSeekOutOfRange
	}
	s.at = target
	return nil
}

// NextSample returns the next sample, or ok=false at end of stream.
func (s *SliceSource[T]) NextSample() (T, bool, error) {
	var zero T
	if s.at >= len(s.data) {
		return zero, false, nil
	}
	v := s.data[s.at]
	s.at++
	return v, true, nil
}

// MapSamples adapts src by converting every sample through f. The analysis
// pipeline uses it as its entry stage, converting raw container samples to
// the working numeric type.
func MapSamples[T, R any](src Samples[T], f func(T) R) Samples[R] {
	return &mappedSamples[T, R]{source: src, f: f}
}

type mappedSamples[T, R any] struct {
	source Samples[T]
	f      func(T) R
}

func (m *mappedSamples[T, R]) SampleRate() int {
	return m.source.SampleRate()
}

func (m *mappedSamples[T, R]) NumSamples() int {
	return m.source.NumSamples()
}

func (m *mappedSamples[T, R]) NumSamplesRemain() int {
	return m.source.NumSamplesRemain()
}

func (m *mappedSamples[T, R]) SeekSamples(n int) error {
	return m.source.SeekSamples(n)
}

func (m *mappedSamples[T, R]) NextSample() (R, bool, error) {
	var zero R
	v, ok, err := m.source.NextSample()
	if err != nil || !ok {
		return zero, ok, err
	}
	return m.f(v), true, nil
}
