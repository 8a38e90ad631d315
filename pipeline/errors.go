package pipeline

import "errors"

// ErrSeekOutOfRange reports a seek beyond retained history or past the end
// of the stream. It is recoverable: the caller decides whether to clamp or
// abort.
var ErrSeekOutOfRange = errors.New("pipeline: seek out of range")
