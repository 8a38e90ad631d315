package channeled

import "errors"

// ErrChannelMismatch reports a mono value combined with a stereo value.
// Mid-stream it indicates an upstream data-integrity violation and is fatal
// for the pipeline instance that observes it.
var ErrChannelMismatch = errors.New("channeled: mixed mono and stereo values")
