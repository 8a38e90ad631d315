package pipeline

import "github.com/cwbudde/algo-viz/channeled"

// Channelwise adapts a single-channel FrameMapper to channeled frames by
// de-interleaving each frame into per-channel buffers and running the
// mapper once per channel. The variant observed on the first frame is fixed
// for the adapter's lifetime; a later mismatch fails with
// [channeled.ErrChannelMismatch].
type Channelwise struct {
	mapper FrameMapper[float64, float64]

	inL, inR []float64
	tmp      []float64
	out      []channeled.Value[float64]

	stereo bool
	seen   bool
}

// NewChannelwise wraps mapper for channeled frames of up to inSize values.
func NewChannelwise(mapper FrameMapper[float64, float64], inSize int) *Channelwise {
	outSize := mapper.OutSize(inSize)
	return &Channelwise{
		mapper: mapper,
		inL:    make([]float64, 0, inSize),
		inR:    make([]float64, 0, inSize),
		tmp:    make([]float64, 0, outSize),
		out:    make([]channeled.Value[float64], 0, outSize),
	}
}

// Map runs the wrapped mapper over each channel of in.
func (c *Channelwise) Map(in []channeled.Value[float64]) ([]channeled.Value[float64], error) {
	if len(in) == 0 {
		return c.out[:0], nil
	}

	if !c.seen {
		c.stereo = in[0].IsStereo()
		c.seen = true
	}

	c.inL = c.inL[:0]
	c.inR = c.inR[:0]
	for _, v := range in {
		if v.IsStereo() != c.stereo {
			return nil, channeled.ErrChannelMismatch
		}
		c.inL = append(c.inL, v.Left())
		if c.stereo {
			c.inR = append(c.inR, v.Right())
		}
	}

	outL, err := c.mapper.Map(c.inL)
	if err != nil {
		return nil, err
	}
	if outL == nil {
		return nil, nil
	}
	// The mapper reuses its output buffer, so the left channel must be
	// copied out before the right channel runs.
	c.tmp = append(c.tmp[:0], outL...)

	var outR []float64
	if c.stereo {
		outR, err = c.mapper.Map(c.inR)
		if err != nil {
			return nil, err
		}
		if outR == nil {
			return nil, nil
		}
	}

	c.out = c.out[:0]
	for i, l := range c.tmp {
		if c.stereo {
			c.out = append(c.out, channeled.Stereo(l, outR[i]))
		} else {
			c.out = append(c.out, channeled.Mono(l))
		}
	}
	return c.out, nil
}

// OutSize declares the wrapped mapper's output size.
func (c *Channelwise) OutSize(inSize int) int {
	return c.mapper.OutSize(inSize)
}
