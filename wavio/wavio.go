// Package wavio loads RIFF/WAVE files into pipeline sample sources.
package wavio

import (
	"fmt"
	"os"

	"github.com/cwbudde/wav"

	"github.com/cwbudde/algo-viz/channeled"
	"github.com/cwbudde/algo-viz/pipeline"
)

// File is a fully decoded wav file serving channeled integer samples.
// Stereo files yield stereo values, mono files mono values; other channel
// layouts are rejected at open time.
type File struct {
	data     []int // interleaved
	rate     int
	channels int
	bitDepth int
	at       int
}

// Open decodes the wav file at path into memory.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavio: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wavio: %s is not a valid wav file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio: decode %s: %w", path, err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("wavio: %s has %d channels, only mono and stereo are supported", path, channels)
	}

	return &File{
		data:     buf.Data,
		rate:     buf.Format.SampleRate,
		channels: channels,
		bitDepth: int(dec.BitDepth),
	}, nil
}

// SampleRate returns the file sample rate in Hz.
func (f *File) SampleRate() int {
	return f.rate
}

// Channels returns 1 or 2.
func (f *File) Channels() int {
	return f.channels
}

// BitDepth returns the source PCM bit depth.
func (f *File) BitDepth() int {
	return f.bitDepth
}

// NumSamples returns the number of channeled samples.
func (f *File) NumSamples() int {
	return len(f.data) / f.channels
}

// NumSamplesRemain returns the samples not yet produced.
func (f *File) NumSamplesRemain() int {
	return f.NumSamples() - f.at
}

// SeekSamples moves the cursor by n channeled samples.
func (f *File) SeekSamples(n int) error {
	target := f.at + n
	if target < 0 || target > f.NumSamples() {
		return pipeline.ErrSeekOutOfRange
	}
	f.at = target
	return nil
}

// NextSample returns the next channeled sample, or ok=false at end of
// stream.
func (f *File) NextSample() (channeled.Value[int], bool, error) {
	if f.at >= f.NumSamples() {
		return channeled.Value[int]{}, false, nil
	}

	i := f.at * f.channels
	f.at++
	if f.channels == 2 {
		return channeled.Stereo(f.data[i], f.data[i+1]), true, nil
	}
	return channeled.Mono(f.data[i]), true, nil
}

// Floats adapts the file to float64 samples in [-1, 1], scaled by the
// source bit depth.
func (f *File) Floats() pipeline.Samples[channeled.Value[float64]] {
	scale := 1 / float64(int(1)<<(f.bitDepth-1))
	return pipeline.MapSamples(pipeline.Samples[channeled.Value[int]](f),
		func(v channeled.Value[int]) channeled.Value[float64] {
			return channeled.Map(v, func(s int) float64 {
				return float64(s) * scale
			})
		})
}
