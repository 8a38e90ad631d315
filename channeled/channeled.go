// Package channeled provides the mono/stereo tagged container that flows
// through every stage of the analysis pipeline.
//
// A Value is either mono (one payload) or stereo (left and right payloads).
// Every value inside one frame shares the same variant; combining values of
// different variants fails with [ErrChannelMismatch] rather than coercing.
package channeled

import "fmt"

// Value holds one mono or stereo sample payload.
type Value[T any] struct {
	left   T
	right  T
	stereo bool
}

// Mono returns a single-channel value.
func Mono[T any](v T) Value[T] {
	return Value[T]{left: v}
}

// Stereo returns a two-channel value.
func Stereo[T any](left, right T) Value[T] {
	return Value[T]{left: left, right: right, stereo: true}
}

// IsStereo reports whether the value carries two channels.
func (v Value[T]) IsStereo() bool {
	return v.stereo
}

// Channels returns 1 for mono and 2 for stereo.
func (v Value[T]) Channels() int {
	if v.stereo {
		return 2
	}
	return 1
}

// Left returns the left channel payload, or the mono payload.
func (v Value[T]) Left() T {
	return v.left
}

// Right returns the right channel payload. For mono values it returns the
// mono payload.
func (v Value[T]) Right() T {
	if v.stereo {
		return v.right
	}
	return v.left
}

// Map applies f to each channel and returns the result, preserving the
// variant.
func (v Value[T]) Map(f func(T) T) Value[T] {
	if v.stereo {
		return Stereo(f(v.left), f(v.right))
	}
	return Mono(f(v.left))
}

// Transform applies f to each channel in place.
func (v *Value[T]) Transform(f func(T) T) {
	v.left = f(v.left)
	if v.stereo {
		v.right = f(v.right)
	}
}

// ForEach calls f once per channel.
func (v Value[T]) ForEach(f func(T)) {
	f(v.left)
	if v.stereo {
		f(v.right)
	}
}

func (v Value[T]) String() string {
	if v.stereo {
		return fmt.Sprintf("(%v, %v)", v.left, v.right)
	}
	return fmt.Sprint(v.left)
}

// Map applies f to each channel of v, producing a value of a different
// payload type with the same variant.
func Map[T, R any](v Value[T], f func(T) R) Value[R] {
	if v.IsStereo() {
		return Stereo(f(v.Left()), f(v.Right()))
	}
	return Mono(f(v.Left()))
}

// ZipWith combines a and b channel-wise through f. It fails with
// [ErrChannelMismatch] when the variants differ.
func ZipWith[A, B, R any](a Value[A], b Value[B], f func(A, B) R) (Value[R], error) {
	if a.IsStereo() != b.IsStereo() {
		return Value[R]{}, ErrChannelMismatch
	}
	if a.IsStereo() {
		return Stereo(f(a.Left(), b.Left()), f(a.Right(), b.Right())), nil
	}
	return Mono(f(a.Left(), b.Left())), nil
}
