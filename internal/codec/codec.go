package codec

import "fmt"

// Canonical binary encoding used for all cross-process artifacts (most importantly dealings).
// Use the codec.Marshal(...) and codec.Unmarshal(...) functions for marshaling and unmarshaling.
//
// Marshaling implementations write to a Target and panic on malformed state; unmarshaling implementations read from a
// Source and panic on malformed input. The top-level functions always recover such panics and return them as errors.

const IntSize = 4

type Marshaler interface {
	MarshalTo(target Target)
}

type Unmarshaler[T any] interface {
	UnmarshalFrom(source Source) T
}

type Codec[T any] interface {
	Marshaler
	Unmarshaler[T]
}

type Target = *target
type Source = *source

// Marshals the given (non-nil) object into a byte slice.
// Panics during marshaling are recovered and returned as errors.
func Marshal(object Marshaler) ([]byte, error) {
	target := &target{}
	err := target.Marshal(object)
	if err != nil {
		return nil, err
	}
	return target.buffer, nil
}

// Unmarshal the given byte slice into a new instance of type T. The unmarshaler may or may not be implemented by T
// itself. Panics during unmarshaling are recovered and returned as errors. Additionally, this function also checks that
// all input bytes are consumed during unmarshaling, returning an error if any non-read bytes remain.
func Unmarshal[T any](data []byte, unmarshaler Unmarshaler[T]) (result T, err error) {
	src := &source{data}
	result, err = UnmarshalFromSource(src, unmarshaler)
	if err != nil {
		return result, err
	}
	if src.Available() > 0 {
		var zero T
		return zero, fmt.Errorf(
			"unmarshaling did not consume all bytes, %d bytes remaining", src.Available(),
		)
	}
	return result, nil
}

// Unmarshal the given byte slice using the provided function instead of an Unmarshaler instance. Panics during
// unmarshaling are recovered and returned as errors, and trailing non-read bytes are reported as an error.
func UnmarshalUsing[T any](data []byte, unmarshalFunc func(Source) T) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered panic while unmarshaling: %v", r)
		}
	}()

	src := &source{data}
	result = unmarshalFunc(src)

	if src.Available() > 0 {
		var zero T
		return zero, fmt.Errorf(
			"unmarshaling did not consume all bytes, %d bytes remaining", src.Available(),
		)
	}
	return result, nil
}

// Read the next object of type T from the given source using the provided unmarshaler. Panics during unmarshaling are
// recovered and returned as errors. Additional data remaining in the source after unmarshaling is not considered an
// error.
func UnmarshalFromSource[T any](source Source, obj Unmarshaler[T]) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered panic while unmarshaling: %v", r)
		}
	}()
	return obj.UnmarshalFrom(source), nil
}

// Wrapper to read an object of type T from the given source using the provided unmarshaler.
func ReadObject[T any](s Source, u Unmarshaler[T]) T {
	return u.UnmarshalFrom(s)
}
