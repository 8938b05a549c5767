package nidkg

import "fmt"

// Errors surfaced during dealing validation. Each variant carries enough context for the surrounding orchestration to
// exclude a specific dealer's submission and continue the round with the remaining dealings.

// InvalidThresholdError indicates that a threshold t is outside the supported range 1 <= t <= n, or that a dealing's
// commitment length does not match the instance's threshold.
type InvalidThresholdError struct {
	Threshold         int
	NumberOfReceivers int
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("invalid threshold %d for %d receivers", e.Threshold, e.NumberOfReceivers)
}

// MisnumberedReceiverError indicates that the receiver indices addressed by a dealing's ciphertexts are not exactly
// the contiguous range 0, 1, ..., NumberOfReceivers - 1. ReceiverIndex is the first index found to be missing or out
// of range.
type MisnumberedReceiverError struct {
	ReceiverIndex     int
	NumberOfReceivers int
}

func (e *MisnumberedReceiverError) Error() string {
	return fmt.Sprintf(
		"misnumbered receiver index %d, expected contiguous indices 0..%d",
		e.ReceiverIndex, e.NumberOfReceivers-1,
	)
}

// MalformedReceiverKeyError indicates that the encryption public key of the receiver at the given index failed its
// well-formedness check. The underlying error is retained.
type MalformedReceiverKeyError struct {
	ReceiverIndex int
	Err           error
}

func (e *MalformedReceiverKeyError) Error() string {
	return fmt.Sprintf("malformed public key for receiver %d: %v", e.ReceiverIndex, e.Err)
}

func (e *MalformedReceiverKeyError) Unwrap() error {
	return e.Err
}

// InvalidProofError indicates that a dealing's sharing proof did not verify against the dealing's commitment and
// ciphertexts.
type InvalidProofError struct {
	Err error
}

func (e *InvalidProofError) Error() string {
	return fmt.Sprintf("invalid sharing proof: %v", e.Err)
}

func (e *InvalidProofError) Unwrap() error {
	return e.Err
}

// InternalError wraps a lower-layer fault not attributable to caller input.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %v", e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}
