package nidkg

import (
	"fmt"

	"github.com/smartcontractkit/cgdkg/internal/clenc"
	"github.com/smartcontractkit/cgdkg/internal/codec"
	"github.com/smartcontractkit/cgdkg/internal/math"
)

// UnverifiedDealing is one dealer's full contribution to a NIDKG round: a per-coefficient commitment to the dealer's
// secret polynomial, one ciphertext per receiver (in receiver-index order), and the proof binding the ciphertexts to
// the commitment. A dealing is created once, is immutable, and must pass validation (see ValidateDealing) before it
// may be used for aggregation.
type UnverifiedDealing struct {
	commitment  math.PolynomialCommitment
	ciphertexts []clenc.Ciphertext
	proof       []byte
}

// VerifiedDealing wraps a dealing that passed validation, including the sharing proof check. Only verified dealings
// are accepted by Aggregate.
type VerifiedDealing struct {
	dealing UnverifiedDealing
}

// NewUnverifiedDealing assembles a dealing from its parts, e.g., when receiving the parts from an external dealer
// implementation. The slice index of each ciphertext is the receiver index it addresses; a nil entry marks a receiver
// the dealing does not address and is rejected by validation.
func NewUnverifiedDealing(
	commitment math.PolynomialCommitment, ciphertexts []clenc.Ciphertext, proof []byte,
) *UnverifiedDealing {
	return &UnverifiedDealing{commitment, ciphertexts, proof}
}

// Commitment returns the dealing's polynomial commitment. The caller must not modify the returned points.
func (d *UnverifiedDealing) Commitment() math.PolynomialCommitment {
	return d.commitment
}

// Ciphertext returns the ciphertext addressed to the receiver with the given index.
func (d *UnverifiedDealing) Ciphertext(receiver int) (clenc.Ciphertext, error) {
	if receiver < 0 || receiver >= len(d.ciphertexts) {
		return nil, fmt.Errorf("receiver index %d out of range [0, %d)", receiver, len(d.ciphertexts))
	}
	return d.ciphertexts[receiver], nil
}

// Proof returns the dealing's opaque sharing proof.
func (d *UnverifiedDealing) Proof() []byte {
	return d.proof
}

// AsUnverified drops the verified status of a dealing, e.g., for re-serialization.
func (d *VerifiedDealing) AsUnverified() *UnverifiedDealing {
	return &d.dealing
}

func (d *VerifiedDealing) Commitment() math.PolynomialCommitment {
	return d.dealing.commitment
}

// Wire format of a dealing, all fields fixed and mandatory:
//
//	curve index (1 byte)
//	threshold t (4 bytes)
//	number of receivers n (4 bytes)
//	t commitment points (compressed encoding each)
//	n length-prefixed ciphertexts (in receiver-index order)
//	length-prefixed sharing proof

func (d *UnverifiedDealing) MarshalTo(target codec.Target) {
	if len(d.commitment) == 0 {
		panic("cannot marshal dealing with empty commitment")
	}

	d.commitment[0].Curve().MarshalTo(target)
	target.WriteInt(len(d.commitment))
	target.WriteInt(len(d.ciphertexts))
	for _, Cₖ := range d.commitment {
		Cₖ.MarshalTo(target)
	}
	for _, ct := range d.ciphertexts {
		target.WriteLengthPrefixedBytes(ct)
	}
	target.WriteLengthPrefixedBytes(d.proof)
}

func (d *VerifiedDealing) MarshalTo(target codec.Target) {
	d.dealing.MarshalTo(target)
}

func unmarshalDealingFrom(source codec.Source) *UnverifiedDealing {
	curve := math.UnmarshalCurve(source)
	t := source.ReadNonNegativeInt()
	n := source.ReadNonNegativeInt()

	commitment := make(math.PolynomialCommitment, t)
	for k := range commitment {
		commitment[k] = curve.Point().UnmarshalFrom(source)
	}

	ciphertexts := make([]clenc.Ciphertext, n)
	for i := range ciphertexts {
		ciphertexts[i] = source.ReadLengthPrefixedBytes()
	}

	proof := source.ReadLengthPrefixedBytes()
	return &UnverifiedDealing{commitment, ciphertexts, proof}
}

// UnmarshalDealing decodes a dealing from its canonical wire format. The result is unverified and must pass
// validation before use.
func UnmarshalDealing(data []byte) (*UnverifiedDealing, error) {
	return codec.UnmarshalUsing(data, unmarshalDealingFrom)
}
