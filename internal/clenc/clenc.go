// Package clenc implements the encryption of secret shares towards the receivers of a dealing. A share is masked by a
// scalar derived from an ephemeral ECDH exchange with the receiver's P-256 encryption key and authenticated by a short
// tag, so that decryption of a modified ciphertext reliably fails. Ciphertexts are opaque byte strings of a fixed,
// per-curve length.
package clenc

import (
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/smartcontractkit/cgdkg/internal/dkgtypes"
	"github.com/smartcontractkit/cgdkg/internal/math"
	"github.com/smartcontractkit/cgdkg/internal/xof"
)

const (
	padDST = "cgdkg v1 share encryption pad"
	tagDST = "cgdkg v1 share encryption tag"

	// TagLength is the length of the authentication tag appended to each ciphertext.
	TagLength = 16
)

// Ciphertext holds the encryption of a single secret share towards a single receiver:
//
//	ephemeral public key (33 bytes) ‖ masked share (curve.ScalarBytes()) ‖ tag (16 bytes)
type Ciphertext []byte

// DecryptionError indicates that a ciphertext could not be decrypted with the given keyring, either because it is
// malformed or because it was not produced for the keyring's public key.
type DecryptionError struct {
	Err error
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("failed to decrypt share: %v", e.Err)
}

func (e *DecryptionError) Unwrap() error {
	return e.Err
}

// CiphertextLength returns the expected ciphertext length for shares over the given curve.
func CiphertextLength(curve math.Curve) int {
	return dkgtypes.P256CompressedPointLength + curve.ScalarBytes() + TagLength
}

// Derives the masking scalar from the ECDH shared secret and the transcript of public values.
func padScalar(
	curve math.Curve, ss dkgtypes.P256ECDHSharedSecret, ephemeralPk []byte, receiverPk dkgtypes.P256PublicKey,
) (math.Scalar, error) {
	h := xof.New(padDST)
	h.WriteBytes(ss)
	h.WriteBytes(ephemeralPk)
	h.WriteBytes(receiverPk.Bytes())
	h.WriteString(curve.Name())
	return curve.Scalar().SetRandom(h)
}

func authTag(
	ss dkgtypes.P256ECDHSharedSecret, ephemeralPk []byte, receiverPk dkgtypes.P256PublicKey, maskedShare []byte,
) []byte {
	h := xof.New(tagDST)
	h.WriteBytes(ss)
	h.WriteBytes(ephemeralPk)
	h.WriteBytes(receiverPk.Bytes())
	h.WriteBytes(maskedShare)
	return h.Digest()[:TagLength]
}

// Encrypt encrypts the share (a scalar over the given curve) towards the receiver holding the secret key for ek.
// A fresh ephemeral key pair is drawn from rand for every call.
func Encrypt(curve math.Curve, ek dkgtypes.P256PublicKey, share math.Scalar, rand io.Reader) (Ciphertext, error) {
	if !ek.IsValid() {
		return nil, fmt.Errorf("cannot encrypt share: invalid receiver public key")
	}

	ephemeral, err := dkgtypes.NewP256KeyPair(rand)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral key pair: %w", err)
	}

	ss, err := ephemeral.SecretKey.ECDH(ek)
	if err != nil {
		return nil, fmt.Errorf("failed to compute shared secret: %w", err)
	}

	pad, err := padScalar(curve, ss, ephemeral.PublicKey.Bytes(), ek)
	if err != nil {
		return nil, fmt.Errorf("failed to derive masking scalar: %w", err)
	}

	maskedShare := share.Clone().Add(pad).Bytes()
	tag := authTag(ss, ephemeral.PublicKey.Bytes(), ek, maskedShare)

	result := make(Ciphertext, 0, CiphertextLength(curve))
	result = append(result, ephemeral.PublicKey.Bytes()...)
	result = append(result, maskedShare...)
	result = append(result, tag...)
	return result, nil
}

// Decrypt decrypts the ciphertext using the receiver's keyring and returns the recovered share over the given curve.
// Any failure, including a failed tag check, is reported as a *DecryptionError.
func Decrypt(keyring dkgtypes.P256Keyring, ct Ciphertext, curve math.Curve) (math.Scalar, error) {
	if len(ct) != CiphertextLength(curve) {
		return nil, &DecryptionError{fmt.Errorf(
			"invalid ciphertext length: %d, expected %d", len(ct), CiphertextLength(curve),
		)}
	}

	ephemeralPkBytes := ct[:dkgtypes.P256CompressedPointLength]
	maskedShare := ct[dkgtypes.P256CompressedPointLength : len(ct)-TagLength]
	tag := ct[len(ct)-TagLength:]

	ephemeralPk, err := dkgtypes.NewP256PublicKey(ephemeralPkBytes)
	if err != nil {
		return nil, &DecryptionError{err}
	}

	ss, err := keyring.ECDH(ephemeralPk)
	if err != nil {
		return nil, &DecryptionError{err}
	}

	expectedTag := authTag(ss, ephemeralPkBytes, keyring.PublicKey(), maskedShare)
	if subtle.ConstantTimeCompare(tag, expectedTag) != 1 {
		return nil, &DecryptionError{fmt.Errorf("authentication tag mismatch")}
	}

	masked, err := curve.Scalar().SetBytes(maskedShare)
	if err != nil {
		return nil, &DecryptionError{fmt.Errorf("invalid masked share encoding: %w", err)}
	}

	pad, err := padScalar(curve, ss, ephemeralPkBytes, keyring.PublicKey())
	if err != nil {
		return nil, &DecryptionError{fmt.Errorf("failed to derive masking scalar: %w", err)}
	}

	return masked.Subtract(pad), nil
}
