// Package cgdkgtypes defines the public types of the NIDKG library: instance identifiers, byte-level key types and
// the keyring interface a hosting application implements to guard a receiver's long-lived P-256 secret key.
package cgdkgtypes

import (
	"context"
	"fmt"
)

// The InstanceID is a string that uniquely identifies a NIDKG instance.
// Use MakeInstanceID to create an InstanceID from an application identifier and a round identifier.
type InstanceID string

func MakeInstanceID(application string, round string) InstanceID {
	return InstanceID(fmt.Sprintf("cgdkg/v1/%s/%s", application, round))
}

// 33 bytes is the length of a compressed P-256 point (other than infinity), serialized according to SEC 1, Version
// 2.0, Section 2.3.3. This matches the representation chosen by the filippo.io/nistec package suggested for
// implementing the keyring. The length of 33 bytes is enforced, points at infinity are not considered valid public
// keys.
const (
	P256CompressedPointLength      = 33
	P256ParticipantPublicKeyLength = P256CompressedPointLength
)

// 32 bytes is the length of the X-coordinate of a P-256 point, as returned by the ECDH function.
const P256ECDHSharedSecretLength = 32

type P256ParticipantPublicKey []byte
type P256ECDHSharedSecret []byte

// P256Keyring is implemented by the hosting application to guard a participant's long-lived P-256 secret key. The
// secret key itself never crosses this interface. For a ready-to-use implementation see the p256keyring package.
type P256Keyring interface {
	// Returns the public key associated with the keyring's internal P256 secret key.
	PublicKey() P256ParticipantPublicKey

	// Computes the shared secret between the keyring's internal secret key (corresponding to keyring.PublicKey())
	// and the public key given as argument to this function. The result must be the 32-byte x-coordinate of the
	// scalar multiplication of the secret key and the given public key.
	ECDH(publicKey P256ParticipantPublicKey) (sharedSecret P256ECDHSharedSecret, err error)
}

// SharingProver is implemented by the external proof system producing the non-interactive proof of correct sharing
// over a dealing's transcript digest.
type SharingProver interface {
	// ProveSharing produces a proof over the given transcript digest, attesting that each ciphertext in the dealing
	// decrypts to the committed polynomial's evaluation at the addressed receiver's index.
	ProveSharing(transcriptDigest []byte) ([]byte, error)
}

// SharingVerifier is implemented by the external proof system checking a proof of correct sharing.
type SharingVerifier interface {
	// VerifySharing checks the given proof against the transcript digest. A nil return value means the proof is valid.
	VerifySharing(transcriptDigest []byte, proof []byte) error
}

// DealingStore abstracts the persistence of broadcast dealings, keyed by instance ID and dealer index. A hosting
// application provides an implementation backed by its transport or database layer; implementations must be safe for
// concurrent use.
type DealingStore interface {
	// WriteDealing persists the serialized dealing of the given dealer for the given instance.
	WriteDealing(ctx context.Context, iid InstanceID, dealer int, dealing []byte) error

	// ReadDealings returns all persisted dealings for the given instance, keyed by dealer index.
	ReadDealings(ctx context.Context, iid InstanceID) (map[int][]byte, error)
}
