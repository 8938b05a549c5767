package nidkg

import (
	"github.com/smartcontractkit/cgdkg/cgdkgtypes"
	"github.com/smartcontractkit/cgdkg/internal/clenc"
	"github.com/smartcontractkit/cgdkg/internal/math"
	"github.com/smartcontractkit/cgdkg/internal/xof"
)

// The non-interactive proof of correct sharing is produced and checked by an external proof system. The core only
// binds the proof to a dealing's public transcript (instance parameters, commitment, receiver keys and ciphertexts)
// and treats the proof itself as an opaque byte string.

type SharingProver = cgdkgtypes.SharingProver
type SharingVerifier = cgdkgtypes.SharingVerifier

const transcriptDST = "cgdkg v1 sharing transcript"

// transcriptDigest computes the digest binding a dealing's public values to the instance parameters. Both the prover
// (during dealing creation) and the verifier (during validation) operate on this digest.
func (d *dkg) transcriptDigest(commitment math.PolynomialCommitment, ciphertexts []clenc.Ciphertext) []byte {
	h := xof.New(transcriptDST)
	h.WriteString(string(d.iid))
	h.WriteString(d.curve.Name())
	h.WriteBytes(d.generator.Bytes())
	h.WriteInt(d.t)
	h.WriteInt(d.n)
	for _, ek := range d.receiverKeys {
		h.WriteBytes(ek.Bytes())
	}
	for _, Cₖ := range commitment {
		h.WriteBytes(Cₖ.Bytes())
	}
	for _, ct := range ciphertexts {
		h.WriteBytes(ct)
	}
	return h.Digest()
}
