// Package sharingproof provides a stand-in for an external proof-of-correct-sharing system, to be used for testing
// purposes only. The "proof" is simply a keyed digest of the transcript, it binds a dealing's public values but
// provides no soundness against a malicious dealer.
package sharingproof

import (
	"crypto/subtle"
	"fmt"

	"github.com/smartcontractkit/cgdkg/internal/nidkg"
	"github.com/smartcontractkit/cgdkg/internal/xof"
)

const proofLength = 32

type Scheme struct{}

var _ nidkg.SharingProver = Scheme{}
var _ nidkg.SharingVerifier = Scheme{}

func proof(transcriptDigest []byte) []byte {
	h := xof.New("test sharing proof")
	h.WriteBytes(transcriptDigest)
	return h.Digest()[:proofLength]
}

func (Scheme) ProveSharing(transcriptDigest []byte) ([]byte, error) {
	return proof(transcriptDigest), nil
}

func (Scheme) VerifySharing(transcriptDigest []byte, p []byte) error {
	if subtle.ConstantTimeCompare(proof(transcriptDigest), p) != 1 {
		return fmt.Errorf("proof does not match transcript")
	}
	return nil
}
