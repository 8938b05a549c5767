package nidkg

import (
	"fmt"

	"github.com/smartcontractkit/cgdkg/internal/math"
)

var _ fmt.Stringer = &Result{}
var _ fmt.GoStringer = &Result{}

// Result is one receiver's output of folding a set of dealings: the receiver's secret key share, the group public
// key, every receiver's partial public key, and the combined commitment the public values were derived from.
//
// The secret key share is receiver-private. Result deliberately implements no marshaling, persisting or transporting
// the share alongside the public fields is never valid.
type Result struct {
	secretKeyShare     math.Scalar
	groupPublicKey     math.Point
	partialPublicKeys  []math.Point
	combinedCommitment math.PolynomialCommitment
}

// SecretKeyShare returns the receiver's share of the joint secret, i.e., the sum of the decrypted shares of all
// folded dealings. It must never be logged.
func (r *Result) SecretKeyShare() math.Scalar {
	return r.secretKeyShare
}

// GroupPublicKey returns the joint public key, equal to the constant term of the combined commitment.
func (r *Result) GroupPublicKey() math.Point {
	return r.groupPublicKey
}

// PartialPublicKeys returns the partial public key of every receiver, indexed by receiver index.
// PartialPublicKeys()[i] is the combined commitment evaluated at x = i + 1.
func (r *Result) PartialPublicKeys() []math.Point {
	return r.partialPublicKeys
}

// CombinedCommitment returns the pointwise sum of the folded dealings' commitments.
func (r *Result) CombinedCommitment() math.PolynomialCommitment {
	return r.combinedCommitment
}

// Implement Stringer and GoStringer interfaces to ensure that the secret key share is never accidentally logged.
func (r *Result) String() string {
	return r.GoString()
}

// Implement Stringer and GoStringer interfaces to ensure that the secret key share is never accidentally logged.
func (r *Result) GoString() string {
	return fmt.Sprintf("nidkg.Result{groupPublicKey: \"%x\"}", r.groupPublicKey.Bytes())
}
