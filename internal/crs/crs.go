// Package crs derives the common reference string for a NIDKG instance, i.e., the independent generator h used for
// the polynomial commitments. The generator is derived deterministically from the instance ID and a domain separation
// tag via rejection sampling of compressed point encodings, so that no party knows its discrete logarithm with
// respect to the curve's base point.
package crs

import (
	"fmt"

	"github.com/smartcontractkit/cgdkg/internal/dkgtypes"
	"github.com/smartcontractkit/cgdkg/internal/math"
	"github.com/smartcontractkit/cgdkg/internal/xof"
)

// Default domain separation tag for the generator derivation, matching the protocol's wire-level domain.
const DefaultDomainTag = "cgdkg"

const maxSamplingAttempts = 1024

// NewGenerator derives the commitment generator h for the given curve and instance ID.
// The same (curve, iid, domainTag) triple always yields the same generator.
//
// Only curves with a compressed short-Weierstrass encoding are supported; for Edwards25519 an error is returned, as
// uniform sampling there requires a different (hash-to-curve) construction.
func NewGenerator(curve math.Curve, iid dkgtypes.InstanceID, domainTag string) (math.Point, error) {
	switch curve {
	case math.P256, math.P384, math.Secp256k1:
		// supported
	default:
		return nil, fmt.Errorf("generator derivation is not supported for curve %s", curve.Name())
	}

	h := xof.New(domainTag + " v1 generator")
	h.WriteString(string(iid))
	h.WriteString(curve.Name())

	buf := make([]byte, curve.PointBytes())
	candidate := curve.Generator().New()
	for attempt := 0; attempt < maxSamplingAttempts; attempt++ {
		_, _ = h.Read(buf)

		// Force a valid compressed-point prefix, the remaining bytes are the candidate x-coordinate.
		buf[0] = 0x02 | (buf[0] & 0x01)

		if _, err := candidate.SetBytes(buf); err != nil {
			continue // No point with this x-coordinate, resample.
		}
		if candidate.Equal(curve.Identity()) {
			continue
		}
		return candidate, nil
	}

	// With rejection probability ~1/2 per attempt, reaching this is statistically impossible.
	return nil, fmt.Errorf("failed to derive generator for curve %s", curve.Name())
}
