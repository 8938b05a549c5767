// Package nidkg implements the dealer-side and receiver-side core of a non-interactive distributed key generation
// protocol. Each dealer independently commits to a secret polynomial and encrypts one evaluation per receiver; each
// receiver validates the broadcast dealings and folds them into its own secret key share, the group public key and
// every receiver's partial public key. No interaction between the parties is required beyond the broadcast of the
// dealings themselves.
package nidkg

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/smartcontractkit/cgdkg/internal/clenc"
	"github.com/smartcontractkit/cgdkg/internal/crs"
	"github.com/smartcontractkit/cgdkg/internal/dkgtypes"
	"github.com/smartcontractkit/cgdkg/internal/math"
)

type NIDKG interface {
	internal() *dkg

	// Returns the elliptic curve the secret sharing is performed over.
	Curve() math.Curve

	// Returns a copy of the commitment generator derived for this instance.
	Generator() math.Point

	// Deal draws a fresh random secret and produces a dealing for it: a commitment to a random polynomial of degree
	// t - 1 with the secret as constant term, one encrypted evaluation per receiver, and the sharing proof.
	Deal(rand io.Reader) (*VerifiedDealing, error)

	// DealSecret produces a dealing for the given secret, e.g., when resharing an existing secret.
	// The secret must be a scalar over the instance's curve.
	DealSecret(s math.Scalar, rand io.Reader) (*VerifiedDealing, error)

	// ValidateDealing checks a dealing's structure against the instance parameters and verifies its sharing proof.
	// Validation is pure, it inspects public values only and never touches secret key material. A dealing that fails
	// validation must not be used for aggregation.
	ValidateDealing(d *UnverifiedDealing) (*VerifiedDealing, error)

	// Aggregate folds the given set of validated dealings into this receiver's key material. The keyring identifies
	// the caller, its public key must match one of the instance's receiver keys. Aggregation is all-or-nothing: if
	// the decryption of any dealing's ciphertext for this receiver fails, no partial result is returned.
	Aggregate(ctx context.Context, keyring dkgtypes.P256Keyring, dealings []*VerifiedDealing) (*Result, error)
}

type dkg struct {
	curve        math.Curve
	iid          dkgtypes.InstanceID
	t            int // secret sharing threshold, number of polynomial coefficients
	n            int // number of receivers
	generator    math.Point
	receiverKeys []dkgtypes.P256PublicKey
	prover       SharingProver
	verifier     SharingVerifier
}

var _ NIDKG = &dkg{}

// New initializes a NIDKG instance for the given curve, instance ID and receiver set. The commitment generator is
// derived from the instance ID and the domain tag (see crs.DefaultDomainTag), so that independent protocol instances
// use independent generators. Receiver keys are passed in their raw compressed encoding and checked for
// well-formedness here.
func New(
	curve math.Curve,
	iid dkgtypes.InstanceID,
	domainTag string,
	t int,
	receiverKeys [][]byte,
	prover SharingProver,
	verifier SharingVerifier,
) (NIDKG, error) {
	n := len(receiverKeys)
	if t < 1 || t > n {
		return nil, &InvalidThresholdError{t, n}
	}
	if verifier == nil {
		return nil, fmt.Errorf("a sharing proof verifier is required")
	}

	generator, err := crs.NewGenerator(curve, iid, domainTag)
	if err != nil {
		return nil, &InternalError{err}
	}

	eks := make([]dkgtypes.P256PublicKey, n)
	for i, raw := range receiverKeys {
		ek, err := dkgtypes.NewP256PublicKey(raw)
		if err != nil {
			return nil, &MalformedReceiverKeyError{i, err}
		}
		eks[i] = ek
	}

	return &dkg{curve, iid, t, n, generator, eks, prover, verifier}, nil
}

func (d *dkg) internal() *dkg {
	return d
}

func (d *dkg) Curve() math.Curve {
	return d.curve
}

func (d *dkg) Generator() math.Point {
	return d.generator.Clone()
}

func (d *dkg) Deal(rand io.Reader) (*VerifiedDealing, error) {
	s, err := d.curve.Scalar().SetRandom(rand)
	if err != nil {
		return nil, &InternalError{fmt.Errorf("failed to draw secret: %w", err)}
	}
	return d.DealSecret(s, rand)
}

func (d *dkg) DealSecret(s math.Scalar, rand io.Reader) (*VerifiedDealing, error) {
	if d.prover == nil {
		return nil, fmt.Errorf("cannot create dealing without a sharing prover")
	}

	ω, err := math.RandomPolynomial(s, d.t, rand)
	if err != nil {
		return nil, &InternalError{err}
	}
	C := ω.Commitment(d.generator)

	ciphertexts := make([]clenc.Ciphertext, d.n)
	for i := range ciphertexts {
		sᵢ := ω.Eval(i) // share for receiver i, the polynomial evaluated at x = i + 1
		ciphertexts[i], err = clenc.Encrypt(d.curve, d.receiverKeys[i], sᵢ, rand)
		if err != nil {
			return nil, &InternalError{fmt.Errorf("failed to encrypt share for receiver %d: %w", i, err)}
		}
	}

	proof, err := d.prover.ProveSharing(d.transcriptDigest(C, ciphertexts))
	if err != nil {
		return nil, &InternalError{fmt.Errorf("failed to create sharing proof: %w", err)}
	}

	return &VerifiedDealing{UnverifiedDealing{C, ciphertexts, proof}}, nil
}

func (d *dkg) ValidateDealing(dealing *UnverifiedDealing) (*VerifiedDealing, error) {
	if len(dealing.commitment) != d.t {
		return nil, &InvalidThresholdError{len(dealing.commitment), d.n}
	}
	for k, Cₖ := range dealing.commitment {
		if Cₖ == nil || Cₖ.Curve() != d.curve {
			return nil, fmt.Errorf("commitment element %d does not lie on curve %s", k, d.curve.Name())
		}
	}

	// The ciphertexts must address exactly the receivers 0, 1, ..., n - 1. The first missing or out-of-range
	// receiver index is reported.
	if len(dealing.ciphertexts) != d.n {
		idx := min(len(dealing.ciphertexts), d.n)
		return nil, &MisnumberedReceiverError{idx, d.n}
	}
	for i, ct := range dealing.ciphertexts {
		if ct == nil {
			return nil, &MisnumberedReceiverError{i, d.n}
		}
	}

	digest := d.transcriptDigest(dealing.commitment, dealing.ciphertexts)
	if err := d.verifier.VerifySharing(digest, dealing.proof); err != nil {
		return nil, &InvalidProofError{err}
	}

	return &VerifiedDealing{*dealing}, nil
}

func (d *dkg) Aggregate(
	ctx context.Context, keyring dkgtypes.P256Keyring, dealings []*VerifiedDealing,
) (*Result, error) {
	index, err := d.receiverIndex(keyring.PublicKey())
	if err != nil {
		return nil, err
	}

	// Fold the commitments, starting from the zero commitment. The combination is pointwise, so the fold order does
	// not affect the result.
	combined := math.ZeroCommitment()
	for i, dealing := range dealings {
		combined, err = combined.Combine(dealing.dealing.commitment)
		if err != nil {
			return nil, &InternalError{fmt.Errorf("failed to fold commitment of dealing %d: %w", i, err)}
		}
	}

	// Decryption of the per-dealing ciphertexts is independent, so it runs concurrently. Any failure cancels the
	// remaining decryptions and fails the whole aggregation, no partial result is ever returned.
	shares := make([]math.Scalar, len(dealings))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, dealing := range dealings {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			share, err := clenc.Decrypt(keyring, dealing.dealing.ciphertexts[index], d.curve)
			if err != nil {
				return fmt.Errorf("failed to decrypt share of dealing %d: %w", i, err)
			}
			shares[i] = share
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	// The final summation is sequential, the exact modular arithmetic makes the result independent of the dealing
	// order.
	share := d.curve.Scalar()
	for _, sᵢ := range shares {
		share.Add(sᵢ)
	}

	groupPublicKey := d.curve.Identity()
	partialPublicKeys := make([]math.Point, d.n)
	if len(combined) > 0 {
		groupPublicKey = combined[0].Clone()
		partialPublicKeys = combined.EvalRange(d.n)
	} else {
		for i := range partialPublicKeys {
			partialPublicKeys[i] = d.curve.Identity()
		}
	}

	return &Result{share, groupPublicKey, partialPublicKeys, combined}, nil
}

// receiverIndex looks up the receiver index associated with the given encryption public key.
func (d *dkg) receiverIndex(pk dkgtypes.P256PublicKey) (int, error) {
	for i, ek := range d.receiverKeys {
		if ek.Equal(pk) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("the keyring's public key does not belong to any receiver of this instance")
}
