// Package cgdkg is the public entry point of the NIDKG library. It wires the core protocol (dealing creation,
// validation, aggregation) to a hosting application: keys and dealings cross this boundary in their canonical byte
// encodings, and the package adds structured logging and metrics around the protocol operations.
//
// A typical round: every dealer calls Deal and broadcasts the resulting dealing; every receiver validates all
// broadcast dealings, excludes dealers whose dealings are rejected, and calls Aggregate over the remaining set to
// obtain its key material.
package cgdkg

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/smartcontractkit/cgdkg/cgdkgtypes"
	"github.com/smartcontractkit/cgdkg/internal/codec"
	"github.com/smartcontractkit/cgdkg/internal/crs"
	"github.com/smartcontractkit/cgdkg/internal/dkgtypes"
	"github.com/smartcontractkit/cgdkg/internal/math"
	"github.com/smartcontractkit/cgdkg/internal/nidkg"
	"github.com/smartcontractkit/cgdkg/internal/p256keyringshim"
)

type Config struct {
	// Unique identifier of the protocol instance. All parties of a round must use the same instance ID; the
	// commitment generator is derived from it.
	InstanceID cgdkgtypes.InstanceID

	// Name of the elliptic curve the secret sharing is performed over, one of "P256", "P384" or "Secp256k1".
	// Defaults to "P256".
	Curve string

	// Domain separation tag for the generator derivation. Defaults to the protocol's standard domain; override only
	// to isolate an application-specific protocol domain.
	DomainTag string

	// Secret sharing threshold t, the number of receivers needed to reconstruct the master secret, 1 <= t <= n.
	Threshold int

	// Encryption public keys of the n receivers, in receiver-index order.
	ReceiverPublicKeys []cgdkgtypes.P256ParticipantPublicKey

	// External proof system producing proofs of correct sharing. Required for dealing, may be nil for
	// receive-only instances.
	Prover cgdkgtypes.SharingProver

	// External proof system checking proofs of correct sharing. Required.
	Verifier cgdkgtypes.SharingVerifier

	// Optional, defaults to the standard logger.
	Logger logrus.FieldLogger

	// Optional, metrics are not exported if nil.
	Registerer prometheus.Registerer
}

// DKG binds a protocol instance's configuration to the core operations. Instances are safe for concurrent use, all
// operations treat their inputs as read-only.
type DKG struct {
	iid     cgdkgtypes.InstanceID
	curve   math.Curve
	t       int
	n       int
	inner   nidkg.NIDKG
	logger  logrus.FieldLogger
	metrics *metrics
}

func New(cfg Config) (*DKG, error) {
	var curve math.Curve = math.P256
	if cfg.Curve != "" {
		curve = math.CurveByName(cfg.Curve)
		if curve == nil {
			return nil, fmt.Errorf("unsupported curve: %q", cfg.Curve)
		}
	}

	domainTag := cfg.DomainTag
	if domainTag == "" {
		domainTag = crs.DefaultDomainTag
	}

	receiverKeys := make([][]byte, len(cfg.ReceiverPublicKeys))
	for i, pk := range cfg.ReceiverPublicKeys {
		receiverKeys[i] = pk
	}

	inner, err := nidkg.New(
		curve, dkgtypes.InstanceID(cfg.InstanceID), domainTag,
		cfg.Threshold, receiverKeys, cfg.Prover, cfg.Verifier,
	)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger = logger.WithFields(logrus.Fields{
		"instanceID": cfg.InstanceID,
		"curve":      curve.Name(),
		"t":          cfg.Threshold,
		"n":          len(cfg.ReceiverPublicKeys),
	})

	return &DKG{
		cfg.InstanceID,
		curve,
		cfg.Threshold,
		len(cfg.ReceiverPublicKeys),
		inner,
		logger,
		newMetrics(cfg.Registerer),
	}, nil
}

// Deal creates a dealing for a fresh random secret and returns its canonical serialized form, ready for broadcast.
// Most applications should pass [crypto/rand.Reader] as rand.
func (d *DKG) Deal(rand io.Reader) ([]byte, error) {
	dealing, err := d.inner.Deal(rand)
	if err != nil {
		d.logger.WithError(err).Error("failed to create dealing")
		return nil, err
	}

	data, err := codec.Marshal(dealing)
	if err != nil {
		d.logger.WithError(err).Error("failed to serialize dealing")
		return nil, err
	}

	d.metrics.dealingsCreated.Inc()
	d.logger.WithField("bytes", len(data)).Debug("dealing created")
	return data, nil
}

// ValidateDealing checks a serialized dealing against the instance parameters, including its sharing proof. The
// returned error identifies why the dealing must be excluded from aggregation; a nil result means the dealing may be
// aggregated.
func (d *DKG) ValidateDealing(data []byte) error {
	_, err := d.validate(data)
	d.metrics.dealingsValidated.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		d.logger.WithError(err).Warn("dealing rejected")
	}
	return err
}

func (d *DKG) validate(data []byte) (*nidkg.VerifiedDealing, error) {
	dealing, err := nidkg.UnmarshalDealing(data)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize dealing: %w", err)
	}
	return d.inner.ValidateDealing(dealing)
}

// Aggregate validates the given serialized dealings and folds them into this receiver's key material. The keyring
// identifies the caller, its public key must match one of the configured receiver keys. If any dealing fails
// validation or any ciphertext addressed to this receiver fails to decrypt, the whole call fails and no partial key
// material is returned.
func (d *DKG) Aggregate(
	ctx context.Context, keyring cgdkgtypes.P256Keyring, dealings [][]byte,
) (*KeyMaterial, error) {
	start := time.Now()
	result, err := d.aggregate(ctx, keyring, dealings)

	d.metrics.aggregations.WithLabelValues(resultLabel(err)).Inc()
	d.metrics.aggregationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		d.logger.WithError(err).Error("aggregation failed")
		return nil, err
	}
	d.logger.WithField("dealings", len(dealings)).Info("aggregation completed")
	return result, nil
}

func (d *DKG) aggregate(
	ctx context.Context, keyring cgdkgtypes.P256Keyring, dealings [][]byte,
) (*KeyMaterial, error) {
	kr, err := p256keyringshim.New(keyring)
	if err != nil {
		return nil, err
	}

	verified := make([]*nidkg.VerifiedDealing, len(dealings))
	for i, data := range dealings {
		verified[i], err = d.validate(data)
		if err != nil {
			return nil, fmt.Errorf("dealing %d rejected: %w", i, err)
		}
	}

	result, err := d.inner.Aggregate(ctx, kr, verified)
	if err != nil {
		return nil, err
	}

	partialPublicKeys := make([][]byte, d.n)
	for i, pk := range result.PartialPublicKeys() {
		partialPublicKeys[i] = pk.Bytes()
	}

	return &KeyMaterial{
		result.SecretKeyShare().Bytes(),
		result.GroupPublicKey().Bytes(),
		partialPublicKeys,
	}, nil
}

// PublishDealing creates a dealing and persists it in the given store under this instance's ID and the caller's
// dealer index.
func (d *DKG) PublishDealing(
	ctx context.Context, store cgdkgtypes.DealingStore, dealer int, rand io.Reader,
) error {
	data, err := d.Deal(rand)
	if err != nil {
		return err
	}
	if err := store.WriteDealing(ctx, d.iid, dealer, data); err != nil {
		return fmt.Errorf("failed to persist dealing of dealer %d: %w", dealer, err)
	}
	return nil
}

// AggregateFromStore reads all persisted dealings for this instance and aggregates them in dealer-index order.
// The deterministic order makes the (already order-independent) aggregation reproducible byte for byte across nodes.
func (d *DKG) AggregateFromStore(
	ctx context.Context, store cgdkgtypes.DealingStore, keyring cgdkgtypes.P256Keyring,
) (*KeyMaterial, error) {
	byDealer, err := store.ReadDealings(ctx, d.iid)
	if err != nil {
		return nil, fmt.Errorf("failed to read dealings: %w", err)
	}

	dealings := make([][]byte, 0, len(byDealer))
	for _, dealer := range slices.Sorted(maps.Keys(byDealer)) {
		dealings = append(dealings, byDealer[dealer])
	}
	return d.Aggregate(ctx, keyring, dealings)
}

// VerifyKeyShare checks a receiver's secret key share against its public counterpart: the share multiplied by the
// instance's commitment generator must equal the receiver's partial public key.
func (d *DKG) VerifyKeyShare(share []byte, partialPublicKey []byte) error {
	s, err := d.curve.Scalar().SetBytes(share)
	if err != nil {
		return fmt.Errorf("invalid key share encoding: %w", err)
	}
	pk, err := d.curve.Point().SetBytes(partialPublicKey)
	if err != nil {
		return fmt.Errorf("invalid partial public key encoding: %w", err)
	}

	g := d.inner.Generator()
	if !g.ScalarMult(s, g).Equal(pk) {
		return fmt.Errorf("key share does not match partial public key")
	}
	return nil
}

// ReconstructMasterSecret recovers the master secret from at least t receivers' secret key shares, keyed by receiver
// index. This defeats the purpose of a threshold setup and is intended for testing and for explicit key-escrow flows
// only.
func (d *DKG) ReconstructMasterSecret(shares map[int][]byte) ([]byte, error) {
	if len(shares) < d.t {
		return nil, fmt.Errorf("insufficient shares for reconstruction: %d < %d", len(shares), d.t)
	}

	indices := slices.Sorted(maps.Keys(shares))
	ip, err := math.NewInterpolator(d.curve, indices)
	if err != nil {
		return nil, err
	}

	ys := make([]math.Scalar, len(indices))
	for i, idx := range indices {
		ys[i], err = d.curve.Scalar().SetBytes(shares[idx])
		if err != nil {
			return nil, fmt.Errorf("invalid key share encoding for receiver %d: %w", idx, err)
		}
	}

	secret, err := ip.ScalarAtZero(ys)
	if err != nil {
		return nil, err
	}
	return secret.Bytes(), nil
}

// RecoverGroupPublicKey recovers the group public key from at least t receivers' partial public keys, keyed by
// receiver index. Useful for parties that missed the aggregation but obtained the partial public keys.
func (d *DKG) RecoverGroupPublicKey(partialPublicKeys map[int][]byte) ([]byte, error) {
	if len(partialPublicKeys) < d.t {
		return nil, fmt.Errorf(
			"insufficient partial public keys for recovery: %d < %d", len(partialPublicKeys), d.t,
		)
	}

	indices := slices.Sorted(maps.Keys(partialPublicKeys))
	ip, err := math.NewInterpolator(d.curve, indices)
	if err != nil {
		return nil, err
	}

	Ys := make([]math.Point, len(indices))
	for i, idx := range indices {
		Ys[i], err = d.curve.Point().SetBytes(partialPublicKeys[idx])
		if err != nil {
			return nil, fmt.Errorf("invalid partial public key encoding for receiver %d: %w", idx, err)
		}
	}

	pk, err := ip.PointAtZero(Ys)
	if err != nil {
		return nil, err
	}
	return pk.Bytes(), nil
}

var _ fmt.Stringer = &KeyMaterial{}
var _ fmt.GoStringer = &KeyMaterial{}

// KeyMaterial is a receiver's output of a completed round, with all values in their canonical byte encodings.
// The secret key share is receiver-private; KeyMaterial implements no marshaling, and its Stringer implementations
// redact the share.
type KeyMaterial struct {
	secretKeyShare    []byte
	groupPublicKey    []byte
	partialPublicKeys [][]byte
}

// SecretKeyShare returns this receiver's share of the master secret. It must never be logged or persisted next to
// the public fields.
func (km *KeyMaterial) SecretKeyShare() []byte {
	return km.secretKeyShare
}

// GroupPublicKey returns the joint public key of the round.
func (km *KeyMaterial) GroupPublicKey() []byte {
	return km.groupPublicKey
}

// PartialPublicKeys returns the partial public key of every receiver, indexed by receiver index.
func (km *KeyMaterial) PartialPublicKeys() [][]byte {
	return km.partialPublicKeys
}

// Implement Stringer and GoStringer interfaces to ensure that the secret key share is never accidentally logged.
func (km *KeyMaterial) String() string {
	return km.GoString()
}

// Implement Stringer and GoStringer interfaces to ensure that the secret key share is never accidentally logged.
func (km *KeyMaterial) GoString() string {
	return fmt.Sprintf("cgdkg.KeyMaterial{groupPublicKey: \"%x\"}", km.groupPublicKey)
}
