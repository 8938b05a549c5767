package cgdkg_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/cgdkg"
	"github.com/smartcontractkit/cgdkg/cgdkgtypes"
	"github.com/smartcontractkit/cgdkg/internal/testimplementations/sharingproof"
	"github.com/smartcontractkit/cgdkg/internal/testimplementations/unsaferand"
	"github.com/smartcontractkit/cgdkg/p256keyring"
)

// In-memory DealingStore for testing, mimicking a broadcast buffer.
type memoryStore struct {
	mu       sync.Mutex
	dealings map[cgdkgtypes.InstanceID]map[int][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{dealings: map[cgdkgtypes.InstanceID]map[int][]byte{}}
}

func (s *memoryStore) WriteDealing(_ context.Context, iid cgdkgtypes.InstanceID, dealer int, dealing []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dealings[iid] == nil {
		s.dealings[iid] = map[int][]byte{}
	}
	s.dealings[iid][dealer] = dealing
	return nil
}

func (s *memoryStore) ReadDealings(_ context.Context, iid cgdkgtypes.InstanceID) (map[int][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := map[int][]byte{}
	for dealer, dealing := range s.dealings[iid] {
		result[dealer] = dealing
	}
	return result, nil
}

func testConfig(t *testing.T, keyrings []*p256keyring.P256Keyring, threshold int) cgdkg.Config {
	receiverKeys := make([]cgdkgtypes.P256ParticipantPublicKey, len(keyrings))
	for i, kr := range keyrings {
		receiverKeys[i] = kr.PublicKey()
	}

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	return cgdkg.Config{
		InstanceID:         cgdkgtypes.MakeInstanceID("cgdkg-test", t.Name()),
		Threshold:          threshold,
		ReceiverPublicKeys: receiverKeys,
		Prover:             sharingproof.Scheme{},
		Verifier:           sharingproof.Scheme{},
		Logger:             logger,
		Registerer:         prometheus.NewRegistry(),
	}
}

func newTestKeyrings(t *testing.T, n int) []*p256keyring.P256Keyring {
	keyrings := make([]*p256keyring.P256Keyring, n)
	for i := range keyrings {
		var err error
		keyrings[i], err = p256keyring.New(unsaferand.New("keyring", i))
		require.NoError(t, err)
	}
	return keyrings
}

func TestFullRound(t *testing.T) {
	const n, threshold, dealers = 4, 2, 3
	ctx := context.Background()
	rand := unsaferand.New("full round")

	keyrings := newTestKeyrings(t, n)
	dkg, err := cgdkg.New(testConfig(t, keyrings, threshold))
	require.NoError(t, err)

	dealings := make([][]byte, dealers)
	for d := range dealings {
		dealings[d], err = dkg.Deal(rand)
		require.NoError(t, err)
		require.NoError(t, dkg.ValidateDealing(dealings[d]))
	}

	// Every receiver aggregates independently and arrives at the same public key material.
	var groupPublicKey []byte
	shares := map[int][]byte{}
	partials := map[int][]byte{}
	for j, keyring := range keyrings {
		km, err := dkg.Aggregate(ctx, keyring, dealings)
		require.NoError(t, err)

		if groupPublicKey == nil {
			groupPublicKey = km.GroupPublicKey()
		} else {
			require.Equal(t, groupPublicKey, km.GroupPublicKey())
		}

		require.Len(t, km.PartialPublicKeys(), n)
		require.NoError(t, dkg.VerifyKeyShare(km.SecretKeyShare(), km.PartialPublicKeys()[j]))

		shares[j] = km.SecretKeyShare()
		partials[j] = km.PartialPublicKeys()[j]
	}

	// Any threshold-sized subset of shares reconstructs the master secret, and the reconstructed secret matches the
	// group public key under the instance's generator.
	subset := map[int][]byte{1: shares[1], 3: shares[3]}
	masterSecret, err := dkg.ReconstructMasterSecret(subset)
	require.NoError(t, err)

	recovered, err := dkg.RecoverGroupPublicKey(map[int][]byte{1: partials[1], 3: partials[3]})
	require.NoError(t, err)
	require.Equal(t, groupPublicKey, recovered)

	_, err = dkg.ReconstructMasterSecret(map[int][]byte{0: shares[0]})
	require.Error(t, err, "one share is below the threshold")

	require.NotEmpty(t, masterSecret)
}

func TestAggregateRejectsTamperedDealing(t *testing.T) {
	ctx := context.Background()
	rand := unsaferand.New("tampered dealing")

	keyrings := newTestKeyrings(t, 3)
	dkg, err := cgdkg.New(testConfig(t, keyrings, 2))
	require.NoError(t, err)

	valid, err := dkg.Deal(rand)
	require.NoError(t, err)
	tampered, err := dkg.Deal(rand)
	require.NoError(t, err)
	tampered[len(tampered)-10] ^= 0x01

	require.Error(t, dkg.ValidateDealing(tampered))

	_, err = dkg.Aggregate(ctx, keyrings[0], [][]byte{valid, tampered})
	require.Error(t, err)
}

func TestStoreBackedRound(t *testing.T) {
	const n, threshold, dealers = 3, 2, 2
	ctx := context.Background()
	rand := unsaferand.New("store backed round")

	keyrings := newTestKeyrings(t, n)
	dkg, err := cgdkg.New(testConfig(t, keyrings, threshold))
	require.NoError(t, err)

	store := newMemoryStore()
	for d := 0; d < dealers; d++ {
		require.NoError(t, dkg.PublishDealing(ctx, store, d, rand))
	}

	first, err := dkg.AggregateFromStore(ctx, store, keyrings[0])
	require.NoError(t, err)
	second, err := dkg.AggregateFromStore(ctx, store, keyrings[1])
	require.NoError(t, err)

	require.Equal(t, first.GroupPublicKey(), second.GroupPublicKey())
	require.Equal(t, first.PartialPublicKeys(), second.PartialPublicKeys())
	require.NotEqual(t, first.SecretKeyShare(), second.SecretKeyShare())
}

func TestNewRejectsBadConfig(t *testing.T) {
	keyrings := newTestKeyrings(t, 3)

	cfg := testConfig(t, keyrings, 2)
	cfg.Curve = "NoSuchCurve"
	_, err := cgdkg.New(cfg)
	require.Error(t, err)

	cfg = testConfig(t, keyrings, 4)
	_, err = cgdkg.New(cfg)
	require.Error(t, err)

	cfg = testConfig(t, keyrings, 2)
	cfg.Verifier = nil
	_, err = cgdkg.New(cfg)
	require.Error(t, err)
}

func TestSecp256k1Round(t *testing.T) {
	ctx := context.Background()
	rand := unsaferand.New("secp256k1 round")

	keyrings := newTestKeyrings(t, 3)
	cfg := testConfig(t, keyrings, 2)
	cfg.Curve = "Secp256k1"
	dkg, err := cgdkg.New(cfg)
	require.NoError(t, err)

	dealing, err := dkg.Deal(rand)
	require.NoError(t, err)

	km, err := dkg.Aggregate(ctx, keyrings[2], [][]byte{dealing})
	require.NoError(t, err)
	require.NoError(t, dkg.VerifyKeyShare(km.SecretKeyShare(), km.PartialPublicKeys()[2]))
}

func TestKeyMaterialStringRedactsShare(t *testing.T) {
	ctx := context.Background()
	rand := unsaferand.New("key material redaction")

	keyrings := newTestKeyrings(t, 3)
	dkg, err := cgdkg.New(testConfig(t, keyrings, 2))
	require.NoError(t, err)

	dealing, err := dkg.Deal(rand)
	require.NoError(t, err)
	km, err := dkg.Aggregate(ctx, keyrings[0], [][]byte{dealing})
	require.NoError(t, err)

	require.NotContains(t, km.String(), fmt.Sprintf("%x", km.SecretKeyShare()))
	require.Contains(t, km.GoString(), "cgdkg.KeyMaterial")
}
