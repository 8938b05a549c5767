package p256keyring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/cgdkg/internal/testimplementations/unsaferand"
)

func TestECDHIsSymmetric(t *testing.T) {
	alice, err := New(unsaferand.New("alice"))
	require.NoError(t, err)
	bob, err := New(unsaferand.New("bob"))
	require.NoError(t, err)

	ab, err := alice.ECDH(bob.PublicKey())
	require.NoError(t, err)
	ba, err := bob.ECDH(alice.PublicKey())
	require.NoError(t, err)

	require.Equal(t, ab, ba)
	require.Len(t, []byte(ab), ECDHSharedSecretLength)
}

func TestECDHRejectsInvalidPublicKey(t *testing.T) {
	kr, err := New(unsaferand.New("keyring"))
	require.NoError(t, err)

	_, err = kr.ECDH([]byte{0x01, 0x02})
	require.Error(t, err)

	garbage := make([]byte, PublicKeyLength)
	for i := range garbage {
		garbage[i] = 0x5a
	}
	_, err = kr.ECDH(garbage)
	require.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	original, err := New(unsaferand.New("marshal"))
	require.NoError(t, err)

	data, err := original.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, SecretKeyLength+PublicKeyLength)

	restored := &P256Keyring{}
	require.NoError(t, restored.UnmarshalBinary(data))
	require.Equal(t, original.PublicKey(), restored.PublicKey())

	// The restored keyring produces the same shared secrets.
	peer, err := New(unsaferand.New("peer"))
	require.NoError(t, err)
	s1, err := original.ECDH(peer.PublicKey())
	require.NoError(t, err)
	s2, err := restored.ECDH(peer.PublicKey())
	require.NoError(t, err)
	require.Equal(t, s1, s2)
}

func TestUnmarshalRejectsInconsistentKeyPair(t *testing.T) {
	kr, err := New(unsaferand.New("inconsistent"))
	require.NoError(t, err)

	data, err := kr.MarshalBinary()
	require.NoError(t, err)

	// Corrupt the embedded public key.
	data[SecretKeyLength+5] ^= 0x01
	require.Error(t, (&P256Keyring{}).UnmarshalBinary(data))

	require.Error(t, (&P256Keyring{}).UnmarshalBinary(data[:10]))
}

func TestStringRedactsSecretKey(t *testing.T) {
	kr, err := New(unsaferand.New("redaction"))
	require.NoError(t, err)

	data, err := kr.MarshalBinary()
	require.NoError(t, err)
	skHex := fmt.Sprintf("%x", data[:SecretKeyLength])

	require.NotContains(t, kr.String(), skHex)
	require.NotContains(t, fmt.Sprintf("%#v", kr), skHex)
}
