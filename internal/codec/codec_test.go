package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testObject struct {
	id      int
	payload []byte
	name    string
}

func (o *testObject) MarshalTo(target Target) {
	target.WriteInt(o.id)
	target.WriteLengthPrefixedBytes(o.payload)
	target.WriteString(o.name)
}

func (o *testObject) UnmarshalFrom(source Source) *testObject {
	o.id = source.ReadNonNegativeInt()
	o.payload = source.ReadLengthPrefixedBytes()
	o.name = source.ReadString()
	return o
}

func TestMarshalRoundTrip(t *testing.T) {
	original := &testObject{42, []byte{0xde, 0xad, 0xbe, 0xef}, "dealing"}

	data, err := Marshal(original)
	require.NoError(t, err)

	decoded, err := Unmarshal(data, &testObject{})
	require.NoError(t, err)
	require.Equal(t, original, decoded)
}

func TestMarshalNilPayload(t *testing.T) {
	original := &testObject{7, nil, ""}

	data, err := Marshal(original)
	require.NoError(t, err)

	decoded, err := Unmarshal(data, &testObject{})
	require.NoError(t, err)
	require.Nil(t, decoded.payload)
}

func TestUnmarshalRejectsTrailingBytes(t *testing.T) {
	data, err := Marshal(&testObject{1, []byte{0x01}, "x"})
	require.NoError(t, err)

	_, err = Unmarshal(append(data, 0x00), &testObject{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "did not consume all bytes")
}

func TestUnmarshalRecoversPanicOnTruncatedInput(t *testing.T) {
	data, err := Marshal(&testObject{1, []byte{0x01, 0x02, 0x03}, "name"})
	require.NoError(t, err)

	for cut := 1; cut < len(data); cut++ {
		_, err := Unmarshal(data[:cut], &testObject{})
		require.Error(t, err, "truncation at byte %d", cut)
	}
}

func TestUnmarshalUsing(t *testing.T) {
	target := &target{}
	target.WriteInt(3)
	target.WriteInt(5)

	type pair struct{ a, b int }
	result, err := UnmarshalUsing(target.buffer, func(s Source) pair {
		return pair{s.ReadNonNegativeInt(), s.ReadNonNegativeInt()}
	})
	require.NoError(t, err)
	require.Equal(t, pair{3, 5}, result)
}

func TestReadNonNegativeIntRejectsNegativeValues(t *testing.T) {
	target := &target{}
	target.WriteInt(-5)

	_, err := UnmarshalUsing(target.buffer, func(s Source) int {
		return s.ReadNonNegativeInt()
	})
	require.Error(t, err)
}

func TestIntEncodingIsBigEndian(t *testing.T) {
	target := &target{}
	target.WriteInt(0x01020304)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, target.buffer)
}
