package math

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/cgdkg/internal/testimplementations/unsaferand"
)

func TestScalarArithmetic(t *testing.T) {
	for _, curve := range SupportedCurves {
		t.Run(curve.Name(), func(t *testing.T) {
			a := curve.Scalar().SetUint(7)
			b := curve.Scalar().SetUint(5)

			sum := a.Clone().Add(b)
			require.Equal(t, "12", sum.String())

			diff := a.Clone().Subtract(b)
			require.Equal(t, "2", diff.String())

			prod := a.Clone().Multiply(b)
			require.Equal(t, "35", prod.String())
		})
	}
}

func TestScalarSubtractionWrapsAround(t *testing.T) {
	curve := P256
	zero := curve.Scalar()
	one := curve.Scalar().SetUint(1)

	minusOne := zero.Clone().Subtract(one)
	require.False(t, minusOne.IsZero())

	// -1 + 1 == 0 (mod group order)
	require.True(t, minusOne.Add(one).IsZero())
}

func TestScalarInverse(t *testing.T) {
	rand := unsaferand.New("scalar inverse")
	for _, curve := range SupportedCurves {
		t.Run(curve.Name(), func(t *testing.T) {
			x, err := curve.Scalar().SetRandom(rand)
			require.NoError(t, err)

			inv, ok := x.Clone().InverseVarTime()
			require.True(t, ok)
			require.Equal(t, "1", x.Clone().Multiply(inv).String())

			_, ok = curve.Scalar().InverseVarTime()
			require.False(t, ok, "zero must not be invertible")
		})
	}
}

func TestScalarSetRandomIsDeterministic(t *testing.T) {
	x, err := P256.Scalar().SetRandom(unsaferand.New("seed"))
	require.NoError(t, err)
	y, err := P256.Scalar().SetRandom(unsaferand.New("seed"))
	require.NoError(t, err)
	require.True(t, x.Equal(y))

	z, err := P256.Scalar().SetRandom(unsaferand.New("other seed"))
	require.NoError(t, err)
	require.False(t, x.Equal(z))
}

func TestScalarBytesRoundTrip(t *testing.T) {
	rand := unsaferand.New("scalar bytes")
	for _, curve := range SupportedCurves {
		t.Run(curve.Name(), func(t *testing.T) {
			x, err := curve.Scalar().SetRandom(rand)
			require.NoError(t, err)

			b := x.Bytes()
			require.Len(t, b, curve.ScalarBytes())

			y, err := curve.Scalar().SetBytes(b)
			require.NoError(t, err)
			require.True(t, x.Equal(y))
		})
	}
}

func TestScalarSetBytesRejectsValuesAboveModulus(t *testing.T) {
	tooLarge := make([]byte, P256.ScalarBytes())
	for i := range tooLarge {
		tooLarge[i] = 0xff
	}
	_, err := P256.Scalar().SetBytes(tooLarge)
	require.Error(t, err)
}

func TestScalarsSum(t *testing.T) {
	a := P256.Scalar().SetUint(1)
	b := P256.Scalar().SetUint(2)
	c := P256.Scalar().SetUint(3)

	require.Equal(t, "6", Scalars{a, b, c}.Sum().String())
	require.Nil(t, Scalars{}.Sum())
}

func TestScalarMixedModuliPanics(t *testing.T) {
	a := P256.Scalar().SetUint(1)
	b := Secp256k1.Scalar().SetUint(1)
	require.Panics(t, func() { a.Add(b) })
}
