package math

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/cgdkg/internal/testimplementations/unsaferand"
)

// Independent generator for the commitments used throughout the tests.
func testGenerator(t *testing.T, curve Curve) Point {
	x, err := curve.Scalar().SetRandom(unsaferand.New("commitment generator", curve.Name()))
	require.NoError(t, err)
	return curve.Point().ScalarBaseMult(x)
}

func TestPolynomialEval(t *testing.T) {
	curve := P256

	// ω(x) = 3 + 2x + x²
	ω := Polynomial{
		curve.Scalar().SetUint(3),
		curve.Scalar().SetUint(2),
		curve.Scalar().SetUint(1),
	}

	require.Equal(t, "6", ω.Eval(0).String())  // ω(1)
	require.Equal(t, "11", ω.Eval(1).String()) // ω(2)
	require.Equal(t, "18", ω.Eval(2).String()) // ω(3)
}

func TestRandomPolynomialEmbedsSecret(t *testing.T) {
	rand := unsaferand.New("random polynomial")
	s, err := P256.Scalar().SetRandom(rand)
	require.NoError(t, err)

	ω, err := RandomPolynomial(s, 4, rand)
	require.NoError(t, err)
	require.Len(t, ω, 4)
	require.True(t, ω[0].Equal(s))

	_, err = RandomPolynomial(s, 0, rand)
	require.Error(t, err)
}

func TestCommitmentLinearity(t *testing.T) {
	rand := unsaferand.New("commitment linearity")
	for _, curve := range SupportedCurves {
		t.Run(curve.Name(), func(t *testing.T) {
			g := testGenerator(t, curve)

			f, err := RandomPolynomial(curve.Scalar().SetUint(11), 3, rand)
			require.NoError(t, err)
			h, err := RandomPolynomial(curve.Scalar().SetUint(23), 3, rand)
			require.NoError(t, err)

			sum := make(Polynomial, len(f))
			for i := range sum {
				sum[i] = f[i].Clone().Add(h[i])
			}

			combined, err := f.Commitment(g).Combine(h.Commitment(g))
			require.NoError(t, err)

			expected := sum.Commitment(g)
			require.Len(t, combined, len(expected))
			for k := range expected {
				require.True(t, combined[k].Equal(expected[k]), "coefficient %d", k)
			}
		})
	}
}

func TestCommitmentCombineIdentity(t *testing.T) {
	rand := unsaferand.New("combine identity")
	g := testGenerator(t, P256)

	f, err := RandomPolynomial(P256.Scalar().SetUint(5), 2, rand)
	require.NoError(t, err)
	C := f.Commitment(g)

	left, err := ZeroCommitment().Combine(C)
	require.NoError(t, err)
	right, err := C.Combine(ZeroCommitment())
	require.NoError(t, err)

	for k := range C {
		require.True(t, left[k].Equal(C[k]))
		require.True(t, right[k].Equal(C[k]))
	}
}

func TestCommitmentCombineRejectsMismatchedLengths(t *testing.T) {
	rand := unsaferand.New("combine mismatch")
	g := testGenerator(t, P256)

	f, err := RandomPolynomial(P256.Scalar().SetUint(5), 2, rand)
	require.NoError(t, err)
	h, err := RandomPolynomial(P256.Scalar().SetUint(7), 3, rand)
	require.NoError(t, err)

	_, err = f.Commitment(g).Combine(h.Commitment(g))
	require.Error(t, err)
}

func TestCommitmentEvalMatchesPolynomialEval(t *testing.T) {
	rand := unsaferand.New("commitment eval")
	for _, curve := range SupportedCurves {
		t.Run(curve.Name(), func(t *testing.T) {
			g := testGenerator(t, curve)

			s, err := curve.Scalar().SetRandom(rand)
			require.NoError(t, err)
			ω, err := RandomPolynomial(s, 3, rand)
			require.NoError(t, err)

			C := ω.Commitment(g)
			for i := 0; i < 5; i++ {
				ωᵢ := ω.Eval(i)
				expected := g.Clone().ScalarMult(ωᵢ, g)
				require.True(t, C.Eval(i).Equal(expected), "receiver %d", i)
			}
		})
	}
}

func TestCommitmentEvalRange(t *testing.T) {
	rand := unsaferand.New("commitment eval range")
	g := testGenerator(t, P256)

	ω, err := RandomPolynomial(P256.Scalar().SetUint(42), 3, rand)
	require.NoError(t, err)

	C := ω.Commitment(g)
	pks := C.EvalRange(5)
	require.Len(t, pks, 5)
	for i, pk := range pks {
		require.True(t, pk.Equal(C.Eval(i)))
	}
}

// A degree-0 polynomial has a single commitment element, and every receiver's partial public key equals it.
func TestCommitmentEvalConstantPolynomial(t *testing.T) {
	g := testGenerator(t, P256)

	ω := Polynomial{P256.Scalar().SetUint(9)}
	C := ω.Commitment(g)
	require.Len(t, C, 1)

	for _, pk := range C.EvalRange(4) {
		require.True(t, pk.Equal(C[0]))
	}
}

func TestInterpolatorRecoversSecret(t *testing.T) {
	rand := unsaferand.New("interpolation")
	curve := P256

	s, err := curve.Scalar().SetRandom(rand)
	require.NoError(t, err)
	ω, err := RandomPolynomial(s, 3, rand)
	require.NoError(t, err)

	// Any 3 of the 5 evaluation points suffice to recover ω(0).
	indices := []int{0, 2, 4}
	ip, err := NewInterpolator(curve, indices)
	require.NoError(t, err)

	ys := make([]Scalar, len(indices))
	for i, idx := range indices {
		ys[i] = ω.Eval(idx)
	}

	recovered, err := ip.ScalarAtZero(ys)
	require.NoError(t, err)
	require.True(t, recovered.Equal(s))
}

func TestInterpolatorRecoversCommitmentConstantTerm(t *testing.T) {
	rand := unsaferand.New("point interpolation")
	curve := P256
	g := testGenerator(t, curve)

	s, err := curve.Scalar().SetRandom(rand)
	require.NoError(t, err)
	ω, err := RandomPolynomial(s, 2, rand)
	require.NoError(t, err)
	C := ω.Commitment(g)

	indices := []int{1, 3}
	ip, err := NewInterpolator(curve, indices)
	require.NoError(t, err)

	Ys := []Point{C.Eval(1), C.Eval(3)}
	recovered, err := ip.PointAtZero(Ys)
	require.NoError(t, err)
	require.True(t, recovered.Equal(C[0]))
}

func TestInterpolatorRejectsDuplicateIndices(t *testing.T) {
	_, err := NewInterpolator(P256, []int{1, 1})
	require.Error(t, err)

	_, err = NewInterpolator(P256, []int{-1, 2})
	require.Error(t, err)
}
