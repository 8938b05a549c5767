package math

import (
	"fmt"

	"github.com/smartcontractkit/cgdkg/internal/codec"
)

type Point interface {
	codec.Codec[Point]

	// v.Curve() returns the point's underlying elliptic curve.
	Curve() Curve

	// v.New() returns a new independent Point instance for the same underlying curve.
	// The returned Point is not initialized, and must be set using SetBytes(...) or Set(...) or used as receiver only.
	New() Point

	// v.Clone() returns a copy of v.
	Clone() Point

	// v.Set(u) sets v = u, and returns v.
	Set(u Point) Point

	// v.Add(p, q) sets v = p + q, and returns v.
	Add(p, q Point) Point

	// v.Subtract(p, q) sets v = p - q, and returns v.
	Subtract(p, q Point) Point

	// v.ScalarBaseMult(x) sets v = x * G, where G is the base point of the curve, and returns v.
	ScalarBaseMult(x Scalar) Point

	// v.ScalarMult(x, q) sets v = x * q, and returns v.
	ScalarMult(x Scalar, q Point) Point

	// v.Equal(u) returns true if v is equivalent to u, and false otherwise.
	Equal(u Point) bool

	// v.Bytes() returns the canonical encoding of v (compressed format).
	// Implementations must ensure that encoded points on the same curve have a consistent length.
	Bytes() []byte

	// v.SetBytes(x) sets v = x, where x is an encoding of v. The encoding must be in the compressed format.
	// If x does not represent a valid point on the curve, SetBytes returns nil and an error and the receiver is
	// unchanged. Otherwise, SetBytes returns v.
	SetBytes(x []byte) (Point, error)
}

type Points []Point

func (p Points) Sum() Point {
	var result Point
	for _, pᵢ := range p {
		if result == nil {
			result = pᵢ.Clone()
		} else {
			result.Add(result, pᵢ)
		}
	}
	return result
}

// MultiScalarMult computes Σᵢ scalars[i] * points[i].
// All points must lie on the same curve, all scalars must match the curve's group order.
func MultiScalarMult(points Points, scalars Scalars) (Point, error) {
	if len(points) != len(scalars) {
		return nil, fmt.Errorf(
			"mismatching number of points (%d) and scalars (%d) for multi-scalar multiplication",
			len(points), len(scalars),
		)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("multi-scalar multiplication requires at least one term")
	}

	sum := points[0].Clone().ScalarMult(scalars[0], points[0])
	t := points[0].New()
	for i := 1; i < len(points); i++ {
		t.ScalarMult(scalars[i], points[i])
		sum.Add(sum, t)
	}
	return sum, nil
}
