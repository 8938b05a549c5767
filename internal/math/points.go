package math

import (
	"bytes"
	"crypto/subtle"
	"fmt"
	"slices"

	"filippo.io/edwards25519"
	"filippo.io/nistec"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/smartcontractkit/cgdkg/internal/codec"
)

type P256Point struct {
	value nistec.P256Point
}

func (v *P256Point) Curve() Curve {
	return P256
}

func (v *P256Point) New() Point {
	return &P256Point{*nistec.NewP256Point()}
}

func (v *P256Point) Clone() Point {
	return &P256Point{*nistec.NewP256Point().Set(&v.value)}
}

func (v *P256Point) Set(u Point) Point {
	v.value.Set(&u.(*P256Point).value)
	return v
}

func (v *P256Point) Add(p Point, q Point) Point {
	v.value.Add(&p.(*P256Point).value, &q.(*P256Point).value)
	return v
}

func (v *P256Point) Subtract(p Point, q Point) Point {
	negQ := nistec.NewP256Point().Negate(&q.(*P256Point).value)
	v.value.Add(&p.(*P256Point).value, negQ)
	return v
}

func (v *P256Point) ScalarBaseMult(x Scalar) Point {
	_, _ = v.value.ScalarBaseMult(x.Bytes())
	return v
}

func (v *P256Point) ScalarMult(x Scalar, q Point) Point {
	_, _ = v.value.ScalarMult(&q.(*P256Point).value, x.Bytes())
	return v
}

func (v *P256Point) Equal(q Point) bool {
	return subtle.ConstantTimeCompare(v.value.BytesCompressed(), q.(*P256Point).value.BytesCompressed()) == 1
}

func (v *P256Point) Bytes() []byte {
	return v.value.BytesCompressed()
}

func (v *P256Point) SetBytes(x []byte) (Point, error) {
	if len(x) != p256CompressedLength {
		return nil, fmt.Errorf("invalid P256 point length: %d, expected: %d (compressed format)", len(x), p256CompressedLength)
	}
	_, err := v.value.SetBytes(x)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare(v.value.BytesCompressed(), x) != 1 {
		return nil, fmt.Errorf("invalid P256 point: not in canonical form")
	}
	return v, nil
}

func (v *P256Point) MarshalTo(target codec.Target) {
	target.WriteBytes(v.value.BytesCompressed())
}

func (v *P256Point) UnmarshalFrom(source codec.Source) Point {
	var buf [p256CompressedLength]byte
	source.ReadBytesInto(buf[:])
	_, err := v.value.SetBytes(buf[:])
	if err != nil {
		panic("failed to unmarshal P256 point: " + err.Error())
	}
	return v
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////
////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

type P384Point struct {
	value nistec.P384Point
}

func (v *P384Point) Curve() Curve {
	return P384
}

func (v *P384Point) New() Point {
	return &P384Point{*nistec.NewP384Point()}
}

func (v *P384Point) Clone() Point {
	return &P384Point{*nistec.NewP384Point().Set(&v.value)}
}

func (v *P384Point) Set(u Point) Point {
	v.value.Set(&u.(*P384Point).value)
	return v
}

func (v *P384Point) Add(p Point, q Point) Point {
	v.value.Add(&p.(*P384Point).value, &q.(*P384Point).value)
	return v
}

func (v *P384Point) Subtract(p Point, q Point) Point {
	negQ := nistec.NewP384Point().Negate(&q.(*P384Point).value)
	v.value.Add(&p.(*P384Point).value, negQ)
	return v
}

func (v *P384Point) ScalarBaseMult(x Scalar) Point {
	_, _ = v.value.ScalarBaseMult(x.Bytes())
	return v
}

func (v *P384Point) ScalarMult(x Scalar, q Point) Point {
	_, _ = v.value.ScalarMult(&q.(*P384Point).value, x.Bytes())
	return v
}

func (v *P384Point) Equal(q Point) bool {
	return subtle.ConstantTimeCompare(v.value.BytesCompressed(), q.(*P384Point).value.BytesCompressed()) == 1
}

func (v *P384Point) Bytes() []byte {
	return v.value.BytesCompressed()
}

func (v *P384Point) SetBytes(x []byte) (Point, error) {
	if len(x) != p384CompressedLength {
		return nil, fmt.Errorf("invalid P384 point length: %d, expected: %d (compressed format)", len(x), p384CompressedLength)
	}
	_, err := v.value.SetBytes(x)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare(v.value.BytesCompressed(), x) != 1 {
		return nil, fmt.Errorf("invalid P384 point: not in canonical form")
	}
	return v, nil
}

func (v *P384Point) MarshalTo(target codec.Target) {
	target.WriteBytes(v.value.BytesCompressed())
}

func (v *P384Point) UnmarshalFrom(source codec.Source) Point {
	var buf [p384CompressedLength]byte
	source.ReadBytesInto(buf[:])
	_, err := v.value.SetBytes(buf[:])
	if err != nil {
		panic("failed to unmarshal P384 point: " + err.Error())
	}
	return v
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////
////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

// Secp256k1Point wraps a Jacobian point from the decred secp256k1 implementation.
// The zero value represents the point at infinity.
type Secp256k1Point struct {
	value secp256k1.JacobianPoint
}

func (v *Secp256k1Point) Curve() Curve {
	return Secp256k1
}

func (v *Secp256k1Point) New() Point {
	return &Secp256k1Point{}
}

func (v *Secp256k1Point) Clone() Point {
	result := &Secp256k1Point{}
	result.value.Set(&v.value)
	return result
}

func (v *Secp256k1Point) Set(u Point) Point {
	v.value.Set(&u.(*Secp256k1Point).value)
	return v
}

func (v *Secp256k1Point) Add(p Point, q Point) Point {
	var result secp256k1.JacobianPoint
	secp256k1.AddNonConst(&p.(*Secp256k1Point).value, &q.(*Secp256k1Point).value, &result)
	v.value.Set(&result)
	return v
}

func (v *Secp256k1Point) Subtract(p Point, q Point) Point {
	var negQ secp256k1.JacobianPoint
	negQ.Set(&q.(*Secp256k1Point).value)
	negQ.Y.Negate(1).Normalize()

	var result secp256k1.JacobianPoint
	secp256k1.AddNonConst(&p.(*Secp256k1Point).value, &negQ, &result)
	v.value.Set(&result)
	return v
}

func (v *Secp256k1Point) ScalarBaseMult(x Scalar) Point {
	var k secp256k1.ModNScalar
	k.SetByteSlice(x.Bytes())
	secp256k1.ScalarBaseMultNonConst(&k, &v.value)
	return v
}

func (v *Secp256k1Point) ScalarMult(x Scalar, q Point) Point {
	var k secp256k1.ModNScalar
	k.SetByteSlice(x.Bytes())

	var result secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&k, &q.(*Secp256k1Point).value, &result)
	v.value.Set(&result)
	return v
}

func (v *Secp256k1Point) Equal(q Point) bool {
	return subtle.ConstantTimeCompare(v.Bytes(), q.(*Secp256k1Point).Bytes()) == 1
}

// Bytes returns the 33-byte compressed encoding of the point.
// The point at infinity is encoded as 33 zero bytes; it cannot be decoded again via SetBytes.
func (v *Secp256k1Point) Bytes() []byte {
	var p secp256k1.JacobianPoint
	p.Set(&v.value)
	if p.Z.IsZero() {
		return make([]byte, secp256k1CompressedLength)
	}
	p.ToAffine()
	return secp256k1.NewPublicKey(&p.X, &p.Y).SerializeCompressed()
}

func (v *Secp256k1Point) SetBytes(x []byte) (Point, error) {
	if len(x) != secp256k1CompressedLength {
		return nil, fmt.Errorf("invalid Secp256k1 point length: %d, expected: %d (compressed format)", len(x), secp256k1CompressedLength)
	}
	pk, err := secp256k1.ParsePubKey(x)
	if err != nil {
		return nil, err
	}
	pk.AsJacobian(&v.value)

	if !bytes.Equal(v.Bytes(), x) {
		return nil, fmt.Errorf("invalid Secp256k1 point: not in canonical form")
	}
	return v, nil
}

func (v *Secp256k1Point) MarshalTo(target codec.Target) {
	target.WriteBytes(v.Bytes())
}

func (v *Secp256k1Point) UnmarshalFrom(source codec.Source) Point {
	var buf [secp256k1CompressedLength]byte
	source.ReadBytesInto(buf[:])
	_, err := v.SetBytes(buf[:])
	if err != nil {
		panic("failed to unmarshal Secp256k1 point: " + err.Error())
	}
	return v
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////
////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

type Edward25519Point struct {
	value edwards25519.Point
}

func (v *Edward25519Point) Curve() Curve {
	return Edwards25519
}

func (v *Edward25519Point) New() Point {
	return &Edward25519Point{}
}

func (v *Edward25519Point) Clone() Point {
	var copy Edward25519Point
	copy.value.Set(&v.value)
	return &copy
}

func (v *Edward25519Point) Set(u Point) Point {
	v.value.Set(&u.(*Edward25519Point).value)
	return v
}

func (v *Edward25519Point) Add(p Point, q Point) Point {
	v.value.Add(&p.(*Edward25519Point).value, &q.(*Edward25519Point).value)
	return v
}

func (v *Edward25519Point) Subtract(p Point, q Point) Point {
	v.value.Subtract(&p.(*Edward25519Point).value, &q.(*Edward25519Point).value)
	return v
}

func (v *Edward25519Point) ScalarBaseMult(x Scalar) Point {
	xBytes := x.Bytes()
	slices.Reverse(xBytes) // edwards25519 expects little-endian, while Scalar is big-endian
	xConverted, err := edwards25519.NewScalar().SetCanonicalBytes(xBytes)
	if err != nil {
		// This should never happen, as a compatible instance of the Scalar abstraction will always be valid.
		panic("invalid scalar: " + err.Error())
	}
	_ = v.value.ScalarBaseMult(xConverted)
	return v
}

func (v *Edward25519Point) ScalarMult(x Scalar, q Point) Point {
	xBytes := x.Bytes()
	slices.Reverse(xBytes) // edwards25519 expects little-endian, while Scalar is big-endian
	xConverted, err := edwards25519.NewScalar().SetCanonicalBytes(xBytes)
	if err != nil {
		// This should never happen, as a compatible instance of the Scalar abstraction will always be valid.
		panic("invalid scalar bytes: " + err.Error())
	}
	_ = v.value.ScalarMult(xConverted, &q.(*Edward25519Point).value)
	return v
}

func (v *Edward25519Point) Equal(q Point) bool {
	return subtle.ConstantTimeCompare(v.Bytes(), q.(*Edward25519Point).Bytes()) == 1
}

func (v *Edward25519Point) Bytes() []byte {
	return v.value.Bytes()
}

func (v *Edward25519Point) SetBytes(x []byte) (Point, error) {
	_, err := v.value.SetBytes(x)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare(v.value.Bytes(), x) != 1 {
		return nil, fmt.Errorf("invalid Edwards25519 point: not in canonical form")
	}
	return v, nil
}

func (v *Edward25519Point) MarshalTo(target codec.Target) {
	target.WriteBytes(v.value.Bytes())
}

func (v *Edward25519Point) UnmarshalFrom(source codec.Source) Point {
	var buf [edwards25519CompressedLength]byte
	source.ReadBytesInto(buf[:])
	_, err := v.value.SetBytes(buf[:])
	if err != nil {
		panic("failed to unmarshal Edwards25519 point: " + err.Error())
	}
	return v
}
