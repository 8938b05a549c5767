package math

import (
	"fmt"

	"filippo.io/edwards25519"
	"filippo.io/nistec"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/smartcontractkit/cgdkg/internal/codec"
)

var SupportedCurves = []Curve{
	P256,
	P384,
	Secp256k1,
	Edwards25519,
}

var (
	// See:
	//  - https://nvlpubs.nist.gov/nistpubs/SpecialPublications/NIST.SP.800-186.pdf
	//  - https://www.secg.org/sec2-v2.pdf
	//  - https://www.rfc-editor.org/rfc/rfc7748.html

	// NIST 800-186, Section 3.2.1.3
	p256GroupOrder = NewModulus("115792089210356248762697446949407573529996955224135760342422259061068512044369")

	// NIST 800-186, Section 3.2.1.4
	p384GroupOrder = NewModulus("39402006196394479212279040100143613805079739270465446667946905279627659399113263569398956308152294913554433653942643")

	// SEC 2, Version 2.0, Section 2.4.1
	secp256k1GroupOrder = NewModulus("115792089237316195423570985008687907852837564279074904382605163141518161494337")

	// RFC 7748, Section 4.1
	edwards25519GroupOrder = NewModulus("7237005577332262213973186563042994240857116359379907606001950938285454250989")
)

const (
	p256CompressedLength         = 33
	p384CompressedLength         = 49
	secp256k1CompressedLength    = 33
	edwards25519CompressedLength = 32
)

type p256Curve struct{}
type p384Curve struct{}
type secp256k1Curve struct{}
type edwards25519Curve struct{}

var P256 = &p256Curve{}
var P384 = &p384Curve{}
var Secp256k1 = &secp256k1Curve{}
var Edwards25519 = &edwards25519Curve{}

func (c *p256Curve) internal()         {}
func (c *p384Curve) internal()         {}
func (c *secp256k1Curve) internal()    {}
func (c *edwards25519Curve) internal() {}

func (c *p256Curve) Name() string         { return "P256" }
func (c *p384Curve) Name() string         { return "P384" }
func (c *secp256k1Curve) Name() string    { return "Secp256k1" }
func (c *edwards25519Curve) Name() string { return "Edwards25519" }

func (c *p256Curve) GroupOrder() *Modulus         { return p256GroupOrder }
func (c *p384Curve) GroupOrder() *Modulus         { return p384GroupOrder }
func (c *secp256k1Curve) GroupOrder() *Modulus    { return secp256k1GroupOrder }
func (c *edwards25519Curve) GroupOrder() *Modulus { return edwards25519GroupOrder }

func (c *p256Curve) Scalar() Scalar         { return NewScalar(p256GroupOrder) }
func (c *p384Curve) Scalar() Scalar         { return NewScalar(p384GroupOrder) }
func (c *secp256k1Curve) Scalar() Scalar    { return NewScalar(secp256k1GroupOrder) }
func (c *edwards25519Curve) Scalar() Scalar { return NewScalar(edwards25519GroupOrder) }

func (c *p256Curve) Point() Point         { return &P256Point{*nistec.NewP256Point()} }
func (c *p384Curve) Point() Point         { return &P384Point{*nistec.NewP384Point()} }
func (c *secp256k1Curve) Point() Point    { return &Secp256k1Point{} }
func (c *edwards25519Curve) Point() Point { return &Edward25519Point{} }

func (c *p256Curve) Generator() Point { return &P256Point{*nistec.NewP256Point().SetGenerator()} }
func (c *p384Curve) Generator() Point { return &P384Point{*nistec.NewP384Point().SetGenerator()} }
func (c *secp256k1Curve) Generator() Point {
	one := new(secp256k1.ModNScalar).SetInt(1)
	var g Secp256k1Point
	secp256k1.ScalarBaseMultNonConst(one, &g.value)
	return &g
}
func (c *edwards25519Curve) Generator() Point {
	return &Edward25519Point{*edwards25519.NewGeneratorPoint()}
}

func (c *p256Curve) Identity() Point      { return &P256Point{*nistec.NewP256Point()} }
func (c *p384Curve) Identity() Point      { return &P384Point{*nistec.NewP384Point()} }
func (c *secp256k1Curve) Identity() Point { return &Secp256k1Point{} }
func (c *edwards25519Curve) Identity() Point {
	return &Edward25519Point{*edwards25519.NewIdentityPoint()}
}

func (c *p256Curve) ScalarBytes() int         { return 32 }
func (c *p384Curve) ScalarBytes() int         { return 48 }
func (c *secp256k1Curve) ScalarBytes() int    { return 32 }
func (c *edwards25519Curve) ScalarBytes() int { return 32 }

func (c *p256Curve) PointBytes() int         { return p256CompressedLength }
func (c *p384Curve) PointBytes() int         { return p384CompressedLength }
func (c *secp256k1Curve) PointBytes() int    { return secp256k1CompressedLength }
func (c *edwards25519Curve) PointBytes() int { return edwards25519CompressedLength }

func (c *p256Curve) MarshalTo(target codec.Target)      { target.WriteBytes([]byte{curveToIndex(c)}) }
func (c *p384Curve) MarshalTo(target codec.Target)      { target.WriteBytes([]byte{curveToIndex(c)}) }
func (c *secp256k1Curve) MarshalTo(target codec.Target) { target.WriteBytes([]byte{curveToIndex(c)}) }
func (c *edwards25519Curve) MarshalTo(target codec.Target) {
	target.WriteBytes([]byte{curveToIndex(c)})
}

func UnmarshalCurve(src codec.Source) Curve {
	var index [1]byte
	src.ReadBytesInto(index[:])
	if int(index[0]) >= len(SupportedCurves) {
		panic(fmt.Sprintf("curve lookup failed, index: %d", index))
	}
	return SupportedCurves[index[0]]
}

func CurveByName(name string) Curve {
	for _, curve := range SupportedCurves {
		if curve.Name() == name {
			return curve
		}
	}
	return nil
}

func curveToIndex(curve Curve) byte {
	for i, c := range SupportedCurves {
		if c == curve {
			return byte(i)
		}
	}
	panic("curve not found in SupportedCurves")
}
