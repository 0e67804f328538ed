package hyperminhash

import (
	"fmt"
	"math"
	"math/big"
)

// Asymptotic per-register collision rate of two independent b-bit minhash
// sketches of equal cardinality, before the 2^-r tail scaling.
const collisionRate = 0.169919487159739093975315012348630288992889

// expectedCollisions returns the expected number of registers that match
// between sketches of two independent sets of sizes x and y, under the
// given collision mode.
func expectedCollisions(x, y float64, p, q, r uint, mode CollisionMode) (float64, error) {
	switch mode {
	case CollisionPrecise:
		return preciseCollisions(x, y, p, q, r), nil
	case CollisionApprox:
		return approxCollisions(x, y, p, q, r)
	default:
		return 0, nil
	}
}

// approxCollisions is the piecewise approximation: above 2^(p+5) the
// asymptotic constant-rate form, below it the per-loglog-bucket collision
// sum scaled down by the 2^r tail space. Cardinalities beyond
// 2^(2^q+r+p-10) are rejected; the approximation breaks down there.
func approxCollisions(x, y float64, p, q, r uint) (float64, error) {
	n, m := math.Max(x, y), math.Min(x, y)

	if n > math.Pow(2, float64(uint64(1)<<q)+float64(r+p)-10) {
		return 0, fmt.Errorf("%w: %g", ErrCardinality, n)
	}

	if n > math.Ldexp(1, int(p)+5) {
		ratio := n / m
		ratioFactor := 4 * ratio / ((1 + ratio) * (1 + ratio))
		return collisionRate * math.Ldexp(ratioFactor, int(p)-int(r)), nil
	}

	var cp float64
	nb := uint64(1) << q
	for i := uint64(1); i <= nb; i++ {
		var b1, b2 float64
		if i != nb {
			b1 = math.Ldexp(1, -int(i))
		}
		b2 = math.Ldexp(1, -int(i)+1)
		b1 = math.Ldexp(b1, -int(p))
		b2 = math.Ldexp(b2, -int(p))
		prX := math.Pow(1-b1, n) - math.Pow(1-b2, n)
		prY := math.Pow(1-b1, m) - math.Pow(1-b2, m)
		cp += prX * prY
	}
	return math.Ldexp(cp, int(p)-int(r)), nil
}

// collisionPrec is the working precision of the exact collision sum in
// bits; 340 bits is over 100 decimal digits, enough for cardinalities up
// to 2^40.
const collisionPrec = 340

// preciseCollisions evaluates the exact double sum over every (counter,
// tail) register value. The terms are differences of high powers of
// numbers barely below one, so the whole computation runs in
// arbitrary-precision floats and only the final sum is rounded back.
func preciseCollisions(x, y float64, p, q, r uint) float64 {
	n := uint64(math.Round(x))
	m := uint64(math.Round(y))

	one := newFloat().SetUint64(1)
	twoR := newFloat().SetMantExp(one, int(r)) // 2^r

	cp := newFloat()
	nb := uint64(1) << q
	tails := uint64(1) << r
	for i := uint64(1); i <= nb; i++ {
		for j := uint64(0); j < tails; j++ {
			jf := newFloat().SetUint64(j)
			var b1, b2 *big.Float
			if i != nb {
				// (2^r + j) / 2^(i+r), (2^r + j + 1) / 2^(i+r)
				b1 = newFloat().Add(twoR, jf)
				b2 = newFloat().Add(b1, one)
				b1.SetMantExp(b1, -int(i+uint64(r)))
				b2.SetMantExp(b2, -int(i+uint64(r)))
			} else {
				// j / 2^(i+r-1), (j + 1) / 2^(i+r-1)
				b1 = jf
				b2 = newFloat().Add(jf, one)
				b1.SetMantExp(b1, -int(i+uint64(r)-1))
				b2.SetMantExp(b2, -int(i+uint64(r)-1))
			}
			b1.SetMantExp(b1, -int(p))
			b2.SetMantExp(b2, -int(p))

			p1 := newFloat().Sub(one, b1)
			p2 := newFloat().Sub(one, b2)
			prX := newFloat().Sub(powUint(p1, n), powUint(p2, n))
			prY := newFloat().Sub(powUint(p1, m), powUint(p2, m))
			cp.Add(cp, prX.Mul(prX, prY))
		}
	}
	cp.SetMantExp(cp, int(p))
	f, _ := cp.Float64()
	return f
}

func newFloat() *big.Float {
	return new(big.Float).SetPrec(collisionPrec)
}

// powUint raises x to an integer power by squaring.
func powUint(x *big.Float, n uint64) *big.Float {
	z := newFloat().SetUint64(1)
	base := newFloat().Set(x)
	for n > 0 {
		if n&1 == 1 {
			z.Mul(z, base)
		}
		base.Mul(base, base)
		n >>= 1
	}
	return z
}
