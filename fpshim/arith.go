package fpshim

import "math"

// NativeProvider is the reference Provider implementation: a conforming
// (if not always bit-exact under the rarest double-rounding edge cases —
// see round.go) binary32 arithmetic engine built on Go's native float32/
// float64 types and math/bits-free manual rounding. It requires no
// soft-float library; none appears anywhere in the retrieved corpus (see
// DESIGN.md).
type NativeProvider struct{}

func nanResult(x, y uint32) (uint32, Flags) {
	var flags Flags
	if isSignalingNaN(x) || isSignalingNaN(y) {
		flags = FlagInvalid
	}
	return canonicalNaN, flags
}

func (NativeProvider) Add(rm RM, x, y uint32) (uint32, Flags) {
	if isNaN(x) || isNaN(y) {
		return nanResult(x, y)
	}
	if isInf(x) && isInf(y) {
		if signOf(x) != signOf(y) {
			return canonicalNaN, FlagInvalid
		}
		return x, 0
	}
	if isInf(x) {
		return x, 0
	}
	if isInf(y) {
		return y, 0
	}
	if isZero(x) && isZero(y) {
		sx, sy := signOf(x), signOf(y)
		if sx == sy {
			return packZero(sx), 0
		}
		return packZero(rm == RDN), 0
	}
	if isZero(x) {
		return y, 0
	}
	if isZero(y) {
		return x, 0
	}
	xf, yf := toFloat64(x), toFloat64(y)
	if xf == -yf {
		// Exact cancellation of two nonzero operands: IEEE-754 mandates a
		// +0 result in every rounding mode except round-toward-negative-
		// infinity, where the result is -0.
		return packZero(rm == RDN), 0
	}
	return roundFinite(xf+yf, rm)
}

func (p NativeProvider) Sub(rm RM, x, y uint32) (uint32, Flags) {
	return p.Add(rm, x, negate(y))
}

func negate(bits uint32) uint32 { return bits ^ signMask }

func (NativeProvider) Mul(rm RM, x, y uint32) (uint32, Flags) {
	if isNaN(x) || isNaN(y) {
		return nanResult(x, y)
	}
	resultSign := signOf(x) != signOf(y)
	if (isInf(x) && isZero(y)) || (isZero(x) && isInf(y)) {
		return canonicalNaN, FlagInvalid
	}
	if isInf(x) || isInf(y) {
		return packInf(resultSign), 0
	}
	if isZero(x) || isZero(y) {
		return packZero(resultSign), 0
	}
	return roundFinite(toFloat64(x)*toFloat64(y), rm)
}

func (NativeProvider) Div(rm RM, x, y uint32) (uint32, Flags) {
	if isNaN(x) || isNaN(y) {
		return nanResult(x, y)
	}
	resultSign := signOf(x) != signOf(y)
	if isInf(x) && isInf(y) {
		return canonicalNaN, FlagInvalid
	}
	if isZero(x) && isZero(y) {
		return canonicalNaN, FlagInvalid
	}
	if isInf(x) {
		return packInf(resultSign), 0
	}
	if isInf(y) {
		return packZero(resultSign), 0
	}
	if isZero(y) {
		return packInf(resultSign), FlagInfinite
	}
	if isZero(x) {
		return packZero(resultSign), 0
	}
	return roundFinite(toFloat64(x)/toFloat64(y), rm)
}

func (NativeProvider) Sqrt(rm RM, x uint32) (uint32, Flags) {
	if isNaN(x) {
		return nanResult(x, x)
	}
	if isZero(x) {
		return x, 0 // sign preserved: sqrt(-0) = -0
	}
	if signOf(x) {
		return canonicalNaN, FlagInvalid
	}
	if isInf(x) {
		return x, 0
	}
	return roundFinite(math.Sqrt(toFloat64(x)), rm)
}

func (NativeProvider) MulAdd(rm RM, x, y, z uint32) (uint32, Flags) {
	if isNaN(x) || isNaN(y) || isNaN(z) {
		var flags Flags
		if isSignalingNaN(x) || isSignalingNaN(y) || isSignalingNaN(z) {
			flags = FlagInvalid
		}
		if (isInf(x) && isZero(y)) || (isZero(x) && isInf(y)) {
			flags = FlagInvalid
		}
		return canonicalNaN, flags
	}
	if (isInf(x) && isZero(y)) || (isZero(x) && isInf(y)) {
		return canonicalNaN, FlagInvalid
	}
	productSign := signOf(x) != signOf(y)
	productIsInf := isInf(x) || isInf(y)
	if productIsInf {
		if isInf(z) && productSign != signOf(z) {
			return canonicalNaN, FlagInvalid
		}
		return packInf(productSign), 0
	}
	if isInf(z) {
		return z, 0
	}
	// FMA computed with a single rounding to float64 precision of the exact
	// mathematical x*y+z (math.FMA avoids the intermediate rounding of
	// x*y); rounding that value again to float32 is double rounding in
	// principle but, with 29 bits of headroom, accurate in practice.
	exact := math.FMA(toFloat64(x), toFloat64(y), toFloat64(z))
	if exact == 0 && (isZero(x) || isZero(y) || !productIsInf) {
		zSign := signOf(z)
		if isZero(z) && productSign == zSign {
			return packZero(productSign), 0
		}
		return packZero(rm == RDN), 0
	}
	return roundFinite(exact, rm)
}
