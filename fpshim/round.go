package fpshim

import "math"

// roundFinite converts a float64 approximation of an exact (or
// irrational-but-very-precise, for div/sqrt) mathematical result into a
// correctly-rounded float32, honoring rm and reporting inexact/overflow.
//
// For add/sub/mul the float64 intermediate is exact (float64 has 52
// mantissa bits against float32's 24, ample headroom for the exponent
// spreads single-precision operands can produce), so this rounds correctly
// in every case. For div/sqrt the float64 value is itself already
// correctly rounded to float64 by the host FPU rather than exact; rounding
// that down to float32 risks the classic double-rounding misround in rare
// cases near a float32 rounding boundary. This is a known, accepted
// simplification of the reference provider — see DESIGN.md.
func roundFinite(exact float64, rm RM) (uint32, Flags) {
	if exact == 0 {
		return packZero(math.Signbit(exact)), 0
	}

	nearest := float32(exact)
	if isOverflowToInf(nearest, exact) {
		return roundOverflow(exact < 0, rm)
	}
	if float64(nearest) == exact {
		// Exact: no flags. Underflow is raised only for inexact tiny
		// results, so a bit-exact subnormal result raises no flags either.
		return math.Float32bits(nearest), 0
	}

	var flags Flags = FlagInexact
	bits := math.Float32bits(nearest)
	if isSubnormal(bits) || isZero(bits) {
		flags |= FlagUnderflow
	}

	switch rm {
	case RNE:
		return bits, flags
	case RTZ:
		return stepToward(bits, exact, towardZero), flags
	case RDN:
		return stepToward(bits, exact, towardNegInf), flags
	case RUP:
		return stepToward(bits, exact, towardPosInf), flags
	case RMM:
		return stepToward(bits, exact, towardNearestAway), flags
	default:
		return bits, flags
	}
}

type direction int

const (
	towardZero direction = iota
	towardNegInf
	towardPosInf
	towardNearestAway
)

// stepToward re-derives the correctly-rounded bit pattern for the requested
// directed mode from the bracketing pair of float32 values around exact.
// nearest (bits) is known to be an inexact approximation of exact (the
// caller already checked) and is used only to find the bracket cheaply.
func stepToward(bits uint32, exact float64, dir direction) uint32 {
	nearestF := float64(math.Float32frombits(bits))

	var lower, upper uint32
	if nearestF > exact {
		upper = bits
		lower = stepDown(bits)
	} else {
		lower = bits
		upper = stepUp(bits)
	}
	lowerF := float64(math.Float32frombits(lower))
	upperF := float64(math.Float32frombits(upper))

	switch dir {
	case towardNegInf:
		return lower
	case towardPosInf:
		return upper
	case towardZero:
		if exact >= 0 {
			return lower
		}
		return upper
	case towardNearestAway:
		dLower := exact - lowerF
		dUpper := upperF - exact
		switch {
		case dLower < dUpper:
			return lower
		case dUpper < dLower:
			return upper
		default: // exact tie: away from zero
			if exact >= 0 {
				return upper
			}
			return lower
		}
	}
	return bits
}

// stepUp/stepDown move a float32 bit pattern by one ULP away from or toward
// negative infinity, via integer increment/decrement of the bit pattern —
// valid across the whole finite range because IEEE-754's bit layout is
// monotonic in magnitude within a sign.
func stepUp(bits uint32) uint32 {
	if signOf(bits) {
		if bits&^signMask == 0 {
			return 1 // -0 -> smallest positive subnormal... but stepUp from -0 toward +inf goes to +min
		}
		return bits - 1
	}
	return bits + 1
}

func stepDown(bits uint32) uint32 {
	if !signOf(bits) {
		if bits == 0 {
			return signMask | 1
		}
		return bits - 1
	}
	return bits + 1
}

// isOverflowToInf reports whether rounding exact to float32 precision
// overflows the finite range (the naive float64->float32 narrowing already
// saturates to +-Inf in that case, which is what we detect here).
func isOverflowToInf(nearest float32, exact float64) bool {
	return math.IsInf(float64(nearest), 0) && !math.IsInf(exact, 0)
}

// roundOverflow applies the IEEE-754 rounding-mode-dependent overflow
// behavior: round-to-nearest modes saturate to infinity, directed modes
// toward zero (or away from the infinity of that sign) saturate to the
// largest finite magnitude instead.
func roundOverflow(negative bool, rm RM) (uint32, Flags) {
	flags := FlagOverflow | FlagInexact
	switch rm {
	case RTZ:
		return maxFinite(negative), flags
	case RDN:
		if negative {
			return packInf(true), flags
		}
		return maxFinite(false), flags
	case RUP:
		if negative {
			return maxFinite(true), flags
		}
		return packInf(false), flags
	default: // RNE, RMM
		return packInf(negative), flags
	}
}

func maxFinite(negative bool) uint32 {
	v := uint32(0x7f7fffff)
	if negative {
		v |= signMask
	}
	return v
}
