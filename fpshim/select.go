package fpshim

// Min implements fmin.s, Max implements fmax.s: NaN-aware selection per the
// RISC-V F extension's minimumNumber/maximumNumber semantics. Either
// operand being a signaling NaN raises invalid regardless of which value
// is selected; a single quiet NaN operand is ignored in favor of the
// other; two NaN operands produce the canonical NaN.
func Min(x, y uint32) (uint32, Flags) { return selectMinMax(x, y, false) }
func Max(x, y uint32) (uint32, Flags) { return selectMinMax(x, y, true) }

func selectMinMax(x, y uint32, wantMax bool) (uint32, Flags) {
	var flags Flags
	if isSignalingNaN(x) || isSignalingNaN(y) {
		flags = FlagInvalid
	}
	xNaN, yNaN := isNaN(x), isNaN(y)
	switch {
	case xNaN && yNaN:
		return canonicalNaN, flags
	case xNaN:
		return y, flags
	case yNaN:
		return x, flags
	}
	if isZero(x) && isZero(y) && signOf(x) != signOf(y) {
		if wantMax {
			return packZero(false), flags
		}
		return packZero(true), flags
	}
	xf, yf := toFloat64(x), toFloat64(y)
	if wantMax {
		if xf >= yf {
			return x, flags
		}
		return y, flags
	}
	if xf <= yf {
		return x, flags
	}
	return y, flags
}

// SignInjection implements fsgnj.s/fsgnjn.s/fsgnjx.s: the magnitude always
// comes from x; the sign comes from y, negated y, or x XOR y respectively.
// No exception flags are ever raised, even for NaN operands.
func SignInjection(x, y uint32, negate, xorSign bool) uint32 {
	mag := x &^ signMask
	switch {
	case xorSign:
		return mag | ((x ^ y) & signMask)
	case negate:
		return mag | ((y ^ signMask) & signMask)
	default:
		return mag | (y & signMask)
	}
}
