package fpshim

// frsqrt7/frec7 approximate reciprocal instructions (spec.md §4.3, §9).
// The lookup tables, index formulas and output exponent/significand
// arithmetic are ported bit-for-bit from the reference soft-float
// provider's rsqrte7/recip7 (themselves adapted from Spike's
// softfloat/fall_reciprocal.c): every intermediate stays a uint64 so the
// unsigned wraparound the original relies on (exp-- at exp==0, bitwise NOT
// of a narrow exponent field) behaves identically in Go.

const recipPrecBits = 7 // p, bits of table-indexed mantissa

var rsqrt7Table = [128]uint8{
	52, 51, 50, 48, 47, 46, 44, 43,
	42, 41, 40, 39, 38, 36, 35, 34,
	33, 32, 31, 30, 30, 29, 28, 27,
	26, 25, 24, 23, 23, 22, 21, 20,
	19, 19, 18, 17, 16, 16, 15, 14,
	14, 13, 12, 12, 11, 10, 10, 9,
	9, 8, 7, 7, 6, 6, 5, 4,
	4, 3, 3, 2, 2, 1, 1, 0,
	127, 125, 123, 121, 119, 118, 116, 114,
	113, 111, 109, 108, 106, 105, 103, 102,
	100, 99, 97, 96, 95, 93, 92, 91,
	90, 88, 87, 86, 85, 84, 83, 82,
	80, 79, 78, 77, 76, 75, 74, 73,
	72, 71, 70, 70, 69, 68, 67, 66,
	65, 64, 63, 63, 62, 61, 60, 59,
	59, 58, 57, 56, 56, 55, 54, 53,
}

var recip7Table = [128]uint8{
	127, 125, 123, 121, 119, 117, 116, 114,
	112, 110, 109, 107, 105, 104, 102, 100,
	99, 97, 96, 94, 93, 91, 90, 88,
	87, 85, 84, 83, 81, 80, 79, 77,
	76, 75, 74, 72, 71, 70, 69, 68,
	66, 65, 64, 63, 62, 61, 60, 59,
	58, 57, 56, 55, 54, 53, 52, 51,
	50, 49, 48, 47, 46, 45, 44, 43,
	42, 41, 40, 40, 39, 38, 37, 36,
	35, 35, 34, 33, 32, 31, 31, 30,
	29, 28, 28, 27, 26, 25, 25, 24,
	23, 23, 22, 21, 21, 20, 19, 19,
	18, 17, 17, 16, 15, 15, 14, 14,
	13, 12, 12, 11, 11, 10, 9, 9,
	8, 8, 7, 7, 6, 5, 5, 4,
	4, 3, 3, 2, 2, 1, 1, 0,
}

func extract64(val uint64, pos, length int) uint64 {
	return (val >> uint(pos)) & (^uint64(0) >> uint(64-length))
}

func mask64(pos, length int) uint64 {
	return (^uint64(0) >> uint(64-length)) << uint(pos)
}

const (
	recipExpBits  = 8
	recipSigBits  = 23
)

func rsqrte7(val uint64, sub bool) uint64 {
	const e, s, p = recipExpBits, recipSigBits, recipPrecBits
	exp := extract64(val, s, e)
	sig := extract64(val, 0, s)
	sign := extract64(val, s+e, 1)

	if sub {
		for extract64(sig, s-1, 1) == 0 {
			exp--
			sig <<= 1
		}
		sig = (sig << 1) & mask64(0, s)
	}

	idx := ((exp & 1) << (p - 1)) | (sig >> (s - p + 1))
	outSig := uint64(rsqrt7Table[idx]) << (s - p)
	outExp := (3*mask64(0, e-1) + ^exp) / 2

	return (sign << (s + e)) | (outExp << s) | outSig
}

func recip7(val uint64, rm RM, sub bool) (uint64, bool) {
	const e, s, p = recipExpBits, recipSigBits, recipPrecBits
	exp := extract64(val, s, e)
	sig := extract64(val, 0, s)
	sign := extract64(val, s+e, 1)
	roundAbnormal := false

	if sub {
		for extract64(sig, s-1, 1) == 0 {
			exp--
			sig <<= 1
		}
		sig = (sig << 1) & mask64(0, s)

		if exp != 0 && exp != ^uint64(0) {
			roundAbnormal = true
			if rm == RTZ || (rm == RDN && sign == 0) || (rm == RUP && sign != 0) {
				return ((sign << (s + e)) | mask64(s, e)) - 1, roundAbnormal
			}
			return (sign << (s + e)) | mask64(s, e), roundAbnormal
		}
	}

	idx := sig >> (s - p)
	outSig := uint64(recip7Table[idx]) << (s - p)
	outExp := 2*mask64(0, e-1) + ^exp
	if outExp == 0 || outExp == ^uint64(0) {
		outSig = (outSig >> 1) | mask64(s-1, 1)
		if outExp == ^uint64(0) {
			outSig >>= 1
			outExp = 0
		}
	}

	return (sign << (s + e)) | (outExp << s) | outSig, roundAbnormal
}

// FRSqrt7 implements frsqrt7.s: a 7-bit accurate approximation to 1/sqrt(x).
// It does not depend on the rounding mode.
func FRSqrt7(x uint32) (uint32, Flags) {
	switch Classify(x) {
	case ClassNegInf, ClassNegNormal, ClassNegSubnormal, ClassSignalingNaN:
		return canonicalNaN, FlagInvalid
	case ClassQuietNaN:
		return canonicalNaN, 0
	case ClassNegZero:
		return 0xff800000, FlagInfinite
	case ClassPosZero:
		return 0x7f800000, FlagInfinite
	case ClassPosInf:
		return 0, 0
	case ClassPosSubnormal:
		return uint32(rsqrte7(uint64(x), true)), 0
	default: // ClassPosNormal
		return uint32(rsqrte7(uint64(x), false)), 0
	}
}

// FRec7 implements frec7.s: a 7-bit accurate approximation to 1/x.
func FRec7(rm RM, x uint32) (uint32, Flags) {
	switch Classify(x) {
	case ClassNegInf:
		return 0x80000000, 0
	case ClassPosInf:
		return 0, 0
	case ClassNegZero:
		return 0xff800000, FlagInfinite
	case ClassPosZero:
		return 0x7f800000, FlagInfinite
	case ClassSignalingNaN:
		return canonicalNaN, FlagInvalid
	case ClassQuietNaN:
		return canonicalNaN, 0
	case ClassNegSubnormal, ClassPosSubnormal:
		v, abnormal := recip7(uint64(x), rm, true)
		var flags Flags
		if abnormal {
			flags = FlagInexact | FlagOverflow
		}
		return uint32(v), flags
	default: // normal
		v, abnormal := recip7(uint64(x), rm, false)
		var flags Flags
		if abnormal {
			flags = FlagInexact | FlagOverflow
		}
		return uint32(v), flags
	}
}
