package fpshim

import "math"

func roundToIntRM(f float64, rm RM) (float64, bool) {
	if f == math.Trunc(f) {
		return f, false
	}
	switch rm {
	case RTZ:
		return math.Trunc(f), true
	case RDN:
		return math.Floor(f), true
	case RUP:
		return math.Ceil(f), true
	case RMM:
		return math.Round(f), true // ties away from zero
	default: // RNE
		return math.RoundToEven(f), true
	}
}

func (NativeProvider) FromInt32(rm RM, x int32) (uint32, Flags) {
	return roundFinite(float64(x), rm)
}

func (NativeProvider) FromUint32(rm RM, x uint32) (uint32, Flags) {
	return roundFinite(float64(x), rm)
}

func (NativeProvider) ToInt32(rm RM, x uint32) (int32, Flags) {
	if isNaN(x) {
		return math.MaxInt32, FlagInvalid
	}
	if isInf(x) {
		if signOf(x) {
			return math.MinInt32, FlagInvalid
		}
		return math.MaxInt32, FlagInvalid
	}
	f := toFloat64(x)
	rounded, inexact := roundToIntRM(f, rm)
	if rounded > float64(math.MaxInt32) || rounded < float64(math.MinInt32) {
		if rounded < 0 {
			return math.MinInt32, FlagInvalid
		}
		return math.MaxInt32, FlagInvalid
	}
	var flags Flags
	if inexact {
		flags = FlagInexact
	}
	return int32(rounded), flags
}

func (NativeProvider) ToUint32(rm RM, x uint32) (uint32, Flags) {
	if isNaN(x) {
		return math.MaxUint32, FlagInvalid
	}
	if isInf(x) {
		if signOf(x) {
			return 0, FlagInvalid
		}
		return math.MaxUint32, FlagInvalid
	}
	f := toFloat64(x)
	rounded, inexact := roundToIntRM(f, rm)
	if rounded < 0 {
		return 0, FlagInvalid
	}
	if rounded > float64(math.MaxUint32) {
		return math.MaxUint32, FlagInvalid
	}
	var flags Flags
	if inexact {
		flags = FlagInexact
	}
	return uint32(rounded), flags
}
