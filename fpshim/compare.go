package fpshim

// Eq implements feq.s: a quiet comparison. Only a signaling NaN raises
// invalid; a quiet NaN operand simply makes the comparison false.
func (NativeProvider) Eq(x, y uint32) (bool, Flags) {
	if isNaN(x) || isNaN(y) {
		var flags Flags
		if isSignalingNaN(x) || isSignalingNaN(y) {
			flags = FlagInvalid
		}
		return false, flags
	}
	if isZero(x) && isZero(y) {
		return true, 0
	}
	return toFloat64(x) == toFloat64(y), 0
}

// Lt implements flt.s: a signaling comparison — any NaN operand, quiet or
// signaling, raises invalid.
func (NativeProvider) Lt(x, y uint32) (bool, Flags) {
	if isNaN(x) || isNaN(y) {
		return false, FlagInvalid
	}
	if isZero(x) && isZero(y) {
		return false, 0
	}
	return toFloat64(x) < toFloat64(y), 0
}

// Le implements fle.s: signaling, like Lt.
func (NativeProvider) Le(x, y uint32) (bool, Flags) {
	if isNaN(x) || isNaN(y) {
		return false, FlagInvalid
	}
	if isZero(x) && isZero(y) {
		return true, 0
	}
	return toFloat64(x) <= toFloat64(y), 0
}
