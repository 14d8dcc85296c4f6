package fpshim

import (
	"errors"

	"github.com/relaysilicon/rv32core/state"
)

// ErrReservedRoundingMode is returned when an FP instruction's rm field (or
// the frm CSR it dynamically defers to) holds one of the two reserved
// encodings; the caller raises an illegal-instruction trap.
var ErrReservedRoundingMode = errors.New("fpshim: reserved rounding mode")

// Shim is the architecture-facing entry point fpshim exposes to the
// executor: it resolves the effective rounding mode (static or dynamic),
// delegates the arithmetic to a Provider, and OR-accumulates the resulting
// exception flags into fflags (spec.md §9).
type Shim struct {
	Provider Provider
}

// NewShim constructs a Shim over p. A nil p defaults to NativeProvider.
func NewShim(p Provider) *Shim {
	if p == nil {
		p = NativeProvider{}
	}
	return &Shim{Provider: p}
}

func toProviderRM(rm state.RoundingMode) (RM, bool) {
	switch rm {
	case state.RNE:
		return RNE, true
	case state.RTZ:
		return RTZ, true
	case state.RDN:
		return RDN, true
	case state.RUP:
		return RUP, true
	case state.RMM:
		return RMM, true
	default:
		return 0, false
	}
}

// resolveRM picks the effective rounding mode for an instruction's static
// rm field, falling back to the frm CSR when rm requests RDyn.
func resolveRM(instRM, frm state.RoundingMode) (RM, bool) {
	eff := instRM
	if eff == state.RDyn {
		eff = frm
	}
	return toProviderRM(eff)
}

func accumulate(s *state.State, f Flags) {
	s.FFlags |= uint8(f)
}

func (sh *Shim) binary(s *state.State, instRM state.RoundingMode, x, y uint32,
	op func(Provider, RM, uint32, uint32) (uint32, Flags)) (uint32, error) {
	rm, ok := resolveRM(instRM, s.FRM)
	if !ok {
		return 0, ErrReservedRoundingMode
	}
	result, flags := op(sh.Provider, rm, x, y)
	accumulate(s, flags)
	return result, nil
}

func (sh *Shim) Add(s *state.State, instRM state.RoundingMode, x, y uint32) (uint32, error) {
	return sh.binary(s, instRM, x, y, Provider.Add)
}

func (sh *Shim) Sub(s *state.State, instRM state.RoundingMode, x, y uint32) (uint32, error) {
	return sh.binary(s, instRM, x, y, Provider.Sub)
}

func (sh *Shim) Mul(s *state.State, instRM state.RoundingMode, x, y uint32) (uint32, error) {
	return sh.binary(s, instRM, x, y, Provider.Mul)
}

func (sh *Shim) Div(s *state.State, instRM state.RoundingMode, x, y uint32) (uint32, error) {
	return sh.binary(s, instRM, x, y, Provider.Div)
}

func (sh *Shim) Sqrt(s *state.State, instRM state.RoundingMode, x uint32) (uint32, error) {
	rm, ok := resolveRM(instRM, s.FRM)
	if !ok {
		return 0, ErrReservedRoundingMode
	}
	result, flags := sh.Provider.Sqrt(rm, x)
	accumulate(s, flags)
	return result, nil
}

func (sh *Shim) MulAdd(s *state.State, instRM state.RoundingMode, x, y, z uint32) (uint32, error) {
	rm, ok := resolveRM(instRM, s.FRM)
	if !ok {
		return 0, ErrReservedRoundingMode
	}
	result, flags := sh.Provider.MulAdd(rm, x, y, z)
	accumulate(s, flags)
	return result, nil
}

func (sh *Shim) Eq(s *state.State, x, y uint32) bool {
	result, flags := sh.Provider.Eq(x, y)
	accumulate(s, flags)
	return result
}

func (sh *Shim) Lt(s *state.State, x, y uint32) bool {
	result, flags := sh.Provider.Lt(x, y)
	accumulate(s, flags)
	return result
}

func (sh *Shim) Le(s *state.State, x, y uint32) bool {
	result, flags := sh.Provider.Le(x, y)
	accumulate(s, flags)
	return result
}

func (sh *Shim) FromInt32(s *state.State, instRM state.RoundingMode, x int32) (uint32, error) {
	rm, ok := resolveRM(instRM, s.FRM)
	if !ok {
		return 0, ErrReservedRoundingMode
	}
	result, flags := sh.Provider.FromInt32(rm, x)
	accumulate(s, flags)
	return result, nil
}

func (sh *Shim) FromUint32(s *state.State, instRM state.RoundingMode, x uint32) (uint32, error) {
	rm, ok := resolveRM(instRM, s.FRM)
	if !ok {
		return 0, ErrReservedRoundingMode
	}
	result, flags := sh.Provider.FromUint32(rm, x)
	accumulate(s, flags)
	return result, nil
}

func (sh *Shim) ToInt32(s *state.State, instRM state.RoundingMode, x uint32) (int32, error) {
	rm, ok := resolveRM(instRM, s.FRM)
	if !ok {
		return 0, ErrReservedRoundingMode
	}
	result, flags := sh.Provider.ToInt32(rm, x)
	accumulate(s, flags)
	return result, nil
}

func (sh *Shim) ToUint32(s *state.State, instRM state.RoundingMode, x uint32) (uint32, error) {
	rm, ok := resolveRM(instRM, s.FRM)
	if !ok {
		return 0, ErrReservedRoundingMode
	}
	result, flags := sh.Provider.ToUint32(rm, x)
	accumulate(s, flags)
	return result, nil
}

// Min/Max/SignInjection/Classify/Rec7/RSqrt7 never depend on a Provider —
// they are either pure bit selection or, for the two approximate ops,
// implemented directly against the fixed tables (spec.md §9) — so they are
// plain functions (Min, Max, SignInjection, Classify, FRec7, FRSqrt7)
// rather than Shim methods. FRec7 still needs rounding-mode resolution for
// its subnormal-input abnormal-rounding path.
func (sh *Shim) Rec7(s *state.State, instRM state.RoundingMode, x uint32) (uint32, error) {
	rm, ok := resolveRM(instRM, s.FRM)
	if !ok {
		return 0, ErrReservedRoundingMode
	}
	result, flags := FRec7(rm, x)
	accumulate(s, flags)
	return result, nil
}

func (sh *Shim) RSqrt7(s *state.State, x uint32) uint32 {
	result, flags := FRSqrt7(x)
	accumulate(s, flags)
	return result
}

func (sh *Shim) MinOp(s *state.State, x, y uint32) uint32 {
	result, flags := Min(x, y)
	accumulate(s, flags)
	return result
}

func (sh *Shim) MaxOp(s *state.State, x, y uint32) uint32 {
	result, flags := Max(x, y)
	accumulate(s, flags)
	return result
}
