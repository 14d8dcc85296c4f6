// Package fpshim wraps a single-precision IEEE-754 soft-float arithmetic
// provider, translating between the architecture's rounding-mode and
// exception-flag encodings and the provider's own, and implements the two
// approximate reciprocal/reciprocal-square-root instructions via fixed
// lookup tables (spec.md §4.3, §9).
//
// The arithmetic primitives themselves are treated as an external
// collaborator (spec.md §1): Shim depends only on the Provider interface.
// NativeProvider is a reference implementation good enough to drive this
// repo end to end; a harness that needs bit-for-bit parity with a
// particular RTL FPU is expected to supply its own Provider.
package fpshim

// RM is the provider-facing rounding mode. Its values are deliberately
// their own type rather than a reuse of the architectural encoding: FloatShim
// is the boundary that translates one to the other (spec.md §9), even
// though, for NativeProvider, the two encodings happen to agree.
type RM uint8

const (
	RNE RM = iota
	RTZ
	RDN
	RUP
	RMM
)

// Flags mirrors the architecture's sticky fflags bit encoding: inexact=1,
// underflow=2, overflow=4, infinite(div-by-zero)=8, invalid=16. These exact
// bit values are part of the external soft-float contract (spec.md §9) and
// match original_source's softfloat_wrapper.c static_asserts.
type Flags uint8

const (
	FlagInexact   Flags = 1 << 0
	FlagUnderflow Flags = 1 << 1
	FlagOverflow  Flags = 1 << 2
	FlagInfinite  Flags = 1 << 3
	FlagInvalid   Flags = 1 << 4
)

// Provider is a conforming IEEE-754 binary32 arithmetic primitive source.
// Every method clears its own notion of "current exception flags" before
// performing the operation and returns only the flags that operation
// raised; Shim is responsible for OR-accumulating across a step.
type Provider interface {
	Add(rm RM, x, y uint32) (uint32, Flags)
	Sub(rm RM, x, y uint32) (uint32, Flags)
	Mul(rm RM, x, y uint32) (uint32, Flags)
	Div(rm RM, x, y uint32) (uint32, Flags)
	Sqrt(rm RM, x uint32) (uint32, Flags)
	MulAdd(rm RM, x, y, z uint32) (uint32, Flags)

	Eq(x, y uint32) (bool, Flags)
	Lt(x, y uint32) (bool, Flags)
	Le(x, y uint32) (bool, Flags)

	FromInt32(rm RM, x int32) (uint32, Flags)
	FromUint32(rm RM, x uint32) (uint32, Flags)
	ToInt32(rm RM, x uint32) (int32, Flags)
	ToUint32(rm RM, x uint32) (uint32, Flags)
}
