package state

// ============================================================================
// Architecture constants
// ============================================================================
// These values are defined by the base RV32 integer/float architecture and
// the minimal machine-mode privilege subset this model implements.

const (
	// NumXRegs is the number of general-purpose integer registers.
	NumXRegs = 32

	// NumFRegs is the number of single-precision floating-point registers.
	NumFRegs = 32
)

// PrivMode is the current processor privilege level.
type PrivMode uint8

const (
	PrivU PrivMode = 0
	PrivS PrivMode = 1
	PrivM PrivMode = 3
)

// FFlags bit positions, from the LSB: inexact, underflow, overflow,
// div-by-zero/"infinite", invalid. These exact bit values are part of the
// external soft-float contract (spec.md §9).
const (
	FFlagInexact   = 1 << 0
	FFlagUnderflow = 1 << 1
	FFlagOverflow  = 1 << 2
	FFlagInfinite  = 1 << 3
	FFlagInvalid   = 1 << 4
)

// RoundingMode encodes the static rounding-mode field of an FP instruction,
// or the frm CSR.
type RoundingMode uint8

const (
	RNE RoundingMode = 0
	RTZ RoundingMode = 1
	RDN RoundingMode = 2
	RUP RoundingMode = 3
	RMM RoundingMode = 4
	// 5 and 6 are reserved.
	RDyn RoundingMode = 7
)

// CSR indices for the implemented machine-mode subset.
const (
	CSRFFlags   uint16 = 0x001
	CSRFRM      uint16 = 0x002
	CSRFCSR     uint16 = 0x003
	CSRMStatus  uint16 = 0x300
	CSRMScratch uint16 = 0x340
	CSRMTvec    uint16 = 0x305
	CSRMEPC     uint16 = 0x341
	CSRMCause   uint16 = 0x342
	CSRMTval    uint16 = 0x343
)

// CSR privilege/read-only encoding: top two bits of the 12-bit CSR index
// select read-only (0b11) vs. read-write; bits [9:8] select the minimum
// privilege level required to access the CSR.
const (
	csrReadOnlyMask = 0xc00
	csrPrivShift    = 8
	csrPrivMask     = 0x3
)

// csrRequiredPriv returns the minimum privilege level required to access csr.
func csrRequiredPriv(csr uint16) PrivMode {
	return PrivMode((csr >> csrPrivShift) & csrPrivMask)
}

// csrIsReadOnly reports whether csr's top two bits mark it read-only.
func csrIsReadOnly(csr uint16) bool {
	return csr&csrReadOnlyMask == csrReadOnlyMask
}
