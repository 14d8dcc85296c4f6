package state

import "fmt"

// CSRAccessError reports an illegal CSR access: insufficient privilege, a
// write to a read-only CSR, or a CSR this model does not implement.
type CSRAccessError struct {
	CSR     uint16
	Illegal bool // true: report as illegal-instruction; false: fatal (unimplemented)
	Reason  string
}

func (e *CSRAccessError) Error() string {
	return fmt.Sprintf("csr 0x%03x: %s", e.CSR, e.Reason)
}

// checkAccess validates privilege and (for writes) read-only status. It does
// not check CSR existence — callers do that via ReadCSR/WriteCSR's switch.
func (s *State) checkAccess(csr uint16, write bool) error {
	if s.Priv < csrRequiredPriv(csr) {
		return &CSRAccessError{CSR: csr, Illegal: true, Reason: "insufficient privilege"}
	}
	if write && csrIsReadOnly(csr) {
		return &CSRAccessError{CSR: csr, Illegal: true, Reason: "write to read-only csr"}
	}
	return nil
}

// ReadCSR returns the value of csr, or an error: a CSRAccessError with
// Illegal=true for a privilege violation, or Illegal=false for a CSR this
// model does not implement — spec.md §7 requires the latter be surfaced as
// a hard error rather than silently returning zero.
func (s *State) ReadCSR(csr uint16) (uint32, error) {
	if err := s.checkAccess(csr, false); err != nil {
		return 0, err
	}
	switch csr {
	case CSRFFlags:
		return uint32(s.FFlags), nil
	case CSRFRM:
		return uint32(s.FRM), nil
	case CSRFCSR:
		return uint32(s.FFlags) | uint32(s.FRM)<<5, nil
	case CSRMStatus:
		return s.MStatus(), nil
	case CSRMScratch:
		return s.MScratch, nil
	case CSRMTvec:
		return s.MTvec, nil
	case CSRMEPC:
		return s.MEPC, nil
	case CSRMCause:
		return s.MCause, nil
	case CSRMTval:
		return s.MTval, nil
	default:
		return 0, &CSRAccessError{CSR: csr, Illegal: false, Reason: "unimplemented csr read"}
	}
}

// WriteCSR stores value into csr, applying the same access rules as
// ReadCSR.
func (s *State) WriteCSR(csr uint16, value uint32) error {
	if err := s.checkAccess(csr, true); err != nil {
		return err
	}
	switch csr {
	case CSRFFlags:
		s.FFlags = uint8(value) & 0x1f
	case CSRFRM:
		s.FRM = RoundingMode(value) & 0x7
	case CSRFCSR:
		s.FFlags = uint8(value) & 0x1f
		s.FRM = RoundingMode(value>>5) & 0x7
	case CSRMStatus:
		s.SetMStatus(value)
	case CSRMScratch:
		s.MScratch = value
	case CSRMTvec:
		s.MTvec = value
	case CSRMEPC:
		s.MEPC = value &^ 0x3
	case CSRMCause:
		s.MCause = value
	case CSRMTval:
		s.MTval = value
	default:
		return &CSRAccessError{CSR: csr, Illegal: false, Reason: "unimplemented csr write"}
	}
	return nil
}

// CSROp selects the read-modify-write discipline for csrrs/csrrc-family
// instructions.
type CSROp int

const (
	CSRReadWrite CSROp = iota
	CSRReadSet
	CSRReadClear
)

// RMWCSR performs the read-then-validate-then-write sequence spec.md §4.3
// and §5 require for CSR instructions: the old value is always read first
// (and returned even when the write side is suppressed), then the new value
// is computed and written — unless writeBack is false, in which case only
// the read happens (the RS/RC forms with rs1/src == x0).
func (s *State) RMWCSR(csr uint16, op CSROp, src uint32, writeBack bool) (old uint32, err error) {
	old, err = s.ReadCSR(csr)
	if err != nil {
		return 0, err
	}
	if !writeBack {
		return old, nil
	}
	var next uint32
	switch op {
	case CSRReadWrite:
		next = src
	case CSRReadSet:
		next = old | src
	case CSRReadClear:
		next = old &^ src
	}
	if err := s.WriteCSR(csr, next); err != nil {
		return 0, err
	}
	return old, nil
}
