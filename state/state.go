package state

// State is the architectural state bundle: the register file, program
// counter, privilege mode, and the machine-mode CSR subset. It does not
// itself know about tracing — callers that want write-tracking wrap State
// writes with a trace.Buffer (see the trace package and executor package).
type State struct {
	PC uint32

	// xrf[0] is observably zero; WriteXReg silently drops writes to it.
	xrf [NumXRegs]uint32
	frf [NumFRegs]uint32

	FRM    RoundingMode
	FFlags uint8

	Priv PrivMode

	MStatusMPP  PrivMode
	MStatusMPIE bool
	MStatusMIE  bool
	MStatusFS   bool
	MStatusVS   bool

	MScratch uint32
	MTvec    uint32
	MEPC     uint32
	MCause   uint32
	MTval    uint32
}

// New returns a State reset to its power-on values.
func New() *State {
	s := &State{}
	s.Reset(0)
	return s
}

// Reset sets pc to vector, clears all registers and flags, enters M-mode,
// and zeros the machine-mode CSR subset. Mirrors original_source's
// CoreModel::reset.
func (s *State) Reset(vector uint32) {
	s.PC = vector
	for i := range s.xrf {
		s.xrf[i] = 0
	}
	for i := range s.frf {
		s.frf[i] = 0
	}
	s.FRM = RNE
	s.FFlags = 0
	s.Priv = PrivM
	s.MStatusMPP = leastPrivMode()
	s.MStatusMIE = false
	s.MStatusMPIE = false
	s.MStatusFS = false
	s.MStatusVS = false
	s.MScratch = 0
	s.MTvec = 0
	s.MEPC = 0
	s.MCause = 0
	s.MTval = 0
}

// leastPrivMode is PrivU when user mode is configured, else PrivM. Only
// M-mode is enabled in this model (spec.md §1), so it is always PrivM.
func leastPrivMode() PrivMode {
	return PrivM
}

// XReg returns the value of integer register idx. xreg(0) always reads 0.
func (s *State) XReg(idx uint32) uint32 {
	return s.xrf[idx&0x1f]
}

// WriteXReg stores value into integer register idx. A write to x0 is a
// silent no-op; the caller (typically executor, via trace tracking) is
// responsible for not logging it in the trace write mask.
func (s *State) WriteXReg(idx uint32, value uint32) {
	idx &= 0x1f
	if idx == 0 {
		return
	}
	s.xrf[idx] = value
}

// FReg returns the value of FP register idx.
func (s *State) FReg(idx uint32) uint32 {
	return s.frf[idx&0x1f]
}

// WriteFReg stores value into FP register idx. Unlike integer registers,
// every FP register index is writable, including index 0.
func (s *State) WriteFReg(idx uint32, value uint32) {
	s.frf[idx&0x1f] = value
}

// MStatus packs the decomposed mstatus fields into their architectural bit
// positions for CSR reads.
func (s *State) MStatus() uint32 {
	var v uint32
	if s.MStatusMIE {
		v |= 1 << 3
	}
	if s.MStatusMPIE {
		v |= 1 << 7
	}
	v |= uint32(s.MStatusMPP) << 11
	if s.MStatusFS {
		v |= 3 << 13 // FS=dirty(11); we only track off/dirty
	}
	if s.MStatusVS {
		v |= 3 << 9 // VS=dirty(11)
	}
	return v
}

// SetMStatus unpacks an mstatus CSR write into the decomposed fields this
// model tracks. Fields this model does not decompose (SIE, SPIE, SPP, etc.)
// are ignored, since S-mode is disabled (spec.md §1).
func (s *State) SetMStatus(v uint32) {
	s.MStatusMIE = v&(1<<3) != 0
	s.MStatusMPIE = v&(1<<7) != 0
	s.MStatusMPP = PrivMode((v >> 11) & 0x3)
	s.MStatusFS = (v>>13)&0x3 != 0
	s.MStatusVS = (v>>9)&0x3 != 0
}

// IsAtLeastM reports whether the current privilege is M. Only M and the
// (disabled) lower modes exist in this configuration, so this is the only
// privilege check the executor needs today.
func (s *State) IsAtLeastM() bool {
	return s.Priv == PrivM
}
