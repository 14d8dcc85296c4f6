// Package model is the engine's outward-facing surface: a single-hart RV32
// simulator built from state.State, executor.Execute, and a
// caller-supplied fpshim.Provider, exposing the step-loop/export API
// described in spec.md §6 as a Go API rather than the original's
// function-pointer vtable.
package model

import (
	"github.com/relaysilicon/rv32core/executor"
	"github.com/relaysilicon/rv32core/fpshim"
	"github.com/relaysilicon/rv32core/state"
	"github.com/relaysilicon/rv32core/trace"
)

// ABIVersion is bumped whenever the Model export surface or the
// MemoryCallbacks contract changes in a way a host must notice.
const ABIVersion = 1

// Fatal reports an implementation limit (an unimplemented CSR access, or
// any other condition spec.md §7 requires never be silently masked) and
// aborts the process. It re-exports executor.Fatal under the name spec.md
// uses; the alias (rather than a direct definition here) exists because
// executor cannot import model without creating a cycle, since model
// itself imports executor to drive the step loop.
var Fatal = executor.Fatal

// MemoryCallbacks is the external collaborator a host supplies for every
// instruction fetch and data access.
type MemoryCallbacks = executor.MemoryCallbacks

// Config configures a Model instance. Every field reflects a fixed
// capability of this build (spec.md §1: RV32, M-mode only, C and F
// enabled) rather than a runtime-selectable option; Config exists so the
// API surface has a place to grow into without breaking callers, and so
// Description() has a config record to report rather than hardcoded
// strings scattered through the package.
type Config struct {
	XLen, FLen, VLen int
	ExtC, MMode      bool
}

// DefaultConfig returns the only configuration this build supports:
// RV32IMAFC, M-mode only, no vector extension.
func DefaultConfig() Config {
	return Config{XLen: 32, FLen: 32, VLen: 0, ExtC: true, MMode: true}
}

// Description reports a Model's static capabilities, for a host to
// validate against its own expectations before driving it (spec.md §6).
type Description struct {
	ABIVersion int
	ISA        string
	Priv       string
	XLen       int
	FLen       int
	VLen       int
}

// Model is one hart's complete simulation state plus its floating-point
// provider. A Model is driven by exactly one goroutine at a time; the only
// suspension points are MemoryCallbacks calls, which are synchronous
// (spec.md §5).
type Model struct {
	cfg   Config
	state *state.State
	fp    *fpshim.Shim
	tr    trace.Buffer
}

// New returns a Model reset to its power-on state with pc = 0.
func New(cfg Config) *Model {
	m := &Model{cfg: cfg, state: state.New(), fp: fpshim.NewShim(nil)}
	return m
}

// NewWithProvider is New, but lets the host substitute its own
// fpshim.Provider (for bit-exact parity testing against a real FPU)
// instead of the built-in NativeProvider.
func NewWithProvider(cfg Config, provider fpshim.Provider) *Model {
	m := &Model{cfg: cfg, state: state.New(), fp: fpshim.NewShim(provider)}
	return m
}

// Reset resets architectural state and sets pc = vector.
func (m *Model) Reset(vector uint32) {
	m.state.Reset(vector)
	m.tr = trace.Buffer{}
}

// StepStatus mirrors trace.StepStatus for callers that only want the
// step-level pass/fail, not the full Trace() buffer.
type StepStatus = trace.StepStatus

// StepResult is returned from every Step call.
type StepResult struct {
	Status StepStatus
	Trap   *executor.Trap // nil on a clean commit, non-nil iff Status == StepFetchException
}

// Step fetches, decodes, and executes the instruction at the current pc.
// On a clean commit, pc advances to the executed instruction's next pc and
// the step's trace is recorded with StepInstCommit. On a trap, pc is left
// unchanged, the trap CSRs (mepc/mcause/mtval/mstatus) are updated per
// SPEC_FULL.md §5's resolution of the "trap CSR side effects" open
// question, and the trace records StepFetchException — spec.md §8's
// universal invariant requires a trapped step never be mistaken for a
// commit, and this build has no fetch-exception path distinct from other
// traps (a bad fetch surfaces as TrapInstAccessFault through the same Trap
// carrier), so the one non-commit status value covers both cases.
func (m *Model) Step(mem MemoryCallbacks) StepResult {
	pcBefore := m.state.PC
	m.tr.Begin(pcBefore)

	result := executor.Execute(m.state, &m.tr, mem, m.fp)

	inst := m.tr.Inst
	if result.Trap != nil {
		m.takeTrap(pcBefore, result.Trap)
		m.tr.End(trace.StepFetchException, inst)
		return StepResult{Status: trace.StepFetchException, Trap: result.Trap}
	}

	m.state.PC = result.NextPC
	m.tr.End(trace.StepInstCommit, inst)
	return StepResult{Status: trace.StepInstCommit}
}

// takeTrap applies the trap-CSR side effects SPEC_FULL.md §5 specifies,
// leaving pc untouched (see DESIGN.md's "Open Questions resolved").
func (m *Model) takeTrap(pcBefore uint32, t *executor.Trap) {
	s := m.state
	s.MEPC = pcBefore
	s.MCause = uint32(t.Cause)
	s.MTval = t.Payload
	s.MStatusMPIE = s.MStatusMIE
	s.MStatusMIE = false
	s.MStatusMPP = s.Priv
}

// Trace returns the most recently completed step's trace record. The
// caller must not mutate it (spec.md §5); it is overwritten by the next
// Step call.
func (m *Model) Trace() *trace.Buffer { return &m.tr }

// PC returns the program counter, zero-extended to 64 bits (this build's
// XLEN is always 32, so the upper 32 bits are always zero).
func (m *Model) PC() uint64 { return uint64(m.state.PC) }

// XReg returns integer register idx, sign-extended to 64 bits.
func (m *Model) XReg(idx int) uint64 {
	return uint64(int64(int32(m.state.XReg(uint32(idx)))))
}

// WriteXReg sets integer register idx directly, bypassing instruction
// execution and the trace write mask. Intended for a debugger or test
// harness that needs to poke a register between steps (e.g. to seed a
// watchpoint's initial value); no SPEC_FULL.md operation calls this.
func (m *Model) WriteXReg(idx int, value uint32) {
	m.state.WriteXReg(uint32(idx), value)
}

// WriteFReg sets FP register idx directly, bypassing instruction execution.
func (m *Model) WriteFReg(idx int, value uint32) {
	m.state.WriteFReg(uint32(idx), value)
}

// FReg returns FP register idx, NaN-boxed to 64 bits: the upper 32 bits
// are all ones, marking the 32-bit value as the legal single-precision
// encoding within a 64-bit FLEN (the standard NaN-boxing convention for a
// hart whose physical FLEN exceeds the value's precision becomes moot at
// FLEN=32, but the export keeps the convention so a 64-bit-FLEN build
// would not need a different accessor shape).
func (m *Model) FReg(idx int) uint64 {
	return 0xffffffff00000000 | uint64(m.state.FReg(uint32(idx)))
}

// CSR returns the raw value of CSR idx, zero-extended to 64 bits. Unlike
// ReadCSR, an unimplemented or inaccessible CSR reads as zero rather than
// erroring — this accessor is a debugging/inspection surface, not the
// instruction-level CSR read path (that goes through executor/csr.go and
// does call Fatal on an unimplemented CSR).
func (m *Model) CSR(idx uint16) uint64 {
	v, err := m.state.ReadCSR(idx)
	if err != nil {
		return 0
	}
	return uint64(v)
}

// Description reports this Model's static capabilities.
func (m *Model) Description() Description {
	priv := "M"
	return Description{
		ABIVersion: ABIVersion,
		ISA:        isaString(m.cfg),
		Priv:       priv,
		XLen:       m.cfg.XLen,
		FLen:       m.cfg.FLen,
		VLen:       m.cfg.VLen,
	}
}

func isaString(cfg Config) string {
	isa := "RV32IMA"
	if cfg.FLen > 0 {
		isa += "F"
	}
	if cfg.ExtC {
		isa += "C"
	}
	return isa
}
