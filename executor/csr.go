package executor

import (
	"errors"

	"github.com/relaysilicon/rv32core/encoding"
	"github.com/relaysilicon/rv32core/state"
	"github.com/relaysilicon/rv32core/trace"
)

func csrErrResult(inst encoding.Inst, err error) ExecResult {
	var ae *state.CSRAccessError
	if errors.As(err, &ae) {
		if !ae.Illegal {
			Fatal("%s", ae.Error())
		}
		return trap(TrapIllegalInst, inst.Raw)
	}
	return trap(TrapIllegalInst, inst.Raw)
}

func execSystemCSR(s *state.State, tr *trace.Buffer, pc uint32, inst encoding.Inst, length uint32) ExecResult {
	csr := inst.CSR()
	var op state.CSROp
	var src uint32
	var writeBack bool

	switch inst.Funct3() {
	case 0x1: // csrrw
		op, src, writeBack = state.CSRReadWrite, s.XReg(inst.Rs1()), true
	case 0x2: // csrrs
		op, src, writeBack = state.CSRReadSet, s.XReg(inst.Rs1()), inst.Rs1() != 0
	case 0x3: // csrrc
		op, src, writeBack = state.CSRReadClear, s.XReg(inst.Rs1()), inst.Rs1() != 0
	case 0x5: // csrrwi
		op, src, writeBack = state.CSRReadWrite, inst.Zimm(), true
	case 0x6: // csrrsi
		op, src, writeBack = state.CSRReadSet, inst.Zimm(), inst.Zimm() != 0
	case 0x7: // csrrci
		op, src, writeBack = state.CSRReadClear, inst.Zimm(), inst.Zimm() != 0
	default:
		return trap(TrapIllegalInst, inst.Raw)
	}

	old, err := s.RMWCSR(csr, op, src, writeBack)
	if err != nil {
		return csrErrResult(inst, err)
	}
	if writeBack {
		tr.RecordCSRWrite(csr)
	}
	writeX(s, tr, inst.Rd(), old)
	return ok(pc + length)
}

func execSystemPriv(s *state.State, pc uint32, inst encoding.Inst, length uint32) ExecResult {
	switch uint32(inst.CSR()) {
	case funct12ECall:
		return trap(TrapEnvCallFromM, 0)
	case funct12EBreak:
		return trap(TrapBreakpoint, 0)
	case funct12MRet:
		s.Priv = s.MStatusMPP
		s.MStatusMIE = s.MStatusMPIE
		s.MStatusMPIE = true
		s.MStatusMPP = state.PrivM // least-privileged supported mode; only M is enabled
		return ok(s.MEPC)
	case funct12WFI:
		return ok(pc + length) // no interrupt controller modeled: always falls through
	}
	return trap(TrapIllegalInst, inst.Raw)
}

func execMiscMem(pc uint32, inst encoding.Inst, length uint32) ExecResult {
	// FENCE and FENCE.I are no-ops: there is no cache or reordering to
	// flush in a single-threaded interpreter.
	switch inst.Funct3() {
	case 0x0, 0x1:
		return ok(pc + length)
	}
	return trap(TrapIllegalInst, inst.Raw)
}

func execSystem(s *state.State, tr *trace.Buffer, pc uint32, inst encoding.Inst, length uint32) ExecResult {
	if inst.Funct3() == 0 {
		return execSystemPriv(s, pc, inst, length)
	}
	return execSystemCSR(s, tr, pc, inst, length)
}
