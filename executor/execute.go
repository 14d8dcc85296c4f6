package executor

import (
	"github.com/relaysilicon/rv32core/encoding"
	"github.com/relaysilicon/rv32core/fpshim"
	"github.com/relaysilicon/rv32core/state"
	"github.com/relaysilicon/rv32core/trace"
)

// Execute fetches, decodes, and runs the instruction at s.PC, returning the
// resulting ExecResult. It does not update s.PC; the caller installs
// NextPC. Every instruction makes its fallible checks and memory accesses
// before writing any register, CSR, or fflags, so a result carrying a
// non-nil Trap has left that state unchanged.
func Execute(s *state.State, tr *trace.Buffer, mem MemoryCallbacks, fp *fpshim.Shim) ExecResult {
	pc := s.PC
	lo, err := mem.FetchInst16(pc)
	if err != nil {
		return memFault(err, TrapInstAccessFault, pc)
	}
	if encoding.IsCompressed(lo) {
		tr.Inst = uint32(lo)
		expanded, okExpand := Expand(encoding.FromHalfword(lo))
		if !okExpand {
			return trap(TrapIllegalInst, uint32(lo))
		}
		return dispatch(s, tr, pc, expanded, mem, fp, 2)
	}
	hi, err := mem.FetchInst16(pc + 2)
	if err != nil {
		return memFault(err, TrapInstAccessFault, pc+2)
	}
	inst := encoding.FromHalves(lo, hi)
	tr.Inst = inst.Raw
	return dispatch(s, tr, pc, inst, mem, fp, 4)
}

func dispatch(s *state.State, tr *trace.Buffer, pc uint32, inst encoding.Inst, mem MemoryCallbacks, fp *fpshim.Shim, length uint32) ExecResult {
	switch inst.Opcode() {
	case opOpImm:
		return execOpImm(s, tr, pc, inst, length)
	case opOp:
		return execOp(s, tr, pc, inst, length)
	case opLUI:
		return execLUI(s, tr, pc, inst, length)
	case opAUIPC:
		return execAUIPC(s, tr, pc, inst, length)
	case opJAL:
		return execJAL(s, tr, pc, inst, length)
	case opJALR:
		if inst.Funct3() != 0 {
			return trap(TrapIllegalInst, inst.Raw)
		}
		return execJALR(s, tr, pc, inst, length)
	case opBranch:
		return execBranch(s, pc, inst, length)
	case opLoad:
		return execLoad(s, tr, pc, inst, mem, length)
	case opStore:
		return execStore(s, pc, inst, mem, length)
	case opAMO:
		return execAMO(s, tr, pc, inst, mem, length)
	case opLoadFP:
		return execLoadFP(s, tr, pc, inst, mem, length)
	case opStoreFP:
		return execStoreFP(s, pc, inst, mem, length)
	case opOpFP:
		return execOpFP(s, tr, pc, inst, fp, length)
	case opMAdd:
		return execFMA(s, tr, pc, inst, fp, false, false, length)
	case opMSub:
		return execFMA(s, tr, pc, inst, fp, false, true, length)
	case opNMSub:
		return execFMA(s, tr, pc, inst, fp, true, false, length)
	case opNMAdd:
		return execFMA(s, tr, pc, inst, fp, true, true, length)
	case opMiscMem:
		return execMiscMem(pc, inst, length)
	case opSystem:
		return execSystem(s, tr, pc, inst, length)
	}
	return trap(TrapIllegalInst, inst.Raw)
}
