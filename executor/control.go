package executor

import (
	"github.com/relaysilicon/rv32core/encoding"
	"github.com/relaysilicon/rv32core/state"
	"github.com/relaysilicon/rv32core/trace"
)

func execJAL(s *state.State, tr *trace.Buffer, pc uint32, inst encoding.Inst, length uint32) ExecResult {
	target := pc + uint32(inst.ImmJ())
	if target&0x1 != 0 {
		return trap(TrapInstAddrMisaligned, target)
	}
	writeX(s, tr, inst.Rd(), pc+length)
	return ok(target)
}

func execJALR(s *state.State, tr *trace.Buffer, pc uint32, inst encoding.Inst, length uint32) ExecResult {
	target := (s.XReg(inst.Rs1()) + uint32(inst.ImmI())) &^ 1
	if target&0x1 != 0 {
		return trap(TrapInstAddrMisaligned, target)
	}
	writeX(s, tr, inst.Rd(), pc+length)
	return ok(target)
}

func execBranch(s *state.State, pc uint32, inst encoding.Inst, length uint32) ExecResult {
	rs1, rs2 := s.XReg(inst.Rs1()), s.XReg(inst.Rs2())
	var taken bool
	switch inst.Funct3() {
	case 0x0: // beq
		taken = rs1 == rs2
	case 0x1: // bne
		taken = rs1 != rs2
	case 0x4: // blt
		taken = int32(rs1) < int32(rs2)
	case 0x5: // bge
		taken = int32(rs1) >= int32(rs2)
	case 0x6: // bltu
		taken = rs1 < rs2
	case 0x7: // bgeu
		taken = rs1 >= rs2
	default:
		return trap(TrapIllegalInst, inst.Raw)
	}
	if !taken {
		return ok(pc + length)
	}
	target := pc + uint32(inst.ImmB())
	if target&0x1 != 0 {
		return trap(TrapInstAddrMisaligned, target)
	}
	return ok(target)
}
