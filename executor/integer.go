package executor

import (
	"github.com/relaysilicon/rv32core/encoding"
	"github.com/relaysilicon/rv32core/state"
	"github.com/relaysilicon/rv32core/trace"
)

func writeX(s *state.State, tr *trace.Buffer, rd, v uint32) {
	if rd == 0 {
		return
	}
	s.WriteXReg(rd, v)
	tr.RecordXRegWrite(rd)
}

func writeF(s *state.State, tr *trace.Buffer, rd, v uint32) {
	s.WriteFReg(rd, v)
	tr.RecordFRegWrite(rd)
}

func execOpImm(s *state.State, tr *trace.Buffer, pc uint32, inst encoding.Inst, length uint32) ExecResult {
	rs1 := s.XReg(inst.Rs1())
	imm := uint32(inst.ImmI())
	var result uint32
	switch inst.Funct3() {
	case 0x0: // addi
		result = rs1 + imm
	case 0x2: // slti
		if int32(rs1) < int32(imm) {
			result = 1
		}
	case 0x3: // sltiu
		if rs1 < imm {
			result = 1
		}
	case 0x4: // xori
		result = rs1 ^ imm
	case 0x6: // ori
		result = rs1 | imm
	case 0x7: // andi
		result = rs1 & imm
	case 0x1: // slli
		if inst.Funct7() != funct7Base {
			return trap(TrapIllegalInst, inst.Raw)
		}
		result = rs1 << inst.Shamt5()
	case 0x5: // srli/srai
		switch inst.Funct7() {
		case funct7Base:
			result = rs1 >> inst.Shamt5()
		case funct7Alt:
			result = uint32(int32(rs1) >> inst.Shamt5())
		default:
			return trap(TrapIllegalInst, inst.Raw)
		}
	}
	writeX(s, tr, inst.Rd(), result)
	return ok(pc + length)
}

func execOp(s *state.State, tr *trace.Buffer, pc uint32, inst encoding.Inst, length uint32) ExecResult {
	rs1, rs2 := s.XReg(inst.Rs1()), s.XReg(inst.Rs2())
	var result uint32

	if inst.Funct7() == funct7MULDIV {
		result = execMulDiv(inst.Funct3(), rs1, rs2)
		writeX(s, tr, inst.Rd(), result)
		return ok(pc + length)
	}

	switch inst.Funct3() {
	case 0x0:
		switch inst.Funct7() {
		case funct7Base:
			result = rs1 + rs2
		case funct7Alt:
			result = rs1 - rs2
		default:
			return trap(TrapIllegalInst, inst.Raw)
		}
	case 0x1: // sll
		result = rs1 << (rs2 & 0x1f)
	case 0x2: // slt
		if int32(rs1) < int32(rs2) {
			result = 1
		}
	case 0x3: // sltu
		if rs1 < rs2 {
			result = 1
		}
	case 0x4: // xor
		result = rs1 ^ rs2
	case 0x5:
		switch inst.Funct7() {
		case funct7Base:
			result = rs1 >> (rs2 & 0x1f)
		case funct7Alt:
			result = uint32(int32(rs1) >> (rs2 & 0x1f))
		default:
			return trap(TrapIllegalInst, inst.Raw)
		}
	case 0x6: // or
		result = rs1 | rs2
	case 0x7: // and
		result = rs1 & rs2
	}
	writeX(s, tr, inst.Rd(), result)
	return ok(pc + length)
}

// execMulDiv implements the M-extension's 8 ops (mul/mulh/mulhsu/mulhu/
// div/divu/rem/remu), including the RISC-V-mandated div-by-zero and
// signed-overflow (MinInt32 / -1) special cases rather than trapping.
func execMulDiv(funct3 uint32, rs1, rs2 uint32) uint32 {
	switch funct3 {
	case 0x0: // mul
		return rs1 * rs2
	case 0x1: // mulh
		return uint32((int64(int32(rs1)) * int64(int32(rs2))) >> 32)
	case 0x2: // mulhsu
		return uint32((int64(int32(rs1)) * int64(uint64(rs2))) >> 32)
	case 0x3: // mulhu
		return uint32((uint64(rs1) * uint64(rs2)) >> 32)
	case 0x4: // div
		a, b := int32(rs1), int32(rs2)
		if b == 0 {
			return 0xffffffff
		}
		if a == -0x80000000 && b == -1 {
			return 0x80000000
		}
		return uint32(a / b)
	case 0x5: // divu
		if rs2 == 0 {
			return 0xffffffff
		}
		return rs1 / rs2
	case 0x6: // rem
		a, b := int32(rs1), int32(rs2)
		if b == 0 {
			return rs1
		}
		if a == -0x80000000 && b == -1 {
			return 0
		}
		return uint32(a % b)
	case 0x7: // remu
		if rs2 == 0 {
			return rs1
		}
		return rs1 % rs2
	}
	return 0
}

func execLUI(s *state.State, tr *trace.Buffer, pc uint32, inst encoding.Inst, length uint32) ExecResult {
	writeX(s, tr, inst.Rd(), uint32(inst.ImmU()))
	return ok(pc + length)
}

func execAUIPC(s *state.State, tr *trace.Buffer, pc uint32, inst encoding.Inst, length uint32) ExecResult {
	writeX(s, tr, inst.Rd(), pc+uint32(inst.ImmU()))
	return ok(pc + length)
}
