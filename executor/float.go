package executor

import (
	"github.com/relaysilicon/rv32core/encoding"
	"github.com/relaysilicon/rv32core/fpshim"
	"github.com/relaysilicon/rv32core/state"
	"github.com/relaysilicon/rv32core/trace"
)

func rm3(inst encoding.Inst) state.RoundingMode { return state.RoundingMode(inst.Funct3()) }

func execLoadFP(s *state.State, tr *trace.Buffer, pc uint32, inst encoding.Inst, mem MemoryCallbacks, length uint32) ExecResult {
	if inst.Funct3() != 0x2 {
		return trap(TrapIllegalInst, inst.Raw)
	}
	addr := s.XReg(inst.Rs1()) + uint32(inst.ImmI())
	if addr&0x3 != 0 {
		return trap(TrapLoadAddrMisaligned, addr)
	}
	v, err := mem.Read32(addr)
	if err != nil {
		return memFault(err, TrapLoadAccessFault, addr)
	}
	writeF(s, tr, inst.Rd(), v)
	return ok(pc + length)
}

func execStoreFP(s *state.State, pc uint32, inst encoding.Inst, mem MemoryCallbacks, length uint32) ExecResult {
	if inst.Funct3() != 0x2 {
		return trap(TrapIllegalInst, inst.Raw)
	}
	addr := s.XReg(inst.Rs1()) + uint32(inst.ImmS())
	if addr&0x3 != 0 {
		return trap(TrapStoreAddrMisaligned, addr)
	}
	if err := mem.Write32(addr, s.FReg(inst.Rs2())); err != nil {
		return memFault(err, TrapStoreAccessFault, addr)
	}
	return ok(pc + length)
}

func execFMA(s *state.State, tr *trace.Buffer, pc uint32, inst encoding.Inst, fp *fpshim.Shim, negateProduct, negateAddend bool, length uint32) ExecResult {
	if (inst.Raw>>25)&0x3 != 0 { // funct2: single precision only
		return trap(TrapIllegalInst, inst.Raw)
	}
	x, y, z := s.FReg(inst.Rs1()), s.FReg(inst.Rs2()), s.FReg(inst.Rs3())
	if negateProduct {
		x ^= 0x80000000
	}
	if negateAddend {
		z ^= 0x80000000
	}
	result, err := fp.MulAdd(s, rm3(inst), x, y, z)
	if err != nil {
		return trap(TrapIllegalInst, inst.Raw)
	}
	writeF(s, tr, inst.Rd(), result)
	return ok(pc + length)
}

func execOpFP(s *state.State, tr *trace.Buffer, pc uint32, inst encoding.Inst, fp *fpshim.Shim, length uint32) ExecResult {
	rs1, rs2 := inst.Rs1(), inst.Rs2()
	switch inst.Funct7() {
	case funct7FAdd:
		r, err := fp.Add(s, rm3(inst), s.FReg(rs1), s.FReg(rs2))
		if err != nil {
			return trap(TrapIllegalInst, inst.Raw)
		}
		writeF(s, tr, inst.Rd(), r)
	case funct7FSub:
		r, err := fp.Sub(s, rm3(inst), s.FReg(rs1), s.FReg(rs2))
		if err != nil {
			return trap(TrapIllegalInst, inst.Raw)
		}
		writeF(s, tr, inst.Rd(), r)
	case funct7FMul:
		r, err := fp.Mul(s, rm3(inst), s.FReg(rs1), s.FReg(rs2))
		if err != nil {
			return trap(TrapIllegalInst, inst.Raw)
		}
		writeF(s, tr, inst.Rd(), r)
	case funct7FDiv:
		r, err := fp.Div(s, rm3(inst), s.FReg(rs1), s.FReg(rs2))
		if err != nil {
			return trap(TrapIllegalInst, inst.Raw)
		}
		writeF(s, tr, inst.Rd(), r)
	case funct7FSqrt:
		// rs2 distinguishes fsqrt.s (00000) from the two approximate
		// reciprocal instructions this model adds in the same opcode
		// cluster: frsqrt7.s (00001) and frec7.s (00010). Neither spec.md
		// nor original_source pins down a concrete instruction encoding for
		// these two (original_source only gives their computation, not a
		// decoder), so this is a deliberate, internally-consistent choice.
		switch rs2 {
		case 0:
			r, err := fp.Sqrt(s, rm3(inst), s.FReg(rs1))
			if err != nil {
				return trap(TrapIllegalInst, inst.Raw)
			}
			writeF(s, tr, inst.Rd(), r)
		case 1:
			writeF(s, tr, inst.Rd(), fp.RSqrt7(s, s.FReg(rs1)))
		case 2:
			r, err := fp.Rec7(s, rm3(inst), s.FReg(rs1))
			if err != nil {
				return trap(TrapIllegalInst, inst.Raw)
			}
			writeF(s, tr, inst.Rd(), r)
		default:
			return trap(TrapIllegalInst, inst.Raw)
		}
	case funct7FSgnj:
		x, y := s.FReg(rs1), s.FReg(rs2)
		switch inst.Funct3() {
		case 0:
			writeF(s, tr, inst.Rd(), fpshim.SignInjection(x, y, false, false))
		case 1:
			writeF(s, tr, inst.Rd(), fpshim.SignInjection(x, y, true, false))
		case 2:
			writeF(s, tr, inst.Rd(), fpshim.SignInjection(x, y, false, true))
		default:
			return trap(TrapIllegalInst, inst.Raw)
		}
	case funct7FMinMax:
		x, y := s.FReg(rs1), s.FReg(rs2)
		switch inst.Funct3() {
		case 0:
			writeF(s, tr, inst.Rd(), fp.MinOp(s, x, y))
		case 1:
			writeF(s, tr, inst.Rd(), fp.MaxOp(s, x, y))
		default:
			return trap(TrapIllegalInst, inst.Raw)
		}
	case funct7FCvtWS:
		switch rs2 {
		case 0:
			r, err := fp.ToInt32(s, rm3(inst), s.FReg(rs1))
			if err != nil {
				return trap(TrapIllegalInst, inst.Raw)
			}
			writeX(s, tr, inst.Rd(), uint32(r))
		case 1:
			r, err := fp.ToUint32(s, rm3(inst), s.FReg(rs1))
			if err != nil {
				return trap(TrapIllegalInst, inst.Raw)
			}
			writeX(s, tr, inst.Rd(), r)
		default:
			return trap(TrapIllegalInst, inst.Raw)
		}
	case funct7FCvtSW:
		switch rs2 {
		case 0:
			r, err := fp.FromInt32(s, rm3(inst), int32(s.XReg(rs1)))
			if err != nil {
				return trap(TrapIllegalInst, inst.Raw)
			}
			writeF(s, tr, inst.Rd(), r)
		case 1:
			r, err := fp.FromUint32(s, rm3(inst), s.XReg(rs1))
			if err != nil {
				return trap(TrapIllegalInst, inst.Raw)
			}
			writeF(s, tr, inst.Rd(), r)
		default:
			return trap(TrapIllegalInst, inst.Raw)
		}
	case funct7FMvXWClass:
		if rs2 != 0 {
			return trap(TrapIllegalInst, inst.Raw)
		}
		switch inst.Funct3() {
		case 0: // fmv.x.w: raw bit reinterpretation, no flags
			writeX(s, tr, inst.Rd(), s.FReg(rs1))
		case 1: // fclass.s
			writeX(s, tr, inst.Rd(), uint32(fpshim.Classify(s.FReg(rs1))))
		default:
			return trap(TrapIllegalInst, inst.Raw)
		}
	case funct7FMvWX:
		if rs2 != 0 || inst.Funct3() != 0 {
			return trap(TrapIllegalInst, inst.Raw)
		}
		writeF(s, tr, inst.Rd(), s.XReg(rs1))
	case funct7FCmp:
		x, y := s.FReg(rs1), s.FReg(rs2)
		var result bool
		switch inst.Funct3() {
		case 0:
			result = fp.Le(s, x, y)
		case 1:
			result = fp.Lt(s, x, y)
		case 2:
			result = fp.Eq(s, x, y)
		default:
			return trap(TrapIllegalInst, inst.Raw)
		}
		var v uint32
		if result {
			v = 1
		}
		writeX(s, tr, inst.Rd(), v)
	default:
		return trap(TrapIllegalInst, inst.Raw)
	}
	return ok(pc + length)
}
