package executor

import (
	"errors"

	"github.com/relaysilicon/rv32core/encoding"
	"github.com/relaysilicon/rv32core/state"
	"github.com/relaysilicon/rv32core/trace"
)

// memFault turns a MemoryCallbacks error into an ExecResult. A
// *MemTrapError carries the precise cause the callback determined
// (alignment vs. permission); any other error falls back to defaultCause
// with the faulting address as payload.
func memFault(err error, defaultCause TrapCause, addr uint32) ExecResult {
	var mt *MemTrapError
	if errors.As(err, &mt) {
		return trap(mt.Cause, mt.Payload)
	}
	return trap(defaultCause, addr)
}

func execLoad(s *state.State, tr *trace.Buffer, pc uint32, inst encoding.Inst, mem MemoryCallbacks, length uint32) ExecResult {
	addr := s.XReg(inst.Rs1()) + uint32(inst.ImmI())
	var result uint32
	switch inst.Funct3() {
	case 0x0: // lb
		v, err := mem.Read8(addr)
		if err != nil {
			return memFault(err, TrapLoadAccessFault, addr)
		}
		result = uint32(int32(int8(v)))
	case 0x1: // lh
		if addr&0x1 != 0 {
			return trap(TrapLoadAddrMisaligned, addr)
		}
		v, err := mem.Read16(addr)
		if err != nil {
			return memFault(err, TrapLoadAccessFault, addr)
		}
		result = uint32(int32(int16(v)))
	case 0x2: // lw
		if addr&0x3 != 0 {
			return trap(TrapLoadAddrMisaligned, addr)
		}
		v, err := mem.Read32(addr)
		if err != nil {
			return memFault(err, TrapLoadAccessFault, addr)
		}
		result = v
	case 0x4: // lbu
		v, err := mem.Read8(addr)
		if err != nil {
			return memFault(err, TrapLoadAccessFault, addr)
		}
		result = uint32(v)
	case 0x5: // lhu
		if addr&0x1 != 0 {
			return trap(TrapLoadAddrMisaligned, addr)
		}
		v, err := mem.Read16(addr)
		if err != nil {
			return memFault(err, TrapLoadAccessFault, addr)
		}
		result = uint32(v)
	default:
		return trap(TrapIllegalInst, inst.Raw)
	}
	writeX(s, tr, inst.Rd(), result)
	return ok(pc + length)
}

func execStore(s *state.State, pc uint32, inst encoding.Inst, mem MemoryCallbacks, length uint32) ExecResult {
	addr := s.XReg(inst.Rs1()) + uint32(inst.ImmS())
	v := s.XReg(inst.Rs2())
	switch inst.Funct3() {
	case 0x0: // sb
		if err := mem.Write8(addr, uint8(v)); err != nil {
			return memFault(err, TrapStoreAccessFault, addr)
		}
	case 0x1: // sh
		if addr&0x1 != 0 {
			return trap(TrapStoreAddrMisaligned, addr)
		}
		if err := mem.Write16(addr, uint16(v)); err != nil {
			return memFault(err, TrapStoreAccessFault, addr)
		}
	case 0x2: // sw
		if addr&0x3 != 0 {
			return trap(TrapStoreAddrMisaligned, addr)
		}
		if err := mem.Write32(addr, v); err != nil {
			return memFault(err, TrapStoreAccessFault, addr)
		}
	default:
		return trap(TrapIllegalInst, inst.Raw)
	}
	return ok(pc + length)
}

// amoFunct5 values, bits[31:27] of an AMO instruction.
const (
	amoFAddLR   = 0x02
	amoFASC     = 0x03
	amoFAmoswap = 0x01
	amoFAmoadd  = 0x00
	amoFAmoxor  = 0x04
	amoFAmoand  = 0x0c
	amoFAmoor   = 0x08
	amoFAmomin  = 0x10
	amoFAmomax  = 0x14
	amoFAmominu = 0x18
	amoFAmomaxu = 0x1c
)

func execAMO(s *state.State, tr *trace.Buffer, pc uint32, inst encoding.Inst, mem MemoryCallbacks, length uint32) ExecResult {
	if inst.Funct3() != 0x2 { // only .w forms implemented
		return trap(TrapIllegalInst, inst.Raw)
	}
	addr := s.XReg(inst.Rs1())
	if addr&0x3 != 0 {
		return trap(TrapLoadAddrMisaligned, addr)
	}
	funct5 := inst.Funct7() >> 2

	switch funct5 {
	case amoFAddLR:
		v, err := mem.LoadReserved32(addr)
		if err != nil {
			return memFault(err, TrapLoadAccessFault, addr)
		}
		writeX(s, tr, inst.Rd(), v)
		return ok(pc + length)
	case amoFASC:
		success, err := mem.StoreConditional32(addr, s.XReg(inst.Rs2()))
		if err != nil {
			return memFault(err, TrapStoreAccessFault, addr)
		}
		result := uint32(1)
		if success {
			result = 0
		}
		writeX(s, tr, inst.Rd(), result)
		return ok(pc + length)
	}

	op, ok2 := amoOpFor(funct5)
	if !ok2 {
		return trap(TrapIllegalInst, inst.Raw)
	}
	old, err := mem.AMO32(addr, op, s.XReg(inst.Rs2()))
	if err != nil {
		return memFault(err, TrapStoreAccessFault, addr)
	}
	writeX(s, tr, inst.Rd(), old)
	return ok(pc + length)
}

func amoOpFor(funct5 uint32) (AMOOp, bool) {
	switch funct5 {
	case amoFAmoswap:
		return AMOSwap, true
	case amoFAmoadd:
		return AMOAdd, true
	case amoFAmoxor:
		return AMOXor, true
	case amoFAmoand:
		return AMOAnd, true
	case amoFAmoor:
		return AMOOr, true
	case amoFAmomin:
		return AMOMin, true
	case amoFAmomax:
		return AMOMax, true
	case amoFAmominu:
		return AMOMinU, true
	case amoFAmomaxu:
		return AMOMaxU, true
	}
	return 0, false
}
