package executor

import "github.com/relaysilicon/rv32core/encoding"

// Compressed-instruction expansion: every 16-bit instruction is rewritten
// into the bit-identical 32-bit instruction it abbreviates, then run
// through the same execution path as a native 32-bit instruction (spec.md
// §4.3's C extension is "a strict abbreviation", and original_source
// likewise expands-then-executes rather than maintaining a parallel
// interpreter). Neither spec.md nor original_source pins an exact
// expansion encoding, so the field layouts below follow the standard
// RV32IC abbreviation table construction in the usual way (CL/CS/CI/CSS/
// CJ/CB/CR/CIW forms mapping onto the canonical R/I/S/B/U/J 32-bit forms).

func encR(opcode, funct3, funct7, rd, rs1, rs2 uint32) uint32 {
	return opcode | funct3<<12 | (rd&0x1f)<<7 | (rs1&0x1f)<<15 | (rs2&0x1f)<<20 | (funct7&0x7f)<<25
}

func encI(opcode, funct3, rd, rs1 uint32, imm12 uint32) uint32 {
	return opcode | funct3<<12 | (rd&0x1f)<<7 | (rs1&0x1f)<<15 | (imm12&0xfff)<<20
}

func encS(opcode, funct3, rs1, rs2, imm12 uint32) uint32 {
	return opcode | funct3<<12 | (imm12&0x1f)<<7 | (rs1&0x1f)<<15 | (rs2&0x1f)<<20 | ((imm12>>5)&0x7f)<<25
}

func encB(opcode, funct3, rs1, rs2 uint32, immB uint32) uint32 {
	b11 := (immB >> 11) & 1
	b4_1 := (immB >> 1) & 0xf
	b10_5 := (immB >> 5) & 0x3f
	b12 := (immB >> 12) & 1
	return opcode | funct3<<12 | b11<<7 | b4_1<<8 | (rs1&0x1f)<<15 | (rs2&0x1f)<<20 | b10_5<<25 | b12<<31
}

func encU(opcode, rd uint32, immU uint32) uint32 {
	return opcode | (rd&0x1f)<<7 | (immU & 0xfffff000)
}

func encJ(opcode, rd uint32, immJ uint32) uint32 {
	b19_12 := (immJ >> 12) & 0xff
	b11 := (immJ >> 11) & 1
	b10_1 := (immJ >> 1) & 0x3ff
	b20 := (immJ >> 20) & 1
	return opcode | (rd&0x1f)<<7 | b19_12<<12 | b11<<20 | b10_1<<21 | b20<<31
}

// Expand rewrites a compressed instruction into its equivalent base
// instruction. ok is false for a reserved compressed encoding, which the
// caller must turn into an illegal-instruction trap.
func Expand(c encoding.CInst) (encoding.Inst, bool) {
	if c.Raw == 0 {
		return encoding.Inst{}, false
	}
	switch c.Op() {
	case 0:
		return expandQuadrant0(c)
	case 1:
		return expandQuadrant1(c)
	case 2:
		return expandQuadrant2(c)
	}
	return encoding.Inst{}, false
}

func expandQuadrant0(c encoding.CInst) (encoding.Inst, bool) {
	switch c.Funct3() {
	case 0: // c.addi4spn
		imm := c.CIWUimm()
		if imm == 0 {
			return encoding.Inst{}, false
		}
		return encoding.FromWord(encI(opOpImm, 0, c.RdC(), 2, imm)), true
	case 2: // c.lw
		return encoding.FromWord(encI(opLoad, 2, c.RdC(), c.Rs1C(), c.CLUimm())), true
	case 3: // c.flw
		return encoding.FromWord(encI(opLoadFP, 2, c.RdC(), c.Rs1C(), c.CLUimm())), true
	case 6: // c.sw
		return encoding.FromWord(encS(opStore, 2, c.Rs1C(), c.Rs2C(), c.CLUimm())), true
	case 7: // c.fsw
		return encoding.FromWord(encS(opStoreFP, 2, c.Rs1C(), c.Rs2C(), c.CLUimm())), true
	}
	return encoding.Inst{}, false // c.fld/c.fsd: double precision, not implemented
}

func expandQuadrant1(c encoding.CInst) (encoding.Inst, bool) {
	switch c.Funct3() {
	case 0: // c.addi / c.nop
		rd := c.Rd()
		return encoding.Inst{Raw: encI(opOpImm, 0, rd, rd, uint32(c.CIImm()))}, true
	case 1: // c.jal
		return encoding.FromWord(encJ(opJAL, 1, uint32(c.CJImm()))), true
	case 2: // c.li
		return encoding.FromWord(encI(opOpImm, 0, c.Rd(), 0, uint32(c.CIImm()))), true
	case 3: // c.lui / c.addi16sp
		if c.Rd() == 2 {
			imm := c.CIAddi16spImm()
			if imm == 0 {
				return encoding.Inst{}, false
			}
			return encoding.FromWord(encI(opOpImm, 0, 2, 2, uint32(imm))), true
		}
		imm := c.CILuiImm()
		if imm == 0 {
			return encoding.Inst{}, false
		}
		return encoding.FromWord(encU(opLUI, c.Rd(), uint32(imm))), true
	case 4:
		return expandQuadrant1Arith(c)
	case 5: // c.j
		return encoding.FromWord(encJ(opJAL, 0, uint32(c.CJImm()))), true
	case 6: // c.beqz
		return encoding.FromWord(encB(opBranch, 0, c.Rs1C(), 0, uint32(c.CBImm()))), true
	case 7: // c.bnez
		return encoding.FromWord(encB(opBranch, 1, c.Rs1C(), 0, uint32(c.CBImm()))), true
	}
	return encoding.Inst{}, false
}

func expandQuadrant1Arith(c encoding.CInst) (encoding.Inst, bool) {
	rd := c.Rs1C()
	switch (c.Raw >> 10) & 0x3 {
	case 0: // c.srli
		return encoding.FromWord(encI(opOpImm, 5, rd, rd, c.CIShamt())), true
	case 1: // c.srai
		return encoding.FromWord(encI(opOpImm, 5, rd, rd, (funct7Alt<<5)|c.CIShamt())), true
	case 2: // c.andi
		return encoding.FromWord(encI(opOpImm, 7, rd, rd, uint32(c.CIImm()))), true
	case 3:
		if (c.Raw>>12)&1 != 0 {
			return encoding.Inst{}, false // c.subw/c.addw: RV64-only, unsupported
		}
		rs2 := c.Rs2C()
		switch (c.Raw >> 5) & 0x3 {
		case 0: // c.sub
			return encoding.FromWord(encR(opOp, 0, funct7Alt, rd, rd, rs2)), true
		case 1: // c.xor
			return encoding.FromWord(encR(opOp, 4, funct7Base, rd, rd, rs2)), true
		case 2: // c.or
			return encoding.FromWord(encR(opOp, 6, funct7Base, rd, rd, rs2)), true
		default: // c.and
			return encoding.FromWord(encR(opOp, 7, funct7Base, rd, rd, rs2)), true
		}
	}
	return encoding.Inst{}, false
}

func expandQuadrant2(c encoding.CInst) (encoding.Inst, bool) {
	switch c.Funct3() {
	case 0: // c.slli
		if c.Rd() == 0 {
			return encoding.Inst{}, false
		}
		return encoding.FromWord(encI(opOpImm, 1, c.Rd(), c.Rd(), c.CIShamt())), true
	case 2: // c.lwsp
		if c.Rd() == 0 {
			return encoding.Inst{}, false
		}
		return encoding.FromWord(encI(opLoad, 2, c.Rd(), 2, c.CILwspUimm())), true
	case 3: // c.flwsp
		return encoding.FromWord(encI(opLoadFP, 2, c.Rd(), 2, c.CILwspUimm())), true
	case 4:
		return expandQuadrant2CR(c)
	case 6: // c.swsp
		return encoding.FromWord(encS(opStore, 2, 2, c.Rs2Full(), c.CSSSwspUimm())), true
	case 7: // c.fswsp
		return encoding.FromWord(encS(opStoreFP, 2, 2, c.Rs2Full(), c.CSSSwspUimm())), true
	}
	return encoding.Inst{}, false
}

func expandQuadrant2CR(c encoding.CInst) (encoding.Inst, bool) {
	rd, rs2 := c.Rd(), c.Rs2Full()
	if (c.Raw>>12)&1 == 0 {
		if rs2 == 0 {
			if rd == 0 {
				return encoding.Inst{}, false
			}
			return encoding.FromWord(encI(opJALR, 0, 0, rd, 0)), true // c.jr
		}
		return encoding.FromWord(encR(opOp, 0, funct7Base, rd, 0, rs2)), true // c.mv
	}
	if rd == 0 && rs2 == 0 {
		return encoding.FromWord(encI(opSystem, 0, 0, 0, funct12EBreak)), true
	}
	if rs2 == 0 {
		return encoding.FromWord(encI(opJALR, 0, 1, rd, 0)), true // c.jalr
	}
	return encoding.FromWord(encR(opOp, 0, funct7Base, rd, rd, rs2)), true // c.add
}
