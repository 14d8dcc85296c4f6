package encoding

// CInst wraps a 16-bit compressed instruction word. Field derivations
// mirror the C-extension immediate layouts (CIW/CL/CS/CI/CSS/CJ/CB).
type CInst struct {
	Raw uint16
}

// FromHalfword builds a CInst from a raw 16-bit instruction word.
func FromHalfword(word uint16) CInst {
	return CInst{Raw: word}
}

// IsCompressed reports whether a fetched 16-bit word is the compressed
// form, i.e. its low two bits are not 0b11.
func IsCompressed(lo uint16) bool {
	return lo&opcodeLow != opcodeLow
}

// Match reports whether the masked bits of the instruction equal base.
func (c CInst) Match(mask, base uint16) bool {
	return c.Raw&mask == base
}

// Op returns the 2-bit quadrant selector, bits[1:0].
func (c CInst) Op() uint16 { return c.Raw & 0x3 }

// Funct3 returns bits[15:13].
func (c CInst) Funct3() uint16 { return (c.Raw >> 13) & 0x7 }

// Rd returns the full 5-bit destination register index (CR/CI/CSS forms),
// bits[11:7].
func (c CInst) Rd() uint32 { return uint32(c.Raw>>7) & regMask }

// Rs2Full returns the full 5-bit rs2 register index (CR/CSS forms),
// bits[6:2].
func (c CInst) Rs2Full() uint32 { return uint32(c.Raw>>2) & regMask }

// RdC returns the compressed 3-bit destination register, mapped to x8-x15
// (CIW/CL forms), bits[4:2].
func (c CInst) RdC() uint32 { return ((uint32(c.Raw) >> 2) & 0x7) + 8 }

// Rs1C returns the compressed 3-bit rs1 register, mapped to x8-x15
// (CL/CS/CA/CB forms), bits[9:7].
func (c CInst) Rs1C() uint32 { return ((uint32(c.Raw) >> 7) & 0x7) + 8 }

// Rs2C returns the compressed 3-bit rs2 register, mapped to x8-x15
// (CS/CA forms), bits[4:2].
func (c CInst) Rs2C() uint32 { return ((uint32(c.Raw) >> 2) & 0x7) + 8 }

// CIWUimm returns the unsigned nzuimm for c.addi4spn: nzuimm[5:4|9:6|2|3].
func (c CInst) CIWUimm() uint32 {
	w := uint32(c.Raw)
	b3 := (w >> 5) & 1
	b2 := (w >> 6) & 1
	b9_6 := (w >> 7) & 0xf
	b5_4 := (w >> 11) & 0x3
	return b9_6<<6 | b5_4<<4 | b3<<3 | b2<<2
}

// CLUimm returns the unsigned uimm for c.lw/c.sw: uimm[5:3|2|6].
func (c CInst) CLUimm() uint32 {
	w := uint32(c.Raw)
	b6 := (w >> 5) & 1
	b2 := (w >> 6) & 1
	b5_3 := (w >> 10) & 0x7
	return b6<<6 | b5_3<<3 | b2<<2
}

// CIImm returns the signed immediate for c.addi/c.li/c.andi,
// sext({bit12, bits[6:2]}).
func (c CInst) CIImm() int32 {
	w := uint32(c.Raw)
	b4_0 := (w >> 2) & 0x1f
	b5 := (w >> 12) & 1
	raw := b5<<5 | b4_0
	return int32(raw<<26) >> 26
}

// CILuiImm returns the signed, left-shifted-by-12 immediate for c.lui,
// sext({bit12, bits[6:2]} << 12).
func (c CInst) CILuiImm() int32 {
	w := uint32(c.Raw)
	b4_0 := (w >> 2) & 0x1f
	b5 := (w >> 12) & 1
	raw := b5<<5 | b4_0
	return int32(raw<<26) >> 14
}

// CIAddi16spImm returns the signed immediate for c.addi16sp,
// sext(nzimm[9|4|6|8:7|5]).
func (c CInst) CIAddi16spImm() int32 {
	w := uint32(c.Raw)
	b5 := (w >> 2) & 1
	b8_7 := (w >> 3) & 0x3
	b6 := (w >> 5) & 1
	b4 := (w >> 6) & 1
	b9 := (w >> 12) & 1
	raw := b9<<9 | b8_7<<7 | b6<<6 | b5<<5 | b4<<4
	return int32(raw<<22) >> 22
}

// CILwspUimm returns the unsigned uimm for c.lwsp: uimm[5|4:2|7:6].
func (c CInst) CILwspUimm() uint32 {
	w := uint32(c.Raw)
	b7_6 := (w >> 2) & 0x3
	b4_2 := (w >> 4) & 0x7
	b5 := (w >> 12) & 1
	return b7_6<<6 | b5<<5 | b4_2<<2
}

// CSSSwspUimm returns the unsigned uimm for c.swsp: uimm[5:2|7:6].
func (c CInst) CSSSwspUimm() uint32 {
	w := uint32(c.Raw)
	b7_6 := (w >> 7) & 0x3
	b5_2 := (w >> 9) & 0xf
	return b7_6<<6 | b5_2<<2
}

// CJImm returns the signed offset for c.j/c.jal,
// sext(imm[11|4|9:8|10|6|7|3:1|5]).
func (c CInst) CJImm() int32 {
	w := uint32(c.Raw)
	b5 := (w >> 2) & 1
	b3_1 := (w >> 3) & 0x7
	b7 := (w >> 6) & 1
	b6 := (w >> 7) & 1
	b10 := (w >> 8) & 1
	b9_8 := (w >> 9) & 0x3
	b4 := (w >> 11) & 1
	b11 := (w >> 12) & 1
	raw := b11<<11 | b10<<10 | b9_8<<8 | b7<<7 | b6<<6 | b5<<5 | b4<<4 | b3_1<<1
	return int32(raw<<20) >> 20
}

// CBImm returns the signed offset for c.beqz/c.bnez,
// sext(offset[8|4:3|7:6|2:1|5]).
func (c CInst) CBImm() int32 {
	w := uint32(c.Raw)
	b5 := (w >> 2) & 1
	b2_1 := (w >> 3) & 0x3
	b7_6 := (w >> 5) & 0x3
	b4_3 := (w >> 10) & 0x3
	b8 := (w >> 12) & 1
	raw := b8<<8 | b7_6<<6 | b5<<5 | b4_3<<3 | b2_1<<1
	return int32(raw<<23) >> 23
}

// CIShamt returns the shift amount for c.slli/c.srli/c.srai,
// {bit12, bits[6:2]}.
func (c CInst) CIShamt() uint32 {
	w := uint32(c.Raw)
	b4_0 := (w >> 2) & 0x1f
	b5 := (w >> 12) & 1
	return b5<<5 | b4_0
}
