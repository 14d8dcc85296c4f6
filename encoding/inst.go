package encoding

// Inst wraps a 32-bit instruction word and exposes its fields as pure
// accessors. Field derivations follow the base RV32 encoding tables.
type Inst struct {
	Raw uint32
}

// FromWord builds an Inst from a raw 32-bit instruction word.
func FromWord(word uint32) Inst {
	return Inst{Raw: word}
}

// FromHalves assembles a 32-bit instruction from its low and high 16-bit
// halves, as fetched by two sequential 16-bit memory accesses.
func FromHalves(lo, hi uint16) Inst {
	return Inst{Raw: uint32(hi)<<16 | uint32(lo)}
}

// Match reports whether the masked bits of the instruction equal base.
func (i Inst) Match(mask, base uint32) bool {
	return i.Raw&mask == base
}

// Opcode returns bits[6:0].
func (i Inst) Opcode() uint32 { return i.Raw & 0x7f }

// Funct3 returns bits[14:12].
func (i Inst) Funct3() uint32 { return (i.Raw >> 12) & 0x7 }

// Funct7 returns bits[31:25].
func (i Inst) Funct7() uint32 { return (i.Raw >> 25) & 0x7f }

// Rd returns the destination register index, bits[11:7].
func (i Inst) Rd() uint32 { return (i.Raw >> 7) & regMask }

// Rs1 returns the first source register index, bits[19:15].
func (i Inst) Rs1() uint32 { return (i.Raw >> 15) & regMask }

// Rs2 returns the second source register index, bits[24:20].
func (i Inst) Rs2() uint32 { return (i.Raw >> 20) & regMask }

// Rs3 returns the third source register index (fused multiply-add forms),
// bits[31:27].
func (i Inst) Rs3() uint32 { return (i.Raw >> 27) & regMask }

// CSR returns the 12-bit CSR index, bits[31:20].
func (i Inst) CSR() uint16 { return uint16((i.Raw >> csrShift) & csrMask) }

// Shamt5 returns the 5-bit shift amount used by register-immediate shifts,
// bits[24:20].
func (i Inst) Shamt5() uint32 { return (i.Raw >> 20) & regMask }

// Zimm returns the 5-bit zero-extended immediate used by csrrwi/csrrsi/csrrci,
// aliased onto the rs1 field (bits[19:15]).
func (i Inst) Zimm() uint32 { return i.Rs1() }

// ImmI returns the sign-extended I-type immediate, sext(inst[31:20]).
func (i Inst) ImmI() int32 { return int32(i.Raw) >> 20 }

// ImmS returns the sign-extended S-type immediate,
// sext({inst[31:25], inst[11:7]}).
func (i Inst) ImmS() int32 {
	raw := (i.Raw&0xfe000000)>>20 | (i.Raw>>7)&0x1f
	return int32(raw<<20) >> 20
}

// ImmB returns the sign-extended, word-aligned B-type immediate,
// sext({inst[31], inst[7], inst[30:25], inst[11:8], 0}).
func (i Inst) ImmB() int32 {
	b12 := (i.Raw >> 31) & 1
	b11 := (i.Raw >> 7) & 1
	b10_5 := (i.Raw >> 25) & 0x3f
	b4_1 := (i.Raw >> 8) & 0xf
	raw := b12<<12 | b11<<11 | b10_5<<5 | b4_1<<1
	return int32(raw<<19) >> 19
}

// ImmU returns the U-type immediate, {inst[31:12], 12'b0}.
func (i Inst) ImmU() int32 { return int32(i.Raw & 0xfffff000) }

// ImmJ returns the sign-extended J-type immediate,
// sext({inst[31], inst[19:12], inst[20], inst[30:21], 0}).
func (i Inst) ImmJ() int32 {
	b20 := (i.Raw >> 31) & 1
	b19_12 := (i.Raw >> 12) & 0xff
	b11 := (i.Raw >> 20) & 1
	b10_1 := (i.Raw >> 21) & 0x3ff
	raw := b20<<20 | b19_12<<12 | b11<<11 | b10_1<<1
	return int32(raw<<11) >> 11
}
