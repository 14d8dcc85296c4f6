package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImmIAddiNegativeOne(t *testing.T) {
	// addi x1, x0, -1
	i := FromWord(0xfff00093)
	require.EqualValues(t, 1, i.Rd())
	require.EqualValues(t, 0, i.Rs1())
	assert.EqualValues(t, -1, i.ImmI())
}

func TestImmULui(t *testing.T) {
	// lui x2, 0x12345
	i := FromWord(0x123452b7)
	require.EqualValues(t, 2, i.Rd())
	assert.EqualValues(t, 0x12345000, i.ImmU())
}

func TestImmJJal(t *testing.T) {
	// jal x1, +8
	i := FromWord(0x008000ef)
	require.EqualValues(t, 1, i.Rd())
	assert.EqualValues(t, 8, i.ImmJ())
}

func TestImmBBeqNegative(t *testing.T) {
	// beq x0, x0, -4
	i := FromWord(0xfe000ee3)
	assert.EqualValues(t, 0, i.Rs1())
	assert.EqualValues(t, 0, i.Rs2())
	assert.EqualValues(t, -4, i.ImmB())
}

func TestImmSStoreWord(t *testing.T) {
	// sw x2, 4(x1): imm=4, rs1=1, rs2=2
	// opcode=0100011 funct3=010
	word := uint32(0b0000000_00010_00001_010_00100_0100011)
	i := FromWord(word)
	assert.EqualValues(t, 1, i.Rs1())
	assert.EqualValues(t, 2, i.Rs2())
	assert.EqualValues(t, 4, i.ImmS())
}

func TestCSRFields(t *testing.T) {
	// csrrw x1, mscratch(0x340), x2
	word := uint32(0x340<<20) | uint32(2<<15) | uint32(1<<12) | uint32(1<<7) | 0x73
	i := FromWord(word)
	assert.EqualValues(t, 0x340, i.CSR())
	assert.EqualValues(t, 1, i.Rd())
	assert.EqualValues(t, 2, i.Rs1())
}

func TestCompressedAddi(t *testing.T) {
	// c.addi x8, 1 -> raw 0x0405
	c := FromHalfword(0x0405)
	require.True(t, IsCompressed(c.Raw))
	assert.EqualValues(t, 1, c.CIImm())
	assert.EqualValues(t, 8, c.Rd())
}

func TestIsCompressedClassification(t *testing.T) {
	assert.True(t, IsCompressed(0x0405))
	assert.False(t, IsCompressed(0xfff00093&0xffff))
}

func TestFromHalves(t *testing.T) {
	i := FromHalves(0x0093, 0xfff0)
	assert.EqualValues(t, 0xfff00093, i.Raw)
}
