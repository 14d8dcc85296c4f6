package executor_test

import (
	"testing"

	"github.com/relaysilicon/rv32core/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCAddiIncrementsAndAdvancesPCByTwo(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.PC = 0x1000
	s.WriteXReg(8, 1)
	mem.putHalf(0x1000, 0x0405) // c.addi x8, 1

	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)

	require.Nil(t, res.Trap)
	assert.Equal(t, uint32(2), s.XReg(8))
	assert.Equal(t, uint32(0x1002), res.NextPC)
}

func TestCLiLoadsImmediate(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.PC = 0x1000
	// c.li x9, 5: quadrant1 funct3=010, rd=9, imm=5 -> bits[6:2]=00101, bit12=0
	// word = op(01) | funct3(010)<<13 | bit12<<12 | rd<<7 | imm[4:0]<<2
	imm5 := uint16(5)
	word := uint16(1) | uint16(0b010)<<13 | (uint16(9) << 7) | (imm5 << 2)
	mem.putHalf(0x1000, word)

	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)
	require.Nil(t, res.Trap)
	assert.Equal(t, uint32(5), s.XReg(9))
	assert.Equal(t, uint32(0x1002), res.NextPC)
}

func TestCSWThenCLWRoundTrip(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.PC = 0x1000
	s.WriteXReg(8, 0x2000) // base (compressed reg x8)
	s.WriteXReg(9, 0xcafef00d)

	// c.sw x9, 0(x8): CS form, op=00 funct3=110, rs1'=x8->000, rs2'=x9->001, uimm=0
	word := uint16(0b00) | uint16(0b110)<<13 | (uint16(0b000) << 7) | (uint16(0b001) << 2)
	mem.putHalf(s.PC, word)
	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)
	require.Nil(t, res.Trap)
	s.PC = res.NextPC

	stored, err := mem.Read32(0x2000)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xcafef00d), stored)

	// c.lw x10, 0(x8): op=00 funct3=010 rs1'=x8->000 rd'=x10->010
	word = uint16(0b00) | uint16(0b010)<<13 | (uint16(0b000) << 7) | (uint16(0b010) << 2)
	mem.putHalf(s.PC, word)
	tr.Begin(s.PC)
	res = executor.Execute(s, tr, mem, fp)
	require.Nil(t, res.Trap)
	assert.Equal(t, uint32(0xcafef00d), s.XReg(10))
}

func TestAllZeroCompressedWordIsIllegal(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.PC = 0x1000
	mem.putHalf(0x1000, 0x0000)

	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)

	require.NotNil(t, res.Trap)
	assert.Equal(t, executor.TrapIllegalInst, res.Trap.Cause)
}
