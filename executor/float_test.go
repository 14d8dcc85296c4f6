package executor_test

import (
	"testing"

	"github.com/relaysilicon/rv32core/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encR(opcode, funct3, funct7, rd, rs1, rs2 uint32) uint32 {
	return opcode | funct3<<12 | (rd&0x1f)<<7 | (rs1&0x1f)<<15 | (rs2&0x1f)<<20 | (funct7&0x7f)<<25
}

func TestFaddSignalingNaNProducesCanonicalQuietNaN(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.PC = 0x1000
	s.WriteFReg(0, 0x7f800001) // sNaN
	inst := encR(0x53, 0, 0x00, 1, 0, 0) // fadd.s f1, f0, f0
	mem.putWord(s.PC, inst)

	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)

	require.Nil(t, res.Trap)
	assert.Equal(t, uint32(0x7fc00000), s.FReg(1))
	assert.Equal(t, uint8(16), s.FFlags&16)
}

func TestFRSqrt7OfPositiveZeroIsPositiveInfinity(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.PC = 0x1000
	s.WriteFReg(0, 0x00000000)
	inst := encR(0x53, 0, 0x2c, 1, 0, 1) // rs2=1 selects frsqrt7.s
	mem.putWord(s.PC, inst)

	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)

	require.Nil(t, res.Trap)
	assert.Equal(t, uint32(0x7f800000), s.FReg(1))
	assert.Equal(t, uint8(8), s.FFlags&8)
}

func TestFmvRoundTrip(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.PC = 0x1000
	s.WriteXReg(1, 0xdeadbeef)
	// fmv.w.x f2, x1
	mem.putWord(s.PC, encR(0x53, 0, 0x78, 2, 1, 0))
	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)
	require.Nil(t, res.Trap)
	s.PC = res.NextPC

	// fmv.x.w x3, f2
	mem.putWord(s.PC, encR(0x53, 0, 0x70, 3, 2, 0))
	tr.Begin(s.PC)
	res = executor.Execute(s, tr, mem, fp)
	require.Nil(t, res.Trap)

	assert.Equal(t, uint32(0xdeadbeef), s.XReg(3))
}

func TestFsgnjxOfSelfClearsSign(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.PC = 0x1000
	s.WriteFReg(0, 0xbf800000) // -1.0
	// fsgnjx f1, f0, f0: funct7=0x10, funct3=2
	mem.putWord(s.PC, 0x10<<25|0<<20|0<<15|2<<12|1<<7|0x53)

	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)

	require.Nil(t, res.Trap)
	assert.Equal(t, uint32(0x3f800000), s.FReg(1)) // +1.0
}

func TestFClassIsOneHot(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.PC = 0x1000
	s.WriteFReg(0, 0x7f800001) // sNaN
	// fclass.s x1, f0: funct7=0x70, funct3=1
	mem.putWord(s.PC, 0x70<<25|0<<20|0<<15|1<<12|1<<7|0x53)

	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)

	require.Nil(t, res.Trap)
	v := s.XReg(1)
	require.NotZero(t, v)
	assert.Equal(t, v, v&-v) // exactly one bit set
}
