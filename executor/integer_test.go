package executor_test

import (
	"testing"

	"github.com/relaysilicon/rv32core/executor"
	"github.com/relaysilicon/rv32core/fpshim"
	"github.com/relaysilicon/rv32core/state"
	"github.com/relaysilicon/rv32core/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRig() (*state.State, *trace.Buffer, *fakeMemory, *fpshim.Shim) {
	s := state.New()
	tr := &trace.Buffer{}
	mem := newFakeMemory()
	fp := fpshim.NewShim(nil)
	return s, tr, mem, fp
}

func TestAddiNegativeOne(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.PC = 0x1000
	mem.putWord(0x1000, 0xfff00093) // addi x1, x0, -1

	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)

	require.Nil(t, res.Trap)
	assert.Equal(t, uint32(0xffffffff), s.XReg(1))
	assert.Equal(t, uint32(0x1004), res.NextPC)
	assert.Equal(t, uint32(1<<1), tr.XRegMask)
}

func TestLuiThenAddiNegative(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.PC = 0x1000
	mem.putWord(0x1000, 0x123452b7) // lui x2, 0x12345
	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)
	require.Nil(t, res.Trap)
	s.PC = res.NextPC

	mem.putWord(s.PC, 0x80010113) // addi x2, x2, -2048
	tr.Begin(s.PC)
	res = executor.Execute(s, tr, mem, fp)
	require.Nil(t, res.Trap)
	assert.Equal(t, uint32(0x12344800), s.XReg(2))
}

func TestJALLinksAndJumps(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.PC = 0x1000
	mem.putWord(0x1000, 0x008000ef) // jal x1, +8

	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)

	require.Nil(t, res.Trap)
	assert.Equal(t, uint32(0x1004), s.XReg(1))
	assert.Equal(t, uint32(0x1008), res.NextPC)
}

func TestBeqTakenBackward(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.PC = 0x1004
	mem.putWord(0x1004, 0xfe000ee3) // beq x0, x0, -4

	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)

	require.Nil(t, res.Trap)
	assert.Equal(t, uint32(0x1000), res.NextPC)
}

func TestCSRRWMScratch(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.PC = 0x2000
	s.WriteXReg(2, 0xdeadbeef)
	// csrrw x1, mscratch, x2: rd=1 rs1=2 csr=0x340 funct3=1 opcode=SYSTEM(0x73)
	inst := uint32(0x340<<20) | uint32(2)<<15 | uint32(1)<<12 | uint32(1)<<7 | 0x73
	mem.putWord(s.PC, inst)

	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)

	require.Nil(t, res.Trap)
	assert.Equal(t, uint32(0), s.XReg(1))
	csrVal, err := s.ReadCSR(state.CSRMScratch)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), csrVal)
	require.Equal(t, 1, tr.CSRCount)
	assert.Equal(t, uint16(0x340), tr.CSRIndices[0])
}

func TestX0WriteNeverRecordedInTraceMask(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.PC = 0x1000
	mem.putWord(0x1000, 0x00000013) // addi x0, x0, 0

	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)

	require.Nil(t, res.Trap)
	assert.Equal(t, uint32(0), s.XReg(0))
	assert.Equal(t, uint32(0), tr.XRegMask&1)
}

func TestLuiZeroTwiceLeavesZero(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.PC = 0x1000
	mem.putWord(0x1000, 0x00000137) // lui x2, 0

	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)
	require.Nil(t, res.Trap)
	s.PC = res.NextPC

	mem.putWord(s.PC, 0x00000137)
	tr.Begin(s.PC)
	res = executor.Execute(s, tr, mem, fp)
	require.Nil(t, res.Trap)

	assert.Equal(t, uint32(0), s.XReg(2))
}

func TestMulDivOverflowAndByZero(t *testing.T) {
	s, tr, mem, fp := newTestRig()
	s.WriteXReg(1, 0x80000000) // MinInt32
	s.WriteXReg(2, 0xffffffff) // -1
	s.PC = 0x1000
	// div x3, x1, x2: funct7=0000001 funct3=100 opOp
	inst := uint32(1)<<25 | uint32(2)<<20 | uint32(1)<<15 | uint32(4)<<12 | uint32(3)<<7 | 0x33
	mem.putWord(s.PC, inst)

	tr.Begin(s.PC)
	res := executor.Execute(s, tr, mem, fp)
	require.Nil(t, res.Trap)
	assert.Equal(t, uint32(0x80000000), s.XReg(3)) // overflow case: quotient = dividend

	s.WriteXReg(2, 0)
	tr.Begin(s.PC)
	res = executor.Execute(s, tr, mem, fp)
	require.Nil(t, res.Trap)
	assert.Equal(t, uint32(0xffffffff), s.XReg(3)) // div by zero: all ones
}
