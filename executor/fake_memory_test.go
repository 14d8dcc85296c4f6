package executor_test

import (
	"encoding/binary"

	"github.com/relaysilicon/rv32core/executor"
)

// fakeMemory is a flat, unpermissioned byte array implementing
// executor.MemoryCallbacks, sized generously for single-instruction test
// scenarios. Permission/segment modeling lives in the memory package; these
// tests only need a minimal collaborator to drive the executor in
// isolation.
type fakeMemory struct {
	bytes    [0x10000]byte
	reserved bool
	resAddr  uint32
}

func newFakeMemory() *fakeMemory { return &fakeMemory{} }

func (m *fakeMemory) putWord(addr, v uint32) {
	binary.LittleEndian.PutUint32(m.bytes[addr:], v)
}

func (m *fakeMemory) putHalf(addr uint32, v uint16) {
	binary.LittleEndian.PutUint16(m.bytes[addr:], v)
}

func (m *fakeMemory) FetchInst16(addr uint32) (uint16, error) {
	return binary.LittleEndian.Uint16(m.bytes[addr:]), nil
}

func (m *fakeMemory) Read8(addr uint32) (uint8, error)  { return m.bytes[addr], nil }
func (m *fakeMemory) Read16(addr uint32) (uint16, error) {
	return binary.LittleEndian.Uint16(m.bytes[addr:]), nil
}
func (m *fakeMemory) Read32(addr uint32) (uint32, error) {
	return binary.LittleEndian.Uint32(m.bytes[addr:]), nil
}

func (m *fakeMemory) Write8(addr uint32, v uint8) error {
	m.bytes[addr] = v
	return nil
}
func (m *fakeMemory) Write16(addr uint32, v uint16) error {
	binary.LittleEndian.PutUint16(m.bytes[addr:], v)
	return nil
}
func (m *fakeMemory) Write32(addr uint32, v uint32) error {
	binary.LittleEndian.PutUint32(m.bytes[addr:], v)
	return nil
}

func (m *fakeMemory) AMO32(addr uint32, op executor.AMOOp, operand uint32) (uint32, error) {
	old, _ := m.Read32(addr)
	var result uint32
	switch op {
	case executor.AMOSwap:
		result = operand
	case executor.AMOAdd:
		result = old + operand
	case executor.AMOXor:
		result = old ^ operand
	case executor.AMOAnd:
		result = old & operand
	case executor.AMOOr:
		result = old | operand
	case executor.AMOMin:
		if int32(operand) < int32(old) {
			result = operand
		} else {
			result = old
		}
	case executor.AMOMax:
		if int32(operand) > int32(old) {
			result = operand
		} else {
			result = old
		}
	case executor.AMOMinU:
		if operand < old {
			result = operand
		} else {
			result = old
		}
	case executor.AMOMaxU:
		if operand > old {
			result = operand
		} else {
			result = old
		}
	}
	_ = m.Write32(addr, result)
	return old, nil
}

func (m *fakeMemory) LoadReserved32(addr uint32) (uint32, error) {
	m.reserved = true
	m.resAddr = addr
	return m.Read32(addr)
}

func (m *fakeMemory) StoreConditional32(addr uint32, v uint32) (bool, error) {
	if !m.reserved || m.resAddr != addr {
		return false, nil
	}
	m.reserved = false
	return true, m.Write32(addr, v)
}
