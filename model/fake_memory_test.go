package model_test

import (
	"encoding/binary"

	"github.com/relaysilicon/rv32core/executor"
)

// fakeMemory is a flat, unpermissioned byte array implementing
// model.MemoryCallbacks, sized for single- and multi-step test scenarios.
// Real segment permissioning lives in the memory package.
type fakeMemory struct {
	bytes [0x10000]byte
}

func newFakeMemory() *fakeMemory { return &fakeMemory{} }

func (m *fakeMemory) putWord(addr, v uint32) {
	binary.LittleEndian.PutUint32(m.bytes[addr:], v)
}

func (m *fakeMemory) FetchInst16(addr uint32) (uint16, error) {
	return binary.LittleEndian.Uint16(m.bytes[addr:]), nil
}

func (m *fakeMemory) Read8(addr uint32) (uint8, error) { return m.bytes[addr], nil }
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
	_ = m.Write32(addr, operand)
	return old, nil
}

func (m *fakeMemory) LoadReserved32(addr uint32) (uint32, error) { return m.Read32(addr) }
func (m *fakeMemory) StoreConditional32(addr uint32, v uint32) (bool, error) {
	return true, m.Write32(addr, v)
}
