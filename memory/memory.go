// Package memory is a reference MemoryCallbacks implementation: named,
// permissioned segments over byte-addressed backing arrays. It is not part
// of the core engine (the engine only knows executor.MemoryCallbacks) but
// is what the loader, debugger, and API server drive the engine with.
package memory

import (
	"fmt"

	"github.com/relaysilicon/rv32core/executor"
)

// Default segment layout, matching the teacher's vm/memory.go offsets.
const (
	CodeSegmentStart  = 0x00008000
	CodeSegmentSize   = 0x00010000
	DataSegmentStart  = 0x00020000
	DataSegmentSize   = 0x00010000
	HeapSegmentStart  = 0x00030000
	HeapSegmentSize   = 0x00010000
	StackSegmentStart = 0x00040000
	StackSegmentSize  = 0x00010000
)

// Permission is a bitmask of what a segment allows.
type Permission byte

const (
	PermNone    Permission = 0
	PermRead    Permission = 1 << 0
	PermWrite   Permission = 1 << 1
	PermExecute Permission = 1 << 2
)

// Segment is a named, permissioned region of byte-addressed memory.
type Segment struct {
	Start       uint32
	Size        uint32
	Data        []byte
	Permissions Permission
	Name        string
}

// Memory is the reference executor.MemoryCallbacks implementation: a set
// of named segments, little-endian multi-byte accessors, alignment
// checking, and load-reserved/store-conditional reservation tracking.
type Memory struct {
	Segments    []*Segment
	StrictAlign bool
	AccessCount uint64
	ReadCount   uint64
	WriteCount  uint64

	reserved bool
	resAddr  uint32
}

var _ executor.MemoryCallbacks = (*Memory)(nil)

// New returns a Memory with the standard code/data/heap/stack layout.
func New() *Memory {
	m := &Memory{StrictAlign: true}
	m.AddSegment("code", CodeSegmentStart, CodeSegmentSize, PermRead|PermWrite|PermExecute)
	m.AddSegment("data", DataSegmentStart, DataSegmentSize, PermRead|PermWrite)
	m.AddSegment("heap", HeapSegmentStart, HeapSegmentSize, PermRead|PermWrite)
	m.AddSegment("stack", StackSegmentStart, StackSegmentSize, PermRead|PermWrite)
	return m
}

// AddSegment registers a new memory segment.
func (m *Memory) AddSegment(name string, start, size uint32, perm Permission) {
	m.Segments = append(m.Segments, &Segment{
		Start:       start,
		Size:        size,
		Data:        make([]byte, size),
		Permissions: perm,
		Name:        name,
	})
}

func (m *Memory) findSegment(addr uint32) (*Segment, uint32, error) {
	for _, seg := range m.Segments {
		if addr >= seg.Start && addr < seg.Start+seg.Size {
			return seg, addr - seg.Start, nil
		}
	}
	return nil, 0, fmt.Errorf("address 0x%08x is not mapped", addr)
}

func (m *Memory) checkAlign(addr uint32, size uint32, loadCause, storeCause executor.TrapCause, write bool) error {
	if !m.StrictAlign {
		return nil
	}
	if addr&(size-1) != 0 {
		cause := loadCause
		if write {
			cause = storeCause
		}
		return &executor.MemTrapError{Cause: cause, Payload: addr}
	}
	return nil
}

// MakeCodeReadOnly drops write permission from the code segment, for use
// after a loader has finished populating it.
func (m *Memory) MakeCodeReadOnly() {
	for _, seg := range m.Segments {
		if seg.Name == "code" {
			seg.Permissions = PermRead | PermExecute
		}
	}
}

// Reset zeros every segment and the access counters.
func (m *Memory) Reset() {
	for _, seg := range m.Segments {
		for i := range seg.Data {
			seg.Data[i] = 0
		}
	}
	m.AccessCount = 0
	m.ReadCount = 0
	m.WriteCount = 0
	m.reserved = false
}

// FetchInst16 reads the halfword at addr with execute permission, used for
// instruction fetch (both compressed and the low/high halves of a 32-bit
// instruction).
func (m *Memory) FetchInst16(addr uint32) (uint16, error) {
	if addr&0x1 != 0 {
		return 0, &executor.MemTrapError{Cause: executor.TrapInstAddrMisaligned, Payload: addr}
	}
	seg, off, err := m.findSegment(addr)
	if err != nil {
		return 0, &executor.MemTrapError{Cause: executor.TrapInstAccessFault, Payload: addr}
	}
	if seg.Permissions&PermExecute == 0 {
		return 0, &executor.MemTrapError{Cause: executor.TrapInstAccessFault, Payload: addr}
	}
	if off+1 >= uint32(len(seg.Data)) {
		return 0, &executor.MemTrapError{Cause: executor.TrapInstAccessFault, Payload: addr}
	}
	m.AccessCount++
	m.ReadCount++
	return uint16(seg.Data[off]) | uint16(seg.Data[off+1])<<8, nil
}

// Read8 reads a single byte; byte access is never misaligned.
func (m *Memory) Read8(addr uint32) (uint8, error) {
	seg, off, err := m.findSegment(addr)
	if err != nil {
		return 0, &executor.MemTrapError{Cause: executor.TrapLoadAccessFault, Payload: addr}
	}
	if seg.Permissions&PermRead == 0 {
		return 0, &executor.MemTrapError{Cause: executor.TrapLoadAccessFault, Payload: addr}
	}
	m.AccessCount++
	m.ReadCount++
	return seg.Data[off], nil
}

// Read16 reads a halfword, trapping MISALIGNED_LOAD on an odd address.
func (m *Memory) Read16(addr uint32) (uint16, error) {
	if err := m.checkAlign(addr, 2, executor.TrapLoadAddrMisaligned, executor.TrapStoreAddrMisaligned, false); err != nil {
		return 0, err
	}
	seg, off, err := m.findSegment(addr)
	if err != nil {
		return 0, &executor.MemTrapError{Cause: executor.TrapLoadAccessFault, Payload: addr}
	}
	if seg.Permissions&PermRead == 0 {
		return 0, &executor.MemTrapError{Cause: executor.TrapLoadAccessFault, Payload: addr}
	}
	if off+1 >= uint32(len(seg.Data)) {
		return 0, &executor.MemTrapError{Cause: executor.TrapLoadAccessFault, Payload: addr}
	}
	m.AccessCount++
	m.ReadCount++
	return uint16(seg.Data[off]) | uint16(seg.Data[off+1])<<8, nil
}

// Read32 reads a word, trapping MISALIGNED_LOAD on a non-4-aligned address.
func (m *Memory) Read32(addr uint32) (uint32, error) {
	if err := m.checkAlign(addr, 4, executor.TrapLoadAddrMisaligned, executor.TrapStoreAddrMisaligned, false); err != nil {
		return 0, err
	}
	seg, off, err := m.findSegment(addr)
	if err != nil {
		return 0, &executor.MemTrapError{Cause: executor.TrapLoadAccessFault, Payload: addr}
	}
	if seg.Permissions&PermRead == 0 {
		return 0, &executor.MemTrapError{Cause: executor.TrapLoadAccessFault, Payload: addr}
	}
	if off+3 >= uint32(len(seg.Data)) {
		return 0, &executor.MemTrapError{Cause: executor.TrapLoadAccessFault, Payload: addr}
	}
	m.AccessCount++
	m.ReadCount++
	return uint32(seg.Data[off]) | uint32(seg.Data[off+1])<<8 |
		uint32(seg.Data[off+2])<<16 | uint32(seg.Data[off+3])<<24, nil
}

// Write8 writes a single byte; byte access is never misaligned.
func (m *Memory) Write8(addr uint32, v uint8) error {
	seg, off, err := m.findSegment(addr)
	if err != nil {
		return &executor.MemTrapError{Cause: executor.TrapStoreAccessFault, Payload: addr}
	}
	if seg.Permissions&PermWrite == 0 {
		return &executor.MemTrapError{Cause: executor.TrapStoreAccessFault, Payload: addr}
	}
	m.AccessCount++
	m.WriteCount++
	seg.Data[off] = v
	m.clearReservationOn(addr, 1)
	return nil
}

// Write16 writes a halfword, trapping MISALIGNED_STORE on an odd address.
func (m *Memory) Write16(addr uint32, v uint16) error {
	if err := m.checkAlign(addr, 2, executor.TrapLoadAddrMisaligned, executor.TrapStoreAddrMisaligned, true); err != nil {
		return err
	}
	seg, off, err := m.findSegment(addr)
	if err != nil {
		return &executor.MemTrapError{Cause: executor.TrapStoreAccessFault, Payload: addr}
	}
	if seg.Permissions&PermWrite == 0 {
		return &executor.MemTrapError{Cause: executor.TrapStoreAccessFault, Payload: addr}
	}
	if off+1 >= uint32(len(seg.Data)) {
		return &executor.MemTrapError{Cause: executor.TrapStoreAccessFault, Payload: addr}
	}
	m.AccessCount++
	m.WriteCount++
	seg.Data[off] = byte(v)
	seg.Data[off+1] = byte(v >> 8)
	m.clearReservationOn(addr, 2)
	return nil
}

// Write32 writes a word, trapping MISALIGNED_STORE on a non-4-aligned
// address.
func (m *Memory) Write32(addr uint32, v uint32) error {
	if err := m.checkAlign(addr, 4, executor.TrapLoadAddrMisaligned, executor.TrapStoreAddrMisaligned, true); err != nil {
		return err
	}
	seg, off, err := m.findSegment(addr)
	if err != nil {
		return &executor.MemTrapError{Cause: executor.TrapStoreAccessFault, Payload: addr}
	}
	if seg.Permissions&PermWrite == 0 {
		return &executor.MemTrapError{Cause: executor.TrapStoreAccessFault, Payload: addr}
	}
	if off+3 >= uint32(len(seg.Data)) {
		return &executor.MemTrapError{Cause: executor.TrapStoreAccessFault, Payload: addr}
	}
	m.AccessCount++
	m.WriteCount++
	seg.Data[off] = byte(v)
	seg.Data[off+1] = byte(v >> 8)
	seg.Data[off+2] = byte(v >> 16)
	seg.Data[off+3] = byte(v >> 24)
	m.clearReservationOn(addr, 4)
	return nil
}

// AMO32 performs a read-modify-write at addr and returns the pre-update
// value, per the amo_mem_4 semantics spec.md §6 describes.
func (m *Memory) AMO32(addr uint32, op executor.AMOOp, operand uint32) (uint32, error) {
	old, err := m.Read32(addr)
	if err != nil {
		return 0, err
	}
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
	if err := m.Write32(addr, result); err != nil {
		return 0, err
	}
	return old, nil
}

// LoadReserved32 reads addr and arms a reservation on it for a subsequent
// StoreConditional32 (the RV32A lr.w/sc.w pair).
func (m *Memory) LoadReserved32(addr uint32) (uint32, error) {
	v, err := m.Read32(addr)
	if err != nil {
		return 0, err
	}
	m.reserved = true
	m.resAddr = addr
	return v, nil
}

// StoreConditional32 writes v to addr only if the reservation armed by
// LoadReserved32 is still held for addr; ok reports whether the store
// happened.
func (m *Memory) StoreConditional32(addr uint32, v uint32) (ok bool, err error) {
	if !m.reserved || m.resAddr != addr {
		return false, nil
	}
	m.reserved = false
	if err := m.Write32(addr, v); err != nil {
		return false, err
	}
	return true, nil
}

// clearReservationOn invalidates a held reservation whenever any store
// touches its address range, matching the architectural rule that any
// store to the reserved address (by any means) breaks the reservation.
func (m *Memory) clearReservationOn(addr uint32, size uint32) {
	if !m.reserved {
		return
	}
	if addr < m.resAddr+4 && addr+size > m.resAddr {
		m.reserved = false
	}
}

// GetBytes copies length bytes starting at addr out of memory, for use by
// the loader and debugger when inspecting a range without going through
// the trap-producing executor.MemoryCallbacks accessors.
func (m *Memory) GetBytes(addr, length uint32) ([]byte, error) {
	result := make([]byte, length)
	for i := uint32(0); i < length; i++ {
		b, err := m.Read8(addr + i)
		if err != nil {
			return nil, err
		}
		result[i] = b
	}
	return result, nil
}

// LoadBytes writes data into memory starting at addr, used by the loader
// to populate the code/data segments from a program image.
func (m *Memory) LoadBytes(addr uint32, data []byte) error {
	for i, b := range data {
		if err := m.Write8(addr+uint32(i), b); err != nil {
			return fmt.Errorf("loading byte at offset %d: %w", i, err)
		}
	}
	return nil
}
