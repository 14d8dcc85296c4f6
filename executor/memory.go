package executor

// AMOOp enumerates the read-modify-write operation an amoX.w instruction
// performs (spec.md §6's amo_mem_4 op_code).
type AMOOp uint8

const (
	AMOSwap AMOOp = iota
	AMOAdd
	AMOXor
	AMOAnd
	AMOOr
	AMOMin
	AMOMax
	AMOMinU
	AMOMaxU
)

// MemoryCallbacks is the Go realization of spec.md §6's memory-callback
// vtable: the external collaborator the engine consumes for every
// instruction fetch and data access. A non-nil error is itself the trap
// to surface (the callback, not the engine, knows the precise cause —
// misaligned vs. access fault vs. out-of-range).
type MemoryCallbacks interface {
	FetchInst16(addr uint32) (uint16, error)

	Read8(addr uint32) (uint8, error)
	Read16(addr uint32) (uint16, error)
	Read32(addr uint32) (uint32, error)

	Write8(addr uint32, v uint8) error
	Write16(addr uint32, v uint16) error
	Write32(addr uint32, v uint32) error

	AMO32(addr uint32, op AMOOp, operand uint32) (uint32, error)
	LoadReserved32(addr uint32) (uint32, error)
	StoreConditional32(addr uint32, v uint32) (ok bool, err error)
}

// MemTrapError lets a MemoryCallbacks implementation report the exact
// trap cause/payload the model should surface, rather than a generic Go
// error the engine would have to guess at.
type MemTrapError struct {
	Cause   TrapCause
	Payload uint32
}

func (e *MemTrapError) Error() string { return "memory trap" }
