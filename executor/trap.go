// Package executor decodes and executes a single instruction against a
// state.State and a MemoryCallbacks collaborator, producing an ExecResult
// that the model's step loop either commits or rolls back (spec.md §4.3,
// §4.4).
package executor

// TrapCause enumerates architectural trap causes. Values match
// original_source's XCPT_CODE_* constants verbatim, including the ones
// this M-mode-only, no-paging build can never actually raise (kept so
// mcause stays stable if S-mode/paging are enabled later).
type TrapCause uint8

const (
	TrapInstAddrMisaligned TrapCause = 0
	TrapInstAccessFault    TrapCause = 1
	TrapIllegalInst        TrapCause = 2
	TrapBreakpoint         TrapCause = 3
	TrapLoadAddrMisaligned TrapCause = 4
	TrapLoadAccessFault    TrapCause = 5
	TrapStoreAddrMisaligned TrapCause = 6
	TrapStoreAccessFault   TrapCause = 7
	TrapEnvCallFromU       TrapCause = 8 // unreachable: U-mode disabled
	TrapEnvCallFromS       TrapCause = 9 // unreachable: S-mode disabled
	TrapEnvCallFromM       TrapCause = 11
	TrapInstPageFault      TrapCause = 12 // unreachable: no paging
	TrapLoadPageFault      TrapCause = 13 // unreachable: no paging
	TrapStorePageFault     TrapCause = 15 // unreachable: no paging
)

// Trap is the error type an ExecResult carries on anything other than a
// clean commit. Payload is the value mtval receives (the faulting address
// for misaligned/access faults, 0 for ecall/ebreak).
type Trap struct {
	Cause   TrapCause
	Payload uint32
}

func (t *Trap) Error() string { return "trap" }

// ExecResult is what Execute returns for a single instruction.
type ExecResult struct {
	Trap *Trap // nil on a clean commit

	// NextPC is the pc to fetch from next, valid only when Trap is nil.
	NextPC uint32
}

func ok(nextPC uint32) ExecResult { return ExecResult{NextPC: nextPC} }

func trap(cause TrapCause, payload uint32) ExecResult {
	return ExecResult{Trap: &Trap{Cause: cause, Payload: payload}}
}
