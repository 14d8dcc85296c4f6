package api

import "time"

// CreateSessionRequest is the body of POST /sessions. Image, if present, is
// loaded as a flat binary at LoadAddr (default memory.CodeSegmentStart)
// before the session is returned; an empty Image leaves memory zeroed and
// lets the caller fill it in later via its own tooling.
type CreateSessionRequest struct {
	Image       []byte `json:"image,omitempty"`
	LoadAddr    uint32 `json:"loadAddr,omitempty"`
	ResetVector uint32 `json:"resetVector,omitempty"`
}

// CreateSessionResponse is the body returned from POST /sessions.
type CreateSessionResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	PC        uint32    `json:"pc"`
}

// StepResponse is the body returned from POST /sessions/{id}/step: the
// trace.Buffer recorded by the step that was just executed.
type StepResponse struct {
	Status   string    `json:"status"`
	PC       uint32    `json:"pc"`
	Inst     uint32    `json:"inst"`
	XRegMask uint32    `json:"xRegMask"`
	FRegMask uint32    `json:"fRegMask"`
	CSRs     []uint16  `json:"csrs,omitempty"`
	Trap     *TrapInfo `json:"trap,omitempty"`
}

// TrapInfo reports a trap taken during the most recent step.
type TrapInfo struct {
	Cause   uint32 `json:"cause"`
	Payload uint32 `json:"payload"`
}

// SessionStatusResponse reports a session's current inspectable state.
type SessionStatusResponse struct {
	SessionID string   `json:"sessionId"`
	PC        uint32   `json:"pc"`
	XRegs     []uint32 `json:"xregs"`
}

// ErrorResponse is the body of any non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}
