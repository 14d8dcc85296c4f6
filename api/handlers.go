package api

import (
	"encoding/json"
	"net/http"

	"github.com/relaysilicon/rv32core/trace"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	session, err := s.sessions.CreateSession(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, CreateSessionResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
		PC:        uint32(session.Model.PC()),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	xregs := make([]uint32, 32)
	for i := range xregs {
		xregs[i] = uint32(session.Model.XReg(i))
	}

	writeJSON(w, http.StatusOK, SessionStatusResponse{
		SessionID: session.ID,
		PC:        uint32(session.Model.PC()),
		XRegs:     xregs,
	})
}

func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.sessions.DestroySession(sessionID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStep advances the session by one instruction and returns the
// resulting trace.Buffer as JSON, broadcasting it to any subscribed
// WebSocket clients along the way.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	stepResult := session.Step()
	tr := session.Model.Trace()

	resp := StepResponse{
		Status:   statusName(tr.StepStatus),
		PC:       tr.PC,
		Inst:     tr.Inst,
		XRegMask: tr.XRegMask,
		FRegMask: tr.FRegMask,
	}
	if tr.CSRCount > 0 {
		resp.CSRs = append(resp.CSRs, tr.CSRIndices[:tr.CSRCount]...)
	}
	if stepResult.Trap != nil {
		resp.Trap = &TrapInfo{Cause: uint32(stepResult.Trap.Cause), Payload: stepResult.Trap.Payload}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastTrace(sessionID, map[string]interface{}{
			"pc":       tr.PC,
			"inst":     tr.Inst,
			"status":   resp.Status,
			"xRegMask": tr.XRegMask,
			"fRegMask": tr.FRegMask,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func statusName(s trace.StepStatus) string {
	if s == trace.StepFetchException {
		return "trap"
	}
	return "commit"
}
