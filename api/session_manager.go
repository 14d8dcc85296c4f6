package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/relaysilicon/rv32core/memory"
	"github.com/relaysilicon/rv32core/model"
)

var (
	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionAlreadyExists is returned when trying to create a session with an existing ID.
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Session is one active simulator instance: a Model paired with the
// memory.Memory backing it, guarded by mu so concurrent HTTP requests for
// the same session serialize their steps rather than racing the one
// goroutine-at-a-time Model contract (SPEC_FULL.md §12).
type Session struct {
	ID        string
	Model     *model.Model
	Memory    *memory.Memory
	CreatedAt time.Time

	mu sync.Mutex
}

// Step advances the session by one instruction under its lock.
func (s *Session) Step() model.StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Model.Step(s.Memory)
}

// SessionManager manages the set of live sessions for one API server.
type SessionManager struct {
	sessions    map[string]*Session
	broadcaster *Broadcaster
	mu          sync.RWMutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager(broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
	}
}

// CreateSession builds a fresh Model + memory.Memory pair, optionally loads
// req.Image at req.LoadAddr, resets to req.ResetVector, and registers the
// session under a new random ID.
func (sm *SessionManager) CreateSession(req CreateSessionRequest) (*Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	mem := memory.New()
	loadAddr := req.LoadAddr
	if loadAddr == 0 {
		loadAddr = memory.CodeSegmentStart
	}
	if len(req.Image) > 0 {
		if err := mem.LoadBytes(loadAddr, req.Image); err != nil {
			return nil, err
		}
	}

	m := model.New(model.DefaultConfig())
	m.Reset(req.ResetVector)

	session := &Session{
		ID:        sessionID,
		Model:     m,
		Memory:    mem,
		CreatedAt: time.Now(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; exists {
		return nil, ErrSessionAlreadyExists
	}
	sm.sessions[sessionID] = session
	return session, nil
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(sessionID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// DestroySession removes a session by ID.
func (sm *SessionManager) DestroySession(sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}
	delete(sm.sessions, sessionID)
	if sm.broadcaster != nil {
		sm.broadcaster.BroadcastExecutionEvent(sessionID, "destroyed", nil)
	}
	return nil
}

// ListSessions returns every live session ID.
func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

func generateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
