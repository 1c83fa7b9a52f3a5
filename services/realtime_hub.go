package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// AssignmentEvent is pushed over the realtime channel when a clinician
// responds to an assignment request.
type AssignmentEvent struct {
	AssignmentID uint `json:"assignment_id"`
	ClinicianID  uint `json:"clinician_id"`
	Accepted     bool `json:"accepted"`
}

// realtimeConn is the slice of *websocket.Conn the hub writes to.
type realtimeConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// RealtimeSession is one subscribed connection for one user. A user may hold
// several sessions, one per device.
type RealtimeSession struct {
	UserID uint
	Conn   realtimeConn
}

// RealtimeHub fans domain events out to every open session of a user.
// Publishing to a user with nothing connected is a no-op.
type RealtimeHub struct {
	mu       sync.RWMutex
	sessions map[uint]map[*RealtimeSession]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{sessions: make(map[uint]map[*RealtimeSession]struct{})}
}

func (h *RealtimeHub) Subscribe(s *RealtimeSession) {
	h.mu.Lock()
	if h.sessions[s.UserID] == nil {
		h.sessions[s.UserID] = make(map[*RealtimeSession]struct{})
	}
	h.sessions[s.UserID][s] = struct{}{}
	h.mu.Unlock()
}

// Unsubscribe drops the session and closes its connection. Safe to call
// more than once.
func (h *RealtimeHub) Unsubscribe(s *RealtimeSession) {
	h.mu.Lock()
	if set := h.sessions[s.UserID]; set != nil {
		delete(set, s)
		if len(set) == 0 {
			delete(h.sessions, s.UserID)
		}
	}
	h.mu.Unlock()
	_ = s.Conn.Close()
}

// Publish sends the event to every session of the user. Write failures are
// ignored here; the session's read loop notices the dead connection and
// unsubscribes it.
func (h *RealtimeHub) Publish(userID uint, event any) {
	msg, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.sessions[userID] {
		_ = s.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
