package services

import (
	"encoding/json"
	"sync"
	"testing"
)

// recordingConn captures hub writes in place of a live websocket.
type recordingConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
}

func (c *recordingConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, append([]byte(nil), data...))
	return nil
}

func (c *recordingConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *recordingConn) received(t *testing.T) []AssignmentEvent {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	events := make([]AssignmentEvent, 0, len(c.messages))
	for _, msg := range c.messages {
		var ev AssignmentEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("undecodable hub message %q: %v", msg, err)
		}
		events = append(events, ev)
	}
	return events
}

func TestPublishReachesOnlyTheUsersSessions(t *testing.T) {
	hub := NewRealtimeHub()

	mine := &recordingConn{}
	other := &recordingConn{}
	hub.Subscribe(&RealtimeSession{UserID: 1, Conn: mine})
	hub.Subscribe(&RealtimeSession{UserID: 2, Conn: other})

	hub.Publish(1, AssignmentEvent{AssignmentID: 7, ClinicianID: 3, Accepted: true})

	got := mine.received(t)
	if len(got) != 1 {
		t.Fatalf("subscriber got %d events, want 1", len(got))
	}
	if got[0].AssignmentID != 7 || got[0].ClinicianID != 3 || !got[0].Accepted {
		t.Fatalf("event = %+v, want assignment 7 from clinician 3 accepted", got[0])
	}
	if n := len(other.received(t)); n != 0 {
		t.Fatalf("other user got %d events, want 0", n)
	}
}

func TestPublishFansOutToEverySessionOfAUser(t *testing.T) {
	hub := NewRealtimeHub()

	phone := &recordingConn{}
	laptop := &recordingConn{}
	hub.Subscribe(&RealtimeSession{UserID: 1, Conn: phone})
	hub.Subscribe(&RealtimeSession{UserID: 1, Conn: laptop})

	hub.Publish(1, AssignmentEvent{AssignmentID: 1})

	if len(phone.received(t)) != 1 || len(laptop.received(t)) != 1 {
		t.Fatal("event did not reach every session of the user")
	}
}

func TestUnsubscribeClosesAndStopsDelivery(t *testing.T) {
	hub := NewRealtimeHub()

	conn := &recordingConn{}
	session := &RealtimeSession{UserID: 1, Conn: conn}
	hub.Subscribe(session)
	hub.Unsubscribe(session)

	if !conn.closed {
		t.Fatal("unsubscribe did not close the connection")
	}

	hub.Publish(1, AssignmentEvent{AssignmentID: 1})
	if n := len(conn.received(t)); n != 0 {
		t.Fatalf("unsubscribed session got %d events, want 0", n)
	}

	// Repeat unsubscribe is harmless.
	hub.Unsubscribe(session)
}

func TestPublishWithoutSubscribersIsNoOp(t *testing.T) {
	hub := NewRealtimeHub()
	hub.Publish(99, AssignmentEvent{AssignmentID: 1})
}
