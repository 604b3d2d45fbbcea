package services

import (
	"testing"

	"github.com/AnubhawM/roi-calculator/web/types"

	"go.uber.org/zap"
)

func newTestSessionService(t *testing.T) *SessionService {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	ss, err := NewSessionService(16, logger)
	if err != nil {
		t.Fatalf("NewSessionService() error = %v", err)
	}
	return ss
}

func TestResolveCreatesSession(t *testing.T) {
	ss := newTestSessionService(t)

	session := ss.Resolve("", false)
	if session.ID == "" {
		t.Fatal("Resolve() returned session without id")
	}
	if session.State != types.SessionActive {
		t.Errorf("State = %v, want active", session.State)
	}
}

func TestResolveReturnsExistingSession(t *testing.T) {
	ss := newTestSessionService(t)

	first := ss.Resolve("", false)
	second := ss.Resolve(first.ID, false)
	if second.ID != first.ID {
		t.Errorf("Resolve() rotated id without new-calculation signal: %s != %s", second.ID, first.ID)
	}
}

func TestResolveUnknownIDCreatesNewSession(t *testing.T) {
	ss := newTestSessionService(t)

	session := ss.Resolve("no-such-session", false)
	if session.ID == "" || session.ID == "no-such-session" {
		t.Errorf("Resolve() should mint a fresh id for unknown sessions, got %q", session.ID)
	}
}

func TestNewCalculationRotatesSession(t *testing.T) {
	ss := newTestSessionService(t)

	first := ss.Resolve("", false)
	ss.Append(first, types.SenderUser, "what is my payback period?")

	second := ss.Resolve(first.ID, true)
	if second.ID == first.ID {
		t.Fatal("Resolve() kept the session id across a new calculation")
	}
	if second.State != types.SessionActive {
		t.Errorf("new session State = %v, want active", second.State)
	}
	if len(second.Messages) != 0 {
		t.Errorf("new session carried %d messages, want 0", len(second.Messages))
	}

	// The retired session never comes back, even without the signal.
	if first.State != types.SessionReset {
		t.Errorf("retired session State = %v, want reset", first.State)
	}
	third := ss.Resolve(first.ID, false)
	if third.ID == first.ID {
		t.Error("Resolve() revived a reset session")
	}
}

func TestAppendRecordsMessages(t *testing.T) {
	ss := newTestSessionService(t)
	session := ss.Resolve("", false)

	msg := ss.Append(session, types.SenderUser, "hello")
	if msg.ID == "" {
		t.Error("Append() returned message without id")
	}
	ss.Append(session, types.SenderAssistant, "hi there")

	if len(session.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(session.Messages))
	}
	if session.Messages[0].Sender != types.SenderUser || session.Messages[1].Sender != types.SenderAssistant {
		t.Errorf("message senders = %s, %s", session.Messages[0].Sender, session.Messages[1].Sender)
	}
}
