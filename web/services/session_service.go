package services

import (
	"sync"
	"time"

	"github.com/AnubhawM/roi-calculator/utils"
	"github.com/AnubhawM/roi-calculator/web/types"

	lru "github.com/hashicorp/golang-lru"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionService keeps chat sessions in a bounded in-memory LRU cache.
// Nothing is persisted; a session lives as long as the cache keeps it and
// evicted sessions are simply recreated with a fresh id on next use.
type SessionService struct {
	cache  *lru.Cache
	mu     sync.Mutex
	logger *zap.Logger
}

func NewSessionService(size int, logger *zap.Logger) (*SessionService, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &SessionService{cache: cache, logger: logger}, nil
}

// Resolve returns the session for the given id, applying the session state
// machine: an empty or unknown id mints a new session, and the explicit
// newCalculation signal retires the current session (Active -> Reset) and
// rotates to a fresh one. The returned session is always Active.
func (ss *SessionService) Resolve(sessionID string, newCalculation bool) *types.ChatSession {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if sessionID != "" {
		if v, ok := ss.cache.Get(sessionID); ok {
			session := v.(*types.ChatSession)
			if session.State == types.SessionActive && !newCalculation {
				session.LastActive = time.Now()
				return session
			}
			if session.State == types.SessionActive {
				session.State = types.SessionReset
				ss.logger.Info("Session retired by new calculation",
					zap.String("session_id", session.ID))
			}
			// Reset sessions always rotate to a fresh id.
		}
	}

	session := &types.ChatSession{
		ID:         uuid.New().String(),
		State:      types.SessionActive,
		CreatedAt:  time.Now(),
		LastActive: time.Now(),
	}
	ss.cache.Add(session.ID, session)
	ss.logger.Info("Created chat session", zap.String("session_id", session.ID))
	return session
}

// Append records an immutable message on the session and returns it.
func (ss *SessionService) Append(session *types.ChatSession, sender, content string) types.Message {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	msg := types.Message{
		ID:        utils.GenerateMessageID(),
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now(),
	}
	session.Messages = append(session.Messages, msg)
	session.LastActive = msg.Timestamp
	return msg
}

// Get looks up a session without creating one.
func (ss *SessionService) Get(sessionID string) (*types.ChatSession, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	v, ok := ss.cache.Get(sessionID)
	if !ok {
		return nil, false
	}
	return v.(*types.ChatSession), true
}
