package auth

import (
	"sync"

	"github.com/google/uuid"
)

// Sessions maps opaque bearer tokens to user ids. It lives outside the
// core: every core operation takes the resolved principal explicitly, and
// this layer only translates a request token into that identity.
type Sessions struct {
	mu     sync.RWMutex
	tokens map[string]uint
}

// NewSessions creates an empty session table.
func NewSessions() *Sessions {
	return &Sessions{
		tokens: make(map[string]uint),
	}
}

// Create issues a fresh token for the user.
func (s *Sessions) Create(userID uint) string {
	token := uuid.New().String()
	s.mu.Lock()
	s.tokens[token] = userID
	s.mu.Unlock()
	return token
}

// Resolve returns the user id behind a token.
func (s *Sessions) Resolve(token string) (uint, bool) {
	s.mu.RLock()
	userID, ok := s.tokens[token]
	s.mu.RUnlock()
	return userID, ok
}

// Destroy invalidates a token. Unknown tokens are a no-op.
func (s *Sessions) Destroy(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}
