package auth

import (
	"sync"
	"time"

	"github.com/construlink/contracts-admin/internal/model"
)

// SecondarySession is an isolated credential context used when an
// administrator creates another account. Creating a user signs that user
// in within this context, never in the caller's own session, and Close
// revokes whatever was signed in here. Close runs on success and failure
// alike, so no secondary session outlives the registration call.
type SecondarySession struct {
	issuer  *Issuer
	revoker *Revoker

	mu        sync.Mutex
	tokenID   string
	expiresAt time.Time
	closed    bool
}

func NewSecondarySession(issuer *Issuer, revoker *Revoker) *SecondarySession {
	return &SecondarySession{issuer: issuer, revoker: revoker}
}

// SignIn issues a session token for the freshly created user inside this
// isolated context.
func (s *SecondarySession) SignIn(user *model.User) (string, error) {
	raw, claims, err := s.issuer.IssueToken(user)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.tokenID = claims.ID
	s.expiresAt = claims.ExpiresAt.Time
	s.mu.Unlock()

	return raw, nil
}

// Close signs the secondary session out. Idempotent.
func (s *SecondarySession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.tokenID != "" {
		s.revoker.Revoke(s.tokenID, s.expiresAt)
	}
}
