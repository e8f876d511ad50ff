package auth

import (
	"sync"
	"time"
)

// Revoker tracks signed-out token IDs until their natural expiry.
type Revoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewRevoker() *Revoker {
	return &Revoker{revoked: make(map[string]time.Time)}
}

func (r *Revoker) Revoke(tokenID string, expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune()
	r.revoked[tokenID] = expiresAt
}

func (r *Revoker) IsRevoked(tokenID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	expiry, ok := r.revoked[tokenID]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(r.revoked, tokenID)
		return false
	}
	return true
}

func (r *Revoker) prune() {
	now := time.Now()
	for id, expiry := range r.revoked {
		if now.After(expiry) {
			delete(r.revoked, id)
		}
	}
}
