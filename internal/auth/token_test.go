package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/construlink/contracts-admin/internal/model"
)

func TestIssueAndParse(t *testing.T) {
	user := &model.User{
		ID:    uuid.New(),
		Email: "admin@example.com",
		Role:  model.RoleAdmin,
	}

	issuer := NewIssuer("test-secret", time.Hour)
	raw, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	principal, tokenID, err := NewParser("test-secret").Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if principal.UserID != user.ID {
		t.Fatalf("principal user id = %s, want %s", principal.UserID, user.ID)
	}
	if principal.Email != user.Email || principal.Role != model.RoleAdmin {
		t.Fatalf("principal = %+v", principal)
	}
	if tokenID == "" {
		t.Fatalf("expected token id claim")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "a@b.c", Role: model.RoleDiretor}
	raw, err := NewIssuer("secret-a", time.Hour).Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := NewParser("secret-b").Parse(raw); err == nil {
		t.Fatalf("expected parse to fail with wrong secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "a@b.c", Role: model.RoleAdmin}
	raw, err := NewIssuer("secret", -time.Minute).Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := NewParser("secret").Parse(raw); err == nil {
		t.Fatalf("expected parse to fail for expired token")
	}
}

func TestRevoker(t *testing.T) {
	r := NewRevoker()
	if r.IsRevoked("tok-1") {
		t.Fatalf("fresh revoker should report nothing revoked")
	}
	r.Revoke("tok-1", time.Now().Add(time.Hour))
	if !r.IsRevoked("tok-1") {
		t.Fatalf("tok-1 should be revoked")
	}
	r.Revoke("tok-2", time.Now().Add(-time.Hour))
	if r.IsRevoked("tok-2") {
		t.Fatalf("expired revocation should not count")
	}
}
