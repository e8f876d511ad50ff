package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/construlink/contracts-admin/internal/model"
)

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs access tokens for authenticated sessions.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

func (i *Issuer) Issue(user *model.User) (string, error) {
	raw, _, err := i.IssueToken(user)
	return raw, err
}

// IssueToken also returns the claims so callers can track the token ID
// for later revocation.
func (i *Issuer) IssueToken(user *model.User) (string, Claims, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString(i.secret)
	if err != nil {
		return "", Claims{}, err
	}
	return raw, claims, nil
}

// TTL reports the configured access-token lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Parser validates access tokens and extracts the principal.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

// Parse returns the principal plus the token ID used for revocation.
func (p *Parser) Parse(raw string) (model.Principal, string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, "", err
	}
	if !token.Valid {
		return model.Principal{}, "", fmt.Errorf("invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Principal{}, "", fmt.Errorf("invalid subject: %w", err)
	}
	role := model.UserRole(claims.Role)
	if !role.Valid() {
		return model.Principal{}, "", fmt.Errorf("invalid role claim")
	}

	return model.Principal{
		UserID: userID,
		Email:  claims.Email,
		Role:   role,
	}, claims.ID, nil
}
