package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/construlink/contracts-admin/internal/auth"
	"github.com/construlink/contracts-admin/internal/format"
	"github.com/construlink/contracts-admin/internal/model"
	"github.com/construlink/contracts-admin/internal/watch"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserStore interface {
	Insert(ctx context.Context, user *model.User, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (*model.User, string, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

type AuthService struct {
	users   UserStore
	issuer  *auth.Issuer
	revoker *auth.Revoker
	hub     *watch.Hub[*model.User]
	log     zerolog.Logger
}

func NewAuthService(users UserStore, issuer *auth.Issuer, revoker *auth.Revoker, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:   users,
		issuer:  issuer,
		revoker: revoker,
		hub:     watch.NewHub[*model.User](),
		log:     log,
	}
}

type Session struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login exchanges credentials for a session token and rewrites the
// profile's last-login timestamp.
func (s *AuthService) Login(ctx context.Context, creds model.LoginCredentials) (*Session, error) {
	user, hash, err := s.users.GetByEmail(ctx, strings.TrimSpace(creds.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("erro ao fazer login: %w", err)
	}
	if !auth.CheckPassword(creds.Password, hash) {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("erro ao fazer login: %w", err)
	}
	user.LastLoginAt = time.Now()

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("erro ao fazer login: %w", err)
	}

	s.hub.Publish(user)
	return &Session{Token: token, User: user}, nil
}

// Logout revokes the presented token. The expiry recorded is an upper
// bound: no token outlives its TTL from issuance.
func (s *AuthService) Logout(tokenID string) {
	s.revoker.Revoke(tokenID, time.Now().Add(s.issuer.TTL()))
	s.hub.Publish(nil)
}

// CurrentUser loads the signed-in principal's profile. A valid token
// whose profile row has vanished yields ErrNotFound.
func (s *AuthService) CurrentUser(ctx context.Context, principal model.Principal) (*model.User, error) {
	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("erro ao buscar usuário: %w", err)
	}
	return user, nil
}

// Register creates an account on behalf of an administrator. The new
// account is signed in inside a scoped secondary session that is torn
// down on every exit path, so the admin's own session never changes.
func (s *AuthService) Register(ctx context.Context, principal model.Principal, creds model.RegisterCredentials) (*model.User, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if err := validateRegister(creds); err != nil {
		return nil, err
	}

	if _, _, err := s.users.GetByEmail(ctx, creds.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("erro ao registrar usuário: %w", err)
	}

	secondary := auth.NewSecondarySession(s.issuer, s.revoker)
	defer secondary.Close()

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("erro ao registrar usuário: %w", err)
	}

	user := model.User{
		Email:       strings.TrimSpace(creds.Email),
		DisplayName: strings.TrimSpace(creds.DisplayName),
		CPF:         format.FormatCPF(creds.CPF),
		Phone:       strings.TrimSpace(creds.Phone),
		Role:        model.UserRole(creds.Role),
	}
	if err := s.users.Insert(ctx, &user, hash); err != nil {
		return nil, fmt.Errorf("erro ao registrar usuário: %w", err)
	}

	// The provider signs the new account in on creation; that happens in
	// the secondary context and is revoked when it closes.
	if _, err := secondary.SignIn(&user); err != nil {
		s.log.Error().Err(err).Msg("secondary session sign-in")
	}

	return &user, nil
}

func (s *AuthService) ListUsers(ctx context.Context, principal model.Principal) ([]model.User, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar usuários: %w", err)
	}
	return users, nil
}

// WatchState delivers the signed-in profile on sign-in and nil on
// sign-out. The subscription must be closed by the consumer.
func (s *AuthService) WatchState() *watch.Subscription[*model.User] {
	return s.hub.Subscribe()
}

func validateRegister(creds model.RegisterCredentials) error {
	errs := fieldErrors{}

	name := strings.TrimSpace(creds.DisplayName)
	if name == "" {
		errs.add("displayName", "Nome é obrigatório")
	} else if len([]rune(name)) < 2 {
		errs.add("displayName", "Nome deve ter pelo menos 2 caracteres")
	}

	email := strings.TrimSpace(creds.Email)
	if email == "" {
		errs.add("email", "E-mail é obrigatório")
	} else if !emailPattern.MatchString(email) {
		errs.add("email", "E-mail inválido")
	}

	if creds.Password == "" {
		errs.add("password", "Senha é obrigatória")
	} else if len(creds.Password) < 6 {
		errs.add("password", "Senha deve ter pelo menos 6 caracteres")
	}

	cpfDigits := format.CPFDigits(creds.CPF)
	if strings.TrimSpace(creds.CPF) == "" {
		errs.add("cpf", "CPF é obrigatório")
	} else if len(cpfDigits) != 11 {
		errs.add("cpf", "CPF deve ter 11 dígitos")
	}

	if creds.Role == "" {
		errs.add("role", "Tipo de usuário é obrigatório")
	} else if !model.UserRole(creds.Role).Valid() {
		errs.add("role", "Tipo de usuário inválido")
	}

	return errs.asError()
}
