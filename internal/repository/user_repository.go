package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/construlink/contracts-admin/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userRow struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	DisplayName  string
	CPF          string
	Phone        string
	Role         string
	CreatedAt    time.Time
	LastLoginAt  time.Time
}

func (row userRow) decode() (model.User, string) {
	role := model.UserRole(row.Role)
	if !role.Valid() {
		role = model.RoleSolicitante
	}
	return model.User{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		CPF:         row.CPF,
		Phone:       row.Phone,
		Role:        role,
		CreatedAt:   row.CreatedAt,
		LastLoginAt: row.LastLoginAt,
	}, row.PasswordHash
}

const userColumns = `id, email, password_hash, display_name, cpf, phone, role, created_at, last_login_at`

func (r *UserRepository) Insert(ctx context.Context, user *model.User, passwordHash string) error {
	var row userRow
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO users (email, password_hash, display_name, cpf, phone, role)
		VALUES (?, ?, ?, ?, ?, ?::user_role)
		RETURNING `+userColumns,
		user.Email,
		passwordHash,
		user.DisplayName,
		user.CPF,
		user.Phone,
		string(user.Role),
	).Scan(&row).Error
	if err != nil {
		return err
	}

	decoded, _ := row.decode()
	*user = decoded
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, string, error) {
	var row userRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(email) = LOWER(?)
		LIMIT 1
	`, email).Scan(&row).Error
	if err != nil {
		return nil, "", err
	}
	if row.ID == uuid.Nil {
		return nil, "", gorm.ErrRecordNotFound
	}
	user, hash := row.decode()
	return &user, hash, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+userColumns+`
		FROM users
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	user, _ := row.decode()
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var rows []userRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		user, _ := row.decode()
		users = append(users, user)
	}
	return users, nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE users SET last_login_at = NOW() WHERE id = ?
	`, id).Error
}
