package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleSolicitante UserRole = "solicitante"
	RoleEngenheiro  UserRole = "engenheiro"
	RoleSuprimento  UserRole = "suprimento"
	RoleDiretor     UserRole = "diretor"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleSolicitante, RoleEngenheiro, RoleSuprimento, RoleDiretor:
		return true
	}
	return false
}

type User struct {
	ID          uuid.UUID `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CPF         string    `json:"cpf"`
	Phone       string    `json:"phone"`
	Role        UserRole  `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	LastLoginAt time.Time `json:"lastLoginAt"`
}

type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterCredentials struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	CPF         string `json:"cpf"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
}
