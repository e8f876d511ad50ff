package model

import (
	"time"

	"github.com/google/uuid"
)

type ContractStatus string

const (
	ContractStatusActive   ContractStatus = "ativo"
	ContractStatusInactive ContractStatus = "inativo"
	ContractStatusPending  ContractStatus = "pendente"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractStatusActive, ContractStatusInactive, ContractStatusPending:
		return true
	}
	return false
}

type Contract struct {
	ID             uuid.UUID      `json:"id"`
	Cliente        string         `json:"cliente"`
	Obra           string         `json:"obra"`
	NumeroContrato string         `json:"numeroContrato"`
	VigenciaInicio string         `json:"vigenciaInicio"` // YYYY-MM-DD
	VigenciaFim    string         `json:"vigenciaFim"`
	Valor          float64        `json:"valor"`
	Status         ContractStatus `json:"status"`
	CreatedBy      string         `json:"createdBy"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	// HasPDF reflects the local attachment store only. The file itself is
	// never part of the persisted row.
	HasPDF bool `json:"hasPdf"`
}

// ContractDraft is the form-shaped input: valor arrives as the masked
// BRL string the console displays ("R$ 1.234,56").
type ContractDraft struct {
	Cliente        string `json:"cliente"`
	Obra           string `json:"obra"`
	NumeroContrato string `json:"numeroContrato"`
	VigenciaInicio string `json:"vigenciaInicio"`
	VigenciaFim    string `json:"vigenciaFim"`
	Valor          string `json:"valor"`
	Status         string `json:"status"`
}

// ContractUpdate carries a partial update; nil fields are left untouched.
type ContractUpdate struct {
	Cliente        *string  `json:"cliente"`
	Obra           *string  `json:"obra"`
	NumeroContrato *string  `json:"numeroContrato"`
	VigenciaInicio *string  `json:"vigenciaInicio"`
	VigenciaFim    *string  `json:"vigenciaFim"`
	Valor          *float64 `json:"valor"`
	Status         *string  `json:"status"`
}
