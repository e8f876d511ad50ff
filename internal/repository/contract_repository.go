package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/construlink/contracts-admin/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// contractRow is the raw persisted shape. Decoding to model.Contract is an
// explicit step so malformed rows surface here, not as silent casts.
type contractRow struct {
	ID             uuid.UUID
	Cliente        string
	Obra           string
	NumeroContrato string
	VigenciaInicio time.Time
	VigenciaFim    time.Time
	Valor          float64
	Status         string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (row contractRow) decode() model.Contract {
	status := model.ContractStatus(row.Status)
	if !status.Valid() {
		// Rows written before the status column existed read back as pending.
		status = model.ContractStatusPending
	}
	return model.Contract{
		ID:             row.ID,
		Cliente:        row.Cliente,
		Obra:           row.Obra,
		NumeroContrato: row.NumeroContrato,
		VigenciaInicio: row.VigenciaInicio.Format("2006-01-02"),
		VigenciaFim:    row.VigenciaFim.Format("2006-01-02"),
		Valor:          row.Valor,
		Status:         status,
		CreatedBy:      row.CreatedBy,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func (r *ContractRepository) Insert(ctx context.Context, contract *model.Contract) error {
	var row contractRow
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO contracts (cliente, obra, numero_contrato, vigencia_inicio, vigencia_fim, valor, status, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?::contract_status, ?)
		RETURNING id, cliente, obra, numero_contrato, vigencia_inicio, vigencia_fim, valor, status, created_by, created_at, updated_at
	`,
		contract.Cliente,
		contract.Obra,
		contract.NumeroContrato,
		contract.VigenciaInicio,
		contract.VigenciaFim,
		contract.Valor,
		string(contract.Status),
		contract.CreatedBy,
	).Scan(&row).Error
	if err != nil {
		return err
	}

	*contract = row.decode()
	return nil
}

func (r *ContractRepository) List(ctx context.Context) ([]model.Contract, error) {
	var rows []contractRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, cliente, obra, numero_contrato, vigencia_inicio, vigencia_fim, valor, status, created_by, created_at, updated_at
		FROM contracts
		ORDER BY created_at DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	contracts := make([]model.Contract, 0, len(rows))
	for _, row := range rows {
		contracts = append(contracts, row.decode())
	}
	return contracts, nil
}

func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var row contractRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, cliente, obra, numero_contrato, vigencia_inicio, vigencia_fim, valor, status, created_by, created_at, updated_at
		FROM contracts
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	contract := row.decode()
	return &contract, nil
}

// Update applies a partial field set plus a refreshed updated_at.
func (r *ContractRepository) Update(ctx context.Context, id uuid.UUID, update model.ContractUpdate) error {
	sets := []string{"updated_at = NOW()"}
	var args []interface{}

	appendSet := func(column, cast string, value interface{}) {
		placeholder := "?"
		if cast != "" {
			placeholder = "?::" + cast
		}
		sets = append(sets, fmt.Sprintf("%s = %s", column, placeholder))
		args = append(args, value)
	}

	if update.Cliente != nil {
		appendSet("cliente", "", *update.Cliente)
	}
	if update.Obra != nil {
		appendSet("obra", "", *update.Obra)
	}
	if update.NumeroContrato != nil {
		appendSet("numero_contrato", "", *update.NumeroContrato)
	}
	if update.VigenciaInicio != nil {
		appendSet("vigencia_inicio", "date", *update.VigenciaInicio)
	}
	if update.VigenciaFim != nil {
		appendSet("vigencia_fim", "date", *update.VigenciaFim)
	}
	if update.Valor != nil {
		appendSet("valor", "", *update.Valor)
	}
	if update.Status != nil {
		appendSet("status", "contract_status", *update.Status)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE contracts SET %s WHERE id = ?", strings.Join(sets, ", "))

	result := r.db.WithContext(ctx).Exec(query, args...)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM contracts WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
