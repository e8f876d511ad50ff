package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/construlink/contracts-admin/internal/model"
)

type PriceRepository struct {
	db *gorm.DB
}

func NewPriceRepository(db *gorm.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

type priceRow struct {
	ID            uuid.UUID
	Codigo        string
	Tipo          string
	Espessura     string
	Estrutura     string
	ChapaFace1    string
	ChapaFace2    string
	Isolamento    string
	Quantidade    float64
	Unidade       string
	UnitMaterial  float64
	UnitMaoObra   float64
	TotalMaterial float64
	TotalMaoObra  float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (row priceRow) decode() model.UnitPrice {
	unit := model.PriceUnit(row.Unidade)
	if !unit.Valid() {
		unit = model.PriceUnitM2
	}
	return model.UnitPrice{
		ID:            row.ID,
		Codigo:        row.Codigo,
		Tipo:          row.Tipo,
		Espessura:     row.Espessura,
		Estrutura:     row.Estrutura,
		ChapaFace1:    row.ChapaFace1,
		ChapaFace2:    row.ChapaFace2,
		Isolamento:    row.Isolamento,
		Quantidade:    row.Quantidade,
		Unidade:       unit,
		UnitMaterial:  row.UnitMaterial,
		UnitMaoObra:   row.UnitMaoObra,
		TotalMaterial: row.TotalMaterial,
		TotalMaoObra:  row.TotalMaoObra,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

const priceColumns = `id, codigo, tipo, espessura, estrutura,
	chapa_face1, chapa_face2, isolamento, quantidade, unidade,
	unit_material, unit_mao_obra, total_material, total_mao_obra,
	created_at, updated_at`

func (r *PriceRepository) Insert(ctx context.Context, price *model.UnitPrice) error {
	var row priceRow
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO unit_prices (codigo, tipo, espessura, estrutura, chapa_face1, chapa_face2, isolamento,
			quantidade, unidade, unit_material, unit_mao_obra, total_material, total_mao_obra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+priceColumns,
		price.Codigo,
		price.Tipo,
		price.Espessura,
		price.Estrutura,
		price.ChapaFace1,
		price.ChapaFace2,
		price.Isolamento,
		price.Quantidade,
		string(price.Unidade),
		price.UnitMaterial,
		price.UnitMaoObra,
		price.TotalMaterial,
		price.TotalMaoObra,
	).Scan(&row).Error
	if err != nil {
		return err
	}

	*price = row.decode()
	return nil
}

func (r *PriceRepository) List(ctx context.Context) ([]model.UnitPrice, error) {
	var rows []priceRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT ` + priceColumns + `
		FROM unit_prices
		ORDER BY codigo ASC, created_at DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	prices := make([]model.UnitPrice, 0, len(rows))
	for _, row := range rows {
		prices = append(prices, row.decode())
	}
	return prices, nil
}

func (r *PriceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.UnitPrice, error) {
	var row priceRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+priceColumns+`
		FROM unit_prices
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	price := row.decode()
	return &price, nil
}

// Replace overwrites every editable column; the service recomputes totals
// before calling it.
func (r *PriceRepository) Replace(ctx context.Context, price *model.UnitPrice) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE unit_prices
		SET codigo = ?, tipo = ?, espessura = ?, estrutura = ?, chapa_face1 = ?, chapa_face2 = ?,
			isolamento = ?, quantidade = ?, unidade = ?, unit_material = ?, unit_mao_obra = ?,
			total_material = ?, total_mao_obra = ?, updated_at = NOW()
		WHERE id = ?
	`,
		price.Codigo,
		price.Tipo,
		price.Espessura,
		price.Estrutura,
		price.ChapaFace1,
		price.ChapaFace2,
		price.Isolamento,
		price.Quantidade,
		string(price.Unidade),
		price.UnitMaterial,
		price.UnitMaoObra,
		price.TotalMaterial,
		price.TotalMaoObra,
		price.ID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PriceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM unit_prices WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
