package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/construlink/contracts-admin/internal/model"
	"github.com/construlink/contracts-admin/internal/watch"
)

type PriceStore interface {
	Insert(ctx context.Context, price *model.UnitPrice) error
	List(ctx context.Context) ([]model.UnitPrice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.UnitPrice, error)
	Replace(ctx context.Context, price *model.UnitPrice) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CatalogExporter interface {
	Generate(prices []model.UnitPrice) ([]byte, error)
}

type PriceService struct {
	store    PriceStore
	exporter CatalogExporter
	hub      *watch.Hub[[]model.UnitPrice]
	log      zerolog.Logger
}

func NewPriceService(store PriceStore, exporter CatalogExporter, log zerolog.Logger) *PriceService {
	return &PriceService{
		store:    store,
		exporter: exporter,
		hub:      watch.NewHub[[]model.UnitPrice](),
		log:      log,
	}
}

// Create persists a catalog entry. Totals are always recomputed from
// quantity and unit costs; client-supplied totals are ignored.
func (s *PriceService) Create(ctx context.Context, draft model.UnitPriceDraft) (*model.UnitPrice, error) {
	price, err := priceFromDraft(draft)
	if err != nil {
		return nil, err
	}

	if err := s.store.Insert(ctx, price); err != nil {
		return nil, fmt.Errorf("erro ao criar preço unitário: %w", err)
	}

	s.broadcast(ctx)
	return price, nil
}

func (s *PriceService) List(ctx context.Context) ([]model.UnitPrice, error) {
	prices, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar preços unitários: %w", err)
	}
	return prices, nil
}

func (s *PriceService) Update(ctx context.Context, id uuid.UUID, draft model.UnitPriceDraft) (*model.UnitPrice, error) {
	price, err := priceFromDraft(draft)
	if err != nil {
		return nil, err
	}
	price.ID = id

	if err := s.store.Replace(ctx, price); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("erro ao atualizar preço unitário: %w", err)
	}

	s.broadcast(ctx)
	return price, nil
}

func (s *PriceService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("erro ao deletar preço unitário: %w", err)
	}

	s.broadcast(ctx)
	return nil
}

// Watch delivers the full catalog on every change, same contract as the
// contract stream.
func (s *PriceService) Watch(ctx context.Context) (*watch.Subscription[[]model.UnitPrice], error) {
	sub := s.hub.Subscribe()
	prices, err := s.List(ctx)
	if err != nil {
		sub.Close()
		return nil, err
	}
	s.hub.Publish(prices)
	return sub, nil
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// ExportCatalog renders the whole catalog as a spreadsheet.
func (s *PriceService) ExportCatalog(ctx context.Context) (*ExportResult, error) {
	prices, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	content, err := s.exporter.Generate(prices)
	if err != nil {
		return nil, fmt.Errorf("erro ao exportar catálogo: %w", err)
	}
	return &ExportResult{
		FileName: "precos-unitarios.xlsx",
		Content:  content,
	}, nil
}

func (s *PriceService) broadcast(ctx context.Context) {
	if s.hub.SubscriberCount() == 0 {
		return
	}
	prices, err := s.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("broadcast price snapshot")
		return
	}
	s.hub.Publish(prices)
}

func priceFromDraft(draft model.UnitPriceDraft) (*model.UnitPrice, error) {
	errs := fieldErrors{}

	if strings.TrimSpace(draft.Codigo) == "" {
		errs.add("codigo", "Código é obrigatório")
	}
	if strings.TrimSpace(draft.Tipo) == "" {
		errs.add("tipo", "Tipo é obrigatório")
	}
	if draft.Quantidade < 0 {
		errs.add("quantidade", "Quantidade não pode ser negativa")
	}
	if draft.UnitMaterial < 0 {
		errs.add("unitMaterial", "Custo de material não pode ser negativo")
	}
	if draft.UnitMaoObra < 0 {
		errs.add("unitMaoObra", "Custo de mão de obra não pode ser negativo")
	}
	unit := model.PriceUnit(draft.Unidade)
	if draft.Unidade == "" {
		unit = model.PriceUnitM2
	} else if !unit.Valid() {
		errs.add("unidade", "Unidade inválida")
	}
	if err := errs.asError(); err != nil {
		return nil, err
	}

	return &model.UnitPrice{
		Codigo:       strings.TrimSpace(draft.Codigo),
		Tipo:         strings.TrimSpace(draft.Tipo),
		Espessura:    draft.Espessura,
		Estrutura:    draft.Estrutura,
		ChapaFace1:   draft.ChapaFace1,
		ChapaFace2:   draft.ChapaFace2,
		Isolamento:   draft.Isolamento,
		Quantidade:   draft.Quantidade,
		Unidade:      unit,
		UnitMaterial: draft.UnitMaterial,
		UnitMaoObra:  draft.UnitMaoObra,
		// Derived, never taken from input.
		TotalMaterial: draft.Quantidade * draft.UnitMaterial,
		TotalMaoObra:  draft.Quantidade * draft.UnitMaoObra,
	}, nil
}
