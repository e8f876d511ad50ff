package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/construlink/contracts-admin/internal/format"
	"github.com/construlink/contracts-admin/internal/model"
	"github.com/construlink/contracts-admin/internal/watch"
)

type ContractStore interface {
	Insert(ctx context.Context, contract *model.Contract) error
	List(ctx context.Context) ([]model.Contract, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	Update(ctx context.Context, id uuid.UUID, update model.ContractUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AttachmentStore interface {
	Save(contractID uuid.UUID, r io.Reader) error
	Open(contractID uuid.UUID) (io.ReadCloser, int64, error)
	Exists(contractID uuid.UUID) bool
	Remove(contractID uuid.UUID) error
}

// SheetGenerator renders a contract summary sheet for download.
type SheetGenerator interface {
	Generate(contract model.Contract) ([]byte, error)
}

type ContractService struct {
	store  ContractStore
	attach AttachmentStore
	sheets SheetGenerator
	hub    *watch.Hub[[]model.Contract]
	log    zerolog.Logger
}

func NewContractService(store ContractStore, attach AttachmentStore, sheets SheetGenerator, log zerolog.Logger) *ContractService {
	return &ContractService{
		store:  store,
		attach: attach,
		sheets: sheets,
		hub:    watch.NewHub[[]model.Contract](),
		log:    log,
	}
}

// Create validates the form-shaped draft, unmasks the currency value and
// persists the row. The PDF goes to the local attachment store only; the
// persisted row never carries a file payload.
func (s *ContractService) Create(ctx context.Context, draft model.ContractDraft, principal model.Principal, pdf io.Reader) (*model.Contract, error) {
	if err := validateContractDraft(draft, pdf != nil); err != nil {
		return nil, err
	}

	status := model.ContractStatus(draft.Status)
	if draft.Status == "" {
		status = model.ContractStatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status inválido", ErrInvalidInput)
	}

	contract := model.Contract{
		Cliente:        strings.TrimSpace(draft.Cliente),
		Obra:           strings.TrimSpace(draft.Obra),
		NumeroContrato: strings.TrimSpace(draft.NumeroContrato),
		VigenciaInicio: draft.VigenciaInicio,
		VigenciaFim:    draft.VigenciaFim,
		Valor:          format.ParseCurrency(draft.Valor),
		Status:         status,
		CreatedBy:      principal.UserID.String(),
	}

	if err := s.store.Insert(ctx, &contract); err != nil {
		return nil, fmt.Errorf("erro ao criar contrato: %w", err)
	}

	if err := s.attach.Save(contract.ID, pdf); err != nil {
		// The row must not survive without its required attachment.
		if delErr := s.store.Delete(ctx, contract.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("contract_id", contract.ID.String()).Msg("rollback after failed attachment")
		}
		return nil, fmt.Errorf("erro ao criar contrato: %w", err)
	}
	contract.HasPDF = true

	s.broadcast(ctx)
	return &contract, nil
}

func (s *ContractService) List(ctx context.Context) ([]model.Contract, error) {
	contracts, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar contratos: %w", err)
	}
	for i := range contracts {
		contracts[i].HasPDF = s.attach.Exists(contracts[i].ID)
	}
	return contracts, nil
}

func (s *ContractService) GetByID(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	contract, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("erro ao buscar contrato: %w", err)
	}
	contract.HasPDF = s.attach.Exists(contract.ID)
	return contract, nil
}

// Update applies a partial field set. Beyond enum and date decoding it
// performs no re-validation, matching the one-shot validation done at
// creation time.
func (s *ContractService) Update(ctx context.Context, id uuid.UUID, update model.ContractUpdate) error {
	if update.Status != nil && !model.ContractStatus(*update.Status).Valid() {
		return fmt.Errorf("%w: status inválido", ErrInvalidInput)
	}
	for _, date := range []*string{update.VigenciaInicio, update.VigenciaFim} {
		if date == nil {
			continue
		}
		if _, err := format.ParseDate(*date); err != nil {
			return fmt.Errorf("%w: data inválida", ErrInvalidInput)
		}
	}

	if err := s.store.Update(ctx, id, update); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("erro ao atualizar contrato: %w", err)
	}

	s.broadcast(ctx)
	return nil
}

func (s *ContractService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("erro ao deletar contrato: %w", err)
	}
	if err := s.attach.Remove(id); err != nil {
		s.log.Error().Err(err).Str("contract_id", id.String()).Msg("remove attachment")
	}

	s.broadcast(ctx)
	return nil
}

// OpenPDF hands out the locally held attachment for view/download.
func (s *ContractService) OpenPDF(ctx context.Context, id uuid.UUID) (io.ReadCloser, int64, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, 0, err
	}
	rc, size, err := s.attach.Open(id)
	if err != nil {
		return nil, 0, ErrNotFound
	}
	return rc, size, nil
}

// AttachPDF replaces the contract's local attachment.
func (s *ContractService) AttachPDF(ctx context.Context, id uuid.UUID, pdf io.Reader) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.attach.Save(id, pdf); err != nil {
		return fmt.Errorf("erro ao anexar pdf: %w", err)
	}
	s.broadcast(ctx)
	return nil
}

// ExportSheet renders the generated summary PDF for one contract.
func (s *ContractService) ExportSheet(ctx context.Context, id uuid.UUID) (*ExportResult, error) {
	contract, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := s.sheets.Generate(*contract)
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar ficha do contrato: %w", err)
	}
	return &ExportResult{
		FileName: fmt.Sprintf("contrato-%s.pdf", sanitizeFileName(contract.NumeroContrato)),
		Content:  content,
	}, nil
}

// Watch returns a live subscription that delivers the full ordered
// contract set on every change. Consumers must treat each snapshot as
// authoritative and must Close the subscription on teardown.
func (s *ContractService) Watch(ctx context.Context) (*watch.Subscription[[]model.Contract], error) {
	sub := s.hub.Subscribe()
	contracts, err := s.List(ctx)
	if err != nil {
		sub.Close()
		return nil, err
	}
	s.hub.Publish(contracts)
	return sub, nil
}

func (s *ContractService) broadcast(ctx context.Context) {
	if s.hub.SubscriberCount() == 0 {
		return
	}
	contracts, err := s.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("broadcast contract snapshot")
		return
	}
	s.hub.Publish(contracts)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}

func validateContractDraft(draft model.ContractDraft, hasPDF bool) error {
	errs := fieldErrors{}

	if strings.TrimSpace(draft.Cliente) == "" {
		errs.add("cliente", "Cliente é obrigatório")
	}
	if strings.TrimSpace(draft.Obra) == "" {
		errs.add("obra", "Obra é obrigatória")
	}
	if strings.TrimSpace(draft.NumeroContrato) == "" {
		errs.add("numeroContrato", "Número do contrato é obrigatório")
	}
	if draft.VigenciaInicio == "" {
		errs.add("vigenciaInicio", "Data de início é obrigatória")
	}
	if draft.VigenciaFim == "" {
		errs.add("vigenciaFim", "Data de fim é obrigatória")
	}
	if draft.VigenciaInicio != "" && draft.VigenciaFim != "" {
		inicio, errInicio := format.ParseDate(draft.VigenciaInicio)
		fim, errFim := format.ParseDate(draft.VigenciaFim)
		switch {
		case errInicio != nil:
			errs.add("vigenciaInicio", "Data de início inválida")
		case errFim != nil:
			errs.add("vigenciaFim", "Data de fim inválida")
		case !fim.After(inicio):
			errs.add("vigenciaFim", "Data de fim deve ser posterior à data de início")
		}
	}
	if strings.TrimSpace(draft.Valor) == "" {
		errs.add("valor", "Valor é obrigatório")
	} else if format.ParseCurrency(draft.Valor) <= 0 {
		errs.add("valor", "Valor deve ser maior que zero")
	}
	if !hasPDF {
		errs.add("pdfFile", "Upload do PDF é obrigatório")
	}

	return errs.asError()
}
