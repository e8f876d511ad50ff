package service

// In-memory store implementations backing the service tests.

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/construlink/contracts-admin/internal/attach"
	"github.com/construlink/contracts-admin/internal/model"
)

type memContractStore struct {
	mu        sync.Mutex
	rows     map[uuid.UUID]model.Contract
	clock    time.Time
	inserts  int
	deletes  int
	failNext error
}

func newMemContractStore() *memContractStore {
	return &memContractStore{
		rows:  make(map[uuid.UUID]model.Contract),
		clock: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memContractStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memContractStore) Insert(_ context.Context, contract *model.Contract) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.inserts++
	contract.ID = uuid.New()
	now := m.tick()
	contract.CreatedAt = now
	contract.UpdatedAt = now
	m.rows[contract.ID] = *contract
	return nil
}

func (m *memContractStore) List(_ context.Context) ([]model.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Contract, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memContractStore) GetByID(_ context.Context, id uuid.UUID) (*model.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (m *memContractStore) Update(_ context.Context, id uuid.UUID, update model.ContractUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if update.Cliente != nil {
		row.Cliente = *update.Cliente
	}
	if update.Obra != nil {
		row.Obra = *update.Obra
	}
	if update.NumeroContrato != nil {
		row.NumeroContrato = *update.NumeroContrato
	}
	if update.VigenciaInicio != nil {
		row.VigenciaInicio = *update.VigenciaInicio
	}
	if update.VigenciaFim != nil {
		row.VigenciaFim = *update.VigenciaFim
	}
	if update.Valor != nil {
		row.Valor = *update.Valor
	}
	if update.Status != nil {
		row.Status = model.ContractStatus(*update.Status)
	}
	row.UpdatedAt = m.tick()
	m.rows[id] = row
	return nil
}

func (m *memContractStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.deletes++
	delete(m.rows, id)
	return nil
}

type memAttachStore struct {
	mu    sync.Mutex
	files map[uuid.UUID][]byte
}

func newMemAttachStore() *memAttachStore {
	return &memAttachStore{files: make(map[uuid.UUID][]byte)}
}

func (m *memAttachStore) Save(contractID uuid.UUID, r io.Reader) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return attach.ErrNotPDF
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[contractID] = content
	return nil
}

func (m *memAttachStore) Open(contractID uuid.UUID) (io.ReadCloser, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[contractID]
	if !ok {
		return nil, 0, attach.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(content)), int64(len(content)), nil
}

func (m *memAttachStore) Exists(contractID uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[contractID]
	return ok
}

func (m *memAttachStore) Remove(contractID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, contractID)
	return nil
}

type memPriceStore struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]model.UnitPrice
	clock time.Time
}

func newMemPriceStore() *memPriceStore {
	return &memPriceStore{
		rows:  make(map[uuid.UUID]model.UnitPrice),
		clock: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memPriceStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memPriceStore) Insert(_ context.Context, price *model.UnitPrice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	price.ID = uuid.New()
	now := m.tick()
	price.CreatedAt = now
	price.UpdatedAt = now
	m.rows[price.ID] = *price
	return nil
}

func (m *memPriceStore) List(_ context.Context) ([]model.UnitPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.UnitPrice, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

func (m *memPriceStore) GetByID(_ context.Context, id uuid.UUID) (*model.UnitPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (m *memPriceStore) Replace(_ context.Context, price *model.UnitPrice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.rows[price.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	price.CreatedAt = existing.CreatedAt
	price.UpdatedAt = m.tick()
	m.rows[price.ID] = *price
	return nil
}

func (m *memPriceStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.rows, id)
	return nil
}

type memUser struct {
	user model.User
	hash string
}

type memUserStore struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]memUser
	clock time.Time
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		rows:  make(map[uuid.UUID]memUser),
		clock: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memUserStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memUserStore) Insert(_ context.Context, user *model.User, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = uuid.New()
	now := m.tick()
	user.CreatedAt = now
	user.LastLoginAt = now
	m.rows[user.ID] = memUser{user: *user, hash: passwordHash}
	return nil
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.user.Email == email {
			user := row.user
			return &user, row.hash, nil
		}
	}
	return nil, "", gorm.ErrRecordNotFound
}

func (m *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	user := row.user
	return &user, nil
}

func (m *memUserStore) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row.user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memUserStore) TouchLastLogin(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.user.LastLoginAt = m.tick()
	m.rows[id] = row
	return nil
}
