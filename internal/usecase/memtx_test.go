package usecase_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
)

// =====================
// インメモリのトランザクション付きストア。
// WithinTxが全体をロックし、fnがエラーを返したらスナップショットへ巻き戻す。
// DBのrow lock + rollbackと同じ見え方をテストで再現する。
// =====================

type memStore struct {
	mu          sync.Mutex
	products    map[string]*model.Product
	orders      []model.Order
	adjustments []model.StockAdjustment

	//減算が試みられた順の記録（ロック順の検証用）。ロールバックでも消さない
	decrements []string
}

func newMemStore(products ...model.Product) *memStore {
	s := &memStore{products: map[string]*model.Product{}}
	for _, p := range products {
		cp := p
		s.products[p.ID] = &cp
	}
	return s
}

// TransactionManager
func (s *memStore) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//ロールバック用スナップショット
	snap := make(map[string]model.Product, len(s.products))
	for id, p := range s.products {
		snap[id] = *p
	}
	nOrders := len(s.orders)
	nAdj := len(s.adjustments)

	if err := fn(memTxRepos{s: s}); err != nil {
		restored := make(map[string]*model.Product, len(snap))
		for id, p := range snap {
			cp := p
			restored[id] = &cp
		}
		s.products = restored
		s.orders = s.orders[:nOrders]
		s.adjustments = s.adjustments[:nAdj]
		return err
	}
	return nil
}

func (s *memStore) stock(t *testing.T, id string) int64 {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		t.Fatalf("product %s not in store", id)
	}
	return p.Stock
}

type memTxRepos struct {
	s *memStore
}

func (r memTxRepos) Products() repo.ProductRepository    { return memProducts{s: r.s} }
func (r memTxRepos) Inventory() repo.InventoryRepository { return memInventory{s: r.s} }
func (r memTxRepos) Orders() repo.OrderRepository        { return memOrders{s: r.s} }

// ProductRepository
type memProducts struct {
	s *memStore
}

func (m memProducts) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	out := make([]model.Product, 0, len(m.s.products))
	for _, p := range m.s.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m memProducts) FindByID(ctx context.Context, id string) (model.Product, error) {
	p, ok := m.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return *p, nil
}

func (m memProducts) Create(ctx context.Context, p model.Product) (model.Product, error) {
	cp := p
	m.s.products[p.ID] = &cp
	return p, nil
}

func (m memProducts) Update(ctx context.Context, id string, patch repo.ProductPatch) error {
	p, ok := m.s.products[id]
	if !ok {
		return repo.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	return nil
}

func (m memProducts) Delete(ctx context.Context, id string) error {
	if _, ok := m.s.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.s.products, id)
	return nil
}

// InventoryRepository
type memInventory struct {
	s *memStore
}

func (m memInventory) DecreaseStockIfEnough(ctx context.Context, productID string, qty int64) (bool, error) {
	m.s.decrements = append(m.s.decrements, productID)
	p, ok := m.s.products[productID]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	return true, nil
}

func (m memInventory) IncreaseStock(ctx context.Context, productID string, qty int64) error {
	p, ok := m.s.products[productID]
	if !ok {
		return repo.ErrNotFound
	}
	p.Stock += qty
	return nil
}

func (m memInventory) CreateAdjustment(ctx context.Context, adj model.StockAdjustment) error {
	m.s.adjustments = append(m.s.adjustments, adj)
	return nil
}

// OrderRepository
type memOrders struct {
	s *memStore
}

func (m memOrders) Create(ctx context.Context, order *model.Order) error {
	m.s.orders = append(m.s.orders, *order)
	return nil
}

func (m memOrders) List(ctx context.Context) ([]model.Order, error) {
	//新しい順（appendの逆順）
	out := make([]model.Order, 0, len(m.s.orders))
	for i := len(m.s.orders) - 1; i >= 0; i-- {
		out = append(out, m.s.orders[i])
	}
	return out, nil
}

// =====================
// 共通アサーション
// =====================

func assertHTTPError(t *testing.T, err error, status int, message string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	assert.Equal(t, status, he.Status)
	assert.Equal(t, message, he.Message)
}
