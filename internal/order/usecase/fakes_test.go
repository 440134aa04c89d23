package usecase

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/danukay/stocktrack-service/internal/model"
	orderdto "github.com/danukay/stocktrack-service/internal/order/dto"
	productdto "github.com/danukay/stocktrack-service/internal/product/dto"
)

// fakeStore is the in-memory backing state shared by the fake
// repositories. The fake transaction manager snapshots and restores it
// so rollback behavior can be asserted without a database.
type fakeStore struct {
	products  map[string]*model.Product
	orders    map[string]*model.Order
	items     map[string][]model.OrderItem
	movements []model.StockMovement
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[string]*model.Product{},
		orders:   map[string]*model.Order{},
		items:    map[string][]model.OrderItem{},
	}
}

func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for k, v := range s.products {
		p := *v
		if v.MinStock != nil {
			ms := *v.MinStock
			p.MinStock = &ms
		}
		c.products[k] = &p
	}
	for k, v := range s.orders {
		o := *v
		c.orders[k] = &o
	}
	for k, v := range s.items {
		c.items[k] = append([]model.OrderItem(nil), v...)
	}
	c.movements = append([]model.StockMovement(nil), s.movements...)
	return c
}

// fakeTxManager snapshots the store before running fn and restores the
// snapshot when fn fails, mirroring a rolled-back transaction.
type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) WithTransaction(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	snap := m.store.clone()
	if err := fn(nil); err != nil {
		*m.store = *snap
		return err
	}
	return nil
}

type fakeProductRepo struct {
	store *fakeStore
}

func (r *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *model.Product) error {
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, _, id string) error {
	delete(r.store.products, id)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, ownerID, id string) (*model.Product, error) {
	p, ok := r.store.products[id]
	if !ok || p.OwnerID != ownerID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByIDTx(ctx context.Context, _ *sqlx.Tx, ownerID, id string) (*model.Product, error) {
	return r.GetByID(ctx, ownerID, id)
}

func (r *fakeProductRepo) FindAll(_ context.Context, _ *productdto.ProductFilters) ([]model.Product, int, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) FindLowStock(_ context.Context, _ string, _, _ int) ([]model.Product, int, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) IsSKUUnique(_ context.Context, ownerID, sku, excludeID string) (bool, error) {
	for _, p := range r.store.products {
		if p.OwnerID == ownerID && p.SKU == sku && p.ID != excludeID {
			return false, nil
		}
	}
	return true, nil
}

func (r *fakeProductRepo) ApplyDelta(_ context.Context, _ *sqlx.Tx, ownerID, productID string, delta int) (*model.Product, error) {
	p, ok := r.store.products[productID]
	if !ok || p.OwnerID != ownerID {
		return nil, nil
	}
	p.Quantity += delta
	p.Status = model.ClassifyStockStatus(p.Quantity, p.MinStock)
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) LogMovement(_ context.Context, _ *sqlx.Tx, m *model.StockMovement) error {
	r.store.movements = append(r.store.movements, *m)
	return nil
}

func (r *fakeProductRepo) ListMovements(_ context.Context, _ *productdto.MovementFilters) ([]model.StockMovement, int, error) {
	return r.store.movements, len(r.store.movements), nil
}

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) CreateTx(_ context.Context, _ *sqlx.Tx, o *model.Order) error {
	cp := *o
	cp.Items = nil
	r.store.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) CreateItemsTx(_ context.Context, _ *sqlx.Tx, items []model.OrderItem) error {
	for _, it := range items {
		r.store.items[it.OrderID] = append(r.store.items[it.OrderID], it)
	}
	return nil
}

func (r *fakeOrderRepo) UpdateTx(_ context.Context, _ *sqlx.Tx, o *model.Order) error {
	cp := *o
	cp.Items = nil
	r.store.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) DeleteTx(_ context.Context, _ *sqlx.Tx, _, id string) error {
	delete(r.store.orders, id)
	delete(r.store.items, id)
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, ownerID, id string) (*model.Order, error) {
	o, ok := r.store.orders[id]
	if !ok || o.OwnerID != ownerID {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetByIDTx(ctx context.Context, _ *sqlx.Tx, ownerID, id string) (*model.Order, error) {
	return r.GetByID(ctx, ownerID, id)
}

func (r *fakeOrderRepo) GetItems(_ context.Context, orderID string) ([]model.OrderItem, error) {
	return append([]model.OrderItem(nil), r.store.items[orderID]...), nil
}

func (r *fakeOrderRepo) GetItemsTx(ctx context.Context, _ *sqlx.Tx, orderID string) ([]model.OrderItem, error) {
	return r.GetItems(ctx, orderID)
}

func (r *fakeOrderRepo) FindAll(_ context.Context, _ *orderdto.OrderFilters) ([]model.Order, int, error) {
	var out []model.Order
	for _, o := range r.store.orders {
		out = append(out, *o)
	}
	return out, len(out), nil
}
