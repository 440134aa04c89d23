package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danukay/stocktrack-service/internal/inflow"
	"github.com/danukay/stocktrack-service/internal/inflow/dto"
	"github.com/danukay/stocktrack-service/internal/model"
	"github.com/danukay/stocktrack-service/internal/pkg/apperrors"
	"github.com/danukay/stocktrack-service/internal/pkg/logger"
	productdto "github.com/danukay/stocktrack-service/internal/product/dto"
)

const testOwner = "owner-1"

type fakeStore struct {
	products  map[string]*model.Product
	inflows   map[string]*model.MerchandiseInflow
	items     map[string][]model.MerchandiseInflowItem
	movements []model.StockMovement
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[string]*model.Product{},
		inflows:  map[string]*model.MerchandiseInflow{},
		items:    map[string][]model.MerchandiseInflowItem{},
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
	for k, v := range s.inflows {
		in := *v
		c.inflows[k] = &in
	}
	for k, v := range s.items {
		c.items[k] = append([]model.MerchandiseInflowItem(nil), v...)
	}
	c.movements = append([]model.StockMovement(nil), s.movements...)
	return c
}

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

// fakeProductRepo implements only the ledger surface the inflow usecase
// touches; everything else is inert.
type fakeProductRepo struct {
	store *fakeStore
}

func (r *fakeProductRepo) Create(_ context.Context, _ *model.Product) error { return nil }
func (r *fakeProductRepo) Update(_ context.Context, _ *model.Product) error { return nil }
func (r *fakeProductRepo) Delete(_ context.Context, _, _ string) error      { return nil }

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

func (r *fakeProductRepo) IsSKUUnique(_ context.Context, _, _, _ string) (bool, error) {
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

type fakeInflowRepo struct {
	store *fakeStore
}

func (r *fakeInflowRepo) CreateTx(_ context.Context, _ *sqlx.Tx, in *model.MerchandiseInflow) error {
	for _, existing := range r.store.inflows {
		if existing.OwnerID == in.OwnerID && existing.ReferenceNumber == in.ReferenceNumber {
			return inflow.ErrDuplicateReference
		}
	}
	cp := *in
	cp.Items = nil
	r.store.inflows[in.ID] = &cp
	return nil
}

func (r *fakeInflowRepo) CreateItemsTx(_ context.Context, _ *sqlx.Tx, items []model.MerchandiseInflowItem) error {
	for _, it := range items {
		r.store.items[it.InflowID] = append(r.store.items[it.InflowID], it)
	}
	return nil
}

func (r *fakeInflowRepo) GetByID(_ context.Context, ownerID, id string) (*model.MerchandiseInflow, error) {
	in, ok := r.store.inflows[id]
	if !ok || in.OwnerID != ownerID {
		return nil, nil
	}
	cp := *in
	return &cp, nil
}

func (r *fakeInflowRepo) GetItems(_ context.Context, inflowID string) ([]model.MerchandiseInflowItem, error) {
	return append([]model.MerchandiseInflowItem(nil), r.store.items[inflowID]...), nil
}

func (r *fakeInflowRepo) FindAll(_ context.Context, _ *dto.InflowFilters) ([]model.MerchandiseInflow, int, error) {
	var out []model.MerchandiseInflow
	for _, in := range r.store.inflows {
		out = append(out, *in)
	}
	return out, len(out), nil
}

func intPtr(i int) *int { return &i }

func newUseCase(store *fakeStore) inflow.UseCase {
	return NewInflowUseCase(
		&fakeInflowRepo{store: store},
		&fakeProductRepo{store: store},
		&fakeTxManager{store: store},
		nil,
		logger.NewNop(),
	)
}

func seedProduct(store *fakeStore, id string, qty int, minStock *int) {
	store.products[id] = &model.Product{
		BaseModel: model.BaseModel{ID: id},
		OwnerID:   testOwner,
		Name:      "Widget " + id,
		SKU:       "SKU-" + id,
		Quantity:  qty,
		MinStock:  minStock,
		Status:    model.ClassifyStockStatus(qty, minStock),
	}
}

func TestCreate_CreditsEachLine(t *testing.T) {
	store := newFakeStore()
	seedProduct(store, "p1", 0, intPtr(5))
	seedProduct(store, "p2", 8, nil)
	uc := newUseCase(store)

	in, err := uc.Create(context.Background(), &dto.CreateInflowInput{
		OwnerID:         testOwner,
		ReferenceNumber: "PO-1001",
		Supplier:        "Acme Wholesale",
		Items: []dto.InflowItemInput{
			{ProductID: "p1", QuantityReceived: 20},
			{ProductID: "p2", QuantityReceived: 5},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, in)
	require.Len(t, in.Items, 2)

	assert.Equal(t, 20, store.products["p1"].Quantity)
	assert.Equal(t, model.StockStatusOver, store.products["p1"].Status)
	assert.Equal(t, 13, store.products["p2"].Quantity)

	require.Len(t, store.movements, 2)
	assert.Equal(t, model.MovementInflow, store.movements[0].MovementType)
	assert.Equal(t, 20, store.movements[0].QuantityChange)
	assert.Equal(t, 0, store.movements[0].QuantityBefore)
	assert.Equal(t, 20, store.movements[0].QuantityAfter)
	require.NotNil(t, store.movements[0].ReferenceID)
	assert.Equal(t, in.ID, *store.movements[0].ReferenceID)

	assert.Contains(t, store.inflows, in.ID)
	assert.Len(t, store.items[in.ID], 2)
}

func TestCreate_DefaultsInflowDate(t *testing.T) {
	store := newFakeStore()
	seedProduct(store, "p1", 0, nil)
	uc := newUseCase(store)

	in, err := uc.Create(context.Background(), &dto.CreateInflowInput{
		OwnerID:         testOwner,
		ReferenceNumber: "PO-1002",
		Supplier:        "Acme Wholesale",
		Items:           []dto.InflowItemInput{{ProductID: "p1", QuantityReceived: 1}},
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), in.InflowDate, time.Minute)
}

func TestCreate_UnknownProductAbortsWholeReceipt(t *testing.T) {
	store := newFakeStore()
	seedProduct(store, "p1", 4, nil)
	uc := newUseCase(store)

	_, err := uc.Create(context.Background(), &dto.CreateInflowInput{
		OwnerID:         testOwner,
		ReferenceNumber: "PO-1003",
		Supplier:        "Acme Wholesale",
		Items: []dto.InflowItemInput{
			{ProductID: "p1", QuantityReceived: 10},
			{ProductID: "ghost", QuantityReceived: 3},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	// The first line's credit rolled back with everything else.
	assert.Equal(t, 4, store.products["p1"].Quantity)
	assert.Empty(t, store.inflows)
	assert.Empty(t, store.movements)
}

func TestCreate_DuplicateReference(t *testing.T) {
	store := newFakeStore()
	seedProduct(store, "p1", 4, nil)
	store.inflows["existing"] = &model.MerchandiseInflow{
		ID:              "existing",
		OwnerID:         testOwner,
		ReferenceNumber: "PO-1001",
		Supplier:        "Acme Wholesale",
	}
	uc := newUseCase(store)

	_, err := uc.Create(context.Background(), &dto.CreateInflowInput{
		OwnerID:         testOwner,
		ReferenceNumber: "PO-1001",
		Supplier:        "Acme Wholesale",
		Items:           []dto.InflowItemInput{{ProductID: "p1", QuantityReceived: 10}},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindDuplicateReference, apperrors.KindOf(err))
	assert.Equal(t, 4, store.products["p1"].Quantity)
	assert.Len(t, store.inflows, 1)
}

func TestCreate_RejectsBadInputBeforeTransaction(t *testing.T) {
	store := newFakeStore()
	seedProduct(store, "p1", 4, nil)
	uc := newUseCase(store)

	tests := []struct {
		name  string
		input dto.CreateInflowInput
	}{
		{"missing reference", dto.CreateInflowInput{OwnerID: testOwner, Supplier: "s", Items: []dto.InflowItemInput{{ProductID: "p1", QuantityReceived: 1}}}},
		{"missing supplier", dto.CreateInflowInput{OwnerID: testOwner, ReferenceNumber: "r", Items: []dto.InflowItemInput{{ProductID: "p1", QuantityReceived: 1}}}},
		{"no items", dto.CreateInflowInput{OwnerID: testOwner, ReferenceNumber: "r", Supplier: "s"}},
		{"missing item product", dto.CreateInflowInput{OwnerID: testOwner, ReferenceNumber: "r", Supplier: "s", Items: []dto.InflowItemInput{{QuantityReceived: 1}}}},
		{"zero quantity", dto.CreateInflowInput{OwnerID: testOwner, ReferenceNumber: "r", Supplier: "s", Items: []dto.InflowItemInput{{ProductID: "p1", QuantityReceived: 0}}}},
		{"negative quantity", dto.CreateInflowInput{OwnerID: testOwner, ReferenceNumber: "r", Supplier: "s", Items: []dto.InflowItemInput{{ProductID: "p1", QuantityReceived: -3}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), &tt.input)
			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
			assert.Equal(t, 4, store.products["p1"].Quantity)
			assert.Empty(t, store.inflows)
		})
	}
}

func TestGet_LoadsItems(t *testing.T) {
	store := newFakeStore()
	store.inflows["in1"] = &model.MerchandiseInflow{
		ID:              "in1",
		OwnerID:         testOwner,
		ReferenceNumber: "PO-1001",
	}
	store.items["in1"] = []model.MerchandiseInflowItem{
		{ID: "it1", InflowID: "in1", ProductID: "p1", QuantityReceived: 2},
	}
	uc := newUseCase(store)

	in, err := uc.Get(context.Background(), testOwner, "in1")
	require.NoError(t, err)
	require.Len(t, in.Items, 1)
	assert.Equal(t, "it1", in.Items[0].ID)

	_, err = uc.Get(context.Background(), testOwner, "ghost")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
