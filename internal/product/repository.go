package product

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/danukay/stocktrack-service/internal/model"
	"github.com/danukay/stocktrack-service/internal/product/dto"
)

// Repository persists products and owns the quantity ledger primitive.
// Methods taking a *sqlx.Tx only ever run inside a transaction held by
// the caller; the rest use the pool directly.
type Repository interface {
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, ownerID, id string) error
	GetByID(ctx context.Context, ownerID, id string) (*model.Product, error)
	GetByIDTx(ctx context.Context, tx *sqlx.Tx, ownerID, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	FindLowStock(ctx context.Context, ownerID string, page, pageSize int) ([]model.Product, int, error)
	IsSKUUnique(ctx context.Context, ownerID, sku, excludeID string) (bool, error)

	// Quantity ledger: atomic quantity += delta scoped by owner, with
	// the status cache recomputed from the result. Returns (nil, nil)
	// when no product matches; callers decide whether that aborts.
	ApplyDelta(ctx context.Context, tx *sqlx.Tx, ownerID, productID string, delta int) (*model.Product, error)

	// Movements / audit
	LogMovement(ctx context.Context, tx *sqlx.Tx, m *model.StockMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
