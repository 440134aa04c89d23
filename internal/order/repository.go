package order

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/danukay/stocktrack-service/internal/model"
	"github.com/danukay/stocktrack-service/internal/order/dto"
)

// Repository persists orders and their line items. All mutations take
// the caller's transaction so the ledger effect and the order record
// commit or roll back together.
type Repository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, o *model.Order) error
	CreateItemsTx(ctx context.Context, tx *sqlx.Tx, items []model.OrderItem) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, o *model.Order) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, ownerID, id string) error

	// Reads; Tx variants see the transaction's own writes. A nil order
	// with a nil error means not found.
	GetByID(ctx context.Context, ownerID, id string) (*model.Order, error)
	GetByIDTx(ctx context.Context, tx *sqlx.Tx, ownerID, id string) (*model.Order, error)
	GetItems(ctx context.Context, orderID string) ([]model.OrderItem, error)
	GetItemsTx(ctx context.Context, tx *sqlx.Tx, orderID string) ([]model.OrderItem, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
}
