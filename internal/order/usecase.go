package order

import (
	"context"

	"github.com/danukay/stocktrack-service/internal/model"
	"github.com/danukay/stocktrack-service/internal/order/dto"
)

type UseCase interface {
	// RecordSale creates an order plus its single line item from a sale,
	// debiting the product ledger once, all in one transaction.
	RecordSale(ctx context.Context, input *dto.RecordSaleInput) (*model.Order, error)

	// UpdateStatus runs the status transition engine: ledger credits or
	// debits keyed on the old and new status, then delivery recompute.
	UpdateStatus(ctx context.Context, ownerID, orderID string, newStatus model.OrderStatus) (*model.Order, error)

	// DeleteOrder hard-deletes an order, returning stock for any order
	// that has not already shipped or completed.
	DeleteOrder(ctx context.Context, ownerID, orderID string) error

	GetOrder(ctx context.Context, ownerID, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
}
