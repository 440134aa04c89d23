package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/danukay/stocktrack-service/internal/model"
	"github.com/danukay/stocktrack-service/internal/order"
	"github.com/danukay/stocktrack-service/internal/order/dto"
	"github.com/danukay/stocktrack-service/internal/pkg/apperrors"
	"github.com/danukay/stocktrack-service/internal/pkg/broker"
	"github.com/danukay/stocktrack-service/internal/pkg/database"
	"github.com/danukay/stocktrack-service/internal/pkg/logger"
	"github.com/danukay/stocktrack-service/internal/product"
)

type orderUseCase struct {
	orders   order.Repository
	products product.Repository
	txm      database.TxManager
	producer *broker.Producer
	logger   logger.ZapLogger
}

// NewOrderUseCase wires the order engine. producer may be nil; event
// publishing is best-effort and happens only after a commit.
func NewOrderUseCase(orders order.Repository, products product.Repository, txm database.TxManager, producer *broker.Producer, log logger.ZapLogger) order.UseCase {
	return &orderUseCase{
		orders:   orders,
		products: products,
		txm:      txm,
		producer: producer,
		logger:   log,
	}
}

func (uc *orderUseCase) RecordSale(ctx context.Context, input *dto.RecordSaleInput) (*model.Order, error) {
	// Rejected before any transaction opens.
	if input.ProductID == "" {
		return nil, apperrors.Validation("product_id is required")
	}
	if input.Quantity <= 0 {
		return nil, apperrors.Validation("quantity must be positive")
	}
	if input.PriceAtSale <= 0 {
		return nil, apperrors.Validation("price_at_sale must be positive")
	}

	var (
		created   *model.Order
		movements []model.StockMovement
	)

	err := uc.txm.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		p, err := uc.products.GetByIDTx(ctx, tx, input.OwnerID, input.ProductID)
		if err != nil {
			return apperrors.Server("get product", err)
		}
		if p == nil {
			return apperrors.NotFound("product not found")
		}
		if p.Quantity < input.Quantity {
			return apperrors.InsufficientStock("not enough stock on hand")
		}

		p, err = uc.products.ApplyDelta(ctx, tx, input.OwnerID, input.ProductID, -input.Quantity)
		if err != nil {
			return apperrors.Server("debit ledger", err)
		}

		now := time.Now()
		status, deliveryStatus, actual := deriveInitialStatus(input.DeliveryDateExpected, now)

		o := &model.Order{
			BaseModel:            model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			OwnerID:              input.OwnerID,
			TotalAmount:          float64(input.Quantity) * input.PriceAtSale,
			Status:               status,
			DeliveryDateExpected: input.DeliveryDateExpected,
			DeliveryDateActual:   actual,
			DeliveryStatus:       deliveryStatus,
			Notes:                input.Notes,
		}
		item := model.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     o.ID,
			ProductID:   p.ID,
			ProductName: p.Name,
			SKU:         p.SKU,
			Category:    p.Category,
			Quantity:    input.Quantity,
			PriceAtSale: input.PriceAtSale,
			CreatedAt:   now,
		}

		if err := uc.orders.CreateTx(ctx, tx, o); err != nil {
			return apperrors.Server("create order", err)
		}
		if err := uc.orders.CreateItemsTx(ctx, tx, []model.OrderItem{item}); err != nil {
			return apperrors.Server("create order item", err)
		}

		m := newMovement(o.OwnerID, p.ID, model.MovementSale, -input.Quantity, p.Quantity, "order", o.ID)
		if err := uc.products.LogMovement(ctx, tx, &m); err != nil {
			return apperrors.Server("log movement", err)
		}
		movements = append(movements, m)

		o.Items = []model.OrderItem{item}
		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publishMovements(movements)
	return created, nil
}

func (uc *orderUseCase) UpdateStatus(ctx context.Context, ownerID, orderID string, newStatus model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(newStatus) {
		return nil, apperrors.InvalidStatus("unknown order status: " + string(newStatus))
	}

	var (
		updated   *model.Order
		movements []model.StockMovement
	)

	err := uc.txm.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		o, err := uc.orders.GetByIDTx(ctx, tx, ownerID, orderID)
		if err != nil {
			return apperrors.Server("get order", err)
		}
		if o == nil {
			return apperrors.NotFound("order not found")
		}
		items, err := uc.orders.GetItemsTx(ctx, tx, o.ID)
		if err != nil {
			return apperrors.Server("get order items", err)
		}

		oldStatus := o.Status
		now := time.Now()

		// Ledger effect: only transitions crossing the Canceled
		// boundary touch stock.
		switch {
		case oldStatus != model.OrderStatusCanceled && newStatus == model.OrderStatusCanceled:
			ms, err := uc.reverseItems(ctx, tx, o, items, model.MovementCancelRestock)
			if err != nil {
				return err
			}
			movements = append(movements, ms...)
			o.DeliveryStatus = model.DeliveryStatusNotApplicable
			o.DeliveryDateActual = nil

		case oldStatus == model.OrderStatusCanceled && newStatus != model.OrderStatusCanceled:
			for _, it := range items {
				p, err := uc.products.ApplyDelta(ctx, tx, o.OwnerID, it.ProductID, -it.Quantity)
				if err != nil {
					return apperrors.Server("re-debit ledger", err)
				}
				if p == nil {
					movements = append(movements, uc.skipReversal(ctx, tx, o, it)...)
					continue
				}
				if p.Quantity < 0 {
					// Stock was sold while the order sat canceled. The
					// debit is applied anyway so a later cancellation
					// credits exactly what was taken; the oversell is
					// surfaced here rather than silently clamped.
					uc.logger.Warn("reactivation drove quantity negative",
						zap.String("order_id", o.ID),
						zap.String("product_id", p.ID),
						zap.Int("quantity", p.Quantity),
					)
				}
				m := newMovement(o.OwnerID, p.ID, model.MovementReactivation, -it.Quantity, p.Quantity, "order", o.ID)
				if err := uc.products.LogMovement(ctx, tx, &m); err != nil {
					return apperrors.Server("log movement", err)
				}
				movements = append(movements, m)
			}
		}

		// Delivery fields recomputed from the new status alone.
		switch newStatus {
		case model.OrderStatusCompleted:
			o.DeliveryDateActual = &now
			if o.DeliveryDateExpected == nil || !startOfDay(now).After(startOfDay(*o.DeliveryDateExpected)) {
				o.DeliveryStatus = model.DeliveryStatusOnTime
			} else {
				o.DeliveryStatus = model.DeliveryStatusDelayed
			}
		case model.OrderStatusShipped:
			o.DeliveryStatus = model.DeliveryStatusInTransit
		}

		o.Status = newStatus
		o.UpdatedAt = now
		if err := uc.orders.UpdateTx(ctx, tx, o); err != nil {
			return apperrors.Server("update order", err)
		}

		o.Items = items
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publishMovements(movements)
	return updated, nil
}

func (uc *orderUseCase) DeleteOrder(ctx context.Context, ownerID, orderID string) error {
	var movements []model.StockMovement

	err := uc.txm.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		o, err := uc.orders.GetByIDTx(ctx, tx, ownerID, orderID)
		if err != nil {
			return apperrors.Server("get order", err)
		}
		if o == nil {
			return apperrors.NotFound("order not found")
		}

		// Completed and Shipped orders have already moved stock out of
		// the building; deleting them never touches the ledger.
		if o.Status != model.OrderStatusCompleted && o.Status != model.OrderStatusShipped {
			items, err := uc.orders.GetItemsTx(ctx, tx, o.ID)
			if err != nil {
				return apperrors.Server("get order items", err)
			}
			ms, err := uc.reverseItems(ctx, tx, o, items, model.MovementDeletionRestock)
			if err != nil {
				return err
			}
			movements = append(movements, ms...)
		}

		if err := uc.orders.DeleteTx(ctx, tx, ownerID, orderID); err != nil {
			return apperrors.Server("delete order", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.publishMovements(movements)
	return nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, ownerID, id string) (*model.Order, error) {
	o, err := uc.orders.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, apperrors.Server("get order", err)
	}
	if o == nil {
		return nil, apperrors.NotFound("order not found")
	}
	items, err := uc.orders.GetItems(ctx, o.ID)
	if err != nil {
		return nil, apperrors.Server("get order items", err)
	}
	o.Items = items
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	if filters.Status != "" && !model.ValidOrderStatus(model.OrderStatus(filters.Status)) {
		return nil, 0, apperrors.InvalidStatus("unknown order status: " + filters.Status)
	}
	items, count, err := uc.orders.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperrors.Server("list orders", err)
	}
	return items, count, nil
}

// reverseItems credits each line's quantity back to its product. A line
// whose product no longer exists is logged and skipped; the remaining
// lines are still reversed.
func (uc *orderUseCase) reverseItems(ctx context.Context, tx *sqlx.Tx, o *model.Order, items []model.OrderItem, movementType string) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	for _, it := range items {
		p, err := uc.products.ApplyDelta(ctx, tx, o.OwnerID, it.ProductID, it.Quantity)
		if err != nil {
			return nil, apperrors.Server("credit ledger", err)
		}
		if p == nil {
			movements = append(movements, uc.skipReversal(ctx, tx, o, it)...)
			continue
		}
		m := newMovement(o.OwnerID, p.ID, movementType, it.Quantity, p.Quantity, "order", o.ID)
		if err := uc.products.LogMovement(ctx, tx, &m); err != nil {
			return nil, apperrors.Server("log movement", err)
		}
		movements = append(movements, m)
	}
	return movements, nil
}

// skipReversal records that a reversal could not be applied because the
// referenced product is gone. The zero-delta movement keeps the gap
// visible in the audit trail.
func (uc *orderUseCase) skipReversal(ctx context.Context, tx *sqlx.Tx, o *model.Order, it model.OrderItem) []model.StockMovement {
	uc.logger.Warn("product missing during reversal, stock not adjusted",
		zap.String("order_id", o.ID),
		zap.String("product_id", it.ProductID),
		zap.Int("quantity", it.Quantity),
	)
	m := newMovement(o.OwnerID, it.ProductID, model.MovementReversalSkipped, 0, 0, "order", o.ID)
	m.Notes = "referenced product no longer exists"
	if err := uc.products.LogMovement(ctx, tx, &m); err != nil {
		uc.logger.Error("failed to log skipped reversal", zap.Error(err))
		return nil
	}
	return []model.StockMovement{m}
}

func (uc *orderUseCase) publishMovements(movements []model.StockMovement) {
	if uc.producer == nil || len(movements) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, m := range movements {
			evt := broker.StockMovementEvent{
				EventID:   uuid.New().String(),
				EventType: broker.EventTypeStockMovement,
				Payload:   m,
				Timestamp: time.Now(),
			}
			if err := uc.producer.PublishJSON(ctx, m.ProductID, evt); err != nil {
				uc.logger.Error("failed to publish stock movement",
					zap.String("movement_id", m.ID), zap.Error(err))
			}
		}
	}()
}

// newMovement builds a movement row from the post-delta quantity.
func newMovement(ownerID, productID, movementType string, delta, after int, refType, refID string) model.StockMovement {
	return model.StockMovement{
		ID:             uuid.New().String(),
		OwnerID:        ownerID,
		ProductID:      productID,
		MovementType:   movementType,
		QuantityChange: delta,
		QuantityBefore: after - delta,
		QuantityAfter:  after,
		ReferenceType:  &refType,
		ReferenceID:    &refID,
		CreatedAt:      time.Now(),
	}
}

// startOfDay normalizes a timestamp to midnight for date-only
// comparisons between expected and actual delivery.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// deriveInitialStatus maps the expected delivery date to the order's
// initial lifecycle state. No date, or a date that is already today,
// is an immediate sale: completed and delivered on time.
func deriveInitialStatus(expected *time.Time, now time.Time) (model.OrderStatus, model.DeliveryStatus, *time.Time) {
	if expected == nil {
		return model.OrderStatusCompleted, model.DeliveryStatusOnTime, &now
	}
	expectedDay := startOfDay(*expected)
	today := startOfDay(now)
	switch {
	case expectedDay.After(today):
		return model.OrderStatusPending, model.DeliveryStatusInTransit, nil
	case expectedDay.Before(today):
		return model.OrderStatusProcessing, model.DeliveryStatusDelayed, nil
	default:
		return model.OrderStatusCompleted, model.DeliveryStatusOnTime, &now
	}
}
