package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/danukay/stocktrack-service/internal/inflow"
	"github.com/danukay/stocktrack-service/internal/inflow/dto"
	"github.com/danukay/stocktrack-service/internal/model"
	"github.com/danukay/stocktrack-service/internal/pkg/apperrors"
	"github.com/danukay/stocktrack-service/internal/pkg/broker"
	"github.com/danukay/stocktrack-service/internal/pkg/database"
	"github.com/danukay/stocktrack-service/internal/pkg/logger"
	"github.com/danukay/stocktrack-service/internal/product"
)

type inflowUseCase struct {
	repo     inflow.Repository
	products product.Repository
	txm      database.TxManager
	producer *broker.Producer
	logger   logger.ZapLogger
}

func NewInflowUseCase(repo inflow.Repository, products product.Repository, txm database.TxManager, producer *broker.Producer, log logger.ZapLogger) inflow.UseCase {
	return &inflowUseCase{
		repo:     repo,
		products: products,
		txm:      txm,
		producer: producer,
		logger:   log,
	}
}

// Create applies a merchandise receipt: header, ledger credits, and
// line rows commit together or not at all. There are no partial
// receipts; one bad line aborts the whole inflow.
func (uc *inflowUseCase) Create(ctx context.Context, input *dto.CreateInflowInput) (*model.MerchandiseInflow, error) {
	// Rejected before any transaction opens.
	if input.ReferenceNumber == "" {
		return nil, apperrors.Validation("reference_number is required")
	}
	if input.Supplier == "" {
		return nil, apperrors.Validation("supplier is required")
	}
	if len(input.Items) == 0 {
		return nil, apperrors.Validation("at least one item is required")
	}
	for _, it := range input.Items {
		if it.ProductID == "" {
			return nil, apperrors.Validation("every item needs a product_id")
		}
		if it.QuantityReceived <= 0 {
			return nil, apperrors.Validation("quantity_received must be positive")
		}
	}

	inflowDate := input.InflowDate
	if inflowDate.IsZero() {
		inflowDate = time.Now()
	}

	var (
		created   *model.MerchandiseInflow
		movements []model.StockMovement
	)

	err := uc.txm.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		now := time.Now()
		header := &model.MerchandiseInflow{
			ID:              uuid.New().String(),
			OwnerID:         input.OwnerID,
			ReferenceNumber: input.ReferenceNumber,
			Supplier:        input.Supplier,
			InflowDate:      inflowDate,
			Notes:           input.Notes,
			CreatedAt:       now,
		}
		if err := uc.repo.CreateTx(ctx, tx, header); err != nil {
			if err == inflow.ErrDuplicateReference {
				return apperrors.DuplicateReference("reference number already used")
			}
			return apperrors.Server("create inflow", err)
		}

		items := make([]model.MerchandiseInflowItem, 0, len(input.Items))
		for _, it := range input.Items {
			p, err := uc.products.ApplyDelta(ctx, tx, input.OwnerID, it.ProductID, it.QuantityReceived)
			if err != nil {
				return apperrors.Server("credit ledger", err)
			}
			if p == nil {
				return apperrors.NotFound("product not found: " + it.ProductID)
			}

			m := model.StockMovement{
				ID:             uuid.New().String(),
				OwnerID:        input.OwnerID,
				ProductID:      p.ID,
				MovementType:   model.MovementInflow,
				QuantityChange: it.QuantityReceived,
				QuantityBefore: p.Quantity - it.QuantityReceived,
				QuantityAfter:  p.Quantity,
				ReferenceType:  strPtr("inflow"),
				ReferenceID:    &header.ID,
				CreatedAt:      now,
			}
			if err := uc.products.LogMovement(ctx, tx, &m); err != nil {
				return apperrors.Server("log movement", err)
			}
			movements = append(movements, m)

			items = append(items, model.MerchandiseInflowItem{
				ID:               uuid.New().String(),
				InflowID:         header.ID,
				ProductID:        it.ProductID,
				QuantityReceived: it.QuantityReceived,
				UnitCost:         it.UnitCost,
				LotNumber:        it.LotNumber,
				ExpirationDate:   it.ExpirationDate,
				CreatedAt:        now,
			})
		}

		if err := uc.repo.CreateItemsTx(ctx, tx, items); err != nil {
			return apperrors.Server("create inflow items", err)
		}

		header.Items = items
		created = header
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publishMovements(movements)
	return created, nil
}

func (uc *inflowUseCase) Get(ctx context.Context, ownerID, id string) (*model.MerchandiseInflow, error) {
	in, err := uc.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, apperrors.Server("get inflow", err)
	}
	if in == nil {
		return nil, apperrors.NotFound("inflow not found")
	}
	items, err := uc.repo.GetItems(ctx, in.ID)
	if err != nil {
		return nil, apperrors.Server("get inflow items", err)
	}
	in.Items = items
	return in, nil
}

func (uc *inflowUseCase) List(ctx context.Context, filters *dto.InflowFilters) ([]model.MerchandiseInflow, int, error) {
	items, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperrors.Server("list inflows", err)
	}
	return items, count, nil
}

func (uc *inflowUseCase) publishMovements(movements []model.StockMovement) {
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

func strPtr(s string) *string { return &s }
