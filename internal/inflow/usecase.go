package inflow

import (
	"context"

	"github.com/danukay/stocktrack-service/internal/inflow/dto"
	"github.com/danukay/stocktrack-service/internal/model"
)

// Inflows are append-only: there is no update or delete operation.
type UseCase interface {
	Create(ctx context.Context, input *dto.CreateInflowInput) (*model.MerchandiseInflow, error)
	Get(ctx context.Context, ownerID, id string) (*model.MerchandiseInflow, error)
	List(ctx context.Context, filters *dto.InflowFilters) ([]model.MerchandiseInflow, int, error)
}
