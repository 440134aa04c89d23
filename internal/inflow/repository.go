package inflow

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/danukay/stocktrack-service/internal/inflow/dto"
	"github.com/danukay/stocktrack-service/internal/model"
)

// ErrDuplicateReference is returned by CreateTx when the owner already
// has an inflow with the same reference number.
var ErrDuplicateReference = errors.New("duplicate reference number")

type Repository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, inflow *model.MerchandiseInflow) error
	CreateItemsTx(ctx context.Context, tx *sqlx.Tx, items []model.MerchandiseInflowItem) error

	// A nil inflow with a nil error means not found.
	GetByID(ctx context.Context, ownerID, id string) (*model.MerchandiseInflow, error)
	GetItems(ctx context.Context, inflowID string) ([]model.MerchandiseInflowItem, error)
	FindAll(ctx context.Context, filters *dto.InflowFilters) ([]model.MerchandiseInflow, int, error)
}
