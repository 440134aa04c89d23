package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/danukay/stocktrack-service/internal/inflow"
	"github.com/danukay/stocktrack-service/internal/inflow/dto"
	"github.com/danukay/stocktrack-service/internal/model"
)

const uniqueViolation = "23505"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, in *model.MerchandiseInflow) error {
	query := `
        INSERT INTO merchandise_inflows (
            id, owner_id, reference_number, supplier, inflow_date, notes, created_at
        )
        VALUES (
            :id, :owner_id, :reference_number, :supplier, :inflow_date, :notes, :created_at
        )
    `
	_, err := tx.NamedExecContext(ctx, query, in)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return inflow.ErrDuplicateReference
		}
		return errors.Wrap(err, "create inflow")
	}
	return nil
}

func (r *PGRepository) CreateItemsTx(ctx context.Context, tx *sqlx.Tx, items []model.MerchandiseInflowItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
        INSERT INTO merchandise_inflow_items (
            id, inflow_id, product_id, quantity_received, unit_cost,
            lot_number, expiration_date, created_at
        )
        VALUES (
            :id, :inflow_id, :product_id, :quantity_received, :unit_cost,
            :lot_number, :expiration_date, :created_at
        )
    `
	_, err := tx.NamedExecContext(ctx, query, items)
	return errors.Wrap(err, "create inflow items")
}

func (r *PGRepository) GetByID(ctx context.Context, ownerID, id string) (*model.MerchandiseInflow, error) {
	var in model.MerchandiseInflow
	err := r.DB.GetContext(ctx, &in,
		`SELECT * FROM merchandise_inflows WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get inflow")
	}
	return &in, nil
}

func (r *PGRepository) GetItems(ctx context.Context, inflowID string) ([]model.MerchandiseInflowItem, error) {
	var items []model.MerchandiseInflowItem
	err := r.DB.SelectContext(ctx, &items,
		`SELECT * FROM merchandise_inflow_items WHERE inflow_id = $1 ORDER BY created_at ASC`, inflowID)
	return items, errors.Wrap(err, "get inflow items")
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InflowFilters) ([]model.MerchandiseInflow, int, error) {
	conditions := []string{"owner_id = :owner_id"}
	args := map[string]interface{}{"owner_id": f.OwnerID}

	if f.Supplier != "" {
		conditions = append(conditions, "supplier = :supplier")
		args["supplier"] = f.Supplier
	}
	if f.StartDate != nil {
		conditions = append(conditions, "inflow_date >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "inflow_date <= :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var count int
	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM merchandise_inflows"+whereClause, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count inflows")
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM merchandise_inflows" + whereClause + " ORDER BY inflow_date DESC"
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (f.Page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list inflows")
	}
	defer nstmt.Close()

	var items []model.MerchandiseInflow
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, errors.Wrap(err, "list inflows")
}
