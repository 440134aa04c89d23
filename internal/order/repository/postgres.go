package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/danukay/stocktrack-service/internal/model"
	"github.com/danukay/stocktrack-service/internal/order/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, o *model.Order) error {
	query := `
        INSERT INTO orders (
            id, owner_id, total_amount, status, delivery_date_expected,
            delivery_date_actual, delivery_status, notes, created_at, updated_at
        )
        VALUES (
            :id, :owner_id, :total_amount, :status, :delivery_date_expected,
            :delivery_date_actual, :delivery_status, :notes, :created_at, :updated_at
        )
    `
	_, err := tx.NamedExecContext(ctx, query, o)
	return errors.Wrap(err, "create order")
}

func (r *PGRepository) CreateItemsTx(ctx context.Context, tx *sqlx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
        INSERT INTO order_items (
            id, order_id, product_id, product_name, sku, category,
            quantity, price_at_sale, created_at
        )
        VALUES (
            :id, :order_id, :product_id, :product_name, :sku, :category,
            :quantity, :price_at_sale, :created_at
        )
    `
	_, err := tx.NamedExecContext(ctx, query, items)
	return errors.Wrap(err, "create order items")
}

func (r *PGRepository) UpdateTx(ctx context.Context, tx *sqlx.Tx, o *model.Order) error {
	query := `
        UPDATE orders SET
            total_amount = :total_amount,
            status = :status,
            delivery_date_expected = :delivery_date_expected,
            delivery_date_actual = :delivery_date_actual,
            delivery_status = :delivery_status,
            notes = :notes,
            updated_at = :updated_at
        WHERE owner_id = :owner_id AND id = :id
    `
	res, err := tx.NamedExecContext(ctx, query, o)
	if err != nil {
		return errors.Wrap(err, "update order")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteTx removes the order's items and then the order itself, in that
// order, inside the caller's transaction.
func (r *PGRepository) DeleteTx(ctx context.Context, tx *sqlx.Tx, ownerID, id string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return errors.Wrap(err, "delete order items")
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM orders WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return errors.Wrap(err, "delete order")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, ownerID, id string) (*model.Order, error) {
	return getOrder(ctx, r.DB, ownerID, id)
}

func (r *PGRepository) GetByIDTx(ctx context.Context, tx *sqlx.Tx, ownerID, id string) (*model.Order, error) {
	return getOrder(ctx, tx, ownerID, id)
}

func getOrder(ctx context.Context, q sqlx.QueryerContext, ownerID, id string) (*model.Order, error) {
	var o model.Order
	err := sqlx.GetContext(ctx, q, &o,
		`SELECT * FROM orders WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get order")
	}
	return &o, nil
}

func (r *PGRepository) GetItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	return getItems(ctx, r.DB, orderID)
}

func (r *PGRepository) GetItemsTx(ctx context.Context, tx *sqlx.Tx, orderID string) ([]model.OrderItem, error) {
	return getItems(ctx, tx, orderID)
}

func getItems(ctx context.Context, q sqlx.QueryerContext, orderID string) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := sqlx.SelectContext(ctx, q, &items,
		`SELECT * FROM order_items WHERE order_id = $1 ORDER BY created_at ASC`, orderID)
	return items, errors.Wrap(err, "get order items")
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	conditions := []string{"owner_id = :owner_id"}
	args := map[string]interface{}{"owner_id": f.OwnerID}

	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var count int
	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM orders"+whereClause, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count orders")
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM orders" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (f.Page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list orders")
	}
	defer nstmt.Close()

	var items []model.Order
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, errors.Wrap(err, "list orders")
}
