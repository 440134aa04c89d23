package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/danukay/stocktrack-service/internal/model"
	"github.com/danukay/stocktrack-service/internal/product/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, owner_id, name, sku, category, quantity, min_stock,
            price, location, status, created_at, updated_at
        )
        VALUES (
            :id, :owner_id, :name, :sku, :category, :quantity, :min_stock,
            :price, :location, :status, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return errors.Wrap(err, "create product")
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products SET
            name = :name,
            sku = :sku,
            category = :category,
            min_stock = :min_stock,
            price = :price,
            location = :location,
            status = :status,
            updated_at = :updated_at
        WHERE owner_id = :owner_id AND id = :id
    `
	res, err := r.DB.NamedExecContext(ctx, query, p)
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, ownerID, id string) (*model.Product, error) {
	return getProduct(ctx, r.DB, ownerID, id)
}

func (r *PGRepository) GetByIDTx(ctx context.Context, tx *sqlx.Tx, ownerID, id string) (*model.Product, error) {
	return getProduct(ctx, tx, ownerID, id)
}

func getProduct(ctx context.Context, q sqlx.QueryerContext, ownerID, id string) (*model.Product, error) {
	var p model.Product
	err := sqlx.GetContext(ctx, q, &p,
		`SELECT * FROM products WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // caller handles not found
		}
		return nil, errors.Wrap(err, "get product")
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	conditions := []string{"owner_id = :owner_id"}
	args := map[string]interface{}{"owner_id": f.OwnerID}

	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR sku ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var count int
	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM products"+whereClause, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM products" + whereClause + " ORDER BY updated_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}
	defer nstmt.Close()

	var items []model.Product
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, errors.Wrap(err, "list products")
}

func (r *PGRepository) FindLowStock(ctx context.Context, ownerID string, page, pageSize int) ([]model.Product, int, error) {
	where := ` WHERE owner_id = $1 AND min_stock IS NOT NULL AND min_stock > 0 AND quantity <= min_stock`

	var count int
	if err := r.DB.GetContext(ctx, &count, "SELECT count(*) FROM products"+where, ownerID); err != nil {
		return nil, 0, errors.Wrap(err, "count low stock")
	}

	query := "SELECT * FROM products" + where + " ORDER BY quantity ASC"
	if pageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)
	}

	var items []model.Product
	err := r.DB.SelectContext(ctx, &items, query, ownerID)
	return items, count, errors.Wrap(err, "list low stock")
}

func (r *PGRepository) IsSKUUnique(ctx context.Context, ownerID, sku, excludeID string) (bool, error) {
	var count int
	err := r.DB.GetContext(ctx, &count,
		`SELECT count(*) FROM products WHERE owner_id = $1 AND sku = $2 AND id <> $3`,
		ownerID, sku, excludeID)
	if err != nil {
		return false, errors.Wrap(err, "check sku")
	}
	return count == 0, nil
}

// ApplyDelta is the ledger mutation: a single atomic quantity update
// scoped by owner, followed by a status-cache rewrite from the new
// quantity. It must only run inside the transaction that also persists
// the order/inflow record justifying the delta.
func (r *PGRepository) ApplyDelta(ctx context.Context, tx *sqlx.Tx, ownerID, productID string, delta int) (*model.Product, error) {
	var p model.Product
	err := tx.GetContext(ctx, &p, `
        UPDATE products
        SET quantity = quantity + $1, updated_at = $2
        WHERE owner_id = $3 AND id = $4
        RETURNING *
    `, delta, time.Now(), ownerID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "apply delta")
	}

	status := model.ClassifyStockStatus(p.Quantity, p.MinStock)
	if status != p.Status {
		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET status = $1 WHERE id = $2`, status, p.ID); err != nil {
			return nil, errors.Wrap(err, "refresh status cache")
		}
		p.Status = status
	}
	return &p, nil
}

func (r *PGRepository) LogMovement(ctx context.Context, tx *sqlx.Tx, m *model.StockMovement) error {
	query := `
        INSERT INTO stock_movements (
            id, owner_id, product_id, movement_type, quantity_change,
            quantity_before, quantity_after, reference_type, reference_id,
            notes, created_at
        )
        VALUES (
            :id, :owner_id, :product_id, :movement_type, :quantity_change,
            :quantity_before, :quantity_after, :reference_type, :reference_id,
            :notes, :created_at
        )
    `
	_, err := tx.NamedExecContext(ctx, query, m)
	return errors.Wrap(err, "log movement")
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	conditions := []string{"owner_id = :owner_id"}
	args := map[string]interface{}{"owner_id": f.OwnerID}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var count int
	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM stock_movements"+whereClause, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count movements")
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (f.Page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list movements")
	}
	defer nstmt.Close()

	var items []model.StockMovement
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, errors.Wrap(err, "list movements")
}
