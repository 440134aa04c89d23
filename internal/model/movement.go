package model

import "time"

// Movement types written by the engine.
const (
	MovementSale            = "sale"
	MovementCancelRestock   = "cancel_restock"
	MovementReactivation    = "reactivation"
	MovementDeletionRestock = "deletion_restock"
	MovementInflow          = "inflow"
	MovementReversalSkipped = "reversal_skipped"
	MovementManual          = "manual"
)

// StockMovement is the audit trail of every ledger delta. It is written
// in the same transaction as the quantity change it describes.
type StockMovement struct {
	ID             string    `db:"id" json:"id"`
	OwnerID        string    `db:"owner_id" json:"owner_id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	MovementType   string    `db:"movement_type" json:"movement_type"`
	QuantityChange int       `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int       `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string   `db:"reference_type" json:"reference_type"`
	ReferenceID    *string   `db:"reference_id" json:"reference_id"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
