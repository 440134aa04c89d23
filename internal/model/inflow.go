package model

import "time"

// MerchandiseInflow is an append-only receipt of goods: once committed,
// the header and its items are an immutable historical record.
type MerchandiseInflow struct {
	ID              string                  `db:"id" json:"id"`
	OwnerID         string                  `db:"owner_id" json:"owner_id"`
	ReferenceNumber string                  `db:"reference_number" json:"reference_number"`
	Supplier        string                  `db:"supplier" json:"supplier"`
	InflowDate      time.Time               `db:"inflow_date" json:"inflow_date"`
	Notes           string                  `db:"notes" json:"notes"`
	CreatedAt       time.Time               `db:"created_at" json:"created_at"`
	Items           []MerchandiseInflowItem `db:"-" json:"items"`
}

type MerchandiseInflowItem struct {
	ID               string     `db:"id" json:"id"`
	InflowID         string     `db:"inflow_id" json:"inflow_id"`
	ProductID        string     `db:"product_id" json:"product_id"`
	QuantityReceived int        `db:"quantity_received" json:"quantity_received"`
	UnitCost         *float64   `db:"unit_cost" json:"unit_cost"`
	LotNumber        *string    `db:"lot_number" json:"lot_number"`
	ExpirationDate   *time.Time `db:"expiration_date" json:"expiration_date"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}
