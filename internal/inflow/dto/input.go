package dto

import "time"

type CreateInflowInput struct {
	OwnerID         string            `json:"-"`
	ReferenceNumber string            `json:"reference_number"`
	Supplier        string            `json:"supplier"`
	InflowDate      time.Time         `json:"inflow_date"`
	Notes           string            `json:"notes"`
	Items           []InflowItemInput `json:"items"`
}

type InflowItemInput struct {
	ProductID        string     `json:"product_id"`
	QuantityReceived int        `json:"quantity_received"`
	UnitCost         *float64   `json:"unit_cost"`
	LotNumber        *string    `json:"lot_number"`
	ExpirationDate   *time.Time `json:"expiration_date"`
}
