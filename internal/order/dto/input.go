package dto

import "time"

type RecordSaleInput struct {
	OwnerID              string     `json:"-"`
	ProductID            string     `json:"product_id"`
	Quantity             int        `json:"quantity"`
	PriceAtSale          float64    `json:"price_at_sale"`
	DeliveryDateExpected *time.Time `json:"delivery_date_expected"`
	Notes                string     `json:"notes"`
}

type UpdateStatusInput struct {
	Status string `json:"status"`
}
