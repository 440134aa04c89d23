package dto

type CreateProductInput struct {
	OwnerID  string   `json:"-"`
	Name     string   `json:"name"`
	SKU      string   `json:"sku"`
	Category string   `json:"category"`
	Quantity int      `json:"quantity"`
	MinStock *int     `json:"min_stock"`
	Price    float64  `json:"price"`
	Location string   `json:"location"`
}

// UpdateProductInput replaces the descriptive fields of a product.
// Quantity is deliberately absent: on-hand stock is mutated only by the
// ledger inside sale/inflow/transition transactions.
type UpdateProductInput struct {
	OwnerID  string  `json:"-"`
	ID       string  `json:"-"`
	Name     string  `json:"name"`
	SKU      string  `json:"sku"`
	Category string  `json:"category"`
	MinStock *int    `json:"min_stock"`
	Price    float64 `json:"price"`
	Location string  `json:"location"`
}
