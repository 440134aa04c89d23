package model

type StockStatus string

const (
	StockStatusOut     StockStatus = "Out of Stock"
	StockStatusLow     StockStatus = "Low Stock"
	StockStatusIn      StockStatus = "In Stock"
	StockStatusOver    StockStatus = "Overstocked"
	StockStatusUnknown StockStatus = "Unknown"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusCanceled   OrderStatus = "Canceled"
)

// ValidOrderStatus reports whether s is one of the five known order statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

type DeliveryStatus string

const (
	DeliveryStatusOnTime        DeliveryStatus = "On Time"
	DeliveryStatusDelayed       DeliveryStatus = "Delayed"
	DeliveryStatusInTransit     DeliveryStatus = "In Transit"
	DeliveryStatusNotApplicable DeliveryStatus = "Not Applicable"
	DeliveryStatusPending       DeliveryStatus = "Pending"
)

// ClassifyStockStatus derives the coarse stock status from the on-hand
// quantity and the low-stock threshold. A nil or non-positive minStock
// means no threshold. Checks are ordered: out of stock wins over low,
// low over overstocked, and anything positive left over is in stock.
// No side effects; safe to call anywhere quantity or minStock changes.
func ClassifyStockStatus(quantity int, minStock *int) StockStatus {
	threshold := 0
	if minStock != nil && *minStock > 0 {
		threshold = *minStock
	}

	switch {
	case quantity == 0:
		return StockStatusOut
	case threshold > 0 && quantity <= threshold:
		return StockStatusLow
	case threshold > 0 && quantity > threshold*2:
		return StockStatusOver
	case quantity > 0:
		return StockStatusIn
	default:
		return StockStatusUnknown
	}
}
