package broker

import (
	"time"

	"github.com/danukay/stocktrack-service/internal/model"
)

const EventTypeStockMovement = "StockMovement"

// StockMovementEvent mirrors a committed ledger movement onto the
// broker for downstream consumers (alerting, analytics).
type StockMovementEvent struct {
	EventID   string              `json:"event_id"`
	EventType string              `json:"event_type"`
	Payload   model.StockMovement `json:"payload"`
	Timestamp time.Time           `json:"timestamp"`
}
