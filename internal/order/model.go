package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Item struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Order is an immutable snapshot taken at checkout. It owns its own copy of
// the line items, so later cart or catalog changes never alter it.
type Order struct {
	ID        string          `json:"orderId"`
	UserID    string          `json:"userId"`
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewID keeps the human-readable ORDER-<timestamp> shape of order numbers
// but adds a random suffix so two orders in the same millisecond stay unique.
func NewID(now time.Time) string {
	return fmt.Sprintf("ORDER-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}
