package events

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderPlaced struct {
	EventType string            `json:"eventType"`
	OrderID   string            `json:"orderId"`
	UserID    string            `json:"userId"`
	Items     []OrderPlacedItem `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	Timestamp time.Time         `json:"timestamp"`
}

type OrderPlacedItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}
