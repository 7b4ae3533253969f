package product

import "github.com/shopspring/decimal"

const defaultDescription = "No description"

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Category    string          `json:"category,omitempty"`
	ModelURL    string          `json:"modelUrl,omitempty"`
}
