package cart

import "time"

type Item struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart is its own entity keyed by user, not a field embedded in the user
// record. Version changes on every mutation and is the optimistic-lock
// token checkout uses to detect concurrent changes.
type Cart struct {
	ID        string    `json:"cartId,omitempty"`
	UserID    string    `json:"userId"`
	Items     []Item    `json:"items"`
	Version   int64     `json:"-"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}
