package cart

import (
	"time"

	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// Item is one cart line: a product snapshot plus the chosen quantity. There
// is at most one line per distinct product id.
type Item struct {
	ID        string          `json:"id"`
	Product   types.Product   `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	AddedAt   time.Time       `json:"addedAt"`
}

// Cart carries the lines plus derived totals, recomputed after every
// mutation.
type Cart struct {
	Items       []Item          `json:"items"`
	TotalItems  int             `json:"totalItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Empty returns a zero cart with totals at zero.
func Empty() Cart {
	return Cart{TotalAmount: decimal.Zero}
}

func (c Cart) clone() Cart {
	cp := c
	cp.Items = make([]Item, len(c.Items))
	copy(cp.Items, c.Items)
	return cp
}

// recompute refreshes the derived totals from the current lines.
func (c *Cart) recompute(now time.Time) {
	total := 0
	amount := decimal.Zero
	for _, item := range c.Items {
		total += item.Quantity
		amount = amount.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	c.TotalItems = total
	c.TotalAmount = amount
	c.UpdatedAt = now
}
