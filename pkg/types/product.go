package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog entity returned by the products endpoints.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category,omitempty"`
	Price          decimal.Decimal `json:"price"`
	AvailableStock int             `json:"availableStock"`
	SellerID       string          `json:"sellerId"`
	Images         []Media         `json:"images,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
