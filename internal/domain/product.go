package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Optional columns are pointers so that NULL
// survives the round trip to clients.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	SKU           string          `json:"sku"`
	EAN           *string         `json:"ean"`
	Family        *string         `json:"family"`
	Category      *string         `json:"category"`
	ImageURL      *string         `json:"imageUrl"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ProductChanges lists the columns of a partial update. Nil fields are left untouched.
type ProductChanges struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
	SKU           *string
	EAN           *string
	Family        *string
	Category      *string
	ImageURL      *string
}

// Empty reports whether no column would change.
func (c ProductChanges) Empty() bool {
	return c.Name == nil && c.Description == nil && c.Price == nil && c.StockQuantity == nil &&
		c.SKU == nil && c.EAN == nil && c.Family == nil && c.Category == nil && c.ImageURL == nil
}
