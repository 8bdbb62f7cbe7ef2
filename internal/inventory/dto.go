package inventory

import "github.com/shopspring/decimal"

// CreateItemInput captures the fields accepted when creating an item.
// Nil optional fields take their documented defaults.
type CreateItemInput struct {
	SKU         string
	Name        string
	Quantity    *int
	MinQuantity *int
	UnitCost    *decimal.Decimal
	Price       *decimal.Decimal
	Barcode     *string
	Active      *bool
}
