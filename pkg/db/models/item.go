package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a tracked inventory item. Quantity is a cache of the ledger sum
// for the item and is only mutated inside the same transaction as the
// matching stock transaction.
type Item struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	SKU         string          `gorm:"column:sku;not null;uniqueIndex"`
	Name        string          `gorm:"column:name;not null"`
	Quantity    int             `gorm:"column:quantity;not null;default:0"`
	MinQuantity int             `gorm:"column:min_quantity;not null;default:0"`
	UnitCost    decimal.Decimal `gorm:"column:unit_cost;type:numeric(12,2);not null;default:0"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	Barcode     *string         `gorm:"column:barcode;uniqueIndex"`
	Active      bool            `gorm:"column:active;not null;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the table name stable regardless of gorm's pluralization.
func (Item) TableName() string {
	return "items"
}

// BelowMinimum reports whether the cached quantity has fallen under the
// restock threshold.
func (i Item) BelowMinimum() bool {
	return i.Quantity < i.MinQuantity
}
