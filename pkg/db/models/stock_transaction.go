package models

import "time"

// StockTransaction records an immutable stock movement for an item.
// Rows are insert-only; corrections happen through compensating entries.
type StockTransaction struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ItemID    int64     `gorm:"column:item_id;not null;index"`
	Item      *Item     `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT"`
	Delta     int       `gorm:"column:delta;not null"`
	Reason    string    `gorm:"column:reason;not null;default:''"`
	Ref       *string   `gorm:"column:ref"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the table name stable regardless of gorm's pluralization.
func (StockTransaction) TableName() string {
	return "stock_txns"
}
