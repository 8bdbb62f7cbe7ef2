package items

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// ItemDTO exposes the item fields returned by the API.
type ItemDTO struct {
	ID           int64           `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	MinQuantity  int             `json:"min_quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Price        decimal.Decimal `json:"price"`
	Barcode      *string         `json:"barcode,omitempty"`
	Active       bool            `json:"active"`
	BelowMinimum bool            `json:"below_minimum"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// FromModel maps a stored item onto its API shape.
func FromModel(item models.Item) ItemDTO {
	return ItemDTO{
		ID:           item.ID,
		SKU:          item.SKU,
		Name:         item.Name,
		Quantity:     item.Quantity,
		MinQuantity:  item.MinQuantity,
		UnitCost:     item.UnitCost,
		Price:        item.Price,
		Barcode:      item.Barcode,
		Active:       item.Active,
		BelowMinimum: item.BelowMinimum(),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

// FromModels maps a list of stored items onto their API shape.
func FromModels(list []models.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(list))
	for _, item := range list {
		out = append(out, FromModel(item))
	}
	return out
}
