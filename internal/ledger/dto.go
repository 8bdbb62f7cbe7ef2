package ledger

import (
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// TransactionDTO exposes the stock movement fields returned by the API.
type TransactionDTO struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason"`
	Ref       *string   `json:"ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FromModel maps a stored stock transaction onto its API shape.
func FromModel(txn models.StockTransaction) TransactionDTO {
	return TransactionDTO{
		ID:        txn.ID,
		ItemID:    txn.ItemID,
		Delta:     txn.Delta,
		Reason:    txn.Reason,
		Ref:       txn.Ref,
		CreatedAt: txn.CreatedAt,
	}
}

// FromModels maps a list of stored stock transactions onto their API shape.
func FromModels(txns []models.StockTransaction) []TransactionDTO {
	out := make([]TransactionDTO, 0, len(txns))
	for _, txn := range txns {
		out = append(out, FromModel(txn))
	}
	return out
}
