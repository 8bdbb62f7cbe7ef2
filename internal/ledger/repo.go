package ledger

import (
	"context"

	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	apperrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository manages persistence for stock transactions. The table is
// append-only; there are no update or delete methods.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, itemID int64, delta int, reason string, ref *string) (*models.StockTransaction, error)
	SumByItem(ctx context.Context, itemID int64) (int, error)
	CountByItem(ctx context.Context, itemID int64) (int64, error)
	ListByItem(ctx context.Context, itemID int64) ([]models.StockTransaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Append(ctx context.Context, itemID int64, delta int, reason string, ref *string) (*models.StockTransaction, error) {
	if delta == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "delta must be non-zero")
	}

	txn := models.StockTransaction{
		ItemID: itemID,
		Delta:  delta,
		Reason: reason,
		Ref:    ref,
	}
	if err := r.db.WithContext(ctx).Create(&txn).Error; err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, apperrors.Wrap(apperrors.CodeConflict, err, "item does not exist")
		}
		return nil, err
	}
	return &txn, nil
}

func (r *repository) SumByItem(ctx context.Context, itemID int64) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).
		Model(&models.StockTransaction{}).
		Where("item_id = ?", itemID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *repository) CountByItem(ctx context.Context, itemID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StockTransaction{}).
		Where("item_id = ?", itemID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ListByItem(ctx context.Context, itemID int64) ([]models.StockTransaction, error) {
	var txns []models.StockTransaction
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at ASC, id ASC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
