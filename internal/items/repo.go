package items

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	apperrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"gorm.io/gorm"
)

// ListFilter narrows item listings.
type ListFilter struct {
	Name       string
	OnlyActive bool
}

// UpdateInput carries a partial item update. Nil fields are left untouched.
// ClearBarcode removes the barcode; it wins over Barcode when both are set.
type UpdateInput struct {
	SKU          *string
	Name         *string
	MinQuantity  *int
	UnitCost     *decimal.Decimal
	Price        *decimal.Decimal
	Barcode      *string
	ClearBarcode bool
	Active       *bool
}

// IsEmpty reports whether the input carries no changes.
func (u UpdateInput) IsEmpty() bool {
	return u.SKU == nil && u.Name == nil && u.MinQuantity == nil &&
		u.UnitCost == nil && u.Price == nil &&
		u.Barcode == nil && !u.ClearBarcode && u.Active == nil
}

// Repository manages persistence for items. The quantity column is only
// touched through the Add/Take/Set methods so it stays paired with ledger
// writes inside one transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.Item) error
	FindByID(ctx context.Context, id int64) (*models.Item, error)
	FindBySKU(ctx context.Context, sku string) (*models.Item, error)
	List(ctx context.Context, filter ListFilter) ([]models.Item, error)
	Update(ctx context.Context, id int64, input UpdateInput) error
	AddQuantity(ctx context.Context, id int64, qty int) (bool, error)
	TakeQuantity(ctx context.Context, id int64, qty int) (bool, error)
	SetQuantity(ctx context.Context, id int64, qty int) (bool, error)
	SoftDelete(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an item repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return apperrors.Wrap(apperrors.CodeConflict, err, "sku or barcode already in use")
		}
		return err
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindBySKU(ctx context.Context, sku string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Item, error) {
	q := r.db.WithContext(ctx).Model(&models.Item{})
	if name := strings.TrimSpace(filter.Name); name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if filter.OnlyActive {
		q = q.Where("active = ?", true)
	}

	var list []models.Item
	if err := q.Order("LOWER(name) ASC, id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, id int64, input UpdateInput) error {
	updates := map[string]any{}
	if input.SKU != nil {
		updates["sku"] = *input.SKU
	}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.MinQuantity != nil {
		updates["min_quantity"] = *input.MinQuantity
	}
	if input.UnitCost != nil {
		updates["unit_cost"] = *input.UnitCost
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	switch {
	case input.ClearBarcode:
		updates["barcode"] = nil
	case input.Barcode != nil:
		updates["barcode"] = *input.Barcode
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		if db.IsUniqueViolation(res.Error) {
			return apperrors.Wrap(apperrors.CodeConflict, res.Error, "sku or barcode already in use")
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) AddQuantity(ctx context.Context, id int64, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		"UPDATE items SET quantity = quantity + ?, updated_at = ? WHERE id = ?",
		qty, time.Now().UTC(), id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) TakeQuantity(ctx context.Context, id int64, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		"UPDATE items SET quantity = quantity - ?, updated_at = ? WHERE id = ? AND quantity >= ?",
		qty, time.Now().UTC(), id, qty,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) SetQuantity(ctx context.Context, id int64, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		"UPDATE items SET quantity = ?, updated_at = ? WHERE id = ?",
		qty, time.Now().UTC(), id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		Updates(map[string]any{"active": false, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) HardDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Item{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
