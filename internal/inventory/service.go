package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stockroomhq/stockroom-backend/internal/items"
	"github.com/stockroomhq/stockroom-backend/internal/ledger"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	apperrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/metrics"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the item/ledger workflows. Every mutating stock operation
// runs inside a single transaction so the cached quantity and the ledger
// move together or not at all.
type Service interface {
	GenerateSKU(ctx context.Context) (string, error)
	CreateItem(ctx context.Context, input CreateItemInput) (*models.Item, error)
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	GetItemBySKU(ctx context.Context, sku string) (*models.Item, error)
	ListItems(ctx context.Context, filter items.ListFilter) ([]models.Item, error)
	UpdateItem(ctx context.Context, id int64, input items.UpdateInput) (*models.Item, error)
	SoftDeleteItem(ctx context.Context, id int64) error
	DeleteItem(ctx context.Context, id int64) error
	ReceiveStock(ctx context.Context, itemID int64, qty int, reason string, ref *string) (*models.Item, error)
	IssueStock(ctx context.Context, itemID int64, qty int, reason string, ref *string) (*models.Item, error)
	RecalculateQuantity(ctx context.Context, itemID int64) (*models.Item, error)
	ListTransactions(ctx context.Context, itemID int64) ([]models.StockTransaction, error)
}

type service struct {
	items  items.Repository
	ledger ledger.Repository
	tx     txRunner
	stock  *metrics.StockMetrics
}

// NewService builds an inventory service with the required dependencies.
// Metrics are optional; a nil StockMetrics is a no-op.
func NewService(itemRepo items.Repository, ledgerRepo ledger.Repository, tx txRunner, stock *metrics.StockMetrics) (Service, error) {
	if itemRepo == nil {
		return nil, fmt.Errorf("items repository required")
	}
	if ledgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		items:  itemRepo,
		ledger: ledgerRepo,
		tx:     tx,
		stock:  stock,
	}, nil
}

// GenerateSKU derives the next sequential SKU from the current item count.
// Two concurrent callers can draw the same value; the unique index rejects
// the loser at insert time.
func (s *service) GenerateSKU(ctx context.Context) (string, error) {
	count, err := s.items.Count(ctx)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeStorage, err, "count items")
	}
	return fmt.Sprintf("SKU-%06d", count+1), nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*models.Item, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "name is required")
	}

	quantity := 0
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	if quantity < 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "quantity must not be negative")
	}

	minQuantity := 0
	if input.MinQuantity != nil {
		minQuantity = *input.MinQuantity
	}
	if minQuantity < 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "min_quantity must not be negative")
	}

	unitCost := decimal.Zero
	if input.UnitCost != nil {
		unitCost = *input.UnitCost
	}
	if unitCost.IsNegative() {
		return nil, apperrors.New(apperrors.CodeValidation, "unit_cost must not be negative")
	}

	price := decimal.Zero
	if input.Price != nil {
		price = *input.Price
	}
	if price.IsNegative() {
		return nil, apperrors.New(apperrors.CodeValidation, "price must not be negative")
	}

	var barcode *string
	if input.Barcode != nil {
		if b := strings.TrimSpace(*input.Barcode); b != "" {
			barcode = &b
		}
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		generated, err := s.GenerateSKU(ctx)
		if err != nil {
			return nil, err
		}
		sku = generated
	}

	item := models.Item{
		SKU:         sku,
		Name:        name,
		Quantity:    quantity,
		MinQuantity: minQuantity,
		UnitCost:    unitCost,
		Price:       price,
		Barcode:     barcode,
		Active:      active,
	}
	if err := s.items.Create(ctx, &item); err != nil {
		if typed := apperrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, apperrors.Wrap(apperrors.CodeStorage, err, "create item")
	}
	return &item, nil
}

func (s *service) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "item not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeStorage, err, "load item")
	}
	return item, nil
}

func (s *service) GetItemBySKU(ctx context.Context, sku string) (*models.Item, error) {
	item, err := s.items.FindBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "item not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeStorage, err, "load item")
	}
	return item, nil
}

func (s *service) ListItems(ctx context.Context, filter items.ListFilter) ([]models.Item, error) {
	list, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, err, "list items")
	}
	return list, nil
}

func (s *service) UpdateItem(ctx context.Context, id int64, input items.UpdateInput) (*models.Item, error) {
	if input.IsEmpty() {
		return s.GetItem(ctx, id)
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "name must not be empty")
	}
	if input.SKU != nil && strings.TrimSpace(*input.SKU) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "sku must not be empty")
	}
	if input.MinQuantity != nil && *input.MinQuantity < 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "min_quantity must not be negative")
	}
	if input.UnitCost != nil && input.UnitCost.IsNegative() {
		return nil, apperrors.New(apperrors.CodeValidation, "unit_cost must not be negative")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, apperrors.New(apperrors.CodeValidation, "price must not be negative")
	}

	if err := s.items.Update(ctx, id, input); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "item not found")
		}
		if typed := apperrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, apperrors.Wrap(apperrors.CodeStorage, err, "update item")
	}
	return s.GetItem(ctx, id)
}

func (s *service) SoftDeleteItem(ctx context.Context, id int64) error {
	if err := s.items.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "item not found")
		}
		return apperrors.Wrap(apperrors.CodeStorage, err, "deactivate item")
	}
	return nil
}

// DeleteItem removes an item outright. Items that have ledger history are
// protected; deactivate them instead so the audit trail stays intact.
func (s *service) DeleteItem(ctx context.Context, id int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		itemRepo := s.items.WithTx(tx)
		ledgerRepo := s.ledger.WithTx(tx)

		count, err := ledgerRepo.CountByItem(ctx, id)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, err, "count stock history")
		}
		if count > 0 {
			return apperrors.New(apperrors.CodeConflict, "item has stock history; deactivate it instead")
		}

		if err := itemRepo.HardDelete(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.CodeNotFound, "item not found")
			}
			return apperrors.Wrap(apperrors.CodeStorage, err, "delete item")
		}
		return nil
	})
}

func (s *service) ReceiveStock(ctx context.Context, itemID int64, qty int, reason string, ref *string) (*models.Item, error) {
	if qty <= 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "quantity must be positive")
	}

	var updated *models.Item
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		itemRepo := s.items.WithTx(tx)
		ledgerRepo := s.ledger.WithTx(tx)

		ok, err := itemRepo.AddQuantity(ctx, itemID, qty)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, err, "apply stock receipt")
		}
		if !ok {
			return apperrors.New(apperrors.CodeNotFound, "item not found")
		}

		if _, err := ledgerRepo.Append(ctx, itemID, qty, reason, ref); err != nil {
			if typed := apperrors.As(err); typed != nil {
				return typed
			}
			return apperrors.Wrap(apperrors.CodeStorage, err, "record stock receipt")
		}

		updated, err = itemRepo.FindByID(ctx, itemID)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, err, "reload item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.stock.IncMovement("receive")
	return updated, nil
}

func (s *service) IssueStock(ctx context.Context, itemID int64, qty int, reason string, ref *string) (*models.Item, error) {
	if qty <= 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "quantity must be positive")
	}

	var updated *models.Item
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		itemRepo := s.items.WithTx(tx)
		ledgerRepo := s.ledger.WithTx(tx)

		ok, err := itemRepo.TakeQuantity(ctx, itemID, qty)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, err, "apply stock issue")
		}
		if !ok {
			// the guarded update matched nothing: either the item is gone
			// or there is not enough on hand
			item, err := itemRepo.FindByID(ctx, itemID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.New(apperrors.CodeNotFound, "item not found")
				}
				return apperrors.Wrap(apperrors.CodeStorage, err, "load item")
			}
			return apperrors.New(apperrors.CodeInsufficientStock, "not enough stock on hand").
				WithDetails(map[string]int{"available": item.Quantity, "requested": qty})
		}

		if _, err := ledgerRepo.Append(ctx, itemID, -qty, reason, ref); err != nil {
			if typed := apperrors.As(err); typed != nil {
				return typed
			}
			return apperrors.Wrap(apperrors.CodeStorage, err, "record stock issue")
		}

		updated, err = itemRepo.FindByID(ctx, itemID)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, err, "reload item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.stock.IncMovement("issue")
	return updated, nil
}

// RecalculateQuantity overwrites the cached quantity with the ledger sum,
// repairing any drift between the two.
func (s *service) RecalculateQuantity(ctx context.Context, itemID int64) (*models.Item, error) {
	var updated *models.Item
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		itemRepo := s.items.WithTx(tx)
		ledgerRepo := s.ledger.WithTx(tx)

		sum, err := ledgerRepo.SumByItem(ctx, itemID)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, err, "sum stock history")
		}

		ok, err := itemRepo.SetQuantity(ctx, itemID, sum)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, err, "write recalculated quantity")
		}
		if !ok {
			return apperrors.New(apperrors.CodeNotFound, "item not found")
		}

		updated, err = itemRepo.FindByID(ctx, itemID)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeStorage, err, "reload item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) ListTransactions(ctx context.Context, itemID int64) ([]models.StockTransaction, error) {
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	txns, err := s.ledger.ListByItem(ctx, itemID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, err, "list stock history")
	}
	return txns, nil
}
