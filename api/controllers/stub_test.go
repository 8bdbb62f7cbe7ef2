package controllers

import (
	"context"
	"io"

	"github.com/stockroomhq/stockroom-backend/internal/inventory"
	"github.com/stockroomhq/stockroom-backend/internal/items"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

// stubInventoryService satisfies inventory.Service with canned results and
// records the arguments handlers pass through.
type stubInventoryService struct {
	item *models.Item
	list []models.Item
	txns []models.StockTransaction
	sku  string
	err  error

	createInput  inventory.CreateItemInput
	updateID     int64
	updateInput  items.UpdateInput
	listFilter   items.ListFilter
	movementQty  int
	movementWhy  string
	movementRef  *string
	recalcItemID int64
}

func (s *stubInventoryService) GenerateSKU(ctx context.Context) (string, error) {
	return s.sku, s.err
}

func (s *stubInventoryService) CreateItem(ctx context.Context, input inventory.CreateItemInput) (*models.Item, error) {
	s.createInput = input
	return s.item, s.err
}

func (s *stubInventoryService) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	return s.item, s.err
}

func (s *stubInventoryService) GetItemBySKU(ctx context.Context, sku string) (*models.Item, error) {
	return s.item, s.err
}

func (s *stubInventoryService) ListItems(ctx context.Context, filter items.ListFilter) ([]models.Item, error) {
	s.listFilter = filter
	return s.list, s.err
}

func (s *stubInventoryService) UpdateItem(ctx context.Context, id int64, input items.UpdateInput) (*models.Item, error) {
	s.updateID = id
	s.updateInput = input
	return s.item, s.err
}

func (s *stubInventoryService) SoftDeleteItem(ctx context.Context, id int64) error {
	return s.err
}

func (s *stubInventoryService) DeleteItem(ctx context.Context, id int64) error {
	return s.err
}

func (s *stubInventoryService) ReceiveStock(ctx context.Context, itemID int64, qty int, reason string, ref *string) (*models.Item, error) {
	s.movementQty = qty
	s.movementWhy = reason
	s.movementRef = ref
	return s.item, s.err
}

func (s *stubInventoryService) IssueStock(ctx context.Context, itemID int64, qty int, reason string, ref *string) (*models.Item, error) {
	s.movementQty = qty
	s.movementWhy = reason
	s.movementRef = ref
	return s.item, s.err
}

func (s *stubInventoryService) RecalculateQuantity(ctx context.Context, itemID int64) (*models.Item, error) {
	s.recalcItemID = itemID
	return s.item, s.err
}

func (s *stubInventoryService) ListTransactions(ctx context.Context, itemID int64) ([]models.StockTransaction, error) {
	return s.txns, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}
