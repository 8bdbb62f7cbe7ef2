package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/stockroomhq/stockroom-backend/internal/inventory"
	"github.com/stockroomhq/stockroom-backend/internal/items"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/metrics"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

type stubInventoryService struct {
	item *models.Item
}

func (s stubInventoryService) GenerateSKU(ctx context.Context) (string, error) {
	return "SKU-000001", nil
}

func (s stubInventoryService) CreateItem(ctx context.Context, input inventory.CreateItemInput) (*models.Item, error) {
	return s.item, nil
}

func (s stubInventoryService) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	if s.item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return s.item, nil
}

func (s stubInventoryService) GetItemBySKU(ctx context.Context, sku string) (*models.Item, error) {
	return s.GetItem(ctx, 0)
}

func (s stubInventoryService) ListItems(ctx context.Context, filter items.ListFilter) ([]models.Item, error) {
	if s.item == nil {
		return nil, nil
	}
	return []models.Item{*s.item}, nil
}

func (s stubInventoryService) UpdateItem(ctx context.Context, id int64, input items.UpdateInput) (*models.Item, error) {
	return s.GetItem(ctx, id)
}

func (s stubInventoryService) SoftDeleteItem(ctx context.Context, id int64) error {
	return nil
}

func (s stubInventoryService) DeleteItem(ctx context.Context, id int64) error {
	return nil
}

func (s stubInventoryService) ReceiveStock(ctx context.Context, itemID int64, qty int, reason string, ref *string) (*models.Item, error) {
	return s.GetItem(ctx, itemID)
}

func (s stubInventoryService) IssueStock(ctx context.Context, itemID int64, qty int, reason string, ref *string) (*models.Item, error) {
	return s.GetItem(ctx, itemID)
}

func (s stubInventoryService) RecalculateQuantity(ctx context.Context, itemID int64) (*models.Item, error) {
	return s.GetItem(ctx, itemID)
}

func (s stubInventoryService) ListTransactions(ctx context.Context, itemID int64) ([]models.StockTransaction, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Env: "test", Port: "0"},
		DB:     config.DBConfig{Driver: config.DriverSQLite, Path: "data/test.db"},
		Export: config.ExportConfig{Timezone: "UTC"},
	}
}

func newTestRouter(dbP stubPinger, svc inventory.Service) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	reg := prometheus.NewRegistry()
	return NewRouter(
		testConfig(),
		logg,
		dbP,
		reg,
		metrics.NewHTTPMetrics(reg),
		svc,
		nil,
	)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(stubPinger{}, stubInventoryService{})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestHealthReadyReportsStoreFailure(t *testing.T) {
	router := newTestRouter(stubPinger{err: io.ErrClosedPipe}, stubInventoryService{})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(stubPinger{}, stubInventoryService{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestItemRoutesWired(t *testing.T) {
	item := &models.Item{ID: 1, SKU: "SKU-000001", Name: "Widget", Quantity: 6, Active: true}
	router := newTestRouter(stubPinger{}, stubInventoryService{item: item})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items/1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data items.ItemDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.SKU != "SKU-000001" {
		t.Fatalf("unexpected sku %q", envelope.Data.SKU)
	}
}

func TestUnknownItemIs404(t *testing.T) {
	router := newTestRouter(stubPinger{}, stubInventoryService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items/99", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestExportRouteWired(t *testing.T) {
	item := &models.Item{ID: 1, SKU: "SKU-000001", Name: "Widget"}
	router := newTestRouter(stubPinger{}, stubInventoryService{item: item})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exports/items.csv", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
		t.Fatalf("unexpected content type %q", got)
	}
}

func TestRequestIDHeaderSet(t *testing.T) {
	router := newTestRouter(stubPinger{}, stubInventoryService{})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a request id header")
	}
}
