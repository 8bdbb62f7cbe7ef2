package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

func TestItemsCSVExport(t *testing.T) {
	stub := &stubInventoryService{
		list: []models.Item{
			{ID: 1, SKU: "SKU-000001", Name: "Widget", Quantity: 6, Active: true},
		},
	}
	handler := ItemsCSV(stub, testLogger(), time.UTC)

	req := httptest.NewRequest(http.MethodGet, "/exports/items.csv", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "items.csv") {
		t.Fatalf("unexpected disposition %q", got)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,sku,name") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "SKU-000001") {
		t.Fatalf("expected item row, got %q", lines[1])
	}
}

func TestItemsCSVExportEmptyStillHasHeader(t *testing.T) {
	handler := ItemsCSV(&stubInventoryService{}, testLogger(), time.UTC)

	req := httptest.NewRequest(http.MethodGet, "/exports/items.csv", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "id,sku,name") {
		t.Fatalf("expected header row, got %q", rec.Body.String())
	}
}

func TestItemsXLSXExport(t *testing.T) {
	stub := &stubInventoryService{
		list: []models.Item{
			{ID: 1, SKU: "SKU-000001", Name: "Widget", Quantity: 6, Active: true},
		},
	}
	handler := ItemsXLSX(stub, testLogger(), time.UTC)

	req := httptest.NewRequest(http.MethodGet, "/exports/items.xlsx", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "spreadsheetml") {
		t.Fatalf("unexpected content type %q", got)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("expected workbook bytes")
	}
}
