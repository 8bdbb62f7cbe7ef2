package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	apperrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.db")
	conn, err := gorm.Open(sqlite.Open("file:"+path+"?_fk=1&_busy_timeout=5000"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Item{}, &models.StockTransaction{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func mustCreateTestItem(t *testing.T, conn *gorm.DB) *models.Item {
	t.Helper()
	item := &models.Item{SKU: "SKU-000001", Name: "Widget", Active: true}
	if err := conn.Create(item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

func TestAppendAndList(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	item := mustCreateTestItem(t, conn)

	ref := "PO-1"
	first, err := repo.Append(ctx, item.ID, 10, "receive", &ref)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected assigned id")
	}

	if _, err := repo.Append(ctx, item.ID, -4, "issue", nil); err != nil {
		t.Fatalf("append issue: %v", err)
	}

	txns, err := repo.ListByItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
	if txns[0].Delta != 10 || txns[1].Delta != -4 {
		t.Fatalf("expected oldest first, got deltas %d, %d", txns[0].Delta, txns[1].Delta)
	}
	if txns[0].Ref == nil || *txns[0].Ref != "PO-1" {
		t.Fatalf("expected ref PO-1, got %v", txns[0].Ref)
	}
}

func TestAppendRejectsZeroDelta(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	item := mustCreateTestItem(t, conn)

	_, err := repo.Append(context.Background(), item.ID, 0, "noop", nil)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAppendRejectsUnknownItem(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	_, err := repo.Append(context.Background(), 9999, 5, "receive", nil)
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestSumByItem(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	item := mustCreateTestItem(t, conn)

	// empty history sums to zero
	sum, err := repo.SumByItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != 0 {
		t.Fatalf("expected 0, got %d", sum)
	}

	for _, delta := range []int{10, -4, 7} {
		reason := "receive"
		if delta < 0 {
			reason = "issue"
		}
		if _, err := repo.Append(ctx, item.ID, delta, reason, nil); err != nil {
			t.Fatalf("append %d: %v", delta, err)
		}
	}

	sum, err = repo.SumByItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != 13 {
		t.Fatalf("expected 13, got %d", sum)
	}
}

func TestCountByItem(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	item := mustCreateTestItem(t, conn)

	count, err := repo.CountByItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}

	if _, err := repo.Append(ctx, item.ID, 3, "receive", nil); err != nil {
		t.Fatalf("append: %v", err)
	}

	count, err = repo.CountByItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1, got %d", count)
	}
}
