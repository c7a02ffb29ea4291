package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tuanlee/sharebill/internal/models"
)

func TestSQLiteStore(t *testing.T) {
	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "sharebill-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("absent keys return defaults", func(t *testing.T) {
		members, err := store.LoadMembers(ctx)
		if err != nil {
			t.Fatalf("LoadMembers failed: %v", err)
		}
		if members != nil {
			t.Errorf("expected nil members, got %v", members)
		}

		bill, err := store.LoadBill(ctx)
		if err != nil {
			t.Fatalf("LoadBill failed: %v", err)
		}
		if bill != (models.BillAccount{}) {
			t.Errorf("expected zero bill, got %+v", bill)
		}

		names, err := store.LoadNames(ctx)
		if err != nil {
			t.Fatalf("LoadNames failed: %v", err)
		}
		if names != nil {
			t.Errorf("expected nil names for never-written key, got %v", names)
		}

		ts, err := store.LoadLastUpdated(ctx)
		if err != nil {
			t.Fatalf("LoadLastUpdated failed: %v", err)
		}
		if ts != "" {
			t.Errorf("expected empty timestamp, got %q", ts)
		}
	})

	t.Run("members round-trip", func(t *testing.T) {
		members := []models.Member{
			{ID: "m1", Name: "Alice", Order: 180000, HasPaid: true},
			{ID: "m2", Name: "Bob", Order: 240000},
		}
		if err := store.SaveMembers(ctx, members); err != nil {
			t.Fatalf("SaveMembers failed: %v", err)
		}

		got, err := store.LoadMembers(ctx)
		if err != nil {
			t.Fatalf("LoadMembers failed: %v", err)
		}
		if !reflect.DeepEqual(got, members) {
			t.Errorf("LoadMembers = %v, want %v", got, members)
		}
	})

	t.Run("bill round-trip overwrites previous value", func(t *testing.T) {
		first := models.BillAccount{FoodSubtotal: 600000, ServiceFees: 30000, TotalDiscount: 90000, PaidBy: "Alice"}
		if err := store.SaveBill(ctx, first); err != nil {
			t.Fatalf("SaveBill failed: %v", err)
		}

		second := first
		second.TotalDiscount = 0
		if err := store.SaveBill(ctx, second); err != nil {
			t.Fatalf("SaveBill failed: %v", err)
		}

		got, err := store.LoadBill(ctx)
		if err != nil {
			t.Fatalf("LoadBill failed: %v", err)
		}
		if got != second {
			t.Errorf("LoadBill = %+v, want %+v", got, second)
		}
	})

	t.Run("empty names distinct from never written", func(t *testing.T) {
		if err := store.SaveNames(ctx, []string{}); err != nil {
			t.Fatalf("SaveNames failed: %v", err)
		}
		names, err := store.LoadNames(ctx)
		if err != nil {
			t.Fatalf("LoadNames failed: %v", err)
		}
		if names == nil || len(names) != 0 {
			t.Errorf("expected empty non-nil names, got %v", names)
		}
	})

	t.Run("qr codes round-trip", func(t *testing.T) {
		codes := []models.QRCodeItem{
			{ID: "q1", Type: "Momo", ImageData: "data:image/png;base64,AAAA"},
		}
		if err := store.SaveQRCodes(ctx, codes); err != nil {
			t.Fatalf("SaveQRCodes failed: %v", err)
		}
		got, err := store.LoadQRCodes(ctx)
		if err != nil {
			t.Fatalf("LoadQRCodes failed: %v", err)
		}
		if !reflect.DeepEqual(got, codes) {
			t.Errorf("LoadQRCodes = %v, want %v", got, codes)
		}
	})

	t.Run("last updated round-trip including clear", func(t *testing.T) {
		if err := store.SaveLastUpdated(ctx, "2026-08-31T10:00:00Z"); err != nil {
			t.Fatalf("SaveLastUpdated failed: %v", err)
		}
		ts, err := store.LoadLastUpdated(ctx)
		if err != nil {
			t.Fatalf("LoadLastUpdated failed: %v", err)
		}
		if ts != "2026-08-31T10:00:00Z" {
			t.Errorf("LoadLastUpdated = %q", ts)
		}

		// Clearing stores a JSON null, which loads back as "".
		if err := store.SaveLastUpdated(ctx, ""); err != nil {
			t.Fatalf("SaveLastUpdated clear failed: %v", err)
		}
		ts, err = store.LoadLastUpdated(ctx)
		if err != nil {
			t.Fatalf("LoadLastUpdated failed: %v", err)
		}
		if ts != "" {
			t.Errorf("LoadLastUpdated after clear = %q, want empty", ts)
		}
	})

	t.Run("state survives reopen", func(t *testing.T) {
		if err := store.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		reopened, err := New(dbPath)
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}
		defer reopened.Close()
		store = reopened

		members, err := reopened.LoadMembers(ctx)
		if err != nil {
			t.Fatalf("LoadMembers failed: %v", err)
		}
		if len(members) != 2 {
			t.Errorf("expected 2 members after reopen, got %d", len(members))
		}
	})
}
