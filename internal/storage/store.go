// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/tuanlee/sharebill/internal/models"
)

// Logical keys under which the application state persists. They mirror the
// key layout the original browser client kept in local storage, so exported
// state stays recognizable.
const (
	KeyMembers     = "billMembers"
	KeyBill        = "billDetails"
	KeyLastUpdated = "lastUpdated"
	KeyNames       = "predefinedMemberNames"
	KeyQRCodes     = "qrCodeList"
)

// Store is the durable key-value port the application persists through.
// Values are JSON-serializable snapshots keyed by the logical names above.
// This abstraction allows swapping storage backends without changing the
// service layer.
//
// Load methods return the zero value (nil slice, zero struct, empty string)
// when the key has never been written; callers fall back to defaults.
type Store interface {
	LoadMembers(ctx context.Context) ([]models.Member, error)
	SaveMembers(ctx context.Context, members []models.Member) error

	LoadBill(ctx context.Context) (models.BillAccount, error)
	SaveBill(ctx context.Context, bill models.BillAccount) error

	LoadNames(ctx context.Context) ([]string, error)
	SaveNames(ctx context.Context, names []string) error

	LoadQRCodes(ctx context.Context) ([]models.QRCodeItem, error)
	SaveQRCodes(ctx context.Context, codes []models.QRCodeItem) error

	LoadLastUpdated(ctx context.Context) (string, error)
	SaveLastUpdated(ctx context.Context, timestamp string) error

	// Close releases any resources held by the store.
	Close() error
}
