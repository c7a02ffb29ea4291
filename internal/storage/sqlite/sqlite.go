// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/tuanlee/sharebill/internal/models"
	"github.com/tuanlee/sharebill/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite. Each logical key is one
// row holding a JSON document.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path. It creates
// the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// get unmarshals the JSON document stored under key into v. It reports
// whether the key was present; an absent key leaves v untouched.
func (s *SQLiteStore) get(ctx context.Context, key string, v any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM bill_state WHERE key = ?", key,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// put stores v as a JSON document under key, replacing any previous value.
func (s *SQLiteStore) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bill_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(raw), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) LoadMembers(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if _, err := s.get(ctx, storage.KeyMembers, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *SQLiteStore) SaveMembers(ctx context.Context, members []models.Member) error {
	if members == nil {
		members = []models.Member{}
	}
	return s.put(ctx, storage.KeyMembers, members)
}

func (s *SQLiteStore) LoadBill(ctx context.Context) (models.BillAccount, error) {
	var bill models.BillAccount
	if _, err := s.get(ctx, storage.KeyBill, &bill); err != nil {
		return models.BillAccount{}, err
	}
	return bill, nil
}

func (s *SQLiteStore) SaveBill(ctx context.Context, bill models.BillAccount) error {
	return s.put(ctx, storage.KeyBill, bill)
}

// LoadNames returns the stored name pool. A nil slice means the key was
// never written, which callers use to seed defaults; an empty non-nil slice
// means the user emptied the pool on purpose.
func (s *SQLiteStore) LoadNames(ctx context.Context) ([]string, error) {
	var names []string
	found, err := s.get(ctx, storage.KeyNames, &names)
	if err != nil {
		return nil, err
	}
	if found && names == nil {
		names = []string{}
	}
	return names, nil
}

func (s *SQLiteStore) SaveNames(ctx context.Context, names []string) error {
	if names == nil {
		names = []string{}
	}
	return s.put(ctx, storage.KeyNames, names)
}

func (s *SQLiteStore) LoadQRCodes(ctx context.Context) ([]models.QRCodeItem, error) {
	var codes []models.QRCodeItem
	if _, err := s.get(ctx, storage.KeyQRCodes, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

func (s *SQLiteStore) SaveQRCodes(ctx context.Context, codes []models.QRCodeItem) error {
	if codes == nil {
		codes = []models.QRCodeItem{}
	}
	return s.put(ctx, storage.KeyQRCodes, codes)
}

// LoadLastUpdated returns the stored timestamp, or "" when none was saved.
// The original client stored null before the first save; a JSON null decodes
// to the empty string here as well.
func (s *SQLiteStore) LoadLastUpdated(ctx context.Context) (string, error) {
	var ts *string
	if _, err := s.get(ctx, storage.KeyLastUpdated, &ts); err != nil {
		return "", err
	}
	if ts == nil {
		return "", nil
	}
	return *ts, nil
}

func (s *SQLiteStore) SaveLastUpdated(ctx context.Context, timestamp string) error {
	if timestamp == "" {
		return s.put(ctx, storage.KeyLastUpdated, nil)
	}
	return s.put(ctx, storage.KeyLastUpdated, timestamp)
}
