// Package service implements the application layer: it owns the bill state,
// routes edits through the validation rules, and persists every mutation.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tuanlee/sharebill/internal/calculator"
	"github.com/tuanlee/sharebill/internal/models"
	"github.com/tuanlee/sharebill/internal/names"
	"github.com/tuanlee/sharebill/internal/roster"
	"github.com/tuanlee/sharebill/internal/storage"
)

var (
	// ErrQRTypeRequired rejects a QR upload without a payment type.
	ErrQRTypeRequired = errors.New("qr type must be selected before upload")

	// ErrQRImageRequired rejects a QR upload without image data.
	ErrQRImageRequired = errors.New("qr image data is required")

	// ErrInvalidField rejects edits naming a field that does not exist or
	// carrying a value of the wrong type.
	ErrInvalidField = errors.New("invalid field")
)

// defaultNames seeds the name pool on first run.
var defaultNames = []string{"Alice", "Bob", "Charlie", "David", "Eve"}

// MemberView is a member row together with its computed shares.
type MemberView struct {
	models.Member
	FoodShare  int64   `json:"foodShare"`
	Total      int64   `json:"total"`
	Percentage float64 `json:"percentage"`
	Editing    bool    `json:"editing"`
}

// Snapshot is the full render state handed to the UI collaborator.
type Snapshot struct {
	Bill                  models.BillAccount  `json:"bill"`
	TotalPaid             int64               `json:"totalPaid"`
	FinalFoodTotal        int64               `json:"finalFoodTotal"`
	PerHeadServiceFee     int64               `json:"perHeadServiceFee"`
	TotalMemberFoodOrders int64               `json:"totalMemberFoodOrders"`
	TotalReceived         int64               `json:"totalReceived"`
	Members               []MemberView        `json:"members"`
	Names                 []string            `json:"predefinedMemberNames"`
	QRCodes               []models.QRCodeItem `json:"qrCodeList"`
	LastUpdated           string              `json:"lastUpdated,omitempty"`
	ResetCountdown        int                 `json:"resetCountdown,omitempty"`
}

// BillService owns the bill state. Every mutation replaces the relevant
// slice or struct with a new value, persists it, and stamps lastUpdated, so
// concurrent snapshot reads always see a consistent state.
type BillService struct {
	mu       sync.Mutex
	store    storage.Store
	bill     models.BillAccount
	members  []models.Member
	registry *names.Registry
	qrCodes  []models.QRCodeItem
	editor   *roster.Editor

	lastUpdated string

	resetSeconds int
	reset        *Countdown
	tick         time.Duration // countdown tick, shortened in tests
}

// NewBillService loads persisted state from the store and returns the
// service. The name pool is seeded with defaults on first run.
func NewBillService(store storage.Store, resetSeconds int) (*BillService, error) {
	ctx := context.Background()

	bill, err := store.LoadBill(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bill: %w", err)
	}
	members, err := store.LoadMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	pool, err := store.LoadNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("load names: %w", err)
	}
	if pool == nil {
		pool = defaultNames
	}
	qrCodes, err := store.LoadQRCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load qr codes: %w", err)
	}
	lastUpdated, err := store.LoadLastUpdated(ctx)
	if err != nil {
		return nil, fmt.Errorf("load last updated: %w", err)
	}

	return &BillService{
		store:        store,
		bill:         bill,
		members:      members,
		registry:     names.New(pool...),
		qrCodes:      qrCodes,
		editor:       roster.NewEditor(),
		lastUpdated:  lastUpdated,
		resetSeconds: resetSeconds,
		tick:         time.Second,
	}, nil
}

// Snapshot returns the current render state with all shares recomputed.
func (s *BillService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *BillService) snapshotLocked() Snapshot {
	orders := make([]calculator.MemberOrder, len(s.members))
	for i, m := range s.members {
		orders[i] = calculator.MemberOrder{Order: m.Order, HasPaid: m.HasPaid}
	}
	breakdown := calculator.NewBreakdown(s.bill.FoodSubtotal, s.bill.ServiceFees, s.bill.TotalDiscount, orders)

	views := make([]MemberView, len(s.members))
	for i, m := range s.members {
		share := breakdown.CalculateShare(m.Order)
		views[i] = MemberView{
			Member:     m,
			FoodShare:  share.FoodShare,
			Total:      share.Total,
			Percentage: share.Percentage,
			Editing:    s.editor.State(m.ID) == roster.Adding,
		}
	}

	var countdown int
	if s.reset != nil && s.reset.Active() {
		countdown = s.reset.Remaining()
	}

	return Snapshot{
		Bill:                  s.bill,
		TotalPaid:             breakdown.TotalPaid,
		FinalFoodTotal:        breakdown.FinalFoodTotal,
		PerHeadServiceFee:     breakdown.PerHeadServiceFeeRounded(),
		TotalMemberFoodOrders: breakdown.TotalMemberFoodOrders(),
		TotalReceived:         breakdown.TotalReceived(),
		Members:               views,
		Names:                 s.registry.Names(),
		QRCodes:               s.qrCodes,
		LastUpdated:           s.lastUpdated,
		ResetCountdown:        countdown,
	}
}

// UpdateBill applies one raw field edit coming from the UI. Numeric fields
// are coerced with parse-or-zero semantics; paidBy is stored as-is.
func (s *BillService) UpdateBill(ctx context.Context, field, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bill := s.bill
	switch field {
	case "foodSubtotal":
		bill.FoodSubtotal = parseAmount(raw)
	case "serviceFees":
		bill.ServiceFees = parseAmount(raw)
	case "totalDiscount":
		bill.TotalDiscount = parseAmount(raw)
	case "paidBy":
		bill.PaidBy = raw
	default:
		return fmt.Errorf("%w: unknown bill field %q", ErrInvalidField, field)
	}
	s.bill = bill

	if err := s.store.SaveBill(ctx, s.bill); err != nil {
		return err
	}
	return s.touch(ctx)
}

// UpdateMember applies one field edit to a member row. Order edits run
// through the roster constraint check and leave the row untouched when
// rejected.
func (s *BillService) UpdateMember(ctx context.Context, memberID, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch field {
	case "order":
		updated, err := roster.SetOrder(s.members, memberID, coerceAmount(value), s.bill.FoodSubtotal)
		if err != nil {
			return err
		}
		s.members = updated

	case "hasPaid":
		paid, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: hasPaid expects a boolean, got %T", ErrInvalidField, value)
		}
		idx := memberIndex(s.members, memberID)
		if idx < 0 {
			return roster.ErrMemberNotFound
		}
		updated := make([]models.Member, len(s.members))
		copy(updated, s.members)
		updated[idx].HasPaid = paid
		s.members = updated

	case "name":
		// Direct set from the picker (or a clear); the free-text commit
		// path with its duplicate check is CommitName.
		name, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: name expects a string, got %T", ErrInvalidField, value)
		}
		idx := memberIndex(s.members, memberID)
		if idx < 0 {
			return roster.ErrMemberNotFound
		}
		updated := make([]models.Member, len(s.members))
		copy(updated, s.members)
		updated[idx].Name = name
		s.members = updated
		s.editor.End(memberID)

	default:
		return fmt.Errorf("%w: unknown member field %q", ErrInvalidField, field)
	}

	if err := s.store.SaveMembers(ctx, s.members); err != nil {
		return err
	}
	return s.touch(ctx)
}

// AddMember appends an empty row and opens it in the name entry state.
func (s *BillService) AddMember(ctx context.Context) (models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member := models.Member{ID: uuid.New().String()}
	s.members = append(s.members, member)
	s.editor.Begin(member.ID, "")

	if err := s.store.SaveMembers(ctx, s.members); err != nil {
		return models.Member{}, err
	}
	if err := s.touch(ctx); err != nil {
		return models.Member{}, err
	}
	return member, nil
}

// RemoveMember deletes a member row. The member's name stays in the
// registry; the two lifecycles are independent.
func (s *BillService) RemoveMember(ctx context.Context, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if memberIndex(s.members, memberID) < 0 {
		return roster.ErrMemberNotFound
	}

	kept := make([]models.Member, 0, len(s.members)-1)
	for _, m := range s.members {
		if m.ID != memberID {
			kept = append(kept, m)
		}
	}
	s.members = kept
	s.editor.End(memberID)

	if err := s.store.SaveMembers(ctx, s.members); err != nil {
		return err
	}
	return s.touch(ctx)
}

// BeginNameEdit moves a member row into the free-text name entry state,
// remembering the current name so a rename can revert or move its registry
// entry.
func (s *BillService) BeginNameEdit(memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := memberIndex(s.members, memberID)
	if idx < 0 {
		return roster.ErrMemberNotFound
	}
	s.editor.Begin(memberID, s.members[idx].Name)
	return nil
}

// CommitName validates and saves a free-text member name. On a rename the
// registry entry moves with it; on a fresh add the name joins the registry.
// Validation failure keeps the row in the entry state.
func (s *BillService) CommitName(ctx context.Context, memberID, input string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, saved, err := roster.SaveName(s.members, memberID, input)
	if err != nil {
		return err
	}
	s.members = updated

	prior, editing := s.editor.Prior(memberID)
	if editing && prior != "" && prior != saved {
		if !s.registry.Rename(prior, saved) {
			// The target name already exists in the pool; the old entry
			// still has to go.
			s.registry.Remove(prior)
			s.registry.Add(saved)
		}
	} else {
		s.registry.Add(saved)
	}
	s.editor.End(memberID)

	if err := s.store.SaveMembers(ctx, s.members); err != nil {
		return err
	}
	if err := s.store.SaveNames(ctx, s.registry.Names()); err != nil {
		return err
	}
	return s.touch(ctx)
}

// CancelNameEdit discards the name entry. A row that never had a committed
// name is removed entirely; a rename reverts to the prior name.
func (s *BillService) CancelNameEdit(ctx context.Context, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior, editing := s.editor.Prior(memberID)
	if !editing {
		return nil
	}
	s.editor.End(memberID)

	idx := memberIndex(s.members, memberID)
	if idx < 0 {
		return nil
	}

	if s.members[idx].Name == "" {
		kept := make([]models.Member, 0, len(s.members)-1)
		for _, m := range s.members {
			if m.ID != memberID {
				kept = append(kept, m)
			}
		}
		s.members = kept
	} else if prior != "" {
		updated := make([]models.Member, len(s.members))
		copy(updated, s.members)
		updated[idx].Name = prior
		s.members = updated
	}

	if err := s.store.SaveMembers(ctx, s.members); err != nil {
		return err
	}
	return s.touch(ctx)
}

// AddName adds a name to the pool directly (payer selector path).
func (s *BillService) AddName(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registry.Add(name) {
		return nil
	}
	return s.store.SaveNames(ctx, s.registry.Names())
}

// RemoveName deletes a name from the pool. Members already using the name
// keep it; clearing their rows is a separate explicit edit by the caller.
func (s *BillService) RemoveName(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registry.Remove(name) {
		return nil
	}
	return s.store.SaveNames(ctx, s.registry.Names())
}

// RenameName replaces a pool entry.
func (s *BillService) RenameName(ctx context.Context, oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registry.Rename(oldName, newName) {
		return nil
	}
	return s.store.SaveNames(ctx, s.registry.Names())
}

// AddQRCode stores an uploaded payment QR image.
func (s *BillService) AddQRCode(ctx context.Context, qrType, imageData string) (models.QRCodeItem, error) {
	if strings.TrimSpace(qrType) == "" {
		return models.QRCodeItem{}, ErrQRTypeRequired
	}
	if imageData == "" {
		return models.QRCodeItem{}, ErrQRImageRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := models.QRCodeItem{
		ID:        uuid.New().String(),
		Type:      qrType,
		ImageData: imageData,
	}
	s.qrCodes = append(s.qrCodes, item)

	if err := s.store.SaveQRCodes(ctx, s.qrCodes); err != nil {
		return models.QRCodeItem{}, err
	}
	if err := s.touch(ctx); err != nil {
		return models.QRCodeItem{}, err
	}
	return item, nil
}

// RemoveQRCode deletes a stored QR image. Removing an unknown ID is a no-op.
func (s *BillService) RemoveQRCode(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]models.QRCodeItem, 0, len(s.qrCodes))
	for _, qr := range s.qrCodes {
		if qr.ID != id {
			kept = append(kept, qr)
		}
	}
	if len(kept) == len(s.qrCodes) {
		return nil
	}
	s.qrCodes = kept

	if err := s.store.SaveQRCodes(ctx, s.qrCodes); err != nil {
		return err
	}
	return s.touch(ctx)
}

// StartReset arms the delete countdown and returns its length in seconds.
// An already-armed countdown is restarted. When the countdown expires the
// bill, roster, QR list and timestamp are cleared exactly once; the name
// pool survives.
func (s *BillService) StartReset() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reset != nil {
		s.reset.Cancel()
	}
	s.reset = StartCountdown(s.resetSeconds, s.tick, s.expireReset)
	return s.resetSeconds
}

// CancelReset disarms a pending delete countdown with no state change.
func (s *BillService) CancelReset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reset != nil {
		s.reset.Cancel()
		s.reset = nil
	}
}

func (s *BillService) expireReset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bill = models.BillAccount{}
	s.members = nil
	s.qrCodes = nil
	s.lastUpdated = ""
	s.reset = nil

	ctx := context.Background()
	if err := s.store.SaveBill(ctx, s.bill); err != nil {
		slog.Error("reset: failed to persist bill", "error", err)
	}
	if err := s.store.SaveMembers(ctx, nil); err != nil {
		slog.Error("reset: failed to persist members", "error", err)
	}
	if err := s.store.SaveQRCodes(ctx, nil); err != nil {
		slog.Error("reset: failed to persist qr codes", "error", err)
	}
	if err := s.store.SaveLastUpdated(ctx, ""); err != nil {
		slog.Error("reset: failed to persist timestamp", "error", err)
	}
	slog.Info("Bill data reset")
}

// touch stamps and persists the last-updated timestamp. Callers hold the
// lock.
func (s *BillService) touch(ctx context.Context) error {
	s.lastUpdated = time.Now().Format(time.RFC3339)
	return s.store.SaveLastUpdated(ctx, s.lastUpdated)
}

func memberIndex(members []models.Member, memberID string) int {
	for i, m := range members {
		if m.ID == memberID {
			return i
		}
	}
	return -1
}

// parseAmount coerces raw UI input into a whole currency amount, defaulting
// to 0 when it does not parse as a number.
func parseAmount(raw string) int64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(f))
}

// coerceAmount accepts the value shapes a JSON body can deliver for an
// order edit.
func coerceAmount(value any) int64 {
	switch v := value.(type) {
	case float64:
		return int64(math.Round(v))
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		return parseAmount(v)
	default:
		return 0
	}
}
