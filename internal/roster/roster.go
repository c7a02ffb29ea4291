// Package roster implements the mutation rules that keep member rows
// consistent with the bill account while they are edited.
package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/tuanlee/sharebill/internal/models"
)

var (
	// ErrNegativeAmount rejects order edits below zero.
	ErrNegativeAmount = errors.New("order amount cannot be negative")

	// ErrEmptyName rejects saving a member name that is empty after trimming.
	ErrEmptyName = errors.New("member name cannot be empty")

	// ErrDuplicateName rejects a member name already used by another row,
	// compared case-insensitively.
	ErrDuplicateName = errors.New("member name already exists in the roster")

	// ErrMemberNotFound reports an edit targeting an unknown member ID.
	ErrMemberNotFound = errors.New("member not found")
)

// OrderLimitError reports an order edit that would push the roster's order
// sum past the bill's food subtotal. Limit carries the numeric ceiling so
// callers can render it.
type OrderLimitError struct {
	Limit int64
}

func (e *OrderLimitError) Error() string {
	return fmt.Sprintf("total member orders cannot exceed the bill's food subtotal of %s", humanize.Comma(e.Limit))
}

// SetOrder validates and applies an order edit for one member, returning a
// new roster slice with only the target member changed. On validation
// failure the input roster is untouched and the returned slice is nil.
//
// The subtotal ceiling is checked only here, at the point of an order edit.
// Lowering foodSubtotal after orders were entered deliberately does not
// re-validate existing rows.
func SetOrder(members []models.Member, memberID string, proposed, foodSubtotal int64) ([]models.Member, error) {
	if proposed < 0 {
		return nil, ErrNegativeAmount
	}

	idx := indexOf(members, memberID)
	if idx < 0 {
		return nil, ErrMemberNotFound
	}

	var others int64
	for i, m := range members {
		if i != idx {
			others += m.Order
		}
	}
	if foodSubtotal > 0 && others+proposed > foodSubtotal {
		return nil, &OrderLimitError{Limit: foodSubtotal}
	}

	updated := make([]models.Member, len(members))
	copy(updated, members)
	updated[idx].Order = proposed
	return updated, nil
}

// SaveName validates and commits a member name, returning a new roster
// slice and the trimmed name that was stored. Names must be non-empty after
// trimming and unique among the other members, case-insensitively.
func SaveName(members []models.Member, memberID, name string) ([]models.Member, string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, "", ErrEmptyName
	}

	idx := indexOf(members, memberID)
	if idx < 0 {
		return nil, "", ErrMemberNotFound
	}

	for i, m := range members {
		if i != idx && strings.EqualFold(m.Name, trimmed) {
			return nil, "", ErrDuplicateName
		}
	}

	updated := make([]models.Member, len(members))
	copy(updated, members)
	updated[idx].Name = trimmed
	return updated, trimmed, nil
}

func indexOf(members []models.Member, memberID string) int {
	for i, m := range members {
		if m.ID == memberID {
			return i
		}
	}
	return -1
}
