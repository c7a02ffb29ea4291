package models

// Member represents one participant row on the bill roster.
type Member struct {
	// ID is the unique identifier for the member (UUID format), assigned
	// at creation and never changed.
	ID string `json:"id"`

	// Name is the member's display name. It may be empty while the row is
	// still being filled in. Non-empty names are unique across the roster,
	// compared case-insensitively.
	Name string `json:"name"`

	// Order is the amount this member individually ordered, in the
	// smallest currency unit. Never negative.
	Order int64 `json:"order"`

	// HasPaid marks whether the member already paid their share back.
	// It only affects the received total, never the share calculation.
	HasPaid bool `json:"hasPaid"`
}
