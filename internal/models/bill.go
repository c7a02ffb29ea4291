package models

// BillAccount holds the authoritative bill-level monetary fields.
//
// TotalDiscount is the user-entered source of truth; TotalPaid is always
// derived from the other three fields. All amounts are in the smallest
// currency unit.
type BillAccount struct {
	// FoodSubtotal is the total original (undiscounted) cost of the
	// ordered food.
	FoodSubtotal int64 `json:"foodSubtotal"`

	// ServiceFees is the total surcharge (delivery, service) split evenly
	// across members.
	ServiceFees int64 `json:"serviceFees"`

	// TotalDiscount is the discount applied to the whole bill.
	TotalDiscount int64 `json:"totalDiscount"`

	// PaidBy is the name of the member who fronted the payment.
	// Informational only; it plays no part in allocation math.
	PaidBy string `json:"paidBy"`
}

// TotalPaid returns the amount actually paid for the bill.
func (b BillAccount) TotalPaid() int64 {
	return b.FoodSubtotal + b.ServiceFees - b.TotalDiscount
}
