package calculator

import "math"

// MemberOrder is the minimal roster information the engine needs.
type MemberOrder struct {
	Order   int64
	HasPaid bool
}

// Share is one member's computed portion of the bill.
type Share struct {
	// FoodShare is the member's slice of the discounted food pool,
	// rounded to the nearest currency unit.
	FoodShare int64

	// Total is FoodShare plus the per-head service fee, rounded to the
	// nearest currency unit.
	Total int64

	// Percentage is the member's share of the original orders, 0-100.
	Percentage float64
}

// Breakdown holds the bill-level quantities derived from the account fields
// and the roster orders. It is the fixed input to per-member share
// computation; build one per recalculation and discard it afterwards.
type Breakdown struct {
	// TotalPaid is the amount actually paid for the bill.
	TotalPaid int64

	// FinalFoodTotal is the discounted food pool divided among members
	// by order ratio: TotalPaid minus service fees.
	FinalFoodTotal int64

	// TotalOriginalOrder is the sum of every member's order, including
	// zero-order members.
	TotalOriginalOrder int64

	// PerHeadServiceFee is the service fee split evenly per member.
	// Kept as a float so per-member totals round once, not twice.
	PerHeadServiceFee float64

	members []MemberOrder
}

// NewBreakdown derives the bill-level quantities from the account fields
// and the roster orders.
func NewBreakdown(foodSubtotal, serviceFees, totalDiscount int64, members []MemberOrder) Breakdown {
	totalPaid := foodSubtotal + serviceFees - totalDiscount

	var totalOrder int64
	for _, m := range members {
		totalOrder += m.Order
	}

	var perHead float64
	if len(members) > 0 {
		perHead = float64(serviceFees) / float64(len(members))
	}

	return Breakdown{
		TotalPaid:          totalPaid,
		FinalFoodTotal:     totalPaid - serviceFees,
		TotalOriginalOrder: totalOrder,
		PerHeadServiceFee:  perHead,
		members:            members,
	}
}

// CalculateShare computes one member's share of the bill given their
// original order amount. Pure: the breakdown is never modified.
func (b Breakdown) CalculateShare(order int64) Share {
	var ratio float64
	if b.TotalOriginalOrder > 0 {
		ratio = float64(order) / float64(b.TotalOriginalOrder)
	}

	foodShare := roundUnit(float64(b.FinalFoodTotal) * ratio)
	total := roundUnit(float64(foodShare) + b.PerHeadServiceFee)

	percentage := ratio * 100
	if percentage < 0 {
		percentage = 0
	}

	return Share{
		FoodShare:  foodShare,
		Total:      total,
		Percentage: percentage,
	}
}

// TotalReceived sums the computed totals of members who already paid.
// Shares are recomputed per member rather than summed from cached values,
// so the result never drifts after edits.
func (b Breakdown) TotalReceived() int64 {
	var sum int64
	for _, m := range b.members {
		if m.HasPaid {
			sum += b.CalculateShare(m.Order).Total
		}
	}
	return sum
}

// TotalMemberFoodOrders returns the sum of all member orders, exposed for
// display comparison against the bill's food subtotal.
func (b Breakdown) TotalMemberFoodOrders() int64 {
	return b.TotalOriginalOrder
}

// PerHeadServiceFeeRounded is the per-head service fee rounded to the
// nearest currency unit for display.
func (b Breakdown) PerHeadServiceFeeRounded() int64 {
	return roundUnit(b.PerHeadServiceFee)
}

// roundUnit rounds to the nearest whole currency unit, ties away from zero.
func roundUnit(v float64) int64 {
	return int64(math.Round(v))
}
