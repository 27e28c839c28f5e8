package orders

import "github.com/shopspring/decimal"

// LoyaltySummary is the customer's reward standing: one point per 2 € spent
// on completed orders, 1 € of discount per 10 points.
type LoyaltySummary struct {
	TotalSpent   decimal.Decimal
	Points       int64
	DiscountEUR  int64
	PointsToNext int64
}

// ComputeLoyalty derives the summary from the total spent on completed
// orders.
func ComputeLoyalty(totalSpent decimal.Decimal) LoyaltySummary {
	total := totalSpent.Round(2)
	points := total.Div(decimal.NewFromInt(2)).IntPart()

	remainder := points % 10
	pointsToNext := int64(0)
	if remainder != 0 {
		pointsToNext = 10 - remainder
	}

	return LoyaltySummary{
		TotalSpent:   total,
		Points:       points,
		DiscountEUR:  points / 10,
		PointsToNext: pointsToNext,
	}
}
