// Package pricing computes booking totals and the platform commission.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"petcare-backend/internal/shared/apperror"
)

const ErrCodeInvalidPetCount = "PRC001"

// DefaultCommissionRate is the platform's cut of a booking total.
var DefaultCommissionRate = decimal.NewFromFloat(0.10)

// Priced is anything carrying a unit price, typically a catalog service.
type Priced interface {
	UnitPrice() decimal.Decimal
}

// ComputeTotal returns the sum of all unit prices multiplied by petCount.
func ComputeTotal[T Priced](items []T, petCount int) (decimal.Decimal, error) {
	if petCount < 1 {
		return decimal.Zero, apperror.NewValidation(
			ErrCodeInvalidPetCount,
			fmt.Sprintf("pet count must be at least 1, got %d", petCount),
		)
	}

	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.UnitPrice())
	}

	return sum.Mul(decimal.NewFromInt(int64(petCount))), nil
}

// ComputeCommission returns total*rate rounded half-up to two decimal places.
func ComputeCommission(total, rate decimal.Decimal) decimal.Decimal {
	return total.Mul(rate).Round(2)
}
