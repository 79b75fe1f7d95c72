package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcare-backend/internal/shared/apperror"
)

type price string

func (p price) UnitPrice() decimal.Decimal {
	return decimal.RequireFromString(string(p))
}

func TestComputeTotal(t *testing.T) {
	total, err := ComputeTotal([]price{"20.00", "15.00"}, 2)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("70.00").Equal(total), total.String())

	total, err = ComputeTotal([]price{"9.99"}, 3)
	require.NoError(t, err)
	assert.Equal(t, "29.97", total.StringFixed(2))

	total, err = ComputeTotal([]price{}, 4)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestComputeTotalRejectsPetCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := ComputeTotal([]price{"10"}, n)
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	}
}

func TestComputeCommission(t *testing.T) {
	cases := []struct {
		total string
		want  string
	}{
		{"70.00", "7.00"},
		{"0", "0.00"},
		{"0.05", "0.01"}, // 0.005 rounds half-up
		{"0.04", "0.00"}, // 0.004 rounds down
		{"123.45", "12.35"},
		{"150000", "15000.00"},
	}

	for _, tc := range cases {
		got := ComputeCommission(decimal.RequireFromString(tc.total), DefaultCommissionRate)
		assert.Equal(t, tc.want, got.StringFixed(2), "total %s", tc.total)
	}
}

func TestComputeCommissionIsMonotonic(t *testing.T) {
	prev := decimal.Zero
	for cents := int64(0); cents <= 5000; cents += 7 {
		total := decimal.New(cents, -2)
		got := ComputeCommission(total, DefaultCommissionRate)
		assert.True(t, got.GreaterThanOrEqual(prev), "commission decreased at %s", total)
		prev = got
	}
}

func TestComputeCommissionCustomRate(t *testing.T) {
	got := ComputeCommission(decimal.RequireFromString("200"), decimal.RequireFromString("0.125"))
	assert.Equal(t, "25.00", got.StringFixed(2))
}
