package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeBillingMinimumOneHour(t *testing.T) {
	b := ComputeBilling(t0, t0.Add(90*time.Second), 0, 50000, 0)
	assert.Equal(t, 1, b.TotalHours)
	assert.Equal(t, int64(50000), b.TotalAmount)
}

func TestComputeBillingZeroDuration(t *testing.T) {
	b := ComputeBilling(t0, t0, 0, 50000, 0)
	assert.Equal(t, 0, b.TotalHours)
	assert.Equal(t, int64(0), b.TotalAmount)
	assert.Equal(t, int64(0), b.PlatformCommission)
	assert.Equal(t, int64(0), b.OperatorEarnings)
}

func TestComputeBillingClampsNegativeBillable(t *testing.T) {
	// paused duration exceeding the wall-clock interval clamps to zero
	// rather than producing a negative bill
	b := ComputeBilling(t0, t0.Add(30*time.Minute), (45 * time.Minute).Milliseconds(), 50000, 0)
	assert.Equal(t, 0, b.TotalHours)
	assert.Equal(t, int64(0), b.TotalAmount)
}

func TestComputeBillingExactHourNotRoundedUp(t *testing.T) {
	b := ComputeBilling(t0, t0.Add(2*time.Hour), 0, 50000, 0)
	assert.Equal(t, 2, b.TotalHours)
}

func TestDiscountLaw(t *testing.T) {
	// finalAmount = totalAmount*(1-pct/100) within one kobo, and
	// earnings + commission always reassemble the final amount exactly
	for pct := float64(0); pct <= 100; pct += 0.5 {
		b := ComputeBilling(t0, t0.Add(3*time.Hour), 0, 73300, pct)

		assert.Equal(t, b.TotalAmount-b.DiscountAmount, b.FinalAmount)
		expected := float64(b.TotalAmount) * (1 - pct/100)
		assert.InDelta(t, expected, float64(b.FinalAmount), 1, "pct=%v", pct)
		assert.Equal(t, b.FinalAmount, b.OperatorEarnings+b.PlatformCommission, "pct=%v", pct)
	}
}

func TestDiscountPercentageClamped(t *testing.T) {
	b := ComputeBilling(t0, t0.Add(time.Hour), 0, 50000, 150)
	assert.Equal(t, int64(50000), b.DiscountAmount)
	assert.Equal(t, int64(0), b.FinalAmount)

	b = ComputeBilling(t0, t0.Add(time.Hour), 0, 50000, -5)
	assert.Equal(t, int64(0), b.DiscountAmount)
}

func TestRoundDivHalfUp(t *testing.T) {
	assert.Equal(t, int64(2), roundDiv(3, 2))  // 1.5 -> 2
	assert.Equal(t, int64(1), roundDiv(2, 2))
	assert.Equal(t, int64(1), roundDiv(149, 100)) // 1.49 -> 1
	assert.Equal(t, int64(2), roundDiv(150, 100)) // 1.50 -> 2
}
