package session

import (
	"math"
	"time"
)

// PlatformCommissionPercent is the fixed marketplace cut of the
// post-discount amount. Not configurable.
const PlatformCommissionPercent = 15

const hourMs = int64(time.Hour / time.Millisecond)

// Billing is the settled breakdown for a completed session. All amounts
// are kobo.
type Billing struct {
	TotalHours         int
	TotalAmount        int64
	DiscountPercentage float64
	DiscountAmount     int64
	FinalAmount        int64
	PlatformCommission int64
	OperatorEarnings   int64
}

// ComputeBilling charges ceil-hours of non-paused occupancy: any started
// hour bills as a full hour, so any session of positive billable duration
// bills at least one. The discount applies before the commission split,
// and earnings are the exact complement of the commission, so
// OperatorEarnings + PlatformCommission == FinalAmount always holds.
func ComputeBilling(checkIn, checkOut time.Time, pausedMs, hourlyRate int64, discountPercentage float64) Billing {
	billableMs := checkOut.Sub(checkIn).Milliseconds() - pausedMs
	if billableMs < 0 {
		billableMs = 0
	}

	hours := (billableMs + hourMs - 1) / hourMs

	total := hours * hourlyRate
	discount := discountAmount(total, discountPercentage)
	final := total - discount
	commission := roundDiv(final*PlatformCommissionPercent, 100)

	return Billing{
		TotalHours:         int(hours),
		TotalAmount:        total,
		DiscountPercentage: discountPercentage,
		DiscountAmount:     discount,
		FinalAmount:        final,
		PlatformCommission: commission,
		OperatorEarnings:   final - commission,
	}
}

// discountAmount converts the percentage to basis points before dividing
// so the arithmetic stays integral. Percentages outside [0,100] are
// clamped.
func discountAmount(total int64, percentage float64) int64 {
	if percentage <= 0 {
		return 0
	}
	if percentage > 100 {
		percentage = 100
	}
	basisPoints := int64(math.Round(percentage * 100))
	return roundDiv(total*basisPoints, 10_000)
}

// roundDiv divides non-negative n by d, rounding half up
func roundDiv(n, d int64) int64 {
	return (n + d/2) / d
}
