package session

import (
	"strings"
	"testing"
	"time"

	"epark/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

func testSpace() models.ParkingSpace {
	return models.ParkingSpace{
		ID:              "space-1",
		Name:            "Ikeja City Mall Parking",
		Address:         "Obafemi Awolowo Way, Ikeja",
		TotalSpaces:     20,
		AvailableSpaces: 5,
		PricePerHour:    50000, // ₦500/hr in kobo
		OperatorID:      "op-1",
	}
}

func testDriver() models.User {
	return models.User{
		ID:           "driver-1",
		Email:        "ada@example.com",
		FullName:     "Ada Obi",
		Phone:        "+2348012345678",
		VehiclePlate: "LAG-123-XY",
	}
}

func reserve(t *testing.T) models.ParkingSession {
	t.Helper()
	s, err := Reserve(ReserveInput{Space: testSpace(), Driver: testDriver(), OperatorEmail: "op@example.com"}, t0)
	require.NoError(t, err)
	return s
}

func activeAt(t *testing.T, checkIn time.Time) models.ParkingSession {
	t.Helper()
	s, err := CheckIn(reserve(t), checkIn)
	require.NoError(t, err)
	return s
}

func TestReserve(t *testing.T) {
	s := reserve(t)

	assert.Equal(t, models.SessionReserved, s.Status)
	assert.Equal(t, models.PaymentPending, s.PaymentStatus)
	assert.Equal(t, t0, s.ReservedAt)
	assert.Equal(t, "space-1", s.ParkingSpaceID)
	assert.Equal(t, "driver-1", s.DriverID)
	assert.Equal(t, "op-1", s.OperatorID)
	assert.Equal(t, "LAG-123-XY", s.VehiclePlate)
	assert.Equal(t, int64(50000), s.HourlyRate)
	assert.NotEmpty(t, s.ID)
	assert.True(t, strings.HasPrefix(s.BookingCode, "EPK-"), "booking code %q", s.BookingCode)
	assert.Nil(t, s.CheckInTime)
}

func TestReserveNoAvailability(t *testing.T) {
	space := testSpace()
	space.AvailableSpaces = 0

	s, err := Reserve(ReserveInput{Space: space, Driver: testDriver()}, t0)
	assert.ErrorIs(t, err, ErrNoAvailability)
	assert.Empty(t, s.ID, "no session should be created")
}

func TestBookingCodesUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := NewBookingCode(t0)
		assert.False(t, seen[code], "duplicate booking code %q", code)
		seen[code] = true
	}
}

func TestCheckIn(t *testing.T) {
	s, err := CheckIn(reserve(t), t0.Add(10*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, models.SessionActive, s.Status)
	require.NotNil(t, s.CheckInTime)
	assert.Equal(t, t0.Add(10*time.Minute), *s.CheckInTime)
}

func TestCheckInTwiceRejected(t *testing.T) {
	s := activeAt(t, t0)

	again, err := CheckIn(s, t0.Add(time.Minute))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, s, again, "session must be unchanged on rejection")
}

func TestPauseResumeAccumulates(t *testing.T) {
	s := activeAt(t, t0)

	s, err := Pause(s, t0.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, models.SessionPaused, s.Status)

	s, err = Resume(s, t0.Add(40*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, models.SessionActive, s.Status)
	assert.Equal(t, (30 * time.Minute).Milliseconds(), s.TotalPausedDurationMs)

	// second pause interval adds to the accumulator
	s, err = Pause(s, t0.Add(50*time.Minute))
	require.NoError(t, err)
	s, err = Resume(s, t0.Add(55*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, (35 * time.Minute).Milliseconds(), s.TotalPausedDurationMs)
}

func TestPauseRequiresActive(t *testing.T) {
	_, err := Pause(reserve(t), t0)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	s := activeAt(t, t0)
	s, err = Pause(s, t0.Add(time.Minute))
	require.NoError(t, err)
	_, err = Pause(s, t0.Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestResumeRequiresPaused(t *testing.T) {
	_, err := Resume(activeAt(t, t0), t0.Add(time.Minute))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCheckoutBillsCeilHours(t *testing.T) {
	// 125 minutes at ₦500/hr rounds up to 3 hours
	s := activeAt(t, t0)

	s, err := Checkout(s, 0, t0.Add(125*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, models.SessionCompleted, s.Status)
	assert.Equal(t, models.PaymentPaid, s.PaymentStatus)
	require.NotNil(t, s.CheckOutTime)
	assert.Equal(t, 3, s.TotalHours)
	assert.Equal(t, int64(150000), s.TotalAmount)
	assert.Equal(t, int64(0), s.DiscountAmount)
	assert.Equal(t, int64(150000), s.FinalAmount)
	assert.Equal(t, int64(22500), s.PlatformCommission)  // ₦225.00
	assert.Equal(t, int64(127500), s.OperatorEarnings)   // ₦1275.00
}

func TestCheckoutSubtractsPausedTime(t *testing.T) {
	// check in at T, pause at T+10m, resume at T+40m, checkout at T+70m:
	// 40 billable minutes -> 1 hour
	s := activeAt(t, t0)

	s, err := Pause(s, t0.Add(10*time.Minute))
	require.NoError(t, err)
	s, err = Resume(s, t0.Add(40*time.Minute))
	require.NoError(t, err)

	s, err = Checkout(s, 0, t0.Add(70*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, 1, s.TotalHours)
	assert.Equal(t, int64(50000), s.TotalAmount)
}

func TestCheckoutWhilePaused(t *testing.T) {
	s := activeAt(t, t0)
	s, err := Pause(s, t0.Add(30*time.Minute))
	require.NoError(t, err)

	s, err = Checkout(s, 0, t0.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, s.Status)
	assert.Equal(t, 2, s.TotalHours)
}

func TestCheckoutOnlyFirstCallSettles(t *testing.T) {
	s := activeAt(t, t0)
	s, err := Checkout(s, 0, t0.Add(61*time.Minute))
	require.NoError(t, err)

	again, err := Checkout(s, 0, t0.Add(3*time.Hour))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, s.TotalAmount, again.TotalAmount)
	assert.Equal(t, s.OperatorEarnings, again.OperatorEarnings)
	assert.Equal(t, s.CheckOutTime, again.CheckOutTime)
}

func TestCancelReservedAlwaysAllowed(t *testing.T) {
	s := reserve(t)

	s, err := Cancel(s, t0.Add(6*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.SessionCancelled, s.Status)
	require.NotNil(t, s.CancellationTime)
	assert.Equal(t, int64(0), s.TotalAmount, "cancellation carries no charge")
	assert.Equal(t, models.PaymentPending, s.PaymentStatus)
}

func TestCancelWindowBoundary(t *testing.T) {
	// at exactly 5:00 after check-in the cancel still succeeds
	s, err := Cancel(activeAt(t, t0), t0.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, models.SessionCancelled, s.Status)

	// at 5:01 it is rejected
	_, err = Cancel(activeAt(t, t0), t0.Add(5*time.Minute+time.Second))
	assert.ErrorIs(t, err, ErrCancellationWindowExpired)
}

func TestNoTransitionOutOfTerminalStates(t *testing.T) {
	completed, err := Checkout(activeAt(t, t0), 0, t0.Add(time.Hour))
	require.NoError(t, err)
	cancelled, err := Cancel(reserve(t), t0.Add(time.Minute))
	require.NoError(t, err)

	now := t0.Add(2 * time.Hour)
	for _, s := range []models.ParkingSession{completed, cancelled} {
		_, err = CheckIn(s, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = Pause(s, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = Resume(s, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = Checkout(s, 0, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = Cancel(s, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestReserveCheckInCheckoutEndToEnd(t *testing.T) {
	// 61 minutes at ₦500/hr bills 2 hours
	s := reserve(t)

	s, err := CheckIn(s, t0)
	require.NoError(t, err)

	s, err = Checkout(s, 0, t0.Add(61*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, 2, s.TotalHours)
	assert.Equal(t, int64(100000), s.TotalAmount)
	assert.Equal(t, int64(15000), s.PlatformCommission)
	assert.Equal(t, int64(85000), s.OperatorEarnings)
	assert.Equal(t, "1000.00", models.Naira(s.TotalAmount))
	assert.Equal(t, "150.00", models.Naira(s.PlatformCommission))
	assert.Equal(t, "850.00", models.Naira(s.OperatorEarnings))
}

func TestCheckoutAppliesDiscount(t *testing.T) {
	s := activeAt(t, t0)

	s, err := Checkout(s, 10, t0.Add(2*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, int64(100000), s.TotalAmount)
	assert.Equal(t, float64(10), s.DiscountPercentage)
	assert.Equal(t, int64(10000), s.DiscountAmount)
	assert.Equal(t, int64(90000), s.FinalAmount)
	assert.Equal(t, int64(13500), s.PlatformCommission)
	assert.Equal(t, int64(76500), s.OperatorEarnings)
}
