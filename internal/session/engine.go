package session

import (
	"errors"
	"fmt"
	"time"

	"epark/internal/models"

	"github.com/google/uuid"
)

// CancellationWindow is how long after check-in a driver may still cancel
// free of charge. Past it, the only way out of an active session is checkout.
const CancellationWindow = 5 * time.Minute

var (
	// ErrInvalidTransition - the requested action is not allowed from the
	// session's current status
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrCancellationWindowExpired - cancel requested more than
	// CancellationWindow after check-in
	ErrCancellationWindowExpired = errors.New("cancellation window expired")

	// ErrNoAvailability - reservation requested against a full space
	ErrNoAvailability = errors.New("no available spaces")
)

// ReserveInput carries the space and driver records a new session snapshots
// its fields from. The engine never dereferences the ids again afterwards.
type ReserveInput struct {
	Space         models.ParkingSpace
	Driver        models.User
	OperatorEmail string
}

// Reserve creates a new session in the reserved status. The hourly rate is
// copied from the space here and never changes for the life of the session,
// so billing is insulated from later price changes on the listing.
func Reserve(in ReserveInput, now time.Time) (models.ParkingSession, error) {
	if in.Space.AvailableSpaces < 1 {
		return models.ParkingSession{}, fmt.Errorf("%w: %q is full", ErrNoAvailability, in.Space.Name)
	}

	return models.ParkingSession{
		ID:                  uuid.New().String(),
		ParkingSpaceID:      in.Space.ID,
		ParkingSpaceName:    in.Space.Name,
		ParkingSpaceAddress: in.Space.Address,
		DriverID:            in.Driver.ID,
		DriverName:          in.Driver.FullName,
		DriverEmail:         in.Driver.Email,
		DriverPhone:         in.Driver.Phone,
		VehiclePlate:        in.Driver.VehiclePlate,
		OperatorID:          in.Space.OperatorID,
		OperatorEmail:       in.OperatorEmail,
		BookingCode:         NewBookingCode(now),
		ReservedAt:          now,
		HourlyRate:          in.Space.PricePerHour,
		Status:              models.SessionReserved,
		PaymentStatus:       models.PaymentPending,
	}, nil
}

// CheckIn moves a reserved session to active and starts the billing clock
func CheckIn(s models.ParkingSession, now time.Time) (models.ParkingSession, error) {
	if s.Status != models.SessionReserved {
		return s, transitionErr("check in", s.Status)
	}

	t := now
	s.CheckInTime = &t
	s.Status = models.SessionActive
	return s, nil
}

// Pause stops the billing clock on an active session
func Pause(s models.ParkingSession, now time.Time) (models.ParkingSession, error) {
	if s.Status != models.SessionActive {
		return s, transitionErr("pause", s.Status)
	}

	t := now
	s.PauseTime = &t
	s.Status = models.SessionPaused
	return s, nil
}

// Resume restarts the billing clock, folding the completed pause interval
// into the paused-duration accumulator. The accumulator only ever grows,
// and only here.
func Resume(s models.ParkingSession, now time.Time) (models.ParkingSession, error) {
	if s.Status != models.SessionPaused {
		return s, transitionErr("resume", s.Status)
	}

	s.TotalPausedDurationMs += now.Sub(*s.PauseTime).Milliseconds()
	t := now
	s.ResumeTime = &t
	s.Status = models.SessionActive
	return s, nil
}

// Checkout completes a session and settles its billing fields in one step.
// The discount percentage is supplied by the caller (admin-granted, per
// driver) and defaults to 0. Billing fields are set exactly once here;
// any later Checkout on the same session is rejected with
// ErrInvalidTransition and changes nothing.
func Checkout(s models.ParkingSession, discountPercentage float64, now time.Time) (models.ParkingSession, error) {
	if s.Status != models.SessionActive && s.Status != models.SessionPaused {
		return s, transitionErr("check out", s.Status)
	}

	bill := ComputeBilling(*s.CheckInTime, now, s.TotalPausedDurationMs, s.HourlyRate, discountPercentage)

	t := now
	s.CheckOutTime = &t
	s.TotalHours = bill.TotalHours
	s.TotalAmount = bill.TotalAmount
	s.DiscountPercentage = bill.DiscountPercentage
	s.DiscountAmount = bill.DiscountAmount
	s.FinalAmount = bill.FinalAmount
	s.PlatformCommission = bill.PlatformCommission
	s.OperatorEarnings = bill.OperatorEarnings
	s.Status = models.SessionCompleted
	s.PaymentStatus = models.PaymentPaid
	return s, nil
}

// Cancel voids a session with no charge. A reserved session can always be
// cancelled; an active one only within CancellationWindow of check-in.
func Cancel(s models.ParkingSession, now time.Time) (models.ParkingSession, error) {
	switch s.Status {
	case models.SessionReserved:
	case models.SessionActive:
		if now.Sub(*s.CheckInTime) > CancellationWindow {
			return s, fmt.Errorf("%w: cannot cancel after 5 minutes of check-in; please checkout instead",
				ErrCancellationWindowExpired)
		}
	default:
		return s, transitionErr("cancel", s.Status)
	}

	t := now
	s.CancellationTime = &t
	s.Status = models.SessionCancelled
	return s, nil
}

func transitionErr(action, status string) error {
	return fmt.Errorf("%w: cannot %s a %s session", ErrInvalidTransition, action, status)
}
