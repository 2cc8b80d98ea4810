package service

import (
	"context"
	"fmt"
	"time"

	apperrors "epark/internal/errors"
	"epark/internal/logger"
	"epark/internal/messaging"
	"epark/internal/middleware"
	"epark/internal/models"
	"epark/internal/repository"
	"epark/internal/session"
)

type SessionService struct {
	sessionRepo *repository.SessionRepository
	spaceRepo   *repository.SpaceRepository
	userRepo    *repository.UserRepository
	natsClient  *messaging.NATSClient
}

func NewSessionService(sessionRepo *repository.SessionRepository, spaceRepo *repository.SpaceRepository, userRepo *repository.UserRepository, natsClient *messaging.NATSClient) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		spaceRepo:   spaceRepo,
		userRepo:    userRepo,
		natsClient:  natsClient,
	}
}

// Reserve books a spot for the driver. The reservation does not hold a
// physical slot; the availability counter only moves at check-in.
func (s *SessionService) Reserve(ctx context.Context, driverID string, req *models.ReserveSessionRequest) (*models.ReserveSessionResponse, error) {
	space, err := s.spaceRepo.GetByID(ctx, req.ParkingSpaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get parking space: %w", err)
	}
	if space == nil || space.Status != "active" {
		return nil, fmt.Errorf("parking space: %w", apperrors.ErrNotFound)
	}

	driver, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}
	if driver == nil {
		return nil, fmt.Errorf("driver: %w", apperrors.ErrNotFound)
	}

	operatorEmail := ""
	if operator, err := s.userRepo.GetByID(ctx, space.OperatorID); err == nil && operator != nil {
		operatorEmail = operator.Email
	}

	sess, err := session.Reserve(session.ReserveInput{
		Space:         *space,
		Driver:        *driver,
		OperatorEmail: operatorEmail,
	}, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Create(ctx, &sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	middleware.CountSessionTransition(sess.Status)
	s.publish(ctx, models.EventSessionReserved, sessionEvent(&sess))

	return &models.ReserveSessionResponse{
		ID:          sess.ID,
		BookingCode: sess.BookingCode,
	}, nil
}

// CheckIn activates a reserved session by its booking code (the QR scan at
// the gate). The availability counter is decremented first; if the guarded
// status update then loses a race, the decrement is compensated.
func (s *SessionService) CheckIn(ctx context.Context, req *models.CheckInRequest) (*models.SessionResponseItem, error) {
	sess, err := s.sessionRepo.GetByBookingCode(ctx, req.BookingCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return nil, fmt.Errorf("booking code: %w", apperrors.ErrNotFound)
	}

	updated, err := session.CheckIn(*sess, time.Now())
	if err != nil {
		return nil, err
	}

	ok, err := s.spaceRepo.AdjustAvailability(ctx, sess.ParkingSpaceID, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to claim a slot: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w at %s", session.ErrNoAvailability, sess.ParkingSpaceName)
	}

	ok, err = s.sessionRepo.UpdateFromStatus(ctx, &updated, models.SessionReserved)
	if err != nil || !ok {
		// Give the slot back; the session was concurrently moved on or
		// the write failed.
		if _, revertErr := s.spaceRepo.AdjustAvailability(ctx, sess.ParkingSpaceID, 1); revertErr != nil {
			logger.WithContext(ctx).Error("Failed to revert availability after check-in failure",
				"error", revertErr, "space_id", sess.ParkingSpaceID, "session_id", sess.ID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update session: %w", err)
		}
		return nil, session.ErrInvalidTransition
	}

	middleware.CountSessionTransition(updated.Status)
	s.publish(ctx, models.EventSessionCheckedIn, sessionEvent(&updated))

	return SessionResponse(&updated), nil
}

// Pause stops the billing clock
func (s *SessionService) Pause(ctx context.Context, driverID, sessionID string) (*models.SessionResponseItem, error) {
	return s.transition(ctx, driverID, sessionID, models.EventSessionPaused,
		func(sess models.ParkingSession, now time.Time) (models.ParkingSession, error) {
			return session.Pause(sess, now)
		},
		models.SessionActive)
}

// Resume restarts the billing clock
func (s *SessionService) Resume(ctx context.Context, driverID, sessionID string) (*models.SessionResponseItem, error) {
	return s.transition(ctx, driverID, sessionID, models.EventSessionResumed,
		func(sess models.ParkingSession, now time.Time) (models.ParkingSession, error) {
			return session.Resume(sess, now)
		},
		models.SessionPaused)
}

// Checkout completes the session, settles billing and releases the slot.
// The driver's admin-granted discount is read at this moment, not at
// reservation.
func (s *SessionService) Checkout(ctx context.Context, driverID, sessionID string) (*models.SessionResponseItem, error) {
	sess, err := s.getOwned(ctx, driverID, sessionID)
	if err != nil {
		return nil, err
	}

	discount := 0.0
	if driver, err := s.userRepo.GetByID(ctx, driverID); err == nil && driver != nil {
		discount = driver.DiscountPercentage
	}

	updated, err := session.Checkout(*sess, discount, time.Now())
	if err != nil {
		return nil, err
	}

	ok, err := s.sessionRepo.UpdateFromStatus(ctx, &updated, models.SessionActive, models.SessionPaused)
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if !ok {
		// Another checkout or a cancel got there first. Exactly one
		// settlement per session.
		return nil, session.ErrInvalidTransition
	}

	s.releaseSlot(ctx, sess.ParkingSpaceID, sess.ID)

	middleware.CountSessionTransition(updated.Status)
	s.publish(ctx, models.EventSessionCompleted, models.SessionCompletedEvent{
		SessionEvent:       sessionEvent(&updated),
		TotalHours:         updated.TotalHours,
		TotalAmount:        updated.TotalAmount,
		DiscountAmount:     updated.DiscountAmount,
		FinalAmount:        updated.FinalAmount,
		PlatformCommission: updated.PlatformCommission,
		OperatorEarnings:   updated.OperatorEarnings,
	})

	return SessionResponse(&updated), nil
}

// Cancel voids the session with no charge. After check-in, cancellation is
// only allowed within the free-cancellation window.
func (s *SessionService) Cancel(ctx context.Context, driverID, sessionID string) (*models.SessionResponseItem, error) {
	sess, err := s.getOwned(ctx, driverID, sessionID)
	if err != nil {
		return nil, err
	}

	updated, err := session.Cancel(*sess, time.Now())
	if err != nil {
		return nil, err
	}

	ok, err := s.sessionRepo.UpdateFromStatus(ctx, &updated, models.SessionReserved, models.SessionActive)
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if !ok {
		return nil, session.ErrInvalidTransition
	}

	// Only checked-in sessions hold a slot.
	if sess.CheckInTime != nil {
		s.releaseSlot(ctx, sess.ParkingSpaceID, sess.ID)
	}

	middleware.CountSessionTransition(updated.Status)
	s.publish(ctx, models.EventSessionCancelled, models.SessionCancelledEvent{
		SessionEvent: sessionEvent(&updated),
		Reason:       "cancelled by driver",
	})

	return SessionResponse(&updated), nil
}

// List returns the driver's sessions, newest first
func (s *SessionService) List(ctx context.Context, driverID string, statuses []string) ([]models.SessionResponseItem, error) {
	sessions, err := s.sessionRepo.ListByDriver(ctx, driverID, statuses, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	result := make([]models.SessionResponseItem, len(sessions))
	for i := range sessions {
		result[i] = *SessionResponse(&sessions[i])
	}
	return result, nil
}

// ListForOperator returns sessions at the operator's spaces
func (s *SessionService) ListForOperator(ctx context.Context, operatorID string, statuses []string) ([]models.SessionResponseItem, error) {
	sessions, err := s.sessionRepo.ListByOperator(ctx, operatorID, statuses, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	result := make([]models.SessionResponseItem, len(sessions))
	for i := range sessions {
		result[i] = *SessionResponse(&sessions[i])
	}
	return result, nil
}

func (s *SessionService) Get(ctx context.Context, driverID, sessionID string) (*models.SessionResponseItem, error) {
	sess, err := s.getOwned(ctx, driverID, sessionID)
	if err != nil {
		return nil, err
	}
	return SessionResponse(sess), nil
}

// transition runs a pure engine step under the given status guard and
// publishes the matching event. Pause and resume share this path.
func (s *SessionService) transition(ctx context.Context, driverID, sessionID, eventType string,
	step func(models.ParkingSession, time.Time) (models.ParkingSession, error),
	fromStatuses ...string) (*models.SessionResponseItem, error) {

	sess, err := s.getOwned(ctx, driverID, sessionID)
	if err != nil {
		return nil, err
	}

	updated, err := step(*sess, time.Now())
	if err != nil {
		return nil, err
	}

	ok, err := s.sessionRepo.UpdateFromStatus(ctx, &updated, fromStatuses...)
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if !ok {
		return nil, session.ErrInvalidTransition
	}

	middleware.CountSessionTransition(updated.Status)
	s.publish(ctx, eventType, sessionEvent(&updated))

	return SessionResponse(&updated), nil
}

func (s *SessionService) getOwned(ctx context.Context, driverID, sessionID string) (*models.ParkingSession, error) {
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return nil, fmt.Errorf("session: %w", apperrors.ErrNotFound)
	}
	if sess.DriverID != driverID {
		return nil, apperrors.ErrForbidden
	}
	return sess, nil
}

// releaseSlot returns a held slot to the space's counter. If the guarded
// increment cannot apply, the counter has drifted, so it is recomputed
// from the open sessions instead of leaking the slot.
func (s *SessionService) releaseSlot(ctx context.Context, spaceID, sessionID string) {
	ok, err := s.spaceRepo.AdjustAvailability(ctx, spaceID, 1)
	if err == nil && ok {
		return
	}
	logger.WithContext(ctx).Error("Failed to release slot, reconciling counter",
		"error", err, "space_id", spaceID, "session_id", sessionID)
	if err := s.spaceRepo.ReconcileAvailability(ctx, spaceID); err != nil {
		logger.WithContext(ctx).Error("Failed to reconcile space availability",
			"error", err, "space_id", spaceID)
	}
}

func (s *SessionService) publish(ctx context.Context, eventType string, data interface{}) {
	if err := s.natsClient.Publish(eventType, data); err != nil {
		// Log but don't fail the operation; the state change is already
		// committed.
		logger.WithContext(ctx).Error("Failed to publish session event",
			"error", err, "event_type", eventType)
	}
}

func sessionEvent(sess *models.ParkingSession) models.SessionEvent {
	return models.SessionEvent{
		SessionID:        sess.ID,
		ParkingSpaceID:   sess.ParkingSpaceID,
		ParkingSpaceName: sess.ParkingSpaceName,
		DriverID:         sess.DriverID,
		DriverName:       sess.DriverName,
		OperatorID:       sess.OperatorID,
		BookingCode:      sess.BookingCode,
		Timestamp:        time.Now(),
	}
}

// SessionResponse formats a session for the API. All kobo amounts become
// decimal strings here.
func SessionResponse(sess *models.ParkingSession) *models.SessionResponseItem {
	item := &models.SessionResponseItem{
		ID:                  sess.ID,
		ParkingSpaceID:      sess.ParkingSpaceID,
		ParkingSpaceName:    sess.ParkingSpaceName,
		ParkingSpaceAddress: sess.ParkingSpaceAddress,
		VehiclePlate:        sess.VehiclePlate,
		BookingCode:         sess.BookingCode,
		Status:              sess.Status,
		PaymentStatus:       sess.PaymentStatus,
		ReservedAt:          sess.ReservedAt.Format(time.RFC3339),
		HourlyRate:          models.Naira(sess.HourlyRate),
		TotalHours:          sess.TotalHours,
		TotalAmount:         models.Naira(sess.TotalAmount),
		DiscountAmount:      models.Naira(sess.DiscountAmount),
		FinalAmount:         models.Naira(sess.FinalAmount),
		PlatformCommission:  models.Naira(sess.PlatformCommission),
		OperatorEarnings:    models.Naira(sess.OperatorEarnings),
	}

	if sess.CheckInTime != nil {
		v := sess.CheckInTime.Format(time.RFC3339)
		item.CheckInTime = &v
	}
	if sess.CheckOutTime != nil {
		v := sess.CheckOutTime.Format(time.RFC3339)
		item.CheckOutTime = &v
	}

	return item
}
