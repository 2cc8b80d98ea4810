package jobs

import (
	"context"
	"log/slog"
	"time"

	"epark/internal/messaging"
	"epark/internal/models"
	"epark/internal/repository"
	"epark/internal/session"
)

// ReservationTimeout mirrors the API's reservation window: a spot that is
// never checked into gets released after this long.
const ReservationTimeout = 30 * time.Minute

const checkInterval = 30 * time.Second

// ReservationExpirationJob cancels reservations whose drivers never showed
// up. It runs inside the consumers binary.
type ReservationExpirationJob struct {
	sessionRepo *repository.SessionRepository
	natsClient  *messaging.NATSClient
	ticker      *time.Ticker
	done        chan bool
}

func NewReservationExpirationJob(sessionRepo *repository.SessionRepository, natsClient *messaging.NATSClient) *ReservationExpirationJob {
	return &ReservationExpirationJob{
		sessionRepo: sessionRepo,
		natsClient:  natsClient,
		done:        make(chan bool),
	}
}

// Start begins the periodic expiration checks
func (j *ReservationExpirationJob) Start(ctx context.Context) {
	slog.Info("Starting reservation expiration job",
		"check_interval", checkInterval.String(), "timeout", ReservationTimeout.String())

	j.ticker = time.NewTicker(checkInterval)

	go j.checkExpiredReservations(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.checkExpiredReservations(ctx)
			case <-j.done:
				slog.Info("Reservation expiration job stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the job
func (j *ReservationExpirationJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *ReservationExpirationJob) checkExpiredReservations(ctx context.Context) {
	now := time.Now()

	stale, err := j.sessionRepo.GetExpiredReservations(ctx, now.Add(-ReservationTimeout))
	if err != nil {
		slog.Error("Failed to get expired reservations", "error", err)
		return
	}

	if len(stale) == 0 {
		slog.Debug("No expired reservations found")
		return
	}

	slog.Info("Found expired reservations to process", "count", len(stale))

	for i := range stale {
		if err := j.expireReservation(ctx, stale[i], now); err != nil {
			slog.Error("Failed to expire reservation",
				"error", err,
				"session_id", stale[i].ID,
				"reserved_at", stale[i].ReservedAt)
		}
	}
}

func (j *ReservationExpirationJob) expireReservation(ctx context.Context, sess models.ParkingSession, now time.Time) error {
	updated, err := session.Cancel(sess, now)
	if err != nil {
		return err
	}

	ok, err := j.sessionRepo.UpdateFromStatus(ctx, &updated, models.SessionReserved)
	if err != nil {
		return err
	}
	if !ok {
		// Driver checked in or cancelled between the query and the
		// update. Nothing to do.
		return nil
	}

	slog.Info("Expired reservation",
		"session_id", updated.ID,
		"booking_code", updated.BookingCode,
		"elapsed", now.Sub(updated.ReservedAt).String())

	event := models.SessionCancelledEvent{
		SessionEvent: models.SessionEvent{
			SessionID:        updated.ID,
			ParkingSpaceID:   updated.ParkingSpaceID,
			ParkingSpaceName: updated.ParkingSpaceName,
			DriverID:         updated.DriverID,
			DriverName:       updated.DriverName,
			OperatorID:       updated.OperatorID,
			BookingCode:      updated.BookingCode,
			Timestamp:        now,
		},
		Reason: "reservation expired",
	}

	if err := j.natsClient.Publish(models.EventSessionCancelled, event); err != nil {
		slog.Error("Failed to publish cancellation event",
			"error", err, "session_id", updated.ID)
	}

	return nil
}
