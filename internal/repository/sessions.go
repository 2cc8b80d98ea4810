package repository

import (
	"context"
	"database/sql"
	"time"

	"epark/internal/database"
	"epark/internal/models"

	"github.com/lib/pq"
)

type SessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, parking_space_id, parking_space_name, parking_space_address,
	       driver_id, driver_name, driver_email, driver_phone, vehicle_plate,
	       operator_id, operator_email, booking_code,
	       reserved_at, check_in_time, check_out_time, pause_time, resume_time,
	       cancellation_time, total_paused_duration_ms,
	       hourly_rate, total_hours, total_amount, discount_percentage,
	       discount_amount, final_amount, platform_commission, operator_earnings,
	       status, payment_status, created_at, updated_at`

func scanSession(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.ParkingSession, error) {
	s := &models.ParkingSession{}
	err := scanner.Scan(
		&s.ID,
		&s.ParkingSpaceID,
		&s.ParkingSpaceName,
		&s.ParkingSpaceAddress,
		&s.DriverID,
		&s.DriverName,
		&s.DriverEmail,
		&s.DriverPhone,
		&s.VehiclePlate,
		&s.OperatorID,
		&s.OperatorEmail,
		&s.BookingCode,
		&s.ReservedAt,
		&s.CheckInTime,
		&s.CheckOutTime,
		&s.PauseTime,
		&s.ResumeTime,
		&s.CancellationTime,
		&s.TotalPausedDurationMs,
		&s.HourlyRate,
		&s.TotalHours,
		&s.TotalAmount,
		&s.DiscountPercentage,
		&s.DiscountAmount,
		&s.FinalAmount,
		&s.PlatformCommission,
		&s.OperatorEarnings,
		&s.Status,
		&s.PaymentStatus,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SessionRepository) Create(ctx context.Context, s *models.ParkingSession) error {
	query := `
		INSERT INTO parking_sessions (
			id, parking_space_id, parking_space_name, parking_space_address,
			driver_id, driver_name, driver_email, driver_phone, vehicle_plate,
			operator_id, operator_email, booking_code,
			reserved_at, hourly_rate, status, payment_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		s.ID,
		s.ParkingSpaceID,
		s.ParkingSpaceName,
		s.ParkingSpaceAddress,
		s.DriverID,
		s.DriverName,
		s.DriverEmail,
		s.DriverPhone,
		s.VehiclePlate,
		s.OperatorID,
		s.OperatorEmail,
		s.BookingCode,
		s.ReservedAt,
		s.HourlyRate,
		s.Status,
		s.PaymentStatus,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM parking_sessions WHERE id = $1`

	s, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *SessionRepository) GetByBookingCode(ctx context.Context, code string) (*models.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM parking_sessions WHERE booking_code = $1`

	s, err := scanSession(r.db.QueryRowContext(ctx, query, code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *SessionRepository) ListByDriver(ctx context.Context, driverID string, statuses []string, limit int) ([]models.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + `
		FROM parking_sessions
		WHERE driver_id = $1 AND ($2::text[] IS NULL OR status = ANY($2))
		ORDER BY created_at DESC
		LIMIT $3`

	var filter interface{}
	if len(statuses) > 0 {
		filter = pq.Array(statuses)
	}

	rows, err := r.db.QueryContext(ctx, query, driverID, filter, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (r *SessionRepository) ListByOperator(ctx context.Context, operatorID string, statuses []string, limit int) ([]models.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + `
		FROM parking_sessions
		WHERE operator_id = $1 AND ($2::text[] IS NULL OR status = ANY($2))
		ORDER BY created_at DESC
		LIMIT $3`

	var filter interface{}
	if len(statuses) > 0 {
		filter = pq.Array(statuses)
	}

	rows, err := r.db.QueryContext(ctx, query, operatorID, filter, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

func collectSessions(rows *sql.Rows) ([]models.ParkingSession, error) {
	var sessions []models.ParkingSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// UpdateFromStatus writes the full mutable state of the session, guarded on
// the row still being in one of fromStatuses. Returns false without
// modifying anything when another writer already moved the session on, so
// exactly one of two concurrent checkouts (or a checkout racing a cancel)
// wins.
func (r *SessionRepository) UpdateFromStatus(ctx context.Context, s *models.ParkingSession, fromStatuses ...string) (bool, error) {
	query := `
		UPDATE parking_sessions
		SET check_in_time = $1, check_out_time = $2, pause_time = $3,
		    resume_time = $4, cancellation_time = $5, total_paused_duration_ms = $6,
		    total_hours = $7, total_amount = $8, discount_percentage = $9,
		    discount_amount = $10, final_amount = $11, platform_commission = $12,
		    operator_earnings = $13, status = $14, payment_status = $15,
		    updated_at = NOW()
		WHERE id = $16 AND status = ANY($17)`

	result, err := r.db.ExecContext(ctx, query,
		s.CheckInTime,
		s.CheckOutTime,
		s.PauseTime,
		s.ResumeTime,
		s.CancellationTime,
		s.TotalPausedDurationMs,
		s.TotalHours,
		s.TotalAmount,
		s.DiscountPercentage,
		s.DiscountAmount,
		s.FinalAmount,
		s.PlatformCommission,
		s.OperatorEarnings,
		s.Status,
		s.PaymentStatus,
		s.ID,
		pq.Array(fromStatuses),
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// GetExpiredReservations returns sessions still in reserved status whose
// reservation is older than cutoff. Used by the expiration job.
func (r *SessionRepository) GetExpiredReservations(ctx context.Context, cutoff time.Time) ([]models.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + `
		FROM parking_sessions
		WHERE status = 'reserved' AND reserved_at < $1
		ORDER BY reserved_at`

	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}
