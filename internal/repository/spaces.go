package repository

import (
	"context"
	"database/sql"

	"epark/internal/database"
	"epark/internal/models"
)

type SpaceRepository struct {
	db *database.DB
}

func NewSpaceRepository(db *database.DB) *SpaceRepository {
	return &SpaceRepository{db: db}
}

const spaceColumns = `id, name, area, address, phone, total_spaces, available_spaces,
	       amenities, price_per_hour, latitude, longitude, qr_code, status,
	       operator_id, image_url, created_at, updated_at`

func scanSpace(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.ParkingSpace, error) {
	space := &models.ParkingSpace{}
	err := scanner.Scan(
		&space.ID,
		&space.Name,
		&space.Area,
		&space.Address,
		&space.Phone,
		&space.TotalSpaces,
		&space.AvailableSpaces,
		&space.Amenities,
		&space.PricePerHour,
		&space.Latitude,
		&space.Longitude,
		&space.QRCode,
		&space.Status,
		&space.OperatorID,
		&space.ImageURL,
		&space.CreatedAt,
		&space.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return space, nil
}

func (r *SpaceRepository) Create(ctx context.Context, space *models.ParkingSpace) error {
	query := `
		INSERT INTO parking_spaces (name, area, address, phone, total_spaces, available_spaces,
		                            amenities, price_per_hour, latitude, longitude, qr_code,
		                            status, operator_id, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		space.Name,
		space.Area,
		space.Address,
		space.Phone,
		space.TotalSpaces,
		space.AvailableSpaces,
		space.Amenities,
		space.PricePerHour,
		space.Latitude,
		space.Longitude,
		space.QRCode,
		space.Status,
		space.OperatorID,
		space.ImageURL,
	).Scan(&space.ID, &space.CreatedAt, &space.UpdatedAt)
}

func (r *SpaceRepository) GetByID(ctx context.Context, id string) (*models.ParkingSpace, error) {
	query := `SELECT ` + spaceColumns + ` FROM parking_spaces WHERE id = $1`

	space, err := scanSpace(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return space, err
}

func (r *SpaceRepository) ListActive(ctx context.Context, page, pageSize int) ([]models.ParkingSpace, error) {
	query := `SELECT ` + spaceColumns + `
		FROM parking_spaces
		WHERE status = 'active'
		ORDER BY name
		LIMIT $1 OFFSET $2`

	offset := 0
	if page > 1 {
		offset = (page - 1) * pageSize
	}

	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spaces []models.ParkingSpace
	for rows.Next() {
		space, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		spaces = append(spaces, *space)
	}

	return spaces, rows.Err()
}

func (r *SpaceRepository) ListByOperator(ctx context.Context, operatorID string) ([]models.ParkingSpace, error) {
	query := `SELECT ` + spaceColumns + `
		FROM parking_spaces
		WHERE operator_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spaces []models.ParkingSpace
	for rows.Next() {
		space, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		spaces = append(spaces, *space)
	}

	return spaces, rows.Err()
}

func (r *SpaceRepository) ListAll(ctx context.Context) ([]models.ParkingSpace, error) {
	query := `SELECT ` + spaceColumns + ` FROM parking_spaces ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spaces []models.ParkingSpace
	for rows.Next() {
		space, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		spaces = append(spaces, *space)
	}

	return spaces, rows.Err()
}

func (r *SpaceRepository) Update(ctx context.Context, space *models.ParkingSpace) error {
	query := `
		UPDATE parking_spaces
		SET name = $1, phone = $2, amenities = $3, price_per_hour = $4,
		    status = $5, image_url = $6, updated_at = NOW()
		WHERE id = $7`

	_, err := r.db.ExecContext(ctx, query,
		space.Name,
		space.Phone,
		space.Amenities,
		space.PricePerHour,
		space.Status,
		space.ImageURL,
		space.ID,
	)
	return err
}

// AdjustAvailability applies delta to the available-spaces counter in a
// single conditional UPDATE, so concurrent check-ins and checkouts at the
// same space cannot lose updates or drive the counter out of range.
// Returns false when the guard rejects the adjustment (counter full or
// empty).
func (r *SpaceRepository) AdjustAvailability(ctx context.Context, id string, delta int) (bool, error) {
	query := `
		UPDATE parking_spaces
		SET available_spaces = available_spaces + $2, updated_at = NOW()
		WHERE id = $1
		  AND available_spaces + $2 >= 0
		  AND available_spaces + $2 <= total_spaces`

	result, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ReconcileAvailability recomputes available_spaces from the sessions
// that currently hold a slot (checked-in sessions hold one, reservations
// do not). Repairs a counter that drifted after a failed release.
func (r *SpaceRepository) ReconcileAvailability(ctx context.Context, id string) error {
	query := `
		UPDATE parking_spaces
		SET available_spaces = GREATEST(total_spaces - (
			SELECT COUNT(*) FROM parking_sessions
			WHERE parking_space_id = parking_spaces.id
			  AND status IN ('active', 'paused')
		), 0),
		    updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
