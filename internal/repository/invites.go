package repository

import (
	"context"
	"database/sql"

	"epark/internal/database"
	"epark/internal/models"
)

type InviteRepository struct {
	db *database.DB
}

func NewInviteRepository(db *database.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

const inviteColumns = `id, operator_id, operator_name, email, parking_space_ids,
	       status, invite_code, expires_at, accepted_at, created_at`

func scanInvite(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.ManagerInvite, error) {
	inv := &models.ManagerInvite{}
	err := scanner.Scan(
		&inv.ID,
		&inv.OperatorID,
		&inv.OperatorName,
		&inv.Email,
		&inv.ParkingSpaceIDs,
		&inv.Status,
		&inv.InviteCode,
		&inv.ExpiresAt,
		&inv.AcceptedAt,
		&inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InviteRepository) Create(ctx context.Context, inv *models.ManagerInvite) error {
	query := `
		INSERT INTO manager_invites (operator_id, operator_name, email, parking_space_ids,
		                             status, invite_code, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		inv.OperatorID,
		inv.OperatorName,
		inv.Email,
		inv.ParkingSpaceIDs,
		inv.Status,
		inv.InviteCode,
		inv.ExpiresAt,
	).Scan(&inv.ID, &inv.CreatedAt)
}

func (r *InviteRepository) GetByCode(ctx context.Context, code string) (*models.ManagerInvite, error) {
	query := `SELECT ` + inviteColumns + ` FROM manager_invites WHERE invite_code = $1`

	inv, err := scanInvite(r.db.QueryRowContext(ctx, query, code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return inv, err
}

func (r *InviteRepository) ListByOperator(ctx context.Context, operatorID string) ([]models.ManagerInvite, error) {
	query := `SELECT ` + inviteColumns + `
		FROM manager_invites
		WHERE operator_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []models.ManagerInvite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, *inv)
	}

	return invites, rows.Err()
}

// MarkAccepted flips a pending, unexpired invite to accepted. Returns
// false when the invite was already accepted or has expired.
func (r *InviteRepository) MarkAccepted(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE manager_invites
		SET status = 'accepted', accepted_at = NOW()
		WHERE id = $1 AND status = 'pending' AND expires_at > NOW()`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
