package repository

import (
	"context"

	"epark/internal/database"
	"epark/internal/models"

	"github.com/lib/pq"
)

type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message, type, link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		n.UserID,
		n.Title,
		n.Message,
		n.Type,
		n.Link,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, link, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Link, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkRead marks the given notifications as read, scoped to the owning
// user so one user cannot touch another's notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID string, ids []int64) error {
	query := `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND id = ANY($2)`
	_, err := r.db.ExecContext(ctx, query, userID, pq.Array(ids))
	return err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	query := `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}
