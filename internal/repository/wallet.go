package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"epark/internal/database"
	"epark/internal/models"
)

type WalletRepository struct {
	db *database.DB
}

func NewWalletRepository(db *database.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// Credit adds amount kobo to the user's wallet and records the ledger
// entry in one transaction, so the balance and the ledger cannot drift
// apart. The ledger row is inserted first: session-earnings credits
// carry a unique index on session_id, so a credit that was already
// recorded (a redelivered settlement event) returns false and leaves
// the balance untouched. The transaction's ID, BalanceAfter and
// timestamps are filled in on return.
func (r *WalletRepository) Credit(ctx context.Context, txn *models.WalletTransaction) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO wallet_transactions (user_id, amount, type, method, description, reference, status, balance_after, session_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8)
		 ON CONFLICT DO NOTHING
		 RETURNING id, created_at`,
		txn.UserID, txn.Amount, txn.Type, txn.Method, txn.Description,
		txn.Reference, txn.Status, txn.SessionID,
	).Scan(&txn.ID, &txn.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to record wallet transaction: %w", err)
	}

	var balance int64
	err = tx.QueryRowContext(ctx,
		`UPDATE users SET wallet_balance = wallet_balance + $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING wallet_balance`,
		txn.Amount, txn.UserID,
	).Scan(&balance)
	if err != nil {
		return false, fmt.Errorf("failed to update wallet balance: %w", err)
	}

	txn.BalanceAfter = balance

	if _, err := tx.ExecContext(ctx,
		`UPDATE wallet_transactions SET balance_after = $1 WHERE id = $2`,
		balance, txn.ID,
	); err != nil {
		return false, fmt.Errorf("failed to record balance after credit: %w", err)
	}

	return true, tx.Commit()
}

func (r *WalletRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.WalletTransaction, error) {
	query := `
		SELECT id, user_id, amount, type, method, description, reference,
		       status, balance_after, session_id, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.WalletTransaction
	for rows.Next() {
		var t models.WalletTransaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Method,
			&t.Description, &t.Reference, &t.Status, &t.BalanceAfter,
			&t.SessionID, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}

	return txns, rows.Err()
}

func (r *WalletRepository) GetBalance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := r.db.QueryRowContext(ctx, `SELECT wallet_balance FROM users WHERE id = $1`, userID).Scan(&balance)
	return balance, err
}
