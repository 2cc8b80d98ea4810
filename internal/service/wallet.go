package service

import (
	"context"
	"fmt"
	"time"

	"epark/internal/logger"
	"epark/internal/messaging"
	"epark/internal/models"
	"epark/internal/repository"

	"github.com/google/uuid"
)

type WalletService struct {
	walletRepo *repository.WalletRepository
	natsClient *messaging.NATSClient
}

func NewWalletService(walletRepo *repository.WalletRepository, natsClient *messaging.NATSClient) *WalletService {
	return &WalletService{
		walletRepo: walletRepo,
		natsClient: natsClient,
	}
}

// Fund credits the user's wallet. Amount is kobo.
func (s *WalletService) Fund(ctx context.Context, userID string, req *models.FundWalletRequest) (*models.WalletTransactionItem, error) {
	method := req.Method
	if method == "" {
		method = "card"
	}

	txn := &models.WalletTransaction{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        "credit",
		Method:      method,
		Description: "Wallet top-up",
		Reference:   uuid.New().String(),
		Status:      "completed",
	}

	// Top-ups carry no session id, so the per-session credit guard
	// never rejects them.
	if _, err := s.walletRepo.Credit(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to fund wallet: %w", err)
	}

	if err := s.natsClient.Publish(models.EventWalletCredited, models.WalletCreditedEvent{
		UserID:    userID,
		Amount:    txn.Amount,
		Reference: txn.Reference,
		Timestamp: time.Now(),
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to publish wallet credited event",
			"error", err, "user_id", userID)
	}

	item := transactionItem(txn)
	return &item, nil
}

// Get returns the wallet balance and recent ledger entries
func (s *WalletService) Get(ctx context.Context, userID string) (*models.WalletResponse, error) {
	balance, err := s.walletRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet balance: %w", err)
	}

	txns, err := s.walletRepo.ListByUser(ctx, userID, 50)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}

	items := make([]models.WalletTransactionItem, len(txns))
	for i := range txns {
		items[i] = transactionItem(&txns[i])
	}

	return &models.WalletResponse{
		Balance:      models.Naira(balance),
		Transactions: items,
	}, nil
}

func transactionItem(t *models.WalletTransaction) models.WalletTransactionItem {
	return models.WalletTransactionItem{
		ID:           t.ID,
		Amount:       models.Naira(t.Amount),
		Type:         t.Type,
		Method:       t.Method,
		Description:  t.Description,
		Reference:    t.Reference,
		BalanceAfter: models.Naira(t.BalanceAfter),
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
	}
}
