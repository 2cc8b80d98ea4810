package service

import (
	"context"
	"fmt"

	apperrors "epark/internal/errors"
	"epark/internal/logger"
	"epark/internal/models"
	"epark/internal/repository"
)

type AdminService struct {
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
}

func NewAdminService(userRepo *repository.UserRepository, notificationRepo *repository.NotificationRepository) *AdminService {
	return &AdminService{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

// VerifyUser sets a user's verification flag. Verified operators get a
// badge on their listings.
func (s *AdminService) VerifyUser(ctx context.Context, req *models.VerifyUserRequest) error {
	user, err := s.requireUser(ctx, req.UserID)
	if err != nil {
		return err
	}

	if err := s.userRepo.SetVerified(ctx, user.ID, *req.Verified); err != nil {
		return fmt.Errorf("failed to set verification: %w", err)
	}

	if *req.Verified {
		s.notify(ctx, user.ID, "Account verified",
			"Your account has been verified. You now have a verified badge.")
	}

	return nil
}

// SetDiscount grants the user a percentage discount applied at checkout
func (s *AdminService) SetDiscount(ctx context.Context, req *models.SetDiscountRequest) error {
	if req.DiscountPercentage < 0 || req.DiscountPercentage > 100 {
		return fmt.Errorf("discount percentage must be between 0 and 100")
	}

	user, err := s.requireUser(ctx, req.UserID)
	if err != nil {
		return err
	}

	if err := s.userRepo.SetDiscount(ctx, user.ID, req.DiscountPercentage); err != nil {
		return fmt.Errorf("failed to set discount: %w", err)
	}

	if req.DiscountPercentage > 0 {
		s.notify(ctx, user.ID, "Discount applied",
			fmt.Sprintf("You now get %.1f%% off your parking sessions.", req.DiscountPercentage))
	}

	return nil
}

// SetBonus grants the user a wallet top-up bonus percentage
func (s *AdminService) SetBonus(ctx context.Context, req *models.SetBonusRequest) error {
	if req.BonusPercentage < 0 || req.BonusPercentage > 100 {
		return fmt.Errorf("bonus percentage must be between 0 and 100")
	}

	user, err := s.requireUser(ctx, req.UserID)
	if err != nil {
		return err
	}

	if err := s.userRepo.SetBonus(ctx, user.ID, req.BonusPercentage); err != nil {
		return fmt.Errorf("failed to set bonus: %w", err)
	}

	return nil
}

func (s *AdminService) requireUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)
	}
	return user, nil
}

func (s *AdminService) notify(ctx context.Context, userID, title, message string) {
	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    "account",
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		logger.WithContext(ctx).Error("Failed to create notification",
			"error", err, "user_id", userID)
	}
}
