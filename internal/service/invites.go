package service

import (
	"context"
	"fmt"
	"time"

	apperrors "epark/internal/errors"
	"epark/internal/external"
	"epark/internal/logger"
	"epark/internal/models"
	"epark/internal/repository"

	"github.com/google/uuid"
)

// InviteTTL is how long a manager invite stays redeemable
const InviteTTL = 7 * 24 * time.Hour

type InviteService struct {
	inviteRepo   *repository.InviteRepository
	userRepo     *repository.UserRepository
	mailerClient *external.MailerClient
}

func NewInviteService(inviteRepo *repository.InviteRepository, userRepo *repository.UserRepository, mailerClient *external.MailerClient) *InviteService {
	return &InviteService{
		inviteRepo:   inviteRepo,
		userRepo:     userRepo,
		mailerClient: mailerClient,
	}
}

// Create invites a manager by email to co-run the operator's spaces. The
// invite email is sent asynchronously; a mailer outage does not fail the
// invite.
func (s *InviteService) Create(ctx context.Context, operatorID string, req *models.CreateInviteRequest) (*models.CreateInviteResponse, error) {
	operator, err := s.userRepo.GetByID(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}
	if operator == nil {
		return nil, fmt.Errorf("operator: %w", apperrors.ErrNotFound)
	}

	inv := &models.ManagerInvite{
		OperatorID:      operatorID,
		OperatorName:    operator.FullName,
		Email:           req.Email,
		ParkingSpaceIDs: req.ParkingSpaceIDs,
		Status:          "pending",
		InviteCode:      uuid.New().String(),
		ExpiresAt:       time.Now().Add(InviteTTL),
	}

	if err := s.inviteRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	go func() {
		if err := s.mailerClient.SendInvite(inv.Email, inv.OperatorName, inv.InviteCode, inv.ExpiresAt); err != nil {
			logger.Get().Error("Failed to send invite email",
				"error", err, "invite_id", inv.ID, "email", inv.Email)
		}
	}()

	return &models.CreateInviteResponse{
		ID:         inv.ID,
		InviteCode: inv.InviteCode,
		ExpiresAt:  inv.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// Accept redeems an invite. The accepting account must carry the invited
// email. Drivers get upgraded to the combined driver/operator type so they
// can manage the spaces they were invited to.
func (s *InviteService) Accept(ctx context.Context, userID string, req *models.AcceptInviteRequest) error {
	inv, err := s.inviteRepo.GetByCode(ctx, req.InviteCode)
	if err != nil {
		return fmt.Errorf("failed to get invite: %w", err)
	}
	if inv == nil {
		return fmt.Errorf("invite: %w", apperrors.ErrNotFound)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user: %w", apperrors.ErrNotFound)
	}
	if user.Email != inv.Email {
		return apperrors.ErrForbidden
	}

	ok, err := s.inviteRepo.MarkAccepted(ctx, inv.ID)
	if err != nil {
		return fmt.Errorf("failed to accept invite: %w", err)
	}
	if !ok {
		return fmt.Errorf("invite has expired or was already used")
	}

	if user.UserType == models.UserTypeDriver {
		if err := s.userRepo.SetUserType(ctx, user.ID, models.UserTypeBoth); err != nil {
			return fmt.Errorf("failed to upgrade user type: %w", err)
		}
	}

	return nil
}

// List returns the operator's invites, newest first
func (s *InviteService) List(ctx context.Context, operatorID string) ([]models.ManagerInvite, error) {
	invites, err := s.inviteRepo.ListByOperator(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	return invites, nil
}
