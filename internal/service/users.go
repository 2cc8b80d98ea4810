package service

import (
	"context"
	"crypto/sha256"
	"fmt"

	"epark/internal/cache"
	apperrors "epark/internal/errors"
	"epark/internal/models"
	"epark/internal/repository"
)

type UserService struct {
	userRepo    *repository.UserRepository
	redisClient *cache.RedisClient
}

func NewUserService(userRepo *repository.UserRepository, redisClient *cache.RedisClient) *UserService {
	return &UserService{
		userRepo:    userRepo,
		redisClient: redisClient,
	}
}

// Register creates an account and warms the auth cache so the first
// request after signup does not hit the database.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrEmailTaken
	}

	userType := req.UserType
	if userType == "" {
		userType = models.UserTypeDriver
	}

	hash := sha256.Sum256([]byte(req.Password))
	passwordHash := fmt.Sprintf("%x", hash)

	user := &models.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		Phone:        req.Phone,
		UserType:     userType,
		VehiclePlate: req.VehiclePlate,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.redisClient.SetUserAuth(ctx, user.Email, passwordHash, user.ID)

	return &models.RegisterResponse{ID: user.ID}, nil
}
