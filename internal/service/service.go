package service

import (
	"epark/internal/cache"
	"epark/internal/external"
	"epark/internal/messaging"
	"epark/internal/repository"
	"epark/internal/search"
)

type Services struct {
	Users         *UserService
	Spaces        *SpaceService
	Sessions      *SessionService
	Wallet        *WalletService
	Admin         *AdminService
	Invites       *InviteService
	Notifications *NotificationService
}

func NewServices(repos *repository.Repositories, natsClient *messaging.NATSClient, esClient *search.ElasticsearchClient, redisClient *cache.RedisClient, mailerClient *external.MailerClient) *Services {
	return &Services{
		Users:         NewUserService(repos.Users, redisClient),
		Spaces:        NewSpaceService(repos.Spaces, esClient, redisClient),
		Sessions:      NewSessionService(repos.Sessions, repos.Spaces, repos.Users, natsClient),
		Wallet:        NewWalletService(repos.Wallet, natsClient),
		Admin:         NewAdminService(repos.Users, repos.Notifications),
		Invites:       NewInviteService(repos.Invites, repos.Users, mailerClient),
		Notifications: NewNotificationService(repos.Notifications),
	}
}
