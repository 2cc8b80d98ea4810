package repository

import (
	"epark/internal/database"
)

type Repositories struct {
	Users         *UserRepository
	Spaces        *SpaceRepository
	Sessions      *SessionRepository
	Notifications *NotificationRepository
	Wallet        *WalletRepository
	Invites       *InviteRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Spaces:        NewSpaceRepository(db),
		Sessions:      NewSessionRepository(db),
		Notifications: NewNotificationRepository(db),
		Wallet:        NewWalletRepository(db),
		Invites:       NewInviteRepository(db),
	}
}
