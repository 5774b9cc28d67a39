package repository

import (
	"cloud.google.com/go/firestore"

	"staynest/internal/domain/repository"
)

// Repositories bundles one implementation of every collection.
type Repositories struct {
	Users         repository.UserRepository
	HostStatus    repository.HostStatusRepository
	Wallet        repository.WalletRepository
	Properties    repository.PropertyRepository
	Drafts        repository.DraftRepository
	Bookings      repository.BookingRepository
	Reviews       repository.ReviewRepository
	Notifications repository.NotificationRepository
}

func NewFirestoreRepositories(client *firestore.Client) *Repositories {
	return &Repositories{
		Users:         NewFirestoreUserRepository(client),
		HostStatus:    NewFirestoreHostStatusRepository(client),
		Wallet:        NewFirestoreWalletRepository(client),
		Properties:    NewFirestorePropertyRepository(client),
		Drafts:        NewFirestoreDraftRepository(client),
		Bookings:      NewFirestoreBookingRepository(client),
		Reviews:       NewFirestoreReviewRepository(client),
		Notifications: NewFirestoreNotificationRepository(client),
	}
}

func (s *MemoryStore) Repositories() *Repositories {
	return &Repositories{
		Users:         s.Users(),
		HostStatus:    s.HostStatus(),
		Wallet:        s.Wallet(),
		Properties:    s.Properties(),
		Drafts:        s.Drafts(),
		Bookings:      s.Bookings(),
		Reviews:       s.Reviews(),
		Notifications: s.Notifications(),
	}
}
