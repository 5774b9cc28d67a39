package repository

import (
	"context"
	"time"

	"staynest/internal/domain/entity"
	"staynest/pkg/utils"
)

// SubscriptionMutation edits a user inside a transaction. Returning false
// means nothing changed and nothing is written.
type SubscriptionMutation func(user *entity.User) (bool, error)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindFirst returns the first user whose field equals value.
	FindFirst(ctx context.Context, field string, value interface{}) (*entity.User, error)
	UpdateProfile(ctx context.Context, user *entity.User) error
	ListHosts(ctx context.Context, disabled *bool, pagination *utils.Pagination) ([]*entity.User, int64, error)

	// MutateSubscription writes user.subscription and the subscriptions/{uid}
	// mirror in the same commit.
	MutateSubscription(ctx context.Context, userID string, fn SubscriptionMutation) (*entity.User, bool, error)
	ListCancellingExpired(ctx context.Context, now time.Time) ([]*entity.User, error)
}

// HostStatusRepository applies a host-level change and cascades the host's
// disabled flags to every property it owns, all in one commit.
type HostStatusRepository interface {
	UpdateHostCascade(ctx context.Context, hostID string, mutate func(host *entity.User) error) (*entity.User, int, error)
}
