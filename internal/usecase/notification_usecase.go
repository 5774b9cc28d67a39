package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"staynest/internal/domain/entity"
	"staynest/internal/domain/repository"
	"staynest/internal/infrastructure/metrics"
	"staynest/pkg/logger"
	"staynest/pkg/utils"
)

// NotificationUseCase stores notifications and pushes them to open
// websockets. As a Notifier it only logs failures.
type NotificationUseCase struct {
	repo   repository.NotificationRepository
	pusher Pusher
	now    func() time.Time
}

func NewNotificationUseCase(repo repository.NotificationRepository, pusher Pusher) *NotificationUseCase {
	return &NotificationUseCase{
		repo:   repo,
		pusher: pusher,
		now:    time.Now,
	}
}

func (uc *NotificationUseCase) Notify(ctx context.Context, n *entity.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = uc.now()
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		metrics.NotificationsDropped.Inc()
		logger.FromContext(ctx).Warn("notification not stored",
			zap.String("user_id", n.UserID),
			zap.String("type", n.Type),
			zap.Error(err),
		)
		return
	}
	if uc.pusher != nil {
		uc.pusher.Push(n.UserID, map[string]interface{}{
			"type":         "notification",
			"notification": n,
		})
	}
}

func (uc *NotificationUseCase) List(ctx context.Context, userID string, unreadOnly bool, pagination *utils.Pagination) ([]*entity.Notification, int64, error) {
	return uc.repo.ListByUser(ctx, userID, unreadOnly, pagination)
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, id string) error {
	return uc.repo.MarkRead(ctx, userID, id)
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return uc.repo.MarkAllRead(ctx, userID)
}
