package repository

import (
	"context"

	"staynest/internal/domain/entity"
	"staynest/pkg/utils"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, pagination *utils.Pagination) ([]*entity.Notification, int64, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
}
