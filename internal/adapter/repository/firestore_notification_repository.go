package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"staynest/internal/domain/entity"
	"staynest/internal/domain/repository"
	"staynest/pkg/errors"
	"staynest/pkg/utils"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	_, err := r.client.Collection(notificationsCollection).Doc(notification.ID).Set(ctx, notification)
	if err != nil {
		return errors.Internal("Failed to create notification", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, pagination *utils.Pagination) ([]*entity.Notification, int64, error) {
	query := r.client.Collection(notificationsCollection).Where("userId", "==", userID)
	if unreadOnly {
		query = query.Where("read", "==", false)
	}
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list notifications", err)
	}
	items, err := decodeAll(docs, func(n *entity.Notification, id string) { n.ID = id })
	if err != nil {
		return nil, 0, err
	}
	page, total := pageNewestFirst(items, func(n *entity.Notification) int64 { return n.CreatedAt.UnixNano() }, pagination)
	return page, total, nil
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	ref := r.client.Collection(notificationsCollection).Doc(id)
	doc, err := ref.Get(ctx)
	if err != nil {
		return wrapGet(err, "Notification")
	}
	var n entity.Notification
	if err := doc.DataTo(&n); err != nil {
		return errors.Internal("Failed to parse notification data", err)
	}
	if n.UserID != userID {
		return errors.NotFound("Notification", nil)
	}
	if _, err := ref.Update(ctx, []firestore.Update{{Path: "read", Value: true}}); err != nil {
		return errors.Internal("Failed to update notification", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	unread := r.client.Collection(notificationsCollection).
		Where("userId", "==", userID).
		Where("read", "==", false)

	var marked int
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(unread).GetAll()
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if err := tx.Update(doc.Ref, []firestore.Update{{Path: "read", Value: true}}); err != nil {
				return err
			}
		}
		marked = len(docs)
		return nil
	})
	if err != nil {
		return 0, wrapTx(err, "Failed to mark notifications read")
	}
	return marked, nil
}
