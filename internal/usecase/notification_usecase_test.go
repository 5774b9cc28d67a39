package usecase

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staynest/internal/adapter/repository"
	"staynest/internal/domain/entity"
	"staynest/pkg/utils"
)

type failingNotificationRepo struct{}

func (failingNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	return stderrors.New("firestore unavailable")
}

func (failingNotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, p *utils.Pagination) ([]*entity.Notification, int64, error) {
	return nil, 0, nil
}

func (failingNotificationRepo) MarkRead(ctx context.Context, userID, id string) error { return nil }

func (failingNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return 0, nil
}

type recordingPusher struct {
	mu    sync.Mutex
	users []string
}

func (p *recordingPusher) Push(userID string, payload interface{}) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users = append(p.users, userID)
	return 1
}

func TestNotificationUseCase_StoresAndPushes(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	pusher := &recordingPusher{}
	uc := NewNotificationUseCase(store.Notifications(), pusher)

	uc.Notify(ctx, &entity.Notification{UserID: "u1", Type: entity.NotifyNewBooking, Title: "New booking"})
	uc.Notify(ctx, &entity.Notification{UserID: "u1", Type: entity.NotifyNewReview, Title: "New review"})
	uc.Notify(ctx, &entity.Notification{UserID: "u2", Type: entity.NotifyNewReview, Title: "New review"})

	assert.Equal(t, []string{"u1", "u1", "u2"}, pusher.users)

	items, total, err := uc.List(ctx, "u1", false, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.False(t, items[0].CreatedAt.IsZero())

	require.NoError(t, uc.MarkRead(ctx, "u1", items[0].ID))
	unread, _, _ := uc.List(ctx, "u1", true, nil)
	assert.Len(t, unread, 1)

	assert.Error(t, uc.MarkRead(ctx, "u2", items[1].ID))

	marked, err := uc.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, marked)
}

func TestNotificationUseCase_StoreFailureIsSwallowed(t *testing.T) {
	pusher := &recordingPusher{}
	uc := NewNotificationUseCase(failingNotificationRepo{}, pusher)

	assert.NotPanics(t, func() {
		uc.Notify(context.Background(), &entity.Notification{UserID: "u1"})
	})
	assert.Empty(t, pusher.users)
}
