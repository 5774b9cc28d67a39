package usecase

import (
	"context"
	"io"

	"staynest/internal/domain/entity"
)

// Notifier delivers a notification on a best-effort basis. It never fails
// the caller.
type Notifier interface {
	Notify(ctx context.Context, notification *entity.Notification)
}

type Mailer interface {
	SendBookingReceipt(ctx context.Context, booking *entity.Booking) error
}

// SubscriptionCache holds effective subscriptions. Every subscription write
// invalidates the user's entry.
type SubscriptionCache interface {
	Get(ctx context.Context, userID string) (*entity.Subscription, bool)
	Set(ctx context.Context, userID string, sub *entity.Subscription)
	Invalidate(ctx context.Context, userID string)
}

type ImageUploader interface {
	UploadImage(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error)
}

// Pusher sends a payload to a user's open websockets and reports how many
// received it.
type Pusher interface {
	Push(userID string, payload interface{}) int
}
