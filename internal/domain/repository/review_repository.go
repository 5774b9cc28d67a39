package repository

import (
	"context"

	"staynest/internal/domain/entity"
	"staynest/pkg/utils"
)

type ReviewRepository interface {
	// CreateAndRecompute writes the review and folds its rating into the
	// property's rating and reviewsCount in one transaction.
	CreateAndRecompute(ctx context.Context, review *entity.Review) (*entity.Property, error)
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	ListByProperty(ctx context.Context, propertyID string, pagination *utils.Pagination) ([]*entity.Review, int64, error)
}
