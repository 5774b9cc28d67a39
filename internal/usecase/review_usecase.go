package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"staynest/internal/domain/entity"
	"staynest/internal/domain/repository"
	"staynest/pkg/errors"
	"staynest/pkg/utils"
)

type ReviewUseCase struct {
	reviewRepo  repository.ReviewRepository
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	notifier    Notifier
	now         func() time.Time
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		now:         time.Now,
	}
}

type CreateReviewInput struct {
	Rating  int
	Comment string
}

// CreateReview lets a guest who stayed at the property review it once per
// booking.
func (uc *ReviewUseCase) CreateReview(ctx context.Context, guestID, propertyID string, input CreateReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}

	stay, err := uc.unreviewedStay(ctx, guestID, propertyID)
	if err != nil {
		return nil, err
	}

	guestName := "Guest"
	if guest, err := uc.userRepo.GetByID(ctx, guestID); err == nil && guest.DisplayName != "" {
		guestName = guest.DisplayName
	}

	review := &entity.Review{
		PropertyID: propertyID,
		BookingID:  stay.ID,
		GuestID:    guestID,
		GuestName:  guestName,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
		CreatedAt:  uc.now(),
	}
	property, err := uc.reviewRepo.CreateAndRecompute(ctx, review)
	if err != nil {
		return nil, err
	}

	uc.notifier.Notify(ctx, &entity.Notification{
		UserID:  property.HostID,
		Type:    entity.NotifyNewReview,
		Title:   "New review",
		Message: fmt.Sprintf("%s rated %s %d/5.", guestName, property.Title, input.Rating),
		Data:    map[string]interface{}{"propertyId": propertyID, "rating": property.Rating},
	})
	return review, nil
}

// unreviewedStay picks the guest's earliest stay at the property that has no
// review yet.
func (uc *ReviewUseCase) unreviewedStay(ctx context.Context, guestID, propertyID string) (*entity.Booking, error) {
	stays, err := uc.bookingRepo.ListStays(ctx, guestID, propertyID)
	if err != nil {
		return nil, err
	}
	if len(stays) == 0 {
		return nil, errors.Forbidden("Only guests who booked this property can review it", nil)
	}
	for _, stay := range stays {
		reviewed, err := uc.reviewRepo.ExistsForBooking(ctx, stay.ID)
		if err != nil {
			return nil, err
		}
		if !reviewed {
			return stay, nil
		}
	}
	return nil, errors.Conflict("Every stay at this property has already been reviewed")
}

func (uc *ReviewUseCase) ListReviews(ctx context.Context, propertyID string, pagination *utils.Pagination) ([]*entity.Review, int64, error) {
	return uc.reviewRepo.ListByProperty(ctx, propertyID, pagination)
}
