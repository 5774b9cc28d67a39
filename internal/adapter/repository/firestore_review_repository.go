package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"staynest/internal/domain/entity"
	"staynest/internal/domain/repository"
	"staynest/pkg/errors"
	"staynest/pkg/utils"
)

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

// CreateAndRecompute stores the review under its booking id, so a booking can
// be reviewed once.
func (r *firestoreReviewRepository) CreateAndRecompute(ctx context.Context, review *entity.Review) (*entity.Property, error) {
	review.ID = review.BookingID
	reviewRef := r.client.Collection(reviewsCollection).Doc(review.ID)
	propRef := r.client.Collection(propertiesCollection).Doc(review.PropertyID)

	var result *entity.Property
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(reviewRef); err == nil {
			return errors.Conflict("This stay has already been reviewed")
		} else if !isNotFound(err) {
			return err
		}
		doc, err := tx.Get(propRef)
		if err != nil {
			return wrapGet(err, "Property")
		}
		property, err := decodeProperty(doc)
		if err != nil {
			return err
		}

		property.Rating, property.ReviewsCount = entity.AddRating(property.Rating, property.ReviewsCount, review.Rating)
		property.UpdatedAt = time.Now()

		if err := tx.Create(reviewRef, review); err != nil {
			return err
		}
		if err := tx.Update(propRef, []firestore.Update{
			{Path: "rating", Value: property.Rating},
			{Path: "reviewsCount", Value: property.ReviewsCount},
			{Path: "updatedAt", Value: property.UpdatedAt},
		}); err != nil {
			return err
		}
		result = property
		return nil
	})
	if err != nil {
		return nil, wrapTx(err, "Failed to create review")
	}
	return result, nil
}

func (r *firestoreReviewRepository) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	_, err := r.client.Collection(reviewsCollection).Doc(bookingID).Get(ctx)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, errors.Internal("Failed to get review", err)
}

func (r *firestoreReviewRepository) ListByProperty(ctx context.Context, propertyID string, pagination *utils.Pagination) ([]*entity.Review, int64, error) {
	docs, err := r.client.Collection(reviewsCollection).Where("propertyId", "==", propertyID).Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list reviews", err)
	}
	reviews, err := decodeAll(docs, func(rv *entity.Review, id string) { rv.ID = id })
	if err != nil {
		return nil, 0, err
	}
	page, total := pageNewestFirst(reviews, func(rv *entity.Review) int64 { return rv.CreatedAt.UnixNano() }, pagination)
	return page, total, nil
}
