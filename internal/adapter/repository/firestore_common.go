package repository

import (
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"staynest/internal/domain/entity"
	"staynest/pkg/errors"
	"staynest/pkg/utils"
)

const (
	usersCollection              = "users"
	subscriptionsCollection      = "subscriptions"
	propertiesCollection         = "properties"
	propertyDraftsCollection     = "propertyDrafts"
	bookingsCollection           = "bookings"
	reviewsCollection            = "reviews"
	walletTransactionsCollection = "walletTransactions"
	notificationsCollection      = "notifications"
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// wrapGet maps a failed document read to NotFound or Internal.
func wrapGet(err error, resource string) error {
	if isNotFound(err) {
		return errors.NotFound(resource, err)
	}
	if _, ok := err.(*errors.AppError); ok {
		return err
	}
	return errors.Internal("Failed to get "+resource, err)
}

// wrapTx passes domain errors raised inside a transaction through unchanged.
func wrapTx(err error, message string) error {
	if _, ok := err.(*errors.AppError); ok {
		return err
	}
	return errors.Internal(message, err)
}

func decodeUser(doc *firestore.DocumentSnapshot) (*entity.User, error) {
	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.ID = doc.Ref.ID
	return &user, nil
}

func decodeProperty(doc *firestore.DocumentSnapshot) (*entity.Property, error) {
	var property entity.Property
	if err := doc.DataTo(&property); err != nil {
		return nil, errors.Internal("Failed to parse property data", err)
	}
	property.ID = doc.Ref.ID
	return &property, nil
}

// decodeAll converts a result set, keeping the document id as the entity id.
func decodeAll[T any](docs []*firestore.DocumentSnapshot, setID func(*T, string)) ([]*T, error) {
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, errors.Internal("Failed to parse document "+doc.Ref.ID, err)
		}
		setID(&v, doc.Ref.ID)
		out = append(out, &v)
	}
	return out, nil
}

// pageNewestFirst sorts by createdAt descending and cuts out one page.
func pageNewestFirst[T any](items []*T, createdAt func(*T) int64, pagination *utils.Pagination) ([]*T, int64) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]) > createdAt(items[j])
	})
	total := int64(len(items))
	if pagination == nil {
		return items, total
	}
	start := pagination.Offset()
	if start >= len(items) {
		return []*T{}, total
	}
	end := start + pagination.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total
}

// staysOldestFirst keeps confirmed and completed bookings, earliest check-in first.
func staysOldestFirst(bookings []*entity.Booking) []*entity.Booking {
	stays := make([]*entity.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == entity.BookingConfirmed || b.Status == entity.BookingCompleted {
			stays = append(stays, b)
		}
	}
	sort.SliceStable(stays, func(i, j int) bool {
		if !stays[i].CheckIn.Equal(stays[j].CheckIn) {
			return stays[i].CheckIn.Before(stays[j].CheckIn)
		}
		return stays[i].ID < stays[j].ID
	})
	return stays
}

func disabledUpdates(s entity.DisabledState) []firestore.Update {
	return []firestore.Update{
		{Path: "disabled", Value: s.Disabled},
		{Path: "disabledUntil", Value: s.Until},
		{Path: "disabledReason", Value: s.Reason},
	}
}

// subscriptionMirror is the subscriptions/{uid} copy of user.subscription.
func subscriptionMirror(user *entity.User) map[string]interface{} {
	sub := user.Subscription
	return map[string]interface{}{
		"userId":               user.ID,
		"planId":               sub.PlanID,
		"planName":             sub.PlanName,
		"price":                sub.Price,
		"status":               sub.Status,
		"startDate":            sub.StartDate,
		"nextBillingDate":      sub.NextBillingDate,
		"expiryDate":           sub.ExpiryDate,
		"revokedAt":            sub.RevokedAt,
		"previousSubscription": sub.PreviousSubscription,
		"updatedAt":            user.UpdatedAt,
	}
}
