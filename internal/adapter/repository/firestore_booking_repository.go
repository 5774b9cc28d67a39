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

type firestoreBookingRepository struct {
	client *firestore.Client
}

func NewFirestoreBookingRepository(client *firestore.Client) repository.BookingRepository {
	return &firestoreBookingRepository{
		client: client,
	}
}

func (r *firestoreBookingRepository) CreateIfAvailable(ctx context.Context, booking *entity.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	ref := r.client.Collection(bookingsCollection).Doc(booking.ID)
	confirmed := r.client.Collection(bookingsCollection).
		Where("propertyId", "==", booking.PropertyID).
		Where("status", "==", entity.BookingConfirmed)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(confirmed).GetAll()
		if err != nil {
			return err
		}
		for _, doc := range docs {
			var existing entity.Booking
			if err := doc.DataTo(&existing); err != nil {
				return err
			}
			if existing.Overlaps(booking.CheckIn, booking.CheckOut) {
				return errors.Conflict("Property is already booked for these dates")
			}
		}
		return tx.Create(ref, booking)
	})
	if err != nil {
		return wrapTx(err, "Failed to create booking")
	}
	return nil
}

func (r *firestoreBookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	doc, err := r.client.Collection(bookingsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, wrapGet(err, "Booking")
	}
	var booking entity.Booking
	if err := doc.DataTo(&booking); err != nil {
		return nil, errors.Internal("Failed to parse booking data", err)
	}
	booking.ID = doc.Ref.ID
	return &booking, nil
}

func (r *firestoreBookingRepository) list(ctx context.Context, field, value string, pagination *utils.Pagination) ([]*entity.Booking, int64, error) {
	docs, err := r.client.Collection(bookingsCollection).Where(field, "==", value).Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list bookings", err)
	}
	bookings, err := decodeAll(docs, func(b *entity.Booking, id string) { b.ID = id })
	if err != nil {
		return nil, 0, err
	}
	page, total := pageNewestFirst(bookings, func(b *entity.Booking) int64 { return b.CreatedAt.UnixNano() }, pagination)
	return page, total, nil
}

func (r *firestoreBookingRepository) ListByGuest(ctx context.Context, guestID string, pagination *utils.Pagination) ([]*entity.Booking, int64, error) {
	return r.list(ctx, "guestId", guestID, pagination)
}

func (r *firestoreBookingRepository) ListByHost(ctx context.Context, hostID string, pagination *utils.Pagination) ([]*entity.Booking, int64, error) {
	return r.list(ctx, "hostId", hostID, pagination)
}

func (r *firestoreBookingRepository) ListStays(ctx context.Context, guestID, propertyID string) ([]*entity.Booking, error) {
	docs, err := r.client.Collection(bookingsCollection).
		Where("guestId", "==", guestID).
		Where("propertyId", "==", propertyID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query bookings", err)
	}
	bookings, err := decodeAll(docs, func(b *entity.Booking, id string) { b.ID = id })
	if err != nil {
		return nil, err
	}
	return staysOldestFirst(bookings), nil
}
