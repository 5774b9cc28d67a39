package repository

import (
	"context"

	"staynest/internal/domain/entity"
	"staynest/pkg/utils"
)

type BookingRepository interface {
	// CreateIfAvailable rejects a booking overlapping a confirmed stay of the
	// same property.
	CreateIfAvailable(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	ListByGuest(ctx context.Context, guestID string, pagination *utils.Pagination) ([]*entity.Booking, int64, error)
	ListByHost(ctx context.Context, hostID string, pagination *utils.Pagination) ([]*entity.Booking, int64, error)
	// ListStays returns the guest's confirmed or completed bookings at the
	// property, oldest check-in first.
	ListStays(ctx context.Context, guestID, propertyID string) ([]*entity.Booking, error)
}
