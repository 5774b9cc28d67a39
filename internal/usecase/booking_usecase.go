package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"staynest/internal/domain/entity"
	"staynest/internal/domain/repository"
	"staynest/pkg/errors"
	"staynest/pkg/logger"
	"staynest/pkg/utils"
)

const receiptTimeout = 10 * time.Second

type BookingUseCase struct {
	bookingRepo  repository.BookingRepository
	propertyRepo repository.PropertyRepository
	mailer       Mailer
	notifier     Notifier
	now          func() time.Time
}

func NewBookingUseCase(
	bookingRepo repository.BookingRepository,
	propertyRepo repository.PropertyRepository,
	mailer Mailer,
	notifier Notifier,
) *BookingUseCase {
	return &BookingUseCase{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		mailer:       mailer,
		notifier:     notifier,
		now:          time.Now,
	}
}

type CreateBookingInput struct {
	PropertyID string
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	PaymentID  string
}

// Nights counts started 24h periods between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

func (uc *BookingUseCase) CreateBooking(ctx context.Context, guestID, guestEmail string, input CreateBookingInput) (*entity.Booking, error) {
	if !input.CheckOut.After(input.CheckIn) {
		return nil, errors.BadRequest("Check-out must be after check-in", nil)
	}
	now := uc.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if input.CheckIn.Before(today) {
		return nil, errors.BadRequest("Check-in cannot be in the past", nil)
	}
	if input.PaymentID == "" {
		return nil, errors.BadRequest("Payment is required", nil)
	}

	property, err := uc.propertyRepo.GetByID(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	if !property.Bookable(now) {
		return nil, errors.NotFound("Property", nil)
	}
	if property.HostID == guestID {
		return nil, errors.BadRequest("You cannot book your own property", nil)
	}
	if input.Guests <= 0 || input.Guests > property.MaxGuests {
		return nil, errors.BadRequest(fmt.Sprintf("This property accepts 1 to %d guests", property.MaxGuests), nil)
	}

	nights := Nights(input.CheckIn, input.CheckOut)
	booking := &entity.Booking{
		PropertyID:    property.ID,
		PropertyTitle: property.Title,
		HostID:        property.HostID,
		GuestID:       guestID,
		GuestEmail:    guestEmail,
		CheckIn:       input.CheckIn,
		CheckOut:      input.CheckOut,
		Nights:        nights,
		Guests:        input.Guests,
		PricePerNight: property.Pricing.BasePrice,
		TotalPrice:    float64(nights) * property.Pricing.BasePrice,
		Currency:      property.Pricing.Currency,
		Status:        entity.BookingConfirmed,
		PaymentID:     input.PaymentID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.bookingRepo.CreateIfAvailable(ctx, booking); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("property_id", booking.PropertyID),
		zap.Int("nights", nights),
	)

	// The receipt must not hold up or fail the booking.
	go func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, receiptTimeout)
		defer cancel()
		if err := uc.mailer.SendBookingReceipt(ctx, booking); err != nil {
			log.Warn("booking receipt not sent", zap.String("booking_id", booking.ID), zap.Error(err))
		}
	}(context.WithoutCancel(ctx))

	uc.notifier.Notify(ctx, &entity.Notification{
		UserID:  property.HostID,
		Type:    entity.NotifyNewBooking,
		Title:   "New booking",
		Message: fmt.Sprintf("%s is booked for %d night(s) from %s.", property.Title, nights, input.CheckIn.Format("2006-01-02")),
		Data:    map[string]interface{}{"bookingId": booking.ID, "propertyId": property.ID},
	})
	return booking, nil
}

func (uc *BookingUseCase) ListGuestBookings(ctx context.Context, guestID string, pagination *utils.Pagination) ([]*entity.Booking, int64, error) {
	return uc.bookingRepo.ListByGuest(ctx, guestID, pagination)
}

func (uc *BookingUseCase) ListHostBookings(ctx context.Context, hostID string, pagination *utils.Pagination) ([]*entity.Booking, int64, error) {
	return uc.bookingRepo.ListByHost(ctx, hostID, pagination)
}
