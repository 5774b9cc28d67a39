package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staynest/internal/domain/entity"
	"staynest/pkg/errors"
	"staynest/pkg/utils"
)

func TestNights(t *testing.T) {
	in := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, Nights(in, in.Add(24*time.Hour)))
	assert.Equal(t, 3, Nights(in, in.Add(72*time.Hour)))
	assert.Equal(t, 2, Nights(in, in.Add(25*time.Hour)))
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "H", Subscription: env.premium()})
	env.addUser(t, &entity.User{ID: "G", UserType: entity.UserTypeGuest})
	env.addProperty("H", "p1")

	checkIn := env.now.Add(48 * time.Hour)
	booking, err := env.bookings.CreateBooking(ctx, "G", "g@example.com", CreateBookingInput{
		PropertyID: "p1",
		CheckIn:    checkIn,
		CheckOut:   checkIn.Add(3 * 24 * time.Hour),
		Guests:     2,
		PaymentID:  "PAY-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, booking.Nights)
	assert.Equal(t, 300.0, booking.TotalPrice)
	assert.Equal(t, "H", booking.HostID)
	assert.Equal(t, entity.BookingConfirmed, booking.Status)

	select {
	case sent := <-env.mailer.sent:
		assert.Equal(t, booking.ID, sent.ID)
	case <-time.After(time.Second):
		t.Fatal("receipt was not sent")
	}
	assert.Equal(t, []string{entity.NotifyNewBooking}, env.notifier.types())

	_, err = env.bookings.CreateBooking(ctx, "G", "g@example.com", CreateBookingInput{
		PropertyID: "p1",
		CheckIn:    checkIn.Add(24 * time.Hour),
		CheckOut:   checkIn.Add(5 * 24 * time.Hour),
		Guests:     1,
		PaymentID:  "PAY-2",
	})
	assert.True(t, errors.Is(err, errors.CodeConflict))

	next, err := env.bookings.CreateBooking(ctx, "G", "g@example.com", CreateBookingInput{
		PropertyID: "p1",
		CheckIn:    checkIn.Add(3 * 24 * time.Hour),
		CheckOut:   checkIn.Add(4 * 24 * time.Hour),
		Guests:     1,
		PaymentID:  "PAY-3",
	})
	require.NoError(t, err, "check-out day is free for the next stay")
	<-env.mailer.sent

	guestBookings, total, err := env.bookings.ListGuestBookings(ctx, "G", &utils.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, guestBookings, 2)

	hostBookings, _, err := env.bookings.ListHostBookings(ctx, "H", nil)
	require.NoError(t, err)
	assert.Len(t, hostBookings, 2)
	assert.NotEqual(t, booking.ID, next.ID)
}

func TestCreateBooking_Rejections(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "H", Subscription: env.premium()})
	env.addProperty("H", "p1")
	checkIn := env.now.Add(24 * time.Hour)

	valid := func() CreateBookingInput {
		return CreateBookingInput{PropertyID: "p1", CheckIn: checkIn, CheckOut: checkIn.Add(48 * time.Hour), Guests: 2, PaymentID: "PAY"}
	}

	cases := map[string]struct {
		guest  string
		modify func(*CreateBookingInput)
		code   string
	}{
		"checkout before checkin": {"G", func(in *CreateBookingInput) { in.CheckOut = in.CheckIn }, errors.CodeBadRequest},
		"past check-in":           {"G", func(in *CreateBookingInput) { in.CheckIn = env.now.Add(-48 * time.Hour) }, errors.CodeBadRequest},
		"no payment":              {"G", func(in *CreateBookingInput) { in.PaymentID = "" }, errors.CodeBadRequest},
		"too many guests":         {"G", func(in *CreateBookingInput) { in.Guests = 5 }, errors.CodeBadRequest},
		"zero guests":             {"G", func(in *CreateBookingInput) { in.Guests = 0 }, errors.CodeBadRequest},
		"own property":            {"H", func(in *CreateBookingInput) {}, errors.CodeBadRequest},
		"unknown property":        {"G", func(in *CreateBookingInput) { in.PropertyID = "nope" }, errors.CodeNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := valid()
			tc.modify(&in)
			_, err := env.bookings.CreateBooking(ctx, tc.guest, "x@example.com", in)
			assert.True(t, errors.Is(err, tc.code), "got %v", err)
		})
	}
}

func TestCreateBooking_DisabledPropertyNotBookable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "H", Subscription: env.premium()})
	env.addProperty("H", "p1")
	_, err := env.hosts.DisableHost(ctx, "H", DisableHostInput{})
	require.NoError(t, err)

	checkIn := env.now.Add(24 * time.Hour)
	_, err = env.bookings.CreateBooking(ctx, "G", "g@example.com", CreateBookingInput{
		PropertyID: "p1", CheckIn: checkIn, CheckOut: checkIn.Add(24 * time.Hour), Guests: 1, PaymentID: "PAY",
	})
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}
