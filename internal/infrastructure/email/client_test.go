package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staynest/internal/domain/entity"
)

func sampleBooking() *entity.Booking {
	in := time.Date(2025, 4, 1, 15, 0, 0, 0, time.UTC)
	return &entity.Booking{
		ID:            "b1",
		PropertyTitle: "Sea Loft",
		GuestEmail:    "guest@example.com",
		CheckIn:       in,
		CheckOut:      in.Add(72 * time.Hour),
		Guests:        2,
		Nights:        3,
		PricePerNight: 80,
		TotalPrice:    240,
		Currency:      "USD",
		PaymentID:     "PAY-1",
	}
}

func TestSendBookingReceipt(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-1", "stays@staynest.app")
	require.NoError(t, c.SendBookingReceipt(context.Background(), sampleBooking()))

	assert.Equal(t, "stays@staynest.app", got.From)
	assert.Equal(t, "guest@example.com", got.To)
	assert.Contains(t, got.Subject, "Sea Loft")
	assert.Contains(t, got.Text, "Total: 240.00 USD")
	assert.Contains(t, got.Text, "Check-in: 2025-04-01")
}

func TestSendReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "k", "s@x.io").SendBookingReceipt(context.Background(), sampleBooking())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestSendBookingReceiptWithoutEmailIsSkipped(t *testing.T) {
	b := sampleBooking()
	b.GuestEmail = ""
	assert.NoError(t, NewClient("http://127.0.0.1:0", "k", "s").SendBookingReceipt(context.Background(), b))
}
