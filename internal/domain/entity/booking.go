package entity

import (
	"time"
)

const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

type Booking struct {
	ID            string    `json:"id" firestore:"id"`
	PropertyID    string    `json:"propertyId" firestore:"propertyId"`
	PropertyTitle string    `json:"propertyTitle" firestore:"propertyTitle"`
	HostID        string    `json:"hostId" firestore:"hostId"`
	GuestID       string    `json:"guestId" firestore:"guestId"`
	GuestEmail    string    `json:"guestEmail" firestore:"guestEmail"`
	CheckIn       time.Time `json:"checkIn" firestore:"checkIn"`
	CheckOut      time.Time `json:"checkOut" firestore:"checkOut"`
	Nights        int       `json:"nights" firestore:"nights"`
	Guests        int       `json:"guests" firestore:"guests"`
	PricePerNight float64   `json:"pricePerNight" firestore:"pricePerNight"`
	TotalPrice    float64   `json:"totalPrice" firestore:"totalPrice"`
	Currency      string    `json:"currency" firestore:"currency"`
	Status        string    `json:"status" firestore:"status"`
	PaymentID     string    `json:"paymentId" firestore:"paymentId"`
	CreatedAt     time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Overlaps reports whether two stays share at least one night.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return checkIn.Before(b.CheckOut) && b.CheckIn.Before(checkOut)
}
