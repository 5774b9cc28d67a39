package entity

import (
	"time"
)

type Review struct {
	ID         string    `json:"id" firestore:"id"`
	PropertyID string    `json:"propertyId" firestore:"propertyId"`
	BookingID  string    `json:"bookingId" firestore:"bookingId"`
	GuestID    string    `json:"guestId" firestore:"guestId"`
	GuestName  string    `json:"guestName" firestore:"guestName"`
	Rating     int       `json:"rating" firestore:"rating"`
	Comment    string    `json:"comment" firestore:"comment"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
}

// AddRating folds one more review into a running average.
func AddRating(average float64, count int, rating int) (float64, int) {
	newCount := count + 1
	return (average*float64(count) + float64(rating)) / float64(newCount), newCount
}
