package entity

import (
	"time"
)

const (
	SubscriptionActive     = "active"
	SubscriptionCancelling = "cancelling"
	SubscriptionRevoked    = "revoked"
)

type Subscription struct {
	PlanID          string     `json:"planId" firestore:"planId"`
	PlanName        string     `json:"planName" firestore:"planName"`
	Price           float64    `json:"price" firestore:"price"`
	Status          string     `json:"status" firestore:"status"`
	StartDate       *time.Time `json:"startDate,omitempty" firestore:"startDate,omitempty"`
	NextBillingDate *time.Time `json:"nextBillingDate,omitempty" firestore:"nextBillingDate,omitempty"`
	ExpiryDate      *time.Time `json:"expiryDate,omitempty" firestore:"expiryDate,omitempty"`
	PaymentID       string     `json:"paymentId,omitempty" firestore:"paymentId,omitempty"`
	RevokedAt       *time.Time `json:"revokedAt,omitempty" firestore:"revokedAt,omitempty"`

	PreviousSubscription *SubscriptionSnapshot `json:"previousSubscription,omitempty" firestore:"previousSubscription,omitempty"`
}

// SubscriptionSnapshot is what revoke keeps so restore can put the exact fields back.
type SubscriptionSnapshot struct {
	PlanID          string     `json:"planId" firestore:"planId"`
	PlanName        string     `json:"planName" firestore:"planName"`
	Price           float64    `json:"price" firestore:"price"`
	Status          string     `json:"status,omitempty" firestore:"status,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty" firestore:"startDate,omitempty"`
	NextBillingDate *time.Time `json:"nextBillingDate,omitempty" firestore:"nextBillingDate,omitempty"`
	ExpiryDate      *time.Time `json:"expiryDate,omitempty" firestore:"expiryDate,omitempty"`
	PaymentID       string     `json:"paymentId,omitempty" firestore:"paymentId,omitempty"`
}

func (s *Subscription) Snapshot() *SubscriptionSnapshot {
	return &SubscriptionSnapshot{
		PlanID:          s.PlanID,
		PlanName:        s.PlanName,
		Price:           s.Price,
		Status:          s.Status,
		StartDate:       s.StartDate,
		NextBillingDate: s.NextBillingDate,
		ExpiryDate:      s.ExpiryDate,
		PaymentID:       s.PaymentID,
	}
}

// Restore rebuilds the subscription captured by the snapshot. A snapshot
// without a status restores as active.
func (snap *SubscriptionSnapshot) Restore() *Subscription {
	status := snap.Status
	if status == "" {
		status = SubscriptionActive
	}
	return &Subscription{
		PlanID:          snap.PlanID,
		PlanName:        snap.PlanName,
		Price:           snap.Price,
		Status:          status,
		StartDate:       snap.StartDate,
		NextBillingDate: snap.NextBillingDate,
		ExpiryDate:      snap.ExpiryDate,
		PaymentID:       snap.PaymentID,
	}
}

func (s *Subscription) IsRevoked() bool {
	return s != nil && s.Status == SubscriptionRevoked
}

// CancellationExpired reports a cancelling subscription whose paid period is over.
func (s *Subscription) CancellationExpired(now time.Time) bool {
	if s == nil || s.Status != SubscriptionCancelling || s.ExpiryDate == nil {
		return false
	}
	return !s.ExpiryDate.After(now)
}
