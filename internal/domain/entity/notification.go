package entity

import (
	"time"
)

const (
	NotifySubscriptionRevoked  = "subscription_revoked"
	NotifySubscriptionRestored = "subscription_restored"
	NotifyAccountDisabled      = "account_disabled"
	NotifyAccountEnabled       = "account_enabled"
	NotifySubscriptionExpired  = "subscription_expired"
	NotifyWalletTopUp          = "wallet_top_up"
	NotifyWalletWithdrawal     = "wallet_withdrawal"
	NotifyNewBooking           = "new_booking"
	NotifyNewReview            = "new_review"
)

type Notification struct {
	ID        string                 `json:"id" firestore:"id"`
	UserID    string                 `json:"userId" firestore:"userId"`
	Type      string                 `json:"type" firestore:"type"`
	Title     string                 `json:"title" firestore:"title"`
	Message   string                 `json:"message" firestore:"message"`
	Data      map[string]interface{} `json:"data,omitempty" firestore:"data,omitempty"`
	Read      bool                   `json:"read" firestore:"read"`
	CreatedAt time.Time              `json:"createdAt" firestore:"createdAt"`
}
