package entity

import (
	"time"
)

const (
	UserTypeGuest = "guest"
	UserTypeHost  = "host"
	UserTypeAdmin = "admin"
)

type User struct {
	ID          string `json:"id" firestore:"id"`
	Email       string `json:"email" firestore:"email"`
	DisplayName string `json:"displayName" firestore:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	Phone       string `json:"phone,omitempty" firestore:"phone,omitempty"`
	UserType    string `json:"userType" firestore:"userType"`
	IsAdmin     bool   `json:"isAdmin,omitempty" firestore:"isAdmin,omitempty"`

	Disabled       bool       `json:"disabled" firestore:"disabled"`
	DisabledUntil  *time.Time `json:"disabledUntil" firestore:"disabledUntil"`
	DisabledReason *string    `json:"disabledReason" firestore:"disabledReason"`

	// Subscription is the authoritative copy. subscriptions/{uid} only mirrors it.
	Subscription  *Subscription `json:"subscription,omitempty" firestore:"subscription,omitempty"`
	WalletBalance float64       `json:"walletBalance" firestore:"walletBalance"`

	// ActiveListings is bumped by every quota-checked create.
	ActiveListings int `json:"activeListings" firestore:"activeListings"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func (u *User) IsHost() bool {
	return u.UserType == UserTypeHost
}

func (u *User) IsAdministrator() bool {
	return u.UserType == UserTypeAdmin || u.IsAdmin
}

// IsDisabled reports whether the disable is still in force at now. A
// disable with no deadline lasts until an administrator lifts it.
func (u *User) IsDisabled(now time.Time) bool {
	return u.DisabledState().ActiveAt(now)
}

func (u *User) DisabledState() DisabledState {
	return DisabledState{
		Disabled: u.Disabled,
		Until:    u.DisabledUntil,
		Reason:   u.DisabledReason,
	}
}

func (u *User) ApplyDisabledState(s DisabledState) {
	u.Disabled = s.Disabled
	u.DisabledUntil = s.Until
	u.DisabledReason = s.Reason
}

// DisabledState is the flag triple a host cascades onto each of its properties.
type DisabledState struct {
	Disabled bool       `json:"disabled"`
	Until    *time.Time `json:"disabledUntil"`
	Reason   *string    `json:"disabledReason"`
}

func (s DisabledState) ActiveAt(now time.Time) bool {
	return s.Disabled && (s.Until == nil || now.Before(*s.Until))
}

func Enabled() DisabledState {
	return DisabledState{}
}

func DisabledFor(until *time.Time, reason string) DisabledState {
	return DisabledState{
		Disabled: true,
		Until:    until,
		Reason:   &reason,
	}
}
