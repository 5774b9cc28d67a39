package entity

import (
	"time"
)

const (
	PropertyActive   = "active"
	PropertyInactive = "inactive"
)

type Location struct {
	Address   string  `json:"address" firestore:"address"`
	City      string  `json:"city" firestore:"city"`
	Country   string  `json:"country" firestore:"country"`
	Latitude  float64 `json:"latitude,omitempty" firestore:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty" firestore:"longitude,omitempty"`
}

type Pricing struct {
	BasePrice float64 `json:"basePrice" firestore:"basePrice"`
	Currency  string  `json:"currency" firestore:"currency"`
}

type Property struct {
	ID          string   `json:"id" firestore:"id"`
	HostID      string   `json:"hostId" firestore:"hostId"`
	Title       string   `json:"title" firestore:"title"`
	Description string   `json:"description" firestore:"description"`
	Category    string   `json:"category" firestore:"category"`
	Location    Location `json:"location" firestore:"location"`
	Pricing     Pricing  `json:"pricing" firestore:"pricing"`
	MaxGuests   int      `json:"maxGuests" firestore:"maxGuests"`
	Bedrooms    int      `json:"bedrooms" firestore:"bedrooms"`
	Bathrooms   int      `json:"bathrooms" firestore:"bathrooms"`
	Amenities   []string `json:"amenities" firestore:"amenities"`
	Images      []string `json:"images" firestore:"images"`

	Rating       float64 `json:"rating" firestore:"rating"`
	ReviewsCount int     `json:"reviewsCount" firestore:"reviewsCount"`
	Status       string  `json:"status" firestore:"status"`

	Disabled       bool       `json:"disabled" firestore:"disabled"`
	DisabledUntil  *time.Time `json:"disabledUntil" firestore:"disabledUntil"`
	DisabledReason *string    `json:"disabledReason" firestore:"disabledReason"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

func (p *Property) ApplyDisabledState(s DisabledState) {
	p.Disabled = s.Disabled
	p.DisabledUntil = s.Until
	p.DisabledReason = s.Reason
}

func (p *Property) IsDisabled(now time.Time) bool {
	return DisabledState{Disabled: p.Disabled, Until: p.DisabledUntil}.ActiveAt(now)
}

// Bookable is true for listings guests can see and reserve at now.
func (p *Property) Bookable(now time.Time) bool {
	return p.Status == PropertyActive && !p.IsDisabled(now)
}

// ListingDetails is the host-editable part of a listing, shared by the
// creation form and the wizard draft.
type ListingDetails struct {
	Title       string   `json:"title" firestore:"title"`
	Description string   `json:"description" firestore:"description"`
	Category    string   `json:"category" firestore:"category"`
	Location    Location `json:"location" firestore:"location"`
	Pricing     Pricing  `json:"pricing" firestore:"pricing"`
	MaxGuests   int      `json:"maxGuests" firestore:"maxGuests"`
	Bedrooms    int      `json:"bedrooms" firestore:"bedrooms"`
	Bathrooms   int      `json:"bathrooms" firestore:"bathrooms"`
	Amenities   []string `json:"amenities" firestore:"amenities"`
	Images      []string `json:"images" firestore:"images"`
}

// Missing lists the fields a listing needs before it can be published.
func (d *ListingDetails) Missing() []string {
	var missing []string
	if d.Title == "" {
		missing = append(missing, "title")
	}
	if d.Category == "" {
		missing = append(missing, "category")
	}
	if d.Location.City == "" {
		missing = append(missing, "location.city")
	}
	if d.Pricing.BasePrice <= 0 {
		missing = append(missing, "pricing.basePrice")
	}
	if d.MaxGuests <= 0 {
		missing = append(missing, "maxGuests")
	}
	return missing
}

func (d *ListingDetails) ToProperty(hostID string) *Property {
	pricing := d.Pricing
	if pricing.Currency == "" {
		pricing.Currency = "USD"
	}
	return &Property{
		HostID:      hostID,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Location:    d.Location,
		Pricing:     pricing,
		MaxGuests:   d.MaxGuests,
		Bedrooms:    d.Bedrooms,
		Bathrooms:   d.Bathrooms,
		Amenities:   d.Amenities,
		Images:      d.Images,
		Status:      PropertyActive,
	}
}
