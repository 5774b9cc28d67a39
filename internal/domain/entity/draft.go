package entity

import (
	"time"
)

const (
	DraftOpen      = "draft"
	DraftPublished = "published"
)

// PropertyDraft is a listing wizard resumed across sessions.
type PropertyDraft struct {
	ID                  string         `json:"id" firestore:"id"`
	HostID              string         `json:"hostId" firestore:"hostId"`
	Step                int            `json:"step" firestore:"step"`
	Details             ListingDetails `json:"details" firestore:"details"`
	Status              string         `json:"status" firestore:"status"`
	PublishedPropertyID string         `json:"publishedPropertyId,omitempty" firestore:"publishedPropertyId,omitempty"`
	CreatedAt           time.Time      `json:"createdAt" firestore:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt" firestore:"updatedAt"`
}
