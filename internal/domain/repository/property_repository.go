package repository

import (
	"context"
	"time"

	"staynest/internal/domain/entity"
)

type PropertyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Property, error)
	// ListBookable returns active listings that are not disabled at now.
	ListBookable(ctx context.Context, now time.Time) ([]*entity.Property, error)
	ListByHost(ctx context.Context, hostID string) ([]*entity.Property, error)
	CountActiveByHost(ctx context.Context, hostID string) (int, error)
	// CreateWithQuota counts the host's active listings and creates property
	// in the same transaction. maxListings < 0 means no cap. A non-empty
	// draftID is marked published in that transaction too.
	CreateWithQuota(ctx context.Context, property *entity.Property, maxListings int, draftID string) error
}

type DraftRepository interface {
	Save(ctx context.Context, draft *entity.PropertyDraft) error
	GetByID(ctx context.Context, id string) (*entity.PropertyDraft, error)
	ListOpenByHost(ctx context.Context, hostID string) ([]*entity.PropertyDraft, error)
	Delete(ctx context.Context, id string) error
}
