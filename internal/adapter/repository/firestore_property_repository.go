package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"staynest/internal/domain/entity"
	"staynest/internal/domain/repository"
	"staynest/pkg/errors"
)

type firestorePropertyRepository struct {
	client *firestore.Client
}

func NewFirestorePropertyRepository(client *firestore.Client) repository.PropertyRepository {
	return &firestorePropertyRepository{
		client: client,
	}
}

func (r *firestorePropertyRepository) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	doc, err := r.client.Collection(propertiesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, wrapGet(err, "Property")
	}
	return decodeProperty(doc)
}

// ListBookable filters the disable window in memory since a lapsed
// disabledUntil leaves disabled=true on the document.
func (r *firestorePropertyRepository) ListBookable(ctx context.Context, now time.Time) ([]*entity.Property, error) {
	docs, err := r.client.Collection(propertiesCollection).
		Where("status", "==", entity.PropertyActive).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list properties", err)
	}
	props, err := decodeAll(docs, func(p *entity.Property, id string) { p.ID = id })
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Property, 0, len(props))
	for _, p := range props {
		if p.Bookable(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *firestorePropertyRepository) ListByHost(ctx context.Context, hostID string) ([]*entity.Property, error) {
	docs, err := r.client.Collection(propertiesCollection).Where("hostId", "==", hostID).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list host properties", err)
	}
	props, err := decodeAll(docs, func(p *entity.Property, id string) { p.ID = id })
	if err != nil {
		return nil, err
	}
	sorted, _ := pageNewestFirst(props, func(p *entity.Property) int64 { return p.CreatedAt.UnixNano() }, nil)
	return sorted, nil
}

func (r *firestorePropertyRepository) activeByHost(hostID string) firestore.Query {
	return r.client.Collection(propertiesCollection).
		Where("hostId", "==", hostID).
		Where("status", "==", entity.PropertyActive)
}

func (r *firestorePropertyRepository) CountActiveByHost(ctx context.Context, hostID string) (int, error) {
	docs, err := r.activeByHost(hostID).Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count host properties", err)
	}
	return len(docs), nil
}

// CreateWithQuota also writes the host document. Two concurrent creates for
// one host therefore conflict and the loser re-runs its count.
func (r *firestorePropertyRepository) CreateWithQuota(ctx context.Context, property *entity.Property, maxListings int, draftID string) error {
	if property.ID == "" {
		property.ID = uuid.New().String()
	}
	hostRef := r.client.Collection(usersCollection).Doc(property.HostID)
	propRef := r.client.Collection(propertiesCollection).Doc(property.ID)

	var draftRef *firestore.DocumentRef
	if draftID != "" {
		draftRef = r.client.Collection(propertyDraftsCollection).Doc(draftID)
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(hostRef); err != nil {
			return wrapGet(err, "Host")
		}
		active, err := tx.Documents(r.activeByHost(property.HostID)).GetAll()
		if err != nil {
			return err
		}
		if draftRef != nil {
			doc, err := tx.Get(draftRef)
			if err != nil {
				return wrapGet(err, "Draft")
			}
			var draft entity.PropertyDraft
			if err := doc.DataTo(&draft); err != nil {
				return err
			}
			if draft.HostID != property.HostID {
				return errors.NotFound("Draft", nil)
			}
			if draft.Status == entity.DraftPublished {
				return errors.Conflict("Draft has already been published")
			}
		}

		if maxListings >= 0 && len(active) >= maxListings {
			return errors.ListingLimitReached(maxListings)
		}

		now := time.Now()
		property.CreatedAt = now
		property.UpdatedAt = now
		if err := tx.Create(propRef, property); err != nil {
			return err
		}
		if err := tx.Update(hostRef, []firestore.Update{
			{Path: "activeListings", Value: len(active) + 1},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}
		if draftRef != nil {
			return tx.Update(draftRef, []firestore.Update{
				{Path: "status", Value: entity.DraftPublished},
				{Path: "publishedPropertyId", Value: property.ID},
				{Path: "updatedAt", Value: now},
			})
		}
		return nil
	})
	if err != nil {
		return wrapTx(err, "Failed to create property")
	}
	return nil
}

type firestoreDraftRepository struct {
	client *firestore.Client
}

func NewFirestoreDraftRepository(client *firestore.Client) repository.DraftRepository {
	return &firestoreDraftRepository{
		client: client,
	}
}

func (r *firestoreDraftRepository) Save(ctx context.Context, draft *entity.PropertyDraft) error {
	_, err := r.client.Collection(propertyDraftsCollection).Doc(draft.ID).Set(ctx, draft)
	if err != nil {
		return errors.Internal("Failed to save draft", err)
	}
	return nil
}

func (r *firestoreDraftRepository) GetByID(ctx context.Context, id string) (*entity.PropertyDraft, error) {
	doc, err := r.client.Collection(propertyDraftsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, wrapGet(err, "Draft")
	}
	var draft entity.PropertyDraft
	if err := doc.DataTo(&draft); err != nil {
		return nil, errors.Internal("Failed to parse draft data", err)
	}
	draft.ID = doc.Ref.ID
	return &draft, nil
}

func (r *firestoreDraftRepository) ListOpenByHost(ctx context.Context, hostID string) ([]*entity.PropertyDraft, error) {
	docs, err := r.client.Collection(propertyDraftsCollection).
		Where("hostId", "==", hostID).
		Where("status", "==", entity.DraftOpen).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list drafts", err)
	}
	drafts, err := decodeAll(docs, func(d *entity.PropertyDraft, id string) { d.ID = id })
	if err != nil {
		return nil, err
	}
	sorted, _ := pageNewestFirst(drafts, func(d *entity.PropertyDraft) int64 { return d.UpdatedAt.UnixNano() }, nil)
	return sorted, nil
}

func (r *firestoreDraftRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(propertyDraftsCollection).Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete draft", err)
	}
	return nil
}
