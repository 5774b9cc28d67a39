package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"staynest/internal/domain/entity"
	"staynest/internal/domain/repository"
	"staynest/internal/infrastructure/metrics"
	"staynest/pkg/errors"
	"staynest/pkg/logger"
)

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
)

type ListingUseCase struct {
	propertyRepo  repository.PropertyRepository
	draftRepo     repository.DraftRepository
	userRepo      repository.UserRepository
	subscriptions *SubscriptionUseCase
	uploader      ImageUploader
	now           func() time.Time
}

func NewListingUseCase(
	propertyRepo repository.PropertyRepository,
	draftRepo repository.DraftRepository,
	userRepo repository.UserRepository,
	subscriptions *SubscriptionUseCase,
	uploader ImageUploader,
) *ListingUseCase {
	return &ListingUseCase{
		propertyRepo:  propertyRepo,
		draftRepo:     draftRepo,
		userRepo:      userRepo,
		subscriptions: subscriptions,
		uploader:      uploader,
		now:           time.Now,
	}
}

type PropertyFilter struct {
	Category string
	City     string
	MinPrice float64
	MaxPrice float64
	Guests   int
	SortBy   string
}

type SaveDraftInput struct {
	Step    int
	Details entity.ListingDetails
}

// FilterProperties applies the search filter and ordering to a result set.
func FilterProperties(properties []*entity.Property, filter PropertyFilter) []*entity.Property {
	out := make([]*entity.Property, 0, len(properties))
	for _, p := range properties {
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if filter.City != "" && !strings.EqualFold(p.Location.City, filter.City) {
			continue
		}
		if filter.MinPrice > 0 && p.Pricing.BasePrice < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && p.Pricing.BasePrice > filter.MaxPrice {
			continue
		}
		if filter.Guests > 0 && p.MaxGuests < filter.Guests {
			continue
		}
		out = append(out, p)
	}

	var less func(a, b *entity.Property) bool
	switch filter.SortBy {
	case SortPriceAsc:
		less = func(a, b *entity.Property) bool { return a.Pricing.BasePrice < b.Pricing.BasePrice }
	case SortPriceDesc:
		less = func(a, b *entity.Property) bool { return a.Pricing.BasePrice > b.Pricing.BasePrice }
	case SortRating:
		less = func(a, b *entity.Property) bool {
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
			return a.ReviewsCount > b.ReviewsCount
		}
	default:
		less = func(a, b *entity.Property) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (uc *ListingUseCase) SearchProperties(ctx context.Context, filter PropertyFilter) ([]*entity.Property, error) {
	properties, err := uc.propertyRepo.ListBookable(ctx, uc.now())
	if err != nil {
		return nil, err
	}
	return FilterProperties(properties, filter), nil
}

// GetProperty hides disabled or inactive listings from everyone but their host.
func (uc *ListingUseCase) GetProperty(ctx context.Context, id, viewerID string) (*entity.Property, error) {
	p, err := uc.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Bookable(uc.now()) && p.HostID != viewerID {
		return nil, errors.NotFound("Property", nil)
	}
	return p, nil
}

func (uc *ListingUseCase) ListHostProperties(ctx context.Context, hostID string) ([]*entity.Property, error) {
	return uc.propertyRepo.ListByHost(ctx, hostID)
}

func (uc *ListingUseCase) activeHost(ctx context.Context, hostID string) (*entity.User, error) {
	host, err := uc.userRepo.GetByID(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if !host.IsHost() {
		return nil, errors.Forbidden("Only hosts can manage listings", nil)
	}
	if host.IsDisabled(uc.now()) {
		reason := ""
		if host.DisabledReason != nil {
			reason = *host.DisabledReason
		}
		return nil, errors.AccountDisabled(reason)
	}
	return host, nil
}

// CreateListing checks the host's plan quota and creates the listing in one
// commit.
func (uc *ListingUseCase) CreateListing(ctx context.Context, hostID string, details entity.ListingDetails) (*entity.Property, error) {
	return uc.create(ctx, hostID, details, "")
}

func (uc *ListingUseCase) create(ctx context.Context, hostID string, details entity.ListingDetails, draftID string) (*entity.Property, error) {
	if _, err := uc.activeHost(ctx, hostID); err != nil {
		return nil, err
	}
	if missing := details.Missing(); len(missing) > 0 {
		return nil, errors.BadRequest("Missing required fields: "+strings.Join(missing, ", "), nil)
	}

	maxListings, err := uc.subscriptions.MaxListings(ctx, hostID)
	if err != nil {
		return nil, err
	}

	property := details.ToProperty(hostID)
	property.ID = uuid.New().String()
	if err := uc.propertyRepo.CreateWithQuota(ctx, property, maxListings, draftID); err != nil {
		if errors.Is(err, errors.CodeListingLimitReached) {
			metrics.ListingQuotaRejections.Inc()
		}
		return nil, err
	}

	logger.FromContext(ctx).Info("listing created",
		zap.String("host_id", hostID),
		zap.String("property_id", property.ID),
		zap.String("draft_id", draftID),
	)
	return property, nil
}

func (uc *ListingUseCase) ownDraft(ctx context.Context, hostID, draftID string) (*entity.PropertyDraft, error) {
	draft, err := uc.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.HostID != hostID {
		return nil, errors.NotFound("Draft", nil)
	}
	return draft, nil
}

// SaveDraft creates a draft when draftID is empty and otherwise replaces the
// stored wizard state.
func (uc *ListingUseCase) SaveDraft(ctx context.Context, hostID, draftID string, input SaveDraftInput) (*entity.PropertyDraft, error) {
	if _, err := uc.activeHost(ctx, hostID); err != nil {
		return nil, err
	}
	now := uc.now()

	var draft *entity.PropertyDraft
	if draftID == "" {
		draft = &entity.PropertyDraft{
			ID:        uuid.New().String(),
			HostID:    hostID,
			Status:    entity.DraftOpen,
			CreatedAt: now,
		}
	} else {
		existing, err := uc.ownDraft(ctx, hostID, draftID)
		if err != nil {
			return nil, err
		}
		if existing.Status == entity.DraftPublished {
			return nil, errors.Conflict("Draft has already been published")
		}
		draft = existing
	}

	draft.Step = input.Step
	draft.Details = input.Details
	draft.UpdatedAt = now
	if err := uc.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (uc *ListingUseCase) GetDraft(ctx context.Context, hostID, draftID string) (*entity.PropertyDraft, error) {
	return uc.ownDraft(ctx, hostID, draftID)
}

func (uc *ListingUseCase) ListDrafts(ctx context.Context, hostID string) ([]*entity.PropertyDraft, error) {
	return uc.draftRepo.ListOpenByHost(ctx, hostID)
}

func (uc *ListingUseCase) DeleteDraft(ctx context.Context, hostID, draftID string) error {
	if _, err := uc.ownDraft(ctx, hostID, draftID); err != nil {
		return err
	}
	return uc.draftRepo.Delete(ctx, draftID)
}

// PublishDraft turns a finished draft into a listing. The draft flips to
// published in the same commit that creates the listing.
func (uc *ListingUseCase) PublishDraft(ctx context.Context, hostID, draftID string) (*entity.Property, error) {
	draft, err := uc.ownDraft(ctx, hostID, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status == entity.DraftPublished {
		return nil, errors.Conflict("Draft has already been published")
	}
	return uc.create(ctx, hostID, draft.Details, draftID)
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func (uc *ListingUseCase) UploadImage(ctx context.Context, userID, filename, contentType string, body io.Reader) (string, error) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", errors.BadRequest(fmt.Sprintf("Unsupported image type %q", contentType), nil)
	}
	if e := strings.ToLower(path.Ext(filename)); e == ".jpeg" || e == ".jpg" || e == ".png" || e == ".webp" {
		ext = e
	}
	name := uuid.New().String() + ext
	return uc.uploader.UploadImage(ctx, "listings/"+userID, name, contentType, body)
}
