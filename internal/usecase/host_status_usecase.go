package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"staynest/internal/domain/entity"
	"staynest/internal/domain/plan"
	"staynest/internal/domain/repository"
	"staynest/internal/infrastructure/metrics"
	"staynest/pkg/errors"
	"staynest/pkg/logger"
	"staynest/pkg/utils"
)

const (
	revokedReason  = "Subscription revoked"
	disabledReason = "Disabled by administrator"
)

type HostStatusUseCase struct {
	userRepo          repository.UserRepository
	hostRepo          repository.HostStatusRepository
	propertyRepo      repository.PropertyRepository
	subscriptions     *SubscriptionUseCase
	catalog           *plan.Catalog
	cache             SubscriptionCache
	notifier          Notifier
	revokeDisableDays int
	freeTrialDays     int
	now               func() time.Time
}

func NewHostStatusUseCase(
	userRepo repository.UserRepository,
	hostRepo repository.HostStatusRepository,
	propertyRepo repository.PropertyRepository,
	subscriptions *SubscriptionUseCase,
	catalog *plan.Catalog,
	cache SubscriptionCache,
	notifier Notifier,
	revokeDisableDays int,
	freeTrialDays int,
) *HostStatusUseCase {
	return &HostStatusUseCase{
		userRepo:          userRepo,
		hostRepo:          hostRepo,
		propertyRepo:      propertyRepo,
		subscriptions:     subscriptions,
		catalog:           catalog,
		cache:             cache,
		notifier:          notifier,
		revokeDisableDays: revokeDisableDays,
		freeTrialDays:     freeTrialDays,
		now:               time.Now,
	}
}

type HostStatusResult struct {
	Host              *entity.User `json:"host"`
	PropertiesUpdated int          `json:"propertiesUpdated"`
}

type HostDetails struct {
	Host        *entity.User       `json:"host"`
	Properties  []*entity.Property `json:"properties"`
	FreeTrial   bool               `json:"freeTrial"`
	MaxListings int                `json:"maxListings"`
}

type DisableHostInput struct {
	// Days of zero disables until an administrator re-enables the host.
	Days   int
	Reason string
}

func (uc *HostStatusUseCase) days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

// RevokeSubscription marks the subscription revoked, keeps a snapshot for
// restore and disables the host and its properties for the revoke period.
// Revoking twice keeps the first deadline and notifies once.
func (uc *HostStatusUseCase) RevokeSubscription(ctx context.Context, hostID string) (*HostStatusResult, error) {
	now := uc.now()
	var repeated bool

	host, cascaded, err := uc.hostRepo.UpdateHostCascade(ctx, hostID, func(h *entity.User) error {
		repeated = false
		sub := h.Subscription
		if sub == nil {
			return errors.NoSubscription()
		}

		if sub.IsRevoked() {
			repeated = true
			revokedAt := now
			if sub.RevokedAt != nil {
				revokedAt = *sub.RevokedAt
			}
			until := revokedAt.Add(uc.days(uc.revokeDisableDays))
			h.ApplyDisabledState(entity.DisabledFor(&until, revokedReason))
			return nil
		}

		if isFreeTrial(h, uc.catalog, now, uc.freeTrialDays) {
			return errors.FreeTrial()
		}

		revoked := *sub
		revoked.Status = entity.SubscriptionRevoked
		revoked.RevokedAt = &now
		revoked.PreviousSubscription = sub.Snapshot()
		h.Subscription = &revoked

		until := now.Add(uc.days(uc.revokeDisableDays))
		h.ApplyDisabledState(entity.DisabledFor(&until, revokedReason))
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, hostID)

	logger.FromContext(ctx).Info("host subscription revoked",
		zap.String("host_id", hostID),
		zap.Int("properties", cascaded),
		zap.Bool("repeated", repeated),
	)
	if repeated {
		return &HostStatusResult{Host: host, PropertiesUpdated: cascaded}, nil
	}

	metrics.HostStatusChanges.WithLabelValues("revoke").Inc()
	uc.notifier.Notify(ctx, &entity.Notification{
		UserID:  hostID,
		Type:    entity.NotifySubscriptionRevoked,
		Title:   "Subscription revoked",
		Message: fmt.Sprintf("Your %s subscription has been revoked.", host.Subscription.PlanName),
		Data:    map[string]interface{}{"planId": host.Subscription.PlanID},
	})
	uc.notifier.Notify(ctx, &entity.Notification{
		UserID:  hostID,
		Type:    entity.NotifyAccountDisabled,
		Title:   "Account disabled",
		Message: fmt.Sprintf("Your host account and listings are disabled until %s.", host.DisabledUntil.Format("2006-01-02")),
		Data:    map[string]interface{}{"disabledUntil": host.DisabledUntil},
	})
	return &HostStatusResult{Host: host, PropertiesUpdated: cascaded}, nil
}

// RestoreSubscription puts back the subscription captured at revoke time and
// re-enables the host and its properties.
func (uc *HostStatusUseCase) RestoreSubscription(ctx context.Context, hostID string) (*HostStatusResult, error) {
	host, cascaded, err := uc.hostRepo.UpdateHostCascade(ctx, hostID, func(h *entity.User) error {
		if h.Subscription == nil || h.Subscription.PreviousSubscription == nil {
			return errors.NothingToRestore()
		}
		h.Subscription = h.Subscription.PreviousSubscription.Restore()
		h.ApplyDisabledState(entity.Enabled())
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, hostID)
	metrics.HostStatusChanges.WithLabelValues("restore").Inc()

	logger.FromContext(ctx).Info("host subscription restored",
		zap.String("host_id", hostID),
		zap.String("plan_id", host.Subscription.PlanID),
		zap.Int("properties", cascaded),
	)
	uc.notifier.Notify(ctx, &entity.Notification{
		UserID:  hostID,
		Type:    entity.NotifySubscriptionRestored,
		Title:   "Subscription restored",
		Message: fmt.Sprintf("Your %s subscription is active again.", host.Subscription.PlanName),
		Data:    map[string]interface{}{"planId": host.Subscription.PlanID},
	})
	uc.notifier.Notify(ctx, &entity.Notification{
		UserID:  hostID,
		Type:    entity.NotifyAccountEnabled,
		Title:   "Account enabled",
		Message: "Your host account and listings are enabled again.",
	})
	return &HostStatusResult{Host: host, PropertiesUpdated: cascaded}, nil
}

// DisableHost is moderation independent of billing. The subscription is left
// untouched.
func (uc *HostStatusUseCase) DisableHost(ctx context.Context, hostID string, input DisableHostInput) (*HostStatusResult, error) {
	if input.Days < 0 {
		return nil, errors.BadRequest("Days cannot be negative", nil)
	}
	reason := input.Reason
	if reason == "" {
		reason = disabledReason
	}

	var until *time.Time
	if input.Days > 0 {
		t := uc.now().Add(uc.days(input.Days))
		until = &t
	}

	host, cascaded, err := uc.hostRepo.UpdateHostCascade(ctx, hostID, func(h *entity.User) error {
		h.ApplyDisabledState(entity.DisabledFor(until, reason))
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.HostStatusChanges.WithLabelValues("disable").Inc()

	logger.FromContext(ctx).Info("host disabled",
		zap.String("host_id", hostID),
		zap.Int("days", input.Days),
		zap.Int("properties", cascaded),
	)
	message := "Your host account and listings have been disabled: " + reason
	uc.notifier.Notify(ctx, &entity.Notification{
		UserID:  hostID,
		Type:    entity.NotifyAccountDisabled,
		Title:   "Account disabled",
		Message: message,
		Data:    map[string]interface{}{"disabledUntil": until, "reason": reason},
	})
	return &HostStatusResult{Host: host, PropertiesUpdated: cascaded}, nil
}

func (uc *HostStatusUseCase) EnableHost(ctx context.Context, hostID string) (*HostStatusResult, error) {
	host, cascaded, err := uc.hostRepo.UpdateHostCascade(ctx, hostID, func(h *entity.User) error {
		h.ApplyDisabledState(entity.Enabled())
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.HostStatusChanges.WithLabelValues("enable").Inc()

	logger.FromContext(ctx).Info("host enabled", zap.String("host_id", hostID), zap.Int("properties", cascaded))
	uc.notifier.Notify(ctx, &entity.Notification{
		UserID:  hostID,
		Type:    entity.NotifyAccountEnabled,
		Title:   "Account enabled",
		Message: "Your host account and listings are enabled again.",
	})
	return &HostStatusResult{Host: host, PropertiesUpdated: cascaded}, nil
}

// GetHostDetails is the admin view of one host. A stale expired cancellation
// is corrected before it is returned.
func (uc *HostStatusUseCase) GetHostDetails(ctx context.Context, hostID string) (*HostDetails, error) {
	host, err := uc.userRepo.GetByID(ctx, hostID)
	if err != nil {
		return nil, err
	}
	host, err = uc.subscriptions.Resolve(ctx, host)
	if err != nil {
		return nil, err
	}
	properties, err := uc.propertyRepo.ListByHost(ctx, hostID)
	if err != nil {
		return nil, err
	}

	return &HostDetails{
		Host:        host,
		Properties:  properties,
		FreeTrial:   isFreeTrial(host, uc.catalog, uc.now(), uc.freeTrialDays),
		MaxListings: listingCap(uc.catalog, host.Subscription),
	}, nil
}

func (uc *HostStatusUseCase) ListHosts(ctx context.Context, disabled *bool, pagination *utils.Pagination) ([]*entity.User, int64, error) {
	return uc.userRepo.ListHosts(ctx, disabled, pagination)
}
