package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"staynest/internal/domain/entity"
	"staynest/internal/domain/plan"
	"staynest/internal/domain/repository"
	"staynest/internal/infrastructure/metrics"
	"staynest/pkg/errors"
	"staynest/pkg/logger"
)

type SubscriptionUseCase struct {
	userRepo      repository.UserRepository
	catalog       *plan.Catalog
	cache         SubscriptionCache
	notifier      Notifier
	freeTrialDays int
	now           func() time.Time
}

func NewSubscriptionUseCase(
	userRepo repository.UserRepository,
	catalog *plan.Catalog,
	cache SubscriptionCache,
	notifier Notifier,
	freeTrialDays int,
) *SubscriptionUseCase {
	return &SubscriptionUseCase{
		userRepo:      userRepo,
		catalog:       catalog,
		cache:         cache,
		notifier:      notifier,
		freeTrialDays: freeTrialDays,
		now:           time.Now,
	}
}

type SubscribeInput struct {
	PlanID    string
	PaymentID string
}

type SubscriptionView struct {
	Subscription *entity.Subscription `json:"subscription"`
	Plan         plan.Plan            `json:"plan"`
	MaxListings  int                  `json:"maxListings"`
	FreeTrial    bool                 `json:"freeTrial"`
}

func (uc *SubscriptionUseCase) Plans() []plan.Plan {
	return uc.catalog.All()
}

// IsFreeTrial reports the implicit trial: a default-plan subscription on an
// account created within the trial window.
func (uc *SubscriptionUseCase) IsFreeTrial(user *entity.User) bool {
	return isFreeTrial(user, uc.catalog, uc.now(), uc.freeTrialDays)
}

func isFreeTrial(user *entity.User, catalog *plan.Catalog, now time.Time, trialDays int) bool {
	sub := user.Subscription
	if sub == nil || !catalog.IsDefault(sub.PlanID) {
		return false
	}
	trialEnd := user.CreatedAt.Add(time.Duration(trialDays) * 24 * time.Hour)
	return !now.After(trialEnd)
}

func (uc *SubscriptionUseCase) defaultSubscription(now time.Time) *entity.Subscription {
	def := uc.catalog.Default()
	return &entity.Subscription{
		PlanID:    def.ID,
		PlanName:  def.Name,
		Price:     def.Price,
		Status:    entity.SubscriptionActive,
		StartDate: &now,
	}
}

// Resolve returns the user with an expired cancellation already reverted to
// the default plan, writing the correction if needed.
func (uc *SubscriptionUseCase) Resolve(ctx context.Context, user *entity.User) (*entity.User, error) {
	if !user.Subscription.CancellationExpired(uc.now()) {
		return user, nil
	}
	updated, _, err := uc.revertExpired(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Effective is the subscription that currently governs the user. Nil means
// the user never subscribed.
func (uc *SubscriptionUseCase) Effective(ctx context.Context, userID string) (*entity.Subscription, error) {
	if sub, ok := uc.cache.Get(ctx, userID); ok && !sub.CancellationExpired(uc.now()) {
		return sub, nil
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user, err = uc.Resolve(ctx, user)
	if err != nil {
		return nil, err
	}
	if user.Subscription != nil {
		uc.cache.Set(ctx, userID, user.Subscription)
	}
	return user.Subscription, nil
}

func (uc *SubscriptionUseCase) MaxListings(ctx context.Context, userID string) (int, error) {
	sub, err := uc.Effective(ctx, userID)
	if err != nil {
		return 0, err
	}
	return listingCap(uc.catalog, sub), nil
}

// listingCap is the plan's listing cap. No subscription or a revoked one
// falls back to the default plan.
func listingCap(catalog *plan.Catalog, sub *entity.Subscription) int {
	if sub == nil || sub.IsRevoked() {
		return catalog.MaxListings(catalog.DefaultID)
	}
	return catalog.MaxListings(sub.PlanID)
}

func (uc *SubscriptionUseCase) GetSubscription(ctx context.Context, userID string) (*SubscriptionView, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user, err = uc.Resolve(ctx, user)
	if err != nil {
		return nil, err
	}
	return uc.view(user), nil
}

func (uc *SubscriptionUseCase) view(user *entity.User) *SubscriptionView {
	p := uc.catalog.Default()
	if user.Subscription != nil {
		if known, ok := uc.catalog.Get(user.Subscription.PlanID); ok {
			p = known
		}
	}
	return &SubscriptionView{
		Subscription: user.Subscription,
		Plan:         p,
		MaxListings:  listingCap(uc.catalog, user.Subscription),
		FreeTrial:    uc.IsFreeTrial(user),
	}
}

// Subscribe records a plan purchase the payment provider already approved.
func (uc *SubscriptionUseCase) Subscribe(ctx context.Context, userID string, input SubscribeInput) (*SubscriptionView, error) {
	selected, ok := uc.catalog.Get(input.PlanID)
	if !ok {
		return nil, errors.BadRequest("Unknown plan "+input.PlanID, nil)
	}
	if selected.Price > 0 && input.PaymentID == "" {
		return nil, errors.BadRequest("Payment is required for this plan", nil)
	}

	now := uc.now()
	user, _, err := uc.userRepo.MutateSubscription(ctx, userID, func(u *entity.User) (bool, error) {
		if !u.IsHost() {
			return false, errors.Forbidden("Only hosts can subscribe to a plan", nil)
		}
		if u.Subscription.IsRevoked() {
			return false, errors.Forbidden("Your subscription was revoked. Please contact support", nil)
		}
		next := now.Add(selected.BillingPeriod())
		u.Subscription = &entity.Subscription{
			PlanID:          selected.ID,
			PlanName:        selected.Name,
			Price:           selected.Price,
			Status:          entity.SubscriptionActive,
			StartDate:       &now,
			NextBillingDate: &next,
			PaymentID:       input.PaymentID,
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, userID)

	logger.FromContext(ctx).Info("subscription started",
		zap.String("user_id", userID),
		zap.String("plan_id", selected.ID),
	)
	return uc.view(user), nil
}

// Cancel keeps the plan until the end of the paid period. The expiry job
// then reverts the user to the default plan.
func (uc *SubscriptionUseCase) Cancel(ctx context.Context, userID string) (*SubscriptionView, error) {
	now := uc.now()
	user, changed, err := uc.userRepo.MutateSubscription(ctx, userID, func(u *entity.User) (bool, error) {
		sub := u.Subscription
		switch {
		case sub == nil:
			return false, errors.NoSubscription()
		case sub.IsRevoked():
			return false, errors.Conflict("A revoked subscription cannot be cancelled")
		case sub.Status == entity.SubscriptionCancelling:
			return false, nil
		case uc.catalog.IsDefault(sub.PlanID):
			return false, errors.BadRequest("The free plan cannot be cancelled", nil)
		}

		expiry := now
		if sub.NextBillingDate != nil && sub.NextBillingDate.After(now) {
			expiry = *sub.NextBillingDate
		}
		sub.Status = entity.SubscriptionCancelling
		sub.ExpiryDate = &expiry
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		uc.cache.Invalidate(ctx, userID)
	}
	return uc.view(user), nil
}

func (uc *SubscriptionUseCase) revertExpired(ctx context.Context, userID string) (*entity.User, bool, error) {
	now := uc.now()
	user, changed, err := uc.userRepo.MutateSubscription(ctx, userID, func(u *entity.User) (bool, error) {
		// Someone may have resubscribed since the read.
		if !u.Subscription.CancellationExpired(now) {
			return false, nil
		}
		u.Subscription = uc.defaultSubscription(now)
		return true, nil
	})
	if err != nil {
		return nil, false, err
	}
	if changed {
		uc.cache.Invalidate(ctx, userID)
		metrics.SubscriptionReconciliations.Inc()
		uc.notifier.Notify(ctx, &entity.Notification{
			UserID:  userID,
			Type:    entity.NotifySubscriptionExpired,
			Title:   "Subscription ended",
			Message: "Your cancelled plan has ended and you are now on the " + currentPlanName(user) + " plan.",
		})
	}
	return user, changed, nil
}

func currentPlanName(user *entity.User) string {
	if user == nil || user.Subscription == nil {
		return "default"
	}
	return user.Subscription.PlanName
}

// ExpiredCancellations lists users the next reconciliation would revert.
func (uc *SubscriptionUseCase) ExpiredCancellations(ctx context.Context) ([]*entity.User, error) {
	return uc.userRepo.ListCancellingExpired(ctx, uc.now())
}

// ReconcileExpired reverts every expired cancellation and returns how many
// users changed. One failing user does not stop the rest.
func (uc *SubscriptionUseCase) ReconcileExpired(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	users, err := uc.ExpiredCancellations(ctx)
	if err != nil {
		return 0, err
	}

	reverted := 0
	for _, u := range users {
		_, changed, err := uc.revertExpired(ctx, u.ID)
		if err != nil {
			log.Error("failed to revert expired subscription", zap.String("user_id", u.ID), zap.Error(err))
			continue
		}
		if changed {
			reverted++
		}
	}

	if reverted > 0 {
		log.Info("expired subscriptions reverted", zap.Int("count", reverted))
	}
	return reverted, nil
}

// StartReconcileJob runs ReconcileExpired on every tick until ctx is done.
func (uc *SubscriptionUseCase) StartReconcileJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		log := logger.FromContext(ctx)
		log.Info("subscription reconcile job started", zap.Duration("interval", interval))
		for {
			select {
			case <-ctx.Done():
				log.Info("subscription reconcile job stopped")
				return
			case <-ticker.C:
				if _, err := uc.ReconcileExpired(ctx); err != nil {
					log.Error("subscription reconcile failed", zap.Error(err))
				}
			}
		}
	}()
}
