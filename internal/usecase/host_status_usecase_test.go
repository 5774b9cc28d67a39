package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staynest/internal/domain/entity"
	"staynest/pkg/errors"
)

func TestRevokeSubscription_PremiumHostWithThreeProperties(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "H", Subscription: env.premium()})
	for _, id := range []string{"p1", "p2", "p3"} {
		env.addProperty("H", id)
	}
	env.addUser(t, &entity.User{ID: "other"})
	env.addProperty("other", "p4")

	result, err := env.hosts.RevokeSubscription(ctx, "H")
	require.NoError(t, err)
	assert.Equal(t, 3, result.PropertiesUpdated)

	host, err := env.store.Users().GetByID(ctx, "H")
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionRevoked, host.Subscription.Status)
	assert.True(t, host.Disabled)
	require.NotNil(t, host.DisabledUntil)
	assert.Equal(t, env.now.Add(7*24*time.Hour), *host.DisabledUntil)
	require.NotNil(t, host.DisabledReason)

	prev := host.Subscription.PreviousSubscription
	require.NotNil(t, prev)
	assert.Equal(t, "premium", prev.PlanID)
	assert.Equal(t, "Premium", prev.PlanName)
	assert.Equal(t, 999.0, prev.Price)
	assert.Equal(t, entity.SubscriptionActive, prev.Status)

	for _, id := range []string{"p1", "p2", "p3"} {
		p, err := env.store.Properties().GetByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, p.Disabled, id)
		assert.Equal(t, *host.DisabledUntil, *p.DisabledUntil)
	}
	untouched, _ := env.store.Properties().GetByID(ctx, "p4")
	assert.False(t, untouched.Disabled)

	mirror, ok := env.store.SubscriptionMirror("H")
	require.True(t, ok)
	assert.Equal(t, entity.SubscriptionRevoked, mirror.Status)

	assert.Equal(t, []string{entity.NotifySubscriptionRevoked, entity.NotifyAccountDisabled}, env.notifier.types())
}

func TestRevokeSubscription_TwiceKeepsFirstDeadline(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "H", Subscription: env.premium()})
	env.addProperty("H", "p1")

	first, err := env.hosts.RevokeSubscription(ctx, "H")
	require.NoError(t, err)
	deadline := *first.Host.DisabledUntil

	env.advance(3 * time.Hour)
	second, err := env.hosts.RevokeSubscription(ctx, "H")
	require.NoError(t, err)

	assert.Equal(t, deadline, *second.Host.DisabledUntil)
	assert.Equal(t, "premium", second.Host.Subscription.PreviousSubscription.PlanID)
	assert.Len(t, env.notifier.types(), 2)

	p, _ := env.store.Properties().GetByID(ctx, "p1")
	assert.Equal(t, deadline, *p.DisabledUntil)
}

func TestRestoreSubscription_ReproducesSnapshot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	original := env.premium()
	env.addUser(t, &entity.User{ID: "H", Subscription: original})
	env.addProperty("H", "p1")
	env.addProperty("H", "p2")

	_, err := env.hosts.RevokeSubscription(ctx, "H")
	require.NoError(t, err)
	env.advance(time.Hour)

	result, err := env.hosts.RestoreSubscription(ctx, "H")
	require.NoError(t, err)
	assert.Equal(t, 2, result.PropertiesUpdated)

	host, _ := env.store.Users().GetByID(ctx, "H")
	sub := host.Subscription
	assert.Equal(t, original.PlanID, sub.PlanID)
	assert.Equal(t, original.PlanName, sub.PlanName)
	assert.Equal(t, original.Price, sub.Price)
	assert.Equal(t, entity.SubscriptionActive, sub.Status)
	assert.Equal(t, *original.StartDate, *sub.StartDate)
	assert.Equal(t, *original.NextBillingDate, *sub.NextBillingDate)
	assert.Equal(t, original.PaymentID, sub.PaymentID)
	assert.Nil(t, sub.PreviousSubscription)
	assert.Nil(t, sub.RevokedAt)

	assert.False(t, host.Disabled)
	assert.Nil(t, host.DisabledUntil)
	assert.Nil(t, host.DisabledReason)
	for _, id := range []string{"p1", "p2"} {
		p, _ := env.store.Properties().GetByID(ctx, id)
		assert.False(t, p.Disabled)
		assert.Nil(t, p.DisabledUntil)
		assert.Nil(t, p.DisabledReason)
	}
}

func TestRestoreSubscription_SnapshotWithoutStatusRestoresActive(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "H", Disabled: true, Subscription: &entity.Subscription{
		PlanID: "premium",
		Status: entity.SubscriptionRevoked,
		PreviousSubscription: &entity.SubscriptionSnapshot{
			PlanID:   "premium",
			PlanName: "Premium",
			Price:    999,
		},
	}})

	result, err := env.hosts.RestoreSubscription(ctx, "H")
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionActive, result.Host.Subscription.Status)
}

func TestRestoreSubscription_NothingToRestore(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "H", Subscription: env.premium()})

	_, err := env.hosts.RestoreSubscription(context.Background(), "H")
	assert.True(t, errors.Is(err, errors.CodeNothingToRestore))
}

func TestRevokeSubscription_RejectsFreeTrial(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, &entity.User{
		ID:           "H",
		CreatedAt:    env.now.Add(-14 * 24 * time.Hour),
		Subscription: env.standard(),
	})
	env.addProperty("H", "p1")

	_, err := env.hosts.RevokeSubscription(ctx, "H")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeFreeTrial))

	host, _ := env.store.Users().GetByID(ctx, "H")
	assert.Equal(t, entity.SubscriptionActive, host.Subscription.Status)
	assert.Nil(t, host.Subscription.PreviousSubscription)
	assert.False(t, host.Disabled)
	p, _ := env.store.Properties().GetByID(ctx, "p1")
	assert.False(t, p.Disabled)
	assert.Empty(t, env.notifier.types())
}

func TestRevokeSubscription_StandardAfterTrialWindow(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, &entity.User{
		ID:           "H",
		CreatedAt:    env.now.Add(-15 * 24 * time.Hour),
		Subscription: env.standard(),
	})

	result, err := env.hosts.RevokeSubscription(context.Background(), "H")
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionRevoked, result.Host.Subscription.Status)
}

func TestRevokeSubscription_NewPremiumHostIsNotATrial(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "H", CreatedAt: env.now.Add(-time.Hour), Subscription: env.premium()})

	_, err := env.hosts.RevokeSubscription(context.Background(), "H")
	assert.NoError(t, err)
}

func TestRevokeSubscription_NoSubscription(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "H"})

	_, err := env.hosts.RevokeSubscription(context.Background(), "H")
	assert.True(t, errors.Is(err, errors.CodeNoSubscription))

	_, err = env.hosts.RevokeSubscription(context.Background(), "missing")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestDisableEnableHost_Cascade(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "H", Subscription: env.premium()})
	env.addUser(t, &entity.User{ID: "other"})
	owned := []string{"a", "b", "c", "d"}
	for _, id := range owned {
		env.addProperty("H", id)
	}
	env.addProperty("other", "x")

	result, err := env.hosts.DisableHost(ctx, "H", DisableHostInput{Days: 3, Reason: "Policy review"})
	require.NoError(t, err)
	assert.Equal(t, len(owned), result.PropertiesUpdated)
	assert.Equal(t, env.now.Add(72*time.Hour), *result.Host.DisabledUntil)
	assert.Equal(t, entity.SubscriptionActive, result.Host.Subscription.Status)

	for _, id := range owned {
		p, _ := env.store.Properties().GetByID(ctx, id)
		assert.True(t, p.Disabled, id)
		assert.Equal(t, "Policy review", *p.DisabledReason)
	}
	x, _ := env.store.Properties().GetByID(ctx, "x")
	assert.False(t, x.Disabled)

	_, err = env.hosts.EnableHost(ctx, "H")
	require.NoError(t, err)
	for _, id := range owned {
		p, _ := env.store.Properties().GetByID(ctx, id)
		assert.False(t, p.Disabled, id)
		assert.Nil(t, p.DisabledUntil)
	}
	host, _ := env.store.Users().GetByID(ctx, "H")
	assert.False(t, host.Disabled)
}

func TestDisableHost_Indefinite(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "H"})

	result, err := env.hosts.DisableHost(context.Background(), "H", DisableHostInput{})
	require.NoError(t, err)
	assert.True(t, result.Host.Disabled)
	assert.Nil(t, result.Host.DisabledUntil)
	assert.Equal(t, disabledReason, *result.Host.DisabledReason)

	_, err = env.hosts.DisableHost(context.Background(), "H", DisableHostInput{Days: -1})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestRevoke_NotificationFailureDoesNotRollBack(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "H", Subscription: env.premium()})

	failing := NewNotificationUseCase(failingNotificationRepo{}, nil)
	env.hosts.notifier = failing

	_, err := env.hosts.RevokeSubscription(ctx, "H")
	require.NoError(t, err)
	host, _ := env.store.Users().GetByID(ctx, "H")
	assert.True(t, host.Disabled)
}

func TestGetHostDetails_ReconcilesExpiredCancellation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	sub := env.premium()
	sub.Status = entity.SubscriptionCancelling
	sub.ExpiryDate = env.ptime(-time.Minute)
	env.addUser(t, &entity.User{ID: "H", Subscription: sub})
	env.addProperty("H", "p1")

	details, err := env.hosts.GetHostDetails(ctx, "H")
	require.NoError(t, err)
	assert.Equal(t, "standard", details.Host.Subscription.PlanID)
	assert.Equal(t, entity.SubscriptionActive, details.Host.Subscription.Status)
	assert.Equal(t, 1, details.MaxListings)
	assert.Len(t, details.Properties, 1)
	assert.False(t, details.FreeTrial)

	stored, _ := env.store.Users().GetByID(ctx, "H")
	assert.Equal(t, "standard", stored.Subscription.PlanID)
}

func TestListHosts_FilterByDisabled(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "a"})
	env.addUser(t, &entity.User{ID: "b", Disabled: true})
	env.addUser(t, &entity.User{ID: "g", UserType: entity.UserTypeGuest})

	all, total, err := env.hosts.ListHosts(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	disabled := true
	only, _, err := env.hosts.ListHosts(ctx, &disabled, nil)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "b", only[0].ID)
}
