package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"staynest/internal/adapter/repository"
	"staynest/internal/domain/entity"
	"staynest/internal/domain/plan"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*entity.Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, notification *entity.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, s.Type)
	}
	return out
}

type mapCache struct {
	mu    sync.Mutex
	items map[string]*entity.Subscription
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string]*entity.Subscription)}
}

func (c *mapCache) Get(ctx context.Context, userID string) (*entity.Subscription, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub, ok := c.items[userID]
	return sub, ok
}

func (c *mapCache) Set(ctx context.Context, userID string, sub *entity.Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[userID] = sub
}

func (c *mapCache) Invalidate(ctx context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, userID)
}

type recordingMailer struct {
	sent chan *entity.Booking
	err  error
}

func (m *recordingMailer) SendBookingReceipt(ctx context.Context, booking *entity.Booking) error {
	m.sent <- booking
	return m.err
}

type fakeUploader struct {
	folder, name string
}

func (u *fakeUploader) UploadImage(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error) {
	u.folder, u.name = folder, filename
	return "https://storage.example.com/" + folder + "/" + filename, nil
}

type testEnv struct {
	store    *repository.MemoryStore
	notifier *recordingNotifier
	cache    *mapCache
	mailer   *recordingMailer
	uploader *fakeUploader
	catalog  *plan.Catalog
	now      time.Time

	subscriptions *SubscriptionUseCase
	hosts         *HostStatusUseCase
	wallet        *WalletUseCase
	listings      *ListingUseCase
	bookings      *BookingUseCase
	reviews       *ReviewUseCase
	users         *UserUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:    repository.NewMemoryStore(),
		notifier: &recordingNotifier{},
		cache:    newMapCache(),
		mailer:   &recordingMailer{sent: make(chan *entity.Booking, 8)},
		uploader: &fakeUploader{},
		catalog:  plan.MustDefault(),
		now:      time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return env.now }

	env.subscriptions = NewSubscriptionUseCase(env.store.Users(), env.catalog, env.cache, env.notifier, 14)
	env.subscriptions.now = clock
	env.hosts = NewHostStatusUseCase(env.store.Users(), env.store.HostStatus(), env.store.Properties(),
		env.subscriptions, env.catalog, env.cache, env.notifier, 7, 14)
	env.hosts.now = clock
	env.wallet = NewWalletUseCase(env.store.Wallet(), env.store.Users(), env.notifier, WalletConfig{
		MinWithdrawal: 100,
		FeePercent:    1,
		HouseEntry:    entity.HouseEntryDebit,
	})
	env.wallet.now = clock
	env.listings = NewListingUseCase(env.store.Properties(), env.store.Drafts(), env.store.Users(), env.subscriptions, env.uploader)
	env.listings.now = clock
	env.bookings = NewBookingUseCase(env.store.Bookings(), env.store.Properties(), env.mailer, env.notifier)
	env.bookings.now = clock
	env.reviews = NewReviewUseCase(env.store.Reviews(), env.store.Bookings(), env.store.Users(), env.notifier)
	env.reviews.now = clock
	env.users = NewUserUseCase(env.store.Users(), env.subscriptions, env.catalog)
	env.users.now = clock
	return env
}

func (env *testEnv) advance(d time.Duration) {
	env.now = env.now.Add(d)
}

func (env *testEnv) ptime(d time.Duration) *time.Time {
	t := env.now.Add(d)
	return &t
}

func (env *testEnv) addUser(t *testing.T, user *entity.User) *entity.User {
	t.Helper()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = env.now.Add(-60 * 24 * time.Hour)
	}
	if user.UserType == "" {
		user.UserType = entity.UserTypeHost
	}
	if user.Email == "" {
		user.Email = user.ID + "@example.com"
	}
	require.NoError(t, env.store.Users().Create(context.Background(), user))
	return user
}

func (env *testEnv) premium() *entity.Subscription {
	return &entity.Subscription{
		PlanID:          "premium",
		PlanName:        "Premium",
		Price:           999,
		Status:          entity.SubscriptionActive,
		StartDate:       env.ptime(-10 * 24 * time.Hour),
		NextBillingDate: env.ptime(20 * 24 * time.Hour),
		PaymentID:       "PAY-PREMIUM",
	}
}

func (env *testEnv) standard() *entity.Subscription {
	return &entity.Subscription{
		PlanID:    "standard",
		PlanName:  "Standard",
		Status:    entity.SubscriptionActive,
		StartDate: env.ptime(-time.Hour),
	}
}

func (env *testEnv) addProperty(hostID, id string) {
	env.store.PutProperty(&entity.Property{
		ID:        id,
		HostID:    hostID,
		Title:     "Listing " + id,
		Category:  "cabin",
		Pricing:   entity.Pricing{BasePrice: 100, Currency: "USD"},
		MaxGuests: 4,
		Status:    entity.PropertyActive,
		CreatedAt: env.now,
	})
}

func listingDetails(title string) entity.ListingDetails {
	return entity.ListingDetails{
		Title:     title,
		Category:  "apartment",
		Location:  entity.Location{City: "Lisbon", Country: "PT"},
		Pricing:   entity.Pricing{BasePrice: 80},
		MaxGuests: 2,
	}
}
