package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"staynest/internal/domain/entity"
	"staynest/internal/domain/repository"
	"staynest/pkg/errors"
	"staynest/pkg/utils"
)

// MemoryStore keeps every collection in process. Each repository call holds
// the store lock for its whole read-modify-write, which gives the same
// all-or-nothing commits as the Firestore transactions.
type MemoryStore struct {
	mu            sync.Mutex
	users         map[string]*entity.User
	subscriptions map[string]*entity.Subscription
	properties    map[string]*entity.Property
	drafts        map[string]*entity.PropertyDraft
	bookings      map[string]*entity.Booking
	reviews       map[string]*entity.Review
	transactions  map[string]*entity.WalletTransaction
	notifications map[string]*entity.Notification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]*entity.User),
		subscriptions: make(map[string]*entity.Subscription),
		properties:    make(map[string]*entity.Property),
		drafts:        make(map[string]*entity.PropertyDraft),
		bookings:      make(map[string]*entity.Booking),
		reviews:       make(map[string]*entity.Review),
		transactions:  make(map[string]*entity.WalletTransaction),
		notifications: make(map[string]*entity.Notification),
	}
}

func (s *MemoryStore) Users() repository.UserRepository { return &memoryUserRepository{s} }

func (s *MemoryStore) HostStatus() repository.HostStatusRepository {
	return &memoryHostStatusRepository{s}
}

func (s *MemoryStore) Wallet() repository.WalletRepository { return &memoryWalletRepository{s} }

func (s *MemoryStore) Properties() repository.PropertyRepository {
	return &memoryPropertyRepository{s}
}

func (s *MemoryStore) Drafts() repository.DraftRepository { return &memoryDraftRepository{s} }

func (s *MemoryStore) Bookings() repository.BookingRepository { return &memoryBookingRepository{s} }

func (s *MemoryStore) Reviews() repository.ReviewRepository { return &memoryReviewRepository{s} }

func (s *MemoryStore) Notifications() repository.NotificationRepository {
	return &memoryNotificationRepository{s}
}

// SubscriptionMirror returns the subscriptions/{uid} copy.
func (s *MemoryStore) SubscriptionMirror(userID string) (*entity.Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subscriptions[userID]
	return cloneSubscription(sub), ok
}

// PutProperty stores a property as-is, bypassing the listing quota.
func (s *MemoryStore) PutProperty(p *entity.Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.properties[p.ID] = cloneProperty(p)
}

func cloneUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Subscription = cloneSubscription(u.Subscription)
	return &c
}

func cloneSubscription(sub *entity.Subscription) *entity.Subscription {
	if sub == nil {
		return nil
	}
	c := *sub
	if sub.PreviousSubscription != nil {
		prev := *sub.PreviousSubscription
		c.PreviousSubscription = &prev
	}
	return &c
}

func cloneProperty(p *entity.Property) *entity.Property {
	c := *p
	c.Amenities = append([]string(nil), p.Amenities...)
	c.Images = append([]string(nil), p.Images...)
	return &c
}

func copyOf[T any](v *T) *T {
	c := *v
	return &c
}

func (s *MemoryStore) writeMirror(user *entity.User) {
	if user.Subscription == nil {
		delete(s.subscriptions, user.ID)
		return
	}
	s.subscriptions[user.ID] = cloneSubscription(user.Subscription)
}

type memoryUserRepository struct{ s *MemoryStore }

func (r *memoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = cloneUser(user)
	if user.Subscription != nil {
		r.s.writeMirror(user)
	}
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return cloneUser(u), nil
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.FindFirst(ctx, "email", email)
}

func (r *memoryUserRepository) FindFirst(ctx context.Context, field string, value interface{}) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var found *entity.User
	for _, u := range r.s.users {
		if !userFieldEquals(u, field, value) {
			continue
		}
		// Map order is random; the oldest account wins so results are stable.
		if found == nil || u.CreatedAt.Before(found.CreatedAt) {
			found = u
		}
	}
	if found == nil {
		return nil, errors.NotFound("User", nil)
	}
	return cloneUser(found), nil
}

func userFieldEquals(u *entity.User, field string, value interface{}) bool {
	switch field {
	case "email":
		return u.Email == value
	case "userType":
		return u.UserType == value
	case "isAdmin":
		return u.IsAdmin == value
	}
	return false
}

func (r *memoryUserRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[user.ID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	if user.DisplayName != "" {
		u.DisplayName = user.DisplayName
	}
	if user.PhotoURL != "" {
		u.PhotoURL = user.PhotoURL
	}
	if user.Phone != "" {
		u.Phone = user.Phone
	}
	if user.UserType != "" {
		u.UserType = user.UserType
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (r *memoryUserRepository) ListHosts(ctx context.Context, disabled *bool, pagination *utils.Pagination) ([]*entity.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var hosts []*entity.User
	for _, u := range r.s.users {
		if u.UserType != entity.UserTypeHost {
			continue
		}
		if disabled != nil && u.Disabled != *disabled {
			continue
		}
		hosts = append(hosts, cloneUser(u))
	}
	page, total := pageNewestFirst(hosts, func(u *entity.User) int64 { return u.CreatedAt.UnixNano() }, pagination)
	return page, total, nil
}

func (r *memoryUserRepository) MutateSubscription(ctx context.Context, userID string, fn repository.SubscriptionMutation) (*entity.User, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.users[userID]
	if !ok {
		return nil, false, errors.NotFound("User", nil)
	}
	user := cloneUser(stored)
	changed, err := fn(user)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return user, false, nil
	}
	user.UpdatedAt = time.Now()
	stored.Subscription = cloneSubscription(user.Subscription)
	stored.UpdatedAt = user.UpdatedAt
	r.s.writeMirror(stored)
	return user, true, nil
}

func (r *memoryUserRepository) ListCancellingExpired(ctx context.Context, now time.Time) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var expired []*entity.User
	for _, u := range r.s.users {
		if u.Subscription.CancellationExpired(now) {
			expired = append(expired, cloneUser(u))
		}
	}
	return expired, nil
}

type memoryHostStatusRepository struct{ s *MemoryStore }

func (r *memoryHostStatusRepository) UpdateHostCascade(ctx context.Context, hostID string, mutate func(host *entity.User) error) (*entity.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.users[hostID]
	if !ok {
		return nil, 0, errors.NotFound("Host", nil)
	}
	host := cloneUser(stored)
	if err := mutate(host); err != nil {
		return nil, 0, err
	}

	now := time.Now()
	host.UpdatedAt = now
	stored.ApplyDisabledState(host.DisabledState())
	stored.Subscription = cloneSubscription(host.Subscription)
	stored.UpdatedAt = now
	if stored.Subscription != nil {
		r.s.writeMirror(stored)
	}

	cascaded := 0
	for _, p := range r.s.properties {
		if p.HostID != hostID {
			continue
		}
		p.ApplyDisabledState(host.DisabledState())
		p.UpdatedAt = now
		cascaded++
	}
	return host, cascaded, nil
}

type memoryWalletRepository struct{ s *MemoryStore }

func (r *memoryWalletRepository) GetBalance(ctx context.Context, userID string) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return 0, errors.NotFound("User", nil)
	}
	return u.WalletBalance, nil
}

func (r *memoryWalletRepository) ApplyTopUp(ctx context.Context, txn *entity.WalletTransaction) (*entity.WalletTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.transactions[txn.ID]; exists {
		return nil, errors.PaymentAlreadyProcessed(txn.ExternalPaymentID)
	}
	u, ok := r.s.users[txn.UserID]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}

	row := *txn
	row.BalanceBefore = u.WalletBalance
	row.BalanceAfter = u.WalletBalance + txn.Amount
	u.WalletBalance = row.BalanceAfter
	u.UpdatedAt = time.Now()
	r.s.transactions[row.ID] = copyOf(&row)
	return &row, nil
}

func (r *memoryWalletRepository) ApplyWithdrawal(ctx context.Context, w *entity.Withdrawal) (*entity.WithdrawalResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[w.UserID]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	house, ok := r.s.users[w.HouseAccountID]
	if !ok {
		return nil, errors.HouseAccountMissing()
	}

	entries, err := buildWithdrawalEntries(w, u.WalletBalance, house.WalletBalance)
	if err != nil {
		return nil, err
	}
	entries.UserEntry.ID = uuid.New().String()
	entries.HouseEntry.ID = uuid.New().String()

	now := time.Now()
	u.WalletBalance = entries.UserEntry.BalanceAfter
	u.UpdatedAt = now
	house.WalletBalance = entries.HouseEntry.BalanceAfter
	house.UpdatedAt = now
	r.s.transactions[entries.UserEntry.ID] = copyOf(entries.UserEntry)
	r.s.transactions[entries.HouseEntry.ID] = copyOf(entries.HouseEntry)
	return entries, nil
}

func (r *memoryWalletRepository) ListTransactions(ctx context.Context, userID string, pagination *utils.Pagination) ([]*entity.WalletTransaction, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var txns []*entity.WalletTransaction
	for _, t := range r.s.transactions {
		if t.UserID == userID {
			txns = append(txns, copyOf(t))
		}
	}
	page, total := pageNewestFirst(txns, func(t *entity.WalletTransaction) int64 { return t.CreatedAt.UnixNano() }, pagination)
	return page, total, nil
}

type memoryPropertyRepository struct{ s *MemoryStore }

func (r *memoryPropertyRepository) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.properties[id]
	if !ok {
		return nil, errors.NotFound("Property", nil)
	}
	return cloneProperty(p), nil
}

func (r *memoryPropertyRepository) ListBookable(ctx context.Context, now time.Time) ([]*entity.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Property
	for _, p := range r.s.properties {
		if p.Bookable(now) {
			out = append(out, cloneProperty(p))
		}
	}
	return out, nil
}

func (r *memoryPropertyRepository) ListByHost(ctx context.Context, hostID string) ([]*entity.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Property
	for _, p := range r.s.properties {
		if p.HostID == hostID {
			out = append(out, cloneProperty(p))
		}
	}
	sorted, _ := pageNewestFirst(out, func(p *entity.Property) int64 { return p.CreatedAt.UnixNano() }, nil)
	return sorted, nil
}

func (r *memoryPropertyRepository) CountActiveByHost(ctx context.Context, hostID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.countActive(hostID), nil
}

func (r *memoryPropertyRepository) countActive(hostID string) int {
	n := 0
	for _, p := range r.s.properties {
		if p.HostID == hostID && p.Status == entity.PropertyActive {
			n++
		}
	}
	return n
}

func (r *memoryPropertyRepository) CreateWithQuota(ctx context.Context, property *entity.Property, maxListings int, draftID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	host, ok := r.s.users[property.HostID]
	if !ok {
		return errors.NotFound("Host", nil)
	}
	var draft *entity.PropertyDraft
	if draftID != "" {
		draft, ok = r.s.drafts[draftID]
		if !ok || draft.HostID != property.HostID {
			return errors.NotFound("Draft", nil)
		}
		if draft.Status == entity.DraftPublished {
			return errors.Conflict("Draft has already been published")
		}
	}

	active := r.countActive(property.HostID)
	if maxListings >= 0 && active >= maxListings {
		return errors.ListingLimitReached(maxListings)
	}

	if property.ID == "" {
		property.ID = uuid.New().String()
	}
	now := time.Now()
	property.CreatedAt = now
	property.UpdatedAt = now
	r.s.properties[property.ID] = cloneProperty(property)
	host.ActiveListings = active + 1
	host.UpdatedAt = now
	if draft != nil {
		draft.Status = entity.DraftPublished
		draft.PublishedPropertyID = property.ID
		draft.UpdatedAt = now
	}
	return nil
}

type memoryDraftRepository struct{ s *MemoryStore }

func (r *memoryDraftRepository) Save(ctx context.Context, draft *entity.PropertyDraft) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.drafts[draft.ID] = copyOf(draft)
	return nil
}

func (r *memoryDraftRepository) GetByID(ctx context.Context, id string) (*entity.PropertyDraft, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.drafts[id]
	if !ok {
		return nil, errors.NotFound("Draft", nil)
	}
	return copyOf(d), nil
}

func (r *memoryDraftRepository) ListOpenByHost(ctx context.Context, hostID string) ([]*entity.PropertyDraft, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PropertyDraft
	for _, d := range r.s.drafts {
		if d.HostID == hostID && d.Status == entity.DraftOpen {
			out = append(out, copyOf(d))
		}
	}
	sorted, _ := pageNewestFirst(out, func(d *entity.PropertyDraft) int64 { return d.UpdatedAt.UnixNano() }, nil)
	return sorted, nil
}

func (r *memoryDraftRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.drafts, id)
	return nil
}

type memoryBookingRepository struct{ s *MemoryStore }

func (r *memoryBookingRepository) CreateIfAvailable(ctx context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.PropertyID == booking.PropertyID && b.Status == entity.BookingConfirmed && b.Overlaps(booking.CheckIn, booking.CheckOut) {
			return errors.Conflict("Property is already booked for these dates")
		}
	}
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	r.s.bookings[booking.ID] = copyOf(booking)
	return nil
}

func (r *memoryBookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, errors.NotFound("Booking", nil)
	}
	return copyOf(b), nil
}

func (r *memoryBookingRepository) list(match func(*entity.Booking) bool, pagination *utils.Pagination) ([]*entity.Booking, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if match(b) {
			out = append(out, copyOf(b))
		}
	}
	page, total := pageNewestFirst(out, func(b *entity.Booking) int64 { return b.CreatedAt.UnixNano() }, pagination)
	return page, total, nil
}

func (r *memoryBookingRepository) ListByGuest(ctx context.Context, guestID string, pagination *utils.Pagination) ([]*entity.Booking, int64, error) {
	return r.list(func(b *entity.Booking) bool { return b.GuestID == guestID }, pagination)
}

func (r *memoryBookingRepository) ListByHost(ctx context.Context, hostID string, pagination *utils.Pagination) ([]*entity.Booking, int64, error) {
	return r.list(func(b *entity.Booking) bool { return b.HostID == hostID }, pagination)
}

func (r *memoryBookingRepository) ListStays(ctx context.Context, guestID, propertyID string) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if b.GuestID == guestID && b.PropertyID == propertyID {
			out = append(out, copyOf(b))
		}
	}
	return staysOldestFirst(out), nil
}

type memoryReviewRepository struct{ s *MemoryStore }

func (r *memoryReviewRepository) CreateAndRecompute(ctx context.Context, review *entity.Review) (*entity.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	review.ID = review.BookingID
	if _, exists := r.s.reviews[review.ID]; exists {
		return nil, errors.Conflict("This stay has already been reviewed")
	}
	p, ok := r.s.properties[review.PropertyID]
	if !ok {
		return nil, errors.NotFound("Property", nil)
	}
	p.Rating, p.ReviewsCount = entity.AddRating(p.Rating, p.ReviewsCount, review.Rating)
	p.UpdatedAt = time.Now()
	r.s.reviews[review.ID] = copyOf(review)
	return cloneProperty(p), nil
}

func (r *memoryReviewRepository) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.reviews[bookingID]
	return ok, nil
}

func (r *memoryReviewRepository) ListByProperty(ctx context.Context, propertyID string, pagination *utils.Pagination) ([]*entity.Review, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Review
	for _, rv := range r.s.reviews {
		if rv.PropertyID == propertyID {
			out = append(out, copyOf(rv))
		}
	}
	page, total := pageNewestFirst(out, func(rv *entity.Review) int64 { return rv.CreatedAt.UnixNano() }, pagination)
	return page, total, nil
}

type memoryNotificationRepository struct{ s *MemoryStore }

func (r *memoryNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	r.s.notifications[notification.ID] = copyOf(notification)
	return nil
}

func (r *memoryNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, pagination *utils.Pagination) ([]*entity.Notification, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Notification
	for _, n := range r.s.notifications {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, copyOf(n))
	}
	page, total := pageNewestFirst(out, func(n *entity.Notification) int64 { return n.CreatedAt.UnixNano() }, pagination)
	return page, total, nil
}

func (r *memoryNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return errors.NotFound("Notification", nil)
	}
	n.Read = true
	return nil
}

func (r *memoryNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	marked := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			marked++
		}
	}
	return marked, nil
}
