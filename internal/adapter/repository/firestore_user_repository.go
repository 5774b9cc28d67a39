package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"staynest/internal/domain/entity"
	"staynest/internal/domain/repository"
	"staynest/pkg/errors"
	"staynest/pkg/utils"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, wrapGet(err, "User")
	}
	return decodeUser(doc)
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.FindFirst(ctx, "email", email)
}

func (r *firestoreUserRepository) FindFirst(ctx context.Context, field string, value interface{}) (*entity.User, error) {
	iter := r.client.Collection(usersCollection).Where(field, "==", value).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("User", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query users", err)
	}
	return decodeUser(doc)
}

func (r *firestoreUserRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	updateData := map[string]interface{}{
		"displayName": user.DisplayName,
		"photoURL":    user.PhotoURL,
		"phone":       user.Phone,
		"userType":    user.UserType,
		"updatedAt":   time.Now(),
	}

	// Empty strings would wipe what the user already has.
	clean := make(map[string]interface{}, len(updateData))
	for key, value := range updateData {
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		clean[key] = value
	}

	_, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, clean, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update user", err)
	}
	return nil
}

func (r *firestoreUserRepository) ListHosts(ctx context.Context, disabled *bool, pagination *utils.Pagination) ([]*entity.User, int64, error) {
	query := r.client.Collection(usersCollection).Where("userType", "==", entity.UserTypeHost)
	if disabled != nil {
		query = query.Where("disabled", "==", *disabled)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list hosts", err)
	}
	hosts, err := decodeAll(docs, func(u *entity.User, id string) { u.ID = id })
	if err != nil {
		return nil, 0, err
	}

	page, total := pageNewestFirst(hosts, func(u *entity.User) int64 { return u.CreatedAt.UnixNano() }, pagination)
	return page, total, nil
}

func (r *firestoreUserRepository) MutateSubscription(ctx context.Context, userID string, fn repository.SubscriptionMutation) (*entity.User, bool, error) {
	userRef := r.client.Collection(usersCollection).Doc(userID)
	mirrorRef := r.client.Collection(subscriptionsCollection).Doc(userID)

	var (
		result  *entity.User
		changed bool
	)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(userRef)
		if err != nil {
			return wrapGet(err, "User")
		}
		user, err := decodeUser(doc)
		if err != nil {
			return err
		}

		ok, err := fn(user)
		if err != nil {
			return err
		}
		result, changed = user, ok
		if !ok {
			return nil
		}

		user.UpdatedAt = time.Now()
		if err := tx.Update(userRef, []firestore.Update{
			{Path: "subscription", Value: user.Subscription},
			{Path: "updatedAt", Value: user.UpdatedAt},
		}); err != nil {
			return err
		}
		if user.Subscription == nil {
			return tx.Delete(mirrorRef)
		}
		return tx.Set(mirrorRef, subscriptionMirror(user))
	})
	if err != nil {
		return nil, false, wrapTx(err, "Failed to update subscription")
	}
	return result, changed, nil
}

// ListCancellingExpired filters the expiry date in memory so the query needs
// no composite index.
func (r *firestoreUserRepository) ListCancellingExpired(ctx context.Context, now time.Time) ([]*entity.User, error) {
	docs, err := r.client.Collection(usersCollection).
		Where("subscription.status", "==", entity.SubscriptionCancelling).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query cancelling subscriptions", err)
	}

	var expired []*entity.User
	for _, doc := range docs {
		user, err := decodeUser(doc)
		if err != nil {
			return nil, err
		}
		if user.Subscription.CancellationExpired(now) {
			expired = append(expired, user)
		}
	}
	return expired, nil
}

type firestoreHostStatusRepository struct {
	client *firestore.Client
}

func NewFirestoreHostStatusRepository(client *firestore.Client) repository.HostStatusRepository {
	return &firestoreHostStatusRepository{
		client: client,
	}
}

func (r *firestoreHostStatusRepository) UpdateHostCascade(ctx context.Context, hostID string, mutate func(host *entity.User) error) (*entity.User, int, error) {
	hostRef := r.client.Collection(usersCollection).Doc(hostID)
	mirrorRef := r.client.Collection(subscriptionsCollection).Doc(hostID)
	owned := r.client.Collection(propertiesCollection).Where("hostId", "==", hostID)

	var (
		result   *entity.User
		cascaded int
	)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(hostRef)
		if err != nil {
			return wrapGet(err, "Host")
		}
		host, err := decodeUser(doc)
		if err != nil {
			return err
		}
		properties, err := tx.Documents(owned).GetAll()
		if err != nil {
			return errors.Internal("Failed to load host properties", err)
		}

		if err := mutate(host); err != nil {
			return err
		}

		now := time.Now()
		host.UpdatedAt = now
		state := host.DisabledState()

		hostUpdates := append(disabledUpdates(state),
			firestore.Update{Path: "subscription", Value: host.Subscription},
			firestore.Update{Path: "updatedAt", Value: now},
		)
		if err := tx.Update(hostRef, hostUpdates); err != nil {
			return err
		}
		if host.Subscription != nil {
			if err := tx.Set(mirrorRef, subscriptionMirror(host)); err != nil {
				return err
			}
		}

		for _, p := range properties {
			updates := append(disabledUpdates(state), firestore.Update{Path: "updatedAt", Value: now})
			if err := tx.Update(p.Ref, updates); err != nil {
				return err
			}
		}

		result, cascaded = host, len(properties)
		return nil
	})
	if err != nil {
		return nil, 0, wrapTx(err, "Failed to update host status")
	}
	return result, cascaded, nil
}
