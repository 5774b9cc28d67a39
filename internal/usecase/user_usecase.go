package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"staynest/internal/domain/entity"
	"staynest/internal/domain/plan"
	"staynest/internal/domain/repository"
	"staynest/pkg/errors"
	"staynest/pkg/logger"
)

type UserUseCase struct {
	userRepo      repository.UserRepository
	subscriptions *SubscriptionUseCase
	catalog       *plan.Catalog
	now           func() time.Time
}

func NewUserUseCase(userRepo repository.UserRepository, subscriptions *SubscriptionUseCase, catalog *plan.Catalog) *UserUseCase {
	return &UserUseCase{
		userRepo:      userRepo,
		subscriptions: subscriptions,
		catalog:       catalog,
		now:           time.Now,
	}
}

type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
}

type ProfileInput struct {
	DisplayName string
	PhotoURL    string
	Phone       string
	UserType    string
}

// SaveProfile creates the caller's user document on first sign-in and updates
// it afterwards. New hosts start on the default plan.
func (uc *UserUseCase) SaveProfile(ctx context.Context, identity Identity, input ProfileInput) (*entity.User, error) {
	if input.UserType == entity.UserTypeAdmin {
		return nil, errors.Forbidden("Admin accounts cannot be self-assigned", nil)
	}

	existing, err := uc.userRepo.GetByID(ctx, identity.UID)
	if err != nil && !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}

	if existing == nil {
		now := uc.now()
		userType := input.UserType
		if userType == "" {
			userType = entity.UserTypeGuest
		}
		user := &entity.User{
			ID:          identity.UID,
			Email:       identity.Email,
			DisplayName: input.DisplayName,
			PhotoURL:    input.PhotoURL,
			Phone:       input.Phone,
			UserType:    userType,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if user.IsHost() {
			user.Subscription = uc.subscriptions.defaultSubscription(now)
		}
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		logger.FromContext(ctx).Info("user registered", zap.String("user_id", user.ID), zap.String("user_type", userType))
		return user, nil
	}

	if existing.UserType == entity.UserTypeAdmin && input.UserType != "" {
		input.UserType = ""
	}
	update := &entity.User{
		ID:          identity.UID,
		DisplayName: input.DisplayName,
		PhotoURL:    input.PhotoURL,
		Phone:       input.Phone,
		UserType:    input.UserType,
	}
	if err := uc.userRepo.UpdateProfile(ctx, update); err != nil {
		return nil, err
	}

	if input.UserType == entity.UserTypeHost {
		now := uc.now()
		_, _, err := uc.userRepo.MutateSubscription(ctx, identity.UID, func(u *entity.User) (bool, error) {
			if u.Subscription != nil {
				return false, nil
			}
			u.Subscription = uc.subscriptions.defaultSubscription(now)
			return true, nil
		})
		if err != nil {
			return nil, err
		}
	}
	return uc.GetProfile(ctx, identity.UID)
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.subscriptions.Resolve(ctx, user)
}
