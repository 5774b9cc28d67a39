package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"staynest/internal/domain/entity"
	"staynest/internal/domain/repository"
	"staynest/internal/infrastructure/metrics"
	"staynest/pkg/errors"
	"staynest/pkg/logger"
	"staynest/pkg/utils"
)

type WalletConfig struct {
	MinWithdrawal     float64
	FeePercent        float64
	HouseAccountEmail string
	// HouseEntry is debit or credit, applied to the house account on payout.
	HouseEntry string
}

type WalletUseCase struct {
	walletRepo repository.WalletRepository
	userRepo   repository.UserRepository
	notifier   Notifier
	config     WalletConfig
	validate   *validator.Validate
	now        func() time.Time
}

func NewWalletUseCase(
	walletRepo repository.WalletRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	config WalletConfig,
) *WalletUseCase {
	if config.HouseEntry == "" {
		config.HouseEntry = entity.HouseEntryDebit
	}
	return &WalletUseCase{
		walletRepo: walletRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		config:     config,
		validate:   validator.New(),
		now:        time.Now,
	}
}

type TopUpInput struct {
	Amount    float64
	PaymentID string
}

type WithdrawInput struct {
	Amount      float64
	PayoutEmail string
}

type WalletSummary struct {
	Balance       float64 `json:"balance"`
	MinWithdrawal float64 `json:"minWithdrawal"`
	FeePercent    float64 `json:"feePercent"`
}

func (uc *WalletUseCase) GetWallet(ctx context.Context, userID string) (*WalletSummary, error) {
	balance, err := uc.walletRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &WalletSummary{
		Balance:       balance,
		MinWithdrawal: uc.config.MinWithdrawal,
		FeePercent:    uc.config.FeePercent,
	}, nil
}

func (uc *WalletUseCase) ListTransactions(ctx context.Context, userID string, pagination *utils.Pagination) ([]*entity.WalletTransaction, int64, error) {
	return uc.walletRepo.ListTransactions(ctx, userID, pagination)
}

// TopUp credits a payment the provider has approved. The payment id keys the
// ledger row, so the same payment is never credited twice.
func (uc *WalletUseCase) TopUp(ctx context.Context, userID string, input TopUpInput) (*entity.WalletTransaction, error) {
	if input.Amount <= 0 {
		return nil, errors.BadRequest("Top-up amount must be greater than zero", nil)
	}
	if input.PaymentID == "" || strings.Contains(input.PaymentID, "/") {
		return nil, errors.BadRequest("A valid payment id is required", nil)
	}

	txn := &entity.WalletTransaction{
		ID:                entity.TopUpTransactionID(input.PaymentID),
		UserID:            userID,
		Type:              entity.TxnTopUp,
		Amount:            input.Amount,
		Status:            entity.TxnCompleted,
		ExternalPaymentID: input.PaymentID,
		Description:       "Wallet top-up",
		CreatedAt:         uc.now(),
	}

	row, err := uc.walletRepo.ApplyTopUp(ctx, txn)
	metrics.WalletOperations.WithLabelValues(entity.TxnTopUp, metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("wallet topped up",
		zap.String("user_id", userID),
		zap.Float64("amount", row.Amount),
		zap.Float64("balance", row.BalanceAfter),
	)
	uc.notifier.Notify(ctx, &entity.Notification{
		UserID:  userID,
		Type:    entity.NotifyWalletTopUp,
		Title:   "Wallet topped up",
		Message: fmt.Sprintf("%.2f was added to your wallet.", row.Amount),
		Data:    map[string]interface{}{"transactionId": row.ID, "balance": row.BalanceAfter},
	})
	return row, nil
}

// Withdraw pays out to payoutEmail from the house account. The fee is
// amount*feePercent/100 and the requester receives the rest.
func (uc *WalletUseCase) Withdraw(ctx context.Context, userID string, input WithdrawInput) (*entity.WithdrawalResult, error) {
	if input.Amount < uc.config.MinWithdrawal {
		return nil, errors.BelowMinimum(uc.config.MinWithdrawal)
	}
	if err := uc.validate.Var(input.PayoutEmail, "required,email"); err != nil {
		return nil, errors.InvalidEmail()
	}

	balance, err := uc.walletRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.Amount > balance {
		return nil, errors.InsufficientBalance()
	}

	house, err := uc.findHouseAccount(ctx)
	if err != nil {
		return nil, err
	}
	if house.ID == userID {
		return nil, errors.Forbidden("The house account cannot withdraw to itself", nil)
	}

	fee := input.Amount * uc.config.FeePercent / 100
	w := &entity.Withdrawal{
		ID:             uuid.New().String(),
		UserID:         userID,
		HouseAccountID: house.ID,
		Amount:         input.Amount,
		FeePercent:     uc.config.FeePercent,
		Fee:            fee,
		AmountReceived: input.Amount - fee,
		PayoutEmail:    input.PayoutEmail,
		HouseEntry:     uc.config.HouseEntry,
		CreatedAt:      uc.now(),
	}

	result, err := uc.walletRepo.ApplyWithdrawal(ctx, w)
	metrics.WalletOperations.WithLabelValues(entity.TxnWithdrawal, metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("wallet withdrawal",
		zap.String("user_id", userID),
		zap.String("withdrawal_id", w.ID),
		zap.Float64("amount", w.Amount),
		zap.Float64("fee", w.Fee),
	)
	uc.notifier.Notify(ctx, &entity.Notification{
		UserID:  userID,
		Type:    entity.NotifyWalletWithdrawal,
		Title:   "Withdrawal sent",
		Message: fmt.Sprintf("%.2f is on its way to %s.", w.AmountReceived, w.PayoutEmail),
		Data:    map[string]interface{}{"withdrawalId": w.ID, "fee": w.Fee},
	})
	return result, nil
}

// findHouseAccount tries the configured email, then userType admin, then the
// isAdmin flag. The first match wins.
func (uc *WalletUseCase) findHouseAccount(ctx context.Context) (*entity.User, error) {
	lookups := []func() (*entity.User, error){
		func() (*entity.User, error) {
			if uc.config.HouseAccountEmail == "" {
				return nil, errors.NotFound("House account", nil)
			}
			return uc.userRepo.GetByEmail(ctx, uc.config.HouseAccountEmail)
		},
		func() (*entity.User, error) { return uc.userRepo.FindFirst(ctx, "userType", entity.UserTypeAdmin) },
		func() (*entity.User, error) { return uc.userRepo.FindFirst(ctx, "isAdmin", true) },
	}

	for _, lookup := range lookups {
		user, err := lookup()
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, errors.CodeNotFound) {
			return nil, err
		}
	}
	return nil, errors.HouseAccountMissing()
}
