package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staynest/internal/domain/entity"
	"staynest/pkg/errors"
)

func TestTopUp_CreditsBalanceAndAppendsRow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "u1", UserType: entity.UserTypeGuest, WalletBalance: 120})

	row, err := env.wallet.TopUp(ctx, "u1", TopUpInput{Amount: 30.5, PaymentID: "PAY-1"})
	require.NoError(t, err)
	assert.Equal(t, entity.TxnTopUp, row.Type)
	assert.Equal(t, 120.0, row.BalanceBefore)
	assert.Equal(t, 150.5, row.BalanceAfter)
	assert.Equal(t, "PAY-1", row.ExternalPaymentID)
	assert.Equal(t, env.now, row.CreatedAt)

	summary, err := env.wallet.GetWallet(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 150.5, summary.Balance)

	txns, total, err := env.wallet.ListTransactions(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, row.ID, txns[0].ID)
	assert.Equal(t, []string{entity.NotifyWalletTopUp}, env.notifier.types())
}

func TestTopUp_ReplayedPaymentIsRejected(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "u1"})

	_, err := env.wallet.TopUp(ctx, "u1", TopUpInput{Amount: 50, PaymentID: "PAY-1"})
	require.NoError(t, err)
	_, err = env.wallet.TopUp(ctx, "u1", TopUpInput{Amount: 50, PaymentID: "PAY-1"})
	assert.True(t, errors.Is(err, errors.CodePaymentProcessed))

	summary, _ := env.wallet.GetWallet(ctx, "u1")
	assert.Equal(t, 50.0, summary.Balance)
}

func TestTopUp_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "u1"})

	for _, input := range []TopUpInput{
		{Amount: 0, PaymentID: "PAY"},
		{Amount: -5, PaymentID: "PAY"},
		{Amount: 10},
		{Amount: 10, PaymentID: "a/b"},
	} {
		_, err := env.wallet.TopUp(context.Background(), "u1", input)
		assert.True(t, errors.Is(err, errors.CodeBadRequest), "%+v", input)
	}
}

func TestWithdraw_FeeArithmeticAndBothRows(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, &entity.User{ID: "u1", WalletBalance: 500})
	env.addUser(t, &entity.User{ID: "house", UserType: entity.UserTypeAdmin, WalletBalance: 1000})

	result, err := env.wallet.Withdraw(ctx, "u1", WithdrawInput{Amount: 250, PayoutEmail: "payout@example.com"})
	require.NoError(t, err)

	user, house := result.UserEntry, result.HouseEntry
	assert.Equal(t, entity.TxnWithdrawal, user.Type)
	assert.Equal(t, entity.TxnWithdrawalPayout, house.Type)
	assert.Equal(t, 250.0, user.Amount)
	assert.Equal(t, 2.5, user.Fee)
	assert.Equal(t, 247.5, user.AmountReceived)
	assert.Equal(t, user.Amount, house.Amount)
	assert.Equal(t, user.Fee, house.Fee)
	assert.Equal(t, user.WithdrawalID, house.WithdrawalID)

	assert.Equal(t, 500.0, user.BalanceBefore)
	assert.Equal(t, 250.0, user.BalanceAfter)
	assert.Equal(t, 1000.0, house.BalanceBefore)
	assert.Equal(t, 752.5, house.BalanceAfter)

	u, _ := env.wallet.GetWallet(ctx, "u1")
	h, _ := env.wallet.GetWallet(ctx, "house")
	assert.Equal(t, 250.0, u.Balance)
	assert.Equal(t, 752.5, h.Balance)
}

func TestWithdraw_FeeFormula(t *testing.T) {
	amounts := []float64{100, 133.33, 999.99, 12345}
	for _, amount := range amounts {
		env := newTestEnv(t)
		env.wallet.config.FeePercent = 2.5
		env.addUser(t, &entity.User{ID: "u1", WalletBalance: amount})
		env.addUser(t, &entity.User{ID: "house", IsAdmin: true, WalletBalance: 1e6})

		result, err := env.wallet.Withdraw(context.Background(), "u1", WithdrawInput{Amount: amount, PayoutEmail: "a@b.co"})
		require.NoError(t, err)
		assert.Equal(t, amount-amount*2.5/100, result.UserEntry.AmountReceived)
		assert.Equal(t, amount*2.5/100, result.HouseEntry.Fee)
	}
}

func TestWithdraw_CreditHouseEntry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.wallet.config.HouseEntry = entity.HouseEntryCredit
	env.addUser(t, &entity.User{ID: "u1", WalletBalance: 200})
	env.addUser(t, &entity.User{ID: "house", UserType: entity.UserTypeAdmin})

	result, err := env.wallet.Withdraw(ctx, "u1", WithdrawInput{Amount: 200, PayoutEmail: "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, 200.0, result.HouseEntry.BalanceAfter)
}

func TestWithdraw_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("below minimum", func(t *testing.T) {
		env := newTestEnv(t)
		env.addUser(t, &entity.User{ID: "u1", WalletBalance: 500})
		_, err := env.wallet.Withdraw(ctx, "u1", WithdrawInput{Amount: 99.99, PayoutEmail: "a@b.co"})
		assert.True(t, errors.Is(err, errors.CodeBelowMinimum))
	})

	t.Run("invalid email", func(t *testing.T) {
		env := newTestEnv(t)
		env.addUser(t, &entity.User{ID: "u1", WalletBalance: 500})
		_, err := env.wallet.Withdraw(ctx, "u1", WithdrawInput{Amount: 100, PayoutEmail: "not-an-email"})
		assert.True(t, errors.Is(err, errors.CodeInvalidEmail))
	})

	t.Run("insufficient balance", func(t *testing.T) {
		env := newTestEnv(t)
		env.addUser(t, &entity.User{ID: "u1", WalletBalance: 150})
		env.addUser(t, &entity.User{ID: "house", UserType: entity.UserTypeAdmin, WalletBalance: 1000})
		_, err := env.wallet.Withdraw(ctx, "u1", WithdrawInput{Amount: 151, PayoutEmail: "a@b.co"})
		assert.True(t, errors.Is(err, errors.CodeInsufficientBalance))
	})

	t.Run("missing house account", func(t *testing.T) {
		env := newTestEnv(t)
		env.addUser(t, &entity.User{ID: "u1", WalletBalance: 500})
		_, err := env.wallet.Withdraw(ctx, "u1", WithdrawInput{Amount: 100, PayoutEmail: "a@b.co"})
		assert.True(t, errors.Is(err, errors.CodeHouseAccountMissing))
	})

	t.Run("house cannot fund payout", func(t *testing.T) {
		env := newTestEnv(t)
		env.addUser(t, &entity.User{ID: "u1", WalletBalance: 500})
		env.addUser(t, &entity.User{ID: "house", UserType: entity.UserTypeAdmin, WalletBalance: 10})
		_, err := env.wallet.Withdraw(ctx, "u1", WithdrawInput{Amount: 100, PayoutEmail: "a@b.co"})
		assert.True(t, errors.Is(err, errors.CodeHouseInsufficientFunds))

		u, _ := env.wallet.GetWallet(ctx, "u1")
		assert.Equal(t, 500.0, u.Balance)
		_, total, _ := env.wallet.ListTransactions(ctx, "u1", nil)
		assert.Zero(t, total)
	})

	t.Run("house withdrawing to itself", func(t *testing.T) {
		env := newTestEnv(t)
		env.addUser(t, &entity.User{ID: "house", UserType: entity.UserTypeAdmin, WalletBalance: 1000})
		_, err := env.wallet.Withdraw(ctx, "house", WithdrawInput{Amount: 100, PayoutEmail: "a@b.co"})
		assert.True(t, errors.Is(err, "FORBIDDEN"))
	})
}

func TestWithdraw_HouseLookupOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.wallet.config.HouseAccountEmail = "treasury@example.com"
	env.addUser(t, &entity.User{ID: "u1", WalletBalance: 500})
	env.addUser(t, &entity.User{ID: "flagged", IsAdmin: true, WalletBalance: 1000})
	env.addUser(t, &entity.User{ID: "typed", UserType: entity.UserTypeAdmin, WalletBalance: 1000})
	env.addUser(t, &entity.User{ID: "treasury", Email: "treasury@example.com", WalletBalance: 1000})

	result, err := env.wallet.Withdraw(ctx, "u1", WithdrawInput{Amount: 100, PayoutEmail: "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, "treasury", result.HouseEntry.UserID)

	env.wallet.config.HouseAccountEmail = "nobody@example.com"
	result, err = env.wallet.Withdraw(ctx, "u1", WithdrawInput{Amount: 100, PayoutEmail: "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, "typed", result.HouseEntry.UserID)

	env.wallet.config.HouseAccountEmail = ""
	env2 := newTestEnv(t)
	env2.addUser(t, &entity.User{ID: "u1", WalletBalance: 500})
	env2.addUser(t, &entity.User{ID: "flagged", IsAdmin: true, WalletBalance: 1000})
	result, err = env2.wallet.Withdraw(ctx, "u1", WithdrawInput{Amount: 100, PayoutEmail: "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, "flagged", result.HouseEntry.UserID)
}
