package repository

import (
	"context"

	"staynest/internal/domain/entity"
	"staynest/pkg/utils"
)

type WalletRepository interface {
	GetBalance(ctx context.Context, userID string) (float64, error)
	// ApplyTopUp credits txn.Amount and appends txn in one transaction.
	// A ledger row that already exists under txn.ID is a replay and fails
	// with PAYMENT_ALREADY_PROCESSED.
	ApplyTopUp(ctx context.Context, txn *entity.WalletTransaction) (*entity.WalletTransaction, error)
	// ApplyWithdrawal moves both balances and appends both ledger rows in one
	// transaction, after checking both balances at write time.
	ApplyWithdrawal(ctx context.Context, w *entity.Withdrawal) (*entity.WithdrawalResult, error)
	ListTransactions(ctx context.Context, userID string, pagination *utils.Pagination) ([]*entity.WalletTransaction, int64, error)
}
