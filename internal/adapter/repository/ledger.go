package repository

import (
	"staynest/internal/domain/entity"
	"staynest/pkg/errors"
)

// buildWithdrawalEntries checks both balances and builds the two ledger rows
// of a withdrawal. Both backends share it so they agree on the arithmetic.
func buildWithdrawalEntries(w *entity.Withdrawal, userBalance, houseBalance float64) (*entity.WithdrawalResult, error) {
	if w.Amount > userBalance {
		return nil, errors.InsufficientBalance()
	}
	delta := w.HouseDelta()
	if houseBalance+delta < 0 {
		return nil, errors.HouseInsufficientFunds()
	}

	userEntry := &entity.WalletTransaction{
		UserID:         w.UserID,
		Type:           entity.TxnWithdrawal,
		Amount:         w.Amount,
		Fee:            w.Fee,
		AmountReceived: w.AmountReceived,
		BalanceBefore:  userBalance,
		BalanceAfter:   userBalance - w.Amount,
		Status:         entity.TxnCompleted,
		PayoutEmail:    w.PayoutEmail,
		CounterpartyID: w.HouseAccountID,
		WithdrawalID:   w.ID,
		Description:    "Withdrawal to " + w.PayoutEmail,
		CreatedAt:      w.CreatedAt,
	}
	houseEntry := &entity.WalletTransaction{
		UserID:         w.HouseAccountID,
		Type:           entity.TxnWithdrawalPayout,
		Amount:         w.Amount,
		Fee:            w.Fee,
		AmountReceived: w.AmountReceived,
		BalanceBefore:  houseBalance,
		BalanceAfter:   houseBalance + delta,
		Status:         entity.TxnCompleted,
		PayoutEmail:    w.PayoutEmail,
		CounterpartyID: w.UserID,
		WithdrawalID:   w.ID,
		Description:    "Payout for withdrawal " + w.ID,
		CreatedAt:      w.CreatedAt,
	}
	return &entity.WithdrawalResult{UserEntry: userEntry, HouseEntry: houseEntry}, nil
}
