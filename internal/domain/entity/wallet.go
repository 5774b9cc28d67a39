package entity

import (
	"time"
)

const (
	TxnTopUp            = "top_up"
	TxnWithdrawal       = "withdrawal"
	TxnWithdrawalPayout = "withdrawal_payout"

	TxnCompleted = "completed"

	HouseEntryDebit  = "debit"
	HouseEntryCredit = "credit"
)

// WalletTransaction is an append-only ledger row in walletTransactions.
type WalletTransaction struct {
	ID                string    `json:"id" firestore:"id"`
	UserID            string    `json:"userId" firestore:"userId"`
	Type              string    `json:"type" firestore:"type"`
	Amount            float64   `json:"amount" firestore:"amount"`
	Fee               float64   `json:"fee,omitempty" firestore:"fee,omitempty"`
	AmountReceived    float64   `json:"amountReceived,omitempty" firestore:"amountReceived,omitempty"`
	BalanceBefore     float64   `json:"balanceBefore" firestore:"balanceBefore"`
	BalanceAfter      float64   `json:"balanceAfter" firestore:"balanceAfter"`
	Status            string    `json:"status" firestore:"status"`
	ExternalPaymentID string    `json:"externalPaymentId,omitempty" firestore:"externalPaymentId,omitempty"`
	PayoutEmail       string    `json:"payoutEmail,omitempty" firestore:"payoutEmail,omitempty"`
	CounterpartyID    string    `json:"counterpartyId,omitempty" firestore:"counterpartyId,omitempty"`
	WithdrawalID      string    `json:"withdrawalId,omitempty" firestore:"withdrawalId,omitempty"`
	Description       string    `json:"description" firestore:"description"`
	CreatedAt         time.Time `json:"createdAt" firestore:"createdAt"`
}

// Withdrawal is everything the ledger needs to move a payout in one commit.
type Withdrawal struct {
	ID             string
	UserID         string
	HouseAccountID string
	Amount         float64
	FeePercent     float64
	Fee            float64
	AmountReceived float64
	PayoutEmail    string
	// HouseEntry is the direction applied to the house balance, debit or credit.
	HouseEntry string
	CreatedAt  time.Time
}

// HouseDelta is the signed change applied to the house account balance.
func (w *Withdrawal) HouseDelta() float64 {
	if w.HouseEntry == HouseEntryCredit {
		return w.Amount
	}
	return -w.AmountReceived
}

type WithdrawalResult struct {
	UserEntry  *WalletTransaction `json:"userEntry"`
	HouseEntry *WalletTransaction `json:"houseEntry"`
}

// TopUpTransactionID keys a top-up ledger row by the payment that funded it,
// so a replayed payment callback lands on the same document.
func TopUpTransactionID(externalPaymentID string) string {
	return "topup_" + externalPaymentID
}
