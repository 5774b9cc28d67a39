package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"staynest/internal/domain/entity"
	"staynest/internal/domain/repository"
	"staynest/pkg/errors"
	"staynest/pkg/utils"
)

type firestoreWalletRepository struct {
	client *firestore.Client
}

func NewFirestoreWalletRepository(client *firestore.Client) repository.WalletRepository {
	return &firestoreWalletRepository{
		client: client,
	}
}

func (r *firestoreWalletRepository) GetBalance(ctx context.Context, userID string) (float64, error) {
	doc, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		return 0, wrapGet(err, "User")
	}
	user, err := decodeUser(doc)
	if err != nil {
		return 0, err
	}
	return user.WalletBalance, nil
}

func (r *firestoreWalletRepository) ApplyTopUp(ctx context.Context, txn *entity.WalletTransaction) (*entity.WalletTransaction, error) {
	userRef := r.client.Collection(usersCollection).Doc(txn.UserID)
	txnRef := r.client.Collection(walletTransactionsCollection).Doc(txn.ID)

	var result *entity.WalletTransaction
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(txnRef); err == nil {
			return errors.PaymentAlreadyProcessed(txn.ExternalPaymentID)
		} else if !isNotFound(err) {
			return err
		}

		doc, err := tx.Get(userRef)
		if err != nil {
			return wrapGet(err, "User")
		}
		user, err := decodeUser(doc)
		if err != nil {
			return err
		}

		row := *txn
		row.BalanceBefore = user.WalletBalance
		row.BalanceAfter = user.WalletBalance + txn.Amount

		if err := tx.Update(userRef, []firestore.Update{
			{Path: "walletBalance", Value: row.BalanceAfter},
			{Path: "updatedAt", Value: time.Now()},
		}); err != nil {
			return err
		}
		if err := tx.Create(txnRef, row); err != nil {
			return err
		}

		result = &row
		return nil
	})
	if err != nil {
		return nil, wrapTx(err, "Failed to top up wallet")
	}
	return result, nil
}

func (r *firestoreWalletRepository) ApplyWithdrawal(ctx context.Context, w *entity.Withdrawal) (*entity.WithdrawalResult, error) {
	users := r.client.Collection(usersCollection)
	ledger := r.client.Collection(walletTransactionsCollection)
	userRef := users.Doc(w.UserID)
	houseRef := users.Doc(w.HouseAccountID)
	userTxnRef := ledger.Doc(uuid.New().String())
	houseTxnRef := ledger.Doc(uuid.New().String())

	var result *entity.WithdrawalResult
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		userDoc, err := tx.Get(userRef)
		if err != nil {
			return wrapGet(err, "User")
		}
		houseDoc, err := tx.Get(houseRef)
		if err != nil {
			if isNotFound(err) {
				return errors.HouseAccountMissing()
			}
			return err
		}
		user, err := decodeUser(userDoc)
		if err != nil {
			return err
		}
		house, err := decodeUser(houseDoc)
		if err != nil {
			return err
		}

		entries, err := buildWithdrawalEntries(w, user.WalletBalance, house.WalletBalance)
		if err != nil {
			return err
		}
		entries.UserEntry.ID = userTxnRef.ID
		entries.HouseEntry.ID = houseTxnRef.ID

		now := time.Now()
		if err := tx.Update(userRef, []firestore.Update{
			{Path: "walletBalance", Value: entries.UserEntry.BalanceAfter},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}
		if err := tx.Update(houseRef, []firestore.Update{
			{Path: "walletBalance", Value: entries.HouseEntry.BalanceAfter},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}
		if err := tx.Create(userTxnRef, entries.UserEntry); err != nil {
			return err
		}
		if err := tx.Create(houseTxnRef, entries.HouseEntry); err != nil {
			return err
		}

		result = entries
		return nil
	})
	if err != nil {
		return nil, wrapTx(err, "Failed to process withdrawal")
	}
	return result, nil
}

func (r *firestoreWalletRepository) ListTransactions(ctx context.Context, userID string, pagination *utils.Pagination) ([]*entity.WalletTransaction, int64, error) {
	docs, err := r.client.Collection(walletTransactionsCollection).Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list wallet transactions", err)
	}
	txns, err := decodeAll(docs, func(t *entity.WalletTransaction, id string) { t.ID = id })
	if err != nil {
		return nil, 0, err
	}

	page, total := pageNewestFirst(txns, func(t *entity.WalletTransaction) int64 { return t.CreatedAt.UnixNano() }, pagination)
	return page, total, nil
}
