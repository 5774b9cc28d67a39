package handler

import (
	"github.com/labstack/echo/v4"

	"staynest/internal/usecase"
	"staynest/pkg/response"
	"staynest/pkg/utils"
)

type WalletHandler struct {
	walletUseCase *usecase.WalletUseCase
}

func NewWalletHandler(walletUseCase *usecase.WalletUseCase) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
	}
}

type topUpRequest struct {
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	PaymentID string  `json:"paymentId" validate:"required"`
}

type withdrawRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	PayoutEmail string  `json:"payoutEmail" validate:"required"`
}

func (h *WalletHandler) GetWallet(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	summary, err := h.walletUseCase.GetWallet(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, summary)
}

func (h *WalletHandler) ListTransactions(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	pagination := utils.GetPagination(c)
	txns, total, err := h.walletUseCase.ListTransactions(c.Request().Context(), userID, pagination)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, txns, total, pagination.Page, pagination.Limit)
}

func (h *WalletHandler) TopUp(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req topUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	txn, err := h.walletUseCase.TopUp(c.Request().Context(), userID, usecase.TopUpInput{
		Amount:    req.Amount,
		PaymentID: req.PaymentID,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, txn)
}

// Withdraw leaves email format checks to the use case so an invalid payout
// address gets its own error code.
func (h *WalletHandler) Withdraw(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req withdrawRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.walletUseCase.Withdraw(c.Request().Context(), userID, usecase.WithdrawInput{
		Amount:      req.Amount,
		PayoutEmail: req.PayoutEmail,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, result)
}
