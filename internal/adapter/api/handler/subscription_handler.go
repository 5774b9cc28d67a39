package handler

import (
	"github.com/labstack/echo/v4"

	"staynest/internal/usecase"
	"staynest/pkg/response"
)

type SubscriptionHandler struct {
	subscriptionUseCase *usecase.SubscriptionUseCase
}

func NewSubscriptionHandler(subscriptionUseCase *usecase.SubscriptionUseCase) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionUseCase: subscriptionUseCase,
	}
}

type subscribeRequest struct {
	PlanID    string `json:"planId" validate:"required"`
	PaymentID string `json:"paymentId"`
}

func (h *SubscriptionHandler) ListPlans(c echo.Context) error {
	return response.Success(c, h.subscriptionUseCase.Plans())
}

func (h *SubscriptionHandler) GetSubscription(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	view, err := h.subscriptionUseCase.GetSubscription(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, view)
}

func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req subscribeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	view, err := h.subscriptionUseCase.Subscribe(c.Request().Context(), userID, usecase.SubscribeInput{
		PlanID:    req.PlanID,
		PaymentID: req.PaymentID,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, view)
}

func (h *SubscriptionHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	view, err := h.subscriptionUseCase.Cancel(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, view)
}
