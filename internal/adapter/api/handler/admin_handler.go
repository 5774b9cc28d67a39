package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"staynest/internal/usecase"
	apperrors "staynest/pkg/errors"
	"staynest/pkg/response"
	"staynest/pkg/utils"
)

type AdminHandler struct {
	hostStatusUseCase   *usecase.HostStatusUseCase
	subscriptionUseCase *usecase.SubscriptionUseCase
}

func NewAdminHandler(hostStatusUseCase *usecase.HostStatusUseCase, subscriptionUseCase *usecase.SubscriptionUseCase) *AdminHandler {
	return &AdminHandler{
		hostStatusUseCase:   hostStatusUseCase,
		subscriptionUseCase: subscriptionUseCase,
	}
}

type disableHostRequest struct {
	Days   int    `json:"days" validate:"gte=0,lte=3650"`
	Reason string `json:"reason" validate:"max=200"`
}

func (h *AdminHandler) ListHosts(c echo.Context) error {
	var disabled *bool
	if raw := c.QueryParam("disabled"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return response.Error(c, apperrors.BadRequest("disabled must be true or false", err))
		}
		disabled = &v
	}

	pagination := utils.GetPagination(c)
	hosts, total, err := h.hostStatusUseCase.ListHosts(c.Request().Context(), disabled, pagination)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, hosts, total, pagination.Page, pagination.Limit)
}

func (h *AdminHandler) GetHost(c echo.Context) error {
	details, err := h.hostStatusUseCase.GetHostDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, details)
}

func (h *AdminHandler) RevokeSubscription(c echo.Context) error {
	result, err := h.hostStatusUseCase.RevokeSubscription(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}

func (h *AdminHandler) RestoreSubscription(c echo.Context) error {
	result, err := h.hostStatusUseCase.RestoreSubscription(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}

func (h *AdminHandler) DisableHost(c echo.Context) error {
	var req disableHostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.hostStatusUseCase.DisableHost(c.Request().Context(), c.Param("id"), usecase.DisableHostInput{
		Days:   req.Days,
		Reason: req.Reason,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}

func (h *AdminHandler) EnableHost(c echo.Context) error {
	result, err := h.hostStatusUseCase.EnableHost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}

func (h *AdminHandler) Reconcile(c echo.Context) error {
	reverted, err := h.subscriptionUseCase.ReconcileExpired(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int{"reverted": reverted})
}
