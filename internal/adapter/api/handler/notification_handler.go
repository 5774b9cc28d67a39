package handler

import (
	"github.com/labstack/echo/v4"

	"staynest/internal/usecase"
	"staynest/pkg/response"
	"staynest/pkg/utils"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	pagination := utils.GetPagination(c)
	unreadOnly := c.QueryParam("unread") == "true"
	notifications, total, err := h.notificationUseCase.List(c.Request().Context(), userID, unreadOnly, pagination)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, notifications, total, pagination.Page, pagination.Limit)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	if err := h.notificationUseCase.MarkRead(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	updated, err := h.notificationUseCase.MarkAllRead(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int{"updated": updated})
}
