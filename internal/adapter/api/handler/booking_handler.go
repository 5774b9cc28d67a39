package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"staynest/internal/usecase"
	apperrors "staynest/pkg/errors"
	"staynest/pkg/response"
	"staynest/pkg/utils"
)

type BookingHandler struct {
	bookingUseCase *usecase.BookingUseCase
}

func NewBookingHandler(bookingUseCase *usecase.BookingUseCase) *BookingHandler {
	return &BookingHandler{
		bookingUseCase: bookingUseCase,
	}
}

type createBookingRequest struct {
	PropertyID string `json:"propertyId" validate:"required"`
	CheckIn    string `json:"checkIn" validate:"required"`
	CheckOut   string `json:"checkOut" validate:"required"`
	Guests     int    `json:"guests" validate:"required,gt=0"`
	PaymentID  string `json:"paymentId"`
}

// parseStayDate accepts a calendar date or a full RFC3339 timestamp.
func parseStayDate(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	checkIn, err := parseStayDate(req.CheckIn)
	if err != nil {
		return response.Error(c, apperrors.BadRequest("checkIn must be a date", err))
	}
	checkOut, err := parseStayDate(req.CheckOut)
	if err != nil {
		return response.Error(c, apperrors.BadRequest("checkOut must be a date", err))
	}

	email, _ := c.Get("email").(string)
	booking, err := h.bookingUseCase.CreateBooking(c.Request().Context(), userID, email, usecase.CreateBookingInput{
		PropertyID: req.PropertyID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     req.Guests,
		PaymentID:  req.PaymentID,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, booking)
}

func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	pagination := utils.GetPagination(c)
	bookings, total, err := h.bookingUseCase.ListGuestBookings(c.Request().Context(), userID, pagination)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, bookings, total, pagination.Page, pagination.Limit)
}

func (h *BookingHandler) ListHostBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	pagination := utils.GetPagination(c)
	bookings, total, err := h.bookingUseCase.ListHostBookings(c.Request().Context(), userID, pagination)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, bookings, total, pagination.Page, pagination.Limit)
}
