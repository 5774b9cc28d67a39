package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"staynest/internal/domain/entity"
	"staynest/internal/usecase"
	apperrors "staynest/pkg/errors"
	"staynest/pkg/response"
)

const maxImageSize = 10 << 20

type PropertyHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewPropertyHandler(listingUseCase *usecase.ListingUseCase) *PropertyHandler {
	return &PropertyHandler{
		listingUseCase: listingUseCase,
	}
}

type saveDraftRequest struct {
	Step    int                   `json:"step" validate:"gte=0,lte=10"`
	Details entity.ListingDetails `json:"details"`
}

func (h *PropertyHandler) SearchProperties(c echo.Context) error {
	filter := usecase.PropertyFilter{
		Category: c.QueryParam("category"),
		City:     c.QueryParam("city"),
		SortBy:   c.QueryParam("sort"),
	}
	if v := c.QueryParam("minPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return response.Error(c, apperrors.BadRequest("minPrice must be a number", err))
		}
		filter.MinPrice = price
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return response.Error(c, apperrors.BadRequest("maxPrice must be a number", err))
		}
		filter.MaxPrice = price
	}
	if v := c.QueryParam("guests"); v != "" {
		guests, err := strconv.Atoi(v)
		if err != nil {
			return response.Error(c, apperrors.BadRequest("guests must be a whole number", err))
		}
		filter.Guests = guests
	}

	properties, err := h.listingUseCase.SearchProperties(c.Request().Context(), filter)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, properties)
}

// GetProperty is public. Hosts that are signed in can still see their own
// disabled listings.
func (h *PropertyHandler) GetProperty(c echo.Context) error {
	viewerID, _ := c.Get("uid").(string)
	property, err := h.listingUseCase.GetProperty(c.Request().Context(), c.Param("id"), viewerID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, property)
}

func (h *PropertyHandler) ListMyProperties(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	properties, err := h.listingUseCase.ListHostProperties(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, properties)
}

func (h *PropertyHandler) CreateProperty(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var details entity.ListingDetails
	if err := c.Bind(&details); err != nil {
		return response.Error(c, err)
	}

	property, err := h.listingUseCase.CreateListing(c.Request().Context(), userID, details)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, property)
}

func (h *PropertyHandler) ListDrafts(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	drafts, err := h.listingUseCase.ListDrafts(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, drafts)
}

// SaveDraft creates a draft on POST and updates one on PUT /:id.
func (h *PropertyHandler) SaveDraft(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req saveDraftRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	draft, err := h.listingUseCase.SaveDraft(c.Request().Context(), userID, c.Param("id"), usecase.SaveDraftInput{
		Step:    req.Step,
		Details: req.Details,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, draft)
}

func (h *PropertyHandler) GetDraft(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	draft, err := h.listingUseCase.GetDraft(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, draft)
}

func (h *PropertyHandler) DeleteDraft(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	if err := h.listingUseCase.DeleteDraft(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Draft deleted"})
}

func (h *PropertyHandler) PublishDraft(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	property, err := h.listingUseCase.PublishDraft(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, property)
}

func (h *PropertyHandler) UploadImage(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, apperrors.BadRequest("image file is required", err))
	}
	if file.Size > maxImageSize {
		return response.Error(c, apperrors.BadRequest("image must be 10MB or smaller", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, apperrors.Internal("Failed to read upload", err))
	}
	defer src.Close()

	url, err := h.listingUseCase.UploadImage(c.Request().Context(), userID, file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, map[string]string{"url": url})
}
