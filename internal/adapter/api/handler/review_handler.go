package handler

import (
	"github.com/labstack/echo/v4"

	"staynest/internal/usecase"
	"staynest/pkg/response"
	"staynest/pkg/utils"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

type createReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUseCase.CreateReview(c.Request().Context(), userID, c.Param("id"), usecase.CreateReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, review)
}

func (h *ReviewHandler) ListReviews(c echo.Context) error {
	pagination := utils.GetPagination(c)
	reviews, total, err := h.reviewUseCase.ListReviews(c.Request().Context(), c.Param("id"), pagination)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, reviews, total, pagination.Page, pagination.Limit)
}
