package handler

import (
	"github.com/labstack/echo/v4"

	"staynest/internal/usecase"
	"staynest/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type saveProfileRequest struct {
	DisplayName string `json:"displayName" validate:"max=100"`
	PhotoURL    string `json:"photoURL" validate:"omitempty,url"`
	Phone       string `json:"phone" validate:"max=30"`
	UserType    string `json:"userType" validate:"omitempty,oneof=guest host"`
}

func (h *UserHandler) SaveProfile(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req saveProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	email, _ := c.Get("email").(string)
	verified, _ := c.Get("email_verified").(bool)
	user, err := h.userUseCase.SaveProfile(c.Request().Context(),
		usecase.Identity{UID: userID, Email: email, EmailVerified: verified},
		usecase.ProfileInput{
			DisplayName: req.DisplayName,
			PhotoURL:    req.PhotoURL,
			Phone:       req.Phone,
			UserType:    req.UserType,
		},
	)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userUseCase.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}
