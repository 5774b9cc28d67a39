package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func getUserID(c echo.Context) (string, error) {
	userID, ok := c.Get("uid").(string)
	if !ok || userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid session")
	}
	return userID, nil
}

// bindAndValidate decodes the body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
