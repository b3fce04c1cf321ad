package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknook/storefront/internal/core/ports"
)

// NavigationHandler answers the browser's "may I render this view" question.
type NavigationHandler struct {
	service ports.NavigationService
}

func NewNavigationHandler(service ports.NavigationService) *NavigationHandler {
	return &NavigationHandler{service: service}
}

// Navigate handles GET /api/navigate.
//
// @Summary      Guard a front-end route
// @Description  Returns render, redirect (with location) or pending for the requested path.
// @Tags         navigation
// @Produce      json
// @Param        path  query     string  true  "Front-end path, e.g. /books/borrow"
// @Success      200   {object}  navigateResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/navigate [get]
func (h *NavigationHandler) Navigate(c echo.Context) error {
	var req navigateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.service.Navigate(c.Request().Context(), ctxToken(c), req.Path)
	if err != nil {
		return err
	}

	out := navigateResponse{
		Action:   res.Decision.Kind,
		Location: res.Decision.Location,
		View: viewResponse{
			Pattern:          res.View.Pattern,
			Access:           res.View.Access,
			Roles:            res.View.Roles,
			RequireInterests: res.View.RequireInterests,
		},
	}
	if res.Identity != nil {
		out.Role = res.Identity.Role
	}
	return c.JSON(http.StatusOK, out)
}
