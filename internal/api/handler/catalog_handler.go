package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknook/storefront/internal/core/ports"
)

// CatalogHandler forwards book, interest and administration calls to the
// backend on behalf of the session.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

type fetchFunc func(ctx context.Context, token string) (json.RawMessage, error)

func (h *CatalogHandler) proxy(c echo.Context, fetch fetchFunc) error {
	token, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	raw, err := fetch(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, raw)
}

// Bestsellers handles GET /api/books/bestsellers.
//
// @Summary      Bestselling books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  object
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/books/bestsellers [get]
func (h *CatalogHandler) Bestsellers(c echo.Context) error {
	return h.proxy(c, h.service.Bestsellers)
}

// BorrowBooks handles GET /api/books/borrow.
//
// @Summary      Books available to borrow
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  object
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/books/borrow [get]
func (h *CatalogHandler) BorrowBooks(c echo.Context) error {
	return h.proxy(c, h.service.BorrowBooks)
}

// BorrowBook handles GET /api/books/borrow/:id.
//
// @Summary      A book available to borrow
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  object
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/books/borrow/{id} [get]
func (h *CatalogHandler) BorrowBook(c echo.Context) error {
	id := c.Param("id")
	return h.proxy(c, func(ctx context.Context, token string) (json.RawMessage, error) {
		return h.service.BorrowBook(ctx, token, id)
	})
}

// PurchaseBooks handles GET /api/books/purchase.
//
// @Summary      Books for sale
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  object
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/books/purchase [get]
func (h *CatalogHandler) PurchaseBooks(c echo.Context) error {
	return h.proxy(c, h.service.PurchaseBooks)
}

// PurchaseBook handles GET /api/books/purchase/:id.
//
// @Summary      A book for sale
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  object
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/books/purchase/{id} [get]
func (h *CatalogHandler) PurchaseBook(c echo.Context) error {
	id := c.Param("id")
	return h.proxy(c, func(ctx context.Context, token string) (json.RawMessage, error) {
		return h.service.PurchaseBook(ctx, token, id)
	})
}

// Settings handles GET /api/books/settings.
//
// @Summary      Lending and sales settings
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  object
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/books/settings [get]
func (h *CatalogHandler) Settings(c echo.Context) error {
	return h.proxy(c, h.service.Settings)
}

// BooksByInterests handles GET /api/books/by-interests.
//
// @Summary      Books matching the client's interests
// @Tags         interests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  object
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/books/by-interests [get]
func (h *CatalogHandler) BooksByInterests(c echo.Context) error {
	return h.proxy(c, h.service.BooksByInterests)
}

// Interests handles GET /api/interests.
//
// @Summary      Selectable interests
// @Tags         interests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  object
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/interests [get]
func (h *CatalogHandler) Interests(c echo.Context) error {
	return h.proxy(c, h.service.Interests)
}

// SaveInterests handles POST /api/interests.
//
// @Summary      Save the client's interests
// @Tags         interests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveInterestsRequest  true  "Selected interest ids"
// @Success      200   {object}  object
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/interests [post]
func (h *CatalogHandler) SaveInterests(c echo.Context) error {
	var req saveInterestsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return h.proxy(c, func(ctx context.Context, token string) (json.RawMessage, error) {
		return h.service.SaveInterests(ctx, token, body)
	})
}

// UpdateSettings handles PATCH /api/manager/settings.
//
// @Summary      Update lending and sales settings
// @Tags         manager
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      object  true  "Settings fields to change"
// @Success      200   {object}  object
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/manager/settings [patch]
func (h *CatalogHandler) UpdateSettings(c echo.Context) error {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&fields); err != nil || len(fields) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "expected a non-empty json object")
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return h.proxy(c, func(ctx context.Context, token string) (json.RawMessage, error) {
		return h.service.UpdateSettings(ctx, token, body)
	})
}

// Users handles GET /api/manager/users.
//
// @Summary      All users
// @Tags         manager
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  object
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/manager/users [get]
func (h *CatalogHandler) Users(c echo.Context) error {
	return h.proxy(c, h.service.Users)
}

// VerifyEmail handles POST /api/auth/verify-email.
//
// @Summary      Verify an email address
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyEmailRequest  true  "Verification token from the email link"
// @Success      200   {object}  object
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/auth/verify-email [post]
func (h *CatalogHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	raw, err := h.service.VerifyEmail(c.Request().Context(), body)
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, raw)
}
