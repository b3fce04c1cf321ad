package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknook/storefront/internal/core/domain"
	"github.com/booknook/storefront/internal/core/ports"
)

// OrderHandler serves the session's cached collections.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Orders handles GET /api/orders.
//
// @Summary      Orders of the current user
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  collectionResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) Orders(c echo.Context) error {
	return h.list(c, domain.CollectionOrders)
}

// ReturnOrders handles GET /api/return-orders.
//
// @Summary      Return orders of the current user
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  collectionResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/return-orders [get]
func (h *OrderHandler) ReturnOrders(c echo.Context) error {
	return h.list(c, domain.CollectionReturnOrders)
}

func (h *OrderHandler) list(c echo.Context, collection string) error {
	token, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	items, err := h.service.List(c.Request().Context(), token, collection)
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.Record{}
	}
	return c.JSON(http.StatusOK, collectionResponse{Collection: collection, Items: items})
}
