package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booknook/storefront/internal/core/domain"
	"github.com/booknook/storefront/internal/core/ports"
	"github.com/booknook/storefront/internal/core/service"
	"github.com/booknook/storefront/internal/infrastructure/bookapi"
)

// SessionHandler exposes the current identity, the live channel lifecycle
// and the notification list of a session.
type SessionHandler struct {
	sessions ports.SessionService
	catalog  ports.CatalogService
}

func NewSessionHandler(sessions ports.SessionService, catalog ports.CatalogService) *SessionHandler {
	return &SessionHandler{sessions: sessions, catalog: catalog}
}

// Get handles GET /api/session.
//
// @Summary      Current identity
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	token, identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	live := ports.LiveStatus{SessionID: service.SessionID(token)}
	if st, err := h.sessions.Status(token); err == nil {
		live = *st
	} else if !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Identity:            identity,
		HomePath:            service.HomePath(identity.Role, identity.InterestsConfigured()),
		InterestsConfigured: identity.InterestsConfigured(),
		Live:                live,
	})
}

// Logout handles POST /api/session/logout.
//
// @Summary      Log out
// @Description  Ends the backend session, forgets the identity and closes the live channel.
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	token, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.catalog.Logout(c.Request().Context(), token); err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{Name: bookapi.SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Connect handles POST /api/live.
//
// @Summary      Open the live channel
// @Description  Takes a reference on the session's live channel, connecting it when closed.
// @Tags         live
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.LiveStatus
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/live [post]
func (h *SessionHandler) Connect(c echo.Context) error {
	token, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	st, err := h.sessions.Attach(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

// Disconnect handles DELETE /api/live.
//
// @Summary      Release the live channel
// @Description  Drops a reference; the last one disconnects the socket.
// @Tags         live
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.LiveStatus
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/live [delete]
func (h *SessionHandler) Disconnect(c echo.Context) error {
	token, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	st, err := h.sessions.Detach(token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

// Notifications handles GET /api/notifications.
//
// @Summary      Rolling notification list
// @Description  Most recent live notifications, newest first.
// @Tags         live
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  notificationsResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/notifications [get]
func (h *SessionHandler) Notifications(c echo.Context) error {
	token, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	list, err := h.sessions.Notifications(token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notificationsResponse{Notifications: list})
}
