package handler

import (
	"github.com/booknook/storefront/internal/core/domain"
	"github.com/booknook/storefront/internal/core/ports"
)

type errorResponse struct {
	Error string `json:"error"`
}

type navigateRequest struct {
	Path string `query:"path" validate:"required,startswith=/"`
}

type viewResponse struct {
	Pattern          string        `json:"pattern"`
	Access           domain.Access `json:"access"`
	Roles            []domain.Role `json:"roles,omitempty"`
	RequireInterests bool          `json:"require_interests,omitempty"`
}

type navigateResponse struct {
	Action   ports.DecisionKind `json:"action"`
	Location string             `json:"location,omitempty"`
	View     viewResponse       `json:"view"`
	Role     domain.Role        `json:"role,omitempty"`
}

type sessionResponse struct {
	Identity            *domain.Identity `json:"identity"`
	HomePath            string           `json:"home_path"`
	InterestsConfigured bool             `json:"interests_configured"`
	Live                ports.LiveStatus `json:"live"`
}

type notificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
}

type collectionResponse struct {
	Collection string          `json:"collection"`
	Items      []domain.Record `json:"items"`
}

type saveInterestsRequest struct {
	Interests []int64 `json:"interests" validate:"required,dive,gt=0"`
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}
