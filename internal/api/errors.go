package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sashabakes/sasha-bakes/backend/internal/middleware"
	"github.com/sashabakes/sasha-bakes/backend/internal/service"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error      string     `json:"error"`
	Message    string     `json:"message,omitempty"`
	Code       string     `json:"code,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	MutedUntil *time.Time `json:"muted_until,omitempty"`
}

type providerFailure struct {
	status  int
	code    string
	message string
}

// Upstream statuses the chat surfaces to the caller. Anything else is a 500.
var providerFailures = map[int]providerFailure{
	http.StatusUnauthorized: {
		status:  http.StatusUnauthorized,
		code:    "llm_auth_failed",
		message: "Sasha can't reach her kitchen right now. The site owner has been notified.",
	},
	http.StatusForbidden: {
		status:  http.StatusForbidden,
		code:    "llm_forbidden",
		message: "Sasha isn't allowed to answer that right now. Please try again later.",
	},
	http.StatusTooManyRequests: {
		status:  http.StatusTooManyRequests,
		code:    "llm_rate_limited",
		message: "Sasha is answering a lot of questions right now. Please wait a moment and try again.",
	},
	http.StatusPaymentRequired: {
		status:  http.StatusPaymentRequired,
		code:    "llm_credits_exhausted",
		message: "Sasha has run out of answers for today. Please try again later.",
	},
}

func respondError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, body)
}

func errorResponse(err error) (int, ErrorResponse) {
	var muted *service.MutedError
	if errors.As(err, &muted) {
		until := muted.Until
		return http.StatusForbidden, ErrorResponse{
			Error:      "muted",
			Message:    "You have been muted from chatting with Sasha.",
			Code:       "muted",
			Reason:     muted.Reason,
			MutedUntil: &until,
		}
	}

	var provider *service.ProviderError
	if errors.As(err, &provider) {
		if f, ok := providerFailures[provider.Status]; ok {
			return f.status, ErrorResponse{Error: f.code, Message: f.message, Code: f.code}
		}
		return http.StatusInternalServerError, ErrorResponse{
			Error:   err.Error(),
			Message: "Sasha couldn't answer right now. Please try again.",
			Code:    "llm_error",
		}
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "not found", Code: "not_found"}
	case errors.Is(err, service.ErrBakeBookLimit):
		return http.StatusForbidden, ErrorResponse{
			Error:   err.Error(),
			Message: "Free accounts can save up to 10 recipes. Upgrade to save more.",
			Code:    "bakebook_limit_reached",
		}
	case errors.Is(err, service.ErrWishlistLocked):
		return http.StatusForbidden, ErrorResponse{
			Error:   err.Error(),
			Message: "Wishlists are part of the paid plan.",
			Code:    "wishlist_locked",
		}
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Error: "forbidden", Code: "forbidden"}
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrTokenRevoked):
		return http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Code: "unauthorized"}
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidResetToken):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_input"}
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "email_taken"}
	case errors.Is(err, service.ErrStorageDisabled):
		return http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Code: "storage_disabled"}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "internal_error"}
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_input"})
}

// pathID parses the named uuid path parameter, answering 400 when it is malformed.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name, Code: "invalid_input"})
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated user id, answering 401 without one.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Code: "unauthorized"})
	}
	return id, ok
}
