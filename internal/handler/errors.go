package handler

import (
	"errors"
	"net/http"

	"filmsocial/backend/internal/account"
	"filmsocial/backend/internal/apperr"
	"filmsocial/backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

func statusOf(err error) int {
	if errors.Is(err, account.ErrInvalidCredentials) {
		return http.StatusUnauthorized
	}
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAlreadyExists, apperr.KindIllegalState:
		return http.StatusConflict
	case apperr.KindAccessDenied:
		return http.StatusForbidden
	case apperr.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error. Internal failures are logged and
// their details are not exposed.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusOf(err)
	_ = c.Error(err)
	if status == http.StatusInternalServerError {
		h.Log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("trace_id", middleware.GetTraceID(c)),
			zap.Error(err),
		)
	}
	c.JSON(status, ErrorResponse{Error: apperr.Message(err)})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}
