package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"orion.app/api/internal/http/middleware"
	"orion.app/api/internal/service"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: message, Code: code})
}

// failWith maps service errors to a status and code. Unknown errors are
// logged and reported as a generic 500.
func failWith(c *gin.Context, err error, action string) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		status, code = http.StatusNotFound, "project_not_found"
	case errors.Is(err, service.ErrAnalysisNotFound):
		status, code = http.StatusNotFound, "analysis_not_found"
	case errors.Is(err, service.ErrDecisionNotFound):
		status, code = http.StatusNotFound, "decision_not_found"
	case errors.Is(err, service.ErrCodeIndexNotFound):
		status, code = http.StatusNotFound, "code_index_not_found"
	case errors.Is(err, service.ErrTooManyDeepFiles):
		status, code = http.StatusBadRequest, "too_many_deep_files"
	case errors.Is(err, service.ErrNoDeepFiles):
		status, code = http.StatusBadRequest, "no_deep_files"
	case errors.Is(err, service.ErrInvalidDecisionStatus):
		status, code = http.StatusBadRequest, "invalid_decision_status"
	case errors.Is(err, service.ErrAsyncUnavailable):
		status, code = http.StatusServiceUnavailable, "async_unavailable"
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "action", action, "error", err)
		fail(c, status, code, "failed to "+action)
		return
	}
	fail(c, status, code, err.Error())
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "invalid_id", "invalid "+name)
		return 0, false
	}
	return id, true
}

func currentUser(c *gin.Context) (int64, bool) {
	userID, found := middleware.UserID(c.Request.Context())
	if !found {
		fail(c, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return 0, false
	}
	return userID, true
}
