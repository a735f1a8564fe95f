// Package httperror maps application errors onto HTTP responses. It is the
// only place status codes are chosen for failures.
package httperror

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/application/dto"
	apperrors "github.com/bravo68web/odinpkg/pkg/errors"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// UnavailableMessage replaces the message of every upstream failure
const UnavailableMessage = "Service temporarily unavailable"

// Build returns the status and body for err
func Build(err error) (int, dto.ErrorResponse) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		switch {
		case apperrors.IsUnauthorized(err):
			return http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized", Message: "authentication required"}
		case apperrors.IsConflict(err):
			return http.StatusConflict, dto.ErrorResponse{Error: "conflict", Message: err.Error()}
		case apperrors.IsUpstream(err):
			return http.StatusServiceUnavailable, dto.ErrorResponse{Error: "service_unavailable", Message: UnavailableMessage}
		}
		return http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error", Message: "An unexpected error occurred"}
	}

	status := appErr.HTTPStatus()
	body := dto.ErrorResponse{Error: errorName(status), Message: appErr.Message}
	switch status {
	case http.StatusBadRequest:
		body.Errors = appErr.Messages()
	case http.StatusServiceUnavailable:
		body.Message = UnavailableMessage
	case http.StatusInternalServerError:
		body.Message = "An unexpected error occurred"
	}
	return status, body
}

// Respond writes err as a JSON response
func Respond(c *gin.Context, err error) {
	status, body := write(c, err)
	c.JSON(status, body)
}

// Abort writes err as a JSON response and stops the handler chain
func Abort(c *gin.Context, err error) {
	status, body := write(c, err)
	c.AbortWithStatusJSON(status, body)
}

func write(c *gin.Context, err error) (int, dto.ErrorResponse) {
	status, body := Build(err)
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).Error("request failed",
			logger.Method(c.Request.Method),
			logger.Path(c.Request.URL.Path),
			logger.StatusCode(status),
			logger.Error(err),
		)
	}
	return status, body
}

func errorName(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusTooManyRequests:
		return "too_many_requests"
	case http.StatusServiceUnavailable:
		return "service_unavailable"
	}
	return "internal_error"
}
