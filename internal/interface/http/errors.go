package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/watchparty-api/internal/application"
	"github.com/oksasatya/watchparty-api/pkg/response"
	"github.com/oksasatya/watchparty-api/pkg/validation"
)

const internalMessage = "internal server error"

// statusFor maps application error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrInvalidArgument), errors.Is(err, application.ErrDuplicateKey):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {message}. Only *application.Error messages reach the
// client; internal failures are logged and answered with a generic 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		msg := http.StatusText(status)
		var appErr *application.Error
		if errors.As(err, &appErr) {
			msg = appErr.Message()
		}
		response.Error(c, status, msg)
		return
	}
	if logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error(c, http.StatusInternalServerError, internalMessage)
}

// respondBindError answers 400 with the per-field reasons from validation.
func respondBindError(c *gin.Context, logger *logrus.Logger, err error, message string) {
	details := validation.ToDetails(err)
	if logger != nil {
		logger.WithField("request_id", c.GetString("request_id")).
			WithField("details", details).
			Debug("invalid payload")
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, message, details)
}
