package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/explorekarawang/directory-api/internal/service"
	"github.com/explorekarawang/directory-api/internal/util"
)

const genericErrorMessage = "internal server error"

// statusFor maps service sentinels onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrRatingNotFound),
		errors.Is(err, service.ErrSubmissionNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrFacilityNotFound),
		errors.Is(err, service.ErrContentNotFound),
		errors.Is(err, service.ErrSlideNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateRating), errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, service.ErrSubmissionThrottled):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrUploadsDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes the error envelope. Server-side failures are logged with
// the underlying cause and answered with a generic message.
func respondError(c echo.Context, logger *zap.Logger, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.JSON(status, util.Error(genericErrorMessage))
	}
	return c.JSON(status, util.Error(err.Error()))
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, util.Error(message))
}

// bindAndValidate decodes the request body into dst and runs its validate tags.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return errors.New("invalid request body")
	}
	return c.Validate(dst)
}
