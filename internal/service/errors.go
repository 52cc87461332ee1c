package service

import (
	"database/sql"
	"errors"
	"strings"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateRating     = errors.New("this device has already rated this item")
	ErrRatingNotFound      = errors.New("rating not found")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrFacilityNotFound    = errors.New("facility preset not found")
	ErrContentNotFound     = errors.New("content not found")
	ErrSlideNotFound       = errors.New("carousel slide not found")
	ErrInvalidState        = errors.New("submission is no longer pending")
	ErrStoreFailure        = errors.New("store failure")
	ErrSubmissionThrottled = errors.New("too many submissions, try again later")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrUploadsDisabled     = errors.New("uploads are not configured")
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func normalizeString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
