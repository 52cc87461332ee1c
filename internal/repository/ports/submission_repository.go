package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/explorekarawang/directory-api/internal/domain"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) (*domain.Submission, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	ListByStatus(ctx context.Context, status domain.SubmissionStatus) ([]domain.Submission, error)
	// Approve inserts item and marks the pending submission approved atomically.
	// It returns ErrStateConflict when the submission is no longer pending.
	Approve(ctx context.Context, id uuid.UUID, item domain.ContentItem, notes *string, at time.Time) (*domain.Submission, error)
	Reject(ctx context.Context, id uuid.UUID, notes *string, at time.Time) (*domain.Submission, error)
}

type SubmissionThrottle interface {
	Allow(ctx context.Context, key string) (bool, error)
}
