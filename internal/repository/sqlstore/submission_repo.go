package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
)

type SubmissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepo(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

const submissionColumns = `id, submitter_name, submitter_email, submitter_phone, item_type, payload, status,
	admin_notes, promoted_item_id, approved_at, created_at, updated_at`

type submissionRow struct {
	ID             uuid.UUID  `db:"id"`
	SubmitterName  string     `db:"submitter_name"`
	SubmitterEmail *string    `db:"submitter_email"`
	SubmitterPhone *string    `db:"submitter_phone"`
	ItemType       string     `db:"item_type"`
	Payload        string     `db:"payload"`
	Status         string     `db:"status"`
	AdminNotes     *string    `db:"admin_notes"`
	PromotedItemID *uuid.UUID `db:"promoted_item_id"`
	ApprovedAt     *time.Time `db:"approved_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func (row submissionRow) toDomain() (*domain.Submission, error) {
	itemType, err := domain.ParseItemType(row.ItemType)
	if err != nil {
		return nil, fmt.Errorf("submission %s: %w", row.ID, err)
	}
	payload, err := domain.DecodeSubmissionPayload(itemType, []byte(row.Payload))
	if err != nil {
		return nil, fmt.Errorf("submission %s: %w", row.ID, err)
	}
	return &domain.Submission{
		ID: row.ID,
		Submitter: domain.Submitter{
			Name:  row.SubmitterName,
			Email: row.SubmitterEmail,
			Phone: row.SubmitterPhone,
		},
		ItemType:       itemType,
		Payload:        payload,
		Status:         domain.SubmissionStatus(row.Status),
		AdminNotes:     row.AdminNotes,
		PromotedItemID: row.PromotedItemID,
		ApprovedAt:     row.ApprovedAt,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}

func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) (*domain.Submission, error) {
	if s.Payload == nil {
		return nil, errors.New("submission payload is required")
	}
	payload, err := json.Marshal(s.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode submission payload: %w", err)
	}
	query := r.db.Rebind(`INSERT INTO owner_submissions (` + submissionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		nullString(s.Email),
		nullString(s.Phone),
		string(s.Payload.ItemType()),
		string(payload),
		string(s.Status),
		nullString(s.AdminNotes),
		nullableUUID(s.PromotedItemID),
		s.ApprovedAt,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	stored := *s
	stored.ItemType = s.Payload.ItemType()
	return &stored, nil
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	return findSubmission(ctx, r.db, id)
}

func findSubmission(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*domain.Submission, error) {
	query := ext.Rebind(`SELECT ` + submissionColumns + ` FROM owner_submissions WHERE id = ?`)
	var row submissionRow
	if err := sqlx.GetContext(ctx, ext, &row, query, id); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *SubmissionRepository) ListByStatus(ctx context.Context, status domain.SubmissionStatus) ([]domain.Submission, error) {
	query := r.db.Rebind(`SELECT ` + submissionColumns + ` FROM owner_submissions
		WHERE status = ?
		ORDER BY created_at DESC, id DESC`)
	var rows []submissionRow
	if err := r.db.SelectContext(ctx, &rows, query, string(status)); err != nil {
		return nil, err
	}
	out := make([]domain.Submission, 0, len(rows))
	for _, row := range rows {
		s, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *SubmissionRepository) Approve(ctx context.Context, id uuid.UUID, item domain.ContentItem, notes *string, at time.Time) (*domain.Submission, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var promotedID uuid.UUID
	switch content := item.(type) {
	case *domain.Destination:
		err = insertDestination(ctx, tx, content)
		promotedID = content.ID
	case *domain.Culinary:
		err = insertCulinary(ctx, tx, content)
		promotedID = content.ID
	default:
		return nil, fmt.Errorf("unsupported content item %T", item)
	}
	if err != nil {
		return nil, err
	}

	query := tx.Rebind(`
		UPDATE owner_submissions
		SET status = ?, admin_notes = ?, promoted_item_id = ?, approved_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`)
	res, err := tx.ExecContext(ctx, query,
		string(domain.SubmissionStatusApproved), nullString(notes), promotedID, at, at,
		id, string(domain.SubmissionStatusPending),
	)
	if err != nil {
		return nil, err
	}
	if err := guardTransition(ctx, tx, res, id); err != nil {
		return nil, err
	}

	updated, err := findSubmission(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *SubmissionRepository) Reject(ctx context.Context, id uuid.UUID, notes *string, at time.Time) (*domain.Submission, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	query := tx.Rebind(`
		UPDATE owner_submissions
		SET status = ?, admin_notes = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`)
	res, err := tx.ExecContext(ctx, query,
		string(domain.SubmissionStatusRejected), nullString(notes), at,
		id, string(domain.SubmissionStatusPending),
	)
	if err != nil {
		return nil, err
	}
	if err := guardTransition(ctx, tx, res, id); err != nil {
		return nil, err
	}

	updated, err := findSubmission(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

// guardTransition distinguishes a missing submission (sql.ErrNoRows) from one
// that already left pending (ports.ErrStateConflict) when the guarded update
// touched nothing.
func guardTransition(ctx context.Context, tx *sqlx.Tx, res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var count int
	if err := tx.GetContext(ctx, &count, tx.Rebind(`SELECT COUNT(*) FROM owner_submissions WHERE id = ?`), id); err != nil {
		return err
	}
	if count == 0 {
		return sql.ErrNoRows
	}
	return ports.ErrStateConflict
}

var _ ports.SubmissionRepository = (*SubmissionRepository)(nil)
