package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"

	"github.com/gramseva/portal/modules/submissions/domain/aggregates/submission"
	"github.com/gramseva/portal/modules/submissions/infrastructure/persistence/models"
)

const (
	submissionColumns = `id, kind, name, email, phone, district_id, village_id, amount, message, status, created_at, reviewed_at`

	selectSubmissionsQuery = `SELECT ` + submissionColumns + ` FROM submissions`
	countSubmissionsQuery  = `SELECT COUNT(*) FROM submissions`

	insertSubmissionQuery = `INSERT INTO submissions (kind, name, email, phone, district_id, village_id, amount, message, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at`

	updateSubmissionQuery = `UPDATE submissions SET status = $1, reviewed_at = $2 WHERE id = $3`
)

// SubmissionRepository stores submissions through database/sql (lib/pq) with sqlx scanning.
type SubmissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) submission.Repository {
	return &SubmissionRepository{db: db}
}

func buildFilters(params *submission.FindParams) (string, []any) {
	if params == nil {
		return "", nil
	}
	var where []string
	var args []any
	if params.Kind != "" {
		args = append(args, string(params.Kind))
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func (r *SubmissionRepository) Create(ctx context.Context, s submission.Submission) (submission.Submission, error) {
	m := ToDBSubmission(s)
	row := r.db.QueryRowxContext(ctx, insertSubmissionQuery,
		m.Kind, m.Name, m.Email, m.Phone, m.DistrictID, m.VillageID, m.Amount, m.Message, m.Status,
	)
	if err := row.Scan(&m.ID, &m.CreatedAt); err != nil {
		return submission.Submission{}, gerrors.Wrap(err, "insert submission")
	}
	return ToDomainSubmission(m), nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id int64) (submission.Submission, error) {
	var m models.Submission
	if err := r.db.GetContext(ctx, &m, selectSubmissionsQuery+` WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return submission.Submission{}, submission.ErrNotFound
		}
		return submission.Submission{}, gerrors.Wrap(err, "get submission")
	}
	return ToDomainSubmission(m), nil
}

func (r *SubmissionRepository) List(ctx context.Context, params *submission.FindParams) ([]submission.Submission, error) {
	where, args := buildFilters(params)
	query := selectSubmissionsQuery + where + ` ORDER BY created_at DESC, id DESC`
	if params != nil && params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params != nil && params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var rows []models.Submission
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, gerrors.Wrap(err, "list submissions")
	}
	out := make([]submission.Submission, 0, len(rows))
	for _, m := range rows {
		out = append(out, ToDomainSubmission(m))
	}
	return out, nil
}

func (r *SubmissionRepository) Count(ctx context.Context, params *submission.FindParams) (int64, error) {
	where, args := buildFilters(params)
	var count int64
	if err := r.db.GetContext(ctx, &count, countSubmissionsQuery+where, args...); err != nil {
		return 0, gerrors.Wrap(err, "count submissions")
	}
	return count, nil
}

func (r *SubmissionRepository) Update(ctx context.Context, s submission.Submission) (submission.Submission, error) {
	m := ToDBSubmission(s)
	res, err := r.db.ExecContext(ctx, updateSubmissionQuery, m.Status, m.ReviewedAt, m.ID)
	if err != nil {
		return submission.Submission{}, gerrors.Wrap(err, "update submission")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return submission.Submission{}, gerrors.Wrap(err, "update submission")
	}
	if n == 0 {
		return submission.Submission{}, submission.ErrNotFound
	}
	return s, nil
}
