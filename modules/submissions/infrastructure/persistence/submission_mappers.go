package persistence

import (
	"database/sql"

	"github.com/gramseva/portal/modules/submissions/domain/aggregates/submission"
	"github.com/gramseva/portal/modules/submissions/infrastructure/persistence/models"
)

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}

func ToDBSubmission(s submission.Submission) models.Submission {
	m := models.Submission{
		ID:         s.ID(),
		Kind:       string(s.Kind()),
		Name:       s.Name(),
		Email:      s.Email(),
		Phone:      s.Phone(),
		DistrictID: nullID(s.DistrictID()),
		VillageID:  nullID(s.VillageID()),
		Amount:     s.Amount(),
		Message:    s.Message(),
		Status:     string(s.Status()),
		CreatedAt:  s.CreatedAt(),
	}
	if at := s.ReviewedAt(); at != nil {
		m.ReviewedAt = sql.NullTime{Time: *at, Valid: true}
	}
	return m
}

func ToDomainSubmission(m models.Submission) submission.Submission {
	opts := []submission.Option{
		submission.WithID(m.ID),
		submission.WithEmail(m.Email),
		submission.WithPhone(m.Phone),
		submission.WithLocation(m.DistrictID.Int64, m.VillageID.Int64),
		submission.WithMessage(m.Message),
		submission.WithStatus(submission.Status(m.Status)),
		submission.WithCreatedAt(m.CreatedAt),
	}
	if m.Amount.Valid {
		opts = append(opts, submission.WithAmount(m.Amount.Decimal))
	}
	if m.ReviewedAt.Valid {
		at := m.ReviewedAt.Time
		opts = append(opts, submission.WithReviewedAt(&at))
	}
	return submission.New(submission.Kind(m.Kind), m.Name, opts...)
}
