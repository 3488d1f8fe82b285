package services

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gramseva/portal/modules/geo/domain/aggregates/district"
	"github.com/gramseva/portal/modules/geo/domain/entities/village"
	"github.com/gramseva/portal/modules/submissions/domain/aggregates/submission"
	"github.com/gramseva/portal/pkg/composables"
	"github.com/gramseva/portal/pkg/eventbus"
	"github.com/gramseva/portal/pkg/serrors"
)

var authorizeAdmin = func(ctx context.Context) error {
	return composables.RequireAdminSession(ctx)
}

// LocationChecker lists the villages of a district and fails with
// district.ErrNotFound in the chain when the district does not exist.
type LocationChecker interface {
	ListVillages(ctx context.Context, districtID int64) ([]village.Village, error)
}

type SubmissionService struct {
	repo      submission.Repository
	locations LocationChecker
	publisher eventbus.EventBus
}

func NewSubmissionService(repo submission.Repository, locations LocationChecker, publisher eventbus.EventBus) *SubmissionService {
	return &SubmissionService{repo: repo, locations: locations, publisher: publisher}
}

func invalidLocation(field, noun string) error {
	return serrors.Invalid(
		"SUBMISSIONS_INVALID_LOCATION",
		"Selected district or village does not exist",
		map[string]string{field: "Select a valid " + noun},
	)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, submission.ErrNotFound):
		return serrors.NotFound("SUBMISSIONS_NOT_FOUND", "Submission not found", err)
	case errors.Is(err, submission.ErrAlreadyReviewed):
		return serrors.Conflict("SUBMISSIONS_ALREADY_REVIEWED", "Submission is already reviewed", err)
	}
	return err
}

func (s *SubmissionService) checkLocation(ctx context.Context, districtID, villageID int64) error {
	if districtID == 0 {
		return nil
	}
	villages, err := s.locations.ListVillages(ctx, districtID)
	if errors.Is(err, district.ErrNotFound) {
		return invalidLocation("DistrictID", "district")
	}
	if err != nil {
		return err
	}
	if villageID == 0 {
		return nil
	}
	for _, v := range villages {
		if v.ID() == villageID {
			return nil
		}
	}
	return invalidLocation("VillageID", "village")
}

// Submit validates and stores a public form.
func (s *SubmissionService) Submit(ctx context.Context, dto submission.DTO) (submission.Submission, error) {
	kind := string(dto.Kind())
	if errs, ok := dto.Ok(); !ok {
		submissionsRejected.WithLabelValues(kind, "validation").Inc()
		return submission.Submission{}, serrors.Invalid("SUBMISSIONS_INVALID_FORM", "Please correct the highlighted fields", errs)
	}
	districtID, villageID := dto.Location()
	if err := s.checkLocation(ctx, districtID, villageID); err != nil {
		submissionsRejected.WithLabelValues(kind, "location").Inc()
		return submission.Submission{}, err
	}

	created, err := s.repo.Create(ctx, dto.ToEntity())
	if err != nil {
		return submission.Submission{}, err
	}
	submissionsReceived.WithLabelValues(kind).Inc()
	s.publisher.Publish(submission.NewReceivedEvent(created))
	return created, nil
}

func (s *SubmissionService) List(ctx context.Context, params *submission.FindParams) ([]submission.Submission, int64, error) {
	if err := authorizeAdmin(ctx); err != nil {
		return nil, 0, err
	}
	items, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SubmissionService) GetByID(ctx context.Context, id int64) (submission.Submission, error) {
	if err := authorizeAdmin(ctx); err != nil {
		return submission.Submission{}, err
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return submission.Submission{}, mapError(err)
	}
	return item, nil
}

func (s *SubmissionService) MarkReviewed(ctx context.Context, id int64) (submission.Submission, error) {
	if err := authorizeAdmin(ctx); err != nil {
		return submission.Submission{}, err
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return submission.Submission{}, mapError(err)
	}
	reviewed, err := item.MarkReviewed(time.Now())
	if err != nil {
		return submission.Submission{}, mapError(err)
	}
	updated, err := s.repo.Update(ctx, reviewed)
	if err != nil {
		return submission.Submission{}, mapError(err)
	}
	s.publisher.Publish(submission.NewReviewedEvent(updated))
	return updated, nil
}

// ParseFindParams reads kind, status, page and per_page query values.
func ParseFindParams(q map[string][]string, pageSize, maxPageSize int) (*submission.FindParams, error) {
	get := func(key string) string {
		if v := q[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	params := &submission.FindParams{Limit: pageSize}
	if raw := get("kind"); raw != "" {
		kind, ok := submission.ParseKind(raw)
		if !ok {
			return nil, serrors.NewServiceError(http.StatusBadRequest, "SUBMISSIONS_INVALID_QUERY", "kind is invalid", nil)
		}
		params.Kind = kind
	}
	if raw := get("status"); raw != "" {
		status, ok := submission.ParseStatus(raw)
		if !ok {
			return nil, serrors.NewServiceError(http.StatusBadRequest, "SUBMISSIONS_INVALID_QUERY", "status is invalid", nil)
		}
		params.Status = status
	}
	if raw := get("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, serrors.NewServiceError(http.StatusBadRequest, "SUBMISSIONS_INVALID_QUERY", "per_page is invalid", nil)
		}
		params.Limit = min(n, maxPageSize)
	}
	if raw := get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, serrors.NewServiceError(http.StatusBadRequest, "SUBMISSIONS_INVALID_QUERY", "page is invalid", nil)
		}
		params.Offset = (n - 1) * params.Limit
	}
	return params, nil
}
