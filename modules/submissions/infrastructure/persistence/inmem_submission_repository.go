package persistence

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/gramseva/portal/modules/submissions/domain/aggregates/submission"
)

type InmemSubmissionRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]submission.Submission
}

func NewInmemSubmissionRepository() *InmemSubmissionRepository {
	return &InmemSubmissionRepository{items: make(map[int64]submission.Submission)}
}

func matches(s submission.Submission, params *submission.FindParams) bool {
	if params == nil {
		return true
	}
	if params.Kind != "" && s.Kind() != params.Kind {
		return false
	}
	if params.Status != "" && s.Status() != params.Status {
		return false
	}
	return true
}

func (r *InmemSubmissionRepository) Create(_ context.Context, s submission.Submission) (submission.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m := ToDBSubmission(s)
	m.ID = r.nextID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	created := ToDomainSubmission(m)
	r.items[created.ID()] = created
	return created, nil
}

func (r *InmemSubmissionRepository) GetByID(_ context.Context, id int64) (submission.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return submission.Submission{}, submission.ErrNotFound
	}
	return s, nil
}

func (r *InmemSubmissionRepository) filtered(params *submission.FindParams) []submission.Submission {
	out := make([]submission.Submission, 0, len(r.items))
	for _, s := range r.items {
		if matches(s, params) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b submission.Submission) int {
		if c := b.CreatedAt().Compare(a.CreatedAt()); c != 0 {
			return c
		}
		switch {
		case a.ID() > b.ID():
			return -1
		case a.ID() < b.ID():
			return 1
		}
		return 0
	})
	return out
}

func (r *InmemSubmissionRepository) List(_ context.Context, params *submission.FindParams) ([]submission.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.filtered(params)
	if params == nil {
		return out, nil
	}
	if params.Offset > 0 {
		if params.Offset >= len(out) {
			return []submission.Submission{}, nil
		}
		out = out[params.Offset:]
	}
	if params.Limit > 0 && params.Limit < len(out) {
		out = out[:params.Limit]
	}
	return out, nil
}

func (r *InmemSubmissionRepository) Count(_ context.Context, params *submission.FindParams) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.filtered(params))), nil
}

func (r *InmemSubmissionRepository) Update(_ context.Context, s submission.Submission) (submission.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[s.ID()]; !ok {
		return submission.Submission{}, submission.ErrNotFound
	}
	r.items[s.ID()] = s
	return s, nil
}
