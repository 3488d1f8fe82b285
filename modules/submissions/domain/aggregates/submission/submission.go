package submission

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindDonation   Kind = "donation"
	KindMembership Kind = "membership"
	KindAssistance Kind = "assistance"
	KindContact    Kind = "contact"
)

var Kinds = []Kind{KindDonation, KindMembership, KindAssistance, KindContact}

func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

type Status string

const (
	StatusNew      Status = "new"
	StatusReviewed Status = "reviewed"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusNew:
		return StatusNew, true
	case StatusReviewed:
		return StatusReviewed, true
	}
	return "", false
}

var (
	ErrNotFound        = errors.New("submission not found")
	ErrAlreadyReviewed = errors.New("submission already reviewed")
)

type Option func(s *Submission)

func WithID(id int64) Option {
	return func(s *Submission) { s.id = id }
}

func WithEmail(email string) Option {
	return func(s *Submission) { s.email = strings.TrimSpace(email) }
}

func WithPhone(phone string) Option {
	return func(s *Submission) { s.phone = strings.TrimSpace(phone) }
}

// WithLocation sets the district and, optionally, the village. Zero means unset.
func WithLocation(districtID, villageID int64) Option {
	return func(s *Submission) {
		s.districtID = districtID
		s.villageID = villageID
	}
}

func WithAmount(amount decimal.Decimal) Option {
	return func(s *Submission) { s.amount = decimal.NullDecimal{Decimal: amount, Valid: true} }
}

func WithMessage(msg string) Option {
	return func(s *Submission) { s.message = strings.TrimSpace(msg) }
}

func WithStatus(status Status) Option {
	return func(s *Submission) { s.status = status }
}

func WithCreatedAt(t time.Time) Option {
	return func(s *Submission) { s.createdAt = t }
}

func WithReviewedAt(t *time.Time) Option {
	return func(s *Submission) { s.reviewedAt = t }
}

type Submission struct {
	id         int64
	kind       Kind
	name       string
	email      string
	phone      string
	districtID int64
	villageID  int64
	amount     decimal.NullDecimal
	message    string
	status     Status
	createdAt  time.Time
	reviewedAt *time.Time
}

func New(kind Kind, name string, opts ...Option) Submission {
	s := Submission{
		kind:      kind,
		name:      strings.TrimSpace(name),
		status:    StatusNew,
		createdAt: time.Now(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s Submission) ID() int64                   { return s.id }
func (s Submission) Kind() Kind                  { return s.kind }
func (s Submission) Name() string                { return s.name }
func (s Submission) Email() string               { return s.email }
func (s Submission) Phone() string               { return s.phone }
func (s Submission) DistrictID() int64           { return s.districtID }
func (s Submission) VillageID() int64            { return s.villageID }
func (s Submission) Amount() decimal.NullDecimal { return s.amount }
func (s Submission) Message() string             { return s.message }
func (s Submission) Status() Status              { return s.status }
func (s Submission) CreatedAt() time.Time        { return s.createdAt }
func (s Submission) ReviewedAt() *time.Time      { return s.reviewedAt }

// MarkReviewed returns a reviewed copy.
func (s Submission) MarkReviewed(at time.Time) (Submission, error) {
	if s.status == StatusReviewed {
		return s, ErrAlreadyReviewed
	}
	s.status = StatusReviewed
	s.reviewedAt = &at
	return s, nil
}
