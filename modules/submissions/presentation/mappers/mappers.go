package mappers

import (
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/gramseva/portal/modules/submissions/domain/aggregates/submission"
)

// Donations are always recorded in rupees.
const currency = money.INR

type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
	Display  string `json:"display"`
}

type Submission struct {
	ID         int64   `json:"id"`
	Kind       string  `json:"kind"`
	Name       string  `json:"name"`
	Email      string  `json:"email,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	DistrictID int64   `json:"district_id,omitempty"`
	VillageID  int64   `json:"village_id,omitempty"`
	Amount     *Amount `json:"amount,omitempty"`
	Message    string  `json:"message,omitempty"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
	ReviewedAt string  `json:"reviewed_at,omitempty"`
}

type Page struct {
	Items   []Submission `json:"items"`
	Total   int64        `json:"total"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
	HasMore bool         `json:"has_more"`
}

// Receipt is returned to the public form after a successful submit.
type Receipt struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"created_at"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// AmountToAPI formats a two-place rupee amount, e.g. 1500 becomes "₹1,500.00".
func AmountToAPI(d decimal.Decimal) *Amount {
	minor := d.Round(2).Shift(2).IntPart()
	return &Amount{
		Value:    d.StringFixed(2),
		Currency: currency,
		Display:  money.New(minor, currency).Display(),
	}
}

func SubmissionToAPI(s submission.Submission) Submission {
	out := Submission{
		ID:         s.ID(),
		Kind:       string(s.Kind()),
		Name:       s.Name(),
		Email:      s.Email(),
		Phone:      s.Phone(),
		DistrictID: s.DistrictID(),
		VillageID:  s.VillageID(),
		Message:    s.Message(),
		Status:     string(s.Status()),
		CreatedAt:  formatTime(s.CreatedAt()),
	}
	if amount := s.Amount(); amount.Valid {
		out.Amount = AmountToAPI(amount.Decimal)
	}
	if at := s.ReviewedAt(); at != nil {
		out.ReviewedAt = formatTime(*at)
	}
	return out
}

func PageToAPI(items []submission.Submission, total int64, params *submission.FindParams) Page {
	out := Page{Items: make([]Submission, 0, len(items)), Total: total}
	for _, s := range items {
		out.Items = append(out.Items, SubmissionToAPI(s))
	}
	if params != nil {
		out.Limit = params.Limit
		out.Offset = params.Offset
	}
	out.HasMore = int64(out.Offset+len(items)) < total
	return out
}

func ReceiptToAPI(s submission.Submission) Receipt {
	return Receipt{ID: s.ID(), Kind: string(s.Kind()), CreatedAt: formatTime(s.CreatedAt())}
}
