package submission

import (
	"github.com/shopspring/decimal"

	"github.com/gramseva/portal/pkg/constants"
	"github.com/gramseva/portal/pkg/serrors"
)

// DTO is a decoded public form.
type DTO interface {
	Kind() Kind
	Ok() (serrors.ValidationErrors, bool)
	// Location returns the district and village ids to verify; zero means not given.
	Location() (districtID, villageID int64)
	ToEntity() Submission
}

var fieldLabels = map[string]string{
	"Name":       "Name",
	"Email":      "Email",
	"Phone":      "Phone",
	"Amount":     "Amount",
	"DistrictID": "District",
	"VillageID":  "Village",
	"Message":    "Message",
}

func label(field string) string { return fieldLabels[field] }

func validate(dto any) (serrors.ValidationErrors, bool) {
	errs := serrors.FromValidate(constants.Validate.Struct(dto), label)
	return errs, len(errs) == 0
}

// NewDTO returns an empty DTO for kind.
func NewDTO(kind Kind) (DTO, bool) {
	switch kind {
	case KindDonation:
		return &DonationDTO{}, true
	case KindMembership:
		return &MembershipDTO{}, true
	case KindAssistance:
		return &AssistanceDTO{}, true
	case KindContact:
		return &ContactDTO{}, true
	}
	return nil, false
}

type DonationDTO struct {
	Name    string          `json:"name" form:"name" validate:"required,max=120"`
	Email   string          `json:"email" form:"email" validate:"required_without=Phone,omitempty,email,max=254"`
	Phone   string          `json:"phone" form:"phone" validate:"omitempty,min=7,max=20"`
	Amount  decimal.Decimal `json:"amount" form:"amount"`
	Message string          `json:"message" form:"message" validate:"max=2000"`
}

func (d *DonationDTO) Kind() Kind { return KindDonation }

func (d *DonationDTO) Ok() (serrors.ValidationErrors, bool) {
	errs, _ := validate(d)
	if !d.Amount.IsPositive() {
		if errs == nil {
			errs = serrors.ValidationErrors{}
		}
		errs["Amount"] = "Amount must be greater than 0"
	}
	return errs, len(errs) == 0
}

func (d *DonationDTO) Location() (int64, int64) { return 0, 0 }

func (d *DonationDTO) ToEntity() Submission {
	return New(KindDonation, d.Name,
		WithEmail(d.Email),
		WithPhone(d.Phone),
		WithAmount(d.Amount.Round(2)),
		WithMessage(d.Message),
	)
}

type MembershipDTO struct {
	Name       string `json:"name" form:"name" validate:"required,max=120"`
	Email      string `json:"email" form:"email" validate:"omitempty,email,max=254"`
	Phone      string `json:"phone" form:"phone" validate:"required,min=7,max=20"`
	DistrictID int64  `json:"district_id" form:"district_id" validate:"required,gt=0"`
	VillageID  int64  `json:"village_id" form:"village_id" validate:"omitempty,gt=0"`
	Message    string `json:"message" form:"message" validate:"max=2000"`
}

func (d *MembershipDTO) Kind() Kind { return KindMembership }

func (d *MembershipDTO) Ok() (serrors.ValidationErrors, bool) { return validate(d) }

func (d *MembershipDTO) Location() (int64, int64) { return d.DistrictID, d.VillageID }

func (d *MembershipDTO) ToEntity() Submission {
	return New(KindMembership, d.Name,
		WithEmail(d.Email),
		WithPhone(d.Phone),
		WithLocation(d.DistrictID, d.VillageID),
		WithMessage(d.Message),
	)
}

type AssistanceDTO struct {
	Name       string `json:"name" form:"name" validate:"required,max=120"`
	Email      string `json:"email" form:"email" validate:"omitempty,email,max=254"`
	Phone      string `json:"phone" form:"phone" validate:"required,min=7,max=20"`
	DistrictID int64  `json:"district_id" form:"district_id" validate:"required,gt=0"`
	VillageID  int64  `json:"village_id" form:"village_id" validate:"required,gt=0"`
	Message    string `json:"message" form:"message" validate:"required,max=2000"`
}

func (d *AssistanceDTO) Kind() Kind { return KindAssistance }

func (d *AssistanceDTO) Ok() (serrors.ValidationErrors, bool) { return validate(d) }

func (d *AssistanceDTO) Location() (int64, int64) { return d.DistrictID, d.VillageID }

func (d *AssistanceDTO) ToEntity() Submission {
	return New(KindAssistance, d.Name,
		WithEmail(d.Email),
		WithPhone(d.Phone),
		WithLocation(d.DistrictID, d.VillageID),
		WithMessage(d.Message),
	)
}

type ContactDTO struct {
	Name    string `json:"name" form:"name" validate:"required,max=120"`
	Email   string `json:"email" form:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" form:"phone" validate:"omitempty,min=7,max=20"`
	Message string `json:"message" form:"message" validate:"required,max=2000"`
}

func (d *ContactDTO) Kind() Kind { return KindContact }

func (d *ContactDTO) Ok() (serrors.ValidationErrors, bool) { return validate(d) }

func (d *ContactDTO) Location() (int64, int64) { return 0, 0 }

func (d *ContactDTO) ToEntity() Submission {
	return New(KindContact, d.Name,
		WithEmail(d.Email),
		WithPhone(d.Phone),
		WithMessage(d.Message),
	)
}
