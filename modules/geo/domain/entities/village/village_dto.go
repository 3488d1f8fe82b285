package village

import (
	"strings"

	"github.com/gramseva/portal/pkg/constants"
	"github.com/gramseva/portal/pkg/serrors"
)

type CreateDTO struct {
	Name string `json:"name" form:"name" validate:"required,max=120"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := serrors.FromValidate(constants.Validate.Struct(d), func(string) string { return "Village name" })
	return errs, len(errs) == 0
}

func (d *CreateDTO) ToEntity(districtID int64) Village {
	return New(districtID, d.Name)
}
