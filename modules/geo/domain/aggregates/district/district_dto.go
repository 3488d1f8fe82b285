package district

import (
	"strings"

	"github.com/gramseva/portal/pkg/constants"
	"github.com/gramseva/portal/pkg/serrors"
)

type CreateDTO struct {
	Name string `json:"name" form:"name" validate:"required,max=120"`
}

type UpdateDTO struct {
	Name string `json:"name" form:"name" validate:"required,max=120"`
}

func label(string) string { return "District name" }

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Name = strings.TrimSpace(d.Name)
	errs := serrors.FromValidate(constants.Validate.Struct(d), label)
	return errs, len(errs) == 0
}

func (d *CreateDTO) ToEntity() District {
	return New(d.Name)
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Name = strings.TrimSpace(d.Name)
	errs := serrors.FromValidate(constants.Validate.Struct(d), label)
	return errs, len(errs) == 0
}
