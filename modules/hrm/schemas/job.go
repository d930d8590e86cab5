package schemas

import (
	"github.com/shopspring/decimal"

	"github.com/iota-uz/hr-console/modules/hrm/domain"
	"github.com/iota-uz/hr-console/modules/hrm/services"
	"github.com/iota-uz/hr-console/pkg/crud"
)

type JobDTO struct {
	JobID     string `form:"job_id" validate:"required,max=10"`
	JobTitle  string `form:"job_title" validate:"required,max=35"`
	MinSalary string `form:"min_salary" validate:"omitempty,decimal,nonnegative"`
	MaxSalary string `form:"max_salary" validate:"omitempty,decimal,nonnegative"`
}

type JobPayload struct {
	JobID     string   `json:"job_id"`
	JobTitle  string   `json:"job_title"`
	MinSalary *float64 `json:"min_salary"`
	MaxSalary *float64 `json:"max_salary"`
}

func JobValues(j domain.Job) map[string]string {
	return map[string]string{
		"job_id":     j.JobID.String(),
		"job_title":  j.JobTitle,
		"min_salary": decimalString(j.MinSalary),
		"max_salary": decimalString(j.MaxSalary),
	}
}

func NewJobSchema(svc *services.Services, v *Validator) *crud.Schema[domain.Job] {
	fields := []string{"job_id", "job_title", "min_salary", "max_salary"}
	return &crud.Schema[domain.Job]{
		Resource:     "job",
		IDField:      "job_id",
		CreateFields: fields,
		EditFields:   fields,
		Values:       JobValues,
		Validate: func(_ crud.Mode, draft crud.Draft, _ *crud.References) crud.ValidationErrors {
			errs := v.Check("Jobs", draft, &JobDTO{})
			if errs.Has("min_salary") || errs.Has("max_salary") {
				return errs
			}
			lo, loErr := decimal.NewFromString(draft.Get("min_salary"))
			hi, hiErr := decimal.NewFromString(draft.Get("max_salary"))
			if loErr == nil && hiErr == nil && hi.LessThan(lo) {
				errs["max_salary"] = v.Localize("Jobs.Errors.SalaryRange", nil)
			}
			return errs
		},
		ToWire: func(_ crud.Mode, draft crud.Draft, _ *crud.References) (any, error) {
			dto := &JobDTO{}
			if err := v.Decode(draft, dto); err != nil {
				return nil, err
			}
			lo, err := optionalFloat(dto.MinSalary)
			if err != nil {
				return nil, crud.ValidationErrors{"min_salary": "Minimum salary is invalid"}
			}
			hi, err := optionalFloat(dto.MaxSalary)
			if err != nil {
				return nil, crud.ValidationErrors{"max_salary": "Maximum salary is invalid"}
			}
			return JobPayload{
				JobID:     dto.JobID,
				JobTitle:  dto.JobTitle,
				MinSalary: lo,
				MaxSalary: hi,
			}, nil
		},
		Service: svc.Jobs,
	}
}
