package schemas

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/iota-uz/hr-console/modules/hrm/domain"
	"github.com/iota-uz/hr-console/modules/hrm/services"
	"github.com/iota-uz/hr-console/pkg/crud"
)

type EmployeeDTO struct {
	FirstName     string `form:"first_name" validate:"required"`
	LastName      string `form:"last_name" validate:"required"`
	Email         string `form:"email" validate:"required,email"`
	PhoneNumber   string `form:"phone_number" validate:"omitempty,max=20"`
	DepartmentID  string `form:"department_id" validate:"required,numeric"`
	JobID         string `form:"job_id" validate:"required"`
	ManagerID     string `form:"manager_id" validate:"omitempty,numeric"`
	HireDate      string `form:"hire_date" validate:"required,datetime=2006-01-02"`
	Salary        string `form:"salary" validate:"required,decimal,positive"`
	CommissionPct string `form:"commission_pct" validate:"omitempty,decimal,fraction"`
}

type EmployeePayload struct {
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Email         string   `json:"email"`
	PhoneNumber   string   `json:"phone_number,omitempty"`
	DepartmentID  int      `json:"department_id"`
	JobID         string   `json:"job_id"`
	ManagerID     *int     `json:"manager_id"`
	HireDate      string   `json:"hire_date"`
	Salary        float64  `json:"salary"`
	CommissionPct *float64 `json:"commission_pct"`
}

func (dto *EmployeeDTO) ToPayload() (EmployeePayload, error) {
	departmentID, err := strconv.Atoi(dto.DepartmentID)
	if err != nil {
		return EmployeePayload{}, crud.ValidationErrors{"department_id": "Department is invalid"}
	}
	managerID, err := optionalInt(dto.ManagerID)
	if err != nil {
		return EmployeePayload{}, crud.ValidationErrors{"manager_id": "Manager is invalid"}
	}
	salary, err := decimal.NewFromString(dto.Salary)
	if err != nil {
		return EmployeePayload{}, crud.ValidationErrors{"salary": "Salary must be a positive number"}
	}
	commission, err := optionalFloat(dto.CommissionPct)
	if err != nil {
		return EmployeePayload{}, crud.ValidationErrors{"commission_pct": "Commission is invalid"}
	}
	return EmployeePayload{
		FirstName:     dto.FirstName,
		LastName:      dto.LastName,
		Email:         dto.Email,
		PhoneNumber:   dto.PhoneNumber,
		DepartmentID:  departmentID,
		JobID:         dto.JobID,
		ManagerID:     managerID,
		HireDate:      dto.HireDate,
		Salary:        salary.InexactFloat64(),
		CommissionPct: commission,
	}, nil
}

var employeeFields = []string{
	"first_name", "last_name", "email", "phone_number",
	"department_id", "job_id", "manager_id", "hire_date", "salary", "commission_pct",
}

func EmployeeValues(e domain.Employee) map[string]string {
	return map[string]string{
		"employee_id":    e.EmployeeID.String(),
		"first_name":     e.FirstName,
		"last_name":      e.LastName,
		"email":          e.Email,
		"phone_number":   e.PhoneNumber,
		"department_id":  e.DepartmentID.String(),
		"job_id":         e.JobID.String(),
		"manager_id":     e.ManagerID.String(),
		"hire_date":      e.HireDate,
		"salary":         decimalString(e.Salary),
		"commission_pct": decimalString(e.CommissionPct),
	}
}

func NewEmployeeSchema(svc *services.Services, v *Validator) *crud.Schema[domain.Employee] {
	return &crud.Schema[domain.Employee]{
		Resource:     "employee",
		IDField:      "employee_id",
		CreateFields: employeeFields,
		EditFields:   append([]string{"employee_id"}, employeeFields...),
		DateFields:   []string{"hire_date"},
		Values:       EmployeeValues,
		Validate: func(_ crud.Mode, draft crud.Draft, refs *crud.References) crud.ValidationErrors {
			errs := v.Check("Employees", draft, &EmployeeDTO{})
			if errs.Has("salary") {
				return errs
			}
			salary, err := decimal.NewFromString(draft.Get("salary"))
			if err != nil {
				return errs
			}
			for _, src := range []struct{ list, field string }{
				{RefDepartments, "department_id"},
				{RefJobs, "job_id"},
			} {
				if msg := v.salaryBand(salary, refs, src.list, draft.Get(src.field)); msg != "" {
					errs["salary"] = msg
					break
				}
			}
			return errs
		},
		ToWire: func(_ crud.Mode, draft crud.Draft, _ *crud.References) (any, error) {
			dto := &EmployeeDTO{}
			if err := v.Decode(draft, dto); err != nil {
				return nil, err
			}
			return dto.ToPayload()
		},
		References: map[string]crud.Fetcher{
			RefDepartments: DepartmentOptions(svc.Departments),
			RefJobs:        JobOptions(svc.Jobs),
			RefManagers:    ManagerOptions(svc.Employees),
		},
		CodeFields: map[string]string{"DUPLICATE_EMAIL": "email"},
		FieldHints: []crud.FieldHint{{Contains: "Email", Field: "email"}},
		Service:    svc.Employees,
	}
}

// salaryBand checks salary against the band carried by the selected option
// of list. Options without a band pass.
func (v *Validator) salaryBand(salary decimal.Decimal, refs *crud.References, list, value string) string {
	if value == "" {
		return ""
	}
	opt, ok := refs.Find(list, value)
	if !ok {
		return ""
	}
	minRaw, maxRaw := opt.Attr(AttrMinSalary), opt.Attr(AttrMaxSalary)
	if minRaw == "" && maxRaw == "" {
		return ""
	}
	lo := decimal.Zero
	if minRaw != "" {
		d, err := decimal.NewFromString(minRaw)
		if err != nil {
			return ""
		}
		lo = d
	}
	within := salary.GreaterThanOrEqual(lo)
	hi := decimal.Zero
	if maxRaw != "" {
		d, err := decimal.NewFromString(maxRaw)
		if err != nil {
			return ""
		}
		hi = d
		within = within && salary.LessThanOrEqual(hi)
	}
	if within {
		return ""
	}
	maxLabel := "any amount"
	if maxRaw != "" {
		maxLabel = v.FormatAmount(hi)
	}
	return v.Localize("Employees.Errors.SalaryBand", map[string]string{
		"Min":    v.FormatAmount(lo),
		"Max":    maxLabel,
		"Source": opt.Label,
	})
}

func decimalString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func optionalInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func optionalFloat(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	f := d.InexactFloat64()
	return &f, nil
}
