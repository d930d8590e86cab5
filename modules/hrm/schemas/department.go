package schemas

import (
	"strconv"

	"github.com/iota-uz/hr-console/modules/hrm/domain"
	"github.com/iota-uz/hr-console/modules/hrm/services"
	"github.com/iota-uz/hr-console/pkg/crud"
)

type DepartmentCreateDTO struct {
	DepartmentTitle string `form:"department_title" validate:"required"`
	ManagerID       string `form:"manager_id" validate:"required,numeric"`
	LocationID      string `form:"location_id" validate:"required,numeric"`
}

type DepartmentUpdateDTO struct {
	DepartmentName string `form:"department_name" validate:"required"`
	ManagerID      string `form:"manager_id" validate:"required,numeric"`
	LocationID     string `form:"location_id" validate:"required,numeric"`
}

type DepartmentPayload struct {
	DepartmentID   int    `json:"department_id,omitempty"`
	DepartmentName string `json:"department_name"`
	ManagerID      int    `json:"manager_id"`
	LocationID     int    `json:"location_id"`
}

// DepartmentConfig configures the department form.
type DepartmentConfig struct {
	// LegacyClientIDs makes the client pick the identifier of a new
	// department as the largest known identifier plus ten.
	LegacyClientIDs bool
}

// NextDepartmentID returns max(existing)+10, or 10 for an empty list.
// Non-numeric identifiers are ignored.
func NextDepartmentID(existing []crud.Option) int {
	highest := 0
	for _, opt := range existing {
		if n, err := strconv.Atoi(opt.Value); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 10
}

func DepartmentValues(d domain.Department) map[string]string {
	return map[string]string{
		"department_id":   d.DepartmentID.String(),
		"department_name": d.DepartmentName,
		"manager_id":      d.ManagerID.String(),
		"location_id":     d.LocationID.String(),
	}
}

func NewDepartmentSchema(svc *services.Services, v *Validator, cfg DepartmentConfig) *crud.Schema[domain.Department] {
	return &crud.Schema[domain.Department]{
		Resource:     "department",
		IDField:      "department_id",
		CreateFields: []string{"department_title", "manager_id", "location_id"},
		EditFields:   []string{"department_id", "department_name", "manager_id", "location_id"},
		Values:       DepartmentValues,
		Validate: func(mode crud.Mode, draft crud.Draft, _ *crud.References) crud.ValidationErrors {
			if mode == crud.ModeEdit {
				return v.Check("Departments", draft, &DepartmentUpdateDTO{})
			}
			return v.Check("Departments", draft, &DepartmentCreateDTO{})
		},
		ToWire: func(mode crud.Mode, draft crud.Draft, refs *crud.References) (any, error) {
			var payload DepartmentPayload
			var name, managerRaw, locationRaw string
			if mode == crud.ModeEdit {
				dto := &DepartmentUpdateDTO{}
				if err := v.Decode(draft, dto); err != nil {
					return nil, err
				}
				name, managerRaw, locationRaw = dto.DepartmentName, dto.ManagerID, dto.LocationID
			} else {
				dto := &DepartmentCreateDTO{}
				if err := v.Decode(draft, dto); err != nil {
					return nil, err
				}
				name, managerRaw, locationRaw = dto.DepartmentTitle, dto.ManagerID, dto.LocationID
				if cfg.LegacyClientIDs {
					payload.DepartmentID = NextDepartmentID(refs.Options(RefDepartments))
				}
			}
			managerID, err := strconv.Atoi(managerRaw)
			if err != nil {
				return nil, crud.ValidationErrors{"manager_id": "Manager is invalid"}
			}
			locationID, err := strconv.Atoi(locationRaw)
			if err != nil {
				return nil, crud.ValidationErrors{"location_id": "Location is invalid"}
			}
			payload.DepartmentName = name
			payload.ManagerID = managerID
			payload.LocationID = locationID
			return payload, nil
		},
		References: map[string]crud.Fetcher{
			RefManagers:    ManagerOptions(svc.Employees),
			RefDepartments: DepartmentOptions(svc.Departments),
			RefLocations:   LocationOptions(svc.Locations),
		},
		Service: svc.Departments,
	}
}
