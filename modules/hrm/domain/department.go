package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Department struct {
	DepartmentID   ID     `json:"department_id"`
	DepartmentName string `json:"department_name"`
	ManagerID      ID     `json:"manager_id"`
	ManagerName    string `json:"manager_name,omitempty"`
	LocationID     ID     `json:"location_id"`
	LocationCity   string `json:"location_city,omitempty"`
	EmployeeCount  int    `json:"employee_count,omitempty"`

	MinSalary decimal.NullDecimal `json:"min_salary"`
	MaxSalary decimal.NullDecimal `json:"max_salary"`
}

func (d *Department) UnmarshalJSON(b []byte) error {
	type plain Department
	var wire struct {
		plain
		LegacyID   ID     `json:"id"`
		LegacyName string `json:"name"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*d = Department(wire.plain)
	d.DepartmentID = canonical(d.DepartmentID, wire.LegacyID)
	d.DepartmentName = firstNonEmpty(d.DepartmentName, wire.LegacyName)
	return nil
}

func (d Department) Key() string {
	return d.DepartmentID.String()
}
