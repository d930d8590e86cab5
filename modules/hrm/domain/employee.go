package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

type Employee struct {
	EmployeeID     ID                  `json:"employee_id"`
	FirstName      string              `json:"first_name"`
	LastName       string              `json:"last_name"`
	Email          string              `json:"email"`
	PhoneNumber    string              `json:"phone_number,omitempty"`
	HireDate       string              `json:"hire_date,omitempty"`
	Salary         decimal.NullDecimal `json:"salary"`
	CommissionPct  decimal.NullDecimal `json:"commission_pct"`
	DepartmentID   ID                  `json:"department_id"`
	DepartmentName string              `json:"department_name,omitempty"`
	JobID          ID                  `json:"job_id"`
	JobTitle       string              `json:"job_title,omitempty"`
	ManagerID      ID                  `json:"manager_id"`
	ManagerName    string              `json:"manager_name,omitempty"`
}

func (e *Employee) UnmarshalJSON(b []byte) error {
	type plain Employee
	var wire struct {
		plain
		LegacyID ID     `json:"id"`
		Phone    string `json:"phone"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*e = Employee(wire.plain)
	e.EmployeeID = canonical(e.EmployeeID, wire.LegacyID)
	e.PhoneNumber = firstNonEmpty(e.PhoneNumber, wire.Phone)
	return nil
}

func (e Employee) Key() string {
	return e.EmployeeID.String()
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
