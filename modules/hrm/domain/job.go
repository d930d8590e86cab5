package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Job struct {
	JobID     ID                  `json:"job_id"`
	JobTitle  string              `json:"job_title"`
	MinSalary decimal.NullDecimal `json:"min_salary"`
	MaxSalary decimal.NullDecimal `json:"max_salary"`
}

func (j *Job) UnmarshalJSON(b []byte) error {
	type plain Job
	var wire struct {
		plain
		LegacyID    ID     `json:"id"`
		LegacyTitle string `json:"title"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*j = Job(wire.plain)
	j.JobID = canonical(j.JobID, wire.LegacyID)
	j.JobTitle = firstNonEmpty(j.JobTitle, wire.LegacyTitle)
	return nil
}

func (j Job) Key() string {
	return j.JobID.String()
}

// JobHistoryEntry is keyed by employee and start date; the API has no
// surrogate identifier for it.
type JobHistoryEntry struct {
	EmployeeID     ID     `json:"employee_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	JobID          ID     `json:"job_id"`
	JobTitle       string `json:"job_title,omitempty"`
	DepartmentID   ID     `json:"department_id"`
	DepartmentName string `json:"department_name,omitempty"`
}

func (h JobHistoryEntry) Key() string {
	return h.EmployeeID.String() + "/" + h.StartDate
}
