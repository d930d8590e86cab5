package mappers

import (
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/hr-console/modules/hrm/domain"
	"github.com/iota-uz/hr-console/modules/hrm/presentation/viewmodels"
	"github.com/iota-uz/hr-console/modules/hrm/schemas"
	"github.com/iota-uz/hr-console/pkg/crud"
)

// Resolver turns a foreign key into a label using a named lookup list.
// ListController.Lookup satisfies it.
type Resolver func(list, value string) string

func noLookup(_, value string) string {
	if value == "" {
		return crud.NotAssigned
	}
	return value
}

func orResolve(name string, resolve Resolver, list string, id domain.ID) string {
	if name != "" {
		return name
	}
	if resolve == nil {
		resolve = noLookup
	}
	return resolve(list, id.String())
}

// FormatSalary renders amounts in USD, the currency the HR API reports in.
func FormatSalary(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return money.NewFromFloat(d.Decimal.InexactFloat64(), money.USD).Display()
}

func FormatPercent(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.Mul(decimal.NewFromInt(100)).String() + "%"
}

func EmployeeToViewModel(e domain.Employee, resolve Resolver) viewmodels.Employee {
	return viewmodels.Employee{
		ID:         e.Key(),
		FullName:   e.FullName(),
		Email:      e.Email,
		Phone:      e.PhoneNumber,
		Department: orResolve(e.DepartmentName, resolve, schemas.RefDepartments, e.DepartmentID),
		JobTitle:   orResolve(e.JobTitle, resolve, schemas.RefJobs, e.JobID),
		Manager:    orResolve(e.ManagerName, resolve, schemas.RefManagers, e.ManagerID),
		HireDate:   crud.NormalizeDate(e.HireDate),
		Salary:     FormatSalary(e.Salary),
		Commission: FormatPercent(e.CommissionPct),
	}
}

func DepartmentToViewModel(d domain.Department, resolve Resolver) viewmodels.Department {
	return viewmodels.Department{
		ID:        d.Key(),
		Name:      d.DepartmentName,
		Manager:   orResolve(d.ManagerName, resolve, schemas.RefManagers, d.ManagerID),
		Location:  orResolve(d.LocationCity, resolve, schemas.RefLocations, d.LocationID),
		Employees: strconv.Itoa(d.EmployeeCount),
	}
}

func LocationToViewModel(l domain.Location, resolve Resolver) viewmodels.Location {
	return viewmodels.Location{
		ID:            l.Key(),
		StreetAddress: l.StreetAddress,
		PostalCode:    l.PostalCode,
		City:          l.City,
		StateProvince: l.StateProvince,
		Country:       orResolve(l.CountryName, resolve, schemas.RefCountries, l.CountryID),
	}
}

func JobToViewModel(j domain.Job) viewmodels.Job {
	return viewmodels.Job{
		ID:        j.Key(),
		Title:     j.JobTitle,
		MinSalary: FormatSalary(j.MinSalary),
		MaxSalary: FormatSalary(j.MaxSalary),
	}
}

func JobHistoryToViewModel(h domain.JobHistoryEntry, resolve Resolver) viewmodels.JobHistory {
	end := crud.NormalizeDate(h.EndDate)
	if end == "" {
		end = "Current"
	}
	return viewmodels.JobHistory{
		Employee:   orResolve("", resolve, schemas.RefManagers, h.EmployeeID),
		StartDate:  crud.NormalizeDate(h.StartDate),
		EndDate:    end,
		JobTitle:   orResolve(h.JobTitle, resolve, schemas.RefJobs, h.JobID),
		Department: orResolve(h.DepartmentName, resolve, schemas.RefDepartments, h.DepartmentID),
	}
}

// EmployeeDetails is the View modal body.
func EmployeeDetails(e domain.Employee, resolve Resolver) []viewmodels.Field {
	vm := EmployeeToViewModel(e, resolve)
	return []viewmodels.Field{
		{Label: "Employee ID", Value: vm.ID},
		{Label: "Name", Value: vm.FullName},
		{Label: "Email", Value: vm.Email},
		{Label: "Phone number", Value: vm.Phone},
		{Label: "Department", Value: vm.Department},
		{Label: "Job title", Value: vm.JobTitle},
		{Label: "Manager", Value: vm.Manager},
		{Label: "Start date", Value: vm.HireDate},
		{Label: "Base salary", Value: vm.Salary},
		{Label: "Commission", Value: vm.Commission},
	}
}

func DepartmentDetails(d domain.Department, resolve Resolver) []viewmodels.Field {
	vm := DepartmentToViewModel(d, resolve)
	return []viewmodels.Field{
		{Label: "Department ID", Value: vm.ID},
		{Label: "Department", Value: vm.Name},
		{Label: "Manager", Value: vm.Manager},
		{Label: "Location", Value: vm.Location},
		{Label: "Employees", Value: vm.Employees},
	}
}

func LocationDetails(l domain.Location, resolve Resolver) []viewmodels.Field {
	vm := LocationToViewModel(l, resolve)
	return []viewmodels.Field{
		{Label: "Location ID", Value: vm.ID},
		{Label: "Street address", Value: vm.StreetAddress},
		{Label: "Postal code", Value: vm.PostalCode},
		{Label: "City", Value: vm.City},
		{Label: "State/Province", Value: vm.StateProvince},
		{Label: "Country", Value: vm.Country},
	}
}

func JobDetails(j domain.Job) []viewmodels.Field {
	vm := JobToViewModel(j)
	return []viewmodels.Field{
		{Label: "Job ID", Value: vm.ID},
		{Label: "Job title", Value: vm.Title},
		{Label: "Minimum salary", Value: vm.MinSalary},
		{Label: "Maximum salary", Value: vm.MaxSalary},
	}
}
