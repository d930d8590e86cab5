package hrm

import (
	"github.com/iota-uz/hr-console/pkg/types"
)

var DashboardLink = types.NavigationItem{
	Name:      "NavigationLinks.Dashboard",
	Href:      "dashboard",
	Protected: true,
}

var EmployeesLink = types.NavigationItem{
	Name:      "NavigationLinks.Employees",
	Href:      "employees list",
	Protected: true,
}

var DepartmentsLink = types.NavigationItem{
	Name:      "NavigationLinks.Departments",
	Href:      "departments list",
	Protected: true,
}

var LocationsLink = types.NavigationItem{
	Name:      "NavigationLinks.Locations",
	Href:      "locations list",
	Protected: true,
}

var JobsLink = types.NavigationItem{
	Name:      "NavigationLinks.Jobs",
	Href:      "jobs list",
	Protected: true,
}

var JobHistoryLink = types.NavigationItem{
	Name:      "NavigationLinks.JobHistory",
	Href:      "job-history list",
	Protected: true,
}

var HRMLink = types.NavigationItem{
	Name:      "NavigationLinks.HRM",
	Protected: true,
	Children: []types.NavigationItem{
		EmployeesLink,
		DepartmentsLink,
		LocationsLink,
		JobsLink,
		JobHistoryLink,
	},
}

var NavItems = []types.NavigationItem{
	{Name: "NavigationLinks.Login", Href: "login"},
	{Name: "NavigationLinks.Register", Href: "register"},
	DashboardLink,
	HRMLink,
}
