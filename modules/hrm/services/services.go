package services

import (
	"github.com/iota-uz/hr-console/pkg/apiclient"
	"github.com/iota-uz/hr-console/pkg/eventbus"
)

// Services is every remote service the console talks to.
type Services struct {
	Employees   *EmployeeService
	Departments *DepartmentService
	Locations   *LocationService
	Jobs        *JobService
	Countries   *CountryService
	Regions     *RegionService
	JobHistory  *JobHistoryService
	Dashboard   *DashboardService
	Auth        *apiclient.Auth
}

func New(client *apiclient.Client, session apiclient.SessionWriter, publisher eventbus.EventBus, guard Guard) *Services {
	s := &Services{
		Employees:   NewEmployeeService(client, publisher, guard),
		Departments: NewDepartmentService(client, publisher, guard),
		Locations:   NewLocationService(client, publisher, guard),
		Jobs:        NewJobService(client, publisher, guard),
		Countries:   NewCountryService(client, publisher, guard),
		Regions:     NewRegionService(client, publisher, guard),
		JobHistory:  NewJobHistoryService(client),
		Auth:        apiclient.NewAuth(client, session),
	}
	s.Dashboard = NewDashboardService(s.Employees, s.Departments, s.Locations, s.Jobs)
	return s
}
