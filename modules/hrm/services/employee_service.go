package services

import (
	"github.com/iota-uz/hr-console/modules/hrm/domain"
	"github.com/iota-uz/hr-console/pkg/apiclient"
	"github.com/iota-uz/hr-console/pkg/eventbus"
)

type (
	EmployeeService   = EntityService[domain.Employee]
	DepartmentService = EntityService[domain.Department]
	LocationService   = EntityService[domain.Location]
	JobService        = EntityService[domain.Job]
	CountryService    = EntityService[domain.Country]
	RegionService     = EntityService[domain.Region]
)

func NewEmployeeService(client *apiclient.Client, publisher eventbus.EventBus, guard Guard) *EmployeeService {
	return NewEntityService(apiclient.NewResource[domain.Employee](client, "employees", "employee", "employees"), publisher, guard)
}

func NewDepartmentService(client *apiclient.Client, publisher eventbus.EventBus, guard Guard) *DepartmentService {
	return NewEntityService(apiclient.NewResource[domain.Department](client, "departments", "department", "departments"), publisher, guard)
}

func NewLocationService(client *apiclient.Client, publisher eventbus.EventBus, guard Guard) *LocationService {
	return NewEntityService(apiclient.NewResource[domain.Location](client, "locations", "location", "locations"), publisher, guard)
}

func NewJobService(client *apiclient.Client, publisher eventbus.EventBus, guard Guard) *JobService {
	return NewEntityService(apiclient.NewResource[domain.Job](client, "jobs", "job", "jobs"), publisher, guard)
}

func NewCountryService(client *apiclient.Client, publisher eventbus.EventBus, guard Guard) *CountryService {
	return NewEntityService(apiclient.NewResource[domain.Country](client, "countries", "country", "countries"), publisher, guard)
}

func NewRegionService(client *apiclient.Client, publisher eventbus.EventBus, guard Guard) *RegionService {
	return NewEntityService(apiclient.NewResource[domain.Region](client, "regions", "region", "regions"), publisher, guard)
}
