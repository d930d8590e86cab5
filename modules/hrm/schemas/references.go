package schemas

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iota-uz/hr-console/modules/hrm/domain"
	"github.com/iota-uz/hr-console/pkg/crud"
)

// Reference list names shared by forms and list lookups.
const (
	RefDepartments = "departments"
	RefJobs        = "jobs"
	RefManagers    = "managers"
	RefLocations   = "locations"
	RefCountries   = "countries"
	RefRegions     = "regions"
)

// Salary band attributes carried by department and job options.
const (
	AttrMinSalary = "min_salary"
	AttrMaxSalary = "max_salary"
)

func fetchOptions[T any](list func(context.Context) ([]T, error), toOption func(T) crud.Option) crud.Fetcher {
	return func(ctx context.Context) ([]crud.Option, error) {
		items, err := list(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]crud.Option, 0, len(items))
		for _, item := range items {
			opts = append(opts, toOption(item))
		}
		return opts, nil
	}
}

func ManagerOption(e domain.Employee) crud.Option {
	return crud.Option{Value: e.Key(), Label: e.FullName()}
}

func DepartmentOption(d domain.Department) crud.Option {
	return crud.Option{Value: d.Key(), Label: d.DepartmentName, Attrs: bandAttrs(d.MinSalary, d.MaxSalary)}
}

func bandAttrs(lo, hi decimal.NullDecimal) map[string]string {
	attrs := map[string]string{}
	if lo.Valid {
		attrs[AttrMinSalary] = lo.Decimal.String()
	}
	if hi.Valid {
		attrs[AttrMaxSalary] = hi.Decimal.String()
	}
	return attrs
}

func LocationOption(l domain.Location) crud.Option {
	label := l.City
	if l.StateProvince != "" {
		label += ", " + l.StateProvince
	}
	if l.StreetAddress != "" {
		label += " (" + l.StreetAddress + ")"
	}
	return crud.Option{Value: l.Key(), Label: strings.TrimSpace(label), Group: l.CountryName}
}

func JobOption(j domain.Job) crud.Option {
	return crud.Option{Value: j.Key(), Label: j.JobTitle, Attrs: bandAttrs(j.MinSalary, j.MaxSalary)}
}

// CountryOption groups countries by region name.
func CountryOption(c domain.Country) crud.Option {
	return crud.Option{
		Value: c.Key(),
		Label: c.CountryName,
		Group: c.RegionName,
		Attrs: map[string]string{"region_id": c.RegionID.String()},
	}
}

func RegionOption(r domain.Region) crud.Option {
	return crud.Option{Value: r.Key(), Label: r.RegionName}
}

type lister[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
}

func ManagerOptions(svc lister[domain.Employee]) crud.Fetcher {
	return fetchOptions(svc.GetAll, ManagerOption)
}

func DepartmentOptions(svc lister[domain.Department]) crud.Fetcher {
	return fetchOptions(svc.GetAll, DepartmentOption)
}

func LocationOptions(svc lister[domain.Location]) crud.Fetcher {
	return fetchOptions(svc.GetAll, LocationOption)
}

func JobOptions(svc lister[domain.Job]) crud.Fetcher {
	return fetchOptions(svc.GetAll, JobOption)
}

func CountryOptions(svc lister[domain.Country]) crud.Fetcher {
	return fetchOptions(svc.GetAll, CountryOption)
}

func RegionOptions(svc lister[domain.Region]) crud.Fetcher {
	return fetchOptions(svc.GetAll, RegionOption)
}
