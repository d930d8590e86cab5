package main

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/iota-uz/hr-console/modules/hrm"
	"github.com/iota-uz/hr-console/modules/hrm/domain"
	"github.com/iota-uz/hr-console/modules/hrm/presentation/mappers"
	"github.com/iota-uz/hr-console/modules/hrm/presentation/viewmodels"
	"github.com/iota-uz/hr-console/pkg/crud"
)

func newEmployeesCmd(c *cli) *cobra.Command {
	return newResourceCmd(c, resource[domain.Employee, viewmodels.Employee]{
		name:     "employees",
		singular: "employee",
		headers:  viewmodels.EmployeeHeaders,
		page:     func(con *hrm.Console) *crud.Page[domain.Employee] { return con.Employees },
		row:      mappers.EmployeeToViewModel,
		details:  mappers.EmployeeDetails,
	})
}

func newDepartmentsCmd(c *cli) *cobra.Command {
	return newResourceCmd(c, resource[domain.Department, viewmodels.Department]{
		name:     "departments",
		singular: "department",
		headers:  viewmodels.DepartmentHeaders,
		page:     func(con *hrm.Console) *crud.Page[domain.Department] { return con.Departments },
		row:      mappers.DepartmentToViewModel,
		details:  mappers.DepartmentDetails,
	})
}

func newJobsCmd(c *cli) *cobra.Command {
	return newResourceCmd(c, resource[domain.Job, viewmodels.Job]{
		name:     "jobs",
		singular: "job",
		headers:  viewmodels.JobHeaders,
		page:     func(con *hrm.Console) *crud.Page[domain.Job] { return con.Jobs },
		row: func(j domain.Job, _ mappers.Resolver) viewmodels.Job {
			return mappers.JobToViewModel(j)
		},
		details: func(j domain.Job, _ mappers.Resolver) []viewmodels.Field {
			return mappers.JobDetails(j)
		},
	})
}

var (
	countryAliases = map[string]string{"id": "country_id", "name": "country_name"}
	regionAliases  = map[string]string{"id": "region_id", "name": "region_name"}
)

func newLocationsCmd(c *cli) *cobra.Command {
	return newResourceCmd(c, resource[domain.Location, viewmodels.Location]{
		name:      "locations",
		singular:  "location",
		headers:   viewmodels.LocationHeaders,
		page:      func(con *hrm.Console) *crud.Page[domain.Location] { return con.Locations },
		row:       mappers.LocationToViewModel,
		details:   mappers.LocationDetails,
		formFlags: nestedLocationFlags,
	})
}

// nestedLocationFlags adds --new-country and --new-region. Both create the
// record through the nested forms before the location is submitted, the
// way the Add Country and Add Region buttons do inside the location modal.
func nestedLocationFlags(cmd *cobra.Command) formHook[domain.Location] {
	var newCountry, newRegion string
	cmd.Flags().StringVar(&newCountry, "new-country", "", "Create a country first: id=XX,name=...,region_id=N")
	cmd.Flags().StringVar(&newRegion, "new-region", "", "Create a region first: name=...")

	return func(ctx context.Context, a *app, form *crud.FormController[domain.Location]) error {
		if newCountry == "" && newRegion == "" {
			return nil
		}
		console := a.console
		if newCountry == "" {
			if err := console.AddRegionFromLocation(ctx, form); err != nil {
				return err
			}
			defer console.RegionForm.Close()
			return submitNested(ctx, console.RegionForm, newRegion, regionAliases, "region")
		}

		if err := console.AddCountryFrom(ctx, form); err != nil {
			return err
		}
		defer console.CountryForm.Close()
		if newRegion != "" {
			if err := console.AddRegionFromCountry(ctx); err != nil {
				return err
			}
			err := submitNested(ctx, console.RegionForm, newRegion, regionAliases, "region")
			console.RegionForm.Close()
			if err != nil {
				return err
			}
		}
		return submitNested(ctx, console.CountryForm, newCountry, countryAliases, "country")
	}
}

func submitNested[T crud.Entity](ctx context.Context, form *crud.FormController[T], raw string, aliases map[string]string, what string) error {
	values, err := parseInline(raw)
	if err != nil {
		return err
	}
	if err := applyInline(form, values, aliases); err != nil {
		return err
	}
	if err := form.Submit(ctx); err != nil {
		if errs := form.Errors(); len(errs) > 0 {
			return withCode(exitCode(err), errors.Wrapf(errs, "new %s", what))
		}
		return errors.Wrapf(err, "new %s", what)
	}
	return nil
}
