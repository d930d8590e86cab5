package hrm

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hr-console/modules/hrm/domain"
	"github.com/iota-uz/hr-console/modules/hrm/schemas"
	"github.com/iota-uz/hr-console/modules/hrm/services"
	"github.com/iota-uz/hr-console/pkg/configuration"
	"github.com/iota-uz/hr-console/pkg/crud"
	"github.com/iota-uz/hr-console/pkg/eventbus"
)

type Config struct {
	PageSize        int
	BannerTTL       time.Duration
	LegacyClientIDs bool
	Logger          *logrus.Logger
}

func ConfigFrom(conf *configuration.Configuration) Config {
	return Config{
		PageSize:        conf.PageSize,
		BannerTTL:       conf.BannerTTL,
		LegacyClientIDs: conf.LegacyClientIDs,
		Logger:          conf.Logger(),
	}
}

// Console holds one page per resource plus the nested Country and Region
// forms that location forms open.
type Console struct {
	Services  *services.Services
	Validator *schemas.Validator

	Employees   *crud.Page[domain.Employee]
	Departments *crud.Page[domain.Department]
	Locations   *crud.Page[domain.Location]
	Jobs        *crud.Page[domain.Job]
	JobHistory  *crud.ListController[domain.JobHistoryEntry]

	CountryForm *crud.FormController[domain.Country]
	RegionForm  *crud.FormController[domain.Region]

	cfg    Config
	log    *logrus.Logger
	cancel func()

	mu            sync.Mutex
	countryHost   *crud.FormController[domain.Location]
	regionTargets []nestedTarget
}

type nestedTarget struct {
	apply func(list string, opt crud.Option, field string) error
	field string
}

func NewConsole(svc *services.Services, bus eventbus.EventBus, cfg Config) (*Console, error) {
	v, err := schemas.NewValidator()
	if err != nil {
		return nil, errors.Wrap(err, "validator")
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	c := &Console{
		Services:  svc,
		Validator: v,
		cfg:       cfg,
		log:       log,
	}

	c.Employees = crud.NewPage(schemas.NewEmployeeSchema(svc, v), crud.ListConfig[domain.Employee]{
		Lookups: map[string]crud.Fetcher{
			schemas.RefDepartments: schemas.DepartmentOptions(svc.Departments),
			schemas.RefJobs:        schemas.JobOptions(svc.Jobs),
			schemas.RefManagers:    schemas.ManagerOptions(svc.Employees),
		},
		SearchText: func(e domain.Employee) []string {
			return []string{e.FirstName, e.LastName, e.FullName(), e.Email}
		},
		PageSize:  cfg.PageSize,
		BannerTTL: cfg.BannerTTL,
	}, log)

	c.Departments = crud.NewPage(schemas.NewDepartmentSchema(svc, v, schemas.DepartmentConfig{
		LegacyClientIDs: cfg.LegacyClientIDs,
	}), crud.ListConfig[domain.Department]{
		Lookups: map[string]crud.Fetcher{
			schemas.RefManagers:  schemas.ManagerOptions(svc.Employees),
			schemas.RefLocations: schemas.LocationOptions(svc.Locations),
		},
		SearchText: func(d domain.Department) []string {
			return []string{d.DepartmentName, d.ManagerName, d.LocationCity}
		},
		PageSize:  cfg.PageSize,
		BannerTTL: cfg.BannerTTL,
	}, log)

	c.Locations = crud.NewPage(schemas.NewLocationSchema(svc, v), crud.ListConfig[domain.Location]{
		Lookups: map[string]crud.Fetcher{
			schemas.RefCountries: schemas.CountryOptions(svc.Countries),
		},
		SearchText: func(l domain.Location) []string {
			return []string{l.City, l.StreetAddress, l.PostalCode, l.StateProvince, l.CountryName}
		},
		PageSize:  cfg.PageSize,
		BannerTTL: cfg.BannerTTL,
	}, log)

	c.Jobs = crud.NewPage(schemas.NewJobSchema(svc, v), crud.ListConfig[domain.Job]{
		SearchText: func(j domain.Job) []string {
			return []string{j.JobTitle, j.Key()}
		},
		PageSize:  cfg.PageSize,
		BannerTTL: cfg.BannerTTL,
	}, log)

	c.JobHistory = c.JobHistoryFor("")

	c.CountryForm = crud.NewForm(schemas.NewCountrySchema(svc, v), c.onCountryCreated, c.onCountryClosed, log)
	c.RegionForm = crud.NewForm(schemas.NewRegionSchema(svc, v), c.onRegionCreated, c.onRegionClosed, log)

	if bus != nil {
		c.cancel = bus.Listen(func(e *services.ChangedEvent) {
			log.WithFields(logrus.Fields{
				"resource": e.Resource,
				"action":   e.Action,
				"key":      e.Key,
			}).Info("record changed")
		})
	}
	return c, nil
}

// JobHistoryFor is a read-only list of the history of one employee, or of
// everyone when employeeID is empty.
func (c *Console) JobHistoryFor(employeeID string) *crud.ListController[domain.JobHistoryEntry] {
	svc := c.Services
	fetch := svc.JobHistory.GetAll
	if employeeID != "" {
		fetch = func(ctx context.Context) ([]domain.JobHistoryEntry, error) {
			return svc.JobHistory.ListFor(ctx, employeeID)
		}
	}
	return crud.NewList(crud.ListConfig[domain.JobHistoryEntry]{
		Resource: "job history",
		Plural:   "job history",
		Fetch:    fetch,
		Lookups: map[string]crud.Fetcher{
			schemas.RefManagers:    schemas.ManagerOptions(svc.Employees),
			schemas.RefJobs:        schemas.JobOptions(svc.Jobs),
			schemas.RefDepartments: schemas.DepartmentOptions(svc.Departments),
		},
		SearchText: func(h domain.JobHistoryEntry) []string {
			return []string{h.JobTitle, h.DepartmentName, h.EmployeeID.String()}
		},
		PageSize:  c.cfg.PageSize,
		BannerTTL: c.cfg.BannerTTL,
		Logger:    c.log,
	})
}

// Dashboard counts the main resources concurrently.
func (c *Console) Dashboard(ctx context.Context) (services.Stats, error) {
	return c.Services.Dashboard.Stats(ctx)
}

// AddCountryFrom opens the Add Country form on behalf of an open location
// form. The created country is selected in that form.
func (c *Console) AddCountryFrom(ctx context.Context, host *crud.FormController[domain.Location]) error {
	if host.State() == crud.FormClosed {
		return crud.ErrNotOpen
	}
	c.mu.Lock()
	c.countryHost = host
	c.mu.Unlock()
	return c.CountryForm.OpenAdd(ctx)
}

// AddRegionFromLocation opens the Add Region form from an open location
// form. The region joins the form's region list without being selected.
func (c *Console) AddRegionFromLocation(ctx context.Context, host *crud.FormController[domain.Location]) error {
	if host.State() == crud.FormClosed {
		return crud.ErrNotOpen
	}
	c.mu.Lock()
	c.regionTargets = []nestedTarget{{apply: host.ApplyNested}}
	c.mu.Unlock()
	return c.RegionForm.OpenAdd(ctx)
}

// AddRegionFromCountry opens the Add Region form from the open country
// form and selects the new region there.
func (c *Console) AddRegionFromCountry(ctx context.Context) error {
	if c.CountryForm.State() == crud.FormClosed {
		return crud.ErrNotOpen
	}
	c.mu.Lock()
	targets := []nestedTarget{{apply: c.CountryForm.ApplyNested, field: "region_id"}}
	if c.countryHost != nil {
		targets = append(targets, nestedTarget{apply: c.countryHost.ApplyNested})
	}
	c.regionTargets = targets
	c.mu.Unlock()
	return c.RegionForm.OpenAdd(ctx)
}

func (c *Console) onCountryCreated(country domain.Country) {
	c.mu.Lock()
	host := c.countryHost
	c.mu.Unlock()
	if host == nil {
		return
	}
	if country.RegionName == "" {
		if opt, ok := host.References().Find(schemas.RefRegions, country.RegionID.String()); ok {
			country.RegionName = opt.Label
		}
	}
	c.applyNested(host.ApplyNested, schemas.RefCountries, schemas.CountryOption(country), "country_id")
}

func (c *Console) onCountryClosed() {
	c.mu.Lock()
	c.countryHost = nil
	c.mu.Unlock()
}

func (c *Console) onRegionCreated(region domain.Region) {
	c.mu.Lock()
	targets := c.regionTargets
	c.mu.Unlock()
	for _, t := range targets {
		c.applyNested(t.apply, schemas.RefRegions, schemas.RegionOption(region), t.field)
	}
}

func (c *Console) onRegionClosed() {
	c.mu.Lock()
	c.regionTargets = nil
	c.mu.Unlock()
}

func (c *Console) applyNested(apply func(string, crud.Option, string) error, list string, opt crud.Option, field string) {
	err := apply(list, opt, field)
	if err == nil {
		return
	}
	// The hosting form was closed while the nested one was open.
	if errors.Is(err, crud.ErrNotOpen) {
		c.log.WithField("list", list).Debug("nested record created for a closed form")
		return
	}
	c.log.WithError(err).WithField("list", list).Warn("failed to apply nested record")
}

// Close stops banner timers and event subscriptions.
func (c *Console) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	c.Employees.List.Unmount()
	c.Departments.List.Unmount()
	c.Locations.List.Unmount()
	c.Jobs.List.Unmount()
	c.JobHistory.Unmount()
}
