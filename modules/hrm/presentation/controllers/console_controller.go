package controllers

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hr-console/modules/hrm"
	"github.com/iota-uz/hr-console/modules/hrm/domain"
	"github.com/iota-uz/hr-console/modules/hrm/presentation/mappers"
	"github.com/iota-uz/hr-console/modules/hrm/presentation/viewmodels"
	"github.com/iota-uz/hr-console/modules/hrm/services"
	"github.com/iota-uz/hr-console/pkg/composables"
	"github.com/iota-uz/hr-console/pkg/crud"
	"github.com/iota-uz/hr-console/pkg/httpapi"
)

// ListResponse is one rendered page of a list.
type ListResponse[VM any] struct {
	Items    []VM         `json:"items"`
	Page     int          `json:"page"`
	Pages    int          `json:"pages"`
	PageSize int          `json:"page_size"`
	Filtered int          `json:"filtered"`
	Total    int          `json:"total"`
	Search   string       `json:"search,omitempty"`
	Banner   *crud.Banner `json:"banner,omitempty"`
}

type DetailResponse struct {
	Fields []viewmodels.Field `json:"fields"`
	// Error is set when the full record could not be fetched and Fields
	// come from the list row.
	Error string `json:"error,omitempty"`
}

// ConsoleController serves the console pages as JSON for local tooling.
type ConsoleController struct {
	console  *hrm.Console
	auth     services.Authenticator
	log      *logrus.Logger
	basePath string

	mountMu sync.Mutex
}

func NewConsoleController(console *hrm.Console, auth services.Authenticator, log *logrus.Logger) *ConsoleController {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ConsoleController{
		console:  console,
		auth:     auth,
		log:      log,
		basePath: "/console",
	}
}

func (c *ConsoleController) Key() string {
	return c.basePath
}

func (c *ConsoleController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(RequireSession(c.auth))
	router.HandleFunc("/dashboard", c.Dashboard).Methods(http.MethodGet)
	router.HandleFunc("/employees", c.Employees).Methods(http.MethodGet)
	router.HandleFunc("/employees/{id}", c.Employee).Methods(http.MethodGet)
	router.HandleFunc("/departments", c.Departments).Methods(http.MethodGet)
	router.HandleFunc("/departments/{id}", c.Department).Methods(http.MethodGet)
	router.HandleFunc("/locations", c.Locations).Methods(http.MethodGet)
	router.HandleFunc("/locations/{id}", c.Location).Methods(http.MethodGet)
	router.HandleFunc("/jobs", c.Jobs).Methods(http.MethodGet)
	router.HandleFunc("/jobs/{id}", c.Job).Methods(http.MethodGet)
	router.HandleFunc("/job-history", c.JobHistory).Methods(http.MethodGet)
}

func (c *ConsoleController) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := c.console.Dashboard(r.Context())
	if err != nil {
		composables.LoggerOr(r.Context(), c.log).WithError(err).Warn("dashboard failed")
		_ = httpapi.WriteError(w, http.StatusBadGateway, "UPSTREAM", "Failed to load dashboard. Please refresh the page.", nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, stats)
}

func (c *ConsoleController) Employees(w http.ResponseWriter, r *http.Request) {
	serveList(c, w, r, c.console.Employees.List, mappers.EmployeeToViewModel)
}

func (c *ConsoleController) Employee(w http.ResponseWriter, r *http.Request) {
	page := c.console.Employees
	serveDetail(c, w, r, page, func(e domain.Employee) []viewmodels.Field {
		return mappers.EmployeeDetails(e, page.List.Lookup)
	})
}

func (c *ConsoleController) Departments(w http.ResponseWriter, r *http.Request) {
	serveList(c, w, r, c.console.Departments.List, mappers.DepartmentToViewModel)
}

func (c *ConsoleController) Department(w http.ResponseWriter, r *http.Request) {
	page := c.console.Departments
	serveDetail(c, w, r, page, func(d domain.Department) []viewmodels.Field {
		return mappers.DepartmentDetails(d, page.List.Lookup)
	})
}

func (c *ConsoleController) Locations(w http.ResponseWriter, r *http.Request) {
	serveList(c, w, r, c.console.Locations.List, mappers.LocationToViewModel)
}

func (c *ConsoleController) Location(w http.ResponseWriter, r *http.Request) {
	page := c.console.Locations
	serveDetail(c, w, r, page, func(l domain.Location) []viewmodels.Field {
		return mappers.LocationDetails(l, page.List.Lookup)
	})
}

func (c *ConsoleController) Jobs(w http.ResponseWriter, r *http.Request) {
	serveList(c, w, r, c.console.Jobs.List, func(j domain.Job, _ mappers.Resolver) viewmodels.Job {
		return mappers.JobToViewModel(j)
	})
}

func (c *ConsoleController) Job(w http.ResponseWriter, r *http.Request) {
	page := c.console.Jobs
	serveDetail(c, w, r, page, mappers.JobDetails)
}

func (c *ConsoleController) JobHistory(w http.ResponseWriter, r *http.Request) {
	list := c.console.JobHistory
	if employee := r.URL.Query().Get("employee"); employee != "" {
		list = c.console.JobHistoryFor(employee)
		defer list.Unmount()
	}
	serveList(c, w, r, list, mappers.JobHistoryToViewModel)
}

// ensureMounted loads list once; concurrent first requests wait for the same
// load instead of superseding each other.
func (c *ConsoleController) ensureMounted(w http.ResponseWriter, r *http.Request, list mountable, force bool) bool {
	c.mountMu.Lock()
	defer c.mountMu.Unlock()
	if list.State() == crud.ListReady && !force {
		return true
	}
	if err := list.Mount(r.Context()); err != nil {
		banner, _ := list.Banner()
		_ = httpapi.WriteError(w, http.StatusBadGateway, "UPSTREAM", banner.Message, nil)
		return false
	}
	return true
}

type mountable interface {
	State() crud.ListState
	Mount(ctx context.Context) error
	Banner() (crud.Banner, bool)
}

// serveList renders the page asked for by the query string. The shared
// list's own search and paging are left untouched.
func serveList[T crud.Entity, VM any](c *ConsoleController, w http.ResponseWriter, r *http.Request, list *crud.ListController[T], toVM func(T, mappers.Resolver) VM) {
	query := r.URL.Query()
	if !c.ensureMounted(w, r, list, query.Get("refresh") == "1") {
		return
	}
	size, _ := strconv.Atoi(query.Get("page_size"))
	page, _ := strconv.Atoi(query.Get("page"))
	view := list.Query(query.Get("search"), page, size)
	resp := ListResponse[VM]{
		Items:    make([]VM, 0, len(view.Items)),
		Page:     view.Page,
		Pages:    view.Pages,
		PageSize: view.PageSize,
		Filtered: view.Filtered,
		Total:    view.Total,
		Search:   view.Search,
	}
	for _, item := range view.Items {
		resp.Items = append(resp.Items, toVM(item, list.Lookup))
	}
	if banner, ok := list.Banner(); ok {
		resp.Banner = &banner
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, resp)
}

// serveDetail opens a view of its own per request so overlapping requests
// never see each other's record or error.
func serveDetail[T crud.Entity](c *ConsoleController, w http.ResponseWriter, r *http.Request, page *crud.Page[T], details func(T) []viewmodels.Field) {
	if !c.ensureMounted(w, r, page.List, false) {
		return
	}
	id := mux.Vars(r)["id"]
	summary, ok := page.List.Find(id)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Record "+id+" was not found", map[string]string{"field": "id"})
		return
	}
	view := crud.NewView(page.Schema, c.log)
	defer view.Close()
	if err := view.Open(r.Context(), summary); err != nil {
		composables.LoggerOr(r.Context(), c.log).WithError(err).WithFields(logrus.Fields{
			"resource": page.Schema.Resource,
			"key":      id,
		}).Warn("detail fetch failed, serving list row")
		_ = httpapi.WriteJSON(w, http.StatusOK, DetailResponse{Fields: details(summary), Error: view.Error()})
		return
	}
	record, _ := view.Record()
	_ = httpapi.WriteJSON(w, http.StatusOK, DetailResponse{Fields: details(record)})
}
