package schemas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hr-console/modules/hrm/domain"
	"github.com/iota-uz/hr-console/modules/hrm/services"
	"github.com/iota-uz/hr-console/pkg/apiclient"
	"github.com/iota-uz/hr-console/pkg/crud"
	"github.com/iota-uz/hr-console/pkg/httpapi"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type recorded struct {
	Method string
	Path   string
	Body   map[string]any
}

type fakeAPI struct {
	router *mux.Router
	api    *mux.Router

	mu       sync.Mutex
	requests []recorded
}

func newFakeAPI() *fakeAPI {
	f := &fakeAPI{router: mux.NewRouter()}
	f.api = f.router.PathPrefix("/api").Subrouter()
	f.api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := recorded{Method: r.Method, Path: r.URL.Path}
			if r.Body != nil && r.ContentLength != 0 {
				_ = json.NewDecoder(r.Body).Decode(&rec.Body)
			}
			f.mu.Lock()
			f.requests = append(f.requests, rec)
			f.mu.Unlock()
			ctx := context.WithValue(r.Context(), bodyKey{}, rec.Body)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	return f
}

type bodyKey struct{}

func requestBody(r *http.Request) map[string]any {
	body, _ := r.Context().Value(bodyKey{}).(map[string]any)
	return body
}

func (f *fakeAPI) list(path, key string, items []map[string]any) {
	f.api.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteEnvelope(w, http.StatusOK, key, items)
	}).Methods(http.MethodGet)
}

func (f *fakeAPI) writes() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recorded
	for _, r := range f.requests {
		if r.Method != http.MethodGet {
			out = append(out, r)
		}
	}
	return out
}

func newServices(t *testing.T, f *fakeAPI) *services.Services {
	t.Helper()
	srv := httptest.NewServer(f.router)
	t.Cleanup(srv.Close)
	client, err := apiclient.New(srv.URL+"/api", apiclient.WithLogger(quietLogger()))
	require.NoError(t, err)
	return services.New(client, nil, nil, nil)
}

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator()
	require.NoError(t, err)
	return v
}

func TestEmployeeSchema_RejectsLocallyWithoutNetwork(t *testing.T) {
	f := newFakeAPI()
	svc := newServices(t, f)
	form := crud.NewForm(NewEmployeeSchema(svc, newValidator(t)), func(domain.Employee) {}, func() {}, quietLogger())
	ctx := context.Background()
	require.NoError(t, form.OpenAdd(ctx))

	for field, value := range map[string]string{
		"first_name": "", "last_name": "Doe", "email": "bad",
		"department_id": "", "job_id": "", "hire_date": "", "salary": "-5",
	} {
		require.NoError(t, form.Set(field, value))
	}
	err := form.Submit(ctx)

	require.ErrorIs(t, err, crud.ErrValidation)
	require.Equal(t, crud.ValidationErrors{
		"first_name":    "First name is required",
		"email":         "Email is invalid",
		"department_id": "Department is required",
		"job_id":        "Job title is required",
		"hire_date":     "Start date is required",
		"salary":        "Salary must be a positive number",
	}, form.Errors())
	require.Empty(t, f.writes())
	require.Equal(t, crud.FormOpen, form.State())
}

func TestEmployeeSchema_SalaryBand(t *testing.T) {
	f := newFakeAPI()
	f.list("/jobs", "jobs", []map[string]any{
		{"job_id": "IT_PROG", "job_title": "Programmer", "min_salary": 4000, "max_salary": 10000},
		{"job_id": "AD_VP", "job_title": "Vice President"},
	})
	f.list("/departments", "departments", []map[string]any{{"department_id": 60, "department_name": "IT"}})
	f.list("/employees", "employees", []map[string]any{{"employee_id": 103, "first_name": "Alexander", "last_name": "Hunold"}})
	svc := newServices(t, f)
	form := crud.NewForm(NewEmployeeSchema(svc, newValidator(t)), func(domain.Employee) {}, func() {}, quietLogger())
	ctx := context.Background()
	require.NoError(t, form.OpenAdd(ctx))

	draft := map[string]string{
		"first_name": "Diana", "last_name": "Lorentz", "email": "dlorentz@example.com",
		"department_id": "60", "job_id": "IT_PROG", "hire_date": "2007-02-07", "salary": "42000",
	}
	for field, value := range draft {
		require.NoError(t, form.Set(field, value))
	}
	require.Error(t, form.Submit(ctx))
	require.Equal(t, "Salary must be between 4,000 and 10,000 for Programmer", form.Errors()["salary"])
	require.Empty(t, f.writes())

	// Jobs without a band accept any positive salary.
	require.NoError(t, form.Set("job_id", "AD_VP"))
	f.api.HandleFunc("/employees", func(w http.ResponseWriter, r *http.Request) {
		body := requestBody(r)
		body["employee_id"] = 207
		_ = httpapi.WriteEnvelope(w, http.StatusCreated, "employee", body)
	}).Methods(http.MethodPost)
	require.NoError(t, form.Submit(ctx))

	writes := f.writes()
	require.Len(t, writes, 1)
	require.Equal(t, float64(60), writes[0].Body["department_id"])
	require.Equal(t, float64(42000), writes[0].Body["salary"])
	require.Nil(t, writes[0].Body["manager_id"])
	require.Equal(t, "2007-02-07", writes[0].Body["hire_date"])
}

func TestEmployeeSchema_DepartmentSalaryBand(t *testing.T) {
	f := newFakeAPI()
	f.list("/jobs", "jobs", []map[string]any{{"job_id": "AD_VP", "job_title": "Vice President"}})
	f.list("/departments", "departments", []map[string]any{
		{"department_id": 60, "department_name": "IT", "min_salary": 5000, "max_salary": 8000},
		{"department_id": 90, "department_name": "Executive"},
	})
	f.list("/employees", "employees", []map[string]any{})
	svc := newServices(t, f)
	form := crud.NewForm(NewEmployeeSchema(svc, newValidator(t)), func(domain.Employee) {}, func() {}, quietLogger())
	ctx := context.Background()
	require.NoError(t, form.OpenAdd(ctx))

	opt, ok := form.References().Find(RefDepartments, "60")
	require.True(t, ok)
	require.Equal(t, "5000", opt.Attr(AttrMinSalary))
	require.Equal(t, "8000", opt.Attr(AttrMaxSalary))

	draft := map[string]string{
		"first_name": "Diana", "last_name": "Lorentz", "email": "dlorentz@example.com",
		"department_id": "60", "job_id": "AD_VP", "hire_date": "2007-02-07", "salary": "42000",
	}
	for field, value := range draft {
		require.NoError(t, form.Set(field, value))
	}
	require.Error(t, form.Submit(ctx))
	require.Equal(t, "Salary must be between 5,000 and 8,000 for IT", form.Errors()["salary"])
	require.Empty(t, f.writes())

	require.NoError(t, form.Set("salary", "6000"))
	f.api.HandleFunc("/employees", func(w http.ResponseWriter, r *http.Request) {
		body := requestBody(r)
		body["employee_id"] = 207
		_ = httpapi.WriteEnvelope(w, http.StatusCreated, "employee", body)
	}).Methods(http.MethodPost)
	require.NoError(t, form.Submit(ctx))
	require.Len(t, f.writes(), 1)
}

func TestEmployeeSchema_DuplicateEmailCode(t *testing.T) {
	f := newFakeAPI()
	f.api.HandleFunc("/employees", func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusConflict, "DUPLICATE_EMAIL", "Email already exists", nil)
	}).Methods(http.MethodPost)
	svc := newServices(t, f)
	form := crud.NewForm(NewEmployeeSchema(svc, newValidator(t)), func(domain.Employee) {}, func() {}, quietLogger())
	ctx := context.Background()
	require.NoError(t, form.OpenAdd(ctx))
	for field, value := range map[string]string{
		"first_name": "Diana", "last_name": "Lorentz", "email": "dlorentz@example.com",
		"department_id": "60", "job_id": "IT_PROG", "hire_date": "2007-02-07", "salary": "4200",
	} {
		require.NoError(t, form.Set(field, value))
	}

	require.Error(t, form.Submit(ctx))
	require.Equal(t, crud.ValidationErrors{"email": "Email already exists"}, form.Errors())
	require.Equal(t, "Diana", form.Draft()["first_name"])
}

func TestDepartmentSchema_LegacyClientIDs(t *testing.T) {
	f := newFakeAPI()
	f.list("/departments", "departments", []map[string]any{
		{"department_id": 110, "department_name": "Accounting"},
		{"department_id": 20, "department_name": "Marketing"},
	})
	f.list("/employees", "employees", []map[string]any{{"employee_id": 101, "first_name": "Neena", "last_name": "Kochhar"}})
	f.list("/locations", "locations", []map[string]any{{"location_id": 7, "city": "Seattle"}})
	f.api.HandleFunc("/departments", func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteEnvelope(w, http.StatusCreated, "department", requestBody(r))
	}).Methods(http.MethodPost)
	svc := newServices(t, f)
	schema := NewDepartmentSchema(svc, newValidator(t), DepartmentConfig{LegacyClientIDs: true})
	page := crud.NewPage(schema, crud.ListConfig[domain.Department]{}, quietLogger())
	ctx := context.Background()
	require.NoError(t, page.List.Mount(ctx))
	require.Equal(t, 2, page.List.Len())

	require.NoError(t, page.Add.OpenAdd(ctx))
	require.NoError(t, page.Add.Set("department_title", "R&D"))
	require.NoError(t, page.Add.Set("manager_id", "101"))
	require.NoError(t, page.Add.Set("location_id", "7"))
	require.NoError(t, page.Add.Submit(ctx))

	writes := f.writes()
	require.Len(t, writes, 1)
	require.Equal(t, map[string]any{
		"department_id":   float64(120),
		"department_name": "R&D",
		"manager_id":      float64(101),
		"location_id":     float64(7),
	}, writes[0].Body)
	require.Equal(t, 3, page.List.Len())
	first := page.List.Items()[0]
	require.Equal(t, "120", first.Key())
	require.Equal(t, "R&D", first.DepartmentName)
}

func TestDepartmentSchema_ServerAssignsIDsByDefault(t *testing.T) {
	f := newFakeAPI()
	f.api.HandleFunc("/departments", func(w http.ResponseWriter, r *http.Request) {
		body := requestBody(r)
		body["department_id"] = 280
		_ = httpapi.WriteEnvelope(w, http.StatusCreated, "department", body)
	}).Methods(http.MethodPost)
	svc := newServices(t, f)
	var created domain.Department
	form := crud.NewForm(NewDepartmentSchema(svc, newValidator(t), DepartmentConfig{}), func(d domain.Department) { created = d }, func() {}, quietLogger())
	ctx := context.Background()
	require.NoError(t, form.OpenAdd(ctx))
	require.NoError(t, form.Set("department_title", "R&D"))
	require.NoError(t, form.Set("manager_id", "101"))
	require.NoError(t, form.Set("location_id", "7"))
	require.NoError(t, form.Submit(ctx))

	require.NotContains(t, f.writes()[0].Body, "department_id")
	require.Equal(t, "280", created.Key())
}

func TestNextDepartmentID(t *testing.T) {
	require.Equal(t, 10, NextDepartmentID(nil))
	require.Equal(t, 120, NextDepartmentID([]crud.Option{{Value: "20"}, {Value: "110"}, {Value: "x"}}))
}

func TestLocationSchema_EditSendsFullDraft(t *testing.T) {
	f := newFakeAPI()
	f.list("/locations", "locations", []map[string]any{
		{"location_id": 1400, "street_address": "2014 Jabberwocky Rd", "postal_code": "26192", "city": "Austin", "state_province": "Texas", "country_id": "US"},
		{"location_id": 1500, "street_address": "2011 Interiors Blvd", "postal_code": "99236", "city": "South San Francisco", "state_province": "California", "country_id": "US"},
	})
	f.list("/countries", "countries", []map[string]any{{"country_id": "US", "country_name": "United States of America", "region_id": 2, "region_name": "Americas"}})
	f.list("/regions", "regions", []map[string]any{{"region_id": 2, "region_name": "Americas"}})
	f.api.HandleFunc("/locations/{id}", func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteEnvelope(w, http.StatusOK, "location", requestBody(r))
	}).Methods(http.MethodPut)
	svc := newServices(t, f)
	page := crud.NewPage(NewLocationSchema(svc, newValidator(t)), crud.ListConfig[domain.Location]{}, quietLogger())
	ctx := context.Background()
	require.NoError(t, page.List.Mount(ctx))

	row, ok := page.List.Find("1400")
	require.True(t, ok)
	require.NoError(t, page.Edit.OpenEdit(ctx, row))
	require.NoError(t, page.Edit.Set("city", "Dallas"))
	require.NoError(t, page.Edit.Submit(ctx))

	writes := f.writes()
	require.Len(t, writes, 1)
	require.Equal(t, "/api/locations/1400", writes[0].Path)
	require.Equal(t, map[string]any{
		"location_id":    float64(1400),
		"street_address": "2014 Jabberwocky Rd",
		"postal_code":    "26192",
		"city":           "Dallas",
		"state_province": "Texas",
		"country_id":     "US",
	}, writes[0].Body)

	updated, ok := page.List.Find("1400")
	require.True(t, ok)
	require.Equal(t, "Dallas", updated.City)
	other, _ := page.List.Find("1500")
	require.Equal(t, "South San Francisco", other.City)
}

func TestLocationSchema_RequiredFields(t *testing.T) {
	svc := newServices(t, newFakeAPI())
	form := crud.NewForm(NewLocationSchema(svc, newValidator(t)), func(domain.Location) {}, func() {}, quietLogger())
	ctx := context.Background()
	require.NoError(t, form.OpenAdd(ctx))

	require.Error(t, form.Submit(ctx))
	require.Equal(t, crud.ValidationErrors{
		"city":       "City is required",
		"country_id": "Country is required",
	}, form.Errors())
}

func TestCountrySchema_Messages(t *testing.T) {
	v := newValidator(t)
	cases := []struct {
		name string
		id   string
		want string
	}{
		{"missing", "", "Country ID is required (2 letter code)"},
		{"too long", "USA", "Country ID must be a 2 letter code"},
		{"digits", "U1", "Country ID must be a 2 letter code"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := v.Check("Countries", crud.Draft{"country_id": tc.id, "country_name": "X", "region_id": "1"}, &CountryDTO{})
			require.Equal(t, crud.ValidationErrors{"country_id": tc.want}, errs)
		})
	}
}

func TestCountrySchema_ToWireUppercases(t *testing.T) {
	schema := NewCountrySchema(newServices(t, newFakeAPI()), newValidator(t))

	payload, err := schema.ToWire(crud.ModeCreate, crud.Draft{"country_id": "nz", "country_name": "New Zealand", "region_id": "3"}, nil)

	require.NoError(t, err)
	require.Equal(t, CountryPayload{CountryID: "NZ", CountryName: "New Zealand", RegionID: 3}, payload)
}

func TestRegionSchema_RequiresName(t *testing.T) {
	schema := NewRegionSchema(newServices(t, newFakeAPI()), newValidator(t))

	errs := schema.Validate(crud.ModeCreate, crud.Draft{"region_name": "  "}, nil)

	require.Equal(t, crud.ValidationErrors{"region_name": "Region name is required"}, errs)
}

func TestJobSchema_SalaryRange(t *testing.T) {
	schema := NewJobSchema(newServices(t, newFakeAPI()), newValidator(t))

	errs := schema.Validate(crud.ModeCreate, crud.Draft{
		"job_id": "IT_PROG", "job_title": "Programmer", "min_salary": "9000", "max_salary": "4000",
	}, nil)
	require.Equal(t, crud.ValidationErrors{"max_salary": "Maximum salary cannot be less than minimum salary"}, errs)

	errs = schema.Validate(crud.ModeCreate, crud.Draft{
		"job_id": "IT_PROG", "job_title": "Programmer", "min_salary": "-1",
	}, nil)
	require.Equal(t, crud.ValidationErrors{"min_salary": "Minimum salary cannot be negative"}, errs)

	payload, err := schema.ToWire(crud.ModeCreate, crud.Draft{
		"job_id": "IT_PROG", "job_title": "Programmer", "min_salary": "4000",
	}, nil)
	require.NoError(t, err)
	want := 4000.0
	require.Equal(t, JobPayload{JobID: "IT_PROG", JobTitle: "Programmer", MinSalary: &want}, payload)
}

func TestEmployeeDelete_UnsuccessfulKeepsModalOpen(t *testing.T) {
	f := newFakeAPI()
	f.list("/employees", "employees", []map[string]any{
		{"employee_id": 100, "first_name": "Steven", "last_name": "King"},
		{"employee_id": 101, "first_name": "Neena", "last_name": "Kochhar"},
	})
	f.api.HandleFunc("/employees/{id}", func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteUnsuccessful(w, "constraint")
	}).Methods(http.MethodDelete)
	svc := newServices(t, f)
	page := crud.NewPage(NewEmployeeSchema(svc, newValidator(t)), crud.ListConfig[domain.Employee]{}, quietLogger())
	ctx := context.Background()
	require.NoError(t, page.List.Mount(ctx))

	row, _ := page.List.Find("101")
	page.Delete.Open(row)
	require.Error(t, page.Delete.Confirm(ctx))

	require.Equal(t, "Failed to delete employee. Please try again.", page.Delete.Error())
	require.True(t, page.Delete.IsOpen())
	require.Equal(t, 2, page.List.Len())
}

func TestValidator_FormatAmount(t *testing.T) {
	v := newValidator(t)
	require.Equal(t, "24,000", v.FormatAmount(decimal.NewFromInt(24000)))
	require.Equal(t, "1,234.50", v.FormatAmount(decimal.RequireFromString("1234.5")))
}

func TestReferences_OptionBuilders(t *testing.T) {
	var l domain.Location
	require.NoError(t, json.Unmarshal([]byte(`{"location_id":1700,"city":"Seattle","state_province":"Washington","street_address":"2004 Charade Rd","country_name":"United States of America"}`), &l))
	opt := LocationOption(l)
	require.Equal(t, crud.Option{Value: "1700", Label: "Seattle, Washington (2004 Charade Rd)", Group: "United States of America"}, opt)

	var j domain.Job
	require.NoError(t, json.Unmarshal([]byte(`{"job_id":"AD_PRES","job_title":"President","min_salary":20080,"max_salary":40000}`), &j))
	jobOpt := JobOption(j)
	require.Equal(t, "20080", jobOpt.Attr(AttrMinSalary))
	require.Equal(t, "40000", jobOpt.Attr(AttrMaxSalary))
}
