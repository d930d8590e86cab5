package crud

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hr-console/pkg/apiclient"
)

func apiResource(t *testing.T, handler http.HandlerFunc) *apiclient.Resource[item] {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := apiclient.New(srv.URL, apiclient.WithLogger(quietLogger()))
	require.NoError(t, err)
	return apiclient.NewResource[item](client, "items", "item", "items")
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

type callbacks struct {
	order   []string
	records []item
}

func (c *callbacks) success(r item) {
	c.order = append(c.order, "success")
	c.records = append(c.records, r)
}

func (c *callbacks) close() {
	c.order = append(c.order, "close")
}

func TestForm_OpenAddSeedsEmptyDraftAndReferences(t *testing.T) {
	svc := &stubService{}
	schema := newSchema(svc)
	schema.References = map[string]Fetcher{
		"regions": func(context.Context) ([]Option, error) {
			return []Option{{Value: "1", Label: "Europe"}}, nil
		},
	}
	form := NewForm(schema, nil, nil, quietLogger())

	require.NoError(t, form.OpenAdd(context.Background()))

	require.Equal(t, FormOpen, form.State())
	require.Equal(t, ModeCreate, form.Mode())
	require.Equal(t, Draft{"id": "", "name": "", "date": ""}, form.Draft())
	require.Empty(t, form.Errors())
	require.Equal(t, []Option{{Value: "1", Label: "Europe"}}, form.References().Options("regions"))
}

func TestForm_InvalidDraftIsNeverSubmitted(t *testing.T) {
	svc := &stubService{}
	cb := &callbacks{}
	form := NewForm(newSchema(svc), cb.success, cb.close, quietLogger())
	require.NoError(t, form.OpenAdd(context.Background()))

	err := form.Submit(context.Background())

	require.ErrorIs(t, err, ErrValidation)
	require.Empty(t, svc.Calls())
	require.Equal(t, FormOpen, form.State())
	require.Equal(t, ValidationErrors{"id": "ID is required", "name": "Name is required"}, form.Errors())
	require.Empty(t, cb.order)
}

func TestForm_SetClearsOnlyThatFieldsError(t *testing.T) {
	form := NewForm(newSchema(&stubService{}), nil, nil, quietLogger())
	require.NoError(t, form.OpenAdd(context.Background()))
	require.Error(t, form.Submit(context.Background()))

	require.NoError(t, form.Set("name", "Widget"))

	errs := form.Errors()
	require.False(t, errs.Has("name"))
	require.True(t, errs.Has("id"))
	require.Equal(t, "Widget", form.Draft()["name"])
}

func TestForm_SetRejectsUnknownFieldAndClosedForm(t *testing.T) {
	form := NewForm(newSchema(&stubService{}), nil, nil, quietLogger())
	require.ErrorIs(t, form.Set("name", "x"), ErrNotOpen)
	require.ErrorIs(t, form.Submit(context.Background()), ErrNotOpen)

	require.NoError(t, form.OpenAdd(context.Background()))
	require.ErrorIs(t, form.Set("salary", "1"), ErrUnknownField)
}

func TestForm_CreateSuccessNotifiesThenCloses(t *testing.T) {
	svc := &stubService{}
	cb := &callbacks{}
	form := NewForm(newSchema(svc), cb.success, cb.close, quietLogger())
	require.NoError(t, form.OpenAdd(context.Background()))
	require.NoError(t, form.Set("id", "7"))
	require.NoError(t, form.Set("name", "  Widget "))

	require.NoError(t, form.Submit(context.Background()))

	require.Equal(t, []string{"create"}, svc.Calls())
	require.Equal(t, []string{"success", "close"}, cb.order)
	require.Equal(t, "7", cb.records[0].ID)
	require.Equal(t, FormClosed, form.State())
	require.Empty(t, form.Draft())
}

func TestForm_ServerFailureKeepsModalOpen(t *testing.T) {
	svc := &stubService{
		create: func(context.Context, any) (item, error) {
			return item{}, errors.New("connection reset")
		},
	}
	cb := &callbacks{}
	form := NewForm(newSchema(svc), cb.success, cb.close, quietLogger())
	require.NoError(t, form.OpenAdd(context.Background()))
	require.NoError(t, form.Set("id", "7"))
	require.NoError(t, form.Set("name", "Widget"))

	require.Error(t, form.Submit(context.Background()))

	require.Equal(t, FormOpen, form.State())
	require.Equal(t, ValidationErrors{GeneralKey: DefaultSubmitError}, form.Errors())
	require.Equal(t, Draft{"id": "7", "name": "Widget", "date": ""}, form.Draft())
	require.Empty(t, cb.order)

	// The same draft can be retried.
	svc.create = nil
	require.NoError(t, form.Submit(context.Background()))
	require.Equal(t, []string{"success", "close"}, cb.order)
}

func TestForm_ServerFieldErrorsLandOnFields(t *testing.T) {
	schema := newSchema(nil)
	schema.Service = apiResource(t, respond(http.StatusBadRequest,
		`{"success":false,"message":"Validation failed","errors":{"name":"Name already taken","salary":"ignored field"}}`))
	form := NewForm(schema, nil, nil, quietLogger())
	require.NoError(t, form.OpenAdd(context.Background()))
	require.NoError(t, form.Set("id", "7"))
	require.NoError(t, form.Set("name", "Widget"))

	require.Error(t, form.Submit(context.Background()))

	require.Equal(t, ValidationErrors{"name": "Name already taken", GeneralKey: "ignored field"}, form.Errors())
	require.Equal(t, FormOpen, form.State())
}

func TestForm_EditNormalizesDatesAndLocksID(t *testing.T) {
	svc := &stubService{}
	cb := &callbacks{}
	form := NewForm(newSchema(svc), cb.success, cb.close, quietLogger())

	require.NoError(t, form.OpenEdit(context.Background(), item{ID: "3", Name: "Old", Date: "2024-03-05T00:00:00.000Z"}))

	require.Equal(t, ModeEdit, form.Mode())
	require.Equal(t, "2024-03-05", form.Draft()["date"])
	require.ErrorIs(t, form.Set("id", "4"), ErrImmutableField)

	require.NoError(t, form.Set("name", "New"))
	require.NoError(t, form.Submit(context.Background()))
	require.Equal(t, []string{"update:3"}, svc.Calls())
	require.Equal(t, item{ID: "3", Name: "New", Date: "2024-03-05"}, cb.records[0])
}

func TestForm_DoubleSubmitIsRejected(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	svc := &stubService{
		create: func(_ context.Context, payload any) (item, error) {
			close(entered)
			<-release
			return item{ID: "1", Name: "x"}, nil
		},
	}
	form := NewForm(newSchema(svc), nil, nil, quietLogger())
	require.NoError(t, form.OpenAdd(context.Background()))
	require.NoError(t, form.Set("id", "1"))
	require.NoError(t, form.Set("name", "x"))

	done := make(chan error, 1)
	go func() { done <- form.Submit(context.Background()) }()
	<-entered

	require.Equal(t, FormSubmitting, form.State())
	require.ErrorIs(t, form.Submit(context.Background()), ErrSubmitInFlight)
	require.ErrorIs(t, form.Set("name", "y"), ErrSubmitInFlight)
	require.ErrorIs(t, form.ApplyNested("names", Option{Value: "y", Label: "y"}, "name"), ErrSubmitInFlight)
	require.Equal(t, "x", form.Draft()["name"])

	close(release)
	require.NoError(t, <-done)
	require.Equal(t, []string{"create"}, svc.Calls())
}

func TestForm_CloseDuringSubmitDropsResult(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	svc := &stubService{
		create: func(context.Context, any) (item, error) {
			close(entered)
			<-release
			return item{ID: "1"}, nil
		},
	}
	cb := &callbacks{}
	form := NewForm(newSchema(svc), cb.success, cb.close, quietLogger())
	require.NoError(t, form.OpenAdd(context.Background()))
	require.NoError(t, form.Set("id", "1"))
	require.NoError(t, form.Set("name", "x"))

	done := make(chan error, 1)
	go func() { done <- form.Submit(context.Background()) }()
	<-entered
	form.Close()
	close(release)

	require.ErrorIs(t, <-done, ErrStale)
	require.Equal(t, []string{"close"}, cb.order)
	require.Equal(t, FormClosed, form.State())
}

func TestForm_ReopenIgnoresEarlierPrefetch(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	schema := newSchema(&stubService{})
	schema.References = map[string]Fetcher{
		"regions": func(context.Context) ([]Option, error) {
			if calls.Add(1) == 1 {
				close(entered)
				<-release
				return []Option{{Value: "first", Label: "First"}}, nil
			}
			return []Option{{Value: "second", Label: "Second"}}, nil
		},
	}
	form := NewForm(schema, nil, nil, quietLogger())

	firstOpen := make(chan error, 1)
	go func() { firstOpen <- form.OpenAdd(context.Background()) }()
	<-entered

	form.Close()
	require.NoError(t, form.OpenAdd(context.Background()))
	close(release)

	require.ErrorIs(t, <-firstOpen, ErrStale)
	require.Equal(t, FormOpen, form.State())
	require.Equal(t, []Option{{Value: "second", Label: "Second"}}, form.References().Options("regions"))
}

func TestForm_ReferencesAreNilUntilPrefetchSettles(t *testing.T) {
	release := make(chan struct{})
	schema := newSchema(&stubService{})
	schema.References = map[string]Fetcher{
		"regions": func(context.Context) ([]Option, error) {
			<-release
			return nil, nil
		},
	}
	form := NewForm(schema, nil, nil, quietLogger())

	done := make(chan error, 1)
	go func() { done <- form.OpenAdd(context.Background()) }()
	require.Eventually(t, func() bool { return form.State() == FormOpen }, time.Second, time.Millisecond)
	require.Nil(t, form.References())

	close(release)
	require.NoError(t, <-done)
	require.True(t, form.References().Has("regions"))
}

func TestForm_ApplyNestedIsOneChange(t *testing.T) {
	schema := newSchema(&stubService{})
	schema.CreateFields = append(schema.CreateFields, "region_id")
	schema.References = map[string]Fetcher{
		"regions": func(context.Context) ([]Option, error) {
			return []Option{{Value: "1", Label: "Europe"}}, nil
		},
	}
	form := NewForm(schema, nil, nil, quietLogger())
	require.NoError(t, form.OpenAdd(context.Background()))

	changes := 0
	form.Subscribe(func() { changes++ })

	created := Option{Value: "9", Label: "Antarctica"}
	require.NoError(t, form.ApplyNested("regions", created, "region_id"))

	require.Equal(t, 1, changes)
	require.Equal(t, "9", form.Draft()["region_id"])
	require.Equal(t, created, form.References().Options("regions")[0])

	require.NoError(t, form.ApplyNested("regions", Option{Value: "10", Label: "Oceania"}, ""))
	require.Equal(t, "9", form.Draft()["region_id"])
	require.Len(t, form.References().Options("regions"), 3)
}

func TestForm_ToWireValidationErrorsBlockSubmit(t *testing.T) {
	svc := &stubService{}
	schema := newSchema(svc)
	schema.ToWire = func(_ Mode, d Draft, _ *References) (any, error) {
		return nil, ValidationErrors{"date": "Date is invalid"}
	}
	form := NewForm(schema, nil, nil, quietLogger())
	require.NoError(t, form.OpenAdd(context.Background()))
	require.NoError(t, form.Set("id", "1"))
	require.NoError(t, form.Set("name", "x"))

	require.ErrorIs(t, form.Submit(context.Background()), ErrValidation)

	require.Empty(t, svc.Calls())
	require.Equal(t, ValidationErrors{"date": "Date is invalid"}, form.Errors())
}
