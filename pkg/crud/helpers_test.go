package crud

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type item struct {
	ID   string
	Name string
	Date string
}

func (i item) Key() string { return i.ID }

func itemValues(i item) map[string]string {
	return map[string]string{"id": i.ID, "name": i.Name, "date": i.Date}
}

type stubService struct {
	mu       sync.Mutex
	items    []item
	getAll   func(ctx context.Context) ([]item, error)
	getByID  func(ctx context.Context, id string) (item, error)
	create   func(ctx context.Context, payload any) (item, error)
	update   func(ctx context.Context, id string, payload any) (item, error)
	remove   func(ctx context.Context, id string) error
	calls    []string
	payloads []any
}

func (s *stubService) record(call string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	if payload != nil {
		s.payloads = append(s.payloads, payload)
	}
}

func (s *stubService) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubService) GetAll(ctx context.Context) ([]item, error) {
	s.record("getAll", nil)
	if s.getAll != nil {
		return s.getAll(ctx)
	}
	return s.items, nil
}

func (s *stubService) GetByID(ctx context.Context, id string) (item, error) {
	s.record("getByID:"+id, nil)
	if s.getByID != nil {
		return s.getByID(ctx, id)
	}
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return item{}, nil
}

func (s *stubService) Create(ctx context.Context, payload any) (item, error) {
	s.record("create", payload)
	if s.create != nil {
		return s.create(ctx, payload)
	}
	d := payload.(map[string]string)
	return item{ID: d["id"], Name: d["name"], Date: d["date"]}, nil
}

func (s *stubService) Update(ctx context.Context, id string, payload any) (item, error) {
	s.record("update:"+id, payload)
	if s.update != nil {
		return s.update(ctx, id, payload)
	}
	d := payload.(map[string]string)
	return item{ID: id, Name: d["name"], Date: d["date"]}, nil
}

func (s *stubService) Delete(ctx context.Context, id string) error {
	s.record("delete:"+id, nil)
	if s.remove != nil {
		return s.remove(ctx, id)
	}
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func requireName(mode Mode, d Draft, _ *References) ValidationErrors {
	errs := ValidationErrors{}
	if d.Get("name") == "" {
		errs["name"] = "Name is required"
	}
	if mode == ModeCreate && d.Get("id") == "" {
		errs["id"] = "ID is required"
	}
	return errs
}

func newSchema(svc *stubService) *Schema[item] {
	return &Schema[item]{
		Resource:     "item",
		IDField:      "id",
		CreateFields: []string{"id", "name", "date"},
		EditFields:   []string{"id", "name", "date"},
		DateFields:   []string{"date"},
		Values:       itemValues,
		Validate:     requireName,
		Service:      svc,
	}
}
