package crud

import (
	"context"
	"strings"
	"time"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Service is the remote side of one resource.
type Service[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, payload any) (T, error)
	Update(ctx context.Context, id string, payload any) (T, error)
	Delete(ctx context.Context, id string) error
}

// FieldHint maps a substring of a server message to a field. Hints are a
// fallback for servers that do not send errors, code or meta.field.
//
// Deprecated: return a structured error from the API instead.
type FieldHint struct {
	Contains string
	Field    string
}

// Schema describes one resource to the generic modal controllers.
type Schema[T Entity] struct {
	// Resource is the lower-case singular name used in messages.
	Resource string
	// IDField is never editable once seeded from an existing record.
	IDField      string
	CreateFields []string
	EditFields   []string
	// DateFields are normalized to YYYY-MM-DD when an edit is seeded.
	DateFields []string

	Values   func(T) map[string]string
	Validate func(mode Mode, draft Draft, refs *References) ValidationErrors
	ToWire   func(mode Mode, draft Draft, refs *References) (any, error)

	// References are prefetched every time a form opens.
	References map[string]Fetcher
	// CodeFields maps structured error codes to fields when the server
	// sends a code without meta.field.
	CodeFields map[string]string
	FieldHints []FieldHint

	Service Service[T]
}

func (s *Schema[T]) Fields(mode Mode) []string {
	if mode == ModeEdit {
		return s.EditFields
	}
	return s.CreateFields
}

func (s *Schema[T]) isDate(field string) bool {
	for _, f := range s.DateFields {
		if f == field {
			return true
		}
	}
	return false
}

// Draft is the in-progress form state, every value a string as typed.
type Draft map[string]string

func (d Draft) Get(field string) string {
	return strings.TrimSpace(d[field])
}

func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
}

// NormalizeDate rewrites any date the API is known to emit as YYYY-MM-DD.
// Unrecognized input is returned trimmed.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}
