package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
)

// Resource is the CRUD family of one API resource. Responses are envelopes
// keyed by the singular name for one record and the plural for a list.
type Resource[T any] struct {
	client   *Client
	path     string
	singular string
	plural   string
}

func NewResource[T any](client *Client, path, singular, plural string) *Resource[T] {
	return &Resource[T]{
		client:   client,
		path:     "/" + strings.Trim(path, "/"),
		singular: singular,
		plural:   plural,
	}
}

func (r *Resource[T]) Name() string {
	return r.singular
}

func (r *Resource[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.List(ctx, "", nil)
}

// List fetches a collection below the resource path, e.g. "employee/42".
func (r *Resource[T]) List(ctx context.Context, sub string, query url.Values) ([]T, error) {
	var items []T
	if err := r.call(ctx, http.MethodGet, r.sub(sub), query, nil, r.plural, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (r *Resource[T]) GetByID(ctx context.Context, id string) (T, error) {
	var item T
	err := r.call(ctx, http.MethodGet, r.byID(id), nil, nil, r.singular, &item)
	return item, err
}

func (r *Resource[T]) Create(ctx context.Context, payload any) (T, error) {
	var item T
	err := r.call(ctx, http.MethodPost, r.path, nil, payload, r.singular, &item)
	return item, err
}

func (r *Resource[T]) Update(ctx context.Context, id string, payload any) (T, error) {
	var item T
	err := r.call(ctx, http.MethodPut, r.byID(id), nil, payload, r.singular, &item)
	return item, err
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.client.Do(ctx, http.MethodDelete, r.byID(id), nil, nil, nil)
}

func (r *Resource[T]) byID(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r *Resource[T]) sub(sub string) string {
	sub = strings.Trim(sub, "/")
	if sub == "" {
		return r.path
	}
	return r.path + "/" + sub
}

func (r *Resource[T]) call(ctx context.Context, method, path string, query url.Values, payload any, key string, out any) error {
	var envelope map[string]json.RawMessage
	if err := r.client.Do(ctx, method, path, query, payload, &envelope); err != nil {
		return err
	}
	raw, ok := envelope[key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return &Error{kind: ErrMalformed, Message: "response has no " + key}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{kind: ErrMalformed, Cause: errors.Wrapf(err, "decode %s", key)}
	}
	return nil
}
