package crud

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hr-console/pkg/apiclient"
)

// ViewController is the read-only modal. It fetches the full record on
// open since list rows may be summaries.
type ViewController[T Entity] struct {
	schema *Schema[T]
	log    *logrus.Logger

	mu      sync.Mutex
	open    bool
	gen     uint64
	summary T
	record  T
	loaded  bool
	errMsg  string
}

func NewView[T Entity](schema *Schema[T], log *logrus.Logger) *ViewController[T] {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ViewController[T]{schema: schema, log: log}
}

func (v *ViewController[T]) Open(ctx context.Context, summary T) error {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.open = true
	v.summary = summary
	v.loaded = false
	v.errMsg = ""
	var zero T
	v.record = zero
	v.mu.Unlock()

	record, err := v.schema.Service.GetByID(ctx, summary.Key())

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return ErrStale
	}
	if err != nil {
		if errors.Is(err, apiclient.ErrUnsuccessful) {
			v.errMsg = "Failed to load " + v.schema.Resource + " details"
		} else {
			v.errMsg = "Error loading " + v.schema.Resource + " details. Please try again."
		}
		v.log.WithError(err).WithField("resource", v.schema.Resource).Warn("failed to load details")
		return err
	}
	v.record = record
	v.loaded = true
	return nil
}

// Record returns the fetched record, or false while loading or after a
// failed fetch.
func (v *ViewController[T]) Record() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.record, v.loaded
}

func (v *ViewController[T]) Summary() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.summary
}

func (v *ViewController[T]) Error() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errMsg
}

func (v *ViewController[T]) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.open
}

func (v *ViewController[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.open {
		return
	}
	v.open = false
	v.gen++
}

// Edit closes the view and opens form on the fetched record. Fields the
// fetch did not return are taken from the summary row.
func (v *ViewController[T]) Edit(ctx context.Context, form *FormController[T]) error {
	v.mu.Lock()
	if !v.open {
		v.mu.Unlock()
		return ErrNotOpen
	}
	record := v.summary
	if v.loaded {
		record = v.record
	}
	fallback := map[string]string{}
	if v.schema.Values != nil {
		fallback = v.schema.Values(v.summary)
	}
	v.open = false
	v.gen++
	v.mu.Unlock()

	return form.OpenEditFrom(ctx, record, fallback)
}
