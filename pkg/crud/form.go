package crud

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
)

type FormState int

const (
	FormClosed FormState = iota
	FormOpen
	FormSubmitting
)

func (s FormState) String() string {
	switch s {
	case FormOpen:
		return "open"
	case FormSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

// FormController is the Add/Edit modal for one resource. Every open and
// close bumps a generation counter; prefetch and submit results carrying
// an older generation are dropped.
type FormController[T Entity] struct {
	schema    *Schema[T]
	log       *logrus.Logger
	onSuccess func(T)
	onClose   func()

	mu      sync.Mutex
	state   FormState
	mode    Mode
	gen     uint64
	draft   Draft
	errs    ValidationErrors
	refs    *References
	editKey string

	listenersMu sync.Mutex
	listeners   map[uint64]func()
	nextID      uint64
}

func NewForm[T Entity](schema *Schema[T], onSuccess func(T), onClose func(), log *logrus.Logger) *FormController[T] {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if onSuccess == nil {
		onSuccess = func(T) {}
	}
	if onClose == nil {
		onClose = func() {}
	}
	return &FormController[T]{
		schema:    schema,
		log:       log,
		onSuccess: onSuccess,
		onClose:   onClose,
		listeners: map[uint64]func(){},
	}
}

// OpenAdd opens an empty Draft and blocks until reference data settles.
// ErrStale means the modal was closed or reopened while fetching.
func (f *FormController[T]) OpenAdd(ctx context.Context) error {
	draft := Draft{}
	for _, field := range f.schema.CreateFields {
		draft[field] = ""
	}
	return f.open(ctx, ModeCreate, draft, "")
}

// OpenEdit seeds the Draft from record.
func (f *FormController[T]) OpenEdit(ctx context.Context, record T) error {
	return f.OpenEditFrom(ctx, record, nil)
}

// OpenEditFrom seeds the Draft from record, taking any field the record
// left empty from fallback. View hands over its summary row this way.
func (f *FormController[T]) OpenEditFrom(ctx context.Context, record T, fallback map[string]string) error {
	values := map[string]string{}
	if f.schema.Values != nil {
		values = f.schema.Values(record)
	}
	draft := Draft{}
	for _, field := range f.schema.EditFields {
		v := values[field]
		if v == "" {
			v = fallback[field]
		}
		if f.schema.isDate(field) {
			v = NormalizeDate(v)
		}
		draft[field] = v
	}
	return f.open(ctx, ModeEdit, draft, record.Key())
}

func (f *FormController[T]) open(ctx context.Context, mode Mode, draft Draft, editKey string) error {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.state = FormOpen
	f.mode = mode
	f.draft = draft
	f.errs = ValidationErrors{}
	f.refs = nil
	f.editKey = editKey
	f.mu.Unlock()
	f.notify()

	refs := NewPrefetcher(f.schema.References, f.log).Run(ctx)

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		f.log.WithField("resource", f.schema.Resource).Debug("dropping reference data for a closed modal")
		return ErrStale
	}
	f.refs = refs
	f.mu.Unlock()
	f.notify()
	return nil
}

// Set edits one field and clears only that field's error.
func (f *FormController[T]) Set(field, value string) error {
	f.mu.Lock()
	switch f.state {
	case FormClosed:
		f.mu.Unlock()
		return ErrNotOpen
	case FormSubmitting:
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	if _, ok := f.draft[field]; !ok {
		f.mu.Unlock()
		return errors.Wrap(ErrUnknownField, field)
	}
	if f.mode == ModeEdit && field == f.schema.IDField {
		f.mu.Unlock()
		return errors.Wrap(ErrImmutableField, field)
	}
	f.draft[field] = value
	delete(f.errs, field)
	f.mu.Unlock()
	f.notify()
	return nil
}

// ApplyNested records a record created from inside this modal: it is
// prepended to list, indexed under its group and, when field is set,
// selected in the Draft. Observers see a single change.
func (f *FormController[T]) ApplyNested(list string, opt Option, field string) error {
	f.mu.Lock()
	switch f.state {
	case FormClosed:
		f.mu.Unlock()
		return ErrNotOpen
	case FormSubmitting:
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	if field != "" {
		if _, ok := f.draft[field]; !ok {
			f.mu.Unlock()
			return errors.Wrap(ErrUnknownField, field)
		}
	}
	if f.refs == nil {
		f.refs = NewReferences()
	}
	f.refs.Prepend(list, opt)
	if field != "" {
		f.draft[field] = opt.Value
		delete(f.errs, field)
	}
	f.mu.Unlock()
	f.notify()
	return nil
}

// Submit validates locally, then issues exactly one create or update. On
// failure the modal stays open with the Draft intact.
func (f *FormController[T]) Submit(ctx context.Context) error {
	f.mu.Lock()
	switch f.state {
	case FormClosed:
		f.mu.Unlock()
		return ErrNotOpen
	case FormSubmitting:
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	fields := f.schema.Fields(f.mode)
	draft := f.draft.Clone()
	refs := f.refs
	mode := f.mode
	editKey := f.editKey

	if f.schema.Validate != nil {
		if errs := f.schema.Validate(mode, draft, refs).restrict(fields); len(errs) > 0 {
			f.errs = errs
			f.mu.Unlock()
			f.log.WithField("resource", f.schema.Resource).Debug("local validation failed")
			f.notify()
			return errs
		}
	}

	var payload any = map[string]string(draft)
	if f.schema.ToWire != nil {
		var err error
		payload, err = f.schema.ToWire(mode, draft, refs)
		if err != nil {
			var verrs ValidationErrors
			if errors.As(err, &verrs) {
				f.errs = verrs.restrict(fields)
			} else {
				f.errs = ValidationErrors{GeneralKey: err.Error()}
			}
			f.mu.Unlock()
			f.notify()
			return err
		}
	}

	f.state = FormSubmitting
	gen := f.gen
	f.mu.Unlock()
	f.notify()

	var (
		record T
		err    error
	)
	if mode == ModeEdit {
		record, err = f.schema.Service.Update(ctx, editKey, payload)
	} else {
		record, err = f.schema.Service.Create(ctx, payload)
	}

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		f.log.WithField("resource", f.schema.Resource).Debug("dropping submit result for a closed modal")
		return ErrStale
	}
	if err != nil {
		f.errs = MapSubmitError(err, fields, f.schema.CodeFields, f.schema.FieldHints, f.log)
		f.state = FormOpen
		f.mu.Unlock()
		f.notify()
		return err
	}
	f.reset()
	f.mu.Unlock()

	f.onSuccess(record)
	f.onClose()
	f.notify()
	return nil
}

// Close discards the Draft. An in-flight submit keeps running but its
// result is dropped.
func (f *FormController[T]) Close() {
	f.mu.Lock()
	if f.state == FormClosed {
		f.mu.Unlock()
		return
	}
	f.reset()
	f.mu.Unlock()
	f.onClose()
	f.notify()
}

func (f *FormController[T]) reset() {
	f.gen++
	f.state = FormClosed
	f.draft = nil
	f.errs = nil
	f.refs = nil
	f.editKey = ""
}

func (f *FormController[T]) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *FormController[T]) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

func (f *FormController[T]) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Clone()
}

func (f *FormController[T]) Errors() ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs.Clone()
}

// References is nil until the prefetch of the current opening settles.
func (f *FormController[T]) References() *References {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refs
}

func (f *FormController[T]) Fields() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.schema.Fields(f.mode)
}

func (f *FormController[T]) Schema() *Schema[T] {
	return f.schema
}

func (f *FormController[T]) Subscribe(fn func()) func() {
	f.listenersMu.Lock()
	defer f.listenersMu.Unlock()
	f.nextID++
	id := f.nextID
	f.listeners[id] = fn
	return func() {
		f.listenersMu.Lock()
		defer f.listenersMu.Unlock()
		delete(f.listeners, id)
	}
}

func (f *FormController[T]) notify() {
	f.listenersMu.Lock()
	fns := make([]func(), 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.listenersMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
