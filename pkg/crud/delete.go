package crud

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hr-console/pkg/apiclient"
)

// DeleteController is the confirmation modal. It has no Draft; on success
// the data callback receives only the key.
type DeleteController[T Entity] struct {
	schema    *Schema[T]
	log       *logrus.Logger
	onSuccess func(key string)
	onClose   func()

	mu         sync.Mutex
	open       bool
	submitting bool
	gen        uint64
	target     T
	errMsg     string
}

func NewDelete[T Entity](schema *Schema[T], onSuccess func(key string), onClose func(), log *logrus.Logger) *DeleteController[T] {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if onSuccess == nil {
		onSuccess = func(string) {}
	}
	if onClose == nil {
		onClose = func() {}
	}
	return &DeleteController[T]{schema: schema, log: log, onSuccess: onSuccess, onClose: onClose}
}

func (d *DeleteController[T]) Open(record T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.open = true
	d.submitting = false
	d.target = record
	d.errMsg = ""
}

func (d *DeleteController[T]) Confirm(ctx context.Context) error {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return ErrNotOpen
	}
	if d.submitting {
		d.mu.Unlock()
		return ErrSubmitInFlight
	}
	d.submitting = true
	d.errMsg = ""
	gen := d.gen
	key := d.target.Key()
	d.mu.Unlock()

	err := d.schema.Service.Delete(ctx, key)

	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return ErrStale
	}
	d.submitting = false
	if err != nil {
		d.errMsg = d.message(err)
		d.mu.Unlock()
		d.log.WithError(err).WithFields(logrus.Fields{
			"resource": d.schema.Resource,
			"key":      key,
		}).Warn("delete failed")
		return err
	}
	d.open = false
	d.gen++
	d.mu.Unlock()

	d.onSuccess(key)
	d.onClose()
	return nil
}

func (d *DeleteController[T]) message(err error) string {
	if errors.Is(err, apiclient.ErrUnsuccessful) {
		return "Failed to delete " + d.schema.Resource + ". Please try again."
	}
	if apiErr, ok := apiclient.AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return "An error occurred while trying to delete the " + d.schema.Resource + ". Please try again."
}

func (d *DeleteController[T]) Close() {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return
	}
	d.open = false
	d.gen++
	d.mu.Unlock()
	d.onClose()
}

func (d *DeleteController[T]) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

func (d *DeleteController[T]) Target() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.target, d.open
}

func (d *DeleteController[T]) Error() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.errMsg
}
