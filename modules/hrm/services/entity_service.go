package services

import (
	"context"

	"github.com/iota-uz/hr-console/pkg/apiclient"
	"github.com/iota-uz/hr-console/pkg/eventbus"
)

type keyed interface {
	Key() string
}

// EntityService is the remote CRUD family of one resource. Mutations pass
// the guard first and publish a ChangedEvent once the API confirmed them.
type EntityService[T keyed] struct {
	res       *apiclient.Resource[T]
	publisher eventbus.EventBus
	guard     Guard
}

func NewEntityService[T keyed](res *apiclient.Resource[T], publisher eventbus.EventBus, guard Guard) *EntityService[T] {
	if guard == nil {
		guard = allowAll
	}
	return &EntityService[T]{
		res:       res,
		publisher: publisher,
		guard:     guard,
	}
}

func (s *EntityService[T]) Name() string {
	return s.res.Name()
}

func (s *EntityService[T]) Count(ctx context.Context) (int, error) {
	items, err := s.res.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (s *EntityService[T]) GetAll(ctx context.Context) ([]T, error) {
	return s.res.GetAll(ctx)
}

func (s *EntityService[T]) GetByID(ctx context.Context, id string) (T, error) {
	return s.res.GetByID(ctx, id)
}

func (s *EntityService[T]) Create(ctx context.Context, payload any) (T, error) {
	var zero T
	if err := s.guard(ctx, s.Name(), "create"); err != nil {
		return zero, err
	}
	created, err := s.res.Create(ctx, payload)
	if err != nil {
		return zero, err
	}
	s.publish(ActionCreated, created.Key())
	return created, nil
}

func (s *EntityService[T]) Update(ctx context.Context, id string, payload any) (T, error) {
	var zero T
	if err := s.guard(ctx, s.Name(), "update"); err != nil {
		return zero, err
	}
	updated, err := s.res.Update(ctx, id, payload)
	if err != nil {
		return zero, err
	}
	s.publish(ActionUpdated, id)
	return updated, nil
}

func (s *EntityService[T]) Delete(ctx context.Context, id string) error {
	if err := s.guard(ctx, s.Name(), "delete"); err != nil {
		return err
	}
	if err := s.res.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ActionDeleted, id)
	return nil
}

func (s *EntityService[T]) publish(action Action, key string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(&ChangedEvent{
		Resource: s.Name(),
		Action:   action,
		Key:      key,
	})
}
