// Package session keeps the bearer token the console authenticates with and
// tells interested parties when it appears, disappears, or changes under them.
package session

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hr-console/pkg/eventbus"
)

// Backend persists the token. Load returns "" when no token is stored.
// Watch blocks until ctx is done, calling notify whenever the stored token
// may have been changed by someone else.
type Backend interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	Watch(ctx context.Context, notify func()) error
}

// ChangedEvent is published whenever the authentication state changes.
// External is set when the change was observed through Watch rather than
// made by this process.
type ChangedEvent struct {
	Authenticated bool
	External      bool
}

// ExpiredEvent is published after the API rejected the token. Shells react
// by sending the user back to the login screen.
type ExpiredEvent struct{}

type Store struct {
	backend Backend
	bus     eventbus.EventBus
	log     *logrus.Logger

	mu    sync.RWMutex
	token string
}

func NewStore(ctx context.Context, backend Backend, bus eventbus.EventBus, log *logrus.Logger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if bus == nil {
		bus = eventbus.NewEventPublisher(log)
	}
	token, err := backend.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}
	return &Store{
		backend: backend,
		bus:     bus,
		log:     log,
		token:   token,
	}, nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a token is present. Presence is the only
// signal; the token is never inspected locally.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}
	if err := s.backend.Save(ctx, token); err != nil {
		return errors.Wrap(err, "save session")
	}
	s.apply(token, false)
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Clear(ctx); err != nil {
		return errors.Wrap(err, "clear session")
	}
	s.apply("", false)
	return nil
}

// Expire purges the token and publishes ExpiredEvent. The event goes out
// even if the backend could not be cleared so the user is never left on a
// protected screen with a dead token.
func (s *Store) Expire(ctx context.Context) error {
	err := s.backend.Clear(ctx)
	if err != nil {
		s.log.WithError(err).Warn("session: failed to clear expired token")
	}
	s.apply("", false)
	s.bus.Publish(&ExpiredEvent{})
	if err != nil {
		return errors.Wrap(err, "expire session")
	}
	return nil
}

// Subscribe registers fn for every ChangedEvent and returns a func that
// removes it.
func (s *Store) Subscribe(fn func(*ChangedEvent)) func() {
	return s.bus.Listen(fn)
}

func (s *Store) OnExpired(fn func(*ExpiredEvent)) func() {
	return s.bus.Listen(fn)
}

// Reload re-reads the backend and publishes an external ChangedEvent if
// the token differs from the one held in memory.
func (s *Store) Reload(ctx context.Context) error {
	token, err := s.backend.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "reload session")
	}
	s.apply(token, true)
	return nil
}

// Watch follows external changes until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	return s.backend.Watch(ctx, func() {
		if err := s.Reload(ctx); err != nil {
			s.log.WithError(err).Warn("session: reload after external change failed")
		}
	})
}

func (s *Store) apply(token string, external bool) {
	s.mu.Lock()
	if s.token == token {
		s.mu.Unlock()
		return
	}
	s.token = token
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"authenticated": token != "",
		"external":      external,
	}).Debug("session changed")
	s.bus.Publish(&ChangedEvent{Authenticated: token != "", External: external})
}
