package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hr-console/pkg/configuration"
	"github.com/iota-uz/hr-console/pkg/eventbus"
)

type eventLog struct {
	mu      sync.Mutex
	changed []ChangedEvent
	expired int
}

func (l *eventLog) onChanged(e *ChangedEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changed = append(l.changed, *e)
}

func (l *eventLog) onExpired(*ExpiredEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expired++
}

func (l *eventLog) snapshot() ([]ChangedEvent, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ChangedEvent(nil), l.changed...), l.expired
}

func newTestStore(t *testing.T, backend Backend) (*Store, *eventLog) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	store, err := NewStore(context.Background(), backend, eventbus.NewEventPublisher(log), log)
	require.NoError(t, err)
	events := &eventLog{}
	store.Subscribe(events.onChanged)
	store.OnExpired(events.onExpired)
	return store, events
}

func TestStore_SetTokenAndClear(t *testing.T) {
	store, events := newTestStore(t, NewMemoryBackend(""))
	ctx := context.Background()
	require.False(t, store.IsAuthenticated())

	require.NoError(t, store.SetToken(ctx, "abc"))
	require.True(t, store.IsAuthenticated())
	require.Equal(t, "abc", store.Token())

	// Same token again is not a change.
	require.NoError(t, store.SetToken(ctx, "abc"))

	require.NoError(t, store.Clear(ctx))
	require.False(t, store.IsAuthenticated())

	changed, expired := events.snapshot()
	require.Equal(t, []ChangedEvent{{Authenticated: true}, {Authenticated: false}}, changed)
	require.Zero(t, expired)
}

func TestStore_ExpirePublishesExpired(t *testing.T) {
	backend := NewMemoryBackend("stale")
	store, events := newTestStore(t, backend)
	require.True(t, store.IsAuthenticated())

	require.NoError(t, store.Expire(context.Background()))

	require.False(t, store.IsAuthenticated())
	token, _ := backend.Load(context.Background())
	require.Empty(t, token)
	changed, expired := events.snapshot()
	require.Equal(t, []ChangedEvent{{Authenticated: false}}, changed)
	require.Equal(t, 1, expired)
}

func TestStore_UnsubscribeStopsDelivery(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryBackend(""))
	calls := 0
	cancel := store.Subscribe(func(*ChangedEvent) { calls++ })
	require.NoError(t, store.SetToken(context.Background(), "a"))
	cancel()
	require.NoError(t, store.SetToken(context.Background(), "b"))
	require.Equal(t, 1, calls)
}

func TestStore_WatchPublishesExternalChanges(t *testing.T) {
	backend := NewMemoryBackend("")
	store, events := newTestStore(t, backend)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx) }()

	require.Eventually(t, func() bool {
		backend.SetExternal("from-another-tab")
		return store.IsAuthenticated()
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	changed, _ := events.snapshot()
	require.Contains(t, changed, ChangedEvent{Authenticated: true, External: true})
}

func TestFileBackend_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	backend := NewFileBackend(path, "token")
	ctx := context.Background()

	token, err := backend.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, token)

	require.NoError(t, backend.Save(ctx, "secret"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, err = backend.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "secret", token)

	require.NoError(t, backend.Clear(ctx))
	require.NoFileExists(t, path)
}

func TestFileBackend_PreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark"}`), 0o600))
	backend := NewFileBackend(path, "token")
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, "secret"))
	require.NoError(t, backend.Clear(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"theme":"dark"}`, string(data))
}

func TestFileBackend_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))

	_, err := NewFileBackend(path, "token").Load(context.Background())
	require.Error(t, err)
}

func TestFileBackend_WatchSeesOtherWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	mine := NewFileBackend(path, "token")
	theirs := NewFileBackend(path, "token")
	store, events := newTestStore(t, mine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = store.Watch(ctx) }()

	require.Eventually(t, func() bool {
		_ = theirs.Save(context.Background(), "shared")
		return store.Token() == "shared"
	}, 2*time.Second, 20*time.Millisecond)

	changed, _ := events.snapshot()
	require.Contains(t, changed, ChangedEvent{Authenticated: true, External: true})
}

func TestRedisOptions(t *testing.T) {
	opts, err := RedisOptions("localhost:6379")
	require.NoError(t, err)
	require.Equal(t, "localhost:6379", opts.Addr)

	opts, err = RedisOptions("redis://:pw@cache:6380/2")
	require.NoError(t, err)
	require.Equal(t, "cache:6380", opts.Addr)
	require.Equal(t, "pw", opts.Password)
	require.Equal(t, 2, opts.DB)

	_, err = RedisOptions(" ")
	require.Error(t, err)
}

func TestNewBackend(t *testing.T) {
	backend, err := NewBackend(configuration.SessionOptions{
		Backend: configuration.SessionBackendFile,
		Path:    filepath.Join(t.TempDir(), "s.json"),
		Key:     "token",
	})
	require.NoError(t, err)
	require.IsType(t, &FileBackend{}, backend)

	backend, err = NewBackend(configuration.SessionOptions{
		Backend:      configuration.SessionBackendRedis,
		RedisURL:     "localhost:6379",
		Key:          "token",
		RedisChannel: "hrconsole:session",
	})
	require.NoError(t, err)
	require.IsType(t, &RedisBackend{}, backend)
	require.NoError(t, backend.(*RedisBackend).Close())

	_, err = NewBackend(configuration.SessionOptions{Backend: "cookie"})
	require.Error(t, err)
}

func TestRedisBackend_Live(t *testing.T) {
	url := os.Getenv("HRCONSOLE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("HRCONSOLE_TEST_REDIS_URL not set")
	}
	backend, err := NewBackend(configuration.SessionOptions{
		Backend:      configuration.SessionBackendRedis,
		RedisURL:     url,
		Key:          "hrconsole:test:token",
		RedisChannel: "hrconsole:test:session",
	})
	require.NoError(t, err)
	ctx := context.Background()
	t.Cleanup(func() { _ = backend.Clear(ctx) })

	require.NoError(t, backend.Save(ctx, "secret"))
	token, err := backend.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "secret", token)
	require.NoError(t, backend.Clear(ctx))
	token, err = backend.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, token)
}
