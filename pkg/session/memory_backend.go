package session

import (
	"context"
	"sync"
)

// MemoryBackend keeps the token in process. SetExternal simulates another
// process changing the stored token.
type MemoryBackend struct {
	mu       sync.Mutex
	token    string
	watchers []chan struct{}
}

func NewMemoryBackend(token string) *MemoryBackend {
	return &MemoryBackend{token: token}
}

func (b *MemoryBackend) Load(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token, nil
}

func (b *MemoryBackend) Save(ctx context.Context, token string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = token
	return nil
}

func (b *MemoryBackend) Clear(ctx context.Context) error {
	return b.Save(ctx, "")
}

func (b *MemoryBackend) SetExternal(token string) {
	b.mu.Lock()
	b.token = token
	watchers := append([]chan struct{}(nil), b.watchers...)
	b.mu.Unlock()
	for _, w := range watchers {
		select {
		case w <- struct{}{}:
		default:
		}
	}
}

func (b *MemoryBackend) Watch(ctx context.Context, notify func()) error {
	w := make(chan struct{}, 1)
	b.mu.Lock()
	b.watchers = append(b.watchers, w)
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, other := range b.watchers {
			if other == w {
				b.watchers = append(b.watchers[:i:i], b.watchers[i+1:]...)
				break
			}
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w:
			notify()
		}
	}
}
