package session

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// RedisBackend shares one session between every console attached to the
// same redis. Mutations are announced on channel so peers can Reload.
type RedisBackend struct {
	client  *redis.Client
	key     string
	channel string
}

// RedisOptions accepts both redis:// URLs and bare host:port addresses.
func RedisOptions(rawURL string) (*redis.Options, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("redis url is empty")
	}
	if !strings.Contains(rawURL, "://") {
		return &redis.Options{Addr: rawURL}, nil
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	return opts, nil
}

func NewRedisBackend(client *redis.Client, key, channel string) *RedisBackend {
	return &RedisBackend{client: client, key: key, channel: channel}
}

func (b *RedisBackend) Load(ctx context.Context) (string, error) {
	token, err := b.client.Get(ctx, b.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "redis get")
	}
	return token, nil
}

func (b *RedisBackend) Save(ctx context.Context, token string) error {
	if err := b.client.Set(ctx, b.key, token, 0).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return b.announce(ctx, "set")
}

func (b *RedisBackend) Clear(ctx context.Context) error {
	if err := b.client.Del(ctx, b.key).Err(); err != nil {
		return errors.Wrap(err, "redis del")
	}
	return b.announce(ctx, "clear")
}

func (b *RedisBackend) Watch(ctx context.Context, notify func()) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer func() { _ = sub.Close() }()
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return errors.Wrap(err, "redis subscribe")
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			notify()
		}
	}
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

func (b *RedisBackend) announce(ctx context.Context, op string) error {
	if b.channel == "" {
		return nil
	}
	if err := b.client.Publish(ctx, b.channel, op).Err(); err != nil {
		return errors.Wrap(err, "redis publish")
	}
	return nil
}
