package session

import (
	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/iota-uz/hr-console/pkg/configuration"
)

// NewBackend builds the backend selected by SESSION_BACKEND.
func NewBackend(opts configuration.SessionOptions) (Backend, error) {
	switch opts.Backend {
	case configuration.SessionBackendFile:
		return NewFileBackend(opts.Path, opts.Key), nil
	case configuration.SessionBackendRedis:
		redisOpts, err := RedisOptions(opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisBackend(redis.NewClient(redisOpts), opts.Key, opts.RedisChannel), nil
	default:
		return nil, errors.Errorf("unknown session backend %q", opts.Backend)
	}
}
