package cache

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisTimeout = 5 * time.Second

// RedisStorage shares cached results between several server instances.
type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStorage(addr string, prefix string, ttl time.Duration) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  redisTimeout,
		WriteTimeout: redisTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	err := client.Ping(ctx).Err()
	if err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "connecting to redis at %s", addr)
	}

	return &RedisStorage{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

func (s *RedisStorage) key(h uint64) string {
	return fmt.Sprintf("%s%016x", s.prefix, h)
}

func (s *RedisStorage) set(h uint64, data []byte) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	err := s.client.Set(ctx, s.key(h), data, s.ttl).Err()
	if err != nil {
		sentry.CaptureException(err)
		fmt.Printf("%+v\n", errors.WithStack(err))
		return false
	}
	return true
}

func (s *RedisStorage) get(h uint64) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.key(h)).Bytes()
	if err != nil {
		if err != redis.Nil {
			sentry.CaptureException(err)
		}
		return nil, false
	}
	return data, true
}

func (s *RedisStorage) Save(h uint64, v interface{}) bool {
	data, err := jsoniter.Marshal(v)
	if err != nil {
		sentry.CaptureException(err)
		return false
	}
	return s.set(h, data)
}

func (s *RedisStorage) Load(h uint64, v interface{}) bool {
	data, ok := s.get(h)
	if !ok {
		return false
	}

	err := jsoniter.Unmarshal(data, v)
	if err != nil {
		sentry.CaptureException(err)
		return false
	}
	return true
}

func (s *RedisStorage) SaveRaw(h uint64, r *bytes.Buffer) bool {
	return s.set(h, r.Bytes())
}

func (s *RedisStorage) LoadRaw(h uint64, w *bytes.Buffer) bool {
	data, ok := s.get(h)
	if !ok {
		return false
	}
	w.Write(data)
	return true
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
