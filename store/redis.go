package store

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/authcorp/proptest/errors"
	"github.com/authcorp/proptest/observability"
)

// DefaultPrefix is the key prefix of RedisStore records.
const DefaultPrefix = "proptest:"

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	// Prefix of all keys; DefaultPrefix if empty.
	Prefix string
	// TTL of records; zero keeps them until deleted.
	TTL time.Duration
}

// RedisStore keeps failure records as JSON values in Redis, with a set
// indexing the known property names.
type RedisStore struct {
	client redis.UniversalClient
	codec  JSONCodec
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisStore creates a RedisStore on an existing client.
func NewRedisStore(client redis.UniversalClient, opts RedisOptions, logger *slog.Logger) *RedisStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
		logger: observability.LoggerOrDefault(logger),
	}
}

// DialRedis connects to the Redis server at rawURL and checks the
// connection before returning the store.
func DialRedis(ctx context.Context, rawURL string, opts RedisOptions, logger *slog.Logger) (*RedisStore, error) {
	redisOpts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, apperrors.InvalidConfiguration("invalid redis url").WithCause(err)
	}
	client := redis.NewClient(redisOpts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.StoreFailure("failed to connect to redis", err).
			WithDetail("url", sanitizeURL(rawURL))
	}

	s := NewRedisStore(client, opts, logger)
	s.logger.Info("connected to redis",
		slog.String("url", sanitizeURL(rawURL)),
		slog.Int("db", redisOpts.DB))
	return s, nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) recordKey(property string) string {
	return s.prefix + "failure:" + property
}

func (s *RedisStore) indexKey() string {
	return s.prefix + "failures"
}

func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	if rec.Property == "" {
		return apperrors.StoreFailure("record without property name", nil)
	}
	data, err := s.codec.Encode(rec)
	if err != nil {
		return apperrors.StoreFailure("failed to encode record", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.recordKey(rec.Property), data, s.ttl)
		pipe.SAdd(ctx, s.indexKey(), rec.Property)
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save failure record",
			slog.String("property", rec.Property),
			slog.String("error", err.Error()))
		return apperrors.StoreFailure("failed to save record", err).WithDetail("property", rec.Property)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, property string) (Record, bool, error) {
	data, err := s.client.Get(ctx, s.recordKey(property)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, apperrors.StoreFailure("failed to load record", err).WithDetail("property", property)
	}
	rec, err := s.codec.Decode(data)
	if err != nil {
		return Record{}, false, apperrors.StoreFailure("failed to decode record", err).WithDetail("property", property)
	}
	return rec, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, property string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.recordKey(property))
		pipe.SRem(ctx, s.indexKey(), property)
		return nil
	})
	if err != nil {
		return apperrors.StoreFailure("failed to delete record", err).WithDetail("property", property)
	}
	return nil
}

// List returns all records. Index entries whose record expired are pruned.
func (s *RedisStore) List(ctx context.Context) ([]Record, error) {
	names, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, apperrors.StoreFailure("failed to list records", err)
	}
	if len(names) == 0 {
		return nil, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = s.recordKey(name)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, apperrors.StoreFailure("failed to list records", err)
	}

	var (
		out   []Record
		stale []any
	)
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			stale = append(stale, names[i])
			continue
		}
		rec, err := s.codec.Decode([]byte(str))
		if err != nil {
			s.logger.WarnContext(ctx, "skipping undecodable failure record",
				slog.String("property", names[i]),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, rec)
	}
	if len(stale) > 0 {
		if err := s.client.SRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			s.logger.WarnContext(ctx, "failed to prune failure index", slog.String("error", err.Error()))
		}
	}
	sortRecords(out)
	return out, nil
}

func sanitizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "redis://<invalid>"
	}
	return u.Redacted()
}
