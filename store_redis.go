package session

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the session pair in redis under a per-client namespace,
// for deployments where the shell process is restarted often and local disk
// is not durable. Both keys are written in one pipeline; when the pipeline
// fails partway the store deletes both keys rather than leave them
// inconsistent.
type RedisStore struct {
	client redis.UniversalClient
	ns     string
	logger Logger
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient, namespace string) *RedisStore {
	if namespace == "" {
		namespace = "apsas:session"
	}
	return &RedisStore{client: client, ns: namespace, logger: defLogger{}}
}

func (s *RedisStore) WithLogger(logger Logger) *RedisStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *RedisStore) tokenKey() string { return s.ns + ":" + storeKeyToken }
func (s *RedisStore) userKey() string  { return s.ns + ":" + storeKeyUser }

func (s *RedisStore) Save(ctx context.Context, token Token, user *Identity) error {
	raw, err := encodeStoredUser(user)
	if err != nil {
		if clearErr := s.Clear(ctx); clearErr != nil {
			s.logger.Warn("redis store clear after failed save: %v", clearErr)
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.tokenKey(), token.Encode(), 0)
	pipe.Set(ctx, s.userKey(), raw, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		if clearErr := s.Clear(ctx); clearErr != nil {
			s.logger.Warn("redis store clear after failed save: %v", clearErr)
		}
		return err
	}
	return nil
}

func (s *RedisStore) Read(ctx context.Context) (StoredSession, error) {
	values, err := s.client.MGet(ctx, s.tokenKey(), s.userKey()).Result()
	if err != nil {
		return StoredSession{}, err
	}

	var rawToken, rawUser string
	if v, ok := values[0].(string); ok {
		rawToken = v
	}
	if v, ok := values[1].(string); ok {
		rawUser = v
	}

	return StoredSession{
		Token: DecodeToken(rawToken),
		User:  decodeStoredUser(rawUser),
	}, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.tokenKey(), s.userKey()).Err()
}
