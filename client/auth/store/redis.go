package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/AndreasSchmid1988/workpro-frontend/internal/logger"
)

const (
	ErrorLookupToken = "failed to look up token pair in redis"
	ErrorSaveToken   = "failed to save token pair to redis"
	ErrorRemoveToken = "failed to remove token pair from redis"
)

// RedisStore keeps the pair in two keys so that several processes share one session.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) keys() (string, string) {
	return r.prefix + AccessTokenKey, r.prefix + RefreshTokenKey
}

// LookupToken reports false when neither key is set or redis is unreachable;
// use Lookup to tell both apart.
func (r *RedisStore) LookupToken(ctx context.Context) (*oauth2.Token, bool) {
	token, err := r.Lookup(ctx)
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrorLookupToken, zap.Error(err))
		return nil, false
	}
	if token == nil {
		return nil, false
	}
	return token, true
}

// Lookup returns the stored pair, nil when none is stored, or the redis error.
func (r *RedisStore) Lookup(ctx context.Context) (*oauth2.Token, error) {
	accessKey, refreshKey := r.keys()
	values, err := r.client.MGet(ctx, accessKey, refreshKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrorLookupToken, err)
	}
	access, _ := values[0].(string)
	refresh, _ := values[1].(string)
	if access == "" && refresh == "" {
		return nil, nil
	}
	return pair(&oauth2.Token{AccessToken: access, RefreshToken: refresh}), nil
}

// AddToken writes both keys in one transaction.
func (r *RedisStore) AddToken(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return r.RemoveToken(ctx)
	}
	accessKey, refreshKey := r.keys()
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, accessKey, token.AccessToken, 0)
		pipe.Set(ctx, refreshKey, token.RefreshToken, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrorSaveToken, err)
	}
	return nil
}

func (r *RedisStore) RemoveToken(ctx context.Context) error {
	accessKey, refreshKey := r.keys()
	if err := r.client.Del(ctx, accessKey, refreshKey).Err(); err != nil {
		return fmt.Errorf("%s: %w", ErrorRemoveToken, err)
	}
	return nil
}
