package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type RedisCache struct {
	Client *redis.Client
	ttl    time.Duration
}

// NewRedisCache accepts either a redis:// URL or a bare host:port address.
func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	opts := &redis.Options{
		Addr:     url,
		Password: "",
		DB:       0,
	}
	if strings.Contains(url, "://") {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, err
		}
		opts = parsed
	}
	return NewRedisCacheWithClient(redis.NewClient(opts), ttl), nil
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, ttl: ttl}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.Client.Close()
}

/*
* browser sessions
 */

// SaveSession writes the credential and identity in one MULTI/EXEC.
func (r *RedisCache) SaveSession(ctx context.Context, sid, token, userInfo string) error {
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, MakeSessionTokenKey(sid), token, r.ttl)
		pipe.Set(ctx, MakeSessionUserInfoKey(sid), userInfo, r.ttl)
		return nil
	})
	return err
}

// LoadSession returns empty strings for keys that do not exist.
func (r *RedisCache) LoadSession(ctx context.Context, sid string) (token, userInfo string, err error) {
	vals, err := r.Client.MGet(ctx, MakeSessionTokenKey(sid), MakeSessionUserInfoKey(sid)).Result()
	if err != nil {
		return "", "", err
	}
	if len(vals) != 2 {
		return "", "", errors.New("unexpected session payload")
	}
	token, _ = vals[0].(string)
	userInfo, _ = vals[1].(string)
	return token, userInfo, nil
}

func (r *RedisCache) ClearSession(ctx context.Context, sid string) error {
	return r.Client.Del(ctx, MakeSessionTokenKey(sid), MakeSessionUserInfoKey(sid)).Err()
}

func (r *RedisCache) SessionToken(ctx context.Context, sid string) (string, error) {
	token, err := r.Client.Get(ctx, MakeSessionTokenKey(sid)).Result()
	if err != nil {
		// no session yet
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return token, nil
}
