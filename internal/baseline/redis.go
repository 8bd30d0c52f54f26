package baseline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// redisKeyPrefix namespaces baseline keys
	redisKeyPrefix = "baseline:"
	fieldText      = "text"
	fieldUpdatedAt = "updated_at"
)

// Redis keeps each baseline in a hash without expiry
type Redis struct {
	client *redis.Client
}

// OpenRedis connects using a redis:// URL and verifies the connection
func OpenRedis(ctx context.Context, url string) (*Redis, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: redis", ErrMissingDSN)
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: parse redis url: %v", ErrOpenFailed, err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis ping: %v", ErrOpenFailed, err)
	}

	return NewRedis(client), nil
}

// NewRedis wraps an existing client
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func redisKey(siteID string) string {
	return redisKeyPrefix + siteID
}

// Get returns the record for siteID
func (r *Redis) Get(ctx context.Context, siteID string) (Record, error) {
	values, err := r.client.HMGet(ctx, redisKey(siteID), fieldText, fieldUpdatedAt).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}

		return Record{}, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}

	text, ok := values[0].(string)
	if !ok {
		return Record{}, ErrNotFound
	}

	rec := Record{SiteID: siteID, Text: text}

	if ts, ok := values[1].(string); ok {
		rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}

	return rec, nil
}

// Put overwrites the hash for siteID
func (r *Redis) Put(ctx context.Context, siteID, text string) error {
	if err := validateSiteID(siteID); err != nil {
		return err
	}

	err := r.client.HSet(ctx, redisKey(siteID),
		fieldText, text,
		fieldUpdatedAt, time.Now().UTC().Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	return nil
}

// Close closes the client
func (r *Redis) Close() error {
	return r.client.Close()
}
