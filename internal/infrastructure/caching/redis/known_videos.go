package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func knownVideoKey(videoID string) string {
	return "reactions:video:known:" + videoID
}

// Lookup returns the row id remembered for videoID.
func (c *Client) Lookup(ctx context.Context, videoID string) (string, bool, error) {
	id, err := c.rdb.Get(ctx, knownVideoKey(videoID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// Remember stores the row id for videoID. An existing entry is kept.
func (c *Client) Remember(ctx context.Context, videoID, rowID string, ttl time.Duration) error {
	return c.rdb.SetNX(ctx, knownVideoKey(videoID), rowID, ttl).Err()
}
