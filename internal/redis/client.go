package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Client keeps one monotonic change token per scope ("orders", "menu").
// Every mutation bumps its scope's token; clients poll the tokens and
// refetch when one moves. Losing the keys is harmless, the counters just
// restart and clients refetch once.
type Client struct {
	rdb *redis.Client
}

const (
	ScopeOrders = "orders"
	ScopeMenu   = "menu"
)

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// BumpChangeToken increments the token for the given scope.
func (c *Client) BumpChangeToken(scope string) error {
	ctx := context.Background()
	return c.rdb.Incr(ctx, "change_token:"+scope).Err()
}

// GetChangeToken returns the current token for the given scope. A scope
// that was never bumped reports 0.
func (c *Client) GetChangeToken(scope string) (int64, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "change_token:"+scope).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get change token: %w", err)
	}
	return val, nil
}

// GetChangeTokens returns the tokens for all known scopes in one call.
func (c *Client) GetChangeTokens() (map[string]int64, error) {
	tokens := make(map[string]int64)
	for _, scope := range []string{ScopeOrders, ScopeMenu} {
		val, err := c.GetChangeToken(scope)
		if err != nil {
			return nil, err
		}
		tokens[scope] = val
	}
	return tokens, nil
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
