package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Bingham-Research-Center/flightdata/internal/types"
)

// RedisClientInterface defines the Redis operations used by our client
type RedisClientInterface interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Keys(ctx context.Context, pattern string) *redis.StringSliceCmd
	Close() error
}

// Client maintains the live aircraft-state cache
type Client struct {
	client RedisClientInterface
}

// New creates a new Redis client
func New(addr string) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{client: client}, nil
}

// NewWithClient creates a new Redis client with a custom RedisClientInterface (useful for testing)
func NewWithClient(client RedisClientInterface) *Client {
	return &Client{client: client}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}

// StoreAircraftState stores the latest aircraft state in Redis
func (c *Client) StoreAircraftState(ctx context.Context, state *types.AircraftState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal aircraft state: %w", err)
	}

	key := fmt.Sprintf("aircraft:%s", state.ICAO)
	return c.client.Set(ctx, key, data, 1*time.Hour).Err()
}

// GetAircraftState retrieves the latest aircraft state from Redis. A missing
// key yields a nil state and no error.
func (c *Client) GetAircraftState(ctx context.Context, icao string) (*types.AircraftState, error) {
	key := fmt.Sprintf("aircraft:%s", icao)
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get aircraft state: %w", err)
	}

	var state types.AircraftState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal aircraft state: %w", err)
	}
	return &state, nil
}

// DeleteAircraftState removes aircraft state from Redis
func (c *Client) DeleteAircraftState(ctx context.Context, icao string) error {
	key := fmt.Sprintf("aircraft:%s", icao)
	return c.client.Del(ctx, key).Err()
}

// ListAircraft returns the addresses with a cached state.
func (c *Client) ListAircraft(ctx context.Context) ([]string, error) {
	keys, err := c.client.Keys(ctx, "aircraft:*").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list aircraft keys: %w", err)
	}
	icaos := make([]string, 0, len(keys))
	for _, key := range keys {
		icaos = append(icaos, key[len("aircraft:"):])
	}
	return icaos, nil
}
