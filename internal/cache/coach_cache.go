package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/saeid-a/CoachMatchBack/internal/models"
)

const coachCatalogKey = "coaches:all"

// CoachCache keeps the coach catalog in Redis. Slots and bookings are never
// cached; they change under concurrent writers.
type CoachCache interface {
	Get(ctx context.Context) ([]models.Coach, bool, error)
	Set(ctx context.Context, coaches []models.Coach) error
	Invalidate(ctx context.Context) error
}

type coachCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCoachCache(client *redis.Client, ttl time.Duration) CoachCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &coachCache{
		client: client,
		ttl:    ttl,
	}
}

// Get reports ok=false on a cache miss.
func (c *coachCache) Get(ctx context.Context) ([]models.Coach, bool, error) {
	data, err := c.client.Get(ctx, coachCatalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var coaches []models.Coach
	if err := json.Unmarshal(data, &coaches); err != nil {
		return nil, false, err
	}
	return coaches, true, nil
}

func (c *coachCache) Set(ctx context.Context, coaches []models.Coach) error {
	if coaches == nil {
		coaches = []models.Coach{}
	}
	data, err := json.Marshal(coaches)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, coachCatalogKey, data, c.ttl).Err()
}

func (c *coachCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, coachCatalogKey).Err()
}

// Connect parses a redis:// URL and checks the server answers.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
