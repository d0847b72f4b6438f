package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/saeid-a/CoachMatchBack/internal/models"
)

func TestCoachCacheRoundTrip(t *testing.T) {
	_ = godotenv.Load(filepath.Join("..", "..", ".env"))
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("skipping redis test: REDIS_URL is not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, redisURL)
	if err != nil {
		t.Skipf("skipping redis test: %v", err)
	}
	defer client.Close()

	cache := NewCoachCache(client, time.Minute)
	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	if _, ok, err := cache.Get(ctx); err != nil || ok {
		t.Fatalf("expected a miss after invalidation, got ok=%v err=%v", ok, err)
	}

	specialization := "PCOS"
	want := []models.Coach{{
		ID:             uuid.New(),
		Name:           "Dr. Asha Rao",
		Specialization: &specialization,
		SeniorityLevel: models.SenioritySenior,
		Languages:      []string{"en", "hi"},
		Timezone:       "Asia/Kolkata",
	}}
	if err := cache.Set(ctx, want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := cache.Get(ctx)
	if err != nil || !ok {
		t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0].ID != want[0].ID || got[0].SeniorityLevel != models.SenioritySenior {
		t.Fatalf("unexpected cached coaches: %+v", got)
	}

	ttl, err := client.TTL(ctx, coachCatalogKey).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected TTL within a minute, got %s", ttl)
	}

	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
}
